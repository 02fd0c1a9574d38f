package main

import (
	"net/http"

	"github.com/julienschmidt/httprouter"
	"go.uber.org/zap"
)

func (api *APIHandler) GetAllComments(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	comments, err := api.services.Comments.GetAll(r.Context())
	if err != nil {
		api.sendServiceError(w, r, err, "get all comments")
		return
	}
	total := len(comments)
	api.send(w, r, http.StatusOK, "All comments fetched successfully.", &total, comments)
}

func (api *APIHandler) GetOneComment(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	id := ps.ByName("id")
	if ok := api.idsHandler.IsValid(id, CommentIDPrefix); !ok {
		api.sendError(w, r, http.StatusBadRequest, "comment id provided is not valid", Comment{})
		return
	}
	comment, err := api.services.Comments.GetByID(r.Context(), id)
	if err != nil {
		api.sendServiceError(w, r, err, "get the comment")
		return
	}
	api.send(w, r, http.StatusOK, "Comment fetched successfully.", nil, comment)
}

// CreateComment leaves a comment on an existing book.
func (api *APIHandler) CreateComment(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	var comment Comment
	if err := DecodeRequestBody(r, &comment); err != nil {
		api.sendError(w, r, http.StatusBadRequest, "failed to create the comment", comment)
		return
	}
	if err := ValidateCommentRequestBody(&comment, true); err != nil {
		api.sendError(w, r, http.StatusBadRequest, "failed to create the comment", err.Error())
		return
	}

	comment, err := api.services.Comments.Add(r.Context(), comment.Content, comment.BookID)
	if err != nil {
		api.sendServiceError(w, r, err, "create the comment")
		return
	}
	api.GetLoggerFromContext(r.Context()).Info("success to create comment", zap.String("comment.id", comment.ID))
	api.send(w, r, http.StatusCreated, "Comment created successfully.", nil, comment)
}

// UpdateComment replaces the content of a comment. The book it belongs to cannot change.
func (api *APIHandler) UpdateComment(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	id := ps.ByName("id")
	if ok := api.idsHandler.IsValid(id, CommentIDPrefix); !ok {
		api.sendError(w, r, http.StatusBadRequest, "comment id provided is not valid", Comment{})
		return
	}
	var comment Comment
	if err := DecodeRequestBody(r, &comment); err != nil {
		api.sendError(w, r, http.StatusBadRequest, "failed to update the comment", comment)
		return
	}
	if err := ValidateCommentRequestBody(&comment, false); err != nil {
		api.sendError(w, r, http.StatusBadRequest, "failed to update the comment", err.Error())
		return
	}

	comment, err := api.services.Comments.UpdateContent(r.Context(), id, comment.Content)
	if err != nil {
		api.sendServiceError(w, r, err, "update the comment")
		return
	}
	api.send(w, r, http.StatusOK, "Comment updated successfully.", nil, comment)
}

func (api *APIHandler) DeleteOneComment(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	id := ps.ByName("id")
	if ok := api.idsHandler.IsValid(id, CommentIDPrefix); !ok {
		api.sendError(w, r, http.StatusBadRequest, "comment id provided is not valid", Comment{})
		return
	}
	if err := api.services.Comments.Delete(r.Context(), id); err != nil {
		api.sendServiceError(w, r, err, "delete the comment")
		return
	}
	api.send(w, r, http.StatusOK, "Comment deleted successfully.", nil, Comment{ID: id})
}

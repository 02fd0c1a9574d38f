package main

import (
	"net/http"

	"github.com/julienschmidt/httprouter"
	"go.uber.org/zap"
)

// GetAuthors lists all authors or fetches one by its name and surname.
//
//	@Summary	List authors or find one by name and surname
//	@Tags		authors
//	@Produce	json
//	@Param		name	query		string	false	"author name"
//	@Param		surname	query		string	false	"author surname"
//	@Success	200		{object}	APIResponse
//	@Failure	404		{object}	APIError
//	@Router		/v1/authors [get]
func (api *APIHandler) GetAuthors(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	q := r.URL.Query()
	if q.Has("name") || q.Has("surname") {
		author, err := api.services.Authors.GetByName(r.Context(), q.Get("name"), q.Get("surname"))
		if err != nil {
			api.sendServiceError(w, r, err, "get author by name")
			return
		}
		api.send(w, r, http.StatusOK, "Author fetched successfully.", nil, author)
		return
	}

	authors, err := api.services.Authors.GetAll(r.Context())
	if err != nil {
		api.sendServiceError(w, r, err, "get all authors")
		return
	}
	total := len(authors)
	api.send(w, r, http.StatusOK, "All authors fetched successfully.", &total, authors)
}

// GetOneAuthor fetches an author by id.
//
//	@Summary	Get an author
//	@Tags		authors
//	@Produce	json
//	@Param		id	path		string	true	"author id"
//	@Success	200	{object}	APIResponse
//	@Failure	400	{object}	APIError
//	@Failure	404	{object}	APIError
//	@Router		/v1/authors/{id} [get]
func (api *APIHandler) GetOneAuthor(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	id := ps.ByName("id")
	if ok := api.idsHandler.IsValid(id, AuthorIDPrefix); !ok {
		api.sendError(w, r, http.StatusBadRequest, "author id provided is not valid", Author{})
		return
	}
	author, err := api.services.Authors.GetByID(r.Context(), id)
	if err != nil {
		api.sendServiceError(w, r, err, "get author")
		return
	}
	api.send(w, r, http.StatusOK, "Author fetched successfully.", nil, author)
}

// CreateAuthor adds a new author.
//
//	@Summary	Create an author
//	@Tags		authors
//	@Accept		json
//	@Produce	json
//	@Param		author	body		Author	true	"author to create"
//	@Success	201		{object}	APIResponse
//	@Failure	400		{object}	APIError
//	@Failure	409		{object}	APIError
//	@Router		/v1/authors [post]
func (api *APIHandler) CreateAuthor(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	var author Author
	if err := DecodeRequestBody(r, &author); err != nil {
		api.GetLoggerFromContext(r.Context()).Error("failed to create author", zap.Error(err))
		api.sendError(w, r, http.StatusBadRequest, "failed to create the author", author)
		return
	}
	if err := ValidateAuthorRequestBody(&author); err != nil {
		api.sendError(w, r, http.StatusBadRequest, "failed to create the author", err.Error())
		return
	}

	author, err := api.services.Authors.Add(r.Context(), author)
	if err != nil {
		api.sendServiceError(w, r, err, "create the author")
		return
	}
	api.GetLoggerFromContext(r.Context()).Info("success to create author", zap.String("author.id", author.ID))
	api.send(w, r, http.StatusCreated, "Author created successfully.", nil, author)
}

// UpdateAuthor renames an author.
//
//	@Summary	Update an author
//	@Tags		authors
//	@Accept		json
//	@Produce	json
//	@Param		id		path		string	true	"author id"
//	@Param		author	body		Author	true	"new name and surname"
//	@Success	200		{object}	APIResponse
//	@Failure	404		{object}	APIError
//	@Failure	409		{object}	APIError
//	@Router		/v1/authors/{id} [put]
func (api *APIHandler) UpdateAuthor(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	id := ps.ByName("id")
	if ok := api.idsHandler.IsValid(id, AuthorIDPrefix); !ok {
		api.sendError(w, r, http.StatusBadRequest, "author id provided is not valid", Author{})
		return
	}
	var author Author
	if err := DecodeRequestBody(r, &author); err != nil {
		api.sendError(w, r, http.StatusBadRequest, "failed to update the author", author)
		return
	}
	if err := ValidateAuthorRequestBody(&author); err != nil {
		api.sendError(w, r, http.StatusBadRequest, "failed to update the author", err.Error())
		return
	}

	author, err := api.services.Authors.Update(r.Context(), id, author)
	if err != nil {
		api.sendServiceError(w, r, err, "update the author")
		return
	}
	api.GetLoggerFromContext(r.Context()).Info("success to update author", zap.String("author.id", id))
	api.send(w, r, http.StatusOK, "Author updated successfully.", nil, author)
}

// DeleteOneAuthor removes an author no book refers to.
//
//	@Summary	Delete an author
//	@Tags		authors
//	@Produce	json
//	@Param		id	path		string	true	"author id"
//	@Success	200	{object}	APIResponse
//	@Failure	404	{object}	APIError
//	@Failure	409	{object}	APIError
//	@Router		/v1/authors/{id} [delete]
func (api *APIHandler) DeleteOneAuthor(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	id := ps.ByName("id")
	if ok := api.idsHandler.IsValid(id, AuthorIDPrefix); !ok {
		api.sendError(w, r, http.StatusBadRequest, "author id provided is not valid", Author{})
		return
	}
	if err := api.services.Authors.Delete(r.Context(), id); err != nil {
		api.sendServiceError(w, r, err, "delete the author")
		return
	}
	api.GetLoggerFromContext(r.Context()).Info("success to delete author", zap.String("author.id", id))
	api.send(w, r, http.StatusOK, "Author deleted successfully.", nil, Author{ID: id})
}

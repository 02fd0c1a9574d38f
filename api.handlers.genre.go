package main

import (
	"net/http"

	"github.com/julienschmidt/httprouter"
	"go.uber.org/zap"
)

// GetGenres lists all genres or fetches one by its name.
//
//	@Summary	List genres or find one by name
//	@Tags		genres
//	@Produce	json
//	@Param		name	query		string	false	"genre name"
//	@Success	200		{object}	APIResponse
//	@Failure	404		{object}	APIError
//	@Router		/v1/genres [get]
func (api *APIHandler) GetGenres(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	q := r.URL.Query()
	if q.Has("name") {
		genre, err := api.services.Genres.GetByName(r.Context(), q.Get("name"))
		if err != nil {
			api.sendServiceError(w, r, err, "get genre by name")
			return
		}
		api.send(w, r, http.StatusOK, "Genre fetched successfully.", nil, genre)
		return
	}

	genres, err := api.services.Genres.GetAll(r.Context())
	if err != nil {
		api.sendServiceError(w, r, err, "get all genres")
		return
	}
	total := len(genres)
	api.send(w, r, http.StatusOK, "All genres fetched successfully.", &total, genres)
}

// GetOneGenre fetches a genre by id.
//
//	@Summary	Get a genre
//	@Tags		genres
//	@Produce	json
//	@Param		id	path		string	true	"genre id"
//	@Success	200	{object}	APIResponse
//	@Failure	400	{object}	APIError
//	@Failure	404	{object}	APIError
//	@Router		/v1/genres/{id} [get]
func (api *APIHandler) GetOneGenre(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	id := ps.ByName("id")
	if ok := api.idsHandler.IsValid(id, GenreIDPrefix); !ok {
		api.sendError(w, r, http.StatusBadRequest, "genre id provided is not valid", Genre{})
		return
	}
	genre, err := api.services.Genres.GetByID(r.Context(), id)
	if err != nil {
		api.sendServiceError(w, r, err, "get genre")
		return
	}
	api.send(w, r, http.StatusOK, "Genre fetched successfully.", nil, genre)
}

// CreateGenre adds a new genre.
//
//	@Summary	Create a genre
//	@Tags		genres
//	@Accept		json
//	@Produce	json
//	@Param		genre	body		Genre	true	"genre to create"
//	@Success	201		{object}	APIResponse
//	@Failure	400		{object}	APIError
//	@Failure	409		{object}	APIError
//	@Router		/v1/genres [post]
func (api *APIHandler) CreateGenre(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	var genre Genre
	if err := DecodeRequestBody(r, &genre); err != nil {
		api.GetLoggerFromContext(r.Context()).Error("failed to create genre", zap.Error(err))
		api.sendError(w, r, http.StatusBadRequest, "failed to create the genre", genre)
		return
	}
	if err := ValidateGenreRequestBody(&genre); err != nil {
		api.sendError(w, r, http.StatusBadRequest, "failed to create the genre", err.Error())
		return
	}

	genre, err := api.services.Genres.Add(r.Context(), genre)
	if err != nil {
		api.sendServiceError(w, r, err, "create the genre")
		return
	}
	api.GetLoggerFromContext(r.Context()).Info("success to create genre", zap.String("genre.id", genre.ID))
	api.send(w, r, http.StatusCreated, "Genre created successfully.", nil, genre)
}

// UpdateGenre renames a genre.
//
//	@Summary	Update a genre
//	@Tags		genres
//	@Accept		json
//	@Produce	json
//	@Param		id		path		string	true	"genre id"
//	@Param		genre	body		Genre	true	"new name"
//	@Success	200		{object}	APIResponse
//	@Failure	404		{object}	APIError
//	@Failure	409		{object}	APIError
//	@Router		/v1/genres/{id} [put]
func (api *APIHandler) UpdateGenre(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	id := ps.ByName("id")
	if ok := api.idsHandler.IsValid(id, GenreIDPrefix); !ok {
		api.sendError(w, r, http.StatusBadRequest, "genre id provided is not valid", Genre{})
		return
	}
	var genre Genre
	if err := DecodeRequestBody(r, &genre); err != nil {
		api.sendError(w, r, http.StatusBadRequest, "failed to update the genre", genre)
		return
	}
	if err := ValidateGenreRequestBody(&genre); err != nil {
		api.sendError(w, r, http.StatusBadRequest, "failed to update the genre", err.Error())
		return
	}

	genre, err := api.services.Genres.Update(r.Context(), id, genre)
	if err != nil {
		api.sendServiceError(w, r, err, "update the genre")
		return
	}
	api.GetLoggerFromContext(r.Context()).Info("success to update genre", zap.String("genre.id", id))
	api.send(w, r, http.StatusOK, "Genre updated successfully.", nil, genre)
}

// DeleteOneGenre removes a genre no book refers to.
//
//	@Summary	Delete a genre
//	@Tags		genres
//	@Produce	json
//	@Param		id	path		string	true	"genre id"
//	@Success	200	{object}	APIResponse
//	@Failure	404	{object}	APIError
//	@Failure	409	{object}	APIError
//	@Router		/v1/genres/{id} [delete]
func (api *APIHandler) DeleteOneGenre(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	id := ps.ByName("id")
	if ok := api.idsHandler.IsValid(id, GenreIDPrefix); !ok {
		api.sendError(w, r, http.StatusBadRequest, "genre id provided is not valid", Genre{})
		return
	}
	if err := api.services.Genres.Delete(r.Context(), id); err != nil {
		api.sendServiceError(w, r, err, "delete the genre")
		return
	}
	api.GetLoggerFromContext(r.Context()).Info("success to delete genre", zap.String("genre.id", id))
	api.send(w, r, http.StatusOK, "Genre deleted successfully.", nil, Genre{ID: id})
}

package main

import (
	"github.com/julienschmidt/httprouter"
)

// SetupCatalogRoutes injects authors, genres, books and comments endpoints.
func (api *APIHandler) SetupCatalogRoutes(router *httprouter.Router, m *MiddlewareMap) *httprouter.Router {
	router.RedirectTrailingSlash = true
	router.GET("/v1/authors", m.catalog(api.GetAuthors))
	router.POST("/v1/authors", m.catalog(api.CreateAuthor))
	router.GET("/v1/authors/:id", m.catalog(api.GetOneAuthor))
	router.PUT("/v1/authors/:id", m.catalog(api.UpdateAuthor))
	router.DELETE("/v1/authors/:id", m.catalog(api.DeleteOneAuthor))

	router.GET("/v1/genres", m.catalog(api.GetGenres))
	router.POST("/v1/genres", m.catalog(api.CreateGenre))
	router.GET("/v1/genres/:id", m.catalog(api.GetOneGenre))
	router.PUT("/v1/genres/:id", m.catalog(api.UpdateGenre))
	router.DELETE("/v1/genres/:id", m.catalog(api.DeleteOneGenre))

	router.GET("/v1/books", m.catalog(api.GetAllBooks))
	router.POST("/v1/books", m.catalog(api.CreateBook))
	router.GET("/v1/books/:id", m.catalog(api.GetOneBook))
	router.PUT("/v1/books/:id", m.catalog(api.UpdateBook))
	router.DELETE("/v1/books/:id", m.catalog(api.DeleteOneBook))
	router.GET("/v1/books/:id/comments", m.catalog(api.GetBookComments))

	router.GET("/v1/comments", m.catalog(api.GetAllComments))
	router.POST("/v1/comments", m.catalog(api.CreateComment))
	router.GET("/v1/comments/:id", m.catalog(api.GetOneComment))
	router.PUT("/v1/comments/:id", m.catalog(api.UpdateComment))
	router.DELETE("/v1/comments/:id", m.catalog(api.DeleteOneComment))
	return router
}

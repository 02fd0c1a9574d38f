package main

import (
	"net/http"
	"time"

	"github.com/julienschmidt/httprouter"
	"go.uber.org/zap"
)

// CreateBook adds a new book written by an existing author in an existing genre.
//
//	@Summary	Create a book
//	@Tags		books
//	@Accept		json
//	@Produce	json
//	@Param		book	body		Book	true	"book with authorId and genreId"
//	@Success	201		{object}	APIResponse
//	@Failure	400		{object}	APIError
//	@Failure	404		{object}	APIError
//	@Router		/v1/books [post]
func (api *APIHandler) CreateBook(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	book := Book{}
	logger := api.GetLoggerFromContext(r.Context())
	err := DecodeRequestBody(r, &book)
	if err != nil {
		logger.Error("failed to create book", zap.Error(err))
		api.sendError(w, r, http.StatusBadRequest, "failed to create the book", book)
		return
	}

	err = ValidateBookRequestBody(&book)
	if err != nil {
		logger.Error("failed to create book", zap.Error(err))
		api.sendError(w, r, http.StatusBadRequest, "failed to create the book", err.Error())
		return
	}

	book, err = api.services.Books.Add(r.Context(), book)
	if err != nil {
		api.sendServiceError(w, r, err, "create the book")
		return
	}
	logger.Info("success to create book", zap.String("book.id", book.ID))
	api.send(w, r, http.StatusCreated, "Book created successfully.", nil, book)
}

// GetAllBooks lists all books, or the books with a given title.
//
//	@Summary	List books
//	@Tags		books
//	@Produce	json
//	@Param		title	query		string	false	"exact title"
//	@Success	200		{object}	APIResponse
//	@Router		/v1/books [get]
//
//nolint:bodyclose
func (api *APIHandler) GetAllBooks(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	logger := api.GetLoggerFromContext(r.Context())
	// listing embeds authors and genres, so it may outlast the default write timeout.
	if api.config.Server.WriteTimeout > 0 {
		rc := http.NewResponseController(w)
		if err := rc.SetWriteDeadline(time.Now().Add(2 * api.config.Server.WriteTimeout)); err != nil {
			logger.Debug("http: failed to update the write deadline", zap.Error(err))
		}
	}

	var books []Book
	var err error
	if title := r.URL.Query().Get("title"); title != "" {
		books, err = api.services.Books.GetByTitle(r.Context(), title)
	} else {
		books, err = api.services.Books.GetAll(r.Context())
	}
	if err != nil {
		api.sendServiceError(w, r, err, "get all books")
		return
	}
	logger.Info("success to get all books")
	total := len(books)
	api.send(w, r, http.StatusOK, "All books fetched successfully.", &total, books)
}

// GetOneBook fetches a book with its author and genre.
//
//	@Summary	Get a book
//	@Tags		books
//	@Produce	json
//	@Param		id	path		string	true	"book id"
//	@Success	200	{object}	APIResponse
//	@Failure	400	{object}	APIError
//	@Failure	404	{object}	APIError
//	@Router		/v1/books/{id} [get]
func (api *APIHandler) GetOneBook(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	id := ps.ByName("id")
	if ok := api.idsHandler.IsValid(id, BookIDPrefix); !ok {
		api.GetLoggerFromContext(r.Context()).Error("book id provided is not valid", zap.String("book.id", id))
		api.sendError(w, r, http.StatusBadRequest, "book id provided is not valid", Book{})
		return
	}
	book, err := api.services.Books.GetByID(r.Context(), id)
	if err != nil {
		api.sendServiceError(w, r, err, "get the book")
		return
	}
	api.GetLoggerFromContext(r.Context()).Info("success to get book", zap.String("book.id", id))
	api.send(w, r, http.StatusOK, "Book fetched successfully.", nil, book)
}

// DeleteOneBook removes a book and its comments.
//
//	@Summary	Delete a book
//	@Tags		books
//	@Produce	json
//	@Param		id	path		string	true	"book id"
//	@Success	200	{object}	APIResponse
//	@Failure	404	{object}	APIError
//	@Router		/v1/books/{id} [delete]
func (api *APIHandler) DeleteOneBook(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	id := ps.ByName("id")
	if ok := api.idsHandler.IsValid(id, BookIDPrefix); !ok {
		api.sendError(w, r, http.StatusBadRequest, "book id provided is not valid", Book{})
		return
	}
	if err := api.services.Books.Delete(r.Context(), id); err != nil {
		api.sendServiceError(w, r, err, "delete the book")
		return
	}
	api.GetLoggerFromContext(r.Context()).Info("success to delete book", zap.String("book.id", id))
	api.send(w, r, http.StatusOK, "Book deleted successfully.", nil, Book{ID: id})
}

// UpdateBook replaces the title, author and genre of a book.
//
//	@Summary	Update a book
//	@Tags		books
//	@Accept		json
//	@Produce	json
//	@Param		id		path		string	true	"book id"
//	@Param		book	body		Book	true	"book with authorId and genreId"
//	@Success	200		{object}	APIResponse
//	@Failure	404		{object}	APIError
//	@Router		/v1/books/{id} [put]
func (api *APIHandler) UpdateBook(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	var book Book
	id := ps.ByName("id")
	if ok := api.idsHandler.IsValid(id, BookIDPrefix); !ok {
		api.sendError(w, r, http.StatusBadRequest, "book id provided is not valid", Book{})
		return
	}
	err := DecodeRequestBody(r, &book)
	if err != nil {
		api.sendError(w, r, http.StatusBadRequest, "failed to update the book", book)
		return
	}

	err = ValidateBookRequestBody(&book)
	if err != nil {
		api.sendError(w, r, http.StatusBadRequest, "failed to update the book", err.Error())
		return
	}

	book, err = api.services.Books.Update(r.Context(), id, book)
	if err != nil {
		api.sendServiceError(w, r, err, "update the book")
		return
	}
	api.GetLoggerFromContext(r.Context()).Info("success to update book", zap.String("book.id", id))
	api.send(w, r, http.StatusOK, "Book updated successfully.", nil, book)
}

// GetBookComments lists the comments left on a book.
//
//	@Summary	List the comments of a book
//	@Tags		books
//	@Produce	json
//	@Param		id	path		string	true	"book id"
//	@Success	200	{object}	APIResponse
//	@Router		/v1/books/{id}/comments [get]
func (api *APIHandler) GetBookComments(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	id := ps.ByName("id")
	if ok := api.idsHandler.IsValid(id, BookIDPrefix); !ok {
		api.sendError(w, r, http.StatusBadRequest, "book id provided is not valid", []Comment{})
		return
	}
	comments, err := api.services.Comments.GetByBookID(r.Context(), id)
	if err != nil {
		api.sendServiceError(w, r, err, "get the book comments")
		return
	}
	total := len(comments)
	api.send(w, r, http.StatusOK, "Book comments fetched successfully.", &total, comments)
}

package main

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/julienschmidt/httprouter"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

// This file contains unit tests for each api handler.

// newTestAPI returns an api handler over a seeded catalog and its router.
func newTestAPI(t *testing.T, config *Config) (*APIHandler, *httprouter.Router, *testCatalog) {
	t.Helper()
	catalog := seededCatalog(t)
	api := NewAPIHandler(zap.NewNop(), config, &Statistics{started: NewMockClocker().Now()}, NewMockClocker(), NewIDsHandler(), catalog.services)
	router := api.SetupRoutes(httprouter.New(), api.NewMiddlewareMap())
	return api, router, catalog
}

// testResponse is the union of the success and error models.
type testResponse struct {
	RequestID string          `json:"requestid"`
	Status    int             `json:"status"`
	Message   string          `json:"message"`
	Total     *int            `json:"total"`
	Data      json.RawMessage `json:"data"`
}

func doRequest(t *testing.T, h http.Handler, method, target string, body interface{}) (*http.Response, testResponse) {
	t.Helper()
	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewBuffer(payload)
	}
	req := httptest.NewRequest(method, target, reader)
	w := httptest.NewRecorder()
	h.ServeHTTP(w, req)
	res := w.Result()
	t.Cleanup(func() { res.Body.Close() })

	var out testResponse
	data, err := io.ReadAll(res.Body)
	require.NoError(t, err)
	if strings.HasPrefix(res.Header.Get("Content-Type"), "application/json") {
		require.NoError(t, json.Unmarshal(data, &out), string(data))
	}
	return res, out
}

// TestStatusHandler ensures api handler can provides its status.
func TestStatusHandler(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/status", nil)
	w := httptest.NewRecorder()
	api := NewAPIHandler(zap.NewNop(), nil, &Statistics{started: NewMockClocker().Now()}, NewMockClocker(), NewIDsHandler(), nil)
	api.Status(w, req, httprouter.Params{})
	res := w.Result()
	defer res.Body.Close()
	data, err := io.ReadAll(res.Body)
	assert.NoError(t, err)
	assert.Equal(t, http.StatusOK, res.StatusCode)
	assert.Equal(t, "application/json; charset=UTF-8", res.Header.Get("Content-Type"))
	m := make(map[string]interface{})
	err = json.Unmarshal(data, &m)
	assert.NoError(t, err)

	_, ok := m["requestid"]
	assert.True(t, ok)

	v, ok := m["status"]
	assert.True(t, ok)
	assert.Equal(t, "up & running since 0 mins", v)

	v, ok = m["message"]
	assert.True(t, ok)
	assert.Equal(t, v, "Hello. Library catalog api is available. Enjoy :)")
}

// TestIndexHandler ensures the index redirects to the status.
func TestIndexHandler(t *testing.T) {
	_, router, _ := newTestAPI(t, nil)
	res, _ := doRequest(t, router, http.MethodGet, "/", nil)
	assert.Equal(t, http.StatusSeeOther, res.StatusCode)
	assert.Equal(t, "/status", res.Header.Get("Location"))
}

func TestNotFoundHandler(t *testing.T) {
	_, router, _ := newTestAPI(t, nil)
	res, out := doRequest(t, router, http.MethodGet, "/v2/nothing", nil)
	assert.Equal(t, http.StatusNotFound, res.StatusCode)
	assert.Equal(t, "the requested resource does not exist", out.Message)
}

func TestAuthorHandlers(t *testing.T) {
	_, router, catalog := newTestAPI(t, nil)
	ctx := context.Background()

	t.Run("list", func(t *testing.T) {
		res, out := doRequest(t, router, http.MethodGet, "/v1/authors", nil)
		assert.Equal(t, http.StatusOK, res.StatusCode)
		require.NotNil(t, out.Total)
		assert.Equal(t, 3, *out.Total)
		var authors []Author
		require.NoError(t, json.Unmarshal(out.Data, &authors))
		assert.Len(t, authors, 3)
	})

	t.Run("find by name", func(t *testing.T) {
		res, out := doRequest(t, router, http.MethodGet, "/v1/authors?name=Lev&surname=Tolstoy", nil)
		assert.Equal(t, http.StatusOK, res.StatusCode)
		var author Author
		require.NoError(t, json.Unmarshal(out.Data, &author))
		assert.Equal(t, "Tolstoy", author.Surname)

		res, out = doRequest(t, router, http.MethodGet, "/v1/authors?name=Leo&surname=Tolstoy", nil)
		assert.Equal(t, http.StatusNotFound, res.StatusCode)
		assert.Equal(t, "No author found by provided name", out.Message)
	})

	t.Run("create", func(t *testing.T) {
		res, out := doRequest(t, router, http.MethodPost, "/v1/authors", Author{Name: "Anton", Surname: "Chekhov"})
		assert.Equal(t, http.StatusCreated, res.StatusCode)
		assert.Equal(t, "application/json; charset=UTF-8", res.Header.Get("Content-Type"))
		assert.NotEmpty(t, out.RequestID)
		var author Author
		require.NoError(t, json.Unmarshal(out.Data, &author))
		assert.True(t, strings.HasPrefix(author.ID, "a:"))
	})

	t.Run("create duplicate", func(t *testing.T) {
		res, out := doRequest(t, router, http.MethodPost, "/v1/authors", Author{Name: "Anton", Surname: "Chekhov"})
		assert.Equal(t, http.StatusConflict, res.StatusCode)
		assert.Equal(t, "Can not add author because author already exists!", out.Message)
	})

	t.Run("create with missing field", func(t *testing.T) {
		res, out := doRequest(t, router, http.MethodPost, "/v1/authors", Author{Name: "Anton"})
		assert.Equal(t, http.StatusBadRequest, res.StatusCode)
		assert.JSONEq(t, `"surname is required"`, string(out.Data))
	})

	t.Run("invalid id", func(t *testing.T) {
		res, out := doRequest(t, router, http.MethodGet, "/v1/authors/123", nil)
		assert.Equal(t, http.StatusBadRequest, res.StatusCode)
		assert.Equal(t, "author id provided is not valid", out.Message)
	})

	t.Run("get unknown", func(t *testing.T) {
		res, _ := doRequest(t, router, http.MethodGet, "/v1/authors/"+NewIDsHandler().Generate(AuthorIDPrefix), nil)
		assert.Equal(t, http.StatusNotFound, res.StatusCode)
	})

	tolstoy, err := catalog.services.Authors.GetByName(ctx, "Lev", "Tolstoy")
	require.NoError(t, err)

	t.Run("delete referenced", func(t *testing.T) {
		res, out := doRequest(t, router, http.MethodDelete, "/v1/authors/"+tolstoy.ID, nil)
		assert.Equal(t, http.StatusConflict, res.StatusCode)
		assert.Equal(t, "You can not delete author because exists book with this author!", out.Message)
	})

	t.Run("idempotent update", func(t *testing.T) {
		res, out := doRequest(t, router, http.MethodPut, "/v1/authors/"+tolstoy.ID, Author{Name: "Lev", Surname: "Tolstoy"})
		assert.Equal(t, http.StatusOK, res.StatusCode)
		var author Author
		require.NoError(t, json.Unmarshal(out.Data, &author))
		assert.Equal(t, tolstoy, author)
	})

	t.Run("delete", func(t *testing.T) {
		chekhov, err := catalog.services.Authors.GetByName(ctx, "Anton", "Chekhov")
		require.NoError(t, err)
		res, _ := doRequest(t, router, http.MethodDelete, "/v1/authors/"+chekhov.ID, nil)
		assert.Equal(t, http.StatusOK, res.StatusCode)
		res, _ = doRequest(t, router, http.MethodDelete, "/v1/authors/"+chekhov.ID, nil)
		assert.Equal(t, http.StatusNotFound, res.StatusCode)
	})
}

func TestGenreHandlers(t *testing.T) {
	_, router, catalog := newTestAPI(t, nil)

	res, out := doRequest(t, router, http.MethodPost, "/v1/genres", Genre{Name: "novel"})
	assert.Equal(t, http.StatusConflict, res.StatusCode)
	assert.Equal(t, "Can not add genre because genre already exists!", out.Message)

	res, out = doRequest(t, router, http.MethodGet, "/v1/genres?name=poetry", nil)
	assert.Equal(t, http.StatusOK, res.StatusCode)
	var poetry Genre
	require.NoError(t, json.Unmarshal(out.Data, &poetry))
	assert.Equal(t, "poetry", poetry.Name)

	res, _ = doRequest(t, router, http.MethodDelete, "/v1/genres/"+poetry.ID, nil)
	assert.Equal(t, http.StatusConflict, res.StatusCode)

	fiction, err := catalog.services.Genres.GetByName(context.Background(), "fiction")
	require.NoError(t, err)
	res, out = doRequest(t, router, http.MethodPut, "/v1/genres/"+fiction.ID, Genre{Name: "science fiction"})
	assert.Equal(t, http.StatusOK, res.StatusCode)
	var updated Genre
	require.NoError(t, json.Unmarshal(out.Data, &updated))
	assert.Equal(t, Genre{ID: fiction.ID, Name: "science fiction"}, updated)

	res, out = doRequest(t, router, http.MethodGet, "/v1/genres", nil)
	assert.Equal(t, http.StatusOK, res.StatusCode)
	require.NotNil(t, out.Total)
	assert.Equal(t, 4, *out.Total)
}

func TestBookHandlers(t *testing.T) {
	_, router, catalog := newTestAPI(t, nil)
	ctx := context.Background()
	tolkien, err := catalog.services.Authors.GetByName(ctx, "John", "Tolkien")
	require.NoError(t, err)
	fantasy, err := catalog.services.Genres.GetByName(ctx, "fantasy")
	require.NoError(t, err)

	t.Run("create with unknown author", func(t *testing.T) {
		book := Book{Title: "Silmarillion", AuthorID: NewIDsHandler().Generate(AuthorIDPrefix), GenreID: fantasy.ID}
		res, out := doRequest(t, router, http.MethodPost, "/v1/books", book)
		assert.Equal(t, http.StatusNotFound, res.StatusCode)
		assert.Equal(t, "Author by provided ID not found", out.Message)
	})

	t.Run("create", func(t *testing.T) {
		book := Book{Title: "Silmarillion", AuthorID: tolkien.ID, GenreID: fantasy.ID}
		res, out := doRequest(t, router, http.MethodPost, "/v1/books", book)
		assert.Equal(t, http.StatusCreated, res.StatusCode)
		var saved Book
		require.NoError(t, json.Unmarshal(out.Data, &saved))
		require.NotNil(t, saved.Author)
		assert.Equal(t, "Tolkien", saved.Author.Surname)
	})

	t.Run("create without genre", func(t *testing.T) {
		res, out := doRequest(t, router, http.MethodPost, "/v1/books", Book{Title: "X", AuthorID: tolkien.ID})
		assert.Equal(t, http.StatusBadRequest, res.StatusCode)
		assert.JSONEq(t, `"genreId is required"`, string(out.Data))
	})

	t.Run("list by title", func(t *testing.T) {
		res, out := doRequest(t, router, http.MethodGet, "/v1/books?title=The+Hobbit", nil)
		assert.Equal(t, http.StatusOK, res.StatusCode)
		require.NotNil(t, out.Total)
		assert.Equal(t, 1, *out.Total)
	})

	hobbits, err := catalog.services.Books.GetByTitle(ctx, "The Hobbit")
	require.NoError(t, err)
	require.Len(t, hobbits, 1)
	hobbit := hobbits[0]

	t.Run("comments of a book", func(t *testing.T) {
		res, out := doRequest(t, router, http.MethodGet, "/v1/books/"+hobbit.ID+"/comments", nil)
		assert.Equal(t, http.StatusOK, res.StatusCode)
		require.NotNil(t, out.Total)
		assert.Equal(t, 2, *out.Total)
	})

	t.Run("update", func(t *testing.T) {
		body := Book{Title: "The Hobbit, or There and Back Again", AuthorID: tolkien.ID, GenreID: fantasy.ID}
		res, out := doRequest(t, router, http.MethodPut, "/v1/books/"+hobbit.ID, body)
		assert.Equal(t, http.StatusOK, res.StatusCode)
		var updated Book
		require.NoError(t, json.Unmarshal(out.Data, &updated))
		assert.Equal(t, body.Title, updated.Title)
	})

	t.Run("delete cascades", func(t *testing.T) {
		res, _ := doRequest(t, router, http.MethodDelete, "/v1/books/"+hobbit.ID, nil)
		assert.Equal(t, http.StatusOK, res.StatusCode)
		n, err := catalog.services.Comments.Count(ctx)
		assert.NoError(t, err)
		assert.Equal(t, 1, n)

		res, _ = doRequest(t, router, http.MethodGet, "/v1/books/"+hobbit.ID, nil)
		assert.Equal(t, http.StatusNotFound, res.StatusCode)
	})
}

func TestCommentHandlers(t *testing.T) {
	_, router, catalog := newTestAPI(t, nil)
	wars, err := catalog.services.Books.GetByTitle(context.Background(), "War and Peace")
	require.NoError(t, err)
	require.Len(t, wars, 1)

	res, out := doRequest(t, router, http.MethodPost, "/v1/comments", Comment{Content: "x", BookID: NewIDsHandler().Generate(BookIDPrefix)})
	assert.Equal(t, http.StatusNotFound, res.StatusCode)
	assert.Equal(t, "Can not add new Comment. Book by provided id is not found!", out.Message)

	res, out = doRequest(t, router, http.MethodPost, "/v1/comments", Comment{Content: "Classic", BookID: wars[0].ID})
	require.Equal(t, http.StatusCreated, res.StatusCode)
	var saved Comment
	require.NoError(t, json.Unmarshal(out.Data, &saved))

	res, out = doRequest(t, router, http.MethodPut, "/v1/comments/"+saved.ID, Comment{Content: "A classic"})
	assert.Equal(t, http.StatusOK, res.StatusCode)
	var updated Comment
	require.NoError(t, json.Unmarshal(out.Data, &updated))
	assert.Equal(t, Comment{ID: saved.ID, Content: "A classic", BookID: wars[0].ID}, updated)

	res, out = doRequest(t, router, http.MethodGet, "/v1/comments", nil)
	assert.Equal(t, http.StatusOK, res.StatusCode)
	require.NotNil(t, out.Total)
	assert.Equal(t, 4, *out.Total)

	res, _ = doRequest(t, router, http.MethodDelete, "/v1/comments/"+saved.ID, nil)
	assert.Equal(t, http.StatusOK, res.StatusCode)
	res, _ = doRequest(t, router, http.MethodGet, "/v1/comments/"+saved.ID, nil)
	assert.Equal(t, http.StatusNotFound, res.StatusCode)
}

// TestMaintenanceHandler ensures the maintenance mode can be switched on and off.
func TestMaintenanceHandler(t *testing.T) {
	api, router, _ := newTestAPI(t, &Config{OpsEndpointsEnable: true})

	res, _ := doRequest(t, router, http.MethodGet, "/ops/maintenance?status=enable&msg=upgrade", nil)
	assert.Equal(t, http.StatusOK, res.StatusCode)
	assert.True(t, api.mode.enabled.Load())

	res, _ = doRequest(t, router, http.MethodGet, "/v1/authors", nil)
	assert.Equal(t, http.StatusServiceUnavailable, res.StatusCode)
	res, _ = doRequest(t, router, http.MethodGet, "/status", nil)
	assert.Equal(t, http.StatusServiceUnavailable, res.StatusCode)

	res, _ = doRequest(t, router, http.MethodGet, "/ops/maintenance?status=disable", nil)
	assert.Equal(t, http.StatusOK, res.StatusCode)
	res, _ = doRequest(t, router, http.MethodGet, "/v1/authors", nil)
	assert.Equal(t, http.StatusOK, res.StatusCode)

	res, _ = doRequest(t, router, http.MethodGet, "/ops/maintenance?status=unknown", nil)
	assert.Equal(t, http.StatusBadRequest, res.StatusCode)
}

// TestStatisticsHandler ensures statuses are counted.
func TestStatisticsHandler(t *testing.T) {
	_, router, _ := newTestAPI(t, &Config{OpsEndpointsEnable: true, Storage: StorageConfig{Backend: BoltBackend}})
	doRequest(t, router, http.MethodGet, "/v1/authors", nil)
	doRequest(t, router, http.MethodGet, "/v1/authors/bad", nil)

	req := httptest.NewRequest(http.MethodGet, "/ops/stats", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	res := w.Result()
	defer res.Body.Close()
	assert.Equal(t, http.StatusOK, res.StatusCode)

	var stats map[string]interface{}
	require.NoError(t, json.NewDecoder(res.Body).Decode(&stats))
	assert.Equal(t, float64(2), stats["called"])
	assert.Equal(t, BoltBackend, stats["app.storage"])
	status, ok := stats["status"].(map[string]interface{})
	require.True(t, ok)
	assert.Equal(t, float64(1), status["200"])
	assert.Equal(t, float64(1), status["400"])
}

// TestStatusFromError ensures domain failures map onto http codes.
func TestStatusFromError(t *testing.T) {
	assert.Equal(t, http.StatusNotFound, StatusFromError(NewDomainError(ErrNotFound, "")))
	assert.Equal(t, http.StatusConflict, StatusFromError(NewDomainError(ErrAlreadyExists, "")))
	assert.Equal(t, http.StatusConflict, StatusFromError(NewDomainError(ErrStillReferenced, "")))
	assert.Equal(t, http.StatusInternalServerError, StatusFromError(WrapDomainError(ErrStoreFailure, "x", nil)))
}

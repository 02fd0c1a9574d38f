package main

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/julienschmidt/httprouter"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

// TestMiddlewaresStacks ensures we get public, catalog and ops middlewares
// stacks with exact number of elements in those stacks.
func TestMiddlewaresStacks(t *testing.T) {
	api := NewAPIHandler(zap.NewNop(), nil, &Statistics{started: time.Now()}, NewMockClocker(), NewIDsHandler(), nil)
	pub, catalog, ops := api.MiddlewaresStacks()
	assert.Equal(t, 7, len(*pub))
	assert.Equal(t, 8, len(*catalog))
	assert.Equal(t, 6, len(*ops))
}

// TestChain ensures each middleware in the stack is called as well the handler.
func TestChain(t *testing.T) {
	var ca, cb, cc, ch bool
	queue := make(chan int, 4)

	middlewareA := func(next httprouter.Handle) httprouter.Handle {
		return func(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
			queue <- 1
			ca = true
			next(w, r, ps)
		}
	}
	middlewareB := func(next httprouter.Handle) httprouter.Handle {
		return func(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
			queue <- 2
			cb = true
			next(w, r, ps)
		}
	}
	middlewareC := func(next httprouter.Handle) httprouter.Handle {
		return func(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
			queue <- 3
			cc = true
			next(w, r, ps)
		}
	}
	middlewares := Middlewares{
		middlewareA,
		middlewareB,
		middlewareC,
	}

	handler := func(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
		queue <- 4
		ch = true
	}

	chained := (&middlewares).Chain(handler)
	req := httptest.NewRequest("GET", "/v1/books", nil)
	w := httptest.NewRecorder()
	chained(w, req, nil)

	t.Run("check calling", func(t *testing.T) {
		assert.Equal(t, true, ca)
		assert.Equal(t, true, cb)
		assert.Equal(t, true, cc)
		assert.Equal(t, true, ch)
	})

	t.Run("check ordering", func(t *testing.T) {
		assert.Equal(t, 1, <-queue)
		assert.Equal(t, 2, <-queue)
		assert.Equal(t, 3, <-queue)
		assert.Equal(t, 4, <-queue)
	})
}

// TestRequestsCounterMiddleware ensures the request counter increment.
func TestRequestsCounterMiddleware(t *testing.T) {
	api := NewAPIHandler(zap.NewNop(), nil, &Statistics{started: time.Now(), called: 0}, NewMockClocker(), NewIDsHandler(), nil)
	req := httptest.NewRequest("GET", "/v1/books", nil)
	w := httptest.NewRecorder()
	var called bool
	handler := func(w http.ResponseWriter, req *http.Request, ps httprouter.Params) {
		called = true
	}
	wrapped := api.RequestsCounterMiddleware(handler)
	wrapped(w, req, nil)
	assert.Equal(t, true, called)
	assert.Equal(t, uint64(1), api.stats.called)
}

// TestRequestIDMiddleware ensures each request gets an id into its context.
func TestRequestIDMiddleware(t *testing.T) {
	api := NewAPIHandler(zap.NewNop(), nil, &Statistics{started: time.Now()}, NewMockClocker(), NewMockUIDHandler("abc", true), nil)
	req := httptest.NewRequest("GET", "/v1/books", nil)
	w := httptest.NewRecorder()
	var got string
	handler := func(w http.ResponseWriter, req *http.Request, ps httprouter.Params) {
		got = GetValueFromContext(req.Context(), RequestIDContextKey)
	}
	api.RequestIDMiddleware(handler)(w, req, nil)
	assert.Equal(t, "r:abc", got)
}

// TestCoreMiddleware ensures a request scoped logger is handed to the handler.
func TestCoreMiddleware(t *testing.T) {
	api := NewAPIHandler(zap.NewNop(), nil, &Statistics{started: time.Now()}, NewMockClocker(), NewIDsHandler(), nil)
	req := httptest.NewRequest("GET", "/v1/books", nil)
	w := httptest.NewRecorder()
	var found bool
	handler := func(w http.ResponseWriter, req *http.Request, ps httprouter.Params) {
		_, found = req.Context().Value(LoggerContextKey).(*zap.Logger)
	}
	api.CoreMiddleware(handler)(w, req, nil)
	assert.True(t, found)
}

// TestPanicRecoveryMiddleware ensures a panicking handler answers with 500.
func TestPanicRecoveryMiddleware(t *testing.T) {
	api := NewAPIHandler(zap.NewNop(), nil, &Statistics{started: time.Now()}, NewMockClocker(), NewIDsHandler(), nil)
	req := httptest.NewRequest("GET", "/v1/books", nil)
	w := httptest.NewRecorder()
	handler := func(w http.ResponseWriter, req *http.Request, ps httprouter.Params) {
		panic("boom")
	}
	api.PanicRecoveryMiddleware(handler)(w, req, nil)
	assert.Equal(t, http.StatusInternalServerError, w.Code)
}

// TestCORSMiddleware ensures the cors headers are set.
func TestCORSMiddleware(t *testing.T) {
	req := httptest.NewRequest("GET", "/v1/books", nil)
	w := httptest.NewRecorder()
	CORSMiddleware(func(w http.ResponseWriter, req *http.Request, ps httprouter.Params) {})(w, req, nil)
	assert.Equal(t, "*", w.Header().Get("Access-Control-Allow-Origin"))
}

// TestAuthMiddleware ensures reads need a known user and writes need an admin.
func TestAuthMiddleware(t *testing.T) {
	catalog := seededCatalog(t)
	config := &Config{Auth: AuthConfig{Enable: true, Realm: "library"}}
	api := NewAPIHandler(zap.NewNop(), config, &Statistics{started: time.Now()}, NewMockClocker(), NewIDsHandler(), catalog.services)

	var user User
	handler := api.AuthMiddleware(func(w http.ResponseWriter, req *http.Request, ps httprouter.Params) {
		user, _ = GetUserFromContext(req.Context())
		w.WriteHeader(http.StatusNoContent)
	})

	testCases := []struct {
		name     string
		method   string
		login    string
		password string
		status   int
	}{
		{"anonymous read", http.MethodGet, "", "", http.StatusUnauthorized},
		{"wrong password", http.MethodGet, "simple_user", "nope", http.StatusUnauthorized},
		{"user read", http.MethodGet, "simple_user", "user", http.StatusNoContent},
		{"user write", http.MethodPost, "simple_user", "user", http.StatusForbidden},
		{"user delete", http.MethodDelete, "simple_user", "user", http.StatusForbidden},
		{"admin write", http.MethodPost, "admin_user", "admin", http.StatusNoContent},
		{"admin delete", http.MethodDelete, "admin_user", "admin", http.StatusNoContent},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			user = User{}
			req := httptest.NewRequest(tc.method, "/v1/authors", nil)
			if tc.login != "" {
				req.SetBasicAuth(tc.login, tc.password)
			}
			w := httptest.NewRecorder()
			handler(w, req, nil)
			assert.Equal(t, tc.status, w.Code)
			if tc.status == http.StatusUnauthorized {
				assert.Contains(t, w.Header().Get("WWW-Authenticate"), `realm="library"`)
			}
			if tc.status == http.StatusNoContent {
				assert.Equal(t, tc.login, user.Login)
			}
		})
	}
}

// TestAuthMiddlewareDisabled ensures the authentication can be turned off.
func TestAuthMiddlewareDisabled(t *testing.T) {
	api := NewAPIHandler(zap.NewNop(), &Config{}, &Statistics{started: time.Now()}, NewMockClocker(), NewIDsHandler(), nil)
	req := httptest.NewRequest(http.MethodDelete, "/v1/authors/a:1", nil)
	w := httptest.NewRecorder()
	var called bool
	api.AuthMiddleware(func(w http.ResponseWriter, req *http.Request, ps httprouter.Params) {
		called = true
	})(w, req, nil)
	assert.True(t, called)
}

// TestAdminOnlyMiddleware ensures ops endpoints are reserved to admins.
func TestAdminOnlyMiddleware(t *testing.T) {
	catalog := seededCatalog(t)
	config := &Config{Auth: AuthConfig{Enable: true, Realm: "library"}}
	api := NewAPIHandler(zap.NewNop(), config, &Statistics{started: time.Now()}, NewMockClocker(), NewIDsHandler(), catalog.services)
	handler := api.AdminOnlyMiddleware(func(w http.ResponseWriter, req *http.Request, ps httprouter.Params) {})

	req := httptest.NewRequest(http.MethodGet, "/ops/stats", nil)
	req.SetBasicAuth("simple_user", "user")
	w := httptest.NewRecorder()
	handler(w, req, nil)
	assert.Equal(t, http.StatusForbidden, w.Code)

	req = httptest.NewRequest(http.MethodGet, "/ops/stats", nil)
	req.SetBasicAuth("admin_user", "admin")
	w = httptest.NewRecorder()
	handler(w, req, nil)
	assert.Equal(t, http.StatusOK, w.Code)
}

// TestStatsMiddleware ensures the status codes are recorded.
func TestStatsMiddleware(t *testing.T) {
	api := NewAPIHandler(zap.NewNop(), nil, &Statistics{started: time.Now()}, NewMockClocker(), NewIDsHandler(), nil)
	handler := api.StatsMiddleware(func(w http.ResponseWriter, req *http.Request, ps httprouter.Params) {
		w.WriteHeader(http.StatusTeapot)
	})
	for i := 0; i < 2; i++ {
		handler(httptest.NewRecorder(), httptest.NewRequest("GET", "/", nil), nil)
	}
	assert.Equal(t, uint64(2), api.stats.status[http.StatusTeapot])
}

// TestMaintenanceModeMiddleware ensures calls are refused while in maintenance.
func TestMaintenanceModeMiddleware(t *testing.T) {
	api := NewAPIHandler(zap.NewNop(), nil, &Statistics{started: time.Now()}, NewMockClocker(), NewIDsHandler(), nil)
	var called bool
	handler := api.MaintenanceModeMiddleware(func(w http.ResponseWriter, req *http.Request, ps httprouter.Params) {
		called = true
	})

	api.mode.enabled.Store(true)
	w := httptest.NewRecorder()
	handler(w, httptest.NewRequest("GET", "/v1/books", nil), nil)
	assert.Equal(t, http.StatusServiceUnavailable, w.Code)
	assert.False(t, called)

	api.mode.enabled.Store(false)
	w = httptest.NewRecorder()
	handler(w, httptest.NewRequest("GET", "/v1/books", nil), nil)
	assert.True(t, called)
}

// TestWriteResponseOnDoneContext ensures a finished request reports 499 or 504.
func TestWriteResponseOnDoneContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	w := httptest.NewRecorder()
	err := WriteResponse(ctx, w, GenericResponse("r:1", http.StatusOK, "ok", nil, EmptyData))
	require.Error(t, err)
	assert.Equal(t, 499, w.Code)

	ctx, cancel = context.WithTimeout(context.Background(), 0)
	defer cancel()
	w = httptest.NewRecorder()
	err = WriteErrorResponse(ctx, w, NewAPIError("r:1", http.StatusNotFound, "nf", EmptyData))
	require.Error(t, err)
	assert.Equal(t, http.StatusGatewayTimeout, w.Code)
}

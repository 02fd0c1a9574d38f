package main

import (
	"net/http"
	"testing"

	"github.com/julienschmidt/httprouter"
	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"
)

type routeCase struct {
	name        string
	method      string
	path        string
	implemented bool
}

func assertRoutes(t *testing.T, router *httprouter.Router, testCases []routeCase) {
	t.Helper()
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			handle, _, _ := router.Lookup(tc.method, tc.path)
			if tc.implemented {
				assert.NotNil(t, handle)
			} else {
				assert.Nil(t, handle)
			}
		})
	}
}

func newRouterTestAPI(config *Config) *APIHandler {
	return NewAPIHandler(zap.NewNop(), config, &Statistics{started: NewMockClocker().Now()}, NewMockClocker(), NewMockUIDHandler("", true), nil)
}

// TestSetupCatalogRoutes ensures all expected catalog endpoints are implemented.
func TestSetupCatalogRoutes(t *testing.T) {
	id := "cb8f2136-fae4-4200-85d9-3533c7f8c70d"
	testCases := []routeCase{
		{"fetch all authors endpoint", http.MethodGet, "/v1/authors", true},
		{"create author endpoint", http.MethodPost, "/v1/authors", true},
		{"fetch single author endpoint", http.MethodGet, "/v1/authors/a:" + id, true},
		{"update author endpoint", http.MethodPut, "/v1/authors/a:" + id, true},
		{"delete author endpoint", http.MethodDelete, "/v1/authors/a:" + id, true},
		{"fetch all genres endpoint", http.MethodGet, "/v1/genres", true},
		{"create genre endpoint", http.MethodPost, "/v1/genres", true},
		{"fetch single genre endpoint", http.MethodGet, "/v1/genres/g:" + id, true},
		{"update genre endpoint", http.MethodPut, "/v1/genres/g:" + id, true},
		{"delete genre endpoint", http.MethodDelete, "/v1/genres/g:" + id, true},
		{"fetch all books endpoint", http.MethodGet, "/v1/books", true},
		{"create book endpoint", http.MethodPost, "/v1/books", true},
		{"fetch single book endpoint", http.MethodGet, "/v1/books/b:" + id, true},
		{"update book endpoint", http.MethodPut, "/v1/books/b:" + id, true},
		{"delete book endpoint", http.MethodDelete, "/v1/books/b:" + id, true},
		{"fetch book comments endpoint", http.MethodGet, "/v1/books/b:" + id + "/comments", true},
		{"fetch all comments endpoint", http.MethodGet, "/v1/comments", true},
		{"create comment endpoint", http.MethodPost, "/v1/comments", true},
		{"fetch single comment endpoint", http.MethodGet, "/v1/comments/c:" + id, true},
		{"update comment endpoint", http.MethodPut, "/v1/comments/c:" + id, true},
		{"delete comment endpoint", http.MethodDelete, "/v1/comments/c:" + id, true},
		{"patch author endpoint", http.MethodPatch, "/v1/authors/a:" + id, false},
		{"invalid api endpoint", http.MethodGet, "/v1", false},
		{"invalid books endpoint", http.MethodGet, "/books", false},
	}

	api := newRouterTestAPI(&Config{})
	router := api.SetupCatalogRoutes(httprouter.New(), api.NewMiddlewareMap())
	assertRoutes(t, router, testCases)
}

// TestSetupOpsRoutes ensures all expected operations endpoints are implemented.
func TestSetupOpsRoutes(t *testing.T) {
	testCases := []routeCase{
		{"fetch configs endpoint", http.MethodGet, "/ops/configs", true},
		{"fetch stats endpoint", http.MethodGet, "/ops/stats", true},
		{"maintenance mode endpoint", http.MethodGet, "/ops/maintenance", true},
		{"expvar endpoint", http.MethodGet, "/ops/debug/vars", true},
		{"gc endpoint", http.MethodGet, "/ops/debug/gc", true},
		{"free os memory endpoint", http.MethodGet, "/ops/debug/fos", true},
		{"invalid ops endpoint", http.MethodGet, "/ops", false},
		{"unknown ops endpoint", http.MethodGet, "/ops/unknown", false},
		{"disabled profiler endpoint", http.MethodGet, "/ops/debug/pprof/", false},
	}

	api := newRouterTestAPI(&Config{ProfilerEnable: false})
	router := api.SetupOpsRoutes(httprouter.New(), api.NewMiddlewareMap())
	assertRoutes(t, router, testCases)
}

// TestSetupProfilerRoutes ensures the profiler endpoints exist once enabled.
func TestSetupProfilerRoutes(t *testing.T) {
	testCases := []routeCase{
		{"profiler index", http.MethodGet, "/ops/debug/pprof/", true},
		{"cpu profile", http.MethodGet, "/ops/debug/pprof/profile", true},
		{"trace", http.MethodGet, "/ops/debug/pprof/trace", true},
		{"symbol", http.MethodGet, "/ops/debug/pprof/symbol", true},
		{"cmdline", http.MethodGet, "/ops/debug/pprof/cmdline", true},
		{"heap", http.MethodGet, "/ops/debug/pprof/heap", true},
		{"goroutine", http.MethodGet, "/ops/debug/pprof/goroutine", true},
	}

	api := newRouterTestAPI(&Config{ProfilerEnable: true})
	router := api.SetupOpsRoutes(httprouter.New(), api.NewMiddlewareMap())
	assertRoutes(t, router, testCases)
}

// TestSetupRoutes ensures ops endpoints follow their toggle.
func TestSetupRoutes(t *testing.T) {
	testCases := []struct {
		name               string
		OpsEndpointsEnable bool
		route              routeCase
	}{
		{"ops disable:fetch configs endpoint", false, routeCase{"configs", http.MethodGet, "/ops/configs", false}},
		{"ops enable:fetch configs endpoint", true, routeCase{"configs", http.MethodGet, "/ops/configs", true}},
		{"ops disable:status endpoint", false, routeCase{"status", http.MethodGet, "/status", true}},
		{"ops disable:index endpoint", false, routeCase{"index", http.MethodGet, "/", true}},
		{"ops disable:swagger endpoint", false, routeCase{"swagger", http.MethodGet, "/swagger/index.html", true}},
		{"ops disable:authors endpoint", false, routeCase{"authors", http.MethodGet, "/v1/authors", true}},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			api := newRouterTestAPI(&Config{OpsEndpointsEnable: tc.OpsEndpointsEnable})
			router := api.SetupRoutes(httprouter.New(), api.NewMiddlewareMap())
			assertRoutes(t, router, []routeCase{tc.route})
		})
	}
}

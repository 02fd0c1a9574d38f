package main

import (
	"net/http"
	"net/http/pprof"

	"github.com/julienschmidt/httprouter"
	"go.uber.org/zap"
)

// OpsHandlerWrapper adapts a standard handler to the router signature.
func (api *APIHandler) OpsHandlerWrapper(h http.Handler) httprouter.Handle {
	return func(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
		h.ServeHTTP(w, r)
	}
}

// GetCPUProfile streams a cpu profile. The profiling lasts longer than the
// server write timeout, so the deadline is lifted for this request only.
func (api *APIHandler) GetCPUProfile(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	api.logProfiling(r, "cpu")
	_ = http.NewResponseController(w).SetWriteDeadline(noDeadline)
	pprof.Profile(w, r)
}

func (api *APIHandler) GetTraceProfile(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	api.logProfiling(r, "trace")
	_ = http.NewResponseController(w).SetWriteDeadline(noDeadline)
	pprof.Trace(w, r)
}

func (api *APIHandler) GetSymbol(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	pprof.Symbol(w, r)
}

func (api *APIHandler) GetCmdLine(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	pprof.Cmdline(w, r)
}

// logProfiling records who started a long running profile.
func (api *APIHandler) logProfiling(r *http.Request, kind string) {
	user, _ := GetUserFromContext(r.Context())
	api.GetLoggerFromContext(r.Context()).Info("ops: profiling started",
		zap.String("profile", kind),
		zap.String("profile.seconds", r.URL.Query().Get("seconds")),
		zap.String("user.login", user.Login),
	)
}

// Package handlers manages the different versions of the API.
package handlers

import (
	"expvar"
	"net/http"
	"net/http/pprof"

	"github.com/dimfeld/httptreemux/v5"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/votechain/votechain/app/services/node/handlers/debug/checkgrp"
	"github.com/votechain/votechain/app/services/node/handlers/v1/chaingrp"
	"github.com/votechain/votechain/foundation/blockchain/state"
	"github.com/votechain/votechain/foundation/events"
)

// MuxConfig contains all the mandatory systems required by handlers.
type MuxConfig struct {
	Log   *zap.SugaredLogger
	State *state.State
	Evts  *events.Events
}

// PublicMux constructs a http.Handler with all application routes defined.
func PublicMux(cfg MuxConfig) http.Handler {
	mux := httptreemux.NewContextMux()

	cgh := chaingrp.Handlers{
		Log:   cfg.Log,
		State: cfg.State,
		Evts:  cfg.Evts,
	}

	mux.Handle(http.MethodGet, "/v1/winner", cgh.Winner)
	mux.Handle(http.MethodGet, "/v1/chain", cgh.Chain)
	mux.Handle(http.MethodGet, "/v1/blocks", cgh.Blocks)
	mux.Handle(http.MethodPost, "/v1/act", cgh.SubmitAct)
	mux.Handle(http.MethodGet, "/v1/events", cgh.Events)

	return logging(cfg.Log, mux)
}

// logging stamps each request with a trace id and logs the call.
func logging(log *zap.SugaredLogger, next http.Handler) http.Handler {
	h := func(w http.ResponseWriter, r *http.Request) {
		traceID := uuid.NewString()
		log.Infow("request started", "traceid", traceID, "method", r.Method, "path", r.URL.Path, "remoteaddr", r.RemoteAddr)

		next.ServeHTTP(w, r)

		log.Infow("request completed", "traceid", traceID, "method", r.Method, "path", r.URL.Path)
	}

	return http.HandlerFunc(h)
}

// DebugStandardLibraryMux registers all the debug routes from the standard
// library into a new mux bypassing the use of the DefaultServerMux. Using the
// DefaultServerMux would be a security risk since a dependency could inject a
// handler into our service without us knowing it.
func DebugStandardLibraryMux() *http.ServeMux {
	mux := http.NewServeMux()

	// Register all the standard library debug endpoints.
	mux.HandleFunc("/debug/pprof/", pprof.Index)
	mux.HandleFunc("/debug/pprof/cmdline", pprof.Cmdline)
	mux.HandleFunc("/debug/pprof/profile", pprof.Profile)
	mux.HandleFunc("/debug/pprof/symbol", pprof.Symbol)
	mux.HandleFunc("/debug/pprof/trace", pprof.Trace)
	mux.Handle("/debug/vars", expvar.Handler())

	return mux
}

// DebugMux registers all the debug standard library routes and then custom
// debug application routes for the service.
func DebugMux(build string, log *zap.SugaredLogger) http.Handler {
	mux := DebugStandardLibraryMux()

	// Register debug check endpoints.
	cgh := checkgrp.Handlers{
		Build: build,
		Log:   log,
	}
	mux.HandleFunc("/debug/readiness", cgh.Readiness)
	mux.HandleFunc("/debug/liveness", cgh.Liveness)

	return mux
}

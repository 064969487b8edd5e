package main

import (
	"net/http"
	"net/http/pprof"
	"time"

	"github.com/gorilla/mux"
)

// debugHandler serves the runtime profiling endpoints.
func debugHandler() http.Handler {
	router := mux.NewRouter()
	for path, handler := range map[string]http.HandlerFunc{
		"/debug/pprof/":        pprof.Index,
		"/debug/pprof/cmdline": pprof.Cmdline,
		"/debug/pprof/profile": pprof.Profile,
		"/debug/pprof/symbol":  pprof.Symbol,
		"/debug/pprof/trace":   pprof.Trace,
	} {
		router.Handle(path, handler)
	}

	// named profiles such as heap or goroutine
	router.Handle("/debug/pprof/{cmd}", http.HandlerFunc(pprof.Index))
	return router
}

// listenDebug serves debugHandler on addr until the server fails.
func listenDebug(addr string) {
	st.Log("debug server listening", "addr", addr)

	server := http.Server{
		Addr:              addr,
		Handler:           debugHandler(),
		ReadHeaderTimeout: 10 * time.Second,
	}
	st.LogError("debug server", server.ListenAndServe())
}

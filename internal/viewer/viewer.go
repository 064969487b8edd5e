// Package viewer implements an http.Handler to search the dictionary and describe artists.
package viewer

import (
	"net/http"
	"sync"

	"github.com/FAU-CDI/kdict/internal/assets"
	"github.com/FAU-CDI/kdict/internal/dictionary"
	"github.com/FAU-CDI/kdict/internal/stats"
	"github.com/gorilla/mux"
)

// Viewer implements an [http.Handler] that serves the dictionary held by Holder.
//
// While the holder does not yet contain a dictionary, all pages respond with
// 503 Service Unavailable and report the progress of Stats.
type Viewer struct {
	Holder *dictionary.Holder
	Stats  *stats.Stats

	Limiter *Limiter // optional, limits requests per client
	Metrics *Metrics // optional, records request metrics and serves them

	init sync.Once
	mux  mux.Router
}

// Prepare prepares the routes of this viewer.
// It is automatically called by ServeHTTP.
func (viewer *Viewer) Prepare() {
	viewer.init.Do(func() {
		// artist names may contain escaped slashes
		viewer.mux.UseEncodedPath()

		viewer.mux.HandleFunc("/", viewer.htmlIndex).Methods(http.MethodGet, http.MethodPost)

		viewer.mux.HandleFunc("/api/v1/search", viewer.jsonSearch).Methods(http.MethodGet)
		viewer.mux.HandleFunc("/api/v1/artist/{name}", viewer.rdfArtist).Methods(http.MethodGet)
		viewer.mux.HandleFunc("/api/v1/status", viewer.jsonStatus).Methods(http.MethodGet)

		if viewer.Metrics != nil {
			viewer.mux.Handle("/metrics", viewer.Metrics.Handler()).Methods(http.MethodGet)
		}

		viewer.mux.PathPrefix("/assets/").Handler(assets.Handler("/assets/"))

		viewer.mux.Use(viewer.Metrics.Middleware, viewer.Limiter.Middleware)
	})
}

func (viewer *Viewer) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	viewer.Prepare()
	viewer.mux.ServeHTTP(w, r)
}

package viewer

import (
	"errors"
	"net/http"
	"net/url"
	"time"

	"github.com/FAU-CDI/kdict/internal/artist"
	"github.com/FAU-CDI/kdict/internal/dictionary"
	"github.com/FAU-CDI/kdict/internal/rdfx"
	"github.com/FAU-CDI/kdict/internal/triplestore/igraph"
	"github.com/FAU-CDI/kdict/pkg/perf"
	"github.com/gorilla/mux"
)

// SearchResponse is returned by the search api.
type SearchResponse struct {
	Query   string          `json:"query"`
	Count   int             `json:"count"`
	Results []artist.Record `json:"results"`
}

// ErrorResponse is returned by the api when a request fails.
type ErrorResponse struct {
	Error string `json:"error"`
}

// StatusResponse describes the dictionary currently served.
type StatusResponse struct {
	ID      string        `json:"id"`
	Source  string        `json:"source"`
	Created time.Time     `json:"created"`
	Records int           `json:"records"`
	Triples igraph.Stats  `json:"triples"`
	Reloads uint64        `json:"reloads"`
	Stages  []StageReport `json:"stages,omitempty"`
}

// StageReport describes a finished stage of loading.
type StageReport struct {
	Stage string    `json:"stage"`
	Diff  perf.Diff `json:"diff"`
}

func (viewer *Viewer) jsonSearch(w http.ResponseWriter, r *http.Request) {
	dict := viewer.jsonDictionary(w, r)
	if dict == nil {
		return
	}

	query := r.URL.Query().Get("q")
	results := dict.Search(query)
	viewer.Metrics.ObserveSearch(len(results))

	if results == nil {
		results = []artist.Record{}
	}
	writeJSON(w, http.StatusOK, SearchResponse{
		Query:   query,
		Count:   len(results),
		Results: results,
	})
}

func (viewer *Viewer) rdfArtist(w http.ResponseWriter, r *http.Request) {
	dict := viewer.jsonDictionary(w, r)
	if dict == nil {
		return
	}

	name, err := url.PathUnescape(mux.Vars(r)["name"])
	if err != nil {
		writeJSON(w, http.StatusBadRequest, ErrorResponse{Error: err.Error()})
		return
	}

	format, err := rdfx.ParseFormat(r.URL.Query().Get("format"))
	if err != nil {
		writeJSON(w, http.StatusBadRequest, ErrorResponse{Error: err.Error()})
		return
	}

	record, err := dict.Resolve(name)
	switch {
	case errors.Is(err, dictionary.ErrNoMatch):
		writeJSON(w, http.StatusNotFound, ErrorResponse{Error: err.Error()})
		return
	case errors.Is(err, dictionary.ErrAmbiguous):
		writeJSON(w, http.StatusConflict, ErrorResponse{Error: err.Error()})
		return
	case err != nil:
		writeJSON(w, http.StatusInternalServerError, ErrorResponse{Error: err.Error()})
		return
	}

	result, err := dict.Describe(record, format)
	if err != nil {
		viewer.Stats.LogError("describe artist", err, "artist", name)
		writeJSON(w, http.StatusInternalServerError, ErrorResponse{Error: err.Error()})
		return
	}

	w.Header().Set("Content-Type", format.MIMEType()+"; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte(result))
}

func (viewer *Viewer) jsonStatus(w http.ResponseWriter, r *http.Request) {
	dict := viewer.jsonDictionary(w, r)
	if dict == nil {
		return
	}

	var stages []StageReport
	for _, stage := range dict.Stages() {
		if stage.End.Time.IsZero() {
			continue
		}
		stages = append(stages, StageReport{Stage: string(stage.Stage), Diff: stage.Diff()})
	}

	writeJSON(w, http.StatusOK, StatusResponse{
		ID:      dict.ID().String(),
		Source:  dict.Source(),
		Created: dict.Created(),
		Records: dict.Len(),
		Triples: dict.Stats(),
		Reloads: viewer.Holder.Reloads(),
		Stages:  stages,
	})
}

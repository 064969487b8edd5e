package viewer

// fallback implements responses while the dictionary is still loading

import (
	"encoding/json"
	"html/template"
	"net/http"

	_ "embed"

	"github.com/FAU-CDI/kdict/internal/assets"
	"github.com/FAU-CDI/kdict/internal/dictionary"
	"github.com/FAU-CDI/kdict/internal/stats"
)

//go:embed templates/loading.html
var loadingHTML string

var loadTemplate *template.Template = assets.AssetsKdictFallback.MustParseShared(
	"loading.html",
	loadingHTML,
	contextTemplateFuncs,
)

type htmlLoadingContext struct {
	Progress stats.Progress
}

const (
	viewerNotReady     = "data is still being loaded and the server is not ready"
	viewerRetrySeconds = "5"
)

// ProgressMessage is returned by the viewer when the dictionary is not yet available
type ProgressMessage struct {
	Message  string
	Progress stats.Progress
}

// htmlDictionary returns the current dictionary.
// If there is none, it sends an html fallback page and returns nil.
func (viewer *Viewer) htmlDictionary(w http.ResponseWriter, _ *http.Request) *dictionary.Dictionary {
	if dict := viewer.Holder.Get(); dict != nil {
		return dict
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.Header().Set("Retry-After", viewerRetrySeconds)
	w.WriteHeader(http.StatusServiceUnavailable)
	if err := loadTemplate.Execute(w, htmlLoadingContext{
		Progress: viewer.Stats.Progress(),
	}); err != nil {
		viewer.Stats.LogError("render fallback", err)
	}
	return nil
}

// jsonDictionary is like htmlDictionary, but sends a json response.
func (viewer *Viewer) jsonDictionary(w http.ResponseWriter, _ *http.Request) *dictionary.Dictionary {
	if dict := viewer.Holder.Get(); dict != nil {
		return dict
	}

	w.Header().Set("Retry-After", viewerRetrySeconds)
	writeJSON(w, http.StatusServiceUnavailable, ProgressMessage{
		Message:  viewerNotReady,
		Progress: viewer.Stats.Progress(),
	})
	return nil
}

func writeJSON(w http.ResponseWriter, code int, value any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(value)
}

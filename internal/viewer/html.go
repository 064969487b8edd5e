package viewer

import (
	"html/template"
	"net/http"
	"net/url"
	"strings"

	_ "embed"

	"github.com/FAU-CDI/kdict/internal/artist"
	"github.com/FAU-CDI/kdict/internal/assets"
	"github.com/FAU-CDI/kdict/internal/rdfx"
)

var contextTemplateFuncs = template.FuncMap{
	"artistpath": func(record artist.Record) string {
		return "/api/v1/artist/" + url.PathEscape(record.Name.Value)
	},
	"formats": rdfx.Names,
}

//go:embed templates/index.html
var indexHTML string

var indexTemplate *template.Template = assets.AssetsKdict.MustParseShared(
	"index.html",
	indexHTML,
	contextTemplateFuncs,
)

type htmlIndexContext struct {
	Searched bool
	Query    string
	Results  []artist.Record

	// RDF holds the description of the single matching artist, if any
	RDF string

	Total int // total number of records
}

func (viewer *Viewer) htmlIndex(w http.ResponseWriter, r *http.Request) {
	dict := viewer.htmlDictionary(w, r)
	if dict == nil {
		return
	}

	var ctx htmlIndexContext
	ctx.Total = dict.Len()

	switch r.Method {
	case http.MethodPost:
		ctx.Searched = true
		ctx.Query = r.PostFormValue("search")
	default:
		query := r.URL.Query()
		ctx.Query, ctx.Searched = query.Get("q"), query.Has("q")
	}

	if ctx.Searched {
		ctx.Results = dict.Search(ctx.Query)
		viewer.Metrics.ObserveSearch(len(ctx.Results))

		if len(ctx.Results) == 1 {
			rdf, err := dict.Describe(ctx.Results[0], rdfx.Turtle)
			if err != nil {
				viewer.Stats.LogError("describe artist", err, "artist", ctx.Results[0].Name.Value)
			}
			ctx.RDF = strings.TrimSpace(rdf)
		}
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	if err := indexTemplate.Execute(w, ctx); err != nil {
		viewer.Stats.LogError("render index", err)
	}
}

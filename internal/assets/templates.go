package assets

import (
	"embed"
	"html/template"
)

//go:embed "templates/*.html"
var templates embed.FS

var (
	shared *template.Template = template.Must(
		template.New("").ParseFS(templates, "templates/*.html"),
	)
)

// NewSharedTemplate creates a new template with the given name.
// It will be able to make use of shared templates as well as functions.
func NewSharedTemplate(name string, funcMap template.FuncMap) *template.Template {
	t := template.New(name)
	t.Funcs(funcMap)
	for _, tpl := range shared.Templates() {
		if tpl != nil && tpl.Tree != nil {
			template.Must(t.AddParseTree(tpl.Tree.Name, tpl.Tree.Copy()))
		}
	}
	return t
}

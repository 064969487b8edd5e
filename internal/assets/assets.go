// Package assets holds templates and static resources shared by all pages.
package assets

import (
	_ "embed"
	"html/template"
)

// Assets are the script and style tags a page includes.
type Assets struct {
	Scripts template.HTML
	Styles  template.HTML
}

const stylesheet template.HTML = `<link rel="stylesheet" href="/assets/kdict.css">`

var (
	// AssetsKdict are the assets used by regular pages.
	AssetsKdict = Assets{Styles: stylesheet}

	// AssetsKdictFallback are the assets used while the dictionary is loading.
	// They reload the page periodically.
	AssetsKdictFallback = Assets{
		Scripts: `<script src="/assets/reload.js" defer></script>`,
		Styles:  stylesheet,
	}
)

// Disclaimer contains a legal disclaimer about all frontend components.
//
//go:embed assets_disclaimer.txt
var Disclaimer string

// MustParseShared creates a new template with the given name from value.
//
// The template can make use of the shared templates and funcMap.
// It additionally has access to the templates "scripts" and "styles" rendering the respective tags.
// MustParseShared panics if value cannot be parsed.
func (assets Assets) MustParseShared(name string, value string, funcMap template.FuncMap) *template.Template {
	t := template.Must(NewSharedTemplate(name, funcMap).Parse(value))
	template.Must(t.New("scripts").Parse(string(assets.Scripts)))
	template.Must(t.New("styles").Parse(string(assets.Styles)))
	return t
}

package assets

import (
	"embed"
	"io/fs"
	"net/http"
)

//go:embed dist
var dist embed.FS

// Handler returns a handler serving the static assets below prefix.
// Responses may be cached by clients for an hour.
func Handler(prefix string) http.Handler {
	static, err := fs.Sub(dist, "dist")
	if err != nil {
		panic("assets.Handler: missing dist directory")
	}

	files := http.StripPrefix(prefix, http.FileServer(http.FS(static)))
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Cache-Control", "public, max-age=3600")
		files.ServeHTTP(w, r)
	})
}

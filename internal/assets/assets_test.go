package assets_test

import (
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/FAU-CDI/kdict/internal/assets"
)

func TestAssets_MustParseShared(t *testing.T) {
	t.Parallel()

	tpl := assets.AssetsKdictFallback.MustParseShared(
		"test.html",
		`{{ template "header" "Title" }}{{ shout . }}{{ template "footer" }}`,
		map[string]any{"shout": strings.ToUpper},
	)

	var builder strings.Builder
	if err := tpl.Execute(&builder, "body"); err != nil {
		t.Fatal(err)
	}
	page := builder.String()

	for _, want := range []string{
		"<title>Title - K-Pop Dictionary</title>",
		`href="/assets/kdict.css"`,
		`src="/assets/reload.js"`,
		"BODY",
	} {
		if !strings.Contains(page, want) {
			t.Errorf("rendered page does not contain %q", want)
		}
	}
}

func TestHandler(t *testing.T) {
	t.Parallel()

	handler := assets.Handler("/assets/")

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/assets/kdict.css", nil))

	res := rec.Result()
	if res.StatusCode != http.StatusOK {
		t.Fatalf("status = %d, want = %d", res.StatusCode, http.StatusOK)
	}
	if got := res.Header.Get("Cache-Control"); got == "" {
		t.Error("missing Cache-Control header")
	}
	if body, _ := io.ReadAll(res.Body); len(body) == 0 {
		t.Error("empty stylesheet")
	}

	rec = httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/assets/missing.js", nil))
	if rec.Code != http.StatusNotFound {
		t.Errorf("status for missing asset = %d, want = %d", rec.Code, http.StatusNotFound)
	}
}

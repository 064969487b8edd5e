package source_test

import (
	"bytes"
	"context"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/FAU-CDI/kdict/internal/artist"
	"github.com/FAU-CDI/kdict/internal/source"
	"github.com/FAU-CDI/kdict/internal/stats"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const sample = "\uFEFF artist ,company,debut_year \nAespa,SM,2020\n\"Girls' Generation, SNSD\",SM,2007\nIVE,Starship\n"

func TestParse(t *testing.T) {
	t.Parallel()

	table, err := source.Parse(strings.NewReader(sample))
	require.NoError(t, err)

	assert.Equal(t, []string{" artist ", "company", "debut_year "}, table.Header)
	assert.Equal(t, [][]string{
		{"Aespa", "SM", "2020"},
		{"Girls' Generation, SNSD", "SM", "2007"},
		{"IVE", "Starship"},
	}, table.Rows)

	records := artist.Normalize(table)
	require.Len(t, records, 3)
	assert.False(t, records[2].DebutYear.Valid)
}

func TestParse_Empty(t *testing.T) {
	t.Parallel()

	table, err := source.Parse(strings.NewReader(""))
	require.NoError(t, err)
	assert.Empty(t, table.Header)
	assert.Empty(t, artist.Normalize(table))
}

func TestIsRemote(t *testing.T) {
	t.Parallel()

	assert.True(t, source.IsRemote(source.DefaultURL))
	assert.True(t, source.IsRemote("http://localhost:8080/artists.csv"))
	assert.False(t, source.IsRemote("artists.csv"))
	assert.False(t, source.IsRemote("/tmp/artists.csv"))
	assert.False(t, source.IsRemote("ftp://example.com/artists.csv"))
}

func TestLoad_Remote(t *testing.T) {
	t.Parallel()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/artists.csv" {
			http.NotFound(w, r)
			return
		}
		w.Header().Set("Content-Type", "text/csv")
		_, _ = w.Write([]byte(sample))
	}))
	defer server.Close()

	var log bytes.Buffer
	st := stats.NewStats(&log)

	table := source.Load(context.Background(), server.URL+"/artists.csv", server.Client(), st)
	assert.Len(t, table.Rows, 3)

	table = source.Load(context.Background(), server.URL+"/missing.csv", server.Client(), st)
	assert.Empty(t, table.Header)
	assert.Empty(t, table.Rows)
	assert.Contains(t, log.String(), "using empty table")

	_, err := source.Read(context.Background(), server.URL+"/missing.csv", server.Client(), nil)
	assert.ErrorIs(t, err, source.ErrStatus)
}

func TestLoad_File(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "artists.csv")
	require.NoError(t, os.WriteFile(path, []byte(sample), 0o600))

	table := source.Load(context.Background(), path, nil, nil)
	assert.Len(t, table.Rows, 3)

	table = source.Load(context.Background(), filepath.Join(t.TempDir(), "missing.csv"), nil, nil)
	assert.Empty(t, table.Rows)
}

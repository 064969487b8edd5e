// Package source reads artist tables from remote or local csv files.
package source

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"strings"
	"time"

	"github.com/FAU-CDI/kdict/internal/artist"
	"github.com/FAU-CDI/kdict/internal/stats"
	"github.com/FAU-CDI/kdict/pkg/progress"
)

// DefaultURL is the location of the default artist spreadsheet.
const DefaultURL = "https://raw.githubusercontent.com/mclainbrown/mclainbrown/refs/heads/main/Untitled%20spreadsheet%20-%20Sheet1.csv"

// DefaultTimeout is the default timeout used for remote sources.
const DefaultTimeout = 30 * time.Second

// ErrStatus indicates that a remote source returned a non-2xx status code.
var ErrStatus = errors.New("unexpected status")

// IsRemote reports if location refers to an http or https url.
func IsRemote(location string) bool {
	u, err := url.Parse(location)
	if err != nil {
		return false
	}
	return (u.Scheme == "http" || u.Scheme == "https") && u.Host != ""
}

// Load reads the table from the given location.
//
// When the table cannot be read, the error is logged and an empty table is returned.
// client is used for remote locations; when nil, a client with [DefaultTimeout] is used.
func Load(ctx context.Context, location string, client *http.Client, st *stats.Stats) (table artist.Table) {
	err := st.DoStage(stats.StageFetch, func() (err error) {
		table, err = Read(ctx, location, client, st)
		return err
	})
	if err != nil {
		st.LogWarn("using empty table", "source", location)
		return artist.Table{}
	}

	st.Log("loaded table", "source", location, "columns", len(table.Header), "rows", len(table.Rows))
	return table
}

// Read reads the table from the given location.
// Unlike [Load], it returns any error that occurs.
func Read(ctx context.Context, location string, client *http.Client, st *stats.Stats) (artist.Table, error) {
	reader, size, err := Open(ctx, location, client)
	if err != nil {
		return artist.Table{}, err
	}
	defer reader.Close()

	counter := &progress.Reader{
		Reader: reader,
		Total:  size,
	}
	if rw := st.Rewritable(); rw != nil {
		counter.Rewritable = progress.Rewritable{
			Writer:        rw.Writer,
			FlushInterval: rw.FlushInterval,
		}
	}
	defer counter.Close()

	table, err := Parse(counter)
	if err != nil {
		return artist.Table{}, fmt.Errorf("failed to parse %q: %w", location, err)
	}
	return table, nil
}

// Open opens the given location for reading.
// size is the expected number of bytes, or -1 if unknown.
func Open(ctx context.Context, location string, client *http.Client) (reader io.ReadCloser, size int64, err error) {
	if !IsRemote(location) {
		file, err := os.Open(location)
		if err != nil {
			return nil, -1, fmt.Errorf("failed to open file: %w", err)
		}

		size = -1
		if info, err := file.Stat(); err == nil {
			size = info.Size()
		}
		return file, size, nil
	}

	if client == nil {
		client = &http.Client{Timeout: DefaultTimeout}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, location, nil)
	if err != nil {
		return nil, -1, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Accept", "text/csv,text/plain;q=0.9,*/*;q=0.8")

	res, err := client.Do(req)
	if err != nil {
		return nil, -1, fmt.Errorf("failed to fetch: %w", err)
	}
	if res.StatusCode < 200 || res.StatusCode >= 300 {
		res.Body.Close()
		return nil, -1, fmt.Errorf("%w: %s", ErrStatus, res.Status)
	}
	return res.Body, res.ContentLength, nil
}

// Parse parses a csv document into a table.
// The first record is the header.
// Rows may have a different number of fields than the header.
//
// An empty document results in an empty table.
func Parse(r io.Reader) (table artist.Table, err error) {
	reader := csv.NewReader(r)
	reader.LazyQuotes = true
	reader.FieldsPerRecord = -1

	header, err := reader.Read()
	if errors.Is(err, io.EOF) {
		return artist.Table{}, nil
	}
	if err != nil {
		return artist.Table{}, fmt.Errorf("failed to read header: %w", err)
	}
	if len(header) > 0 {
		header[0] = strings.TrimPrefix(header[0], "\uFEFF")
	}
	table.Header = header

	for {
		row, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return artist.Table{}, fmt.Errorf("failed to read row %d: %w", len(table.Rows)+1, err)
		}
		table.Rows = append(table.Rows, row)
	}
	return table, nil
}

// Package dictionary implements Dictionary, the searchable and describable set of artists.
package dictionary

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"sync"
	"time"

	"github.com/FAU-CDI/kdict/internal/artist"
	"github.com/FAU-CDI/kdict/internal/rdfx"
	"github.com/FAU-CDI/kdict/internal/stats"
	"github.com/FAU-CDI/kdict/internal/triplestore/igraph"
	"github.com/FAU-CDI/kdict/internal/triplestore/imap"
	"github.com/FAU-CDI/kdict/internal/triplestore/impl"
	"github.com/google/uuid"
	gocache "github.com/patrickmn/go-cache"
)

var (
	// ErrNoMatch is returned by [Dictionary.Resolve] when no artist matches.
	ErrNoMatch = errors.New("no artist matches")

	// ErrAmbiguous is returned by [Dictionary.Resolve] when more than one artist matches.
	ErrAmbiguous = errors.New("more than one artist matches")

	// ErrClosed is returned when using a dictionary that has been closed.
	ErrClosed = errors.New("dictionary is closed")
)

// DefaultCacheTTL is the default time serializations are cached for.
const DefaultCacheTTL = 5 * time.Minute

// Options configure a [Dictionary].
type Options struct {
	// Source is the location the records were read from.
	// It is informational only.
	Source string

	// Dir is a directory to store the triple index in.
	// Each dictionary uses a fresh subdirectory, removed when the dictionary is closed.
	// When empty, the index is kept in memory.
	Dir string

	// CacheTTL is the time serializations are cached for.
	// Zero means [DefaultCacheTTL], a negative value disables the cache.
	CacheTTL time.Duration

	// Stats receives progress and log output, and may be nil.
	Stats *stats.Stats
}

// Dictionary holds a set of artist records along with their triples.
//
// A Dictionary is immutable once created and safe for concurrent use.
// Replacing a dictionary means creating a new one, see [Holder].
type Dictionary struct {
	id      uuid.UUID
	created time.Time
	source  string

	names *artist.Index
	graph *igraph.Index
	dir   string // directory holding graph, if any

	cache  *gocache.Cache     // nil when disabled
	stages []stats.StageStats // stages that built this dictionary, if known

	// closed is protected by m.
	// Queries hold m for reading, Close holds it for writing.
	m      sync.RWMutex
	closed bool
}

// NewEngine returns the engine to store a triple index in.
// An empty path results in an in-memory engine.
func NewEngine(path string) igraph.Engine {
	if path == "" {
		return igraph.MemoryEngine{}
	}
	return igraph.DiskEngine{OnDisk: imap.OnDisk{Dir: path}}
}

// New creates a new dictionary holding the given records.
// The records must not be modified afterwards.
func New(records []artist.Record, opts Options) (*Dictionary, error) {
	dict := &Dictionary{
		id:      uuid.New(),
		created: time.Now(),
		source:  opts.Source,
	}

	if opts.Dir != "" {
		dict.dir = filepath.Join(opts.Dir, dict.id.String())
	}

	switch {
	case opts.CacheTTL == 0:
		dict.cache = gocache.New(DefaultCacheTTL, 2*DefaultCacheTTL)
	case opts.CacheTTL > 0:
		dict.cache = gocache.New(opts.CacheTTL, 2*opts.CacheTTL)
	}

	var err error
	dict.graph, err = artist.Build(records, NewEngine(dict.dir), opts.Stats)
	if err != nil {
		if dict.dir != "" {
			err = errors.Join(err, os.RemoveAll(dict.dir))
		}
		return nil, fmt.Errorf("failed to build triple index: %w", err)
	}
	dict.names = artist.NewIndex(records)

	opts.Stats.Log("created dictionary", "id", dict.id, "records", dict.names.Len(), "triples", dict.graph.Stats())
	return dict, nil
}

// Stages returns the stages of loading this dictionary.
// Only dictionaries created by [Load] record stages.
func (dict *Dictionary) Stages() []stats.StageStats {
	return slices.Clone(dict.stages)
}

// ID uniquely identifies this dictionary.
func (dict *Dictionary) ID() uuid.UUID {
	return dict.id
}

// Created returns the time this dictionary was created.
func (dict *Dictionary) Created() time.Time {
	return dict.created
}

// Source returns the location the records of this dictionary were read from.
func (dict *Dictionary) Source() string {
	return dict.source
}

// Len returns the number of records in this dictionary.
func (dict *Dictionary) Len() int {
	return dict.names.Len()
}

// Records returns all records of this dictionary in source order.
// The caller must not modify the returned slice.
func (dict *Dictionary) Records() []artist.Record {
	return dict.names.Records()
}

// Stats returns statistics about the triples of this dictionary.
func (dict *Dictionary) Stats() igraph.Stats {
	return dict.graph.Stats()
}

// Search returns all records whose name contains query, ignoring case.
// See [artist.Index.Search].
func (dict *Dictionary) Search(query string) []artist.Record {
	return dict.names.Search(query)
}

// ArtistTriples returns the turtle serialization of all statements describing the artist with the given name.
//
// When no such artist exists, or the statements can not be retrieved, the serialization is empty.
func (dict *Dictionary) ArtistTriples(name string) string {
	result, err := dict.describe(artist.Identifier(name), rdfx.Turtle)
	if err != nil {
		return ""
	}
	return result
}

// Resolve returns the single record matched by query.
// When no record or more than one record matches, returns [ErrNoMatch] or [ErrAmbiguous] respectively.
func (dict *Dictionary) Resolve(query string) (artist.Record, error) {
	results := dict.Search(query)
	switch len(results) {
	case 0:
		return artist.Record{}, fmt.Errorf("%w %q", ErrNoMatch, query)
	case 1:
		return results[0], nil
	default:
		return artist.Record{}, fmt.Errorf("%w %q (%d matches)", ErrAmbiguous, query, len(results))
	}
}

// Describe serializes all statements describing the given record.
// The record should have been obtained using [Dictionary.Resolve].
func (dict *Dictionary) Describe(record artist.Record, format rdfx.Format) (string, error) {
	return dict.describe(record.Identifier(), format)
}

func (dict *Dictionary) describe(subject impl.Label, format rdfx.Format) (string, error) {
	dict.m.RLock()
	defer dict.m.RUnlock()

	if dict.closed {
		return "", ErrClosed
	}

	key := string(format) + " " + string(subject)
	if dict.cache != nil {
		if value, ok := dict.cache.Get(key); ok {
			return value.(string), nil
		}
	}

	triples, err := rdfx.Extract(dict.graph, subject)
	if err != nil {
		return "", err
	}
	result, err := rdfx.String(triples, format)
	if err != nil {
		return "", fmt.Errorf("failed to serialize %q: %w", subject, err)
	}

	if dict.cache != nil {
		dict.cache.SetDefault(key, result)
	}
	return result, nil
}

// Triples calls f for every triple of this dictionary in insertion order.
// If f returns an error, iteration stops and the error is returned.
func (dict *Dictionary) Triples(f func(igraph.Triple) error) error {
	dict.m.RLock()
	defer dict.m.RUnlock()

	if dict.closed {
		return ErrClosed
	}
	return dict.graph.Triples(f)
}

// Close closes this dictionary and releases any resources associated with it.
// Further calls to Describe return [ErrClosed].
func (dict *Dictionary) Close() error {
	dict.m.Lock()
	defer dict.m.Unlock()

	if dict.closed {
		return nil
	}
	dict.closed = true

	if dict.cache != nil {
		dict.cache.Flush()
	}

	var errs []error
	if err := dict.graph.Close(); err != nil {
		errs = append(errs, fmt.Errorf("failed to close triple index: %w", err))
	}
	if dict.dir != "" {
		if err := os.RemoveAll(dict.dir); err != nil {
			errs = append(errs, fmt.Errorf("failed to remove index directory: %w", err))
		}
	}
	return errors.Join(errs...)
}

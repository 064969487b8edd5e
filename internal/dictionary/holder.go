package dictionary

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"sync"
	"sync/atomic"

	"github.com/FAU-CDI/kdict/internal/artist"
	"github.com/FAU-CDI/kdict/internal/source"
	"github.com/FAU-CDI/kdict/internal/stats"
)

// Load reads records from the given source location and creates a new dictionary from them.
//
// A source that cannot be read results in an empty dictionary.
// The stages recorded in opts.Stats are reset, and the stages of this load are kept with the dictionary.
// Missing columns are logged, and result in missing fields.
func Load(ctx context.Context, location string, client *http.Client, opts Options) (*Dictionary, error) {
	st := opts.Stats
	st.Reset()

	table := source.Load(ctx, location, client, st)
	if missing := table.Missing(); len(table.Header) > 0 && len(missing) > 0 {
		st.LogWarn("table is missing columns", "source", location, "columns", missing)
	}

	var records []artist.Record
	_ = st.DoStage(stats.StageNormalize, func() error {
		records = artist.Normalize(table)
		st.SetCT(len(records), len(records))
		return nil
	})

	opts.Source = location
	dict, err := New(records, opts)
	if err != nil {
		return nil, err
	}
	dict.stages = st.All()
	return dict, nil
}

// Loader creates a new dictionary.
type Loader func(ctx context.Context) (*Dictionary, error)

// Holder holds the current dictionary.
//
// Readers obtain the current dictionary using [Holder.Get].
// A reload builds a complete new dictionary before replacing the current one.
//
// A replaced dictionary is retired, and remains readable until the next reload
// or until the holder is closed.
type Holder struct {
	loader  Loader
	current atomic.Pointer[Dictionary]
	retired *Dictionary // protected by reloading

	reloading sync.Mutex // held while a reload is running
	reloads   atomic.Uint64
	onReload  func(*Dictionary)

	st *stats.Stats
}

// NewHolder creates a new holder that uses loader to create dictionaries.
// The holder does not contain a dictionary until [Holder.Reload] is called.
// st may be nil.
func NewHolder(loader Loader, st *stats.Stats) *Holder {
	return &Holder{loader: loader, st: st}
}

// OnReload sets a function to be called with each newly published dictionary.
// It must be called before the first call to Reload.
func (holder *Holder) OnReload(f func(*Dictionary)) {
	holder.onReload = f
}

// Get returns the current dictionary, or nil if none has been loaded yet.
func (holder *Holder) Get() *Dictionary {
	return holder.current.Load()
}

// Reloads returns the number of dictionaries published so far.
func (holder *Holder) Reloads() uint64 {
	return holder.reloads.Load()
}

// Reload creates a new dictionary and replaces the current one with it.
// The previous dictionary is retired, and the dictionary retired before it is closed.
//
// If creating the new dictionary fails, the current dictionary is kept.
// Concurrent calls to Reload are serialized.
func (holder *Holder) Reload(ctx context.Context) error {
	holder.reloading.Lock()
	defer holder.reloading.Unlock()

	next, err := holder.loader(ctx)
	if err != nil {
		return fmt.Errorf("failed to load dictionary: %w", err)
	}

	prev := holder.current.Swap(next)
	holder.reloads.Add(1)
	if holder.onReload != nil {
		holder.onReload(next)
	}
	holder.st.Log("published dictionary", "id", next.ID(), "records", next.Len())

	if old := holder.retired; old != nil {
		if err := old.Close(); err != nil {
			holder.st.LogError("close retired dictionary", err, "id", old.ID())
		}
	}
	holder.retired = prev
	return nil
}

// Close closes the current and the retired dictionary, if any.
func (holder *Holder) Close() error {
	holder.reloading.Lock()
	defer holder.reloading.Unlock()

	var errs []error
	for _, dict := range []*Dictionary{holder.current.Swap(nil), holder.retired} {
		if dict == nil {
			continue
		}
		if err := dict.Close(); err != nil {
			errs = append(errs, err)
		}
	}
	holder.retired = nil
	return errors.Join(errs...)
}

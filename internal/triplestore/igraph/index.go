// Package igraph provides Index
package igraph

import (
	"errors"
	"fmt"
	"slices"
	"sync"
	"sync/atomic"

	"github.com/FAU-CDI/kdict/internal/triplestore/imap"
	"github.com/FAU-CDI/kdict/internal/triplestore/impl"
)

// cSpell:words igraph imap

// Index represents a set of triples of a directed labeled graph with optionally attached data.
//
// Labels are used for nodes and edges, see [Index.AddTriple].
// Datum is used for literal values attached to nodes, see [Index.AddData].
// Each distinct triple is stored exactly once.
//
// The zero value represents an empty index, but is otherwise not ready to be used.
// To fill an index, it first needs to be [Index.Reset], and then [Index.Finalize]d.
// Once finalized, an index is read-only.
//
// Index may not be modified concurrently, however it is possible to run several queries concurrently.
type Index struct {
	labels   imap.IMap
	data     imap.Store[impl.ID, impl.Datum]  // literal id => datum
	literals imap.Store[impl.Datum, impl.ID]  // datum => literal id
	triples  imap.Store[impl.ID, IndexTriple] // triple id => triple
	spoIndex ThreeStorage                     // <subject> <predicate> <object>

	stats     Stats
	finalized atomic.Bool
	triple    impl.ID // last triple id handed out
}

// ErrFinalized is returned when attempting to modify a finalized index.
var ErrFinalized = errors.New("IGraph: Finalized")

// Stats returns statistics from this graph.
func (index *Index) Stats() Stats {
	return index.stats
}

// Finalized reports if this index has been finalized.
func (index *Index) Finalized() bool {
	return index.finalized.Load()
}

// TripleCount returns the total number of (distinct) triples in this graph.
func (index *Index) TripleCount() (count uint64, err error) {
	if index == nil || index.triples == nil {
		return 0, nil
	}
	count, err = index.triples.Count()
	if err != nil {
		return 0, fmt.Errorf("failed to count triples: %w", err)
	}
	return count, nil
}

// Reset resets this index and prepares all internal structures for use.
func (index *Index) Reset(engine Engine) (err error) {
	if err := index.Close(); err != nil {
		return fmt.Errorf("failed to close index: %w", err)
	}

	// close everything opened so far when a later storage fails
	defer func() {
		if err != nil {
			if e2 := index.Close(); e2 != nil {
				err = errors.Join(err, fmt.Errorf("failed to close index: %w", e2))
			}
		}
	}()

	if err := index.labels.Reset(engine); err != nil {
		return fmt.Errorf("failed to reset labels: %w", err)
	}

	index.data, err = engine.Data()
	if err != nil {
		return fmt.Errorf("failed to initialize data: %w", err)
	}

	index.literals, err = engine.Literals()
	if err != nil {
		return fmt.Errorf("failed to initialize literals: %w", err)
	}

	index.triples, err = engine.Triples()
	if err != nil {
		return fmt.Errorf("failed to initialize triples: %w", err)
	}

	index.spoIndex, err = engine.SPOIndex()
	if err != nil {
		return fmt.Errorf("failed to initialize SPO index: %w", err)
	}

	index.triple.Reset()
	index.stats = Stats{}
	index.finalized.Store(false)
	return nil
}

// AddTriple inserts a subject-predicate-object triple into the index.
// Adding a triple more than once has no effect.
//
// Reset must have been called, or this function may panic.
// After all Add operations have finished, Finalize must be called.
func (index *Index) AddTriple(subject, predicate, object impl.Label) error {
	if index.finalized.Load() {
		return ErrFinalized
	}

	s, p, err := index.addSP(subject, predicate)
	if err != nil {
		return err
	}
	o, err := index.labels.Add(object)
	if err != nil {
		return fmt.Errorf("failed to add object label: %w", err)
	}

	added, err := index.insert(Regular, s, p, o)
	if err != nil {
		return err
	}
	if added {
		index.stats.DirectTriples++
	}
	return nil
}

// AddData inserts a subject-predicate-datum triple into the index.
// Adding the same datum more than once for the same subject and predicate has no effect.
//
// Reset must have been called, or this function may panic.
// After all Add operations have finished, Finalize must be called.
func (index *Index) AddData(subject, predicate impl.Label, object impl.Datum) error {
	if index.finalized.Load() {
		return ErrFinalized
	}

	s, p, err := index.addSP(subject, predicate)
	if err != nil {
		return err
	}
	o, err := index.addLiteral(object)
	if err != nil {
		return err
	}

	added, err := index.insert(Data, s, p, o)
	if err != nil {
		return err
	}
	if added {
		index.stats.DatumTriples++
	}
	return nil
}

func (index *Index) addSP(subject, predicate impl.Label) (s, p impl.ID, err error) {
	s, err = index.labels.Add(subject)
	if err != nil {
		return s, p, fmt.Errorf("failed to add subject label: %w", err)
	}
	p, err = index.labels.Add(predicate)
	if err != nil {
		return s, p, fmt.Errorf("failed to add predicate label: %w", err)
	}
	return s, p, nil
}

// addLiteral returns the id of the given datum, allocating a new one if needed.
// Literal ids share the id space of labels.
func (index *Index) addLiteral(datum impl.Datum) (impl.ID, error) {
	id, ok, err := index.literals.Get(datum)
	if err != nil {
		return id, fmt.Errorf("failed to lookup literal: %w", err)
	}
	if ok {
		return id, nil
	}

	id = index.labels.Next()
	if err := index.literals.Set(datum, id); err != nil {
		return id, fmt.Errorf("failed to store literal: %w", err)
	}
	if err := index.data.Set(id, datum); err != nil {
		return id, fmt.Errorf("failed to store datum: %w", err)
	}
	return id, nil
}

// insert stores the triple (s, p, o) unless it already exists.
func (index *Index) insert(role Role, s, p, o impl.ID) (added bool, err error) {
	_, exists, err := index.spoIndex.Has(s, p, o)
	if err != nil {
		return false, fmt.Errorf("failed to check spo index: %w", err)
	}
	if exists {
		index.stats.DuplicateTriples++
		return false, nil
	}

	id := index.triple.Inc()
	if err := index.triples.Set(id, IndexTriple{Role: role, Items: [3]impl.ID{s, p, o}}); err != nil {
		return false, fmt.Errorf("failed to add triple to index: %w", err)
	}
	if _, err := index.spoIndex.Add(s, p, o, id); err != nil {
		return false, fmt.Errorf("failed to add to spo index: %w", err)
	}
	return true, nil
}

// Triple returns the triple with the given id.
func (index *Index) Triple(id impl.ID) (triple Triple, err error) {
	t, ok, err := index.triples.Get(id)
	if err != nil {
		return triple, fmt.Errorf("failed to resolve id: %w", err)
	}
	if !ok {
		return triple, fmt.Errorf("unknown triple %s", id)
	}

	triple.ID = id
	triple.Role = t.Role

	triple.Subject, err = index.labels.Reverse(t.Items[0])
	if err != nil {
		return triple, fmt.Errorf("failed to reverse subject: %w", err)
	}
	triple.Predicate, err = index.labels.Reverse(t.Items[1])
	if err != nil {
		return triple, fmt.Errorf("failed to reverse predicate: %w", err)
	}

	if t.Role == Data {
		triple.Datum, err = imap.Lookup(index.data, t.Items[2])
		if err != nil {
			return triple, fmt.Errorf("failed to resolve datum: %w", err)
		}
		return triple, nil
	}

	triple.Object, err = index.labels.Reverse(t.Items[2])
	if err != nil {
		return triple, fmt.Errorf("failed to reverse object: %w", err)
	}
	return triple, nil
}

// Subject returns all triples with exactly the given subject in insertion order.
// An unknown subject results in no triples and no error.
func (index *Index) Subject(subject impl.Label) ([]Triple, error) {
	s, ok, err := index.labels.Get(subject)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve subject: %w", err)
	}
	if !ok {
		return nil, nil
	}

	var ids []impl.ID
	if err := index.spoIndex.Scan(s, func(_, _ impl.ID, l impl.ID) error {
		ids = append(ids, l)
		return nil
	}); err != nil {
		return nil, fmt.Errorf("failed to scan spo index: %w", err)
	}
	slices.SortFunc(ids, impl.ID.Compare)

	triples := make([]Triple, len(ids))
	for i, id := range ids {
		triples[i], err = index.Triple(id)
		if err != nil {
			return nil, err
		}
	}
	return triples, nil
}

// Triples calls f for every triple in this index, in insertion order.
// If f returns an error, iteration stops and the error is returned.
func (index *Index) Triples(f func(Triple) error) error {
	var id impl.ID
	for id.Compare(index.triple) < 0 {
		triple, err := index.Triple(id.Inc())
		if err != nil {
			return err
		}
		if err := f(triple); err != nil {
			return err
		}
	}
	return nil
}

// Compact informs the implementation to perform any internal optimizations.
func (index *Index) Compact() error {
	if index.finalized.Load() {
		return ErrFinalized
	}

	return index.parallel(
		index.labels.Compact,
		index.data.Compact,
		index.literals.Compact,
		index.triples.Compact,
		index.spoIndex.Compact,
	)
}

// Finalize finalizes any adding operations into this graph.
//
// Finalize must be called before any query is performed,
// but after any calls to the Add* methods.
// Calling finalize multiple times is invalid.
func (index *Index) Finalize() error {
	if index.finalized.Swap(true) {
		return ErrFinalized
	}

	return index.parallel(
		index.labels.Finalize,
		index.data.Finalize,
		index.literals.Finalize,
		index.triples.Finalize,
		index.spoIndex.Finalize,
	)
}

// parallel runs all functions concurrently and joins their errors.
func (index *Index) parallel(fs ...func() error) error {
	errs := make([]error, len(fs))

	var wg sync.WaitGroup
	wg.Add(len(fs))
	for i, f := range fs {
		go func() {
			defer wg.Done()
			errs[i] = f()
		}()
	}
	wg.Wait()

	return errors.Join(errs...)
}

// Close closes any storages attached to this index.
func (index *Index) Close() error {
	var errs [5]error
	errs[0] = index.labels.Close()

	if index.data != nil {
		errs[1] = index.data.Close()
		index.data = nil
	}

	if index.literals != nil {
		errs[2] = index.literals.Close()
		index.literals = nil
	}

	if index.triples != nil {
		errs[3] = index.triples.Close()
		index.triples = nil
	}

	if index.spoIndex != nil {
		errs[4] = index.spoIndex.Close()
		index.spoIndex = nil
	}

	return errors.Join(errs[:]...)
}

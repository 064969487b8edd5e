// Package imap interns labels into ids.
package imap

import (
	"errors"
	"fmt"
	"sync"
	"sync/atomic"

	"github.com/FAU-CDI/kdict/internal/triplestore/impl"
)

// cspell:words imap

// IMap holds forward and reverse mapping from Labels to IDs.
// An IMap may be read concurrently; however any operations which change internal state are not safe to access concurrently.
//
// The zero map is not ready for use; it should be initialized using a call to [IMap.Reset].
type IMap struct {
	forward Store[impl.Label, impl.ID] // mapping from labels to their ids
	reverse Store[impl.ID, impl.Label] // mapping from ids back to their labels

	finalized atomic.Bool // stores if the map has been finalized
	id        impl.ID     // last id handed out
}

// ErrFinalized is returned when attempting to modify a finalized IMap.
var ErrFinalized = errors.New("IMap is finalized")

// Reset resets this IMap to be empty, closing any previously opened storages.
func (mp *IMap) Reset(engine Backend) error {
	if err := mp.Close(); err != nil {
		return err
	}

	var err error
	mp.forward, err = engine.Forward()
	if err != nil {
		return fmt.Errorf("failed to open forward map: %w", err)
	}

	mp.reverse, err = engine.Reverse()
	if err != nil {
		return errors.Join(
			fmt.Errorf("failed to open reverse map: %w", err),
			mp.Close(),
		)
	}

	mp.id.Reset()
	mp.finalized.Store(false)
	return nil
}

// Next returns a new id that has not been handed out by this map.
// It is always valid.
//
// Callers use this to allocate ids for values that are not labels.
func (mp *IMap) Next() impl.ID {
	return mp.id.Inc()
}

// Add inserts label into this IMap and returns the corresponding id.
// When label already exists in this IMap, returns the existing id.
func (mp *IMap) Add(label impl.Label) (id impl.ID, err error) {
	id, _, err = mp.AddNew(label)
	return
}

// AddNew behaves like Add, except additionally returns a boolean indicating if the returned id existed previously.
func (mp *IMap) AddNew(label impl.Label) (id impl.ID, old bool, err error) {
	if mp.finalized.Load() {
		return id, false, ErrFinalized
	}

	id, old, err = mp.forward.Get(label)
	if err != nil || old {
		return
	}

	id = mp.id.Inc()
	if err := mp.forward.Set(label, id); err != nil {
		return id, false, fmt.Errorf("failed to store forward mapping: %w", err)
	}
	if err := mp.reverse.Set(id, label); err != nil {
		return id, false, fmt.Errorf("failed to store reverse mapping: %w", err)
	}
	return id, false, nil
}

// Get returns the id of label without adding it.
// When the label is unknown, returns ok = false.
func (mp *IMap) Get(label impl.Label) (id impl.ID, ok bool, err error) {
	return mp.forward.Get(label)
}

// Forward returns the id corresponding to the given label.
//
// If the label is not contained in this map, the zero ID is returned.
// The zero ID is never returned for a valid id.
func (mp *IMap) Forward(label impl.Label) (impl.ID, error) {
	return Lookup(mp.forward, label)
}

// Reverse returns the label corresponding to the given id.
// When id is not contained in this map, the zero value of the label type is returned.
func (mp *IMap) Reverse(id impl.ID) (impl.Label, error) {
	return Lookup(mp.reverse, id)
}

// Count returns the number of labels stored in this map.
func (mp *IMap) Count() (uint64, error) {
	return mp.forward.Count()
}

// Compact indicates to the implementation to perform any optimization of internal data structures.
func (mp *IMap) Compact() error {
	return mp.both(
		func(forward Store[impl.Label, impl.ID]) error { return forward.Compact() },
		func(reverse Store[impl.ID, impl.Label]) error { return reverse.Compact() },
	)
}

// Finalize indicates that no more mutating calls will be made.
// Finalizing a map twice returns [ErrFinalized].
func (mp *IMap) Finalize() error {
	if mp.finalized.Swap(true) {
		return ErrFinalized
	}
	return mp.both(
		func(forward Store[impl.Label, impl.ID]) error { return forward.Finalize() },
		func(reverse Store[impl.ID, impl.Label]) error { return reverse.Finalize() },
	)
}

// both concurrently invokes the given functions on the forward and reverse maps.
func (mp *IMap) both(forward func(Store[impl.Label, impl.ID]) error, reverse func(Store[impl.ID, impl.Label]) error) error {
	var errs [2]error

	var wg sync.WaitGroup
	wg.Add(2)

	go func() {
		defer wg.Done()
		errs[0] = forward(mp.forward)
	}()

	go func() {
		defer wg.Done()
		errs[1] = reverse(mp.reverse)
	}()

	wg.Wait()
	return errors.Join(errs[:]...)
}

// Close closes any storages related to this IMap.
//
// Calling close multiple times results in err = nil.
func (mp *IMap) Close() error {
	var errs [2]error

	if mp.forward != nil {
		errs[0] = mp.forward.Close()
		mp.forward = nil
	}
	if mp.reverse != nil {
		errs[1] = mp.reverse.Close()
		mp.reverse = nil
	}

	return errors.Join(errs[:]...)
}

package imap

import (
	"errors"

	"github.com/FAU-CDI/kdict/internal/triplestore/impl"
)

// Store holds key-value pairs for an index.
//
// Stores are filled first, then finalized, and only read afterwards.
type Store[Key comparable, Value any] interface {
	// Set stores value under key, replacing any previous value.
	Set(key Key, value Value) error

	// Get returns the value stored under key.
	// ok reports if such a value exists.
	Get(key Key) (value Value, ok bool, err error)

	// Count returns the number of stored keys.
	Count() (uint64, error)

	// Compact optimizes internal data structures.
	Compact() error

	// Finalize indicates that no more calls to Set or Compact will be made.
	Finalize() error

	// Close releases all resources held by this store.
	Close() error
}

// Lookup returns the value stored under key in store.
// A missing key results in the zero value.
func Lookup[Key comparable, Value any](store Store[Key, Value], key Key) (Value, error) {
	value, _, err := store.Get(key)
	return value, err
}

// Backend opens the stores of an [IMap].
type Backend interface {
	Forward() (Store[impl.Label, impl.ID], error)
	Reverse() (Store[impl.ID, impl.Label], error)
}

// MemoryStore implements [Store] using a builtin map.
type MemoryStore[Key comparable, Value any] map[Key]Value

// NewMemoryStore returns a new empty MemoryStore.
func NewMemoryStore[Key comparable, Value any]() *MemoryStore[Key, Value] {
	store := make(MemoryStore[Key, Value])
	return &store
}

var errStoreClosed = errors.New("store is closed")

func (store *MemoryStore[Key, Value]) Set(key Key, value Value) error {
	if *store == nil {
		return errStoreClosed
	}
	(*store)[key] = value
	return nil
}

func (store *MemoryStore[Key, Value]) Get(key Key) (Value, bool, error) {
	value, ok := (*store)[key]
	return value, ok, nil
}

func (store *MemoryStore[Key, Value]) Count() (uint64, error) {
	return uint64(len(*store)), nil
}

func (*MemoryStore[Key, Value]) Compact() error  { return nil }
func (*MemoryStore[Key, Value]) Finalize() error { return nil }

// Close discards all values.
func (store *MemoryStore[Key, Value]) Close() error {
	*store = nil
	return nil
}

// InMemory is a [Backend] that keeps labels in memory.
type InMemory struct{}

func (InMemory) Forward() (Store[impl.Label, impl.ID], error) {
	return NewMemoryStore[impl.Label, impl.ID](), nil
}

func (InMemory) Reverse() (Store[impl.ID, impl.Label], error) {
	return NewMemoryStore[impl.ID, impl.Label](), nil
}

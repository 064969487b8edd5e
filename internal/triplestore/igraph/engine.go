package igraph

import (
	"io"

	"github.com/FAU-CDI/kdict/internal/triplestore/imap"
	"github.com/FAU-CDI/kdict/internal/triplestore/impl"
)

// Engine creates the storages used by an [Index].
type Engine interface {
	imap.Backend

	Data() (imap.Store[impl.ID, impl.Datum], error)     // literal ids to their datum
	Literals() (imap.Store[impl.Datum, impl.ID], error) // datum to their literal ids
	Triples() (imap.Store[impl.ID, IndexTriple], error) // triple ids to their triple
	SPOIndex() (ThreeStorage, error)                    // <subject> <predicate> <object>
}

// ThreeStorage stores a set of (a, b, c) id triples, each with an attached label.
type ThreeStorage interface {
	io.Closer

	// Add adds a new mapping for the given (a, b, c) with label l.
	// When the mapping already exists, it is not modified and conflicted is true.
	Add(a, b, c impl.ID, l impl.ID) (conflicted bool, err error)

	// Count counts the overall number of entries in the index
	Count() (int64, error)

	// Compact indicates to the caller to perform internal optimizations of all data structures.
	Compact() error

	// Finalize informs the storage that no more mutable calls will be made.
	// A mutable call is one to Compact or Add.
	Finalize() error

	// Scan calls f for every (b, c) stored for the given a.
	// l is the label stored alongside the triple.
	// The order of calls is not defined.
	// If f returns an error, iteration stops and the error is returned to the caller.
	Scan(a impl.ID, f func(b, c impl.ID, l impl.ID) error) error

	// Has checks if the given mapping exists and returns the label (if any)
	Has(a, b, c impl.ID) (impl.ID, bool, error)
}

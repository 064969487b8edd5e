package igraph

import (
	"github.com/FAU-CDI/kdict/internal/triplestore/imap"
	"github.com/FAU-CDI/kdict/internal/triplestore/impl"
)

// MemoryEngine represents an engine that stores everything in memory.
type MemoryEngine struct {
	imap.InMemory
}

var _ Engine = MemoryEngine{}

func (MemoryEngine) Data() (imap.Store[impl.ID, impl.Datum], error) {
	return imap.NewMemoryStore[impl.ID, impl.Datum](), nil
}

func (MemoryEngine) Literals() (imap.Store[impl.Datum, impl.ID], error) {
	return imap.NewMemoryStore[impl.Datum, impl.ID](), nil
}

func (MemoryEngine) Triples() (imap.Store[impl.ID, IndexTriple], error) {
	return imap.NewMemoryStore[impl.ID, IndexTriple](), nil
}

func (MemoryEngine) SPOIndex() (ThreeStorage, error) {
	return make(ThreeHash), nil
}

// ThreeHash implements ThreeStorage in memory.
// It maps subject to predicate to object to the id of the triple.
type ThreeHash map[impl.ID]map[impl.ID]map[impl.ID]impl.ID

func (th ThreeHash) Add(a, b, c impl.ID, l impl.ID) (conflicted bool, err error) {
	bs, ok := th[a]
	if !ok {
		bs = make(map[impl.ID]map[impl.ID]impl.ID)
		th[a] = bs
	}
	cs, ok := bs[b]
	if !ok {
		cs = make(map[impl.ID]impl.ID, 1)
		bs[b] = cs
	}
	if _, conflicted = cs[c]; !conflicted {
		cs[c] = l
	}
	return conflicted, nil
}

func (th ThreeHash) Count() (total int64, err error) {
	for _, bs := range th {
		for _, cs := range bs {
			total += int64(len(cs))
		}
	}
	return total, nil
}

func (ThreeHash) Compact() error  { return nil }
func (ThreeHash) Finalize() error { return nil }

func (th ThreeHash) Scan(a impl.ID, f func(b, c impl.ID, l impl.ID) error) error {
	for b, cs := range th[a] {
		for c, l := range cs {
			if err := f(b, c, l); err != nil {
				return err
			}
		}
	}
	return nil
}

func (th ThreeHash) Has(a, b, c impl.ID) (impl.ID, bool, error) {
	l, ok := th[a][b][c]
	return l, ok, nil
}

// Close clears all entries.
func (th ThreeHash) Close() error {
	clear(th)
	return nil
}

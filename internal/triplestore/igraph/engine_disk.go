package igraph

import (
	"errors"
	"fmt"
	"path/filepath"

	"github.com/FAU-CDI/kdict/internal/triplestore/imap"
	"github.com/FAU-CDI/kdict/internal/triplestore/impl"
	"github.com/syndtr/goleveldb/leveldb"
	"github.com/syndtr/goleveldb/leveldb/util"
)

// DiskEngine represents an engine that stores everything in leveldb databases inside Dir.
type DiskEngine struct {
	imap.OnDisk
}

var _ Engine = DiskEngine{}

func (de DiskEngine) Data() (imap.Store[impl.ID, impl.Datum], error) {
	return imap.OpenStore(filepath.Join(de.Dir, "data.leveldb"), imap.IDCodec, imap.DatumCodec)
}

func (de DiskEngine) Literals() (imap.Store[impl.Datum, impl.ID], error) {
	return imap.OpenStore(filepath.Join(de.Dir, "literals.leveldb"), imap.DatumCodec, imap.IDCodec)
}

func (de DiskEngine) Triples() (imap.Store[impl.ID, IndexTriple], error) {
	return imap.OpenStore(filepath.Join(de.Dir, "triples.leveldb"), imap.IDCodec, TripleCodec)
}

func (de DiskEngine) SPOIndex() (ThreeStorage, error) {
	db, err := imap.OpenLevel(filepath.Join(de.Dir, "spo.leveldb"))
	if err != nil {
		return nil, err
	}
	return &ThreeDiskHash{DB: db}, nil
}

// ThreeDiskHash implements ThreeStorage on disk.
// Keys are the encoded (a, b, c) ids, values the encoded label.
// As encoded ids share a prefix with their subject, scanning a subject is a prefix scan.
type ThreeDiskHash struct {
	DB *leveldb.DB
}

func (tdh *ThreeDiskHash) Add(a, b, c impl.ID, l impl.ID) (conflicted bool, err error) {
	key := impl.EncodeIDs(a, b, c)

	conflicted, err = tdh.DB.Has(key, nil)
	if err != nil {
		return false, fmt.Errorf("failed to check for triple: %w", err)
	}
	if conflicted {
		return true, nil
	}

	if err := tdh.DB.Put(key, impl.EncodeIDs(l), nil); err != nil {
		return false, fmt.Errorf("failed to store triple: %w", err)
	}
	return false, nil
}

func (tdh *ThreeDiskHash) Count() (int64, error) {
	count, err := imap.CountLevel(tdh.DB)
	return int64(count), err
}

func (tdh *ThreeDiskHash) Compact() error {
	return imap.CompactLevel(tdh.DB)
}

func (tdh *ThreeDiskHash) Finalize() error {
	return tdh.DB.SetReadOnly()
}

func (tdh *ThreeDiskHash) Scan(a impl.ID, f func(b, c impl.ID, l impl.ID) error) error {
	it := tdh.DB.NewIterator(util.BytesPrefix(impl.EncodeIDs(a)), nil)
	defer it.Release()

	for it.Next() {
		key := it.Key()
		if err := f(impl.DecodeID(key, 1), impl.DecodeID(key, 2), impl.DecodeID(it.Value(), 0)); err != nil {
			return err
		}
	}
	return it.Error()
}

func (tdh *ThreeDiskHash) Has(a, b, c impl.ID) (l impl.ID, ok bool, err error) {
	value, err := tdh.DB.Get(impl.EncodeIDs(a, b, c), nil)
	switch {
	case errors.Is(err, leveldb.ErrNotFound):
		return l, false, nil
	case err != nil:
		return l, false, err
	}

	err = impl.UnmarshalIDs(value, &l)
	return l, err == nil, err
}

func (tdh *ThreeDiskHash) Close() (err error) {
	if tdh.DB != nil {
		err = tdh.DB.Close()
		tdh.DB = nil
	}
	return
}

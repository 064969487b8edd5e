package imap

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/FAU-CDI/kdict/internal/triplestore/impl"
	"github.com/syndtr/goleveldb/leveldb"
	"github.com/syndtr/goleveldb/leveldb/util"
)

// Codec converts values to and from their byte representation.
type Codec[T any] struct {
	Encode func(T) []byte
	Decode func([]byte) (T, error)
}

var (
	LabelCodec = Codec[impl.Label]{
		Encode: func(label impl.Label) []byte { return []byte(label) },
		Decode: func(src []byte) (impl.Label, error) { return impl.Label(src), nil },
	}
	DatumCodec = Codec[impl.Datum]{
		Encode: func(datum impl.Datum) []byte { return []byte(datum) },
		Decode: func(src []byte) (impl.Datum, error) { return impl.Datum(src), nil },
	}
	IDCodec = Codec[impl.ID]{
		Encode: func(id impl.ID) []byte { return impl.EncodeIDs(id) },
		Decode: func(src []byte) (id impl.ID, err error) {
			err = impl.UnmarshalIDs(src, &id)
			return
		},
	}
)

// OpenLevel opens a new leveldb database at path.
// Anything previously stored at path is removed.
func OpenLevel(path string) (*leveldb.DB, error) {
	if err := os.RemoveAll(path); err != nil {
		return nil, fmt.Errorf("failed to cleanup path: %w", err)
	}

	db, err := leveldb.OpenFile(path, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to open database file: %w", err)
	}
	return db, nil
}

// LevelStore implements [Store] inside a leveldb database.
type LevelStore[Key comparable, Value any] struct {
	db    *leveldb.DB
	key   Codec[Key]
	value Codec[Value]
}

// OpenLevelStore opens a new LevelStore at path, see [OpenLevel].
func OpenLevelStore[Key comparable, Value any](path string, key Codec[Key], value Codec[Value]) (*LevelStore[Key, Value], error) {
	db, err := OpenLevel(path)
	if err != nil {
		return nil, err
	}
	return &LevelStore[Key, Value]{db: db, key: key, value: value}, nil
}

func (ls *LevelStore[Key, Value]) Set(key Key, value Value) error {
	if err := ls.db.Put(ls.key.Encode(key), ls.value.Encode(value), nil); err != nil {
		return fmt.Errorf("failed to store value: %w", err)
	}
	return nil
}

func (ls *LevelStore[Key, Value]) Get(key Key) (value Value, ok bool, err error) {
	src, err := ls.db.Get(ls.key.Encode(key), nil)
	switch {
	case errors.Is(err, leveldb.ErrNotFound):
		return value, false, nil
	case err != nil:
		return value, false, fmt.Errorf("failed to read value: %w", err)
	}

	value, err = ls.value.Decode(src)
	if err != nil {
		return value, false, fmt.Errorf("failed to decode value: %w", err)
	}
	return value, true, nil
}

func (ls *LevelStore[Key, Value]) Count() (uint64, error) {
	return CountLevel(ls.db)
}

func (ls *LevelStore[Key, Value]) Compact() error {
	return CompactLevel(ls.db)
}

// Finalize marks the database as read-only.
// Compaction is left to an explicit call to Compact.
func (ls *LevelStore[Key, Value]) Finalize() error {
	return ls.db.SetReadOnly()
}

func (ls *LevelStore[Key, Value]) Close() error {
	if ls.db == nil {
		return nil
	}
	db := ls.db
	ls.db = nil
	if err := db.Close(); err != nil {
		return fmt.Errorf("failed to close database: %w", err)
	}
	return nil
}

// CountLevel counts the entries of db.
func CountLevel(db *leveldb.DB) (count uint64, err error) {
	it := db.NewIterator(nil, nil)
	defer it.Release()

	for it.Next() {
		count++
	}
	if err := it.Error(); err != nil {
		return 0, fmt.Errorf("failed to count database: %w", err)
	}
	return count, nil
}

// CompactLevel compacts all of db.
func CompactLevel(db *leveldb.DB) error {
	if err := db.CompactRange(util.Range{}); err != nil {
		return fmt.Errorf("failed to compact database: %w", err)
	}
	return nil
}

// OnDisk is a [Backend] that keeps labels in leveldb databases inside Dir.
type OnDisk struct {
	Dir string
}

func (disk OnDisk) Forward() (Store[impl.Label, impl.ID], error) {
	return OpenStore(filepath.Join(disk.Dir, "forward.leveldb"), LabelCodec, IDCodec)
}

func (disk OnDisk) Reverse() (Store[impl.ID, impl.Label], error) {
	return OpenStore(filepath.Join(disk.Dir, "reverse.leveldb"), IDCodec, LabelCodec)
}

// OpenStore is like [OpenLevelStore], but returns a [Store].
// On error, the returned store is nil.
func OpenStore[Key comparable, Value any](path string, key Codec[Key], value Codec[Value]) (Store[Key, Value], error) {
	ls, err := OpenLevelStore(path, key, value)
	if err != nil {
		return nil, err
	}
	return ls, nil
}

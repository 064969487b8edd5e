package impl

import (
	"cmp"
	"encoding/binary"
	"errors"
	"fmt"
	"math"
)

// ID identifies a label, datum or triple within an index.
// IDs are handed out sequentially starting at 1; the zero ID is invalid.
type ID uint32

// IDLen is the size of an encoded ID in bytes
const IDLen = 4

// Valid checks if this ID has been handed out.
func (id ID) Valid() bool {
	return id != 0
}

// Reset resets this id to the invalid value
func (id *ID) Reset() {
	*id = 0
}

// Inc increments this ID, and then returns a copy of the new value.
//
// Inc panics once all possible ids have been handed out.
func (id *ID) Inc() ID {
	if *id == math.MaxUint32 {
		panic("ID.Inc: out of ids")
	}
	*id++
	return *id
}

// Compare compares this id to other.
// The result will be 0 if id == other, -1 if id < other, and +1 if id > other.
func (id ID) Compare(other ID) int {
	return cmp.Compare(id, other)
}

func (id ID) String() string {
	return fmt.Sprintf("ID(%d)", uint32(id))
}

// Encode writes id into dest, which must be at least [IDLen] bytes long.
// Encoded ids compare bytewise in the same order as the ids themselves.
func (id ID) Encode(dest []byte) {
	binary.BigEndian.PutUint32(dest, uint32(id))
}

// Decode sets this id from src, which must be at least [IDLen] bytes long.
func (id *ID) Decode(src []byte) {
	*id = ID(binary.BigEndian.Uint32(src))
}

// EncodeIDs encodes ids sequentially into a new slice of bytes.
func EncodeIDs(ids ...ID) []byte {
	dest := make([]byte, 0, len(ids)*IDLen)
	for _, id := range ids {
		dest = binary.BigEndian.AppendUint32(dest, uint32(id))
	}
	return dest
}

// DecodeID decodes the id with the given index from a slice produced by [EncodeIDs].
func DecodeID(src []byte, index int) (id ID) {
	id.Decode(src[index*IDLen:])
	return
}

var errShortIDs = errors.New("UnmarshalIDs: input too short")

// UnmarshalIDs decodes len(dests) ids from src.
// Unlike [DecodeID], it returns an error when src is too short.
func UnmarshalIDs(src []byte, dests ...*ID) error {
	if len(src) < len(dests)*IDLen {
		return errShortIDs
	}
	for i, dest := range dests {
		dest.Decode(src[i*IDLen:])
	}
	return nil
}

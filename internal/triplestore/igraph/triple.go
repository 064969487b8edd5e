package igraph

import (
	"errors"
	"fmt"

	"github.com/FAU-CDI/kdict/internal/triplestore/imap"
	"github.com/FAU-CDI/kdict/internal/triplestore/impl"
	"github.com/anglo-korean/rdf"
)

// Stats holds statistics about triples in the index
type Stats struct {
	DirectTriples    uint64 `json:"direct"`    // (subject, predicate, object) triples
	DatumTriples     uint64 `json:"datum"`     // (subject, predicate, literal) triples
	DuplicateTriples uint64 `json:"duplicate"` // triples that were added more than once
}

func (stats Stats) String() string {
	return fmt.Sprintf("{direct:%d,datum:%d,duplicate:%d}", stats.DirectTriples, stats.DatumTriples, stats.DuplicateTriples)
}

// Role represents the role of the triple
type Role uint8

const (
	// Regular represents a triple pointing to another label
	Regular Role = iota

	// Data represents a triple pointing to a literal
	Data
)

// IndexTriple represents a triple stored inside the index
type IndexTriple struct {
	Role  // what kind of object does the triple have?
	Items [3]impl.ID
}

// tripleLen is the length of an encoded IndexTriple
const tripleLen = 1 + 3*impl.IDLen

// EncodeTriple encodes an IndexTriple into bytes.
func EncodeTriple(triple IndexTriple) []byte {
	dest := make([]byte, 1, tripleLen)
	dest[0] = byte(triple.Role)
	return append(dest, impl.EncodeIDs(triple.Items[:]...)...)
}

var errDecodeTriple = errors.New("DecodeTriple: src too short")

// DecodeTriple decodes an IndexTriple encoded by [EncodeTriple].
func DecodeTriple(src []byte) (triple IndexTriple, err error) {
	if len(src) < tripleLen {
		return triple, errDecodeTriple
	}
	triple.Role = Role(src[0])
	err = impl.UnmarshalIDs(src[1:], &triple.Items[0], &triple.Items[1], &triple.Items[2])
	return triple, err
}

// TripleCodec stores an IndexTriple inside a database.
var TripleCodec = imap.Codec[IndexTriple]{Encode: EncodeTriple, Decode: DecodeTriple}

// Triple represents a triple found inside a graph
type Triple struct {
	Subject   impl.Label
	Predicate impl.Label

	// Object is set when Role == Regular, Datum when Role == Data.
	Object impl.Label
	Datum  impl.Datum

	// ID uniquely identifies this triple.
	// IDs are handed out in insertion order.
	ID impl.ID

	Role Role
}

// HasDatum reports if the object of this triple is a literal.
func (triple Triple) HasDatum() bool {
	return triple.Role == Data
}

// Triple returns this Triple as an rdf triple
func (triple Triple) Triple() (spo rdf.Triple, err error) {
	spo.Subj, err = rdf.NewIRI(string(triple.Subject))
	if err != nil {
		return rdf.Triple{}, fmt.Errorf("invalid subject: %w", err)
	}

	spo.Pred, err = rdf.NewIRI(string(triple.Predicate))
	if err != nil {
		return rdf.Triple{}, fmt.Errorf("invalid predicate: %w", err)
	}

	if triple.HasDatum() {
		spo.Obj, err = rdf.NewLiteral(string(triple.Datum))
	} else {
		spo.Obj, err = rdf.NewIRI(string(triple.Object))
	}
	if err != nil {
		return rdf.Triple{}, fmt.Errorf("invalid object: %w", err)
	}
	return spo, nil
}

// Compare compares this triple to another triple based on it's id
func (triple Triple) Compare(other Triple) int {
	return triple.ID.Compare(other.ID)
}

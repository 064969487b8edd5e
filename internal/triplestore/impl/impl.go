// Package impl holds the primitive types shared by the triplestore packages.
package impl

// Label is the iri of a subject, predicate or object.
type Label string

// Datum is the lexical value of a literal.
// It is stored exactly as found in the source data; no type coercion takes place.
type Datum string

package artist

import (
	"strings"

	"github.com/FAU-CDI/kdict/internal/triplestore/impl"
)

// Namespace is the namespace all artist and company identifiers live in.
const Namespace = "http://www.kpopdictionary.com/"

// DC is the namespace of the dublin core elements.
const DC = "http://purl.org/dc/elements/1.1/"

// Predicates used for the statements describing a record.
const (
	Creator impl.Label = DC + "creator"
	Date    impl.Label = DC + "date"
)

// Identifier returns the identifier of the entity with the given name.
//
// Every byte of the name except ascii letters, digits, '_' and a non-leading '-'
// is percent-encoded. The result is a valid IRI, and its local name can be
// written as a prefixed name in turtle.
// Distinct entities with the same name receive the same identifier.
// The empty name yields the namespace itself.
func Identifier(name string) impl.Label {
	var builder strings.Builder
	builder.Grow(len(Namespace) + 3*len(name))
	builder.WriteString(Namespace)

	for i := 0; i < len(name); i++ {
		c := name[i]
		if isLocal(c) || (c == '-' && i > 0) {
			builder.WriteByte(c)
			continue
		}
		builder.WriteByte('%')
		builder.WriteByte(upperhex[c>>4])
		builder.WriteByte(upperhex[c&15])
	}
	return impl.Label(builder.String())
}

const upperhex = "0123456789ABCDEF"

func isLocal(c byte) bool {
	return ('a' <= c && c <= 'z') || ('A' <= c && c <= 'Z') || ('0' <= c && c <= '9') || c == '_'
}

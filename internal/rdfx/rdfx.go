package rdfx

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"

	"github.com/FAU-CDI/kdict/internal/artist"
	"github.com/FAU-CDI/kdict/internal/triplestore/igraph"
	"github.com/FAU-CDI/kdict/internal/triplestore/impl"
	"github.com/anglo-korean/rdf"
	"github.com/cayleygraph/quad"
	"github.com/cayleygraph/quad/nquads"
)

// Prefixes maps prefixes used for shorthand notation to their namespaces.
var Prefixes = map[string]string{
	"kd": artist.Namespace,
	"dc": artist.DC,
}

// Extract returns all triples with exactly the given subject, in insertion order.
// An unknown subject yields no triples.
//
// Extract does not check if subject stands for a single record.
func Extract(index *igraph.Index, subject impl.Label) ([]igraph.Triple, error) {
	triples, err := index.Subject(subject)
	if err != nil {
		return nil, fmt.Errorf("failed to extract %q: %w", subject, err)
	}
	return triples, nil
}

// Encode writes triples to w in the given format.
// No triples result in an empty, but valid, document.
func Encode(w io.Writer, triples []igraph.Triple, format Format) error {
	switch format {
	case Turtle:
		return encodeTurtle(w, triples)
	case NTriples:
		return encodeNTriples(w, triples)
	case JSONLD:
		return encodeJSONLD(w, triples)
	default:
		return fmt.Errorf("%w %q", ErrUnknownFormat, format)
	}
}

// String is like Encode, but returns a string.
func String(triples []igraph.Triple, format Format) (string, error) {
	var buffer bytes.Buffer
	if err := Encode(&buffer, triples, format); err != nil {
		return "", err
	}
	return buffer.String(), nil
}

func encodeTurtle(w io.Writer, triples []igraph.Triple) (err error) {
	encoder := rdf.NewTripleEncoder(w, rdf.Turtle)
	for prefix, namespace := range Prefixes {
		encoder.Namespaces[namespace] = prefix
	}
	defer func() {
		if e2 := encoder.Close(); e2 != nil && err == nil {
			err = fmt.Errorf("failed to close encoder: %w", e2)
		}
	}()

	for _, triple := range triples {
		spo, err := triple.Triple()
		if err != nil {
			return fmt.Errorf("failed to convert triple %s: %w", triple.ID, err)
		}
		if err := encoder.Encode(spo); err != nil {
			return fmt.Errorf("failed to encode triple %s: %w", triple.ID, err)
		}
	}
	return nil
}

func encodeNTriples(w io.Writer, triples []igraph.Triple) (err error) {
	writer := nquads.NewWriter(w)
	defer func() {
		if e2 := writer.Close(); e2 != nil && err == nil {
			err = fmt.Errorf("failed to close writer: %w", e2)
		}
	}()

	for _, triple := range triples {
		if err := writer.WriteQuad(Quad(triple)); err != nil {
			return fmt.Errorf("failed to write triple %s: %w", triple.ID, err)
		}
	}
	return nil
}

// Quad turns a triple into a quad in the default graph.
func Quad(triple igraph.Triple) quad.Quad {
	var object quad.Value
	if triple.HasDatum() {
		object = quad.String(triple.Datum)
	} else {
		object = quad.IRI(triple.Object)
	}
	return quad.Quad{
		Subject:   quad.IRI(triple.Subject),
		Predicate: quad.IRI(triple.Predicate),
		Object:    object,
	}
}

type jsonldDocument struct {
	Context map[string]string `json:"@context"`
	Graph   []jsonldNode      `json:"@graph"`
}

// jsonldNode is a single subject with its properties.
type jsonldNode struct {
	ID         string
	properties map[string][]map[string]string // predicate => objects
}

func (node jsonldNode) MarshalJSON() ([]byte, error) {
	m := make(map[string]any, len(node.properties)+1)
	m["@id"] = node.ID
	for p, values := range node.properties {
		m[p] = values
	}
	return json.Marshal(m)
}

func encodeJSONLD(w io.Writer, triples []igraph.Triple) error {
	doc := jsonldDocument{
		Context: Prefixes,
		Graph:   []jsonldNode{},
	}

	nodes := make(map[impl.Label]int)
	for _, triple := range triples {
		index, ok := nodes[triple.Subject]
		if !ok {
			index = len(doc.Graph)
			nodes[triple.Subject] = index
			doc.Graph = append(doc.Graph, jsonldNode{
				ID:         string(triple.Subject),
				properties: make(map[string][]map[string]string),
			})
		}
		node := &doc.Graph[index]

		predicate := string(triple.Predicate)
		value := map[string]string{"@id": string(triple.Object)}
		if triple.HasDatum() {
			value = map[string]string{"@value": string(triple.Datum)}
		}
		node.properties[predicate] = append(node.properties[predicate], value)
	}

	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	if err := encoder.Encode(doc); err != nil {
		return fmt.Errorf("failed to encode json-ld: %w", err)
	}
	return nil
}

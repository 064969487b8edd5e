// Package rdfx extracts and serializes the statements describing a single subject.
package rdfx

import (
	"errors"
	"fmt"
	"slices"
	"strings"
)

// Format is a serialization format for triples.
type Format string

const (
	// Turtle is the terse rdf triple language.
	Turtle Format = "turtle"

	// NTriples is the line-based n-triples format.
	NTriples Format = "ntriples"

	// JSONLD is json for linked data, in expanded form with a prefix context.
	JSONLD Format = "jsonld"
)

// DefaultFormat is the format used when none is given.
const DefaultFormat = Turtle

// FormatInfo provides metadata about a format.
type FormatInfo struct {
	Name        Format
	MIMEType    string
	Extension   string // including the leading dot
	Description string
}

// Formats holds information about all supported formats.
var Formats = map[Format]FormatInfo{
	Turtle: {
		Name:        Turtle,
		MIMEType:    "text/turtle",
		Extension:   ".ttl",
		Description: "Turtle - Terse RDF Triple Language",
	},
	NTriples: {
		Name:        NTriples,
		MIMEType:    "application/n-triples",
		Extension:   ".nt",
		Description: "N-Triples - Line-based RDF format",
	},
	JSONLD: {
		Name:        JSONLD,
		MIMEType:    "application/ld+json",
		Extension:   ".jsonld",
		Description: "JSON-LD - JSON for Linked Data",
	},
}

// Names returns the names of all supported formats in alphabetical order.
func Names() []string {
	names := make([]string, 0, len(Formats))
	for name := range Formats {
		names = append(names, string(name))
	}
	slices.Sort(names)
	return names
}

// ErrUnknownFormat is returned by [ParseFormat] for an unsupported format.
var ErrUnknownFormat = errors.New("unknown format")

// ParseFormat parses a format name, ignoring case.
// It also accepts the mime type or file extension of a format.
// The empty string yields [DefaultFormat].
func ParseFormat(value string) (Format, error) {
	value = strings.ToLower(strings.TrimSpace(value))
	if value == "" {
		return DefaultFormat, nil
	}
	for name, info := range Formats {
		if value == string(name) || value == info.MIMEType || value == info.Extension {
			return name, nil
		}
	}
	return "", fmt.Errorf("%w %q (supported: %s)", ErrUnknownFormat, value, strings.Join(Names(), ", "))
}

// Info returns information about this format.
func (format Format) Info() (FormatInfo, bool) {
	info, ok := Formats[format]
	return info, ok
}

// MIMEType returns the mime type of this format, or "text/plain" if unknown.
func (format Format) MIMEType() string {
	info, ok := Formats[format]
	if !ok {
		return "text/plain"
	}
	return info.MIMEType
}

package artist

import (
	"strings"

	"golang.org/x/text/cases"
)

// Index allows searching records by name.
// An Index is safe for concurrent use.
type Index struct {
	records []Record
	folded  []string // case-folded names, in record order
}

// NewIndex creates a new index for the given records.
// The records must not be modified afterwards.
func NewIndex(records []Record) *Index {
	caser := cases.Fold()

	folded := make([]string, len(records))
	for i, record := range records {
		if !record.Name.Valid {
			continue
		}
		folded[i] = caser.String(record.Name.Value)
	}

	return &Index{
		records: records,
		folded:  folded,
	}
}

// Len returns the number of records in this index.
func (index *Index) Len() int {
	if index == nil {
		return 0
	}
	return len(index.records)
}

// Records returns all records in this index.
func (index *Index) Records() []Record {
	if index == nil {
		return nil
	}
	return index.records
}

// Search returns all records whose name contains query, ignoring case.
// Records are returned in their original order.
//
// The empty query matches every record with a name.
// Records without a name never match.
func (index *Index) Search(query string) []Record {
	if index == nil {
		return nil
	}

	// a Caser holds state, so each search needs its own
	query = cases.Fold().String(query)

	var results []Record
	for i, record := range index.records {
		if !record.Name.Valid {
			continue
		}
		if strings.Contains(index.folded[i], query) {
			results = append(results, record)
		}
	}
	return results
}

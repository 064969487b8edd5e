// Package artist implements records of musical artists and their mapping into triples.
package artist

import (
	"encoding/json"
	"strings"

	"github.com/FAU-CDI/kdict/internal/triplestore/impl"
)

// Names of the columns records are read from.
// Column names are matched exactly, after trimming surrounding whitespace.
const (
	ColumnArtist    = "artist"
	ColumnCompany   = "company"
	ColumnDebutYear = "debut_year"
)

// Columns lists all columns used by [Normalize].
var Columns = []string{ColumnArtist, ColumnCompany, ColumnDebutYear}

// Field is a single cell of a record.
// Valid is false when the value is missing, that is the cell was empty or the column did not exist.
type Field struct {
	Value string
	Valid bool
}

// MakeField creates a new field holding value.
// An empty value is considered missing.
func MakeField(value string) Field {
	return Field{Value: value, Valid: value != ""}
}

func (field Field) String() string {
	return field.Value
}

// MarshalJSON encodes a missing field as null, and any other field as a string.
func (field Field) MarshalJSON() ([]byte, error) {
	if !field.Valid {
		return []byte("null"), nil
	}
	return json.Marshal(field.Value)
}

// Record represents a single artist.
type Record struct {
	Name      Field `json:"artist"`
	Company   Field `json:"company"`
	DebutYear Field `json:"debut_year"`
}

// Identifier returns the identifier of the subject describing this record.
func (record Record) Identifier() impl.Label {
	return Identifier(record.Name.Value)
}

// Table is a raw table as read from a source.
// The zero table has no columns and no rows.
type Table struct {
	Header []string
	Rows   [][]string
}

// Missing returns the columns of [Columns] that table does not have.
func (table Table) Missing() (missing []string) {
	have := make(map[string]struct{}, len(table.Header))
	for _, h := range table.Header {
		have[strings.TrimSpace(h)] = struct{}{}
	}
	for _, c := range Columns {
		if _, ok := have[c]; !ok {
			missing = append(missing, c)
		}
	}
	return missing
}

// Normalize turns a table into a sequence of records, one per row.
//
// Column headers are trimmed of surrounding whitespace, but otherwise used as is.
// Cell values are not coerced or validated.
// Empty cells, cells beyond the end of a row and cells of absent columns are missing.
//
// An empty table results in no records.
func Normalize(table Table) []Record {
	name, company, year := -1, -1, -1
	for i, h := range table.Header {
		// the first column with a given name wins
		switch strings.TrimSpace(h) {
		case ColumnArtist:
			if name == -1 {
				name = i
			}
		case ColumnCompany:
			if company == -1 {
				company = i
			}
		case ColumnDebutYear:
			if year == -1 {
				year = i
			}
		}
	}

	records := make([]Record, len(table.Rows))
	for i, row := range table.Rows {
		records[i] = Record{
			Name:      cell(row, name),
			Company:   cell(row, company),
			DebutYear: cell(row, year),
		}
	}
	return records
}

func cell(row []string, index int) Field {
	if index < 0 || index >= len(row) {
		return Field{}
	}
	return MakeField(row[index])
}

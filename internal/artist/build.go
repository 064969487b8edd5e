package artist

import (
	"errors"
	"fmt"

	"github.com/FAU-CDI/kdict/internal/stats"
	"github.com/FAU-CDI/kdict/internal/triplestore/igraph"
	"github.com/FAU-CDI/kdict/internal/triplestore/impl"
)

// Build builds a finalized triple index from the given records.
//
// For each record, it adds one creator statement pointing to the company and one
// date statement holding the debut year as a literal.
// Missing values are treated as empty strings.
func Build(records []Record, engine igraph.Engine, st *stats.Stats) (index *igraph.Index, err error) {
	index = new(igraph.Index)
	if err := index.Reset(engine); err != nil {
		return nil, fmt.Errorf("failed to reset index: %w", err)
	}

	// close the index on failure
	defer func() {
		if err == nil {
			return
		}
		if e2 := index.Close(); e2 != nil {
			err = errors.Join(err, fmt.Errorf("failed to close index: %w", e2))
		}
		index = nil
	}()

	err = st.DoStage(stats.StageIndex, func() error {
		total := len(records)
		for i, record := range records {
			st.SetCT(i, total)

			if err := Add(index, record); err != nil {
				return fmt.Errorf("failed to add record %d: %w", i, err)
			}
		}
		st.SetCT(total, total)

		if err := index.Compact(); err != nil {
			return fmt.Errorf("failed to compact index: %w", err)
		}
		if err := index.Finalize(); err != nil {
			return fmt.Errorf("failed to finalize index: %w", err)
		}

		st.Log("finished indexing", "stats", index.Stats())
		return nil
	})
	return index, err
}

// Add adds the statements describing a single record to index.
func Add(index *igraph.Index, record Record) error {
	subject := Identifier(record.Name.Value)

	if err := index.AddTriple(subject, Creator, Identifier(record.Company.Value)); err != nil {
		return fmt.Errorf("failed to add creator: %w", err)
	}
	if err := index.AddData(subject, Date, impl.Datum(record.DebutYear.Value)); err != nil {
		return fmt.Errorf("failed to add date: %w", err)
	}
	return nil
}

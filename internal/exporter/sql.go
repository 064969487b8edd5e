// Package exporter implements exporting a dictionary into an sql database.
package exporter

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"sync"

	"github.com/FAU-CDI/kdict/internal/artist"
	"github.com/FAU-CDI/kdict/internal/stats"
	"github.com/FAU-CDI/kdict/internal/triplestore/igraph"
	"github.com/huandu/go-sqlbuilder"

	_ "github.com/glebarez/go-sqlite"
	_ "github.com/go-sql-driver/mysql"
)

// Source is a set of records along with their triples.
type Source interface {
	Records() []artist.Record
	Triples(f func(igraph.Triple) error) error
}

const (
	SQLiteMaxQueryVar = 32766 // see https://www.sqlite.org/limits.html
	MySQLMaxQueryVar  = 65535
	DefaultBatchSize  = 1000
)

// Tables and columns created by the exporter.
const (
	ArtistsTable = "artists"
	TriplesTable = "triples"

	idColumn        = "id"
	artistColumn    = "artist"
	companyColumn   = "company"
	debutYearColumn = "debut_year"
	uriColumn       = "uri"

	subjectColumn   = "subject"
	predicateColumn = "predicate"
	objectColumn    = "object"
	literalColumn   = "literal"
)

// SQL implements an exporter for storing a dictionary inside an sql database.
type SQL struct {
	DB     *sql.DB
	Flavor sqlbuilder.Flavor

	BatchSize   int // number of rows per insert
	MaxQueryVar int // Maximum number of query variables (overrides BatchSize)

	dbLock sync.Mutex
}

var errUnknownDriver = errors.New("unknown driver")

// Open opens a database for exporting.
// driver must be "sqlite" or "mysql".
func Open(driver, dsn string) (*SQL, error) {
	exporter := &SQL{BatchSize: DefaultBatchSize}
	switch driver {
	case "sqlite":
		exporter.Flavor = sqlbuilder.SQLite
		exporter.MaxQueryVar = SQLiteMaxQueryVar
	case "mysql":
		exporter.Flavor = sqlbuilder.MySQL
		exporter.MaxQueryVar = MySQLMaxQueryVar
	default:
		return nil, fmt.Errorf("%w %q", errUnknownDriver, driver)
	}

	db, err := sql.Open(driver, dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	exporter.DB = db
	return exporter, nil
}

// Close closes the underlying database.
func (exporter *SQL) Close() error {
	return exporter.DB.Close()
}

// Export writes the records and triples of source into the database.
// Existing tables are replaced.
func (exporter *SQL) Export(ctx context.Context, source Source, st *stats.Stats) error {
	return st.DoStage(stats.StageExportSQL, func() error {
		if err := exporter.createTables(ctx); err != nil {
			return fmt.Errorf("failed to create tables: %w", err)
		}
		if err := exporter.insertArtists(ctx, source.Records(), st); err != nil {
			return fmt.Errorf("failed to insert artists: %w", err)
		}
		if err := exporter.insertTriples(ctx, source, st); err != nil {
			return fmt.Errorf("failed to insert triples: %w", err)
		}
		return nil
	})
}

// exec executes an sql query
func (exporter *SQL) exec(ctx context.Context, query string, args []any) (err error) {
	exporter.dbLock.Lock()
	defer exporter.dbLock.Unlock()

	_, err = exporter.DB.ExecContext(ctx, query, args...)
	return
}

var errInsufficientQueryVars = errors.New("insufficient query variables")

// execInsert executes an insert into the given table, the given columns, and the given values.
// When this would exceed limits on maximum number of query variables, multiple inserts are executed.
func (exporter *SQL) execInsert(ctx context.Context, table string, columns []string, values [][]any) error {
	// nothing to insert!
	if len(values) == 0 {
		return nil
	}

	// determine the chunk size based on total number of query variables
	chunkSize := exporter.MaxQueryVar / len(columns)
	if chunkSize == 0 {
		return errInsufficientQueryVars
	}

	// maybe the user requested an even smaller batch size!
	if exporter.BatchSize > 0 && exporter.BatchSize < chunkSize {
		chunkSize = exporter.BatchSize
	}

	for i := 0; i < len(values); i += chunkSize {
		insert := exporter.Flavor.NewInsertBuilder()
		insert.InsertInto(table)
		insert.Cols(columns...)

		for _, v := range values[i:min(i+chunkSize, len(values))] {
			insert.Values(v...)
		}

		query, args := insert.Build()
		if err := exporter.exec(ctx, query, args); err != nil {
			return err
		}
	}

	return nil
}

// createTables (re-)creates the artist and triple tables
func (exporter *SQL) createTables(ctx context.Context) error {
	for _, name := range []string{ArtistsTable, TriplesTable} {
		if err := exporter.exec(ctx, "DROP TABLE IF EXISTS "+name+";", nil); err != nil {
			return err
		}
	}

	artists := exporter.Flavor.NewCreateTableBuilder()
	artists.CreateTable(ArtistsTable).IfNotExists()
	artists.Define(idColumn, "INTEGER", "NOT NULL", "PRIMARY KEY")
	artists.Define(artistColumn, "TEXT")
	artists.Define(companyColumn, "TEXT")
	artists.Define(debutYearColumn, "TEXT")
	artists.Define(uriColumn, "TEXT", "NOT NULL")
	if err := exporter.exec(ctx, artists.String(), nil); err != nil {
		return err
	}

	triples := exporter.Flavor.NewCreateTableBuilder()
	triples.CreateTable(TriplesTable).IfNotExists()
	triples.Define(idColumn, "INTEGER", "NOT NULL", "PRIMARY KEY")
	triples.Define(subjectColumn, "TEXT", "NOT NULL")
	triples.Define(predicateColumn, "TEXT", "NOT NULL")
	triples.Define(objectColumn, "TEXT")
	triples.Define(literalColumn, "TEXT")
	return exporter.exec(ctx, triples.String(), nil)
}

func nullable(field artist.Field) sql.NullString {
	return sql.NullString{String: field.Value, Valid: field.Valid}
}

func (exporter *SQL) insertArtists(ctx context.Context, records []artist.Record, st *stats.Stats) error {
	columns := []string{idColumn, artistColumn, companyColumn, debutYearColumn, uriColumn}

	values := make([][]any, len(records))
	for i, record := range records {
		values[i] = []any{
			i + 1,
			nullable(record.Name),
			nullable(record.Company),
			nullable(record.DebutYear),
			string(record.Identifier()),
		}
	}

	if err := exporter.execInsert(ctx, ArtistsTable, columns, values); err != nil {
		return err
	}
	st.Log("inserted artists", "count", len(values))
	return nil
}

func (exporter *SQL) insertTriples(ctx context.Context, source Source, st *stats.Stats) error {
	columns := []string{idColumn, subjectColumn, predicateColumn, objectColumn, literalColumn}

	var values [][]any
	if err := source.Triples(func(triple igraph.Triple) error {
		row := []any{
			len(values) + 1,
			string(triple.Subject),
			string(triple.Predicate),
			sql.NullString{},
			sql.NullString{},
		}
		if triple.HasDatum() {
			row[4] = sql.NullString{String: string(triple.Datum), Valid: true}
		} else {
			row[3] = sql.NullString{String: string(triple.Object), Valid: true}
		}
		values = append(values, row)
		return nil
	}); err != nil {
		return err
	}

	if err := exporter.execInsert(ctx, TriplesTable, columns, values); err != nil {
		return err
	}
	st.Log("inserted triples", "count", len(values))
	return nil
}

package ports

import (
	"context"

	"tabulite/domain/record"
)

// TableStore persists record sets as named tables in a single-file
// relational store. Implementations hold exclusive single-writer access for
// the lifetime of one conversion request and must be closed on every exit
// path.
type TableStore interface {
	// Materialize drops any existing table with the given name, creates a
	// fresh one whose schema is inferred from the record set, and bulk
	// inserts all rows. Returns the number of rows written.
	Materialize(ctx context.Context, tableName string, rs *record.RecordSet) (int, error)

	// Preview reads up to limit rows from a table in the store's native row
	// order. No ordering is applied beyond what the store returns.
	Preview(ctx context.Context, tableName string, limit int) (*record.RecordSet, error)

	// Tables lists the user tables currently present in the store.
	Tables(ctx context.Context) ([]string, error)

	// Path returns the store's file path.
	Path() string

	// Close flushes and releases the store file.
	Close() error
}

// Package sqlite materializes record sets into a single-file SQLite store
// using sqlx over the pure-Go modernc driver.
package sqlite

import (
	"context"
	"fmt"
	"strings"

	"github.com/jmoiron/sqlx"
	_ "modernc.org/sqlite"

	"tabulite/domain/record"
	"tabulite/internal/errors"
)

// Store is a file-backed relational store with exclusive single-writer
// access for the duration of one conversion request.
type Store struct {
	db   *sqlx.DB
	path string
}

// Open opens (creating if absent) the store file at path.
func Open(path string) (*Store, error) {
	db, err := sqlx.Connect("sqlite", path)
	if err != nil {
		return nil, errors.StoreWriteFailure("failed to open store file", err)
	}
	// The store is written by exactly one request at a time.
	db.SetMaxOpenConns(1)
	return &Store{db: db, path: path}, nil
}

// Path returns the store's file path.
func (s *Store) Path() string {
	return s.path
}

// Close flushes and releases the store file.
func (s *Store) Close() error {
	return s.db.Close()
}

// Materialize drops any existing table with tableName, creates a fresh one
// whose schema is inferred from the record set, and bulk inserts all rows
// inside a single transaction. Rebuild of one table is atomic; a multi-table
// conversion is not.
func (s *Store) Materialize(ctx context.Context, tableName string, rs *record.RecordSet) (int, error) {
	if len(rs.Columns) == 0 {
		return 0, errors.InvalidInput("record set has no columns")
	}

	colTypes := inferColumnTypes(rs)

	tx, err := s.db.BeginTxx(ctx, nil)
	if err != nil {
		return 0, errors.StoreWriteFailure("failed to begin transaction", err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, fmt.Sprintf("DROP TABLE IF EXISTS %s", quoteIdent(tableName))); err != nil {
		return 0, errors.StoreWriteFailure("failed to drop existing table "+tableName, err)
	}

	if _, err := tx.ExecContext(ctx, createTableSQL(tableName, rs.Columns, colTypes)); err != nil {
		return 0, errors.StoreWriteFailure("failed to create table "+tableName, err)
	}

	insert := insertSQL(tableName, rs.Columns)
	stmt, err := tx.PreparexContext(ctx, insert)
	if err != nil {
		return 0, errors.StoreWriteFailure("failed to prepare insert for "+tableName, err)
	}
	defer stmt.Close()

	written := 0
	for _, row := range rs.Rows {
		args := make([]interface{}, len(rs.Columns))
		for i, col := range rs.Columns {
			args[i] = driverValue(row[col], colTypes[col])
		}
		if _, err := stmt.ExecContext(ctx, args...); err != nil {
			return written, errors.StoreWriteFailure(fmt.Sprintf("failed to insert row %d into %s", written+1, tableName), err)
		}
		written++
	}

	if err := tx.Commit(); err != nil {
		return 0, errors.StoreWriteFailure("failed to commit table "+tableName, err)
	}
	return written, nil
}

// Preview reads up to limit rows from a table in the store's native row
// order. No sort key is applied; callers must not rely on ordering.
func (s *Store) Preview(ctx context.Context, tableName string, limit int) (*record.RecordSet, error) {
	exists, err := s.tableExists(ctx, tableName)
	if err != nil {
		return nil, err
	}
	if !exists {
		return nil, errors.TableNotFound(tableName)
	}

	rows, err := s.db.QueryxContext(ctx, fmt.Sprintf("SELECT * FROM %s LIMIT ?", quoteIdent(tableName)), limit)
	if err != nil {
		return nil, errors.Wrap(err, "failed to read table "+tableName)
	}
	defer rows.Close()

	columns, err := rows.Columns()
	if err != nil {
		return nil, errors.Wrap(err, "failed to resolve columns of "+tableName)
	}

	rs := &record.RecordSet{Columns: columns}
	for rows.Next() {
		raw := make([]interface{}, len(columns))
		ptrs := make([]interface{}, len(columns))
		for i := range raw {
			ptrs[i] = &raw[i]
		}
		if err := rows.Scan(ptrs...); err != nil {
			return nil, errors.Wrap(err, "failed to scan row of "+tableName)
		}

		row := make(record.Row, len(columns))
		for i, col := range columns {
			row[col] = scanValue(raw[i])
		}
		rs.Rows = append(rs.Rows, row)
	}
	if err := rows.Err(); err != nil {
		return nil, errors.Wrap(err, "failed while reading table "+tableName)
	}
	return rs, nil
}

// Tables lists user tables in the store.
func (s *Store) Tables(ctx context.Context) ([]string, error) {
	var names []string
	err := s.db.SelectContext(ctx, &names,
		"SELECT name FROM sqlite_master WHERE type = 'table' AND name NOT LIKE 'sqlite_%' ORDER BY name")
	if err != nil {
		return nil, errors.Wrap(err, "failed to list tables")
	}
	return names, nil
}

func (s *Store) tableExists(ctx context.Context, tableName string) (bool, error) {
	var count int
	err := s.db.GetContext(ctx, &count,
		"SELECT COUNT(*) FROM sqlite_master WHERE type = 'table' AND name = ?", tableName)
	if err != nil {
		return false, errors.Wrap(err, "failed to check table existence")
	}
	return count > 0, nil
}

// inferColumnTypes scans each column once before table creation. Columns
// with any text cell become TEXT; otherwise fractional numbers force REAL,
// and integral numbers or booleans yield INTEGER. All-null columns default
// to TEXT.
func inferColumnTypes(rs *record.RecordSet) map[string]string {
	types := make(map[string]string, len(rs.Columns))
	for _, col := range rs.Columns {
		hasText := false
		hasNumber := false
		hasBool := false
		allIntegral := true

		for _, row := range rs.Rows {
			v, ok := row[col]
			if !ok || v.IsNull() {
				continue
			}
			switch v.Type {
			case record.ValueTypeText:
				hasText = true
			case record.ValueTypeNumber:
				hasNumber = true
				if !v.IsIntegral() {
					allIntegral = false
				}
			case record.ValueTypeBoolean:
				hasBool = true
			}
		}

		switch {
		case hasText:
			types[col] = "TEXT"
		case hasNumber && !allIntegral:
			types[col] = "REAL"
		case hasNumber || hasBool:
			types[col] = "INTEGER"
		default:
			types[col] = "TEXT"
		}
	}
	return types
}

// quoteIdent double-quotes an identifier so that sanitized names which still
// carry punctuation remain valid.
func quoteIdent(name string) string {
	return `"` + strings.ReplaceAll(name, `"`, `""`) + `"`
}

func createTableSQL(tableName string, columns []string, colTypes map[string]string) string {
	defs := make([]string, len(columns))
	for i, col := range columns {
		defs[i] = fmt.Sprintf("%s %s", quoteIdent(col), colTypes[col])
	}
	return fmt.Sprintf("CREATE TABLE %s (%s)", quoteIdent(tableName), strings.Join(defs, ", "))
}

func insertSQL(tableName string, columns []string) string {
	quoted := make([]string, len(columns))
	placeholders := make([]string, len(columns))
	for i, col := range columns {
		quoted[i] = quoteIdent(col)
		placeholders[i] = "?"
	}
	return fmt.Sprintf("INSERT INTO %s (%s) VALUES (%s)",
		quoteIdent(tableName), strings.Join(quoted, ", "), strings.Join(placeholders, ", "))
}

// driverValue converts a typed cell into a driver argument appropriate for
// the column's inferred affinity.
func driverValue(v record.Value, colType string) interface{} {
	switch v.Type {
	case record.ValueTypeNull:
		return nil
	case record.ValueTypeText:
		return *v.TextVal
	case record.ValueTypeBoolean:
		if colType == "TEXT" {
			return v.String()
		}
		if *v.BooleanVal {
			return int64(1)
		}
		return int64(0)
	case record.ValueTypeNumber:
		if colType == "TEXT" {
			return v.String()
		}
		if colType == "INTEGER" && v.IsIntegral() {
			return int64(*v.NumberVal)
		}
		return *v.NumberVal
	default:
		return nil
	}
}

// scanValue converts a database scan result back into a typed cell.
func scanValue(raw interface{}) record.Value {
	switch val := raw.(type) {
	case nil:
		return record.NewNullValue()
	case int64:
		return record.NewNumberValue(float64(val))
	case float64:
		return record.NewNumberValue(val)
	case bool:
		return record.NewBooleanValue(val)
	case []byte:
		return record.NewTextValue(string(val))
	case string:
		return record.NewTextValue(val)
	default:
		return record.NewTextValue(fmt.Sprintf("%v", val))
	}
}

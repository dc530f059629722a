package sqlite

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"tabulite/domain/record"
	"tabulite/internal/errors"
)

func testRecordSet() *record.RecordSet {
	return &record.RecordSet{
		Columns: []string{"item_name", "unit_price", "in_stock"},
		Rows: []record.Row{
			{
				"item_name":  record.NewTextValue("widget"),
				"unit_price": record.NewNumberValue(9.99),
				"in_stock":   record.NewBooleanValue(true),
			},
			{
				"item_name":  record.NewTextValue("gadget"),
				"unit_price": record.NewNumberValue(25),
				"in_stock":   record.NewBooleanValue(false),
			},
			{
				"item_name":  record.NewTextValue("gizmo"),
				"unit_price": record.NewNullValue(),
				"in_stock":   record.NewBooleanValue(true),
			},
		},
	}
}

func openTestStore(t *testing.T) *Store {
	t.Helper()
	store, err := Open(filepath.Join(t.TempDir(), "test.db"))
	require.NoError(t, err)
	t.Cleanup(func() { store.Close() })
	return store
}

func TestMaterializeAndPreview(t *testing.T) {
	store := openTestStore(t)
	ctx := context.Background()

	written, err := store.Materialize(ctx, "products", testRecordSet())
	require.NoError(t, err)
	assert.Equal(t, 3, written)

	rs, err := store.Preview(ctx, "products", 5)
	require.NoError(t, err)
	assert.Equal(t, []string{"item_name", "unit_price", "in_stock"}, rs.Columns)
	assert.Len(t, rs.Rows, 3)
}

func TestPreviewRespectsLimit(t *testing.T) {
	store := openTestStore(t)
	ctx := context.Background()

	_, err := store.Materialize(ctx, "products", testRecordSet())
	require.NoError(t, err)

	rs, err := store.Preview(ctx, "products", 2)
	require.NoError(t, err)
	assert.Len(t, rs.Rows, 2)
}

func TestPreviewMissingTable(t *testing.T) {
	store := openTestStore(t)

	_, err := store.Preview(context.Background(), "nope", 5)
	require.Error(t, err)
	assert.Equal(t, errors.CodeTableNotFound, errors.GetCode(err))
}

func TestMaterializeReplacesExistingTable(t *testing.T) {
	store := openTestStore(t)
	ctx := context.Background()

	_, err := store.Materialize(ctx, "products", testRecordSet())
	require.NoError(t, err)

	smaller := &record.RecordSet{
		Columns: []string{"only_col"},
		Rows:    []record.Row{{"only_col": record.NewTextValue("x")}},
	}
	written, err := store.Materialize(ctx, "products", smaller)
	require.NoError(t, err)
	assert.Equal(t, 1, written)

	rs, err := store.Preview(ctx, "products", 10)
	require.NoError(t, err)
	assert.Equal(t, []string{"only_col"}, rs.Columns)
	assert.Len(t, rs.Rows, 1)
}

func TestMaterializeEmptyColumnsRejected(t *testing.T) {
	store := openTestStore(t)

	_, err := store.Materialize(context.Background(), "empty", &record.RecordSet{})
	require.Error(t, err)
	assert.Equal(t, errors.CodeInvalidInput, errors.GetCode(err))
}

func TestMaterializeQuotedIdentifiers(t *testing.T) {
	store := openTestStore(t)
	ctx := context.Background()

	// Column sanitization passes punctuation through; the store must cope.
	rs := &record.RecordSet{
		Columns: []string{"price($)"},
		Rows:    []record.Row{{"price($)": record.NewNumberValue(3)}},
	}
	_, err := store.Materialize(ctx, "odd", rs)
	require.NoError(t, err)

	got, err := store.Preview(ctx, "odd", 5)
	require.NoError(t, err)
	assert.Equal(t, []string{"price($)"}, got.Columns)
}

func TestTables(t *testing.T) {
	store := openTestStore(t)
	ctx := context.Background()

	_, err := store.Materialize(ctx, "beta", testRecordSet())
	require.NoError(t, err)
	_, err = store.Materialize(ctx, "alpha", testRecordSet())
	require.NoError(t, err)

	names, err := store.Tables(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"alpha", "beta"}, names)
}

func TestInferColumnTypes(t *testing.T) {
	rs := &record.RecordSet{
		Columns: []string{"ints", "floats", "mixed", "bools", "empty"},
		Rows: []record.Row{
			{
				"ints":   record.NewNumberValue(1),
				"floats": record.NewNumberValue(1.5),
				"mixed":  record.NewNumberValue(2),
				"bools":  record.NewBooleanValue(true),
				"empty":  record.NewNullValue(),
			},
			{
				"ints":   record.NewNumberValue(2),
				"floats": record.NewNumberValue(2),
				"mixed":  record.NewTextValue("n/a"),
				"bools":  record.NewBooleanValue(false),
				"empty":  record.NewNullValue(),
			},
		},
	}

	types := inferColumnTypes(rs)
	assert.Equal(t, "INTEGER", types["ints"])
	assert.Equal(t, "REAL", types["floats"])
	assert.Equal(t, "TEXT", types["mixed"])
	assert.Equal(t, "INTEGER", types["bools"])
	assert.Equal(t, "TEXT", types["empty"])
}

func TestMaterializeIdempotentContents(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "test.db")

	// Re-running the same conversion against the same store file must leave
	// identical table contents, across separate store opens.
	run := func() *record.RecordSet {
		store, err := Open(path)
		require.NoError(t, err)
		defer store.Close()
		_, err = store.Materialize(ctx, "products", testRecordSet())
		require.NoError(t, err)
		rs, err := store.Preview(ctx, "products", 100)
		require.NoError(t, err)
		return rs
	}

	first := run()
	second := run()
	assert.Equal(t, first, second)
}

func TestOpenUnwritablePath(t *testing.T) {
	if os.Getuid() == 0 {
		t.Skip("permission checks do not apply to root")
	}
	dir := t.TempDir()
	require.NoError(t, os.Chmod(dir, 0o500))

	store, err := Open(filepath.Join(dir, "nested", "x.db"))
	if err == nil {
		store.Close()
		t.Skip("filesystem permits the write")
	}
	assert.Equal(t, errors.CodeStoreWriteFailure, errors.GetCode(err))
}

// Package identifier normalizes human-chosen sheet and column names into
// safe relational identifiers.
package identifier

import (
	"fmt"
	"strings"
	"unicode"
)

// FallbackTableName is used when a sheet name sanitizes to the empty string.
const FallbackTableName = "table"

// SanitizeColumn lower-cases a column name and replaces spaces and hyphens
// with underscores. No other characters are altered or stripped; the target
// store accepts quoted identifiers, so residual punctuation is tolerated.
// Pure and idempotent.
func SanitizeColumn(name string) string {
	s := strings.ToLower(name)
	s = strings.ReplaceAll(s, " ", "_")
	s = strings.ReplaceAll(s, "-", "_")
	return s
}

// SanitizeTable keeps only alphanumerics and underscores from a sheet name
// and lower-cases the result. May return the empty string; callers must
// resolve that via UniqueTableName.
func SanitizeTable(name string) string {
	var b strings.Builder
	for _, r := range name {
		if isAlnum(r) || r == '_' {
			b.WriteRune(r)
		}
	}
	return strings.ToLower(b.String())
}

// UniqueTableName derives the table name for a sheet, resolving the two
// conflicts SanitizeTable can produce: an empty result falls back to
// FallbackTableName, and a name already used within the same conversion
// gets a numeric suffix (_2, _3, ...). The chosen name is recorded in taken.
func UniqueTableName(sheetName string, taken map[string]bool) string {
	base := SanitizeTable(sheetName)
	if base == "" {
		base = FallbackTableName
	}

	name := base
	for i := 2; taken[name]; i++ {
		name = fmt.Sprintf("%s_%d", base, i)
	}
	taken[name] = true
	return name
}

func isAlnum(r rune) bool {
	return unicode.IsLetter(r) || unicode.IsDigit(r)
}

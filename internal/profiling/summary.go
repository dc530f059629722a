// Package profiling computes per-column descriptive statistics attached to
// conversion reports.
package profiling

import (
	"github.com/montanaflynn/stats"

	"tabulite/domain/record"
)

// Summarize returns min/max/mean for every column of the record set that
// holds at least one numeric value. Booleans and text are skipped; nulls and
// non-numeric cells in mixed columns are ignored.
func Summarize(rs *record.RecordSet) []record.ColumnSummary {
	var summaries []record.ColumnSummary

	for _, col := range rs.Columns {
		var values stats.Float64Data
		for _, row := range rs.Rows {
			v, ok := row[col]
			if !ok || v.Type != record.ValueTypeNumber {
				continue
			}
			values = append(values, *v.NumberVal)
		}
		if len(values) == 0 {
			continue
		}

		min, err := values.Min()
		if err != nil {
			continue
		}
		max, _ := values.Max()
		mean, _ := values.Mean()

		summaries = append(summaries, record.ColumnSummary{
			Column: col,
			Count:  len(values),
			Min:    min,
			Max:    max,
			Mean:   mean,
		})
	}

	return summaries
}

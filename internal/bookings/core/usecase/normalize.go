package usecase

import (
	"sort"

	"booking-attribution-service/internal/bookings/core/domain"
)

// Normalize flattens nested records into dotted-path columns. Records do not
// need to share a schema: the column set is the union of every leaf path and
// a row missing a path holds nil for it. Lists are kept as leaf values and
// an empty object is a leaf with a nil value.
func Normalize(records []map[string]any) domain.Table {
	rows := make([]domain.Row, 0, len(records))
	seen := make(map[string]struct{})

	for _, rec := range records {
		row := make(domain.Row)
		for k, v := range rec {
			flatten(k, v, row)
		}
		for k := range row {
			seen[k] = struct{}{}
		}
		rows = append(rows, row)
	}

	cols := make([]string, 0, len(seen))
	for k := range seen {
		cols = append(cols, k)
	}
	sort.Strings(cols)

	for _, row := range rows {
		for _, c := range cols {
			if _, ok := row[c]; !ok {
				row[c] = nil
			}
		}
	}

	return domain.Table{Columns: cols, Rows: rows}
}

func flatten(path string, v any, out domain.Row) {
	obj, ok := v.(map[string]any)
	if !ok {
		out[path] = v
		return
	}
	if len(obj) == 0 {
		out[path] = nil
		return
	}
	for k, child := range obj {
		flatten(path+"."+k, child, out)
	}
}

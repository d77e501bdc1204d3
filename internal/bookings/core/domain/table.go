package domain

import (
	"encoding/json"
	"strconv"
	"strings"
)

// Row is one flattened webhook record keyed by dotted leaf path
// (e.g. "payload.scheduled_event.uri").
// Values are nil, string, float64, bool or []any; lists stay leaves.
type Row map[string]any

// Table is the normalized view of a batch of records.
// Columns is the sorted union of every path seen; every row carries every
// column, missing ones set to nil.
type Table struct {
	Columns []string
	Rows    []Row
}

// String returns the value at path as text. Missing and nil values give "".
func (r Row) String(path string) string {
	return FormatCell(r[path])
}

// Float returns the numeric value at path. Numeric strings are accepted.
func (r Row) Float(path string) (float64, bool) {
	switch v := r[path].(type) {
	case float64:
		return v, true
	case int:
		return float64(v), true
	case int64:
		return float64(v), true
	case string:
		f, err := strconv.ParseFloat(strings.TrimSpace(v), 64)
		if err != nil {
			return 0, false
		}
		return f, true
	default:
		return 0, false
	}
}

// FormatCell renders a leaf value the way flat-file snapshots store it.
// Lists and objects are written as JSON.
func FormatCell(v any) string {
	switch t := v.(type) {
	case nil:
		return ""
	case string:
		return t
	case float64:
		return strconv.FormatFloat(t, 'f', -1, 64)
	case int:
		return strconv.Itoa(t)
	case int64:
		return strconv.FormatInt(t, 10)
	case bool:
		return strconv.FormatBool(t)
	default:
		b, err := json.Marshal(t)
		if err != nil {
			return ""
		}
		return string(b)
	}
}

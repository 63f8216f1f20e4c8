package domain

import (
	"math"
	"strconv"
	"strings"
	"time"
)

// Row is one result row keyed by column name.
type Row map[string]interface{}

// ErrorRow builds the marker row returned by the custom query tool.
func ErrorRow(msg string) Row {
	return Row{"error": msg}
}

// IsError reports whether the row is an error marker.
func (r Row) IsError() bool {
	_, ok := r["error"]
	return ok && len(r) == 1
}

// Int reads an integer column; NULL, missing or unparsable values yield 0.
func (r Row) Int(col string) int64 {
	switch v := r[col].(type) {
	case int64:
		return v
	case int:
		return int64(v)
	case int32:
		return int64(v)
	case float64:
		return int64(v)
	case bool:
		if v {
			return 1
		}
		return 0
	case []byte:
		n, _ := strconv.ParseInt(strings.TrimSpace(string(v)), 10, 64)
		return n
	case string:
		n, _ := strconv.ParseInt(strings.TrimSpace(v), 10, 64)
		return n
	default:
		return 0
	}
}

// Float reads a numeric column.
func (r Row) Float(col string) float64 {
	switch v := r[col].(type) {
	case float64:
		return v
	case float32:
		return float64(v)
	case int64:
		return float64(v)
	case int:
		return float64(v)
	case []byte:
		f, _ := strconv.ParseFloat(strings.TrimSpace(string(v)), 64)
		return f
	case string:
		f, _ := strconv.ParseFloat(strings.TrimSpace(v), 64)
		return f
	default:
		return 0
	}
}

// String reads a text column.
func (r Row) String(col string) string {
	switch v := r[col].(type) {
	case nil:
		return ""
	case string:
		return v
	case []byte:
		return string(v)
	case time.Time:
		return v.Format(TimestampFormat)
	case int64:
		return strconv.FormatInt(v, 10)
	case float64:
		return strconv.FormatFloat(v, 'f', -1, 64)
	default:
		return ""
	}
}

// StringOr reads a text column, substituting fallback for blanks.
func (r Row) StringOr(col, fallback string) string {
	if s := strings.TrimSpace(r.String(col)); s != "" {
		return s
	}
	return fallback
}

// Has reports whether the column is present and not NULL.
func (r Row) Has(col string) bool {
	v, ok := r[col]
	return ok && v != nil
}

// Rate returns round(num/den*100, 2), or 0 when den is zero.
func Rate(num, den float64) float64 {
	if den == 0 {
		return 0
	}
	return math.Round(num/den*100*100) / 100
}

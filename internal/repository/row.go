package repository

import (
	"fmt"
	"time"
)

// timeLayouts are the textual timestamp formats drivers are known to return.
var timeLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02 15:04:05.999999999-07:00",
	"2006-01-02 15:04:05.999999999Z07:00",
	"2006-01-02T15:04:05.999999999",
	"2006-01-02 15:04:05.999999999",
	"2006-01-02 15:04:05",
}

// String returns column col as a string.
func (r Row) String(col string) (string, error) {
	switch v := r[col].(type) {
	case string:
		return v, nil
	case []byte:
		return string(v), nil
	case nil:
		return "", fmt.Errorf("%w: column %q is missing", ErrMalformedRow, col)
	default:
		return "", fmt.Errorf("%w: column %q has type %T, want string", ErrMalformedRow, col, v)
	}
}

// Time returns column col as a UTC time.Time. Textual timestamps are parsed.
func (r Row) Time(col string) (time.Time, error) {
	switch v := r[col].(type) {
	case time.Time:
		return v.UTC(), nil
	case string:
		return parseTime(col, v)
	case []byte:
		return parseTime(col, string(v))
	case nil:
		return time.Time{}, fmt.Errorf("%w: column %q is missing", ErrMalformedRow, col)
	default:
		return time.Time{}, fmt.Errorf("%w: column %q has type %T, want timestamp", ErrMalformedRow, col, v)
	}
}

func parseTime(col, s string) (time.Time, error) {
	for _, layout := range timeLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t.UTC(), nil
		}
	}
	return time.Time{}, fmt.Errorf("%w: column %q has unparseable timestamp %q", ErrMalformedRow, col, s)
}

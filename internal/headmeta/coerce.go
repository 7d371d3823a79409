package headmeta

import (
	"strconv"
	"strings"
	"time"

	"github.com/araddon/dateparse"

	"git.home.luguber.info/inful/headmeta/internal/foundation/errors"
)

// text reads a scalar field the way a truthiness check would: strings and
// numbers are accepted, empty strings and zero are absent.
func text(v any) string {
	switch val := v.(type) {
	case string:
		return val
	case int:
		if val == 0 {
			return ""
		}
		return strconv.Itoa(val)
	case int64:
		if val == 0 {
			return ""
		}
		return strconv.FormatInt(val, 10)
	case uint64:
		if val == 0 {
			return ""
		}
		return strconv.FormatUint(val, 10)
	case float64:
		if val == 0 {
			return ""
		}
		return strconv.FormatFloat(val, 'f', -1, 64)
	default:
		return ""
	}
}

// list reads a tag-like field. A single string is a one-element list.
func list(v any) []string {
	var out []string
	switch val := v.(type) {
	case string:
		if val != "" {
			out = append(out, val)
		}
	case []string:
		for _, s := range val {
			if s != "" {
				out = append(out, s)
			}
		}
	case []any:
		for _, item := range val {
			if s := text(item); s != "" {
				out = append(out, s)
			}
		}
	}
	return out
}

// flag accepts only a real boolean true.
func flag(v any) bool {
	b, ok := v.(bool)
	return ok && b
}

var dateLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05",
	"2006-01-02T15:04",
	"2006-01-02T15:04Z07:00",
	"2006-01-02T15:04:05Z0700",
	"2006/01/02",
	"Jan 2, 2006",
	"2006-01-02 15:04:05Z07:00",
	"2006-01-02 15:04:05",
	"2006-01-02",
	"2006-01",
	"2006",
	time.RFC1123Z,
	time.RFC1123,
}

// date reads a date-like field. Absent values yield nil; values that are
// present but cannot be read as a point in time yield ErrInvalidDate.
func date(field string, v any) (*time.Time, error) {
	switch val := v.(type) {
	case time.Time:
		if val.IsZero() {
			return nil, nil
		}
		return &val, nil
	case *time.Time:
		if val == nil || val.IsZero() {
			return nil, nil
		}
		t := *val
		return &t, nil
	}
	if falsy(v) {
		return nil, nil
	}

	raw := strings.TrimSpace(text(v))
	if raw == "" {
		return nil, invalidDate(field, v)
	}
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, raw); err == nil {
			return &t, nil
		}
	}
	// Free-form input such as "2020/01/02" or "Jan 2, 2020". Zone-less
	// values are read as UTC.
	if t, err := dateparse.ParseIn(raw, time.UTC); err == nil {
		return &t, nil
	}
	return nil, invalidDate(field, v)
}

// falsy reports values that count as not set: nil, false, "" and zero.
func falsy(v any) bool {
	switch val := v.(type) {
	case nil:
		return true
	case bool:
		return !val
	case string:
		return val == ""
	case int, int64, uint64, float64:
		return text(val) == ""
	}
	return false
}

func invalidDate(field string, v any) error {
	return errors.WrapError(ErrInvalidDate, errors.CategoryValidation, "invalid "+field+" date").
		WithContext("field", field).
		WithContext("value", v).
		Build()
}

// isoTimestamp formats t as a UTC ISO-8601 timestamp with millisecond precision.
func isoTimestamp(t time.Time) string {
	return t.UTC().Format("2006-01-02T15:04:05.000Z")
}

// prefix ensures value starts with p.
func prefix(value, p string) string {
	if strings.HasPrefix(value, p) {
		return value
	}
	return p + value
}

// unique drops repeated values, keeping the first occurrence.
func unique(values []string) []string {
	seen := make(map[string]struct{}, len(values))
	out := make([]string, 0, len(values))
	for _, v := range values {
		if _, ok := seen[v]; ok {
			continue
		}
		seen[v] = struct{}{}
		out = append(out, v)
	}
	return out
}

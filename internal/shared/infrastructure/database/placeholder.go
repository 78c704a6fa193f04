package database

import (
	"strconv"
	"strings"
	"time"
)

// Rebind rewrites "?" placeholders into the driver's native form. Repositories
// write their SQL once with "?" and rebind per connection; PostgreSQL receives
// "$1", "$2", ... while SQLite queries pass through unchanged. Question marks
// inside single-quoted literals are left alone.
func Rebind(driver Driver, query string) string {
	if driver != DriverPostgres || !strings.Contains(query, "?") {
		return query
	}

	var b strings.Builder
	b.Grow(len(query) + 8)
	n := 0
	inLiteral := false
	for i := 0; i < len(query); i++ {
		c := query[i]
		switch {
		case c == '\'':
			inLiteral = !inLiteral
			b.WriteByte(c)
		case c == '?' && !inLiteral:
			n++
			b.WriteByte('$')
			b.WriteString(strconv.Itoa(n))
		default:
			b.WriteByte(c)
		}
	}
	return b.String()
}

// TimestampLayout is the storage format for timestamps. Values are always UTC
// so that they order correctly as text on every driver.
const TimestampLayout = "2006-01-02T15:04:05Z"

// FormatTimestamp formats t for storage.
func FormatTimestamp(t time.Time) string {
	return t.UTC().Format(TimestampLayout)
}

// ParseTimestamp parses a stored timestamp. Malformed values yield the zero time.
func ParseTimestamp(s string) time.Time {
	t, err := time.Parse(time.RFC3339, s)
	if err != nil {
		return time.Time{}
	}
	return t.UTC()
}

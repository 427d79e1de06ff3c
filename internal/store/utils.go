package store

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/VizLoreLabs/phasmaFoodPlatform/schema"
)

// sqliteTimeLayout keeps a fixed width so stored times sort lexically.
const sqliteTimeLayout = "2006-01-02T15:04:05.000000000Z07:00"

var tableNamePattern = regexp.MustCompile(`^[a-zA-Z_][a-zA-Z0-9_]*$`)

// validateTableName ensures a table name is a plain identifier.
func validateTableName(name string) error {
	if !tableNamePattern.MatchString(name) {
		return fmt.Errorf("invalid table name %q", name)
	}
	return nil
}

// quoteTableName quotes a table name for the backend.
func quoteTableName(name string, backend schema.DatabaseBackend) string {
	switch backend {
	case schema.MySQLBackend:
		return "`" + name + "`"
	default:
		return `"` + name + `"`
	}
}

// rebind rewrites ? placeholders into $n for PostgreSQL.
func rebind(query string, backend schema.DatabaseBackend) string {
	if backend != schema.PostgreSQLBackend {
		return query
	}
	var b strings.Builder
	n := 0
	for _, r := range query {
		if r == '?' {
			n++
			b.WriteString("$" + strconv.Itoa(n))
			continue
		}
		b.WriteRune(r)
	}
	return b.String()
}

// placeholders returns n comma-separated ? markers.
func placeholders(n int) string {
	if n <= 0 {
		return ""
	}
	return strings.TrimSuffix(strings.Repeat("?, ", n), ", ")
}

// formatTime converts a time for storage. SQLite stores text.
func formatTime(t time.Time, backend schema.DatabaseBackend) any {
	t = t.UTC()
	if backend == schema.SQLiteBackend {
		return t.Format(sqliteTimeLayout)
	}
	return t
}

// timeScanner reads a time column regardless of how the backend returns it.
type timeScanner struct {
	t *time.Time
}

// Scan implements sql.Scanner.
func (s timeScanner) Scan(src any) error {
	switch v := src.(type) {
	case nil:
		*s.t = time.Time{}
	case time.Time:
		*s.t = v.UTC()
	case string:
		return s.parse(v)
	case []byte:
		return s.parse(string(v))
	default:
		return fmt.Errorf("unsupported time column type %T", src)
	}
	return nil
}

func (s timeScanner) parse(v string) error {
	for _, layout := range []string{sqliteTimeLayout, time.RFC3339Nano, "2006-01-02 15:04:05.999999999"} {
		if t, err := time.Parse(layout, v); err == nil {
			*s.t = t.UTC()
			return nil
		}
	}
	return fmt.Errorf("failed to parse time %q", v)
}

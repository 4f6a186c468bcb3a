package storage

import (
	"fmt"
	"strconv"
	"strings"
)

// Driver names accepted by Open and by the server store.
const (
	DriverSQLite3  = "sqlite3"  // github.com/mattn/go-sqlite3
	DriverSQLite   = "sqlite"   // modernc.org/sqlite
	DriverPostgres = "postgres" // github.com/lib/pq
)

// Dialect captures the SQL differences between the supported databases.
type Dialect int

const (
	SQLite Dialect = iota
	Postgres
)

// DialectFor maps a database/sql driver name to its dialect.
func DialectFor(driver string) (Dialect, error) {
	switch driver {
	case DriverSQLite3, DriverSQLite:
		return SQLite, nil
	case DriverPostgres:
		return Postgres, nil
	default:
		return 0, fmt.Errorf("unsupported database driver %q", driver)
	}
}

func (d Dialect) String() string {
	if d == Postgres {
		return "postgres"
	}
	return "sqlite"
}

// Rebind rewrites ? placeholders into the dialect's bind syntax.
func (d Dialect) Rebind(query string) string {
	if d != Postgres {
		return query
	}

	var sb strings.Builder
	sb.Grow(len(query) + 8)
	n := 0
	for _, r := range query {
		if r == '?' {
			n++
			sb.WriteByte('$')
			sb.WriteString(strconv.Itoa(n))
			continue
		}
		sb.WriteRune(r)
	}
	return sb.String()
}

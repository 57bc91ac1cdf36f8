package sqlstore

import (
	"strconv"
	"strings"
)

type dialect struct {
	name   string
	driver string
	schema string
	// numbered placeholders ($1, $2, ...) instead of ?
	numbered bool
	// single writer; the pool is pinned to one connection
	singleConn bool
}

var (
	postgresDialect = dialect{
		name:     "postgres",
		driver:   "postgres",
		numbered: true,
		schema: `
	CREATE TABLE IF NOT EXISTS links (
		code TEXT PRIMARY KEY,
		url TEXT NOT NULL,
		clicks BIGINT NOT NULL DEFAULT 0,
		last_clicked TIMESTAMPTZ,
		created_at TIMESTAMPTZ NOT NULL DEFAULT now()
	);
	CREATE INDEX IF NOT EXISTS idx_links_created_at ON links(created_at DESC);
	`,
	}

	sqliteSchema = `
	CREATE TABLE IF NOT EXISTS links (
		code TEXT PRIMARY KEY,
		url TEXT NOT NULL,
		clicks INTEGER NOT NULL DEFAULT 0,
		last_clicked DATETIME,
		created_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP
	);
	CREATE INDEX IF NOT EXISTS idx_links_created_at ON links(created_at);
	`

	libsqlDialect = dialect{
		name:   "libsql",
		driver: "libsql",
		schema: sqliteSchema,
	}

	sqliteDialect = dialect{
		name:       "sqlite",
		driver:     "sqlite",
		schema:     sqliteSchema,
		singleConn: true,
	}
)

func dialectFor(dbURL string) dialect {
	switch {
	case strings.HasPrefix(dbURL, "postgres://"), strings.HasPrefix(dbURL, "postgresql://"):
		return postgresDialect
	case strings.Contains(dbURL, "libsql://"), strings.Contains(dbURL, "wss://"):
		return libsqlDialect
	default:
		return sqliteDialect
	}
}

// dsn adjusts the connection string for the driver.
func (d dialect) dsn(dbURL string, production bool) string {
	switch d.name {
	case "postgres":
		if production && !strings.Contains(dbURL, "sslmode=") {
			return withParam(dbURL, "sslmode=require")
		}
	case "sqlite":
		// Fixed-width text timestamps keep ORDER BY created_at correct.
		if !strings.Contains(dbURL, "_time_format=") {
			return withParam(dbURL, "_time_format=sqlite")
		}
	}
	return dbURL
}

// rebind rewrites ? placeholders for drivers that want $n.
func (d dialect) rebind(query string) string {
	if !d.numbered {
		return query
	}
	var b strings.Builder
	b.Grow(len(query) + 8)
	n := 0
	for i := 0; i < len(query); i++ {
		if query[i] == '?' {
			n++
			b.WriteByte('$')
			b.WriteString(strconv.Itoa(n))
			continue
		}
		b.WriteByte(query[i])
	}
	return b.String()
}

func withParam(dbURL, param string) string {
	if strings.Contains(dbURL, "?") {
		return dbURL + "&" + param
	}
	return dbURL + "?" + param
}

package database

import (
	"path/filepath"
	"strings"
)

// Driver names a supported database backend.
type Driver string

const (
	// DriverPostgres is the hosted academy database.
	DriverPostgres Driver = "postgres"
	// DriverSQLite is the embedded database used in local mode.
	DriverSQLite Driver = "sqlite"
)

func (d Driver) String() string {
	return string(d)
}

// IsValid reports whether d is a supported backend.
func (d Driver) IsValid() bool {
	return d == DriverPostgres || d == DriverSQLite
}

// DetectDriver infers the backend from a connection string. An empty string
// selects SQLite so that local mode needs no configuration; anything
// unrecognised is treated as PostgreSQL.
func DetectDriver(url string) Driver {
	if url == "" {
		return DriverSQLite
	}
	if scheme, _, ok := strings.Cut(url, "://"); ok {
		switch scheme {
		case "postgres", "postgresql":
			return DriverPostgres
		case "sqlite":
			return DriverSQLite
		}
	}
	if strings.HasPrefix(url, "file:") {
		return DriverSQLite
	}
	switch filepath.Ext(url) {
	case ".db", ".sqlite", ".sqlite3":
		return DriverSQLite
	}
	return DriverPostgres
}

// Package db manages database connections for the webscout audit store.
package db

import (
	"fmt"
	"strings"

	"github.com/glebarez/sqlite"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// DefaultSQLiteFile is the sqlite database file used when no DSN is supplied.
const DefaultSQLiteFile = "webscout.db"

// NewDBConnection opens a database connection for the given DSN.
// A DSN starting with postgres:// or postgresql:// opens a Postgres connection;
// anything else is treated as a sqlite file path. An empty DSN falls back to
// the default sqlite file in the current directory.
func NewDBConnection(dsn string) (*gorm.DB, error) {
	var dialector gorm.Dialector
	switch {
	case strings.HasPrefix(dsn, "postgres://") || strings.HasPrefix(dsn, "postgresql://"):
		dialector = postgres.Open(dsn)
	case dsn == "":
		dialector = sqlite.Open(DefaultSQLiteFile)
	default:
		dialector = sqlite.Open(dsn)
	}

	conn, err := gorm.Open(dialector, &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}
	return conn, nil
}

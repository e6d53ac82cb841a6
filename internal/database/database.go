// Package database centralises sqlx connection helpers for the template
// store.  Two drivers are linked in: go-sql-driver/mysql for shared
// deployments (MariaDB works too) and mattn/go-sqlite3 for single-host
// installs and local development.
//
// Public entry points:
//
//	Open(driver, dsn)                             – conservative pool sizes.
//	OpenWithOptions(driver, dsn, maxOpen, maxIdle) – fine-grained control.
//
// Both helpers Ping the database before returning so callers can fail fast
// during bootstrap.  Callers should Close() the returned *sqlx.DB when no
// longer needed.
package database

import (
	"context"
	"fmt"
	"time"

	_ "github.com/go-sql-driver/mysql"
	"github.com/jmoiron/sqlx"
	_ "github.com/mattn/go-sqlite3"
)

// PingTimeout bounds the startup connectivity check.
const PingTimeout = 5 * time.Second

// Open returns a *sqlx.DB with sane defaults: 10 max open, 4 idle, and a
// 30-minute connection lifetime.
func Open(driver, dsn string) (*sqlx.DB, error) {
	return OpenWithOptions(driver, dsn, 10, 4)
}

// OpenWithOptions lets callers tune maxOpen and maxIdle.  SQLite is pinned
// to a single open connection because it serialises writers anyway.
func OpenWithOptions(driver, dsn string, maxOpen, maxIdle int) (*sqlx.DB, error) {
	switch driver {
	case "mysql", "sqlite3":
	default:
		return nil, fmt.Errorf("database: unsupported driver %q", driver)
	}

	db, err := sqlx.Open(driver, dsn)
	if err != nil {
		return nil, err
	}

	if driver == "sqlite3" {
		maxOpen, maxIdle = 1, 1
	}
	db.SetMaxOpenConns(maxOpen)
	db.SetMaxIdleConns(maxIdle)
	db.SetConnMaxLifetime(30 * time.Minute)

	ctx, cancel := context.WithTimeout(context.Background(), PingTimeout)
	defer cancel()
	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, err
	}
	return db, nil
}

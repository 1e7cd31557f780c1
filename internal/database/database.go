// Package database opens the MySQL pool behind the submission log.  The
// driver is go-sql-driver/mysql, which also speaks to MariaDB.
//
// Public entry points:
//
//	Open(ctx, dsn)                          – defaults sized for one form service.
//	OpenWithOptions(ctx, dsn, maxOpen, maxIdle) – explicit pool sizes.
//
// Both Ping before returning so bootstrap fails fast on a bad DSN.  Callers
// Close() the returned *sqlx.DB on shutdown.
package database

import (
	"context"
	"fmt"
	"time"

	"github.com/go-sql-driver/mysql"
	"github.com/jmoiron/sqlx"
)

// Open returns a pool with 10 max open, 2 idle, and a 30-minute lifetime.
func Open(ctx context.Context, dsn string) (*sqlx.DB, error) {
	return OpenWithOptions(ctx, dsn, 10, 2)
}

// OpenWithOptions lets callers size the pool.  parseTime is forced on so
// DATETIME columns scan into time.Time.
func OpenWithOptions(ctx context.Context, dsn string, maxOpen, maxIdle int) (*sqlx.DB, error) {
	cfg, err := mysql.ParseDSN(dsn)
	if err != nil {
		return nil, fmt.Errorf("database dsn: %w", err)
	}
	cfg.ParseTime = true

	db, err := sqlx.Open("mysql", cfg.FormatDSN())
	if err != nil {
		return nil, err
	}

	db.SetMaxOpenConns(maxOpen)
	db.SetMaxIdleConns(maxIdle)
	db.SetConnMaxLifetime(30 * time.Minute)

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := db.PingContext(pingCtx); err != nil {
		db.Close()
		return nil, fmt.Errorf("database ping: %w", err)
	}
	return db, nil
}

// Redacted returns dsn with any password masked, for logs.
func Redacted(dsn string) string {
	cfg, err := mysql.ParseDSN(dsn)
	if err != nil {
		return "<invalid dsn>"
	}
	if cfg.Passwd != "" {
		cfg.Passwd = "xxxxx"
	}
	return cfg.FormatDSN()
}

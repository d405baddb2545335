// Package store owns the relational database handle and its schema
// migrations. Services receive a *Store instead of reaching for a global
// connection.
package store

import (
	"context"
	"fmt"

	_ "github.com/go-sql-driver/mysql"
	"github.com/jmoiron/sqlx"
	_ "github.com/mattn/go-sqlite3"
	"go.uber.org/zap"
)

// Store wraps the sqlx handle for the single application database. The
// database is either a sqlite file (the default deployment) or a mysql
// server, selected by driver name.
type Store struct {
	DB  *sqlx.DB
	log *zap.Logger

	driver string
}

// Open connects to the database and verifies the connection. The caller is
// responsible for running migrations before serving traffic.
func Open(driver, dsn string, log *zap.Logger) (*Store, error) {
	if driver == "sqlite3" {
		// Enforce referential integrity; sqlite leaves it off by default.
		dsn = dsn + "?_foreign_keys=on"
	}

	db, err := sqlx.Open(driver, dsn)
	if err != nil {
		return nil, fmt.Errorf("open %s database: %w", driver, err)
	}
	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping %s database: %w", driver, err)
	}

	if driver == "sqlite3" {
		// A file-backed sqlite handle must not be used from concurrent
		// connections that write; one connection serializes statements.
		db.SetMaxOpenConns(1)
	} else {
		db.SetMaxOpenConns(10)
		db.SetMaxIdleConns(10)
	}

	return &Store{DB: db, log: log, driver: driver}, nil
}

// Driver reports the sql driver name the store was opened with.
func (s *Store) Driver() string {
	return s.driver
}

func (s *Store) Close() error {
	return s.DB.Close()
}

// Tx runs fn inside a single transaction, committing on nil and rolling back
// on error. Multi-statement operations use this so they are all-or-nothing.
func (s *Store) Tx(ctx context.Context, fn func(tx *sqlx.Tx) error) error {
	tx, err := s.DB.BeginTxx(ctx, nil)
	if err != nil {
		return err
	}

	if err := fn(tx); err != nil {
		if rbErr := tx.Rollback(); rbErr != nil {
			s.log.Error("transaction rollback failed", zap.Error(rbErr))
		}
		return err
	}
	return tx.Commit()
}

package db

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/aitutor/tutor-api/internal/logger"
)

// ErrNotFound is returned by Get when the query matched no row.
var ErrNotFound = errors.New("db: not found")

// Querier runs one statement. Queries use '?' placeholders; they are
// rebound for the underlying driver.
type Querier interface {
	// Get scans a single row into dest (a struct or scalar pointer).
	Get(ctx context.Context, dest any, query string, args ...any) error
	// Select scans all matching rows into dest (a slice pointer).
	Select(ctx context.Context, dest any, query string, args ...any) error
	// Exec runs a mutation.
	Exec(ctx context.Context, query string, args ...any) (sql.Result, error)
}

// Adapter is the storage port every store depends on. The same call shape
// serves the embedded engine and the remote ones.
type Adapter interface {
	Querier
	// WithTx runs fn in one transaction; fn's error rolls it back.
	WithTx(ctx context.Context, fn func(q Querier) error) error
	Ping(ctx context.Context) error
	Driver() Driver
	Close() error
}

type SQLAdapter struct {
	db     *sqlx.DB
	driver Driver
	log    *logger.Logger
}

func NewAdapter(dbh *sqlx.DB, driver Driver, log *logger.Logger) *SQLAdapter {
	if log == nil {
		log = logger.Nop()
	}
	return &SQLAdapter{db: dbh, driver: driver, log: log}
}

func (a *SQLAdapter) Driver() Driver { return a.driver }

func (a *SQLAdapter) Close() error {
	if a == nil || a.db == nil {
		return nil
	}
	return a.db.Close()
}

func (a *SQLAdapter) Ping(ctx context.Context) error {
	return a.db.PingContext(ctx)
}

func (a *SQLAdapter) Get(ctx context.Context, dest any, query string, args ...any) error {
	return get(ctx, a.db, a.log, dest, query, args...)
}

func (a *SQLAdapter) Select(ctx context.Context, dest any, query string, args ...any) error {
	return sel(ctx, a.db, a.log, dest, query, args...)
}

func (a *SQLAdapter) Exec(ctx context.Context, query string, args ...any) (sql.Result, error) {
	return exec(ctx, a.db, a.log, query, args...)
}

func (a *SQLAdapter) WithTx(ctx context.Context, fn func(q Querier) error) (err error) {
	tx, err := a.db.BeginTxx(ctx, nil)
	if err != nil {
		a.log.Error("db begin tx failed", "error", err)
		return fmt.Errorf("db: begin tx: %w", err)
	}
	defer func() {
		if p := recover(); p != nil {
			_ = tx.Rollback()
			panic(p)
		}
		if err != nil {
			_ = tx.Rollback()
			return
		}
		if e := tx.Commit(); e != nil {
			a.log.Error("db commit failed", "error", e)
			err = fmt.Errorf("db: commit: %w", e)
		}
	}()
	err = fn(&txQuerier{tx: tx, log: a.log})
	return
}

type txQuerier struct {
	tx  *sqlx.Tx
	log *logger.Logger
}

func (q *txQuerier) Get(ctx context.Context, dest any, query string, args ...any) error {
	return get(ctx, q.tx, q.log, dest, query, args...)
}

func (q *txQuerier) Select(ctx context.Context, dest any, query string, args ...any) error {
	return sel(ctx, q.tx, q.log, dest, query, args...)
}

func (q *txQuerier) Exec(ctx context.Context, query string, args ...any) (sql.Result, error) {
	return exec(ctx, q.tx, q.log, query, args...)
}

// ext is what *sqlx.DB and *sqlx.Tx have in common.
type ext interface {
	sqlx.ExtContext
	GetContext(ctx context.Context, dest any, query string, args ...any) error
	SelectContext(ctx context.Context, dest any, query string, args ...any) error
}

func get(ctx context.Context, e ext, log *logger.Logger, dest any, query string, args ...any) error {
	err := e.GetContext(ctx, dest, e.Rebind(query), args...)
	if errors.Is(err, sql.ErrNoRows) {
		return ErrNotFound
	}
	if err != nil {
		log.Error("db query failed", "query", query, "error", err)
		return fmt.Errorf("db: get: %w", err)
	}
	return nil
}

func sel(ctx context.Context, e ext, log *logger.Logger, dest any, query string, args ...any) error {
	if err := e.SelectContext(ctx, dest, e.Rebind(query), args...); err != nil {
		log.Error("db query failed", "query", query, "error", err)
		return fmt.Errorf("db: select: %w", err)
	}
	return nil
}

func exec(ctx context.Context, e ext, log *logger.Logger, query string, args ...any) (sql.Result, error) {
	res, err := e.ExecContext(ctx, e.Rebind(query), args...)
	if err != nil {
		log.Error("db exec failed", "query", query, "error", err)
		return nil, fmt.Errorf("db: exec: %w", err)
	}
	return res, nil
}

// TimeLayout is the fixed-width UTC layout used for every timestamp column.
const TimeLayout = "2006-01-02T15:04:05.000000Z"

// Now returns the current time formatted for storage.
func Now() string { return time.Now().UTC().Format(TimeLayout) }

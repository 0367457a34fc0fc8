package db

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/jmoiron/sqlx"

	_ "github.com/jackc/pgx/v5/stdlib"                   // driver: pgx
	_ "github.com/tursodatabase/libsql-client-go/libsql" // driver: libsql (remote)
	_ "modernc.org/sqlite"                               // driver: sqlite

	"github.com/aitutor/tutor-api/internal/logger"
)

type Driver string

const (
	DriverSQLite   Driver = "sqlite"
	DriverLibSQL   Driver = "libsql"
	DriverPostgres Driver = "postgres"
)

const defaultSQLiteDSN = "file:data/ai_tutor.db?_pragma=busy_timeout(5000)"

func init() {
	// sqlx only knows the mattn driver names; queries are written with '?'.
	sqlx.BindDriver("sqlite", sqlx.QUESTION)
	sqlx.BindDriver("libsql", sqlx.QUESTION)
}

// Open connects to the configured engine, tunes the pool and ensures the
// schema exists. The local engine is an embedded SQLite file; libsql and
// postgres are remote managed databases reached over the network.
func Open(ctx context.Context, driver Driver, dsn string, log *logger.Logger) (*SQLAdapter, error) {
	var drvName string
	switch driver {
	case DriverSQLite:
		drvName = "sqlite" // modernc driver
		if dsn == "" {
			if err := os.MkdirAll("data", 0o755); err != nil {
				return nil, fmt.Errorf("db: data dir: %w", err)
			}
			dsn = defaultSQLiteDSN
		}
	case DriverLibSQL:
		drvName = "libsql"
		if dsn == "" {
			return nil, errors.New("db: libsql requires DB_DSN (libsql://<db>.turso.io?authToken=...)")
		}
	case DriverPostgres:
		drvName = "pgx" // pgx stdlib driver
		if dsn == "" {
			dsn = "postgres://localhost:5432/ai_tutor?sslmode=disable"
		}
	default:
		return nil, fmt.Errorf("db: unsupported driver: %s", driver)
	}

	dbh, err := sqlx.Open(drvName, dsn)
	if err != nil {
		return nil, fmt.Errorf("db: open: %w", err)
	}
	tunePool(driver, dbh)

	if err := dbh.PingContext(ctx); err != nil {
		_ = dbh.Close()
		return nil, fmt.Errorf("db: ping: %w", err)
	}
	if driver == DriverSQLite {
		if err := applySQLitePragmas(ctx, dbh); err != nil {
			_ = dbh.Close()
			return nil, err
		}
	}
	if err := ensureSchema(ctx, dbh, driver); err != nil {
		_ = dbh.Close()
		return nil, err
	}
	return NewAdapter(dbh, driver, log), nil
}

func tunePool(driver Driver, dbh *sqlx.DB) {
	maxOpen := 20
	maxIdle := 10
	connLife := 45 * time.Minute
	idleLife := 15 * time.Minute

	if driver == DriverSQLite {
		// single writer; also keeps in-memory databases alive across calls
		maxOpen, maxIdle = 1, 1
		connLife, idleLife = 0, 0
	}

	dbh.SetMaxOpenConns(maxOpen)
	dbh.SetMaxIdleConns(maxIdle)
	dbh.SetConnMaxLifetime(connLife)
	dbh.SetConnMaxIdleTime(idleLife)
}

func applySQLitePragmas(ctx context.Context, dbh *sqlx.DB) error {
	pragmas := []string{
		"PRAGMA foreign_keys = ON;",
		"PRAGMA journal_mode = WAL;",
		"PRAGMA synchronous = NORMAL;",
		"PRAGMA busy_timeout = 5000;",
	}
	for _, p := range pragmas {
		if _, err := dbh.ExecContext(ctx, p); err != nil {
			return fmt.Errorf("db: sqlite pragma %q: %w", p, err)
		}
	}
	return nil
}

// ensureSchema runs the DDL one statement at a time; the remote drivers
// reject multi-statement scripts.
func ensureSchema(ctx context.Context, dbh *sqlx.DB, driver Driver) error {
	schema := schemaSQLite
	if driver == DriverPostgres {
		schema = schemaPostgres
	}
	for _, stmt := range strings.Split(schema, ";") {
		stmt = strings.TrimSpace(stmt)
		if stmt == "" {
			continue
		}
		if _, err := dbh.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("db: schema failed at %q: %w", firstLine(stmt), err)
		}
	}
	return nil
}

func firstLine(s string) string {
	if i := strings.IndexByte(s, '\n'); i >= 0 {
		return s[:i]
	}
	return s
}

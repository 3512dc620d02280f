package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"strconv"
	"strings"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/jackc/pgx/v5/stdlib"
	_ "modernc.org/sqlite"
)

type Config struct {
	DSN              string
	MaxConns         int32
	MinConns         int32
	MaxConnLifetime  time.Duration
	MaxConnIdleTime  time.Duration
	DialTimeout      time.Duration
	StatementTimeout time.Duration
}

// Dialect selects placeholder syntax and driver.
type Dialect string

const (
	DialectSQLite   Dialect = "sqlite"
	DialectPostgres Dialect = "postgres"
)

// DB is a *sql.DB plus the pgx pool backing it when the DSN is postgres.
type DB struct {
	*sql.DB
	Dialect Dialect
	pool    *pgxpool.Pool
}

// ErrNotFound is returned when a row lookup matches nothing.
var ErrNotFound = errors.New("not found")

// DialectFor picks postgres for postgres:// and postgresql:// DSNs, SQLite otherwise.
func DialectFor(dsn string) Dialect {
	if strings.HasPrefix(dsn, "postgres://") || strings.HasPrefix(dsn, "postgresql://") {
		return DialectPostgres
	}
	return DialectSQLite
}

// Open connects to the configured database and applies the schema.
func Open(ctx context.Context, cfg Config, logger *slog.Logger) (*DB, error) {
	if logger == nil {
		logger = slog.Default()
	}
	var (
		db  *DB
		err error
	)
	switch DialectFor(cfg.DSN) {
	case DialectPostgres:
		db, err = openPostgres(ctx, cfg, logger)
	default:
		db, err = openSQLite(cfg, logger)
	}
	if err != nil {
		logger.Error("failed to connect to database", "error", err)
		return nil, err
	}
	if err := Migrate(ctx, db); err != nil {
		logger.Error("failed to apply schema", "error", err)
		_ = db.DB.Close()
		if db.pool != nil {
			db.pool.Close()
		}
		return nil, err
	}
	logger.Info("successfully connected to database", "dialect", db.Dialect)
	return db, nil
}

func openPostgres(ctx context.Context, cfg Config, logger *slog.Logger) (*DB, error) {
	logger.Info("connecting to database", "dialect", DialectPostgres)
	pc, err := pgxpool.ParseConfig(cfg.DSN)
	if err != nil {
		return nil, err
	}
	if cfg.MaxConns > 0 {
		pc.MaxConns = cfg.MaxConns
	}
	pc.MinConns = cfg.MinConns
	pc.MaxConnLifetime = cfg.MaxConnLifetime
	pc.MaxConnIdleTime = cfg.MaxConnIdleTime
	pc.ConnConfig.RuntimeParams["application_name"] = "maritime-tracker"
	if cfg.StatementTimeout > 0 {
		pc.ConnConfig.RuntimeParams["statement_timeout"] = strconv.FormatInt(cfg.StatementTimeout.Milliseconds(), 10)
	}

	if cfg.DialTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, cfg.DialTimeout)
		defer cancel()
	}
	pool, err := pgxpool.NewWithConfig(ctx, pc)
	if err != nil {
		return nil, err
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, err
	}

	// Wrap pool as *sql.DB so repositories stay driver-agnostic
	return &DB{DB: stdlib.OpenDBFromPool(pool), Dialect: DialectPostgres, pool: pool}, nil
}

func openSQLite(cfg Config, logger *slog.Logger) (*DB, error) {
	dsn, memory := sqliteDSN(cfg.DSN)
	logger.Info("connecting to database", "dialect", DialectSQLite, "dsn", dsn)
	sdb, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, err
	}
	if memory {
		// every connection to :memory: is a separate database
		sdb.SetMaxOpenConns(1)
	} else if cfg.MaxConns > 0 {
		sdb.SetMaxOpenConns(int(cfg.MaxConns))
	}
	sdb.SetConnMaxLifetime(cfg.MaxConnLifetime)
	return &DB{DB: sdb, Dialect: DialectSQLite}, nil
}

func sqliteDSN(dsn string) (string, bool) {
	if dsn == "" || dsn == ":memory:" {
		return "file::memory:?_pragma=foreign_keys(1)", true
	}
	memory := strings.Contains(dsn, ":memory:")
	if strings.Contains(dsn, "?") {
		return dsn, memory
	}
	return dsn + "?_pragma=journal_mode(WAL)&_pragma=busy_timeout(5000)&_pragma=foreign_keys(1)", memory
}

// Close closes the database connections gracefully
func Close(db *DB, logger *slog.Logger) {
	if db == nil {
		return
	}
	if logger == nil {
		logger = slog.Default()
	}
	logger.Info("closing database connections")
	if err := db.DB.Close(); err != nil {
		logger.Error("failed to close database", "error", err)
	}
	if db.pool != nil {
		db.pool.Close()
	}
	logger.Info("database connections closed")
}

// HealthCheck pings the database to catch DSN issues early.
func HealthCheck(ctx context.Context, db *DB, timeout time.Duration, logger *slog.Logger) error {
	if logger == nil {
		logger = slog.Default()
	}
	if timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, timeout)
		defer cancel()
	}
	logger.Debug("pinging database", "dialect", db.Dialect)
	var err error
	if db.pool != nil {
		err = db.pool.Ping(ctx)
	} else {
		err = db.PingContext(ctx)
	}
	if err != nil {
		logger.Error("database ping failed", "error", err)
		return fmt.Errorf("ping %s: %w", db.Dialect, err)
	}
	logger.Debug("database ping successful")
	return nil
}

// rebind rewrites ? placeholders to $n for postgres.
func (db *DB) rebind(q string) string {
	if db.Dialect != DialectPostgres {
		return q
	}
	var b strings.Builder
	n := 0
	for i := 0; i < len(q); i++ {
		if q[i] == '?' {
			n++
			b.WriteByte('$')
			b.WriteString(strconv.Itoa(n))
			continue
		}
		b.WriteByte(q[i])
	}
	return b.String()
}

const timeLayout = "2006-01-02T15:04:05.000000000Z"

func formatTime(t time.Time) string { return t.UTC().Format(timeLayout) }

func parseTime(s string) (time.Time, error) { return time.Parse(timeLayout, s) }

func boolInt(b bool) int {
	if b {
		return 1
	}
	return 0
}

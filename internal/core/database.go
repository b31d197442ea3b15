// AngelaMos | 2026
// database.go

package core

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"math/rand/v2"
	"time"

	"github.com/cenkalti/backoff/v4"
	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/jmoiron/sqlx"

	"github.com/carterperez-dev/messhall/internal/config"
)

type Database struct {
	DB *sqlx.DB
}

// NewDatabase opens the pool and pings it, retrying transient failures
// with exponential backoff. Exhausting the retries is fatal to the caller.
func NewDatabase(
	ctx context.Context,
	cfg config.DatabaseConfig,
) (*Database, error) {
	var db *sqlx.DB

	connect := func() error {
		conn, err := sqlx.Open("pgx", cfg.URL)
		if err != nil {
			return backoff.Permanent(fmt.Errorf("open database: %w", err))
		}

		pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
		defer cancel()

		if err := conn.PingContext(pingCtx); err != nil {
			_ = conn.Close() //nolint:errcheck // cleanup on connection failure
			return fmt.Errorf("ping database: %w", err)
		}

		db = conn
		return nil
	}

	policy := backoff.NewExponentialBackOff()
	if cfg.ConnectBackoff > 0 {
		policy.InitialInterval = cfg.ConnectBackoff
	}
	policy.MaxInterval = 10 * time.Second
	policy.MaxElapsedTime = 0

	notify := func(err error, wait time.Duration) {
		slog.Warn("database not reachable, retrying",
			"error", err,
			"retry_in", wait.String(),
		)
	}

	err := backoff.RetryNotify(
		connect,
		backoff.WithContext(backoff.WithMaxRetries(policy, cfg.ConnectRetries), ctx),
		notify,
	)
	if err != nil {
		return nil, fmt.Errorf("connect to database: %w", err)
	}

	db.SetMaxOpenConns(cfg.MaxOpenConns)
	db.SetMaxIdleConns(cfg.MaxIdleConns)
	db.SetConnMaxLifetime(jitteredDuration(cfg.ConnMaxLifetime))
	db.SetConnMaxIdleTime(cfg.ConnMaxIdleTime)

	return &Database{DB: db}, nil
}

func (d *Database) Close() error {
	if d.DB != nil {
		return d.DB.Close()
	}
	return nil
}

func (d *Database) Ping(ctx context.Context) error {
	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	if err := d.DB.PingContext(pingCtx); err != nil {
		return fmt.Errorf("database ping failed: %w", err)
	}

	return nil
}

func (d *Database) Stats() sql.DBStats {
	return d.DB.Stats()
}

// InTx implements Transactor on the pool.
func (d *Database) InTx(ctx context.Context, fn func(tx DBTX) error) error {
	return InTx(ctx, d.DB, func(tx *sqlx.Tx) error {
		return fn(tx)
	})
}

type DBTX interface {
	sqlx.ExtContext
	sqlx.ExecerContext
	GetContext(ctx context.Context, dest any, query string, args ...any) error
	SelectContext(
		ctx context.Context,
		dest any,
		query string,
		args ...any,
	) error
}

// Transactor runs fn inside a transaction, committing when fn returns nil
// and rolling back otherwise.
type Transactor interface {
	InTx(ctx context.Context, fn func(tx DBTX) error) error
}

func InTx(ctx context.Context, db *sqlx.DB, fn func(tx *sqlx.Tx) error) error {
	tx, err := db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}

	defer func() {
		if p := recover(); p != nil {
			_ = tx.Rollback() //nolint:errcheck // best-effort rollback on panic
			panic(p)
		}
	}()

	if err := fn(tx); err != nil {
		if rbErr := tx.Rollback(); rbErr != nil {
			return fmt.Errorf("rollback failed: %w (original: %w)", rbErr, err)
		}
		return err
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit transaction: %w", err)
	}

	return nil
}

func jitteredDuration(base time.Duration) time.Duration {
	if base < 7 {
		return base
	}
	//nolint:gosec // G404: non-security-sensitive jitter for connection pool
	jitter := time.Duration(rand.Int64N(int64(base / 7)))
	return base + jitter
}

package engine

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	backoff "github.com/cenkalti/backoff/v4"
	_ "github.com/jackc/pgx/v5/stdlib" // register pgx database/sql driver
	"github.com/rs/zerolog"
)

const (
	DriverPgx = "pgx"

	defaultConnectTimeout = 30 * time.Second
)

// PoolConfig describes a database connection pool.
type PoolConfig struct {
	Name            string
	Driver          string
	DSN             string
	MaxOpenConns    int
	MaxIdleConns    int
	ConnMaxLifetime time.Duration
	ConnectTimeout  time.Duration
}

// DriverName maps configuration aliases onto registered database/sql drivers.
func DriverName(driver string) (string, error) {
	switch strings.ToLower(strings.TrimSpace(driver)) {
	case "", "sqlite", "sqlite3":
		return DriverSQLite, nil
	case "pgx", "postgres", "postgresql", "pgvector":
		return DriverPgx, nil
	default:
		return "", fmt.Errorf("engine: unsupported driver %q", driver)
	}
}

// OpenPool opens a pool and pings it with exponential backoff until it
// answers or ConnectTimeout elapses.
func OpenPool(ctx context.Context, cfg PoolConfig, logger zerolog.Logger) (*sql.DB, error) {
	driver, err := DriverName(cfg.Driver)
	if err != nil {
		return nil, err
	}
	if cfg.DSN == "" {
		return nil, fmt.Errorf("engine: pool %q has empty DSN", cfg.Name)
	}
	var db *sql.DB
	if driver == DriverSQLite {
		db, err = Open(cfg.DSN)
	} else {
		db, err = sql.Open(driver, cfg.DSN)
	}
	if err != nil {
		return nil, fmt.Errorf("engine: open pool %q: %w", cfg.Name, err)
	}
	if cfg.MaxOpenConns > 0 {
		db.SetMaxOpenConns(cfg.MaxOpenConns)
	}
	if cfg.MaxIdleConns > 0 {
		db.SetMaxIdleConns(cfg.MaxIdleConns)
	}
	if cfg.ConnMaxLifetime > 0 {
		db.SetConnMaxLifetime(cfg.ConnMaxLifetime)
	}

	timeout := cfg.ConnectTimeout
	if timeout <= 0 {
		timeout = defaultConnectTimeout
	}
	exp := backoff.NewExponentialBackOff()
	exp.InitialInterval = 100 * time.Millisecond
	exp.MaxInterval = 2 * time.Second
	exp.MaxElapsedTime = timeout

	attempt := 0
	ping := func() error {
		attempt++
		pingCtx, cancel := context.WithTimeout(ctx, timeout)
		defer cancel()
		err := db.PingContext(pingCtx)
		if err != nil {
			logger.Debug().Err(err).Str("pool", cfg.Name).Int("attempt", attempt).Msg("database ping failed")
		}
		return err
	}
	if err := backoff.Retry(ping, backoff.WithContext(exp, ctx)); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("engine: connect pool %q: %w", cfg.Name, err)
	}
	logger.Info().Str("pool", cfg.Name).Str("driver", driver).Int("attempts", attempt).Msg("database pool ready")
	return db, nil
}

package database

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/Gobusters/ectologger"
	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"
)

// DB is the subset of sqlx.DB the repositories use.
type DB interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	GetContext(ctx context.Context, dest any, query string, args ...any) error
	SelectContext(ctx context.Context, dest any, query string, args ...any) error
	QueryRowxContext(ctx context.Context, query string, args ...any) *sqlx.Row
	PingContext(ctx context.Context) error
	Close() error
}

type DatabaseInstance struct {
	*sqlx.DB
	logger ectologger.Logger
}

func NewDatabaseInstance(db *sqlx.DB, logger ectologger.Logger) DB {
	return &DatabaseInstance{
		DB:     db,
		logger: logger,
	}
}

// Config holds connection settings for one database role.
type Config struct {
	Driver          string
	Host            string
	Port            string
	UserName        string
	Password        string
	Name            string
	SSLMode         string
	MaxOpenConns    int
	MaxIdleConns    int
	ConnMaxLifetime time.Duration
}

func (c Config) DSN() string {
	return fmt.Sprintf(
		"host=%s port=%s user=%s password=%s dbname=%s sslmode=%s",
		c.Host, c.Port, c.UserName, c.Password, c.Name, c.SSLMode,
	)
}

// Connect opens a connection pool for the given role credentials.
func Connect(cfg Config, logger ectologger.Logger) (DB, error) {
	db, err := sqlx.Connect(cfg.Driver, cfg.DSN())
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database '%s': %w", cfg.Name, err)
	}

	db.SetMaxOpenConns(cfg.MaxOpenConns)
	db.SetMaxIdleConns(cfg.MaxIdleConns)
	db.SetConnMaxLifetime(cfg.ConnMaxLifetime)

	return NewDatabaseInstance(db, logger), nil
}

// Handles holds the two connection pools the data access layer runs on.
// The restricted pool connects as the application role and is subject to
// row-level security; the elevated pool connects as the administrative role
// and bypasses it. Which pool executes a query is selected per call via
// AccessLevel, never by toggling shared state.
type Handles struct {
	restricted DB
	elevated   DB
}

func NewHandles(restricted, elevated DB) *Handles {
	return &Handles{
		restricted: restricted,
		elevated:   elevated,
	}
}

// Set swaps in the connection pools. Called once at startup after the pools
// connect; repositories hold the Handles pointer before that happens.
func (h *Handles) Set(restricted, elevated DB) {
	h.restricted = restricted
	h.elevated = elevated
}

func (h *Handles) ForLevel(level AccessLevel) DB {
	if level == AccessElevated {
		return h.elevated
	}
	return h.restricted
}

func (h *Handles) Ping(ctx context.Context) error {
	if err := h.restricted.PingContext(ctx); err != nil {
		return fmt.Errorf("restricted connection ping failed: %w", err)
	}
	if err := h.elevated.PingContext(ctx); err != nil {
		return fmt.Errorf("elevated connection ping failed: %w", err)
	}
	return nil
}

func (h *Handles) Close() error {
	if err := h.restricted.Close(); err != nil {
		return err
	}
	return h.elevated.Close()
}

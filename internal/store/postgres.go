// PostgreSQL-backed report store.
package store

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"time"

	_ "embed"

	_ "github.com/lib/pq"

	"github.com/baria-bot/baria/internal/models"
)

// Database connection pool configuration constants.
const (
	// DefaultMaxOpenConns is the maximum number of open connections to the database.
	DefaultMaxOpenConns = 25
	// DefaultMaxIdleConns is the maximum number of idle connections in the pool.
	DefaultMaxIdleConns = 25
	// DefaultConnMaxLifetime is the maximum amount of time a connection may be reused.
	DefaultConnMaxLifetime = 5 * time.Minute
)

//go:embed migrations_postgres.sql
var postgresMigrations string

type PostgresStore struct {
	db *sql.DB
}

// NewPostgresStore connects to PostgreSQL with the DSN option and applies the
// schema migrations.
func NewPostgresStore(opts ...Option) (*PostgresStore, error) {
	var cfg Opts
	for _, opt := range opts {
		opt(&cfg)
	}
	if cfg.DSN == "" {
		slog.Error("PostgresStore DSN not set")
		return nil, fmt.Errorf("database DSN not set")
	}

	db, err := sql.Open("postgres", cfg.DSN)
	if err != nil {
		slog.Error("PostgresStore.NewPostgresStore: failed to open Postgres connection", "error", err)
		return nil, err
	}

	db.SetMaxOpenConns(DefaultMaxOpenConns)
	db.SetMaxIdleConns(DefaultMaxIdleConns)
	db.SetConnMaxLifetime(DefaultConnMaxLifetime)

	if err := db.Ping(); err != nil {
		slog.Error("PostgresStore.NewPostgresStore: Postgres ping failed", "error", err)
		return nil, err
	}
	if _, err := db.Exec(postgresMigrations); err != nil {
		slog.Error("PostgresStore.NewPostgresStore: failed to run migrations", "error", err)
		return nil, fmt.Errorf("failed to run migrations: %w", err)
	}
	slog.Debug("PostgresStore.NewPostgresStore: store ready")
	return &PostgresStore{db: db}, nil
}

func (s *PostgresStore) SaveReport(ctx context.Context, r models.IntakeReport) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO reports (id, user_id, name, age, gender, height_cm, weight_kg, bmi, category, tier, created_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)`,
		r.ID, r.UserID, r.Name, r.Age, string(r.Gender), r.HeightCm, r.WeightKg,
		r.BMI, r.Category, r.Tier, r.CreatedAt)
	if err != nil {
		slog.Error("PostgresStore.SaveReport: insert failed", "error", err, "user", r.UserID)
		return fmt.Errorf("failed to insert report for %s: %w", r.UserID, err)
	}
	slog.Debug("PostgresStore.SaveReport: report stored", "user", r.UserID, "id", r.ID)
	return nil
}

func (s *PostgresStore) GetReports(ctx context.Context) ([]models.IntakeReport, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, user_id, name, age, gender, height_cm, weight_kg, bmi, category, tier, created_at
		 FROM reports ORDER BY created_at DESC`)
	if err != nil {
		slog.Error("PostgresStore.GetReports: query failed", "error", err)
		return nil, fmt.Errorf("failed to query reports: %w", err)
	}
	defer rows.Close()
	return scanReports(rows)
}

func (s *PostgresStore) GetReportsByUser(ctx context.Context, userID string) ([]models.IntakeReport, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, user_id, name, age, gender, height_cm, weight_kg, bmi, category, tier, created_at
		 FROM reports WHERE user_id = $1 ORDER BY created_at DESC`, userID)
	if err != nil {
		slog.Error("PostgresStore.GetReportsByUser: query failed", "error", err, "user", userID)
		return nil, fmt.Errorf("failed to query reports for %s: %w", userID, err)
	}
	defer rows.Close()
	return scanReports(rows)
}

// ClearReports deletes all stored reports (for tests).
func (s *PostgresStore) ClearReports() error {
	_, err := s.db.Exec("DELETE FROM reports")
	if err != nil {
		slog.Error("PostgresStore.ClearReports: delete failed", "error", err)
		return err
	}
	return nil
}

// Close closes the PostgreSQL database connection.
func (s *PostgresStore) Close() error {
	err := s.db.Close()
	if err != nil {
		slog.Error("PostgresStore.Close: failed to close database", "error", err)
	}
	return err
}

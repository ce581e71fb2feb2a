// SQLite-backed report store.
package store

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	_ "embed"

	_ "github.com/mattn/go-sqlite3"

	"github.com/baria-bot/baria/internal/models"
)

// DefaultDirPermissions defines the default permissions for database directories.
const DefaultDirPermissions = 0755

//go:embed migrations_sqlite.sql
var sqliteMigrations string

type SQLiteStore struct {
	db *sql.DB
}

// NewSQLiteStore opens (and creates, if needed) the SQLite database at the
// DSN file path and applies the schema migrations.
func NewSQLiteStore(opts ...Option) (*SQLiteStore, error) {
	var cfg Opts
	for _, opt := range opts {
		opt(&cfg)
	}
	if cfg.DSN == "" {
		slog.Error("SQLiteStore DSN not set")
		return nil, fmt.Errorf("database DSN not set")
	}

	dir := filepath.Dir(cfg.DSN)
	if err := os.MkdirAll(dir, DefaultDirPermissions); err != nil {
		slog.Error("SQLiteStore.NewSQLiteStore: failed to create database directory", "error", err, "dir", dir)
		return nil, fmt.Errorf("failed to create database directory: %w", err)
	}

	db, err := sql.Open("sqlite3", cfg.DSN)
	if err != nil {
		slog.Error("SQLiteStore.NewSQLiteStore: failed to open SQLite connection", "error", err)
		return nil, err
	}
	if err := db.Ping(); err != nil {
		slog.Error("SQLiteStore.NewSQLiteStore: SQLite ping failed", "error", err)
		return nil, err
	}
	if _, err := db.Exec(sqliteMigrations); err != nil {
		slog.Error("SQLiteStore.NewSQLiteStore: failed to run migrations", "error", err)
		return nil, fmt.Errorf("failed to run migrations: %w", err)
	}
	slog.Debug("SQLiteStore.NewSQLiteStore: store ready", "dsn", cfg.DSN)
	return &SQLiteStore{db: db}, nil
}

func (s *SQLiteStore) SaveReport(ctx context.Context, r models.IntakeReport) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO reports (id, user_id, name, age, gender, height_cm, weight_kg, bmi, category, tier, created_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		r.ID, r.UserID, r.Name, r.Age, string(r.Gender), r.HeightCm, r.WeightKg,
		r.BMI, r.Category, r.Tier, r.CreatedAt)
	if err != nil {
		slog.Error("SQLiteStore.SaveReport: insert failed", "error", err, "user", r.UserID)
		return fmt.Errorf("failed to insert report for %s: %w", r.UserID, err)
	}
	slog.Debug("SQLiteStore.SaveReport: report stored", "user", r.UserID, "id", r.ID)
	return nil
}

func (s *SQLiteStore) GetReports(ctx context.Context) ([]models.IntakeReport, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, user_id, name, age, gender, height_cm, weight_kg, bmi, category, tier, created_at
		 FROM reports ORDER BY created_at DESC`)
	if err != nil {
		slog.Error("SQLiteStore.GetReports: query failed", "error", err)
		return nil, fmt.Errorf("failed to query reports: %w", err)
	}
	defer rows.Close()
	return scanReports(rows)
}

func (s *SQLiteStore) GetReportsByUser(ctx context.Context, userID string) ([]models.IntakeReport, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, user_id, name, age, gender, height_cm, weight_kg, bmi, category, tier, created_at
		 FROM reports WHERE user_id = ? ORDER BY created_at DESC`, userID)
	if err != nil {
		slog.Error("SQLiteStore.GetReportsByUser: query failed", "error", err, "user", userID)
		return nil, fmt.Errorf("failed to query reports for %s: %w", userID, err)
	}
	defer rows.Close()
	return scanReports(rows)
}

// ClearReports deletes all stored reports (for tests).
func (s *SQLiteStore) ClearReports() error {
	_, err := s.db.Exec("DELETE FROM reports")
	if err != nil {
		slog.Error("SQLiteStore.ClearReports: delete failed", "error", err)
		return err
	}
	return nil
}

// Close closes the SQLite database connection.
func (s *SQLiteStore) Close() error {
	err := s.db.Close()
	if err != nil {
		slog.Error("SQLiteStore.Close: failed to close database", "error", err)
	}
	return err
}

// Package store provides persistence backends for completed intake reports.
//
// It includes an in-memory store for tests and single-instance deployments,
// plus SQLite and PostgreSQL backends selected by DSN shape.
package store

import (
	"context"
	"strings"
	"sync"

	"github.com/google/uuid"

	"github.com/baria-bot/baria/internal/models"
)

// Store is the report persistence interface shared by all backends.
type Store interface {
	// SaveReport persists one completed intake report.
	SaveReport(ctx context.Context, report models.IntakeReport) error
	// GetReports returns all stored reports, newest first.
	GetReports(ctx context.Context) ([]models.IntakeReport, error)
	// GetReportsByUser returns the reports for one user, newest first.
	GetReportsByUser(ctx context.Context, userID string) ([]models.IntakeReport, error)
	// Close releases backend resources.
	Close() error
}

// Opts holds configuration options for database-backed stores.
type Opts struct {
	DSN string
}

// Option defines a configuration option for database-backed stores.
type Option func(*Opts)

// WithSQLiteDSN sets the SQLite database file path.
func WithSQLiteDSN(dsn string) Option {
	return func(o *Opts) { o.DSN = dsn }
}

// WithPostgresDSN sets the PostgreSQL connection string.
func WithPostgresDSN(dsn string) Option {
	return func(o *Opts) { o.DSN = dsn }
}

// DetectDSNType reports which backend a DSN addresses: "postgres" for
// URL-style or key=value connection strings, "sqlite3" for file paths.
func DetectDSNType(dsn string) string {
	if strings.Contains(dsn, "postgres://") || strings.Contains(dsn, "host=") {
		return "postgres"
	}
	return "sqlite3"
}

// NewFromDSN opens the store matching the DSN shape. An empty DSN yields the
// in-memory store.
func NewFromDSN(dsn string) (Store, error) {
	switch {
	case dsn == "":
		return NewInMemoryStore(), nil
	case DetectDSNType(dsn) == "postgres":
		return NewPostgresStore(WithPostgresDSN(dsn))
	default:
		return NewSQLiteStore(WithSQLiteDSN(dsn))
	}
}

// InMemoryStore keeps reports in a mutex-guarded slice. Contents are lost on
// restart.
type InMemoryStore struct {
	mu      sync.RWMutex
	reports []models.IntakeReport
}

// NewInMemoryStore creates an empty in-memory report store.
func NewInMemoryStore() *InMemoryStore {
	return &InMemoryStore{}
}

func (s *InMemoryStore) SaveReport(ctx context.Context, report models.IntakeReport) error {
	if report.ID == "" {
		report.ID = uuid.NewString()
	}
	s.mu.Lock()
	s.reports = append(s.reports, report)
	s.mu.Unlock()
	return nil
}

func (s *InMemoryStore) GetReports(ctx context.Context) ([]models.IntakeReport, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	reports := make([]models.IntakeReport, 0, len(s.reports))
	// Newest first, matching the database backends.
	for i := len(s.reports) - 1; i >= 0; i-- {
		reports = append(reports, s.reports[i])
	}
	return reports, nil
}

func (s *InMemoryStore) GetReportsByUser(ctx context.Context, userID string) ([]models.IntakeReport, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var reports []models.IntakeReport
	for i := len(s.reports) - 1; i >= 0; i-- {
		if s.reports[i].UserID == userID {
			reports = append(reports, s.reports[i])
		}
	}
	return reports, nil
}

// Close is a no-op for the in-memory store.
func (s *InMemoryStore) Close() error { return nil }

// Package repository implements the domain store on PostgreSQL.
package repository

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"

	"github.com/yourorg/hireloop/internal/domain"
)

// querier is the subset of database/sql shared by *sql.DB and *sql.Tx, so
// every repository works identically inside and outside a transaction.
type querier interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

// Store is the PostgreSQL implementation of domain.Store.
type Store struct {
	db     *sql.DB // nil when the store is bound to a transaction
	q      querier
	logger *slog.Logger
}

// NewStore creates a store over a database handle.
func NewStore(db *sql.DB, logger *slog.Logger) *Store {
	if logger == nil {
		logger = slog.Default()
	}
	return &Store{db: db, q: db, logger: logger}
}

func (s *Store) Tenants() domain.TenantRepository { return &tenantRepository{q: s.q} }
func (s *Store) Users() domain.UserRepository     { return &userRepository{q: s.q} }
func (s *Store) Jobs() domain.JobRepository       { return &jobRepository{q: s.q} }
func (s *Store) Candidates() domain.CandidateRepository {
	return &candidateRepository{q: s.q}
}
func (s *Store) Applications() domain.ApplicationRepository {
	return &applicationRepository{q: s.q}
}
func (s *Store) InterviewSlots() domain.InterviewSlotRepository {
	return &interviewSlotRepository{q: s.q}
}

// WithinTx runs fn against a transaction-bound store. Nested calls reuse the
// surrounding transaction instead of opening a new one.
func (s *Store) WithinTx(ctx context.Context, fn func(domain.Store) error) error {
	if s.db == nil {
		return fn(s)
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}

	txStore := &Store{q: tx, logger: s.logger}
	if err := fn(txStore); err != nil {
		if rbErr := tx.Rollback(); rbErr != nil {
			s.logger.Error("transaction rollback failed", slog.String("error", rbErr.Error()))
		}
		return err
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}
	return nil
}

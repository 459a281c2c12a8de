// Package numerator provides the PostgreSQL implementation of document
// auto-numbering. It implements core/numerator.Generator.
package numerator

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"

	corenumerator "github.com/AzizBrinis/invoice-app-sub003/internal/core/numerator"
	"github.com/AzizBrinis/invoice-app-sub003/internal/infrastructure/storage/postgres"
)

// Querier interface for database operations.
type Querier interface {
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

// Service allocates document numbers from sys_sequences.
//
// The counter bump is one UPSERT with RETURNING and runs against the caller's
// active transaction when there is one: the allocation commits or rolls back
// with the document it numbers. Concurrent callers on the same key serialize
// on the counter row; numbers never repeat, though aborted transactions leave
// gaps.
type Service struct {
	txManager *postgres.TxManager

	// staticQuerier bypasses the tx manager; used by tests
	staticQuerier Querier
}

// Ensure compile-time interface compliance.
var _ corenumerator.Generator = (*Service)(nil)

// New creates a numerator service bound to the transaction manager.
func New(txManager *postgres.TxManager) *Service {
	return &Service{txManager: txManager}
}

// NewWithQuerier creates a numerator service with a fixed querier.
func NewWithQuerier(querier Querier) *Service {
	return &Service{staticQuerier: querier}
}

func (s *Service) getQuerier(ctx context.Context) Querier {
	if s.staticQuerier != nil {
		return s.staticQuerier
	}
	return s.txManager.GetQuerier(ctx)
}

// NextNumber allocates and formats the next document number.
// Pattern: PREFIX-YEAR-NNNN (e.g., FAC-2025-0001), PREFIX-NNNN without
// annual reset.
func (s *Service) NextNumber(ctx context.Context, cfg corenumerator.Config, period time.Time) (string, error) {
	if s == nil {
		return "", fmt.Errorf("numerator service is not initialized")
	}

	querier := s.getQuerier(ctx)

	var counter int64
	err := querier.QueryRow(ctx, `
        INSERT INTO sys_sequences (owner_id, document_type, period_year, prefix, counter)
        VALUES ($1, $2, $3, $4, 1)
        ON CONFLICT (owner_id, document_type, period_year)
        DO UPDATE SET counter = sys_sequences.counter + 1, prefix = EXCLUDED.prefix
        RETURNING counter
	`, cfg.OwnerID, cfg.DocumentType, cfg.PeriodYear(period), cfg.Prefix).Scan(&counter)
	if err != nil {
		return "", fmt.Errorf("next number: %w", err)
	}

	return cfg.Format(period, counter), nil
}

// SetNextCounter sets the counter value (for migration purposes). The next
// allocation returns value+1.
func (s *Service) SetNextCounter(ctx context.Context, cfg corenumerator.Config, period time.Time, value int64) error {
	querier := s.getQuerier(ctx)

	var result int64
	err := querier.QueryRow(ctx, `
		INSERT INTO sys_sequences (owner_id, document_type, period_year, prefix, counter)
		VALUES ($1, $2, $3, $4, $5)
		ON CONFLICT (owner_id, document_type, period_year)
		DO UPDATE SET counter = $5, prefix = EXCLUDED.prefix
		RETURNING counter
	`, cfg.OwnerID, cfg.DocumentType, cfg.PeriodYear(period), cfg.Prefix, value).Scan(&result)
	if err != nil {
		return fmt.Errorf("set counter: %w", err)
	}

	return nil
}

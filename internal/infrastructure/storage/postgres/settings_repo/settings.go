// Package settings_repo provides PostgreSQL storage for billing settings.
package settings_repo

import (
	"context"
	"fmt"
	"strings"

	"github.com/Masterminds/squirrel"
	"github.com/georgysavva/scany/v2/pgxscan"

	"github.com/AzizBrinis/invoice-app-sub003/internal/core/id"
	"github.com/AzizBrinis/invoice-app-sub003/internal/domain/settings"
	"github.com/AzizBrinis/invoice-app-sub003/internal/infrastructure/storage/postgres"
)

const settingsTable = "billing_settings"

// Compile-time check that Repo implements settings.Repository.
var _ settings.Repository = (*Repo)(nil)

// Repo stores one settings row per owner.
type Repo struct {
	txManager *postgres.TxManager
	cols      []string
}

// NewRepo creates the settings repository.
func NewRepo(txManager *postgres.TxManager) *Repo {
	return &Repo{
		txManager: txManager,
		cols:      postgres.ExtractDBColumns[settings.BillingSettings](),
	}
}

func (r *Repo) builder() squirrel.StatementBuilderType {
	return squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar)
}

// GetByOwner returns the owner's settings, or defaults when none are stored
// yet. A missing row is not an error: every owner has an effective
// configuration from day one.
func (r *Repo) GetByOwner(ctx context.Context, ownerID id.ID) (*settings.BillingSettings, error) {
	q := r.builder().
		Select(r.cols...).
		From(settingsTable).
		Where(squirrel.Eq{"owner_id": ownerID})

	sql, args, err := q.ToSql()
	if err != nil {
		return nil, fmt.Errorf("build query: %w", err)
	}

	s := &settings.BillingSettings{}
	querier := r.txManager.GetQuerier(ctx)
	if err := pgxscan.Get(ctx, querier, s, sql, args...); err != nil {
		if pgxscan.NotFound(err) {
			return settings.Defaults(ownerID), nil
		}
		return nil, fmt.Errorf("get settings: %w", err)
	}

	return s, nil
}

// Save upserts the owner's settings.
func (r *Repo) Save(ctx context.Context, s *settings.BillingSettings) error {
	data := postgres.StructToMap(s)

	insertCols := make([]string, 0, len(r.cols))
	insertVals := make([]any, 0, len(r.cols))
	updates := make([]string, 0, len(r.cols))
	for _, col := range r.cols {
		val, ok := data[col]
		if !ok {
			continue
		}
		insertCols = append(insertCols, col)
		insertVals = append(insertVals, val)
		if col != "owner_id" {
			updates = append(updates, col+" = EXCLUDED."+col)
		}
	}

	q := r.builder().
		Insert(settingsTable).
		Columns(insertCols...).
		Values(insertVals...).
		Suffix("ON CONFLICT (owner_id) DO UPDATE SET " + strings.Join(updates, ", "))

	sql, args, err := q.ToSql()
	if err != nil {
		return fmt.Errorf("build upsert: %w", err)
	}

	querier := r.txManager.GetQuerier(ctx)
	if _, err := querier.Exec(ctx, sql, args...); err != nil {
		return fmt.Errorf("save settings: %w", err)
	}

	return nil
}

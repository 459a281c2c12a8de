package document_repo

import (
	"context"

	"github.com/Masterminds/squirrel"

	"github.com/AzizBrinis/invoice-app-sub003/internal/core/id"
	"github.com/AzizBrinis/invoice-app-sub003/internal/domain"
	"github.com/AzizBrinis/invoice-app-sub003/internal/domain/documents/invoice"
	"github.com/AzizBrinis/invoice-app-sub003/internal/domain/documents/quote"
	"github.com/AzizBrinis/invoice-app-sub003/internal/infrastructure/storage/postgres"
)

const (
	quotesTable     = "doc_quotes"
	quoteLinesTable = "doc_quote_lines"
)

// QuoteRepo implements quote.Repository.
type QuoteRepo struct {
	*BaseDocumentRepo[*quote.Quote]
}

// NewQuoteRepo creates a new quote repository.
func NewQuoteRepo(txm *postgres.TxManager) *QuoteRepo {
	return &QuoteRepo{
		BaseDocumentRepo: NewBaseDocumentRepo(
			txm,
			quotesTable,
			postgres.ExtractDBColumns[quote.Quote](),
			func() *quote.Quote { return &quote.Quote{} },
		),
	}
}

// GetLines retrieves lines for a quote.
func (r *QuoteRepo) GetLines(ctx context.Context, docID id.ID) ([]invoice.Line, error) {
	return getDocumentLines(ctx, r.BaseDocumentRepo.Builder(), r.querier(ctx), quoteLinesTable, docID)
}

// SaveLines saves lines for a quote (delete existing + insert new).
func (r *QuoteRepo) SaveLines(ctx context.Context, docID id.ID, lines []invoice.Line) error {
	return saveDocumentLines(ctx, r.BaseDocumentRepo.Builder(), r.querier(ctx), quoteLinesTable, docID, lines)
}

// List retrieves quotes with filtering.
func (r *QuoteRepo) List(ctx context.Context, filter quote.ListFilter) (domain.ListResult[*quote.Quote], error) {
	q := r.baseSelect()

	if !id.IsNil(filter.OwnerID) {
		q = q.Where(squirrel.Eq{"owner_id": filter.OwnerID})
	}
	if filter.ClientID != nil {
		q = q.Where(squirrel.Eq{"client_id": *filter.ClientID})
	}
	if filter.ExpiresAfter != nil {
		q = q.Where(squirrel.GtOrEq{"valid_until": *filter.ExpiresAfter})
	}

	q = r.applyCommonFilter(q, filter.ListFilter)

	return r.finishList(ctx, q, filter.ListFilter)
}

package document_repo

import (
	"context"
	"fmt"

	"github.com/Masterminds/squirrel"
	"github.com/georgysavva/scany/v2/pgxscan"

	"github.com/AzizBrinis/invoice-app-sub003/internal/core/id"
	"github.com/AzizBrinis/invoice-app-sub003/internal/domain"
	"github.com/AzizBrinis/invoice-app-sub003/internal/domain/documents/invoice"
	"github.com/AzizBrinis/invoice-app-sub003/internal/infrastructure/storage/postgres"
)

const (
	invoicesTable     = "doc_invoices"
	invoiceLinesTable = "doc_invoice_lines"
)

var lineColumns = []string{
	"line_id", "line_no", "description",
	"quantity", "unit_price", "vat_rate",
	"discount_amount", "global_discount_share", "net_amount",
	"surcharge_rate", "surcharge_amount", "vat_amount", "gross_amount",
}

// InvoiceRepo implements invoice.Repository.
type InvoiceRepo struct {
	*BaseDocumentRepo[*invoice.Invoice]
}

// NewInvoiceRepo creates a new invoice repository.
func NewInvoiceRepo(txm *postgres.TxManager) *InvoiceRepo {
	return &InvoiceRepo{
		BaseDocumentRepo: NewBaseDocumentRepo(
			txm,
			invoicesTable,
			postgres.ExtractDBColumns[invoice.Invoice](),
			func() *invoice.Invoice { return &invoice.Invoice{} },
		),
	}
}

// GetLines retrieves lines for an invoice.
func (r *InvoiceRepo) GetLines(ctx context.Context, docID id.ID) ([]invoice.Line, error) {
	return getDocumentLines(ctx, r.BaseDocumentRepo.Builder(), r.querier(ctx), invoiceLinesTable, docID)
}

// SaveLines saves lines for an invoice (delete existing + insert new).
func (r *InvoiceRepo) SaveLines(ctx context.Context, docID id.ID, lines []invoice.Line) error {
	return saveDocumentLines(ctx, r.BaseDocumentRepo.Builder(), r.querier(ctx), invoiceLinesTable, docID, lines)
}

// List retrieves invoices with filtering.
func (r *InvoiceRepo) List(ctx context.Context, filter invoice.ListFilter) (domain.ListResult[*invoice.Invoice], error) {
	q := r.baseSelect()

	if !id.IsNil(filter.OwnerID) {
		q = q.Where(squirrel.Eq{"owner_id": filter.OwnerID})
	}
	if filter.ClientID != nil {
		q = q.Where(squirrel.Eq{"client_id": *filter.ClientID})
	}
	if filter.DueBefore != nil {
		q = q.Where(squirrel.Lt{"due_date": *filter.DueBefore})
	}

	q = r.applyCommonFilter(q, filter.ListFilter)

	return r.finishList(ctx, q, filter.ListFilter)
}

// getDocumentLines loads the ordered line table part. Invoice and quote lines
// share one shape and one loader.
func getDocumentLines(ctx context.Context, builder squirrel.StatementBuilderType, querier postgres.Querier, table string, docID id.ID) ([]invoice.Line, error) {
	q := builder.
		Select(lineColumns...).
		From(table).
		Where(squirrel.Eq{"document_id": docID}).
		OrderBy("line_no")

	sql, args, err := q.ToSql()
	if err != nil {
		return nil, fmt.Errorf("build query: %w", err)
	}

	var lines []invoice.Line
	if err := pgxscan.Select(ctx, querier, &lines, sql, args...); err != nil {
		return nil, fmt.Errorf("get lines: %w", err)
	}

	return lines, nil
}

// saveDocumentLines replaces the line table part (delete existing + insert new).
func saveDocumentLines(ctx context.Context, builder squirrel.StatementBuilderType, querier postgres.Querier, table string, docID id.ID, lines []invoice.Line) error {
	deleteSQL := "DELETE FROM " + table + " WHERE document_id = $1"
	if _, err := querier.Exec(ctx, deleteSQL, docID); err != nil {
		return fmt.Errorf("delete existing lines: %w", err)
	}

	if len(lines) == 0 {
		return nil
	}

	cols := append([]string{"document_id"}, lineColumns...)
	q := builder.Insert(table).Columns(cols...)

	for _, line := range lines {
		q = q.Values(
			docID,
			line.LineID, line.LineNo, line.Description,
			line.Quantity, line.UnitPrice, line.VATRate,
			line.DiscountAmount, line.GlobalDiscountShare, line.NetAmount,
			line.SurchargeRate, line.SurchargeAmount, line.VATAmount, line.GrossAmount,
		)
	}

	sql, args, err := q.ToSql()
	if err != nil {
		return fmt.Errorf("build insert lines: %w", err)
	}

	if _, err := querier.Exec(ctx, sql, args...); err != nil {
		return fmt.Errorf("insert lines: %w", err)
	}

	return nil
}

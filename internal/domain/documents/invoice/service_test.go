package invoice

import (
	"context"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/AzizBrinis/invoice-app-sub003/internal/core/apperror"
	appctx "github.com/AzizBrinis/invoice-app-sub003/internal/core/context"
	"github.com/AzizBrinis/invoice-app-sub003/internal/core/entity"
	"github.com/AzizBrinis/invoice-app-sub003/internal/core/id"
	"github.com/AzizBrinis/invoice-app-sub003/internal/core/numerator"
	"github.com/AzizBrinis/invoice-app-sub003/internal/core/types"
	"github.com/AzizBrinis/invoice-app-sub003/internal/domain"
	"github.com/AzizBrinis/invoice-app-sub003/internal/domain/audit"
	"github.com/AzizBrinis/invoice-app-sub003/internal/domain/documents/lifecycle"
	"github.com/AzizBrinis/invoice-app-sub003/internal/domain/settings"
)

type passthroughTxManager struct{}

func (passthroughTxManager) RunInTransaction(ctx context.Context, fn func(ctx context.Context) error) error {
	return fn(ctx)
}

// memRepo is an in-memory Repository for service tests.
type memRepo struct {
	docs  map[id.ID]*Invoice
	lines map[id.ID][]Line
}

func newMemRepo() *memRepo {
	return &memRepo{
		docs:  make(map[id.ID]*Invoice),
		lines: make(map[id.ID][]Line),
	}
}

func (r *memRepo) Create(ctx context.Context, doc *Invoice) error {
	clone := *doc
	r.docs[doc.ID] = &clone
	return nil
}

func (r *memRepo) GetByID(ctx context.Context, docID id.ID) (*Invoice, error) {
	doc, ok := r.docs[docID]
	if !ok {
		return nil, apperror.NewNotFound("invoice", docID.String())
	}
	clone := *doc
	return &clone, nil
}

func (r *memRepo) GetByNumber(ctx context.Context, ownerID id.ID, number string) (*Invoice, error) {
	for _, doc := range r.docs {
		if doc.OwnerID == ownerID && doc.Number == number {
			clone := *doc
			return &clone, nil
		}
	}
	return nil, apperror.NewNotFound("invoice", number)
}

func (r *memRepo) Update(ctx context.Context, doc *Invoice) error {
	if _, ok := r.docs[doc.ID]; !ok {
		return apperror.NewNotFound("invoice", doc.ID.String())
	}
	clone := *doc
	r.docs[doc.ID] = &clone
	return nil
}

func (r *memRepo) HardDelete(ctx context.Context, docID id.ID) error {
	if _, ok := r.docs[docID]; !ok {
		return apperror.NewNotFound("invoice", docID.String())
	}
	delete(r.docs, docID)
	delete(r.lines, docID)
	return nil
}

func (r *memRepo) SetStatus(ctx context.Context, docID id.ID, status entity.Status) error {
	doc, ok := r.docs[docID]
	if !ok {
		return apperror.NewNotFound("invoice", docID.String())
	}
	doc.Status = status
	doc.Touch()
	return nil
}

func (r *memRepo) GetLines(ctx context.Context, docID id.ID) ([]Line, error) {
	return r.lines[docID], nil
}

func (r *memRepo) SaveLines(ctx context.Context, docID id.ID, lines []Line) error {
	r.lines[docID] = lines
	return nil
}

func (r *memRepo) List(ctx context.Context, filter ListFilter) (domain.ListResult[*Invoice], error) {
	var items []*Invoice
	for _, doc := range r.docs {
		if doc.OwnerID != filter.OwnerID {
			continue
		}
		if doc.Status == entity.StatusCancelled && !filter.IncludeCancelled {
			continue
		}
		clone := *doc
		items = append(items, &clone)
	}
	return domain.ListResult[*Invoice]{Items: items, TotalCount: int64(len(items))}, nil
}

func (r *memRepo) GetForUpdate(ctx context.Context, docID id.ID) (*Invoice, error) {
	return r.GetByID(ctx, docID)
}

type fakeSettingsRepo struct {
	byOwner map[id.ID]*settings.BillingSettings
}

func (f *fakeSettingsRepo) GetByOwner(ctx context.Context, ownerID id.ID) (*settings.BillingSettings, error) {
	if s, ok := f.byOwner[ownerID]; ok {
		return s, nil
	}
	return settings.Defaults(ownerID), nil
}

func (f *fakeSettingsRepo) Save(ctx context.Context, s *settings.BillingSettings) error {
	if f.byOwner == nil {
		f.byOwner = make(map[id.ID]*settings.BillingSettings)
	}
	f.byOwner[s.OwnerID] = s
	return nil
}

type recordingAuditRepo struct {
	entries []*audit.Entry
}

func (r *recordingAuditRepo) Append(ctx context.Context, entry *audit.Entry) error {
	r.entries = append(r.entries, entry)
	return nil
}

func (r *recordingAuditRepo) ListByDocument(ctx context.Context, documentID id.ID) ([]audit.Entry, error) {
	var out []audit.Entry
	for _, e := range r.entries {
		if e.DocumentID == documentID {
			out = append(out, *e)
		}
	}
	return out, nil
}

type testEnv struct {
	svc       *Service
	repo      *memRepo
	settings  *fakeSettingsRepo
	auditRepo *recordingAuditRepo
	ownerID   id.ID
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	repo := newMemRepo()
	settingsRepo := &fakeSettingsRepo{byOwner: make(map[id.ID]*settings.BillingSettings)}
	auditRepo := &recordingAuditRepo{}

	lifecycleSvc := lifecycle.NewService(NewLifecycleStore(repo), auditRepo, passthroughTxManager{})
	svc := NewService(repo, settingsRepo, &numerator.MockGenerator{}, passthroughTxManager{}, lifecycleSvc)

	return &testEnv{
		svc:       svc,
		repo:      repo,
		settings:  settingsRepo,
		auditRepo: auditRepo,
		ownerID:   id.New(),
	}
}

func dec(v string) decimal.Decimal {
	d, err := decimal.NewFromString(v)
	if err != nil {
		panic(err)
	}
	return d
}

func (e *testEnv) createInput(lines ...LineSpec) CreateInput {
	return CreateInput{
		OwnerID:  e.ownerID,
		ClientID: id.New(),
		Date:     time.Date(2026, 3, 10, 0, 0, 0, 0, time.UTC),
		Lines:    lines,
	}
}

func simpleLine() LineSpec {
	rate := dec("20")
	return LineSpec{
		Description: "Consulting",
		Quantity:    dec("2"),
		UnitPrice:   10000,
		VATRate:     &rate,
	}
}

func TestCreate_ComputesAndNumbers(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	doc, err := env.svc.Create(ctx, env.createInput(simpleLine()))
	require.NoError(t, err)

	assert.Equal(t, "FAC-2026-0001", doc.Number)
	assert.Equal(t, entity.StatusDraft, doc.Status)
	assert.Equal(t, "TND", doc.Currency)
	assert.Equal(t, types.MinorUnits(20000), doc.SubtotalNet)
	assert.Equal(t, types.MinorUnits(4000), doc.TotalVAT)
	assert.Equal(t, types.MinorUnits(24000), doc.TotalGross)

	require.Len(t, doc.Lines, 1)
	assert.Equal(t, 1, doc.Lines[0].LineNo)
	assert.Equal(t, "Consulting", doc.Lines[0].Description)

	// Persisted with its lines.
	stored, err := env.svc.GetByID(ctx, doc.ID)
	require.NoError(t, err)
	assert.Equal(t, doc.Number, stored.Number)
	require.Len(t, stored.Lines, 1)
}

func TestCreate_SequentialNumbers(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	first, err := env.svc.Create(ctx, env.createInput(simpleLine()))
	require.NoError(t, err)
	second, err := env.svc.Create(ctx, env.createInput(simpleLine()))
	require.NoError(t, err)

	assert.Equal(t, "FAC-2026-0001", first.Number)
	assert.Equal(t, "FAC-2026-0002", second.Number)
}

func TestCreate_DefaultVATRateFallback(t *testing.T) {
	env := newTestEnv(t)

	// No per-line rate: the owner default (19%) applies.
	doc, err := env.svc.Create(context.Background(), env.createInput(LineSpec{
		Description: "Hosting",
		Quantity:    dec("1"),
		UnitPrice:   10000,
	}))
	require.NoError(t, err)

	assert.Equal(t, types.MinorUnits(1900), doc.TotalVAT)
	assert.True(t, doc.Lines[0].VATRate.Equal(dec("19")))
}

func TestCreate_MissingClientRejected(t *testing.T) {
	env := newTestEnv(t)

	in := env.createInput(simpleLine())
	in.ClientID = id.Nil()

	_, err := env.svc.Create(context.Background(), in)
	require.Error(t, err)

	var appErr *apperror.AppError
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, apperror.CodeValidation, appErr.Code)
	assert.Empty(t, env.repo.docs, "nothing persisted on validation failure")
}

func TestCreate_GlobalDiscountAllocatedToLines(t *testing.T) {
	env := newTestEnv(t)

	rate := dec("19")
	discount := dec("10")
	in := env.createInput(
		LineSpec{Description: "A", Quantity: dec("1"), UnitPrice: 30000, VATRate: &rate},
		LineSpec{Description: "B", Quantity: dec("1"), UnitPrice: 70000, VATRate: &rate},
	)
	in.GlobalDiscountRate = &discount

	doc, err := env.svc.Create(context.Background(), in)
	require.NoError(t, err)

	assert.Equal(t, types.MinorUnits(10000), doc.GlobalDiscountApplied)
	assert.Equal(t, types.MinorUnits(3000), doc.Lines[0].GlobalDiscountShare)
	assert.Equal(t, types.MinorUnits(7000), doc.Lines[1].GlobalDiscountShare)
	assert.Equal(t, doc.GlobalDiscountApplied,
		doc.Lines[0].GlobalDiscountShare+doc.Lines[1].GlobalDiscountShare)
}

func TestUpdate_RecomputesDraft(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	doc, err := env.svc.Create(ctx, env.createInput(simpleLine()))
	require.NoError(t, err)

	rate := dec("20")
	updated, err := env.svc.Update(ctx, doc.ID, UpdateInput{
		ClientID: doc.ClientID,
		Date:     doc.Date,
		Lines: []LineSpec{{
			Description: "Consulting, extended",
			Quantity:    dec("3"),
			UnitPrice:   10000,
			VATRate:     &rate,
		}},
		Version: doc.Version,
	})
	require.NoError(t, err)

	assert.Equal(t, types.MinorUnits(30000), updated.SubtotalNet)
	assert.Equal(t, types.MinorUnits(36000), updated.TotalGross)
	assert.Equal(t, doc.Version+1, updated.Version)
	// The number never changes on update.
	assert.Equal(t, doc.Number, updated.Number)
}

func TestUpdate_VersionMismatch(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	doc, err := env.svc.Create(ctx, env.createInput(simpleLine()))
	require.NoError(t, err)

	_, err = env.svc.Update(ctx, doc.ID, UpdateInput{
		ClientID: doc.ClientID,
		Lines:    []LineSpec{simpleLine()},
		Version:  doc.Version + 7,
	})
	require.Error(t, err)

	var appErr *apperror.AppError
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, apperror.CodeConcurrentModification, appErr.Code)
}

func TestUpdate_SentDocumentRefused(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	doc, err := env.svc.Create(ctx, env.createInput(simpleLine()))
	require.NoError(t, err)
	_, err = env.svc.Send(ctx, doc.ID)
	require.NoError(t, err)

	_, err = env.svc.Update(ctx, doc.ID, UpdateInput{
		ClientID: doc.ClientID,
		Lines:    []LineSpec{simpleLine()},
	})
	require.Error(t, err)

	var appErr *apperror.AppError
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, apperror.CodeDocumentNotDraft, appErr.Code)

	// Totals stayed frozen.
	stored, err := env.svc.GetByID(ctx, doc.ID)
	require.NoError(t, err)
	assert.Equal(t, doc.TotalGross, stored.TotalGross)
}

func TestSend_TransitionsDraft(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	doc, err := env.svc.Create(ctx, env.createInput(simpleLine()))
	require.NoError(t, err)

	sent, err := env.svc.Send(ctx, doc.ID)
	require.NoError(t, err)
	assert.Equal(t, entity.StatusSent, sent.Status)

	// Resending is not a valid transition.
	_, err = env.svc.Send(ctx, doc.ID)
	assert.Error(t, err)
}

func TestRegisterPayment_DerivesStatus(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	doc, err := env.svc.Create(ctx, env.createInput(simpleLine()))
	require.NoError(t, err)
	_, err = env.svc.Send(ctx, doc.ID)
	require.NoError(t, err)

	partial, err := env.svc.RegisterPayment(ctx, doc.ID, 10000)
	require.NoError(t, err)
	assert.Equal(t, entity.StatusPartial, partial.Status)
	assert.Equal(t, types.MinorUnits(10000), partial.PaidAmount)

	paid, err := env.svc.RegisterPayment(ctx, doc.ID, 14000)
	require.NoError(t, err)
	assert.Equal(t, entity.StatusPaid, paid.Status)
	assert.Equal(t, types.MinorUnits(24000), paid.PaidAmount)
}

func TestRegisterPayment_DraftRejected(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	doc, err := env.svc.Create(ctx, env.createInput(simpleLine()))
	require.NoError(t, err)

	_, err = env.svc.RegisterPayment(ctx, doc.ID, 1000)
	require.Error(t, err)

	var appErr *apperror.AppError
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, apperror.CodeInvalidTransition, appErr.Code)
}

func TestMarkOverdue(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	doc, err := env.svc.Create(ctx, env.createInput(simpleLine()))
	require.NoError(t, err)
	_, err = env.svc.Send(ctx, doc.ID)
	require.NoError(t, err)

	overdue, err := env.svc.MarkOverdue(ctx, doc.ID)
	require.NoError(t, err)
	assert.Equal(t, entity.StatusOverdue, overdue.Status)

	// A payment still settles an overdue invoice.
	paid, err := env.svc.RegisterPayment(ctx, doc.ID, 24000)
	require.NoError(t, err)
	assert.Equal(t, entity.StatusPaid, paid.Status)
}

func TestDelete_DraftRemovedSentCancelled(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	draft, err := env.svc.Create(ctx, env.createInput(simpleLine()))
	require.NoError(t, err)

	outcome, err := env.svc.Delete(ctx, draft.ID)
	require.NoError(t, err)
	assert.Equal(t, lifecycle.OutcomeDeleted, outcome)
	assert.NotContains(t, env.repo.docs, draft.ID)

	sent, err := env.svc.Create(ctx, env.createInput(simpleLine()))
	require.NoError(t, err)
	_, err = env.svc.Send(ctx, sent.ID)
	require.NoError(t, err)

	outcome, err = env.svc.Delete(ctx, sent.ID)
	require.NoError(t, err)
	assert.Equal(t, lifecycle.OutcomeCancelled, outcome)

	outcome, err = env.svc.Delete(ctx, sent.ID)
	require.NoError(t, err)
	assert.Equal(t, lifecycle.OutcomeAlreadyCancelled, outcome)

	// The cancelled row survives, and each request left an audit entry.
	stored, err := env.svc.GetByID(ctx, sent.ID)
	require.NoError(t, err)
	assert.Equal(t, entity.StatusCancelled, stored.Status)

	trail, err := env.auditRepo.ListByDocument(ctx, sent.ID)
	require.NoError(t, err)
	assert.Len(t, trail, 2)
}

func TestList_ExcludesCancelledByDefault(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	kept, err := env.svc.Create(ctx, env.createInput(simpleLine()))
	require.NoError(t, err)

	cancelled, err := env.svc.Create(ctx, env.createInput(simpleLine()))
	require.NoError(t, err)
	_, err = env.svc.Send(ctx, cancelled.ID)
	require.NoError(t, err)
	_, err = env.svc.Delete(ctx, cancelled.ID)
	require.NoError(t, err)

	res, err := env.svc.List(ctx, ListFilter{OwnerID: env.ownerID})
	require.NoError(t, err)
	require.Len(t, res.Items, 1)
	assert.Equal(t, kept.ID, res.Items[0].ID)

	all, err := env.svc.List(ctx, ListFilter{
		ListFilter: domain.ListFilter{IncludeCancelled: true},
		OwnerID:    env.ownerID,
	})
	require.NoError(t, err)
	assert.Len(t, all.Items, 2)
}

func TestCreate_LineSurchargeOptOut(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	cfg := settings.Defaults(env.ownerID)
	cfg.SurchargeEnabled = true
	cfg.SurchargeRate = dec("1")
	require.NoError(t, env.settings.Save(ctx, cfg))

	in := env.createInput(simpleLine(), simpleLine())
	in.Lines[1].ApplySurcharge = true

	doc, err := env.svc.Create(ctx, in)
	require.NoError(t, err)

	// Only the opted-in line carries the surcharge.
	require.Len(t, doc.Lines, 2)
	assert.Equal(t, types.MinorUnits(0), doc.Lines[0].SurchargeAmount)
	assert.Equal(t, types.MinorUnits(200), doc.Lines[1].SurchargeAmount)
	assert.Equal(t, types.MinorUnits(200), doc.SurchargeAmount)
}

func TestCrossOwnerAccessReadsAsNotFound(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	doc, err := env.svc.Create(ctx, env.createInput(simpleLine()))
	require.NoError(t, err)

	stranger := appctx.WithUser(ctx, &appctx.UserContext{
		UserID:  id.New().String(),
		OwnerID: id.New().String(),
	})

	requireNotFound := func(t *testing.T, err error) {
		t.Helper()
		var appErr *apperror.AppError
		require.ErrorAs(t, err, &appErr)
		assert.Equal(t, apperror.CodeNotFound, appErr.Code)
	}

	_, err = env.svc.GetByID(stranger, doc.ID)
	requireNotFound(t, err)

	_, err = env.svc.Update(stranger, doc.ID, UpdateInput{
		ClientID: doc.ClientID,
		Lines:    []LineSpec{simpleLine()},
	})
	requireNotFound(t, err)

	_, err = env.svc.Delete(stranger, doc.ID)
	requireNotFound(t, err)

	_, err = env.svc.Send(stranger, doc.ID)
	requireNotFound(t, err)

	// The owner's own context passes.
	owner := appctx.WithUser(ctx, &appctx.UserContext{OwnerID: env.ownerID.String()})
	got, err := env.svc.GetByID(owner, doc.ID)
	require.NoError(t, err)
	assert.Equal(t, doc.ID, got.ID)
}

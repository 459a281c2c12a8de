package handlers

import (
	"time"

	"github.com/gin-gonic/gin"

	"github.com/AzizBrinis/invoice-app-sub003/internal/core/id"
	"github.com/AzizBrinis/invoice-app-sub003/internal/core/types"
	"github.com/AzizBrinis/invoice-app-sub003/internal/domain/audit"
	"github.com/AzizBrinis/invoice-app-sub003/internal/domain/documents/invoice"
	"github.com/AzizBrinis/invoice-app-sub003/internal/infrastructure/http/v1/dto"
)

// InvoiceHandler handles HTTP requests for invoice documents.
type InvoiceHandler struct {
	*BaseHandler
	service   *invoice.Service
	auditRepo audit.Repository
}

// NewInvoiceHandler creates a new invoice handler.
func NewInvoiceHandler(base *BaseHandler, service *invoice.Service, auditRepo audit.Repository) *InvoiceHandler {
	return &InvoiceHandler{
		BaseHandler: base,
		service:     service,
		auditRepo:   auditRepo,
	}
}

// Create handles POST /invoices.
func (h *InvoiceHandler) Create(c *gin.Context) {
	ownerID, ok := h.OwnerID(c)
	if !ok {
		return
	}

	var req dto.CreateInvoiceRequest
	if !h.BindJSON(c, &req) {
		return
	}

	in, err := req.ToInput(ownerID)
	if err != nil {
		h.Error(c, err)
		return
	}

	doc, err := h.service.Create(c.Request.Context(), in)
	if err != nil {
		h.Error(c, err)
		return
	}

	h.Created(c, doc)
}

// Get handles GET /invoices/:id.
func (h *InvoiceHandler) Get(c *gin.Context) {
	docID, ok := h.ParseIDParam(c)
	if !ok {
		return
	}

	doc, err := h.service.GetByID(c.Request.Context(), docID)
	if err != nil {
		h.Error(c, err)
		return
	}

	h.OK(c, doc)
}

// Update handles PUT /invoices/:id. Draft only; totals recompute.
func (h *InvoiceHandler) Update(c *gin.Context) {
	docID, ok := h.ParseIDParam(c)
	if !ok {
		return
	}

	var req dto.UpdateInvoiceRequest
	if !h.BindJSON(c, &req) {
		return
	}

	in, err := req.ToInput()
	if err != nil {
		h.Error(c, err)
		return
	}

	doc, err := h.service.Update(c.Request.Context(), docID, in)
	if err != nil {
		h.Error(c, err)
		return
	}

	h.OK(c, doc)
}

// Delete handles DELETE /invoices/:id. The response reports whether the
// document was removed, cancelled, or already cancelled.
func (h *InvoiceHandler) Delete(c *gin.Context) {
	docID, ok := h.ParseIDParam(c)
	if !ok {
		return
	}

	outcome, err := h.service.Delete(c.Request.Context(), docID)
	if err != nil {
		h.Error(c, err)
		return
	}

	h.OK(c, dto.DeleteResponse{Outcome: string(outcome)})
}

// Send handles POST /invoices/:id/send.
func (h *InvoiceHandler) Send(c *gin.Context) {
	docID, ok := h.ParseIDParam(c)
	if !ok {
		return
	}

	doc, err := h.service.Send(c.Request.Context(), docID)
	if err != nil {
		h.Error(c, err)
		return
	}

	h.OK(c, doc)
}

// RegisterPayment handles POST /invoices/:id/payments.
func (h *InvoiceHandler) RegisterPayment(c *gin.Context) {
	docID, ok := h.ParseIDParam(c)
	if !ok {
		return
	}

	var req dto.PaymentRequest
	if !h.BindJSON(c, &req) {
		return
	}

	doc, err := h.service.RegisterPayment(c.Request.Context(), docID, types.MinorUnits(req.Amount))
	if err != nil {
		h.Error(c, err)
		return
	}

	h.OK(c, doc)
}

// List handles GET /invoices.
func (h *InvoiceHandler) List(c *gin.Context) {
	ownerID, ok := h.OwnerID(c)
	if !ok {
		return
	}

	var query dto.ListQuery
	if !h.BindQuery(c, &query) {
		return
	}

	base, err := query.ToFilter()
	if err != nil {
		h.Error(c, err)
		return
	}

	filter := invoice.ListFilter{
		ListFilter: base,
		OwnerID:    ownerID,
	}
	if raw := c.Query("clientId"); raw != "" {
		clientID, err := id.Parse(raw)
		if err == nil {
			filter.ClientID = &clientID
		}
	}
	if raw := c.Query("dueBefore"); raw != "" {
		if t, err := time.Parse("2006-01-02", raw); err == nil {
			filter.DueBefore = &t
		}
	}

	result, err := h.service.List(c.Request.Context(), filter)
	if err != nil {
		h.Error(c, err)
		return
	}

	h.OK(c, dto.ListResponse{
		Items:      result.Items,
		TotalCount: result.TotalCount,
		Limit:      result.Limit,
		Offset:     result.Offset,
	})
}

// AuditTrail handles GET /invoices/:id/audit. Entries outlive the document
// row, so this endpoint answers even after a draft deletion.
func (h *InvoiceHandler) AuditTrail(c *gin.Context) {
	docID, ok := h.ParseIDParam(c)
	if !ok {
		return
	}

	entries, err := h.auditRepo.ListByDocument(c.Request.Context(), docID)
	if err != nil {
		h.Error(c, err)
		return
	}

	h.OK(c, gin.H{"items": entries})
}

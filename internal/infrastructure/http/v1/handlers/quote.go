package handlers

import (
	"time"

	"github.com/gin-gonic/gin"

	"github.com/AzizBrinis/invoice-app-sub003/internal/core/id"
	"github.com/AzizBrinis/invoice-app-sub003/internal/domain/audit"
	"github.com/AzizBrinis/invoice-app-sub003/internal/domain/documents/quote"
	"github.com/AzizBrinis/invoice-app-sub003/internal/infrastructure/http/v1/dto"
)

// QuoteHandler handles HTTP requests for quote documents.
type QuoteHandler struct {
	*BaseHandler
	service   *quote.Service
	auditRepo audit.Repository
}

// NewQuoteHandler creates a new quote handler.
func NewQuoteHandler(base *BaseHandler, service *quote.Service, auditRepo audit.Repository) *QuoteHandler {
	return &QuoteHandler{
		BaseHandler: base,
		service:     service,
		auditRepo:   auditRepo,
	}
}

// Create handles POST /quotes.
func (h *QuoteHandler) Create(c *gin.Context) {
	ownerID, ok := h.OwnerID(c)
	if !ok {
		return
	}

	var req dto.CreateQuoteRequest
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

// Get handles GET /quotes/:id.
func (h *QuoteHandler) Get(c *gin.Context) {
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

// Update handles PUT /quotes/:id. Draft only; totals recompute.
func (h *QuoteHandler) Update(c *gin.Context) {
	docID, ok := h.ParseIDParam(c)
	if !ok {
		return
	}

	var req dto.UpdateQuoteRequest
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

// Delete handles DELETE /quotes/:id.
func (h *QuoteHandler) Delete(c *gin.Context) {
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

// Send handles POST /quotes/:id/send.
func (h *QuoteHandler) Send(c *gin.Context) {
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

// Convert handles POST /quotes/:id/convert - creates a draft invoice.
func (h *QuoteHandler) Convert(c *gin.Context) {
	docID, ok := h.ParseIDParam(c)
	if !ok {
		return
	}

	inv, err := h.service.ConvertToInvoice(c.Request.Context(), docID)
	if err != nil {
		h.Error(c, err)
		return
	}

	h.Created(c, inv)
}

// List handles GET /quotes.
func (h *QuoteHandler) List(c *gin.Context) {
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

	filter := quote.ListFilter{
		ListFilter: base,
		OwnerID:    ownerID,
	}
	if raw := c.Query("clientId"); raw != "" {
		clientID, err := id.Parse(raw)
		if err == nil {
			filter.ClientID = &clientID
		}
	}
	if raw := c.Query("expiresAfter"); raw != "" {
		if t, err := time.Parse("2006-01-02", raw); err == nil {
			filter.ExpiresAfter = &t
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

// AuditTrail handles GET /quotes/:id/audit.
func (h *QuoteHandler) AuditTrail(c *gin.Context) {
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

package handlers

import (
	"github.com/gin-gonic/gin"

	"github.com/AzizBrinis/invoice-app-sub003/internal/domain/settings"
	"github.com/AzizBrinis/invoice-app-sub003/internal/infrastructure/http/v1/dto"
)

// SettingsHandler handles HTTP requests for owner billing settings.
type SettingsHandler struct {
	*BaseHandler
	repo settings.Repository
}

// NewSettingsHandler creates a new settings handler.
func NewSettingsHandler(base *BaseHandler, repo settings.Repository) *SettingsHandler {
	return &SettingsHandler{
		BaseHandler: base,
		repo:        repo,
	}
}

// Get handles GET /settings. Owners without a stored row get the defaults.
func (h *SettingsHandler) Get(c *gin.Context) {
	ownerID, ok := h.OwnerID(c)
	if !ok {
		return
	}

	s, err := h.repo.GetByOwner(c.Request.Context(), ownerID)
	if err != nil {
		h.Error(c, err)
		return
	}

	h.OK(c, s)
}

// Save handles PUT /settings. The new configuration applies to future
// documents only; stored totals never recompute.
func (h *SettingsHandler) Save(c *gin.Context) {
	ownerID, ok := h.OwnerID(c)
	if !ok {
		return
	}

	var req dto.SaveSettingsRequest
	if !h.BindJSON(c, &req) {
		return
	}

	s, err := req.ToModel(ownerID)
	if err != nil {
		h.Error(c, err)
		return
	}

	if err := h.repo.Save(c.Request.Context(), s); err != nil {
		h.Error(c, err)
		return
	}

	h.OK(c, s)
}

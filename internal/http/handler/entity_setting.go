package handler

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/ibdaa1/qooqz/internal/domain"
)

// EntitySettingService defines the settings handler's dependency contract.
type EntitySettingService interface {
	EffectiveSettings(ctx context.Context, tenantID, entityID int64) (domain.EffectiveSettingsDTO, error)
	GetSetting(ctx context.Context, tenantID, entityID int64, key string) (domain.SettingDTO, error)
	SaveSettings(ctx context.Context, tenantID, entityID int64, req domain.SaveSettingsRequestDTO) (domain.EffectiveSettingsDTO, error)
	SetSetting(ctx context.Context, tenantID, entityID int64, key string, req domain.SetSettingRequestDTO) (domain.SettingDTO, error)
	DeleteSetting(ctx context.Context, tenantID, entityID int64, key string) (domain.DeleteResultDTO, error)
	ResetSettings(ctx context.Context, tenantID, entityID int64) (domain.DeletedCountDTO, error)
}

// EntitySettingHandler handles HTTP requests for entity settings.
type EntitySettingHandler struct {
	svc EntitySettingService
}

// NewEntitySettingHandler constructs an EntitySettingHandler with the given service.
func NewEntitySettingHandler(svc EntitySettingService) *EntitySettingHandler {
	return &EntitySettingHandler{svc: svc}
}

// scope resolves the tenant and entity of a settings route.
func scope(c *gin.Context) (tenantID, entityID int64, valid bool) {
	if tenantID, valid = tenant(c); !valid {
		return 0, 0, false
	}
	if entityID, valid = pathID(c, "id"); !valid {
		return 0, 0, false
	}
	return tenantID, entityID, true
}

// List handles reading the effective settings of an entity.
func (h *EntitySettingHandler) List(c *gin.Context) {
	tenantID, entityID, valid := scope(c)
	if !valid {
		return
	}
	res, err := h.svc.EffectiveSettings(c.Request.Context(), tenantID, entityID)
	if err != nil {
		fail(c, err)
		return
	}
	ok(c, http.StatusOK, res, "OK")
}

// Save handles a bulk write of setting overrides.
func (h *EntitySettingHandler) Save(c *gin.Context) {
	tenantID, entityID, valid := scope(c)
	if !valid {
		return
	}
	var req domain.SaveSettingsRequestDTO
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "invalid request", err)
		return
	}
	res, err := h.svc.SaveSettings(c.Request.Context(), tenantID, entityID, req)
	if err != nil {
		fail(c, err)
		return
	}
	ok(c, http.StatusOK, res, "Settings saved")
}

// Reset handles dropping every override of an entity.
func (h *EntitySettingHandler) Reset(c *gin.Context) {
	tenantID, entityID, valid := scope(c)
	if !valid {
		return
	}
	res, err := h.svc.ResetSettings(c.Request.Context(), tenantID, entityID)
	if err != nil {
		fail(c, err)
		return
	}
	ok(c, http.StatusOK, res, "Settings reset")
}

// Get handles resolving one setting key.
func (h *EntitySettingHandler) Get(c *gin.Context) {
	tenantID, entityID, valid := scope(c)
	if !valid {
		return
	}
	res, err := h.svc.GetSetting(c.Request.Context(), tenantID, entityID, c.Param("key"))
	if err != nil {
		fail(c, err)
		return
	}
	ok(c, http.StatusOK, res, "OK")
}

// Set handles writing one setting override.
func (h *EntitySettingHandler) Set(c *gin.Context) {
	tenantID, entityID, valid := scope(c)
	if !valid {
		return
	}
	var req domain.SetSettingRequestDTO
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "invalid request", err)
		return
	}
	res, err := h.svc.SetSetting(c.Request.Context(), tenantID, entityID, c.Param("key"), req)
	if err != nil {
		fail(c, err)
		return
	}
	ok(c, http.StatusOK, res, "Setting saved")
}

// Delete handles dropping one setting override.
func (h *EntitySettingHandler) Delete(c *gin.Context) {
	tenantID, entityID, valid := scope(c)
	if !valid {
		return
	}
	res, err := h.svc.DeleteSetting(c.Request.Context(), tenantID, entityID, c.Param("key"))
	if err != nil {
		fail(c, err)
		return
	}
	ok(c, http.StatusOK, res, "Setting deleted")
}

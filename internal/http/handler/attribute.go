package handler

import (
	"context"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/ibdaa1/qooqz/internal/domain"
)

// AttributeService defines the attribute handler's dependency contract.
type AttributeService interface {
	ListAttributes(ctx context.Context, f domain.AttributeFilter, p domain.ListParams, lang string) (domain.Page[domain.Attribute], error)
	GetAttribute(ctx context.Context, id int64) (domain.Attribute, error)
	GetAttributeByName(ctx context.Context, entityType, name string) (domain.Attribute, error)
	CreateAttribute(ctx context.Context, req domain.CreateAttributeRequestDTO) (domain.Attribute, error)
	UpdateAttribute(ctx context.Context, id int64, req domain.UpdateAttributeRequestDTO) (domain.Attribute, error)
	DeleteAttribute(ctx context.Context, id int64, cascade bool) (domain.DeleteResultDTO, error)
	Translations(ctx context.Context, id int64) ([]domain.AttributeTranslation, error)
	SetTranslation(ctx context.Context, id int64, lang string, req domain.TranslationRequestDTO) (domain.AttributeTranslation, error)
}

// AttributeHandler handles HTTP requests for attribute declarations.
type AttributeHandler struct {
	svc         AttributeService
	defaultLang string
}

// NewAttributeHandler constructs an AttributeHandler. defaultLang labels listings without a lang parameter.
func NewAttributeHandler(svc AttributeService, defaultLang string) *AttributeHandler {
	return &AttributeHandler{svc: svc, defaultLang: defaultLang}
}

// List handles listing attributes with filters and pagination.
func (h *AttributeHandler) List(c *gin.Context) {
	type queryParams struct {
		listQuery
		EntityType string `form:"entity_type"`
		DataType   string `form:"data_type"`
		Name       string `form:"name"`
		Lang       string `form:"lang"`
		IsRequired string `form:"is_required"`
	}
	var q queryParams
	if err := c.ShouldBindQuery(&q); err != nil {
		badRequest(c, "invalid query parameters", err)
		return
	}
	f := domain.AttributeFilter{EntityType: q.EntityType, DataType: q.DataType, Name: q.Name}
	if q.IsRequired != "" {
		b, err := strconv.ParseBool(q.IsRequired)
		if err != nil {
			badRequest(c, "invalid is_required", err)
			return
		}
		f.IsRequired = &b
	}
	lang := q.Lang
	if lang == "" {
		lang = h.defaultLang
	}
	page, err := h.svc.ListAttributes(c.Request.Context(), f, q.params(), lang)
	if err != nil {
		fail(c, err)
		return
	}
	paged(c, page)
}

// Get handles fetching an attribute by ID.
func (h *AttributeHandler) Get(c *gin.Context) {
	id, valid := pathID(c, "id")
	if !valid {
		return
	}
	a, err := h.svc.GetAttribute(c.Request.Context(), id)
	if err != nil {
		fail(c, err)
		return
	}
	ok(c, http.StatusOK, a, "OK")
}

// GetByName handles fetching an attribute by entity type and name.
func (h *AttributeHandler) GetByName(c *gin.Context) {
	a, err := h.svc.GetAttributeByName(c.Request.Context(), c.Param("entity_type"), c.Param("name"))
	if err != nil {
		fail(c, err)
		return
	}
	ok(c, http.StatusOK, a, "OK")
}

// Create handles declaring a new attribute.
func (h *AttributeHandler) Create(c *gin.Context) {
	var req domain.CreateAttributeRequestDTO
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "invalid request", err)
		return
	}
	a, err := h.svc.CreateAttribute(c.Request.Context(), req)
	if err != nil {
		fail(c, err)
		return
	}
	ok(c, http.StatusCreated, a, "Attribute created")
}

// Update handles changing an attribute declaration.
func (h *AttributeHandler) Update(c *gin.Context) {
	id, valid := pathID(c, "id")
	if !valid {
		return
	}
	var req domain.UpdateAttributeRequestDTO
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "invalid request", err)
		return
	}
	a, err := h.svc.UpdateAttribute(c.Request.Context(), id, req)
	if err != nil {
		fail(c, err)
		return
	}
	ok(c, http.StatusOK, a, "Attribute updated")
}

// Delete handles removing an attribute; ?cascade=true also removes its values.
func (h *AttributeHandler) Delete(c *gin.Context) {
	id, valid := pathID(c, "id")
	if !valid {
		return
	}
	var cascade bool
	if raw := c.Query("cascade"); raw != "" {
		b, err := strconv.ParseBool(raw)
		if err != nil {
			badRequest(c, "invalid cascade", err)
			return
		}
		cascade = b
	}
	res, err := h.svc.DeleteAttribute(c.Request.Context(), id, cascade)
	if err != nil {
		fail(c, err)
		return
	}
	ok(c, http.StatusOK, res, "Attribute deleted")
}

// Translations handles listing an attribute's labels per language.
func (h *AttributeHandler) Translations(c *gin.Context) {
	id, valid := pathID(c, "id")
	if !valid {
		return
	}
	ts, err := h.svc.Translations(c.Request.Context(), id)
	if err != nil {
		fail(c, err)
		return
	}
	ok(c, http.StatusOK, ts, "OK")
}

// SetTranslation handles creating or replacing an attribute label in one language.
func (h *AttributeHandler) SetTranslation(c *gin.Context) {
	id, valid := pathID(c, "id")
	if !valid {
		return
	}
	var req domain.TranslationRequestDTO
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "invalid request", err)
		return
	}
	t, err := h.svc.SetTranslation(c.Request.Context(), id, c.Param("lang"), req)
	if err != nil {
		fail(c, err)
		return
	}
	ok(c, http.StatusOK, t, "Translation saved")
}

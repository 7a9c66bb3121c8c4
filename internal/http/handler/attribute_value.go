package handler

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/ibdaa1/qooqz/internal/domain"
)

// AttributeValueService defines the value handler's dependency contract.
type AttributeValueService interface {
	ListValues(ctx context.Context, tenantID int64, f domain.AttributeValueFilter, p domain.ListParams) (domain.Page[domain.AttributeValue], error)
	GetValue(ctx context.Context, tenantID, id int64) (domain.AttributeValue, error)
	CreateValue(ctx context.Context, tenantID int64, req domain.CreateAttributeValueRequestDTO) (domain.AttributeValue, error)
	UpdateValue(ctx context.Context, tenantID, id int64, req domain.UpdateAttributeValueRequestDTO) (domain.AttributeValue, error)
	DeleteValue(ctx context.Context, tenantID, id int64) (domain.DeleteResultDTO, error)
	EntityValues(ctx context.Context, tenantID, entityID int64) (domain.EntityValuesDTO, error)
	SaveEntityValues(ctx context.Context, tenantID, entityID int64, req domain.SaveEntityValuesRequestDTO) (domain.EntityValuesDTO, error)
	DeleteEntityValues(ctx context.Context, tenantID, entityID int64) (domain.DeletedCountDTO, error)
	DeleteAttributeValues(ctx context.Context, attributeID int64) (domain.DeletedCountDTO, error)
	Statistics(ctx context.Context, tenantID int64) (domain.ValueStatistics, error)
}

// AttributeValueHandler handles HTTP requests for attribute values.
type AttributeValueHandler struct {
	svc AttributeValueService
}

// NewAttributeValueHandler constructs an AttributeValueHandler with the given service.
func NewAttributeValueHandler(svc AttributeValueService) *AttributeValueHandler {
	return &AttributeValueHandler{svc: svc}
}

// List handles listing values with filters and pagination.
func (h *AttributeValueHandler) List(c *gin.Context) {
	tenantID, found := tenant(c)
	if !found {
		return
	}
	type queryParams struct {
		listQuery
		AttributeName string `form:"attribute_name"`
		DataType      string `form:"data_type"`
	}
	var q queryParams
	if err := c.ShouldBindQuery(&q); err != nil {
		badRequest(c, "invalid query parameters", err)
		return
	}
	entityID, valid := queryID(c, "entity_id")
	if !valid {
		return
	}
	attributeID, valid := queryID(c, "attribute_id")
	if !valid {
		return
	}
	f := domain.AttributeValueFilter{AttributeName: q.AttributeName, DataType: q.DataType}
	if entityID != nil {
		f.EntityID = *entityID
	}
	if attributeID != nil {
		f.AttributeID = *attributeID
	}
	page, err := h.svc.ListValues(c.Request.Context(), tenantID, f, q.params())
	if err != nil {
		fail(c, err)
		return
	}
	paged(c, page)
}

// Get handles fetching a value by ID.
func (h *AttributeValueHandler) Get(c *gin.Context) {
	tenantID, found := tenant(c)
	if !found {
		return
	}
	id, valid := pathID(c, "id")
	if !valid {
		return
	}
	v, err := h.svc.GetValue(c.Request.Context(), tenantID, id)
	if err != nil {
		fail(c, err)
		return
	}
	ok(c, http.StatusOK, v, "OK")
}

// Create handles storing a single value.
func (h *AttributeValueHandler) Create(c *gin.Context) {
	tenantID, found := tenant(c)
	if !found {
		return
	}
	var req domain.CreateAttributeValueRequestDTO
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "invalid request", err)
		return
	}
	v, err := h.svc.CreateValue(c.Request.Context(), tenantID, req)
	if err != nil {
		fail(c, err)
		return
	}
	ok(c, http.StatusCreated, v, "Value created")
}

// Update handles replacing a stored value.
func (h *AttributeValueHandler) Update(c *gin.Context) {
	tenantID, found := tenant(c)
	if !found {
		return
	}
	id, valid := pathID(c, "id")
	if !valid {
		return
	}
	var req domain.UpdateAttributeValueRequestDTO
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "invalid request", err)
		return
	}
	v, err := h.svc.UpdateValue(c.Request.Context(), tenantID, id, req)
	if err != nil {
		fail(c, err)
		return
	}
	ok(c, http.StatusOK, v, "Value updated")
}

// Delete handles removing a single value.
func (h *AttributeValueHandler) Delete(c *gin.Context) {
	tenantID, found := tenant(c)
	if !found {
		return
	}
	id, valid := pathID(c, "id")
	if !valid {
		return
	}
	res, err := h.svc.DeleteValue(c.Request.Context(), tenantID, id)
	if err != nil {
		fail(c, err)
		return
	}
	ok(c, http.StatusOK, res, "Value deleted")
}

// Statistics handles summarizing the tenant's stored values.
func (h *AttributeValueHandler) Statistics(c *gin.Context) {
	tenantID, found := tenant(c)
	if !found {
		return
	}
	st, err := h.svc.Statistics(c.Request.Context(), tenantID)
	if err != nil {
		fail(c, err)
		return
	}
	ok(c, http.StatusOK, st, "OK")
}

// EntityValues handles reading an entity with its values keyed by attribute name.
func (h *AttributeValueHandler) EntityValues(c *gin.Context) {
	tenantID, found := tenant(c)
	if !found {
		return
	}
	id, valid := pathID(c, "id")
	if !valid {
		return
	}
	res, err := h.svc.EntityValues(c.Request.Context(), tenantID, id)
	if err != nil {
		fail(c, err)
		return
	}
	ok(c, http.StatusOK, res, "OK")
}

// SaveEntityValues handles a bulk write of an entity's values keyed by attribute name.
func (h *AttributeValueHandler) SaveEntityValues(c *gin.Context) {
	tenantID, found := tenant(c)
	if !found {
		return
	}
	id, valid := pathID(c, "id")
	if !valid {
		return
	}
	var req domain.SaveEntityValuesRequestDTO
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "invalid request", err)
		return
	}
	res, err := h.svc.SaveEntityValues(c.Request.Context(), tenantID, id, req)
	if err != nil {
		fail(c, err)
		return
	}
	ok(c, http.StatusOK, res, "Values saved")
}

// DeleteEntityValues handles removing every value of an entity.
func (h *AttributeValueHandler) DeleteEntityValues(c *gin.Context) {
	tenantID, found := tenant(c)
	if !found {
		return
	}
	id, valid := pathID(c, "id")
	if !valid {
		return
	}
	res, err := h.svc.DeleteEntityValues(c.Request.Context(), tenantID, id)
	if err != nil {
		fail(c, err)
		return
	}
	ok(c, http.StatusOK, res, "Values deleted")
}

// DeleteAttributeValues handles removing every value of an attribute.
func (h *AttributeValueHandler) DeleteAttributeValues(c *gin.Context) {
	id, valid := pathID(c, "id")
	if !valid {
		return
	}
	res, err := h.svc.DeleteAttributeValues(c.Request.Context(), id)
	if err != nil {
		fail(c, err)
		return
	}
	ok(c, http.StatusOK, res, "Values deleted")
}

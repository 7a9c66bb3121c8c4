package handler

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/ibdaa1/qooqz/internal/domain"
	"github.com/ibdaa1/qooqz/pkg/logger"
)

// EntityService defines the entity handler's dependency contract.
type EntityService interface {
	ListEntities(ctx context.Context, tenantID int64, f domain.EntityFilter, p domain.ListParams) (domain.Page[domain.Entity], error)
	GetEntity(ctx context.Context, tenantID, id int64) (domain.Entity, error)
	CreateEntity(ctx context.Context, tenantID int64, req domain.CreateEntityRequestDTO) (domain.Entity, error)
	UpdateEntity(ctx context.Context, tenantID, id int64, req domain.UpdateEntityRequestDTO) (domain.Entity, error)
	DeleteEntity(ctx context.Context, tenantID, id int64) (domain.DeleteResultDTO, error)
	ValidateParent(ctx context.Context, tenantID, parentID, childID int64) (domain.ParentCheckDTO, error)
}

// EntityHandler handles HTTP requests for entities.
type EntityHandler struct {
	svc EntityService
}

// NewEntityHandler constructs an EntityHandler with the given EntityService.
func NewEntityHandler(svc EntityService) *EntityHandler {
	return &EntityHandler{svc: svc}
}

// List handles listing the tenant's entities with filters and pagination.
func (h *EntityHandler) List(c *gin.Context) {
	tenantID, found := tenant(c)
	if !found {
		return
	}
	type queryParams struct {
		listQuery
		Type   string `form:"type"`
		Status string `form:"status"`
		Search string `form:"search"`
	}
	var q queryParams
	if err := c.ShouldBindQuery(&q); err != nil {
		badRequest(c, "invalid query parameters", err)
		return
	}
	ownerID, valid := queryID(c, "owner_id")
	if !valid {
		return
	}
	parentID, valid := queryID(c, "parent_id")
	if !valid {
		return
	}
	f := domain.EntityFilter{Type: q.Type, Status: q.Status, OwnerID: ownerID, ParentID: parentID, Search: q.Search}
	page, err := h.svc.ListEntities(c.Request.Context(), tenantID, f, q.params())
	if err != nil {
		fail(c, err)
		return
	}
	logger.With(c.Request.Context(), map[string]any{"count": len(page.Items), "total": page.Meta.Total}).Debug("entities listed")
	paged(c, page)
}

// Get handles fetching an entity by ID.
func (h *EntityHandler) Get(c *gin.Context) {
	tenantID, found := tenant(c)
	if !found {
		return
	}
	id, valid := pathID(c, "id")
	if !valid {
		return
	}
	e, err := h.svc.GetEntity(c.Request.Context(), tenantID, id)
	if err != nil {
		fail(c, err)
		return
	}
	ok(c, http.StatusOK, e, "OK")
}

// Create handles the creation of a new entity.
func (h *EntityHandler) Create(c *gin.Context) {
	tenantID, found := tenant(c)
	if !found {
		return
	}
	var req domain.CreateEntityRequestDTO
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "invalid request", err)
		return
	}
	e, err := h.svc.CreateEntity(c.Request.Context(), tenantID, req)
	if err != nil {
		fail(c, err)
		return
	}
	ok(c, http.StatusCreated, e, "Entity created")
}

// Update handles replacing the mutable fields of an entity.
func (h *EntityHandler) Update(c *gin.Context) {
	tenantID, found := tenant(c)
	if !found {
		return
	}
	id, valid := pathID(c, "id")
	if !valid {
		return
	}
	var req domain.UpdateEntityRequestDTO
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "invalid request", err)
		return
	}
	e, err := h.svc.UpdateEntity(c.Request.Context(), tenantID, id, req)
	if err != nil {
		fail(c, err)
		return
	}
	ok(c, http.StatusOK, e, "Entity updated")
}

// Delete handles removing an entity.
func (h *EntityHandler) Delete(c *gin.Context) {
	tenantID, found := tenant(c)
	if !found {
		return
	}
	id, valid := pathID(c, "id")
	if !valid {
		return
	}
	res, err := h.svc.DeleteEntity(c.Request.Context(), tenantID, id)
	if err != nil {
		fail(c, err)
		return
	}
	ok(c, http.StatusOK, res, "Entity deleted")
}

// ValidateParent reports whether the entity in the path may be used as a parent,
// optionally of the entity given by child_id.
func (h *EntityHandler) ValidateParent(c *gin.Context) {
	tenantID, found := tenant(c)
	if !found {
		return
	}
	parentID, valid := pathID(c, "id")
	if !valid {
		return
	}
	childID, valid := queryID(c, "child_id")
	if !valid {
		return
	}
	var child int64
	if childID != nil {
		child = *childID
	}
	res, err := h.svc.ValidateParent(c.Request.Context(), tenantID, parentID, child)
	if err != nil {
		fail(c, err)
		return
	}
	ok(c, http.StatusOK, res, "OK")
}

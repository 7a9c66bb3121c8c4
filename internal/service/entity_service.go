package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/ibdaa1/qooqz/internal/domain"
	"github.com/ibdaa1/qooqz/internal/repository"
	"github.com/ibdaa1/qooqz/internal/validator"
	"github.com/ibdaa1/qooqz/pkg/logger"
)

// EntityService manages tenant entities.
type EntityService struct {
	repo  repository.EntityRepository
	clock Clock
}

// NewEntityService creates a new EntityService with the given repository and Clock.
func NewEntityService(repo repository.EntityRepository, clock Clock) *EntityService {
	return &EntityService{repo: repo, clock: clock}
}

// ListEntities returns a page of the tenant's entities.
func (s *EntityService) ListEntities(ctx context.Context, tenantID int64, f domain.EntityFilter, p domain.ListParams) (domain.Page[domain.Entity], error) {
	p = p.Normalize(domain.EntityOrderColumns, "id", "DESC")
	return listPage(ctx, p,
		func(ctx context.Context, p domain.ListParams) ([]domain.Entity, error) {
			return s.repo.List(ctx, tenantID, f, p)
		},
		func(ctx context.Context) (int64, error) { return s.repo.Count(ctx, tenantID, f) },
	)
}

// GetEntity fetches one of the tenant's entities.
func (s *EntityService) GetEntity(ctx context.Context, tenantID, id int64) (domain.Entity, error) {
	e, err := s.repo.FindByID(ctx, tenantID, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return domain.Entity{}, ErrEntityNotFound
		}
		return domain.Entity{}, fmt.Errorf("find entity: %w", err)
	}
	return e, nil
}

// CreateEntity validates req and stores a new entity for the tenant.
func (s *EntityService) CreateEntity(ctx context.Context, tenantID int64, req domain.CreateEntityRequestDTO) (domain.Entity, error) {
	if err := validator.Struct(req); err != nil {
		return domain.Entity{}, err
	}
	if req.ParentID != nil {
		if err := s.checkParent(ctx, tenantID, 0, *req.ParentID); err != nil {
			return domain.Entity{}, err
		}
	}
	now := s.clock.Now()
	e := domain.Entity{
		TenantID:  tenantID,
		OwnerID:   req.OwnerID,
		Type:      req.Type,
		Name:      req.Name,
		Slug:      req.Slug,
		Status:    statusOrDefault(req.Status),
		ParentID:  req.ParentID,
		CreatedAt: now,
		UpdatedAt: now,
	}
	out, err := s.repo.Insert(ctx, e)
	if err != nil {
		return domain.Entity{}, translateEntityWrite(err)
	}
	logger.With(ctx, map[string]any{"entity_id": out.ID, "type": out.Type}).Info("entity created")
	return out, nil
}

// UpdateEntity replaces the mutable fields of an entity. The type never changes.
func (s *EntityService) UpdateEntity(ctx context.Context, tenantID, id int64, req domain.UpdateEntityRequestDTO) (domain.Entity, error) {
	if err := validator.Struct(req); err != nil {
		return domain.Entity{}, err
	}
	cur, err := s.GetEntity(ctx, tenantID, id)
	if err != nil {
		return domain.Entity{}, err
	}
	if req.ParentID != nil {
		if err := s.checkParent(ctx, tenantID, id, *req.ParentID); err != nil {
			return domain.Entity{}, err
		}
	}
	cur.Name = req.Name
	cur.Slug = req.Slug
	cur.OwnerID = req.OwnerID
	cur.ParentID = req.ParentID
	if req.Status != "" {
		cur.Status = req.Status
	}
	cur.UpdatedAt = s.clock.Now()
	out, err := s.repo.Update(ctx, cur)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return domain.Entity{}, ErrEntityNotFound
		}
		return domain.Entity{}, translateEntityWrite(err)
	}
	return out, nil
}

// DeleteEntity removes an entity with its values and settings. Deleting a missing entity is not an error.
func (s *EntityService) DeleteEntity(ctx context.Context, tenantID, id int64) (domain.DeleteResultDTO, error) {
	deleted, err := s.repo.Delete(ctx, tenantID, id)
	if err != nil {
		return domain.DeleteResultDTO{}, fmt.Errorf("delete entity: %w", err)
	}
	if deleted {
		logger.With(ctx, map[string]any{"entity_id": id}).Info("entity deleted")
	}
	return domain.DeleteResultDTO{Deleted: deleted}, nil
}

// ValidateParent reports whether parentID may be the parent of childID (0 for a new entity).
func (s *EntityService) ValidateParent(ctx context.Context, tenantID, parentID, childID int64) (domain.ParentCheckDTO, error) {
	err := s.checkParent(ctx, tenantID, childID, parentID)
	switch {
	case err == nil:
		p, err := s.GetEntity(ctx, tenantID, parentID)
		if err != nil {
			return domain.ParentCheckDTO{}, err
		}
		return domain.ParentCheckDTO{Valid: true, Parent: &domain.ParentRefDTO{ID: p.ID, Name: p.Name, Type: p.Type}}, nil
	case errors.Is(err, ErrInvalidParent):
		return domain.ParentCheckDTO{Valid: false, Message: parentMessage(err)}, nil
	default:
		return domain.ParentCheckDTO{}, err
	}
}

// checkParent requires parentID to exist in the tenant and not to be childID or one of its descendants.
func (s *EntityService) checkParent(ctx context.Context, tenantID, childID, parentID int64) error {
	if childID != 0 && parentID == childID {
		return fmt.Errorf("%w: an entity cannot be its own parent", ErrInvalidParent)
	}
	next := parentID
	for depth := 0; depth < maxParentDepth; depth++ {
		e, err := s.repo.FindByID(ctx, tenantID, next)
		if errors.Is(err, repository.ErrNotFound) {
			if depth == 0 {
				return fmt.Errorf("%w: parent entity not found", ErrInvalidParent)
			}
			return nil
		}
		if err != nil {
			return fmt.Errorf("find parent: %w", err)
		}
		if e.ParentID == nil {
			return nil
		}
		if childID != 0 && *e.ParentID == childID {
			return fmt.Errorf("%w: parent is a descendant of the entity", ErrInvalidParent)
		}
		next = *e.ParentID
	}
	return fmt.Errorf("%w: parent chain too deep", ErrInvalidParent)
}

func parentMessage(err error) string {
	return strings.TrimPrefix(err.Error(), ErrInvalidParent.Error()+": ")
}

func statusOrDefault(status string) string {
	if status == "" {
		return domain.EntityStatusPending
	}
	return status
}

func translateEntityWrite(err error) error {
	switch {
	case errors.Is(err, repository.ErrConflict):
		return ErrDuplicateSlug
	case errors.Is(err, repository.ErrReferenced):
		return fmt.Errorf("%w: parent entity not found", ErrInvalidParent)
	}
	return fmt.Errorf("write entity: %w", err)
}

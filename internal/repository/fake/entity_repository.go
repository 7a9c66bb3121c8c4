package fake

import (
	"context"

	"github.com/ibdaa1/qooqz/internal/domain"
	"github.com/ibdaa1/qooqz/internal/repository"
)

// EntityRepository is an in-memory fake implementing repository.EntityRepository.
type EntityRepository struct {
	s *Store
}

// NewEntityRepository creates a fake entity repository over its own store.
func NewEntityRepository(opts ...Option) *EntityRepository {
	return NewStore(opts...).Entities()
}

func (r *EntityRepository) match(e domain.Entity, tenantID int64, f domain.EntityFilter) bool {
	switch {
	case e.TenantID != tenantID:
		return false
	case f.Type != "" && e.Type != f.Type:
		return false
	case f.Status != "" && e.Status != f.Status:
		return false
	case f.OwnerID != nil && (e.OwnerID == nil || *e.OwnerID != *f.OwnerID):
		return false
	case f.ParentID != nil && (e.ParentID == nil || *e.ParentID != *f.ParentID):
		return false
	case f.Search != "" && !containsFold(e.Name, f.Search):
		return false
	}
	return true
}

func (r *EntityRepository) filter(tenantID int64, f domain.EntityFilter) []domain.Entity {
	items := make([]domain.Entity, 0, len(r.s.entities))
	for _, e := range r.s.entities {
		if r.match(e, tenantID, f) {
			items = append(items, e)
		}
	}
	return items
}

func (r *EntityRepository) List(_ context.Context, tenantID int64, f domain.EntityFilter, p domain.ListParams) ([]domain.Entity, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	return page(r.filter(tenantID, f), p, domain.EntityOrderColumns, "id", "DESC", entityKey), nil
}

func entityKey(e domain.Entity, col string) any {
	switch col {
	case "name":
		return e.Name
	case "type":
		return e.Type
	case "status":
		return e.Status
	case "created_at":
		return e.CreatedAt
	case "updated_at":
		return e.UpdatedAt
	}
	return e.ID
}

func (r *EntityRepository) Count(_ context.Context, tenantID int64, f domain.EntityFilter) (int64, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	return int64(len(r.filter(tenantID, f))), nil
}

func (r *EntityRepository) FindByID(_ context.Context, tenantID, id int64) (domain.Entity, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if e, ok := r.s.entities[id]; ok && e.TenantID == tenantID {
		return e, nil
	}
	return domain.Entity{}, repository.ErrNotFound
}

func (r *EntityRepository) Insert(_ context.Context, e domain.Entity) (domain.Entity, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if err := r.checkSlug(e); err != nil {
		return domain.Entity{}, err
	}
	e.ID = r.s.nextID()
	r.s.entities[e.ID] = e
	return e, nil
}

func (r *EntityRepository) Update(_ context.Context, e domain.Entity) (domain.Entity, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	cur, ok := r.s.entities[e.ID]
	if !ok || cur.TenantID != e.TenantID {
		return domain.Entity{}, repository.ErrNotFound
	}
	if err := r.checkSlug(e); err != nil {
		return domain.Entity{}, err
	}
	e.Type = cur.Type
	e.CreatedAt = cur.CreatedAt
	r.s.entities[e.ID] = e
	return e, nil
}

// checkSlug mirrors the partial unique index on (tenant_id, slug).
func (r *EntityRepository) checkSlug(e domain.Entity) error {
	if e.Slug == "" {
		return nil
	}
	for _, o := range r.s.entities {
		if o.ID != e.ID && o.TenantID == e.TenantID && o.Slug == e.Slug {
			return repository.ErrConflict
		}
	}
	return nil
}

// Delete cascades to values and settings and detaches children.
func (r *EntityRepository) Delete(_ context.Context, tenantID, id int64) (bool, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	e, ok := r.s.entities[id]
	if !ok || e.TenantID != tenantID {
		return false, nil
	}
	delete(r.s.entities, id)
	for vid, v := range r.s.values {
		if v.EntityID == id {
			delete(r.s.values, vid)
		}
	}
	delete(r.s.settings, id)
	for cid, c := range r.s.entities {
		if c.ParentID != nil && *c.ParentID == id {
			c.ParentID = nil
			r.s.entities[cid] = c
		}
	}
	return true, nil
}

var _ repository.EntityRepository = (*EntityRepository)(nil)

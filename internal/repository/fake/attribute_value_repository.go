package fake

import (
	"context"
	"slices"

	"github.com/ibdaa1/qooqz/internal/domain"
	"github.com/ibdaa1/qooqz/internal/repository"
)

// AttributeValueRepository is an in-memory fake implementing repository.AttributeValueRepository.
type AttributeValueRepository struct {
	s *Store
}

// NewAttributeValueRepository creates a fake value repository over its own store.
func NewAttributeValueRepository(opts ...Option) *AttributeValueRepository {
	return NewStore(opts...).Values()
}

// owned reports whether the value's entity belongs to the tenant; callers hold mu.
func (r *AttributeValueRepository) owned(v domain.AttributeValue, tenantID int64) bool {
	e, ok := r.s.entities[v.EntityID]
	return ok && e.TenantID == tenantID
}

func (r *AttributeValueRepository) filter(tenantID int64, f domain.AttributeValueFilter) []domain.AttributeValue {
	items := make([]domain.AttributeValue, 0, len(r.s.values))
	for _, v := range r.s.values {
		if !r.owned(v, tenantID) {
			continue
		}
		v = r.s.joined(v)
		if f.EntityID > 0 && v.EntityID != f.EntityID {
			continue
		}
		if f.AttributeID > 0 && v.AttributeID != f.AttributeID {
			continue
		}
		if f.AttributeName != "" && v.AttributeName != f.AttributeName {
			continue
		}
		if f.DataType != "" && v.DataType != f.DataType {
			continue
		}
		items = append(items, v)
	}
	return items
}

func valueKey(v domain.AttributeValue, col string) any {
	switch col {
	case "entity_id":
		return v.EntityID
	case "attribute_id":
		return v.AttributeID
	case "created_at":
		return v.CreatedAt
	case "updated_at":
		return v.UpdatedAt
	}
	return v.ID
}

func (r *AttributeValueRepository) List(_ context.Context, tenantID int64, f domain.AttributeValueFilter, p domain.ListParams) ([]domain.AttributeValue, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	return page(r.filter(tenantID, f), p, domain.AttributeValueOrderColumns, "id", "DESC", valueKey), nil
}

func (r *AttributeValueRepository) Count(_ context.Context, tenantID int64, f domain.AttributeValueFilter) (int64, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	return int64(len(r.filter(tenantID, f))), nil
}

func (r *AttributeValueRepository) FindByID(_ context.Context, tenantID, id int64) (domain.AttributeValue, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if v, ok := r.s.values[id]; ok && r.owned(v, tenantID) {
		return r.s.joined(v), nil
	}
	return domain.AttributeValue{}, repository.ErrNotFound
}

func (r *AttributeValueRepository) ListByEntity(_ context.Context, entityID int64) ([]domain.AttributeValue, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	items := make([]domain.AttributeValue, 0)
	for _, v := range r.s.values {
		if v.EntityID == entityID {
			items = append(items, r.s.joined(v))
		}
	}
	slices.SortFunc(items, func(a, b domain.AttributeValue) int {
		sa, sb := r.s.attributes[a.AttributeID].SortOrder, r.s.attributes[b.AttributeID].SortOrder
		if sa != sb {
			return sa - sb
		}
		return int(a.AttributeID - b.AttributeID)
	})
	return items, nil
}

// checkRefs mirrors the foreign keys of entity_attribute_values; callers hold mu.
func (r *AttributeValueRepository) checkRefs(v domain.AttributeValue) error {
	if _, ok := r.s.entities[v.EntityID]; !ok {
		return repository.ErrReferenced
	}
	if _, ok := r.s.attributes[v.AttributeID]; !ok {
		return repository.ErrReferenced
	}
	return nil
}

func (r *AttributeValueRepository) find(entityID, attributeID int64) (domain.AttributeValue, bool) {
	for _, v := range r.s.values {
		if v.EntityID == entityID && v.AttributeID == attributeID {
			return v, true
		}
	}
	return domain.AttributeValue{}, false
}

func (r *AttributeValueRepository) Insert(_ context.Context, v domain.AttributeValue) (domain.AttributeValue, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if err := r.checkRefs(v); err != nil {
		return domain.AttributeValue{}, err
	}
	if _, dup := r.find(v.EntityID, v.AttributeID); dup {
		return domain.AttributeValue{}, repository.ErrConflict
	}
	v.ID = r.s.nextID()
	v.AttributeName, v.DataType = "", ""
	r.s.values[v.ID] = v
	return v, nil
}

func (r *AttributeValueRepository) Update(_ context.Context, v domain.AttributeValue) (domain.AttributeValue, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	cur, ok := r.s.values[v.ID]
	if !ok {
		return domain.AttributeValue{}, repository.ErrNotFound
	}
	cur.Value = v.Value
	cur.UpdatedAt = v.UpdatedAt
	r.s.values[v.ID] = cur
	return v, nil
}

// UpsertMany validates every value before writing any, mirroring the transaction.
func (r *AttributeValueRepository) UpsertMany(_ context.Context, entityID int64, values []domain.AttributeValue) ([]domain.AttributeValue, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for _, v := range values {
		v.EntityID = entityID
		if err := r.checkRefs(v); err != nil {
			return nil, err
		}
	}
	out := make([]domain.AttributeValue, 0, len(values))
	for _, v := range values {
		v.EntityID = entityID
		if cur, ok := r.find(entityID, v.AttributeID); ok {
			cur.Value = v.Value
			cur.UpdatedAt = v.UpdatedAt
			r.s.values[cur.ID] = cur
			v.ID, v.CreatedAt = cur.ID, cur.CreatedAt
		} else {
			v.ID = r.s.nextID()
			stored := v
			stored.AttributeName, stored.DataType = "", ""
			r.s.values[v.ID] = stored
		}
		out = append(out, v)
	}
	return out, nil
}

func (r *AttributeValueRepository) Delete(_ context.Context, tenantID, id int64) (bool, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	v, ok := r.s.values[id]
	if !ok || !r.owned(v, tenantID) {
		return false, nil
	}
	delete(r.s.values, id)
	return true, nil
}

func (r *AttributeValueRepository) deleteWhere(keep func(domain.AttributeValue) bool) int64 {
	var n int64
	for id, v := range r.s.values {
		if !keep(v) {
			delete(r.s.values, id)
			n++
		}
	}
	return n
}

func (r *AttributeValueRepository) DeleteByEntity(_ context.Context, entityID int64) (int64, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	return r.deleteWhere(func(v domain.AttributeValue) bool { return v.EntityID != entityID }), nil
}

func (r *AttributeValueRepository) DeleteByAttribute(_ context.Context, attributeID int64) (int64, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	return r.deleteWhere(func(v domain.AttributeValue) bool { return v.AttributeID != attributeID }), nil
}

func (r *AttributeValueRepository) Statistics(_ context.Context, tenantID int64) (domain.ValueStatistics, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	entities := make(map[int64]struct{})
	attributes := make(map[int64]struct{})
	var s domain.ValueStatistics
	for _, v := range r.s.values {
		if !r.owned(v, tenantID) {
			continue
		}
		s.TotalValues++
		entities[v.EntityID] = struct{}{}
		attributes[v.AttributeID] = struct{}{}
	}
	s.EntitiesWithValues = int64(len(entities))
	s.AttributesWithValues = int64(len(attributes))
	return s, nil
}

var _ repository.AttributeValueRepository = (*AttributeValueRepository)(nil)

package fake

import (
	"context"
	"slices"

	"github.com/ibdaa1/qooqz/internal/domain"
	"github.com/ibdaa1/qooqz/internal/repository"
)

// AttributeRepository is an in-memory fake implementing repository.AttributeRepository.
type AttributeRepository struct {
	s *Store
}

// NewAttributeRepository creates a fake attribute repository over its own store.
func NewAttributeRepository(opts ...Option) *AttributeRepository {
	return NewStore(opts...).Attributes()
}

func (r *AttributeRepository) filter(f domain.AttributeFilter) []domain.Attribute {
	items := make([]domain.Attribute, 0, len(r.s.attributes))
	for _, a := range r.s.attributes {
		if f.EntityType != "" && a.EntityType != f.EntityType {
			continue
		}
		if f.DataType != "" && a.DataType != f.DataType {
			continue
		}
		if f.IsRequired != nil && a.IsRequired != *f.IsRequired {
			continue
		}
		if f.Name != "" && !containsFold(a.Name, f.Name) {
			continue
		}
		items = append(items, clone(a))
	}
	return items
}

func clone(a domain.Attribute) domain.Attribute {
	a.Options = slices.Clone(a.Options)
	return a
}

func attributeKey(a domain.Attribute, col string) any {
	switch col {
	case "name":
		return a.Name
	case "entity_type":
		return a.EntityType
	case "data_type":
		return a.DataType
	case "is_required":
		return a.IsRequired
	case "sort_order":
		return a.SortOrder
	case "created_at":
		return a.CreatedAt
	}
	return a.ID
}

func (r *AttributeRepository) List(_ context.Context, f domain.AttributeFilter, p domain.ListParams, lang string) ([]domain.Attribute, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	items := page(r.filter(f), p, domain.AttributeOrderColumns, "sort_order", "ASC", attributeKey)
	for i := range items {
		if t, ok := r.s.translations[items[i].ID][lang]; ok {
			items[i].Label = t.Label
		}
	}
	return items, nil
}

func (r *AttributeRepository) Count(_ context.Context, f domain.AttributeFilter) (int64, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	return int64(len(r.filter(f))), nil
}

func (r *AttributeRepository) FindByID(_ context.Context, id int64) (domain.Attribute, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if a, ok := r.s.attributes[id]; ok {
		return clone(a), nil
	}
	return domain.Attribute{}, repository.ErrNotFound
}

func (r *AttributeRepository) FindByName(_ context.Context, entityType, name string) (domain.Attribute, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for _, a := range r.s.attributes {
		if a.EntityType == entityType && a.Name == name {
			return clone(a), nil
		}
	}
	return domain.Attribute{}, repository.ErrNotFound
}

func (r *AttributeRepository) ListByEntityType(_ context.Context, entityType string) ([]domain.Attribute, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	items := r.filter(domain.AttributeFilter{EntityType: entityType})
	slices.SortFunc(items, func(a, b domain.Attribute) int {
		if a.SortOrder != b.SortOrder {
			return a.SortOrder - b.SortOrder
		}
		return int(a.ID - b.ID)
	})
	return items, nil
}

func (r *AttributeRepository) Insert(_ context.Context, a domain.Attribute) (domain.Attribute, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for _, o := range r.s.attributes {
		if o.EntityType == a.EntityType && o.Name == a.Name {
			return domain.Attribute{}, repository.ErrConflict
		}
	}
	a.ID = r.s.nextID()
	a.Label = ""
	r.s.attributes[a.ID] = clone(a)
	return a, nil
}

func (r *AttributeRepository) Update(_ context.Context, a domain.Attribute) (domain.Attribute, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	cur, ok := r.s.attributes[a.ID]
	if !ok {
		return domain.Attribute{}, repository.ErrNotFound
	}
	cur.DataType = a.DataType
	cur.Options = slices.Clone(a.Options)
	cur.IsRequired = a.IsRequired
	cur.SortOrder = a.SortOrder
	cur.UpdatedAt = a.UpdatedAt
	r.s.attributes[a.ID] = cur
	return clone(cur), nil
}

func (r *AttributeRepository) Delete(_ context.Context, id int64, cascade bool) (bool, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if _, ok := r.s.attributes[id]; !ok {
		return false, nil
	}
	var used []int64
	for vid, v := range r.s.values {
		if v.AttributeID == id {
			used = append(used, vid)
		}
	}
	if len(used) > 0 && !cascade {
		return false, repository.ErrReferenced
	}
	for _, vid := range used {
		delete(r.s.values, vid)
	}
	delete(r.s.translations, id)
	delete(r.s.attributes, id)
	return true, nil
}

func (r *AttributeRepository) CountValues(_ context.Context, id int64) (int64, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	var n int64
	for _, v := range r.s.values {
		if v.AttributeID == id {
			n++
		}
	}
	return n, nil
}

func (r *AttributeRepository) Translations(_ context.Context, id int64) ([]domain.AttributeTranslation, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	res := make([]domain.AttributeTranslation, 0, len(r.s.translations[id]))
	for _, t := range r.s.translations[id] {
		res = append(res, t)
	}
	slices.SortFunc(res, func(a, b domain.AttributeTranslation) int {
		return compareAny(a.LanguageCode, b.LanguageCode)
	})
	return res, nil
}

func (r *AttributeRepository) UpsertTranslation(_ context.Context, t domain.AttributeTranslation) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if _, ok := r.s.attributes[t.AttributeID]; !ok {
		return repository.ErrReferenced
	}
	m, ok := r.s.translations[t.AttributeID]
	if !ok {
		m = make(map[string]domain.AttributeTranslation)
		r.s.translations[t.AttributeID] = m
	}
	m[t.LanguageCode] = t
	return nil
}

var _ repository.AttributeRepository = (*AttributeRepository)(nil)

package fake

import (
	"context"
	"slices"
	"strings"

	"github.com/ibdaa1/qooqz/internal/domain"
	"github.com/ibdaa1/qooqz/internal/repository"
)

// EntitySettingRepository is an in-memory fake implementing repository.EntitySettingRepository.
type EntitySettingRepository struct {
	s *Store
}

// NewEntitySettingRepository creates a fake settings repository over its own store.
func NewEntitySettingRepository(opts ...Option) *EntitySettingRepository {
	return NewStore(opts...).Settings()
}

func (r *EntitySettingRepository) List(_ context.Context, entityID int64) ([]domain.EntitySetting, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	res := make([]domain.EntitySetting, 0, len(r.s.settings[entityID]))
	for _, st := range r.s.settings[entityID] {
		res = append(res, st)
	}
	slices.SortFunc(res, func(a, b domain.EntitySetting) int { return strings.Compare(a.Key, b.Key) })
	return res, nil
}

func (r *EntitySettingRepository) Find(_ context.Context, entityID int64, key string) (domain.EntitySetting, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if st, ok := r.s.settings[entityID][key]; ok {
		return st, nil
	}
	return domain.EntitySetting{}, repository.ErrNotFound
}

func (r *EntitySettingRepository) UpsertMany(_ context.Context, entityID int64, settings []domain.EntitySetting) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if _, ok := r.s.entities[entityID]; !ok {
		return repository.ErrReferenced
	}
	m := r.s.settingsOf(entityID)
	for _, st := range settings {
		st.EntityID = entityID
		m[st.Key] = st
	}
	return nil
}

func (r *EntitySettingRepository) Delete(_ context.Context, entityID int64, key string) (bool, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if _, ok := r.s.settings[entityID][key]; !ok {
		return false, nil
	}
	delete(r.s.settings[entityID], key)
	return true, nil
}

func (r *EntitySettingRepository) DeleteAll(_ context.Context, entityID int64) (int64, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	n := int64(len(r.s.settings[entityID]))
	delete(r.s.settings, entityID)
	return n, nil
}

var _ repository.EntitySettingRepository = (*EntitySettingRepository)(nil)

// Package fake provides in-memory fakes for repository interfaces for testing.
package fake

import (
	"cmp"
	"slices"
	"strings"
	"sync"
	"time"

	"github.com/ibdaa1/qooqz/internal/domain"
)

// Store is an in-memory EAV database shared by the fake repositories, so that joins,
// tenant scoping and cascades behave like the Postgres schema.
type Store struct {
	mu           sync.Mutex
	entities     map[int64]domain.Entity
	attributes   map[int64]domain.Attribute
	translations map[int64]map[string]domain.AttributeTranslation
	values       map[int64]domain.AttributeValue
	settings     map[int64]map[string]domain.EntitySetting
	lastID       int64
}

// Option configures the fake store.
type Option func(*Store)

// WithEntities seeds the store with entities (by ID).
func WithEntities(items ...domain.Entity) Option {
	return func(s *Store) {
		for _, e := range items {
			s.entities[e.ID] = e
			s.bump(e.ID)
		}
	}
}

// WithAttributes seeds the store with attribute declarations (by ID).
func WithAttributes(items ...domain.Attribute) Option {
	return func(s *Store) {
		for _, a := range items {
			s.attributes[a.ID] = a
			s.bump(a.ID)
		}
	}
}

// WithValues seeds the store with attribute values (by ID).
func WithValues(items ...domain.AttributeValue) Option {
	return func(s *Store) {
		for _, v := range items {
			s.values[v.ID] = v
			s.bump(v.ID)
		}
	}
}

// WithSettings seeds the store with setting overrides.
func WithSettings(items ...domain.EntitySetting) Option {
	return func(s *Store) {
		for _, st := range items {
			s.settingsOf(st.EntityID)[st.Key] = st
		}
	}
}

// NewStore creates a new in-memory store.
func NewStore(opts ...Option) *Store {
	s := &Store{
		entities:     make(map[int64]domain.Entity),
		attributes:   make(map[int64]domain.Attribute),
		translations: make(map[int64]map[string]domain.AttributeTranslation),
		values:       make(map[int64]domain.AttributeValue),
		settings:     make(map[int64]map[string]domain.EntitySetting),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Entities returns an EntityRepository over the store.
func (s *Store) Entities() *EntityRepository { return &EntityRepository{s: s} }

// Attributes returns an AttributeRepository over the store.
func (s *Store) Attributes() *AttributeRepository { return &AttributeRepository{s: s} }

// Values returns an AttributeValueRepository over the store.
func (s *Store) Values() *AttributeValueRepository { return &AttributeValueRepository{s: s} }

// Settings returns an EntitySettingRepository over the store.
func (s *Store) Settings() *EntitySettingRepository { return &EntitySettingRepository{s: s} }

// nextID hands out ids from a single sequence; callers hold mu.
func (s *Store) nextID() int64 {
	s.lastID++
	return s.lastID
}

func (s *Store) bump(id int64) {
	if id > s.lastID {
		s.lastID = id
	}
}

func (s *Store) settingsOf(entityID int64) map[string]domain.EntitySetting {
	m, ok := s.settings[entityID]
	if !ok {
		m = make(map[string]domain.EntitySetting)
		s.settings[entityID] = m
	}
	return m
}

// joined fills the attribute columns of v; callers hold mu.
func (s *Store) joined(v domain.AttributeValue) domain.AttributeValue {
	if a, ok := s.attributes[v.AttributeID]; ok {
		v.AttributeName = a.Name
		v.DataType = a.DataType
	}
	return v
}

// page sorts items by the normalized order column and returns the requested window.
func page[T any](items []T, p domain.ListParams, allowed []string, def, defDir string, key func(T, string) any) []T {
	p = p.Normalize(allowed, def, defDir)
	slices.SortStableFunc(items, func(a, b T) int {
		c := compareAny(key(a, p.OrderBy), key(b, p.OrderBy))
		if p.OrderDir == "DESC" {
			return -c
		}
		return c
	})
	start := p.Offset()
	if start >= len(items) {
		return []T{}
	}
	end := min(start+p.Limit, len(items))
	return items[start:end]
}

func compareAny(a, b any) int {
	switch x := a.(type) {
	case int64:
		return cmp.Compare(x, b.(int64))
	case int:
		return cmp.Compare(x, b.(int))
	case string:
		return strings.Compare(x, b.(string))
	case bool:
		y := b.(bool)
		switch {
		case x == y:
			return 0
		case !x:
			return -1
		default:
			return 1
		}
	case time.Time:
		return x.Compare(b.(time.Time))
	}
	return 0
}

func containsFold(s, sub string) bool {
	return strings.Contains(strings.ToLower(s), strings.ToLower(sub))
}

// Package repository defines the data access contracts of the EAV store.
package repository

import (
	"context"
	"errors"

	"github.com/ibdaa1/qooqz/internal/domain"
)

var (
	// ErrNotFound is returned when the requested row does not exist.
	ErrNotFound = errors.New("not found")
	// ErrConflict is returned when a write violates a uniqueness constraint.
	ErrConflict = errors.New("conflict")
	// ErrReferenced is returned when a write violates a foreign key.
	ErrReferenced = errors.New("referenced row missing or still in use")
)

// EntityRepository stores tenant entities. Every call is scoped to a tenant.
type EntityRepository interface {
	List(ctx context.Context, tenantID int64, f domain.EntityFilter, p domain.ListParams) ([]domain.Entity, error)
	Count(ctx context.Context, tenantID int64, f domain.EntityFilter) (int64, error)
	FindByID(ctx context.Context, tenantID, id int64) (domain.Entity, error)
	Insert(ctx context.Context, e domain.Entity) (domain.Entity, error)
	Update(ctx context.Context, e domain.Entity) (domain.Entity, error)
	// Delete reports whether a row was removed.
	Delete(ctx context.Context, tenantID, id int64) (bool, error)
}

// AttributeRepository stores attribute declarations and their translations.
type AttributeRepository interface {
	List(ctx context.Context, f domain.AttributeFilter, p domain.ListParams, lang string) ([]domain.Attribute, error)
	Count(ctx context.Context, f domain.AttributeFilter) (int64, error)
	FindByID(ctx context.Context, id int64) (domain.Attribute, error)
	FindByName(ctx context.Context, entityType, name string) (domain.Attribute, error)
	// ListByEntityType returns every attribute declared for entityType ordered by sort order.
	ListByEntityType(ctx context.Context, entityType string) ([]domain.Attribute, error)
	Insert(ctx context.Context, a domain.Attribute) (domain.Attribute, error)
	Update(ctx context.Context, a domain.Attribute) (domain.Attribute, error)
	// Delete removes the attribute. With cascade, its values and translations go in the same transaction;
	// without it, ErrReferenced is returned while values exist.
	Delete(ctx context.Context, id int64, cascade bool) (bool, error)
	CountValues(ctx context.Context, id int64) (int64, error)
	Translations(ctx context.Context, id int64) ([]domain.AttributeTranslation, error)
	UpsertTranslation(ctx context.Context, t domain.AttributeTranslation) error
}

// AttributeValueRepository stores entity attribute values. Tenant scoping goes through the owning entity.
type AttributeValueRepository interface {
	List(ctx context.Context, tenantID int64, f domain.AttributeValueFilter, p domain.ListParams) ([]domain.AttributeValue, error)
	Count(ctx context.Context, tenantID int64, f domain.AttributeValueFilter) (int64, error)
	FindByID(ctx context.Context, tenantID, id int64) (domain.AttributeValue, error)
	ListByEntity(ctx context.Context, entityID int64) ([]domain.AttributeValue, error)
	Insert(ctx context.Context, v domain.AttributeValue) (domain.AttributeValue, error)
	Update(ctx context.Context, v domain.AttributeValue) (domain.AttributeValue, error)
	// UpsertMany writes all values of one entity atomically, keyed by attribute.
	UpsertMany(ctx context.Context, entityID int64, values []domain.AttributeValue) ([]domain.AttributeValue, error)
	Delete(ctx context.Context, tenantID, id int64) (bool, error)
	DeleteByEntity(ctx context.Context, entityID int64) (int64, error)
	DeleteByAttribute(ctx context.Context, attributeID int64) (int64, error)
	Statistics(ctx context.Context, tenantID int64) (domain.ValueStatistics, error)
}

// EntitySettingRepository stores per-entity setting overrides.
type EntitySettingRepository interface {
	List(ctx context.Context, entityID int64) ([]domain.EntitySetting, error)
	Find(ctx context.Context, entityID int64, key string) (domain.EntitySetting, error)
	UpsertMany(ctx context.Context, entityID int64, settings []domain.EntitySetting) error
	Delete(ctx context.Context, entityID int64, key string) (bool, error)
	DeleteAll(ctx context.Context, entityID int64) (int64, error)
}

package service

import (
	"context"
	"errors"
	"fmt"
	"slices"

	"github.com/ibdaa1/qooqz/internal/domain"
	"github.com/ibdaa1/qooqz/internal/repository"
	"github.com/ibdaa1/qooqz/internal/validator"
	"github.com/ibdaa1/qooqz/pkg/logger"
)

// AttributeValueService manages the values entities carry for declared attributes.
type AttributeValueService struct {
	entities   repository.EntityRepository
	attributes repository.AttributeRepository
	values     repository.AttributeValueRepository
	clock      Clock
}

// NewAttributeValueService creates a new AttributeValueService.
func NewAttributeValueService(entities repository.EntityRepository, attributes repository.AttributeRepository, values repository.AttributeValueRepository, clock Clock) *AttributeValueService {
	return &AttributeValueService{entities: entities, attributes: attributes, values: values, clock: clock}
}

// ListValues returns a page of values stored on the tenant's entities.
func (s *AttributeValueService) ListValues(ctx context.Context, tenantID int64, f domain.AttributeValueFilter, p domain.ListParams) (domain.Page[domain.AttributeValue], error) {
	p = p.Normalize(domain.AttributeValueOrderColumns, "id", "DESC")
	return listPage(ctx, p,
		func(ctx context.Context, p domain.ListParams) ([]domain.AttributeValue, error) {
			return s.values.List(ctx, tenantID, f, p)
		},
		func(ctx context.Context) (int64, error) { return s.values.Count(ctx, tenantID, f) },
	)
}

// GetValue fetches a value stored on one of the tenant's entities.
func (s *AttributeValueService) GetValue(ctx context.Context, tenantID, id int64) (domain.AttributeValue, error) {
	v, err := s.values.FindByID(ctx, tenantID, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return domain.AttributeValue{}, ErrAttributeValueNotFound
		}
		return domain.AttributeValue{}, fmt.Errorf("find value: %w", err)
	}
	return v, nil
}

// CreateValue stores the first value of an attribute on an entity.
func (s *AttributeValueService) CreateValue(ctx context.Context, tenantID int64, req domain.CreateAttributeValueRequestDTO) (domain.AttributeValue, error) {
	if err := validator.Struct(req); err != nil {
		return domain.AttributeValue{}, err
	}
	e, err := s.entity(ctx, tenantID, req.EntityID)
	if err != nil {
		return domain.AttributeValue{}, err
	}
	a, err := s.attributes.FindByID(ctx, req.AttributeID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return domain.AttributeValue{}, fmt.Errorf("%w: attribute %d", ErrUndeclaredAttribute, req.AttributeID)
		}
		return domain.AttributeValue{}, fmt.Errorf("find attribute: %w", err)
	}
	if a.EntityType != e.Type {
		return domain.AttributeValue{}, fmt.Errorf("%w: %s is declared for %s, not %s", ErrEntityTypeMismatch, a.Name, a.EntityType, e.Type)
	}
	val, err := validator.CoerceValue(a, req.Value)
	if err != nil {
		return domain.AttributeValue{}, err
	}
	now := s.clock.Now()
	v := domain.AttributeValue{EntityID: e.ID, AttributeID: a.ID, Value: val, CreatedAt: now, UpdatedAt: now}
	out, err := s.values.Insert(ctx, v)
	if err != nil {
		switch {
		case errors.Is(err, repository.ErrConflict):
			return domain.AttributeValue{}, ErrDuplicateValue
		case errors.Is(err, repository.ErrReferenced):
			return domain.AttributeValue{}, ErrEntityNotFound
		}
		return domain.AttributeValue{}, fmt.Errorf("insert value: %w", err)
	}
	out.AttributeName, out.DataType = a.Name, a.DataType
	return out, nil
}

// UpdateValue replaces a stored value, checked against its attribute's type.
func (s *AttributeValueService) UpdateValue(ctx context.Context, tenantID, id int64, req domain.UpdateAttributeValueRequestDTO) (domain.AttributeValue, error) {
	cur, err := s.GetValue(ctx, tenantID, id)
	if err != nil {
		return domain.AttributeValue{}, err
	}
	a, err := s.attributes.FindByID(ctx, cur.AttributeID)
	if err != nil {
		return domain.AttributeValue{}, notFoundAttribute(err)
	}
	val, err := validator.CoerceValue(a, req.Value)
	if err != nil {
		return domain.AttributeValue{}, err
	}
	cur.Value = val
	cur.UpdatedAt = s.clock.Now()
	if _, err := s.values.Update(ctx, cur); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return domain.AttributeValue{}, ErrAttributeValueNotFound
		}
		return domain.AttributeValue{}, fmt.Errorf("update value: %w", err)
	}
	return cur, nil
}

// DeleteValue removes a single value. Deleting a missing value is not an error.
func (s *AttributeValueService) DeleteValue(ctx context.Context, tenantID, id int64) (domain.DeleteResultDTO, error) {
	deleted, err := s.values.Delete(ctx, tenantID, id)
	if err != nil {
		return domain.DeleteResultDTO{}, fmt.Errorf("delete value: %w", err)
	}
	return domain.DeleteResultDTO{Deleted: deleted}, nil
}

// EntityValues returns an entity with its values keyed by attribute name.
func (s *AttributeValueService) EntityValues(ctx context.Context, tenantID, entityID int64) (domain.EntityValuesDTO, error) {
	e, err := s.entity(ctx, tenantID, entityID)
	if err != nil {
		return domain.EntityValuesDTO{}, err
	}
	return s.entityValues(ctx, e)
}

func (s *AttributeValueService) entityValues(ctx context.Context, e domain.Entity) (domain.EntityValuesDTO, error) {
	vals, err := s.values.ListByEntity(ctx, e.ID)
	if err != nil {
		return domain.EntityValuesDTO{}, fmt.Errorf("list entity values: %w", err)
	}
	out := domain.EntityValuesDTO{Entity: e, Values: make(map[string]any, len(vals))}
	for _, v := range vals {
		out.Values[v.AttributeName] = v.Value
	}
	return out, nil
}

// SaveEntityValues upserts values keyed by attribute name in one transaction. Every name must be
// declared for the entity's type, and required attributes must have a value once the save is done.
func (s *AttributeValueService) SaveEntityValues(ctx context.Context, tenantID, entityID int64, req domain.SaveEntityValuesRequestDTO) (domain.EntityValuesDTO, error) {
	if err := validator.Struct(req); err != nil {
		return domain.EntityValuesDTO{}, err
	}
	e, err := s.entity(ctx, tenantID, entityID)
	if err != nil {
		return domain.EntityValuesDTO{}, err
	}
	declared, err := s.attributes.ListByEntityType(ctx, e.Type)
	if err != nil {
		return domain.EntityValuesDTO{}, fmt.Errorf("list attributes: %w", err)
	}
	byName := make(map[string]domain.Attribute, len(declared))
	for _, a := range declared {
		byName[a.Name] = a
	}

	names := make([]string, 0, len(req.Values))
	for name := range req.Values {
		names = append(names, name)
	}
	slices.Sort(names)

	now := s.clock.Now()
	var errs validator.Errors
	batch := make([]domain.AttributeValue, 0, len(names))
	for _, name := range names {
		a, ok := byName[name]
		if !ok {
			return domain.EntityValuesDTO{}, fmt.Errorf("%w: %s", ErrUndeclaredAttribute, name)
		}
		val, err := validator.CoerceValue(a, req.Values[name])
		if err != nil {
			if fe, ok := validator.AsErrors(err); ok {
				errs = append(errs, fe...)
				continue
			}
			return domain.EntityValuesDTO{}, err
		}
		batch = append(batch, domain.AttributeValue{EntityID: e.ID, AttributeID: a.ID, Value: val, CreatedAt: now, UpdatedAt: now, AttributeName: a.Name, DataType: a.DataType})
	}
	if len(errs) > 0 {
		return domain.EntityValuesDTO{}, errs
	}

	existing, err := s.values.ListByEntity(ctx, e.ID)
	if err != nil {
		return domain.EntityValuesDTO{}, fmt.Errorf("list entity values: %w", err)
	}
	have := make(map[int64]bool, len(existing)+len(batch))
	for _, v := range existing {
		have[v.AttributeID] = true
	}
	for _, v := range batch {
		have[v.AttributeID] = true
	}
	for _, a := range declared {
		if a.IsRequired && !have[a.ID] {
			errs = append(errs, validator.FieldError{Field: a.Name, Message: "is required"})
		}
	}
	if len(errs) > 0 {
		return domain.EntityValuesDTO{}, errs
	}

	if _, err := s.values.UpsertMany(ctx, e.ID, batch); err != nil {
		if errors.Is(err, repository.ErrReferenced) {
			return domain.EntityValuesDTO{}, fmt.Errorf("%w: attribute removed during save", ErrUndeclaredAttribute)
		}
		return domain.EntityValuesDTO{}, fmt.Errorf("save entity values: %w", err)
	}
	logger.With(ctx, map[string]any{"entity_id": e.ID, "count": len(batch)}).Info("entity values saved")
	return s.entityValues(ctx, e)
}

// DeleteEntityValues removes every value of an entity.
func (s *AttributeValueService) DeleteEntityValues(ctx context.Context, tenantID, entityID int64) (domain.DeletedCountDTO, error) {
	if _, err := s.entity(ctx, tenantID, entityID); err != nil {
		return domain.DeletedCountDTO{}, err
	}
	n, err := s.values.DeleteByEntity(ctx, entityID)
	if err != nil {
		return domain.DeletedCountDTO{}, fmt.Errorf("delete entity values: %w", err)
	}
	return domain.DeletedCountDTO{Deleted: n}, nil
}

// DeleteAttributeValues removes every value of an attribute across entities.
func (s *AttributeValueService) DeleteAttributeValues(ctx context.Context, attributeID int64) (domain.DeletedCountDTO, error) {
	if _, err := s.attributes.FindByID(ctx, attributeID); err != nil {
		return domain.DeletedCountDTO{}, notFoundAttribute(err)
	}
	n, err := s.values.DeleteByAttribute(ctx, attributeID)
	if err != nil {
		return domain.DeletedCountDTO{}, fmt.Errorf("delete attribute values: %w", err)
	}
	logger.With(ctx, map[string]any{"attribute_id": attributeID, "count": n}).Info("attribute values deleted")
	return domain.DeletedCountDTO{Deleted: n}, nil
}

// Statistics summarizes the values stored on the tenant's entities.
func (s *AttributeValueService) Statistics(ctx context.Context, tenantID int64) (domain.ValueStatistics, error) {
	st, err := s.values.Statistics(ctx, tenantID)
	if err != nil {
		return domain.ValueStatistics{}, fmt.Errorf("value statistics: %w", err)
	}
	return st, nil
}

func (s *AttributeValueService) entity(ctx context.Context, tenantID, id int64) (domain.Entity, error) {
	e, err := s.entities.FindByID(ctx, tenantID, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return domain.Entity{}, ErrEntityNotFound
		}
		return domain.Entity{}, fmt.Errorf("find entity: %w", err)
	}
	return e, nil
}

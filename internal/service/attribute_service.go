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

// AttributeService manages attribute declarations. Attributes are shared by every tenant.
type AttributeService struct {
	repo  repository.AttributeRepository
	clock Clock
}

// NewAttributeService creates a new AttributeService with the given repository and Clock.
func NewAttributeService(repo repository.AttributeRepository, clock Clock) *AttributeService {
	return &AttributeService{repo: repo, clock: clock}
}

// ListAttributes returns a page of attributes labelled in lang where translated.
func (s *AttributeService) ListAttributes(ctx context.Context, f domain.AttributeFilter, p domain.ListParams, lang string) (domain.Page[domain.Attribute], error) {
	p = p.Normalize(domain.AttributeOrderColumns, "sort_order", "ASC")
	return listPage(ctx, p,
		func(ctx context.Context, p domain.ListParams) ([]domain.Attribute, error) {
			return s.repo.List(ctx, f, p, lang)
		},
		func(ctx context.Context) (int64, error) { return s.repo.Count(ctx, f) },
	)
}

// GetAttribute fetches an attribute by id.
func (s *AttributeService) GetAttribute(ctx context.Context, id int64) (domain.Attribute, error) {
	a, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return domain.Attribute{}, notFoundAttribute(err)
	}
	return a, nil
}

// GetAttributeByName fetches the attribute declared as name for entityType.
func (s *AttributeService) GetAttributeByName(ctx context.Context, entityType, name string) (domain.Attribute, error) {
	a, err := s.repo.FindByName(ctx, entityType, name)
	if err != nil {
		return domain.Attribute{}, notFoundAttribute(err)
	}
	return a, nil
}

// CreateAttribute declares a new attribute for an entity type.
func (s *AttributeService) CreateAttribute(ctx context.Context, req domain.CreateAttributeRequestDTO) (domain.Attribute, error) {
	if err := validator.Struct(req); err != nil {
		return domain.Attribute{}, err
	}
	if err := validator.CheckAttributeDefinition(req.DataType, req.Options); err != nil {
		return domain.Attribute{}, err
	}
	if _, err := s.repo.FindByName(ctx, req.EntityType, req.Name); err == nil {
		return domain.Attribute{}, ErrDuplicateAttribute
	} else if !errors.Is(err, repository.ErrNotFound) {
		return domain.Attribute{}, fmt.Errorf("find attribute: %w", err)
	}
	now := s.clock.Now()
	a := domain.Attribute{
		EntityType: req.EntityType,
		Name:       req.Name,
		DataType:   req.DataType,
		Options:    req.Options,
		IsRequired: req.IsRequired,
		SortOrder:  req.SortOrder,
		CreatedAt:  now,
		UpdatedAt:  now,
	}
	out, err := s.repo.Insert(ctx, a)
	if err != nil {
		if errors.Is(err, repository.ErrConflict) {
			return domain.Attribute{}, ErrDuplicateAttribute
		}
		return domain.Attribute{}, fmt.Errorf("insert attribute: %w", err)
	}
	logger.With(ctx, map[string]any{"attribute_id": out.ID, "entity_type": out.EntityType, "name": out.Name}).Info("attribute declared")
	return out, nil
}

// UpdateAttribute changes the type, options, requirement and order of an attribute.
// The data type is locked once values exist, and enum options may then only grow.
func (s *AttributeService) UpdateAttribute(ctx context.Context, id int64, req domain.UpdateAttributeRequestDTO) (domain.Attribute, error) {
	if err := validator.Struct(req); err != nil {
		return domain.Attribute{}, err
	}
	if err := validator.CheckAttributeDefinition(req.DataType, req.Options); err != nil {
		return domain.Attribute{}, err
	}
	cur, err := s.GetAttribute(ctx, id)
	if err != nil {
		return domain.Attribute{}, err
	}
	typeChanged := cur.DataType != req.DataType
	if typeChanged || droppedOption(cur.Options, req.Options) {
		n, err := s.repo.CountValues(ctx, id)
		if err != nil {
			return domain.Attribute{}, fmt.Errorf("count values: %w", err)
		}
		switch {
		case n > 0 && typeChanged:
			return domain.Attribute{}, ErrDataTypeLocked
		case n > 0:
			return domain.Attribute{}, ErrOptionsLocked
		}
	}
	cur.DataType = req.DataType
	cur.Options = req.Options
	cur.IsRequired = req.IsRequired
	cur.SortOrder = req.SortOrder
	cur.UpdatedAt = s.clock.Now()
	out, err := s.repo.Update(ctx, cur)
	if err != nil {
		return domain.Attribute{}, notFoundAttribute(err)
	}
	return out, nil
}

// droppedOption reports whether next lacks any option present in cur.
func droppedOption(cur, next []string) bool {
	for _, o := range cur {
		if !slices.Contains(next, o) {
			return true
		}
	}
	return false
}

// DeleteAttribute removes an attribute. Stored values block the delete unless cascade is set.
func (s *AttributeService) DeleteAttribute(ctx context.Context, id int64, cascade bool) (domain.DeleteResultDTO, error) {
	if !cascade {
		n, err := s.repo.CountValues(ctx, id)
		if err != nil {
			return domain.DeleteResultDTO{}, fmt.Errorf("count values: %w", err)
		}
		if n > 0 {
			return domain.DeleteResultDTO{}, ErrAttributeInUse
		}
	}
	deleted, err := s.repo.Delete(ctx, id, cascade)
	if err != nil {
		if errors.Is(err, repository.ErrReferenced) {
			return domain.DeleteResultDTO{}, ErrAttributeInUse
		}
		return domain.DeleteResultDTO{}, fmt.Errorf("delete attribute: %w", err)
	}
	if deleted {
		logger.With(ctx, map[string]any{"attribute_id": id, "cascade": cascade}).Info("attribute deleted")
	}
	return domain.DeleteResultDTO{Deleted: deleted}, nil
}

// Translations lists the labels of an attribute per language.
func (s *AttributeService) Translations(ctx context.Context, id int64) ([]domain.AttributeTranslation, error) {
	if _, err := s.GetAttribute(ctx, id); err != nil {
		return nil, err
	}
	ts, err := s.repo.Translations(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("list translations: %w", err)
	}
	return ts, nil
}

// SetTranslation creates or replaces the label of an attribute in lang.
func (s *AttributeService) SetTranslation(ctx context.Context, id int64, lang string, req domain.TranslationRequestDTO) (domain.AttributeTranslation, error) {
	if err := validator.CheckLanguageCode(lang); err != nil {
		return domain.AttributeTranslation{}, err
	}
	if err := validator.Struct(req); err != nil {
		return domain.AttributeTranslation{}, err
	}
	if _, err := s.GetAttribute(ctx, id); err != nil {
		return domain.AttributeTranslation{}, err
	}
	t := domain.AttributeTranslation{AttributeID: id, LanguageCode: lang, Label: req.Label, Description: req.Description}
	if err := s.repo.UpsertTranslation(ctx, t); err != nil {
		return domain.AttributeTranslation{}, notFoundAttribute(err)
	}
	return t, nil
}

func notFoundAttribute(err error) error {
	if errors.Is(err, repository.ErrNotFound) || errors.Is(err, repository.ErrReferenced) {
		return ErrAttributeNotFound
	}
	return fmt.Errorf("attribute: %w", err)
}

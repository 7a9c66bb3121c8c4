package service

import (
	"context"
	"errors"
	"fmt"
	"slices"

	"github.com/ibdaa1/qooqz/internal/domain"
	"github.com/ibdaa1/qooqz/internal/repository"
	"github.com/ibdaa1/qooqz/internal/validator"
)

// EntitySettingService resolves entity settings as defaults overlaid with stored overrides.
type EntitySettingService struct {
	entities repository.EntityRepository
	settings repository.EntitySettingRepository
	clock    Clock
}

// NewEntitySettingService creates a new EntitySettingService.
func NewEntitySettingService(entities repository.EntityRepository, settings repository.EntitySettingRepository, clock Clock) *EntitySettingService {
	return &EntitySettingService{entities: entities, settings: settings, clock: clock}
}

// EffectiveSettings returns every default with the entity's overrides applied.
func (s *EntitySettingService) EffectiveSettings(ctx context.Context, tenantID, entityID int64) (domain.EffectiveSettingsDTO, error) {
	if err := s.ensureEntity(ctx, tenantID, entityID); err != nil {
		return domain.EffectiveSettingsDTO{}, err
	}
	return s.effective(ctx, entityID)
}

func (s *EntitySettingService) effective(ctx context.Context, entityID int64) (domain.EffectiveSettingsDTO, error) {
	stored, err := s.settings.List(ctx, entityID)
	if err != nil {
		return domain.EffectiveSettingsDTO{}, fmt.Errorf("list settings: %w", err)
	}
	out := domain.EffectiveSettingsDTO{EntityID: entityID, Settings: domain.DefaultEntitySettings(), Overridden: make([]string, 0, len(stored))}
	for _, st := range stored {
		out.Settings[st.Key] = st.Value
		out.Overridden = append(out.Overridden, st.Key)
	}
	slices.Sort(out.Overridden)
	return out, nil
}

// GetSetting resolves one key, falling back to its default when it is known and unset.
func (s *EntitySettingService) GetSetting(ctx context.Context, tenantID, entityID int64, key string) (domain.SettingDTO, error) {
	if err := s.ensureEntity(ctx, tenantID, entityID); err != nil {
		return domain.SettingDTO{}, err
	}
	st, err := s.settings.Find(ctx, entityID, key)
	switch {
	case err == nil:
		return domain.SettingDTO{EntityID: entityID, Key: key, Value: st.Value}, nil
	case errors.Is(err, repository.ErrNotFound):
		if def, ok := domain.DefaultEntitySettings()[key]; ok {
			return domain.SettingDTO{EntityID: entityID, Key: key, Value: def, IsDefault: true}, nil
		}
		return domain.SettingDTO{}, ErrSettingNotFound
	default:
		return domain.SettingDTO{}, fmt.Errorf("find setting: %w", err)
	}
}

// SaveSettings upserts several overrides at once and returns the effective settings.
func (s *EntitySettingService) SaveSettings(ctx context.Context, tenantID, entityID int64, req domain.SaveSettingsRequestDTO) (domain.EffectiveSettingsDTO, error) {
	if err := validator.Struct(req); err != nil {
		return domain.EffectiveSettingsDTO{}, err
	}
	if err := s.ensureEntity(ctx, tenantID, entityID); err != nil {
		return domain.EffectiveSettingsDTO{}, err
	}
	keys := make([]string, 0, len(req.Settings))
	for k := range req.Settings {
		keys = append(keys, k)
	}
	slices.Sort(keys)

	now := s.clock.Now()
	var errs validator.Errors
	batch := make([]domain.EntitySetting, 0, len(keys))
	for _, k := range keys {
		val, err := validator.CheckSetting(k, req.Settings[k])
		if err != nil {
			if fe, ok := validator.AsErrors(err); ok {
				errs = append(errs, fe...)
				continue
			}
			return domain.EffectiveSettingsDTO{}, err
		}
		batch = append(batch, domain.EntitySetting{EntityID: entityID, Key: k, Value: val, UpdatedAt: now})
	}
	if len(errs) > 0 {
		return domain.EffectiveSettingsDTO{}, errs
	}
	if err := s.settings.UpsertMany(ctx, entityID, batch); err != nil {
		return domain.EffectiveSettingsDTO{}, settingWriteError(err)
	}
	return s.effective(ctx, entityID)
}

// SetSetting upserts one override.
func (s *EntitySettingService) SetSetting(ctx context.Context, tenantID, entityID int64, key string, req domain.SetSettingRequestDTO) (domain.SettingDTO, error) {
	val, err := validator.CheckSetting(key, req.Value)
	if err != nil {
		return domain.SettingDTO{}, err
	}
	if err := s.ensureEntity(ctx, tenantID, entityID); err != nil {
		return domain.SettingDTO{}, err
	}
	st := domain.EntitySetting{EntityID: entityID, Key: key, Value: val, UpdatedAt: s.clock.Now()}
	if err := s.settings.UpsertMany(ctx, entityID, []domain.EntitySetting{st}); err != nil {
		return domain.SettingDTO{}, settingWriteError(err)
	}
	return domain.SettingDTO{EntityID: entityID, Key: key, Value: val}, nil
}

// DeleteSetting drops one override so the key falls back to its default.
func (s *EntitySettingService) DeleteSetting(ctx context.Context, tenantID, entityID int64, key string) (domain.DeleteResultDTO, error) {
	if err := s.ensureEntity(ctx, tenantID, entityID); err != nil {
		return domain.DeleteResultDTO{}, err
	}
	deleted, err := s.settings.Delete(ctx, entityID, key)
	if err != nil {
		return domain.DeleteResultDTO{}, fmt.Errorf("delete setting: %w", err)
	}
	return domain.DeleteResultDTO{Deleted: deleted}, nil
}

// ResetSettings drops every override of an entity.
func (s *EntitySettingService) ResetSettings(ctx context.Context, tenantID, entityID int64) (domain.DeletedCountDTO, error) {
	if err := s.ensureEntity(ctx, tenantID, entityID); err != nil {
		return domain.DeletedCountDTO{}, err
	}
	n, err := s.settings.DeleteAll(ctx, entityID)
	if err != nil {
		return domain.DeletedCountDTO{}, fmt.Errorf("reset settings: %w", err)
	}
	return domain.DeletedCountDTO{Deleted: n}, nil
}

func (s *EntitySettingService) ensureEntity(ctx context.Context, tenantID, entityID int64) error {
	if _, err := s.entities.FindByID(ctx, tenantID, entityID); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return ErrEntityNotFound
		}
		return fmt.Errorf("find entity: %w", err)
	}
	return nil
}

func settingWriteError(err error) error {
	if errors.Is(err, repository.ErrReferenced) {
		return ErrEntityNotFound
	}
	return fmt.Errorf("save settings: %w", err)
}

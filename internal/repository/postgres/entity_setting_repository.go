package postgres

import (
	"context"
	"fmt"

	"github.com/ibdaa1/qooqz/internal/domain"
	"github.com/ibdaa1/qooqz/internal/repository"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// EntitySettingRepository implements repository.EntitySettingRepository using Postgres.
type EntitySettingRepository struct {
	pool *pgxpool.Pool
}

// NewEntitySettingRepository creates a new Postgres-backed settings repository.
func NewEntitySettingRepository(pool *pgxpool.Pool) *EntitySettingRepository {
	return &EntitySettingRepository{pool: pool}
}

func scanSetting(row pgx.Row) (domain.EntitySetting, error) {
	var (
		s   domain.EntitySetting
		raw []byte
	)
	if err := row.Scan(&s.EntityID, &s.Key, &raw, &s.UpdatedAt); err != nil {
		return domain.EntitySetting{}, err
	}
	val, err := unmarshalJSON(raw)
	if err != nil {
		return domain.EntitySetting{}, fmt.Errorf("unmarshal setting: %w", err)
	}
	s.Value = val
	return s, nil
}

// List returns the stored overrides of an entity ordered by key.
func (r *EntitySettingRepository) List(ctx context.Context, entityID int64) ([]domain.EntitySetting, error) {
	rows, err := r.pool.Query(ctx, "SELECT entity_id, key, value, updated_at FROM entity_settings WHERE entity_id = $1 ORDER BY key", entityID)
	if err != nil {
		return nil, classify("list settings", err)
	}
	defer rows.Close()
	res := make([]domain.EntitySetting, 0)
	for rows.Next() {
		s, err := scanSetting(rows)
		if err != nil {
			return nil, classify("scan setting", err)
		}
		res = append(res, s)
	}
	if err := rows.Err(); err != nil {
		return nil, classify("list settings", err)
	}
	return res, nil
}

// Find retrieves one stored override.
func (r *EntitySettingRepository) Find(ctx context.Context, entityID int64, key string) (domain.EntitySetting, error) {
	row := r.pool.QueryRow(ctx, "SELECT entity_id, key, value, updated_at FROM entity_settings WHERE entity_id = $1 AND key = $2", entityID, key)
	s, err := scanSetting(row)
	if err != nil {
		return domain.EntitySetting{}, classify("find setting", err)
	}
	return s, nil
}

// UpsertMany writes settings in one transaction.
func (r *EntitySettingRepository) UpsertMany(ctx context.Context, entityID int64, settings []domain.EntitySetting) error {
	const q = `
INSERT INTO entity_settings (entity_id, key, value, updated_at)
VALUES ($1, $2, $3::jsonb, $4)
ON CONFLICT (entity_id, key)
DO UPDATE SET value = EXCLUDED.value, updated_at = EXCLUDED.updated_at
`
	return beginTx(ctx, r.pool, func(tx pgx.Tx) error {
		for _, s := range settings {
			raw, err := marshalJSON(s.Value)
			if err != nil {
				return fmt.Errorf("marshal setting %s: %w", s.Key, err)
			}
			if _, err := tx.Exec(ctx, q, entityID, s.Key, raw, s.UpdatedAt); err != nil {
				return classify("upsert setting", err)
			}
		}
		return nil
	})
}

// Delete removes one override.
func (r *EntitySettingRepository) Delete(ctx context.Context, entityID int64, key string) (bool, error) {
	ct, err := r.pool.Exec(ctx, "DELETE FROM entity_settings WHERE entity_id = $1 AND key = $2", entityID, key)
	if err != nil {
		return false, classify("delete setting", err)
	}
	return ct.RowsAffected() > 0, nil
}

// DeleteAll removes every override of an entity.
func (r *EntitySettingRepository) DeleteAll(ctx context.Context, entityID int64) (int64, error) {
	ct, err := r.pool.Exec(ctx, "DELETE FROM entity_settings WHERE entity_id = $1", entityID)
	if err != nil {
		return 0, classify("delete settings", err)
	}
	return ct.RowsAffected(), nil
}

var _ repository.EntitySettingRepository = (*EntitySettingRepository)(nil)

package postgres

import (
	"context"
	"fmt"

	"github.com/ibdaa1/qooqz/internal/domain"
	"github.com/ibdaa1/qooqz/internal/repository"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

const valueColumns = "v.id, v.entity_id, v.attribute_id, v.value, v.created_at, v.updated_at, a.name, a.data_type"

const valueFrom = " FROM entity_attribute_values v" +
	" JOIN entities e ON e.id = v.entity_id" +
	" JOIN entity_attributes a ON a.id = v.attribute_id"

// AttributeValueRepository implements repository.AttributeValueRepository using Postgres.
type AttributeValueRepository struct {
	pool *pgxpool.Pool
}

// NewAttributeValueRepository creates a new Postgres-backed value repository.
func NewAttributeValueRepository(pool *pgxpool.Pool) *AttributeValueRepository {
	return &AttributeValueRepository{pool: pool}
}

func scanValue(row pgx.Row) (domain.AttributeValue, error) {
	var (
		v   domain.AttributeValue
		raw []byte
	)
	if err := row.Scan(&v.ID, &v.EntityID, &v.AttributeID, &raw, &v.CreatedAt, &v.UpdatedAt, &v.AttributeName, &v.DataType); err != nil {
		return domain.AttributeValue{}, err
	}
	val, err := unmarshalJSON(raw)
	if err != nil {
		return domain.AttributeValue{}, fmt.Errorf("unmarshal value: %w", err)
	}
	v.Value = val
	return v, nil
}

func valueWhere(tenantID int64, f domain.AttributeValueFilter) *where {
	w := &where{}
	w.add("e.tenant_id = ?", tenantID)
	if f.EntityID > 0 {
		w.add("v.entity_id = ?", f.EntityID)
	}
	if f.AttributeID > 0 {
		w.add("v.attribute_id = ?", f.AttributeID)
	}
	if f.AttributeName != "" {
		w.add("a.name = ?", f.AttributeName)
	}
	if f.DataType != "" {
		w.add("a.data_type = ?", f.DataType)
	}
	return w
}

func (r *AttributeValueRepository) query(ctx context.Context, op, q string, args ...any) ([]domain.AttributeValue, error) {
	rows, err := r.pool.Query(ctx, q, args...)
	if err != nil {
		return nil, classify(op, err)
	}
	defer rows.Close()
	res := make([]domain.AttributeValue, 0)
	for rows.Next() {
		v, err := scanValue(rows)
		if err != nil {
			return nil, classify("scan value", err)
		}
		res = append(res, v)
	}
	if err := rows.Err(); err != nil {
		return nil, classify(op, err)
	}
	return res, nil
}

// List returns one page of values stored on the tenant's entities.
func (r *AttributeValueRepository) List(ctx context.Context, tenantID int64, f domain.AttributeValueFilter, p domain.ListParams) ([]domain.AttributeValue, error) {
	w := valueWhere(tenantID, f)
	q := "SELECT " + valueColumns + valueFrom + w.sql() +
		w.orderLimit(p, domain.AttributeValueOrderColumns, "id", "DESC", prefixed("v"))
	return r.query(ctx, "list values", q, w.args...)
}

// Count returns how many of the tenant's values match f.
func (r *AttributeValueRepository) Count(ctx context.Context, tenantID int64, f domain.AttributeValueFilter) (int64, error) {
	w := valueWhere(tenantID, f)
	var n int64
	if err := r.pool.QueryRow(ctx, "SELECT COUNT(*)"+valueFrom+w.sql(), w.args...).Scan(&n); err != nil {
		return 0, classify("count values", err)
	}
	return n, nil
}

// FindByID retrieves a value when its entity belongs to the tenant.
func (r *AttributeValueRepository) FindByID(ctx context.Context, tenantID, id int64) (domain.AttributeValue, error) {
	q := "SELECT " + valueColumns + valueFrom + " WHERE v.id = $1 AND e.tenant_id = $2"
	v, err := scanValue(r.pool.QueryRow(ctx, q, id, tenantID))
	if err != nil {
		return domain.AttributeValue{}, classify("find value", err)
	}
	return v, nil
}

// ListByEntity returns every value of an entity ordered by attribute sort order.
func (r *AttributeValueRepository) ListByEntity(ctx context.Context, entityID int64) ([]domain.AttributeValue, error) {
	q := "SELECT " + valueColumns + valueFrom + " WHERE v.entity_id = $1 ORDER BY a.sort_order ASC, a.id ASC"
	return r.query(ctx, "list entity values", q, entityID)
}

// Insert stores a new value; a second value for the same attribute is a conflict.
func (r *AttributeValueRepository) Insert(ctx context.Context, v domain.AttributeValue) (domain.AttributeValue, error) {
	raw, err := marshalJSON(v.Value)
	if err != nil {
		return domain.AttributeValue{}, fmt.Errorf("marshal value: %w", err)
	}
	const q = `
INSERT INTO entity_attribute_values (entity_id, attribute_id, value, created_at, updated_at)
VALUES ($1, $2, $3::jsonb, $4, $5)
RETURNING id
`
	if err := r.pool.QueryRow(ctx, q, v.EntityID, v.AttributeID, raw, v.CreatedAt, v.UpdatedAt).Scan(&v.ID); err != nil {
		return domain.AttributeValue{}, classify("insert value", err)
	}
	return v, nil
}

// Update replaces the stored value.
func (r *AttributeValueRepository) Update(ctx context.Context, v domain.AttributeValue) (domain.AttributeValue, error) {
	raw, err := marshalJSON(v.Value)
	if err != nil {
		return domain.AttributeValue{}, fmt.Errorf("marshal value: %w", err)
	}
	ct, err := r.pool.Exec(ctx, "UPDATE entity_attribute_values SET value = $2::jsonb, updated_at = $3 WHERE id = $1", v.ID, raw, v.UpdatedAt)
	if err != nil {
		return domain.AttributeValue{}, classify("update value", err)
	}
	if ct.RowsAffected() == 0 {
		return domain.AttributeValue{}, repository.ErrNotFound
	}
	return v, nil
}

// UpsertMany writes values in one transaction, updating those that already exist.
func (r *AttributeValueRepository) UpsertMany(ctx context.Context, entityID int64, values []domain.AttributeValue) ([]domain.AttributeValue, error) {
	const q = `
INSERT INTO entity_attribute_values (entity_id, attribute_id, value, created_at, updated_at)
VALUES ($1, $2, $3::jsonb, $4, $5)
ON CONFLICT (entity_id, attribute_id)
DO UPDATE SET value = EXCLUDED.value, updated_at = EXCLUDED.updated_at
RETURNING id, created_at
`
	out := make([]domain.AttributeValue, 0, len(values))
	err := beginTx(ctx, r.pool, func(tx pgx.Tx) error {
		for _, v := range values {
			raw, err := marshalJSON(v.Value)
			if err != nil {
				return fmt.Errorf("marshal value: %w", err)
			}
			v.EntityID = entityID
			if err := tx.QueryRow(ctx, q, entityID, v.AttributeID, raw, v.CreatedAt, v.UpdatedAt).Scan(&v.ID, &v.CreatedAt); err != nil {
				return classify("upsert value", err)
			}
			out = append(out, v)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

// Delete removes a value when its entity belongs to the tenant.
func (r *AttributeValueRepository) Delete(ctx context.Context, tenantID, id int64) (bool, error) {
	const q = `
DELETE FROM entity_attribute_values v
USING entities e
WHERE v.id = $1 AND e.id = v.entity_id AND e.tenant_id = $2
`
	ct, err := r.pool.Exec(ctx, q, id, tenantID)
	if err != nil {
		return false, classify("delete value", err)
	}
	return ct.RowsAffected() > 0, nil
}

// DeleteByEntity removes every value of an entity and returns how many went.
func (r *AttributeValueRepository) DeleteByEntity(ctx context.Context, entityID int64) (int64, error) {
	ct, err := r.pool.Exec(ctx, "DELETE FROM entity_attribute_values WHERE entity_id = $1", entityID)
	if err != nil {
		return 0, classify("delete entity values", err)
	}
	return ct.RowsAffected(), nil
}

// DeleteByAttribute removes every value of an attribute and returns how many went.
func (r *AttributeValueRepository) DeleteByAttribute(ctx context.Context, attributeID int64) (int64, error) {
	ct, err := r.pool.Exec(ctx, "DELETE FROM entity_attribute_values WHERE attribute_id = $1", attributeID)
	if err != nil {
		return 0, classify("delete attribute values", err)
	}
	return ct.RowsAffected(), nil
}

// Statistics summarizes the values stored on the tenant's entities.
func (r *AttributeValueRepository) Statistics(ctx context.Context, tenantID int64) (domain.ValueStatistics, error) {
	const q = `
SELECT COUNT(*), COUNT(DISTINCT v.entity_id), COUNT(DISTINCT v.attribute_id)
FROM entity_attribute_values v
JOIN entities e ON e.id = v.entity_id
WHERE e.tenant_id = $1
`
	var s domain.ValueStatistics
	if err := r.pool.QueryRow(ctx, q, tenantID).Scan(&s.TotalValues, &s.EntitiesWithValues, &s.AttributesWithValues); err != nil {
		return domain.ValueStatistics{}, classify("value statistics", err)
	}
	return s, nil
}

var _ repository.AttributeValueRepository = (*AttributeValueRepository)(nil)

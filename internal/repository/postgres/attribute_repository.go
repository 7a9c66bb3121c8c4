package postgres

import (
	"context"
	"fmt"

	"github.com/ibdaa1/qooqz/internal/domain"
	"github.com/ibdaa1/qooqz/internal/repository"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

const attributeColumns = "a.id, a.entity_type, a.name, a.data_type, a.options, a.is_required, a.sort_order, a.created_at, a.updated_at"

// AttributeRepository implements repository.AttributeRepository using Postgres.
type AttributeRepository struct {
	pool *pgxpool.Pool
}

// NewAttributeRepository creates a new Postgres-backed attribute repository.
func NewAttributeRepository(pool *pgxpool.Pool) *AttributeRepository {
	return &AttributeRepository{pool: pool}
}

// scanAttribute reads attributeColumns, optionally followed by a label column.
func scanAttribute(row pgx.Row, withLabel bool) (domain.Attribute, error) {
	var (
		a          domain.Attribute
		optionsRaw []byte
	)
	dest := []any{&a.ID, &a.EntityType, &a.Name, &a.DataType, &optionsRaw, &a.IsRequired, &a.SortOrder, &a.CreatedAt, &a.UpdatedAt}
	if withLabel {
		dest = append(dest, &a.Label)
	}
	if err := row.Scan(dest...); err != nil {
		return domain.Attribute{}, err
	}
	if err := decodeOptions(optionsRaw, &a); err != nil {
		return domain.Attribute{}, err
	}
	return a, nil
}

func decodeOptions(raw []byte, a *domain.Attribute) error {
	v, err := unmarshalJSON(raw)
	if err != nil {
		return fmt.Errorf("unmarshal options: %w", err)
	}
	items, _ := v.([]any)
	for _, it := range items {
		if s, ok := it.(string); ok {
			a.Options = append(a.Options, s)
		}
	}
	return nil
}

func attributeWhere(w *where, f domain.AttributeFilter) {
	if f.EntityType != "" {
		w.add("a.entity_type = ?", f.EntityType)
	}
	if f.DataType != "" {
		w.add("a.data_type = ?", f.DataType)
	}
	if f.IsRequired != nil {
		w.add("a.is_required = ?", *f.IsRequired)
	}
	if f.Name != "" {
		w.add("a.name ILIKE ?", containsPattern(f.Name))
	}
}

// List returns one page of attributes with labels in lang when translated.
func (r *AttributeRepository) List(ctx context.Context, f domain.AttributeFilter, p domain.ListParams, lang string) ([]domain.Attribute, error) {
	w := &where{}
	join := " LEFT JOIN entity_attribute_translations t ON t.attribute_id = a.id AND t.language_code = " + w.next(lang)
	attributeWhere(w, f)
	q := "SELECT " + attributeColumns + ", COALESCE(t.label, '') FROM entity_attributes a" + join + w.sql() +
		w.orderLimit(p, domain.AttributeOrderColumns, "sort_order", "ASC", prefixed("a"))
	rows, err := r.pool.Query(ctx, q, w.args...)
	if err != nil {
		return nil, classify("list attributes", err)
	}
	defer rows.Close()
	res := make([]domain.Attribute, 0)
	for rows.Next() {
		a, err := scanAttribute(rows, true)
		if err != nil {
			return nil, classify("scan attribute", err)
		}
		res = append(res, a)
	}
	if err := rows.Err(); err != nil {
		return nil, classify("list attributes", err)
	}
	return res, nil
}

// Count returns how many attributes match f.
func (r *AttributeRepository) Count(ctx context.Context, f domain.AttributeFilter) (int64, error) {
	w := &where{}
	attributeWhere(w, f)
	var n int64
	if err := r.pool.QueryRow(ctx, "SELECT COUNT(*) FROM entity_attributes a"+w.sql(), w.args...).Scan(&n); err != nil {
		return 0, classify("count attributes", err)
	}
	return n, nil
}

// FindByID retrieves an attribute declaration.
func (r *AttributeRepository) FindByID(ctx context.Context, id int64) (domain.Attribute, error) {
	q := "SELECT " + attributeColumns + " FROM entity_attributes a WHERE a.id = $1"
	a, err := scanAttribute(r.pool.QueryRow(ctx, q, id), false)
	if err != nil {
		return domain.Attribute{}, classify("find attribute", err)
	}
	return a, nil
}

// FindByName retrieves the attribute declared as name for entityType.
func (r *AttributeRepository) FindByName(ctx context.Context, entityType, name string) (domain.Attribute, error) {
	q := "SELECT " + attributeColumns + " FROM entity_attributes a WHERE a.entity_type = $1 AND a.name = $2"
	a, err := scanAttribute(r.pool.QueryRow(ctx, q, entityType, name), false)
	if err != nil {
		return domain.Attribute{}, classify("find attribute by name", err)
	}
	return a, nil
}

// ListByEntityType returns every attribute declared for entityType.
func (r *AttributeRepository) ListByEntityType(ctx context.Context, entityType string) ([]domain.Attribute, error) {
	q := "SELECT " + attributeColumns + " FROM entity_attributes a WHERE a.entity_type = $1 ORDER BY a.sort_order ASC, a.id ASC"
	rows, err := r.pool.Query(ctx, q, entityType)
	if err != nil {
		return nil, classify("list attributes by type", err)
	}
	defer rows.Close()
	res := make([]domain.Attribute, 0)
	for rows.Next() {
		a, err := scanAttribute(rows, false)
		if err != nil {
			return nil, classify("scan attribute", err)
		}
		res = append(res, a)
	}
	if err := rows.Err(); err != nil {
		return nil, classify("list attributes by type", err)
	}
	return res, nil
}

// Insert stores a and returns it with its generated ID.
func (r *AttributeRepository) Insert(ctx context.Context, a domain.Attribute) (domain.Attribute, error) {
	options, err := marshalJSON(optionsOrEmpty(a.Options))
	if err != nil {
		return domain.Attribute{}, fmt.Errorf("marshal options: %w", err)
	}
	const q = `
INSERT INTO entity_attributes (entity_type, name, data_type, options, is_required, sort_order, created_at, updated_at)
VALUES ($1, $2, $3, $4::jsonb, $5, $6, $7, $8)
RETURNING id
`
	err = r.pool.QueryRow(ctx, q, a.EntityType, a.Name, a.DataType, options, a.IsRequired, a.SortOrder, a.CreatedAt, a.UpdatedAt).Scan(&a.ID)
	if err != nil {
		return domain.Attribute{}, classify("insert attribute", err)
	}
	return a, nil
}

// Update overwrites the mutable columns of a.
func (r *AttributeRepository) Update(ctx context.Context, a domain.Attribute) (domain.Attribute, error) {
	options, err := marshalJSON(optionsOrEmpty(a.Options))
	if err != nil {
		return domain.Attribute{}, fmt.Errorf("marshal options: %w", err)
	}
	q := `
UPDATE entity_attributes a
SET data_type = $2, options = $3::jsonb, is_required = $4, sort_order = $5, updated_at = $6
WHERE a.id = $1
RETURNING ` + attributeColumns
	out, err := scanAttribute(r.pool.QueryRow(ctx, q, a.ID, a.DataType, options, a.IsRequired, a.SortOrder, a.UpdatedAt), false)
	if err != nil {
		return domain.Attribute{}, classify("update attribute", err)
	}
	return out, nil
}

// Delete removes the attribute. Translations cascade in the schema; values only with cascade.
func (r *AttributeRepository) Delete(ctx context.Context, id int64, cascade bool) (bool, error) {
	var deleted bool
	err := beginTx(ctx, r.pool, func(tx pgx.Tx) error {
		if cascade {
			if _, err := tx.Exec(ctx, "DELETE FROM entity_attribute_values WHERE attribute_id = $1", id); err != nil {
				return classify("delete attribute values", err)
			}
		}
		ct, err := tx.Exec(ctx, "DELETE FROM entity_attributes WHERE id = $1", id)
		if err != nil {
			return classify("delete attribute", err)
		}
		deleted = ct.RowsAffected() > 0
		return nil
	})
	return deleted, err
}

// CountValues returns how many values reference the attribute.
func (r *AttributeRepository) CountValues(ctx context.Context, id int64) (int64, error) {
	var n int64
	if err := r.pool.QueryRow(ctx, "SELECT COUNT(*) FROM entity_attribute_values WHERE attribute_id = $1", id).Scan(&n); err != nil {
		return 0, classify("count attribute values", err)
	}
	return n, nil
}

// Translations returns every translation of the attribute ordered by language.
func (r *AttributeRepository) Translations(ctx context.Context, id int64) ([]domain.AttributeTranslation, error) {
	const q = `
SELECT attribute_id, language_code, label, description
FROM entity_attribute_translations
WHERE attribute_id = $1
ORDER BY language_code
`
	rows, err := r.pool.Query(ctx, q, id)
	if err != nil {
		return nil, classify("list translations", err)
	}
	defer rows.Close()
	res := make([]domain.AttributeTranslation, 0)
	for rows.Next() {
		var t domain.AttributeTranslation
		if err := rows.Scan(&t.AttributeID, &t.LanguageCode, &t.Label, &t.Description); err != nil {
			return nil, classify("scan translation", err)
		}
		res = append(res, t)
	}
	if err := rows.Err(); err != nil {
		return nil, classify("list translations", err)
	}
	return res, nil
}

// UpsertTranslation creates or replaces the translation for its language.
func (r *AttributeRepository) UpsertTranslation(ctx context.Context, t domain.AttributeTranslation) error {
	const q = `
INSERT INTO entity_attribute_translations (attribute_id, language_code, label, description)
VALUES ($1, $2, $3, $4)
ON CONFLICT (attribute_id, language_code)
DO UPDATE SET label = EXCLUDED.label, description = EXCLUDED.description
`
	if _, err := r.pool.Exec(ctx, q, t.AttributeID, t.LanguageCode, t.Label, t.Description); err != nil {
		return classify("upsert translation", err)
	}
	return nil
}

func optionsOrEmpty(o []string) []string {
	if o == nil {
		return []string{}
	}
	return o
}

var _ repository.AttributeRepository = (*AttributeRepository)(nil)

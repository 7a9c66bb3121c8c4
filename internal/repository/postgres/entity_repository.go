package postgres

import (
	"context"

	"github.com/ibdaa1/qooqz/internal/domain"
	"github.com/ibdaa1/qooqz/internal/repository"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

const entityColumns = "id, tenant_id, owner_id, type, name, slug, status, parent_id, created_at, updated_at"

// EntityRepository implements repository.EntityRepository using Postgres.
type EntityRepository struct {
	pool *pgxpool.Pool
}

// NewEntityRepository creates a new Postgres-backed entity repository.
func NewEntityRepository(pool *pgxpool.Pool) *EntityRepository {
	return &EntityRepository{pool: pool}
}

func scanEntity(row pgx.Row) (domain.Entity, error) {
	var e domain.Entity
	err := row.Scan(&e.ID, &e.TenantID, &e.OwnerID, &e.Type, &e.Name, &e.Slug, &e.Status, &e.ParentID, &e.CreatedAt, &e.UpdatedAt)
	return e, err
}

func entityWhere(tenantID int64, f domain.EntityFilter) *where {
	w := &where{}
	w.add("tenant_id = ?", tenantID)
	if f.Type != "" {
		w.add("type = ?", f.Type)
	}
	if f.Status != "" {
		w.add("status = ?", f.Status)
	}
	if f.OwnerID != nil {
		w.add("owner_id = ?", *f.OwnerID)
	}
	if f.ParentID != nil {
		w.add("parent_id = ?", *f.ParentID)
	}
	if f.Search != "" {
		w.add("name ILIKE ?", containsPattern(f.Search))
	}
	return w
}

// List returns one page of the tenant's entities.
func (r *EntityRepository) List(ctx context.Context, tenantID int64, f domain.EntityFilter, p domain.ListParams) ([]domain.Entity, error) {
	w := entityWhere(tenantID, f)
	q := "SELECT " + entityColumns + " FROM entities" + w.sql() +
		w.orderLimit(p, domain.EntityOrderColumns, "id", "DESC", func(c string) string { return c })
	rows, err := r.pool.Query(ctx, q, w.args...)
	if err != nil {
		return nil, classify("list entities", err)
	}
	defer rows.Close()
	res := make([]domain.Entity, 0)
	for rows.Next() {
		e, err := scanEntity(rows)
		if err != nil {
			return nil, classify("scan entity", err)
		}
		res = append(res, e)
	}
	if err := rows.Err(); err != nil {
		return nil, classify("list entities", err)
	}
	return res, nil
}

// Count returns how many of the tenant's entities match f.
func (r *EntityRepository) Count(ctx context.Context, tenantID int64, f domain.EntityFilter) (int64, error) {
	w := entityWhere(tenantID, f)
	var n int64
	if err := r.pool.QueryRow(ctx, "SELECT COUNT(*) FROM entities"+w.sql(), w.args...).Scan(&n); err != nil {
		return 0, classify("count entities", err)
	}
	return n, nil
}

// FindByID retrieves an entity of the tenant.
func (r *EntityRepository) FindByID(ctx context.Context, tenantID, id int64) (domain.Entity, error) {
	const q = "SELECT " + entityColumns + " FROM entities WHERE tenant_id = $1 AND id = $2"
	e, err := scanEntity(r.pool.QueryRow(ctx, q, tenantID, id))
	if err != nil {
		return domain.Entity{}, classify("find entity", err)
	}
	return e, nil
}

// Insert stores e and returns it with its generated ID.
func (r *EntityRepository) Insert(ctx context.Context, e domain.Entity) (domain.Entity, error) {
	const q = `
INSERT INTO entities (tenant_id, owner_id, type, name, slug, status, parent_id, created_at, updated_at)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
RETURNING id
`
	err := r.pool.QueryRow(ctx, q, e.TenantID, e.OwnerID, e.Type, e.Name, e.Slug, e.Status, e.ParentID, e.CreatedAt, e.UpdatedAt).Scan(&e.ID)
	if err != nil {
		return domain.Entity{}, classify("insert entity", err)
	}
	return e, nil
}

// Update overwrites the mutable columns of e.
func (r *EntityRepository) Update(ctx context.Context, e domain.Entity) (domain.Entity, error) {
	const q = `
UPDATE entities
SET owner_id = $3, name = $4, slug = $5, status = $6, parent_id = $7, updated_at = $8
WHERE tenant_id = $1 AND id = $2
RETURNING ` + entityColumns
	out, err := scanEntity(r.pool.QueryRow(ctx, q, e.TenantID, e.ID, e.OwnerID, e.Name, e.Slug, e.Status, e.ParentID, e.UpdatedAt))
	if err != nil {
		return domain.Entity{}, classify("update entity", err)
	}
	return out, nil
}

// Delete removes the entity; values and settings cascade.
func (r *EntityRepository) Delete(ctx context.Context, tenantID, id int64) (bool, error) {
	ct, err := r.pool.Exec(ctx, "DELETE FROM entities WHERE tenant_id = $1 AND id = $2", tenantID, id)
	if err != nil {
		return false, classify("delete entity", err)
	}
	return ct.RowsAffected() > 0, nil
}

var _ repository.EntityRepository = (*EntityRepository)(nil)

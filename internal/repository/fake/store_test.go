package fake

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/ibdaa1/qooqz/internal/domain"
	"github.com/ibdaa1/qooqz/internal/repository"
)

func seeded() *Store {
	now := time.Now().UTC()
	return NewStore(
		WithEntities(
			domain.Entity{ID: 1, TenantID: 10, Type: "store", Name: "Alpha", CreatedAt: now},
			domain.Entity{ID: 2, TenantID: 10, Type: "store", Name: "Beta", CreatedAt: now.Add(time.Second)},
			domain.Entity{ID: 3, TenantID: 20, Type: "store", Name: "Gamma", CreatedAt: now},
		),
		WithAttributes(
			domain.Attribute{ID: 4, EntityType: "store", Name: "color", DataType: domain.DataTypeString, SortOrder: 2},
			domain.Attribute{ID: 5, EntityType: "store", Name: "size", DataType: domain.DataTypeNumber, SortOrder: 1},
		),
		WithValues(
			domain.AttributeValue{ID: 6, EntityID: 1, AttributeID: 4, Value: "red"},
			domain.AttributeValue{ID: 7, EntityID: 1, AttributeID: 5, Value: float64(3)},
			domain.AttributeValue{ID: 8, EntityID: 3, AttributeID: 4, Value: "blue"},
		),
	)
}

func TestFakeEntities_TenantScopeAndOrder(t *testing.T) {
	ctx := context.Background()
	r := seeded().Entities()

	got, err := r.List(ctx, 10, domain.EntityFilter{}, domain.ListParams{OrderBy: "name", OrderDir: "desc"})
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(got) != 2 || got[0].Name != "Beta" {
		t.Fatalf("unexpected list: %+v", got)
	}
	if _, err := r.FindByID(ctx, 10, 3); !errors.Is(err, repository.ErrNotFound) {
		t.Fatalf("want ErrNotFound across tenants, got %v", err)
	}
	e, err := r.Insert(ctx, domain.Entity{TenantID: 10, Type: "store", Name: "New"})
	if err != nil {
		t.Fatalf("insert: %v", err)
	}
	if e.ID != 9 {
		t.Fatalf("want id after seeded ids, got %d", e.ID)
	}
}

func TestFakeEntities_DeleteCascades(t *testing.T) {
	ctx := context.Background()
	s := seeded()
	if ok, err := s.Entities().Delete(ctx, 10, 1); err != nil || !ok {
		t.Fatalf("delete: %v %v", ok, err)
	}
	left, _ := s.Values().ListByEntity(ctx, 1)
	if len(left) != 0 {
		t.Fatalf("values should cascade, got %d", len(left))
	}
	if ok, _ := s.Entities().Delete(ctx, 10, 1); ok {
		t.Fatalf("second delete should report false")
	}
}

func TestFakeAttributes_DeleteBlockedWhileInUse(t *testing.T) {
	ctx := context.Background()
	s := seeded()
	if _, err := s.Attributes().Delete(ctx, 4, false); !errors.Is(err, repository.ErrReferenced) {
		t.Fatalf("want ErrReferenced, got %v", err)
	}
	if ok, err := s.Attributes().Delete(ctx, 4, true); err != nil || !ok {
		t.Fatalf("cascade delete: %v %v", ok, err)
	}
	if n, _ := s.Attributes().CountValues(ctx, 4); n != 0 {
		t.Fatalf("values should be removed, got %d", n)
	}
}

func TestFakeValues_JoinAndStatistics(t *testing.T) {
	ctx := context.Background()
	r := seeded().Values()

	vals, err := r.ListByEntity(ctx, 1)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(vals) != 2 || vals[0].AttributeName != "size" {
		t.Fatalf("want sort-order ordering with names, got %+v", vals)
	}
	stats, _ := r.Statistics(ctx, 10)
	if stats.TotalValues != 2 || stats.EntitiesWithValues != 1 || stats.AttributesWithValues != 2 {
		t.Fatalf("unexpected stats: %+v", stats)
	}
	if _, err := r.Insert(ctx, domain.AttributeValue{EntityID: 1, AttributeID: 4, Value: "x"}); !errors.Is(err, repository.ErrConflict) {
		t.Fatalf("want ErrConflict, got %v", err)
	}
	out, err := r.UpsertMany(ctx, 1, []domain.AttributeValue{{AttributeID: 4, Value: "green"}})
	if err != nil || len(out) != 1 || out[0].ID != 6 {
		t.Fatalf("upsert should reuse id 6: %+v %v", out, err)
	}
}

func TestFakeSettings_UpsertAndDelete(t *testing.T) {
	ctx := context.Background()
	r := seeded().Settings()
	if err := r.UpsertMany(ctx, 99, []domain.EntitySetting{{Key: "allow_cod", Value: true}}); !errors.Is(err, repository.ErrReferenced) {
		t.Fatalf("want ErrReferenced for unknown entity, got %v", err)
	}
	if err := r.UpsertMany(ctx, 1, []domain.EntitySetting{{Key: "b", Value: 1.0}, {Key: "a", Value: "x"}}); err != nil {
		t.Fatalf("upsert: %v", err)
	}
	list, _ := r.List(ctx, 1)
	if len(list) != 2 || list[0].Key != "a" {
		t.Fatalf("want key order, got %+v", list)
	}
	if ok, _ := r.Delete(ctx, 1, "a"); !ok {
		t.Fatalf("delete should report true")
	}
	if n, _ := r.DeleteAll(ctx, 1); n != 1 {
		t.Fatalf("want 1 removed, got %d", n)
	}
}

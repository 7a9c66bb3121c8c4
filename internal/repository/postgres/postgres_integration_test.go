//go:build integration

package postgres

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/ibdaa1/qooqz/internal/data"
	"github.com/ibdaa1/qooqz/internal/domain"
	"github.com/ibdaa1/qooqz/internal/repository"
	"github.com/jackc/pgx/v5/pgxpool"
	tcpostgres "github.com/testcontainers/testcontainers-go/modules/postgres"
)

// startPostgres spins up a migrated Postgres container using testcontainers.
func startPostgres(ctx context.Context, t *testing.T) (*pgxpool.Pool, func()) {
	t.Helper()
	pg, err := tcpostgres.RunContainer(ctx,
		tcpostgres.WithUsername("qooqz"),
		tcpostgres.WithPassword("secret"),
		tcpostgres.WithDatabase("qooqz"),
	)
	if err != nil {
		t.Skipf("skipping: cannot start postgres container (is Docker running?): %v", err)
		return nil, func() {}
	}
	host, _ := pg.Host(ctx)
	port, _ := pg.MappedPort(ctx, "5432")
	dsn := fmt.Sprintf("postgres://qooqz:secret@%s:%s/qooqz?sslmode=disable", host, port.Port())
	pool, err := pgxpool.New(ctx, dsn)
	if err != nil {
		t.Fatalf("new pool: %v", err)
	}
	wctx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()
	for {
		if err := pool.Ping(wctx); err == nil {
			break
		}
		select {
		case <-wctx.Done():
			t.Fatalf("timeout waiting for db ready: %v", wctx.Err())
		case <-time.After(250 * time.Millisecond):
		}
	}
	db := data.OpenSQL(pool)
	if err := data.Migrate(ctx, db); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	cleanup := func() {
		_ = db.Close()
		pool.Close()
		_ = pg.Terminate(context.Background())
	}
	return pool, cleanup
}

func TestPostgresRepositories_EAVRoundTrip(t *testing.T) {
	ctx := context.Background()
	pool, cleanup := startPostgres(ctx, t)
	defer cleanup()

	entities := NewEntityRepository(pool)
	attrs := NewAttributeRepository(pool)
	values := NewAttributeValueRepository(pool)
	settings := NewEntitySettingRepository(pool)
	now := time.Now().UTC().Truncate(time.Second)

	store, err := entities.Insert(ctx, domain.Entity{TenantID: 1, Type: "store", Name: "Corner", Slug: "corner", Status: domain.EntityStatusPending, CreatedAt: now, UpdatedAt: now})
	if err != nil {
		t.Fatalf("insert entity: %v", err)
	}
	if _, err := entities.FindByID(ctx, 2, store.ID); !errors.Is(err, repository.ErrNotFound) {
		t.Fatalf("other tenant should not see entity, got %v", err)
	}

	color, err := attrs.Insert(ctx, domain.Attribute{EntityType: "store", Name: "color", DataType: domain.DataTypeEnum, Options: []string{"red", "blue"}, CreatedAt: now, UpdatedAt: now})
	if err != nil {
		t.Fatalf("insert attribute: %v", err)
	}
	if _, err := attrs.Insert(ctx, domain.Attribute{EntityType: "store", Name: "color", DataType: domain.DataTypeString, CreatedAt: now, UpdatedAt: now}); !errors.Is(err, repository.ErrConflict) {
		t.Fatalf("duplicate attribute should conflict, got %v", err)
	}
	if err := attrs.UpsertTranslation(ctx, domain.AttributeTranslation{AttributeID: color.ID, LanguageCode: "ar", Label: "اللون"}); err != nil {
		t.Fatalf("upsert translation: %v", err)
	}
	listed, err := attrs.List(ctx, domain.AttributeFilter{EntityType: "store"}, domain.ListParams{}, "ar")
	if err != nil || len(listed) != 1 || listed[0].Label != "اللون" || len(listed[0].Options) != 2 {
		t.Fatalf("list attributes: %+v %v", listed, err)
	}

	saved, err := values.UpsertMany(ctx, store.ID, []domain.AttributeValue{{AttributeID: color.ID, Value: "red", CreatedAt: now, UpdatedAt: now}})
	if err != nil || len(saved) != 1 {
		t.Fatalf("upsert values: %v", err)
	}
	saved, err = values.UpsertMany(ctx, store.ID, []domain.AttributeValue{{AttributeID: color.ID, Value: "blue", CreatedAt: now, UpdatedAt: now}})
	if err != nil {
		t.Fatalf("second upsert: %v", err)
	}
	got, err := values.FindByID(ctx, 1, saved[0].ID)
	if err != nil || got.Value != "blue" || got.AttributeName != "color" {
		t.Fatalf("find value: %+v %v", got, err)
	}
	stats, err := values.Statistics(ctx, 1)
	if err != nil || stats.TotalValues != 1 || stats.EntitiesWithValues != 1 || stats.AttributesWithValues != 1 {
		t.Fatalf("statistics: %+v %v", stats, err)
	}

	if _, err := attrs.Delete(ctx, color.ID, false); !errors.Is(err, repository.ErrReferenced) {
		t.Fatalf("delete in-use attribute should be referenced, got %v", err)
	}

	if err := settings.UpsertMany(ctx, store.ID, []domain.EntitySetting{{Key: "allow_cod", Value: true, UpdatedAt: now}}); err != nil {
		t.Fatalf("upsert settings: %v", err)
	}
	s, err := settings.Find(ctx, store.ID, "allow_cod")
	if err != nil || s.Value != true {
		t.Fatalf("find setting: %+v %v", s, err)
	}

	deleted, err := attrs.Delete(ctx, color.ID, true)
	if err != nil || !deleted {
		t.Fatalf("cascade delete: %v %v", deleted, err)
	}
	left, err := values.ListByEntity(ctx, store.ID)
	if err != nil || len(left) != 0 {
		t.Fatalf("values should be gone: %+v %v", left, err)
	}

	ok, err := entities.Delete(ctx, 1, store.ID)
	if err != nil || !ok {
		t.Fatalf("delete entity: %v %v", ok, err)
	}
	rest, err := settings.List(ctx, store.ID)
	if err != nil || len(rest) != 0 {
		t.Fatalf("settings should cascade: %+v %v", rest, err)
	}
}

func TestPostgresEntityRepository_ListPagination(t *testing.T) {
	ctx := context.Background()
	pool, cleanup := startPostgres(ctx, t)
	defer cleanup()

	repo := NewEntityRepository(pool)
	now := time.Now().UTC().Truncate(time.Second)
	for i := 0; i < 3; i++ {
		e := domain.Entity{TenantID: 5, Type: "store", Name: fmt.Sprintf("s%d", i), Status: domain.EntityStatusApproved, CreatedAt: now, UpdatedAt: now}
		if _, err := repo.Insert(ctx, e); err != nil {
			t.Fatalf("insert: %v", err)
		}
	}
	page1, err := repo.List(ctx, 5, domain.EntityFilter{}, domain.ListParams{Page: 1, Limit: 2, OrderBy: "name", OrderDir: "asc"})
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	page2, err := repo.List(ctx, 5, domain.EntityFilter{}, domain.ListParams{Page: 2, Limit: 2, OrderBy: "name", OrderDir: "asc"})
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(page1) != 2 || len(page2) != 1 || page1[0].Name != "s0" || page2[0].Name != "s2" {
		t.Fatalf("pagination wrong: %+v %+v", page1, page2)
	}
	n, err := repo.Count(ctx, 5, domain.EntityFilter{Search: "s"})
	if err != nil || n != 3 {
		t.Fatalf("count: %d %v", n, err)
	}
	// wildcards in the search match literally
	if n, err := repo.Count(ctx, 5, domain.EntityFilter{Search: "_"}); err != nil || n != 0 {
		t.Fatalf("underscore search: %d %v", n, err)
	}
	if n, err := repo.Count(ctx, 5, domain.EntityFilter{Search: "%"}); err != nil || n != 0 {
		t.Fatalf("percent search: %d %v", n, err)
	}
}

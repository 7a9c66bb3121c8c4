package service

import (
	"time"

	"github.com/ibdaa1/qooqz/internal/domain"
	"github.com/ibdaa1/qooqz/internal/repository/fake"
)

type stubClock struct{ t time.Time }

func (s stubClock) Now() time.Time { return s.t }

var fixed = time.Date(2025, 8, 30, 12, 0, 0, 0, time.UTC)

const tenant int64 = 10

// newStore seeds a store with two stores of tenant 10, one of tenant 20 and store attributes.
func newStore(opts ...fake.Option) *fake.Store {
	base := []fake.Option{
		fake.WithEntities(
			domain.Entity{ID: 1, TenantID: tenant, Type: "store", Name: "Alpha", Status: domain.EntityStatusApproved, CreatedAt: fixed},
			domain.Entity{ID: 2, TenantID: tenant, Type: "restaurant", Name: "Beta", Status: domain.EntityStatusPending, CreatedAt: fixed},
			domain.Entity{ID: 3, TenantID: 20, Type: "store", Name: "Other", Status: domain.EntityStatusPending, CreatedAt: fixed},
		),
		fake.WithAttributes(
			domain.Attribute{ID: 11, EntityType: "store", Name: "color", DataType: domain.DataTypeEnum, Options: []string{"red", "blue"}, SortOrder: 1},
			domain.Attribute{ID: 12, EntityType: "store", Name: "area", DataType: domain.DataTypeNumber, IsRequired: true, SortOrder: 2},
			domain.Attribute{ID: 13, EntityType: "restaurant", Name: "cuisine", DataType: domain.DataTypeString},
		),
	}
	return fake.NewStore(append(base, opts...)...)
}

// Package service contains the business rules of the EAV admin API.
package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/ibdaa1/qooqz/internal/domain"
)

// Error variables
var (
	ErrEntityNotFound         = errors.New("entity not found")
	ErrAttributeNotFound      = errors.New("attribute not found")
	ErrAttributeValueNotFound = errors.New("attribute value not found")
	ErrSettingNotFound        = errors.New("setting not found")

	ErrDuplicateSlug      = errors.New("slug already used by another entity")
	ErrDuplicateAttribute = errors.New("attribute already declared for this entity type")
	ErrDuplicateValue     = errors.New("entity already has a value for this attribute")
	ErrAttributeInUse     = errors.New("attribute still has values")
	ErrDataTypeLocked     = errors.New("data type cannot change while values exist")
	ErrOptionsLocked      = errors.New("options cannot be removed while values exist")

	ErrUndeclaredAttribute = errors.New("attribute is not declared for the entity type")
	ErrEntityTypeMismatch  = errors.New("attribute belongs to another entity type")
	ErrInvalidParent       = errors.New("invalid parent entity")
)

// maxParentDepth bounds the ancestor walk used to detect parent cycles.
const maxParentDepth = 64

// listPage runs the list and count queries for one normalized page.
func listPage[T any](ctx context.Context, p domain.ListParams,
	list func(context.Context, domain.ListParams) ([]T, error),
	count func(context.Context) (int64, error),
) (domain.Page[T], error) {
	items, err := list(ctx, p)
	if err != nil {
		return domain.Page[T]{}, fmt.Errorf("list: %w", err)
	}
	total, err := count(ctx)
	if err != nil {
		return domain.Page[T]{}, fmt.Errorf("count: %w", err)
	}
	return domain.Page[T]{Items: items, Meta: domain.NewPageMeta(total, p)}, nil
}

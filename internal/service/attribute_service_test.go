package service

import (
	"context"
	"testing"

	"github.com/ibdaa1/qooqz/internal/domain"
	"github.com/ibdaa1/qooqz/internal/repository/fake"
	"github.com/ibdaa1/qooqz/internal/validator"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func withColorValue() fake.Option {
	return fake.WithValues(domain.AttributeValue{ID: 21, EntityID: 1, AttributeID: 11, Value: "red"})
}

func TestCreateAttribute(t *testing.T) {
	s := NewAttributeService(newStore().Attributes(), stubClock{t: fixed})

	got, err := s.CreateAttribute(context.Background(), domain.CreateAttributeRequestDTO{EntityType: "store", Name: "opens_at", DataType: domain.DataTypeDate})
	require.NoError(t, err)
	assert.NotZero(t, got.ID)
	assert.True(t, got.CreatedAt.Equal(fixed))
}

func TestCreateAttribute_Duplicate(t *testing.T) {
	s := NewAttributeService(newStore().Attributes(), stubClock{t: fixed})

	_, err := s.CreateAttribute(context.Background(), domain.CreateAttributeRequestDTO{EntityType: "store", Name: "color", DataType: domain.DataTypeString})
	assert.ErrorIs(t, err, ErrDuplicateAttribute)
}

func TestCreateAttribute_EnumNeedsOptions(t *testing.T) {
	s := NewAttributeService(newStore().Attributes(), stubClock{t: fixed})
	ctx := context.Background()

	_, err := s.CreateAttribute(ctx, domain.CreateAttributeRequestDTO{EntityType: "store", Name: "size", DataType: domain.DataTypeEnum})
	ve, ok := validator.AsErrors(err)
	require.True(t, ok)
	assert.Equal(t, "options", ve[0].Field)

	_, err = s.CreateAttribute(ctx, domain.CreateAttributeRequestDTO{EntityType: "store", Name: "size", DataType: domain.DataTypeString, Options: []string{"s"}})
	_, ok = validator.AsErrors(err)
	assert.True(t, ok)
}

func TestUpdateAttribute_DataTypeLockedWhileValuesExist(t *testing.T) {
	s := NewAttributeService(newStore(withColorValue()).Attributes(), stubClock{t: fixed})
	ctx := context.Background()

	_, err := s.UpdateAttribute(ctx, 11, domain.UpdateAttributeRequestDTO{DataType: domain.DataTypeString})
	assert.ErrorIs(t, err, ErrDataTypeLocked)

	got, err := s.UpdateAttribute(ctx, 11, domain.UpdateAttributeRequestDTO{DataType: domain.DataTypeEnum, Options: []string{"red", "blue", "green"}, SortOrder: 5})
	require.NoError(t, err)
	assert.Equal(t, []string{"red", "blue", "green"}, got.Options)
	assert.Equal(t, 5, got.SortOrder)
}

func TestUpdateAttribute_OptionsOnlyGrowWhileValuesExist(t *testing.T) {
	s := NewAttributeService(newStore(withColorValue()).Attributes(), stubClock{t: fixed})
	ctx := context.Background()

	_, err := s.UpdateAttribute(ctx, 11, domain.UpdateAttributeRequestDTO{DataType: domain.DataTypeEnum, Options: []string{"red"}})
	assert.ErrorIs(t, err, ErrOptionsLocked)
	got, err := s.GetAttribute(ctx, 11)
	require.NoError(t, err)
	assert.Equal(t, []string{"red", "blue"}, got.Options)

	got, err = s.UpdateAttribute(ctx, 11, domain.UpdateAttributeRequestDTO{DataType: domain.DataTypeEnum, Options: []string{"blue", "red"}})
	require.NoError(t, err)
	assert.Equal(t, []string{"blue", "red"}, got.Options)
}

func TestUpdateAttribute_OptionsShrinkWithoutValues(t *testing.T) {
	s := NewAttributeService(newStore().Attributes(), stubClock{t: fixed})
	got, err := s.UpdateAttribute(context.Background(), 11, domain.UpdateAttributeRequestDTO{DataType: domain.DataTypeEnum, Options: []string{"red"}})
	require.NoError(t, err)
	assert.Equal(t, []string{"red"}, got.Options)
}

func TestUpdateAttribute_NotFound(t *testing.T) {
	s := NewAttributeService(newStore().Attributes(), stubClock{t: fixed})
	_, err := s.UpdateAttribute(context.Background(), 99, domain.UpdateAttributeRequestDTO{DataType: domain.DataTypeString})
	assert.ErrorIs(t, err, ErrAttributeNotFound)
}

func TestDeleteAttribute_InUseAndCascade(t *testing.T) {
	store := newStore(withColorValue())
	s := NewAttributeService(store.Attributes(), stubClock{t: fixed})
	ctx := context.Background()

	_, err := s.DeleteAttribute(ctx, 11, false)
	assert.ErrorIs(t, err, ErrAttributeInUse)

	res, err := s.DeleteAttribute(ctx, 11, true)
	require.NoError(t, err)
	assert.True(t, res.Deleted)
	n, _ := store.Attributes().CountValues(ctx, 11)
	assert.Zero(t, n)

	res, err = s.DeleteAttribute(ctx, 11, false)
	require.NoError(t, err)
	assert.False(t, res.Deleted)
}

func TestTranslations(t *testing.T) {
	s := NewAttributeService(newStore().Attributes(), stubClock{t: fixed})
	ctx := context.Background()

	_, err := s.SetTranslation(ctx, 11, "ar", domain.TranslationRequestDTO{Label: "اللون"})
	require.NoError(t, err)
	_, err = s.SetTranslation(ctx, 11, "en", domain.TranslationRequestDTO{Label: "Color", Description: "Paint"})
	require.NoError(t, err)

	ts, err := s.Translations(ctx, 11)
	require.NoError(t, err)
	require.Len(t, ts, 2)
	assert.Equal(t, "ar", ts[0].LanguageCode)

	page, err := s.ListAttributes(ctx, domain.AttributeFilter{EntityType: "store"}, domain.ListParams{}, "en")
	require.NoError(t, err)
	require.Len(t, page.Items, 2)
	assert.Equal(t, "Color", page.Items[0].Label)
	assert.Equal(t, "", page.Items[1].Label)

	_, err = s.SetTranslation(ctx, 11, "English", domain.TranslationRequestDTO{Label: "x"})
	_, ok := validator.AsErrors(err)
	assert.True(t, ok)
	_, err = s.SetTranslation(ctx, 99, "en", domain.TranslationRequestDTO{Label: "x"})
	assert.ErrorIs(t, err, ErrAttributeNotFound)
}

func TestGetAttributeByName(t *testing.T) {
	s := NewAttributeService(newStore().Attributes(), stubClock{t: fixed})
	ctx := context.Background()

	got, err := s.GetAttributeByName(ctx, "restaurant", "cuisine")
	require.NoError(t, err)
	assert.Equal(t, int64(13), got.ID)
	_, err = s.GetAttributeByName(ctx, "store", "cuisine")
	assert.ErrorIs(t, err, ErrAttributeNotFound)
}

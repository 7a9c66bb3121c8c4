package validator

import (
	"errors"
	"testing"

	"github.com/ibdaa1/qooqz/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStruct_ReportsJSONFieldNames(t *testing.T) {
	err := Struct(domain.CreateEntityRequestDTO{Type: "Bad Type", Status: "archived"})
	require.Error(t, err)

	ve, ok := AsErrors(err)
	require.True(t, ok, "expected field errors, got %T", err)

	fields := map[string]string{}
	for _, fe := range ve {
		fields[fe.Field] = fe.Message
	}
	assert.Contains(t, fields, "type")
	assert.Contains(t, fields, "name")
	assert.Contains(t, fields, "status")
	assert.Equal(t, "is required", fields["name"])
}

func TestStruct_AttributeDTO(t *testing.T) {
	ok := domain.CreateAttributeRequestDTO{EntityType: "store", Name: "opening_year", DataType: domain.DataTypeNumber}
	assert.NoError(t, Struct(ok))

	bad := domain.CreateAttributeRequestDTO{EntityType: "store", Name: "color", DataType: "colour", Options: []string{"red", "red"}}
	err := Struct(bad)
	ve, isVE := AsErrors(err)
	require.True(t, isVE)
	var got []string
	for _, fe := range ve {
		got = append(got, fe.Field)
	}
	assert.ElementsMatch(t, []string{"data_type", "options"}, got)
}

func TestStruct_BulkValuesRequireEntries(t *testing.T) {
	err := Struct(domain.SaveEntityValuesRequestDTO{Values: map[string]any{}})
	ve, ok := AsErrors(err)
	require.True(t, ok)
	assert.Equal(t, "values", ve[0].Field)
}

func TestCheckAttributeDefinition(t *testing.T) {
	assert.NoError(t, CheckAttributeDefinition(domain.DataTypeEnum, []string{"a"}))
	assert.NoError(t, CheckAttributeDefinition(domain.DataTypeString, nil))
	assert.Error(t, CheckAttributeDefinition(domain.DataTypeEnum, nil))
	assert.Error(t, CheckAttributeDefinition(domain.DataTypeBoolean, []string{"yes"}))
}

func TestErrors_Message(t *testing.T) {
	err := Errors{{Field: "a", Message: "is required"}, {Field: "b", Message: "must be a number"}}
	assert.Equal(t, "validation failed: a: is required; b: must be a number", err.Error())

	wrapped := errors.Join(errors.New("context"), Field("c", "bad"))
	ve, ok := AsErrors(wrapped)
	require.True(t, ok)
	assert.Equal(t, "c", ve[0].Field)
}

func TestCheckLanguageCode(t *testing.T) {
	for _, ok := range []string{"ar", "en", "en-US", "pt_BR", "fil"} {
		assert.NoError(t, CheckLanguageCode(ok), ok)
	}
	for _, bad := range []string{"", "EN", "english", "e", "en-"} {
		assert.Error(t, CheckLanguageCode(bad), bad)
	}
}

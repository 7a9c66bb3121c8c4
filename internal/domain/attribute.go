package domain

import "time"

// Attribute data types.
const (
	DataTypeString  = "string"
	DataTypeNumber  = "number"
	DataTypeBoolean = "boolean"
	DataTypeDate    = "date"
	DataTypeEnum    = "enum"
)

// DataTypes lists every supported attribute data type.
var DataTypes = []string{DataTypeString, DataTypeNumber, DataTypeBoolean, DataTypeDate, DataTypeEnum}

// Attribute declares a typed attribute available to every entity of EntityType.
type Attribute struct {
	ID         int64     `json:"id"`
	EntityType string    `json:"entity_type"`
	Name       string    `json:"name"`
	DataType   string    `json:"data_type"`
	Options    []string  `json:"options,omitempty"`
	IsRequired bool      `json:"is_required"`
	SortOrder  int       `json:"sort_order"`
	Label      string    `json:"label,omitempty"`
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`
}

// AttributeTranslation holds the localized label of an attribute.
type AttributeTranslation struct {
	AttributeID  int64  `json:"attribute_id"`
	LanguageCode string `json:"language_code"`
	Label        string `json:"label"`
	Description  string `json:"description,omitempty"`
}

// AttributeFilter narrows attribute listings. Zero values are ignored.
type AttributeFilter struct {
	EntityType string
	DataType   string
	IsRequired *bool
	Name       string
}

// AttributeOrderColumns are the columns attributes may be sorted by.
var AttributeOrderColumns = []string{"id", "name", "entity_type", "data_type", "is_required", "sort_order", "created_at"}

// CreateAttributeRequestDTO represents the expected request body for declaring an attribute.
type CreateAttributeRequestDTO struct {
	EntityType string   `json:"entity_type" validate:"required,slug,max=64"`
	Name       string   `json:"name" validate:"required,slug,max=100"`
	DataType   string   `json:"data_type" validate:"required,datatype"`
	Options    []string `json:"options" validate:"omitempty,unique,dive,required,max=255"`
	IsRequired bool     `json:"is_required"`
	SortOrder  int      `json:"sort_order" validate:"gte=0"`
}

// UpdateAttributeRequestDTO represents the expected request body for changing an attribute.
// Entity type and name identify the attribute and cannot change.
type UpdateAttributeRequestDTO struct {
	DataType   string   `json:"data_type" validate:"required,datatype"`
	Options    []string `json:"options" validate:"omitempty,unique,dive,required,max=255"`
	IsRequired bool     `json:"is_required"`
	SortOrder  int      `json:"sort_order" validate:"gte=0"`
}

// TranslationRequestDTO represents the expected request body for an attribute translation.
type TranslationRequestDTO struct {
	Label       string `json:"label" validate:"required,max=255"`
	Description string `json:"description" validate:"max=2000"`
}

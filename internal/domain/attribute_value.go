package domain

import "time"

// AttributeValue stores the value an entity carries for one declared attribute.
// Value holds the normalized Go value: string, float64 or bool.
type AttributeValue struct {
	ID          int64     `json:"id"`
	EntityID    int64     `json:"entity_id"`
	AttributeID int64     `json:"attribute_id"`
	Value       any       `json:"value"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`

	// Joined attribute columns, filled by reads.
	AttributeName string `json:"attribute_name,omitempty"`
	DataType      string `json:"data_type,omitempty"`
}

// AttributeValueFilter narrows value listings. Zero values are ignored.
type AttributeValueFilter struct {
	EntityID      int64
	AttributeID   int64
	AttributeName string
	DataType      string
}

// AttributeValueOrderColumns are the columns values may be sorted by.
var AttributeValueOrderColumns = []string{"id", "entity_id", "attribute_id", "created_at", "updated_at"}

// ValueStatistics summarizes stored values.
type ValueStatistics struct {
	TotalValues          int64 `json:"total_values"`
	EntitiesWithValues   int64 `json:"entities_with_values"`
	AttributesWithValues int64 `json:"attributes_with_values"`
}

// CreateAttributeValueRequestDTO represents the expected request body for storing one value.
type CreateAttributeValueRequestDTO struct {
	EntityID    int64 `json:"entity_id" validate:"required,gt=0"`
	AttributeID int64 `json:"attribute_id" validate:"required,gt=0"`
	Value       any   `json:"value"`
}

// UpdateAttributeValueRequestDTO represents the expected request body for changing a value.
type UpdateAttributeValueRequestDTO struct {
	Value any `json:"value"`
}

// EntityValuesDTO is an entity together with its values keyed by attribute name.
type EntityValuesDTO struct {
	Entity Entity         `json:"entity"`
	Values map[string]any `json:"values"`
}

// SaveEntityValuesRequestDTO is a bulk write of values keyed by attribute name.
type SaveEntityValuesRequestDTO struct {
	Values map[string]any `json:"values" validate:"required,min=1"`
}

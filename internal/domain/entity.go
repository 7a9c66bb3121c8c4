// Package domain contains domain models and request/response DTOs for the EAV admin API.
package domain

import "time"

// Entity statuses.
const (
	EntityStatusPending   = "pending"
	EntityStatusApproved  = "approved"
	EntityStatusSuspended = "suspended"
	EntityStatusRejected  = "rejected"
)

// EntityStatuses lists every accepted entity status.
var EntityStatuses = []string{EntityStatusPending, EntityStatusApproved, EntityStatusSuspended, EntityStatusRejected}

// Entity is a tenant-owned record whose type decides which attributes it may carry.
type Entity struct {
	ID        int64     `json:"id"`
	TenantID  int64     `json:"tenant_id"`
	OwnerID   *int64    `json:"owner_id,omitempty"`
	Type      string    `json:"type"`
	Name      string    `json:"name"`
	Slug      string    `json:"slug"`
	Status    string    `json:"status"`
	ParentID  *int64    `json:"parent_id,omitempty"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// EntityFilter narrows entity listings. Zero values are ignored.
type EntityFilter struct {
	Type     string
	Status   string
	OwnerID  *int64
	ParentID *int64
	Search   string
}

// EntityOrderColumns are the columns entities may be sorted by.
var EntityOrderColumns = []string{"id", "name", "type", "status", "created_at", "updated_at"}

// CreateEntityRequestDTO represents the expected request body for creating an entity.
type CreateEntityRequestDTO struct {
	Type     string `json:"type" validate:"required,slug,max=64"`
	Name     string `json:"name" validate:"required,max=255"`
	Slug     string `json:"slug" validate:"omitempty,slug,max=255"`
	Status   string `json:"status" validate:"omitempty,entity_status"`
	OwnerID  *int64 `json:"owner_id" validate:"omitempty,gt=0"`
	ParentID *int64 `json:"parent_id" validate:"omitempty,gt=0"`
}

// UpdateEntityRequestDTO represents the expected request body for updating an entity.
// The entity type is immutable since stored attribute values depend on it.
type UpdateEntityRequestDTO struct {
	Name     string `json:"name" validate:"required,max=255"`
	Slug     string `json:"slug" validate:"omitempty,slug,max=255"`
	Status   string `json:"status" validate:"omitempty,entity_status"`
	OwnerID  *int64 `json:"owner_id" validate:"omitempty,gt=0"`
	ParentID *int64 `json:"parent_id" validate:"omitempty,gt=0"`
}

// ParentCheckDTO answers whether an entity may be used as a parent.
type ParentCheckDTO struct {
	Valid   bool          `json:"valid"`
	Parent  *ParentRefDTO `json:"parent,omitempty"`
	Message string        `json:"message,omitempty"`
}

// ParentRefDTO is the summary of a parent entity.
type ParentRefDTO struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
	Type string `json:"type"`
}

// DeleteResultDTO reports the outcome of an idempotent delete.
type DeleteResultDTO struct {
	Deleted bool `json:"deleted"`
}

// DeletedCountDTO reports how many rows a bulk delete removed.
type DeletedCountDTO struct {
	Deleted int64 `json:"deleted"`
}

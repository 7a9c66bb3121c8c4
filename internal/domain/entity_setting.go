package domain

import "time"

// EntitySetting is a per-entity override of a setting key.
type EntitySetting struct {
	EntityID  int64     `json:"entity_id"`
	Key       string    `json:"key"`
	Value     any       `json:"value"`
	UpdatedAt time.Time `json:"updated_at"`
}

// DefaultEntitySettings are the values an entity has for known keys before any override.
func DefaultEntitySettings() map[string]any {
	return map[string]any{
		"auto_accept_orders":     false,
		"allow_cod":              false,
		"min_order_amount":       float64(0),
		"allow_online_booking":   false,
		"booking_window_days":    float64(0),
		"max_bookings_per_slot":  float64(0),
		"show_reviews":           true,
		"show_contact_info":      true,
		"featured_in_app":        false,
		"maintenance_mode":       false,
		"default_payment_method": "",
	}
}

// EffectiveSettingsDTO is the merged view of defaults and overrides.
type EffectiveSettingsDTO struct {
	EntityID   int64          `json:"entity_id"`
	Settings   map[string]any `json:"settings"`
	Overridden []string       `json:"overridden"`
}

// SettingDTO is a single resolved setting.
type SettingDTO struct {
	EntityID  int64  `json:"entity_id"`
	Key       string `json:"key"`
	Value     any    `json:"value"`
	IsDefault bool   `json:"is_default"`
}

// SaveSettingsRequestDTO is a bulk write of settings.
type SaveSettingsRequestDTO struct {
	Settings map[string]any `json:"settings" validate:"required,min=1"`
}

// SetSettingRequestDTO writes a single setting.
type SetSettingRequestDTO struct {
	Value any `json:"value"`
}

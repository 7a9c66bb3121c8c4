package validator

import (
	"encoding/json"
	"math"
	"regexp"
	"slices"
	"strconv"
	"strings"
	"time"

	"github.com/ibdaa1/qooqz/internal/domain"
)

// MaxStringValueLength caps string attribute values, in bytes.
const MaxStringValueLength = 65535

const dateLayout = "2006-01-02"

var settingKeyPattern = regexp.MustCompile(`^[a-z0-9_.-]{1,100}$`)

// CoerceValue normalizes raw to the Go representation of attr's data type:
// string for string, date and enum; float64 for number; bool for boolean.
// Errors are reported against the attribute name.
func CoerceValue(attr domain.Attribute, raw any) (any, error) {
	if raw == nil {
		return nil, Field(attr.Name, "must not be null")
	}
	switch attr.DataType {
	case domain.DataTypeString:
		s, ok := raw.(string)
		if !ok {
			return nil, Field(attr.Name, "must be a string")
		}
		if len(s) > MaxStringValueLength {
			return nil, Field(attr.Name, "must be at most %d bytes long", MaxStringValueLength)
		}
		return s, nil
	case domain.DataTypeNumber:
		f, ok := toNumber(raw)
		if !ok {
			return nil, Field(attr.Name, "must be a number")
		}
		return f, nil
	case domain.DataTypeBoolean:
		b, ok := toBool(raw)
		if !ok {
			return nil, Field(attr.Name, "must be a boolean")
		}
		return b, nil
	case domain.DataTypeDate:
		s, ok := raw.(string)
		if !ok {
			return nil, Field(attr.Name, "must be a date string")
		}
		d, ok := toDate(s)
		if !ok {
			return nil, Field(attr.Name, "must be a date in YYYY-MM-DD or RFC 3339 format")
		}
		return d, nil
	case domain.DataTypeEnum:
		s, ok := raw.(string)
		if !ok || !slices.Contains(attr.Options, s) {
			return nil, Field(attr.Name, "must be one of %s", strings.Join(attr.Options, ", "))
		}
		return s, nil
	default:
		return nil, Field(attr.Name, "has unsupported data type %q", attr.DataType)
	}
}

// CheckSetting validates a setting override. Known keys must match the kind of
// their default; unknown keys accept any non-null JSON value.
func CheckSetting(key string, raw any) (any, error) {
	if !settingKeyPattern.MatchString(key) {
		return nil, Field("key", "must match %s", settingKeyPattern.String())
	}
	if raw == nil {
		return nil, Field(key, "must not be null")
	}
	def, known := domain.DefaultEntitySettings()[key]
	if !known {
		return raw, nil
	}
	switch def.(type) {
	case bool:
		if b, ok := toBool(raw); ok {
			return b, nil
		}
		return nil, Field(key, "must be a boolean")
	case float64:
		if f, ok := toNumber(raw); ok {
			return f, nil
		}
		return nil, Field(key, "must be a number")
	default:
		if s, ok := raw.(string); ok {
			return s, nil
		}
		return nil, Field(key, "must be a string")
	}
}

func toNumber(raw any) (float64, bool) {
	var f float64
	switch v := raw.(type) {
	case float64:
		f = v
	case float32:
		f = float64(v)
	case int:
		f = float64(v)
	case int64:
		f = float64(v)
	case json.Number:
		parsed, err := v.Float64()
		if err != nil {
			return 0, false
		}
		f = parsed
	case string:
		parsed, err := strconv.ParseFloat(strings.TrimSpace(v), 64)
		if err != nil {
			return 0, false
		}
		f = parsed
	default:
		return 0, false
	}
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return 0, false
	}
	return f, true
}

func toBool(raw any) (bool, bool) {
	switch v := raw.(type) {
	case bool:
		return v, true
	case string:
		switch strings.ToLower(strings.TrimSpace(v)) {
		case "true", "1":
			return true, true
		case "false", "0":
			return false, true
		}
	case float64:
		if v == 0 || v == 1 {
			return v == 1, true
		}
	case int:
		if v == 0 || v == 1 {
			return v == 1, true
		}
	}
	return false, false
}

func toDate(s string) (string, bool) {
	s = strings.TrimSpace(s)
	if t, err := time.Parse(dateLayout, s); err == nil {
		return t.Format(dateLayout), true
	}
	if t, err := time.Parse(time.RFC3339, s); err == nil {
		return t.UTC().Format(time.RFC3339), true
	}
	return "", false
}

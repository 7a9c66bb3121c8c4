// Package validator checks request payloads and attribute values before they reach storage.
package validator

import (
	"errors"
	"fmt"
	"reflect"
	"regexp"
	"slices"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/ibdaa1/qooqz/internal/domain"
)

var (
	slugPattern = regexp.MustCompile(`^[a-z0-9][a-z0-9_-]*$`)
	validate    = newValidate()
)

// FieldError describes why a single field was rejected.
type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// Errors is a list of field errors. It is returned for any rejected payload.
type Errors []FieldError

func (e Errors) Error() string {
	parts := make([]string, 0, len(e))
	for _, fe := range e {
		parts = append(parts, fe.Field+": "+fe.Message)
	}
	return "validation failed: " + strings.Join(parts, "; ")
}

// Field builds a single-field Errors value.
func Field(field, format string, args ...any) Errors {
	return Errors{{Field: field, Message: fmt.Sprintf(format, args...)}}
}

// AsErrors reports whether err carries field errors and returns them.
func AsErrors(err error) (Errors, bool) {
	var ve Errors
	if errors.As(err, &ve) {
		return ve, true
	}
	return nil, false
}

func newValidate() *validator.Validate {
	v := validator.New()
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name := strings.SplitN(f.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	_ = v.RegisterValidation("slug", func(fl validator.FieldLevel) bool {
		return slugPattern.MatchString(fl.Field().String())
	})
	_ = v.RegisterValidation("datatype", func(fl validator.FieldLevel) bool {
		return slices.Contains(domain.DataTypes, fl.Field().String())
	})
	_ = v.RegisterValidation("entity_status", func(fl validator.FieldLevel) bool {
		return slices.Contains(domain.EntityStatuses, fl.Field().String())
	})
	return v
}

// Struct validates a request DTO against its validate tags.
func Struct(s any) error {
	err := validate.Struct(s)
	if err == nil {
		return nil
	}
	var ves validator.ValidationErrors
	if !errors.As(err, &ves) {
		return err
	}
	out := make(Errors, 0, len(ves))
	for _, fe := range ves {
		out = append(out, FieldError{Field: fieldPath(fe), Message: message(fe)})
	}
	return out
}

// fieldPath drops the struct name from the namespace: "CreateEntityRequestDTO.name" -> "name".
func fieldPath(fe validator.FieldError) string {
	ns := fe.Namespace()
	if i := strings.IndexByte(ns, '.'); i >= 0 {
		return ns[i+1:]
	}
	return fe.Field()
}

func message(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "is required"
	case "max":
		return "must be at most " + fe.Param() + " long"
	case "min":
		return "must contain at least " + fe.Param() + " item(s)"
	case "gt":
		return "must be greater than " + fe.Param()
	case "gte":
		return "must be greater than or equal to " + fe.Param()
	case "unique":
		return "must not contain duplicates"
	case "slug":
		return "must start with a lowercase letter or digit and contain only lowercase letters, digits, '-' or '_'"
	case "datatype":
		return "must be one of " + strings.Join(domain.DataTypes, ", ")
	case "entity_status":
		return "must be one of " + strings.Join(domain.EntityStatuses, ", ")
	default:
		return "failed on " + fe.Tag()
	}
}

// CheckAttributeDefinition enforces the options rules of a data type:
// enums need at least one option, other types take none.
func CheckAttributeDefinition(dataType string, options []string) error {
	if dataType == domain.DataTypeEnum {
		if len(options) == 0 {
			return Field("options", "is required for enum attributes")
		}
		return nil
	}
	if len(options) > 0 {
		return Field("options", "is only allowed for enum attributes")
	}
	return nil
}

var languagePattern = regexp.MustCompile(`^[a-z]{2,3}([_-][A-Za-z]{2,4})?$`)

// CheckLanguageCode accepts ISO 639 codes with an optional region such as "ar" or "en-US".
func CheckLanguageCode(code string) error {
	if !languagePattern.MatchString(code) {
		return Field("language_code", "must be a language code such as ar or en-US")
	}
	return nil
}

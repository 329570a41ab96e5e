package forms

import (
	"errors"
	"fmt"
	"reflect"
	"regexp"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/yourorg/property-portal/internal/model"
)

// ValidationError blocks a submission. Message is the single line shown to
// the user; Field is the JSON name of the offending field.
type ValidationError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

func (e *ValidationError) Error() string { return e.Message }

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name, _, _ := strings.Cut(fld.Tag.Get("json"), ",")
		if name == "-" {
			return ""
		}
		if name == "" {
			return fld.Name
		}
		return name
	})
	must := func(tag string, fn validator.Func) {
		if err := v.RegisterValidation(tag, fn); err != nil {
			panic(err)
		}
	}
	must("property_type", func(fl validator.FieldLevel) bool {
		return model.PropertyType(fl.Field().String()).Valid()
	})
	must("property_status", func(fl validator.FieldLevel) bool {
		return model.PropertyStatus(fl.Field().String()).Valid()
	})
	must("specialty", func(fl validator.FieldLevel) bool {
		return model.Specialty(fl.Field().String()).Valid()
	})
	return v
}

// Validate checks presence and format rules. It reports only the first
// failing field, in declaration order.
func Validate(f Form) error {
	err := validate.Struct(f)
	if err == nil {
		return nil
	}
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) || len(verrs) == 0 {
		return fmt.Errorf("validate %s form: %w", f.Kind(), err)
	}
	fe := verrs[0]
	return &ValidationError{Field: fieldPath(fe.Namespace()), Message: message(fe)}
}

var reIndex = regexp.MustCompile(`\[\d+\]`)

// fieldPath drops the struct name and slice indexes: "TenantForm.emergencyContact.name" -> "emergencyContact.name".
func fieldPath(ns string) string {
	_, rest, found := strings.Cut(ns, ".")
	if !found {
		rest = ns
	}
	return reIndex.ReplaceAllString(rest, "")
}

// label turns a field path into words: "emergencyContact.phone" -> "Emergency contact phone".
func label(path string) string {
	var b strings.Builder
	for i, r := range path {
		switch {
		case r == '.':
			b.WriteByte(' ')
		case r >= 'A' && r <= 'Z':
			if i > 0 {
				b.WriteByte(' ')
			}
			b.WriteRune(r + ('a' - 'A'))
		default:
			b.WriteRune(r)
		}
	}
	out := b.String()
	if out == "" {
		return out
	}
	return strings.ToUpper(out[:1]) + out[1:]
}

func message(fe validator.FieldError) string {
	name := label(fieldPath(fe.Namespace()))
	switch fe.Tag() {
	case "required":
		return name + " is required"
	case "email":
		return name + " must be a valid email address"
	case "len":
		return fmt.Sprintf("%s must be %s characters long", name, fe.Param())
	case "max":
		return fmt.Sprintf("%s must be at most %s characters long", name, fe.Param())
	case "min":
		if fe.Kind() == reflect.Slice {
			return fmt.Sprintf("%s must include at least %s entry", name, fe.Param())
		}
		return fmt.Sprintf("%s must be at least %s", name, fe.Param())
	case "gte":
		return fmt.Sprintf("%s must be at least %s", name, fe.Param())
	case "ltefield":
		return fmt.Sprintf("%s cannot exceed %s", name, strings.ToLower(label(fe.Param())))
	case "numeric":
		return name + " must contain only digits"
	case "alpha":
		return name + " must contain only letters"
	case "url":
		return name + " must be a valid URL"
	case "unique":
		return name + " must not contain duplicates"
	case "datetime":
		return name + " must be a date in YYYY-MM-DD format"
	case "latitude", "longitude":
		return fmt.Sprintf("%s must be a valid %s", name, fe.Tag())
	case "property_type":
		return name + " must be one of: " + joinValues(model.PropertyTypes)
	case "property_status":
		return name + " must be one of: " + joinValues(model.PropertyStatuses)
	case "specialty":
		return name + " must be one of: " + joinValues(model.Specialties)
	}
	return name + " is invalid"
}

func joinValues[T ~string](vals []T) string {
	parts := make([]string, len(vals))
	for i, v := range vals {
		parts[i] = string(v)
	}
	return strings.Join(parts, ", ")
}

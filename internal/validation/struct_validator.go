// Package validation checks inbound commands and catalog files. Struct
// validation uses validate tags; catalog documents are checked against
// embedded JSON schemas.
package validation

import (
	"errors"
	"fmt"
	"sort"
	"strings"
	"sync"
	"unicode"

	"github.com/go-playground/validator/v10"

	"github.com/osse101/brandish-progression/internal/domain"
)

var (
	once     sync.Once
	validate *validator.Validate
)

func get() *validator.Validate {
	once.Do(func() {
		validate = validator.New(validator.WithRequiredStructEnabled())
		_ = validate.RegisterValidation("notblank", notBlank)
	})
	return validate
}

func notBlank(fl validator.FieldLevel) bool {
	return strings.TrimSpace(fl.Field().String()) != ""
}

// FieldError is returned by Struct. It matches domain.ErrValidation with
// errors.Is and still carries the validator errors for FormatValidationError.
type FieldError struct {
	msg   string
	cause error
}

func (e *FieldError) Error() string   { return e.msg }
func (e *FieldError) Unwrap() []error { return []error{domain.ErrValidation, e.cause} }

// Struct validates s by its tags. Failures wrap domain.ErrValidation and list
// the offending fields.
func Struct(s interface{}) error {
	err := get().Struct(s)
	if err == nil {
		return nil
	}

	fields := FormatValidationError(err)
	if len(fields) == 0 {
		return fmt.Errorf("%w: %v", domain.ErrValidation, err)
	}
	parts := make([]string, 0, len(fields))
	for field, msg := range fields {
		parts = append(parts, field+": "+msg)
	}
	sort.Strings(parts)
	return &FieldError{
		msg:   domain.ErrValidation.Error() + ": " + strings.Join(parts, "; "),
		cause: err,
	}
}

// FormatValidationError maps each failing field to a readable message
func FormatValidationError(err error) map[string]string {
	var validationErrors validator.ValidationErrors
	if !errors.As(err, &validationErrors) {
		return nil
	}

	errs := make(map[string]string, len(validationErrors))
	for _, e := range validationErrors {
		field := toSnake(e.Field())
		switch e.Tag() {
		case "required", "notblank":
			errs[field] = "is required"
		case "gte":
			errs[field] = fmt.Sprintf("must be at least %s", e.Param())
		case "gt":
			errs[field] = fmt.Sprintf("must be greater than %s", e.Param())
		case "lte":
			errs[field] = fmt.Sprintf("must be at most %s", e.Param())
		case "oneof":
			errs[field] = fmt.Sprintf("must be one of [%s]", e.Param())
		case "max":
			errs[field] = fmt.Sprintf("must be at most %s characters", e.Param())
		default:
			errs[field] = "is invalid"
		}
	}
	return errs
}

func toSnake(s string) string {
	runes := []rune(s)
	var b strings.Builder
	for i, r := range runes {
		if unicode.IsUpper(r) {
			if i > 0 && (unicode.IsLower(runes[i-1]) || (i+1 < len(runes) && unicode.IsLower(runes[i+1]))) {
				b.WriteByte('_')
			}
			r = unicode.ToLower(r)
		}
		b.WriteRune(r)
	}
	return b.String()
}

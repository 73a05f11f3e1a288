package pipeline

import (
	"errors"
	"fmt"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/petrvlcek232/techcon-growth-dashboard/internal/domain"
)

// RowValidator enforces the struct-tag constraints of raw rows.
// It is safe for concurrent use.
type RowValidator struct {
	validate *validator.Validate
}

// NewRowValidator creates a validator with the custom "monthid" tag registered.
// It panics if the tag cannot be registered.
func NewRowValidator() *RowValidator {
	v := validator.New()

	if err := registerMonthID(v); err != nil {
		panic(err)
	}

	// Use JSON tag names in error messages
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})

	return &RowValidator{validate: v}
}

func registerMonthID(v *validator.Validate) error {
	err := v.RegisterValidation("monthid", func(fl validator.FieldLevel) bool {
		return domain.IsMonthID(fl.Field().String())
	})
	if err != nil {
		return fmt.Errorf("register monthid validation: %w", err)
	}
	return nil
}

// RowOutcome is the tagged result of validating one row.
type RowOutcome[R any] struct {
	Row      R
	Line     int
	Problems []string
}

// OK reports whether the row passed validation.
func (o RowOutcome[R]) OK() bool {
	return len(o.Problems) == 0
}

// Check validates row and never fails; violations end up in Problems.
func Check[R any](v *RowValidator, row R, line int) RowOutcome[R] {
	outcome := RowOutcome[R]{Row: row, Line: line}

	err := v.validate.Struct(row)
	if err == nil {
		return outcome
	}

	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) {
		outcome.Problems = []string{err.Error()}
		return outcome
	}
	for _, fe := range fieldErrs {
		outcome.Problems = append(outcome.Problems, formatFieldError(fe))
	}
	return outcome
}

func formatFieldError(err validator.FieldError) string {
	field := err.Field()
	param := err.Param()

	switch err.Tag() {
	case "required":
		return fmt.Sprintf("%s is required", field)
	case "gte":
		return fmt.Sprintf("%s must be greater than or equal to %s (got %v)", field, param, err.Value())
	case "lte":
		return fmt.Sprintf("%s must be less than or equal to %s (got %v)", field, param, err.Value())
	case "monthid":
		return fmt.Sprintf("%s must be a YYYY-MM month (got %q)", field, err.Value())
	default:
		return fmt.Sprintf("%s failed %s validation", field, err.Tag())
	}
}

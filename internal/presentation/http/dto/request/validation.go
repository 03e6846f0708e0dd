package request

import (
	"errors"
	"sort"

	validation "github.com/go-ozzo/ozzo-validation"
	"github.com/google/uuid"
	"github.com/sangkips/tavern-api/pkg/apperror"
	"github.com/shopspring/decimal"
)

// Validatable is implemented by requests that carry rules beyond gin binding
type Validatable interface {
	Validate() error
}

// ValidationFailure converts an ozzo-validation error into a 400 AppError
// listing every offending field.
func ValidationFailure(err error) *apperror.AppError {
	var errs validation.Errors
	if !errors.As(err, &errs) {
		return apperror.NewBadRequestError(err.Error())
	}

	fields := flatten("", errs)
	sort.Slice(fields, func(i, j int) bool { return fields[i].Field < fields[j].Field })
	return apperror.NewValidationError(fields)
}

func flatten(prefix string, errs validation.Errors) []apperror.FieldError {
	var out []apperror.FieldError
	for field, err := range errs {
		name := field
		if prefix != "" {
			name = prefix + "." + field
		}
		var nested validation.Errors
		if errors.As(err, &nested) {
			out = append(out, flatten(name, nested)...)
			continue
		}
		out = append(out, apperror.FieldError{Field: name, Message: err.Error()})
	}
	return out
}

var (
	errMustBePositive    = errors.New("must be greater than zero")
	errMustNotBeNegative = errors.New("must not be negative")
	errInvalidValue      = errors.New("must be a valid value")
	errBlank             = errors.New("cannot be blank")
)

func positiveDecimal(value interface{}) error {
	if d, ok := value.(decimal.Decimal); ok && !d.IsPositive() {
		return errMustBePositive
	}
	return nil
}

func nonNegativeDecimal(value interface{}) error {
	switch d := value.(type) {
	case decimal.Decimal:
		if d.IsNegative() {
			return errMustNotBeNegative
		}
	case *decimal.Decimal:
		if d != nil && d.IsNegative() {
			return errMustNotBeNegative
		}
	}
	return nil
}

func notNilUUID(value interface{}) error {
	if id, ok := value.(uuid.UUID); ok && id == uuid.Nil {
		return errBlank
	}
	return nil
}

type validEnum interface {
	IsValid() bool
}

// validOption accepts zero values so that Required stays in charge of presence
func validOption(value interface{}) error {
	v, ok := value.(validEnum)
	if !ok || validation.IsEmpty(value) {
		return nil
	}
	if !v.IsValid() {
		return errInvalidValue
	}
	return nil
}

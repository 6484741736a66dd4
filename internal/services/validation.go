package services

import (
	"context"
	"errors"
	"fmt"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"

	"revistas_backend/internal/repositories"
	"revistas_backend/pkg/utils"
)

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	// Report JSON field names so messages match the request payload.
	v.RegisterTagNameFunc(func(field reflect.StructField) string {
		name := strings.SplitN(field.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	return v
}

// Transactor runs fn inside a single database transaction.
type Transactor interface {
	WithinTx(ctx context.Context, fn func(executor repositories.SQLExecutor) error) error
}

// validateRequest checks `validate` struct tags and converts failures into
// ErrValidation (or ErrInvalidQuantity for quantity fields).
func validateRequest(req interface{}) error {
	err := validate.Struct(req)
	if err == nil {
		return nil
	}
	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) {
		return fmt.Errorf("%w: %v", ErrValidation, err)
	}

	problems := make([]string, 0, len(fieldErrs))
	for _, fe := range fieldErrs {
		if fe.StructField() == "Quantity" {
			return fmt.Errorf("%w (%s)", ErrInvalidQuantity, fe.Namespace())
		}
		if fe.StructField() == "Items" && fe.Tag() == "min" {
			return ErrEmptyOrder
		}
		problems = append(problems, describeFieldError(fe))
	}
	return fmt.Errorf("%w: %s", ErrValidation, strings.Join(problems, "; "))
}

func describeFieldError(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return fmt.Sprintf("%s is required", fe.Field())
	case "datetime":
		return fmt.Sprintf("%s must be a date in the format %s", fe.Field(), fe.Param())
	case "oneof":
		return fmt.Sprintf("%s must be one of [%s]", fe.Field(), fe.Param())
	default:
		if fe.Param() != "" {
			return fmt.Sprintf("%s failed %s=%s", fe.Field(), fe.Tag(), fe.Param())
		}
		return fmt.Sprintf("%s failed %s", fe.Field(), fe.Tag())
	}
}

// optionalText trims s and turns blank text into nil so it is stored as NULL.
func optionalText(s *string) *string {
	if s == nil {
		return nil
	}
	return utils.NewNullString(strings.TrimSpace(*s))
}

// translateRepoError maps repository sentinels onto the service taxonomy.
// notFound is returned for repositories.ErrNotFound.
func translateRepoError(err error, notFound error, action string) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, repositories.ErrNotFound):
		return notFound
	case errors.Is(err, repositories.ErrDuplicateKey):
		return fmt.Errorf("%w (%s)", ErrDuplicateCode, action)
	case errors.Is(err, repositories.ErrForeignKey):
		return fmt.Errorf("%w (%s)", ErrInUse, action)
	default:
		return fmt.Errorf("failed to %s: %w", action, err)
	}
}

package domain

import (
	"errors"
	"fmt"
	"reflect"
	"strings"
	"sync"
	"time"

	"github.com/go-playground/validator/v10"
)

// MinCatalogYear is the earliest publication year accepted for a game.
const MinCatalogYear = 1800

// MaxYearsAhead bounds announced games: year <= current year + MaxYearsAhead.
const MaxYearsAhead = 5

// MaxCatalogYear is the latest publication year accepted today.
func MaxCatalogYear() int { return now().Year() + MaxYearsAhead }

var (
	validate     *validator.Validate
	validateOnce sync.Once

	// now is swapped in tests.
	now = time.Now
)

// getValidator returns the shared validator, built once.
func getValidator() *validator.Validate {
	validateOnce.Do(func() {
		validate = validator.New(validator.WithRequiredStructEnabled())
		validate.RegisterTagNameFunc(func(fld reflect.StructField) string {
			name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
			if name == "-" || name == "" {
				return fld.Name
			}
			return name
		})
		_ = validate.RegisterValidation("catalogyear", func(fl validator.FieldLevel) bool {
			y := fl.Field().Int()
			return y >= MinCatalogYear && y <= int64(MaxCatalogYear())
		})
	})
	return validate
}

// validateStruct runs the struct tags of s and folds the result into a ValidationError.
func validateStruct(entity string, s any, extra ...FieldError) error {
	fields := append([]FieldError(nil), extra...)

	if err := getValidator().Struct(s); err != nil {
		var verrs validator.ValidationErrors
		if !errors.As(err, &verrs) {
			return fmt.Errorf("validate %s: %w", entity, err)
		}
		for _, fe := range verrs {
			fields = append(fields, FieldError{
				Field:   fe.Field(),
				Tag:     fe.Tag(),
				Param:   fe.Param(),
				Message: translate(fe),
			})
		}
	}

	if len(fields) == 0 {
		return nil
	}
	return &ValidationError{Entity: entity, Fields: fields}
}

var messageTemplates = map[string]string{
	"required":    "%s is required",
	"unique":      "%s must not contain duplicates",
	"email":       "%s must be a valid email address",
	"url":         "%s must be a valid URL",
	"catalogyear": "%s must be between 1800 and five years from now",
}

var messageWithParam = map[string]string{
	"gte": "%s must be greater than or equal to %s",
	"lte": "%s must be less than or equal to %s",
	"gt":  "%s must be greater than %s",
	"lt":  "%s must be less than %s",
}

func translate(fe validator.FieldError) string {
	field := fe.Field()
	if t, ok := messageTemplates[fe.Tag()]; ok {
		return fmt.Sprintf(t, field)
	}
	if t, ok := messageWithParam[fe.Tag()]; ok {
		return fmt.Sprintf(t, field, fe.Param())
	}

	switch kind := fe.Kind(); fe.Tag() {
	case "min":
		if kind == reflect.String {
			return fmt.Sprintf("%s must be at least %s characters", field, fe.Param())
		}
		if kind == reflect.Slice {
			return fmt.Sprintf("%s must contain at least %s entries", field, fe.Param())
		}
		return fmt.Sprintf("%s must be at least %s", field, fe.Param())
	case "max":
		if kind == reflect.String {
			return fmt.Sprintf("%s must be at most %s characters", field, fe.Param())
		}
		if kind == reflect.Slice {
			return fmt.Sprintf("%s must contain at most %s entries", field, fe.Param())
		}
		return fmt.Sprintf("%s must be at most %s", field, fe.Param())
	default:
		return fmt.Sprintf("%s failed %s validation", field, fe.Tag())
	}
}

func fieldError(field, tag, message string) FieldError {
	return FieldError{Field: field, Tag: tag, Message: message}
}

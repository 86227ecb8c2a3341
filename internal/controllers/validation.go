package controllers

import (
	"errors"
	"fmt"
	"reflect"
	"strings"
	"sync"

	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"

	"usercache-be/internal/models"
)

var registerTagNameOnce sync.Once

// UseJSONFieldNames makes validation errors report json tag names ("email")
// instead of Go field names ("Email")
func UseJSONFieldNames() {
	registerTagNameOnce.Do(func() {
		v, ok := binding.Validator.Engine().(*validator.Validate)
		if !ok {
			return
		}
		v.RegisterTagNameFunc(func(fld reflect.StructField) string {
			name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
			if name == "-" {
				return ""
			}
			if name == "" {
				return fld.Name
			}
			return name
		})
	})
}

// validationDetails converts a binding error into per-field details
func validationDetails(err error) []models.FieldDetail {
	var validationErrs validator.ValidationErrors
	if !errors.As(err, &validationErrs) {
		return []models.FieldDetail{{
			Field:   "body",
			Tag:     "json",
			Message: "request body must be a valid JSON object",
		}}
	}

	details := make([]models.FieldDetail, 0, len(validationErrs))
	for _, fieldErr := range validationErrs {
		details = append(details, models.FieldDetail{
			Field:   fieldErr.Field(),
			Tag:     fieldErr.Tag(),
			Message: describe(fieldErr),
		})
	}
	return details
}

func describe(fieldErr validator.FieldError) string {
	switch fieldErr.Tag() {
	case "required":
		return fmt.Sprintf("%s is required", fieldErr.Field())
	case "email":
		return fmt.Sprintf("%s must be a valid email address", fieldErr.Field())
	case "min":
		return fmt.Sprintf("%s must be at least %s characters long", fieldErr.Field(), fieldErr.Param())
	default:
		return fmt.Sprintf("%s failed on the '%s' rule", fieldErr.Field(), fieldErr.Tag())
	}
}

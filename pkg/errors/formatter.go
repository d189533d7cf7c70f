package errors

import (
	"encoding/json"
	"errors"
	"fmt"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
)

type ValidationErrorResponse struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

func msgForTag(tag string) string {
	switch tag {
	case "required":
		return "This field is required"
	case "email":
		return "Invalid email format"
	case "min":
		return "Value is too short or too small"
	case "max":
		return "Value is too long or too large"
	default:
		return "Invalid value"
	}
}

func getJSONFieldName(structType reflect.Type, fieldName string) string {
	field, found := structType.FieldByName(fieldName)
	if !found {
		return fieldName
	}

	jsonTag := field.Tag.Get("json")
	if jsonTag == "" {
		return fieldName
	}

	parts := strings.Split(jsonTag, ",")
	return parts[0]
}

// FormatValidationErrors turns bind errors into per-field messages keyed by JSON name.
// It returns an empty list for errors it does not recognise (e.g. malformed JSON).
func FormatValidationErrors(err error, model interface{}) []ValidationErrorResponse {
	var errorsList []ValidationErrorResponse

	if err == nil {
		return errorsList
	}

	var typeErr *json.UnmarshalTypeError
	if errors.As(err, &typeErr) {
		return []ValidationErrorResponse{
			{
				Field:   typeErr.Field,
				Message: fmt.Sprintf("Invalid type for field %s. Expected %s, got %s", typeErr.Field, typeErr.Type, typeErr.Value),
			},
		}
	}

	var validationErrors validator.ValidationErrors
	if !errors.As(err, &validationErrors) {
		return errorsList
	}

	var structType reflect.Type
	if model != nil {
		structType = reflect.TypeOf(model)
		if structType.Kind() == reflect.Ptr {
			structType = structType.Elem()
		}
	}

	errorsList = make([]ValidationErrorResponse, len(validationErrors))

	for i, fieldError := range validationErrors {
		jsonField := fieldError.Field()
		if structType != nil {
			jsonField = getJSONFieldName(structType, fieldError.Field())
		}

		message := msgForTag(fieldError.Tag())

		if fieldError.Param() != "" {
			switch fieldError.Tag() {
			case "min":
				message = fmt.Sprintf("Must be at least %s characters", fieldError.Param())
			case "max":
				message = fmt.Sprintf("Must not exceed %s characters", fieldError.Param())
			}
		}

		errorsList[i] = ValidationErrorResponse{
			Field:   jsonField,
			Message: message,
		}
	}

	return errorsList
}

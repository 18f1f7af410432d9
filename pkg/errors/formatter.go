package errors

import (
	"encoding/json"
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
	case "required", "required_without", "required_unless":
		return "This field is required"
	case "email":
		return "Invalid email format"
	case "min":
		return "Value is too short or too small"
	case "max":
		return "Value is too long or too large"
	case "numeric":
		return "Value must be numeric"
	case "oneof":
		return "Value is not one of the allowed options"
	case "hostname_rfc1123", "hostname_port":
		return "Invalid host"
	case "url":
		return "Invalid URL format"
	case "gt":
		return "Value must be greater than specified"
	case "gte":
		return "Value must be greater than or equal to specified"
	case "lte":
		return "Value must be less than or equal to specified"
	default:
		return "Invalid value"
	}
}

func fieldNameFromTag(structType reflect.Type, fieldName, tagName string) string {
	if structType == nil {
		return fieldName
	}

	field, found := structType.FieldByName(fieldName)
	if !found {
		return fieldName
	}

	tag := field.Tag.Get(tagName)
	if tag == "" || tag == "-" {
		return fieldName
	}

	return strings.Split(tag, ",")[0]
}

// FormatValidationErrors flattens binding and validator errors into per-field
// messages. Field names are taken from the tagName struct tag of model
// ("json", "form", "env", ...), falling back to the Go field name.
func FormatValidationErrors(err error, model any, tagName string) []ValidationErrorResponse {
	var errorsList []ValidationErrorResponse

	if err == nil {
		return errorsList
	}

	if jsonErr, ok := err.(*json.UnmarshalTypeError); ok {
		return []ValidationErrorResponse{
			{
				Field:   jsonErr.Field,
				Message: fmt.Sprintf("Invalid type for field %s. Expected %s, got %s", jsonErr.Field, jsonErr.Type, jsonErr.Value),
			},
		}
	}

	validationErrors, ok := err.(validator.ValidationErrors)
	if !ok {
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
		message := msgForTag(fieldError.Tag())

		if fieldError.Param() != "" {
			switch fieldError.Tag() {
			case "min":
				message = fmt.Sprintf("Must be at least %s", fieldError.Param())
			case "max":
				message = fmt.Sprintf("Must not exceed %s", fieldError.Param())
			case "oneof":
				message = fmt.Sprintf("Must be one of: %s", strings.ReplaceAll(fieldError.Param(), " ", ", "))
			case "gt":
				message = fmt.Sprintf("Must be greater than %s", fieldError.Param())
			case "lte":
				message = fmt.Sprintf("Must be less than or equal to %s", fieldError.Param())
			}
		}

		errorsList[i] = ValidationErrorResponse{
			Field:   fieldNameFromTag(structType, fieldError.StructField(), tagName),
			Message: message,
		}
	}

	return errorsList
}

// JoinValidationErrors renders formatted validation errors on one line,
// suitable for a log attribute or a startup error.
func JoinValidationErrors(list []ValidationErrorResponse) string {
	parts := make([]string, 0, len(list))
	for _, v := range list {
		parts = append(parts, v.Field+": "+v.Message)
	}
	return strings.Join(parts, "; ")
}

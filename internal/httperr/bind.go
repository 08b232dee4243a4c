package httperr

import (
	"errors"
	"reflect"
	"strings"

	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
)

// UseJSONFieldNames makes validation errors report json field names.
func UseJSONFieldNames() {
	v, ok := binding.Validator.Engine().(*validator.Validate)
	if !ok {
		return
	}
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		for _, tag := range []string{"json", "form"} {
			name := strings.SplitN(f.Tag.Get(tag), ",", 2)[0]
			if name != "" && name != "-" {
				return name
			}
		}
		return f.Name
	})
}

// FromBinding converts a gin binding error into a field-keyed validation error.
func FromBinding(err error) error {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return Validation("invalid_request", "Invalid request data.")
	}

	fields := make(map[string]string, len(verrs))
	for _, fe := range verrs {
		fields[fe.Field()] = describe(fe)
	}
	return ValidationFields(fields)
}

func describe(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "This field is required."
	case "email":
		return "Enter a valid email address."
	case "min":
		return "Ensure this field has at least " + fe.Param() + " characters."
	case "max":
		return "Ensure this field has no more than " + fe.Param() + " characters."
	case "gt", "gte":
		return "Ensure this value is greater than " + fe.Param() + "."
	case "oneof":
		return "Must be one of: " + fe.Param() + "."
	default:
		return "Invalid value."
	}
}

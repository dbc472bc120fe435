// internal/utils/validation.go
package utils

import (
	"fmt"
	"reflect"
	"sort"
	"strings"

	"github.com/go-playground/validator/v10"
)

// JSONFieldName names validation errors after the json tag of a field
func JSONFieldName(field reflect.StructField) string {
	name := strings.SplitN(field.Tag.Get("json"), ",", 2)[0]
	switch name {
	case "-":
		return ""
	case "":
		return field.Name
	}
	return name
}

// ValidationMessages turns validator errors into a field -> message map.
// Field paths drop the top-level struct name, so a nested field reads
// "settings.ip_address".
func ValidationMessages(errs validator.ValidationErrors) map[string]string {
	messages := make(map[string]string, len(errs))
	for _, fe := range errs {
		field := fe.Namespace()
		if i := strings.Index(field, "."); i >= 0 {
			field = field[i+1:]
		}
		messages[field] = describeValidation(fe)
	}
	return messages
}

// JoinValidationMessages flattens validator errors into one sorted line
func JoinValidationMessages(errs validator.ValidationErrors) string {
	messages := ValidationMessages(errs)
	parts := make([]string, 0, len(messages))
	for field, msg := range messages {
		parts = append(parts, field+" "+msg)
	}
	sort.Strings(parts)
	return strings.Join(parts, "; ")
}

func describeValidation(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "is required"
	case "ipv4":
		return "must be a valid IPv4 address"
	case "min":
		return fmt.Sprintf("must be at least %s", fe.Param())
	case "max":
		return fmt.Sprintf("must be at most %s", fe.Param())
	case "gt":
		return fmt.Sprintf("must be greater than %s", fe.Param())
	default:
		return fmt.Sprintf("failed %q validation", fe.Tag())
	}
}

// Package validation checks decoded form structs with go-playground/validator and turns
// failures into per-field messages keyed by the form field name.
package validation

import (
	"errors"
	"fmt"
	"reflect"
	"strings"
	"sync"

	"github.com/go-playground/validator/v10"
)

var (
	once     sync.Once
	validate *validator.Validate
)

// messages maps validation tags to user-facing text. The first %s is the field label,
// the second (when present) the tag parameter.
var messages = map[string]string{
	"required": "%s is required.",
	"max":      "%s cannot exceed %s characters.",
	"min":      "%s must be at least %s characters.",
	"oneof":    "%s must be one of: %s.",
	"url":      "%s must be a valid URL.",
	"numeric":  "%s must be a number.",
}

func instance() *validator.Validate {
	once.Do(func() {
		validate = validator.New(validator.WithRequiredStructEnabled())
		validate.RegisterTagNameFunc(func(f reflect.StructField) string {
			name := strings.SplitN(f.Tag.Get("form"), ",", 2)[0]
			if name == "-" || name == "" {
				return f.Name
			}
			return name
		})
	})
	return validate
}

// Struct validates v and returns messages keyed by form field name. A nil map means v is valid.
func Struct(v any) map[string]string {
	err := instance().Struct(v)
	if err == nil {
		return nil
	}

	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) {
		return map[string]string{"_": err.Error()}
	}

	out := make(map[string]string, len(fieldErrs))
	for _, fe := range fieldErrs {
		if _, seen := out[fe.Field()]; seen {
			continue
		}
		out[fe.Field()] = message(fe)
	}
	return out
}

func message(fe validator.FieldError) string {
	label := labelFor(fe.Field())
	tmpl, ok := messages[fe.Tag()]
	if !ok {
		return fmt.Sprintf("%s is invalid.", label)
	}
	if strings.Count(tmpl, "%s") == 2 {
		param := fe.Param()
		if fe.Tag() == "oneof" {
			param = strings.Join(strings.Fields(param), ", ")
		}
		return fmt.Sprintf(tmpl, label, param)
	}
	return fmt.Sprintf(tmpl, label)
}

// labelFor turns "salary_min" into "Salary min".
func labelFor(field string) string {
	field = strings.ReplaceAll(field, "_", " ")
	if field == "" {
		return "Value"
	}
	return strings.ToUpper(field[:1]) + field[1:]
}

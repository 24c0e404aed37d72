// Package serializer turns raw request fields into validated records.
package serializer

import (
	"errors"
	"fmt"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
)

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name, _, _ := strings.Cut(f.Tag.Get("json"), ",")
		if name == "-" {
			return ""
		}
		return name
	})
	return v
}

// report collects messages per field.
type report map[string][]string

func (r report) add(field, message string) {
	r[field] = append(r[field], message)
}

// merge copies the entries of other under prefix.
func (r report) merge(prefix string, other report) {
	for field, messages := range other {
		r[prefix+field] = append(r[prefix+field], messages...)
	}
}

func (r report) empty() bool {
	return len(r) == 0
}

func check(s any) (report, error) {
	r := report{}
	err := validate.Struct(s)
	if err == nil {
		return r, nil
	}

	var errs validator.ValidationErrors
	if !errors.As(err, &errs) {
		return nil, err
	}
	for _, fe := range errs {
		r.add(fe.Field(), message(fe))
	}
	return r, nil
}

func message(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "This field is required."
	case "email":
		return "Enter a valid email address."
	case "max":
		return fmt.Sprintf("Ensure this field has no more than %s characters.", fe.Param())
	default:
		return "Invalid value."
	}
}

func trim(fields ...*string) {
	for _, f := range fields {
		*f = strings.TrimSpace(*f)
	}
}

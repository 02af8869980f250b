// Package validation checks the storefront forms and reports problems in
// the flattened field -> messages shape the frontend renders.
package validation

import (
	"errors"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
)

// GlobalField carries errors that do not belong to a single field.
const GlobalField = "_global"

// FieldErrors maps a form field to its error messages.
type FieldErrors map[string][]string

func (fe FieldErrors) Add(field, msg string) {
	fe[field] = append(fe[field], msg)
}

func (fe FieldErrors) Empty() bool {
	return len(fe) == 0
}

func (fe FieldErrors) Error() string {
	var parts []string
	for field, msgs := range fe {
		parts = append(parts, field+": "+strings.Join(msgs, ", "))
	}
	return strings.Join(parts, "; ")
}

// Global builds a FieldErrors holding a single form-level message.
func Global(msg string) FieldErrors {
	return FieldErrors{GlobalField: {msg}}
}

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	// report errors under the JSON names the frontend uses
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name, _, _ := strings.Cut(f.Tag.Get("json"), ",")
		if name == "-" {
			return ""
		}
		return name
	})
	return v
}

// check runs the struct tags of v and translates failures with messages,
// keyed by "field.tag" then "field".
func check(v any, messages map[string]string) FieldErrors {
	fe := FieldErrors{}
	err := validate.Struct(v)
	if err == nil {
		return fe
	}

	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		fe.Add(GlobalField, err.Error())
		return fe
	}
	for _, e := range verrs {
		field := e.Field()
		msg, ok := messages[field+"."+e.Tag()]
		if !ok {
			msg, ok = messages[field]
		}
		if !ok {
			msg = "Invalid value"
		}
		fe.Add(field, msg)
	}
	return fe
}

// Package validation runs struct-tag based form validation and reports
// failures per field, keyed by the JSON name of the field.
package validation

import (
	"errors"
	"reflect"
	"regexp"
	"sort"
	"strings"

	"github.com/go-playground/validator/v10"
)

var (
	lettersSpacesRe = regexp.MustCompile(`^[a-zA-Z\s]+$`)
	digitsRe        = regexp.MustCompile(`^\d+$`)
	anyDigitRe      = regexp.MustCompile(`\d`)
	phoneRe         = regexp.MustCompile(`^\+?[\d\s\-()]+$`)
	clockRe         = regexp.MustCompile(`^\d{2}:\d{2}:\d{2}$`)
	looseEmailRe    = regexp.MustCompile(`^\S+@\S+$`)
)

// FieldErrors maps a field name to the first problem found with it.
type FieldErrors map[string]string

func (fe FieldErrors) Error() string {
	keys := make([]string, 0, len(fe))
	for k := range fe {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	parts := make([]string, 0, len(keys))
	for _, k := range keys {
		parts = append(parts, k+": "+fe[k])
	}

	return "validation failed: " + strings.Join(parts, "; ")
}

// Add records msg for field unless the field already has a message.
func (fe FieldErrors) Add(field, msg string) {
	if _, ok := fe[field]; ok {
		return
	}
	fe[field] = msg
}

// Err returns fe as an error, or nil when there are no failures.
func (fe FieldErrors) Err() error {
	if len(fe) == 0 {
		return nil
	}
	return fe
}

// Messages overrides the default failure text. Keys are either
// "field.tag" or "field".
type Messages map[string]string

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())

	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name := strings.SplitN(f.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})

	mustRegister(v, "letters_spaces", func(fl validator.FieldLevel) bool {
		return lettersSpacesRe.MatchString(fl.Field().String())
	})
	mustRegister(v, "no_digits", func(fl validator.FieldLevel) bool {
		return !anyDigitRe.MatchString(fl.Field().String())
	})
	mustRegister(v, "digits", func(fl validator.FieldLevel) bool {
		return digitsRe.MatchString(fl.Field().String())
	})
	mustRegister(v, "phone", func(fl validator.FieldLevel) bool {
		return phoneRe.MatchString(fl.Field().String())
	})
	mustRegister(v, "clock", func(fl validator.FieldLevel) bool {
		return clockRe.MatchString(fl.Field().String())
	})
	mustRegister(v, "loose_email", func(fl validator.FieldLevel) bool {
		return looseEmailRe.MatchString(fl.Field().String())
	})

	return v
}

func mustRegister(v *validator.Validate, tag string, fn validator.Func) {
	if err := v.RegisterValidation(tag, fn); err != nil {
		panic(err)
	}
}

// Struct validates s and returns the failures, or nil.
func Struct(s any, msgs Messages) FieldErrors {
	err := validate.Struct(s)
	if err == nil {
		return nil
	}

	var ves validator.ValidationErrors
	if !errors.As(err, &ves) {
		return FieldErrors{"_": err.Error()}
	}

	out := FieldErrors{}
	for _, fe := range ves {
		field := fieldPath(fe)
		out.Add(field, message(msgs, fe))
	}

	return out
}

// IsClock reports whether s has the HH:MM:SS shape.
func IsClock(s string) bool {
	return clockRe.MatchString(s)
}

func fieldPath(fe validator.FieldError) string {
	ns := fe.Namespace()
	if i := strings.IndexByte(ns, '.'); i >= 0 {
		return ns[i+1:]
	}
	return fe.Field()
}

func message(msgs Messages, fe validator.FieldError) string {
	if m, ok := msgs[fe.Field()+"."+fe.Tag()]; ok {
		return m
	}
	if m, ok := msgs[fe.Field()]; ok {
		return m
	}

	switch fe.Tag() {
	case "required":
		return "is required"
	case "min":
		if fe.Kind() == reflect.String {
			return "must be at least " + fe.Param() + " characters"
		}
		return "must be at least " + fe.Param()
	case "max":
		if fe.Kind() == reflect.String {
			return "must be at most " + fe.Param() + " characters"
		}
		return "must be at most " + fe.Param()
	case "gt":
		return "must be greater than " + fe.Param()
	case "gte":
		return "must be at least " + fe.Param()
	case "email", "loose_email":
		return "invalid email"
	case "letters_spaces":
		return "only letters and spaces are allowed"
	case "no_digits":
		return "must not contain numbers"
	case "digits":
		return "must contain only digits"
	case "phone":
		return "invalid phone number"
	case "clock":
		return "must be in HH:MM:SS format"
	case "oneof":
		return "must be one of " + fe.Param()
	default:
		return "is invalid"
	}
}

package models

import (
	"errors"
	"fmt"
	"reflect"
	"strings"
	"time"
	"unicode"

	"github.com/go-playground/validator/v10"
)

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())

	// Report JSON field names so messages match what the client sent.
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" || name == "" {
			return fld.Name
		}
		return name
	})

	if err := v.RegisterValidation("alphaspace", isAlphaSpace); err != nil {
		panic(err)
	}
	if err := v.RegisterValidation("password", isPassword); err != nil {
		panic(err)
	}
	return v
}

// isAlphaSpace accepts ASCII letters and whitespace only.
func isAlphaSpace(fl validator.FieldLevel) bool {
	s := fl.Field().String()
	if s == "" {
		return false
	}
	for _, r := range s {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z':
		case unicode.IsSpace(r):
		default:
			return false
		}
	}
	return true
}

// isPassword accepts 6-20 ASCII letters and digits with at least one of each.
func isPassword(fl validator.FieldLevel) bool {
	s := fl.Field().String()
	if len(s) < 6 || len(s) > 20 {
		return false
	}
	var letter, digit bool
	for _, r := range s {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z':
			letter = true
		case r >= '0' && r <= '9':
			digit = true
		default:
			return false
		}
	}
	return letter && digit
}

// Validate runs struct tag validation on any of the package's types.
func Validate(v any) error {
	return validate.Struct(v)
}

// ValidationMessage renders a validation error as a client-facing message.
func ValidationMessage(err error) string {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return err.Error()
	}

	msgs := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		msgs = append(msgs, fieldMessage(fe))
	}
	return strings.Join(msgs, "; ")
}

func fieldMessage(fe validator.FieldError) string {
	field := fe.Field()
	switch fe.Tag() {
	case "required":
		return fmt.Sprintf("%s is required", field)
	case "min":
		return fmt.Sprintf("%s must be at least %s characters", field, fe.Param())
	case "max":
		return fmt.Sprintf("%s must be at most %s characters", field, fe.Param())
	case "alphanum":
		return fmt.Sprintf("%s must contain only letters and numbers", field)
	case "alphaspace":
		return fmt.Sprintf("%s must contain only letters and spaces", field)
	case "password":
		return fmt.Sprintf("%s must be 6-20 letters and digits with at least one of each", field)
	default:
		return fmt.Sprintf("%s is invalid", field)
	}
}

// Now returns the current time at the precision the document store keeps.
func Now() time.Time {
	return time.Now().UTC().Truncate(time.Millisecond)
}

package validator

import (
	"errors"
	"unicode"
	"unicode/utf8"

	"anoa.com/recruitportal/pkg/apperror"
	"anoa.com/recruitportal/pkg/i18n"
	"github.com/go-playground/validator/v10"
)

// Keys maps "Field.tag" of a failed rule to a message key.
type Keys map[string]string

var validate = newValidate()

func newValidate() *validator.Validate {
	v := validator.New()
	_ = v.RegisterValidation("nodigitprefix", func(fl validator.FieldLevel) bool {
		r, _ := utf8.DecodeRuneInString(fl.Field().String())
		return !unicode.IsDigit(r)
	})
	return v
}

// Struct validates s using its `validate` tags and returns a validation
// AppError keyed by the first failing rule.
func Struct(s any, keys Keys) error {
	err := validate.Struct(s)
	if err == nil {
		return nil
	}

	var validationErrors validator.ValidationErrors
	if !errors.As(err, &validationErrors) || len(validationErrors) == 0 {
		return apperror.Validation(i18n.ValidationInvalid)
	}

	return apperror.Validation(fieldKey(validationErrors[0], keys))
}

func fieldKey(fe validator.FieldError, keys Keys) string {
	if key, ok := keys[fe.Field()+"."+fe.Tag()]; ok {
		return key
	}
	if key, ok := keys[fe.Field()]; ok {
		return key
	}
	return i18n.ValidationInvalid
}

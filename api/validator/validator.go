package validator

import (
	"encoding/json"
	"errors"
	"reflect"
	"strings"

	"github.com/go-playground/locales/en"
	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"
	en_translations "github.com/go-playground/validator/v10/translations/en"
)

type Validator struct {
	*validator.Validate
	trans ut.Translator
}

type FieldErrors map[string]string

// ValidationErrors keeps field messages in the order they were reported.
type ValidationErrors struct {
	errors FieldErrors
	order  []string
}

func (v *ValidationErrors) AddFieldError(key, message string) {
	if v.errors == nil {
		v.errors = make(FieldErrors)
	}

	if _, ok := v.errors[key]; ok {
		return
	}

	v.errors[key] = message
	v.order = append(v.order, key)
}

func (v *ValidationErrors) Error() string {
	if len(v.errors) == 0 {
		return "{}"
	}

	var builder strings.Builder

	_ = json.NewEncoder(&builder).Encode(v.errors)

	return strings.TrimSpace(builder.String())
}

func (v *ValidationErrors) FieldErrors() FieldErrors {
	return v.errors
}

// First returns the message of the first failing field.
func (v *ValidationErrors) First() string {
	if len(v.order) == 0 {
		return ""
	}
	return v.errors[v.order[0]]
}

// New builds a validator whose field names come from the `label` tag, then
// `json`, then `form`.
func New() *Validator {
	validate := validator.New(validator.WithRequiredStructEnabled())

	english := en.New()

	uni := ut.New(english, english)

	trans, _ := uni.GetTranslator("en")

	_ = en_translations.RegisterDefaultTranslations(validate, trans)

	validate.RegisterTagNameFunc(func(fld reflect.StructField) string {
		if label := fld.Tag.Get("label"); label != "" {
			return label
		}

		fieldTag := fld.Tag.Get("json")

		if fieldTag == "" {
			fieldTag = fld.Tag.Get("form")
		}

		if fieldTag == "" || fieldTag == "-" {
			return fld.Name
		}
		return strings.Split(fieldTag, ",")[0]
	})

	registerCustomErrorMessages(validate, trans)

	return &Validator{
		Validate: validate,
		trans:    trans,
	}
}

// Struct validates val and returns nil or the translated field errors.
func (v *Validator) Struct(val any) *ValidationErrors {
	err := v.Validate.Struct(val)
	if err == nil {
		return nil
	}

	validationErrors := &ValidationErrors{}

	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) {
		validationErrors.AddFieldError("_", err.Error())
		return validationErrors
	}

	for _, entry := range fieldErrs {
		validationErrors.AddFieldError(entry.Field(), entry.Translate(v.trans))
	}

	return validationErrors
}

// registerCustomErrorMessages registers custom error messages for validation tags
func registerCustomErrorMessages(validate *validator.Validate, trans ut.Translator) {
	_ = validate.RegisterTranslation("required", trans, func(ut ut.Translator) error {
		return ut.Add("required", "{0} required", true)
	}, func(ut ut.Translator, fe validator.FieldError) string {
		t, _ := ut.T("required", fe.Field())
		return t
	})

	_ = validate.RegisterTranslation("email", trans, func(ut ut.Translator) error {
		return ut.Add("email", "{0} must be a valid email address", true)
	}, func(ut ut.Translator, fe validator.FieldError) string {
		t, _ := ut.T("email", fe.Field())
		return t
	})

	_ = validate.RegisterTranslation("iso3166_1_alpha2", trans, func(ut ut.Translator) error {
		return ut.Add("iso3166_1_alpha2", "{0} must be a two-letter country code", true)
	}, func(ut ut.Translator, fe validator.FieldError) string {
		t, _ := ut.T("iso3166_1_alpha2", fe.Field())
		return t
	})
}

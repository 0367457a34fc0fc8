package http

import (
	"errors"
	"reflect"
	"strings"

	"github.com/go-playground/locales/en"
	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"
	en_translations "github.com/go-playground/validator/v10/translations/en"

	"github.com/aitutor/tutor-api/internal/rbac"
)

var (
	validate   *validator.Validate
	translator ut.Translator

	notBlankTag = "notblank"
	roleTag     = "role"
)

func init() {
	validate = validator.New(validator.WithRequiredStructEnabled())

	_en := en.New()
	uni := ut.New(_en, _en)
	translator, _ = uni.GetTranslator("en")
	_ = en_translations.RegisterDefaultTranslations(validate, translator)

	// Use JSON tag names for errors instead of Go struct names.
	validate.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})

	_ = validate.RegisterValidation(notBlankTag, func(fl validator.FieldLevel) bool {
		s, ok := fl.Field().Interface().(string)
		return ok && strings.TrimSpace(s) != ""
	})
	_ = validate.RegisterValidation(roleTag, func(fl validator.FieldLevel) bool {
		s, ok := fl.Field().Interface().(string)
		return ok && rbac.ValidRole(s)
	})

	noop := func(ut.Translator) error { return nil }
	_ = validate.RegisterTranslation(notBlankTag, translator, noop, func(_ ut.Translator, fe validator.FieldError) string {
		return fe.Field() + " is required"
	})
	_ = validate.RegisterTranslation(roleTag, translator, noop, func(_ ut.Translator, fe validator.FieldError) string {
		return "invalid role"
	})
}

// validationMessage turns the first validation failure into a short
// client-facing message.
func validationMessage(err error) string {
	var ve validator.ValidationErrors
	if errors.As(err, &ve) && len(ve) > 0 {
		return ve[0].Translate(translator)
	}
	return err.Error()
}

// check validates v and returns the first failure as a client-facing message.
func check(v any) (string, bool) {
	if err := validate.Struct(v); err != nil {
		return validationMessage(err), false
	}
	return "", true
}

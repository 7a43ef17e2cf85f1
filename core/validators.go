package core

import (
	"reflect"
	"regexp"
	"strings"

	"github.com/go-playground/locales/en"
	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"
	en_translations "github.com/go-playground/validator/v10/translations/en"
)

var (
	Validate   *validator.Validate
	Translator ut.Translator

	// custom validation tags & texts
	alphaNumUnderTag   = "alphanum_"
	alphaNumUnderText  = "{0} may only contain alphanumeric characters and underscores"
	alphaNumUnderRegex = regexp.MustCompile(`^[\w\s]+$`)

	pincodeTag   = "pincode"
	pincodeText  = "{0} must be exactly 6 digits"
	pincodeRegex = regexp.MustCompile(`^[0-9]{6}$`)

	phoneTag   = "phone"
	phoneText  = "{0} must be a phone number of 10 to 15 digits"
	phoneRegex = regexp.MustCompile(`^\+?[0-9]{10,15}$`)

	pastDateTag  = "pastdate"
	pastDateText = "{0} must be a valid date (YYYY-MM-DD) not in the future"
)

// Instantiate the validator for use.
func init() {
	Validate = validator.New()

	// Register the english error messages for validation errors.
	_en := en.New()
	uni := ut.New(_en, _en)
	Translator, _ = uni.GetTranslator("en")
	_ = en_translations.RegisterDefaultTranslations(Validate, Translator)

	// Use JSON tag names for errors instead of Go struct names.
	Validate.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})

	// register custom validators
	RegisterValidation(alphaNumUnderTag, alphaNumUnderText, func(fl validator.FieldLevel) bool {
		return alphaNumUnderRegex.MatchString(fl.Field().String())
	})
	RegisterValidation(pincodeTag, pincodeText, func(fl validator.FieldLevel) bool {
		return pincodeRegex.MatchString(fl.Field().String())
	})
	RegisterValidation(phoneTag, phoneText, func(fl validator.FieldLevel) bool {
		return phoneRegex.MatchString(fl.Field().String())
	})
	RegisterValidation(pastDateTag, pastDateText, pastDateValidation)
}

// RegisterValidation registers a custom validation function and its english translation.
func RegisterValidation(tag, text string, fn validator.Func) {
	_ = Validate.RegisterValidation(tag, fn)
	RegisterCustomTranslation(tag, text)
}

// RegisterCustomTranslation registers a custom translation for the specified validation tag.
// {0} is replaced by the field name.
func RegisterCustomTranslation(tag, text string, override ...bool) {
	var ovrd bool
	if len(override) > 0 {
		ovrd = override[0]
	}
	_ = Validate.RegisterTranslation(
		tag, Translator,
		func(t ut.Translator) error { return t.Add(tag, text, ovrd) },
		func(t ut.Translator, fe validator.FieldError) string {
			s, _ := t.T(tag, fe.Field())
			return s
		},
	)
}

// TranslateValidationErrors maps each failing field to its english message, preserving order.
func TranslateValidationErrors(verrs validator.ValidationErrors) []FieldError {
	fields := make([]FieldError, 0, len(verrs))
	for _, fe := range verrs {
		fields = append(fields, FieldError{Field: fe.Field(), Error: fe.Translate(Translator)})
	}
	return fields
}

// pastDateValidation accepts YYYY-MM-DD strings that are not after today.
func pastDateValidation(fl validator.FieldLevel) bool {
	d, err := ParseDate(fl.Field().String())
	if err != nil {
		return false
	}
	return !d.After(Today().Time)
}

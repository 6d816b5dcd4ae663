package core

import (
	"reflect"
	"strings"

	"github.com/go-playground/locales/en"
	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"
	en_translations "github.com/go-playground/validator/v10/translations/en"
)

var (
	// custom validation tags & texts
	notBlankTag  = "notblank"
	notBlankText = "this field cannot be blank"

	weekdayTag  = "weekday"
	weekdayText = "{0} must be a day of the week"

	requiredTag  = "required"
	requiredText = "this field is required"
)

// Validator bundles a validator.Validate with the english Translator used to render its errors.
type Validator struct {
	validate   *validator.Validate
	translator ut.Translator
}

// NewValidator instantiates the validator for use.
func NewValidator() *Validator {
	validate := validator.New()

	// Register the english error messages for validation errors.
	_en := en.New()
	uni := ut.New(_en, _en)
	translator, _ := uni.GetTranslator("en")
	_ = en_translations.RegisterDefaultTranslations(validate, translator)

	// Use JSON tag names for errors instead of Go struct names.
	validate.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})

	v := &Validator{validate: validate, translator: translator}

	// register custom validators
	_ = validate.RegisterValidation(notBlankTag, notBlankValidation)
	v.RegisterCustomTranslation(notBlankTag, notBlankText)
	_ = validate.RegisterValidation(weekdayTag, weekdayValidation)
	v.RegisterCustomTranslation(weekdayTag, weekdayText)

	v.RegisterCustomTranslation(requiredTag, requiredText, true)
	return v
}

// RegisterCustomTranslation registers a custom translation for the specified validation tag.
func (v *Validator) RegisterCustomTranslation(tag, text string, override ...bool) {
	var ovrd bool
	if len(override) > 0 {
		ovrd = override[0]
	}
	_ = v.validate.RegisterTranslation(
		tag, v.translator,
		func(t ut.Translator) error { return t.Add(tag, text, ovrd) },
		func(t ut.Translator, fe validator.FieldError) string {
			s, _ := t.T(tag, fe.Field())
			return s
		},
	)
}

// RegisterStructValidation registers a struct level validation func for the given types.
func (v *Validator) RegisterStructValidation(fn validator.StructLevelFunc, types ...interface{}) {
	v.validate.RegisterStructValidation(fn, types...)
}

// Struct validates s and converts any failure into a *ValidationError.
func (v *Validator) Struct(s interface{}) error {
	err := v.validate.Struct(s)
	if err == nil {
		return nil
	}
	vErrs, ok := err.(validator.ValidationErrors)
	if !ok {
		return err
	}
	flds := make([]FieldError, 0, len(vErrs))
	for _, vErr := range vErrs {
		flds = append(flds, FieldError{Field: fieldPath(vErr), Error: vErr.Translate(v.translator)})
	}
	return NewValidationError(nil, flds...)
}

// fieldPath strips the struct name from the namespace: "NewStudent.schedule[Funday]" -> "schedule[Funday]".
func fieldPath(fe validator.FieldError) string {
	ns := fe.Namespace()
	if i := strings.Index(ns, "."); i >= 0 {
		return ns[i+1:]
	}
	return fe.Field()
}

// Custom Global Validators

func notBlankValidation(fl validator.FieldLevel) bool {
	if fl.Field().Kind() == reflect.String {
		return strings.TrimSpace(fl.Field().String()) != ""
	}
	return false
}

func weekdayValidation(fl validator.FieldLevel) bool {
	if fl.Field().Kind() == reflect.String {
		return Weekday(fl.Field().String()).Valid()
	}
	return false
}

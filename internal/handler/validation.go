package handler

import (
	"encoding/json"
	"errors"
	"net/http"
	"reflect"
	"strings"

	"github.com/bagdasarian/study-groups/internal/domain"
	"github.com/go-playground/locales/en"
	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"
	en_translations "github.com/go-playground/validator/v10/translations/en"
)

// maxRequestBodySize ограничивает размер JSON-тела запроса
const maxRequestBodySize = 1 << 20

const (
	notBlankTag  = "notblank"
	notBlankText = "{0} must not be blank"
)

func newValidator() (*validator.Validate, ut.Translator) {
	validate := validator.New()

	_en := en.New()
	uni := ut.New(_en, _en)
	translator, _ := uni.GetTranslator("en")
	_ = en_translations.RegisterDefaultTranslations(validate, translator)

	// В ошибках используются имена из json-тегов
	validate.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})

	_ = validate.RegisterValidation(notBlankTag, func(fl validator.FieldLevel) bool {
		return strings.TrimSpace(fl.Field().String()) != ""
	})
	_ = validate.RegisterTranslation(
		notBlankTag, translator,
		func(t ut.Translator) error { return t.Add(notBlankTag, notBlankText, false) },
		func(t ut.Translator, fe validator.FieldError) string {
			s, _ := t.T(notBlankTag, fe.Field())
			return s
		},
	)

	return validate, translator
}

// decodeAndValidate читает JSON-тело запроса и проверяет его по validate-тегам
func (h *Handler) decodeAndValidate(w http.ResponseWriter, r *http.Request, req any) error {
	r.Body = http.MaxBytesReader(w, r.Body, maxRequestBodySize)
	if err := json.NewDecoder(r.Body).Decode(req); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			return domain.NewValidationError("request body must not exceed %d bytes", tooLarge.Limit)
		}
		return domain.NewValidationError("invalid request body: %v", err)
	}
	return h.validateStruct(req)
}

func (h *Handler) validateStruct(req any) error {
	err := h.validate.Struct(req)
	if err == nil {
		return nil
	}

	var validationErrs validator.ValidationErrors
	if !errors.As(err, &validationErrs) {
		return domain.NewValidationError("%v", err)
	}

	messages := make([]string, 0, len(validationErrs))
	for _, fe := range validationErrs {
		messages = append(messages, fe.Translate(h.translator))
	}
	return domain.NewValidationError("%s", strings.Join(messages, "; "))
}

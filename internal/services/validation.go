package services

import (
	"errors"
	"fmt"
	"reflect"
	"strings"

	"github.com/djaouedkh/airlineCompany/internal/apperr"
	"github.com/go-playground/validator/v10"
)

// NewValidator создает валидатор, который называет поля по их JSON-именам.
func NewValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(field reflect.StructField) string {
		name, _, _ := strings.Cut(field.Tag.Get("json"), ",")
		if name == "-" {
			return ""
		}
		return name
	})
	return v
}

// validateStruct проверяет структуру и переводит ошибки валидатора в apperr.
func validateStruct(v *validator.Validate, op string, entity any) error {
	err := v.Struct(entity)
	if err == nil {
		return nil
	}

	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return apperr.Wrap(apperr.KindValidation, op, err)
	}

	fields := make([]apperr.FieldError, 0, len(verrs))
	for _, fe := range verrs {
		fields = append(fields, apperr.FieldError{
			Field:   fe.Field(),
			Rule:    fe.Tag(),
			Message: ruleMessage(fe),
		})
	}
	return apperr.Validation(op, fields...)
}

func ruleMessage(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "поле обязательно"
	case "min":
		return fmt.Sprintf("минимальная длина %s", fe.Param())
	case "gte":
		return fmt.Sprintf("значение должно быть не меньше %s", fe.Param())
	default:
		return fmt.Sprintf("не выполнено правило %s", fe.Tag())
	}
}

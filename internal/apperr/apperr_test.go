package apperr_test

import (
	"errors"
	"fmt"
	"testing"

	"github.com/djaouedkh/airlineCompany/internal/apperr"
	"github.com/stretchr/testify/assert"
)

func TestKindOf(t *testing.T) {
	base := errors.New("connection refused")

	tests := []struct {
		name     string
		err      error
		expected apperr.Kind
	}{
		{name: "Обычная ошибка", err: base, expected: apperr.KindUnknown},
		{name: "nil", err: nil, expected: apperr.KindUnknown},
		{name: "Ошибка хранилища", err: apperr.Wrap(apperr.KindStoreUnavailable, "op", base), expected: apperr.KindStoreUnavailable},
		{
			name:     "Обернутая ошибка уникальности",
			err:      fmt.Errorf("сервис: %w", apperr.New(apperr.KindUniqueViolation, "op", "занято")),
			expected: apperr.KindUniqueViolation,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, apperr.KindOf(tt.err))
		})
	}
}

func TestErrorMessages(t *testing.T) {
	t.Run("Сообщение драйвера передается как есть", func(t *testing.T) {
		err := apperr.Wrap(apperr.KindStoreUnavailable, "flights.list", errors.New("pq: relation does not exist"))
		assert.Equal(t, "pq: relation does not exist", err.Public())
		assert.Equal(t, "flights.list: pq: relation does not exist", err.Error())
	})

	t.Run("Unwrap возвращает исходную ошибку", func(t *testing.T) {
		base := errors.New("boom")
		err := apperr.Wrap(apperr.KindStoreUnavailable, "op", base)
		assert.ErrorIs(t, err, base)
	})

	t.Run("Валидация перечисляет поля", func(t *testing.T) {
		err := apperr.Validation("users.create",
			apperr.FieldError{Field: "username", Rule: "min", Message: "слишком короткое"},
			apperr.FieldError{Field: "age", Rule: "gte", Message: "меньше нуля"},
		)
		assert.True(t, apperr.Is(err, apperr.KindValidation))
		assert.Contains(t, err.Public(), "username, age")
		assert.Len(t, apperr.FieldsOf(err), 2)
	})

	t.Run("Имя вида", func(t *testing.T) {
		assert.Equal(t, "UnknownPrincipal", apperr.KindUnknownPrincipal.String())
		assert.Equal(t, "Unknown", apperr.Kind(42).String())
	})
}

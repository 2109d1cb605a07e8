package repository

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/djaouedkh/airlineCompany/internal/apperr"
	"github.com/lib/pq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTranslate(t *testing.T) {
	tests := []struct {
		name      string
		err       error
		wantKind  apperr.Kind
		wantField string
	}{
		{
			name:      "Нарушение уникальности",
			err:       &pq.Error{Code: "23505", Constraint: "flightNumber", Table: "flights"},
			wantKind:  apperr.KindUniqueViolation,
			wantField: "flightNumber",
		},
		{
			name:      "Нарушение внешнего ключа",
			err:       &pq.Error{Code: "23503", Constraint: "flights_id_airplane_fkey", Table: "flights"},
			wantKind:  apperr.KindValidation,
			wantField: "id_airplane",
		},
		{
			name:      "Проверка CHECK",
			err:       &pq.Error{Code: "23514", Constraint: "users_age_check", Table: "users"},
			wantKind:  apperr.KindValidation,
			wantField: "age",
		},
		{
			name:     "Неверный формат даты",
			err:      &pq.Error{Code: "22007", Message: "invalid input syntax for type date"},
			wantKind: apperr.KindValidation,
		},
		{
			name:     "Обернутая ошибка pq",
			err:      fmt.Errorf("обертка: %w", &pq.Error{Code: "23505", Constraint: "username"}),
			wantKind: apperr.KindUniqueViolation,
		},
		{
			name:     "Нет соединения",
			err:      &pq.Error{Code: "08006", Message: "connection failure"},
			wantKind: apperr.KindStoreUnavailable,
		},
		{
			name:     "Отмена контекста",
			err:      context.Canceled,
			wantKind: apperr.KindStoreUnavailable,
		},
		{
			name:     "Произвольная ошибка",
			err:      errors.New("boom"),
			wantKind: apperr.KindStoreUnavailable,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := translate("test.op", tt.err)

			require.Error(t, got)
			assert.Equal(t, tt.wantKind, apperr.KindOf(got))
			assert.ErrorIs(t, got, tt.err, "Исходная ошибка должна сохраняться")
			if tt.wantField != "" {
				fields := apperr.FieldsOf(got)
				require.Len(t, fields, 1)
				assert.Equal(t, tt.wantField, fields[0].Field)
			}
		})
	}

	assert.NoError(t, translate("test.op", nil))
}

func TestTranslateKeepsDriverMessage(t *testing.T) {
	err := translate("flights.search", errors.New("pq: relation \"flights\" does not exist"))

	var appErr *apperr.Error
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, "pq: relation \"flights\" does not exist", appErr.Public())
}

package repository

import (
	"context"
	"errors"
	"strings"

	"github.com/djaouedkh/airlineCompany/internal/apperr"
	"github.com/lib/pq"
)

// Коды ошибок PostgreSQL.
const (
	pgUniqueViolationCode     = "23505"
	pgForeignKeyViolationCode = "23503"
	pgNotNullViolationCode    = "23502"
	pgCheckViolationCode      = "23514"
	pgDataExceptionClass      = "22"
)

// translate превращает ошибку драйвера в apperr.Error.
// Сообщение драйвера сохраняется без изменений.
func translate(op string, err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return apperr.Wrap(apperr.KindStoreUnavailable, op, err)
	}

	var pgErr *pq.Error
	if !errors.As(err, &pgErr) {
		// driver.ErrBadConn, сетевые ошибки и все прочее
		return apperr.Wrap(apperr.KindStoreUnavailable, op, err)
	}

	switch {
	case pgErr.Code == pgUniqueViolationCode:
		field := constraintField(pgErr)
		return &apperr.Error{
			Kind:    apperr.KindUniqueViolation,
			Op:      op,
			Message: field + " уже занято",
			Fields:  []apperr.FieldError{{Field: field, Rule: "unique", Message: "значение уже занято"}},
			Err:     err,
		}
	case pgErr.Code == pgForeignKeyViolationCode,
		pgErr.Code == pgNotNullViolationCode,
		pgErr.Code == pgCheckViolationCode,
		pgErr.Code.Class() == pgDataExceptionClass:
		field := constraintField(pgErr)
		return &apperr.Error{
			Kind:    apperr.KindValidation,
			Op:      op,
			Message: pgErr.Message,
			Fields:  []apperr.FieldError{{Field: field, Rule: pgErr.Code.Name(), Message: pgErr.Message}},
			Err:     err,
		}
	default:
		return apperr.Wrap(apperr.KindStoreUnavailable, op, err)
	}
}

// translateRead оборачивает ошибку выборки. Ошибки чтения, в том числе
// неверный формат значения критерия, не относятся к валидации тела запроса
// и отдаются как сбой хранилища с исходным сообщением драйвера.
func translateRead(op string, err error) error {
	if err == nil {
		return nil
	}
	return apperr.Wrap(apperr.KindStoreUnavailable, op, err)
}

// constraintField выбирает имя поля для детализации ошибки.
// Ограничения уникальности в схеме названы по полям API (например "airplaneNumber").
func constraintField(pgErr *pq.Error) string {
	switch {
	case pgErr.Column != "":
		return pgErr.Column
	case pgErr.Constraint != "":
		// flights_id_airplane_fkey -> id_airplane
		name := strings.TrimSuffix(pgErr.Constraint, "_fkey")
		name = strings.TrimSuffix(name, "_check")
		if pgErr.Table != "" {
			name = strings.TrimPrefix(name, pgErr.Table+"_")
		}
		return name
	default:
		return "unknown"
	}
}

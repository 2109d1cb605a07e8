// Package apperr описывает типизированные ошибки приложения.
// Вид ошибки задаётся явным полем Kind, по которому HTTP-слой выбирает статус ответа.
package apperr

import (
	"errors"
	"fmt"
	"strings"
)

// Kind определяет категорию ошибки.
type Kind int

const (
	// KindUnknown - ошибка не классифицирована (обычная ошибка Go).
	KindUnknown Kind = iota
	// KindBadCredentialFormat - заголовок x-api-key отсутствует или имеет неверный формат.
	KindBadCredentialFormat
	// KindUnknownPrincipal - ключ корректен, но пользователь с таким UUID не найден.
	KindUnknownPrincipal
	// KindNotFound - сущность с указанным идентификатором не существует.
	KindNotFound
	// KindUniqueViolation - нарушено ограничение уникальности.
	KindUniqueViolation
	// KindValidation - данные не прошли проверку полей.
	KindValidation
	// KindStoreUnavailable - любая другая ошибка хранилища (соединение, SQL и т.д.).
	KindStoreUnavailable
)

// String возвращает имя вида ошибки.
func (k Kind) String() string {
	switch k {
	case KindBadCredentialFormat:
		return "BadCredentialFormat"
	case KindUnknownPrincipal:
		return "UnknownPrincipal"
	case KindNotFound:
		return "EntityNotFound"
	case KindUniqueViolation:
		return "UniqueConstraintViolation"
	case KindValidation:
		return "FieldValidationFailure"
	case KindStoreUnavailable:
		return "StoreUnavailable"
	default:
		return "Unknown"
	}
}

// FieldError описывает проблему с конкретным полем.
type FieldError struct {
	Field   string `json:"field"`
	Rule    string `json:"rule,omitempty"`
	Message string `json:"message"`
}

// Error - ошибка приложения с явным видом.
type Error struct {
	Kind    Kind
	Op      string       // Операция, в которой возникла ошибка, например "airplanes.create"
	Message string       // Сообщение для клиента; если пусто, используется Err
	Fields  []FieldError // Детализация по полям (для валидации и уникальности)
	Err     error        // Исходная ошибка
}

// Error реализует интерфейс error.
func (e *Error) Error() string {
	var b strings.Builder
	if e.Op != "" {
		b.WriteString(e.Op)
		b.WriteString(": ")
	}
	switch {
	case e.Message != "":
		b.WriteString(e.Message)
	case e.Err != nil:
		b.WriteString(e.Err.Error())
	default:
		b.WriteString(e.Kind.String())
	}
	return b.String()
}

// Unwrap позволяет использовать errors.Is/As с исходной ошибкой.
func (e *Error) Unwrap() error {
	return e.Err
}

// Public возвращает текст, который можно отдать клиенту.
// Для ошибок хранилища это исходное сообщение драйвера без изменений.
func (e *Error) Public() string {
	if e.Message != "" {
		return e.Message
	}
	if e.Err != nil {
		return e.Err.Error()
	}
	return e.Kind.String()
}

// New создает ошибку указанного вида.
func New(kind Kind, op, message string) *Error {
	return &Error{Kind: kind, Op: op, Message: message}
}

// Wrap оборачивает err в ошибку указанного вида.
func Wrap(kind Kind, op string, err error) *Error {
	return &Error{Kind: kind, Op: op, Err: err}
}

// Validation создает ошибку валидации с детализацией по полям.
func Validation(op string, fields ...FieldError) *Error {
	names := make([]string, 0, len(fields))
	for _, f := range fields {
		names = append(names, f.Field)
	}
	return &Error{
		Kind:    KindValidation,
		Op:      op,
		Message: fmt.Sprintf("ошибка валидации полей: %s", strings.Join(names, ", ")),
		Fields:  fields,
	}
}

// KindOf возвращает вид ошибки или KindUnknown, если это не *Error.
func KindOf(err error) Kind {
	var appErr *Error
	if errors.As(err, &appErr) {
		return appErr.Kind
	}
	return KindUnknown
}

// Is сообщает, относится ли ошибка к указанному виду.
func Is(err error, kind Kind) bool {
	return err != nil && KindOf(err) == kind
}

// FieldsOf возвращает детализацию по полям, если она есть.
func FieldsOf(err error) []FieldError {
	var appErr *Error
	if errors.As(err, &appErr) {
		return appErr.Fields
	}
	return nil
}

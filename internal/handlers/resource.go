package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"

	"github.com/djaouedkh/airlineCompany/internal/apperr"
	"github.com/djaouedkh/airlineCompany/internal/services"
	"github.com/djaouedkh/airlineCompany/models"
	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

// Labels - названия ресурса для сообщений ответа.
type Labels struct {
	One  string // "Самолет"
	Many string // "самолеты"
}

// ResourceHandler обрабатывает CRUD-запросы одного ресурса.
type ResourceHandler[T any] struct {
	service services.Service[T]
	labels  Labels
	logger  *zap.Logger
	get     func(ctx context.Context, id int64) (any, error)
	present func(*T) any
}

// Option настраивает ResourceHandler.
type Option[T any] func(*ResourceHandler[T])

// WithGetter заменяет чтение одной записи (например, чтобы добавить связанные данные).
func WithGetter[T any](get func(ctx context.Context, id int64) (any, error)) Option[T] {
	return func(h *ResourceHandler[T]) { h.get = get }
}

// WithPresenter задает представление записи в ответах.
func WithPresenter[T any](present func(*T) any) Option[T] {
	return func(h *ResourceHandler[T]) { h.present = present }
}

// NewResourceHandler создает новый экземпляр обработчика ресурса.
func NewResourceHandler[T any](s services.Service[T], labels Labels, logger *zap.Logger, opts ...Option[T]) *ResourceHandler[T] {
	h := &ResourceHandler[T]{
		service: s,
		labels:  labels,
		logger:  logger.Named("handler"),
	}
	for _, opt := range opts {
		opt(h)
	}
	if h.get == nil {
		h.get = func(ctx context.Context, id int64) (any, error) {
			entity, err := s.Get(ctx, id)
			if err != nil {
				return nil, err
			}
			return h.view(entity), nil
		}
	}
	return h
}

// Routes возвращает роутер ресурса: / для списка и создания, /{id} для остального.
func (h *ResourceHandler[T]) Routes() chi.Router {
	r := chi.NewRouter()
	r.Get("/", h.List)
	r.Post("/", h.Create)
	r.Get("/{id}", h.Get)
	r.Put("/{id}", h.Update)
	r.Delete("/{id}", h.Delete)
	return r
}

// Get возвращает запись. Отсутствующая запись - 200 с data: null.
func (h *ResourceHandler[T]) Get(w http.ResponseWriter, r *http.Request) {
	id, ok := parseID(r)
	if !ok {
		writeJSON(w, http.StatusOK, models.Response{Message: h.labels.One + " не существует."})
		return
	}

	data, err := h.get(r.Context(), id)
	if err != nil {
		if apperr.Is(err, apperr.KindNotFound) {
			writeJSON(w, http.StatusOK, models.Response{Message: h.labels.One + " не существует."})
			return
		}
		h.writeError(w, "get", err)
		return
	}
	writeJSON(w, http.StatusOK, models.Response{Message: h.labels.One + " найден(а).", Data: data})
}

// List возвращает список по критерию из параметров запроса или полный список.
func (h *ResourceHandler[T]) List(w http.ResponseWriter, r *http.Request) {
	res, err := h.service.List(r.Context(), r.URL.Query())
	if err != nil {
		h.writeError(w, "list", err)
		return
	}

	rows := make([]any, 0, len(res.Rows))
	for i := range res.Rows {
		rows = append(rows, h.view(&res.Rows[i]))
	}

	var message string
	if res.Criterion != nil {
		message = fmt.Sprintf("Найдено записей (%s): %d по критерию %s и значению %s.",
			h.labels.Many, res.Count, res.Criterion.Key, res.Criterion.String())
	} else {
		message = fmt.Sprintf("Список (%s) получен: критерий поиска не задан или не распознан.", h.labels.Many)
	}
	writeJSON(w, http.StatusOK, models.Response{Message: message, Data: rows})
}

// Create создает запись из тела запроса.
func (h *ResourceHandler[T]) Create(w http.ResponseWriter, r *http.Request) {
	body, err := readBody(w, r)
	if err != nil {
		h.writeError(w, "create", bodyError("create", err))
		return
	}

	var entity T
	if err = json.Unmarshal(body, &entity); err != nil {
		h.logger.Debug("Ошибка декодирования тела запроса", zap.String("resource", h.labels.Many), zap.Error(err))
		h.writeError(w, "create", bodyError("create", err))
		return
	}

	created, err := h.service.Create(r.Context(), &entity)
	if err != nil {
		h.writeError(w, "create", err)
		return
	}
	writeJSON(w, http.StatusOK, models.Response{
		Message: h.labels.One + " успешно создан(а).",
		Data:    h.view(created),
	})
}

// Update применяет тело запроса к существующей записи.
func (h *ResourceHandler[T]) Update(w http.ResponseWriter, r *http.Request) {
	id, ok := parseID(r)
	if !ok {
		h.writeNotFound(w)
		return
	}

	body, err := readBody(w, r)
	if err != nil {
		h.writeError(w, "update", bodyError("update", err))
		return
	}

	updated, err := h.service.Update(r.Context(), id, func(entity *T) error {
		return json.Unmarshal(body, entity)
	})
	if err != nil {
		h.writeError(w, "update", err)
		return
	}
	writeJSON(w, http.StatusOK, models.Response{
		Message: fmt.Sprintf("%s с идентификатором %d успешно изменен(а).", h.labels.One, id),
		Data:    h.view(updated),
	})
}

// Delete удаляет запись и возвращает ее состояние до удаления.
func (h *ResourceHandler[T]) Delete(w http.ResponseWriter, r *http.Request) {
	id, ok := parseID(r)
	if !ok {
		h.writeNotFound(w)
		return
	}

	deleted, err := h.service.Delete(r.Context(), id)
	if err != nil {
		h.writeError(w, "delete", err)
		return
	}
	writeJSON(w, http.StatusOK, models.Response{
		Message: fmt.Sprintf("%s с идентификатором %d успешно удален(а).", h.labels.One, id),
		Data:    h.view(deleted),
	})
}

func (h *ResourceHandler[T]) view(entity *T) any {
	if h.present != nil {
		return h.present(entity)
	}
	return entity
}

func (h *ResourceHandler[T]) writeNotFound(w http.ResponseWriter) {
	writeJSON(w, http.StatusNotFound, models.Response{Message: h.labels.One + " не существует."})
}

// writeError выбирает статус ответа по виду ошибки.
func (h *ResourceHandler[T]) writeError(w http.ResponseWriter, action string, err error) {
	switch apperr.KindOf(err) {
	case apperr.KindNotFound, apperr.KindUnknownPrincipal:
		h.writeNotFound(w)
	case apperr.KindUniqueViolation, apperr.KindValidation, apperr.KindBadCredentialFormat:
		h.logger.Debug("Запрос отклонен", zap.String("resource", h.labels.Many), zap.String("action", action), zap.Error(err))
		writeJSON(w, http.StatusBadRequest, models.Response{
			Message: publicMessage(err),
			Data:    apperr.FieldsOf(err),
		})
	default:
		h.logger.Error("Ошибка обработки запроса", zap.String("resource", h.labels.Many), zap.String("action", action), zap.Error(err))
		writeJSON(w, http.StatusInternalServerError, models.Response{
			Message: fmt.Sprintf("Не удалось выполнить операцию (%s). Повторите попытку позже.", h.labels.Many),
			Data:    publicMessage(err),
		})
	}
}

// publicMessage возвращает текст ошибки для клиента без изменений.
func publicMessage(err error) string {
	var appErr *apperr.Error
	if errors.As(err, &appErr) {
		return appErr.Public()
	}
	return err.Error()
}

func bodyError(action string, err error) error {
	return apperr.Validation("body."+action, apperr.FieldError{
		Field:   "body",
		Rule:    "json",
		Message: err.Error(),
	})
}

// parseID разбирает {id}. Нечисловой идентификатор считается отсутствующим.
func parseID(r *http.Request) (int64, bool) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		return 0, false
	}
	return id, true
}

package services

import (
	"context"
	"net/url"

	"github.com/djaouedkh/airlineCompany/internal/apperr"
	"github.com/djaouedkh/airlineCompany/internal/criteria"
	"github.com/djaouedkh/airlineCompany/internal/repository"
	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"
)

// ListResult - результат запроса списка ресурса.
// Criterion равен nil, если фильтр не задан и возвращен полный список.
type ListResult[T any] struct {
	Criterion *criteria.Criterion
	Count     int
	Rows      []T
}

// Service определяет операции над ресурсом.
type Service[T any] interface {
	// Get возвращает запись. Отсутствие записи - ошибка вида KindNotFound.
	Get(ctx context.Context, id int64) (*T, error)
	// List выбирает критерий по параметрам запроса и возвращает отфильтрованный или полный список.
	List(ctx context.Context, query url.Values) (*ListResult[T], error)
	Create(ctx context.Context, entity *T) (*T, error)
	// Update применяет patch к текущей версии записи, проверяет результат и сохраняет его.
	Update(ctx context.Context, id int64, patch func(*T) error) (*T, error)
	// Delete удаляет запись и возвращает ее состояние до удаления.
	Delete(ctx context.Context, id int64) (*T, error)
}

// hooks - действия ресурса перед записью в хранилище.
type hooks[T any] struct {
	beforeCreate func(entity *T) error
	beforeUpdate func(current, updated *T) error
}

// crudService реализует Service поверх repository.Store.
type crudService[T any] struct {
	resource criteria.Resource
	repo     repository.Store[T]
	validate *validator.Validate
	logger   *zap.Logger
	hooks    hooks[T]
}

func newCRUDService[T any](
	resource criteria.Resource,
	repo repository.Store[T],
	validate *validator.Validate,
	logger *zap.Logger,
	h hooks[T],
) *crudService[T] {
	return &crudService[T]{
		resource: resource,
		repo:     repo,
		validate: validate,
		logger:   logger.Named(string(resource)),
		hooks:    h,
	}
}

func (s *crudService[T]) op(action string) string {
	return string(s.resource) + "." + action
}

// Get возвращает запись по идентификатору.
func (s *crudService[T]) Get(ctx context.Context, id int64) (*T, error) {
	return s.repo.Get(ctx, id)
}

// List возвращает записи по первому распознанному критерию или полный список.
func (s *crudService[T]) List(ctx context.Context, query url.Values) (*ListResult[T], error) {
	c, ok := criteria.Resolve(s.resource, query)
	if !ok {
		rows, err := s.repo.List(ctx)
		if err != nil {
			return nil, err
		}
		return &ListResult[T]{Count: len(rows), Rows: rows}, nil
	}

	s.logger.Debug("Выбран критерий поиска",
		zap.String("key", c.Key),
		zap.Stringer("shape", c.Shape),
		zap.String("value", c.String()),
	)
	res, err := s.repo.Search(ctx, c)
	if err != nil {
		return nil, err
	}
	return &ListResult[T]{Criterion: &c, Count: res.Count, Rows: res.Rows}, nil
}

// Create проверяет запись и сохраняет ее.
func (s *crudService[T]) Create(ctx context.Context, entity *T) (*T, error) {
	if err := s.check(s.op("create"), entity); err != nil {
		return nil, err
	}
	if s.hooks.beforeCreate != nil {
		if err := s.hooks.beforeCreate(entity); err != nil {
			return nil, err
		}
	}
	return s.repo.Create(ctx, entity)
}

// Update сначала читает запись: отсутствие записи определяется до изменения.
func (s *crudService[T]) Update(ctx context.Context, id int64, patch func(*T) error) (*T, error) {
	current, err := s.repo.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	updated := *current
	if err = patch(&updated); err != nil {
		return nil, apperr.Validation(s.op("update"), apperr.FieldError{
			Field:   "body",
			Rule:    "json",
			Message: err.Error(),
		})
	}
	if err = s.check(s.op("update"), &updated); err != nil {
		return nil, err
	}
	if s.hooks.beforeUpdate != nil {
		if err = s.hooks.beforeUpdate(current, &updated); err != nil {
			return nil, err
		}
	}
	return s.repo.Update(ctx, id, &updated)
}

// Delete удаляет запись, предварительно убедившись, что она существует.
func (s *crudService[T]) Delete(ctx context.Context, id int64) (*T, error) {
	current, err := s.repo.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if err = s.repo.Delete(ctx, id); err != nil {
		return nil, err
	}
	return current, nil
}

func (s *crudService[T]) check(op string, entity *T) error {
	if err := validateStruct(s.validate, op, entity); err != nil {
		s.logger.Debug("Данные не прошли проверку", zap.String("op", op), zap.Error(err))
		return err
	}
	return nil
}

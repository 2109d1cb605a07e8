package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/djaouedkh/airlineCompany/internal/apperr"
	"github.com/djaouedkh/airlineCompany/internal/criteria"
	"github.com/jmoiron/sqlx"
	"go.uber.org/zap"
)

// ErrNotFound возвращается, когда запись с указанным идентификатором отсутствует.
var ErrNotFound = errors.New("запись не найдена")

// SearchResult - результат поиска по критерию: количество и строки.
type SearchResult[T any] struct {
	Count int
	Rows  []T
}

// Store определяет базовые операции над ресурсом.
type Store[T any] interface {
	Get(ctx context.Context, id int64) (*T, error)
	List(ctx context.Context) ([]T, error)
	Search(ctx context.Context, c criteria.Criterion) (*SearchResult[T], error)
	Create(ctx context.Context, entity *T) (*T, error)
	Update(ctx context.Context, id int64, entity *T) (*T, error)
	Delete(ctx context.Context, id int64) error
}

// table описывает SQL одного ресурса.
type table[T any] struct {
	name      string         // Имя ресурса для логов и операций
	selectSQL string         // SELECT ... FROM ... без WHERE
	idColumn  string         // Колонка первичного ключа с псевдонимом таблицы
	orderBy   string         // Сортировка полного списка
	insertSQL string         // INSERT ... RETURNING id
	updateSQL string         // UPDATE ... WHERE id = $N, где N = len(args)+1
	deleteSQL string         // DELETE ... WHERE id = $1
	args      func(*T) []any // Значения колонок для INSERT/UPDATE
}

// base реализует общие операции Store поверх sqlx.
type base[T any] struct {
	db     *sqlx.DB
	logger *zap.Logger
	t      table[T]
}

func (b *base[T]) op(action string) string {
	return b.t.name + "." + action
}

// Get возвращает запись по идентификатору.
func (b *base[T]) Get(ctx context.Context, id int64) (*T, error) {
	query := b.t.selectSQL + " WHERE " + b.t.idColumn + " = $1"
	var entity T
	if err := b.db.GetContext(ctx, &entity, query, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			b.logger.Debug("Запись не найдена", zap.String("resource", b.t.name), zap.Int64("id", id))
			return nil, apperr.Wrap(apperr.KindNotFound, b.op("get"), ErrNotFound)
		}
		b.logger.Error("Ошибка чтения записи", zap.String("resource", b.t.name), zap.Int64("id", id), zap.Error(err))
		return nil, translateRead(b.op("get"), err)
	}
	return &entity, nil
}

// List возвращает все записи в порядке сортировки по умолчанию.
func (b *base[T]) List(ctx context.Context) ([]T, error) {
	return b.selectWhere(ctx, "list", "", b.t.orderBy)
}

// Create вставляет запись и перечитывает ее, чтобы вернуть значения по умолчанию и связанные данные.
func (b *base[T]) Create(ctx context.Context, entity *T) (*T, error) {
	var id int64
	if err := b.db.QueryRowxContext(ctx, b.t.insertSQL, b.t.args(entity)...).Scan(&id); err != nil {
		b.logger.Warn("Ошибка создания записи", zap.String("resource", b.t.name), zap.Error(err))
		return nil, translate(b.op("create"), err)
	}
	b.logger.Info("Запись создана", zap.String("resource", b.t.name), zap.Int64("id", id))
	return b.Get(ctx, id)
}

// Update перезаписывает все изменяемые колонки записи.
func (b *base[T]) Update(ctx context.Context, id int64, entity *T) (*T, error) {
	args := append(b.t.args(entity), id)
	res, err := b.db.ExecContext(ctx, b.t.updateSQL, args...)
	if err != nil {
		b.logger.Warn("Ошибка обновления записи", zap.String("resource", b.t.name), zap.Int64("id", id), zap.Error(err))
		return nil, translate(b.op("update"), err)
	}
	if err = checkAffected(res); err != nil {
		return nil, affectedError(b.op("update"), err)
	}
	b.logger.Info("Запись обновлена", zap.String("resource", b.t.name), zap.Int64("id", id))
	return b.Get(ctx, id)
}

// Delete удаляет запись. Зависимые записи удаляются каскадно на стороне БД.
func (b *base[T]) Delete(ctx context.Context, id int64) error {
	res, err := b.db.ExecContext(ctx, b.t.deleteSQL, id)
	if err != nil {
		b.logger.Warn("Ошибка удаления записи", zap.String("resource", b.t.name), zap.Int64("id", id), zap.Error(err))
		return translate(b.op("delete"), err)
	}
	if err = checkAffected(res); err != nil {
		return affectedError(b.op("delete"), err)
	}
	b.logger.Info("Запись удалена", zap.String("resource", b.t.name), zap.Int64("id", id))
	return nil
}

// selectWhere выполняет выборку с необязательным условием.
func (b *base[T]) selectWhere(ctx context.Context, action, where, orderBy string, args ...any) ([]T, error) {
	return selectRows[T](ctx, b.db, b.logger, b.op(action), b.t.selectSQL, where, orderBy, args...)
}

// search оборачивает выборку в SearchResult.
func (b *base[T]) search(ctx context.Context, c criteria.Criterion, where, orderBy string, args ...any) (*SearchResult[T], error) {
	rows, err := b.selectWhere(ctx, "search", where, orderBy, args...)
	if err != nil {
		return nil, err
	}
	b.logger.Debug("Поиск выполнен",
		zap.String("resource", b.t.name),
		zap.String("key", c.Key),
		zap.String("value", c.String()),
		zap.Int("count", len(rows)),
	)
	return &SearchResult[T]{Count: len(rows), Rows: rows}, nil
}

func (b *base[T]) unknownCriterion(c criteria.Criterion) error {
	return apperr.Validation(b.op("search"), apperr.FieldError{
		Field:   c.Key,
		Rule:    "criterion",
		Message: fmt.Sprintf("критерий %s не поддерживается", c.Key),
	})
}

func selectRows[T any](
	ctx context.Context,
	db *sqlx.DB,
	logger *zap.Logger,
	op, selectSQL, where, orderBy string,
	args ...any,
) ([]T, error) {
	query := selectSQL
	if where != "" {
		query += " WHERE " + where
	}
	if orderBy != "" {
		query += " ORDER BY " + orderBy
	}

	// Пустой слайс вместо nil, чтобы в JSON был [], а не null
	rows := make([]T, 0)
	if err := db.SelectContext(ctx, &rows, query, args...); err != nil {
		logger.Error("Ошибка выборки", zap.String("op", op), zap.Error(err))
		return nil, translateRead(op, err)
	}
	return rows, nil
}

func checkAffected(res sql.Result) error {
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("ошибка получения количества измененных строк: %w", err)
	}
	if n == 0 {
		return ErrNotFound
	}
	return nil
}

func affectedError(op string, err error) error {
	if errors.Is(err, ErrNotFound) {
		return apperr.Wrap(apperr.KindNotFound, op, err)
	}
	return apperr.Wrap(apperr.KindStoreUnavailable, op, err)
}

// likePattern оборачивает значение в маску подстроки.
func likePattern(value string) string {
	return "%" + value + "%"
}

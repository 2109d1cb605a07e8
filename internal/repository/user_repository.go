package repository

import (
	"context"
	"database/sql"
	"errors"

	"github.com/djaouedkh/airlineCompany/internal/apperr"
	"github.com/djaouedkh/airlineCompany/internal/criteria"
	"github.com/djaouedkh/airlineCompany/models"
	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"go.uber.org/zap"
)

const userColumns = `u.id_user, u.username, u.firstname, u.lastname, u.age, u.address, u.password, u.uuid`

// UserRepository определяет методы для работы с данными пользователей в хранилище.
type UserRepository interface {
	Store[models.User]
	// GetByUUID находит пользователя по UUID, из которого выводится API-ключ.
	GetByUUID(ctx context.Context, id uuid.UUID) (*models.User, error)
}

// postgresUserRepository реализует UserRepository для PostgreSQL.
type postgresUserRepository struct {
	base[models.User]
}

// NewPostgresUserRepository создает новый экземпляр репозитория пользователей для PostgreSQL.
func NewPostgresUserRepository(db *sqlx.DB, logger *zap.Logger) UserRepository {
	return &postgresUserRepository{
		base: base[models.User]{
			db:     db,
			logger: logger.Named("users"),
			t: table[models.User]{
				name:      "users",
				selectSQL: "SELECT " + userColumns + " FROM users u",
				idColumn:  "u.id_user",
				orderBy:   "u.username",
				insertSQL: `INSERT INTO users (username, firstname, lastname, age, address, password, uuid)
					VALUES ($1, $2, $3, $4, $5, $6, $7) RETURNING id_user`,
				updateSQL: `UPDATE users SET username = $1, firstname = $2, lastname = $3, age = $4,
					address = $5, password = $6, uuid = $7
					WHERE id_user = $8`,
				deleteSQL: `DELETE FROM users WHERE id_user = $1`,
				args: func(u *models.User) []any {
					return []any{u.Username, u.Firstname, u.Lastname, u.Age, u.Address, u.Password, u.UUID}
				},
			},
		},
	}
}

// GetByUUID находит пользователя по UUID.
// Возвращает ошибку вида KindNotFound, если пользователь не найден.
func (r *postgresUserRepository) GetByUUID(ctx context.Context, id uuid.UUID) (*models.User, error) {
	query := r.t.selectSQL + " WHERE u.uuid = $1"
	var user models.User

	err := r.db.GetContext(ctx, &user, query, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			r.logger.Debug("Пользователь с UUID не найден", zap.Stringer("uuid", id))
			return nil, apperr.Wrap(apperr.KindNotFound, r.op("get_by_uuid"), ErrNotFound)
		}
		r.logger.Error("Ошибка при поиске пользователя по UUID", zap.Stringer("uuid", id), zap.Error(err))
		return nil, translateRead(r.op("get_by_uuid"), err)
	}

	r.logger.Debug("Найден пользователь", zap.String("username", user.Username), zap.Int64("id", user.ID))
	return &user, nil
}

// Search ищет пользователей по подстроке имени или точному возрасту.
func (r *postgresUserRepository) Search(ctx context.Context, c criteria.Criterion) (*SearchResult[models.User], error) {
	switch c.Key {
	case criteria.KeyUsername:
		return r.search(ctx, c, "u.username LIKE $1", r.t.orderBy, likePattern(c.Value))
	case criteria.KeyAge:
		return r.search(ctx, c, "u.age = $1", r.t.orderBy, c.Value)
	default:
		return nil, r.unknownCriterion(c)
	}
}

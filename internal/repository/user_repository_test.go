package repository_test

import (
	"context"
	"errors"
	"regexp"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/djaouedkh/airlineCompany/internal/apperr"
	"github.com/djaouedkh/airlineCompany/internal/criteria"
	"github.com/djaouedkh/airlineCompany/internal/repository"
	"github.com/djaouedkh/airlineCompany/models"
	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

var userCols = []string{"id_user", "username", "firstname", "lastname", "age", "address", "password", "uuid"}

func TestNewPostgresUserRepository(t *testing.T) {
	db, _, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	repo := repository.NewPostgresUserRepository(sqlx.NewDb(db, "sqlmock"), zap.NewNop())
	assert.NotNil(t, repo)
}

// Вспомогательная функция для создания мока БД и репозитория.
func setupUserRepoMock(t *testing.T) (repository.UserRepository, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	return repository.NewPostgresUserRepository(sqlx.NewDb(db, "sqlmock"), zap.NewNop()), mock
}

func TestGetByUUID(t *testing.T) {
	id := uuid.MustParse("0b9ca335-92a8-46d8-b477-eb2ed83ac927")
	query := regexp.QuoteMeta(`FROM users u WHERE u.uuid = $1`)

	tests := []struct {
		name      string
		mockSetup func(mock sqlmock.Sqlmock)
		wantKind  apperr.Kind
		wantUser  bool
	}{
		{
			name: "Пользователь найден",
			mockSetup: func(mock sqlmock.Sqlmock) {
				rows := sqlmock.NewRows(userCols).
					AddRow(int64(1), "pikachu", "Ash", "Ketchum", 10, "Pallet", "hash", id.String())
				mock.ExpectQuery(query).WithArgs(id.String()).WillReturnRows(rows)
			},
			wantUser: true,
		},
		{
			name: "Пользователь не найден",
			mockSetup: func(mock sqlmock.Sqlmock) {
				mock.ExpectQuery(query).WithArgs(id.String()).WillReturnRows(sqlmock.NewRows(userCols))
			},
			wantKind: apperr.KindNotFound,
		},
		{
			name: "Ошибка базы данных",
			mockSetup: func(mock sqlmock.Sqlmock) {
				mock.ExpectQuery(query).WithArgs(id.String()).WillReturnError(errors.New("database error"))
			},
			wantKind: apperr.KindStoreUnavailable,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo, mock := setupUserRepoMock(t)
			tt.mockSetup(mock)

			user, err := repo.GetByUUID(context.Background(), id)

			if tt.wantUser {
				require.NoError(t, err)
				assert.Equal(t, "pikachu", user.Username)
				assert.Equal(t, id, user.UUID)
			} else {
				require.Error(t, err)
				assert.Nil(t, user)
				assert.Equal(t, tt.wantKind, apperr.KindOf(err))
			}
			assert.NoError(t, mock.ExpectationsWereMet(), "Не все ожидания мока были выполнены")
		})
	}
}

func TestUserSearch(t *testing.T) {
	tests := []struct {
		name      string
		criterion criteria.Criterion
		query     string
		arg       string
	}{
		{
			name:      "Подстрока имени",
			criterion: criteria.Criterion{Key: "username", Shape: criteria.ShapeLike, Value: "pika"},
			query:     `FROM users u WHERE u\.username LIKE \$1 ORDER BY u\.username`,
			arg:       "%pika%",
		},
		{
			name:      "Точный возраст",
			criterion: criteria.Criterion{Key: "age", Shape: criteria.ShapeEqual, Value: "25"},
			query:     `FROM users u WHERE u\.age = \$1 ORDER BY u\.username`,
			arg:       "25",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo, mock := setupUserRepoMock(t)
			rows := sqlmock.NewRows(userCols).
				AddRow(int64(1), "pikachu", "Ash", "Ketchum", 25, "Pallet", "hash", uuid.NewString())
			mock.ExpectQuery(tt.query).WithArgs(tt.arg).WillReturnRows(rows)

			res, err := repo.Search(context.Background(), tt.criterion)

			require.NoError(t, err)
			assert.Equal(t, 1, res.Count)
			assert.NoError(t, mock.ExpectationsWereMet())
		})
	}
}

func TestUserSearchMalformedAge(t *testing.T) {
	repo, mock := setupUserRepoMock(t)
	mock.ExpectQuery(`FROM users u WHERE u\.age = \$1`).WithArgs("abc").
		WillReturnError(&pq.Error{Code: "22P02", Message: `invalid input syntax for type integer: "abc"`})

	_, err := repo.Search(context.Background(), criteria.Criterion{Key: "age", Shape: criteria.ShapeEqual, Value: "abc"})

	require.Error(t, err)
	assert.Equal(t, apperr.KindStoreUnavailable, apperr.KindOf(err))
	assert.Empty(t, apperr.FieldsOf(err))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestUserCreateUsernameTaken(t *testing.T) {
	repo, mock := setupUserRepoMock(t)
	user := &models.User{
		Username:  "existinguser",
		Firstname: "A",
		Lastname:  "B",
		Address:   "C",
		Password:  "hash",
		UUID:      uuid.New(),
	}

	mock.ExpectQuery(`INSERT INTO users`).
		WithArgs(user.Username, user.Firstname, user.Lastname, user.Age, user.Address, user.Password, user.UUID.String()).
		WillReturnError(&pq.Error{Code: "23505", Constraint: "username", Table: "users"})

	created, err := repo.Create(context.Background(), user)

	require.Error(t, err)
	assert.Nil(t, created)
	assert.Equal(t, apperr.KindUniqueViolation, apperr.KindOf(err))
	fields := apperr.FieldsOf(err)
	require.Len(t, fields, 1)
	assert.Equal(t, "username", fields[0].Field)
	assert.NoError(t, mock.ExpectationsWereMet())
}

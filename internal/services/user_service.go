package services

import (
	"context"
	"fmt"

	"github.com/djaouedkh/airlineCompany/internal/apikey"
	"github.com/djaouedkh/airlineCompany/internal/apperr"
	"github.com/djaouedkh/airlineCompany/internal/criteria"
	"github.com/djaouedkh/airlineCompany/internal/repository"
	"github.com/djaouedkh/airlineCompany/models"
	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
)

// UserService определяет операции над пользователями.
type UserService interface {
	Service[models.User]
	// GetWithAPIKey возвращает публичные поля пользователя и его API-ключ.
	GetWithAPIKey(ctx context.Context, id int64) (*models.UserWithAPIKey, error)
}

// Убедимся, что userService удовлетворяет интерфейсу UserService.
var _ UserService = (*userService)(nil)

type userService struct {
	*crudService[models.User]
	logger *zap.Logger
}

// NewUserService создает новый экземпляр сервиса пользователей.
// Пароль хешируется bcrypt, UUID для API-ключа выдается при создании.
func NewUserService(repo repository.UserRepository, validate *validator.Validate, logger *zap.Logger) UserService {
	s := &userService{logger: logger.Named("users")}
	s.crudService = newCRUDService(criteria.Users, repository.Store[models.User](repo), validate, logger, hooks[models.User]{
		beforeCreate: s.beforeCreate,
		beforeUpdate: s.beforeUpdate,
	})
	return s
}

// GetWithAPIKey заново выводит API-ключ из UUID пользователя.
func (s *userService) GetWithAPIKey(ctx context.Context, id int64) (*models.UserWithAPIKey, error) {
	user, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	return &models.UserWithAPIKey{
		PublicUser: user.Public(),
		APIKey:     apikey.Encode(user.UUID),
	}, nil
}

func (s *userService) beforeCreate(user *models.User) error {
	hash, err := hashPassword(user.Password)
	if err != nil {
		s.logger.Error("Ошибка хеширования пароля", zap.String("username", user.Username), zap.Error(err))
		return apperr.Wrap(apperr.KindUnknown, "users.create", err)
	}
	user.Password = hash

	id, _ := apikey.Generate()
	user.UUID = id
	s.logger.Info("Выдан API-ключ новому пользователю", zap.String("username", user.Username))
	return nil
}

// beforeUpdate хеширует пароль, только если клиент передал новый.
// UUID не меняется: API-ключ пользователя остается прежним.
func (s *userService) beforeUpdate(current, updated *models.User) error {
	updated.UUID = current.UUID
	if updated.Password == current.Password {
		return nil
	}
	hash, err := hashPassword(updated.Password)
	if err != nil {
		s.logger.Error("Ошибка хеширования пароля", zap.Int64("id", current.ID), zap.Error(err))
		return apperr.Wrap(apperr.KindUnknown, "users.update", err)
	}
	updated.Password = hash
	return nil
}

func hashPassword(password string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", fmt.Errorf("ошибка хеширования пароля: %w", err)
	}
	return string(hash), nil
}

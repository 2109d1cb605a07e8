package middleware

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/djaouedkh/airlineCompany/internal/apikey"
	"github.com/djaouedkh/airlineCompany/internal/apperr"
	"github.com/djaouedkh/airlineCompany/models"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// APIKeyHeader - заголовок, в котором клиент передает API-ключ.
const APIKeyHeader = "x-api-key"

// Тип для ключа контекста.
type contextKey string

// PrincipalKey - ключ для хранения аутентифицированного пользователя в контексте.
const PrincipalKey contextKey = "principal"

// PrincipalLookup ищет пользователя по UUID, выведенному из API-ключа.
type PrincipalLookup interface {
	GetByUUID(ctx context.Context, id uuid.UUID) (*models.User, error)
}

// Сообщения об отказе в доступе.
const (
	msgBadCredential    = "Запрос некорректен: API-ключ отсутствует или имеет неверный формат."
	msgUnknownPrincipal = "Пользователь с таким API-ключом не найден."
)

// APIKeyAuthenticator проверяет заголовок x-api-key на каждом запросе.
//
// Отсутствующий или некорректный ключ - 400, ключ неизвестного пользователя
// (или ошибка поиска) - 404. В обоих случаях следующий обработчик не вызывается.
// Найденный пользователь сохраняется в контексте запроса.
func APIKeyAuthenticator(users PrincipalLookup, logger *zap.Logger) func(http.Handler) http.Handler {
	logger = logger.Named("auth")
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			token := r.Header.Get(APIKeyHeader)
			if token == "" {
				logger.Debug("Заголовок x-api-key отсутствует", zap.String("path", r.URL.Path))
				writeAuthError(w, http.StatusBadRequest, msgBadCredential)
				return
			}

			id, err := apikey.Decode(token)
			if err != nil {
				logger.Debug("Неверный формат API-ключа", zap.String("path", r.URL.Path), zap.Error(err))
				writeAuthError(w, http.StatusBadRequest, msgBadCredential)
				return
			}

			user, err := users.GetByUUID(r.Context(), id)
			if err != nil {
				if apperr.Is(err, apperr.KindNotFound) {
					logger.Info("Пользователь для API-ключа не найден", zap.Stringer("uuid", id))
				} else {
					logger.Warn("Ошибка поиска пользователя по API-ключу", zap.Stringer("uuid", id), zap.Error(err))
				}
				writeAuthError(w, http.StatusNotFound, msgUnknownPrincipal)
				return
			}

			logger.Debug("Пользователь аутентифицирован", zap.Int64("userID", user.ID))
			ctx := context.WithValue(r.Context(), PrincipalKey, user)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// PrincipalFromContext извлекает аутентифицированного пользователя из контекста запроса.
// Возвращает пользователя и true, если он найден, иначе nil и false.
func PrincipalFromContext(ctx context.Context) (*models.User, bool) {
	user, ok := ctx.Value(PrincipalKey).(*models.User)
	return user, ok && user != nil
}

func writeAuthError(w http.ResponseWriter, status int, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(models.AuthErrorResponse{Error: message})
}

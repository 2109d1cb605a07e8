package middleware

import (
	"context"
	"encoding/json"
	"fmt"
	"net"
	"net/http"
	"strconv"
	"time"

	"github.com/djaouedkh/airlineCompany/models"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

const (
	// RateLimitWindow - длина фиксированного окна подсчета запросов.
	RateLimitWindow = time.Minute
	// RateLimitKeyPrefix - префикс ключей Redis для счетчиков.
	RateLimitKeyPrefix = "ratelimit:"
)

// RateLimiter ограничивает число запросов с одного IP в фиксированном окне.
// Счетчики хранятся в Redis, поэтому лимит общий для всех экземпляров сервера.
type RateLimiter struct {
	client *redis.Client
	limit  int
	logger *zap.Logger
}

// NewRateLimiter создает ограничитель на limit запросов в минуту.
func NewRateLimiter(client *redis.Client, limit int, logger *zap.Logger) *RateLimiter {
	return &RateLimiter{client: client, limit: limit, logger: logger.Named("ratelimit")}
}

// rateLimitScript увеличивает счетчик и выставляет срок жизни, если его нет.
// KEYS[1] - ключ счетчика, ARGV[1] - длина окна в миллисекундах.
// Возвращает {count, pttl}.
var rateLimitScript = redis.NewScript(`
local count = redis.call("INCR", KEYS[1])
local ttl = redis.call("PTTL", KEYS[1])
if ttl < 0 then
	redis.call("PEXPIRE", KEYS[1], ARGV[1])
	ttl = tonumber(ARGV[1])
end
return {count, ttl}
`)

// Allow увеличивает счетчик ключа и сообщает, укладывается ли запрос в лимит.
// Второе значение - сколько осталось до конца окна.
func (l *RateLimiter) Allow(ctx context.Context, key string) (bool, time.Duration, error) {
	res, err := rateLimitScript.Run(ctx, l.client, []string{RateLimitKeyPrefix + key},
		RateLimitWindow.Milliseconds()).Int64Slice()
	if err != nil {
		return true, 0, err
	}
	if len(res) != 2 {
		return true, 0, fmt.Errorf("неожиданный ответ скрипта лимита: %v", res)
	}

	count, ttl := res[0], time.Duration(res[1])*time.Millisecond
	if count <= int64(l.limit) {
		return true, 0, nil
	}
	if ttl <= 0 {
		ttl = RateLimitWindow
	}
	return false, ttl, nil
}

// Middleware возвращает chi-совместимый middleware.
// При недоступности Redis запрос пропускается.
func (l *RateLimiter) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ip := clientIP(r)
		allowed, retryAfter, err := l.Allow(r.Context(), ip)
		if err != nil {
			l.logger.Warn("Ошибка Redis, запрос пропущен без ограничения", zap.String("ip", ip), zap.Error(err))
			next.ServeHTTP(w, r)
			return
		}

		w.Header().Set("X-RateLimit-Limit", strconv.Itoa(l.limit))
		if !allowed {
			seconds := int(retryAfter.Round(time.Second).Seconds())
			if seconds < 1 {
				seconds = 1
			}
			l.logger.Info("Превышен лимит запросов", zap.String("ip", ip), zap.Int("retryAfter", seconds))
			w.Header().Set("Retry-After", strconv.Itoa(seconds))
			w.Header().Set("Content-Type", "application/json")
			w.WriteHeader(http.StatusTooManyRequests)
			_ = json.NewEncoder(w).Encode(models.AuthErrorResponse{Error: "Слишком много запросов. Повторите попытку позже."})
			return
		}
		next.ServeHTTP(w, r)
	})
}

// clientIP возвращает адрес клиента без порта.
// Заголовки X-Forwarded-For и X-Real-IP уже учтены middleware.RealIP из chi.
func clientIP(r *http.Request) string {
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}

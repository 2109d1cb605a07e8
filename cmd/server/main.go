package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/jmoiron/sqlx"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/djaouedkh/airlineCompany/internal/handlers"
	appmiddleware "github.com/djaouedkh/airlineCompany/internal/middleware"
	"github.com/djaouedkh/airlineCompany/internal/repository"
	"github.com/djaouedkh/airlineCompany/internal/services"
	"github.com/djaouedkh/airlineCompany/models"
)

const (
	defaultReadTimeout     = 10 * time.Second
	defaultWriteTimeout    = 10 * time.Second
	defaultIdleTimeout     = 30 * time.Second
	defaultShutdownTimeout = 15 * time.Second
	redisPingTimeout       = 5 * time.Second
	corsMaxAge             = 300
)

// Подменяется в тестах.
var newPostgresDB = repository.NewPostgresDB

// Структура для хранения инициализированных зависимостей.
type dependencies struct {
	db          *sqlx.DB
	redis       *redis.Client // nil, если ограничение частоты отключено
	users       repository.UserRepository
	rateLimiter *appmiddleware.RateLimiter

	userHandler     *handlers.ResourceHandler[models.User]
	airplaneHandler *handlers.ResourceHandler[models.Airplane]
	flightHandler   *handlers.ResourceHandler[models.Flight]
	cityHandler     *handlers.ResourceHandler[models.City]
	bookingHandler  *handlers.ResourceHandler[models.Booking]
}

// close освобождает соединения с БД и Redis.
func (d *dependencies) close(logger *zap.Logger) {
	if d.redis != nil {
		if err := d.redis.Close(); err != nil {
			logger.Warn("Ошибка закрытия соединения с Redis", zap.Error(err))
		}
	}
	if d.db != nil {
		if err := d.db.Close(); err != nil {
			logger.Warn("Ошибка закрытия соединения с БД", zap.Error(err))
		}
	}
}

// main - точка входа. Вызывает run и обрабатывает ошибку.
func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "Ошибка выполнения сервера: %v\n", err)
		os.Exit(1)
	}
}

// run содержит основную логику запуска сервера и возвращает ошибку.
func run() error {
	cfg, err := parseFlags()
	if err != nil {
		return fmt.Errorf("ошибка конфигурации: %w", err)
	}

	logger, err := newLogger(cfg.Env)
	if err != nil {
		return fmt.Errorf("ошибка инициализации логгера: %w", err)
	}
	defer func() { _ = logger.Sync() }()

	logger.Info("Запуск сервера авиакомпании",
		zap.String("env", cfg.Env),
		zap.String("port", cfg.Port),
		zap.String("availabilityPolicy", string(cfg.AvailabilityPolicy)),
	)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	deps, err := setupDependencies(ctx, cfg, logger)
	if err != nil {
		return fmt.Errorf("ошибка инициализации зависимостей: %w", err)
	}
	defer deps.close(logger)

	server := &http.Server{
		Addr:         fmt.Sprintf(":%s", cfg.Port),
		Handler:      setupRouter(deps, cfg, logger),
		ReadTimeout:  defaultReadTimeout,
		WriteTimeout: defaultWriteTimeout,
		IdleTimeout:  defaultIdleTimeout,
	}

	errCh := make(chan error, 1)
	go func() {
		if cfg.TLSEnabled() {
			logger.Info("HTTPS-сервер слушает порт", zap.String("port", cfg.Port), zap.String("cert", cfg.CertFile))
			errCh <- server.ListenAndServeTLS(cfg.CertFile, cfg.KeyFile)
			return
		}
		logger.Info("HTTP-сервер слушает порт", zap.String("port", cfg.Port))
		errCh <- server.ListenAndServe()
	}()

	select {
	case err = <-errCh:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("ошибка запуска сервера: %w", err)
		}
		return nil
	case <-ctx.Done():
	}

	logger.Info("Получен сигнал завершения, останавливаем сервер")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), defaultShutdownTimeout)
	defer cancel()
	if err = server.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("ошибка остановки сервера: %w", err)
	}
	logger.Info("Сервер остановлен")
	return nil
}

// newLogger создает production-логгер или development-логгер для локального окружения.
func newLogger(env string) (*zap.Logger, error) {
	if env == envNameDevelopment {
		return zap.NewDevelopment()
	}
	return zap.NewProduction()
}

// setupDependencies инициализирует и возвращает все необходимые зависимости сервера.
func setupDependencies(ctx context.Context, cfg *config, logger *zap.Logger) (*dependencies, error) {
	deps := &dependencies{}
	var err error

	// 1. Подключение к БД и миграции
	deps.db, err = newPostgresDB(cfg.DatabaseDSN, logger)
	if err != nil {
		return nil, fmt.Errorf("ошибка инициализации БД: %w", err)
	}
	if cfg.Migrate {
		if err = repository.Migrate(ctx, deps.db, logger); err != nil {
			deps.close(logger)
			return nil, fmt.Errorf("ошибка применения миграций: %w", err)
		}
	}

	// 2. Redis для ограничения частоты запросов (необязателен)
	if cfg.RedisURL != "" {
		deps.redis, err = newRedisClient(ctx, cfg.RedisURL, logger)
		if err != nil {
			deps.close(logger)
			return nil, fmt.Errorf("ошибка инициализации Redis: %w", err)
		}
		deps.rateLimiter = appmiddleware.NewRateLimiter(deps.redis, cfg.RateLimit, logger)
	}

	// 3. Создание репозиториев
	deps.users = repository.NewPostgresUserRepository(deps.db, logger)
	airplaneRepo := repository.NewPostgresAirplaneRepository(deps.db, logger, cfg.AvailabilityPolicy)
	flightRepo := repository.NewPostgresFlightRepository(deps.db, logger)
	cityRepo := repository.NewPostgresCityRepository(deps.db, logger)
	bookingRepo := repository.NewPostgresBookingRepository(deps.db, logger)

	// 4. Создание сервисов
	validate := services.NewValidator()
	userService := services.NewUserService(deps.users, validate, logger)
	airplaneService := services.NewAirplaneService(airplaneRepo, validate, logger)
	flightService := services.NewFlightService(flightRepo, validate, logger)
	cityService := services.NewCityService(cityRepo, validate, logger)
	bookingService := services.NewBookingService(bookingRepo, validate, logger)

	// 5. Создание обработчиков
	deps.userHandler = handlers.NewUserHandler(userService, logger)
	deps.airplaneHandler = handlers.NewAirplaneHandler(airplaneService, logger)
	deps.flightHandler = handlers.NewFlightHandler(flightService, logger)
	deps.cityHandler = handlers.NewCityHandler(cityService, logger)
	deps.bookingHandler = handlers.NewBookingHandler(bookingService, logger)

	return deps, nil
}

// newRedisClient подключается к Redis по URL. Недоступный при старте Redis не мешает запуску:
// ограничитель пропускает запросы, пока Redis не ответит.
func newRedisClient(ctx context.Context, url string, logger *zap.Logger) (*redis.Client, error) {
	opt, err := redis.ParseURL(url)
	if err != nil {
		return nil, fmt.Errorf("некорректный адрес Redis: %w", err)
	}
	opt.DialTimeout = 5 * time.Second
	opt.ReadTimeout = 3 * time.Second
	opt.WriteTimeout = 3 * time.Second

	client := redis.NewClient(opt)

	pingCtx, cancel := context.WithTimeout(ctx, redisPingTimeout)
	defer cancel()
	if err = client.Ping(pingCtx).Err(); err != nil {
		logger.Warn("Redis недоступен, ограничение частоты запросов временно не работает", zap.Error(err))
	} else {
		logger.Info("Соединение с Redis установлено", zap.String("addr", opt.Addr))
	}
	return client, nil
}

// setupRouter настраивает и возвращает роутер chi.
func setupRouter(deps *dependencies, cfg *config, logger *zap.Logger) *chi.Mux {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(appmiddleware.RequestLogger(logger))
	r.Use(middleware.Recoverer)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   cfg.CORSOrigins,
		AllowedMethods:   []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodDelete, http.MethodOptions},
		AllowedHeaders:   []string{"Accept", "Content-Type", appmiddleware.APIKeyHeader},
		AllowCredentials: true,
		MaxAge:           corsMaxAge,
	}))

	gate := appmiddleware.APIKeyAuthenticator(deps.users, logger)

	// Неизвестные маршруты и методы тоже проверяют ключ, затем 404 без тела
	notFound := gate(http.HandlerFunc(handlers.NotFound)).ServeHTTP
	r.NotFound(notFound)
	r.MethodNotAllowed(notFound)

	// --- Маршруты --- //
	r.With(gate).Get("/ping", func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte("pong\n"))
	})

	// Все маршруты /api, включая несуществующие, проходят через проверку API-ключа.
	// Свои NotFound и MethodNotAllowed задаются до Mount: иначе подроутеры унаследуют обработчик с повторной проверкой.
	r.Route("/api", func(r chi.Router) {
		if deps.rateLimiter != nil {
			r.Use(deps.rateLimiter.Middleware)
		}
		r.Use(gate)
		r.NotFound(handlers.NotFound)
		r.MethodNotAllowed(handlers.NotFound)

		r.Mount("/users", deps.userHandler.Routes())
		r.Mount("/airplanes", deps.airplaneHandler.Routes())
		r.Mount("/flights", deps.flightHandler.Routes())
		r.Mount("/cities", deps.cityHandler.Routes())
		r.Mount("/bookings", deps.bookingHandler.Routes())
	})
	return r
}

package main

import (
	"errors"
	"flag"
	"fmt"
	"io/fs"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"

	"github.com/djaouedkh/airlineCompany/internal/repository"
)

const (
	envNameDevelopment = "development"
	defaultServerPort  = "3000"
	defaultEnv         = envNameDevelopment
	defaultCORSOrigin  = "http://localhost:3001"
	defaultRateLimit   = 120
	defaultDBMigrate   = true

	// Переменные окружения.
	envServerPort         = "PORT"
	envAppEnv             = "APP_ENV"
	envDatabaseDSN        = "DATABASE_DSN"
	envCORSOrigins        = "CORS_ALLOWED_ORIGINS"
	envRedisURL           = "REDIS_URL"
	envRateLimit          = "RATE_LIMIT_PER_MINUTE"
	envAvailabilityPolicy = "AVAILABILITY_POLICY"
	envDBMigrate          = "DB_MIGRATE"
	envTLSCertFile        = "TLS_CERT_FILE"
	envTLSKeyFile         = "TLS_KEY_FILE"

	// Переменные окружения для БД (используются, если DSN не задан).
	envDBUser     = "POSTGRES_USER"
	envDBPass     = "POSTGRES_PASSWORD" //nolint:gosec // Имя переменной окружения, не пароль
	envDBName     = "POSTGRES_DB"
	envDBHost     = "POSTGRES_HOST"
	envDBPort     = "POSTGRES_PORT"
	defaultDBUser = "airline"
	defaultDBPass = "secret"
	defaultDBName = "airline_company"
	defaultDBHost = "localhost"
	defaultDBPort = "5432"
)

// config хранит конфигурацию сервера.
type config struct {
	Port               string
	Env                string
	DatabaseDSN        string
	CORSOrigins        []string
	RedisURL           string
	RateLimit          int
	AvailabilityPolicy repository.AvailabilityPolicy
	Migrate            bool
	CertFile           string
	KeyFile            string
}

// TLSEnabled сообщает, что сервер должен слушать HTTPS.
func (c *config) TLSEnabled() bool {
	return c.CertFile != "" && c.KeyFile != ""
}

// parseFlags разбирает флаги и переменные окружения, возвращает config или ошибку.
// Приоритет: флаг, затем переменная окружения (в том числе из .env.<APP_ENV>), затем значение по умолчанию.
func parseFlags() (*config, error) {
	var (
		port, env, dsn, cors, redisURL, rateLimit, policy, migrate, certFile, keyFile string
	)

	flag.StringVar(&port, "port", "",
		fmt.Sprintf("Порт HTTP-сервера (env: %s, default: %s)", envServerPort, defaultServerPort))
	flag.StringVar(&env, "env", "",
		fmt.Sprintf("Имя окружения (env: %s, default: %s)", envAppEnv, defaultEnv))
	flag.StringVar(&dsn, "database-dsn", "",
		fmt.Sprintf("Строка подключения к базе данных (env: %s)", envDatabaseDSN))
	flag.StringVar(&cors, "cors-origin", "",
		fmt.Sprintf("Разрешенные CORS-источники через запятую (env: %s, default: %s)", envCORSOrigins, defaultCORSOrigin))
	flag.StringVar(&redisURL, "redis-url", "",
		fmt.Sprintf("Адрес Redis для ограничения частоты запросов (env: %s)", envRedisURL))
	flag.StringVar(&rateLimit, "rate-limit", "",
		fmt.Sprintf("Лимит запросов в минуту с одного IP (env: %s, default: %d)", envRateLimit, defaultRateLimit))
	flag.StringVar(&policy, "availability-policy", "",
		fmt.Sprintf("Правило поиска свободных самолетов: legacy или strict (env: %s)", envAvailabilityPolicy))
	flag.StringVar(&migrate, "migrate", "",
		fmt.Sprintf("Применять миграции при запуске (env: %s, default: %t)", envDBMigrate, defaultDBMigrate))
	flag.StringVar(&certFile, "cert-file", "",
		fmt.Sprintf("Путь к файлу TLS-сертификата (env: %s)", envTLSCertFile))
	flag.StringVar(&keyFile, "key-file", "",
		fmt.Sprintf("Путь к файлу TLS-ключа (env: %s)", envTLSKeyFile))

	flag.Parse()

	cfg := &config{}
	cfg.Env = fromEnv(env, envAppEnv, defaultEnv)

	// Файл окружения не перекрывает уже заданные переменные
	if err := loadEnvFile(cfg.Env); err != nil {
		return nil, err
	}

	cfg.Port = fromEnv(port, envServerPort, defaultServerPort)
	cfg.DatabaseDSN = fromEnv(dsn, envDatabaseDSN, "")
	if cfg.DatabaseDSN == "" {
		cfg.DatabaseDSN = getDSNFromEnv()
	}
	cfg.CORSOrigins = splitList(fromEnv(cors, envCORSOrigins, defaultCORSOrigin))
	cfg.RedisURL = fromEnv(redisURL, envRedisURL, "")
	cfg.CertFile = fromEnv(certFile, envTLSCertFile, "")
	cfg.KeyFile = fromEnv(keyFile, envTLSKeyFile, "")

	var err error
	cfg.RateLimit, err = strconv.Atoi(fromEnv(rateLimit, envRateLimit, strconv.Itoa(defaultRateLimit)))
	if err != nil || cfg.RateLimit <= 0 {
		return nil, fmt.Errorf("некорректный лимит запросов (--rate-limit или %s): должен быть положительным числом", envRateLimit)
	}

	cfg.AvailabilityPolicy, err = repository.ParseAvailabilityPolicy(fromEnv(policy, envAvailabilityPolicy, ""))
	if err != nil {
		return nil, err
	}

	cfg.Migrate, err = strconv.ParseBool(fromEnv(migrate, envDBMigrate, strconv.FormatBool(defaultDBMigrate)))
	if err != nil {
		return nil, fmt.Errorf("некорректное значение --migrate или %s: %w", envDBMigrate, err)
	}

	if (cfg.CertFile == "") != (cfg.KeyFile == "") {
		return nil, errors.New("для TLS нужно указать и сертификат (--cert-file), и ключ (--key-file)")
	}

	return cfg, nil
}

// loadEnvFile загружает .env.<env> или .env, если имя окружения пустое.
// Отсутствие файла ошибкой не считается.
func loadEnvFile(env string) error {
	name := ".env"
	if env != "" {
		name += "." + env
	}
	if err := godotenv.Load(name); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("ошибка чтения файла окружения %s: %w", name, err)
	}
	return nil
}

// fromEnv возвращает значение флага, если оно задано, иначе значение переменной окружения или fallback.
func fromEnv(flagValue, key, fallback string) string {
	if flagValue != "" {
		return flagValue
	}
	return getEnv(key, fallback)
}

// getDSNFromEnv формирует строку подключения к БД из переменных окружения.
func getDSNFromEnv() string {
	user := getEnv(envDBUser, defaultDBUser)
	password := getEnv(envDBPass, defaultDBPass)
	host := getEnv(envDBHost, defaultDBHost)
	port := getEnv(envDBPort, defaultDBPort)
	dbname := getEnv(envDBName, defaultDBName)

	// sslmode=disable удобен для локальной разработки с Docker
	//nolint:nosprintfhostport // DSN - это URL, а не просто host:port
	return fmt.Sprintf("postgres://%s:%s@%s:%s/%s?sslmode=disable",
		user, password, host, port, dbname)
}

// getEnv получает значение переменной окружения или возвращает значение по умолчанию.
func getEnv(key, fallback string) string {
	if value, ok := os.LookupEnv(key); ok && value != "" {
		return value
	}
	return fallback
}

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}

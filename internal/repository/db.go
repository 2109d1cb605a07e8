package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/djaouedkh/airlineCompany/migrations"
	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq" // Драйвер PostgreSQL, импортируем для регистрации
	"github.com/pressly/goose/v3"
	"go.uber.org/zap"
)

// Параметры пула соединений. Запросы API короткие, поэтому простаивающих
// соединений держим меньше, чем открытых.
const (
	maxOpenConns    = 20
	maxIdleConns    = 10
	connMaxLifetime = 30 * time.Minute
	connMaxIdleTime = 5 * time.Minute
	pingTimeout     = 5 * time.Second
)

// NewPostgresDB открывает пул соединений с PostgreSQL и проверяет доступность БД.
// Схема при этом не меняется: миграции применяет Migrate, если это разрешено конфигурацией.
func NewPostgresDB(dsn string, logger *zap.Logger) (*sqlx.DB, error) {
	db, err := sqlx.Open("postgres", dsn)
	if err != nil {
		return nil, fmt.Errorf("ошибка подключения к БД: %w", err)
	}
	db.SetMaxOpenConns(maxOpenConns)
	db.SetMaxIdleConns(maxIdleConns)
	db.SetConnMaxLifetime(connMaxLifetime)
	db.SetConnMaxIdleTime(connMaxIdleTime)

	ctx, cancel := context.WithTimeout(context.Background(), pingTimeout)
	defer cancel()
	if err = db.PingContext(ctx); err != nil {
		if closeErr := db.Close(); closeErr != nil {
			logger.Warn("Не удалось закрыть пул после неудачной проверки БД", zap.Error(closeErr))
		}
		return nil, fmt.Errorf("ошибка подключения к БД: %w", err)
	}

	logger.Info("Пул соединений с PostgreSQL готов", zap.Int("maxOpenConns", maxOpenConns))
	return db, nil
}

// Migrate применяет встроенные миграции схемы.
func Migrate(ctx context.Context, db *sqlx.DB, logger *zap.Logger) error {
	goose.SetBaseFS(migrations.FS)
	defer goose.SetBaseFS(nil)

	if err := goose.SetDialect("postgres"); err != nil {
		return fmt.Errorf("ошибка выбора диалекта миграций: %w", err)
	}
	if err := goose.UpContext(ctx, db.DB, "."); err != nil {
		return fmt.Errorf("ошибка применения миграций: %w", err)
	}

	version, err := goose.GetDBVersionContext(ctx, db.DB)
	if err != nil {
		return fmt.Errorf("ошибка получения версии схемы: %w", err)
	}
	logger.Info("Миграции применены", zap.Int64("version", version))
	return nil
}

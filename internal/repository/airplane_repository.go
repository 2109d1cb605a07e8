package repository

import (
	"context"
	"fmt"
	"strings"

	"github.com/djaouedkh/airlineCompany/internal/criteria"
	"github.com/djaouedkh/airlineCompany/models"
	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"
	"go.uber.org/zap"
)

// AvailabilityPolicy определяет, какие пары дат сравниваются при поиске занятых самолетов.
type AvailabilityPolicy string

const (
	// PolicyLegacy - четвертое условие повторяет третье (прибытие с прибытием).
	// Сравнение запрошенного прибытия с вылетом рейса не выполняется.
	PolicyLegacy AvailabilityPolicy = "legacy"
	// PolicyStrict - четвертое условие сравнивает запрошенное прибытие с вылетом рейса.
	PolicyStrict AvailabilityPolicy = "strict"
)

// ParseAvailabilityPolicy разбирает имя политики. Пустая строка означает PolicyLegacy.
func ParseAvailabilityPolicy(s string) (AvailabilityPolicy, error) {
	switch AvailabilityPolicy(strings.ToLower(strings.TrimSpace(s))) {
	case "", PolicyLegacy:
		return PolicyLegacy, nil
	case PolicyStrict:
		return PolicyStrict, nil
	default:
		return "", fmt.Errorf("неизвестная политика доступности %q (ожидается legacy или strict)", s)
	}
}

const (
	airplaneColumns = `a.id_airplane, a.airplane_number, a.brand,
		a.number_of_seats_first_class, a.number_of_seats_second_class`

	// Фаза A: самолеты, у которых есть рейс, пересекающийся с окном.
	busyAirplanesLegacyQuery = `SELECT DISTINCT f.id_airplane FROM flights f
		WHERE f.departure_date = $1 OR f.arrival_date = $1 OR f.arrival_date = $2 OR f.arrival_date = $2`
	busyAirplanesStrictQuery = `SELECT DISTINCT f.id_airplane FROM flights f
		WHERE f.departure_date = $1 OR f.arrival_date = $1 OR f.arrival_date = $2 OR f.departure_date = $2`
)

// AirplaneRepository определяет методы для работы с самолетами.
type AirplaneRepository interface {
	Store[models.Airplane]
	// BusyAirplaneIDs возвращает идентификаторы самолетов, занятых в указанное окно.
	BusyAirplaneIDs(ctx context.Context, window models.AvailabilityWindow) ([]int64, error)
}

// postgresAirplaneRepository реализует AirplaneRepository для PostgreSQL.
type postgresAirplaneRepository struct {
	base[models.Airplane]
	policy AvailabilityPolicy
}

// NewPostgresAirplaneRepository создает новый экземпляр репозитория самолетов.
func NewPostgresAirplaneRepository(db *sqlx.DB, logger *zap.Logger, policy AvailabilityPolicy) AirplaneRepository {
	if policy == "" {
		policy = PolicyLegacy
	}
	return &postgresAirplaneRepository{
		base: base[models.Airplane]{
			db:     db,
			logger: logger.Named("airplanes"),
			t: table[models.Airplane]{
				name:      "airplanes",
				selectSQL: "SELECT " + airplaneColumns + " FROM airplanes a",
				idColumn:  "a.id_airplane",
				orderBy:   "a.airplane_number",
				insertSQL: `INSERT INTO airplanes (airplane_number, brand, number_of_seats_first_class, number_of_seats_second_class)
					VALUES ($1, $2, $3, $4) RETURNING id_airplane`,
				updateSQL: `UPDATE airplanes SET airplane_number = $1, brand = $2,
					number_of_seats_first_class = $3, number_of_seats_second_class = $4
					WHERE id_airplane = $5`,
				deleteSQL: `DELETE FROM airplanes WHERE id_airplane = $1`,
				args: func(a *models.Airplane) []any {
					return []any{a.AirplaneNumber, a.Brand, a.NumberOfSeatsFirstClass, a.NumberOfSeatsSecondClass}
				},
			},
		},
		policy: policy,
	}
}

// Search выполняет поиск самолетов по критерию.
func (r *postgresAirplaneRepository) Search(ctx context.Context, c criteria.Criterion) (*SearchResult[models.Airplane], error) {
	switch c.Key {
	case criteria.KeyAirplaneNumber:
		return r.search(ctx, c, "CAST(a.airplane_number AS TEXT) LIKE $1", r.t.orderBy, likePattern(c.Value))
	case criteria.KeyIDFlight:
		// Самолеты, выполняющие указанный рейс
		where := "a.id_airplane IN (SELECT f.id_airplane FROM flights f WHERE f.id_flight = $1)"
		return r.search(ctx, c, where, r.t.orderBy, c.Value)
	case criteria.KeyDatesBooking:
		if c.Window == nil {
			return nil, r.unknownCriterion(c)
		}
		return r.available(ctx, c)
	default:
		return nil, r.unknownCriterion(c)
	}
}

// BusyAirplaneIDs выполняет фазу A поиска свободных самолетов.
func (r *postgresAirplaneRepository) BusyAirplaneIDs(ctx context.Context, window models.AvailabilityWindow) ([]int64, error) {
	query := busyAirplanesLegacyQuery
	if r.policy == PolicyStrict {
		query = busyAirplanesStrictQuery
	}

	// Не nil: pq.Array(nil) превращается в NULL, и "<> ALL(NULL)" ничего не вернет
	ids := make([]int64, 0)
	err := r.db.SelectContext(ctx, &ids, query, optionalDate(window.DepartureDate), optionalDate(window.ArrivalDate))
	if err != nil {
		r.logger.Error("Ошибка поиска занятых самолетов", zap.Error(err))
		return nil, translateRead(r.op("busy"), err)
	}
	r.logger.Debug("Найдены занятые самолеты",
		zap.String("policy", string(r.policy)),
		zap.String("departureDate", window.DepartureDate),
		zap.String("arrivalDate", window.ArrivalDate),
		zap.Int64s("ids", ids),
	)
	return ids, nil
}

// available выполняет фазу B: все самолеты, не попавшие в множество занятых.
func (r *postgresAirplaneRepository) available(ctx context.Context, c criteria.Criterion) (*SearchResult[models.Airplane], error) {
	busy, err := r.BusyAirplaneIDs(ctx, *c.Window)
	if err != nil {
		return nil, err
	}
	return r.search(ctx, c, "a.id_airplane <> ALL($1)", r.t.orderBy, pq.Array(busy))
}

// optionalDate передает пустую дату как NULL: сравнение с NULL ничего не находит.
func optionalDate(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}

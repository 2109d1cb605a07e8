package repository

import (
	"context"

	"github.com/djaouedkh/airlineCompany/internal/criteria"
	"github.com/djaouedkh/airlineCompany/models"
	"github.com/jmoiron/sqlx"
	"go.uber.org/zap"
)

// Колонки рейса и его самолета. Псевдонимы "airplane.*" раскладываются sqlx во вложенную структуру.
const flightColumns = `f.id_flight, f.flight_number, f.departure_date, f.departure_time,
	f.arrival_date, f.arrival_time, f.price_of_seat_first_class, f.price_of_seat_second_class,
	f.id_airplane, f.from_city, f.destination,
	a.id_airplane AS "airplane.id_airplane",
	a.airplane_number AS "airplane.airplane_number",
	a.brand AS "airplane.brand",
	a.number_of_seats_first_class AS "airplane.number_of_seats_first_class",
	a.number_of_seats_second_class AS "airplane.number_of_seats_second_class"`

const flightsFrom = ` FROM flights f JOIN airplanes a ON a.id_airplane = f.id_airplane`

// FlightRepository определяет методы для работы с рейсами.
type FlightRepository interface {
	Store[models.Flight]
}

// postgresFlightRepository реализует FlightRepository для PostgreSQL.
type postgresFlightRepository struct {
	base[models.Flight]
}

// NewPostgresFlightRepository создает новый экземпляр репозитория рейсов.
func NewPostgresFlightRepository(db *sqlx.DB, logger *zap.Logger) FlightRepository {
	return &postgresFlightRepository{
		base: base[models.Flight]{
			db:     db,
			logger: logger.Named("flights"),
			t: table[models.Flight]{
				name:      "flights",
				selectSQL: "SELECT " + flightColumns + flightsFrom,
				idColumn:  "f.id_flight",
				orderBy:   "f.flight_number",
				// Не заданные дата и время заменяются текущими
				insertSQL: `INSERT INTO flights (flight_number, departure_date, departure_time, arrival_date, arrival_time,
					price_of_seat_first_class, price_of_seat_second_class, id_airplane, from_city, destination)
					VALUES ($1, COALESCE($2, CURRENT_DATE), COALESCE($3, LOCALTIME(0)),
					COALESCE($4, CURRENT_DATE), COALESCE($5, LOCALTIME(0)), $6, $7, $8, $9, $10)
					RETURNING id_flight`,
				updateSQL: `UPDATE flights SET flight_number = $1,
					departure_date = COALESCE($2, departure_date), departure_time = COALESCE($3, departure_time),
					arrival_date = COALESCE($4, arrival_date), arrival_time = COALESCE($5, arrival_time),
					price_of_seat_first_class = $6, price_of_seat_second_class = $7,
					id_airplane = $8, from_city = $9, destination = $10
					WHERE id_flight = $11`,
				deleteSQL: `DELETE FROM flights WHERE id_flight = $1`,
				args: func(f *models.Flight) []any {
					return []any{
						f.FlightNumber, f.DepartureDate, f.DepartureTime, f.ArrivalDate, f.ArrivalTime,
						f.PriceOfSeatFirstClass, f.PriceOfSeatSecondClass, f.IDAirplane, f.From, f.Destination,
					}
				},
			},
		},
	}
}

// Search выполняет поиск рейсов по критерию. Каждая строка содержит самолет рейса.
func (r *postgresFlightRepository) Search(ctx context.Context, c criteria.Criterion) (*SearchResult[models.Flight], error) {
	switch c.Key {
	case criteria.KeyFlightNumber:
		return r.search(ctx, c, "CAST(f.flight_number AS TEXT) LIKE $1", r.t.orderBy, likePattern(c.Value))
	case criteria.KeyIDAirplane:
		return r.search(ctx, c, "a.id_airplane = $1", r.t.orderBy, c.Value)
	default:
		return nil, r.unknownCriterion(c)
	}
}

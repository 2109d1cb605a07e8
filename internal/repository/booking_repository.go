package repository

import (
	"context"
	"database/sql"
	"errors"

	"github.com/djaouedkh/airlineCompany/internal/apperr"
	"github.com/djaouedkh/airlineCompany/internal/criteria"
	"github.com/djaouedkh/airlineCompany/models"
	"github.com/jmoiron/sqlx"
	"go.uber.org/zap"
)

const bookingColumns = `b.id_booking, b.number_booking, b.seat_number, b.class_travel, b.id_user, b.id_flight`

// Бронирование с пользователем (без пароля и UUID), рейсом и самолетом рейса.
const bookingDetailsQuery = `SELECT ` + bookingColumns + `,
	u.id_user AS "user.id_user", u.username AS "user.username", u.firstname AS "user.firstname",
	u.lastname AS "user.lastname", u.age AS "user.age", u.address AS "user.address",
	f.id_flight AS "flight.id_flight", f.flight_number AS "flight.flight_number",
	f.departure_date AS "flight.departure_date", f.departure_time AS "flight.departure_time",
	f.arrival_date AS "flight.arrival_date", f.arrival_time AS "flight.arrival_time",
	f.price_of_seat_first_class AS "flight.price_of_seat_first_class",
	f.price_of_seat_second_class AS "flight.price_of_seat_second_class",
	f.id_airplane AS "flight.id_airplane", f.from_city AS "flight.from_city", f.destination AS "flight.destination",
	a.id_airplane AS "flight.airplane.id_airplane", a.airplane_number AS "flight.airplane.airplane_number",
	a.brand AS "flight.airplane.brand",
	a.number_of_seats_first_class AS "flight.airplane.number_of_seats_first_class",
	a.number_of_seats_second_class AS "flight.airplane.number_of_seats_second_class"
	FROM bookings b
	JOIN users u ON u.id_user = b.id_user
	JOIN flights f ON f.id_flight = b.id_flight
	JOIN airplanes a ON a.id_airplane = f.id_airplane
	WHERE b.id_booking = $1`

// BookingRepository определяет методы для работы с бронированиями.
type BookingRepository interface {
	Store[models.Booking]
	// GetDetails возвращает бронирование вместе с пользователем и рейсом.
	GetDetails(ctx context.Context, id int64) (*models.BookingDetails, error)
}

type postgresBookingRepository struct {
	base[models.Booking]
}

// NewPostgresBookingRepository создает новый экземпляр репозитория бронирований.
func NewPostgresBookingRepository(db *sqlx.DB, logger *zap.Logger) BookingRepository {
	return &postgresBookingRepository{
		base: base[models.Booking]{
			db:     db,
			logger: logger.Named("bookings"),
			t: table[models.Booking]{
				name:      "bookings",
				selectSQL: "SELECT " + bookingColumns + " FROM bookings b",
				idColumn:  "b.id_booking",
				orderBy:   "b.number_booking",
				insertSQL: `INSERT INTO bookings (number_booking, seat_number, class_travel, id_user, id_flight)
					VALUES ($1, $2, $3, $4, $5) RETURNING id_booking`,
				updateSQL: `UPDATE bookings SET number_booking = $1, seat_number = $2, class_travel = $3,
					id_user = $4, id_flight = $5
					WHERE id_booking = $6`,
				deleteSQL: `DELETE FROM bookings WHERE id_booking = $1`,
				args: func(b *models.Booking) []any {
					return []any{b.NumberBooking, b.SeatNumber, b.ClassTravel, b.IDUser, b.IDFlight}
				},
			},
		},
	}
}

// GetDetails возвращает бронирование с пользователем и рейсом.
func (r *postgresBookingRepository) GetDetails(ctx context.Context, id int64) (*models.BookingDetails, error) {
	var details models.BookingDetails
	if err := r.db.GetContext(ctx, &details, bookingDetailsQuery, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, apperr.Wrap(apperr.KindNotFound, r.op("get_details"), ErrNotFound)
		}
		r.logger.Error("Ошибка чтения бронирования", zap.Int64("id", id), zap.Error(err))
		return nil, translateRead(r.op("get_details"), err)
	}
	return &details, nil
}

// Search ищет бронирования по подстроке номера.
func (r *postgresBookingRepository) Search(ctx context.Context, c criteria.Criterion) (*SearchResult[models.Booking], error) {
	if c.Key != criteria.KeyNumberBooking {
		return nil, r.unknownCriterion(c)
	}
	return r.search(ctx, c, "CAST(b.number_booking AS TEXT) LIKE $1", r.t.orderBy, likePattern(c.Value))
}

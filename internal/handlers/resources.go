package handlers

import (
	"context"

	"github.com/djaouedkh/airlineCompany/internal/services"
	"github.com/djaouedkh/airlineCompany/models"
	"go.uber.org/zap"
)

// NewUserHandler создает обработчик пользователей.
// Пароль и UUID не попадают в ответы; одиночный запрос дополняется API-ключом.
func NewUserHandler(s services.UserService, logger *zap.Logger) *ResourceHandler[models.User] {
	return NewResourceHandler[models.User](s, Labels{One: "Пользователь", Many: "пользователи"}, logger,
		WithGetter[models.User](func(ctx context.Context, id int64) (any, error) {
			return s.GetWithAPIKey(ctx, id)
		}),
		WithPresenter(func(u *models.User) any { return u.Public() }),
	)
}

// NewAirplaneHandler создает обработчик самолетов.
func NewAirplaneHandler(s services.AirplaneService, logger *zap.Logger) *ResourceHandler[models.Airplane] {
	return NewResourceHandler[models.Airplane](s, Labels{One: "Самолет", Many: "самолеты"}, logger)
}

// NewFlightHandler создает обработчик рейсов.
func NewFlightHandler(s services.FlightService, logger *zap.Logger) *ResourceHandler[models.Flight] {
	return NewResourceHandler[models.Flight](s, Labels{One: "Рейс", Many: "рейсы"}, logger)
}

// NewCityHandler создает обработчик городов.
func NewCityHandler(s services.CityService, logger *zap.Logger) *ResourceHandler[models.City] {
	return NewResourceHandler[models.City](s, Labels{One: "Город", Many: "города"}, logger)
}

// NewBookingHandler создает обработчик бронирований.
// Одиночный запрос возвращает бронирование вместе с пользователем и рейсом.
func NewBookingHandler(s services.BookingService, logger *zap.Logger) *ResourceHandler[models.Booking] {
	return NewResourceHandler[models.Booking](s, Labels{One: "Бронирование", Many: "бронирования"}, logger,
		WithGetter[models.Booking](func(ctx context.Context, id int64) (any, error) {
			return s.GetDetails(ctx, id)
		}),
	)
}

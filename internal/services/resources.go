package services

import (
	"context"

	"github.com/djaouedkh/airlineCompany/internal/criteria"
	"github.com/djaouedkh/airlineCompany/internal/repository"
	"github.com/djaouedkh/airlineCompany/models"
	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"
)

// AirplaneService определяет операции над самолетами.
type AirplaneService interface {
	Service[models.Airplane]
}

// NewAirplaneService создает сервис самолетов.
func NewAirplaneService(repo repository.AirplaneRepository, validate *validator.Validate, logger *zap.Logger) AirplaneService {
	return newCRUDService[models.Airplane](criteria.Airplanes, repo, validate, logger, hooks[models.Airplane]{})
}

// FlightService определяет операции над рейсами.
type FlightService interface {
	Service[models.Flight]
}

// NewFlightService создает сервис рейсов.
func NewFlightService(repo repository.FlightRepository, validate *validator.Validate, logger *zap.Logger) FlightService {
	return newCRUDService[models.Flight](criteria.Flights, repo, validate, logger, hooks[models.Flight]{})
}

// CityService определяет операции над городами.
type CityService interface {
	Service[models.City]
}

// NewCityService создает сервис городов.
func NewCityService(repo repository.CityRepository, validate *validator.Validate, logger *zap.Logger) CityService {
	return newCRUDService[models.City](criteria.Cities, repo, validate, logger, hooks[models.City]{})
}

// BookingService определяет операции над бронированиями.
type BookingService interface {
	Service[models.Booking]
	// GetDetails возвращает бронирование с пользователем и рейсом.
	GetDetails(ctx context.Context, id int64) (*models.BookingDetails, error)
}

type bookingService struct {
	*crudService[models.Booking]
	repo repository.BookingRepository
}

// NewBookingService создает сервис бронирований.
func NewBookingService(repo repository.BookingRepository, validate *validator.Validate, logger *zap.Logger) BookingService {
	return &bookingService{
		crudService: newCRUDService[models.Booking](criteria.Bookings, repo, validate, logger, hooks[models.Booking]{}),
		repo:        repo,
	}
}

// GetDetails возвращает бронирование с пользователем и рейсом.
func (s *bookingService) GetDetails(ctx context.Context, id int64) (*models.BookingDetails, error) {
	return s.repo.GetDetails(ctx, id)
}

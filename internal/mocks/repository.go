// Package mocks содержит моки репозиториев на основе testify/mock.
package mocks

import (
	"context"

	"github.com/djaouedkh/airlineCompany/internal/criteria"
	"github.com/djaouedkh/airlineCompany/internal/repository"
	"github.com/djaouedkh/airlineCompany/models"
	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"
)

// Store - мок repository.Store.
type Store[T any] struct {
	mock.Mock
}

func (m *Store[T]) Get(ctx context.Context, id int64) (*T, error) {
	args := m.MethodCalled("Get", ctx, id)
	return ptr[T](args.Get(0)), args.Error(1)
}

func (m *Store[T]) List(ctx context.Context) ([]T, error) {
	args := m.MethodCalled("List", ctx)
	rows, _ := args.Get(0).([]T)
	return rows, args.Error(1)
}

func (m *Store[T]) Search(ctx context.Context, c criteria.Criterion) (*repository.SearchResult[T], error) {
	args := m.MethodCalled("Search", ctx, c)
	return ptr[repository.SearchResult[T]](args.Get(0)), args.Error(1)
}

func (m *Store[T]) Create(ctx context.Context, entity *T) (*T, error) {
	args := m.MethodCalled("Create", ctx, entity)
	return ptr[T](args.Get(0)), args.Error(1)
}

func (m *Store[T]) Update(ctx context.Context, id int64, entity *T) (*T, error) {
	args := m.MethodCalled("Update", ctx, id, entity)
	return ptr[T](args.Get(0)), args.Error(1)
}

func (m *Store[T]) Delete(ctx context.Context, id int64) error {
	return m.MethodCalled("Delete", ctx, id).Error(0)
}

// UserRepository - мок repository.UserRepository.
type UserRepository struct {
	Store[models.User]
}

func (m *UserRepository) GetByUUID(ctx context.Context, id uuid.UUID) (*models.User, error) {
	args := m.MethodCalled("GetByUUID", ctx, id)
	return ptr[models.User](args.Get(0)), args.Error(1)
}

// BookingRepository - мок repository.BookingRepository.
type BookingRepository struct {
	Store[models.Booking]
}

func (m *BookingRepository) GetDetails(ctx context.Context, id int64) (*models.BookingDetails, error) {
	args := m.MethodCalled("GetDetails", ctx, id)
	return ptr[models.BookingDetails](args.Get(0)), args.Error(1)
}

// AirplaneRepository - мок repository.AirplaneRepository.
type AirplaneRepository struct {
	Store[models.Airplane]
}

func (m *AirplaneRepository) BusyAirplaneIDs(ctx context.Context, window models.AvailabilityWindow) ([]int64, error) {
	args := m.MethodCalled("BusyAirplaneIDs", ctx, window)
	ids, _ := args.Get(0).([]int64)
	return ids, args.Error(1)
}

var (
	_ repository.UserRepository     = (*UserRepository)(nil)
	_ repository.BookingRepository  = (*BookingRepository)(nil)
	_ repository.AirplaneRepository = (*AirplaneRepository)(nil)
	_ repository.FlightRepository   = (*Store[models.Flight])(nil)
	_ repository.CityRepository     = (*Store[models.City])(nil)
)

func ptr[T any](v any) *T {
	if v == nil {
		return nil
	}
	return v.(*T)
}

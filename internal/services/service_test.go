package services_test

import (
	"context"
	"encoding/json"
	"errors"
	"net/url"
	"testing"

	"github.com/djaouedkh/airlineCompany/internal/apikey"
	"github.com/djaouedkh/airlineCompany/internal/apperr"
	"github.com/djaouedkh/airlineCompany/internal/criteria"
	"github.com/djaouedkh/airlineCompany/internal/mocks"
	"github.com/djaouedkh/airlineCompany/internal/repository"
	"github.com/djaouedkh/airlineCompany/internal/services"
	"github.com/djaouedkh/airlineCompany/models"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
)

func notFound(op string) error {
	return apperr.Wrap(apperr.KindNotFound, op, repository.ErrNotFound)
}

func jsonPatch(body string) func(any) error {
	return func(target any) error { return json.Unmarshal([]byte(body), target) }
}

func TestAirplaneService_List(t *testing.T) {
	ctx := context.Background()
	all := []models.Airplane{{ID: 1, AirplaneNumber: 3, Brand: "Airbus"}, {ID: 2, AirplaneNumber: 30, Brand: "Boeing"}}

	tests := []struct {
		name          string
		query         url.Values
		mockSetup     func(repo *mocks.AirplaneRepository)
		wantCount     int
		wantCriterion string
	}{
		{
			name:  "Без критерия возвращается полный список",
			query: url.Values{"brand": {"Airbus"}},
			mockSetup: func(repo *mocks.AirplaneRepository) {
				repo.On("List", ctx).Return(all, nil).Once()
			},
			wantCount: 2,
		},
		{
			name:  "Критерий по номеру",
			query: url.Values{"airplaneNumber": {"3"}},
			mockSetup: func(repo *mocks.AirplaneRepository) {
				c := criteria.Criterion{Key: "airplaneNumber", Shape: criteria.ShapeLike, Value: "3"}
				repo.On("Search", ctx, c).
					Return(&repository.SearchResult[models.Airplane]{Count: 1, Rows: all[:1]}, nil).Once()
			},
			wantCount:     1,
			wantCriterion: "airplaneNumber",
		},
		{
			name:  "Окно доступности",
			query: url.Values{"datesBooking[departureDate]": {"2022-09-01"}, "datesBooking[arrivalDate]": {"2022-09-02"}},
			mockSetup: func(repo *mocks.AirplaneRepository) {
				repo.On("Search", ctx, mock.MatchedBy(func(c criteria.Criterion) bool {
					return c.Shape == criteria.ShapeAvailability &&
						c.Window.DepartureDate == "2022-09-01" && c.Window.ArrivalDate == "2022-09-02"
				})).Return(&repository.SearchResult[models.Airplane]{Count: 2, Rows: all}, nil).Once()
			},
			wantCount:     2,
			wantCriterion: "datesBooking",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo := new(mocks.AirplaneRepository)
			tt.mockSetup(repo)

			svc := services.NewAirplaneService(repo, services.NewValidator(), zap.NewNop())
			res, err := svc.List(ctx, tt.query)

			require.NoError(t, err)
			assert.Equal(t, tt.wantCount, res.Count)
			assert.Len(t, res.Rows, tt.wantCount)
			if tt.wantCriterion == "" {
				assert.Nil(t, res.Criterion)
			} else {
				require.NotNil(t, res.Criterion)
				assert.Equal(t, tt.wantCriterion, res.Criterion.Key)
			}
			repo.AssertExpectations(t)
		})
	}
}

func TestAirplaneService_Create(t *testing.T) {
	ctx := context.Background()

	t.Run("Успешное создание", func(t *testing.T) {
		repo := new(mocks.AirplaneRepository)
		in := &models.Airplane{AirplaneNumber: 3, Brand: "Airbus", NumberOfSeatsFirstClass: 10}
		repo.On("Create", ctx, in).Return(&models.Airplane{ID: 1, AirplaneNumber: 3, Brand: "Airbus"}, nil).Once()

		svc := services.NewAirplaneService(repo, services.NewValidator(), zap.NewNop())
		created, err := svc.Create(ctx, in)

		require.NoError(t, err)
		assert.Equal(t, int64(1), created.ID)
		repo.AssertExpectations(t)
	})

	t.Run("Ошибка валидации не доходит до хранилища", func(t *testing.T) {
		repo := new(mocks.AirplaneRepository)

		svc := services.NewAirplaneService(repo, services.NewValidator(), zap.NewNop())
		_, err := svc.Create(ctx, &models.Airplane{AirplaneNumber: -1})

		require.Error(t, err)
		assert.Equal(t, apperr.KindValidation, apperr.KindOf(err))
		fields := apperr.FieldsOf(err)
		names := make([]string, 0, len(fields))
		for _, f := range fields {
			names = append(names, f.Field)
		}
		assert.ElementsMatch(t, []string{"airplaneNumber", "brand"}, names)
		repo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
	})
}

func TestBookingService_UpdateAndDelete(t *testing.T) {
	ctx := context.Background()
	current := &models.Booking{ID: 4, NumberBooking: 1, SeatNumber: 2, ClassTravel: "first", IDUser: 1, IDFlight: 1}

	t.Run("Обновление несуществующей записи", func(t *testing.T) {
		repo := new(mocks.BookingRepository)
		repo.On("Get", ctx, int64(99)).Return(nil, notFound("bookings.get")).Once()

		svc := services.NewBookingService(repo, services.NewValidator(), zap.NewNop())
		_, err := svc.Update(ctx, 99, func(*models.Booking) error { return nil })

		assert.True(t, apperr.Is(err, apperr.KindNotFound))
		repo.AssertNotCalled(t, "Update", mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("Обновление сливает тело запроса с текущей записью", func(t *testing.T) {
		repo := new(mocks.BookingRepository)
		repo.On("Get", ctx, int64(4)).Return(current, nil).Once()
		repo.On("Update", ctx, int64(4), mock.MatchedBy(func(b *models.Booking) bool {
			return b.SeatNumber == 7 && b.ClassTravel == "first" && b.NumberBooking == 1
		})).Return(&models.Booking{ID: 4, NumberBooking: 1, SeatNumber: 7, ClassTravel: "first", IDUser: 1, IDFlight: 1}, nil).Once()

		svc := services.NewBookingService(repo, services.NewValidator(), zap.NewNop())
		patch := jsonPatch(`{"seatNumber": 7}`)
		updated, err := svc.Update(ctx, 4, func(b *models.Booking) error { return patch(b) })

		require.NoError(t, err)
		assert.Equal(t, 7, updated.SeatNumber)
		assert.Equal(t, 2, current.SeatNumber, "Текущая запись не должна изменяться")
		repo.AssertExpectations(t)
	})

	t.Run("Некорректное тело запроса", func(t *testing.T) {
		repo := new(mocks.BookingRepository)
		repo.On("Get", ctx, int64(4)).Return(current, nil).Once()

		svc := services.NewBookingService(repo, services.NewValidator(), zap.NewNop())
		patch := jsonPatch(`{"seatNumber": "abc"}`)
		_, err := svc.Update(ctx, 4, func(b *models.Booking) error { return patch(b) })

		assert.Equal(t, apperr.KindValidation, apperr.KindOf(err))
	})

	t.Run("Удаление несуществующей записи", func(t *testing.T) {
		repo := new(mocks.BookingRepository)
		repo.On("Get", ctx, int64(99)).Return(nil, notFound("bookings.get")).Once()

		svc := services.NewBookingService(repo, services.NewValidator(), zap.NewNop())
		deleted, err := svc.Delete(ctx, 99)

		assert.Nil(t, deleted)
		assert.True(t, apperr.Is(err, apperr.KindNotFound))
		repo.AssertNotCalled(t, "Delete", mock.Anything, mock.Anything)
	})

	t.Run("Удаление возвращает состояние до удаления", func(t *testing.T) {
		repo := new(mocks.BookingRepository)
		repo.On("Get", ctx, int64(4)).Return(current, nil).Once()
		repo.On("Delete", ctx, int64(4)).Return(nil).Once()

		svc := services.NewBookingService(repo, services.NewValidator(), zap.NewNop())
		deleted, err := svc.Delete(ctx, 4)

		require.NoError(t, err)
		assert.Equal(t, current, deleted)
		repo.AssertExpectations(t)
	})

	t.Run("Ошибка хранилища при удалении", func(t *testing.T) {
		repo := new(mocks.BookingRepository)
		repo.On("Get", ctx, int64(4)).Return(current, nil).Once()
		repo.On("Delete", ctx, int64(4)).
			Return(apperr.Wrap(apperr.KindStoreUnavailable, "bookings.delete", errors.New("connection reset"))).Once()

		svc := services.NewBookingService(repo, services.NewValidator(), zap.NewNop())
		_, err := svc.Delete(ctx, 4)

		assert.Equal(t, apperr.KindStoreUnavailable, apperr.KindOf(err))
	})
}

func TestUserService_Create(t *testing.T) {
	ctx := context.Background()

	t.Run("Пароль хешируется и выдается UUID", func(t *testing.T) {
		repo := new(mocks.UserRepository)
		repo.On("Create", ctx, mock.AnythingOfType("*models.User")).
			Return(&models.User{ID: 1, Username: "pikachu"}, nil).Once()

		svc := services.NewUserService(repo, services.NewValidator(), zap.NewNop())
		in := &models.User{
			Username:  "pikachu",
			Firstname: "Ash",
			Lastname:  "Ketchum",
			Age:       10,
			Address:   "Pallet",
			Password:  "secret",
		}
		_, err := svc.Create(ctx, in)

		require.NoError(t, err)
		require.NotEqual(t, "secret", in.Password)
		require.NoError(t, bcrypt.CompareHashAndPassword([]byte(in.Password), []byte("secret")))
		assert.NotEqual(t, uuid.Nil, in.UUID)
		repo.AssertExpectations(t)
	})

	t.Run("Короткое имя пользователя", func(t *testing.T) {
		repo := new(mocks.UserRepository)

		svc := services.NewUserService(repo, services.NewValidator(), zap.NewNop())
		_, err := svc.Create(ctx, &models.User{
			Username:  "ash",
			Firstname: "Ash",
			Lastname:  "Ketchum",
			Address:   "Pallet",
			Password:  "secret",
		})

		require.Error(t, err)
		assert.Equal(t, apperr.KindValidation, apperr.KindOf(err))
		fields := apperr.FieldsOf(err)
		require.Len(t, fields, 1)
		assert.Equal(t, "username", fields[0].Field)
		assert.Equal(t, "min", fields[0].Rule)
		repo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
	})
}

func TestUserService_Update(t *testing.T) {
	ctx := context.Background()
	hash, err := bcrypt.GenerateFromPassword([]byte("old"), bcrypt.MinCost)
	require.NoError(t, err)
	id := uuid.New()
	current := &models.User{
		ID: 1, Username: "pikachu", Firstname: "Ash", Lastname: "Ketchum",
		Address: "Pallet", Password: string(hash), UUID: id,
	}

	tests := []struct {
		name        string
		body        string
		newPassword string
	}{
		{name: "Пароль не меняется", body: `{"age": 11}`},
		{name: "Новый пароль хешируется", body: `{"password": "new"}`, newPassword: "new"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo := new(mocks.UserRepository)
			repo.On("Get", ctx, int64(1)).Return(current, nil).Once()

			var saved *models.User
			repo.On("Update", ctx, int64(1), mock.AnythingOfType("*models.User")).
				Run(func(args mock.Arguments) { saved = args.Get(2).(*models.User) }).
				Return(current, nil).Once()

			svc := services.NewUserService(repo, services.NewValidator(), zap.NewNop())
			patch := jsonPatch(tt.body)
			_, err := svc.Update(ctx, 1, func(u *models.User) error { return patch(u) })

			require.NoError(t, err)
			require.NotNil(t, saved)
			assert.Equal(t, id, saved.UUID, "UUID пользователя не меняется")
			if tt.newPassword == "" {
				assert.Equal(t, current.Password, saved.Password)
			} else {
				assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(saved.Password), []byte(tt.newPassword)))
			}
			repo.AssertExpectations(t)
		})
	}
}

func TestUserService_GetWithAPIKey(t *testing.T) {
	ctx := context.Background()
	id := uuid.MustParse("0b9ca335-92a8-46d8-b477-eb2ed83ac927")

	repo := new(mocks.UserRepository)
	repo.On("Get", ctx, int64(1)).
		Return(&models.User{ID: 1, Username: "pikachu", Password: "hash", UUID: id}, nil).Once()

	svc := services.NewUserService(repo, services.NewValidator(), zap.NewNop())
	got, err := svc.GetWithAPIKey(ctx, 1)

	require.NoError(t, err)
	assert.Equal(t, "05SS8SN-29AGHPR-2T7FTSE-3C3NJ97", got.APIKey)
	assert.Equal(t, apikey.Encode(id), got.APIKey)
	assert.Equal(t, "pikachu", got.Username)

	body, err := json.Marshal(got)
	require.NoError(t, err)
	assert.NotContains(t, string(body), "password")
	assert.NotContains(t, string(body), "hash")
}

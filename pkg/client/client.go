// Package client - HTTP-клиент API авиакомпании.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/djaouedkh/airlineCompany/models"
)

const (
	apiKeyHeader   = "x-api-key"
	defaultTimeout = 10 * time.Second
	maxErrorBody   = 64 << 10
)

// APIError - ответ сервера со статусом вне диапазона 2xx.
type APIError struct {
	Status  int
	Message string
}

// Error реализует интерфейс error.
func (e *APIError) Error() string {
	return fmt.Sprintf("ошибка API (статус %d): %s", e.Status, e.Message)
}

// Client определяет операции API, доступные клиенту.
type Client interface {
	// GetUser возвращает пользователя вместе с его API-ключом. Отсутствующий пользователь - nil без ошибки.
	GetUser(ctx context.Context, id int64) (*models.UserWithAPIKey, error)
	// CreateUser регистрирует пользователя.
	CreateUser(ctx context.Context, user models.User) (*models.PublicUser, error)
	// ListFlights возвращает рейсы по критерию из query (например, idAirplane).
	ListFlights(ctx context.Context, query url.Values) ([]models.Flight, error)
	// ListAvailableAirplanes возвращает самолеты, не занятые в указанные даты.
	ListAvailableAirplanes(ctx context.Context, window models.AvailabilityWindow) ([]models.Airplane, error)
	// DeleteBooking удаляет бронирование и возвращает его состояние до удаления.
	DeleteBooking(ctx context.Context, id int64) (*models.Booking, error)
}

// httpClient реализует Client поверх HTTP.
type httpClient struct {
	baseURL    string       // Базовый URL сервера, например "http://localhost:3000"
	apiKey     string       // Передается в заголовке x-api-key
	httpClient *http.Client // HTTP клиент для выполнения запросов
}

// Option настраивает клиент.
type Option func(*httpClient)

// WithHTTPClient заменяет HTTP-клиент (например, для TLS или тестов).
func WithHTTPClient(hc *http.Client) Option {
	return func(c *httpClient) { c.httpClient = hc }
}

// New создает клиент API. Ключ отправляется с каждым запросом.
func New(baseURL, apiKey string, opts ...Option) Client {
	c := &httpClient{
		baseURL:    baseURL,
		apiKey:     apiKey,
		httpClient: &http.Client{Timeout: defaultTimeout},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// envelope - общий формат ответа сервера.
type envelope struct {
	Message string          `json:"message"`
	Data    json.RawMessage `json:"data"`
}

func (c *httpClient) GetUser(ctx context.Context, id int64) (*models.UserWithAPIKey, error) {
	var user *models.UserWithAPIKey
	if err := c.do(ctx, http.MethodGet, "/api/users/"+strconv.FormatInt(id, 10), nil, nil, &user); err != nil {
		return nil, err
	}
	return user, nil
}

func (c *httpClient) CreateUser(ctx context.Context, user models.User) (*models.PublicUser, error) {
	var created models.PublicUser
	if err := c.do(ctx, http.MethodPost, "/api/users", nil, user, &created); err != nil {
		return nil, err
	}
	return &created, nil
}

func (c *httpClient) ListFlights(ctx context.Context, query url.Values) ([]models.Flight, error) {
	var flights []models.Flight
	if err := c.do(ctx, http.MethodGet, "/api/flights", query, nil, &flights); err != nil {
		return nil, err
	}
	return flights, nil
}

func (c *httpClient) ListAvailableAirplanes(
	ctx context.Context,
	window models.AvailabilityWindow,
) ([]models.Airplane, error) {
	query := url.Values{}
	if window.DepartureDate != "" {
		query.Set("datesBooking[departureDate]", window.DepartureDate)
	}
	if window.ArrivalDate != "" {
		query.Set("datesBooking[arrivalDate]", window.ArrivalDate)
	}

	var airplanes []models.Airplane
	if err := c.do(ctx, http.MethodGet, "/api/airplanes", query, nil, &airplanes); err != nil {
		return nil, err
	}
	return airplanes, nil
}

func (c *httpClient) DeleteBooking(ctx context.Context, id int64) (*models.Booking, error) {
	var booking models.Booking
	if err := c.do(ctx, http.MethodDelete, "/api/bookings/"+strconv.FormatInt(id, 10), nil, nil, &booking); err != nil {
		return nil, err
	}
	return &booking, nil
}

// do выполняет запрос и декодирует поле data ответа в out.
func (c *httpClient) do(ctx context.Context, method, path string, query url.Values, body, out any) error {
	endpoint, err := url.JoinPath(c.baseURL, path)
	if err != nil {
		return fmt.Errorf("ошибка формирования URL %s: %w", path, err)
	}
	if len(query) > 0 {
		endpoint += "?" + query.Encode()
	}

	var reader io.Reader
	if body != nil {
		jsonData, marshalErr := json.Marshal(body)
		if marshalErr != nil {
			return fmt.Errorf("ошибка кодирования тела запроса: %w", marshalErr)
		}
		reader = bytes.NewReader(jsonData)
	}

	req, err := http.NewRequestWithContext(ctx, method, endpoint, reader)
	if err != nil {
		return fmt.Errorf("ошибка создания запроса %s %s: %w", method, path, err)
	}
	req.Header.Set(apiKeyHeader, c.apiKey)
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("ошибка выполнения запроса %s %s: %w", method, path, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < http.StatusOK || resp.StatusCode >= http.StatusMultipleChoices {
		return readAPIError(resp)
	}

	var env envelope
	if err = json.NewDecoder(resp.Body).Decode(&env); err != nil {
		return fmt.Errorf("ошибка декодирования ответа %s %s: %w", method, path, err)
	}
	if len(env.Data) == 0 {
		return nil
	}
	if err = json.Unmarshal(env.Data, out); err != nil {
		return fmt.Errorf("ошибка декодирования данных ответа %s %s: %w", method, path, err)
	}
	return nil
}

// readAPIError извлекает сообщение из {message} или {error}; если тела нет, используется текст статуса.
func readAPIError(resp *http.Response) error {
	apiErr := &APIError{Status: resp.StatusCode}

	raw, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
	var body struct {
		Message string `json:"message"`
		Error   string `json:"error"`
	}
	if json.Unmarshal(raw, &body) == nil {
		apiErr.Message = body.Message
		if apiErr.Message == "" {
			apiErr.Message = body.Error
		}
	}
	if apiErr.Message == "" {
		apiErr.Message = http.StatusText(resp.StatusCode)
	}
	return apiErr
}

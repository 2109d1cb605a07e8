// Package criteria выбирает критерий фильтрации для списка ресурса по параметрам запроса.
//
// Для каждого ресурса задан упорядоченный список распознаваемых ключей. Учитывается
// только первый присутствующий ключ, остальные игнорируются. Значения не проверяются:
// некорректные значения передаются дальше в построитель запросов как есть.
package criteria

import (
	"net/url"
	"strings"

	"github.com/djaouedkh/airlineCompany/models"
)

// Resource - имя ресурса API.
type Resource string

// Ресурсы API.
const (
	Users     Resource = "users"
	Airplanes Resource = "airplanes"
	Flights   Resource = "flights"
	Bookings  Resource = "bookings"
	Cities    Resource = "cities"
)

// Shape определяет форму SQL-запроса для критерия.
type Shape int

const (
	// ShapeLike - поиск подстроки: значение оборачивается в %...%.
	ShapeLike Shape = iota + 1
	// ShapeEqual - точное совпадение поля самого ресурса.
	ShapeEqual
	// ShapeRelated - точное совпадение поля связанной сущности через JOIN.
	ShapeRelated
	// ShapeAvailability - дополнение к множеству самолетов, занятых в указанные даты.
	ShapeAvailability
)

// String возвращает имя формы.
func (s Shape) String() string {
	switch s {
	case ShapeLike:
		return "like"
	case ShapeEqual:
		return "equal"
	case ShapeRelated:
		return "related"
	case ShapeAvailability:
		return "availability"
	default:
		return "unknown"
	}
}

// Ключи критериев.
const (
	KeyUsername       = "username"
	KeyAge            = "age"
	KeyAirplaneNumber = "airplaneNumber"
	KeyDatesBooking   = "datesBooking"
	KeyIDFlight       = "idFlight"
	KeyFlightNumber   = "flightNumber"
	KeyIDAirplane     = "idAirplane"
	KeyNumberBooking  = "numberBooking"
	KeyPostalCode     = "postalCode"
)

// Вложенные ключи окна доступности: datesBooking[departureDate], datesBooking[arrivalDate].
const (
	windowDeparture = "departureDate"
	windowArrival   = "arrivalDate"
)

// Rule - распознаваемый ключ и форма запроса для него.
type Rule struct {
	Key   string
	Shape Shape
}

// rules - порядок объявления задает приоритет.
var rules = map[Resource][]Rule{
	Users: {
		{Key: KeyUsername, Shape: ShapeLike},
		{Key: KeyAge, Shape: ShapeEqual},
	},
	Airplanes: {
		{Key: KeyAirplaneNumber, Shape: ShapeLike},
		{Key: KeyDatesBooking, Shape: ShapeAvailability},
		{Key: KeyIDFlight, Shape: ShapeRelated},
	},
	Flights: {
		{Key: KeyFlightNumber, Shape: ShapeLike},
		{Key: KeyIDAirplane, Shape: ShapeRelated},
	},
	Bookings: {
		{Key: KeyNumberBooking, Shape: ShapeLike},
	},
	Cities: {
		{Key: KeyPostalCode, Shape: ShapeLike},
	},
}

// Rules возвращает копию списка правил ресурса в порядке приоритета.
func Rules(res Resource) []Rule {
	return append([]Rule(nil), rules[res]...)
}

// Criterion - выбранный критерий фильтрации.
type Criterion struct {
	Key    string
	Shape  Shape
	Value  string                     // Сырое значение для скалярных ключей
	Window *models.AvailabilityWindow // Заполняется только для ShapeAvailability
}

// String возвращает значение критерия для сообщений.
func (c Criterion) String() string {
	if c.Window != nil {
		return c.Window.DepartureDate + "/" + c.Window.ArrivalDate
	}
	return c.Value
}

// Resolve возвращает первый распознанный критерий ресурса.
// Второе значение false означает, что фильтр не задан и нужен полный список.
// Пустое значение параметра считается отсутствием параметра.
func Resolve(res Resource, query url.Values) (Criterion, bool) {
	for _, rule := range rules[res] {
		if rule.Shape == ShapeAvailability {
			if window, ok := lookupWindow(rule.Key, query); ok {
				return Criterion{Key: rule.Key, Shape: rule.Shape, Window: window}, true
			}
			continue
		}
		if value := query.Get(rule.Key); value != "" {
			return Criterion{Key: rule.Key, Shape: rule.Shape, Value: value}, true
		}
	}
	return Criterion{}, false
}

// lookupWindow собирает составное значение вида key[departureDate]=...&key[arrivalDate]=....
// Достаточно одной непустой части; недостающая часть остается пустой.
func lookupWindow(key string, query url.Values) (*models.AvailabilityWindow, bool) {
	window := &models.AvailabilityWindow{
		DepartureDate: query.Get(nestedKey(key, windowDeparture)),
		ArrivalDate:   query.Get(nestedKey(key, windowArrival)),
	}
	if window.DepartureDate == "" && window.ArrivalDate == "" {
		return nil, false
	}
	return window, true
}

func nestedKey(key, field string) string {
	var b strings.Builder
	b.Grow(len(key) + len(field) + 2)
	b.WriteString(key)
	b.WriteByte('[')
	b.WriteString(field)
	b.WriteByte(']')
	return b.String()
}

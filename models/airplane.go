package models

// Airplane - самолет авиакомпании.
type Airplane struct {
	ID                       int64  `db:"id_airplane" json:"idAirplane"`
	AirplaneNumber           int    `db:"airplane_number" json:"airplaneNumber" validate:"gte=0"`
	Brand                    string `db:"brand" json:"brand" validate:"required"`
	NumberOfSeatsFirstClass  int    `db:"number_of_seats_first_class" json:"numberOfSeatsFirstClass" validate:"gte=0"`
	NumberOfSeatsSecondClass int    `db:"number_of_seats_second_class" json:"numberOfSeatsSecondClass" validate:"gte=0"`
}

// AvailabilityWindow - пара дат для поиска свободных самолетов.
// Значения передаются в запрос как есть, без разбора.
type AvailabilityWindow struct {
	DepartureDate string `json:"departureDate"`
	ArrivalDate   string `json:"arrivalDate"`
}

package models

// Flight - рейс. Airplane заполняется при чтении из БД (JOIN с airplanes).
type Flight struct {
	ID                     int64     `db:"id_flight" json:"idFlight"`
	FlightNumber           int       `db:"flight_number" json:"flightNumber" validate:"gte=0"`
	DepartureDate          Date      `db:"departure_date" json:"departureDate"`
	DepartureTime          TimeOfDay `db:"departure_time" json:"departureTime"`
	ArrivalDate            Date      `db:"arrival_date" json:"arrivalDate"`
	ArrivalTime            TimeOfDay `db:"arrival_time" json:"arrivalTime"`
	PriceOfSeatFirstClass  int       `db:"price_of_seat_first_class" json:"priceOfSeatFirstClass" validate:"gte=0"`
	PriceOfSeatSecondClass int       `db:"price_of_seat_second_class" json:"priceOfSeatSecondClass" validate:"gte=0"`
	IDAirplane             int64     `db:"id_airplane" json:"idAirplane" validate:"required"`
	From                   int64     `db:"from_city" json:"from" validate:"required"`
	Destination            int64     `db:"destination" json:"destination" validate:"required"`
	Airplane               Airplane  `db:"airplane" json:"airplaneOfFlight" validate:"-"`
}

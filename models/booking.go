package models

// Booking - бронирование места на рейсе.
type Booking struct {
	ID            int64  `db:"id_booking" json:"idBooking"`
	NumberBooking int    `db:"number_booking" json:"numberBooking" validate:"gte=0"`
	SeatNumber    int    `db:"seat_number" json:"seatNumber" validate:"gte=0"`
	ClassTravel   string `db:"class_travel" json:"classTravel" validate:"required"`
	IDUser        int64  `db:"id_user" json:"idUser" validate:"required"`
	IDFlight      int64  `db:"id_flight" json:"idFlight" validate:"required"`
}

// BookingDetails - бронирование вместе с пользователем и рейсом.
type BookingDetails struct {
	Booking
	User   PublicUser `db:"user" json:"userOfBooking"`
	Flight Flight     `db:"flight" json:"flightOfBooking"`
}

package models

// City - город отправления или назначения.
type City struct {
	ID         int64  `db:"id_city" json:"idCity"`
	Name       string `db:"name" json:"name" validate:"required"`
	PostalCode int    `db:"postal_code" json:"postalCode" validate:"required"`
}

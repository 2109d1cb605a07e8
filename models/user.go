package models

import "github.com/google/uuid"

// User представляет пользователя системы.
// Тэги `db` используются для маппинга с полями БД с помощью sqlx.
// Тэги `json` используются для (де)сериализации JSON.
// Тэги `validate` проверяются сервисным слоем перед записью.
type User struct {
	ID        int64     `db:"id_user" json:"idUser"`
	Username  string    `db:"username" json:"username" validate:"required,min=4"`
	Firstname string    `db:"firstname" json:"firstname" validate:"required"`
	Lastname  string    `db:"lastname" json:"lastname" validate:"required"`
	Age       int       `db:"age" json:"age" validate:"gte=0"`
	Address   string    `db:"address" json:"address" validate:"required"`
	Password  string    `db:"password" json:"password" validate:"required"` // bcrypt-хеш после сохранения
	UUID      uuid.UUID `db:"uuid" json:"-"`                                 // Из него выводится API-ключ, клиенту не отдается
}

// PublicUser - представление пользователя без пароля и UUID.
type PublicUser struct {
	ID        int64  `db:"id_user" json:"idUser"`
	Username  string `db:"username" json:"username"`
	Firstname string `db:"firstname" json:"firstname"`
	Lastname  string `db:"lastname" json:"lastname"`
	Age       int    `db:"age" json:"age"`
	Address   string `db:"address" json:"address"`
}

// Public возвращает представление пользователя для ответов API.
func (u User) Public() PublicUser {
	return PublicUser{
		ID:        u.ID,
		Username:  u.Username,
		Firstname: u.Firstname,
		Lastname:  u.Lastname,
		Age:       u.Age,
		Address:   u.Address,
	}
}

// UserWithAPIKey - ответ на запрос одного пользователя: публичные поля и API-ключ.
type UserWithAPIKey struct {
	PublicUser
	APIKey string `json:"apiKey"`
}

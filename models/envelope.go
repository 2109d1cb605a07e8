package models

// Response - общий формат ответа API: сообщение и полезная нагрузка.
type Response struct {
	Message string `json:"message"`
	Data    any    `json:"data"`
}

// AuthErrorResponse - ответ при отказе в аутентификации.
type AuthErrorResponse struct {
	Error string `json:"error"`
}

package handlers

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"
)

// maxBodySize ограничивает размер тела запроса.
const maxBodySize = 1 << 20

// writeJSON сериализует v в тело ответа с указанным статусом.
func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	// Клиент уже получил статус, ошибку кодирования вернуть некуда
	_ = json.NewEncoder(w).Encode(v)
}

// readBody читает тело запроса целиком. Тело больше maxBodySize отклоняется.
func readBody(w http.ResponseWriter, r *http.Request) ([]byte, error) {
	body, err := io.ReadAll(http.MaxBytesReader(w, r.Body, maxBodySize))
	if err != nil {
		return nil, fmt.Errorf("ошибка чтения тела запроса: %w", err)
	}
	return body, nil
}

// NotFound отвечает 404 без тела на неизвестные маршруты.
func NotFound(w http.ResponseWriter, _ *http.Request) {
	w.WriteHeader(http.StatusNotFound)
}

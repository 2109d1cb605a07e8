package apikey_test

import (
	"testing"

	"github.com/djaouedkh/airlineCompany/internal/apikey"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEncode(t *testing.T) {
	tests := []struct {
		name string
		id   string
		key  string
	}{
		{
			name: "Пример",
			id:   "0b9ca335-92a8-46d8-b477-eb2ed83ac927",
			key:  "05SS8SN-29AGHPR-2T7FTSE-3C3NJ97",
		},
		{
			name: "Нулевой UUID",
			id:   "00000000-0000-0000-0000-000000000000",
			key:  "0000000-0000000-0000000-0000000",
		},
		{
			name: "Максимальный UUID",
			id:   "ffffffff-ffff-ffff-ffff-ffffffffffff",
			key:  "3ZZZZZZ-3ZZZZZZ-3ZZZZZZ-3ZZZZZZ",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			id := uuid.MustParse(tt.id)
			assert.Equal(t, tt.key, apikey.Encode(id))

			decoded, err := apikey.Decode(tt.key)
			require.NoError(t, err)
			assert.Equal(t, id, decoded)
		})
	}
}

func TestRoundTrip(t *testing.T) {
	for range 200 {
		id := uuid.New()
		key := apikey.Encode(id)
		require.True(t, apikey.IsAPIKey(key), "ключ %s должен быть валидным", key)

		decoded, err := apikey.Decode(key)
		require.NoError(t, err)
		require.Equal(t, id, decoded)
	}
}

func TestGenerate(t *testing.T) {
	id, key := apikey.Generate()
	assert.NotEqual(t, uuid.Nil, id)
	assert.Equal(t, apikey.Encode(id), key)
}

func TestDecodeMalformed(t *testing.T) {
	tests := []struct {
		name string
		key  string
	}{
		{name: "Пустая строка", key: ""},
		{name: "UUID вместо ключа", key: "0b9ca335-92a8-46d8-b477-eb2ed83ac927"},
		{name: "Строчные буквы", key: "05ss8sn-29aghpr-2t7ftse-3c3nj97"},
		{name: "Запрещенный символ I", key: "05SS8SI-29AGHPR-2T7FTSE-3C3NJ97"},
		{name: "Запрещенный символ U", key: "05SS8SU-29AGHPR-2T7FTSE-3C3NJ97"},
		{name: "Неверная группировка", key: "05SS8SN2-9AGHPR-2T7FTSE-3C3NJ97"},
		{name: "Пробел вместо дефиса", key: "05SS8SN 29AGHPR-2T7FTSE-3C3NJ97"},
		{name: "Слишком короткий", key: "05SS8SN-29AGHPR-2T7FTSE-3C3NJ9"},
		{name: "Слишком длинный", key: "05SS8SN-29AGHPR-2T7FTSE-3C3NJ977"},
		{name: "Группа больше 32 бит", key: "1EEA6DC-JAM4DP2-PHVYPBN-V0XCJ9X"},
		{name: "Не ASCII", key: "05SS8SN-29AGHPR-2T7FTSE-3C3NJ9é"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			id, err := apikey.Decode(tt.key)
			require.ErrorIs(t, err, apikey.ErrMalformedToken)
			assert.Equal(t, uuid.Nil, id)
			assert.False(t, apikey.IsAPIKey(tt.key))
		})
	}
}

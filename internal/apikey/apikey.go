// Package apikey преобразует UUID пользователя в API-ключ и обратно.
//
// Ключ имеет вид "1EEA6DC-JAM4DP2-PHVYPBN-V0XCJ9X": четыре группы по 7 символов
// алфавита Crockford base32. Каждая группа кодирует 32 бита UUID (8 hex-символов),
// поэтому преобразование взаимно однозначно и не требует хранения ключа.
package apikey

import (
	"errors"
	"strings"

	"github.com/google/uuid"
)

const (
	alphabet   = "0123456789ABCDEFGHJKMNPQRSTVWXYZ" // Crockford base32 без I, L, O, U
	groupCount = 4
	groupLen   = 7
	bitsPerSym = 5
	keyLen     = groupCount*groupLen + groupCount - 1 // 31 символ вместе с дефисами
)

// ErrMalformedToken возвращается, если строка не соответствует формату ключа.
var ErrMalformedToken = errors.New("неверный формат API-ключа")

// decodeTable отображает символ алфавита в его 5-битное значение, -1 для остальных.
var decodeTable = func() [256]int8 {
	var t [256]int8
	for i := range t {
		t[i] = -1
	}
	for i := range len(alphabet) {
		t[alphabet[i]] = int8(i)
	}
	return t
}()

// Encode возвращает API-ключ для UUID.
func Encode(id uuid.UUID) string {
	var b strings.Builder
	b.Grow(keyLen)
	for g := range groupCount {
		word := uint32(id[g*4])<<24 | uint32(id[g*4+1])<<16 | uint32(id[g*4+2])<<8 | uint32(id[g*4+3])
		if g > 0 {
			b.WriteByte('-')
		}
		var group [groupLen]byte
		for i := groupLen - 1; i >= 0; i-- {
			group[i] = alphabet[word&0x1f]
			word >>= bitsPerSym
		}
		b.Write(group[:])
	}
	return b.String()
}

// Decode восстанавливает UUID из API-ключа.
// Возвращает ErrMalformedToken, если ключ не соответствует формату.
func Decode(key string) (uuid.UUID, error) {
	var id uuid.UUID
	if len(key) != keyLen {
		return uuid.Nil, ErrMalformedToken
	}
	for g := range groupCount {
		start := g * (groupLen + 1)
		if g > 0 && key[start-1] != '-' {
			return uuid.Nil, ErrMalformedToken
		}
		var word uint64
		for i := range groupLen {
			v := decodeTable[key[start+i]]
			if v < 0 {
				return uuid.Nil, ErrMalformedToken
			}
			word = word<<bitsPerSym | uint64(v)
		}
		// 7 символов дают 35 бит, в группе допустимы только 32
		if word > 0xFFFFFFFF {
			return uuid.Nil, ErrMalformedToken
		}
		id[g*4] = byte(word >> 24)
		id[g*4+1] = byte(word >> 16)
		id[g*4+2] = byte(word >> 8)
		id[g*4+3] = byte(word)
	}
	return id, nil
}

// IsAPIKey проверяет только структуру ключа, не обращаясь к хранилищу.
func IsAPIKey(key string) bool {
	_, err := Decode(key)
	return err == nil
}

// Generate создает новый случайный UUID и соответствующий ему ключ.
func Generate() (uuid.UUID, string) {
	id := uuid.New()
	return id, Encode(id)
}

package models

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"time"
)

// Форматы даты и времени в API.
const (
	DateLayout      = "2006-01-02"
	TimeLayout      = "15:04:05"
	shortTimeLayout = "15:04"
)

// Date - календарная дата без времени (колонка DATE).
// Нулевое значение сериализуется как null и пишется в БД как NULL.
type Date struct {
	time.Time
}

// NewDate создает Date из строки формата 2006-01-02.
func NewDate(s string) (Date, error) {
	t, err := time.Parse(DateLayout, s)
	if err != nil {
		return Date{}, fmt.Errorf("неверный формат даты %q: %w", s, err)
	}
	return Date{Time: t}, nil
}

// MustDate - вариант NewDate для констант и тестов.
func MustDate(s string) Date {
	d, err := NewDate(s)
	if err != nil {
		panic(err)
	}
	return d
}

// String возвращает дату в формате 2006-01-02.
func (d Date) String() string {
	if d.IsZero() {
		return ""
	}
	return d.Format(DateLayout)
}

// MarshalJSON реализует json.Marshaler.
func (d Date) MarshalJSON() ([]byte, error) {
	if d.IsZero() {
		return []byte("null"), nil
	}
	return json.Marshal(d.Format(DateLayout))
}

// UnmarshalJSON реализует json.Unmarshaler.
func (d *Date) UnmarshalJSON(data []byte) error {
	var s *string
	if err := json.Unmarshal(data, &s); err != nil {
		return fmt.Errorf("дата должна быть строкой: %w", err)
	}
	if s == nil || *s == "" {
		*d = Date{}
		return nil
	}
	parsed, err := NewDate(*s)
	if err != nil {
		return err
	}
	*d = parsed
	return nil
}

// Scan реализует sql.Scanner.
func (d *Date) Scan(src any) error {
	switch v := src.(type) {
	case nil:
		*d = Date{}
	case time.Time:
		*d = Date{Time: v}
	case []byte:
		return d.scanString(string(v))
	case string:
		return d.scanString(v)
	default:
		return fmt.Errorf("неподдерживаемый тип для Date: %T", src)
	}
	return nil
}

func (d *Date) scanString(s string) error {
	if len(s) > len(DateLayout) {
		s = s[:len(DateLayout)]
	}
	parsed, err := NewDate(s)
	if err != nil {
		return err
	}
	*d = parsed
	return nil
}

// Value реализует driver.Valuer.
func (d Date) Value() (driver.Value, error) {
	if d.IsZero() {
		return nil, nil
	}
	return d.Format(DateLayout), nil
}

// TimeOfDay - время суток без даты (колонка TIME).
type TimeOfDay struct {
	time.Time
}

// NewTimeOfDay разбирает время в формате 15:04:05 или 15:04.
func NewTimeOfDay(s string) (TimeOfDay, error) {
	for _, layout := range []string{TimeLayout, shortTimeLayout} {
		if t, err := time.Parse(layout, s); err == nil {
			return TimeOfDay{Time: t}, nil
		}
	}
	return TimeOfDay{}, fmt.Errorf("неверный формат времени %q", s)
}

// String возвращает время в формате 15:04:05.
func (t TimeOfDay) String() string {
	if t.IsZero() {
		return ""
	}
	return t.Format(TimeLayout)
}

// MarshalJSON реализует json.Marshaler.
func (t TimeOfDay) MarshalJSON() ([]byte, error) {
	if t.IsZero() {
		return []byte("null"), nil
	}
	return json.Marshal(t.Format(TimeLayout))
}

// UnmarshalJSON реализует json.Unmarshaler.
func (t *TimeOfDay) UnmarshalJSON(data []byte) error {
	var s *string
	if err := json.Unmarshal(data, &s); err != nil {
		return fmt.Errorf("время должно быть строкой: %w", err)
	}
	if s == nil || *s == "" {
		*t = TimeOfDay{}
		return nil
	}
	parsed, err := NewTimeOfDay(*s)
	if err != nil {
		return err
	}
	*t = parsed
	return nil
}

// Scan реализует sql.Scanner. lib/pq отдает TIME как time.Time с нулевой датой.
func (t *TimeOfDay) Scan(src any) error {
	switch v := src.(type) {
	case nil:
		*t = TimeOfDay{}
	case time.Time:
		*t = TimeOfDay{Time: v}
	case []byte:
		return t.scanString(string(v))
	case string:
		return t.scanString(v)
	default:
		return fmt.Errorf("неподдерживаемый тип для TimeOfDay: %T", src)
	}
	return nil
}

func (t *TimeOfDay) scanString(s string) error {
	if len(s) > len(TimeLayout) {
		s = s[:len(TimeLayout)]
	}
	parsed, err := NewTimeOfDay(s)
	if err != nil {
		return err
	}
	*t = parsed
	return nil
}

// Value реализует driver.Valuer.
func (t TimeOfDay) Value() (driver.Value, error) {
	if t.IsZero() {
		return nil, nil
	}
	return t.Format(TimeLayout), nil
}

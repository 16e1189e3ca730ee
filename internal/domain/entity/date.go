package entity

import "time"

// DateLayout formato de fecha de calendario usado en la API.
const DateLayout = "2006-01-02"

// Day normaliza t a la medianoche UTC de su fecha de calendario.
func Day(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// ParseDay interpreta una fecha "YYYY-MM-DD".
func ParseDay(s string) (time.Time, error) {
	return time.Parse(DateLayout, s)
}

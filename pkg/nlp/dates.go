package nlp

import (
	"fmt"
	"time"
)

// The fact table encodes dates as numeric YYYYMMDD keys; users write
// dd/mm/yyyy. These helpers convert between the two without losing the
// calendar date.

// DateKey converts a time to the fact table's numeric YYYYMMDD encoding.
func DateKey(t time.Time) int {
	return t.Year()*10000 + int(t.Month())*100 + t.Day()
}

// ParseDateKey converts a numeric YYYYMMDD key back to a time (UTC midnight).
func ParseDateKey(key int) (time.Time, error) {
	year, month, day := key/10000, (key/100)%100, key%100
	if month < 1 || month > 12 || day < 1 || day > 31 {
		return time.Time{}, fmt.Errorf("invalid date key %d", key)
	}
	t := time.Date(year, time.Month(month), day, 0, 0, 0, 0, time.UTC)
	// time.Date normalizes overflow (e.g. 20230231); reject keys that moved.
	if DateKey(t) != key {
		return time.Time{}, fmt.Errorf("invalid date key %d", key)
	}
	return t, nil
}

// ParseUserDate parses a dd/mm/yyyy date as typed by users.
func ParseUserDate(s string) (time.Time, error) {
	t, err := time.Parse("02/01/2006", s)
	if err != nil {
		return time.Time{}, fmt.Errorf("parse date %q: %w", s, err)
	}
	return t, nil
}

// FormatUserDate renders a time as dd/mm/yyyy.
func FormatUserDate(t time.Time) string {
	return t.Format("02/01/2006")
}

// UserDateToKey converts dd/mm/yyyy to a YYYYMMDD key.
func UserDateToKey(s string) (int, error) {
	t, err := ParseUserDate(s)
	if err != nil {
		return 0, err
	}
	return DateKey(t), nil
}

// KeyToUserDate converts a YYYYMMDD key to dd/mm/yyyy.
func KeyToUserDate(key int) (string, error) {
	t, err := ParseDateKey(key)
	if err != nil {
		return "", err
	}
	return FormatUserDate(t), nil
}

// LastDaysRange returns the [from, to] date keys covering the n days up to
// and including now. Used for the "last 30 days" clarification default.
func LastDaysRange(now time.Time, n int) (from, to int) {
	return DateKey(now.AddDate(0, 0, -n+1)), DateKey(now)
}

// MonthRange returns the [from, to] date keys covering one calendar month.
func MonthRange(year int, month time.Month) (from, to int) {
	first := time.Date(year, month, 1, 0, 0, 0, 0, time.UTC)
	last := first.AddDate(0, 1, -1)
	return DateKey(first), DateKey(last)
}

// YearRange returns the [from, to] date keys covering one calendar year.
func YearRange(year int) (from, to int) {
	return year*10000 + 101, year*10000 + 1231
}

// Package academicyear holds the rules for "YYYY-YY" academic year labels.
package academicyear

import (
	"errors"
	"fmt"
	"regexp"
	"strconv"
	"time"
)

// ErrFormat is returned for labels that are not "YYYY-YY" with consecutive years.
var ErrFormat = errors.New("academic year must have the form YYYY-YY with consecutive years")

var pattern = regexp.MustCompile(`^\d{4}-\d{2}$`)

// Validate checks that s looks like "2024-25" and that 25 follows 2024.
func Validate(s string) error {
	if !pattern.MatchString(s) {
		return ErrFormat
	}
	first, _ := strconv.Atoi(s[:4])
	second, _ := strconv.Atoi(s[5:])
	if (first+1)%100 != second%100 {
		return ErrFormat
	}
	return nil
}

// Label formats the year that starts in first, e.g. 2024 -> "2024-25".
func Label(first int) string {
	return fmt.Sprintf("%04d-%02d", first, (first+1)%100)
}

// StartYear returns the first calendar year of a valid label.
func StartYear(s string) (int, error) {
	if err := Validate(s); err != nil {
		return 0, err
	}
	first, _ := strconv.Atoi(s[:4])
	return first, nil
}

// Next returns the label following s.
func Next(s string) (string, error) {
	first, err := StartYear(s)
	if err != nil {
		return "", err
	}
	return Label(first + 1), nil
}

// Default derives the academic year from a calendar date. The year rolls
// over on September 1.
func Default(now time.Time) string {
	first := now.Year()
	if now.Month() < time.September {
		first--
	}
	return Label(first)
}

// MonthName returns the Spanish month name used in reminder emails.
func MonthName(month int) string {
	if month < 1 || month > 12 {
		return ""
	}
	return monthNames[month-1]
}

var monthNames = [12]string{
	"Enero", "Febrero", "Marzo", "Abril", "Mayo", "Junio",
	"Julio", "Agosto", "Septiembre", "Octubre", "Noviembre", "Diciembre",
}

package dates

import (
	"fmt"
	"time"

	"github.com/tartampluch/go-lifestory/internal/config"
)

// IsLeapYear applies the Gregorian rule.
func IsLeapYear(year int) bool {
	return year%4 == 0 && (year%100 != 0 || year%400 == 0)
}

// DaysInMonth returns the number of days of month in year, or 0 for an invalid month.
func DaysInMonth(year, month int) int {
	switch month {
	case 1, 3, 5, 7, 8, 10, 12:
		return 31
	case 4, 6, 9, 11:
		return 30
	case 2:
		if IsLeapYear(year) {
			return 29
		}
		return 28
	default:
		return 0
	}
}

// MonthName returns the English month name, or "" when month is out of range.
func MonthName(month int) string {
	if month < 1 || month > 12 {
		return ""
	}
	return time.Month(month).String()
}

// FormatFullDate renders "June 9, 1988". The parts are not validated.
func FormatFullDate(year, month, day int) string {
	return fmt.Sprintf(config.FormatFullDate, MonthName(month), day, year)
}

// CalculateAge returns the age in whole years on today's calendar date.
// The age is one less while the anniversary is still ahead in today's year.
// A Feb 29 birthday turns over on Mar 1 in common years.
func CalculateAge(birthYear, birthMonth, birthDay int, today time.Time) int {
	age := today.Year() - birthYear
	month := int(today.Month())
	if month < birthMonth || (month == birthMonth && today.Day() < birthDay) {
		age--
	}
	return age
}

// Age is CalculateAge for a BirthDate.
func (bd BirthDate) Age(today time.Time) int {
	return CalculateAge(bd.Year, bd.Month, bd.Day, today)
}

package dates

import (
	"fmt"
	"regexp"
	"strconv"

	"github.com/tartampluch/go-lifestory/internal/config"
)

// isoPattern is the only accepted birth date shape.
var isoPattern = regexp.MustCompile(`^(\d{4})-(\d{2})-(\d{2})$`)

// BirthDate is a validated calendar date inside [config.MinYear, config.MaxYear].
// The zero value is not a valid birth date; build one with NewBirthDate or a parser.
type BirthDate struct {
	Year  int
	Month int
	Day   int
}

// ValidationError reports why a birth date was rejected.
type ValidationError struct {
	Input  string
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	if e.Input == "" {
		return fmt.Sprintf("invalid birth date: %s %s", e.Field, e.Reason)
	}
	return fmt.Sprintf("invalid birth date %q: %s %s", e.Input, e.Field, e.Reason)
}

// NewBirthDate validates the parts and returns a BirthDate.
func NewBirthDate(year, month, day int) (BirthDate, error) {
	switch {
	case year < config.MinYear || year > config.MaxYear:
		return BirthDate{}, &ValidationError{Field: "year", Reason: fmt.Sprintf("must be between %d and %d", config.MinYear, config.MaxYear)}
	case month < 1 || month > 12:
		return BirthDate{}, &ValidationError{Field: "month", Reason: "must be between 1 and 12"}
	case day < 1 || day > DaysInMonth(year, month):
		return BirthDate{}, &ValidationError{Field: "day", Reason: fmt.Sprintf("must be between 1 and %d", DaysInMonth(year, month))}
	}
	return BirthDate{Year: year, Month: month, Day: day}, nil
}

// ParseBirthDate parses a strict YYYY-MM-DD string.
// Rejections are returned as *ValidationError.
func ParseBirthDate(s string) (BirthDate, error) {
	m := isoPattern.FindStringSubmatch(s)
	if m == nil {
		return BirthDate{}, &ValidationError{Input: s, Field: "format", Reason: "must be YYYY-MM-DD"}
	}

	// The pattern guarantees digits, Atoi cannot fail.
	year, _ := strconv.Atoi(m[1])
	month, _ := strconv.Atoi(m[2])
	day, _ := strconv.Atoi(m[3])

	bd, err := NewBirthDate(year, month, day)
	if err != nil {
		err.(*ValidationError).Input = s
		return BirthDate{}, err
	}
	return bd, nil
}

// ParseISOBirthday is the lenient variant of ParseBirthDate: it reports
// failure with ok=false so callers can redirect or re-prompt.
func ParseISOBirthday(s string) (BirthDate, bool) {
	bd, err := ParseBirthDate(s)
	return bd, err == nil
}

// FormatBirthdayISO renders the zero-padded YYYY-MM-DD form.
func FormatBirthdayISO(bd BirthDate) string {
	return fmt.Sprintf(config.FormatISODate, bd.Year, bd.Month, bd.Day)
}

// String implements fmt.Stringer.
func (bd BirthDate) String() string {
	return FormatBirthdayISO(bd)
}

// MonthDayKey returns the MM-DD key used by birthday content.
func (bd BirthDate) MonthDayKey() string {
	return fmt.Sprintf(config.FormatMonthDay, bd.Month, bd.Day)
}

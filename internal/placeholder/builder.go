package placeholder

import (
	"fmt"
	"time"

	"github.com/tartampluch/go-lifestory/internal/config"
	"github.com/tartampluch/go-lifestory/internal/dates"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

// Map is the flat token -> value table. Values are int or string.
type Map map[string]any

// Lookup returns the string form of a token's value.
func (m Map) Lookup(token string) (string, bool) {
	v, ok := m[token]
	if !ok {
		return "", false
	}
	return fmt.Sprint(v), true
}

// Token names. Authored content embeds them literally, so they never change.
const (
	TokenBirthYear    = "BIRTH_YEAR"
	TokenBirthDate    = "BIRTH_DATE"
	TokenBirthMonth   = "BIRTH_MONTH"
	TokenBirthDay     = "BIRTH_DAY"
	TokenCurrentAge   = "CURRENT_AGE"
	TokenLifeStage    = "LIFE_STAGE"
	TokenCohortSize   = "COHORT_SIZE"
	TokenHSGradYear   = "HS_GRAD_YEAR"
	TokenCollegeGrad  = "COLLEGE_GRAD_YEAR"
	TokenWorkforce    = "WORKFORCE_ENTRY_YEAR"
	TokenChildStart   = "CHILDHOOD_START"
	TokenChildEnd     = "CHILDHOOD_END"
	TokenTeenStart    = "TEEN_START"
	TokenTeenEnd      = "TEEN_END"
	TokenTwentiesFrom = "TWENTIES_START"
	TokenTwentiesTo   = "TWENTIES_END"
	TokenThirtiesFrom = "THIRTIES_START"
	TokenThirtiesTo   = "THIRTIES_END"
	TokenFortiesFrom  = "FORTIES_START"
	TokenFortiesTo    = "FORTIES_END"
	TokenFiftiesFrom  = "FIFTIES_START"
	TokenFiftiesTo    = "FIFTIES_END"
	TokenSixtiesFrom  = "SIXTIES_START"

	PrefixAgeAt         = "AGE_AT_"
	PrefixAgeDescriptor = "AGE_DESCRIPTOR_"
	PrefixGradeAt       = "GRADE_AT_"
)

// Anchor is a historical event content can relate the subject's age to.
// Ages are computed from Year alone; Month and Day date the event on calendars.
type Anchor struct {
	Key   string
	Label string
	Year  int
	Month int
	Day   int
}

// Anchors produce AGE_AT_<Key>, AGE_DESCRIPTOR_<Key> and GRADE_AT_<Key>.
var Anchors = []Anchor{
	{Key: "911", Label: "9/11", Year: 2001, Month: 9, Day: 11},
	{Key: "FACEBOOK", Label: "Facebook launches", Year: 2004, Month: 2, Day: 4},
	{Key: "IPHONE", Label: "The iPhone goes on sale", Year: 2007, Month: 6, Day: 29},
	{Key: "2008", Label: "The 2008 financial crisis", Year: 2008, Month: 9, Day: 15},
	{Key: "COVID", Label: "COVID-19 is declared a pandemic", Year: 2020, Month: 3, Day: 11},
}

// eraOffsets are added to the birth year.
var eraOffsets = []struct {
	token  string
	offset int
}{
	{TokenChildStart, 0},
	{TokenChildEnd, 12},
	{TokenTeenStart, 13},
	{TokenTeenEnd, 19},
	{TokenTwentiesFrom, 20},
	{TokenTwentiesTo, 30},
	{TokenThirtiesFrom, 30},
	{TokenThirtiesTo, 40},
	{TokenFortiesFrom, 40},
	{TokenFortiesTo, 50},
	{TokenFiftiesFrom, 50},
	{TokenFiftiesTo, 60},
	{TokenSixtiesFrom, 60},
	{TokenHSGradYear, 18},
	{TokenCollegeGrad, 22},
	{TokenWorkforce, 22},
}

// Builder computes placeholder maps. The zero value renders English.
type Builder struct {
	// Localizer translates phrases; nil means English.
	Localizer Localizer
	// Language drives number formatting; the zero tag means English.
	Language language.Tag
}

// Build computes every token for bd as of today.
// cohortOverride replaces config.DefaultCohortSize when non-nil.
func (b Builder) Build(bd dates.BirthDate, cohortOverride *int64, today time.Time) Map {
	month := b.phrase(MonthName(bd.Month))
	m := Map{
		TokenBirthYear:  bd.Year,
		TokenBirthDate:  b.phrase(FullDate(bd.Year, month, bd.Day)),
		TokenBirthMonth: month,
		TokenBirthDay:   bd.Day,
	}

	age := bd.Age(today)
	m[TokenCurrentAge] = age
	m[TokenLifeStage] = b.phrase(LifeStage(age))

	for _, e := range eraOffsets {
		m[e.token] = bd.Year + e.offset
	}

	cohort := config.DefaultCohortSize
	if cohortOverride != nil {
		cohort = *cohortOverride
	}
	m[TokenCohortSize] = b.printer().Sprintf("%d", cohort)

	for _, a := range Anchors {
		// The raw difference keeps "not yet born" reachable for the phrases.
		raw := a.Year - bd.Year
		m[PrefixAgeAt+a.Key] = max(0, raw)
		m[PrefixAgeDescriptor+a.Key] = b.phrase(DescribeAge(raw))
		m[PrefixGradeAt+a.Key] = b.phrase(GradeLevel(raw))
	}

	return m
}

// BuildMap builds an English placeholder map.
func BuildMap(bd dates.BirthDate, cohortOverride *int64, today time.Time) Map {
	return Builder{}.Build(bd, cohortOverride, today)
}

func (b Builder) phrase(p Phrase) string {
	if b.Localizer != nil {
		if s := b.Localizer.Localize(p); s != "" {
			return s
		}
	}
	return p.String()
}

func (b Builder) printer() *message.Printer {
	tag := b.Language
	if tag == language.Und {
		tag = language.English
	}
	return message.NewPrinter(tag)
}

// Package content loads the authored documents a report is assembled from:
// one per birth year, one per generation and one per calendar day.
package content

import (
	"errors"
	"fmt"
	"strconv"

	"github.com/tartampluch/go-lifestory/internal/config"
)

// ErrNotFound is returned, wrapped, when a store has no document for a key.
var ErrNotFound = errors.New("content document not found")

// Kind names a document family. It doubles as the directory, URL segment
// and table discriminator used by the stores.
type Kind string

const (
	KindYear       Kind = config.DirYears
	KindGeneration Kind = config.DirGenerations
	KindBirthday   Kind = config.DirBirthdays
)

// Kinds lists every document family in import order.
func Kinds() []Kind {
	return []Kind{KindGeneration, KindYear, KindBirthday}
}

// YearKey is the store key of a year document.
func YearKey(year int) string {
	return strconv.Itoa(year)
}

// BirthdayKey is the store key of a birthday document, "MM-DD".
func BirthdayKey(month, day int) string {
	return fmt.Sprintf(config.FormatMonthDay, month, day)
}

// Section is an open, authored fragment. "html" is the only field the
// assembler relies on; everything else is carried through untouched.
type Section map[string]any

const sectionHTML = "html"

// HTML returns the section's html field, or "" when absent.
func (s Section) HTML() string {
	h, _ := s[sectionHTML].(string)
	return h
}

// Celebrity shares a birthday with the report subject.
type Celebrity struct {
	Name        string `json:"name" yaml:"name"`
	Year        int    `json:"year" yaml:"year"`
	Description string `json:"description" yaml:"description"`
}

// YearDocument holds the content specific to one birth year.
type YearDocument struct {
	Sections        map[string]Section `json:"sections" yaml:"sections"`
	YearEvents      []string           `json:"year_events,omitempty" yaml:"year_events,omitempty"`
	BirthYearCohort *int64             `json:"birth_year_cohort,omitempty" yaml:"birth_year_cohort,omitempty"`
}

// GenerationDocument holds content shared by a whole generation.
type GenerationDocument struct {
	Sections map[string]Section `json:"sections" yaml:"sections"`
}

// BirthdayDocument holds the statistics and celebrities of one month/day.
type BirthdayDocument struct {
	Rank                   int                    `json:"rank" yaml:"rank"`
	Percentile             int                    `json:"percentile" yaml:"percentile"`
	CelebritiesCategorized map[string][]Celebrity `json:"celebrities_categorized" yaml:"celebrities_categorized"`
}

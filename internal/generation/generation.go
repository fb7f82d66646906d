package generation

import (
	"fmt"

	"github.com/tartampluch/go-lifestory/internal/config"
)

// Generation identifiers. They double as generation content keys.
const (
	IDBoomer     = "boomer"
	IDGenX       = "genx"
	IDMillennial = "millennial"
	IDGenZ       = "genz"
)

// Record describes one birth-year cohort.
type Record struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	ShortName   string `json:"shortName"`
	Span        string `json:"span"`
	StartYear   int    `json:"startYear"`
	EndYear     int    `json:"endYear"`
	Description string `json:"description"`
}

// OutOfRangeError means Classify was handed a year outside the supported band.
// Callers validate birth dates first, so this is a programming error.
type OutOfRangeError struct {
	Year int
}

func (e *OutOfRangeError) Error() string {
	return fmt.Sprintf("generation: year %d outside %d-%d", e.Year, config.MinYear, config.MaxYear)
}

// catalog is contiguous over [config.MinYear, config.MaxYear] and sorted by StartYear.
var catalog = [...]Record{
	{
		ID:          IDBoomer,
		Name:        "Baby Boomer",
		ShortName:   "Boomer",
		Span:        "1946–1964",
		StartYear:   1946,
		EndYear:     1964,
		Description: "Born into the post-war boom, raised on television and the space race.",
	},
	{
		ID:          IDGenX,
		Name:        "Generation X",
		ShortName:   "Gen X",
		Span:        "1965–1980",
		StartYear:   1965,
		EndYear:     1980,
		Description: "Latchkey kids who came of age with MTV, personal computers and the end of the Cold War.",
	},
	{
		ID:          IDMillennial,
		Name:        "Millennial",
		ShortName:   "Millennial",
		Span:        "1981–1996",
		StartYear:   1981,
		EndYear:     1996,
		Description: "The first generation to grow up alongside the internet, shaped by 9/11 and the Great Recession.",
	},
	{
		ID:          IDGenZ,
		Name:        "Generation Z",
		ShortName:   "Gen Z",
		Span:        "1997–2012",
		StartYear:   1997,
		EndYear:     2012,
		Description: "Digital natives who never knew a world without smartphones and social media.",
	},
}

// Classify returns the generation a birth year belongs to.
func Classify(year int) (Record, error) {
	for _, r := range catalog {
		if year >= r.StartYear && year <= r.EndYear {
			return r, nil
		}
	}
	return Record{}, &OutOfRangeError{Year: year}
}

// MustClassify is Classify for years that were already validated.
func MustClassify(year int) Record {
	r, err := Classify(year)
	if err != nil {
		panic(err)
	}
	return r
}

// All returns a copy of the catalog in chronological order.
func All() []Record {
	out := make([]Record, len(catalog))
	copy(out, catalog[:])
	return out
}

// ByID looks a record up by identifier.
func ByID(id string) (Record, bool) {
	for _, r := range catalog {
		if r.ID == id {
			return r, true
		}
	}
	return Record{}, false
}

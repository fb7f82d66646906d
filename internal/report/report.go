// Package report assembles a life-story Report from a birth date.
package report

import (
	"cmp"
	"errors"
	"fmt"
	"maps"
	"slices"

	"github.com/tartampluch/go-lifestory/internal/content"
	"github.com/tartampluch/go-lifestory/internal/placeholder"
)

// Report is the fully resolved output for one birth date.
// It is never modified after Assemble returns it.
type Report struct {
	BirthDate              string                         `json:"birthDate"`
	BirthYear              int                            `json:"birthYear"`
	BirthMonth             int                            `json:"birthMonth"`
	BirthDay               int                            `json:"birthDay"`
	Generation             string                         `json:"generation"`
	GenerationID           string                         `json:"generationId"`
	GenerationSpan         string                         `json:"generationSpan"`
	BirthdayRank           int                            `json:"birthdayRank"`
	BirthdayPercentile     int                            `json:"birthdayPercentile"`
	Celebrities            []content.Celebrity            `json:"celebrities"`
	CelebritiesCategorized map[string][]content.Celebrity `json:"celebritiesCategorized"`
	Sections               map[string]content.Section     `json:"sections"`
	YearEvents             []string                       `json:"yearEvents"`
	Placeholders           placeholder.Map                `json:"placeholders"`

	// UnresolvedTokens lists, sorted and deduplicated, the tokens left
	// verbatim because the placeholder map has no value for them.
	UnresolvedTokens []string `json:"unresolvedTokens,omitempty"`
}

// ContentNotFoundError reports a document that is missing from a content
// store or could not be loaded from it. Err keeps the underlying cause.
// Assembly never substitutes empty content for it.
type ContentNotFoundError struct {
	Kind content.Kind
	Key  string
	Err  error
}

func (e *ContentNotFoundError) Error() string {
	if e.Err == nil || errors.Is(e.Err, content.ErrNotFound) {
		return fmt.Sprintf("report unavailable: no %s document for %q", e.Kind, e.Key)
	}
	return fmt.Sprintf("report unavailable: %s document %q failed to load: %v", e.Kind, e.Key, e.Err)
}

func (e *ContentNotFoundError) Unwrap() error {
	return e.Err
}

// MergeSections overlays override on base. Keys present in both take the
// override value. Neither input is modified.
func MergeSections(base, override map[string]content.Section) map[string]content.Section {
	out := make(map[string]content.Section, len(base)+len(override))
	maps.Copy(out, base)
	maps.Copy(out, override)
	return out
}

// FlattenCelebrities concatenates every category, visiting categories in
// name order, then stable-sorts the result by year so ties keep that order.
func FlattenCelebrities(categorized map[string][]content.Celebrity) []content.Celebrity {
	out := []content.Celebrity{}
	for _, category := range slices.Sorted(maps.Keys(categorized)) {
		out = append(out, categorized[category]...)
	}

	slices.SortStableFunc(out, func(a, b content.Celebrity) int {
		return cmp.Compare(a.Year, b.Year)
	})
	return out
}

func copyCategorized(in map[string][]content.Celebrity) map[string][]content.Celebrity {
	out := make(map[string][]content.Celebrity, len(in))
	for k, v := range in {
		out[k] = slices.Clone(v)
	}
	return out
}

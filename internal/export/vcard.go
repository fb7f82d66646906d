package export

import (
	"bytes"
	"cmp"
	"fmt"
	"maps"
	"slices"

	"github.com/emersion/go-vcard"
	"github.com/google/uuid"
	"github.com/tartampluch/go-lifestory/internal/config"
	"github.com/tartampluch/go-lifestory/internal/content"
	"github.com/tartampluch/go-lifestory/internal/report"
)

type twin struct {
	content.Celebrity
	Category string
}

// Celebrities encodes every birthday twin of r as a vCard 4.0, in the
// order of report.Celebrities. An empty list yields an empty body.
func Celebrities(r report.Report) ([]byte, error) {
	var buf bytes.Buffer
	enc := vcard.NewEncoder(&buf)

	for _, t := range twins(r.CelebritiesCategorized) {
		card := make(vcard.Card)
		card.SetValue(vcard.FieldFormattedName, t.Name)
		card.SetValue(vcard.FieldBirthday, birthday(t.Year, r.BirthMonth, r.BirthDay))
		card.SetValue(vcard.FieldCategories, t.Category)
		if t.Description != "" {
			card.SetValue(vcard.FieldNote, t.Description)
		}

		seed := fmt.Sprintf(config.FormatTwinUIDSeed, t.Category, t.Name, t.Year, r.BirthMonth, r.BirthDay)
		card.SetValue(vcard.FieldUID, config.VCardUIDPrefix+uuid.NewSHA1(uidNamespace, []byte(seed)).String())

		vcard.ToV4(card)
		if err := enc.Encode(card); err != nil {
			return nil, fmt.Errorf("%s: %w", config.ErrVCardEncode, err)
		}
	}

	return buf.Bytes(), nil
}

// twins mirrors report.FlattenCelebrities while keeping each category.
func twins(categorized map[string][]content.Celebrity) []twin {
	var out []twin
	for _, category := range slices.Sorted(maps.Keys(categorized)) {
		for _, c := range categorized[category] {
			out = append(out, twin{Celebrity: c, Category: category})
		}
	}
	slices.SortStableFunc(out, func(a, b twin) int {
		return cmp.Compare(a.Year, b.Year)
	})
	return out
}

func birthday(year, month, day int) string {
	if year <= 0 {
		return fmt.Sprintf(config.VCardBDayNoYear, month, day)
	}
	return fmt.Sprintf(config.VCardBDayFormat, year, month, day)
}

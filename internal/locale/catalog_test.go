package locale_test

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tartampluch/go-lifestory/internal/dates"
	"github.com/tartampluch/go-lifestory/internal/locale"
	"github.com/tartampluch/go-lifestory/internal/placeholder"
	"golang.org/x/text/language"
)

// TestLocaleIntegrity ensures every phrase ID exists in every locale file
// and that no locale file carries orphan keys.
func TestLocaleIntegrity(t *testing.T) {
	files, err := filepath.Glob(filepath.Join("locales", "active.*.json"))
	require.NoError(t, err)
	require.NotEmpty(t, files)

	ids := placeholder.MessageIDs()

	for _, path := range files {
		t.Run(filepath.Base(path), func(t *testing.T) {
			content, err := os.ReadFile(path)
			require.NoError(t, err)

			var messages map[string]string
			require.NoError(t, json.Unmarshal(content, &messages), "JSON must be valid")

			for _, id := range ids {
				assert.NotEmptyf(t, messages[id], "message %q missing", id)
			}
			assert.Len(t, messages, len(ids), "orphan keys present")
			assert.Contains(t, messages[placeholder.MsgYearsOld], "{{.Age}}")
		})
	}
}

func TestCatalog_Languages(t *testing.T) {
	c := locale.NewCatalog("en")
	assert.ElementsMatch(t, []string{"en", "fr"}, c.Languages())
}

func TestCatalog_English(t *testing.T) {
	c := locale.NewCatalog("en")

	assert.Equal(t, language.English, c.Tag())
	assert.Equal(t, "in middle school", c.Localize(placeholder.DescribeAge(12)))
	assert.Equal(t, "104 years old", c.Localize(placeholder.LifeStage(104)))
	assert.Equal(t, "in your seventies or beyond", c.Localize(placeholder.DescribeAge(104)))
	assert.Equal(t, "June", c.Localize(placeholder.MonthName(6)))
}

func TestCatalog_French(t *testing.T) {
	c := locale.NewCatalog("fr")

	assert.Equal(t, language.French, c.Tag())
	assert.Equal(t, "au collège", c.Localize(placeholder.DescribeAge(12)))
	assert.Equal(t, "104 ans", c.Localize(placeholder.LifeStage(104)))
	assert.Equal(t, "septuagénaire ou plus", c.Localize(placeholder.DescribeAge(104)))
	assert.Equal(t, "août", c.Localize(placeholder.MonthName(8)))
	assert.Equal(t, "9 juin 1988", c.Localize(placeholder.FullDate(1988, "juin", 9)))
	assert.Equal(t, "en CP", c.Localize(placeholder.GradeLevel(6)))
}

func TestCatalog_UnknownLanguageFallsBack(t *testing.T) {
	c := locale.NewCatalog("xx-invalid-")
	assert.Equal(t, language.English, c.Tag())

	c.Use("de")
	assert.Equal(t, language.English, c.Tag())
	assert.Equal(t, "a teenager", c.Localize(placeholder.LifeStage(15)))

	c.Use("")
	assert.Equal(t, language.English, c.Tag())
}

func TestCatalog_Builder(t *testing.T) {
	bd, err := dates.NewBirthDate(1988, 6, 9)
	require.NoError(t, err)
	today := time.Date(2024, 6, 9, 0, 0, 0, 0, time.UTC)

	en := locale.NewCatalog("en").Builder().Build(bd, nil, today)
	assert.Equal(t, placeholder.BuildMap(bd, nil, today), en)

	fr := locale.NewCatalog("fr").Builder().Build(bd, nil, today)
	assert.Equal(t, "au collège", fr["AGE_DESCRIPTOR_911"])
	assert.Equal(t, "juin", fr[placeholder.TokenBirthMonth])
	assert.Equal(t, "9 juin 1988", fr[placeholder.TokenBirthDate])
	assert.Equal(t, 36, fr[placeholder.TokenCurrentAge])
	assert.NotEqual(t, "3,900,000", fr[placeholder.TokenCohortSize])
}

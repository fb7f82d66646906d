package placeholder

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

// TestPhrases_Totality verifies the staged mappings render something for every age.
func TestPhrases_Totality(t *testing.T) {
	mappings := map[string]func(int) Phrase{
		"DescribeAge": DescribeAge,
		"GradeLevel":  GradeLevel,
		"LifeStage":   LifeStage,
	}

	for name, fn := range mappings {
		t.Run(name, func(t *testing.T) {
			for age := -5; age <= 130; age++ {
				var p Phrase
				assert.NotPanics(t, func() { p = fn(age) }, "age %d", age)
				assert.NotEmpty(t, p.String(), "age %d", age)
				_, known := defaultText[p.ID]
				assert.True(t, known, "age %d produced unknown message %q", age, p.ID)
			}
		})
	}
}

func TestDescribeAge(t *testing.T) {
	tests := []struct {
		age  int
		want string
	}{
		{-3, "not yet born"},
		{0, "a newborn"},
		{1, "a baby"},
		{2, "a toddler"},
		{3, "a toddler"},
		{4, "in preschool"},
		{6, "in elementary school"},
		{10, "in elementary school"},
		{11, "in middle school"},
		{13, "in middle school"},
		{14, "in high school"},
		{17, "in high school"},
		{18, "graduating high school"},
		{19, "in college"},
		{22, "in college"},
		{23, "in your twenties"},
		{35, "in your thirties"},
		{41, "in your forties"},
		{59, "in your fifties"},
		{60, "in your sixties"},
		{75, "in your seventies or beyond"},
		{99, "in your seventies or beyond"},
		{100, "in your seventies or beyond"},
		{130, "in your seventies or beyond"},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, DescribeAge(tt.age).String(), "age %d", tt.age)
	}
}

func TestGradeLevel(t *testing.T) {
	tests := []struct {
		age  int
		want string
	}{
		{-1, "not yet in school"},
		{4, "not yet in school"},
		{5, "kindergarten"},
		{6, "1st grade"},
		{7, "2nd grade"},
		{8, "3rd grade"},
		{13, "8th grade"},
		{14, "freshman year of high school"},
		{17, "senior year of high school"},
		{18, "freshman year of college"},
		{21, "senior year of college"},
		{22, "out of school"},
		{90, "out of school"},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, GradeLevel(tt.age).String(), "age %d", tt.age)
	}
}

func TestLifeStage(t *testing.T) {
	tests := []struct {
		age  int
		want string
	}{
		{-2, "not yet born"},
		{0, "a child"},
		{12, "a child"},
		{13, "a teenager"},
		{19, "a teenager"},
		{20, "in your early twenties"},
		{24, "in your early twenties"},
		{25, "in your late twenties"},
		{36, "in your late thirties"},
		{44, "in your early forties"},
		{79, "in your late seventies"},
		{80, "80 years old"},
		{130, "130 years old"},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, LifeStage(tt.age).String(), "age %d", tt.age)
	}
}

func TestPhrase_UnknownIDFallsBack(t *testing.T) {
	p := Phrase{ID: "no_such_message", Age: 42}
	assert.Equal(t, "42 years old", p.String())
}

func TestMessageIDs_MatchDefaults(t *testing.T) {
	ids := MessageIDs()
	assert.Len(t, ids, len(defaultText))
	assert.Contains(t, ids, MsgYearsOld)
	assert.Contains(t, ids, "grade_high_school_junior")
	assert.Contains(t, ids, "stage_late_sixties")
	assert.Contains(t, ids, "month_12")
	assert.Contains(t, ids, MsgFullDate)
}

func TestMonthName(t *testing.T) {
	assert.Equal(t, "January", MonthName(1).String())
	assert.Equal(t, "September", MonthName(9).String())
	assert.Equal(t, "December", MonthName(12).String())
}

func TestFullDate(t *testing.T) {
	assert.Equal(t, "June 9, 1988", FullDate(1988, "June", 9).String())
	assert.Equal(t, "December 31, 2012", FullDate(2012, MonthName(12).String(), 31).String())
}

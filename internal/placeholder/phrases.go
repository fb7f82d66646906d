package placeholder

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/tartampluch/go-lifestory/internal/dates"
)

// Phrase is a translatable message. ID selects the message, Age feeds the
// "{{.Age}}" field of age messages and Args the fields of date messages.
type Phrase struct {
	ID   string
	Age  int
	Args map[string]any
}

// Localizer renders phrases in a given language.
type Localizer interface {
	Localize(p Phrase) string
}

const ageField = "{{.Age}}"

// Template fields of the full date message.
const (
	ArgMonth = "Month"
	ArgDay   = "Day"
	ArgYear  = "Year"
)

// Message IDs shared with the locale files.
const (
	MsgYearsOld = "years_old"
	MsgFullDate = "full_date"

	MsgAgeNotYetBorn     = "age_not_yet_born"
	MsgAgeNewborn        = "age_newborn"
	MsgAgeBaby           = "age_baby"
	MsgAgeToddler        = "age_toddler"
	MsgAgePreschool      = "age_preschool"
	MsgAgeElementary     = "age_elementary"
	MsgAgeMiddleSchool   = "age_middle_school"
	MsgAgeHighSchool     = "age_high_school"
	MsgAgeGraduatingHS   = "age_graduating_high_school"
	MsgAgeCollege        = "age_college"
	MsgAgeTwenties       = "age_twenties"
	MsgAgeThirties       = "age_thirties"
	MsgAgeForties        = "age_forties"
	MsgAgeFifties        = "age_fifties"
	MsgAgeSixties        = "age_sixties"
	MsgAgeSeventiesPlus  = "age_seventies_plus"
	MsgGradeNotInSchool  = "grade_not_in_school"
	MsgGradeKindergarten = "grade_kindergarten"
	MsgGradeOutOfSchool  = "grade_out_of_school"
	MsgStageChild        = "stage_child"
	MsgStageTeen         = "stage_teen"
)

var decades = []string{"twenties", "thirties", "forties", "fifties", "sixties", "seventies"}

var gradeOrdinals = []string{"1st", "2nd", "3rd", "4th", "5th", "6th", "7th", "8th"}

var classYears = []string{"freshman", "sophomore", "junior", "senior"}

// defaultText holds the English message for every ID. It is the fallback
// when no Localizer is configured or a translation is missing.
var defaultText = buildDefaultText()

func buildDefaultText() map[string]string {
	m := map[string]string{
		MsgYearsOld:          ageField + " years old",
		MsgFullDate:          "{{.Month}} {{.Day}}, {{.Year}}",
		MsgAgeNotYetBorn:     "not yet born",
		MsgAgeNewborn:        "a newborn",
		MsgAgeBaby:           "a baby",
		MsgAgeToddler:        "a toddler",
		MsgAgePreschool:      "in preschool",
		MsgAgeElementary:     "in elementary school",
		MsgAgeMiddleSchool:   "in middle school",
		MsgAgeHighSchool:     "in high school",
		MsgAgeGraduatingHS:   "graduating high school",
		MsgAgeCollege:        "in college",
		MsgAgeTwenties:       "in your twenties",
		MsgAgeThirties:       "in your thirties",
		MsgAgeForties:        "in your forties",
		MsgAgeFifties:        "in your fifties",
		MsgAgeSixties:        "in your sixties",
		MsgAgeSeventiesPlus:  "in your seventies or beyond",
		MsgGradeNotInSchool:  "not yet in school",
		MsgGradeKindergarten: "kindergarten",
		MsgGradeOutOfSchool:  "out of school",
		MsgStageChild:        "a child",
		MsgStageTeen:         "a teenager",
	}
	for i, ord := range gradeOrdinals {
		m[gradeID(i+1)] = ord + " grade"
	}
	for i, year := range classYears {
		m[highSchoolID(i)] = year + " year of high school"
		m[collegeID(i)] = year + " year of college"
	}
	for _, d := range decades {
		m[earlyStageID(d)] = "in your early " + d
		m[lateStageID(d)] = "in your late " + d
	}
	for month := 1; month <= 12; month++ {
		m[monthID(month)] = dates.MonthName(month)
	}
	return m
}

func gradeID(n int) string { return "grade_" + strconv.Itoa(n) }
func highSchoolID(i int) string { return "grade_high_school_" + classYears[i] }
func collegeID(i int) string { return "grade_college_" + classYears[i] }
func earlyStageID(d string) string { return "stage_early_" + d }
func lateStageID(d string) string { return "stage_late_" + d }
func monthID(month int) string { return "month_" + strconv.Itoa(month) }

// MessageIDs lists every phrase ID, for locale integrity checks.
func MessageIDs() []string {
	ids := make([]string, 0, len(defaultText))
	for id := range defaultText {
		ids = append(ids, id)
	}
	return ids
}

// Template returns the English message template of the phrase.
func (p Phrase) Template() string {
	if t, ok := defaultText[p.ID]; ok {
		return t
	}
	return defaultText[MsgYearsOld]
}

// String renders the phrase in English.
func (p Phrase) String() string {
	s := strings.ReplaceAll(p.Template(), ageField, strconv.Itoa(p.Age))
	for k, v := range p.Args {
		s = strings.ReplaceAll(s, "{{."+k+"}}", fmt.Sprint(v))
	}
	return s
}

// MonthName names a calendar month (1 = January).
func MonthName(month int) Phrase {
	return Phrase{ID: monthID(month)}
}

// FullDate renders a birth date; month is the already localized month name.
func FullDate(year int, month string, day int) Phrase {
	return Phrase{ID: MsgFullDate, Args: map[string]any{
		ArgMonth: month,
		ArgDay:   day,
		ArgYear:  year,
	}}
}

func yearsOld(age int) Phrase {
	return Phrase{ID: MsgYearsOld, Age: age}
}

// DescribeAge maps an age in years to a short description.
// Every integer maps to a phrase.
func DescribeAge(age int) Phrase {
	id := ""
	switch {
	case age < 0:
		id = MsgAgeNotYetBorn
	case age == 0:
		id = MsgAgeNewborn
	case age == 1:
		id = MsgAgeBaby
	case age <= 3:
		id = MsgAgeToddler
	case age <= 5:
		id = MsgAgePreschool
	case age <= 10:
		id = MsgAgeElementary
	case age <= 13:
		id = MsgAgeMiddleSchool
	case age <= 17:
		id = MsgAgeHighSchool
	case age == 18:
		id = MsgAgeGraduatingHS
	case age <= 22:
		id = MsgAgeCollege
	case age <= 29:
		id = MsgAgeTwenties
	case age <= 39:
		id = MsgAgeThirties
	case age <= 49:
		id = MsgAgeForties
	case age <= 59:
		id = MsgAgeFifties
	case age <= 69:
		id = MsgAgeSixties
	default:
		id = MsgAgeSeventiesPlus
	}
	return Phrase{ID: id, Age: age}
}

// GradeLevel maps an age to the US school year a child of that age is in.
func GradeLevel(age int) Phrase {
	switch {
	case age < 5:
		return Phrase{ID: MsgGradeNotInSchool, Age: age}
	case age == 5:
		return Phrase{ID: MsgGradeKindergarten, Age: age}
	case age <= 13:
		return Phrase{ID: gradeID(age - 5), Age: age}
	case age <= 17:
		return Phrase{ID: highSchoolID(age - 14), Age: age}
	case age <= 21:
		return Phrase{ID: collegeID(age - 18), Age: age}
	default:
		return Phrase{ID: MsgGradeOutOfSchool, Age: age}
	}
}

// LifeStage describes the current age in half-decade buckets.
func LifeStage(age int) Phrase {
	switch {
	case age < 0:
		return Phrase{ID: MsgAgeNotYetBorn, Age: age}
	case age <= 12:
		return Phrase{ID: MsgStageChild, Age: age}
	case age <= 19:
		return Phrase{ID: MsgStageTeen, Age: age}
	}

	idx := age/10 - 2
	if idx >= len(decades) {
		return yearsOld(age)
	}
	if age%10 < 5 {
		return Phrase{ID: earlyStageID(decades[idx]), Age: age}
	}
	return Phrase{ID: lateStageID(decades[idx]), Age: age}
}

// Package export renders reports into interchange formats: an iCalendar
// feed of life milestones and vCards of birthday twins.
package export

import (
	"bytes"
	"fmt"
	"slices"
	"strings"
	"time"

	"github.com/emersion/go-ical"
	"github.com/google/uuid"
	"github.com/tartampluch/go-lifestory/internal/config"
	"github.com/tartampluch/go-lifestory/internal/dates"
	"github.com/tartampluch/go-lifestory/internal/placeholder"
	"github.com/tartampluch/go-lifestory/internal/report"
)

// uidNamespace scopes every export UID, so the same report always yields
// the same identifiers.
var uidNamespace = uuid.NewSHA1(uuid.NameSpaceURL, []byte(config.UIDNamespace))

// Milestone is one dated entry of the life calendar.
type Milestone struct {
	Key     string
	Summary string
	Date    time.Time
}

// Milestones lists the dated life events of r, from birth up to
// config.MaxMilestoneYear, in chronological order.
func Milestones(r report.Report) []Milestone {
	var out []Milestone
	born := dateOn(r.BirthYear, r.BirthMonth, r.BirthDay)
	add := func(key, summary string, year, month, day int) {
		date := dateOn(year, month, day)
		if date.Before(born) || year > config.MaxMilestoneYear {
			return
		}
		out = append(out, Milestone{Key: key, Summary: summary, Date: date})
	}

	add("born", fmt.Sprintf(config.SummaryBorn, r.BirthDate), r.BirthYear, r.BirthMonth, r.BirthDay)

	for age := config.MilestoneDecadeStep; age <= config.MilestoneMaxDecadeAge; age += config.MilestoneDecadeStep {
		add(fmt.Sprintf("turns-%d", age), fmt.Sprintf(config.SummaryTurns, age), r.BirthYear+age, r.BirthMonth, r.BirthDay)
	}

	if y, ok := intToken(r.Placeholders, placeholder.TokenHSGradYear); ok {
		add("hs-graduation", fmt.Sprintf(config.SummaryHSGraduation, y), y, config.GraduationMonth, config.GraduationDay)
	}
	if y, ok := intToken(r.Placeholders, placeholder.TokenCollegeGrad); ok {
		add("college-graduation", config.SummaryCollegeGrad, y, config.GraduationMonth, config.GraduationDay)
	}
	if y, ok := intToken(r.Placeholders, placeholder.TokenWorkforce); ok {
		add("workforce", config.SummaryWorkforce, y, config.WorkforceMonth, config.WorkforceDay)
	}

	for _, a := range placeholder.Anchors {
		add("anchor-"+strings.ToLower(a.Key), fmt.Sprintf(config.SummaryAnchor, a.Label, a.Year-r.BirthYear), a.Year, a.Month, a.Day)
	}

	slices.SortStableFunc(out, func(a, b Milestone) int {
		return a.Date.Compare(b.Date)
	})
	return out
}

// Calendar encodes r as an iCalendar feed: a yearly recurring birthday
// plus one all-day event per milestone. now stamps every event.
func Calendar(r report.Report, now time.Time) ([]byte, error) {
	cal := ical.NewCalendar()
	cal.Props.SetText(config.PropVersion, config.ICalVersion)
	cal.Props.SetText(config.PropProdid, config.ICalProdid)
	cal.Props.SetText(config.PropXWRCalName, config.ICalCalName)
	cal.Props.SetText(config.PropCalScale, config.ICalScale)
	cal.Props.SetText(config.PropMethod, config.ICalMethod)

	dtStamp := ical.NewProp(config.PropDTStamp)
	dtStamp.SetDateTime(now.UTC())

	birthISO := fmt.Sprintf(config.FormatISODate, r.BirthYear, r.BirthMonth, r.BirthDay)

	birthday := newEvent(eventUID(birthISO, "birthday"), config.SummaryBirthday, dateOn(r.BirthYear, r.BirthMonth, r.BirthDay))
	// Set the rule manually to avoid a "VALUE=TEXT" param.
	rrule := ical.NewProp(config.PropRRule)
	rrule.Value = config.ICalYearly
	birthday.Props.Set(rrule)
	birthday.Props.Set(dtStamp)
	cal.Children = append(cal.Children, birthday.Component)

	for _, m := range Milestones(r) {
		e := newEvent(eventUID(birthISO, m.Key), m.Summary, m.Date)
		e.Props.SetText(config.PropCategories, config.MilestoneCategory)
		e.Props.Set(dtStamp)
		cal.Children = append(cal.Children, e.Component)
	}

	var buf bytes.Buffer
	if err := ical.NewEncoder(&buf).Encode(cal); err != nil {
		return nil, fmt.Errorf("%s: %w", config.ErrICalEncode, err)
	}
	return buf.Bytes(), nil
}

func newEvent(uid, summary string, date time.Time) *ical.Event {
	e := ical.NewEvent()
	e.Props.SetText(config.PropUID, uid)
	e.Props.SetText(config.PropSummary, summary)

	start := ical.NewProp(config.PropDTStart)
	start.SetDate(date)
	e.Props.Set(start)
	return e
}

func eventUID(birthISO, key string) string {
	id := uuid.NewSHA1(uidNamespace, []byte(fmt.Sprintf(config.FormatMilestoneUIDSeed, birthISO, key)))
	return fmt.Sprintf(config.FormatEventID, id, config.ICalDomain)
}

// dateOn clamps day into the month, so a February 29 birthday lands on
// February 28 in common years.
func dateOn(year, month, day int) time.Time {
	day = min(day, dates.DaysInMonth(year, month))
	return time.Date(year, time.Month(month), day, 0, 0, 0, 0, time.UTC)
}

// intToken reads a numeric placeholder; decoded JSON reports carry float64.
func intToken(m placeholder.Map, token string) (int, bool) {
	switch v := m[token].(type) {
	case int:
		return v, true
	case float64:
		return int(v), true
	default:
		return 0, false
	}
}

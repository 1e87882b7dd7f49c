package domain

import (
	"fmt"
	"time"

	"github.com/robfig/cron/v3"
)

// WorkingDay is a single weekday's working-hours window, e.g. Monday
// 07:00-15:30.
type WorkingDay struct {
	Weekday   time.Weekday `json:"weekday"`
	StartHour int          `json:"start_hour"` // minutes-of-day, 0..1439
	EndHour   int          `json:"end_hour"`
}

// Holiday is a full-day blackout, optionally recurring via a cron
// expression (e.g. "0 0 25 12 *" for every Dec 25th) instead of a fixed
// date.
type Holiday struct {
	Date     *time.Time `json:"date,omitempty"`
	CronRule string     `json:"cron_rule,omitempty"`
	Reason   string     `json:"reason,omitempty"`
}

// SpecialWorkingDay overrides an otherwise non-working day (e.g. a weekend
// called in for an AOG recovery) to be treated as working.
type SpecialWorkingDay struct {
	Date      time.Time `json:"date"`
	StartHour int       `json:"start_hour"`
	EndHour   int       `json:"end_hour"`
}

// Calendar is a resource's coarse working-hour model: one window per
// weekday, full-day holidays, and day-level overrides. Transport between
// bays and sub-day shift handoffs are not modeled.
type Calendar struct {
	WorkingDays        []WorkingDay        `json:"working_days,omitempty"`
	Holidays           []Holiday           `json:"holidays,omitempty"`
	SpecialWorkingDays []SpecialWorkingDay `json:"special_working_days,omitempty"`

	parser cron.Parser
}

var standardCronParser = cron.NewParser(cron.Minute | cron.Hour | cron.Dom | cron.Month | cron.Dow)

// IsWorkingInstant reports whether t falls inside a working window,
// accounting for holidays (which blackout the whole day) and special
// working days (which override a normally-closed day).
func (c *Calendar) IsWorkingInstant(t time.Time) (bool, error) {
	if c == nil {
		return true, nil
	}
	dayStart := time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
	isHoliday, err := c.isHoliday(t)
	if err != nil {
		return false, err
	}
	if isHoliday {
		return false, nil
	}
	for _, sd := range c.SpecialWorkingDays {
		if sameDay(sd.Date, t) {
			minuteOfDay := int(t.Sub(dayStart).Minutes())
			return minuteOfDay >= sd.StartHour && minuteOfDay < sd.EndHour, nil
		}
	}
	for _, wd := range c.WorkingDays {
		if wd.Weekday == t.Weekday() {
			minuteOfDay := int(t.Sub(dayStart).Minutes())
			if minuteOfDay >= wd.StartHour && minuteOfDay < wd.EndHour {
				return true, nil
			}
		}
	}
	return false, nil
}

func (c *Calendar) isHoliday(t time.Time) (bool, error) {
	for _, h := range c.Holidays {
		if h.Date != nil && sameDay(*h.Date, t) {
			return true, nil
		}
		if h.CronRule != "" {
			sched, err := standardCronParser.Parse(h.CronRule)
			if err != nil {
				return false, fmt.Errorf("calendar: invalid holiday cron rule %q: %w", h.CronRule, err)
			}
			dayStart := time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
			next := sched.Next(dayStart.Add(-time.Minute))
			if sameDay(next, t) {
				return true, nil
			}
		}
	}
	return false, nil
}

func sameDay(a, b time.Time) bool {
	ay, am, ad := a.Date()
	by, bm, bd := b.Date()
	return ay == by && am == bm && ad == bd
}

// BusinessHoursBetween approximates the available working hours in
// [from, to) using an 8-hour-per-business-day heuristic when a calendar is
// present; without a calendar it returns the raw wall-clock difference.
func (c *Calendar) BusinessHoursBetween(from, to time.Time) float64 {
	if to.Before(from) {
		return 0
	}
	if c == nil || len(c.WorkingDays) == 0 {
		return to.Sub(from).Hours()
	}
	days := 0.0
	for cursor := from; cursor.Before(to); cursor = cursor.AddDate(0, 0, 1) {
		working, err := c.IsWorkingInstant(time.Date(cursor.Year(), cursor.Month(), cursor.Day(), 12, 0, 0, 0, cursor.Location()))
		if err == nil && working {
			days++
		}
	}
	return days * 8.0
}

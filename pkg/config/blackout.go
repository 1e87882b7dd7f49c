package config

import (
	"fmt"
	"time"

	"github.com/robfig/cron/v3"
)

var standardCronParser = cron.NewParser(cron.Minute | cron.Hour | cron.Dom | cron.Month | cron.Dow)

// Window is one concrete occurrence of a BlackoutPeriod within a horizon.
type Window struct {
	Name  string
	Start time.Time
	End   time.Time
}

// ExpandBlackoutPeriods walks every given blackout period's cron rule
// forward from from, emitting one Window per occurrence up to (but not
// including) to.
func ExpandBlackoutPeriods(periods []BlackoutPeriod, from, to time.Time) ([]Window, error) {
	var out []Window
	for _, bp := range periods {
		sched, err := standardCronParser.Parse(bp.CronRule)
		if err != nil {
			return nil, fmt.Errorf("config: blackout period %q: invalid cron_rule: %w", bp.Name, err)
		}
		duration := time.Duration(bp.DurationMinutes) * time.Minute
		for cursor := sched.Next(from.Add(-time.Minute)); cursor.Before(to); cursor = sched.Next(cursor) {
			out = append(out, Window{Name: bp.Name, Start: cursor, End: cursor.Add(duration)})
		}
	}
	return out, nil
}

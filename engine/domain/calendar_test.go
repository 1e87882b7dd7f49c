package domain_test

import (
	"testing"
	"time"

	"github.com/aeroqec/qecsched/engine/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCalendar_IsWorkingInstant(t *testing.T) {
	cal := &domain.Calendar{
		WorkingDays: []domain.WorkingDay{
			{Weekday: time.Monday, StartHour: 7 * 60, EndHour: 15*60 + 30},
		},
	}
	monday := time.Date(2026, 2, 2, 8, 0, 0, 0, time.UTC) // a Monday
	t.Run("Should report working inside the configured window", func(t *testing.T) {
		working, err := cal.IsWorkingInstant(monday)
		require.NoError(t, err)
		assert.True(t, working)
	})
	t.Run("Should report non-working outside the configured window", func(t *testing.T) {
		working, err := cal.IsWorkingInstant(monday.Add(10 * time.Hour))
		require.NoError(t, err)
		assert.False(t, working)
	})
	t.Run("Should report non-working on a day with no working-day entry", func(t *testing.T) {
		tuesday := monday.Add(24 * time.Hour)
		working, err := cal.IsWorkingInstant(tuesday)
		require.NoError(t, err)
		assert.False(t, working)
	})
	t.Run("Should blackout an explicit holiday date even within working hours", func(t *testing.T) {
		cal2 := &domain.Calendar{
			WorkingDays: cal.WorkingDays,
			Holidays:    []domain.Holiday{{Date: &monday}},
		}
		working, err := cal2.IsWorkingInstant(monday.Add(time.Hour))
		require.NoError(t, err)
		assert.False(t, working)
	})
	t.Run("Should honor a recurring cron holiday rule", func(t *testing.T) {
		cal2 := &domain.Calendar{
			WorkingDays: cal.WorkingDays,
			Holidays:    []domain.Holiday{{CronRule: "0 0 2 2 *"}}, // every Feb 2nd
		}
		working, err := cal2.IsWorkingInstant(monday.Add(time.Hour))
		require.NoError(t, err)
		assert.False(t, working)
	})
	t.Run("Should treat a special working day override as working", func(t *testing.T) {
		sunday := monday.AddDate(0, 0, -1)
		cal2 := &domain.Calendar{
			SpecialWorkingDays: []domain.SpecialWorkingDay{
				{Date: sunday, StartHour: 8 * 60, EndHour: 12 * 60},
			},
		}
		working, err := cal2.IsWorkingInstant(time.Date(sunday.Year(), sunday.Month(), sunday.Day(), 9, 0, 0, 0, time.UTC))
		require.NoError(t, err)
		assert.True(t, working)
	})
	t.Run("Should treat a nil calendar as always working", func(t *testing.T) {
		var nilCal *domain.Calendar
		working, err := nilCal.IsWorkingInstant(monday)
		require.NoError(t, err)
		assert.True(t, working)
	})
}

func TestCalendar_BusinessHoursBetween(t *testing.T) {
	t.Run("Should fall back to wall-clock hours without a calendar", func(t *testing.T) {
		var nilCal *domain.Calendar
		from := time.Date(2026, 2, 2, 8, 0, 0, 0, time.UTC)
		to := from.Add(10 * time.Hour)
		assert.InDelta(t, 10.0, nilCal.BusinessHoursBetween(from, to), 0.01)
	})
}

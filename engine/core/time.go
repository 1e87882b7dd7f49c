package core

import (
	"fmt"
	"strings"
	"time"

	str2duration "github.com/xhit/go-str2duration/v2"
)

// -----------------------------------------------------------------------------
// Human-readable Duration Parser
// -----------------------------------------------------------------------------

// ParseHumanDuration parses human-readable duration strings like "3 days", "1 hour", "30 minutes"
// First tries standard Go duration format (e.g., "30m", "1h30m"), then falls back to str2duration
// for more complex formats like "1 day 2 hours 3 minutes"
func ParseHumanDuration(s string) (time.Duration, error) {
	// First try standard Go duration parsing
	if d, err := time.ParseDuration(s); err == nil {
		return d, nil
	}

	// Convert common human-readable formats to Go format
	converted := convertHumanToGoFormat(s)
	if converted != s {
		if d, err := time.ParseDuration(converted); err == nil {
			return d, nil
		}
	}

	// Fall back to str2duration for complex formats
	return str2duration.ParseDuration(s)
}

// convertHumanToGoFormat converts simple human-readable formats to Go duration format
func convertHumanToGoFormat(s string) string {
	// Handle basic patterns like "N seconds", "N minutes", "N hours"
	switch {
	case strings.HasSuffix(s, " second"):
		return strings.Replace(s, " second", "s", 1)
	case strings.HasSuffix(s, " seconds"):
		return strings.Replace(s, " seconds", "s", 1)
	case strings.HasSuffix(s, " minute"):
		return strings.Replace(s, " minute", "m", 1)
	case strings.HasSuffix(s, " minutes"):
		return strings.Replace(s, " minutes", "m", 1)
	case strings.HasSuffix(s, " hour"):
		return strings.Replace(s, " hour", "h", 1)
	case strings.HasSuffix(s, " hours"):
		return strings.Replace(s, " hours", "h", 1)
	default:
		return s
	}
}

// -----------------------------------------------------------------------------
// Plan-relative minute arithmetic
// -----------------------------------------------------------------------------

// ToPlanMinutes converts an absolute instant to integer minutes relative to
// planStart: floor((t - planStart).Seconds() / 60). Instants preceding
// planStart clamp to 0 rather than going negative.
func ToPlanMinutes(t, planStart time.Time) int {
	delta := t.Sub(planStart)
	if delta <= 0 {
		return 0
	}
	return int(delta.Seconds()) / 60
}

// FromPlanMinutes converts plan-relative minutes back to an absolute instant.
func FromPlanMinutes(planStart time.Time, minutes int) time.Time {
	return planStart.Add(time.Duration(minutes) * time.Minute)
}

// -----------------------------------------------------------------------------
// ISO-8601 duration formatting ("PT{h}H{m}M")
// -----------------------------------------------------------------------------

// FormatISO8601Duration renders an hour count as the canonical "PT{h}H{m}M"
// form used throughout plan/event responses, omitting the minute component
// when it is zero (so a 24-hour span renders as "PT24H", never "PT24H0M").
func FormatISO8601Duration(hours float64) string {
	totalMinutes := int(roundHalfAwayFromZero(hours * 60))
	h := totalMinutes / 60
	m := totalMinutes % 60
	if m == 0 {
		return fmt.Sprintf("PT%dH", h)
	}
	return fmt.Sprintf("PT%dH%dM", h, m)
}

// ParseISO8601Duration parses the canonical "PT{h}H[{m}M]" form back into
// hours, the inverse of FormatISO8601Duration.
func ParseISO8601Duration(s string) (float64, error) {
	rest := strings.TrimPrefix(s, "PT")
	if rest == s {
		return 0, fmt.Errorf("not an ISO-8601 duration: %q", s)
	}
	var hours, minutes int
	if idx := strings.IndexByte(rest, 'H'); idx >= 0 {
		if _, err := fmt.Sscanf(rest[:idx], "%d", &hours); err != nil {
			return 0, fmt.Errorf("invalid hour component in %q: %w", s, err)
		}
		rest = rest[idx+1:]
	}
	if rest != "" {
		if idx := strings.IndexByte(rest, 'M'); idx >= 0 {
			if _, err := fmt.Sscanf(rest[:idx], "%d", &minutes); err != nil {
				return 0, fmt.Errorf("invalid minute component in %q: %w", s, err)
			}
		}
	}
	return float64(hours) + float64(minutes)/60.0, nil
}

func roundHalfAwayFromZero(v float64) float64 {
	if v < 0 {
		return -roundHalfAwayFromZero(-v)
	}
	return float64(int64(v + 0.5))
}

// Package config loads and hot-reloads the scheduling service's tunable
// settings: solver limits, objective weight overrides, the active
// priority template, and preemption blackout windows. It layers koanf
// providers (defaults, env, YAML, CLI flags) in precedence order behind a
// single-writer Manager that callers can subscribe to for change
// notifications.
package config

import "time"

// SolverSettings mirrors engine/driver.Config, kept as a separate struct
// here so the config layer does not import the engine.
type SolverSettings struct {
	TimeLimitSeconds int  `koanf:"time_limit_seconds" validate:"min=1,max=3600"`
	NumSearchWorkers int  `koanf:"num_search_workers" validate:"min=1,max=16"`
	LogSearchProgress bool `koanf:"log_search_progress"`
	RandomSeed       *int `koanf:"random_seed"`
}

// ObjectiveSettings selects a weight template and per-term overrides on
// top of it.
type ObjectiveSettings struct {
	Template  string             `koanf:"template" validate:"oneof=balanced protect_sla cost_min"`
	Overrides map[string]float64 `koanf:"overrides"`
}

// PreemptionSettings names the recurring blackout windows during which no
// job may start or continue, e.g. a nightly noise curfew or a recurring
// hangar-closure holiday.
type PreemptionSettings struct {
	Enabled         bool             `koanf:"enabled"`
	BlackoutPeriods []BlackoutPeriod `koanf:"blackout_periods"`
}

// BlackoutPeriod is a recurring no-work window expressed as a cron rule
// (the window's start) plus a duration.
type BlackoutPeriod struct {
	Name            string `koanf:"name"`
	CronRule        string `koanf:"cron_rule" validate:"required"`
	DurationMinutes int    `koanf:"duration_minutes" validate:"min=1"`
	Reason          string `koanf:"reason,omitempty"`
}

// RuntimeSettings are the ambient knobs that are not scheduling-specific
// but every long-running process of this shape carries: log level and the
// watch-debounce applied to file-backed config reloads.
type RuntimeSettings struct {
	LogLevel        string        `koanf:"log_level" validate:"oneof=debug info warn error"`
	WatchDebounce   time.Duration `koanf:"watch_debounce"`
	PrepWindowDays  int           `koanf:"prep_window_days" validate:"min=1"`
}

// Config is the full tree the Manager loads, watches, and hands to
// callers.
type Config struct {
	Solver     SolverSettings     `koanf:"solver"`
	Objective  ObjectiveSettings  `koanf:"objective"`
	Preemption PreemptionSettings `koanf:"preemption"`
	Runtime    RuntimeSettings    `koanf:"runtime"`
}

// Default returns the baseline configuration every environment starts
// from before env/file/CLI overrides are layered on.
func Default() *Config {
	return &Config{
		Solver: SolverSettings{
			TimeLimitSeconds: 300,
			NumSearchWorkers: 1,
		},
		Objective: ObjectiveSettings{
			Template: "balanced",
		},
		Preemption: PreemptionSettings{
			Enabled: false,
		},
		Runtime: RuntimeSettings{
			LogLevel:       "info",
			WatchDebounce:  100 * time.Millisecond,
			PrepWindowDays: 3,
		},
	}
}

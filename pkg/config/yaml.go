package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

func loadYAMLFile(path string) (map[string]any, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("config: reading %s: %w", path, err)
	}
	var out map[string]any
	if err := yaml.Unmarshal(raw, &out); err != nil {
		return nil, fmt.Errorf("config: parsing %s: %w", path, err)
	}
	return out, nil
}

// structToMap renders Default()'s values into the same nested, snake_case
// shape the other providers use, keyed identically to each field's koanf
// tag (a generic reflect-based encoder would need those tags duplicated as
// yaml tags to line up; writing the handful of defaults out directly is
// less code and cannot drift from Config's own koanf keys silently).
func structToMap(cfg *Config) map[string]any {
	m := map[string]any{
		"solver": map[string]any{
			"time_limit_seconds":  cfg.Solver.TimeLimitSeconds,
			"num_search_workers":  cfg.Solver.NumSearchWorkers,
			"log_search_progress": cfg.Solver.LogSearchProgress,
		},
		"objective": map[string]any{
			"template": cfg.Objective.Template,
		},
		"preemption": map[string]any{
			"enabled": cfg.Preemption.Enabled,
		},
		"runtime": map[string]any{
			"log_level":        cfg.Runtime.LogLevel,
			"watch_debounce":   cfg.Runtime.WatchDebounce,
			"prep_window_days": cfg.Runtime.PrepWindowDays,
		},
	}
	return m
}

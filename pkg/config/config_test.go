package config

import (
	"context"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestConfig_Default(t *testing.T) {
	t.Run("Should return valid default configuration", func(t *testing.T) {
		cfg := Default()
		require.NotNil(t, cfg)
		assert.Equal(t, 300, cfg.Solver.TimeLimitSeconds)
		assert.Equal(t, 1, cfg.Solver.NumSearchWorkers)
		assert.Equal(t, "balanced", cfg.Objective.Template)
		assert.False(t, cfg.Preemption.Enabled)
		assert.Equal(t, "info", cfg.Runtime.LogLevel)
		assert.Equal(t, 3, cfg.Runtime.PrepWindowDays)
	})
}

func TestConfig_Validation(t *testing.T) {
	t.Run("Should reject an unknown objective template", func(t *testing.T) {
		cfg := Default()
		cfg.Objective.Template = "not_a_template"
		svc := NewService()
		err := svc.Validate(cfg)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "validation failed")
	})

	t.Run("Should reject a solver time limit outside [1, 3600]", func(t *testing.T) {
		cfg := Default()
		cfg.Solver.TimeLimitSeconds = 10000
		svc := NewService()
		require.Error(t, svc.Validate(cfg))
	})

	t.Run("Should reject a blackout period with an invalid cron rule", func(t *testing.T) {
		cfg := Default()
		cfg.Preemption.BlackoutPeriods = []BlackoutPeriod{{Name: "curfew", CronRule: "not a cron rule", DurationMinutes: 60}}
		svc := NewService()
		require.Error(t, svc.Validate(cfg))
	})
}

func TestService_Load(t *testing.T) {
	t.Run("Should load default configuration when no sources are provided", func(t *testing.T) {
		svc := NewService()
		cfg, err := svc.Load(context.Background())
		require.NoError(t, err)
		assert.Equal(t, "balanced", cfg.Objective.Template)
	})

	t.Run("Should apply env overrides on top of defaults", func(t *testing.T) {
		t.Setenv("QECSCHED_SOLVER_TIME_LIMIT_SECONDS", "120")
		svc := NewService()
		cfg, err := svc.Load(context.Background(), NewEnvProvider())
		require.NoError(t, err)
		assert.Equal(t, 120, cfg.Solver.TimeLimitSeconds)
	})

	t.Run("Should apply CLI flags over env and defaults", func(t *testing.T) {
		svc := NewService()
		cfg, err := svc.Load(context.Background(), NewCLIProvider(map[string]any{
			"objective-template": "protect_sla",
		}))
		require.NoError(t, err)
		assert.Equal(t, "protect_sla", cfg.Objective.Template)
	})
}

func TestManager_Load(t *testing.T) {
	t.Run("Should load and store configuration", func(t *testing.T) {
		manager := NewManager(nil)
		defer manager.Close(context.Background())
		assert.Nil(t, manager.Get())

		ctx := context.Background()
		cfg, err := manager.Load(ctx, NewDefaultProvider())
		require.NoError(t, err)
		assert.Equal(t, cfg, manager.Get())
	})
}

func TestManager_OnChange(t *testing.T) {
	t.Run("Should invoke every registered callback on load", func(t *testing.T) {
		manager := NewManager(nil)
		defer manager.Close(context.Background())

		var count int32
		for range 3 {
			manager.OnChange(func(_ *Config) { atomic.AddInt32(&count, 1) })
		}

		_, err := manager.Load(context.Background(), NewDefaultProvider())
		require.NoError(t, err)
		assert.Equal(t, int32(3), atomic.LoadInt32(&count))
	})
}

func TestManager_Reload(t *testing.T) {
	t.Run("Should re-run the last provider list and notify listeners", func(t *testing.T) {
		manager := NewManager(nil)
		defer manager.Close(context.Background())

		var lastCfg *Config
		manager.OnChange(func(cfg *Config) { lastCfg = cfg })

		ctx := context.Background()
		_, err := manager.Load(ctx, NewDefaultProvider())
		require.NoError(t, err)
		require.NoError(t, manager.Reload(ctx))
		assert.NotNil(t, lastCfg)
	})
}

func TestExpandBlackoutPeriods(t *testing.T) {
	t.Run("Should expand a daily cron rule into concrete windows", func(t *testing.T) {
		from := time.Date(2026, 8, 1, 0, 0, 0, 0, time.UTC)
		to := time.Date(2026, 8, 4, 0, 0, 0, 0, time.UTC)
		periods := []BlackoutPeriod{{Name: "nightly_curfew", CronRule: "0 22 * * *", DurationMinutes: 480}}

		windows, err := ExpandBlackoutPeriods(periods, from, to)
		require.NoError(t, err)
		assert.Len(t, windows, 3)
		for _, w := range windows {
			assert.Equal(t, "nightly_curfew", w.Name)
			assert.Equal(t, 8*time.Hour, w.End.Sub(w.Start))
		}
	})

	t.Run("Should reject an invalid cron rule", func(t *testing.T) {
		_, err := ExpandBlackoutPeriods([]BlackoutPeriod{{Name: "bad", CronRule: "nonsense", DurationMinutes: 10}}, time.Now(), time.Now())
		require.Error(t, err)
	})
}

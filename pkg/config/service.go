package config

import (
	"context"
	"fmt"

	"github.com/go-playground/validator/v10"
	"github.com/knadh/koanf/providers/structs"
	"github.com/knadh/koanf/v2"
)

// Service loads a Config from an ordered list of Providers and validates
// the result. It is stateless; Manager is the stateful layer that keeps
// the last-loaded Config around and notifies subscribers of changes.
type Service struct {
	validate *validator.Validate
}

func NewService() *Service {
	return &Service{validate: validator.New()}
}

// Load merges Default() with every provider's layer, in the order given
// (later providers win), then unmarshals into a Config and validates it.
func (s *Service) Load(_ context.Context, providers ...Provider) (*Config, error) {
	k := koanf.New(".")
	if err := k.Load(structs.Provider(*Default(), "koanf"), nil); err != nil {
		return nil, fmt.Errorf("config: loading defaults: %w", err)
	}
	for _, p := range providers {
		data, err := p.Load()
		if err != nil {
			return nil, fmt.Errorf("config: loading %s layer: %w", p.Type(), err)
		}
		if len(data) == 0 {
			continue
		}
		if err := k.Load(mapProvider(data), nil); err != nil {
			return nil, fmt.Errorf("config: merging %s layer: %w", p.Type(), err)
		}
	}

	cfg := Default()
	if err := k.Unmarshal("", cfg); err != nil {
		return nil, fmt.Errorf("config: unmarshaling: %w", err)
	}
	if err := s.Validate(cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks every struct tag on Config plus the cross-field
// invariants a tag alone cannot express.
func (s *Service) Validate(cfg *Config) error {
	if err := s.validate.Struct(cfg); err != nil {
		return fmt.Errorf("config: validation failed: %w", err)
	}
	for _, bp := range cfg.Preemption.BlackoutPeriods {
		if _, err := standardCronParser.Parse(bp.CronRule); err != nil {
			return fmt.Errorf("config: validation failed: blackout period %q: invalid cron_rule: %w", bp.Name, err)
		}
	}
	return nil
}

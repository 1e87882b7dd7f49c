package config

import (
	"context"
	"os"
	"strconv"
	"strings"
)

// coerce converts a raw environment-variable string into a bool, int, or
// float64 when it parses cleanly as one, and leaves it a string
// otherwise, since koanf's unmarshal step expects values typed the same
// way the other providers already type them.
func coerce(s string) any {
	if b, err := strconv.ParseBool(s); err == nil {
		return b
	}
	if i, err := strconv.Atoi(s); err == nil {
		return i
	}
	if f, err := strconv.ParseFloat(s, 64); err == nil {
		return f
	}
	return s
}

// Source names where a layer of configuration came from, used for
// precedence ordering and diagnostics.
type Source string

const (
	SourceDefault Source = "default"
	SourceEnv     Source = "env"
	SourceYAML    Source = "yaml"
	SourceCLI     Source = "cli"
)

// Provider is one layer of configuration. Load returns the layer's data
// as a nested map keyed the same way the Config struct's koanf tags are
// keyed; Watch, when supported, invokes onChange whenever the underlying
// source changes (a file provider watching its path; env and CLI
// providers are static and return nil).
type Provider interface {
	Load() (map[string]any, error)
	Type() Source
	Watch(ctx context.Context, onChange func()) error
}

// defaultProvider supplies Default()'s values as the lowest-precedence
// layer.
type defaultProvider struct{}

func NewDefaultProvider() Provider { return defaultProvider{} }

func (defaultProvider) Type() Source { return SourceDefault }

func (defaultProvider) Load() (map[string]any, error) {
	return structToMap(Default()), nil
}

func (defaultProvider) Watch(context.Context, func()) error { return nil }

// envProvider reads every QECSCHED_-prefixed environment variable and
// folds it into the same nested, snake_case shape the other providers
// produce: QECSCHED_SOLVER_TIME_LIMIT_SECONDS becomes
// {"solver": {"time_limit_seconds": "..."}}.
type envProvider struct{}

func NewEnvProvider() Provider { return envProvider{} }

func (envProvider) Type() Source { return SourceEnv }

func (envProvider) Load() (map[string]any, error) {
	out := map[string]any{}
	for _, kv := range os.Environ() {
		key, value, ok := strings.Cut(kv, "=")
		if !ok || !strings.HasPrefix(key, "QECSCHED_") {
			continue
		}
		section, field, ok := strings.Cut(strings.ToLower(strings.TrimPrefix(key, "QECSCHED_")), "_")
		if !ok {
			continue
		}
		sec, _ := out[section].(map[string]any)
		if sec == nil {
			sec = map[string]any{}
		}
		sec[field] = coerce(value)
		out[section] = sec
	}
	return out, nil
}

func (envProvider) Watch(context.Context, func()) error { return nil }

// yamlProvider loads a single YAML file and can watch it for changes.
type yamlProvider struct {
	path string
}

func NewYAMLProvider(path string) Provider { return yamlProvider{path: path} }

func (yamlProvider) Type() Source { return SourceYAML }

func (p yamlProvider) Load() (map[string]any, error) {
	return loadYAMLFile(p.path)
}

func (p yamlProvider) Watch(ctx context.Context, onChange func()) error {
	return watchFile(ctx, p.path, onChange)
}

// cliProvider maps a flat flag map (as a CLI framework would hand it in)
// onto the same nested shape the other providers produce.
type cliProvider struct {
	flags map[string]any
}

func NewCLIProvider(flags map[string]any) Provider { return cliProvider{flags: flags} }

func (cliProvider) Type() Source { return SourceCLI }

func (p cliProvider) Load() (map[string]any, error) {
	out := map[string]any{}
	mapFlag := func(section, key, flag string) {
		if v, ok := p.flags[flag]; ok {
			sec, _ := out[section].(map[string]any)
			if sec == nil {
				sec = map[string]any{}
			}
			sec[key] = v
			out[section] = sec
		}
	}
	mapFlag("solver", "time_limit_seconds", "solver-time-limit-seconds")
	mapFlag("solver", "num_search_workers", "solver-num-search-workers")
	mapFlag("objective", "template", "objective-template")
	mapFlag("runtime", "log_level", "log-level")
	mapFlag("runtime", "prep_window_days", "prep-window-days")
	return out, nil
}

func (cliProvider) Watch(context.Context, func()) error { return nil }

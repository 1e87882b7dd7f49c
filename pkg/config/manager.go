package config

import (
	"context"
	"sync"
	"time"
)

// Manager is the single-writer holder of the currently-active Config: one
// goroutine's Load/Reload call installs a new Config atomically under a
// mutex, and every registered OnChange callback is invoked with the new
// value. Debounce collapses a burst of rapid file-watch events (an editor
// doing several writes per save) into one reload.
type Manager struct {
	Service *Service

	mu        sync.RWMutex
	cfg       *Config
	providers []Provider
	listeners []func(*Config)

	debounce time.Duration
	timer    *time.Timer

	cancelWatch context.CancelFunc
}

// NewManager constructs a Manager around svc. A nil svc gets its own
// default Service.
func NewManager(svc *Service) *Manager {
	if svc == nil {
		svc = NewService()
	}
	return &Manager{Service: svc, debounce: 100 * time.Millisecond}
}

// SetDebounce overrides the default watch-reload debounce.
func (m *Manager) SetDebounce(d time.Duration) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.debounce = d
}

// Load loads and installs a new Config from providers, remembering the
// provider list for a later Reload, and starts watching any provider that
// supports it.
func (m *Manager) Load(ctx context.Context, providers ...Provider) (*Config, error) {
	cfg, err := m.Service.Load(ctx, providers...)
	if err != nil {
		return nil, err
	}

	m.mu.Lock()
	m.cfg = cfg
	m.providers = providers
	m.mu.Unlock()

	m.notify(cfg)
	m.startWatch(ctx, providers)
	return cfg, nil
}

// Reload re-runs Load against the same provider list given to the last
// Load call.
func (m *Manager) Reload(ctx context.Context) error {
	m.mu.RLock()
	providers := m.providers
	m.mu.RUnlock()
	cfg, err := m.Service.Load(ctx, providers...)
	if err != nil {
		return err
	}
	m.mu.Lock()
	m.cfg = cfg
	m.mu.Unlock()
	m.notify(cfg)
	return nil
}

// Get returns the currently-active Config, or nil if Load has not been
// called yet.
func (m *Manager) Get() *Config {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.cfg
}

// OnChange registers a callback invoked, in registration order, every
// time Load or a debounced watch-triggered Reload installs a new Config.
func (m *Manager) OnChange(fn func(*Config)) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.listeners = append(m.listeners, fn)
}

// Close stops any active file watch. Safe to call more than once.
func (m *Manager) Close(context.Context) error {
	m.mu.Lock()
	cancel := m.cancelWatch
	m.cancelWatch = nil
	m.mu.Unlock()
	if cancel != nil {
		cancel()
	}
	return nil
}

func (m *Manager) notify(cfg *Config) {
	m.mu.RLock()
	listeners := append([]func(*Config){}, m.listeners...)
	m.mu.RUnlock()
	for _, fn := range listeners {
		fn(cfg)
	}
}

// startWatch replaces any prior watch with one over providers that
// support it, debouncing rapid-fire change notifications into a single
// Reload.
func (m *Manager) startWatch(ctx context.Context, providers []Provider) {
	m.mu.Lock()
	if m.cancelWatch != nil {
		m.cancelWatch()
	}
	watchCtx, cancel := context.WithCancel(ctx)
	m.cancelWatch = cancel
	debounce := m.debounce
	m.mu.Unlock()

	for _, p := range providers {
		p := p
		go func() {
			_ = p.Watch(watchCtx, func() {
				m.scheduleReload(watchCtx, debounce)
			})
		}()
	}
}

func (m *Manager) scheduleReload(ctx context.Context, debounce time.Duration) {
	m.mu.Lock()
	if m.timer != nil {
		m.timer.Stop()
	}
	m.timer = time.AfterFunc(debounce, func() {
		_ = m.Reload(ctx)
	})
	m.mu.Unlock()
}

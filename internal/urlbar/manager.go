package urlbar

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"sync"

	"go.uber.org/zap"
)

// ErrDuplicateProvider is returned by Register when a provider with the
// same name is already registered.
var ErrDuplicateProvider = errors.New("provider already registered")

// Manager runs the registered providers for each query and routes picked
// results back to the provider that produced them.
// A failing provider never breaks the query: its panic or error is logged
// and it simply contributes no results.
type Manager struct {
	mu        sync.RWMutex
	providers []ActionsProvider
	recorder  PickRecorder
	logger    *zap.Logger
}

// ManagerConfig holds configuration for creating a Manager.
type ManagerConfig struct {
	// Providers are registered in order. Results are returned in this order.
	Providers []ActionsProvider

	// Recorder is notified of successful picks. Optional.
	Recorder PickRecorder

	// Logger for debug output. If nil, a no-op logger is used.
	Logger *zap.Logger
}

// NewManager creates a new Manager with the given configuration.
func NewManager(cfg ManagerConfig) (*Manager, error) {
	logger := cfg.Logger
	if logger == nil {
		logger = zap.NewNop()
	}

	m := &Manager{
		recorder: cfg.Recorder,
		logger:   logger,
	}
	for _, p := range cfg.Providers {
		if err := m.Register(p); err != nil {
			return nil, err
		}
	}
	return m, nil
}

// Register adds a provider after the already registered ones.
func (m *Manager) Register(p ActionsProvider) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	name := p.Name()
	if m.indexLocked(name) >= 0 {
		return fmt.Errorf("%w: %s", ErrDuplicateProvider, name)
	}
	m.providers = append(m.providers, p)
	return nil
}

// Unregister removes a provider by name. It reports whether the provider
// was registered.
func (m *Manager) Unregister(name string) bool {
	m.mu.Lock()
	defer m.mu.Unlock()

	idx := m.indexLocked(name)
	if idx < 0 {
		return false
	}
	m.providers = slices.Delete(m.providers, idx, idx+1)
	return true
}

// Providers returns the registered providers in registration order.
func (m *Manager) Providers() []ActionsProvider {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return slices.Clone(m.providers)
}

func (m *Manager) indexLocked(name string) int {
	return slices.IndexFunc(m.providers, func(p ActionsProvider) bool {
		return p.Name() == name
	})
}

func (m *Manager) provider(name string) (ActionsProvider, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	idx := m.indexLocked(name)
	if idx < 0 {
		return nil, false
	}
	return m.providers[idx], true
}

// Query asks every active provider for results and concatenates them in
// registration order. It never fails; faulty providers are skipped.
func (m *Manager) Query(ctx context.Context, qc *QueryContext) []ActionsResult {
	if qc == nil || ctx.Err() != nil {
		return nil
	}

	var results []ActionsResult
	for _, p := range m.Providers() {
		if !m.isActive(p, qc) {
			continue
		}

		providerResults, err := m.queryActions(ctx, p, qc)
		if err != nil {
			m.logger.Warn("provider query failed",
				zap.String("provider", p.Name()),
				zap.Error(err))
			continue
		}

		for _, r := range providerResults {
			if r.ProviderName == "" {
				r.ProviderName = p.Name()
			}
			results = append(results, r)
		}
	}

	m.logger.Debug("query completed",
		zap.String("input", qc.TrimmedSearchString),
		zap.Int("results", len(results)))
	return results
}

func (m *Manager) isActive(p ActionsProvider, qc *QueryContext) (active bool) {
	defer func() {
		if r := recover(); r != nil {
			m.logger.Error("provider panicked in IsActive",
				zap.String("provider", p.Name()),
				zap.Any("panic", r))
			active = false
		}
	}()
	return p.IsActive(qc)
}

func (m *Manager) queryActions(ctx context.Context, p ActionsProvider, qc *QueryContext) (results []ActionsResult, err error) {
	defer func() {
		if r := recover(); r != nil {
			results = nil
			err = fmt.Errorf("provider panicked: %v", r)
		}
	}()
	return p.QueryActions(ctx, qc)
}

// Pick resolves a picked result through the provider that produced it and
// records the pick. qc is the query the result came from and may be nil.
func (m *Manager) Pick(ctx context.Context, qc *QueryContext, result ActionsResult) error {
	p, ok := m.provider(result.ProviderName)
	if !ok {
		return fmt.Errorf("%w: %s", ErrProviderNotFound, result.ProviderName)
	}
	picker, ok := p.(Picker)
	if !ok {
		return fmt.Errorf("%w: %s", ErrNotPickable, result.ProviderName)
	}

	if err := picker.OnPick(ctx, result); err != nil {
		return fmt.Errorf("pick %s/%s: %w", result.ProviderName, result.Key, err)
	}

	m.logger.Debug("picked result",
		zap.String("provider", result.ProviderName),
		zap.String("key", result.Key))

	if m.recorder != nil {
		if err := m.recorder.RecordPick(ctx, qc, result); err != nil {
			m.logger.Warn("failed to record pick", zap.Error(err))
		}
	}
	return nil
}

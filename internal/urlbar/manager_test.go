package urlbar

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type testAction struct{ target string }

func (testAction) Kind() ActionKind { return "test" }

// mockProvider implements ActionsProvider and Picker for testing.
type mockProvider struct {
	name        string
	active      bool
	results     []ActionsResult
	err         error
	panicActive bool
	panicQuery  bool
	pickErr     error

	queryCount int
	picked     []ActionsResult
}

func (m *mockProvider) Name() string { return m.name }

func (m *mockProvider) IsActive(qc *QueryContext) bool {
	if m.panicActive {
		panic("boom")
	}
	return m.active
}

func (m *mockProvider) QueryActions(ctx context.Context, qc *QueryContext) ([]ActionsResult, error) {
	m.queryCount++
	if m.panicQuery {
		panic("boom")
	}
	return m.results, m.err
}

func (m *mockProvider) OnPick(ctx context.Context, result ActionsResult) error {
	if m.pickErr != nil {
		return m.pickErr
	}
	m.picked = append(m.picked, result)
	return nil
}

// queryOnlyProvider does not implement Picker.
type queryOnlyProvider struct{}

func (queryOnlyProvider) Name() string                   { return "queryOnly" }
func (queryOnlyProvider) IsActive(qc *QueryContext) bool { return true }
func (queryOnlyProvider) QueryActions(ctx context.Context, qc *QueryContext) ([]ActionsResult, error) {
	return []ActionsResult{{Key: "q"}}, nil
}

type mockRecorder struct {
	err     error
	queries []*QueryContext
	results []ActionsResult
}

func (m *mockRecorder) RecordPick(ctx context.Context, qc *QueryContext, result ActionsResult) error {
	m.queries = append(m.queries, qc)
	m.results = append(m.results, result)
	return m.err
}

func newTestManager(t *testing.T, cfg ManagerConfig) *Manager {
	m, err := NewManager(cfg)
	require.NoError(t, err)
	return m
}

func TestNewManager(t *testing.T) {
	t.Run("default values", func(t *testing.T) {
		m := newTestManager(t, ManagerConfig{})
		assert.NotNil(t, m.logger)
		assert.Empty(t, m.Providers())
	})

	t.Run("rejects duplicate names", func(t *testing.T) {
		_, err := NewManager(ManagerConfig{
			Providers: []ActionsProvider{&mockProvider{name: "a"}, &mockProvider{name: "a"}},
		})
		assert.ErrorIs(t, err, ErrDuplicateProvider)
	})
}

func TestManager_RegisterUnregister(t *testing.T) {
	m := newTestManager(t, ManagerConfig{})
	a := &mockProvider{name: "a"}
	b := &mockProvider{name: "b"}

	require.NoError(t, m.Register(a))
	require.NoError(t, m.Register(b))
	assert.ErrorIs(t, m.Register(&mockProvider{name: "a"}), ErrDuplicateProvider)
	assert.Equal(t, []ActionsProvider{a, b}, m.Providers())

	assert.True(t, m.Unregister("a"))
	assert.False(t, m.Unregister("a"))
	assert.Equal(t, []ActionsProvider{b}, m.Providers())
}

func TestManager_Query(t *testing.T) {
	qc := NewQueryContext("re", "")

	t.Run("concatenates active providers in registration order", func(t *testing.T) {
		a := &mockProvider{name: "a", active: true, results: []ActionsResult{{Key: "a1"}, {Key: "a2"}}}
		b := &mockProvider{name: "b", active: false, results: []ActionsResult{{Key: "b1"}}}
		c := &mockProvider{name: "c", active: true, results: []ActionsResult{{Key: "c1", ProviderName: "custom"}}}
		m := newTestManager(t, ManagerConfig{Providers: []ActionsProvider{a, b, c}})

		results := m.Query(context.Background(), qc)

		require.Len(t, results, 3)
		assert.Equal(t, "a1", results[0].Key)
		assert.Equal(t, "a", results[0].ProviderName)
		assert.Equal(t, "a2", results[1].Key)
		assert.Equal(t, "c1", results[2].Key)
		assert.Equal(t, "custom", results[2].ProviderName)
		assert.Equal(t, 0, b.queryCount)
	})

	t.Run("contains provider errors", func(t *testing.T) {
		failing := &mockProvider{name: "failing", active: true, err: errors.New("query error")}
		ok := &mockProvider{name: "ok", active: true, results: []ActionsResult{{Key: "ok"}}}
		m := newTestManager(t, ManagerConfig{Providers: []ActionsProvider{failing, ok}})

		results := m.Query(context.Background(), qc)

		require.Len(t, results, 1)
		assert.Equal(t, "ok", results[0].Key)
	})

	t.Run("contains panics", func(t *testing.T) {
		panicActive := &mockProvider{name: "pa", panicActive: true}
		panicQuery := &mockProvider{name: "pq", active: true, panicQuery: true}
		ok := &mockProvider{name: "ok", active: true, results: []ActionsResult{{Key: "ok"}}}
		m := newTestManager(t, ManagerConfig{Providers: []ActionsProvider{panicActive, panicQuery, ok}})

		var results []ActionsResult
		assert.NotPanics(t, func() {
			results = m.Query(context.Background(), qc)
		})
		require.Len(t, results, 1)
		assert.Equal(t, "ok", results[0].Key)
		assert.Equal(t, 0, panicActive.queryCount)
	})

	t.Run("cancelled context returns nothing", func(t *testing.T) {
		a := &mockProvider{name: "a", active: true, results: []ActionsResult{{Key: "a1"}}}
		m := newTestManager(t, ManagerConfig{Providers: []ActionsProvider{a}})

		ctx, cancel := context.WithCancel(context.Background())
		cancel()

		assert.Empty(t, m.Query(ctx, qc))
		assert.Equal(t, 0, a.queryCount)
	})
}

func TestManager_Pick(t *testing.T) {
	qc := NewQueryContext("re", "")

	t.Run("routes to provider and records", func(t *testing.T) {
		a := &mockProvider{name: "a"}
		recorder := &mockRecorder{}
		m := newTestManager(t, ManagerConfig{Providers: []ActionsProvider{a}, Recorder: recorder})

		result := ActionsResult{ProviderName: "a", Key: "k", Action: testAction{target: "x"}}
		require.NoError(t, m.Pick(context.Background(), qc, result))

		require.Len(t, a.picked, 1)
		assert.Equal(t, testAction{target: "x"}, a.picked[0].Action)
		require.Len(t, recorder.results, 1)
		assert.Same(t, qc, recorder.queries[0])
	})

	t.Run("unknown provider", func(t *testing.T) {
		m := newTestManager(t, ManagerConfig{})
		err := m.Pick(context.Background(), qc, ActionsResult{ProviderName: "nope"})
		assert.ErrorIs(t, err, ErrProviderNotFound)
	})

	t.Run("provider without picker", func(t *testing.T) {
		m := newTestManager(t, ManagerConfig{Providers: []ActionsProvider{queryOnlyProvider{}}})
		err := m.Pick(context.Background(), qc, ActionsResult{ProviderName: "queryOnly"})
		assert.ErrorIs(t, err, ErrNotPickable)
	})

	t.Run("pick error is returned and not recorded", func(t *testing.T) {
		pickErr := errors.New("stale")
		a := &mockProvider{name: "a", pickErr: pickErr}
		recorder := &mockRecorder{}
		m := newTestManager(t, ManagerConfig{Providers: []ActionsProvider{a}, Recorder: recorder})

		err := m.Pick(context.Background(), qc, ActionsResult{ProviderName: "a", Key: "k"})
		assert.ErrorIs(t, err, pickErr)
		assert.Empty(t, recorder.results)
	})

	t.Run("recorder error does not fail the pick", func(t *testing.T) {
		a := &mockProvider{name: "a"}
		recorder := &mockRecorder{err: errors.New("db locked")}
		m := newTestManager(t, ManagerConfig{Providers: []ActionsProvider{a}, Recorder: recorder})

		assert.NoError(t, m.Pick(context.Background(), qc, ActionsResult{ProviderName: "a", Key: "k"}))
		assert.Len(t, a.picked, 1)
	})
}

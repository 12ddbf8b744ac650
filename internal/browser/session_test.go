package browser

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testWindows() []Window {
	return []Window{
		{
			ID: "w1",
			Tabs: []Tab{
				{ID: "t1", Title: "Inbox"},
				{ID: "t2", Title: "Paper A"},
				{ID: "t3", Title: "Paper B"},
				{ID: "t4", Title: "Cart"},
			},
			Groups: []TabGroup{
				{ID: "g1", Label: "Research", Color: ColorBlue, TabIDs: []string{"t2", "t3"}},
				{ID: "g2", Label: "Shopping", Color: ColorGreen, TabIDs: []string{"t4"}},
				{ID: "g3", Label: "Empty", Color: ColorGray},
			},
		},
		{
			ID:            "w2",
			SelectedTabID: "t6",
			Tabs: []Tab{
				{ID: "t5", Title: "Recipes"},
				{ID: "t6", Title: "News"},
			},
			Groups: []TabGroup{
				{ID: "g4", Label: "Reading List", Color: ColorRed, TabIDs: []string{"t5"}},
			},
		},
	}
}

func newTestSession(t *testing.T) *Session {
	s, err := NewSession(testWindows(), nil)
	require.NoError(t, err)
	return s
}

func TestNewSession(t *testing.T) {
	t.Run("first window is foreground", func(t *testing.T) {
		s := newTestSession(t)

		top, ok := s.TopWindow()
		require.True(t, ok)
		assert.Equal(t, "w1", top.ID)
	})

	t.Run("defaults selected tab to first tab", func(t *testing.T) {
		s := newTestSession(t)

		w, ok := s.Window("w1")
		require.True(t, ok)
		assert.Equal(t, "t1", w.SelectedTabID)

		w, ok = s.Window("w2")
		require.True(t, ok)
		assert.Equal(t, "t6", w.SelectedTabID)
	})

	t.Run("fills owning window on groups", func(t *testing.T) {
		s := newTestSession(t)

		g, ok := s.FindGroup("g4")
		require.True(t, ok)
		assert.Equal(t, "w2", g.WindowID)
	})

	t.Run("empty session has no top window", func(t *testing.T) {
		s, err := NewSession(nil, nil)
		require.NoError(t, err)

		_, ok := s.TopWindow()
		assert.False(t, ok)
		assert.Empty(t, s.Windows())
	})

	t.Run("rejects invalid windows", func(t *testing.T) {
		windows := testWindows()
		windows[1].ID = "w1"

		_, err := NewSession(windows, nil)
		assert.ErrorIs(t, err, ErrInvalidSnapshot)
	})
}

func TestValidateWindows(t *testing.T) {
	tests := []struct {
		name   string
		mutate func([]Window) []Window
		errMsg string
	}{
		{
			name:   "valid",
			mutate: func(w []Window) []Window { return w },
		},
		{
			name:   "window without id",
			mutate: func(w []Window) []Window { w[0].ID = ""; return w },
			errMsg: "window without id",
		},
		{
			name:   "duplicate tab in window",
			mutate: func(w []Window) []Window { w[0].Tabs[1].ID = "t1"; return w },
			errMsg: "duplicate tab ids",
		},
		{
			name:   "duplicate tab across windows",
			mutate: func(w []Window) []Window { w[1].Tabs[0].ID = "t1"; w[1].Groups[0].TabIDs = []string{"t1"}; return w },
			errMsg: "duplicate tab ids",
		},
		{
			name:   "tab without id",
			mutate: func(w []Window) []Window { w[1].Tabs[1].ID = ""; w[1].SelectedTabID = ""; return w },
			errMsg: "tab without id",
		},
		{
			name:   "unknown selected tab",
			mutate: func(w []Window) []Window { w[1].SelectedTabID = "t1"; return w },
			errMsg: "selects unknown tab",
		},
		{
			name:   "group references unknown tab",
			mutate: func(w []Window) []Window { w[0].Groups[0].TabIDs = []string{"t5"}; return w },
			errMsg: "references unknown tab",
		},
		{
			name:   "tab in two groups",
			mutate: func(w []Window) []Window { w[0].Groups[1].TabIDs = []string{"t2"}; return w },
			errMsg: "is in groups",
		},
		{
			name:   "unknown color",
			mutate: func(w []Window) []Window { w[0].Groups[0].Color = "teal"; return w },
			errMsg: "unknown color",
		},
		{
			name:   "group owned by another window",
			mutate: func(w []Window) []Window { w[0].Groups[0].WindowID = "w2"; return w },
			errMsg: "is owned by",
		},
		{
			name:   "duplicate group id",
			mutate: func(w []Window) []Window { w[1].Groups[0].ID = "g1"; return w },
			errMsg: "duplicate group ids",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateWindows(tt.mutate(testWindows()))
			if tt.errMsg == "" {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.ErrorIs(t, err, ErrInvalidSnapshot)
			assert.Contains(t, err.Error(), tt.errMsg)
		})
	}
}

func TestSession_SnapshotsAreCopies(t *testing.T) {
	s := newTestSession(t)

	top, ok := s.TopWindow()
	require.True(t, ok)
	top.Groups[0].Label = "changed"
	top.Groups[0].TabIDs[0] = "t4"

	g, ok := s.FindGroup("g1")
	require.True(t, ok)
	assert.Equal(t, "Research", g.Label)
	assert.Equal(t, []string{"t2", "t3"}, g.TabIDs)
}

func TestSession_SelectGroup(t *testing.T) {
	t.Run("selects first tab of group", func(t *testing.T) {
		s := newTestSession(t)

		require.NoError(t, s.SelectGroup("g1"))

		w, _ := s.Window("w1")
		assert.Equal(t, "t2", w.SelectedTabID)
	})

	t.Run("focuses owning window without touching others", func(t *testing.T) {
		s := newTestSession(t)

		require.NoError(t, s.SelectGroup("g4"))

		top, ok := s.TopWindow()
		require.True(t, ok)
		assert.Equal(t, "w2", top.ID)
		assert.Equal(t, "t5", top.SelectedTabID)

		w1, _ := s.Window("w1")
		assert.Equal(t, "t1", w1.SelectedTabID)

		ids := make([]string, 0)
		for _, w := range s.Windows() {
			ids = append(ids, w.ID)
		}
		assert.Equal(t, []string{"w2", "w1"}, ids)
	})

	t.Run("empty group is a no-op", func(t *testing.T) {
		s := newTestSession(t)
		require.NoError(t, s.Focus("w2"))

		err := s.SelectGroup("g3")
		assert.ErrorIs(t, err, ErrEmptyGroup)

		top, _ := s.TopWindow()
		assert.Equal(t, "w2", top.ID)
		w1, _ := s.Window("w1")
		assert.Equal(t, "t1", w1.SelectedTabID)
	})

	t.Run("unknown group", func(t *testing.T) {
		s := newTestSession(t)
		assert.ErrorIs(t, s.SelectGroup("nope"), ErrGroupNotFound)
	})
}

func TestSession_SelectTabAndFocus(t *testing.T) {
	s := newTestSession(t)

	assert.ErrorIs(t, s.SelectTab("nope", "t1"), ErrWindowNotFound)
	assert.ErrorIs(t, s.SelectTab("w1", "t5"), ErrTabNotFound)
	require.NoError(t, s.SelectTab("w1", "t4"))

	w, _ := s.Window("w1")
	assert.Equal(t, "t4", w.SelectedTabID)

	assert.ErrorIs(t, s.Focus("nope"), ErrWindowNotFound)
	require.NoError(t, s.Focus("w2"))
	top, _ := s.TopWindow()
	assert.Equal(t, "w2", top.ID)
}

func TestSession_Replace(t *testing.T) {
	s := newTestSession(t)
	other, err := NewSession([]Window{{ID: "w9", Tabs: []Tab{{ID: "t9"}}}}, nil)
	require.NoError(t, err)

	s.Replace(other)

	top, ok := s.TopWindow()
	require.True(t, ok)
	assert.Equal(t, "w9", top.ID)
	_, ok = s.FindGroup("g1")
	assert.False(t, ok)
}

func TestTabGroup_Validate(t *testing.T) {
	valid := TabGroup{ID: "g", Color: ColorBlue, WindowID: "w"}
	assert.NoError(t, valid.Validate())

	unnamed := valid
	unnamed.Label = ""
	assert.NoError(t, unnamed.Validate())

	noID := valid
	noID.ID = ""
	assert.ErrorIs(t, noID.Validate(), ErrInvalidGroup)

	noWindow := valid
	noWindow.WindowID = ""
	assert.ErrorIs(t, noWindow.Validate(), ErrInvalidGroup)

	badColor := valid
	badColor.Color = "teal"
	assert.ErrorIs(t, badColor.Validate(), ErrInvalidGroup)
}

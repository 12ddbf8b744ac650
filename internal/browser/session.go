package browser

import (
	"fmt"
	"slices"
	"sync"

	"github.com/samber/lo"
	"go.uber.org/zap"
)

// Session tracks open windows and their focus order. It is safe for
// concurrent use.
type Session struct {
	mu      sync.RWMutex
	windows map[string]*Window
	order   []string // window ids, most recently focused first
	logger  *zap.Logger
}

// NewSession creates a Session from window snapshots. The first window is
// the foreground window. Windows are validated with ValidateWindows.
func NewSession(windows []Window, logger *zap.Logger) (*Session, error) {
	if logger == nil {
		logger = zap.NewNop()
	}

	if err := ValidateWindows(windows); err != nil {
		return nil, err
	}

	s := &Session{
		windows: make(map[string]*Window, len(windows)),
		order:   make([]string, 0, len(windows)),
		logger:  logger,
	}
	for _, w := range windows {
		w = w.clone()
		for i := range w.Groups {
			w.Groups[i].WindowID = w.ID
		}
		if w.SelectedTabID == "" && len(w.Tabs) > 0 {
			w.SelectedTabID = w.Tabs[0].ID
		}
		s.windows[w.ID] = &w
		s.order = append(s.order, w.ID)
	}

	return s, nil
}

// ValidateWindows checks ids and cross references of host data before it
// enters a Session.
func ValidateWindows(windows []Window) error {
	windowIDs := lo.Map(windows, func(w Window, _ int) string { return w.ID })
	if lo.Contains(windowIDs, "") {
		return fmt.Errorf("%w: window without id", ErrInvalidSnapshot)
	}
	if dups := lo.FindDuplicates(windowIDs); len(dups) > 0 {
		return fmt.Errorf("%w: duplicate window ids %v", ErrInvalidSnapshot, dups)
	}

	var tabIDs, groupIDs []string
	for _, w := range windows {
		tabs := lo.KeyBy(w.Tabs, func(t Tab) string { return t.ID })
		if _, ok := tabs[""]; ok {
			return fmt.Errorf("%w: window %s has a tab without id", ErrInvalidSnapshot, w.ID)
		}
		if len(tabs) != len(w.Tabs) {
			return fmt.Errorf("%w: window %s has duplicate tab ids", ErrInvalidSnapshot, w.ID)
		}
		if w.SelectedTabID != "" {
			if _, ok := tabs[w.SelectedTabID]; !ok {
				return fmt.Errorf("%w: window %s selects unknown tab %s", ErrInvalidSnapshot, w.ID, w.SelectedTabID)
			}
		}
		tabIDs = append(tabIDs, lo.Keys(tabs)...)

		grouped := make(map[string]string)
		for _, g := range w.Groups {
			if g.WindowID == "" {
				g.WindowID = w.ID
			}
			if g.WindowID != w.ID {
				return fmt.Errorf("%w: group %s is owned by %s but listed in %s", ErrInvalidSnapshot, g.ID, g.WindowID, w.ID)
			}
			if err := g.Validate(); err != nil {
				return fmt.Errorf("%w: %w", ErrInvalidSnapshot, err)
			}
			for _, tabID := range g.TabIDs {
				if _, ok := tabs[tabID]; !ok {
					return fmt.Errorf("%w: group %s references unknown tab %s", ErrInvalidSnapshot, g.ID, tabID)
				}
				if other, ok := grouped[tabID]; ok {
					return fmt.Errorf("%w: tab %s is in groups %s and %s", ErrInvalidSnapshot, tabID, other, g.ID)
				}
				grouped[tabID] = g.ID
			}
			groupIDs = append(groupIDs, g.ID)
		}
	}

	if dups := lo.FindDuplicates(tabIDs); len(dups) > 0 {
		return fmt.Errorf("%w: duplicate tab ids %v", ErrInvalidSnapshot, dups)
	}
	if dups := lo.FindDuplicates(groupIDs); len(dups) > 0 {
		return fmt.Errorf("%w: duplicate group ids %v", ErrInvalidSnapshot, dups)
	}
	return nil
}

// TopWindow returns the foreground window, or false when no window is open.
func (s *Session) TopWindow() (Window, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if len(s.order) == 0 {
		return Window{}, false
	}
	return s.windows[s.order[0]].clone(), true
}

// Window returns the window with the given id.
func (s *Session) Window(id string) (Window, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	w, ok := s.windows[id]
	if !ok {
		return Window{}, false
	}
	return w.clone(), true
}

// Windows returns all windows, most recently focused first.
func (s *Session) Windows() []Window {
	s.mu.RLock()
	defer s.mu.RUnlock()

	windows := make([]Window, 0, len(s.order))
	for _, id := range s.order {
		windows = append(windows, s.windows[id].clone())
	}
	return windows
}

// Replace swaps the whole session state, e.g. after reloading a snapshot.
func (s *Session) Replace(other *Session) {
	other.mu.RLock()
	windows := make(map[string]*Window, len(other.windows))
	for id, w := range other.windows {
		c := w.clone()
		windows[id] = &c
	}
	order := slices.Clone(other.order)
	other.mu.RUnlock()

	s.mu.Lock()
	defer s.mu.Unlock()
	s.windows = windows
	s.order = order
}

// SelectTab makes tabID the selected tab of its window.
func (s *Session) SelectTab(windowID, tabID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	w, ok := s.windows[windowID]
	if !ok {
		return fmt.Errorf("%w: %s", ErrWindowNotFound, windowID)
	}
	if _, ok := w.Tab(tabID); !ok {
		return fmt.Errorf("%w: %s in window %s", ErrTabNotFound, tabID, windowID)
	}
	w.SelectedTabID = tabID
	return nil
}

// Focus brings a window to the foreground.
func (s *Session) Focus(windowID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.focusLocked(windowID)
}

func (s *Session) focusLocked(windowID string) error {
	idx := slices.Index(s.order, windowID)
	if idx < 0 {
		return fmt.Errorf("%w: %s", ErrWindowNotFound, windowID)
	}
	s.order = slices.Delete(s.order, idx, idx+1)
	s.order = slices.Insert(s.order, 0, windowID)
	return nil
}

// FindGroup returns the group with the given id from any window.
func (s *Session) FindGroup(groupID string) (TabGroup, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	g, ok := s.findGroupLocked(groupID)
	if !ok {
		return TabGroup{}, false
	}
	return g.clone(), true
}

func (s *Session) findGroupLocked(groupID string) (TabGroup, bool) {
	for _, id := range s.order {
		for _, g := range s.windows[id].Groups {
			if g.ID == groupID {
				return g, true
			}
		}
	}
	return TabGroup{}, false
}

// SelectGroup selects the group's first tab in its owning window and
// focuses that window. Other windows keep their selected tab. A group
// without tabs is left untouched and ErrEmptyGroup is returned.
func (s *Session) SelectGroup(groupID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	g, ok := s.findGroupLocked(groupID)
	if !ok {
		return fmt.Errorf("%w: %s", ErrGroupNotFound, groupID)
	}
	tabID, ok := g.FirstTabID()
	if !ok {
		return fmt.Errorf("%w: %s", ErrEmptyGroup, groupID)
	}

	w, ok := s.windows[g.WindowID]
	if !ok {
		return fmt.Errorf("%w: %s", ErrWindowNotFound, g.WindowID)
	}
	if _, ok := w.Tab(tabID); !ok {
		return fmt.Errorf("%w: %s in window %s", ErrTabNotFound, tabID, w.ID)
	}

	w.SelectedTabID = tabID
	if err := s.focusLocked(w.ID); err != nil {
		return err
	}

	s.logger.Debug("selected tab group",
		zap.String("group", groupID),
		zap.String("window", w.ID),
		zap.String("tab", tabID))
	return nil
}

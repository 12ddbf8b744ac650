// Package browser models the host browser state the urlbar providers read:
// windows, their tabs and their tab groups. Values handed out by a Session
// are snapshots; the only mutations go through Session methods.
package browser

import (
	"errors"
	"fmt"
	"slices"
)

var (
	ErrWindowNotFound  = errors.New("window not found")
	ErrGroupNotFound   = errors.New("tab group not found")
	ErrTabNotFound     = errors.New("tab not found")
	ErrEmptyGroup      = errors.New("tab group has no tabs")
	ErrInvalidGroup    = errors.New("invalid tab group")
	ErrInvalidSnapshot = errors.New("invalid session snapshot")
)

// Color is the color tag of a tab group.
type Color string

const (
	ColorBlue   Color = "blue"
	ColorPurple Color = "purple"
	ColorCyan   Color = "cyan"
	ColorOrange Color = "orange"
	ColorYellow Color = "yellow"
	ColorPink   Color = "pink"
	ColorGreen  Color = "green"
	ColorGray   Color = "gray"
	ColorRed    Color = "red"
)

// Colors lists every supported group color.
var Colors = []Color{
	ColorBlue,
	ColorPurple,
	ColorCyan,
	ColorOrange,
	ColorYellow,
	ColorPink,
	ColorGreen,
	ColorGray,
	ColorRed,
}

// Valid reports whether c is one of Colors.
func (c Color) Valid() bool {
	return slices.Contains(Colors, c)
}

// Tab is a single browser tab.
type Tab struct {
	ID    string
	Title string
	URL   string
}

// TabGroup is a snapshot of a named, colored collection of tabs.
type TabGroup struct {
	ID       string
	Label    string
	Color    Color
	TabIDs   []string // member tabs in strip order
	WindowID string   // owning window
}

// Validate checks the fields a provider relies on. An empty label is
// allowed; unnamed groups exist.
func (g TabGroup) Validate() error {
	if g.ID == "" {
		return fmt.Errorf("%w: missing id", ErrInvalidGroup)
	}
	if g.WindowID == "" {
		return fmt.Errorf("%w: group %s has no owning window", ErrInvalidGroup, g.ID)
	}
	if !g.Color.Valid() {
		return fmt.Errorf("%w: group %s has unknown color %q", ErrInvalidGroup, g.ID, g.Color)
	}
	return nil
}

// FirstTabID returns the id of the group's first tab.
func (g TabGroup) FirstTabID() (string, bool) {
	if len(g.TabIDs) == 0 {
		return "", false
	}
	return g.TabIDs[0], true
}

func (g TabGroup) clone() TabGroup {
	g.TabIDs = slices.Clone(g.TabIDs)
	return g
}

// Window is a snapshot of a browser window.
type Window struct {
	ID            string
	Tabs          []Tab
	Groups        []TabGroup // in tab strip order
	SelectedTabID string
}

// TabGroups returns the window's groups in tab strip order.
func (w Window) TabGroups() []TabGroup {
	return w.Groups
}

// Tab returns the tab with the given id.
func (w Window) Tab(id string) (Tab, bool) {
	for _, tab := range w.Tabs {
		if tab.ID == id {
			return tab, true
		}
	}
	return Tab{}, false
}

func (w Window) clone() Window {
	w.Tabs = slices.Clone(w.Tabs)
	groups := make([]TabGroup, len(w.Groups))
	for i, g := range w.Groups {
		groups[i] = g.clone()
	}
	w.Groups = groups
	return w
}

// Package providers contains the quick action providers shipped with
// tabgroups.
package providers

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/atinylittleshell/tabgroups/internal/browser"
	"github.com/atinylittleshell/tabgroups/internal/config"
	"github.com/atinylittleshell/tabgroups/internal/urlbar"
	"go.uber.org/zap"
)

const (
	// TabGroupsProviderName is the name the provider registers under.
	TabGroupsProviderName = "ActionsProviderTabGroups"

	// TabGroupsIcon is the icon shown next to tab group results.
	TabGroupsIcon = "chrome://browser/skin/tabbrowser/tab-groups.svg"

	// TabGroupsL10nID is the localization id of tab group results.
	TabGroupsL10nID = "urlbar-result-action-search-tabgroups"

	// MaxTabGroupSearchLength is the exclusive upper bound on the trimmed
	// query length.
	MaxTabGroupSearchLength = 50

	// ActionSelectGroupTab is the kind of SelectGroupTab actions.
	ActionSelectGroupTab urlbar.ActionKind = "select-group-tab"
)

// ErrUnsupportedAction is returned by OnPick for actions the provider did
// not produce.
var ErrUnsupportedAction = errors.New("unsupported action")

// SelectGroupTab switches a window to the first tab of a group and
// focuses it.
type SelectGroupTab struct {
	GroupID  string
	WindowID string
}

// Kind implements urlbar.Action.
func (SelectGroupTab) Kind() urlbar.ActionKind { return ActionSelectGroupTab }

// FeatureFlags looks up experiment feature flags.
type FeatureFlags interface {
	FeatureEnabled(feature string) bool
}

// Prefs looks up preferences.
type Prefs interface {
	GetInt(key string) (int, error)
}

// WindowTracker gives access to the foreground window.
type WindowTracker interface {
	TopWindow() (browser.Window, bool)
}

// GroupSelector switches to a tab group.
type GroupSelector interface {
	SelectGroup(groupID string) error
}

// TabGroupsProvider offers the tab groups of the foreground window whose
// label starts with the typed text.
type TabGroupsProvider struct {
	features FeatureFlags
	prefs    Prefs
	windows  WindowTracker
	selector GroupSelector
	logger   *zap.Logger
}

// TabGroupsProviderConfig holds configuration for creating a TabGroupsProvider.
type TabGroupsProviderConfig struct {
	// Features and Prefs are read on every IsActive call. A nil value
	// keeps the provider inactive.
	Features FeatureFlags
	Prefs    Prefs

	// Windows supplies the foreground window's tab groups.
	Windows WindowTracker

	// Selector performs the tab switch when a result is picked.
	Selector GroupSelector

	// Logger for debug output. If nil, a no-op logger is used.
	Logger *zap.Logger
}

// NewTabGroupsProvider creates a new TabGroupsProvider.
func NewTabGroupsProvider(cfg TabGroupsProviderConfig) *TabGroupsProvider {
	logger := cfg.Logger
	if logger == nil {
		logger = zap.NewNop()
	}

	return &TabGroupsProvider{
		features: cfg.Features,
		prefs:    cfg.Prefs,
		windows:  cfg.Windows,
		selector: cfg.Selector,
		logger:   logger,
	}
}

// Name implements urlbar.ActionsProvider.
func (p *TabGroupsProvider) Name() string {
	return TabGroupsProviderName
}

// IsActive implements urlbar.ActionsProvider. A missing or invalid
// minimum length preference makes the provider inactive.
func (p *TabGroupsProvider) IsActive(qc *urlbar.QueryContext) bool {
	if qc == nil || p.features == nil || p.prefs == nil {
		return false
	}
	if !p.features.FeatureEnabled(config.FeatureTabGroups) {
		return false
	}
	if qc.InSearchMode() {
		return false
	}

	length := qc.TrimmedLength()
	if length >= MaxTabGroupSearchLength {
		return false
	}

	minLength, err := p.prefs.GetInt(config.PrefTabGroupsMinSearchLength)
	if err != nil || minLength < 0 {
		p.logger.Debug("tab group search misconfigured",
			zap.Int("minSearchLength", minLength),
			zap.Error(err))
		return false
	}
	return length >= minLength
}

// QueryActions implements urlbar.ActionsProvider. Results follow the
// window's group order.
func (p *TabGroupsProvider) QueryActions(ctx context.Context, qc *urlbar.QueryContext) ([]urlbar.ActionsResult, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	results := make([]urlbar.ActionsResult, 0)
	if p.windows == nil || qc == nil {
		return results, nil
	}

	window, ok := p.windows.TopWindow()
	if !ok {
		p.logger.Debug("no foreground window for tab group search")
		return results, nil
	}

	input := qc.TrimmedLowerCaseSearchString
	for _, group := range window.TabGroups() {
		if group.ID == "" || group.WindowID == "" {
			p.logger.Debug("skipping tab group without id or window",
				zap.String("group", group.ID),
				zap.String("window", group.WindowID))
			continue
		}

		label := strings.ToLower(group.Label)
		if !strings.HasPrefix(label, input) {
			continue
		}

		results = append(results, urlbar.ActionsResult{
			ProviderName: TabGroupsProviderName,
			Key:          label,
			Icon:         TabGroupsIcon,
			L10nID:       TabGroupsL10nID,
			L10nArgs:     map[string]string{"group": group.Label},
			Dataset:      map[string]string{"color": string(group.Color)},
			Action: SelectGroupTab{
				GroupID:  group.ID,
				WindowID: group.WindowID,
			},
		})
	}

	return results, nil
}

// OnPick implements urlbar.Picker.
func (p *TabGroupsProvider) OnPick(ctx context.Context, result urlbar.ActionsResult) error {
	switch action := result.Action.(type) {
	case SelectGroupTab:
		return p.selectGroup(action)
	default:
		return fmt.Errorf("%w: %T", ErrUnsupportedAction, result.Action)
	}
}

func (p *TabGroupsProvider) selectGroup(action SelectGroupTab) error {
	if p.selector == nil {
		return errors.New("no group selector configured")
	}
	if err := p.selector.SelectGroup(action.GroupID); err != nil {
		return fmt.Errorf("failed to select tab group %s: %w", action.GroupID, err)
	}
	return nil
}

package browser

import (
	"fmt"
	"os"

	"go.uber.org/zap"
	"gopkg.in/yaml.v3"
)

// snapshotFile is the on-disk layout of a session snapshot.
type snapshotFile struct {
	Windows []snapshotWindow `yaml:"windows"`
}

type snapshotWindow struct {
	ID       string          `yaml:"id"`
	Selected string          `yaml:"selected"`
	Tabs     []snapshotTab   `yaml:"tabs"`
	Groups   []snapshotGroup `yaml:"groups"`
}

type snapshotTab struct {
	ID    string `yaml:"id"`
	Title string `yaml:"title"`
	URL   string `yaml:"url"`
}

type snapshotGroup struct {
	ID    string   `yaml:"id"`
	Label string   `yaml:"label"`
	Color string   `yaml:"color"`
	Tabs  []string `yaml:"tabs"`
}

// ParseSnapshot decodes a YAML snapshot into window values. The first
// window listed is the foreground window.
func ParseSnapshot(data []byte) ([]Window, error) {
	var sf snapshotFile
	if err := yaml.Unmarshal(data, &sf); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidSnapshot, err)
	}

	windows := make([]Window, 0, len(sf.Windows))
	for _, sw := range sf.Windows {
		w := Window{
			ID:            sw.ID,
			SelectedTabID: sw.Selected,
			Tabs:          make([]Tab, 0, len(sw.Tabs)),
			Groups:        make([]TabGroup, 0, len(sw.Groups)),
		}
		for _, st := range sw.Tabs {
			w.Tabs = append(w.Tabs, Tab(st))
		}
		for _, sg := range sw.Groups {
			w.Groups = append(w.Groups, TabGroup{
				ID:       sg.ID,
				Label:    sg.Label,
				Color:    Color(sg.Color),
				TabIDs:   sg.Tabs,
				WindowID: sw.ID,
			})
		}
		windows = append(windows, w)
	}

	if err := ValidateWindows(windows); err != nil {
		return nil, err
	}
	return windows, nil
}

// LoadSnapshotFile reads a snapshot file and builds a Session from it.
func LoadSnapshotFile(path string, logger *zap.Logger) (*Session, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read snapshot: %w", err)
	}

	windows, err := ParseSnapshot(data)
	if err != nil {
		return nil, fmt.Errorf("failed to parse snapshot %s: %w", path, err)
	}

	return NewSession(windows, logger)
}

package core

import (
	"os"
	"path/filepath"
)

type Paths struct {
	HomeDir      string
	DataDir      string
	LogFile      string
	HistoryFile  string
	ConfigFile   string
	SnapshotFile string
}

var defaultPaths *Paths

func ensureDefaultPaths() {
	if defaultPaths == nil {
		homeDir, err := os.UserHomeDir()
		if err != nil {
			panic(err)
		}

		dataDir := filepath.Join(homeDir, ".tabgroups")
		if override := os.Getenv("TABGROUPS_DATA_DIR"); override != "" {
			dataDir = override
		}

		defaultPaths = &Paths{
			HomeDir:      homeDir,
			DataDir:      dataDir,
			LogFile:      filepath.Join(dataDir, "tabgroups.log"),
			HistoryFile:  filepath.Join(dataDir, "picks.db"),
			ConfigFile:   filepath.Join(dataDir, "config.yaml"),
			SnapshotFile: filepath.Join(dataDir, "session.yaml"),
		}

		err = os.MkdirAll(defaultPaths.DataDir, 0755)
		if err != nil {
			panic(err)
		}
	}
}

func HomeDir() string {
	ensureDefaultPaths()
	return defaultPaths.HomeDir
}

func DataDir() string {
	ensureDefaultPaths()
	return defaultPaths.DataDir
}

func LogFile() string {
	ensureDefaultPaths()
	return defaultPaths.LogFile
}

func HistoryFile() string {
	ensureDefaultPaths()
	return defaultPaths.HistoryFile
}

func ConfigFile() string {
	ensureDefaultPaths()
	return defaultPaths.ConfigFile
}

func SnapshotFile() string {
	ensureDefaultPaths()
	return defaultPaths.SnapshotFile
}

// ResetPaths clears the cached paths, forcing them to be reinitialized.
// This is primarily used for testing purposes.
func ResetPaths() {
	defaultPaths = nil
}

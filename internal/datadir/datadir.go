// Package datadir provides constants and helpers for the ~/.todo directory layout.
package datadir

import (
	"os"
	"path/filepath"
)

const (
	// Dir is the name of the todo state directory.
	Dir = ".todo"

	// DefaultConfigFile is the config file name, both inside Dir and in a project.
	DefaultConfigFile = "todo.toml"

	// HiddenConfigFile is the alternative project config file name.
	HiddenConfigFile = ".todo.toml"

	// LogsDir is the log directory name inside Dir.
	LogsDir = "logs"

	// AppName names the directory used under the OS config directory.
	AppName = "todo"
)

// Home returns ~/.todo, or Dir relative to the working directory when the
// home directory cannot be determined.
func Home() string {
	home, err := os.UserHomeDir()
	if err != nil || home == "" {
		return Dir
	}
	return filepath.Join(home, Dir)
}

// ConfigPath returns the config file path within a data directory.
func ConfigPath(dataDir string) string {
	return joinPath(dataDir, DefaultConfigFile)
}

// LogPath returns the log directory within a data directory.
func LogPath(dataDir string) string {
	return joinPath(dataDir, LogsDir)
}

// SlotPath returns the JSON file used by the file backend for key.
func SlotPath(dataDir, key string) string {
	return joinPath(dataDir, key+".json")
}

func joinPath(dataDir, file string) string {
	if dataDir == "" {
		dataDir = "."
	}
	return filepath.Join(dataDir, file)
}

package config

import (
	"github.com/nibzard/todo-go/internal/datadir"
	"github.com/nibzard/todo-go/internal/storage"
	"github.com/nibzard/todo-go/internal/todo"
)

// ConfigSource represents where a configuration value came from.
type ConfigSource string

const (
	SourceDefault  ConfigSource = "default"
	SourceUserFile ConfigSource = "user file"
	SourceProjFile ConfigSource = "project file"
	SourceEnv      ConfigSource = "environment"
	SourceFlag     ConfigSource = "flag"
)

// ConfigWithSources holds configuration along with source information for each field.
type ConfigWithSources struct {
	Config  *Config
	Sources map[string]ConfigSource

	// Files lists the config files that were read, lowest priority first.
	Files []string
}

// Default values.
const (
	DefaultDataDir        = "~/" + datadir.Dir
	DefaultLogDir         = "~/" + datadir.Dir + "/" + datadir.LogsDir
	DefaultBackend        = storage.KindFile
	DefaultStorageKey     = storage.DefaultKey
	DefaultIDScheme       = todo.IDSchemeUUID
	DefaultSuccessDelayMS = 500
	DefaultLogLevel       = "info"
	DefaultLogFormat      = "text"
)

// Config holds the full configuration for todo.
type Config struct {
	// Storage
	DataDir    string `toml:"data_dir"`
	Backend    string `toml:"backend"`
	StorageKey string `toml:"storage_key"`
	StrictLoad bool   `toml:"strict_load"`

	// Ids for new tasks: uuid or sequence
	IDScheme string `toml:"id_scheme"`

	// How long the form shows its success message
	SuccessDelayMS int `toml:"success_delay_ms"`

	// Logging configuration
	LogDir        string `toml:"log_dir"`
	LogLevel      string `toml:"log_level"`
	LogFormat     string `toml:"log_format"`
	LogTimestamps bool   `toml:"log_timestamps"`
	LogCaller     bool   `toml:"log_caller"`

	// Project root (computed)
	ProjectRoot string `toml:"-"`
}

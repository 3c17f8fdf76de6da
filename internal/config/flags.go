package config

import (
	"flag"
)

// flagFields maps global flag names to config field names.
var flagFields = map[string]string{
	"data-dir":       "data_dir",
	"backend":        "backend",
	"key":            "storage_key",
	"strict":         "strict_load",
	"id-scheme":      "id_scheme",
	"success-delay":  "success_delay_ms",
	"log-dir":        "log_dir",
	"log-level":      "log_level",
	"log-format":     "log_format",
	"log-timestamps": "log_timestamps",
	"log-caller":     "log_caller",
}

// parseFlags defines the global flags on fs, parses args and applies every
// flag that was set explicitly. When sources is non-nil the applied flags are
// recorded as SourceFlag.
func parseFlags(cfg *Config, fs *flag.FlagSet, args []string, sources map[string]ConfigSource) error {
	if fs == nil {
		fs = flag.NewFlagSet("todo", flag.ContinueOnError)
	}

	// Flags parse into a copy so that defaults shown by -help reflect the
	// layered config and unset flags do not clobber it.
	v := *cfg

	// Storage
	fs.StringVar(&v.DataDir, "data-dir", cfg.DataDir, "Data directory")
	fs.StringVar(&v.Backend, "backend", cfg.Backend, "Storage backend (file, sqlite, memory)")
	fs.StringVar(&v.StorageKey, "key", cfg.StorageKey, "Storage slot key")
	fs.BoolVar(&v.StrictLoad, "strict", cfg.StrictLoad, "Fail on an unreadable slot instead of starting empty")
	fs.StringVar(&v.IDScheme, "id-scheme", cfg.IDScheme, "Id scheme for new tasks (uuid, sequence)")
	fs.IntVar(&v.SuccessDelayMS, "success-delay", cfg.SuccessDelayMS, "Form success message delay (milliseconds)")

	// Logging
	fs.StringVar(&v.LogDir, "log-dir", cfg.LogDir, "Log directory")
	fs.StringVar(&v.LogLevel, "log-level", cfg.LogLevel, "Log level (debug, info, warn, error)")
	fs.StringVar(&v.LogFormat, "log-format", cfg.LogFormat, "Log format (text, json, logfmt)")
	fs.BoolVar(&v.LogTimestamps, "log-timestamps", cfg.LogTimestamps, "Show timestamps in logs")
	fs.BoolVar(&v.LogCaller, "log-caller", cfg.LogCaller, "Show caller location in logs")

	if err := fs.Parse(args); err != nil {
		return err
	}

	// Apply only the flags that were set
	fs.Visit(func(f *flag.Flag) {
		field, ok := flagFields[f.Name]
		if !ok {
			return
		}
		applyField(cfg, &v, field)
		if sources != nil {
			sources[field] = SourceFlag
		}
	})

	return nil
}

// applyField copies one named field from src to dst.
func applyField(dst, src *Config, field string) {
	switch field {
	case "data_dir":
		dst.DataDir = src.DataDir
	case "backend":
		dst.Backend = src.Backend
	case "storage_key":
		dst.StorageKey = src.StorageKey
	case "strict_load":
		dst.StrictLoad = src.StrictLoad
	case "id_scheme":
		dst.IDScheme = src.IDScheme
	case "success_delay_ms":
		dst.SuccessDelayMS = src.SuccessDelayMS
	case "log_dir":
		dst.LogDir = src.LogDir
	case "log_level":
		dst.LogLevel = src.LogLevel
	case "log_format":
		dst.LogFormat = src.LogFormat
	case "log_timestamps":
		dst.LogTimestamps = src.LogTimestamps
	case "log_caller":
		dst.LogCaller = src.LogCaller
	}
}

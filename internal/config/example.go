package config

// ExampleConfig returns an example configuration showing all available options.
func ExampleConfig() string {
	return `# todo configuration file
# Values can be overridden by TODO_* environment variables or CLI flags

# Where tasks are stored (supports ~ expansion and %VAR% on Windows)
data_dir = "~/.todo"

# Storage backend: file (<data_dir>/<storage_key>.json), sqlite (<data_dir>/todo.db) or memory
backend = "file"

# Slot key the task list is stored under
storage_key = "todos"

# Fail instead of starting empty when the stored list cannot be read
strict_load = false

# Ids for new tasks: uuid or sequence (millisecond timestamps)
id_scheme = "uuid"

# How long the form shows its success message
success_delay_ms = 500

# Logging
log_dir = "~/.todo/logs"
log_level = "info"      # debug, info, warn, error
log_format = "text"     # text, json, logfmt
log_timestamps = false
log_caller = false
`
}

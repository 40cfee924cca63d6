// Package config handles tasklanes board configuration.
package config

const (
	// DefaultDir is the default board directory name.
	DefaultDir = ".tasklanes"
	// DefaultStatus is the default lane for new tasks.
	DefaultStatus = "Available"
	// DefaultBackend is the default storage backend.
	DefaultBackend = "file"
	// DefaultKey is the default storage key for the task list.
	DefaultKey = "tasks"
	// DefaultLogLevel is the default logrus level.
	DefaultLogLevel = "info"
	// DefaultLogFile is the log file name inside the board directory.
	DefaultLogFile = "tasklanes.log"
	// DefaultBodyLines is the default number of description lines on TUI cards.
	DefaultBodyLines = 2
	// DefaultHTMLTitle is the default heading of the HTML board.
	DefaultHTMLTitle = "Task Lanes"

	// ConfigFileName is the name of the config file within the board directory.
	ConfigFileName = "config.yml"

	// CurrentVersion is the current config schema version.
	CurrentVersion = 2
)

// Package output formats command results as a table, JSON or one line per task.
package output

import (
	"os"
	"strings"
)

// EnvVar selects the default output format when no flag is given.
const EnvVar = "TASKLANES_OUTPUT"

// Format represents an output format.
type Format int

const (
	FormatTable Format = iota
	FormatJSON
	FormatCompact
)

func (f Format) String() string {
	switch f {
	case FormatJSON:
		return "json"
	case FormatCompact:
		return "compact"
	default:
		return "table"
	}
}

// ParseFormat maps a format name to a Format. "oneline" is an alias of compact.
func ParseFormat(s string) (Format, bool) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "json":
		return FormatJSON, true
	case "compact", "oneline":
		return FormatCompact, true
	case "table":
		return FormatTable, true
	}
	return FormatTable, false
}

// Detect picks the format from the flags, then TASKLANES_OUTPUT, then table.
// When several flags are set JSON wins over compact, compact over table.
func Detect(jsonFlag, tableFlag, compactFlag bool) Format {
	switch {
	case jsonFlag:
		return FormatJSON
	case compactFlag:
		return FormatCompact
	case tableFlag:
		return FormatTable
	}
	f, _ := ParseFormat(os.Getenv(EnvVar))
	return f
}

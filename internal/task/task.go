// Package task defines the task record and its status lanes.
package task

import (
	"encoding/json"
	"fmt"
	"strings"
)

// Task is a unit of work shown in one of the three status lanes.
// ID, Name and Description never change after creation; only Status does.
type Task struct {
	ID          int    `json:"id" yaml:"id"`
	Name        string `json:"name" yaml:"name"`
	Description string `json:"description,omitempty" yaml:"description,omitempty"`
	Status      Status `json:"status" yaml:"status"`
}

// Status is one of the three fixed lanes. The string value is the wire literal
// written to durable storage.
type Status string

const (
	StatusAvailable  Status = "Available"
	StatusInProgress Status = "In Progress"
	StatusDone       Status = "Done"
)

// Statuses returns the lanes in display order.
func Statuses() []Status {
	return []Status{StatusAvailable, StatusInProgress, StatusDone}
}

// StatusNames returns the wire literals of all lanes in display order.
func StatusNames() []string {
	names := make([]string, 0, 3) //nolint:mnd // three lanes
	for _, s := range Statuses() {
		names = append(names, string(s))
	}
	return names
}

// IsValid reports whether s is one of the three lanes.
func (s Status) IsValid() bool {
	switch s {
	case StatusAvailable, StatusInProgress, StatusDone:
		return true
	}
	return false
}

// Index returns the lane position of s, or -1 for an unknown status.
func (s Status) Index() int {
	for i, st := range Statuses() {
		if st == s {
			return i
		}
	}
	return -1
}

// Slug returns a lowercase identifier for s, used for CSS classes and CLI output.
func (s Status) Slug() string {
	switch s {
	case StatusAvailable:
		return "available"
	case StatusInProgress:
		return "in-progress"
	case StatusDone:
		return "done"
	}
	return "unknown"
}

func (s Status) String() string { return string(s) }

// Next returns the lane after s and false when s is the last lane.
func (s Status) Next() (Status, bool) {
	i := s.Index()
	if i < 0 || i >= len(Statuses())-1 {
		return s, false
	}
	return Statuses()[i+1], true
}

// Prev returns the lane before s and false when s is the first lane.
func (s Status) Prev() (Status, bool) {
	i := s.Index()
	if i <= 0 {
		return s, false
	}
	return Statuses()[i-1], true
}

// statusAliases maps lowercase user input to lanes.
var statusAliases = map[string]Status{
	"available":   StatusAvailable,
	"todo":        StatusAvailable,
	"in progress": StatusInProgress,
	"in-progress": StatusInProgress,
	"inprogress":  StatusInProgress,
	"doing":       StatusInProgress,
	"done":        StatusDone,
}

// ParseStatus resolves user input to a lane. It accepts the wire literal and
// the lowercase aliases used on the command line.
func ParseStatus(s string) (Status, error) {
	if st := Status(s); st.IsValid() {
		return st, nil
	}
	if st, ok := statusAliases[strings.ToLower(strings.TrimSpace(s))]; ok {
		return st, nil
	}
	return "", ValidateStatus(Status(s))
}

// UnmarshalJSON rejects values outside the three lanes.
func (s *Status) UnmarshalJSON(data []byte) error {
	var raw string
	if err := json.Unmarshal(data, &raw); err != nil {
		return fmt.Errorf("decoding status: %w", err)
	}
	st := Status(raw)
	if !st.IsValid() {
		return fmt.Errorf("unknown status %q", raw)
	}
	*s = st
	return nil
}

package task

import (
	"strings"

	"github.com/twiced-technology-gmbh/tasklanes/internal/clierr"
)

// ValidateName checks that a task name is non-empty after trimming.
func ValidateName(name string) error {
	if strings.TrimSpace(name) == "" {
		return clierr.New(clierr.InvalidName, "task name is required").
			WithDetails(map[string]any{"name": name})
	}
	return nil
}

// ValidateStatus checks that a status is one of the three lanes.
func ValidateStatus(status Status) error {
	if status.IsValid() {
		return nil
	}
	return clierr.Newf(clierr.InvalidStatus, "invalid status %q", string(status)).
		WithDetails(map[string]any{
			"status":  string(status),
			"allowed": StatusNames(),
		})
}

// ValidateTaskID returns a CLIError for invalid task ID input.
func ValidateTaskID(input string) *clierr.Error {
	return clierr.Newf(clierr.InvalidTaskID, "invalid task ID %q", input).
		WithDetails(map[string]any{"input": input})
}

// NotFound returns a CLIError for a missing task.
func NotFound(id int) *clierr.Error {
	return clierr.Newf(clierr.TaskNotFound, "task not found: #%d", id).
		WithDetails(map[string]any{"id": id})
}

// ValidateBoundary returns a CLIError when a task cannot move past the first or last lane.
func ValidateBoundary(id int, status Status, direction string) *clierr.Error {
	return clierr.Newf(clierr.BoundaryError,
		"task #%d is already at the %s lane (%s)", id, direction, status).
		WithDetails(map[string]any{
			"id":        id,
			"status":    string(status),
			"direction": direction,
		})
}

// Validate checks a task read from storage: positive ID, non-empty name, known status.
func Validate(t Task) error {
	if t.ID < 1 {
		return clierr.Newf(clierr.InvalidTaskID, "invalid task ID %d", t.ID).
			WithDetails(map[string]any{"id": t.ID})
	}
	if err := ValidateName(t.Name); err != nil {
		return err
	}
	return ValidateStatus(t.Status)
}

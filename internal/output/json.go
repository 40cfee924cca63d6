package output

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"

	"github.com/twiced-technology-gmbh/tasklanes/internal/clierr"
	"github.com/twiced-technology-gmbh/tasklanes/internal/task"
)

// JSON writes data as indented JSON.
func JSON(w io.Writer, data any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(data); err != nil {
		return fmt.Errorf("encoding JSON: %w", err)
	}
	return nil
}

// TaskList is the JSON shape of 'tasklanes list'.
type TaskList struct {
	Count int         `json:"count"`
	Tasks []task.Task `json:"tasks"`
}

// TaskListJSON writes tasks wrapped in a TaskList. A nil slice is written as [].
func TaskListJSON(w io.Writer, tasks []task.Task) error {
	if tasks == nil {
		tasks = []task.Task{}
	}
	return JSON(w, TaskList{Count: len(tasks), Tasks: tasks})
}

// ErrorResponse is the JSON envelope for structured error output.
type ErrorResponse struct {
	Error   string         `json:"error"`
	Code    string         `json:"code"`
	Details map[string]any `json:"details,omitempty"`
}

// JSONError writes err as an ErrorResponse and returns the process exit code.
// Errors without a code are reported as INTERNAL_ERROR.
func JSONError(w io.Writer, err error) int {
	var cliErr *clierr.Error
	if !errors.As(err, &cliErr) {
		cliErr = clierr.New(clierr.InternalError, err.Error())
	}
	resp := ErrorResponse{Error: cliErr.Message, Code: cliErr.Code, Details: cliErr.Details}
	_ = JSON(w, resp) // nothing left to report a broken stdout to
	return cliErr.ExitCode()
}

// BatchResult is the outcome of one ID in a batch move or delete.
type BatchResult struct {
	ID    int    `json:"id"`
	OK    bool   `json:"ok"`
	Error string `json:"error,omitempty"`
	Code  string `json:"code,omitempty"`
}

// NewBatchResult records the outcome of the operation on id.
func NewBatchResult(id int, err error) BatchResult {
	if err == nil {
		return BatchResult{ID: id, OK: true}
	}
	r := BatchResult{ID: id, Error: err.Error()}
	var cliErr *clierr.Error
	if errors.As(err, &cliErr) {
		r.Error = cliErr.Message
		r.Code = cliErr.Code
	}
	return r
}

package store

import (
	"encoding/json"
	"fmt"

	"github.com/twiced-technology-gmbh/tasklanes/internal/task"
)

// RecordWarning describes a stored record that was skipped while decoding.
type RecordWarning struct {
	Index int // position in the stored array
	ID    int // 0 when the record has no readable id
	Err   error
}

// Encode serializes tasks as a JSON array. A nil slice encodes as [].
func Encode(tasks []task.Task) ([]byte, error) {
	if tasks == nil {
		tasks = []task.Task{}
	}
	data, err := json.Marshal(tasks)
	if err != nil {
		return nil, fmt.Errorf("encoding tasks: %w", err)
	}
	return data, nil
}

// Decode parses a stored JSON array of tasks. A value that is not a JSON
// array is an error. Individual records that fail to decode or validate, or
// that repeat an earlier ID, are skipped and reported as warnings.
func Decode(data []byte) ([]task.Task, []RecordWarning, error) {
	var raw []json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, nil, fmt.Errorf("parsing tasks: %w", err)
	}

	tasks := make([]task.Task, 0, len(raw))
	var warnings []RecordWarning
	seen := make(map[int]bool, len(raw))
	for i, r := range raw {
		var t task.Task
		if err := json.Unmarshal(r, &t); err != nil {
			warnings = append(warnings, RecordWarning{Index: i, ID: rawID(r), Err: err})
			continue
		}
		if err := task.Validate(t); err != nil {
			warnings = append(warnings, RecordWarning{Index: i, ID: max(t.ID, 0), Err: err})
			continue
		}
		if seen[t.ID] {
			warnings = append(warnings, RecordWarning{Index: i, ID: t.ID, Err: fmt.Errorf("duplicate task ID %d", t.ID)})
			continue
		}
		seen[t.ID] = true
		tasks = append(tasks, t)
	}
	return tasks, warnings, nil
}

// rawID pulls the id out of a record that failed to decode as a task.
func rawID(r json.RawMessage) int {
	var v struct {
		ID int `json:"id"`
	}
	if json.Unmarshal(r, &v) != nil || v.ID < 0 {
		return 0
	}
	return v.ID
}

// nextIDAfter returns one greater than the highest ID in tasks, or 1.
func nextIDAfter(tasks []task.Task) int {
	highest := 0
	for _, t := range tasks {
		highest = max(highest, t.ID)
	}
	return highest + 1
}

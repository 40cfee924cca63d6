// Package board provides board-level operations on task collections.
package board

import (
	"slices"
	"strings"

	"github.com/twiced-technology-gmbh/tasklanes/internal/task"
)

// FilterOptions defines which tasks to include.
type FilterOptions struct {
	Statuses        []task.Status
	ExcludeStatuses []task.Status
	Search          string // case-insensitive substring match across name and description
}

// Filter returns tasks matching all specified criteria (AND logic).
func Filter(tasks []task.Task, opts FilterOptions) []task.Task {
	result := make([]task.Task, 0, len(tasks))
	for _, t := range tasks {
		if matchesFilter(t, opts) {
			result = append(result, t)
		}
	}
	return result
}

func matchesFilter(t task.Task, opts FilterOptions) bool {
	if len(opts.Statuses) > 0 && !slices.Contains(opts.Statuses, t.Status) {
		return false
	}
	if slices.Contains(opts.ExcludeStatuses, t.Status) {
		return false
	}
	if opts.Search != "" && !matchesSearch(t, opts.Search) {
		return false
	}
	return true
}

func matchesSearch(t task.Task, query string) bool {
	q := strings.ToLower(query)
	return strings.Contains(strings.ToLower(t.Name), q) ||
		strings.Contains(strings.ToLower(t.Description), q)
}

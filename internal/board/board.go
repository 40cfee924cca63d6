package board

import (
	"strconv"
	"strings"

	"github.com/twiced-technology-gmbh/tasklanes/internal/clierr"
	"github.com/twiced-technology-gmbh/tasklanes/internal/task"
	"github.com/twiced-technology-gmbh/tasklanes/internal/view"
)

// ListOptions controls how tasks are listed.
type ListOptions struct {
	Filter  FilterOptions
	SortBy  string
	Reverse bool
	Limit   int
}

// Lister is the read side of the task store.
type Lister interface {
	List() []task.Task
}

// List reads the current tasks, applies filters and sorting.
func List(src Lister, opts ListOptions) []task.Task {
	tasks := Filter(src.List(), opts.Filter)

	sortField := opts.SortBy
	if sortField == "" {
		sortField = fieldID
	}
	Sort(tasks, sortField, opts.Reverse)

	if opts.Limit > 0 && len(tasks) > opts.Limit {
		tasks = tasks[:opts.Limit]
	}
	return tasks
}

// LaneSummary holds the count for a single lane.
type LaneSummary struct {
	Status task.Status `json:"status"`
	Count  int         `json:"count"`
}

// Overview is the aggregate board overview.
type Overview struct {
	BoardName  string        `json:"board_name"`
	TotalTasks int           `json:"total_tasks"`
	Lanes      []LaneSummary `json:"lanes"`
}

// Summary computes per-lane counts from all tasks.
func Summary(name string, tasks []task.Task) Overview {
	lanes := view.Partition(tasks)
	summaries := make([]LaneSummary, 0, len(lanes))
	for _, l := range lanes {
		summaries = append(summaries, LaneSummary{Status: l.Status, Count: len(l.Tasks)})
	}
	return Overview{
		BoardName:  name,
		TotalTasks: lanes.Total(),
		Lanes:      summaries,
	}
}

// ParseIDs splits a comma-separated ID string into deduplicated int IDs.
func ParseIDs(arg string) ([]int, error) {
	parts := strings.Split(arg, ",")
	seen := make(map[int]bool, len(parts))
	ids := make([]int, 0, len(parts))
	for _, p := range parts {
		p = strings.TrimSpace(p)
		if p == "" {
			continue
		}
		id, err := strconv.Atoi(p)
		if err != nil || id < 1 {
			return nil, task.ValidateTaskID(p)
		}
		if !seen[id] {
			ids = append(ids, id)
			seen[id] = true
		}
	}
	if len(ids) == 0 {
		return nil, clierr.New(clierr.InvalidTaskID, "no valid task IDs provided")
	}
	return ids, nil
}

package board

import (
	"sort"
	"strings"

	"github.com/twiced-technology-gmbh/tasklanes/internal/task"
)

const (
	fieldID     = "id"
	fieldName   = "name"
	fieldStatus = "status"
)

// SortFields returns the accepted sort keys.
func SortFields() []string {
	return []string{fieldID, fieldName, fieldStatus}
}

// Sort sorts tasks by the given field. Status sorts in lane order, not
// alphabetically.
func Sort(tasks []task.Task, field string, reverse bool) {
	sort.SliceStable(tasks, func(i, j int) bool {
		if reverse {
			return compareTasks(tasks[j], tasks[i], field)
		}
		return compareTasks(tasks[i], tasks[j], field)
	})
}

func compareTasks(a, b task.Task, field string) bool {
	switch field {
	case fieldName:
		return strings.ToLower(a.Name) < strings.ToLower(b.Name)
	case fieldStatus:
		return a.Status.Index() < b.Status.Index()
	default:
		return a.ID < b.ID
	}
}

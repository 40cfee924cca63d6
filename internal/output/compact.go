package output

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/twiced-technology-gmbh/tasklanes/internal/board"
	"github.com/twiced-technology-gmbh/tasklanes/internal/task"
)

// TaskCompact renders a list of tasks in one-line-per-record compact format.
func TaskCompact(w, errW io.Writer, tasks []task.Task) {
	if len(tasks) == 0 {
		fmt.Fprintln(errW, "No tasks found.")
		return
	}

	for _, t := range tasks {
		fmt.Fprintln(w, formatTaskLine(t))
	}
}

// TaskDetailCompact renders a single task with its description in compact format.
func TaskDetailCompact(w io.Writer, t task.Task) {
	fmt.Fprintln(w, formatTaskLine(t))
	if t.Description != "" {
		for _, line := range strings.Split(t.Description, "\n") {
			fmt.Fprintln(w, "  "+line)
		}
	}
}

// OverviewCompact renders a board summary in compact format.
func OverviewCompact(w io.Writer, s board.Overview) {
	fmt.Fprintf(w, "%s (%d tasks)\n", s.BoardName, s.TotalTasks)
	for _, l := range s.Lanes {
		fmt.Fprintln(w, "  "+string(l.Status)+": "+strconv.Itoa(l.Count))
	}
}

func formatTaskLine(t task.Task) string {
	return "#" + strconv.Itoa(t.ID) + " [" + t.Status.Slug() + "] " + t.Name
}

// Package view projects the task list onto the three status lanes.
//
// Renderer is the read side of the store: it subscribes as an observer and,
// on every update, rebuilds each lane's content region and counter region from
// scratch. It holds no state beyond those regions.
package view

import "github.com/twiced-technology-gmbh/tasklanes/internal/task"

// Lane is the ordered set of tasks sharing one status.
type Lane struct {
	Status task.Status
	Tasks  []task.Task
}

// Lanes holds one Lane per status, in display order.
type Lanes []Lane

// Partition splits tasks by status, keeping list order within each lane.
// Tasks with an unknown status belong to no lane.
func Partition(tasks []task.Task) Lanes {
	statuses := task.Statuses()
	lanes := make(Lanes, len(statuses))
	for i, s := range statuses {
		lanes[i] = Lane{Status: s}
	}
	for _, t := range tasks {
		if i := t.Status.Index(); i >= 0 {
			lanes[i].Tasks = append(lanes[i].Tasks, t)
		}
	}
	return lanes
}

// Lane returns the lane for status, or an empty lane for an unknown status.
func (l Lanes) Lane(status task.Status) Lane {
	for _, lane := range l {
		if lane.Status == status {
			return lane
		}
	}
	return Lane{Status: status}
}

// Count returns the number of tasks in the lane for status.
func (l Lanes) Count(status task.Status) int {
	return len(l.Lane(status).Tasks)
}

// Total returns the number of tasks across all lanes.
func (l Lanes) Total() int {
	n := 0
	for _, lane := range l {
		n += len(lane.Tasks)
	}
	return n
}

package view

import (
	"fmt"
	"strconv"

	"github.com/twiced-technology-gmbh/tasklanes/internal/task"
)

// Renderer redraws per-lane regions from the full task list. It implements
// store.Observer.
type Renderer struct {
	targets map[task.Status]Targets
}

// NewRenderer returns a Renderer drawing into targets, which must hold a
// content and a counter region for every status.
func NewRenderer(targets map[task.Status]Targets) (*Renderer, error) {
	for _, s := range task.Statuses() {
		t, ok := targets[s]
		if !ok || t.Content == nil || t.Counter == nil {
			return nil, fmt.Errorf("missing render targets for lane %q", s)
		}
	}
	return &Renderer{targets: targets}, nil
}

// OnUpdate rebuilds every lane: the content region gets the placeholder or
// one card per task, the counter region gets the lane size.
func (r *Renderer) OnUpdate(tasks []task.Task) {
	for _, lane := range Partition(tasks) {
		t := r.targets[lane.Status]
		t.Content.Set(RenderLane(lane))
		t.Counter.Set(strconv.Itoa(len(lane.Tasks)))
	}
}

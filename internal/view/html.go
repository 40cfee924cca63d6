package view

import (
	"bytes"
	"html/template"
	"strings"

	"github.com/twiced-technology-gmbh/tasklanes/internal/task"
)

// EmptyLaneText is shown in a lane without tasks.
const EmptyLaneText = "No tasks"

// DeleteConfirmText is attached to delete controls for the confirmation prompt.
const DeleteConfirmText = "Delete this task?"

// html/template escapes every interpolated value for its context, so names
// and descriptions can never inject markup.
var (
	cardTmpl = template.Must(template.New("card").Parse(`<div class="task-card" data-id="{{.ID}}">
  <div class="task-title">{{.Name}}</div>
{{- if .Description}}
  <div class="task-desc">{{.Description}}</div>
{{- end}}
  <div class="task-status {{.Status.Slug}}">{{.Status}}</div>
  <div class="task-buttons">
{{- range .Actions}}
    <button class="btn-status{{if .Active}} active{{end}}" data-action="set-status" data-id="{{$.ID}}" data-status="{{.Status}}">{{.Status}}</button>
{{- end}}
    <button class="btn-delete" data-action="delete" data-id="{{.ID}}" data-confirm="{{$.Confirm}}">Delete</button>
  </div>
</div>`))

	emptyTmpl = template.Must(template.New("empty").Parse(
		`<div class="empty-msg">{{.}}</div>`))
)

type cardAction struct {
	Status task.Status
	Active bool
}

type cardData struct {
	task.Task
	Actions []cardAction
	Confirm string
}

// RenderCard renders one task card with its status badge and action controls.
func RenderCard(t task.Task) string {
	data := cardData{Task: t, Confirm: DeleteConfirmText}
	for _, s := range task.Statuses() {
		data.Actions = append(data.Actions, cardAction{Status: s, Active: s == t.Status})
	}
	return execute(cardTmpl, data)
}

// RenderLane renders the content of one lane: the placeholder when the lane
// is empty, otherwise its cards in order.
func RenderLane(lane Lane) string {
	if len(lane.Tasks) == 0 {
		return execute(emptyTmpl, EmptyLaneText)
	}
	cards := make([]string, 0, len(lane.Tasks))
	for _, t := range lane.Tasks {
		cards = append(cards, RenderCard(t))
	}
	return strings.Join(cards, "\n")
}

// execute runs a template whose inputs are fully controlled by this package,
// so a failure is a programming error.
func execute(t *template.Template, data any) string {
	var buf bytes.Buffer
	if err := t.Execute(&buf, data); err != nil {
		panic("view: executing " + t.Name() + ": " + err.Error())
	}
	return buf.String()
}

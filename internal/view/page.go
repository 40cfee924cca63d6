package view

import (
	"bytes"
	"fmt"
	"html/template"
	"os"
	"path/filepath"

	log "github.com/sirupsen/logrus"

	"github.com/twiced-technology-gmbh/tasklanes/internal/task"
)

const pageFileMode = 0o644

var pageTmpl = template.Must(template.New("page").Parse(`<!DOCTYPE html>
<html lang="en">
<head>
<meta charset="utf-8">
<title>{{.Title}}</title>
<style>
body { font-family: sans-serif; margin: 1.5rem; background: #f4f5f7; }
.lanes { display: grid; grid-template-columns: repeat(3, 1fr); gap: 1rem; }
.lane { background: #ebecf0; border-radius: 6px; padding: .75rem; }
.lane h2 { font-size: 1rem; margin: 0 0 .75rem; }
.task-card { background: #fff; border-radius: 4px; padding: .5rem; margin-bottom: .5rem; box-shadow: 0 1px 1px rgba(0,0,0,.15); }
.task-title { font-weight: bold; }
.task-desc { color: #555; margin-top: .25rem; white-space: pre-wrap; }
.task-status { display: inline-block; font-size: .75rem; padding: 0 .4rem; border-radius: 3px; margin-top: .25rem; }
.task-status.available { background: #dfe1e6; }
.task-status.in-progress { background: #deebff; }
.task-status.done { background: #e3fcef; }
.btn-status.active { font-weight: bold; }
.empty-msg { color: #888; font-style: italic; }
</style>
</head>
<body>
<h1>{{.Title}}</h1>
<div class="lanes">
{{- range .Lanes}}
<section class="lane" id="lane-{{.Slug}}">
<h2>{{.Status}} (<span class="count" id="count-{{.Slug}}">{{.Counter}}</span>)</h2>
<div class="tasks" id="tasks-{{.Slug}}">
{{.Content}}
</div>
</section>
{{- end}}
</div>
</body>
</html>
`))

type laneRegions struct {
	content MemoryRegion
	counter MemoryRegion
}

type pageLane struct {
	Status  task.Status
	Slug    string
	Counter string
	Content template.HTML
}

type pageData struct {
	Title string
	Lanes []pageLane
}

// PageWriter renders a complete HTML board into a file after every update.
// It implements store.Observer by driving a Renderer over in-memory regions
// and composing them into one document.
type PageWriter struct {
	path     string
	title    string
	regions  map[task.Status]*laneRegions
	renderer *Renderer
	log      log.FieldLogger
}

// NewPageWriter returns a PageWriter writing to path.
func NewPageWriter(path, title string, logger log.FieldLogger) *PageWriter {
	if logger == nil {
		logger = log.StandardLogger()
	}
	regions := make(map[task.Status]*laneRegions, len(task.Statuses()))
	targets := make(map[task.Status]Targets, len(task.Statuses()))
	for _, s := range task.Statuses() {
		r := &laneRegions{}
		regions[s] = r
		targets[s] = Targets{Content: &r.content, Counter: &r.counter}
	}
	// Every lane has both targets, so NewRenderer cannot fail here.
	renderer, _ := NewRenderer(targets)
	return &PageWriter{
		path:     path,
		title:    title,
		regions:  regions,
		renderer: renderer,
		log:      logger.WithField("html", path),
	}
}

// Path returns the output file.
func (w *PageWriter) Path() string {
	return w.path
}

// OnUpdate redraws the regions and rewrites the file. Write failures are
// logged; the board keeps working without the HTML copy.
func (w *PageWriter) OnUpdate(tasks []task.Task) {
	w.renderer.OnUpdate(tasks)
	if err := w.write(); err != nil {
		w.log.WithError(err).Error("writing HTML board")
		return
	}
	w.log.WithField("tasks", len(tasks)).Debug("HTML board written")
}

// Document returns the HTML document for the last update.
func (w *PageWriter) Document() string {
	data := pageData{Title: w.title}
	for _, s := range task.Statuses() {
		r := w.regions[s]
		data.Lanes = append(data.Lanes, pageLane{
			Status:  s,
			Slug:    s.Slug(),
			Counter: r.counter.Content(),
			// Region content is produced by the card templates and already escaped.
			Content: template.HTML(r.content.Content()), //nolint:gosec // escaped by RenderLane
		})
	}
	var buf bytes.Buffer
	if err := pageTmpl.Execute(&buf, data); err != nil {
		panic("view: executing page: " + err.Error())
	}
	return buf.String()
}

func (w *PageWriter) write() error {
	dir := filepath.Dir(w.path)
	tmp, err := os.CreateTemp(dir, ".board-*.html")
	if err != nil {
		return fmt.Errorf("creating temp file: %w", err)
	}
	tmpName := tmp.Name()
	if _, err := tmp.WriteString(w.Document()); err != nil {
		_ = tmp.Close()
		_ = os.Remove(tmpName)
		return fmt.Errorf("writing temp file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		_ = os.Remove(tmpName)
		return fmt.Errorf("closing temp file: %w", err)
	}
	if err := os.Chmod(tmpName, pageFileMode); err != nil {
		_ = os.Remove(tmpName)
		return fmt.Errorf("setting file mode: %w", err)
	}
	if err := os.Rename(tmpName, w.path); err != nil {
		_ = os.Remove(tmpName)
		return fmt.Errorf("replacing %s: %w", w.path, err)
	}
	return nil
}

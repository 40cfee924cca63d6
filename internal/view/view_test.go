package view

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/PuerkitoBio/goquery"
	"github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/twiced-technology-gmbh/tasklanes/internal/task"
)

type lanesUnderTest struct {
	regions  map[task.Status]*struct{ content, counter MemoryRegion }
	renderer *Renderer
}

func newLanesUnderTest(t *testing.T) *lanesUnderTest {
	t.Helper()
	l := &lanesUnderTest{regions: make(map[task.Status]*struct{ content, counter MemoryRegion })}
	targets := make(map[task.Status]Targets)
	for _, s := range task.Statuses() {
		r := &struct{ content, counter MemoryRegion }{}
		l.regions[s] = r
		targets[s] = Targets{Content: &r.content, Counter: &r.counter}
	}
	r, err := NewRenderer(targets)
	require.NoError(t, err)
	l.renderer = r
	return l
}

func (l *lanesUnderTest) doc(t *testing.T, s task.Status) *goquery.Document {
	t.Helper()
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(l.regions[s].content.Content()))
	require.NoError(t, err)
	return doc
}

func TestPartition(t *testing.T) {
	tasks := []task.Task{
		{ID: 1, Name: "a", Status: task.StatusDone},
		{ID: 2, Name: "b", Status: task.StatusAvailable},
		{ID: 3, Name: "c", Status: task.StatusDone},
		{ID: 4, Name: "d", Status: "Bogus"},
	}
	lanes := Partition(tasks)
	require.Len(t, lanes, 3)
	assert.Equal(t, task.StatusAvailable, lanes[0].Status)
	assert.Equal(t, 1, lanes.Count(task.StatusAvailable))
	assert.Equal(t, 0, lanes.Count(task.StatusInProgress))
	assert.Equal(t, []task.Task{tasks[0], tasks[2]}, lanes.Lane(task.StatusDone).Tasks, "list order kept")
	assert.Equal(t, 3, lanes.Total())
	assert.Empty(t, lanes.Lane("Bogus").Tasks)
}

func TestNewRendererRequiresAllTargets(t *testing.T) {
	var content, counter MemoryRegion
	_, err := NewRenderer(map[task.Status]Targets{
		task.StatusAvailable:  {Content: &content, Counter: &counter},
		task.StatusInProgress: {Content: &content, Counter: &counter},
	})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "Done")

	_, err = NewRenderer(map[task.Status]Targets{
		task.StatusAvailable:  {Content: &content, Counter: &counter},
		task.StatusInProgress: {Content: &content, Counter: &counter},
		task.StatusDone:       {Content: &content},
	})
	assert.Error(t, err)
}

func TestRendererEmptyLanes(t *testing.T) {
	l := newLanesUnderTest(t)
	l.renderer.OnUpdate(nil)

	for _, s := range task.Statuses() {
		assert.Equal(t, "0", l.regions[s].counter.Content())
		doc := l.doc(t, s)
		assert.Equal(t, EmptyLaneText, doc.Find(".empty-msg").Text())
		assert.Equal(t, 0, doc.Find(".task-card").Length())
	}
}

func TestRendererCardsAndCounts(t *testing.T) {
	l := newLanesUnderTest(t)
	l.renderer.OnUpdate([]task.Task{
		{ID: 1, Name: "first", Description: "details", Status: task.StatusAvailable},
		{ID: 2, Name: "second", Status: task.StatusDone},
		{ID: 3, Name: "third", Status: task.StatusAvailable},
	})

	assert.Equal(t, "2", l.regions[task.StatusAvailable].counter.Content())
	assert.Equal(t, "0", l.regions[task.StatusInProgress].counter.Content())
	assert.Equal(t, "1", l.regions[task.StatusDone].counter.Content())

	doc := l.doc(t, task.StatusAvailable)
	cards := doc.Find(".task-card")
	require.Equal(t, 2, cards.Length())
	assert.Equal(t, "first", cards.Eq(0).Find(".task-title").Text())
	assert.Equal(t, "details", cards.Eq(0).Find(".task-desc").Text())
	assert.Equal(t, "third", cards.Eq(1).Find(".task-title").Text())
	assert.Equal(t, 0, cards.Eq(1).Find(".task-desc").Length(), "no description element when empty")
	assert.Equal(t, 0, doc.Find(".empty-msg").Length())

	assert.Equal(t, "Available", cards.Eq(0).Find(".task-status").Text())
	assert.True(t, cards.Eq(0).Find(".task-status").HasClass("available"))
}

func TestCardActions(t *testing.T) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(
		RenderCard(task.Task{ID: 7, Name: "x", Status: task.StatusInProgress})))
	require.NoError(t, err)

	buttons := doc.Find(`button[data-action="set-status"]`)
	require.Equal(t, 3, buttons.Length())
	var statuses []string
	buttons.Each(func(_ int, b *goquery.Selection) {
		id, _ := b.Attr("data-id")
		assert.Equal(t, "7", id)
		s, _ := b.Attr("data-status")
		statuses = append(statuses, s)
	})
	assert.Equal(t, task.StatusNames(), statuses)
	assert.Equal(t, "In Progress", doc.Find("button.active").Text())

	del := doc.Find(`button[data-action="delete"]`)
	require.Equal(t, 1, del.Length())
	confirm, _ := del.Attr("data-confirm")
	assert.Equal(t, DeleteConfirmText, confirm)
}

func TestRendererEscapesUserText(t *testing.T) {
	l := newLanesUnderTest(t)
	name := `<script>alert("x")</script>`
	desc := `<img src=x onerror=alert(1)> & "quotes"`
	l.renderer.OnUpdate([]task.Task{{ID: 1, Name: name, Description: desc, Status: task.StatusAvailable}})

	raw := l.regions[task.StatusAvailable].content.Content()
	assert.NotContains(t, raw, "<script>")
	assert.NotContains(t, raw, "<img")
	assert.Contains(t, raw, "&lt;script&gt;")

	doc := l.doc(t, task.StatusAvailable)
	assert.Equal(t, 0, doc.Find("script").Length())
	assert.Equal(t, 0, doc.Find("img").Length())
	assert.Equal(t, name, doc.Find(".task-title").Text(), "text survives escaping")
	assert.Equal(t, desc, doc.Find(".task-desc").Text())
}

func TestRendererRebuildsFromScratch(t *testing.T) {
	l := newLanesUnderTest(t)
	l.renderer.OnUpdate([]task.Task{{ID: 1, Name: "a", Status: task.StatusAvailable}})
	l.renderer.OnUpdate([]task.Task{{ID: 2, Name: "b", Status: task.StatusDone}})

	avail := l.doc(t, task.StatusAvailable)
	assert.Equal(t, 0, avail.Find(".task-card").Length())
	assert.Equal(t, EmptyLaneText, avail.Find(".empty-msg").Text())
	assert.Equal(t, "0", l.regions[task.StatusAvailable].counter.Content())

	first := l.regions[task.StatusDone].content.Content()
	l.renderer.OnUpdate([]task.Task{{ID: 2, Name: "b", Status: task.StatusDone}})
	assert.Equal(t, first, l.regions[task.StatusDone].content.Content(), "idempotent")
	assert.Equal(t, 3, l.regions[task.StatusDone].content.Sets())
}

func TestPageWriter(t *testing.T) {
	logger, hook := test.NewNullLogger()
	path := filepath.Join(t.TempDir(), "board.html")
	w := NewPageWriter(path, "My <Board>", logger)
	assert.Equal(t, path, w.Path())

	w.OnUpdate([]task.Task{
		{ID: 1, Name: "a & b", Status: task.StatusInProgress},
		{ID: 2, Name: "c", Status: task.StatusInProgress},
	})
	assert.Empty(t, hook.AllEntries())

	f, err := os.Open(path)
	require.NoError(t, err)
	defer f.Close()
	doc, err := goquery.NewDocumentFromReader(f)
	require.NoError(t, err)

	assert.Equal(t, "My <Board>", doc.Find("title").Text())
	assert.Equal(t, "0", doc.Find("#count-available").Text())
	assert.Equal(t, "2", doc.Find("#count-in-progress").Text())
	assert.Equal(t, "0", doc.Find("#count-done").Text())
	assert.Equal(t, EmptyLaneText, doc.Find("#tasks-done .empty-msg").Text())
	assert.Equal(t, "a & b", doc.Find("#tasks-in-progress .task-title").First().Text())
	assert.Equal(t, 2, doc.Find("#tasks-in-progress .task-card").Length())
}

func TestPageWriterLogsWriteErrors(t *testing.T) {
	logger, hook := test.NewNullLogger()
	path := filepath.Join(t.TempDir(), "missing", "board.html")
	w := NewPageWriter(path, "Board", logger)

	w.OnUpdate(nil)
	entry := hook.LastEntry()
	require.NotNil(t, entry)
	assert.Equal(t, "writing HTML board", entry.Message)
	assert.Contains(t, w.Document(), EmptyLaneText, "document still rendered")
}

package tui

import (
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/x/ansi"
	"github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/twiced-technology-gmbh/tasklanes/internal/clierr"
	"github.com/twiced-technology-gmbh/tasklanes/internal/storage"
	"github.com/twiced-technology-gmbh/tasklanes/internal/store"
	"github.com/twiced-technology-gmbh/tasklanes/internal/task"
)

func runes(s string) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func newTestBoard(t *testing.T, opts Options) (*Board, *store.Store, *storage.MemoryBackend) {
	t.Helper()
	logger, _ := test.NewNullLogger()
	backend := storage.NewMemoryBackend()
	st := store.New(backend, store.DefaultKey, logger)
	b := NewBoard(st, opts)
	t.Cleanup(b.Close)
	b.Update(tea.WindowSizeMsg{Width: 120, Height: 40})
	return b, st, backend
}

func press(b *Board, msgs ...tea.Msg) {
	for _, m := range msgs {
		b.Update(m)
	}
}

func TestNewBoardDefaults(t *testing.T) {
	b, _, _ := newTestBoard(t, Options{Name: "Home"})
	assert.Equal(t, task.StatusAvailable, b.opts.DefaultStatus)
	require.Len(t, b.columns, 3)
	assert.Equal(t, task.StatusInProgress, b.columns[1].status)
}

func TestViewLoadingBeforeSize(t *testing.T) {
	logger, _ := test.NewNullLogger()
	b := NewBoard(store.New(storage.NewMemoryBackend(), "", logger), Options{})
	defer b.Close()
	assert.Equal(t, "Loading...", b.View())
}

func TestViewEmptyBoard(t *testing.T) {
	b, _, _ := newTestBoard(t, Options{Name: "Home"})
	view := ansi.Strip(b.View())

	assert.Contains(t, view, "Available (0)")
	assert.Contains(t, view, "In Progress (0)")
	assert.Contains(t, view, "Done (0)")
	assert.Contains(t, view, EmptyColumnText)
	assert.Contains(t, view, "Home | 0 tasks")
}

func TestCreateFromForm(t *testing.T) {
	b, st, _ := newTestBoard(t, Options{})

	press(b, runes("n"))
	require.Equal(t, screenCreate, b.screen)
	assert.Contains(t, ansi.Strip(b.View()), "New task")

	press(b, runes("Buy milk"), tea.KeyMsg{Type: tea.KeyEnter})

	assert.Equal(t, screenBoard, b.screen)
	assert.Nil(t, b.form)
	tasks := st.List()
	require.Len(t, tasks, 1)
	assert.Equal(t, "Buy milk", tasks[0].Name)
	assert.Equal(t, task.StatusAvailable, tasks[0].Status)

	require.Len(t, b.tasks, 1, "board notified by the store")
	sel, ok := b.selectedTask()
	require.True(t, ok)
	assert.Equal(t, tasks[0].ID, sel.ID)

	view := ansi.Strip(b.View())
	assert.Contains(t, view, "Available (1)")
	assert.Contains(t, view, "#1 Buy milk")
	assert.Contains(t, view, "[Available]")
}

func TestCreateWithEmptyNameKeepsFormOpen(t *testing.T) {
	b, st, _ := newTestBoard(t, Options{})

	press(b, runes("n"), runes("   "), tea.KeyMsg{Type: tea.KeyEnter})

	assert.Equal(t, screenCreate, b.screen)
	require.NotNil(t, b.form)
	require.Error(t, b.form.err)
	assert.True(t, clierr.HasCode(b.form.err, clierr.InvalidName))
	assert.Empty(t, st.List())
	assert.Contains(t, ansi.Strip(b.View()), "task name is required")

	press(b, tea.KeyMsg{Type: tea.KeyEsc})
	assert.Equal(t, screenBoard, b.screen)
	assert.Empty(t, st.List())
}

func TestCreateFormStatusAndDescription(t *testing.T) {
	b, st, _ := newTestBoard(t, Options{DefaultStatus: task.StatusInProgress})

	press(b,
		runes("n"),
		runes("Report"),
		tea.KeyMsg{Type: tea.KeyTab},
		runes("first draft"),
		tea.KeyMsg{Type: tea.KeyEnter}, // newline in the description, not submit
	)
	require.Equal(t, screenCreate, b.screen)
	assert.True(t, b.form.descriptionFocused())

	press(b,
		tea.KeyMsg{Type: tea.KeyTab},
		runes("l"),
		tea.KeyMsg{Type: tea.KeyCtrlS},
	)

	tasks := st.List()
	require.Len(t, tasks, 1)
	assert.Equal(t, "Report", tasks[0].Name)
	assert.Equal(t, "first draft", tasks[0].Description)
	assert.Equal(t, task.StatusDone, tasks[0].Status)
}

func TestStatusKeys(t *testing.T) {
	b, st, _ := newTestBoard(t, Options{})
	a, err := st.Create("A", "", task.StatusAvailable)
	require.NoError(t, err)

	press(b, runes("2"))
	got, _ := st.Get(a.ID)
	assert.Equal(t, task.StatusInProgress, got.Status)
	assert.Equal(t, 1, b.activeCol, "selection follows the task")

	press(b, runes(">"))
	got, _ = st.Get(a.ID)
	assert.Equal(t, task.StatusDone, got.Status)

	press(b, runes(">"))
	got, _ = st.Get(a.ID)
	assert.Equal(t, task.StatusDone, got.Status, "already in the last lane")

	press(b, runes("<"), runes("<"))
	got, _ = st.Get(a.ID)
	assert.Equal(t, task.StatusAvailable, got.Status)
	assert.Equal(t, 0, b.activeCol)

	press(b, runes("3"))
	got, _ = st.Get(a.ID)
	assert.Equal(t, task.StatusDone, got.Status)
}

func TestStatusKeysWithoutSelection(t *testing.T) {
	b, st, _ := newTestBoard(t, Options{})
	press(b, runes("3"), runes(">"), runes("d"), tea.KeyMsg{Type: tea.KeyEnter})
	assert.Equal(t, screenBoard, b.screen)
	assert.Empty(t, st.List())
}

func TestNavigation(t *testing.T) {
	b, st, _ := newTestBoard(t, Options{})
	_, _ = st.Create("A", "", task.StatusAvailable)
	second, _ := st.Create("B", "", task.StatusAvailable)
	done, _ := st.Create("C", "", task.StatusDone)

	press(b, runes("j"))
	sel, _ := b.selectedTask()
	assert.Equal(t, second.ID, sel.ID)

	press(b, runes("l"))
	_, ok := b.selectedTask()
	assert.False(t, ok, "In Progress lane is empty")

	press(b, runes("l"))
	sel, _ = b.selectedTask()
	assert.Equal(t, done.ID, sel.ID)
}

func TestDeleteConfirmation(t *testing.T) {
	b, st, _ := newTestBoard(t, Options{})
	a, _ := st.Create("Old task", "", task.StatusAvailable)

	press(b, runes("d"))
	require.Equal(t, screenConfirmDelete, b.screen)
	assert.Contains(t, ansi.Strip(b.View()), "#1: Old task")

	press(b, runes("n"))
	assert.Equal(t, screenBoard, b.screen)
	assert.Len(t, st.List(), 1)

	press(b, runes("d"), runes("y"))
	assert.Equal(t, screenBoard, b.screen)
	assert.Empty(t, st.List())
	assert.Empty(t, b.tasks)

	_, err := st.Get(a.ID)
	assert.True(t, clierr.HasCode(err, clierr.TaskNotFound))
}

func TestDetailScreen(t *testing.T) {
	b, st, _ := newTestBoard(t, Options{})
	_, _ = st.Create("Inspect me", "", task.StatusAvailable)

	press(b, tea.KeyMsg{Type: tea.KeyEnter})
	require.Equal(t, screenDetail, b.screen)
	view := ansi.Strip(b.View())
	assert.Contains(t, view, "#1 Inspect me")
	assert.Contains(t, view, "No description.")

	st.Delete(1)
	assert.Contains(t, ansi.Strip(b.View()), "Task no longer exists.")

	press(b, tea.KeyMsg{Type: tea.KeyEsc})
	assert.Equal(t, screenBoard, b.screen)
}

func TestReloadMsgPicksUpExternalChanges(t *testing.T) {
	b, _, backend := newTestBoard(t, Options{})
	logger, _ := test.NewNullLogger()
	other := store.New(backend, store.DefaultKey, logger)
	_, _ = other.Create("From CLI", "", task.StatusDone)

	assert.Empty(t, b.tasks)
	press(b, ReloadMsg{})
	require.Len(t, b.tasks, 1)
	assert.Contains(t, ansi.Strip(b.View()), "Done (1)")
}

func TestErrMsgShownInStatusBar(t *testing.T) {
	b, _, _ := newTestBoard(t, Options{})
	press(b, ErrMsg{Err: assert.AnError})
	assert.Contains(t, ansi.Strip(b.View()), "Error: "+assert.AnError.Error())
}

func TestCloseUnsubscribes(t *testing.T) {
	b, st, _ := newTestBoard(t, Options{})
	b.Close()
	_, _ = st.Create("A", "", task.StatusAvailable)
	assert.Empty(t, b.tasks)
}

func TestCardShowsSanitizedText(t *testing.T) {
	b, st, _ := newTestBoard(t, Options{BodyLines: 2})
	_, _ = st.Create("\x1b[2Jwipe", "line one\x1b]0;title\x07\nline two", task.StatusAvailable)

	view := b.View()
	assert.NotContains(t, view, "\x1b[2J")
	assert.NotContains(t, view, "\x1b]0;")
	plain := ansi.Strip(view)
	assert.Contains(t, plain, "wipe")
	assert.Contains(t, plain, "line one line two")
}

func TestBodyLinesZeroHidesDescription(t *testing.T) {
	b, st, _ := newTestBoard(t, Options{BodyLines: 0})
	_, _ = st.Create("A", "hidden text", task.StatusAvailable)
	assert.NotContains(t, ansi.Strip(b.View()), "hidden text")
}

func TestDoubleClickOpensDetail(t *testing.T) {
	b, st, _ := newTestBoard(t, Options{})
	_, _ = st.Create("Click me", "", task.StatusInProgress)
	now := time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC)
	b.SetNow(func() time.Time { return now })

	click := tea.MouseMsg{X: 45, Y: 2, Action: tea.MouseActionPress, Button: tea.MouseButtonLeft}
	press(b, click)
	assert.Equal(t, 1, b.activeCol)
	assert.Equal(t, screenBoard, b.screen)

	press(b, click)
	assert.Equal(t, screenDetail, b.screen)
}

func TestSanitize(t *testing.T) {
	assert.Equal(t, "red ok\nnext\t!", Sanitize("\x1b[31mred\x1b[0m\x07 ok\nnext\t!"))
	assert.Equal(t, "plain", Sanitize("plain\x00\x7f"))
	assert.Equal(t, "a b c", SanitizeLine("a\n b\tc "))
}

func TestWrapText(t *testing.T) {
	lines := wrapText("one two three four five six", 10, 2)
	require.Len(t, lines, 2)
	assert.Equal(t, "one two", lines[0])
	assert.LessOrEqual(t, len(lines[1]), 10)

	assert.Equal(t, []string{"short"}, wrapText("short", 10, 3))
}

func TestTruncate(t *testing.T) {
	assert.Equal(t, "hello", truncate("hello", 10))
	assert.Equal(t, "hello w...", truncate("hello world!", 10))
}

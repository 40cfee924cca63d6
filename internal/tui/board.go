// Package tui implements a terminal UI for tasklanes boards.
package tui

import (
	"time"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/twiced-technology-gmbh/tasklanes/internal/store"
	"github.com/twiced-technology-gmbh/tasklanes/internal/task"
	"github.com/twiced-technology-gmbh/tasklanes/internal/view"
)

// screen represents the current screen state.
type screen int

const (
	screenBoard screen = iota
	screenCreate
	screenConfirmDelete
	screenDetail
)

// Key and layout constants.
const (
	keyEsc   = "esc"
	keyEnter = "enter"

	boardChrome = 2 // blank line + status bar below the column area
	errorChrome = 1 // extra line when error toast is displayed

	doubleClickWindow = 500 * time.Millisecond
)

// Options configures a Board.
type Options struct {
	// Name is shown in the status bar.
	Name string
	// DefaultStatus preselects the lane in the create form.
	DefaultStatus task.Status
	// BodyLines limits description lines on a card. Zero hides descriptions.
	BodyLines int
}

// Board is the top-level bubbletea model. It observes the store and rebuilds
// its columns on every notification. Store calls must happen on the program
// goroutine; the watcher routes external changes there with ReloadMsg.
type Board struct {
	store     *store.Store
	sub       store.Subscription
	opts      Options
	tasks     []task.Task
	columns   []column
	activeCol int
	activeRow int
	screen    screen
	width     int
	height    int
	err       error
	now       func() time.Time

	form *createForm

	// Delete confirmation.
	deleteID   int
	deleteName string

	// Task shown in the detail screen.
	detailID int

	// Double-click tracking opens the detail screen.
	lastClickCol  int
	lastClickRow  int
	lastClickTime time.Time
}

// column groups tasks belonging to a single lane.
type column struct {
	status    task.Status
	tasks     []task.Task
	scrollOff int // first visible row index
}

// keyMap holds the board bindings.
type keyMap struct {
	Quit       key.Binding
	ForceQuit  key.Binding
	Left       key.Binding
	Right      key.Binding
	Up         key.Binding
	Down       key.Binding
	New        key.Binding
	Available  key.Binding
	InProgress key.Binding
	Done       key.Binding
	Prev       key.Binding
	Next       key.Binding
	Delete     key.Binding
	Detail     key.Binding
}

var keys = keyMap{
	Quit:       key.NewBinding(key.WithKeys("q", keyEsc), key.WithHelp("q", "quit")),
	ForceQuit:  key.NewBinding(key.WithKeys("ctrl+c")),
	Left:       key.NewBinding(key.WithKeys("h", "left")),
	Right:      key.NewBinding(key.WithKeys("l", "right")),
	Up:         key.NewBinding(key.WithKeys("k", "up")),
	Down:       key.NewBinding(key.WithKeys("j", "down")),
	New:        key.NewBinding(key.WithKeys("n"), key.WithHelp("n", "new")),
	Available:  key.NewBinding(key.WithKeys("1", "a"), key.WithHelp("1/2/3", "status")),
	InProgress: key.NewBinding(key.WithKeys("2", "p")),
	Done:       key.NewBinding(key.WithKeys("3", "f")),
	Prev:       key.NewBinding(key.WithKeys("<", ",")),
	Next:       key.NewBinding(key.WithKeys(">", "."), key.WithHelp("</>", "move")),
	Delete:     key.NewBinding(key.WithKeys("d", "D", "delete"), key.WithHelp("d", "del")),
	Detail:     key.NewBinding(key.WithKeys(keyEnter), key.WithHelp("enter", "detail")),
}

// NewBoard creates a Board over st and subscribes it to store updates.
func NewBoard(st *store.Store, opts Options) *Board {
	if !opts.DefaultStatus.IsValid() {
		opts.DefaultStatus = task.StatusAvailable
	}
	b := &Board{store: st, opts: opts, now: time.Now}
	b.OnUpdate(st.List())
	b.sub = st.Subscribe(b)
	return b
}

// Close unsubscribes the board from the store.
func (b *Board) Close() {
	b.store.Unsubscribe(b.sub)
}

// SetNow overrides the clock used for double-click detection (for testing).
func (b *Board) SetNow(fn func() time.Time) {
	b.now = fn
}

// OnUpdate implements store.Observer. The columns are rebuilt from scratch;
// the selection follows the selected task when it still exists.
func (b *Board) OnUpdate(tasks []task.Task) {
	selectedID := 0
	if t, ok := b.selectedTask(); ok {
		selectedID = t.ID
	}

	b.tasks = tasks
	lanes := view.Partition(tasks)
	cols := make([]column, len(lanes))
	for i, l := range lanes {
		cols[i] = column{status: l.Status, tasks: l.Tasks}
		if i < len(b.columns) {
			cols[i].scrollOff = b.columns[i].scrollOff
		}
	}
	b.columns = cols

	if selectedID != 0 && b.selectTask(selectedID) {
		return
	}
	b.clampRow()
}

// Init implements tea.Model.
func (b *Board) Init() tea.Cmd {
	return nil
}

// Update implements tea.Model.
func (b *Board) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return b.handleKey(msg)
	case tea.MouseMsg:
		return b.handleMouse(msg)
	case tea.WindowSizeMsg:
		b.width = msg.Width
		b.height = msg.Height
		if b.form != nil {
			b.form.setWidth(b.width)
		}
		b.ensureVisible()
		return b, nil
	case ReloadMsg:
		b.store.Reload()
		return b, nil
	case ErrMsg:
		b.err = msg.Err
		return b, nil
	}
	if b.screen == screenCreate && b.form != nil {
		return b, b.form.update(msg)
	}
	return b, nil
}

// View implements tea.Model.
func (b *Board) View() string {
	if b.width == 0 {
		return "Loading..."
	}

	switch b.screen {
	case screenCreate:
		return b.viewCreate()
	case screenConfirmDelete:
		return b.viewDeleteConfirm()
	case screenDetail:
		return b.viewDetail()
	default:
		return b.viewBoard()
	}
}

func (b *Board) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if key.Matches(msg, keys.ForceQuit) {
		return b, tea.Quit
	}

	switch b.screen {
	case screenBoard:
		return b.handleBoardKey(msg)
	case screenCreate:
		return b.handleCreateKey(msg)
	case screenConfirmDelete:
		return b.handleDeleteKey(msg)
	case screenDetail:
		return b.handleDetailKey(msg)
	}

	return b, nil
}

func (b *Board) handleBoardKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, keys.Quit):
		return b, tea.Quit
	case key.Matches(msg, keys.Left):
		if b.activeCol > 0 {
			b.activeCol--
			b.clampRow()
		}
	case key.Matches(msg, keys.Right):
		if b.activeCol < len(b.columns)-1 {
			b.activeCol++
			b.clampRow()
		}
	case key.Matches(msg, keys.Down):
		col := b.currentColumn()
		if col != nil && b.activeRow < len(col.tasks)-1 {
			b.activeRow++
			b.ensureVisible()
		}
	case key.Matches(msg, keys.Up):
		if b.activeRow > 0 {
			b.activeRow--
			b.ensureVisible()
		}
	case key.Matches(msg, keys.New):
		return b, b.openCreate()
	case key.Matches(msg, keys.Available):
		b.setSelectedStatus(task.StatusAvailable)
	case key.Matches(msg, keys.InProgress):
		b.setSelectedStatus(task.StatusInProgress)
	case key.Matches(msg, keys.Done):
		b.setSelectedStatus(task.StatusDone)
	case key.Matches(msg, keys.Prev):
		b.moveSelected(task.Status.Prev)
	case key.Matches(msg, keys.Next):
		b.moveSelected(task.Status.Next)
	case key.Matches(msg, keys.Delete):
		b.handleDeleteStart()
	case key.Matches(msg, keys.Detail):
		b.openDetail()
	}
	return b, nil
}

func (b *Board) openCreate() tea.Cmd {
	b.form = newCreateForm(b.opts.DefaultStatus, b.width)
	b.screen = screenCreate
	b.err = nil
	return b.form.focus()
}

func (b *Board) handleCreateKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case keyEsc:
		b.form = nil
		b.screen = screenBoard
		return b, nil
	case "ctrl+s":
		b.submitCreate()
		return b, nil
	case keyEnter:
		if !b.form.descriptionFocused() {
			b.submitCreate()
			return b, nil
		}
	}
	return b, b.form.handleKey(msg)
}

// submitCreate adds the task from the form. A validation error keeps the form
// open with the message shown.
func (b *Board) submitCreate() {
	name, description, status := b.form.values()
	t, err := b.store.Create(name, description, status)
	if err != nil {
		b.form.err = err
		return
	}
	b.form = nil
	b.screen = screenBoard
	b.selectTask(t.ID)
}

func (b *Board) setSelectedStatus(status task.Status) {
	t, ok := b.selectedTask()
	if !ok {
		return
	}
	if err := b.store.SetStatus(t.ID, status); err != nil {
		b.err = err
		return
	}
	b.err = nil
}

func (b *Board) moveSelected(step func(task.Status) (task.Status, bool)) {
	t, ok := b.selectedTask()
	if !ok {
		return
	}
	target, ok := step(t.Status)
	if !ok {
		return
	}
	b.setSelectedStatus(target)
}

func (b *Board) handleDeleteStart() {
	if t, ok := b.selectedTask(); ok {
		b.deleteID = t.ID
		b.deleteName = t.Name
		b.screen = screenConfirmDelete
	}
}

func (b *Board) handleDeleteKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "y", "Y":
		b.store.Delete(b.deleteID)
		b.screen = screenBoard
	case "n", "N", keyEsc, "q":
		b.screen = screenBoard
	}
	return b, nil
}

func (b *Board) openDetail() {
	if t, ok := b.selectedTask(); ok {
		b.detailID = t.ID
		b.screen = screenDetail
	}
}

func (b *Board) handleDetailKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case keyEsc, "q", keyEnter:
		b.screen = screenBoard
	}
	return b, nil
}

// handleMouse selects the clicked card; a double click opens its detail.
func (b *Board) handleMouse(msg tea.MouseMsg) (tea.Model, tea.Cmd) {
	if msg.Action != tea.MouseActionPress || msg.Button != tea.MouseButtonLeft {
		return b, nil
	}
	if b.screen != screenBoard {
		return b, nil
	}

	colWidth := b.columnWidth()
	clickedCol := msg.X / colWidth
	if clickedCol >= len(b.columns) {
		return b, nil
	}

	col := &b.columns[clickedCol]
	lineY := msg.Y - 1
	if lineY < 0 {
		b.activeCol = clickedCol
		b.clampRow()
		return b, nil
	}

	clickedRow := -1
	cardLine := 0
	for rowIdx := col.scrollOff; rowIdx < len(col.tasks); rowIdx++ {
		cardH := b.cardHeight(col.tasks[rowIdx], colWidth)
		if lineY < cardLine+cardH {
			clickedRow = rowIdx
			break
		}
		cardLine += cardH
	}

	if clickedRow < 0 {
		b.activeCol = clickedCol
		b.clampRow()
		return b, nil
	}

	now := b.now()
	isDoubleClick := clickedCol == b.lastClickCol &&
		clickedRow == b.lastClickRow &&
		now.Sub(b.lastClickTime) < doubleClickWindow

	b.activeCol = clickedCol
	b.activeRow = clickedRow
	b.lastClickCol = clickedCol
	b.lastClickRow = clickedRow
	b.lastClickTime = now
	b.ensureVisible()

	if isDoubleClick {
		b.openDetail()
	}

	return b, nil
}

func (b *Board) currentColumn() *column {
	if b.activeCol >= 0 && b.activeCol < len(b.columns) {
		return &b.columns[b.activeCol]
	}
	return nil
}

func (b *Board) selectedTask() (task.Task, bool) {
	col := b.currentColumn()
	if col == nil || len(col.tasks) == 0 {
		return task.Task{}, false
	}
	if b.activeRow >= 0 && b.activeRow < len(col.tasks) {
		return col.tasks[b.activeRow], true
	}
	return task.Task{}, false
}

// selectTask moves the cursor to the task with the given ID.
func (b *Board) selectTask(id int) bool {
	for ci, col := range b.columns {
		for ri, t := range col.tasks {
			if t.ID == id {
				b.activeCol = ci
				b.activeRow = ri
				b.ensureVisible()
				return true
			}
		}
	}
	return false
}

func (b *Board) findTask(id int) (task.Task, bool) {
	for _, t := range b.tasks {
		if t.ID == id {
			return t, true
		}
	}
	return task.Task{}, false
}

func (b *Board) clampRow() {
	col := b.currentColumn()
	if col == nil || len(col.tasks) == 0 {
		b.activeRow = 0
		return
	}
	if b.activeRow >= len(col.tasks) {
		b.activeRow = len(col.tasks) - 1
	}
	b.ensureVisible()
}

// chromeHeight returns the number of lines consumed by non-card elements below
// the column area: blank line + status bar (+ error line when an error is shown).
func (b *Board) chromeHeight() int {
	h := boardChrome
	if b.err != nil {
		h += errorChrome
	}
	return h
}

// visibleCardsForColumn returns the number of cards that fit in the column,
// accounting for scroll indicator lines that consume vertical space.
func (b *Board) visibleCardsForColumn(col *column, width int) int {
	budget := b.height - b.chromeHeight()
	if budget < 1 {
		return 1
	}

	// Always need 1 line for column header.
	avail := budget - 1

	if col.scrollOff > 0 {
		avail--
	}

	n := b.fitCardsInHeight(col, avail, width)

	if col.scrollOff+n < len(col.tasks) {
		n = max(b.fitCardsInHeight(col, avail-1, width), 1)
	}

	return n
}

// ensureVisible adjusts the active column's scroll offset so the
// selected row is within the visible window.
func (b *Board) ensureVisible() {
	col := b.currentColumn()
	if col == nil || b.height == 0 {
		return
	}
	w := b.columnWidth()

	for range len(col.tasks) + 1 {
		maxVis := b.visibleCardsForColumn(col, w)

		switch {
		case b.activeRow >= col.scrollOff+maxVis:
			col.scrollOff = b.activeRow - maxVis + 1
		case b.activeRow < col.scrollOff:
			col.scrollOff = b.activeRow
		default:
			return
		}
	}
}

func (b *Board) fitCardsInHeight(col *column, avail, width int) int {
	if len(col.tasks) == 0 || avail < 1 {
		return 1
	}

	used := 0
	count := 0
	for i := col.scrollOff; i < len(col.tasks); i++ {
		cardLines := b.cardHeight(col.tasks[i], width)
		if count > 0 && used+cardLines > avail {
			break
		}
		count++
		used += cardLines
		if used >= avail {
			break
		}
	}

	return max(count, 1)
}

// --- Messages ---

// ReloadMsg is sent by the file watcher to re-read the store from storage.
type ReloadMsg struct{}

// ErrMsg reports an error from outside the event loop, such as a watcher
// failure, in the status bar.
type ErrMsg struct{ Err error }

package output

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/charmbracelet/glamour"
	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"

	"github.com/twiced-technology-gmbh/tasklanes/internal/board"
	"github.com/twiced-technology-gmbh/tasklanes/internal/task"
)

var (
	headerStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("244"))
	dimStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("241"))

	// Lane colors aligned with the TUI column-header palette.
	statusStyles = map[task.Status]lipgloss.Style{
		task.StatusAvailable:  lipgloss.NewStyle().Foreground(lipgloss.Color("252")),
		task.StatusInProgress: lipgloss.NewStyle().Foreground(lipgloss.Color("33")),
		task.StatusDone:       lipgloss.NewStyle().Foreground(lipgloss.Color("34")),
	}

	colorEnabled = true
)

// DisableColor strips all styling from table output.
func DisableColor() {
	lipgloss.SetColorProfile(termenv.Ascii)
	headerStyle = lipgloss.NewStyle()
	dimStyle = lipgloss.NewStyle()
	statusStyles = map[task.Status]lipgloss.Style{}
	colorEnabled = false
}

// TaskTable renders a list of tasks as a formatted table.
func TaskTable(w, errW io.Writer, tasks []task.Task) {
	if len(tasks) == 0 {
		fmt.Fprintln(errW, "No tasks found.")
		return
	}

	const pad = 2
	idW, statusW, nameW := 4, 8, 6
	for _, t := range tasks {
		idW = max(idW, len(strconv.Itoa(t.ID))+pad)
		statusW = max(statusW, len(t.Status)+pad)
		nameW = max(nameW, min(lipgloss.Width(t.Name)+pad, 50)) //nolint:mnd // max name column width
	}

	header := fmt.Sprintf("%-*s %-*s %-*s %s",
		idW, "ID", statusW, "STATUS", nameW, "NAME", "DESCRIPTION")
	fmt.Fprintln(w, headerStyle.Render(strings.TrimRight(header, " ")))

	for _, t := range tasks {
		row := fmt.Sprintf("%-*d %s %s %s",
			idW, t.ID,
			padRight(styledStatus(t.Status), statusW),
			padRight(truncate(t.Name, 48), nameW), //nolint:mnd // max name width
			firstLineOrDash(t.Description))
		fmt.Fprintln(w, strings.TrimRight(row, " "))
	}
}

// TaskDetail renders a single task with full detail. The description is
// rendered as markdown when color is enabled.
func TaskDetail(w io.Writer, t task.Task) {
	titleLine := fmt.Sprintf("Task #%d: %s", t.ID, t.Name)
	fmt.Fprintln(w, lipgloss.NewStyle().Bold(true).Render(titleLine))
	fmt.Fprintln(w, strings.Repeat("─", lipgloss.Width(titleLine)))

	printField(w, "Status", styledStatus(t.Status))
	if next, ok := t.Status.Next(); ok {
		printField(w, "Next", string(next))
	}

	if t.Description != "" {
		fmt.Fprintln(w)
		fmt.Fprintln(w, RenderMarkdown(t.Description, 80)) //nolint:mnd // terminal width
	}
}

// RenderMarkdown renders s with glamour, falling back to the raw text when
// color is disabled or rendering fails.
func RenderMarkdown(s string, width int) string {
	if !colorEnabled {
		return s
	}
	r, err := glamour.NewTermRenderer(
		glamour.WithStandardStyle("dark"),
		glamour.WithWordWrap(width),
	)
	if err != nil {
		return s
	}
	out, err := r.Render(s)
	if err != nil {
		return s
	}
	return strings.TrimRight(out, "\n")
}

// OverviewTable renders a board summary as a formatted dashboard.
func OverviewTable(w io.Writer, s board.Overview) {
	fmt.Fprintln(w, lipgloss.NewStyle().Bold(true).Render(s.BoardName))
	fmt.Fprintf(w, "Total: %d tasks\n\n", s.TotalTasks)

	const statusColW = 16
	header := fmt.Sprintf("%-*s %6s", statusColW, "LANE", "COUNT")
	fmt.Fprintln(w, headerStyle.Render(header))

	for _, l := range s.Lanes {
		fmt.Fprintf(w, "%s %6d\n", padRight(styledStatus(l.Status), statusColW), l.Count)
	}
}

// Messagef prints a simple formatted message line.
func Messagef(w io.Writer, format string, args ...any) {
	fmt.Fprintf(w, format+"\n", args...)
}

func printField(w io.Writer, label, value string) {
	fmt.Fprintf(w, "  %-12s %s\n", label+":", value)
}

// padRight pads s with spaces to the given visible width, accounting for ANSI
// escape codes that are invisible but consume bytes.
func padRight(s string, width int) string {
	visible := lipgloss.Width(s)
	if visible >= width {
		return s
	}
	return s + strings.Repeat(" ", width-visible)
}

func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n-3]) + "..."
}

func firstLineOrDash(s string) string {
	line, _, _ := strings.Cut(s, "\n")
	if line == "" {
		return dimStyle.Render("--")
	}
	return truncate(line, 60) //nolint:mnd // max description width
}

func styledStatus(s task.Status) string {
	if st, ok := statusStyles[s]; ok {
		return st.Render(string(s))
	}
	return string(s)
}

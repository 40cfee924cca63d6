package tui

import (
	"strings"

	"github.com/charmbracelet/bubbles/textarea"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/twiced-technology-gmbh/tasklanes/internal/task"
)

type formField int

const (
	fieldName formField = iota
	fieldDescription
	fieldStatus
	fieldCount
)

const (
	nameCharLimit     = 200
	descriptionHeight = 4
	formMinWidth      = 20
	formMaxWidth      = 60
)

var (
	labelStyle       = lipgloss.NewStyle().Foreground(lipgloss.Color("244"))
	activeLabelStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("62")).Bold(true)
	selectedLane     = lipgloss.NewStyle().Foreground(lipgloss.Color("230")).Background(lipgloss.Color("62")).Padding(0, 1)
	otherLane        = lipgloss.NewStyle().Foreground(lipgloss.Color("244")).Padding(0, 1)
)

// createForm collects name, description and lane for a new task.
type createForm struct {
	name        textinput.Model
	description textarea.Model
	status      task.Status
	focused     formField
	err         error
}

func newCreateForm(status task.Status, width int) *createForm {
	name := textinput.New()
	name.Placeholder = "Task name"
	name.CharLimit = nameCharLimit
	name.Prompt = ""

	desc := textarea.New()
	desc.Placeholder = "Description (optional)"
	desc.ShowLineNumbers = false
	desc.SetHeight(descriptionHeight)

	f := &createForm{name: name, description: desc, status: status}
	f.setWidth(width)
	return f
}

func (f *createForm) setWidth(width int) {
	w := min(max(width-2*(dialogPadX+1), formMinWidth), formMaxWidth)
	f.name.Width = w
	f.description.SetWidth(w)
}

// focus gives keyboard focus to the current field.
func (f *createForm) focus() tea.Cmd {
	f.name.Blur()
	f.description.Blur()
	switch f.focused {
	case fieldName:
		return f.name.Focus()
	case fieldDescription:
		return f.description.Focus()
	}
	return nil
}

func (f *createForm) descriptionFocused() bool {
	return f.focused == fieldDescription
}

func (f *createForm) values() (name, description string, status task.Status) {
	return f.name.Value(), f.description.Value(), f.status
}

func (f *createForm) handleKey(msg tea.KeyMsg) tea.Cmd {
	switch msg.String() {
	case "tab":
		f.focused = (f.focused + 1) % fieldCount
		return f.focus()
	case "shift+tab":
		f.focused = (f.focused + fieldCount - 1) % fieldCount
		return f.focus()
	}

	if f.focused == fieldStatus {
		switch msg.String() {
		case "left", "h":
			if prev, ok := f.status.Prev(); ok {
				f.status = prev
			}
		case "right", "l", " ":
			if next, ok := f.status.Next(); ok {
				f.status = next
			}
		}
		return nil
	}

	return f.update(msg)
}

// update forwards a message to the focused input.
func (f *createForm) update(msg tea.Msg) tea.Cmd {
	var cmd tea.Cmd
	switch f.focused {
	case fieldName:
		f.name, cmd = f.name.Update(msg)
		f.err = nil
	case fieldDescription:
		f.description, cmd = f.description.Update(msg)
	}
	return cmd
}

func (f *createForm) label(field formField, text string) string {
	if f.focused == field {
		return activeLabelStyle.Render(text)
	}
	return labelStyle.Render(text)
}

func (f *createForm) view() string {
	var sb strings.Builder
	sb.WriteString(titleStyle.Render("New task"))
	sb.WriteString("\n\n")

	sb.WriteString(f.label(fieldName, "Name"))
	sb.WriteString("\n")
	sb.WriteString(f.name.View())
	sb.WriteString("\n\n")

	sb.WriteString(f.label(fieldDescription, "Description"))
	sb.WriteString("\n")
	sb.WriteString(f.description.View())
	sb.WriteString("\n\n")

	sb.WriteString(f.label(fieldStatus, "Status"))
	sb.WriteString("\n")
	lanes := make([]string, 0, len(task.Statuses()))
	for _, s := range task.Statuses() {
		if s == f.status {
			lanes = append(lanes, selectedLane.Render(string(s)))
		} else {
			lanes = append(lanes, otherLane.Render(string(s)))
		}
	}
	sb.WriteString(lipgloss.JoinHorizontal(lipgloss.Top, lanes...))
	sb.WriteString("\n\n")

	if f.err != nil {
		sb.WriteString(errorStyle.Render(f.err.Error()))
		sb.WriteString("\n")
	}
	sb.WriteString(dimStyle.Render("tab:next field  ←/→:status  enter:add  ctrl+s:add  esc:cancel"))
	return sb.String()
}

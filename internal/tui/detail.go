package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/glamour"
	"github.com/charmbracelet/x/ansi"
)

// Sanitize strips ANSI escape sequences and control characters from user
// text before it reaches the terminal. Newlines and tabs are kept.
func Sanitize(s string) string {
	s = ansi.Strip(s)
	return strings.Map(func(r rune) rune {
		switch {
		case r == '\n' || r == '\t':
			return r
		case r < 0x20 || r == 0x7f || (r >= 0x80 && r < 0xa0):
			return -1
		}
		return r
	}, s)
}

// SanitizeLine is Sanitize with line breaks and tabs folded into spaces.
func SanitizeLine(s string) string {
	return strings.Join(strings.Fields(Sanitize(s)), " ")
}

func (b *Board) viewDetail() string {
	t, ok := b.findTask(b.detailID)
	if !ok {
		return dialogStyle.Render(dimStyle.Render("Task no longer exists.") + "\n\n" +
			dimStyle.Render("esc:back"))
	}

	var sb strings.Builder
	sb.WriteString(titleStyle.Render(fmt.Sprintf("#%d %s", t.ID, Sanitize(t.Name))))
	sb.WriteString("\n")
	sb.WriteString(badge(t.Status))
	sb.WriteString("\n\n")

	if t.Description == "" {
		sb.WriteString(dimStyle.Render("No description."))
	} else {
		sb.WriteString(renderMarkdown(Sanitize(t.Description), b.detailWidth()))
	}
	sb.WriteString("\n\n")
	sb.WriteString(dimStyle.Render("esc:back"))

	return dialogStyle.Render(sb.String())
}

func (b *Board) detailWidth() int {
	const maxDetailWidth = 100
	return min(max(b.width-2*(dialogPadX+1), formMinWidth), maxDetailWidth)
}

// renderMarkdown renders the description with glamour, falling back to the
// plain text when rendering fails.
func renderMarkdown(s string, width int) string {
	r, err := glamour.NewTermRenderer(
		glamour.WithAutoStyle(),
		glamour.WithWordWrap(width),
	)
	if err != nil {
		return s
	}
	out, err := r.Render(s)
	if err != nil {
		return s
	}
	return strings.TrimSpace(out)
}

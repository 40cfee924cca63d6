package cmd

import (
	"context"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/twiced-technology-gmbh/tasklanes/internal/tui"
)

func runTUI(_ *cobra.Command, _ []string) error {
	s, err := openSession()
	if err != nil {
		return err
	}
	defer s.close() //nolint:errcheck // best-effort log close

	model := tui.NewBoard(s.store, tui.Options{
		Name:          s.cfg.Board.Name,
		DefaultStatus: s.cfg.DefaultStatus(),
		BodyLines:     s.cfg.BodyLines(),
	})
	defer model.Close()

	p := tea.NewProgram(model, tea.WithAltScreen(), tea.WithMouseCellMotion())

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	go startTUIWatcher(ctx, s, p)

	_, err = p.Run()
	return err
}

// startTUIWatcher forwards storage changes into the program loop, where the
// board reloads the store.
func startTUIWatcher(ctx context.Context, s *session, p *tea.Program) {
	err := watchStoreEvents(ctx, s, func() {
		p.Send(tui.ReloadMsg{})
	}, func(err error) {
		s.log.WithError(err).Warn("file watcher")
		p.Send(tui.ErrMsg{Err: err})
	})
	if err != nil {
		// Non-fatal: the TUI works without live refresh.
		s.log.WithError(err).Debug("live refresh disabled")
	}
}

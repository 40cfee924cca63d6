package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/twiced-technology-gmbh/tasklanes/internal/board"
	"github.com/twiced-technology-gmbh/tasklanes/internal/output"
	"github.com/twiced-technology-gmbh/tasklanes/internal/storage"
	"github.com/twiced-technology-gmbh/tasklanes/internal/store"
	"github.com/twiced-technology-gmbh/tasklanes/internal/task"
	"github.com/twiced-technology-gmbh/tasklanes/internal/watcher"
)

var flagWatch bool

var boardCmd = &cobra.Command{
	Use:     "board",
	Aliases: []string{"summary"},
	Short:   "Show board summary",
	Long: `Displays the number of tasks in each lane.

Use --watch to keep the display live-updating. The board re-renders automatically
whenever the task list changes on disk (e.g., from another terminal).
Press Ctrl+C to stop.`,
	RunE: runBoard,
}

func init() {
	rootCmd.AddCommand(boardCmd)
	boardCmd.Flags().BoolVarP(&flagWatch, "watch", "w", false, "live-update the board on file changes")
}

func runBoard(_ *cobra.Command, _ []string) error {
	s, err := openSession()
	if err != nil {
		return err
	}
	defer s.close() //nolint:errcheck // best-effort log close

	if err := renderBoard(s.cfg.Board.Name, s.store.List()); err != nil {
		return err
	}

	if !flagWatch {
		return nil
	}

	sub := s.store.Subscribe(store.ObserverFunc(func(tasks []task.Task) {
		clearScreen()
		if err := renderBoard(s.cfg.Board.Name, tasks); err != nil {
			fmt.Fprintf(os.Stderr, "Warning: rendering board: %v\n", err)
		}
	}))
	defer s.store.Unsubscribe(sub)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	fmt.Fprintln(os.Stderr, "Watching for changes... (Ctrl+C to stop)")
	return watchStore(ctx, s, func(err error) {
		fmt.Fprintf(os.Stderr, "Warning: file watcher: %v\n", err)
	})
}

func renderBoard(name string, tasks []task.Task) error {
	summary := board.Summary(name, tasks)

	switch outputFormat() {
	case output.FormatJSON:
		return output.JSON(os.Stdout, summary)
	case output.FormatCompact:
		output.OverviewCompact(os.Stdout, summary)
	default:
		output.OverviewTable(os.Stdout, summary)
	}
	return nil
}

// watchStore reloads the store whenever its storage file changes, until ctx
// is canceled. Observers subscribed to the store see each external change.
func watchStore(ctx context.Context, s *session, errFn func(error)) error {
	return watchStoreEvents(ctx, s, func() { s.store.Reload() }, errFn)
}

// watchStoreEvents calls onChange, debounced, whenever the storage file of
// the session changes, until ctx is canceled.
func watchStoreEvents(ctx context.Context, s *session, onChange func(), errFn func(error)) error {
	fb, ok := s.backend.(*storage.FileBackend)
	if !ok {
		return fmt.Errorf("storage backend %q has no files to watch", s.cfg.Storage.Backend)
	}

	w, err := watcher.New(fb.Dir(), []string{fb.Path(s.store.Key())}, onChange)
	if err != nil {
		return fmt.Errorf("starting file watcher: %w", err)
	}
	defer w.Close()

	w.Run(ctx, errFn)
	return nil
}

// clearScreen sends ANSI escape codes to clear the terminal and move the
// cursor to the top-left corner.
func clearScreen() {
	fmt.Fprint(os.Stdout, "\033[2J\033[H")
}

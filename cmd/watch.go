package cmd

import (
	"context"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/twiced-technology-gmbh/tasklanes/internal/output"
	"github.com/twiced-technology-gmbh/tasklanes/internal/view"
)

const defaultHTMLFile = "board.html"

var watchCmd = &cobra.Command{
	Use:   "watch",
	Short: "Keep an HTML board in sync with the task list",
	Long: `Renders the board as an HTML page and rewrites it every time the task list
changes on disk. Open the file in a browser and reload it to see updates.

The page is written to --html, else html.path from config.yml, else board.html
in the board directory. Press Ctrl+C to stop.`,
	RunE: runWatch,
}

func init() {
	watchCmd.Flags().String("html", "", "output HTML file")
	watchCmd.Flags().Bool("once", false, "render once and exit")
	rootCmd.AddCommand(watchCmd)
}

func runWatch(cmd *cobra.Command, _ []string) error {
	s, err := openSession()
	if err != nil {
		return err
	}
	defer s.close() //nolint:errcheck // best-effort log close

	path, _ := cmd.Flags().GetString("html")
	if path == "" {
		path = s.cfg.HTMLPath()
	}
	if path == "" {
		path = filepath.Join(s.cfg.Dir(), defaultHTMLFile)
	}

	page := view.NewPageWriter(path, s.cfg.HTMLTitle(), s.log)
	page.OnUpdate(s.store.List())
	output.Messagef(os.Stderr, "Wrote %s", page.Path())

	if once, _ := cmd.Flags().GetBool("once"); once {
		return nil
	}

	sub := s.store.Subscribe(page)
	defer s.store.Unsubscribe(sub)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	output.Messagef(os.Stderr, "Watching for changes... (Ctrl+C to stop)")
	return watchStore(ctx, s, func(err error) {
		s.log.WithError(err).Warn("file watcher")
	})
}

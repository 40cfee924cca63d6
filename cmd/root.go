// Package cmd implements the tasklanes CLI commands.
package cmd

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/twiced-technology-gmbh/tasklanes/internal/board"
	"github.com/twiced-technology-gmbh/tasklanes/internal/clierr"
	"github.com/twiced-technology-gmbh/tasklanes/internal/config"
	"github.com/twiced-technology-gmbh/tasklanes/internal/filelock"
	"github.com/twiced-technology-gmbh/tasklanes/internal/logging"
	"github.com/twiced-technology-gmbh/tasklanes/internal/output"
	"github.com/twiced-technology-gmbh/tasklanes/internal/storage"
	"github.com/twiced-technology-gmbh/tasklanes/internal/store"
)

// version is set at build time via ldflags.
var version = "dev"

// Global flags.
var (
	flagJSON    bool
	flagTable   bool
	flagCompact bool
	flagDir     string
	flagNoColor bool
	flagDebug   bool
)

var rootCmd = &cobra.Command{
	Use:   "tasklanes",
	Short: "Task list with Available, In Progress and Done lanes",
	Long: `tasklanes keeps a small task list in three lanes: Available, In Progress and Done.
Run tasklanes to open the terminal board, or use the subcommands to script it.`,
	Version:       version,
	SilenceErrors: true,
	SilenceUsage:  true,
	RunE:          runTUI,
	PersistentPreRun: func(_ *cobra.Command, _ []string) {
		if flagNoColor || os.Getenv("NO_COLOR") != "" {
			output.DisableColor()
		}
	},
}

func init() {
	rootCmd.PersistentFlags().BoolVar(&flagJSON, "json", false, "output as JSON")
	rootCmd.PersistentFlags().BoolVar(&flagTable, "table", false, "output as table")
	rootCmd.PersistentFlags().BoolVar(&flagCompact, "compact", false, "compact one-line-per-record output")
	rootCmd.PersistentFlags().BoolVar(&flagCompact, "oneline", false, "alias for --compact")
	rootCmd.PersistentFlags().StringVar(&flagDir, "dir", "", "path to the board directory")
	rootCmd.PersistentFlags().BoolVar(&flagNoColor, "no-color", false, "disable color output")
	rootCmd.PersistentFlags().BoolVar(&flagDebug, "debug", false, "log at debug level")
}

// Execute runs the root command.
func Execute() {
	_, err := rootCmd.ExecuteC()
	if err == nil {
		return
	}

	// Handle SilentError: exit with code, no output.
	var silent *clierr.SilentError
	if errors.As(err, &silent) {
		os.Exit(silent.Code)
	}

	if outputFormat() == output.FormatJSON {
		os.Exit(output.JSONError(os.Stdout, err))
	}

	fmt.Fprintln(os.Stderr, err)
	var cliErr *clierr.Error
	if errors.As(err, &cliErr) {
		os.Exit(cliErr.ExitCode())
	}
	os.Exit(1)
}

// defaultHomeDir returns the path to ~/.config/tasklanes.
func defaultHomeDir() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("getting home directory: %w", err)
	}
	return filepath.Join(home, ".config", "tasklanes"), nil
}

// resolveDir returns the board directory: --dir, else the nearest
// .tasklanes directory, else ~/.config/tasklanes.
func resolveDir() (string, error) {
	if flagDir != "" {
		return flagDir, nil
	}

	cwd, err := os.Getwd()
	if err != nil {
		return "", fmt.Errorf("getting working directory: %w", err)
	}

	dir, err := config.FindDir(cwd)
	if err == nil {
		return dir, nil
	}

	return defaultHomeDir()
}

// loadConfig finds and loads the board config. The home default is created
// on first use.
func loadConfig() (*config.Config, error) {
	dir, err := resolveDir()
	if err != nil {
		return nil, err
	}

	cfg, err := config.Load(dir)
	if err == nil {
		return cfg, nil
	}

	if !errors.Is(err, config.ErrNotFound) {
		return nil, err
	}
	homeDir, homeErr := defaultHomeDir()
	if homeErr != nil || dir != homeDir {
		return nil, clierr.New(clierr.BoardNotFound, err.Error()).
			WithDetails(map[string]any{"dir": dir})
	}

	return config.Init(homeDir, "tasklanes")
}

// session holds what a command needs to work on a board.
type session struct {
	cfg     *config.Config
	backend storage.Backend
	store   *store.Store
	log     *log.Logger
	close   func() error
}

// openSession loads the config, sets up logging and opens the task store.
func openSession() (*session, error) {
	cfg, err := loadConfig()
	if err != nil {
		return nil, err
	}

	logger, closeLog, err := logging.Setup(logging.Options{
		Level: cfg.Log.Level,
		File:  cfg.LogPath(),
		Debug: flagDebug,
	})
	if err != nil {
		return nil, clierr.New(clierr.InvalidInput, err.Error())
	}

	backend, err := storage.Open(cfg.StorageKind(), cfg.Dir())
	if err != nil {
		_ = closeLog()
		return nil, fmt.Errorf("opening storage: %w", err)
	}

	st := store.New(backend, cfg.StorageKey(), logger)
	logger.WithFields(log.Fields{
		"dir":     cfg.Dir(),
		"backend": cfg.Storage.Backend,
		"tasks":   len(st.List()),
	}).Debug("board opened")

	return &session{cfg: cfg, backend: backend, store: st, log: logger, close: closeLog}, nil
}

// lock takes the board-wide lock so that concurrent CLI processes do not
// interleave their read-modify-write cycles.
func (s *session) lock() (func() error, error) {
	unlock, err := filelock.Lock(filepath.Join(s.cfg.Dir(), filelock.Suffix))
	if err != nil {
		return nil, fmt.Errorf("acquiring lock: %w", err)
	}
	// Another process may have written while we waited.
	s.store.Reload()
	return unlock, nil
}

// outputFormat returns the detected output format from flags/env.
func outputFormat() output.Format {
	return output.Detect(flagJSON, flagTable, flagCompact)
}

// parseIDs splits a comma-separated ID string into deduplicated int IDs.
func parseIDs(arg string) ([]int, error) {
	return board.ParseIDs(arg)
}

// runBatch executes fn for each ID and collects results. Returns a SilentError
// with exit code 1 if any operation failed (after outputting results).
func runBatch(ids []int, fn func(int) error) error {
	results := make([]output.BatchResult, 0, len(ids))
	anyFailed := false

	for _, id := range ids {
		r := output.NewBatchResult(id, fn(id))
		anyFailed = anyFailed || !r.OK
		results = append(results, r)
	}

	if outputFormat() == output.FormatJSON {
		if err := output.JSON(os.Stdout, results); err != nil {
			return err
		}
	} else {
		var succeeded int
		for _, r := range results {
			if r.OK {
				succeeded++
			} else {
				fmt.Fprintf(os.Stderr, "Error: task #%d: %s\n", r.ID, r.Error)
			}
		}
		output.Messagef(os.Stdout, "Completed %d/%d operations", succeeded, len(ids))
	}

	if anyFailed {
		return &clierr.SilentError{Code: 1}
	}
	return nil
}

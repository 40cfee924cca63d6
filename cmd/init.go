package cmd

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/twiced-technology-gmbh/tasklanes/internal/clierr"
	"github.com/twiced-technology-gmbh/tasklanes/internal/config"
	"github.com/twiced-technology-gmbh/tasklanes/internal/output"
	"github.com/twiced-technology-gmbh/tasklanes/internal/storage"
	"github.com/twiced-technology-gmbh/tasklanes/internal/task"
)

var initCmd = &cobra.Command{
	Use:   "init",
	Short: "Initialize a new task board",
	Long:  `Creates a board directory with config.yml. Tasks are stored next to it as <key>.json.`,
	RunE:  runInit,
}

func init() {
	initCmd.Flags().String("name", "", "board name (defaults to current directory name)")
	initCmd.Flags().String("backend", config.DefaultBackend, "storage backend ("+strings.Join(storage.Kinds(), ", ")+")")
	initCmd.Flags().String("key", config.DefaultKey, "storage key for the task list")
	initCmd.Flags().String("default-status", config.DefaultStatus, "lane for new tasks")
	rootCmd.AddCommand(initCmd)
}

func runInit(cmd *cobra.Command, _ []string) error {
	dir := flagDir
	if dir == "" {
		dir = config.DefaultDir
	}

	absDir, err := filepath.Abs(dir)
	if err != nil {
		return fmt.Errorf("resolving path: %w", err)
	}

	if _, err := os.Stat(filepath.Join(absDir, config.ConfigFileName)); err == nil {
		return clierr.Newf(clierr.BoardAlreadyExists, "board already initialized in %s", absDir).
			WithDetails(map[string]any{"dir": absDir})
	}

	name, _ := cmd.Flags().GetString("name")
	if name == "" {
		cwd, err := os.Getwd()
		if err != nil {
			return fmt.Errorf("getting working directory: %w", err)
		}
		name = filepath.Base(cwd)
	}

	cfg := config.NewDefault(name)
	cfg.SetDir(absDir)
	cfg.Storage.Backend, _ = cmd.Flags().GetString("backend")
	cfg.Storage.Key, _ = cmd.Flags().GetString("key")

	defaultStatus, _ := cmd.Flags().GetString("default-status")
	status, err := task.ParseStatus(defaultStatus)
	if err != nil {
		return err
	}
	cfg.Defaults.Status = string(status)

	if err := cfg.Validate(); err != nil {
		return clierr.New(clierr.InvalidInput, err.Error())
	}

	const dirMode = 0o750
	if err := os.MkdirAll(absDir, dirMode); err != nil {
		return fmt.Errorf("creating board directory: %w", err)
	}

	if err := cfg.Save(); err != nil {
		return fmt.Errorf("writing config: %w", err)
	}

	if outputFormat() == output.FormatJSON {
		return output.JSON(os.Stdout, map[string]string{
			"status":  "initialized",
			"dir":     absDir,
			"name":    name,
			"config":  cfg.ConfigPath(),
			"backend": cfg.Storage.Backend,
			"key":     cfg.StorageKey(),
			"lanes":   strings.Join(task.StatusNames(), ","),
		})
	}

	output.Messagef(os.Stdout, "Initialized board %q in %s", name, absDir)
	output.Messagef(os.Stdout, "  Config:  %s", cfg.ConfigPath())
	output.Messagef(os.Stdout, "  Storage: %s (key %q)", cfg.Storage.Backend, cfg.StorageKey())
	output.Messagef(os.Stdout, "  Lanes:   %s", strings.Join(task.StatusNames(), ", "))
	return nil
}

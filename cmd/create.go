package cmd

import (
	"errors"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/twiced-technology-gmbh/tasklanes/internal/clierr"
	"github.com/twiced-technology-gmbh/tasklanes/internal/output"
	"github.com/twiced-technology-gmbh/tasklanes/internal/task"
)

var createCmd = &cobra.Command{
	Use:     "create [NAME]",
	Aliases: []string{"add"},
	Short:   "Create a new task",
	Long: `Adds a task with the given name to a lane (the configured default lane unless --status is set).

Name can be provided as a positional argument or via --name flag.
Description can be provided via --description, --desc or --body.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runCreate,
}

func init() {
	createCmd.Flags().String("name", "", "task name (alternative to positional argument)")
	createCmd.Flags().String("status", "", "lane for the new task (default from config)")
	createCmd.Flags().String("body", "", "task description (markdown)")
	createCmd.Flags().SetNormalizeFunc(func(_ *pflag.FlagSet, name string) pflag.NormalizedName {
		switch name {
		case "description", "desc":
			name = "body"
		}
		return pflag.NormalizedName(name)
	})
	rootCmd.AddCommand(createCmd)
}

func runCreate(cmd *cobra.Command, args []string) error {
	name, err := resolveCreateName(cmd, args)
	if err != nil {
		return err
	}

	s, err := openSession()
	if err != nil {
		return err
	}
	defer s.close() //nolint:errcheck // best-effort log close

	status := s.cfg.DefaultStatus()
	if v, _ := cmd.Flags().GetString("status"); v != "" {
		if status, err = task.ParseStatus(v); err != nil {
			return err
		}
	}
	description, _ := cmd.Flags().GetString("body")

	unlock, err := s.lock()
	if err != nil {
		return err
	}
	defer unlock() //nolint:errcheck // best-effort unlock on exit

	t, err := s.store.Create(name, description, status)
	if err != nil {
		return err
	}

	return outputCreateResult(t)
}

func outputCreateResult(t task.Task) error {
	if outputFormat() == output.FormatJSON {
		return output.JSON(os.Stdout, t)
	}

	output.Messagef(os.Stdout, "Created task #%d: %s", t.ID, t.Name)
	output.Messagef(os.Stdout, "  Status: %s", t.Status)
	return nil
}

// resolveCreateName returns the task name from either the positional arg or --name flag.
func resolveCreateName(cmd *cobra.Command, args []string) (string, error) {
	flagName, _ := cmd.Flags().GetString("name")
	hasPositional := len(args) > 0
	hasFlag := flagName != ""

	switch {
	case hasPositional && hasFlag:
		return "", clierr.New(clierr.InvalidInput,
			"name provided both as argument and --name flag; use one or the other")
	case hasPositional:
		return args[0], nil
	case hasFlag:
		return flagName, nil
	default:
		return "", errors.New("name is required: provide it as an argument or with --name")
	}
}

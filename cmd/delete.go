package cmd

import (
	"bufio"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/twiced-technology-gmbh/tasklanes/internal/clierr"
	"github.com/twiced-technology-gmbh/tasklanes/internal/output"
	"github.com/twiced-technology-gmbh/tasklanes/internal/store"
	"github.com/twiced-technology-gmbh/tasklanes/internal/task"
)

var deleteCmd = &cobra.Command{
	Use:     "delete ID[,ID,...]",
	Aliases: []string{"rm"},
	Short:   "Delete a task",
	Long: `Removes a task from the board. Prompts for confirmation in interactive mode.
Multiple IDs can be provided as a comma-separated list (requires --yes).`,
	Args: cobra.ExactArgs(1),
	RunE: runDelete,
}

func init() {
	deleteCmd.Flags().BoolP("yes", "y", false, "skip confirmation prompt")
	rootCmd.AddCommand(deleteCmd)
}

func runDelete(cmd *cobra.Command, args []string) error {
	ids, err := parseIDs(args[0])
	if err != nil {
		return err
	}

	yes, _ := cmd.Flags().GetBool("yes")

	if len(ids) > 1 && !yes {
		return clierr.New(clierr.ConfirmationReq,
			"batch delete requires --yes")
	}

	s, err := openSession()
	if err != nil {
		return err
	}
	defer s.close() //nolint:errcheck // best-effort log close

	if len(ids) == 1 {
		return deleteSingleTask(s, ids[0], yes)
	}

	unlock, err := s.lock()
	if err != nil {
		return err
	}
	defer unlock() //nolint:errcheck // best-effort unlock on exit

	return runBatch(ids, func(id int) error {
		return executeDelete(s.store, id)
	})
}

func deleteSingleTask(s *session, id int, yes bool) error {
	t, err := s.store.Get(id)
	if err != nil {
		return err
	}

	// The prompt runs before the lock so that a waiting user does not block
	// other writers.
	if !yes {
		ok, err := confirmDelete(t)
		if err != nil {
			return err
		}
		if !ok {
			fmt.Fprintln(os.Stderr, "Canceled.")
			return nil
		}
	}

	unlock, err := s.lock()
	if err != nil {
		return err
	}
	defer unlock() //nolint:errcheck // best-effort unlock on exit

	if err := executeDelete(s.store, id); err != nil {
		return err
	}

	if outputFormat() == output.FormatJSON {
		return output.JSON(os.Stdout, map[string]any{
			"status": "deleted",
			"id":     t.ID,
			"name":   t.Name,
		})
	}

	output.Messagef(os.Stdout, "Deleted task #%d: %s", t.ID, t.Name)
	return nil
}

func confirmDelete(t task.Task) (bool, error) {
	if !term.IsTerminal(int(os.Stdin.Fd())) {
		return false, clierr.New(clierr.ConfirmationReq,
			"cannot prompt for confirmation (not a terminal); use --yes")
	}
	fmt.Fprintf(os.Stderr, "Delete task #%d %q? [y/N] ", t.ID, t.Name)
	reader := bufio.NewReader(os.Stdin)
	answer, _ := reader.ReadString('\n')
	answer = strings.TrimSpace(strings.ToLower(answer))
	return answer == "y" || answer == "yes", nil
}

// executeDelete removes one task, reporting an unknown ID as not found.
func executeDelete(st *store.Store, id int) error {
	if !st.Delete(id) {
		return task.NotFound(id)
	}
	return nil
}

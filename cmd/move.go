package cmd

import (
	"os"

	"github.com/spf13/cobra"

	"github.com/twiced-technology-gmbh/tasklanes/internal/clierr"
	"github.com/twiced-technology-gmbh/tasklanes/internal/output"
	"github.com/twiced-technology-gmbh/tasklanes/internal/store"
	"github.com/twiced-technology-gmbh/tasklanes/internal/task"
)

var moveCmd = &cobra.Command{
	Use:     "move ID[,ID,...] [STATUS]",
	Aliases: []string{"mv"},
	Short:   "Move a task to a different lane",
	Long: `Changes the lane of a task. Provide the new status directly
(Available, "In Progress", Done, or an alias such as todo, doing, done),
or use --next/--prev to step along the lane order.
Multiple IDs can be provided as a comma-separated list.`,
	Args: cobra.RangeArgs(1, 2), //nolint:mnd // 1 or 2 positional args
	RunE: runMove,
}

func init() {
	moveCmd.Flags().Bool("next", false, "move to next lane")
	moveCmd.Flags().Bool("prev", false, "move to previous lane")
	rootCmd.AddCommand(moveCmd)
}

func runMove(cmd *cobra.Command, args []string) error {
	ids, err := parseIDs(args[0])
	if err != nil {
		return err
	}

	next, _ := cmd.Flags().GetBool("next")
	prev, _ := cmd.Flags().GetBool("prev")
	target, err := parseMoveTarget(args, next, prev)
	if err != nil {
		return err
	}

	s, err := openSession()
	if err != nil {
		return err
	}
	defer s.close() //nolint:errcheck // best-effort log close

	unlock, err := s.lock()
	if err != nil {
		return err
	}
	defer unlock() //nolint:errcheck // best-effort unlock on exit

	if len(ids) == 1 {
		return moveSingleTask(s.store, ids[0], target)
	}

	return runBatch(ids, func(id int) error {
		_, _, err := executeMove(s.store, id, target)
		return err
	})
}

// moveTarget is either a fixed lane or a step along the lane order.
type moveTarget struct {
	status task.Status
	step   int // +1 next, -1 prev, 0 fixed status
}

func parseMoveTarget(args []string, next, prev bool) (moveTarget, error) {
	switch {
	case len(args) == 2: //nolint:mnd // positional arg
		status, err := task.ParseStatus(args[1])
		if err != nil {
			return moveTarget{}, err
		}
		return moveTarget{status: status}, nil
	case next && prev:
		return moveTarget{}, clierr.New(clierr.InvalidInput, "use only one of --next and --prev")
	case next:
		return moveTarget{step: 1}, nil
	case prev:
		return moveTarget{step: -1}, nil
	default:
		return moveTarget{}, clierr.New(clierr.InvalidInput, "provide a target status or use --next/--prev")
	}
}

func (m moveTarget) resolve(t task.Task) (task.Status, error) {
	switch m.step {
	case 1:
		next, ok := t.Status.Next()
		if !ok {
			return "", task.ValidateBoundary(t.ID, t.Status, "last")
		}
		return next, nil
	case -1:
		prev, ok := t.Status.Prev()
		if !ok {
			return "", task.ValidateBoundary(t.ID, t.Status, "first")
		}
		return prev, nil
	default:
		return m.status, nil
	}
}

// moveResult wraps a task with a changed flag for JSON output.
type moveResult struct {
	task.Task
	Changed bool `json:"changed"`
}

func moveSingleTask(st *store.Store, id int, target moveTarget) error {
	t, oldStatus, err := executeMove(st, id, target)
	if err != nil {
		return err
	}

	changed := oldStatus != t.Status
	if outputFormat() == output.FormatJSON {
		return output.JSON(os.Stdout, moveResult{Task: t, Changed: changed})
	}
	if !changed {
		output.Messagef(os.Stdout, "Task #%d is already at %s", t.ID, t.Status)
		return nil
	}
	output.Messagef(os.Stdout, "Moved task #%d: %s -> %s", id, oldStatus, t.Status)
	return nil
}

// executeMove looks the task up, resolves the target lane and applies it.
// It returns the updated task and its previous status.
func executeMove(st *store.Store, id int, target moveTarget) (task.Task, task.Status, error) {
	t, err := st.Get(id)
	if err != nil {
		return task.Task{}, "", err
	}

	newStatus, err := target.resolve(t)
	if err != nil {
		return task.Task{}, "", err
	}

	if err := st.SetStatus(id, newStatus); err != nil {
		return task.Task{}, "", err
	}

	oldStatus := t.Status
	t.Status = newStatus
	return t, oldStatus, nil
}

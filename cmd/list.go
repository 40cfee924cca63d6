package cmd

import (
	"os"
	"slices"
	"strings"

	"github.com/spf13/cobra"

	"github.com/twiced-technology-gmbh/tasklanes/internal/board"
	"github.com/twiced-technology-gmbh/tasklanes/internal/clierr"
	"github.com/twiced-technology-gmbh/tasklanes/internal/output"
	"github.com/twiced-technology-gmbh/tasklanes/internal/task"
)

var listCmd = &cobra.Command{
	Use:     "list",
	Aliases: []string{"ls"},
	Short:   "List tasks",
	Long:    `Lists tasks with optional filtering, sorting, and output format control.`,
	RunE:    runList,
}

func init() {
	listCmd.Flags().StringSlice("status", nil, "filter by lane (comma-separated)")
	listCmd.Flags().StringP("search", "s", "", "search tasks by name or description (case-insensitive)")
	listCmd.Flags().String("sort", "id", "sort field ("+strings.Join(board.SortFields(), ", ")+")")
	listCmd.Flags().BoolP("reverse", "r", false, "reverse sort order")
	listCmd.Flags().IntP("limit", "n", 0, "limit number of results")
	rootCmd.AddCommand(listCmd)
}

func runList(cmd *cobra.Command, _ []string) error {
	statusArgs, _ := cmd.Flags().GetStringSlice("status")
	search, _ := cmd.Flags().GetString("search")
	sortBy, _ := cmd.Flags().GetString("sort")
	reverse, _ := cmd.Flags().GetBool("reverse")
	limit, _ := cmd.Flags().GetInt("limit")

	if !slices.Contains(board.SortFields(), sortBy) {
		return clierr.Newf(clierr.InvalidInput, "invalid --sort field %q; valid: %s",
			sortBy, strings.Join(board.SortFields(), ", "))
	}

	statuses, err := parseStatuses(statusArgs)
	if err != nil {
		return err
	}

	s, err := openSession()
	if err != nil {
		return err
	}
	defer s.close() //nolint:errcheck // best-effort log close

	tasks := board.List(s.store, board.ListOptions{
		Filter:  board.FilterOptions{Statuses: statuses, Search: search},
		SortBy:  sortBy,
		Reverse: reverse,
		Limit:   limit,
	})

	return outputTaskList(tasks)
}

func parseStatuses(args []string) ([]task.Status, error) {
	statuses := make([]task.Status, 0, len(args))
	for _, a := range args {
		st, err := task.ParseStatus(a)
		if err != nil {
			return nil, err
		}
		statuses = append(statuses, st)
	}
	return statuses, nil
}

func outputTaskList(tasks []task.Task) error {
	switch outputFormat() {
	case output.FormatJSON:
		return output.TaskListJSON(os.Stdout, tasks)
	case output.FormatCompact:
		output.TaskCompact(os.Stdout, os.Stderr, tasks)
	default:
		output.TaskTable(os.Stdout, os.Stderr, tasks)
	}
	return nil
}

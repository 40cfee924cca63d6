package board

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/twiced-technology-gmbh/tasklanes/internal/clierr"
	"github.com/twiced-technology-gmbh/tasklanes/internal/task"
)

type staticLister []task.Task

func (l staticLister) List() []task.Task {
	return append([]task.Task(nil), l...)
}

var fixture = staticLister{
	{ID: 1, Name: "Write report", Description: "quarterly numbers", Status: task.StatusDone},
	{ID: 2, Name: "buy milk", Status: task.StatusAvailable},
	{ID: 3, Name: "Call plumber", Description: "kitchen REPORT leak", Status: task.StatusInProgress},
	{ID: 4, Name: "answer email", Status: task.StatusAvailable},
}

func ids(tasks []task.Task) []int {
	out := make([]int, 0, len(tasks))
	for _, t := range tasks {
		out = append(out, t.ID)
	}
	return out
}

func TestFilterByStatus(t *testing.T) {
	got := Filter(fixture, FilterOptions{Statuses: []task.Status{task.StatusAvailable}})
	assert.Equal(t, []int{2, 4}, ids(got))

	got = Filter(fixture, FilterOptions{ExcludeStatuses: []task.Status{task.StatusDone}})
	assert.Equal(t, []int{2, 3, 4}, ids(got))
}

func TestFilterSearch(t *testing.T) {
	got := Filter(fixture, FilterOptions{Search: "report"})
	assert.Equal(t, []int{1, 3}, ids(got), "name and description, case-insensitive")

	got = Filter(fixture, FilterOptions{Search: "report", Statuses: []task.Status{task.StatusDone}})
	assert.Equal(t, []int{1}, ids(got))

	assert.Empty(t, Filter(fixture, FilterOptions{Search: "nothing"}))
}

func TestSort(t *testing.T) {
	tasks := fixture.List()

	Sort(tasks, fieldName, false)
	assert.Equal(t, []int{4, 2, 3, 1}, ids(tasks))

	Sort(tasks, fieldStatus, false)
	assert.Equal(t, []int{4, 2, 3, 1}, ids(tasks), "stable within a lane")

	Sort(tasks, fieldID, true)
	assert.Equal(t, []int{4, 3, 2, 1}, ids(tasks))

	assert.Equal(t, []string{"id", "name", "status"}, SortFields())
}

func TestList(t *testing.T) {
	got := List(fixture, ListOptions{})
	assert.Equal(t, []int{1, 2, 3, 4}, ids(got))

	got = List(fixture, ListOptions{SortBy: fieldStatus, Limit: 3})
	assert.Equal(t, []int{2, 4, 3}, ids(got))

	got = List(fixture, ListOptions{
		Filter:  FilterOptions{Statuses: []task.Status{task.StatusAvailable}},
		Reverse: true,
	})
	assert.Equal(t, []int{4, 2}, ids(got))
}

func TestSummary(t *testing.T) {
	s := Summary("Home", fixture)
	assert.Equal(t, "Home", s.BoardName)
	assert.Equal(t, 4, s.TotalTasks)
	assert.Equal(t, []LaneSummary{
		{Status: task.StatusAvailable, Count: 2},
		{Status: task.StatusInProgress, Count: 1},
		{Status: task.StatusDone, Count: 1},
	}, s.Lanes)

	empty := Summary("Empty", nil)
	assert.Equal(t, 0, empty.TotalTasks)
	require.Len(t, empty.Lanes, 3)
}

func TestParseIDs(t *testing.T) {
	got, err := ParseIDs("3, 1,3,,2")
	require.NoError(t, err)
	assert.Equal(t, []int{3, 1, 2}, got)

	for _, bad := range []string{"x", "1,abc", "0", "-2"} {
		_, err := ParseIDs(bad)
		assert.True(t, clierr.HasCode(err, clierr.InvalidTaskID), "input %q", bad)
	}

	_, err = ParseIDs(" , ")
	assert.True(t, clierr.HasCode(err, clierr.InvalidTaskID))
}

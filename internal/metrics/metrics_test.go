package metrics

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFormatStatusDataTasks(t *testing.T) {
	got := FormatStatusData(nil, EntityTasks)

	assert.Equal(t, []StatusCount{
		{Status: "todo"},
		{Status: "in_progress"},
		{Status: "review"},
		{Status: "done"},
	}, got)
}

func TestFormatStatusDataProjects(t *testing.T) {
	rows := []StatusCount{
		{Status: "completed", Count: 7},
		{Status: "planning", Count: 2},
	}

	got := FormatStatusData(rows, EntityProjects)

	assert.Equal(t, []StatusCount{
		{Status: "planning", Count: 2},
		{Status: "in_progress", Count: 0},
		{Status: "completed", Count: 7},
		{Status: "cancelled", Count: 0},
	}, got)
}

func TestFormatStatusDataIgnoresUnknown(t *testing.T) {
	rows := []StatusCount{
		{Status: "archived", Count: 99},
		{Status: "done", Count: 3},
	}

	got := FormatStatusData(rows, EntityTasks)

	assert.Len(t, got, 4)
	for _, row := range got {
		assert.NotEqual(t, "archived", row.Status)
	}
	assert.Equal(t, StatusCount{Status: "done", Count: 3}, got[3])
}

func TestFormatStatusDataDuplicateLastWins(t *testing.T) {
	rows := []StatusCount{
		{Status: "todo", Count: 1},
		{Status: "todo", Count: 5},
	}

	got := FormatStatusData(rows, EntityTasks)

	assert.Equal(t, int64(5), got[0].Count)
}

func TestFormatPriorityData(t *testing.T) {
	got := FormatPriorityData([]PriorityCount{{Priority: "high", Count: 5}})

	assert.Equal(t, []PriorityCount{
		{Priority: "low", Count: 0},
		{Priority: "medium", Count: 0},
		{Priority: "high", Count: 5},
	}, got)
}

func TestCompletionRate(t *testing.T) {
	assert.Equal(t, 0, CompletionRate(0, 0))
	assert.Equal(t, 0, CompletionRate(5, 0))
	assert.Equal(t, 100, CompletionRate(4, 4))
	assert.Equal(t, 50, CompletionRate(1, 2))
	assert.Equal(t, 33, CompletionRate(1, 3))
	assert.Equal(t, 67, CompletionRate(2, 3))
}

package domain

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestMarkStepIsIdempotent(t *testing.T) {
	p := &Progress{CompletedSteps: []string{}}

	require.True(t, p.MarkStep("s1", true))
	require.False(t, p.MarkStep("s1", true))
	require.Equal(t, []string{"s1"}, p.CompletedSteps)

	require.True(t, p.MarkStep("s1", false))
	require.False(t, p.MarkStep("s1", false))
	require.Empty(t, p.CompletedSteps)
}

func TestMarkStepPreservesOrder(t *testing.T) {
	p := &Progress{CompletedSteps: []string{"a", "b", "c"}}

	require.True(t, p.MarkStep("b", false))
	require.Equal(t, []string{"a", "c"}, p.CompletedSteps)
}

func TestCoversAll(t *testing.T) {
	p := &Progress{CompletedSteps: []string{"a", "b", "c"}}

	require.True(t, p.CoversAll([]string{"a", "b"}))
	require.True(t, p.CoversAll([]string{"a", "b", "c"}))
	require.False(t, p.CoversAll([]string{"a", "d"}))
	require.False(t, p.CoversAll(nil))
}

func TestApplyCompletionTransitions(t *testing.T) {
	now := time.Date(2026, time.March, 10, 12, 0, 0, 0, time.UTC)

	p := &Progress{Status: ProgressActive}
	p.ApplyCompletion(true, now)
	require.Equal(t, ProgressCompleted, p.Status)
	require.NotNil(t, p.CompletedAt)
	require.Equal(t, now, *p.CompletedAt)

	// Unchecking a step reverts completion and clears the timestamp.
	p.ApplyCompletion(false, now.Add(time.Hour))
	require.Equal(t, ProgressActive, p.Status)
	require.Nil(t, p.CompletedAt)
}

func TestApplyCompletionKeepsExistingTimestamp(t *testing.T) {
	first := time.Date(2026, time.March, 10, 12, 0, 0, 0, time.UTC)

	p := &Progress{Status: ProgressActive}
	p.ApplyCompletion(true, first)
	p.ApplyCompletion(true, first.Add(time.Hour))

	require.Equal(t, first, *p.CompletedAt)
}

func TestCompletionPercentage(t *testing.T) {
	cases := []struct {
		name      string
		completed int
		total     int
		want      int
	}{
		{"zero of three", 0, 3, 0},
		{"one of three", 1, 3, 33},
		{"two of three rounds up", 2, 3, 67},
		{"all done", 3, 3, 100},
		{"no steps", 0, 0, 0},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			require.Equal(t, tc.want, CompletionPercentage(tc.completed, tc.total))
		})
	}
}

func TestValidProgressStatus(t *testing.T) {
	require.True(t, ValidProgressStatus(ProgressActive))
	require.True(t, ValidProgressStatus(ProgressCompleted))
	require.True(t, ValidProgressStatus(ProgressArchived))
	require.False(t, ValidProgressStatus("paused"))
	require.False(t, ValidProgressStatus(""))
}

package task

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCanTransitionTo(t *testing.T) {
	tests := []struct {
		from Status
		to   Status
		ok   bool
	}{
		{StatusPending, StatusInProgress, true},
		{StatusPending, StatusCompleted, true},
		{StatusPending, StatusCancelled, true},
		{StatusInProgress, StatusCompleted, true},
		{StatusInProgress, StatusPending, false},
		{StatusCompleted, StatusCancelled, false},
		{StatusCancelled, StatusPending, false},
	}
	for _, tt := range tests {
		tk := &Task{Status: tt.from}
		assert.Equal(t, tt.ok, tk.CanTransitionTo(tt.to), "%s -> %s", tt.from, tt.to)
	}
}

func TestTransitionTo_SetsCompletedAt(t *testing.T) {
	tk := &Task{Status: StatusPending}
	require.NoError(t, tk.TransitionTo(StatusInProgress))
	assert.Nil(t, tk.CompletedAt)

	require.NoError(t, tk.TransitionTo(StatusCompleted))
	assert.NotNil(t, tk.CompletedAt)
	assert.True(t, tk.IsFinished())
	assert.ErrorIs(t, tk.TransitionTo(StatusCancelled), ErrInvalidStatusTransition)
}

func TestIsOverdue(t *testing.T) {
	now := time.Date(2030, 1, 1, 12, 0, 0, 0, time.UTC)
	past := now.Add(-time.Hour)
	future := now.Add(time.Hour)

	assert.True(t, (&Task{Status: StatusPending, DueAt: &past}).IsOverdue(now))
	assert.False(t, (&Task{Status: StatusPending, DueAt: &future}).IsOverdue(now))
	assert.False(t, (&Task{Status: StatusPending}).IsOverdue(now))
	assert.False(t, (&Task{Status: StatusCompleted, DueAt: &past}).IsOverdue(now))
}

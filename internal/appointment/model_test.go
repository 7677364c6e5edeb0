package appointment

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestStatusTransitions(t *testing.T) {
	tests := []struct {
		from    Status
		to      Status
		allowed bool
	}{
		{StatusPending, StatusConfirmed, true},
		{StatusPending, StatusCancelled, true},
		{StatusPending, StatusRescheduled, true},
		{StatusPending, StatusCompleted, false},
		{StatusPending, StatusNoShow, false},

		{StatusConfirmed, StatusCompleted, true},
		{StatusConfirmed, StatusNoShow, true},
		{StatusConfirmed, StatusCancelled, true},
		{StatusConfirmed, StatusRescheduled, true},
		{StatusConfirmed, StatusPending, false},

		{StatusRescheduled, StatusConfirmed, true},
		{StatusRescheduled, StatusCompleted, true},
		{StatusRescheduled, StatusNoShow, true},
		{StatusRescheduled, StatusCancelled, true},
		{StatusRescheduled, StatusRescheduled, true},
		{StatusRescheduled, StatusPending, false},

		// Terminal states allow nothing.
		{StatusCompleted, StatusConfirmed, false},
		{StatusCompleted, StatusCancelled, false},
		{StatusCancelled, StatusConfirmed, false},
		{StatusCancelled, StatusRescheduled, false},
		{StatusNoShow, StatusCompleted, false},
	}

	for _, tt := range tests {
		got := tt.from.CanTransitionTo(tt.to)
		assert.Equal(t, tt.allowed, got, "%s -> %s", tt.from, tt.to)
	}
}

func TestStatusValid(t *testing.T) {
	for _, s := range []Status{StatusPending, StatusConfirmed, StatusCompleted, StatusCancelled, StatusNoShow, StatusRescheduled} {
		assert.True(t, s.Valid(), "%s", s)
	}
	assert.False(t, Status("unknown").Valid())
	assert.False(t, Status("").Valid())
}

package appointment

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCanTransition(t *testing.T) {
	cases := []struct {
		from, to Status
		allowed  bool
	}{
		{StatusPending, StatusConfirmed, true},
		{StatusPending, StatusDeclined, true},
		{StatusPending, StatusCanceled, true},
		{StatusPending, StatusCompleted, false},

		{StatusConfirmed, StatusCompleted, true},
		{StatusConfirmed, StatusPending, true},
		{StatusConfirmed, StatusCanceled, true},
		{StatusConfirmed, StatusDeclined, false},

		{StatusDeclined, StatusPending, false},
		{StatusCompleted, StatusPending, false},
		{StatusCanceled, StatusPending, false},
		{StatusCanceled, StatusConfirmed, false},
	}

	for _, tc := range cases {
		assert.Equal(t, tc.allowed, CanTransition(tc.from, tc.to),
			"%s -> %s", tc.from, tc.to)
	}
}

func TestTransitionRejectsIllegalChange(t *testing.T) {
	ap := &Appointment{ID: NewID(), Status: StatusDeclined}

	err := Transition(ap, StatusConfirmed)
	require.EqualError(t, err, "invalid_transition")
	assert.Equal(t, StatusDeclined, ap.Status)
}

func TestTransitionAppliesLegalChange(t *testing.T) {
	ap := &Appointment{ID: NewID(), Status: StatusPending}

	require.NoError(t, Transition(ap, StatusConfirmed))
	assert.Equal(t, StatusConfirmed, ap.Status)
}

func TestTerminalStatuses(t *testing.T) {
	assert.False(t, IsTerminal(StatusPending))
	assert.False(t, IsTerminal(StatusConfirmed))
	assert.True(t, IsTerminal(StatusDeclined))
	assert.True(t, IsTerminal(StatusCompleted))
	assert.True(t, IsTerminal(StatusCanceled))
}

func TestOnlyCanceledIsInactive(t *testing.T) {
	assert.True(t, IsActive(StatusPending))
	assert.True(t, IsActive(StatusConfirmed))
	assert.True(t, IsActive(StatusDeclined))
	assert.True(t, IsActive(StatusCompleted))
	assert.False(t, IsActive(StatusCanceled))
}

func TestNewIDPrefix(t *testing.T) {
	id := NewID()
	assert.Contains(t, id, "APT-")
	assert.NotEqual(t, id, NewID())
}

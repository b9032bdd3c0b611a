package rules

import (
	"testing"

	"github.com/cockroachdb/errors"
	"github.com/stretchr/testify/assert"
)

func TestTransition(t *testing.T) {
	tests := []struct {
		from    ReservationPhase
		ev      ReservationEvent
		want    ReservationPhase
		illegal bool
	}{
		{PhaseAvailable, EventReserve, PhaseReserved, false},
		{PhaseReserved, EventCancel, PhaseAvailable, false},
		{PhaseReserved, EventExtend, PhaseReserved, false},
		{PhaseReserved, EventReserve, "", true},
		{PhaseAvailable, EventCancel, "", true},
		{PhaseAvailable, EventExtend, "", true},
		{PhaseAvailable, ReservationEvent("steal"), "", true},
	}
	for _, tt := range tests {
		t.Run(string(tt.from)+"/"+string(tt.ev), func(t *testing.T) {
			got, err := Transition(tt.from, tt.ev)
			if tt.illegal {
				assert.True(t, errors.Is(err, ErrIllegalTransition))
				return
			}
			assert.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestReservationStatePerpetual(t *testing.T) {
	assert.True(t, ReservationState{Phase: PhaseReserved}.Perpetual())
	assert.False(t, ReservationState{Phase: PhaseReserved, Until: ptr(now)}.Perpetual())
	assert.False(t, ReservationState{Phase: PhaseAvailable}.Perpetual())
}

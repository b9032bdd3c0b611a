package rules

import (
	"time"

	"github.com/cockroachdb/errors"
)

type ReservationPhase string

const (
	PhaseAvailable ReservationPhase = "available"
	PhaseReserved  ReservationPhase = "reserved"
)

type ReservationEvent string

const (
	EventReserve ReservationEvent = "reserve"
	EventCancel  ReservationEvent = "cancel"
	EventExtend  ReservationEvent = "extend"
)

var ErrIllegalTransition = errors.New("illegal reservation transition")

// ReservationState is a stand's reservation. Until is nil for a perpetual
// reservation and always nil while available.
type ReservationState struct {
	Phase ReservationPhase `json:"phase"`
	By    string           `json:"by,omitempty"`
	Until *time.Time       `json:"until,omitempty"`
}

func (s ReservationState) Perpetual() bool {
	return s.Phase == PhaseReserved && s.Until == nil
}

// Precondition returns the phase a stand must be in for ev to apply.
func Precondition(ev ReservationEvent) (ReservationPhase, error) {
	switch ev {
	case EventReserve:
		return PhaseAvailable, nil
	case EventCancel, EventExtend:
		return PhaseReserved, nil
	}
	return "", errors.Wrapf(ErrIllegalTransition, "unknown event %q", ev)
}

// Transition returns the phase reached by applying ev in phase from.
func Transition(from ReservationPhase, ev ReservationEvent) (ReservationPhase, error) {
	pre, err := Precondition(ev)
	if err != nil {
		return "", err
	}
	if from != pre {
		return "", errors.Wrapf(ErrIllegalTransition, "%s from %s", ev, from)
	}
	if ev == EventCancel {
		return PhaseAvailable, nil
	}
	return PhaseReserved, nil
}

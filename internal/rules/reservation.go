package rules

import (
	"fmt"
	"time"

	"github.com/cockroachdb/errors"
)

const (
	DefaultMaxReservationDays = 30
	DefaultMaxExtensionDays   = 30
)

// Reservation rule sentinels. Rejections returned by this package wrap one
// of them so callers can branch with errors.Is.
var (
	ErrStartNotInFuture   = errors.New("start date must be in the future")
	ErrEndBeforeStart     = errors.New("end date must be after start date")
	ErrDurationExceeded   = errors.New("maximum reservation duration exceeded")
	ErrLeadTime           = errors.New("reservation lead time not met")
	ErrPerpetualExtension = errors.New("a perpetual reservation cannot be extended")
	ErrExtensionNotLater  = errors.New("new end date must be after the current end date")
	ErrExtensionTooLong   = errors.New("extension too long")
)

// ValidationError is a rejected reservation request. Message is meant for
// display.
type ValidationError struct {
	Rule    error
	Message string
}

func (e *ValidationError) Error() string { return e.Message }

func (e *ValidationError) Unwrap() error { return e.Rule }

func reject(rule error, msg string) error {
	return &ValidationError{Rule: rule, Message: msg}
}

// ValidateReservation checks a requested reservation window. A nil end means
// the reservation has no end date. maxDurationDays <= 0 uses
// DefaultMaxReservationDays.
func ValidateReservation(start time.Time, end *time.Time, maxDurationDays int, now time.Time) error {
	if maxDurationDays <= 0 {
		maxDurationDays = DefaultMaxReservationDays
	}
	if !start.After(now) {
		return reject(ErrStartNotInFuture, ErrStartNotInFuture.Error())
	}
	if end == nil {
		return nil
	}
	if !end.After(start) {
		return reject(ErrEndBeforeStart, ErrEndBeforeStart.Error())
	}
	if end.Sub(start) > days(maxDurationDays) {
		return reject(ErrDurationExceeded, fmt.Sprintf("maximum reservation duration is %d days", maxDurationDays))
	}
	return nil
}

// ValidateLeadTime requires start to be at least minAdvanceHours after now.
func ValidateLeadTime(start time.Time, minAdvanceHours int, now time.Time) error {
	if minAdvanceHours <= 0 {
		return nil
	}
	if start.Sub(now) < time.Duration(minAdvanceHours)*time.Hour {
		return reject(ErrLeadTime, fmt.Sprintf("reservations must be made at least %d hours in advance", minAdvanceHours))
	}
	return nil
}

// ValidateExtension checks moving the end of the current reservation to
// newEnd. Extending an available stand is an illegal transition.
func ValidateExtension(current ReservationState, newEnd time.Time, maxExtensionDays int) error {
	if _, err := Transition(current.Phase, EventExtend); err != nil {
		return err
	}
	if maxExtensionDays <= 0 {
		maxExtensionDays = DefaultMaxExtensionDays
	}
	if current.Perpetual() {
		return reject(ErrPerpetualExtension, ErrPerpetualExtension.Error())
	}
	if !newEnd.After(*current.Until) {
		return reject(ErrExtensionNotLater, ErrExtensionNotLater.Error())
	}
	if newEnd.Sub(*current.Until) > days(maxExtensionDays) {
		return reject(ErrExtensionTooLong, fmt.Sprintf("extension cannot exceed %d days", maxExtensionDays))
	}
	return nil
}

func days(n int) time.Duration {
	return time.Duration(n) * 24 * time.Hour
}

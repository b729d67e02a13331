package models

import (
	"errors"
	"fmt"
	"time"
)

var (
	ErrEventNotFound            = errors.New("event not found")
	ErrRegistrationNotFound     = errors.New("registration not found")
	ErrAlreadyRegistered        = errors.New("already registered for this event")
	ErrCapacityExceeded         = errors.New("event capacity exceeded")
	ErrEventClosed              = errors.New("event is not accepting registrations")
	ErrInvalidEmail             = errors.New("invalid email address")
	ErrInvalidEvent             = errors.New("invalid event")
	ErrRegistrationNotConfirmed = errors.New("registration is not confirmed")
	ErrTicketExists             = errors.New("ticket already issued")
	ErrMalformedTicket          = errors.New("malformed ticket")
	ErrUnknownTicket            = errors.New("unknown ticket")
	ErrWrongEvent               = errors.New("ticket belongs to another event")
	ErrAlreadyCheckedIn         = errors.New("already checked in")
)

func invalidEvent(msg string) error {
	return fmt.Errorf("%w: %s", ErrInvalidEvent, msg)
}

// AlreadyCheckedInError is returned when a consumed ticket is scanned again.
// It carries the original check-in so door staff can see when it happened.
type AlreadyCheckedInError struct {
	RegistrationID uint
	UserEmail      string
	CheckedInAt    time.Time
}

func (e *AlreadyCheckedInError) Error() string {
	return fmt.Sprintf("registration %d already checked in at %s", e.RegistrationID, e.CheckedInAt.Format(time.RFC3339))
}

func (e *AlreadyCheckedInError) Is(target error) bool {
	return target == ErrAlreadyCheckedIn
}

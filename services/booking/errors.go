package booking

import (
	"context"
	"errors"
	"fmt"
)

var (
	ErrSessionNotFound     = errors.New("booking session not found or expired")
	ErrProviderNotFound    = errors.New("provider not found")
	ErrBookingNotFound     = errors.New("booking not found")
	ErrSlotTaken           = errors.New("slot already booked")
	ErrInvalidTimezone     = errors.New("invalid timezone")
	ErrInvalidSelection    = errors.New("invalid slot selection")
	ErrUnsupportedCallType = errors.New("provider does not offer this call type")
	ErrPaymentMismatch     = errors.New("payment does not belong to this booking")
)

// RejectionReason is why a reservation was refused. All reasons are
// retryable: SlotTaken and OutsideWorkingHours by picking another slot,
// Unknown by trying again.
type RejectionReason string

const (
	SlotTaken           RejectionReason = "slot_taken"
	OutsideWorkingHours RejectionReason = "outside_working_hours"
	Unknown             RejectionReason = "unknown"
)

// RejectionError is a user-facing booking refusal.
type RejectionError struct {
	Reason RejectionReason
	Detail string
	Err    error
}

func (e *RejectionError) Error() string {
	if e.Detail == "" {
		return fmt.Sprintf("booking rejected: %s", e.Reason)
	}
	return fmt.Sprintf("booking rejected: %s: %s", e.Reason, e.Detail)
}

func (e *RejectionError) Unwrap() error {
	return e.Err
}

func reject(reason RejectionReason, detail string) error {
	return &RejectionError{Reason: reason, Detail: detail}
}

// asRejection turns a collaborator failure into a RejectionError. Backend
// conflicts become SlotTaken; timeouts, cancellations and anything else
// become Unknown.
func asRejection(op string, err error) error {
	var rej *RejectionError
	switch {
	case errors.As(err, &rej):
		return err
	case errors.Is(err, ErrSlotTaken):
		return &RejectionError{Reason: SlotTaken, Detail: "the slot was booked by someone else", Err: err}
	case errors.Is(err, context.DeadlineExceeded), errors.Is(err, context.Canceled):
		return &RejectionError{Reason: Unknown, Detail: op + " timed out", Err: err}
	default:
		return &RejectionError{Reason: Unknown, Detail: op + " failed", Err: err}
	}
}

// ReasonOf returns the rejection reason carried by err, if any.
func ReasonOf(err error) (RejectionReason, bool) {
	var rej *RejectionError
	if errors.As(err, &rej) {
		return rej.Reason, true
	}
	return "", false
}

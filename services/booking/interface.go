package booking

import (
	"context"
	"time"

	"expertcall/models"
)

// ProfileSource reads provider profiles (the ProviderProfileQuery collaborator).
type ProfileSource interface {
	FindProfile(ctx context.Context, providerID string) (*models.ProviderProfile, error)
}

// BookingSource lists the live bookings of a provider on a provider-local
// date ("YYYY-MM-DD"); the AvailabilityQuery collaborator.
type BookingSource interface {
	ListBookings(ctx context.Context, providerID, date string) ([]models.Booking, error)
}

// Backend owns bookings once they are requested. Its overlap check is the
// authoritative one.
type Backend interface {
	CreateBooking(ctx context.Context, req models.BookingRequest) (*models.CreateBookingResult, error)
	ConfirmPayment(ctx context.Context, bookingID string, conf models.PaymentConfirmation) (*models.ConfirmPaymentResult, error)
}

// SessionCache stores booking session snapshots.
type SessionCache interface {
	Save(ctx context.Context, s models.BookingSession) error
	Load(ctx context.Context, sessionID string) (*models.BookingSession, error)
	Delete(ctx context.Context, sessionID string) error
}

// BookingRepository persists bookings for the backend.
type BookingRepository interface {
	BookingSource
	// CreateBooking inserts b unless a live booking of the same provider
	// overlaps it, in which case it returns ErrSlotTaken.
	CreateBooking(ctx context.Context, b *models.Booking) error
	FindBooking(ctx context.Context, bookingID string) (*models.Booking, error)
	// TransitionStatus moves a booking from one status to another and reports
	// whether it was still in the from status.
	TransitionStatus(ctx context.Context, bookingID string, from, to models.BookingStatus, reason string) (bool, error)
}

// PaymentProcessor is the external processor behind two-phase bookings.
type PaymentProcessor interface {
	CreatePayment(ctx context.Context, req models.PaymentRequest) (*models.Payment, error)
	GetPayment(ctx context.Context, paymentID string) (*models.Payment, error)
	CancelPayment(ctx context.Context, paymentID string) error
}

// TaskScheduler enqueues delayed background work.
type TaskScheduler interface {
	ScheduleHoldExpiry(ctx context.Context, bookingID string, at time.Time) error
	ScheduleReminder(ctx context.Context, p models.ReminderPayload, at time.Time) error
}

// Notifier pushes booking events to devices.
type Notifier interface {
	NotifyBookingConfirmed(ctx context.Context, provider *models.ProviderProfile, b *models.Booking) error
}

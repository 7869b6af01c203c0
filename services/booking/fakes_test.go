package booking

import (
	"context"
	"fmt"
	"sync"
	"time"

	"expertcall/models"
)

type fakeProfiles struct {
	profiles map[string]models.ProviderProfile
	err      error
}

func (f *fakeProfiles) FindProfile(_ context.Context, providerID string) (*models.ProviderProfile, error) {
	if f.err != nil {
		return nil, f.err
	}
	p, ok := f.profiles[providerID]
	if !ok {
		return nil, ErrProviderNotFound
	}
	return &p, nil
}

type fakeBookingSource struct {
	bookings []models.Booking
	err      error
	dates    []string
}

func (f *fakeBookingSource) ListBookings(_ context.Context, providerID, date string) ([]models.Booking, error) {
	f.dates = append(f.dates, date)
	if f.err != nil {
		return nil, f.err
	}
	var out []models.Booking
	for _, b := range f.bookings {
		if b.ProviderID == providerID && b.ProviderDate == date {
			out = append(out, b)
		}
	}
	return out, nil
}

type fakeBackend struct {
	result     *models.CreateBookingResult
	err        error
	block      bool
	requests   []models.BookingRequest
	confirm    *models.ConfirmPaymentResult
	confirmErr error
}

func (f *fakeBackend) CreateBooking(ctx context.Context, req models.BookingRequest) (*models.CreateBookingResult, error) {
	f.requests = append(f.requests, req)
	if f.block {
		<-ctx.Done()
		return nil, ctx.Err()
	}
	if f.err != nil {
		return nil, f.err
	}
	return f.result, nil
}

func (f *fakeBackend) ConfirmPayment(ctx context.Context, bookingID string, _ models.PaymentConfirmation) (*models.ConfirmPaymentResult, error) {
	if f.block {
		<-ctx.Done()
		return nil, ctx.Err()
	}
	if f.confirmErr != nil {
		return nil, f.confirmErr
	}
	return f.confirm, nil
}

// fakeRepo is an in-memory BookingRepository with the same overlap rule
// as the Mongo one.
type fakeRepo struct {
	mu       sync.Mutex
	bookings map[string]*models.Booking
}

func newFakeRepo() *fakeRepo {
	return &fakeRepo{bookings: map[string]*models.Booking{}}
}

func (r *fakeRepo) ListBookings(_ context.Context, providerID, date string) ([]models.Booking, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []models.Booking
	for _, b := range r.bookings {
		if b.ProviderID == providerID && b.ProviderDate == date && b.IsActive() {
			out = append(out, *b)
		}
	}
	return out, nil
}

func (r *fakeRepo) CreateBooking(_ context.Context, b *models.Booking) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, existing := range r.bookings {
		if existing.ProviderID == b.ProviderID && existing.IsActive() &&
			b.StartInstant.Before(existing.End()) && existing.StartInstant.Before(b.End()) {
			return fmt.Errorf("insert booking: %w", ErrSlotTaken)
		}
	}
	cp := *b
	r.bookings[b.ID] = &cp
	return nil
}

func (r *fakeRepo) FindBooking(_ context.Context, bookingID string) (*models.Booking, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	b, ok := r.bookings[bookingID]
	if !ok {
		return nil, ErrBookingNotFound
	}
	cp := *b
	return &cp, nil
}

func (r *fakeRepo) TransitionStatus(_ context.Context, bookingID string, from, to models.BookingStatus, reason string) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	b, ok := r.bookings[bookingID]
	if !ok || b.Status != from {
		return false, nil
	}
	b.Status = to
	b.CancelReason = reason
	return true, nil
}

type fakePayments struct {
	created   []models.PaymentRequest
	state     models.PaymentState
	cancelled []string
	err       error
}

func (f *fakePayments) CreatePayment(_ context.Context, req models.PaymentRequest) (*models.Payment, error) {
	if f.err != nil {
		return nil, f.err
	}
	f.created = append(f.created, req)
	return &models.Payment{
		PaymentID:    fmt.Sprintf("pi_%d", len(f.created)),
		ClientSecret: fmt.Sprintf("pi_%d_secret", len(f.created)),
		Amount:       req.Amount,
		Currency:     req.Currency,
		State:        models.PaymentProcessing,
	}, nil
}

func (f *fakePayments) GetPayment(_ context.Context, paymentID string) (*models.Payment, error) {
	return &models.Payment{PaymentID: paymentID, State: f.state}, nil
}

func (f *fakePayments) CancelPayment(_ context.Context, paymentID string) error {
	f.cancelled = append(f.cancelled, paymentID)
	return nil
}

type scheduledReminder struct {
	payload models.ReminderPayload
	at      time.Time
}

type fakeTasks struct {
	holds     map[string]time.Time
	reminders []scheduledReminder
}

func newFakeTasks() *fakeTasks {
	return &fakeTasks{holds: map[string]time.Time{}}
}

func (f *fakeTasks) ScheduleHoldExpiry(_ context.Context, bookingID string, at time.Time) error {
	f.holds[bookingID] = at
	return nil
}

func (f *fakeTasks) ScheduleReminder(_ context.Context, p models.ReminderPayload, at time.Time) error {
	f.reminders = append(f.reminders, scheduledReminder{payload: p, at: at})
	return nil
}

type fakeNotifier struct {
	confirmed []string
}

func (f *fakeNotifier) NotifyBookingConfirmed(_ context.Context, _ *models.ProviderProfile, b *models.Booking) error {
	f.confirmed = append(f.confirmed, b.ID)
	return nil
}

package booking

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"expertcall/models"
	"expertcall/services/scheduling"
)

// BackendOptions tune DefaultBackend.
type BackendOptions struct {
	// HoldDuration is how long a pending booking waits for payment.
	HoldDuration time.Duration
	// ReminderLead is how long before the call reminders fire.
	ReminderLead time.Duration
	Now          func() time.Time
}

// DefaultBackend stores bookings and drives the payment hold.
type DefaultBackend struct {
	repo     BookingRepository
	profiles ProfileSource
	payments PaymentProcessor
	tasks    TaskScheduler
	notifier Notifier
	logger   *zap.Logger
	opts     BackendOptions
}

func NewDefaultBackend(
	repo BookingRepository,
	profiles ProfileSource,
	payments PaymentProcessor,
	tasks TaskScheduler,
	notifier Notifier,
	logger *zap.Logger,
	opts BackendOptions,
) *DefaultBackend {
	if logger == nil {
		logger = zap.NewNop()
	}
	if opts.HoldDuration <= 0 {
		opts.HoldDuration = 15 * time.Minute
	}
	if opts.ReminderLead <= 0 {
		opts.ReminderLead = 15 * time.Minute
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}
	return &DefaultBackend{
		repo:     repo,
		profiles: profiles,
		payments: payments,
		tasks:    tasks,
		notifier: notifier,
		logger:   logger,
		opts:     opts,
	}
}

// CreateBooking stores the request. Providers that take prepayment get a
// pending booking, a payment to complete, and a hold that expires; all
// others are confirmed straight away.
func (be *DefaultBackend) CreateBooking(ctx context.Context, req models.BookingRequest) (*models.CreateBookingResult, error) {
	profile, err := be.profiles.FindProfile(ctx, req.ProviderID)
	if err != nil {
		return nil, fmt.Errorf("failed to load provider %s: %w", req.ProviderID, err)
	}

	now := be.opts.Now().UTC()
	b := &models.Booking{
		ID:              uuid.NewString(),
		ProviderID:      req.ProviderID,
		UserID:          req.UserID,
		StartInstant:    req.StartInstant.UTC(),
		DurationMinutes: req.DurationMinutes,
		ProviderDate:    req.ProviderDate,
		CallType:        req.CallType,
		Plan:            req.Plan,
		Pricing:         req.Pricing,
		CreatedAt:       now,
		UpdatedAt:       now,
	}

	if !profile.PrePaymentRequired || req.Pricing.Total <= 0 {
		b.Status = models.StatusConfirmed
		if err := be.repo.CreateBooking(ctx, b); err != nil {
			return nil, err
		}
		be.afterConfirm(ctx, profile, b)
		return &models.CreateBookingResult{BookingID: b.ID}, nil
	}

	payment, err := be.payments.CreatePayment(ctx, models.PaymentRequest{
		BookingID:   b.ID,
		UserID:      b.UserID,
		Amount:      req.Pricing.Total,
		Currency:    req.Pricing.Currency,
		Idempotency: "booking-" + b.ID,
		Metadata: map[string]string{
			"bookingId":  b.ID,
			"providerId": b.ProviderID,
			"userId":     b.UserID,
		},
		Description: fmt.Sprintf("%d minute %s call with %s", b.DurationMinutes, b.CallType, profile.DisplayName),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create payment: %w", err)
	}

	b.Status = models.StatusPending
	b.PaymentID = payment.PaymentID
	if err := be.repo.CreateBooking(ctx, b); err != nil {
		if cerr := be.payments.CancelPayment(context.WithoutCancel(ctx), payment.PaymentID); cerr != nil {
			be.logger.Error("failed to cancel payment of rejected booking",
				zap.String("paymentId", payment.PaymentID), zap.Error(cerr))
		}
		return nil, err
	}

	if err := be.tasks.ScheduleHoldExpiry(ctx, b.ID, now.Add(be.opts.HoldDuration)); err != nil {
		be.logger.Error("failed to schedule hold expiry", zap.String("bookingId", b.ID), zap.Error(err))
	}

	be.logger.Info("booking held pending payment",
		zap.String("bookingId", b.ID),
		zap.String("paymentId", payment.PaymentID),
		zap.Int64("amount", payment.Amount))
	return &models.CreateBookingResult{
		BookingID:       b.ID,
		RequiresPayment: true,
		PaymentHandle:   payment.ClientSecret,
	}, nil
}

// ConfirmPayment settles a pending booking from the processor's view of
// its payment. A payment still in flight leaves the booking pending.
func (be *DefaultBackend) ConfirmPayment(ctx context.Context, bookingID string, conf models.PaymentConfirmation) (*models.ConfirmPaymentResult, error) {
	b, err := be.repo.FindBooking(ctx, bookingID)
	if err != nil {
		return nil, err
	}
	if b.PaymentID != conf.PaymentID {
		return nil, ErrPaymentMismatch
	}
	if b.Status != models.StatusPending {
		return &models.ConfirmPaymentResult{BookingID: b.ID, Status: b.Status}, nil
	}

	payment, err := be.payments.GetPayment(ctx, b.PaymentID)
	if err != nil {
		return nil, fmt.Errorf("failed to read payment %s: %w", b.PaymentID, err)
	}

	status, err := be.settle(ctx, b, payment.State)
	if err != nil {
		return nil, err
	}
	return &models.ConfirmPaymentResult{BookingID: b.ID, Status: status}, nil
}

// ExpireHold cancels a booking still waiting for payment. A payment that
// succeeded in the meantime confirms the booking instead.
func (be *DefaultBackend) ExpireHold(ctx context.Context, bookingID string) error {
	b, err := be.repo.FindBooking(ctx, bookingID)
	if errors.Is(err, ErrBookingNotFound) {
		be.logger.Warn("hold expiry for unknown booking", zap.String("bookingId", bookingID))
		return nil
	}
	if err != nil {
		return err
	}
	if b.Status != models.StatusPending {
		return nil
	}

	state := models.PaymentFailed
	if b.PaymentID != "" {
		payment, err := be.payments.GetPayment(ctx, b.PaymentID)
		if err != nil {
			return fmt.Errorf("failed to read payment %s: %w", b.PaymentID, err)
		}
		if payment.State == models.PaymentSucceeded {
			state = models.PaymentSucceeded
		} else if err := be.payments.CancelPayment(ctx, b.PaymentID); err != nil {
			be.logger.Error("failed to cancel expired payment", zap.String("paymentId", b.PaymentID), zap.Error(err))
		}
	}

	status, err := be.settle(ctx, b, state)
	if err != nil {
		return err
	}
	be.logger.Info("payment hold resolved", zap.String("bookingId", b.ID), zap.String("status", string(status)))
	return nil
}

// settle moves a pending booking according to a payment state and returns
// the booking's status afterwards.
func (be *DefaultBackend) settle(ctx context.Context, b *models.Booking, state models.PaymentState) (models.BookingStatus, error) {
	var to models.BookingStatus
	var reason string
	switch state {
	case models.PaymentSucceeded:
		to = models.StatusConfirmed
	case models.PaymentFailed:
		to, reason = models.StatusCancelled, "payment not completed"
	default:
		return models.StatusPending, nil
	}

	moved, err := be.repo.TransitionStatus(ctx, b.ID, models.StatusPending, to, reason)
	if err != nil {
		return "", fmt.Errorf("failed to update booking %s: %w", b.ID, err)
	}
	if !moved {
		current, err := be.repo.FindBooking(ctx, b.ID)
		if err != nil {
			return "", err
		}
		return current.Status, nil
	}

	b.Status = to
	if to == models.StatusConfirmed {
		profile, err := be.profiles.FindProfile(ctx, b.ProviderID)
		if err != nil {
			be.logger.Warn("confirmed booking without provider profile, skipping notifications",
				zap.String("bookingId", b.ID), zap.Error(err))
			return to, nil
		}
		be.afterConfirm(ctx, profile, b)
	}
	return to, nil
}

// afterConfirm schedules reminders and notifies the provider. Failures are
// logged; the booking stands either way.
func (be *DefaultBackend) afterConfirm(ctx context.Context, profile *models.ProviderProfile, b *models.Booking) {
	fireAt := b.StartInstant.Add(-be.opts.ReminderLead)
	if fireAt.After(be.opts.Now()) {
		for _, p := range reminderPayloads(profile, b, fireAt) {
			if err := be.tasks.ScheduleReminder(ctx, p, fireAt); err != nil {
				be.logger.Error("failed to schedule reminder",
					zap.String("bookingId", b.ID), zap.String("target", p.Target), zap.Error(err))
			}
		}
	}
	if err := be.notifier.NotifyBookingConfirmed(ctx, profile, b); err != nil {
		be.logger.Warn("booking confirmation push failed", zap.String("bookingId", b.ID), zap.Error(err))
	}
}

func reminderPayloads(profile *models.ProviderProfile, b *models.Booking, fireAt time.Time) []models.ReminderPayload {
	fire := fireAt.UTC().Format(time.RFC3339)
	return []models.ReminderPayload{
		{
			BookingID: b.ID,
			Target:    "user",
			ID:        b.UserID,
			Title:     "Your call starts soon",
			Body:      fmt.Sprintf("Your %s call with %s starts in a few minutes.", b.CallType, profile.DisplayName),
			FireDate:  fire,
		},
		{
			BookingID: b.ID,
			Target:    "provider",
			ID:        b.ProviderID,
			Title:     "Upcoming call",
			Body:      fmt.Sprintf("You have a %d minute %s call at %s.", b.DurationMinutes, b.CallType, b.StartInstant.In(zoneOf(profile)).Format("15:04")),
			FireDate:  fire,
		},
	}
}

func zoneOf(profile *models.ProviderProfile) *time.Location {
	return scheduling.ZoneOr(profile.Timezone, time.UTC)
}

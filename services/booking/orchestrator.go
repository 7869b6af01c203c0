package booking

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"expertcall/metrics"
	"expertcall/models"
	"expertcall/services/pricing"
	"expertcall/services/scheduling"
)

// Options tune the orchestrator. Zero values fall back to the defaults below.
type Options struct {
	DefaultStepMinutes int
	// DefaultRule is used for any working-hours bound a provider published
	// in a form the parser does not recognise.
	DefaultRule     scheduling.WorkingHoursRule
	HorizonDays     int
	CallTimeout     time.Duration
	DefaultCurrency string
	Now             func() time.Time
}

func (o Options) withDefaults() Options {
	if o.DefaultStepMinutes <= 0 {
		o.DefaultStepMinutes = 30
	}
	if o.DefaultRule.End == 0 {
		o.DefaultRule = scheduling.NewWorkingHoursRule(0, scheduling.MinutesPerDay, "")
	}
	if o.HorizonDays <= 0 {
		o.HorizonDays = 30
	}
	if o.CallTimeout <= 0 {
		o.CallTimeout = 5 * time.Second
	}
	if o.DefaultCurrency == "" {
		o.DefaultCurrency = "usd"
	}
	if o.Now == nil {
		o.Now = time.Now
	}
	return o
}

// Orchestrator runs a viewer's booking session: listing slots in the
// viewer's zone, quoting, reserving and confirming payment.
type Orchestrator struct {
	profiles ProfileSource
	bookings BookingSource
	backend  Backend
	sessions SessionCache
	pricing  *pricing.Engine
	metrics  *metrics.BookingMetrics
	logger   *zap.Logger
	opts     Options
}

func NewOrchestrator(
	profiles ProfileSource,
	bookings BookingSource,
	backend Backend,
	sessions SessionCache,
	engine *pricing.Engine,
	m *metrics.BookingMetrics,
	logger *zap.Logger,
	opts Options,
) *Orchestrator {
	if logger == nil {
		logger = zap.NewNop()
	}
	if engine == nil {
		engine = pricing.NewEngine(logger, m)
	}
	return &Orchestrator{
		profiles: profiles,
		bookings: bookings,
		backend:  backend,
		sessions: sessions,
		pricing:  engine,
		metrics:  m,
		logger:   logger,
		opts:     opts.withDefaults(),
	}
}

// QuoteInput selects what is being priced.
type QuoteInput struct {
	CallType   models.CallType `json:"callType" binding:"required"`
	Plan       models.CallPlan `json:"plan" binding:"required"`
	WithAddon  bool            `json:"withAddon"`
	CouponCode string          `json:"couponCode"`
}

// Selection is a viewer's slot choice, read on the viewer's wall clock.
type Selection struct {
	QuoteInput
	ViewerDate string `json:"date" binding:"required"`
	ViewerTime string `json:"time" binding:"required"`
}

// Outcome is the result of a reservation. Final is false while a payment
// is outstanding; the booking must not be presented as done until
// ConfirmPayment reports a confirmed status.
type Outcome struct {
	BookingID       string                  `json:"bookingId"`
	Status          models.BookingStatus    `json:"status"`
	Final           bool                    `json:"final"`
	RequiresPayment bool                    `json:"requiresPayment"`
	PaymentHandle   string                  `json:"paymentHandle,omitempty"`
	Request         models.BookingRequest   `json:"request"`
	Pricing         models.PricingBreakdown `json:"pricing"`
}

// PaymentOutcome reports where a booking stands after checkout.
type PaymentOutcome struct {
	BookingID string               `json:"bookingId"`
	Status    models.BookingStatus `json:"status"`
	Final     bool                 `json:"final"`
}

// StartSession snapshots a provider profile for a viewer.
func (o *Orchestrator) StartSession(ctx context.Context, providerID, userID, viewerTimezone string) (*models.BookingSession, error) {
	if _, err := scheduling.LoadZone(viewerTimezone); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidTimezone, err)
	}

	profile, err := o.fetchProfile(ctx, providerID)
	if err != nil {
		return nil, err
	}

	session := models.BookingSession{
		SessionID:      uuid.NewString(),
		UserID:         userID,
		ViewerTimezone: viewerTimezone,
		Provider:       *profile,
		Coupons:        profile.Coupons,
		CreatedAt:      o.opts.Now().UTC(),
	}
	if err := o.sessions.Save(ctx, session); err != nil {
		return nil, err
	}
	o.logger.Info("booking session started",
		zap.String("sessionId", session.SessionID),
		zap.String("providerId", providerID),
		zap.String("viewerTimezone", viewerTimezone))
	return &session, nil
}

// CancelSession drops a session snapshot.
func (o *Orchestrator) CancelSession(ctx context.Context, sessionID string) error {
	if _, err := o.loadSession(ctx, sessionID); err != nil {
		return err
	}
	return o.sessions.Delete(ctx, sessionID)
}

// loadSession reads a session and hides it from any caller other than the
// user who started it.
func (o *Orchestrator) loadSession(ctx context.Context, sessionID string) (*models.BookingSession, error) {
	session, err := o.sessions.Load(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	if caller, ok := CallerFrom(ctx); ok && caller != session.UserID {
		o.logger.Warn("session accessed by another user",
			zap.String("sessionId", sessionID),
			zap.String("caller", caller))
		return nil, ErrSessionNotFound
	}
	return session, nil
}

// Slots lists the open slots of a provider-local date, each shown on both
// wall clocks. When the date has none, the next date within the horizon
// that has candidate slots is suggested.
func (o *Orchestrator) Slots(ctx context.Context, sessionID, dateRaw string, durationMinutes int) (*models.SlotsResponse, error) {
	session, err := o.loadSession(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	date, err := scheduling.ParseDate(dateRaw)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidSelection, err)
	}
	if durationMinutes <= 0 {
		return nil, fmt.Errorf("%w: duration must be positive", ErrInvalidSelection)
	}

	profile := session.Profile()
	rule := o.ruleFor(profile)
	providerZone := rule.Zone()
	viewerZone := scheduling.ZoneOr(session.ViewerTimezone, time.UTC)

	bookings, err := o.fetchBookings(ctx, profile.ID, date)
	if err != nil {
		return nil, err
	}

	q := scheduling.SlotQuery{
		Date:            date,
		Rule:            rule,
		Days:            scheduling.NewDaySet(profile.AvailableDays...),
		StepMinutes:     o.stepFor(profile),
		DurationMinutes: durationMinutes,
		Now:             o.opts.Now(),
	}

	resp := &models.SlotsResponse{
		ProviderTimezone: providerZone.String(),
		ViewerTimezone:   viewerZone.String(),
		Date:             date.String(),
		Slots:            []models.AvailableSlot{},
	}
	for t := range scheduling.OpenSlots(q, bookings) {
		res := scheduling.Resolve(date, t, providerZone)
		if res.Approximate {
			o.metrics.ObserveApproximate()
		}
		viewerDate, viewerTime := scheduling.Project(res.Instant, viewerZone)
		resp.Slots = append(resp.Slots, models.AvailableSlot{
			ProviderDate: date.String(),
			ProviderTime: t.String(),
			ViewerDate:   viewerDate.String(),
			ViewerTime:   viewerTime.String(),
			StartInstant: res.Instant.UTC(),
			Approximate:  res.Approximate,
		})
	}

	if len(resp.Slots) == 0 {
		from := q
		from.Date = date.AddDays(1)
		if next, ok := scheduling.NextAvailableDate(from, o.opts.HorizonDays); ok {
			resp.NextAvailable = next.String()
		}
	}
	return resp, nil
}

// Quote prices a plan against the session's provider.
func (o *Orchestrator) Quote(ctx context.Context, sessionID string, in QuoteInput) (*models.PricingBreakdown, error) {
	session, err := o.loadSession(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	out, err := o.price(session.Profile(), in)
	if err != nil {
		return nil, err
	}
	return &out, nil
}

// Book reserves the viewer's selection. Bookings are re-read right before
// the local check; the backend then decides for real.
func (o *Orchestrator) Book(ctx context.Context, sessionID string, sel Selection) (*Outcome, error) {
	session, err := o.loadSession(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	viewerDate, err := scheduling.ParseDate(sel.ViewerDate)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidSelection, err)
	}
	viewerTime, err := scheduling.Parse(sel.ViewerTime)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidSelection, err)
	}

	profile := session.Profile()
	breakdown, err := o.price(profile, sel.QuoteInput)
	if err != nil {
		return nil, err
	}

	rule := o.ruleFor(profile)
	viewerZone := scheduling.ZoneOr(session.ViewerTimezone, time.UTC)
	providerDate, _, _ := scheduling.Convert(viewerDate, viewerTime, viewerZone, rule.Zone())

	bookings, err := o.fetchBookings(ctx, profile.ID, providerDate)
	if err != nil {
		o.metrics.ObserveReservation(string(Unknown))
		return nil, asRejection("availability query", err)
	}

	req, err := Reserve(ReserveInput{
		ProviderID:      profile.ID,
		UserID:          session.UserID,
		ViewerDate:      viewerDate,
		ViewerTime:      viewerTime,
		ViewerZone:      viewerZone,
		Rule:            rule,
		Days:            scheduling.NewDaySet(profile.AvailableDays...),
		StepMinutes:     o.stepFor(profile),
		CallType:        sel.CallType,
		Plan:            sel.Plan,
		DurationMinutes: sel.Plan.Minutes,
		Pricing:         breakdown,
		Bookings:        bookings,
		Now:             o.opts.Now(),
	})
	if err != nil {
		if reason, ok := ReasonOf(err); ok {
			o.metrics.ObserveReservation(string(reason))
		}
		return nil, err
	}
	if req.Approximate {
		o.metrics.ObserveApproximate()
		o.logger.Warn("selected time does not exist on the viewer's clock, using nearest instant",
			zap.String("sessionId", sessionID),
			zap.String("viewerDate", sel.ViewerDate),
			zap.String("viewerTime", sel.ViewerTime))
	}

	callCtx, cancel := context.WithTimeout(ctx, o.opts.CallTimeout)
	defer cancel()
	start := time.Now()
	result, err := o.backend.CreateBooking(callCtx, req)
	o.metrics.ObserveCollaborator("create_booking", time.Since(start))
	if err != nil {
		rej := asRejection("create booking", err)
		reason, _ := ReasonOf(rej)
		o.metrics.ObserveReservation(string(reason))
		o.logger.Warn("booking backend refused reservation",
			zap.String("sessionId", sessionID),
			zap.String("reason", string(reason)),
			zap.Error(err))
		return nil, rej
	}
	o.metrics.ObserveReservation("accepted")

	out := &Outcome{
		BookingID:       result.BookingID,
		Status:          models.StatusConfirmed,
		Final:           !result.RequiresPayment,
		RequiresPayment: result.RequiresPayment,
		PaymentHandle:   result.PaymentHandle,
		Request:         req,
		Pricing:         breakdown,
	}
	if result.RequiresPayment {
		out.Status = models.StatusPending
	}
	o.logger.Info("booking requested",
		zap.String("bookingId", out.BookingID),
		zap.String("providerId", req.ProviderID),
		zap.Time("start", req.StartInstant),
		zap.Bool("requiresPayment", out.RequiresPayment))
	return out, nil
}

// ConfirmPayment finishes a two-phase booking. Final is true only when the
// backend reports the booking confirmed.
func (o *Orchestrator) ConfirmPayment(ctx context.Context, bookingID string, conf models.PaymentConfirmation) (*PaymentOutcome, error) {
	callCtx, cancel := context.WithTimeout(ctx, o.opts.CallTimeout)
	defer cancel()

	start := time.Now()
	result, err := o.backend.ConfirmPayment(callCtx, bookingID, conf)
	o.metrics.ObserveCollaborator("confirm_payment", time.Since(start))
	if err != nil {
		if errors.Is(err, ErrBookingNotFound) || errors.Is(err, ErrPaymentMismatch) {
			return nil, err
		}
		return nil, asRejection("payment confirmation", err)
	}

	o.metrics.ObservePayment(string(result.Status))
	return &PaymentOutcome{
		BookingID: result.BookingID,
		Status:    result.Status,
		Final:     result.Status == models.StatusConfirmed,
	}, nil
}

func (o *Orchestrator) price(profile *models.ProviderProfile, in QuoteInput) (models.PricingBreakdown, error) {
	rate, ok := profile.RateFor(in.CallType)
	if !ok || rate <= 0 {
		return models.PricingBreakdown{}, fmt.Errorf("%w: %q", ErrUnsupportedCallType, in.CallType)
	}
	var addon *models.Addon
	if in.WithAddon && profile.Addon != nil {
		addon = profile.Addon
	}

	out, err := o.pricing.QuoteCode(in.Plan, rate, addon, pricing.NewCouponBook(profile.Coupons), in.CouponCode)
	if err != nil {
		return models.PricingBreakdown{}, err
	}
	out.Currency = profile.Currency
	if out.Currency == "" {
		out.Currency = o.opts.DefaultCurrency
	}
	return out, nil
}

func (o *Orchestrator) ruleFor(profile *models.ProviderProfile) scheduling.WorkingHoursRule {
	rule, usedFallback := scheduling.RuleFromStrings(profile.WorkingHours.Start, profile.WorkingHours.End, profile.Timezone, o.opts.DefaultRule)
	if usedFallback {
		o.logger.Warn("unrecognised working hours, using default window",
			zap.String("providerId", profile.ID),
			zap.String("start", profile.WorkingHours.Start),
			zap.String("end", profile.WorkingHours.End))
	}
	if _, err := scheduling.LoadZone(profile.Timezone); err != nil {
		o.logger.Warn("unknown provider timezone, using UTC", zap.String("providerId", profile.ID), zap.Error(err))
	}
	return rule
}

func (o *Orchestrator) stepFor(profile *models.ProviderProfile) int {
	if profile.SlotStepMinutes > 0 {
		return profile.SlotStepMinutes
	}
	return o.opts.DefaultStepMinutes
}

func (o *Orchestrator) fetchProfile(ctx context.Context, providerID string) (*models.ProviderProfile, error) {
	callCtx, cancel := context.WithTimeout(ctx, o.opts.CallTimeout)
	defer cancel()
	start := time.Now()
	profile, err := o.profiles.FindProfile(callCtx, providerID)
	o.metrics.ObserveCollaborator("find_profile", time.Since(start))
	if err != nil {
		return nil, fmt.Errorf("failed to load provider %s: %w", providerID, err)
	}
	return profile, nil
}

func (o *Orchestrator) fetchBookings(ctx context.Context, providerID string, date scheduling.Date) ([]models.Booking, error) {
	callCtx, cancel := context.WithTimeout(ctx, o.opts.CallTimeout)
	defer cancel()
	start := time.Now()
	bookings, err := o.bookings.ListBookings(callCtx, providerID, date.String())
	o.metrics.ObserveCollaborator("list_bookings", time.Since(start))
	if err != nil {
		return nil, fmt.Errorf("failed to list bookings for %s on %s: %w", providerID, date, err)
	}
	return bookings, nil
}

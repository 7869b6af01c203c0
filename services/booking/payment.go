package booking

import (
	"context"
	"fmt"

	"github.com/stripe/stripe-go/v76"
	"github.com/stripe/stripe-go/v76/paymentintent"
	"go.uber.org/zap"

	"expertcall/models"
)

// StripePayments collects booking payments with PaymentIntents. The API
// key is the package-level stripe.Key set at startup.
type StripePayments struct {
	logger *zap.Logger
}

func NewStripePayments(logger *zap.Logger) *StripePayments {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &StripePayments{logger: logger}
}

func (s *StripePayments) CreatePayment(ctx context.Context, req models.PaymentRequest) (*models.Payment, error) {
	if req.Amount <= 0 {
		return nil, fmt.Errorf("invalid payment amount %d", req.Amount)
	}
	params := &stripe.PaymentIntentParams{
		Amount:   stripe.Int64(req.Amount),
		Currency: stripe.String(req.Currency),
		AutomaticPaymentMethods: &stripe.PaymentIntentAutomaticPaymentMethodsParams{
			Enabled: stripe.Bool(true),
		},
	}
	if req.Description != "" {
		params.Description = stripe.String(req.Description)
	}
	params.Context = ctx
	if req.Idempotency != "" {
		params.SetIdempotencyKey(req.Idempotency)
	}
	for k, v := range req.Metadata {
		params.AddMetadata(k, v)
	}

	pi, err := paymentintent.New(params)
	if err != nil {
		return nil, fmt.Errorf("stripe: create payment intent: %w", err)
	}
	s.logger.Info("payment intent created", zap.String("paymentId", pi.ID), zap.String("bookingId", req.BookingID))
	return paymentFromIntent(pi), nil
}

func (s *StripePayments) GetPayment(ctx context.Context, paymentID string) (*models.Payment, error) {
	params := &stripe.PaymentIntentParams{}
	params.Context = ctx
	pi, err := paymentintent.Get(paymentID, params)
	if err != nil {
		return nil, fmt.Errorf("stripe: get payment intent %s: %w", paymentID, err)
	}
	return paymentFromIntent(pi), nil
}

func (s *StripePayments) CancelPayment(ctx context.Context, paymentID string) error {
	params := &stripe.PaymentIntentCancelParams{}
	params.Context = ctx
	if _, err := paymentintent.Cancel(paymentID, params); err != nil {
		return fmt.Errorf("stripe: cancel payment intent %s: %w", paymentID, err)
	}
	return nil
}

// paymentFromIntent maps an intent onto the processor-neutral states.
// requires_capture counts as succeeded: the funds are authorised.
func paymentFromIntent(pi *stripe.PaymentIntent) *models.Payment {
	p := &models.Payment{
		PaymentID:    pi.ID,
		ClientSecret: pi.ClientSecret,
		Amount:       pi.Amount,
		Currency:     string(pi.Currency),
		State:        models.PaymentProcessing,
	}
	switch pi.Status {
	case stripe.PaymentIntentStatusSucceeded, stripe.PaymentIntentStatusRequiresCapture:
		p.State = models.PaymentSucceeded
	case stripe.PaymentIntentStatusCanceled:
		p.State = models.PaymentFailed
	}
	return p
}

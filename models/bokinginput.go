package models

import "time"

// BookingRequest is the immutable reservation handed to the booking backend.
type BookingRequest struct {
	ProviderID      string           `json:"providerId"`
	UserID          string           `json:"userId"`
	StartInstant    time.Time        `json:"startInstant"`
	ProviderDate    string           `json:"providerDate"` // "YYYY-MM-DD" in the provider's zone
	ProviderTime    string           `json:"providerTime"` // "HH:MM" in the provider's zone
	DurationMinutes int              `json:"durationMinutes"`
	CallType        CallType         `json:"callType"`
	Plan            CallPlan         `json:"plan"`
	Pricing         PricingBreakdown `json:"pricing"`
	Approximate     bool             `json:"approximate,omitempty"` // the viewer's time fell in a DST gap
}

// CreateBookingResult is the backend's answer to a BookingRequest.
type CreateBookingResult struct {
	BookingID       string `json:"bookingId"`
	RequiresPayment bool   `json:"requiresPayment"`
	PaymentHandle   string `json:"paymentHandle,omitempty"` // client secret for the processor's checkout
}

// PaymentConfirmation is what the client reports after checkout.
type PaymentConfirmation struct {
	PaymentID string `json:"paymentId" binding:"required"`
}

// ConfirmPaymentResult is the backend's view of the booking after checkout.
type ConfirmPaymentResult struct {
	BookingID string        `json:"bookingId"`
	Status    BookingStatus `json:"status"`
}

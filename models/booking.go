package models

import "time"

// BookingStatus is the lifecycle state of a call booking.
type BookingStatus string

const (
	StatusPending   BookingStatus = "pending"
	StatusConfirmed BookingStatus = "confirmed"
	StatusCancelled BookingStatus = "cancelled"
	StatusCompleted BookingStatus = "completed"
)

// Booking is a reserved call with a provider.
type Booking struct {
	ID              string           `bson:"id" json:"id"`                                     // Unique booking identifier (UUID)
	ProviderID      string           `bson:"provider_id" json:"providerId"`                    // Provider who was booked
	UserID          string           `bson:"user_id" json:"userId"`                            // Client who booked
	StartInstant    time.Time        `bson:"start_instant" json:"startInstant"`                // Call start, stored in UTC
	DurationMinutes int              `bson:"duration_minutes" json:"durationMinutes"`          // Call length
	ProviderDate    string           `bson:"provider_date" json:"providerDate"`                // "YYYY-MM-DD" in the provider's zone
	Status          BookingStatus    `bson:"status" json:"status"`                             // pending until payment (if any) clears
	CallType        CallType         `bson:"call_type" json:"callType"`                        // audio or video
	Plan            CallPlan         `bson:"plan" json:"plan"`                                 // purchased plan
	Pricing         PricingBreakdown `bson:"pricing" json:"pricing"`                           // price at booking time
	PaymentID       string           `bson:"payment_id,omitempty" json:"paymentId,omitempty"`  // processor reference when prepaid
	CancelReason    string           `bson:"cancel_reason,omitempty" json:"cancelReason,omitempty"`
	CreatedAt       time.Time        `bson:"created_at" json:"createdAt"`
	UpdatedAt       time.Time        `bson:"updated_at" json:"updatedAt"`
}

// End is the exclusive end of the call.
func (b Booking) End() time.Time {
	return b.StartInstant.Add(time.Duration(b.DurationMinutes) * time.Minute)
}

// IsCancelled reports whether the booking no longer holds its slot.
func (b Booking) IsCancelled() bool {
	return b.Status == StatusCancelled
}

// IsActive returns true while the booking still occupies its slot.
func (b Booking) IsActive() bool {
	return b.Status == StatusPending || b.Status == StatusConfirmed
}

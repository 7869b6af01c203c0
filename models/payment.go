package models

// PaymentRequest asks the processor to collect an amount for a booking.
type PaymentRequest struct {
	BookingID   string
	UserID      string
	Amount      int64 // smallest currency unit
	Currency    string
	Idempotency string
	Metadata    map[string]string
	Description string
}

// PaymentState is the processor-neutral state of a payment.
type PaymentState string

const (
	PaymentProcessing PaymentState = "processing"
	PaymentSucceeded  PaymentState = "succeeded"
	PaymentFailed     PaymentState = "failed"
)

// Payment is the processor's record of a PaymentRequest.
type Payment struct {
	PaymentID    string
	ClientSecret string
	Amount       int64
	Currency     string
	State        PaymentState
}

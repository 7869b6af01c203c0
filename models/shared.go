package models

// ReminderPayload is the body of a scheduled pre-call reminder.
type ReminderPayload struct {
	BookingID string `json:"bookingId"`
	Target    string `json:"target"` // "user" or "provider"
	ID        string `json:"id"`     // userId or providerId
	Title     string `json:"title"`
	Body      string `json:"body"`
	FireDate  string `json:"fireDate"`
}

// HoldExpiryPayload is the body of a pending-hold expiry task.
type HoldExpiryPayload struct {
	BookingID string `json:"bookingId"`
}

package models

import "time"

// CallRates are a provider's per-minute rates in the smallest currency unit.
type CallRates struct {
	AudioPerMinute float64 `bson:"audioPerMinute" json:"audioPerMinute"`
	VideoPerMinute float64 `bson:"videoPerMinute" json:"videoPerMinute"`
}

// WorkingHours is the provider's window exactly as published. Values are
// free-form ("9am", "09:00", "21:30") and are normalised by the scheduler.
type WorkingHours struct {
	Start string `bson:"start" json:"start"`
	End   string `bson:"end" json:"end"`
}

// ProviderProfile is what the booking engine reads about a provider.
type ProviderProfile struct {
	ID                 string       `bson:"id" json:"id"`
	DisplayName        string       `bson:"displayName" json:"displayName"`
	Timezone           string       `bson:"timezone" json:"timezone"`                               // IANA name, e.g. "Africa/Nairobi"
	WorkingHours       WorkingHours `bson:"workingHours" json:"workingHours"`                       // daily window in provider-local time
	AvailableDays      []string     `bson:"availableDays,omitempty" json:"availableDays,omitempty"` // weekday names; empty = every day
	SlotStepMinutes    int          `bson:"slotStepMinutes,omitempty" json:"slotStepMinutes,omitempty"`
	Rates              CallRates    `bson:"rates" json:"rates"`
	Addon              *Addon       `bson:"addon,omitempty" json:"addon,omitempty"`
	Coupons            []Coupon     `bson:"coupons,omitempty" json:"-"`
	Currency           string       `bson:"currency" json:"currency"`
	PrePaymentRequired bool         `bson:"prePaymentRequired" json:"prePaymentRequired"`
	DeviceTokens       []string     `bson:"deviceTokens,omitempty" json:"-"` // FCM registration tokens
	UpdatedAt          time.Time    `bson:"updatedAt" json:"updatedAt,omitzero"`
}

// RateFor returns the per-minute rate for a call type.
func (p ProviderProfile) RateFor(ct CallType) (float64, bool) {
	switch ct {
	case CallAudio:
		return p.Rates.AudioPerMinute, true
	case CallVideo:
		return p.Rates.VideoPerMinute, true
	default:
		return 0, false
	}
}

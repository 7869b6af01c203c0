package models

import "time"

// BookingSession holds the provider snapshot a viewer books against.
// The profile is read once when the session starts. Coupons are kept beside
// it because the profile does not serialize them.
type BookingSession struct {
	SessionID      string          `json:"sessionId"`
	UserID         string          `json:"userId"`
	ViewerTimezone string          `json:"viewerTimezone"`
	Provider       ProviderProfile `json:"provider"`
	Coupons        []Coupon        `json:"coupons,omitempty"`
	CreatedAt      time.Time       `json:"createdAt"`
}

// Profile returns the provider snapshot with its coupons restored.
func (s *BookingSession) Profile() *ProviderProfile {
	p := s.Provider
	p.Coupons = s.Coupons
	return &p
}

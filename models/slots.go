package models

import "time"

// AvailableSlot is an open start time shown to a viewer, in both the
// provider's and the viewer's wall clock.
type AvailableSlot struct {
	ProviderDate string    `json:"providerDate"`
	ProviderTime string    `json:"providerTime"`
	ViewerDate   string    `json:"viewerDate"`
	ViewerTime   string    `json:"viewerTime"`
	StartInstant time.Time `json:"startInstant"`
	Approximate  bool      `json:"approximate,omitempty"`
}

// SlotsResponse lists the open slots of one provider-local date.
type SlotsResponse struct {
	ProviderTimezone string          `json:"providerTimezone"`
	ViewerTimezone   string          `json:"viewerTimezone"`
	Date             string          `json:"date"`
	Slots            []AvailableSlot `json:"slots"`
	NextAvailable    string          `json:"nextAvailableDate,omitempty"`
}

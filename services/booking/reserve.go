package booking

import (
	"fmt"
	"slices"
	"time"

	"expertcall/models"
	"expertcall/services/scheduling"
)

// ReserveInput is everything Reserve decides on. Bookings must be fetched
// after the user picked the slot, right before Reserve runs.
type ReserveInput struct {
	ProviderID string
	UserID     string

	ViewerDate scheduling.Date
	ViewerTime scheduling.TimeOfDay
	ViewerZone *time.Location

	Rule        scheduling.WorkingHoursRule
	Days        scheduling.DaySet
	StepMinutes int

	CallType        models.CallType
	Plan            models.CallPlan
	DurationMinutes int
	Pricing         models.PricingBreakdown

	Bookings []models.Booking
	Now      time.Time
}

// Reserve checks a viewer's slot choice against live availability and
// builds the booking request. The result is only what this process
// believed at decision time; the backend re-validates.
func Reserve(in ReserveInput) (models.BookingRequest, error) {
	if in.DurationMinutes <= 0 {
		return models.BookingRequest{}, fmt.Errorf("%w: duration must be positive", ErrInvalidSelection)
	}

	providerZone := in.Rule.Zone()
	res := scheduling.Resolve(in.ViewerDate, in.ViewerTime, in.ViewerZone)
	providerDate, providerTime := scheduling.Project(res.Instant, providerZone)

	// Working hours may have changed since the client fetched its slot list.
	slots := scheduling.Slots(scheduling.SlotQuery{
		Date:            providerDate,
		Rule:            in.Rule,
		Days:            in.Days,
		StepMinutes:     in.StepMinutes,
		DurationMinutes: in.DurationMinutes,
		Now:             in.Now,
	})
	if !slices.Contains(slots, providerTime) {
		detail := fmt.Sprintf("%s %s is not an open slot for this provider", providerDate, providerTime)
		if !in.Rule.Contains(providerTime, in.DurationMinutes) {
			detail = fmt.Sprintf("a %d minute call at %s falls outside %s-%s", in.DurationMinutes, providerTime,
				scheduling.Format(in.Rule.Start), scheduling.Format(in.Rule.End))
		}
		return models.BookingRequest{}, reject(OutsideWorkingHours, detail)
	}

	if scheduling.Overlaps(res.Instant, in.DurationMinutes, in.Bookings, providerZone) {
		return models.BookingRequest{}, reject(SlotTaken,
			fmt.Sprintf("%s %s overlaps an existing booking", providerDate, providerTime))
	}

	return models.BookingRequest{
		ProviderID:      in.ProviderID,
		UserID:          in.UserID,
		StartInstant:    res.Instant.UTC(),
		ProviderDate:    providerDate.String(),
		ProviderTime:    providerTime.String(),
		DurationMinutes: in.DurationMinutes,
		CallType:        in.CallType,
		Plan:            in.Plan,
		Pricing:         in.Pricing,
		Approximate:     res.Approximate,
	}, nil
}

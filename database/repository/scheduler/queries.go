package schedulerRepo

import (
	"time"

	"go.mongodb.org/mongo-driver/bson"

	"expertcall/models"
)

// maxCallLength bounds how far back a booking can start and still reach
// into a new one.
const maxCallLength = 24 * time.Hour

var liveStatuses = bson.A{string(models.StatusPending), string(models.StatusConfirmed)}

func dayFilter(providerID, date string) bson.M {
	return bson.M{
		"provider_id":   providerID,
		"provider_date": date,
		"status":        bson.M{"$in": liveStatuses},
	}
}

// overlapWindowFilter selects the live bookings that could overlap b,
// across provider-local midnight included.
func overlapWindowFilter(b *models.Booking) bson.M {
	return bson.M{
		"provider_id": b.ProviderID,
		"status":      bson.M{"$in": liveStatuses},
		"start_instant": bson.M{
			"$gt": b.StartInstant.Add(-maxCallLength),
			"$lt": b.End(),
		},
	}
}

// firstOverlap finds a live booking whose half-open interval intersects b's.
func firstOverlap(existing []models.Booking, b *models.Booking) (models.Booking, bool) {
	for _, e := range existing {
		if !e.IsActive() || e.ID == b.ID {
			continue
		}
		if e.StartInstant.Before(b.End()) && b.StartInstant.Before(e.End()) {
			return e, true
		}
	}
	return models.Booking{}, false
}

func transitionUpdate(to models.BookingStatus, reason string, now time.Time) bson.M {
	set := bson.M{"status": to, "updated_at": now}
	if reason != "" {
		set["cancel_reason"] = reason
	}
	return bson.M{"$set": set}
}

package schedulerRepo

import (
	"context"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"expertcall/models"
	"expertcall/services/booking"
)

// CreateBooking inserts b unless a live booking of the same provider
// overlaps it. The overlap read and the insert run in one transaction that
// also bumps the provider's lock document, so two concurrent inserts for the
// same provider conflict and the retried one sees the other's booking.
func (repo *MongoSchedulerRepo) CreateBooking(ctx context.Context, b *models.Booking) error {
	sess, err := repo.bookingColl.Database().Client().StartSession()
	if err != nil {
		return fmt.Errorf("could not start mongo session: %w", err)
	}
	defer sess.EndSession(ctx)

	txnFn := func(sc mongo.SessionContext) (interface{}, error) {
		if _, err := repo.lockColl.UpdateOne(sc,
			bson.M{"provider_id": b.ProviderID},
			bson.M{"$inc": bson.M{"seq": 1}},
			options.Update().SetUpsert(true),
		); err != nil {
			return nil, fmt.Errorf("lock provider failed: %w", err)
		}

		cursor, err := repo.bookingColl.Find(sc, overlapWindowFilter(b))
		if err != nil {
			return nil, fmt.Errorf("overlap query failed: %w", err)
		}
		var existing []models.Booking
		if err := cursor.All(sc, &existing); err != nil {
			return nil, fmt.Errorf("overlap decode failed: %w", err)
		}
		if clash, ok := firstOverlap(existing, b); ok {
			return nil, fmt.Errorf("booking %s already holds %s: %w",
				clash.ID, clash.StartInstant.Format("2006-01-02T15:04Z07:00"), booking.ErrSlotTaken)
		}

		if _, err := repo.bookingColl.InsertOne(sc, b); err != nil {
			return nil, fmt.Errorf("insert booking failed: %w", err)
		}
		return nil, nil
	}

	if _, err := sess.WithTransaction(ctx, txnFn); err != nil {
		return fmt.Errorf("booking transaction failed: %w", err)
	}
	return nil
}

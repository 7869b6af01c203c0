package schedulerRepo

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"expertcall/models"
	"expertcall/services/booking"
)

// MongoSchedulerRepo stores bookings in MongoDB. It implements
// booking.BookingRepository.
type MongoSchedulerRepo struct {
	bookingColl *mongo.Collection
	lockColl    *mongo.Collection
}

// NewMongoSchedulerRepo uses the "bookings" and "booking_locks" collections
// of db and makes sure their indexes exist.
func NewMongoSchedulerRepo(db *mongo.Database) (*MongoSchedulerRepo, error) {
	repo := &MongoSchedulerRepo{
		bookingColl: db.Collection("bookings"),
		lockColl:    db.Collection("booking_locks"),
	}
	if err := repo.ensureIndexes(); err != nil {
		return nil, err
	}
	return repo, nil
}

// ListBookings returns the live bookings of a provider on a provider-local date.
func (repo *MongoSchedulerRepo) ListBookings(ctx context.Context, providerID, date string) ([]models.Booking, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	opts := options.Find().SetSort(bson.D{{Key: "start_instant", Value: 1}})
	cursor, err := repo.bookingColl.Find(ctx, dayFilter(providerID, date), opts)
	if err != nil {
		return nil, fmt.Errorf("error fetching bookings: %w", err)
	}
	defer cursor.Close(ctx)

	var bookings []models.Booking
	if err := cursor.All(ctx, &bookings); err != nil {
		return nil, fmt.Errorf("error decoding bookings: %w", err)
	}
	return bookings, nil
}

func (repo *MongoSchedulerRepo) FindBooking(ctx context.Context, bookingID string) (*models.Booking, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	var b models.Booking
	if err := repo.bookingColl.FindOne(ctx, bson.M{"id": bookingID}).Decode(&b); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, booking.ErrBookingNotFound
		}
		return nil, fmt.Errorf("error fetching booking %s: %w", bookingID, err)
	}
	return &b, nil
}

// TransitionStatus updates the status only while the booking is still in
// from, so concurrent settlements cannot both win.
func (repo *MongoSchedulerRepo) TransitionStatus(ctx context.Context, bookingID string, from, to models.BookingStatus, reason string) (bool, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	res, err := repo.bookingColl.UpdateOne(ctx,
		bson.M{"id": bookingID, "status": from},
		transitionUpdate(to, reason, time.Now().UTC()))
	if err != nil {
		return false, fmt.Errorf("failed to update booking status: %w", err)
	}
	return res.MatchedCount == 1, nil
}

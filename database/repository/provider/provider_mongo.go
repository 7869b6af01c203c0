package providerRepo

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

// MongoProviderRepo implements ProviderRepository using MongoDB.
type MongoProviderRepo struct {
	coll *mongo.Collection
}

// NewMongoProviderRepo uses the "providers" collection of db and makes sure
// its indexes exist.
func NewMongoProviderRepo(db *mongo.Database) (*MongoProviderRepo, error) {
	r := &MongoProviderRepo{coll: db.Collection("providers")}
	if err := r.ensureIndexes(); err != nil {
		return nil, err
	}
	return r, nil
}

func (r *MongoProviderRepo) FindProfile(ctx context.Context, providerID string) (*models.ProviderProfile, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	var profile models.ProviderProfile
	if err := r.coll.FindOne(ctx, bson.M{"id": providerID}).Decode(&profile); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, booking.ErrProviderNotFound
		}
		return nil, fmt.Errorf("failed to fetch provider with id %s: %w", providerID, err)
	}
	return &profile, nil
}

// UpsertProfile creates or updates a provider profile. Registered device
// tokens are kept.
func (r *MongoProviderRepo) UpsertProfile(ctx context.Context, profile *models.ProviderProfile) error {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	profile.UpdatedAt = time.Now().UTC()
	fields, err := profileFields(profile)
	if err != nil {
		return err
	}
	opts := options.Update().SetUpsert(true)
	if _, err := r.coll.UpdateOne(ctx, bson.M{"id": profile.ID}, bson.M{"$set": fields}, opts); err != nil {
		return fmt.Errorf("failed to save provider %s: %w", profile.ID, err)
	}
	return nil
}

// profileFields flattens a profile into a $set document without the fields
// owned by other writers.
func profileFields(profile *models.ProviderProfile) (bson.M, error) {
	raw, err := bson.Marshal(profile)
	if err != nil {
		return nil, fmt.Errorf("failed to encode provider %s: %w", profile.ID, err)
	}
	var fields bson.M
	if err := bson.Unmarshal(raw, &fields); err != nil {
		return nil, fmt.Errorf("failed to encode provider %s: %w", profile.ID, err)
	}
	delete(fields, "_id")
	delete(fields, "deviceTokens")
	return fields, nil
}

func (r *MongoProviderRepo) AddDeviceToken(ctx context.Context, providerID, token string) error {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	update := bson.M{
		"$addToSet": bson.M{"deviceTokens": token},
		"$set":      bson.M{"updatedAt": time.Now().UTC()},
	}
	res, err := r.coll.UpdateOne(ctx, bson.M{"id": providerID}, update)
	if err != nil {
		return fmt.Errorf("failed to register device for provider %s: %w", providerID, err)
	}
	if res.MatchedCount == 0 {
		return booking.ErrProviderNotFound
	}
	return nil
}

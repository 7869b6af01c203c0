package providerRepo

import (
	"context"

	"expertcall/models"
)

// ProviderRepository defines provider profile data access.
type ProviderRepository interface {
	// FindProfile retrieves a provider profile by its ID.
	FindProfile(ctx context.Context, providerID string) (*models.ProviderProfile, error)
	// UpsertProfile creates or replaces a provider profile.
	UpsertProfile(ctx context.Context, profile *models.ProviderProfile) error
	// AddDeviceToken registers an FCM token for the provider.
	AddDeviceToken(ctx context.Context, providerID, token string) error
}

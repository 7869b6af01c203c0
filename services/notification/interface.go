package notification

import (
	"context"
	"errors"
	"fmt"
	"time"

	"firebase.google.com/go/v4/messaging"
	"go.uber.org/zap"

	"expertcall/models"
	"expertcall/services/scheduling"
)

// NotificationService defines methods for sending FCM pushes.
type NotificationService interface {
	SendUserPushNotification(ctx context.Context, userID, title, body string, data map[string]string) error
	SendProviderPushNotification(ctx context.Context, providerID, title, body string, data map[string]string) error
	NotifyBookingConfirmed(ctx context.Context, provider *models.ProviderProfile, b *models.Booking) error
}

// Sender is the part of *messaging.Client this package uses.
type Sender interface {
	Send(ctx context.Context, message *messaging.Message) (string, error)
}

// ProfileLookup resolves a provider's device tokens.
type ProfileLookup interface {
	FindProfile(ctx context.Context, providerID string) (*models.ProviderProfile, error)
}

var ErrNoDeviceToken = errors.New("no device token registered")

// FCMService pushes through Firebase Cloud Messaging. Providers are reached
// on their registered device tokens; users on their per-user topic, which
// the client app subscribes to at sign-in.
type FCMService struct {
	sender   Sender
	profiles ProfileLookup
	logger   *zap.Logger
}

func NewFCMService(sender Sender, profiles ProfileLookup, logger *zap.Logger) (*FCMService, error) {
	if sender == nil || profiles == nil {
		return nil, fmt.Errorf("notification service initialization error: sender or profile lookup is nil")
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &FCMService{sender: sender, profiles: profiles, logger: logger}, nil
}

// UserTopic is the FCM topic a user's devices subscribe to.
func UserTopic(userID string) string {
	return "user_" + userID
}

func (s *FCMService) SendUserPushNotification(ctx context.Context, userID, title, body string, data map[string]string) error {
	msg := &messaging.Message{
		Topic: UserTopic(userID),
		Notification: &messaging.Notification{
			Title: title,
			Body:  body,
		},
		Data: withRole(data, "user"),
	}
	id, err := s.sender.Send(ctx, msg)
	if err != nil {
		return fmt.Errorf("SendUserPushNotification: failed to send FCM message: %w", err)
	}
	s.logger.Debug("user push sent", zap.String("userId", userID), zap.String("messageId", id))
	return nil
}

func (s *FCMService) SendProviderPushNotification(ctx context.Context, providerID, title, body string, data map[string]string) error {
	p, err := s.profiles.FindProfile(ctx, providerID)
	if err != nil {
		return fmt.Errorf("SendProviderPushNotification: could not find provider %s: %w", providerID, err)
	}
	return s.sendToProvider(ctx, p, title, body, data)
}

// NotifyBookingConfirmed tells the provider a call was booked, on the
// provider's own clock.
func (s *FCMService) NotifyBookingConfirmed(ctx context.Context, provider *models.ProviderProfile, b *models.Booking) error {
	local := b.StartInstant.In(scheduling.ZoneOr(provider.Timezone, time.UTC))
	title := "New call booked"
	body := fmt.Sprintf("%d minute %s call on %s at %s.", b.DurationMinutes, b.CallType, local.Format("Mon 2 Jan"), local.Format("15:04"))
	return s.sendToProvider(ctx, provider, title, body, map[string]string{
		"type":      "booking_confirmed",
		"bookingId": b.ID,
	})
}

func (s *FCMService) sendToProvider(ctx context.Context, p *models.ProviderProfile, title, body string, data map[string]string) error {
	if len(p.DeviceTokens) == 0 {
		return fmt.Errorf("provider %s: %w", p.ID, ErrNoDeviceToken)
	}
	data = withRole(data, "provider")

	var errs []error
	for _, token := range p.DeviceTokens {
		msg := &messaging.Message{
			Token: token,
			Notification: &messaging.Notification{
				Title: title,
				Body:  body,
			},
			Data: data,
			Android: &messaging.AndroidConfig{
				Priority: "high",
				Notification: &messaging.AndroidNotification{
					ChannelID: "high_priority",
					Sound:     "default",
				},
			},
			APNS: &messaging.APNSConfig{
				Headers: map[string]string{
					"apns-priority":  "10",
					"apns-push-type": "alert",
				},
				Payload: &messaging.APNSPayload{
					Aps: &messaging.Aps{Sound: "default"},
				},
			},
		}
		if _, err := s.sender.Send(ctx, msg); err != nil {
			errs = append(errs, err)
		}
	}
	if len(errs) == len(p.DeviceTokens) {
		return fmt.Errorf("SendProviderPushNotification: failed to send FCM message: %w", errors.Join(errs...))
	}
	if len(errs) > 0 {
		s.logger.Warn("some provider devices did not receive push",
			zap.String("providerId", p.ID), zap.Int("failed", len(errs)), zap.Error(errors.Join(errs...)))
	}
	return nil
}

// withRole copies data and sets the role key unless the caller did.
func withRole(data map[string]string, role string) map[string]string {
	out := make(map[string]string, len(data)+1)
	for k, v := range data {
		out[k] = v
	}
	if _, ok := out["role"]; !ok {
		out["role"] = role
	}
	return out
}

// LogService logs instead of pushing. Used when Firebase is not configured.
type LogService struct {
	logger *zap.Logger
}

func NewLogService(logger *zap.Logger) *LogService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &LogService{logger: logger}
}

func (s *LogService) SendUserPushNotification(_ context.Context, userID, title, _ string, _ map[string]string) error {
	s.logger.Info("push skipped (no FCM)", zap.String("userId", userID), zap.String("title", title))
	return nil
}

func (s *LogService) SendProviderPushNotification(_ context.Context, providerID, title, _ string, _ map[string]string) error {
	s.logger.Info("push skipped (no FCM)", zap.String("providerId", providerID), zap.String("title", title))
	return nil
}

func (s *LogService) NotifyBookingConfirmed(_ context.Context, provider *models.ProviderProfile, b *models.Booking) error {
	s.logger.Info("push skipped (no FCM)", zap.String("providerId", provider.ID), zap.String("bookingId", b.ID))
	return nil
}

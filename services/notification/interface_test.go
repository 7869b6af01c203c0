package notification

import (
	"context"
	"errors"
	"testing"
	"time"

	"firebase.google.com/go/v4/messaging"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"expertcall/models"
)

type recordingSender struct {
	sent    []*messaging.Message
	failFor map[string]bool
}

func (r *recordingSender) Send(_ context.Context, m *messaging.Message) (string, error) {
	if r.failFor[m.Token] {
		return "", errors.New("unregistered")
	}
	r.sent = append(r.sent, m)
	return "msg-1", nil
}

type staticProfiles map[string]models.ProviderProfile

func (s staticProfiles) FindProfile(_ context.Context, id string) (*models.ProviderProfile, error) {
	p, ok := s[id]
	if !ok {
		return nil, errors.New("not found")
	}
	return &p, nil
}

func provider(tokens ...string) models.ProviderProfile {
	return models.ProviderProfile{ID: "prov-1", Timezone: "Africa/Nairobi", DeviceTokens: tokens}
}

func TestNewFCMServiceRequiresDependencies(t *testing.T) {
	_, err := NewFCMService(nil, staticProfiles{}, nil)
	assert.Error(t, err)
}

func TestSendUserPushUsesTopic(t *testing.T) {
	sender := &recordingSender{}
	svc, err := NewFCMService(sender, staticProfiles{}, nil)
	require.NoError(t, err)

	data := map[string]string{"type": "reminder"}
	require.NoError(t, svc.SendUserPushNotification(context.Background(), "u1", "Hi", "Body", data))
	require.Len(t, sender.sent, 1)
	assert.Equal(t, "user_u1", sender.sent[0].Topic)
	assert.Equal(t, "user", sender.sent[0].Data["role"])
	assert.NotContains(t, data, "role", "caller's map is not modified")
}

func TestNotifyBookingConfirmedUsesProviderClock(t *testing.T) {
	sender := &recordingSender{}
	p := provider("tok-a", "tok-b")
	svc, err := NewFCMService(sender, staticProfiles{"prov-1": p}, nil)
	require.NoError(t, err)

	b := &models.Booking{
		ID:              "bk-1",
		StartInstant:    time.Date(2026, 5, 4, 7, 30, 0, 0, time.UTC),
		DurationMinutes: 30,
		CallType:        models.CallVideo,
	}
	require.NoError(t, svc.NotifyBookingConfirmed(context.Background(), &p, b))
	require.Len(t, sender.sent, 2)
	assert.Equal(t, "30 minute video call on Mon 4 May at 10:30.", sender.sent[0].Notification.Body)
	assert.Equal(t, "bk-1", sender.sent[0].Data["bookingId"])
	assert.Equal(t, "provider", sender.sent[0].Data["role"])
}

func TestProviderPushPartialFailure(t *testing.T) {
	sender := &recordingSender{failFor: map[string]bool{"tok-a": true}}
	svc, err := NewFCMService(sender, staticProfiles{"prov-1": provider("tok-a", "tok-b")}, nil)
	require.NoError(t, err)

	assert.NoError(t, svc.SendProviderPushNotification(context.Background(), "prov-1", "t", "b", nil))
	assert.Len(t, sender.sent, 1)

	sender.failFor["tok-b"] = true
	assert.Error(t, svc.SendProviderPushNotification(context.Background(), "prov-1", "t", "b", nil))
}

func TestProviderPushWithoutTokens(t *testing.T) {
	svc, err := NewFCMService(&recordingSender{}, staticProfiles{"prov-1": provider()}, nil)
	require.NoError(t, err)

	err = svc.SendProviderPushNotification(context.Background(), "prov-1", "t", "b", nil)
	assert.ErrorIs(t, err, ErrNoDeviceToken)

	err = svc.SendProviderPushNotification(context.Background(), "ghost", "t", "b", nil)
	assert.Error(t, err)
}

package utils

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCheckHealth(t *testing.T) {
	up := PingerFunc(func(context.Context) error { return nil })
	down := PingerFunc(func(context.Context) error { return errors.New("refused") })

	status := CheckHealth(context.Background(), map[string]Pinger{"mongo": up, "redis": down})
	assert.False(t, status.Healthy)
	assert.True(t, status.Services["mongo"])
	assert.False(t, status.Services["redis"])
	assert.Equal(t, status, GetHealthStatus())

	status = CheckHealth(context.Background(), map[string]Pinger{"mongo": up})
	assert.True(t, status.Healthy)
}

package config

import (
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
)

func TestLoad_Defaults(t *testing.T) {
	cfg := Load()

	assert.Equal(t, ":28103", cfg.ListenAddr)
	assert.Equal(t, 1000, cfg.OrderQueueSize)
	assert.Equal(t, 32, cfg.SubscriberBuffer)
	assert.Equal(t, zerolog.InfoLevel, cfg.LogLevel)
}

func TestLoad_Overrides(t *testing.T) {
	t.Setenv("LISTEN_ADDR", ":9100")
	t.Setenv("ORDER_QUEUE_SIZE", "64")
	t.Setenv("SUBSCRIBER_BUFFER", "4")
	t.Setenv("LOG_LEVEL", "debug")

	cfg := Load()

	assert.Equal(t, ":9100", cfg.ListenAddr)
	assert.Equal(t, 64, cfg.OrderQueueSize)
	assert.Equal(t, 4, cfg.SubscriberBuffer)
	assert.Equal(t, zerolog.DebugLevel, cfg.LogLevel)
}

func TestLoad_InvalidValuesFallBack(t *testing.T) {
	t.Setenv("ORDER_QUEUE_SIZE", "not-a-number")
	t.Setenv("SUBSCRIBER_BUFFER", "-3")
	t.Setenv("LOG_LEVEL", "shouting")

	cfg := Load()

	assert.Equal(t, 1000, cfg.OrderQueueSize)
	assert.Equal(t, 32, cfg.SubscriberBuffer)
	assert.Equal(t, zerolog.InfoLevel, cfg.LogLevel)
}

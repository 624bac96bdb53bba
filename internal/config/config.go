package config

import (
	"os"
	"strconv"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

const (
	defaultListenAddr       = ":28103"
	defaultOrderQueueSize   = 1000
	defaultSubscriberBuffer = 32
)

// Config is the process configuration, read from the environment.
type Config struct {
	ListenAddr       string
	OrderQueueSize   int
	SubscriberBuffer int
	LogLevel         zerolog.Level
}

// Load reads configuration from the environment, falling back to
// defaults (with a logged warning) on unset or unparseable values.
func Load() Config {
	return Config{
		ListenAddr:       getEnv("LISTEN_ADDR", defaultListenAddr),
		OrderQueueSize:   getIntEnv("ORDER_QUEUE_SIZE", defaultOrderQueueSize),
		SubscriberBuffer: getIntEnv("SUBSCRIBER_BUFFER", defaultSubscriberBuffer),
		LogLevel:         getLevelEnv("LOG_LEVEL", zerolog.InfoLevel),
	}
}

func getEnv(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}

func getIntEnv(key string, fallback int) int {
	value := os.Getenv(key)
	if value == "" {
		return fallback
	}
	parsed, err := strconv.Atoi(value)
	if err != nil || parsed <= 0 {
		log.Warn().
			Str("key", key).
			Str("value", value).
			Int("fallback", fallback).
			Msg("invalid config value, using fallback")
		return fallback
	}
	return parsed
}

func getLevelEnv(key string, fallback zerolog.Level) zerolog.Level {
	value := os.Getenv(key)
	if value == "" {
		return fallback
	}
	level, err := zerolog.ParseLevel(value)
	if err != nil {
		log.Warn().
			Str("key", key).
			Str("value", value).
			Msg("invalid log level, using fallback")
		return fallback
	}
	return level
}

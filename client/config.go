package main

import (
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/kelseyhightower/envconfig"
)

// Config defines the client-side environment variables.
type Config struct {
	ServerAddr string `envconfig:"CHAT_SERVER_ADDR" default:"localhost:50051" validate:"required,hostname_port"`
	Username   string `envconfig:"CHAT_USERNAME" validate:"max=32"`
	Emoji      string `envconfig:"CHAT_EMOJI" default:"🙂"`
	LogLevel   string `envconfig:"LOG_LEVEL" default:"info"`
	// AutoReconnect re-dials with backoff when the stream drops.
	AutoReconnect  bool          `envconfig:"AUTO_RECONNECT" default:"true"`
	ReconnectDelay time.Duration `envconfig:"RECONNECT_DELAY" default:"2s"`
	MaxAttempts    int           `envconfig:"MAX_ATTEMPTS" default:"5" validate:"min=1"`
}

func LoadConfig() (Config, error) {
	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return Config{}, err
	}
	if err := validator.New().Struct(cfg); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

package config

import (
	"errors"
	"fmt"
	"time"

	"github.com/caarlos0/env/v11"
)

var ErrInvalidOwner = errors.New("TELEGRAM_OWNER_ID must be a positive user id")

// TelegramConfig drives the Telegram console; only the owner may talk to the agent.
type TelegramConfig struct {
	Token   string `env:"TELEGRAM_TOKEN,required,notEmpty"`
	OwnerID int64  `env:"TELEGRAM_OWNER_ID,required"`

	// APIURL overrides the Bot API endpoint, e.g. for a local bot API server.
	APIURL      string        `env:"TELEGRAM_API_URL"`
	PollTimeout time.Duration `env:"TELEGRAM_POLL_TIMEOUT" envDefault:"10s"`
}

func LoadTelegramConfig() (*TelegramConfig, error) {
	c := &TelegramConfig{}
	if err := env.Parse(c); err != nil {
		return nil, fmt.Errorf("parse telegram config: %w", err)
	}
	if c.OwnerID <= 0 {
		return nil, ErrInvalidOwner
	}
	return c, nil
}

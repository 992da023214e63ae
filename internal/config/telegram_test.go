package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadTelegramConfig(t *testing.T) {
	t.Setenv("TELEGRAM_TOKEN", "123:abc")
	t.Setenv("TELEGRAM_OWNER_ID", "42")

	cfg, err := LoadTelegramConfig()
	require.NoError(t, err)
	assert.Equal(t, "123:abc", cfg.Token)
	assert.Equal(t, int64(42), cfg.OwnerID)
	assert.Equal(t, 10*time.Second, cfg.PollTimeout)
	assert.Empty(t, cfg.APIURL)
}

func TestLoadTelegramConfig_RejectsOwner(t *testing.T) {
	t.Setenv("TELEGRAM_TOKEN", "123:abc")
	t.Setenv("TELEGRAM_OWNER_ID", "0")

	_, err := LoadTelegramConfig()
	assert.ErrorIs(t, err, ErrInvalidOwner)
}

func TestLoadTelegramConfig_RequiresToken(t *testing.T) {
	t.Setenv("TELEGRAM_TOKEN", "")
	t.Setenv("TELEGRAM_OWNER_ID", "42")

	_, err := LoadTelegramConfig()
	assert.Error(t, err)
}

func TestIsDebug(t *testing.T) {
	t.Setenv("TUSK_DEBUG", "true")
	assert.True(t, IsDebug())

	t.Setenv("TUSK_DEBUG", "0")
	assert.False(t, IsDebug())
}

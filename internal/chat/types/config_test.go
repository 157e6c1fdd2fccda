package types

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestConfig_ValidateFillsDefaults(t *testing.T) {
	cfg := &Config{}
	require.NoError(t, cfg.Validate())

	assert.Equal(t, 60*time.Second, cfg.Timeout)
	assert.Equal(t, 3, cfg.MaxRetries)
	assert.Equal(t, 2*time.Second, cfg.RetryDelay)
	assert.Equal(t, 2.0, cfg.TemperatureMax)
	assert.Equal(t, 32000, cfg.MaxTokensCap)
}

func TestConfig_ValidateKeepsExplicitValues(t *testing.T) {
	cfg := &Config{
		Timeout:        10 * time.Second,
		MaxRetries:     5,
		RetryDelay:     time.Second,
		TemperatureMax: 1.0,
		MaxTokensCap:   4096,
	}
	require.NoError(t, cfg.Validate())

	assert.Equal(t, 10*time.Second, cfg.Timeout)
	assert.Equal(t, 5, cfg.MaxRetries)
	assert.Equal(t, time.Second, cfg.RetryDelay)
	assert.Equal(t, 1.0, cfg.TemperatureMax)
	assert.Equal(t, 4096, cfg.MaxTokensCap)
}

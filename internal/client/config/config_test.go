package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	var c Config
	c.LoadDefaults()

	assert.Equal(t, "http://127.0.0.1:8545", c.RPCEndpoint)
	assert.Equal(t, "127.0.0.1:50051", c.RelayerEndpoint)
	assert.Equal(t, "drug", c.RecordPrefix)
	assert.Equal(t, 2*time.Minute, c.ConfirmationTimeout)
	assert.Equal(t, 5*time.Minute, c.DecryptionTimeout)
	assert.Equal(t, 2*time.Second, c.SuccessDisplay)
	assert.Equal(t, 3*time.Second, c.ErrorDisplay)
	assert.Equal(t, 3*time.Second, c.OnlineCheckInterval)
	assert.Empty(t, c.PrivateKey)
}

func TestLoadConfig_UsesDefaultsBeforeParsing(t *testing.T) {
	cfg := LoadConfig()

	require.NotNil(t, cfg, "LoadConfig must not return nil")
	assert.Equal(t, "127.0.0.1:50051", cfg.RelayerEndpoint)
	assert.Equal(t, 3*time.Second, cfg.OnlineCheckInterval)
}

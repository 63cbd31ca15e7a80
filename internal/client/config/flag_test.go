package config

import (
	"os"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseFlags(t *testing.T) {
	origArgs := os.Args
	t.Cleanup(func() { os.Args = origArgs })

	tests := []struct {
		expected    *Config
		name        string
		args        []string
		expectPanic bool
	}{
		{
			name: "endpoints and interval",
			args: []string{"cmd", "-r", "http://node:8545", "-f", "relayer:50051", "-i", "10"},
			expected: &Config{
				RPCEndpoint:         "http://node:8545",
				RelayerEndpoint:     "relayer:50051",
				OnlineCheckInterval: 10 * time.Second,
			},
		},
		{
			name: "contract, chain and timeouts",
			args: []string{"cmd", "-k", "0xabc", "-n", "31337", "-t", "45s", "-x", "3m", "-p", "med"},
			expected: &Config{
				ContractAddress:     "0xabc",
				ChainID:             31337,
				ConfirmationTimeout: 45 * time.Second,
				DecryptionTimeout:   3 * time.Minute,
				RecordPrefix:        "med",
			},
		},
		{
			name: "unknown flags are ignored",
			args: []string{"cmd", "-config", "cfg.json", "-d", "/tmp/x.db", "-log-level", "debug", "-v"},
			expected: &Config{
				DatabasePath: "/tmp/x.db",
				LogLevel:     "debug",
			},
		},
		{name: "incorrect check interval", args: []string{"cmd", "-i", "abc"}, expectPanic: true},
		{name: "incorrect chain id", args: []string{"cmd", "-n", "main"}, expectPanic: true},
		{name: "incorrect timeout", args: []string{"cmd", "-t", "forever"}, expectPanic: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			os.Args = tt.args

			config := &Config{}

			if !tt.expectPanic {
				require.NotPanics(t, func() { parseFlags(config) })
				assert.Empty(t, cmp.Diff(config, tt.expected))
			} else {
				require.Panics(t, func() { parseFlags(config) })
			}
		})
	}
}

package config

import (
	"time"

	"github.com/dmitrijs2005/pharmafhe/internal/common"
)

// Config holds runtime settings for the pharmafhe CLI.
type Config struct {
	// RPCEndpoint is the JSON-RPC URL of the single configured network.
	RPCEndpoint string
	// ContractAddress is the hex address of the record store contract.
	ContractAddress string
	// ChainID signs transactions; 0 asks the node.
	ChainID int64

	RelayerEndpoint string
	RelayerSecret   string

	// PrivateKey is the hex signer key. When empty the CLI prompts for it
	// on connect.
	PrivateKey string

	DatabasePath string
	RecordPrefix string

	ConfirmationTimeout time.Duration
	DecryptionTimeout   time.Duration
	SuccessDisplay      time.Duration
	ErrorDisplay        time.Duration
	OnlineCheckInterval time.Duration

	LogLevel  string
	LogFormat string
}

// LoadDefaults populates c with sensible defaults.
func (c *Config) LoadDefaults() {
	c.RPCEndpoint = "http://127.0.0.1:8545"
	c.ContractAddress = ""
	c.ChainID = 0
	c.RelayerEndpoint = "127.0.0.1:50051"
	c.DatabasePath = "pharmafhe.db"
	c.RecordPrefix = common.DefaultRecordPrefix
	c.ConfirmationTimeout = 2 * time.Minute
	c.DecryptionTimeout = 5 * time.Minute
	c.SuccessDisplay = 2 * time.Second
	c.ErrorDisplay = 3 * time.Second
	c.OnlineCheckInterval = 3 * time.Second
	c.LogLevel = "info"
	c.LogFormat = "text"
}

// LoadConfig constructs a Config, applies defaults, then overlays values from
// JSON (if present) and command-line flags (if present). Later sources take
// precedence over earlier ones.
func LoadConfig() *Config {
	cfg := &Config{}
	cfg.LoadDefaults()
	parseJson(cfg)
	parseFlags(cfg)
	return cfg
}

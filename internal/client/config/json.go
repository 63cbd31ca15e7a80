package config

import (
	"encoding/json"
	"os"
	"time"

	"github.com/dmitrijs2005/pharmafhe/internal/flagx"
	"github.com/dmitrijs2005/pharmafhe/internal/timex"
)

// JsonConfig is a DTO used exclusively for JSON unmarshalling. Intervals
// use timex.Duration, so they may be strings like "3s" or integer
// nanoseconds.
type JsonConfig struct {
	RPCEndpoint         string         `json:"rpc_endpoint"`
	ContractAddress     string         `json:"contract_address"`
	ChainID             int64          `json:"chain_id"`
	RelayerEndpoint     string         `json:"relayer_endpoint"`
	RelayerSecret       string         `json:"relayer_secret"`
	PrivateKey          string         `json:"private_key"`
	DatabasePath        string         `json:"database_path"`
	RecordPrefix        string         `json:"record_prefix"`
	ConfirmationTimeout timex.Duration `json:"confirmation_timeout"`
	DecryptionTimeout   timex.Duration `json:"decryption_timeout"`
	SuccessDisplay      timex.Duration `json:"success_display"`
	ErrorDisplay        timex.Duration `json:"error_display"`
	OnlineCheckInterval timex.Duration `json:"online_check_interval"`
	LogLevel            string         `json:"log_level"`
	LogFormat           string         `json:"log_format"`
}

// parseJson overlays cfg with the fields present in the JSON file named by
// -c or -config. Fields missing from the file keep their current value.
// Panics on read or unmarshal errors.
func parseJson(cfg *Config) {
	jsonConfigFile := flagx.JsonConfigFlags()
	if jsonConfigFile == "" {
		return
	}

	var jc JsonConfig

	data, err := os.ReadFile(jsonConfigFile)
	if err != nil {
		panic(err)
	}
	if err := json.Unmarshal(data, &jc); err != nil {
		panic(err)
	}

	jc.apply(cfg)
}

func (jc *JsonConfig) apply(cfg *Config) {
	setString(&cfg.RPCEndpoint, jc.RPCEndpoint)
	setString(&cfg.ContractAddress, jc.ContractAddress)
	setString(&cfg.RelayerEndpoint, jc.RelayerEndpoint)
	setString(&cfg.RelayerSecret, jc.RelayerSecret)
	setString(&cfg.PrivateKey, jc.PrivateKey)
	setString(&cfg.DatabasePath, jc.DatabasePath)
	setString(&cfg.RecordPrefix, jc.RecordPrefix)
	setString(&cfg.LogLevel, jc.LogLevel)
	setString(&cfg.LogFormat, jc.LogFormat)

	if jc.ChainID != 0 {
		cfg.ChainID = jc.ChainID
	}

	setDuration(&cfg.ConfirmationTimeout, jc.ConfirmationTimeout)
	setDuration(&cfg.DecryptionTimeout, jc.DecryptionTimeout)
	setDuration(&cfg.SuccessDisplay, jc.SuccessDisplay)
	setDuration(&cfg.ErrorDisplay, jc.ErrorDisplay)
	setDuration(&cfg.OnlineCheckInterval, jc.OnlineCheckInterval)
}

func setString(dst *string, v string) {
	if v != "" {
		*dst = v
	}
}

func setDuration(dst *time.Duration, v timex.Duration) {
	if v.Duration != 0 {
		*dst = v.Duration
	}
}

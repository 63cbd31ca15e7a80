package config

import (
	"flag"
	"os"
	"time"

	"github.com/dmitrijs2005/pharmafhe/internal/flagx"
)

// parseFlags populates selected Config fields from command-line flags.
//
//	-r string     JSON-RPC endpoint
//	-k string     record store contract address
//	-n int        chain id (0 = ask the node)
//	-f string     FHE relayer address
//	-s string     relayer token secret
//	-d string     local snapshot database path
//	-p string     record id prefix
//	-t duration   transaction confirmation timeout
//	-x duration   decryption round trip timeout
//	-i int        online check interval (seconds)
//	-log-level    debug|info|warn|error
//	-log-format   text|json
//
// The signer key is deliberately not a flag; use the JSON file or the
// interactive prompt.
func parseFlags(cfg *Config) {
	args := flagx.FilterArgs(os.Args[1:],
		"r", "k", "n", "f", "s", "d", "p", "t", "x", "i", "log-level", "log-format")

	fs := flag.NewFlagSet("main", flag.ContinueOnError)

	fs.StringVar(&cfg.RPCEndpoint, "r", cfg.RPCEndpoint, "JSON-RPC endpoint")
	fs.StringVar(&cfg.ContractAddress, "k", cfg.ContractAddress, "record store contract address")
	fs.Int64Var(&cfg.ChainID, "n", cfg.ChainID, "chain id (0 = query the node)")
	fs.StringVar(&cfg.RelayerEndpoint, "f", cfg.RelayerEndpoint, "FHE relayer address")
	fs.StringVar(&cfg.RelayerSecret, "s", cfg.RelayerSecret, "relayer token secret")
	fs.StringVar(&cfg.DatabasePath, "d", cfg.DatabasePath, "local snapshot database path")
	fs.StringVar(&cfg.RecordPrefix, "p", cfg.RecordPrefix, "record id prefix")
	fs.DurationVar(&cfg.ConfirmationTimeout, "t", cfg.ConfirmationTimeout, "transaction confirmation timeout")
	fs.DurationVar(&cfg.DecryptionTimeout, "x", cfg.DecryptionTimeout, "decryption round trip timeout")
	onlineCheckInterval := fs.Int("i", int(cfg.OnlineCheckInterval.Seconds()), "online check interval (in seconds)")
	fs.StringVar(&cfg.LogLevel, "log-level", cfg.LogLevel, "log level")
	fs.StringVar(&cfg.LogFormat, "log-format", cfg.LogFormat, "log format (text or json)")

	if err := fs.Parse(args); err != nil {
		panic(err)
	}

	cfg.OnlineCheckInterval = time.Duration(*onlineCheckInterval) * time.Second
}

// Package config loads runtime configuration for the pharmafhe CLI.
//
// Sources & precedence
//
//  1. Built-in defaults (see (*Config).LoadDefaults).
//  2. Optional JSON file (see parseJson) selected via flags: -c or -config.
//  3. Command-line flags (see parseFlags), which override earlier values.
//
// # JSON schema
//
// Intervals accept strings like "3s" or integer nanoseconds:
//
//	{
//	  "rpc_endpoint": "http://127.0.0.1:8545",
//	  "contract_address": "0x5FbDB2315678afecb367f032d93F642f64180aa3",
//	  "chain_id": 31337,
//	  "relayer_endpoint": "127.0.0.1:50051",
//	  "relayer_secret": "change-me",
//	  "private_key": "",
//	  "database_path": "pharmafhe.db",
//	  "record_prefix": "drug",
//	  "confirmation_timeout": "2m",
//	  "decryption_timeout": "5m",
//	  "success_display": "2s",
//	  "error_display": "3s",
//	  "online_check_interval": "3s",
//	  "log_level": "info",
//	  "log_format": "text"
//	}
//
// Environment variables are not read.
package config

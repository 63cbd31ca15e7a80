// Package cli provides the interactive pharmafhe command-line client.
//
// It wires configuration, the record store, the FHE relayer, the local
// snapshot database and the workflow service behind a REPL. Typical flow:
// restore the last offline snapshot, connect a signer, start a background
// connectivity watcher, and execute user commands.
//
// Key features:
//   - Connect / Disconnect a signer key (configured or prompted)
//   - List, search and show records; stats and own history
//   - Submit a record with an encrypted value
//   - Decrypt and verify a record on chain
//
// Status changes of long-running operations are printed as they happen.
// The REPL is started via App.Root(ctx), which blocks until the user exits.
package cli

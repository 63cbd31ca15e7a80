// Package chain is the client's boundary to the on-chain record store.
//
// # Overview
//
// The store is a smart contract reached over a single JSON-RPC endpoint.
// Two handles are exposed:
//
//   - Reader: read-only calls (list ids, fetch a record's public fields,
//     fetch a ciphertext handle, availability probe). Implemented by EVMStore.
//   - Writer: signer-bound transactions (create a record, anchor a
//     decryption proof). Implemented by EVMWriter.
//
// # Error Handling
//
// Contract and RPC failures are mapped to the sentinels in internal/common:
// a revert mentioning "already verified" becomes common.ErrAlreadyVerified,
// a declined signature prompt becomes common.ErrUserRejected, and a mined
// transaction with a failed receipt becomes common.ErrReverted.
//
// # Normalisation
//
// Numeric fields returned by the contract are coerced: a nil or
// out-of-range value reads as 0, never as an error.
package chain

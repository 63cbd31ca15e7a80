// Package client contains the FHE capabilities of the client and the local
// database bootstrap.
//
// # Overview
//
// The package provides:
//  1. Capability contracts: Encryptor (turn a plaintext into an encrypted
//     input bound to a contract and account) and Decryptor (public
//     decryption round trip anchored on chain through a SubmitFunc).
//  2. A gRPC implementation (see GRPCClient) that talks to the FHE relayer
//     using google.protobuf.Struct messages, attaches a short-lived JWT and a
//     request id to every call, re-issues an expired token once, polls the
//     oracle with capped exponential backoff and maps gRPC status codes to
//     sentinel errors.
//  3. Local persistence bootstrap (InitDatabase, RunMigrations) wiring an
//     SQLite database and applying embedded goose migrations.
//
// # Error Handling
//
// Sentinels: ErrUnavailable, ErrUnauthorized, ErrDecryptionRejected,
// ErrMalformedResponse. A call that fails because its context deadline
// passed is reported as common.ErrTimeout.
package client

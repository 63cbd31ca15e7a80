// Package common defines shared constants and sentinel errors used across
// the adapter, capability and workflow layers of the client. Callers should
// use errors.Is to match these values.
package common

import "errors"

var (
	// Session errors.
	ErrNotConnected = errors.New("not connected")

	// Signer errors (the transaction prompt was declined).
	ErrUserRejected = errors.New("user rejected transaction")

	// Contract errors.
	ErrAlreadyVerified = errors.New("already verified")
	ErrReverted        = errors.New("transaction reverted")
	ErrNotFound        = errors.New("not found")

	// Wait errors (confirmation or oracle round trip exceeded its bound).
	ErrTimeout = errors.New("operation timed out")
)

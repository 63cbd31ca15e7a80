// Package common contains shared constants and sentinel errors used across
// client components.
package common

const (
	// AuthorizationHeaderName is the gRPC metadata key carrying the relayer
	// bearer token on outbound requests.
	AuthorizationHeaderName = "authorization"

	// RequestIDHeaderName is the gRPC metadata key used to correlate relayer
	// requests in logs.
	RequestIDHeaderName = "x-request-id"

	// DefaultRecordPrefix prefixes generated record identifiers.
	DefaultRecordPrefix = "drug"
)

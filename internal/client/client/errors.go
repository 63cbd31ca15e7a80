package client

import "errors"

var (
	ErrUnavailable        = errors.New("relayer unavailable")
	ErrUnauthorized       = errors.New("unauthorized")
	ErrDecryptionRejected = errors.New("decryption rejected by oracle")
	ErrMalformedResponse  = errors.New("malformed relayer response")

	ErrTokenExpired = errors.New("token expired")

	errDecryptionPending = errors.New("decryption pending")
)

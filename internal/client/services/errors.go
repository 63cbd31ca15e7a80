package services

import (
	"errors"

	"github.com/dmitrijs2005/pharmafhe/internal/common"
)

var (
	ErrListFetch        = errors.New("record list fetch failed")
	ErrSubmitFailed     = errors.New("submit failed")
	ErrDecryptionFailed = errors.New("decryption failed")

	// Aliases so callers of this package need not import common.
	ErrNotConnected    = common.ErrNotConnected
	ErrUserRejected    = common.ErrUserRejected
	ErrAlreadyVerified = common.ErrAlreadyVerified
	ErrTimeout         = common.ErrTimeout
)

// Status messages shown to the user.
const (
	msgConnectFirst      = "Connect wallet first"
	msgRelayerDown       = "FHE relayer unavailable"
	msgLoadFailed        = "Load failed"
	msgSubmitting        = "Encrypting and submitting..."
	msgAwaitConfirmation = "Waiting for confirmation..."
	msgUploaded          = "Record uploaded!"
	msgRejected          = "Transaction rejected"
	msgUploadFailed      = "Upload failed: "
	msgDecrypting        = "Requesting decryption..."
	msgVerifying         = "Verifying decryption..."
	msgVerified          = "Decryption verified!"
	msgAlreadyVerified   = "Already verified"
	msgDecryptFailed     = "Decryption failed"
	msgAvailable         = "System available: "
	msgAvailabilityFail  = "Availability check failed"
)

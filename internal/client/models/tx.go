package models

import (
	"context"

	"github.com/ethereum/go-ethereum/common"
)

// Handle is an opaque ciphertext reference (a bytes32 on chain).
type Handle = common.Hash

// Transaction is a submitted store mutation.
type Transaction interface {
	// Hash identifies the transaction on the network.
	Hash() string
	// Wait blocks until the transaction is included, or ctx is done.
	Wait(ctx context.Context) error
}

// EncryptedInput is the output of the encryption capability.
type EncryptedInput struct {
	Handle Handle
	Proof  []byte
}

// CreateRecordInput carries the arguments of the store's create operation.
type CreateRecordInput struct {
	ID           string
	Name         string
	Encrypted    EncryptedInput
	PublicValue1 int64
	PublicValue2 int64
	Description  string
}

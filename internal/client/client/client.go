package client

import (
	"context"

	"github.com/dmitrijs2005/pharmafhe/internal/client/models"
	ethcommon "github.com/ethereum/go-ethereum/common"
)

// Encryptor turns a plaintext value into an encrypted input bound to a
// contract and an account.
type Encryptor interface {
	Encrypt(ctx context.Context, contract, user ethcommon.Address, value int64) (models.EncryptedInput, error)
}

// SubmitFunc anchors a decryption result on chain. It is invoked by the
// Decryptor once the oracle has produced clear values and a proof.
type SubmitFunc func(ctx context.Context, clearValues, proof []byte) (models.Transaction, error)

// DecryptionResult maps each requested handle to its clear value.
type DecryptionResult struct {
	ClearValues map[models.Handle]int64
}

// Decryptor drives the public-decryption round trip: request, wait for the
// oracle, submit the proof through submit, wait for confirmation.
type Decryptor interface {
	VerifyDecryption(ctx context.Context, handles []models.Handle, contract ethcommon.Address, submit SubmitFunc) (*DecryptionResult, error)
}

// Relayer is the full capability set exposed by the FHE relayer.
type Relayer interface {
	Encryptor
	Decryptor
	Ping(ctx context.Context) error
	SetAccount(account string)
	Close() error
}

package chain

import (
	"context"

	"github.com/dmitrijs2005/pharmafhe/internal/client/models"
	ethcommon "github.com/ethereum/go-ethereum/common"
)

// Reader is the read-only handle to the record store.
type Reader interface {
	ListRecordIDs(ctx context.Context) ([]string, error)
	GetRecord(ctx context.Context, id string) (models.Record, error)
	GetCiphertextHandle(ctx context.Context, id string) (models.Handle, error)
	IsAvailable(ctx context.Context) (bool, error)
	Address() ethcommon.Address
}

// Writer is the signer-bound handle to the record store.
type Writer interface {
	CreateRecord(ctx context.Context, in models.CreateRecordInput) (models.Transaction, error)
	VerifyRecord(ctx context.Context, id string, clearValues, proof []byte) (models.Transaction, error)
	Account() ethcommon.Address
}

// ConfirmFunc is asked before every signature. Returning false rejects the
// transaction with common.ErrUserRejected.
type ConfirmFunc func(action string) bool

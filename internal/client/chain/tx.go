package chain

import (
	"context"
	"errors"
	"fmt"

	"github.com/dmitrijs2005/pharmafhe/internal/common"
	"github.com/ethereum/go-ethereum/core/types"
)

type evmTransaction struct {
	tx   *types.Transaction
	wait waitMinedFunc
}

func (t *evmTransaction) Hash() string {
	return t.tx.Hash().Hex()
}

// Wait blocks until the transaction is mined. A deadline on ctx surfaces as
// common.ErrTimeout and a failed receipt as common.ErrReverted.
func (t *evmTransaction) Wait(ctx context.Context) error {
	receipt, err := t.wait(ctx, t.tx)
	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) {
			return fmt.Errorf("%w: %w", common.ErrTimeout, err)
		}
		return mapError(err)
	}
	if receipt.Status != types.ReceiptStatusSuccessful {
		return fmt.Errorf("%w: %s", common.ErrReverted, t.Hash())
	}
	return nil
}

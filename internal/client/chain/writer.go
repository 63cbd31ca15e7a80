package chain

import (
	"bytes"
	"context"
	"crypto/ecdsa"
	"encoding/hex"
	"fmt"
	"math/big"

	"github.com/dmitrijs2005/pharmafhe/internal/client/models"
	"github.com/dmitrijs2005/pharmafhe/internal/common"
	"github.com/ethereum/go-ethereum/accounts/abi/bind"
	ethcommon "github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"
	"github.com/ethereum/go-ethereum/crypto"
)

// EVMWriter signs store mutations with a local key.
type EVMWriter struct {
	store   *EVMStore
	key     *ecdsa.PrivateKey
	from    ethcommon.Address
	chainID *big.Int
	confirm ConfirmFunc
}

var _ Writer = (*EVMWriter)(nil)

// NewWriter binds a signer to store. hexKey stays owned by the caller, who
// may wipe it once NewWriter returns. When chainID is 0 it is queried from
// the node. confirm may be nil, in which case every signature is approved.
func NewWriter(ctx context.Context, store *EVMStore, hexKey []byte, chainID int64, confirm ConfirmFunc) (*EVMWriter, error) {
	key, err := parseKey(hexKey)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidKey, err)
	}

	id := big.NewInt(chainID)
	if chainID == 0 {
		if store.chainID == nil {
			return nil, fmt.Errorf("chain id is not configured")
		}
		id, err = store.chainID(ctx)
		if err != nil {
			return nil, fmt.Errorf("query chain id: %w", err)
		}
	}

	return &EVMWriter{
		store:   store,
		key:     key,
		from:    crypto.PubkeyToAddress(key.PublicKey),
		chainID: id,
		confirm: confirm,
	}, nil
}

// parseKey decodes a hex private key without going through a string, and
// wipes the intermediate raw bytes.
func parseKey(hexKey []byte) (*ecdsa.PrivateKey, error) {
	h := bytes.TrimSpace(hexKey)
	if len(h) >= 2 && h[0] == '0' && (h[1] == 'x' || h[1] == 'X') {
		h = h[2:]
	}
	raw := make([]byte, hex.DecodedLen(len(h)))
	defer common.WipeByteArray(raw)
	if _, err := hex.Decode(raw, h); err != nil {
		return nil, err
	}
	return crypto.ToECDSA(raw)
}

func (w *EVMWriter) Account() ethcommon.Address {
	return w.from
}

func (w *EVMWriter) transactOpts(ctx context.Context, action string) (*bind.TransactOpts, error) {
	opts, err := bind.NewKeyedTransactorWithChainID(w.key, w.chainID)
	if err != nil {
		return nil, err
	}
	opts.Context = ctx

	sign := opts.Signer
	opts.Signer = func(addr ethcommon.Address, tx *types.Transaction) (*types.Transaction, error) {
		if w.confirm != nil && !w.confirm(action) {
			return nil, common.ErrUserRejected
		}
		return sign(addr, tx)
	}
	return opts, nil
}

func (w *EVMWriter) transact(ctx context.Context, action, method string, params ...interface{}) (models.Transaction, error) {
	opts, err := w.transactOpts(ctx, action)
	if err != nil {
		return nil, err
	}
	tx, err := w.store.contract.Transact(opts, method, params...)
	if err != nil {
		return nil, mapError(err)
	}
	return &evmTransaction{tx: tx, wait: w.store.waitMined}, nil
}

// CreateRecord submits a new record with its encrypted field.
func (w *EVMWriter) CreateRecord(ctx context.Context, in models.CreateRecordInput) (models.Transaction, error) {
	return w.transact(ctx, fmt.Sprintf("create record %s", in.ID), methodCreateRecord,
		in.ID,
		in.Name,
		[32]byte(in.Encrypted.Handle),
		in.Encrypted.Proof,
		uintArg(in.PublicValue1),
		uintArg(in.PublicValue2),
		in.Description,
	)
}

// VerifyRecord submits a decryption proof for the record's encrypted field.
func (w *EVMWriter) VerifyRecord(ctx context.Context, id string, clearValues, proof []byte) (models.Transaction, error) {
	return w.transact(ctx, fmt.Sprintf("verify decryption of %s", id), methodVerify, id, clearValues, proof)
}

package chain

import (
	"context"
	"fmt"
	"math/big"

	"github.com/dmitrijs2005/pharmafhe/internal/client/models"
	"github.com/dmitrijs2005/pharmafhe/internal/common"
	"github.com/ethereum/go-ethereum/accounts/abi/bind"
	ethcommon "github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"
	"github.com/ethereum/go-ethereum/ethclient"
)

// boundContract is the subset of *bind.BoundContract used by the store.
type boundContract interface {
	Call(opts *bind.CallOpts, results *[]interface{}, method string, params ...interface{}) error
	Transact(opts *bind.TransactOpts, method string, params ...interface{}) (*types.Transaction, error)
}

type waitMinedFunc func(ctx context.Context, tx *types.Transaction) (*types.Receipt, error)

// EVMStore reads the record store contract over JSON-RPC.
type EVMStore struct {
	address   ethcommon.Address
	contract  boundContract
	waitMined waitMinedFunc
	chainID   func(ctx context.Context) (*big.Int, error)
	close     func()
}

var _ Reader = (*EVMStore)(nil)

// Dial connects to the JSON-RPC endpoint and binds the contract at address.
func Dial(ctx context.Context, endpoint, address string) (*EVMStore, error) {
	if !ethcommon.IsHexAddress(address) {
		return nil, fmt.Errorf("%w: %q", ErrInvalidAddress, address)
	}

	client, err := ethclient.DialContext(ctx, endpoint)
	if err != nil {
		return nil, fmt.Errorf("dial %s: %w", endpoint, err)
	}

	addr := ethcommon.HexToAddress(address)
	contract := bind.NewBoundContract(addr, parsedABI, client, client, client)

	return &EVMStore{
		address:  addr,
		contract: contract,
		waitMined: func(ctx context.Context, tx *types.Transaction) (*types.Receipt, error) {
			return bind.WaitMined(ctx, client, tx)
		},
		chainID: client.ChainID,
		close:   client.Close,
	}, nil
}

// Close releases the underlying RPC connection.
func (s *EVMStore) Close() {
	if s.close != nil {
		s.close()
	}
}

func (s *EVMStore) Address() ethcommon.Address {
	return s.address
}

func (s *EVMStore) call(ctx context.Context, method string, params ...interface{}) ([]interface{}, error) {
	var out []interface{}
	if err := s.contract.Call(&bind.CallOpts{Context: ctx}, &out, method, params...); err != nil {
		return nil, mapError(err)
	}
	return out, nil
}

// ListRecordIDs returns identifiers in store order.
func (s *EVMStore) ListRecordIDs(ctx context.Context) ([]string, error) {
	out, err := s.call(ctx, methodListIDs)
	if err != nil {
		return nil, err
	}
	if len(out) != 1 {
		return nil, fmt.Errorf("%w: %s returned %d values", ErrMalformedResult, methodListIDs, len(out))
	}
	ids, ok := out[0].([]string)
	if !ok {
		return nil, fmt.Errorf("%w: unexpected id list type %T", ErrMalformedResult, out[0])
	}
	return ids, nil
}

// GetRecord fetches the public part of one record. A record that was never
// created reads back with a zero creator and is reported as common.ErrNotFound.
func (s *EVMStore) GetRecord(ctx context.Context, id string) (models.Record, error) {
	out, err := s.call(ctx, methodGetRecord, id)
	if err != nil {
		return models.Record{}, err
	}
	r, err := decodeRecord(id, out)
	if err != nil {
		return models.Record{}, err
	}
	if r.Creator == "" || r.Creator == (ethcommon.Address{}).Hex() {
		return models.Record{}, fmt.Errorf("record %s: %w", id, common.ErrNotFound)
	}
	return r, nil
}

func (s *EVMStore) GetCiphertextHandle(ctx context.Context, id string) (models.Handle, error) {
	out, err := s.call(ctx, methodGetHandle, id)
	if err != nil {
		return models.Handle{}, err
	}
	return decodeHandle(out)
}

func (s *EVMStore) IsAvailable(ctx context.Context) (bool, error) {
	out, err := s.call(ctx, methodIsAvailable)
	if err != nil {
		return false, err
	}
	if len(out) != 1 {
		return false, fmt.Errorf("%w: %s returned %d values", ErrMalformedResult, methodIsAvailable, len(out))
	}
	return boolOrFalse(out[0]), nil
}

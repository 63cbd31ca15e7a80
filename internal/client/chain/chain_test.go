package chain

import (
	"context"
	"errors"
	"math/big"
	"testing"

	"github.com/dmitrijs2005/pharmafhe/internal/client/models"
	"github.com/dmitrijs2005/pharmafhe/internal/common"
	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/ethereum/go-ethereum/accounts/abi/bind"
	ethcommon "github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/ethereum/go-ethereum/core/types"
	"github.com/ethereum/go-ethereum/crypto"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var (
	storeAddr   = ethcommon.HexToAddress("0x00000000000000000000000000000000000000AB")
	creatorAddr = ethcommon.HexToAddress("0x0000000000000000000000000000000000000ABC")
)

type sentTx struct {
	method string
	params []interface{}
	tx     *types.Transaction
}

type fakeContract struct {
	results  map[string][]interface{}
	callErr  map[string]error
	txErr    error
	lastArgs []interface{}
	sent     []sentTx
}

func (f *fakeContract) Call(_ *bind.CallOpts, results *[]interface{}, method string, params ...interface{}) error {
	f.lastArgs = params
	if err := f.callErr[method]; err != nil {
		return err
	}
	*results = f.results[method]
	return nil
}

func (f *fakeContract) Transact(opts *bind.TransactOpts, method string, params ...interface{}) (*types.Transaction, error) {
	if f.txErr != nil {
		return nil, f.txErr
	}
	to := storeAddr
	tx := types.NewTx(&types.LegacyTx{Nonce: uint64(len(f.sent)), Gas: 100000, GasPrice: big.NewInt(1), To: &to})
	signed, err := opts.Signer(opts.From, tx)
	if err != nil {
		return nil, err
	}
	f.sent = append(f.sent, sentTx{method: method, params: params, tx: signed})
	return signed, nil
}

func newTestStore(c *fakeContract, status uint64, waitErr error) *EVMStore {
	return &EVMStore{
		address:  storeAddr,
		contract: c,
		waitMined: func(ctx context.Context, tx *types.Transaction) (*types.Receipt, error) {
			if waitErr != nil {
				return nil, waitErr
			}
			return &types.Receipt{Status: status, TxHash: tx.Hash()}, nil
		},
		chainID: func(context.Context) (*big.Int, error) { return big.NewInt(31337), nil },
	}
}

func recordTuple(verified bool, decrypted uint32) []interface{} {
	return []interface{}{
		"CompoundX",
		big.NewInt(250),
		big.NewInt(80),
		"test",
		creatorAddr,
		big.NewInt(1700000000),
		verified,
		decrypted,
	}
}

type rpcDataError struct {
	msg  string
	data string
}

func (e rpcDataError) Error() string          { return e.msg }
func (e rpcDataError) ErrorData() interface{} { return e.data }

func revertData(t *testing.T, reason string) string {
	t.Helper()
	stringType, err := abi.NewType("string", "", nil)
	require.NoError(t, err)
	packed, err := abi.Arguments{{Type: stringType}}.Pack(reason)
	require.NoError(t, err)
	selector := crypto.Keccak256([]byte("Error(string)"))[:4]
	return hexutil.Encode(append(selector, packed...))
}

func TestEVMStore_ListRecordIDs(t *testing.T) {
	c := &fakeContract{results: map[string][]interface{}{
		methodListIDs: {[]string{"drug-1", "drug-2"}},
	}}
	s := newTestStore(c, types.ReceiptStatusSuccessful, nil)

	ids, err := s.ListRecordIDs(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []string{"drug-1", "drug-2"}, ids)
}

func TestEVMStore_ListRecordIDs_Malformed(t *testing.T) {
	c := &fakeContract{results: map[string][]interface{}{
		methodListIDs: {"not a list"},
	}}
	s := newTestStore(c, types.ReceiptStatusSuccessful, nil)

	_, err := s.ListRecordIDs(context.Background())
	require.ErrorIs(t, err, ErrMalformedResult)
}

func TestEVMStore_GetRecord(t *testing.T) {
	tests := []struct {
		name      string
		tuple     []interface{}
		wantValue int64
		verified  bool
	}{
		{name: "encrypted", tuple: recordTuple(false, 0), wantValue: 0},
		{name: "verified", tuple: recordTuple(true, 42), wantValue: 42, verified: true},
		{name: "stale decrypted value ignored", tuple: recordTuple(false, 7), wantValue: 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := &fakeContract{results: map[string][]interface{}{methodGetRecord: tt.tuple}}
			s := newTestStore(c, types.ReceiptStatusSuccessful, nil)

			r, err := s.GetRecord(context.Background(), "drug-1")
			require.NoError(t, err)
			assert.Equal(t, "drug-1", r.ID)
			assert.Equal(t, "CompoundX", r.Name)
			assert.Equal(t, int64(250), r.PublicValue1)
			assert.Equal(t, int64(80), r.PublicValue2)
			assert.Equal(t, "test", r.Description)
			assert.Equal(t, creatorAddr.Hex(), r.Creator)
			assert.Equal(t, int64(1700000000), r.CreatedAt)
			assert.Equal(t, tt.verified, r.IsVerified)
			assert.Equal(t, tt.wantValue, r.DecryptedValue)
			assert.Equal(t, []interface{}{"drug-1"}, c.lastArgs)
		})
	}
}

func TestEVMStore_GetRecord_Missing(t *testing.T) {
	tuple := recordTuple(false, 0)
	tuple[4] = ethcommon.Address{}
	c := &fakeContract{results: map[string][]interface{}{methodGetRecord: tuple}}
	s := newTestStore(c, types.ReceiptStatusSuccessful, nil)

	_, err := s.GetRecord(context.Background(), "drug-404")
	require.ErrorIs(t, err, common.ErrNotFound)
}

func TestEVMStore_GetRecord_CoercesOutOfRange(t *testing.T) {
	huge := new(big.Int).Lsh(big.NewInt(1), 200)
	tuple := recordTuple(false, 0)
	tuple[1] = huge
	tuple[2] = (*big.Int)(nil)
	c := &fakeContract{results: map[string][]interface{}{methodGetRecord: tuple}}
	s := newTestStore(c, types.ReceiptStatusSuccessful, nil)

	r, err := s.GetRecord(context.Background(), "drug-1")
	require.NoError(t, err)
	assert.Zero(t, r.PublicValue1)
	assert.Zero(t, r.PublicValue2)
}

func TestEVMStore_GetCiphertextHandle(t *testing.T) {
	var h [32]byte
	h[31] = 0x01
	c := &fakeContract{results: map[string][]interface{}{methodGetHandle: {h}}}
	s := newTestStore(c, types.ReceiptStatusSuccessful, nil)

	got, err := s.GetCiphertextHandle(context.Background(), "drug-1")
	require.NoError(t, err)
	assert.Equal(t, models.Handle(h), got)
}

func TestEVMStore_IsAvailable(t *testing.T) {
	c := &fakeContract{results: map[string][]interface{}{methodIsAvailable: {true}}}
	s := newTestStore(c, types.ReceiptStatusSuccessful, nil)

	ok, err := s.IsAvailable(context.Background())
	require.NoError(t, err)
	assert.True(t, ok)
}

func TestEVMStore_CallError(t *testing.T) {
	boom := errors.New("connection refused")
	c := &fakeContract{callErr: map[string]error{methodIsAvailable: boom}}
	s := newTestStore(c, types.ReceiptStatusSuccessful, nil)

	_, err := s.IsAvailable(context.Background())
	require.ErrorIs(t, err, boom)
	assert.Contains(t, err.Error(), "contract error")
}

func newTestWriter(t *testing.T, s *EVMStore, confirm ConfirmFunc) *EVMWriter {
	t.Helper()
	key, err := crypto.GenerateKey()
	require.NoError(t, err)
	w, err := NewWriter(context.Background(), s, []byte(hexutil.Encode(crypto.FromECDSA(key))), 0, confirm)
	require.NoError(t, err)
	require.Equal(t, crypto.PubkeyToAddress(key.PublicKey), w.Account())
	require.Equal(t, int64(31337), w.chainID.Int64())
	return w
}

func TestNewWriter_InvalidKey(t *testing.T) {
	s := newTestStore(&fakeContract{}, types.ReceiptStatusSuccessful, nil)
	for _, k := range []string{"zz", "", "0x1234"} {
		_, err := NewWriter(context.Background(), s, []byte(k), 1, nil)
		require.ErrorIs(t, err, ErrInvalidKey, k)
	}
}

func TestNewWriter_KeyBytesStayWithCaller(t *testing.T) {
	s := newTestStore(&fakeContract{}, types.ReceiptStatusSuccessful, nil)
	key, err := crypto.GenerateKey()
	require.NoError(t, err)

	hexKey := []byte("  " + hexutil.Encode(crypto.FromECDSA(key)) + "\n")
	orig := append([]byte(nil), hexKey...)

	w, err := NewWriter(context.Background(), s, hexKey, 1, nil)
	require.NoError(t, err)
	assert.Equal(t, orig, hexKey, "caller buffer is not modified")

	common.WipeByteArray(hexKey)
	assert.Equal(t, crypto.PubkeyToAddress(key.PublicKey), w.Account(), "signer survives the caller wipe")
}

func TestEVMWriter_CreateRecord(t *testing.T) {
	c := &fakeContract{}
	s := newTestStore(c, types.ReceiptStatusSuccessful, nil)

	var asked []string
	w := newTestWriter(t, s, func(action string) bool {
		asked = append(asked, action)
		return true
	})

	handle := models.Handle{0xAA}
	tx, err := w.CreateRecord(context.Background(), models.CreateRecordInput{
		ID:           "drug-1",
		Name:         "CompoundX",
		Encrypted:    models.EncryptedInput{Handle: handle, Proof: []byte{0x01, 0x02}},
		PublicValue1: 250,
		PublicValue2: -5,
		Description:  "test",
	})
	require.NoError(t, err)
	require.NoError(t, tx.Wait(context.Background()))
	assert.NotEmpty(t, tx.Hash())

	require.Len(t, c.sent, 1)
	assert.Equal(t, methodCreateRecord, c.sent[0].method)
	p := c.sent[0].params
	assert.Equal(t, "drug-1", p[0])
	assert.Equal(t, "CompoundX", p[1])
	assert.Equal(t, [32]byte(handle), p[2])
	assert.Equal(t, []byte{0x01, 0x02}, p[3])
	assert.Equal(t, int64(250), p[4].(*big.Int).Int64())
	assert.Equal(t, int64(0), p[5].(*big.Int).Int64())
	assert.Equal(t, "test", p[6])
	assert.Equal(t, []string{"create record drug-1"}, asked)
}

func TestEVMWriter_UserRejects(t *testing.T) {
	c := &fakeContract{}
	s := newTestStore(c, types.ReceiptStatusSuccessful, nil)
	w := newTestWriter(t, s, func(string) bool { return false })

	_, err := w.VerifyRecord(context.Background(), "drug-1", []byte{0x01}, []byte{0x02})
	require.ErrorIs(t, err, common.ErrUserRejected)
	assert.Empty(t, c.sent)
}

func TestEVMWriter_AlreadyVerifiedRevert(t *testing.T) {
	tests := []struct {
		name string
		err  error
	}{
		{name: "message", err: errors.New("execution reverted: Already verified")},
		{name: "revert data", err: rpcDataError{msg: "execution reverted", data: revertData(t, "Already verified")}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := &fakeContract{txErr: tt.err}
			s := newTestStore(c, types.ReceiptStatusSuccessful, nil)
			w := newTestWriter(t, s, nil)

			_, err := w.VerifyRecord(context.Background(), "drug-1", nil, nil)
			require.ErrorIs(t, err, common.ErrAlreadyVerified)
		})
	}
}

func TestEVMTransaction_Wait(t *testing.T) {
	t.Run("reverted", func(t *testing.T) {
		s := newTestStore(&fakeContract{}, types.ReceiptStatusFailed, nil)
		w := newTestWriter(t, s, nil)
		tx, err := w.VerifyRecord(context.Background(), "drug-1", nil, nil)
		require.NoError(t, err)
		require.ErrorIs(t, tx.Wait(context.Background()), common.ErrReverted)
	})

	t.Run("timeout", func(t *testing.T) {
		s := newTestStore(&fakeContract{}, types.ReceiptStatusSuccessful, context.DeadlineExceeded)
		w := newTestWriter(t, s, nil)
		tx, err := w.VerifyRecord(context.Background(), "drug-1", nil, nil)
		require.NoError(t, err)
		require.ErrorIs(t, tx.Wait(context.Background()), common.ErrTimeout)
	})
}

func TestMapError(t *testing.T) {
	assert.NoError(t, mapError(nil))
	assert.ErrorIs(t, mapError(errors.New("User denied transaction signature")), common.ErrUserRejected)
	assert.ErrorIs(t, mapError(context.Canceled), context.Canceled)
	assert.Equal(t, common.ErrUserRejected, mapError(common.ErrUserRejected))
}

func TestDial_InvalidAddress(t *testing.T) {
	_, err := Dial(context.Background(), "http://127.0.0.1:1", "not-an-address")
	require.ErrorIs(t, err, ErrInvalidAddress)
}

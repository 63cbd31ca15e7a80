package chain

import (
	"fmt"
	"math"
	"math/big"

	"github.com/dmitrijs2005/pharmafhe/internal/client/models"
	ethcommon "github.com/ethereum/go-ethereum/common"
)

// intOrZero coerces a numeric ABI value to int64. Anything missing,
// non-numeric or outside the int64 range reads as 0.
func intOrZero(v any) int64 {
	switch n := v.(type) {
	case *big.Int:
		if n == nil || !n.IsInt64() {
			return 0
		}
		return n.Int64()
	case uint8:
		return int64(n)
	case uint16:
		return int64(n)
	case uint32:
		return int64(n)
	case uint64:
		if n > math.MaxInt64 {
			return 0
		}
		return int64(n)
	case int64:
		return n
	default:
		return 0
	}
}

func stringOrEmpty(v any) string {
	s, _ := v.(string)
	return s
}

func boolOrFalse(v any) bool {
	b, _ := v.(bool)
	return b
}

func addressHex(v any) string {
	switch a := v.(type) {
	case ethcommon.Address:
		return a.Hex()
	case string:
		return a
	default:
		return ""
	}
}

// decodeRecord maps the getBusinessData output tuple onto a Record.
func decodeRecord(id string, out []interface{}) (models.Record, error) {
	if len(out) != 8 {
		return models.Record{}, fmt.Errorf("%w: %s returned %d values", ErrMalformedResult, methodGetRecord, len(out))
	}

	r := models.Record{
		ID:           id,
		Name:         stringOrEmpty(out[0]),
		PublicValue1: intOrZero(out[1]),
		PublicValue2: intOrZero(out[2]),
		Description:  stringOrEmpty(out[3]),
		Creator:      addressHex(out[4]),
		CreatedAt:    intOrZero(out[5]),
		IsVerified:   boolOrFalse(out[6]),
	}
	if r.IsVerified {
		r.DecryptedValue = intOrZero(out[7])
	}
	return r, nil
}

func decodeHandle(out []interface{}) (models.Handle, error) {
	if len(out) != 1 {
		return models.Handle{}, fmt.Errorf("%w: %s returned %d values", ErrMalformedResult, methodGetHandle, len(out))
	}
	switch h := out[0].(type) {
	case [32]byte:
		return models.Handle(h), nil
	case ethcommon.Hash:
		return h, nil
	default:
		return models.Handle{}, fmt.Errorf("%w: unexpected handle type %T", ErrMalformedResult, out[0])
	}
}

// uintArg converts a non-negative int64 into a uint256 argument; negative
// input is clamped to 0.
func uintArg(v int64) *big.Int {
	if v < 0 {
		v = 0
	}
	return big.NewInt(v)
}

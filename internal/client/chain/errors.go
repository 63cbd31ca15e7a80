package chain

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/dmitrijs2005/pharmafhe/internal/common"
	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/ethereum/go-ethereum/common/hexutil"
)

var (
	ErrInvalidAddress  = errors.New("invalid contract address")
	ErrInvalidKey      = errors.New("invalid private key")
	ErrMalformedResult = errors.New("malformed contract result")
)

// dataError is implemented by JSON-RPC errors that carry revert data.
type dataError interface {
	ErrorData() interface{}
}

// revertReason extracts the Error(string) reason from RPC revert data, if any.
func revertReason(err error) string {
	var de dataError
	if !errors.As(err, &de) {
		return ""
	}
	s, ok := de.ErrorData().(string)
	if !ok {
		return ""
	}
	data, err := hexutil.Decode(s)
	if err != nil {
		return ""
	}
	reason, err := abi.UnpackRevert(data)
	if err != nil {
		return ""
	}
	return reason
}

func mapError(err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, common.ErrUserRejected) ||
		errors.Is(err, context.Canceled) ||
		errors.Is(err, context.DeadlineExceeded) {
		return err
	}

	msg := strings.ToLower(err.Error() + " " + revertReason(err))

	switch {
	case strings.Contains(msg, "already verified"):
		return fmt.Errorf("%w: %w", common.ErrAlreadyVerified, err)
	case strings.Contains(msg, "user rejected"), strings.Contains(msg, "user denied"):
		return fmt.Errorf("%w: %w", common.ErrUserRejected, err)
	default:
		return fmt.Errorf("contract error: %w", err)
	}
}

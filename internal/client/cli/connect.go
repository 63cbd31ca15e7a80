package cli

import (
	"context"
	"errors"
	"fmt"

	"github.com/dmitrijs2005/pharmafhe/internal/common"
)

// getSecret is an indirection used to facilitate testing.
var getSecret = GetSecret

var ErrNoKey = errors.New("no signer key provided")

// Connect activates a signer. The key comes from the configuration or, when
// none is configured, from a hidden prompt. After connecting, the record
// list is loaded.
func (a *App) Connect(ctx context.Context) error {
	key := []byte(a.config.PrivateKey)
	if len(key) == 0 {
		var err error
		key, err = getSecret("Enter private key", a.out)
		if err != nil {
			return err
		}
	}
	defer common.WipeByteArray(key)

	if len(key) == 0 {
		fmt.Fprintln(a.out, "No key entered")
		return ErrNoKey
	}

	writer, err := a.newWriter(ctx, key, a.confirm)
	if err != nil {
		a.log.Error(ctx, "connect", "error", err)
		fmt.Fprintln(a.out, "Connect failed:", err)
		return err
	}

	account := writer.Account().Hex()
	if a.relayer != nil {
		a.relayer.SetAccount(account)
	}
	if err := a.workflow.Connect(ctx, account, writer); err != nil {
		return err
	}
	fmt.Fprintln(a.out, "Connected as", account)

	return a.workflow.Refresh(ctx)
}

// Disconnect drops the signer. The cached records stay visible.
func (a *App) Disconnect(ctx context.Context) error {
	if !a.isConnected() {
		return nil
	}
	a.workflow.Disconnect()
	if a.relayer != nil {
		a.relayer.SetAccount("")
	}
	fmt.Fprintln(a.out, "Disconnected")
	return nil
}

// confirm is the ConfirmFunc handed to the signer: every transaction is
// approved interactively.
func (a *App) confirm(action string) bool {
	return Confirm(a.reader, fmt.Sprintf("Sign %s transaction?", action), a.out)
}

package cli

import (
	"context"
	"fmt"
)

// Submit collects the draft fields and runs the encrypt-and-create flow.
// A draft left by a failed attempt is offered as the default for each
// field, so a retry only needs Enter.
func (a *App) Submit(ctx context.Context) error {
	if !a.isConnected() {
		fmt.Fprintln(a.out, "Connect wallet first")
		return nil
	}

	if !a.draft.IsEmpty() {
		fmt.Fprintln(a.out, "Resuming the previous draft (Enter keeps a value)")
	}

	d := &a.draft
	var err error
	if d.Name, err = GetTextWithDefault(a.reader, "Compound name", d.Name, a.out); err != nil {
		return err
	}
	if d.Value, err = GetTextWithDefault(a.reader, "Confidential value (encrypted)", d.Value, a.out); err != nil {
		return err
	}
	if d.Score, err = GetTextWithDefault(a.reader, "Public score (1-100)", d.Score, a.out); err != nil {
		return err
	}
	if d.Description, err = GetTextWithDefault(a.reader, "Description", d.Description, a.out); err != nil {
		return err
	}

	if err := a.workflow.Submit(ctx, d); err != nil {
		a.log.Error(ctx, "submit", "error", err)
		return err
	}
	return nil
}

// Decrypt runs the decrypt-and-verify flow for one record and prints the
// verified value.
func (a *App) Decrypt(ctx context.Context, id string) error {
	res, err := a.workflow.Decrypt(ctx, id)
	if err != nil {
		a.log.Error(ctx, "decrypt", "id", id, "error", err)
		return err
	}
	note := ""
	if res.AlreadyVerified {
		note = " (already verified)"
	}
	fmt.Fprintf(a.out, "%s decrypted value: %d%s\n", res.RecordID, res.Value, note)
	return nil
}

// Available asks the store whether the system accepts work.
func (a *App) Available(ctx context.Context) error {
	_, err := a.workflow.CheckAvailability(ctx)
	return err
}

// Status prints the connection state and the current status message.
func (a *App) Status(ctx context.Context) error {
	account := a.workflow.Account()
	if account == "" {
		account = "not connected"
	}
	fmt.Fprintf(a.out, "Account: %s\n", account)
	fmt.Fprintf(a.out, "Mode:    %s\n", a.Mode())
	fmt.Fprintf(a.out, "Records: %d\n", a.workflow.Snapshot().Len())
	if a.workflow.Refreshing() {
		fmt.Fprintln(a.out, "Loading...")
	}
	fmt.Fprintf(a.out, "Status:  %s\n", a.status.Current())
	return nil
}

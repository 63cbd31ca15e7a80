package cli

import (
	"context"
	"fmt"
	"time"

	"github.com/dmitrijs2005/pharmafhe/internal/client/models"
)

const timeLayout = "2006-01-02 15:04:05"

// Refresh reloads the record list from the store.
func (a *App) Refresh(ctx context.Context) error {
	if err := a.workflow.Refresh(ctx); err != nil {
		a.log.Error(ctx, "refresh", "error", err)
		return err
	}
	fmt.Fprintf(a.out, "%d records loaded\n", a.workflow.Snapshot().Len())
	return nil
}

// List prints the cached records, optionally filtered by a case-insensitive
// substring of name or description.
func (a *App) List(ctx context.Context, filter string) error {
	snap := a.workflow.Snapshot()
	if snap.Len() == 0 {
		fmt.Fprintln(a.out, "No records")
		return nil
	}

	rows := snap.Filter(filter)
	for _, r := range rows {
		fmt.Fprintln(a.out, r)
	}
	if filter != "" {
		fmt.Fprintf(a.out, "%d of %d records match %q\n", len(rows), snap.Len(), filter)
	}
	if !snap.BuiltAt().IsZero() && a.Mode() == ModeOffline {
		fmt.Fprintf(a.out, "(offline snapshot from %s)\n", snap.BuiltAt().Local().Format(timeLayout))
	}
	return nil
}

// Show prints the full detail of one cached record.
func (a *App) Show(ctx context.Context, id string) error {
	r, ok := a.workflow.Snapshot().Get(id)
	if !ok {
		fmt.Fprintln(a.out, "Record not found:", id)
		return nil
	}
	printRecord(a, r)
	return nil
}

func printRecord(a *App, r models.Record) {
	fmt.Fprintf(a.out, "ID:          %s\n", r.ID)
	fmt.Fprintf(a.out, "Name:        %s\n", r.Name)
	fmt.Fprintf(a.out, "Description: %s\n", r.Description)
	fmt.Fprintf(a.out, "Creator:     %s\n", r.Creator)
	fmt.Fprintf(a.out, "Created:     %s\n", r.Created().Local().Format(timeLayout))
	fmt.Fprintf(a.out, "Value 1:     %d\n", r.PublicValue1)
	fmt.Fprintf(a.out, "Score:       %d\n", r.PublicValue2)
	fmt.Fprintf(a.out, "Status:      %s\n", r.StatusLabel())
	if r.IsVerified {
		fmt.Fprintf(a.out, "Decrypted:   %d\n", r.DecryptedValue)
	}
}

// Stats prints the aggregate figures of the current snapshot.
func (a *App) Stats(ctx context.Context) error {
	st := a.workflow.Snapshot().Stats()
	fmt.Fprintf(a.out, "Total compounds: %d\n", st.TotalCompounds)
	fmt.Fprintf(a.out, "Verified data:   %d\n", st.VerifiedData)
	fmt.Fprintf(a.out, "Avg activity:    %.1f\n", st.AvgActivity)
	fmt.Fprintf(a.out, "Recent uploads:  %d\n", st.RecentUploads)
	return nil
}

// History prints the connected account's own submissions.
func (a *App) History(ctx context.Context) error {
	if !a.isConnected() {
		fmt.Fprintln(a.out, "Connect wallet first")
		return nil
	}
	items := a.workflow.Snapshot().History()
	if len(items) == 0 {
		fmt.Fprintln(a.out, "No submissions yet")
		return nil
	}
	for _, h := range items {
		state := "encrypted"
		if h.Verified {
			state = "verified"
		}
		fmt.Fprintf(a.out, "%s  %-24s  %s\n", time.Unix(h.Timestamp, 0).Local().Format(timeLayout), h.Name, state)
	}
	return nil
}

package cli

import (
	"context"
	"fmt"
)

func (a *App) getStatus() string {
	s := ""
	if account := a.workflow.Account(); account != "" {
		s = shortAccount(account) + " "
	}
	if mode := a.Mode(); mode != "" {
		s = s + string(mode)
	}
	if s != "" {
		s = fmt.Sprintf("(%s)", s)
	}
	return s
}

// shortAccount abbreviates a hex account as 0x1234…abcd.
func shortAccount(account string) string {
	if len(account) <= 12 {
		return account
	}
	return account[:6] + "…" + account[len(account)-4:]
}

// Root restores the offline snapshot, connects when a key is configured,
// starts the online watcher and then blocks in the REPL.
func (a *App) Root(ctx context.Context) {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	fmt.Fprintln(a.out, "Welcome to pharmafhe CLI (type 'help' for commands)")

	if err := a.workflow.LoadOffline(ctx); err != nil {
		a.log.Warn(ctx, "load offline snapshot", "error", err)
	}

	a.checkOnline(ctx)

	if a.config.PrivateKey != "" {
		_ = a.Connect(ctx)
	}

	go a.StartOnlineStatusWatcher(ctx, a.config.OnlineCheckInterval)

	runREPL(ctx, a, a.getStatus, a.reader)
}

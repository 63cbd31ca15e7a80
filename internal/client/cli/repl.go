package cli

import (
	"bufio"
	"context"
	"fmt"
	"strings"
)

// printlnFn is a test seam for user-facing output. In tests, replace it with a stub.
var printlnFn = fmt.Println

// execIface defines the minimal command surface the REPL needs to operate.
// The real App type satisfies this interface; tests can provide a lightweight stub.
type execIface interface {
	isConnected() bool
	Connect(ctx context.Context) error
	Disconnect(ctx context.Context) error
	Refresh(ctx context.Context) error
	List(ctx context.Context, filter string) error
	Show(ctx context.Context, id string) error
	Stats(ctx context.Context) error
	History(ctx context.Context) error
	Submit(ctx context.Context) error
	Decrypt(ctx context.Context, id string) error
	Available(ctx context.Context) error
	Status(ctx context.Context) error
}

// runREPL starts a simple read–eval–print loop for the pharmafhe CLI.
//
// It reads a line from reader, parses the first token as the command, and
// dispatches to methods on 'a'. Unknown commands are reported back to the
// user. The loop exits on EOF, when ctx is done, or when the user types
// "exit" or "quit".
//
// Prompt & Commands
//
//	Always:
//	  - help               show available commands
//	  - (l)ist [text]      list cached records, optionally filtered
//	  - search <text>      same as list with a filter
//	  - show <id>          show one record
//	  - stats              aggregate figures
//	  - available          ask the store whether it accepts work
//	  - status             connection and status summary
//	  - connect            activate a signer key
//	  - exit | quit        leave the program
//
//	Connected:
//	  - refresh            reload records from the store
//	  - submit             encrypt and upload a new record
//	  - decrypt <id>       decrypt and verify a record
//	  - history            own submissions
//	  - disconnect         drop the signer
//
// Command errors are not printed here; the status line and the handlers
// report them. The same reader is shared with the interactive prompts of
// the handlers.
func runREPL(ctx context.Context, a execIface, statusFn func() string, reader *bufio.Reader) {
	for {
		if ctx.Err() != nil {
			return
		}
		printlnFn(fmt.Sprintf("pharmafhe %s> ", statusFn()))
		line, err := readLine(reader)
		if err != nil {
			return
		}
		parts := strings.Fields(line)
		if len(parts) == 0 {
			continue
		}
		cmd := parts[0]
		arg := strings.Join(parts[1:], " ")

		switch cmd {
		case "help":
			if a.isConnected() {
				printlnFn("Available commands: (l)ist, search, show, stats, history, refresh, submit, decrypt, available, status, disconnect, exit")
			} else {
				printlnFn("Available commands: connect, (l)ist, search, show, stats, available, status, exit")
			}

		case "connect":
			_ = a.Connect(ctx)

		case "disconnect":
			_ = a.Disconnect(ctx)

		case "refresh":
			_ = a.Refresh(ctx)

		case "l", "list":
			_ = a.List(ctx, arg)

		case "search":
			if arg == "" {
				printlnFn("Usage: search <text>")
				continue
			}
			_ = a.List(ctx, arg)

		case "show":
			if arg == "" {
				printlnFn("Usage: show <id>")
				continue
			}
			_ = a.Show(ctx, arg)

		case "stats":
			_ = a.Stats(ctx)

		case "history":
			_ = a.History(ctx)

		case "submit":
			_ = a.Submit(ctx)

		case "decrypt":
			if arg == "" {
				printlnFn("Usage: decrypt <id>")
				continue
			}
			_ = a.Decrypt(ctx, arg)

		case "available":
			_ = a.Available(ctx)

		case "status":
			_ = a.Status(ctx)

		case "exit", "quit":
			printlnFn("Bye!")
			return

		default:
			printlnFn("Unknown command:", cmd)
		}
	}
}

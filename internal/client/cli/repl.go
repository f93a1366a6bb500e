package cli

import (
	"bufio"
	"context"
	"fmt"
	"strings"
)

// printlnFn is a test seam for user-facing output.
var printlnFn = fmt.Println

// execIface defines the minimal command surface the REPL needs. The real
// App type satisfies it; tests provide a lightweight stub.
type execIface interface {
	isLoggedIn() bool
	Login(ctx context.Context, asDoctor bool) error
	Logout(ctx context.Context) error
	Me(ctx context.Context) error
	ListAppointments(ctx context.Context) error
	BookAppointment(ctx context.Context) error
	CancelAppointment(ctx context.Context, id string) error
	ListPrescriptions(ctx context.Context) error
	IssuePrescription(ctx context.Context) error
	ListConsultations(ctx context.Context) error
	OpenConsultation(ctx context.Context) error
	Chat(ctx context.Context, channelID string) error
	WatchStatus(ctx context.Context, channelID string) error
	ListDocuments(ctx context.Context) error
	UploadDocument(ctx context.Context) error
	SetEndpoint(ctx context.Context, baseURL string) error
}

// runREPL reads a line from the scanner, parses the first token as the
// command and dispatches to methods on 'a'. The loop exits on scanner EOF
// or when the user types "exit" or "quit".
//
// Errors returned by command handlers are printed and the loop continues;
// the REPL stays alive across failed calls.
func runREPL(ctx context.Context, a execIface, statusFn func() string, scanner *bufio.Scanner) {
	report := func(err error) {
		if err != nil {
			printlnFn("Error:", err.Error())
		}
	}

	for {
		printlnFn(fmt.Sprintf("medilink %s> ", statusFn()))
		if !scanner.Scan() {
			return
		}
		parts := strings.Fields(scanner.Text())
		if len(parts) == 0 {
			continue
		}
		cmd := parts[0]
		args := parts[1:]

		switch cmd {
		case "help":
			if a.isLoggedIn() {
				printlnFn("Available commands: me, appointments, book, cancel <id>, prescriptions, issue,")
				printlnFn("  consultations, consult, chat <channel>, watch <channel>, docs, upload,")
				printlnFn("  endpoint <url>, logout, exit")
			} else {
				printlnFn("Available commands: login [doctor], endpoint <url>, exit")
			}

		case "login":
			report(a.Login(ctx, len(args) > 0 && args[0] == "doctor"))

		case "logout":
			report(a.Logout(ctx))

		case "me":
			report(a.Me(ctx))

		case "appointments":
			report(a.ListAppointments(ctx))

		case "book":
			report(a.BookAppointment(ctx))

		case "cancel":
			if len(args) == 0 {
				printlnFn("Usage: cancel <appointment-id>")
				continue
			}
			report(a.CancelAppointment(ctx, args[0]))

		case "prescriptions":
			report(a.ListPrescriptions(ctx))

		case "issue":
			report(a.IssuePrescription(ctx))

		case "consultations":
			report(a.ListConsultations(ctx))

		case "consult":
			report(a.OpenConsultation(ctx))

		case "chat":
			if len(args) == 0 {
				printlnFn("Usage: chat <channel-id>")
				continue
			}
			report(a.Chat(ctx, args[0]))

		case "watch":
			if len(args) == 0 {
				printlnFn("Usage: watch <channel-id>")
				continue
			}
			report(a.WatchStatus(ctx, args[0]))

		case "docs":
			report(a.ListDocuments(ctx))

		case "upload":
			report(a.UploadDocument(ctx))

		case "endpoint":
			if len(args) == 0 {
				printlnFn("Usage: endpoint <base-url>")
				continue
			}
			report(a.SetEndpoint(ctx, args[0]))

		case "exit", "quit":
			printlnFn("Bye!")
			return

		default:
			printlnFn("Unknown command:", cmd)
		}
	}
}

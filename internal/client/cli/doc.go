// Package cli provides the interactive medilink command-line client.
//
// It wires configuration, the local token store, the API client and an
// interactive REPL. Typical flow: log in as a patient or doctor, then
// browse appointments, prescriptions and documents, chat with the
// assistant over a streamed consultation, or watch a consultation's
// status channel.
//
// The REPL is started via App.Run(ctx), which blocks until the user exits.
// See App and runREPL for details.
package cli

// Package cli provides the interactive gophauth command-line client.
//
// It wires configuration, the HTTP API client and a read-eval-print loop.
// Commands: signup, login, me, status, logout, help, exit. Passwords are
// read from the terminal without echo and wiped after use.
//
// The REPL is started via App.Run(ctx), which blocks until the user exits or
// input ends.
package cli

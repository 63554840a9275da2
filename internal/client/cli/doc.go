// Package cli provides the interactive TeamDeck command-line client.
//
// It wires configuration, local storage, the identity authority client, the
// auth state store and the roster carousel behind a small REPL. On start the
// stored sign-in is hydrated and verified, the carousel begins rotating and
// portraits load in the background.
//
// Key features:
//   - Register / Login / Logout / WhoAmI against the identity authority
//   - Verify the held session, Reset the saved sign-in
//   - Browse the roster: team [role], next, members
//
// The REPL is started via App.Run(ctx), which blocks until the user exits.
package cli

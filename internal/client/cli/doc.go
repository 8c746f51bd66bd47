// Package cli provides the interactive quotes command-line client.
//
// It wires configuration, the local credential store, the REST client and
// the session and quote services, and exposes them through an interactive
// REPL and a few one-shot cobra commands. Typical flow: restore the stored
// session, start a background session watcher, then execute user commands.
//
// Key features:
//   - Register / Login / Logout / profile editing
//   - Browse quotes: all, mine, by author, single quote
//   - Add / Edit / Delete own quotes
//   - Like / Dislike with optimistic updates
//   - Author profiles with statistics and the authors directory
//
// The REPL is started via App.Root(ctx), which blocks until the user exits.
// See App, StartSessionWatcher and runREPL for details.
package cli

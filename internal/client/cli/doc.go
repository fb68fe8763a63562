// Package cli provides the interactive tasksync terminal client.
//
// It wires configuration, the local snapshot cache, the server API and a
// REPL. After login the user's list is kept live: changes made on any other
// device are printed as they arrive. When the server is unreachable the last
// cached list is shown read-only.
//
// The REPL is started via App.Run(ctx), which blocks until the user exits.
package cli

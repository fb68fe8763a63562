// Package client contains client-side building blocks for tasksync.
//
// # Overview
//
// The package provides:
//  1. A transport contract (see the Client interface) for the tasksync
//     server: Register, Login, Logout and Connect.
//  2. A concrete implementation (see HTTPClient) that keeps the session
//     cookie in a jar, calls the JSON endpoints and dials the sync WebSocket.
//  3. Local persistence bootstrap utilities (InitDatabase, RunMigrations)
//     for the offline cache, wiring an SQLite database and applying embedded
//     goose migrations.
//
// # Error Handling
//
// Common conditions are exposed as sentinel errors that callers can match with
// errors.Is: ErrUnavailable, ErrUnauthorized, plus common.ErrConflict,
// common.ErrValidation and common.ErrUnauthenticated for account calls.
//
// See Also
//
//   - Interface:  Client, Stream
//   - HTTP impl:  HTTPClient
//   - DB helpers: InitDatabase, RunMigrations
package client

// Package services holds the client-side application logic: it keeps the
// logged-in user's task list in step with the server and falls back to the
// locally cached copy while the server is unreachable.
package services

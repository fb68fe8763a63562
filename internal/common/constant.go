// Package common contains shared constants and sentinel errors used across
// tasksync components.
package common

// SessionCookieName is the cookie that carries the signed session token
// between the login endpoint and the WebSocket upgrade.
const SessionCookieName = "session"

// HashSize and SaltSize are the fixed widths of a stored password credential.
const (
	HashSize = 32
	SaltSize = 32
)

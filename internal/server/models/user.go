package models

import (
	"strconv"
	"time"

	"github.com/dmitrijs2005/tasksync/internal/common"
)

// UserID and SessionID are random 64-bit keys. They are opaque to clients;
// a SessionID travels as a decimal string inside the session cookie.
type (
	UserID    uint64
	SessionID uint64
)

func (id SessionID) String() string { return strconv.FormatUint(uint64(id), 10) }
func (id UserID) String() string    { return strconv.FormatUint(uint64(id), 10) }

// ParseSessionID parses the decimal form produced by SessionID.String.
func ParseSessionID(s string) (SessionID, error) {
	v, err := strconv.ParseUint(s, 10, 64)
	if err != nil {
		return 0, err
	}
	return SessionID(v), nil
}

// User is a registered account. PassHash is the Argon2id digest of the
// password under Salt.
type User struct {
	ID        UserID
	UserName  string
	PassHash  [common.HashSize]byte
	Salt      [common.SaltSize]byte
	CreatedAt time.Time
}

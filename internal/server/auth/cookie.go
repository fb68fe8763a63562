package auth

import (
	"fmt"
	"net/http"

	"github.com/dmitrijs2005/tasksync/internal/common"
	"github.com/dmitrijs2005/tasksync/internal/server/models"
)

// NewSessionCookie returns the cookie that carries sessionID.
func NewSessionCookie(sessionID models.SessionID, secretKey []byte) (*http.Cookie, error) {
	token, err := GenerateToken(sessionID, secretKey)
	if err != nil {
		return nil, err
	}
	return &http.Cookie{
		Name:     common.SessionCookieName,
		Value:    token,
		Path:     "/",
		HttpOnly: true,
		SameSite: http.SameSiteStrictMode,
	}, nil
}

// ExpiredSessionCookie makes the browser drop the session cookie.
func ExpiredSessionCookie() *http.Cookie {
	return &http.Cookie{
		Name:     common.SessionCookieName,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		SameSite: http.SameSiteStrictMode,
	}
}

// SessionIDFromRequest extracts and verifies the session cookie of r.
// It does not check that the session is still active.
func SessionIDFromRequest(r *http.Request, secretKey []byte) (models.SessionID, error) {
	c, err := r.Cookie(common.SessionCookieName)
	if err != nil {
		return 0, fmt.Errorf("%w: no session cookie", common.ErrInvalidToken)
	}
	return SessionIDFromToken(c.Value, secretKey)
}

// Package auth signs and verifies the value of the session cookie.
//
// The cookie carries an HS256 JWT whose "sid" claim is the session id in
// decimal. The token has no expiry: sessions live until logout, and revocation
// is checked server-side by resolving the id.
package auth

import (
	"fmt"

	"github.com/golang-jwt/jwt/v5"

	"github.com/dmitrijs2005/tasksync/internal/common"
	"github.com/dmitrijs2005/tasksync/internal/server/models"
)

// Claims are the registered claims plus the session id.
type Claims struct {
	jwt.RegisteredClaims
	SessionID string `json:"sid"`
}

// GenerateToken signs sessionID into a cookie value.
func GenerateToken(sessionID models.SessionID, secretKey []byte) (string, error) {
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, Claims{SessionID: sessionID.String()})

	tokenString, err := token.SignedString(secretKey)
	if err != nil {
		return "", err
	}

	return tokenString, nil
}

// SessionIDFromToken verifies the signature and returns the session id.
// Any failure is reported as common.ErrInvalidToken.
func SessionIDFromToken(tokenString string, secretKey []byte) (models.SessionID, error) {
	claims := &Claims{}

	token, err := jwt.ParseWithClaims(tokenString, claims, func(t *jwt.Token) (interface{}, error) {
		return secretKey, nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
	if err != nil {
		return 0, fmt.Errorf("%w: %v", common.ErrInvalidToken, err)
	}

	if !token.Valid {
		return 0, common.ErrInvalidToken
	}

	id, err := models.ParseSessionID(claims.SessionID)
	if err != nil {
		return 0, fmt.Errorf("%w: bad sid: %v", common.ErrInvalidToken, err)
	}

	return id, nil
}

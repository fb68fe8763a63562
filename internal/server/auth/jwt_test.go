package auth

import (
	"errors"
	"testing"

	"github.com/golang-jwt/jwt/v5"

	"github.com/dmitrijs2005/tasksync/internal/common"
	"github.com/dmitrijs2005/tasksync/internal/server/models"
)

func TestGenerateAndParse_Success(t *testing.T) {
	t.Parallel()

	secret := []byte("super-secret")
	sid := models.SessionID(12345678901234567890)

	tok, err := GenerateToken(sid, secret)
	if err != nil {
		t.Fatalf("GenerateToken error: %v", err)
	}

	got, err := SessionIDFromToken(tok, secret)
	if err != nil {
		t.Fatalf("SessionIDFromToken error: %v", err)
	}
	if got != sid {
		t.Fatalf("session id mismatch: got %d want %d", got, sid)
	}
}

func TestSessionIDFromToken_WrongSecret(t *testing.T) {
	t.Parallel()

	tok, err := GenerateToken(7, []byte("right-secret"))
	if err != nil {
		t.Fatalf("GenerateToken error: %v", err)
	}

	_, err = SessionIDFromToken(tok, []byte("wrong-secret"))
	if !errors.Is(err, common.ErrInvalidToken) {
		t.Fatalf("expected common.ErrInvalidToken, got %v", err)
	}
}

func TestSessionIDFromToken_MalformedString(t *testing.T) {
	t.Parallel()

	_, err := SessionIDFromToken("not.a.jwt", []byte("k"))
	if !errors.Is(err, common.ErrInvalidToken) {
		t.Fatalf("expected common.ErrInvalidToken, got %v", err)
	}
}

func TestSessionIDFromToken_BadSid(t *testing.T) {
	t.Parallel()

	secret := []byte("k")
	tok, err := jwt.NewWithClaims(jwt.SigningMethodHS256, Claims{SessionID: "not-a-number"}).SignedString(secret)
	if err != nil {
		t.Fatalf("sign error: %v", err)
	}

	_, err = SessionIDFromToken(tok, secret)
	if !errors.Is(err, common.ErrInvalidToken) {
		t.Fatalf("expected common.ErrInvalidToken, got %v", err)
	}
}

func TestSessionIDFromToken_RejectsOtherAlgorithms(t *testing.T) {
	t.Parallel()

	secret := []byte("k")
	tok, err := jwt.NewWithClaims(jwt.SigningMethodHS512, Claims{SessionID: "1"}).SignedString(secret)
	if err != nil {
		t.Fatalf("sign error: %v", err)
	}

	if _, err := SessionIDFromToken(tok, secret); err == nil {
		t.Fatal("expected error for HS512 token")
	}
}

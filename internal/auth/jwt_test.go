package auth

import (
	"errors"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

func TestJWTFlow(t *testing.T) {
	tokens, err := NewTokenManager("test-secret-key-12345", time.Hour)
	if err != nil {
		t.Fatal(err)
	}

	want := Claims{UserID: uuid.New().String(), Email: "chef@example.com", Role: RoleRestaurant}

	token, err := tokens.GenerateToken(want)
	if err != nil {
		t.Fatalf("failed to generate token: %v", err)
	}

	got, err := tokens.ValidateToken(token)
	if err != nil {
		t.Fatalf("failed to validate token: %v", err)
	}
	if got != want {
		t.Fatalf("expected %+v, got %+v", want, got)
	}
}

func TestNewTokenManager_MissingSecret(t *testing.T) {
	if _, err := NewTokenManager("", time.Hour); !errors.Is(err, ErrMissingSecret) {
		t.Fatalf("expected ErrMissingSecret, got %v", err)
	}
}

func TestValidateToken_Rejects(t *testing.T) {
	tokens, _ := NewTokenManager("secret-a", time.Hour)
	other, _ := NewTokenManager("secret-b", time.Hour)

	foreign, _ := other.GenerateToken(Claims{UserID: "u1", Role: RoleAdmin})
	if _, err := tokens.ValidateToken(foreign); !errors.Is(err, ErrInvalidToken) {
		t.Fatalf("expected ErrInvalidToken for wrong secret, got %v", err)
	}

	tokens.now = func() time.Time { return time.Now().Add(-2 * time.Hour) }
	expired, _ := tokens.GenerateToken(Claims{UserID: "u1"})
	tokens.now = time.Now
	if _, err := tokens.ValidateToken(expired); !errors.Is(err, ErrInvalidToken) {
		t.Fatalf("expected ErrInvalidToken for expired token, got %v", err)
	}

	none := jwt.NewWithClaims(jwt.SigningMethodNone, jwt.MapClaims{"userID": "u1"})
	unsigned, _ := none.SignedString(jwt.UnsafeAllowNoneSignatureType)
	if _, err := tokens.ValidateToken(unsigned); !errors.Is(err, ErrInvalidToken) {
		t.Fatalf("expected ErrInvalidToken for alg none, got %v", err)
	}

	if _, err := tokens.GenerateToken(Claims{}); err == nil {
		t.Fatal("expected an error for empty userID")
	}
}

package api

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/terraincognita07/medira/internal/models"
)

func TestTokenRoundTrip(t *testing.T) {
	handler := &Handler{secretKey: []byte("test-secret-key")}
	user := &models.User{ID: 42}

	token, err := handler.buildToken(user, time.Hour)
	if err != nil {
		t.Fatalf("build token: %v", err)
	}

	claims, err := handler.parseToken(token)
	if err != nil {
		t.Fatalf("parse token: %v", err)
	}
	if claims.UserID != 42 {
		t.Fatalf("expected user 42, got %d", claims.UserID)
	}
}

func TestTokenRejectsWrongKey(t *testing.T) {
	handler := &Handler{secretKey: []byte("test-secret-key")}
	other := &Handler{secretKey: []byte("another-secret")}

	token, err := handler.buildToken(&models.User{ID: 42}, time.Hour)
	if err != nil {
		t.Fatalf("build token: %v", err)
	}
	if _, err := other.parseToken(token); err == nil {
		t.Fatalf("a token signed with another key must not parse")
	}
}

func TestTokenRejectsExpired(t *testing.T) {
	handler := &Handler{secretKey: []byte("test-secret-key")}

	expired := jwt.NewWithClaims(jwt.SigningMethodHS256, authClaims{
		UserID: 42,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(-time.Minute)),
			IssuedAt:  jwt.NewNumericDate(time.Now().Add(-time.Hour)),
		},
	})
	token, err := expired.SignedString(handler.secretKey)
	if err != nil {
		t.Fatalf("sign token: %v", err)
	}
	if _, err := handler.parseToken(token); err == nil {
		t.Fatalf("an expired token must not parse")
	}
}

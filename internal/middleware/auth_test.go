package middleware

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/titanfab/qcmaster-backend/internal/pkg/logger"
)

func testLogger(t *testing.T) *logger.Logger {
	t.Helper()
	log, err := logger.New("development")
	if err != nil {
		t.Fatalf("init logger: %v", err)
	}
	return log
}

func signToken(t *testing.T, secret string, claims jwt.MapClaims) string {
	t.Helper()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString([]byte(secret))
	if err != nil {
		t.Fatalf("sign token: %v", err)
	}
	return signed
}

func TestParseActor_ValidToken(t *testing.T) {
	am := NewAuthMiddleware(testLogger(t), "test-secret")
	signed := signToken(t, "test-secret", jwt.MapClaims{
		"sub":  "u-42",
		"name": "R. Mehta",
		"role": "admin",
		"exp":  time.Now().Add(time.Hour).Unix(),
	})

	actor, err := am.parseActor(signed)
	if err != nil {
		t.Fatalf("parseActor: %v", err)
	}
	if actor.UserID != "u-42" || actor.UserName != "R. Mehta" || actor.Role != "admin" {
		t.Errorf("actor = %+v", actor)
	}
}

func TestParseActor_WrongSecret(t *testing.T) {
	am := NewAuthMiddleware(testLogger(t), "test-secret")
	signed := signToken(t, "other-secret", jwt.MapClaims{
		"sub": "u-42",
		"exp": time.Now().Add(time.Hour).Unix(),
	})
	if _, err := am.parseActor(signed); err == nil {
		t.Fatal("token signed with another secret must be rejected")
	}
}

func TestParseActor_Expired(t *testing.T) {
	am := NewAuthMiddleware(testLogger(t), "test-secret")
	signed := signToken(t, "test-secret", jwt.MapClaims{
		"sub": "u-42",
		"exp": time.Now().Add(-time.Minute).Unix(),
	})
	if _, err := am.parseActor(signed); err == nil {
		t.Fatal("expired token must be rejected")
	}
}

func TestParseActor_MissingSubject(t *testing.T) {
	am := NewAuthMiddleware(testLogger(t), "test-secret")
	signed := signToken(t, "test-secret", jwt.MapClaims{
		"name": "No Subject",
		"exp":  time.Now().Add(time.Hour).Unix(),
	})
	if _, err := am.parseActor(signed); err == nil {
		t.Fatal("token without a subject must be rejected")
	}
}

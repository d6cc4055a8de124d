package services

import (
	"testing"

	"github.com/abdoux213/Application-de-Sondages-G8/models"
)

func TestTokenRoundTrip(t *testing.T) {
	svc := NewAuthService(nil, "test-secret", 24)
	user := &models.User{ID: 7, Username: "marie", Role: models.RoleCreator}

	token, err := svc.generateToken(user)
	if err != nil {
		t.Fatalf("generateToken returned error: %v", err)
	}

	claims, err := svc.ValidateToken(token)
	if err != nil {
		t.Fatalf("ValidateToken returned error: %v", err)
	}
	if claims.UserID != 7 || claims.Username != "marie" || claims.Role != models.RoleCreator {
		t.Fatalf("claims = %+v", claims)
	}
}

func TestValidateTokenRejectsWrongSecret(t *testing.T) {
	issuer := NewAuthService(nil, "secret-a", 24)
	verifier := NewAuthService(nil, "secret-b", 24)

	token, err := issuer.generateToken(&models.User{ID: 1, Username: "eve"})
	if err != nil {
		t.Fatalf("generateToken returned error: %v", err)
	}
	if _, err := verifier.ValidateToken(token); err != ErrInvalidToken {
		t.Fatalf("error = %v, want ErrInvalidToken", err)
	}
}

func TestValidateTokenRejectsGarbage(t *testing.T) {
	svc := NewAuthService(nil, "test-secret", 24)
	if _, err := svc.ValidateToken("not-a-token"); err != ErrInvalidToken {
		t.Fatalf("error = %v, want ErrInvalidToken", err)
	}
}

package auth

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

func TestPeerTokenRoundTrip(t *testing.T) {
	authenticator := NewAuthenticator("test-secret")

	token, err := authenticator.GeneratePeerToken("peer-1")
	if err != nil {
		t.Fatalf("GeneratePeerToken failed: %v", err)
	}

	claims, err := authenticator.ValidateToken(token)
	if err != nil {
		t.Fatalf("ValidateToken failed: %v", err)
	}
	if claims.PeerID != "peer-1" {
		t.Errorf("Expected peer ID peer-1, got %q", claims.PeerID)
	}
	if claims.Role != RolePeer {
		t.Errorf("Expected role %q, got %q", RolePeer, claims.Role)
	}
}

func TestOperatorTokenRoundTrip(t *testing.T) {
	authenticator := NewAuthenticator("test-secret")

	token, err := authenticator.GenerateOperatorToken("operator-1")
	if err != nil {
		t.Fatalf("GenerateOperatorToken failed: %v", err)
	}

	claims, err := authenticator.ValidateToken(token)
	if err != nil {
		t.Fatalf("ValidateToken failed: %v", err)
	}
	if claims.Role != RoleOperator {
		t.Errorf("Expected role %q, got %q", RoleOperator, claims.Role)
	}
}

func TestValidateToken_WrongSecret(t *testing.T) {
	token, err := NewAuthenticator("secret-a").GeneratePeerToken("peer-1")
	if err != nil {
		t.Fatalf("GeneratePeerToken failed: %v", err)
	}

	if _, err := NewAuthenticator("secret-b").ValidateToken(token); err == nil {
		t.Error("Expected validation to fail with the wrong secret")
	}
}

func TestValidateToken_Expired(t *testing.T) {
	secret := "test-secret"
	claims := &Claims{
		PeerID: "peer-1",
		Role:   RolePeer,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(-time.Hour)),
			IssuedAt:  jwt.NewNumericDate(time.Now().Add(-2 * time.Hour)),
		},
	}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(secret))
	if err != nil {
		t.Fatalf("Failed to sign token: %v", err)
	}

	if _, err := NewAuthenticator(secret).ValidateToken(token); err == nil {
		t.Error("Expected validation to fail for an expired token")
	}
}

func TestValidateToken_WrongAlgorithm(t *testing.T) {
	// Tokens signed with anything but HS256 must be rejected even when the
	// signature would otherwise verify.
	secret := "test-secret"
	claims := &Claims{
		PeerID: "peer-1",
		Role:   RolePeer,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
		},
	}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS512, claims).SignedString([]byte(secret))
	if err != nil {
		t.Fatalf("Failed to sign token: %v", err)
	}

	if _, err := NewAuthenticator(secret).ValidateToken(token); err == nil {
		t.Error("Expected validation to reject a non-HS256 token")
	}
}

func TestValidateToken_Garbage(t *testing.T) {
	if _, err := NewAuthenticator("test-secret").ValidateToken("not.a.token"); err == nil {
		t.Error("Expected validation to fail for a malformed token")
	}
}

package auth

import (
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// Roles a token may carry
const (
	RolePeer     = "peer"
	RoleOperator = "operator"
)

// Claims represents the claims in a relay token
type Claims struct {
	PeerID string `json:"peer_id,omitempty"`
	Role   string `json:"role"`
	jwt.RegisteredClaims
}

// Authenticator signs and validates peer tokens with an HS256 secret
type Authenticator struct {
	secret []byte
}

// NewAuthenticator creates an authenticator for the given secret
func NewAuthenticator(secret string) *Authenticator {
	return &Authenticator{secret: []byte(secret)}
}

// GeneratePeerToken generates a token for a caller/mobile peer
func (a *Authenticator) GeneratePeerToken(peerID string) (string, error) {
	claims := &Claims{
		PeerID: peerID,
		Role:   RolePeer,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(24 * time.Hour)),
			IssuedAt:  jwt.NewNumericDate(time.Now()),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(a.secret)
}

// GenerateOperatorToken generates a token for a dashboard operator console
func (a *Authenticator) GenerateOperatorToken(peerID string) (string, error) {
	claims := &Claims{
		PeerID: peerID,
		Role:   RoleOperator,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(7 * 24 * time.Hour)),
			IssuedAt:  jwt.NewNumericDate(time.Now()),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(a.secret)
}

// ValidateToken validates a token and returns its claims
func (a *Authenticator) ValidateToken(tokenString string) (*Claims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &Claims{}, func(token *jwt.Token) (interface{}, error) {
		return a.secret, nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))

	if err != nil {
		return nil, err
	}

	if claims, ok := token.Claims.(*Claims); ok && token.Valid {
		return claims, nil
	}

	return nil, jwt.ErrTokenInvalidClaims
}

// Package auth implements signing, verification, and issuance of the JWTs
// used by the service: short-lived access tokens and longer-lived refresh
// tokens. Refresh tokens carry a jti so they can be revoked; access tokens
// never do and are not individually revocable.
package auth

import (
	"errors"
	"time"

	"github.com/curexhq/curex/internal/common"
	"github.com/golang-jwt/jwt/v5"
)

// Claims is the decoded token payload. Subject, expiry, and the refresh-only
// jti live in the embedded RegisteredClaims (Subject, ExpiresAt, ID);
// TokenType discriminates access tokens from refresh tokens and must be
// checked before any authorization decision.
type Claims struct {
	TokenType string `json:"token_type"`
	jwt.RegisteredClaims
}

// Signer signs and verifies token payloads with a process-wide HS256 secret.
// It is stateless and safe for concurrent use.
type Signer struct {
	secret []byte
}

func NewSigner(secret []byte) *Signer {
	return &Signer{secret: secret}
}

// Sign encodes the claims into a signed compact JWT.
func (s *Signer) Sign(claims *Claims) (string, error) {
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(s.secret)
}

// Verify parses and validates a token string, returning its claims.
// It fails closed: common.ErrTokenExpired when the expiry is not strictly
// in the future, common.ErrInvalidToken for any signature, structural, or
// claim defect. Claim contents are never trusted before the signature
// has been validated.
func (s *Signer) Verify(tokenString string) (*Claims, error) {
	claims := &Claims{}

	token, err := jwt.ParseWithClaims(tokenString, claims, func(t *jwt.Token) (interface{}, error) {
		return s.secret, nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, common.ErrTokenExpired
		}
		return nil, common.ErrInvalidToken
	}

	if !token.Valid || claims.TokenType == "" || claims.ExpiresAt == nil {
		return nil, common.ErrInvalidToken
	}

	return claims, nil
}

// expiresAt is a helper for issuance; verification relies on the jwt
// validator, which treats exp == now as already expired.
func expiresAt(now time.Time, ttl time.Duration) *jwt.NumericDate {
	return jwt.NewNumericDate(now.Add(ttl))
}

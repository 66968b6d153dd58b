package auth

import (
	"time"

	"github.com/curexhq/curex/internal/common"
	"github.com/google/uuid"
)

// TokenIssuer builds access- and refresh-token claim sets and serializes
// them through the Signer. TTLs are fixed at construction time.
type TokenIssuer struct {
	signer     *Signer
	accessTTL  time.Duration
	refreshTTL time.Duration
}

func NewTokenIssuer(signer *Signer, accessTTL, refreshTTL time.Duration) *TokenIssuer {
	return &TokenIssuer{
		signer:     signer,
		accessTTL:  accessTTL,
		refreshTTL: refreshTTL,
	}
}

// AccessToken issues a short-lived access token for subject. Access tokens
// carry no jti: they are not individually revocable, their TTL is the only
// bound on the post-compromise window.
func (i *TokenIssuer) AccessToken(subject string) (string, error) {
	now := time.Now()
	claims := &Claims{TokenType: common.TokenTypeAccess}
	claims.Subject = subject
	claims.ExpiresAt = expiresAt(now, i.accessTTL)

	return i.signer.Sign(claims)
}

// RefreshToken issues a refresh token for subject and returns the token
// together with its jti. The jti is a v4 UUID; collision is treated as
// operationally impossible.
func (i *TokenIssuer) RefreshToken(subject string) (token string, jti string, err error) {
	now := time.Now()
	jti = uuid.NewString()

	claims := &Claims{TokenType: common.TokenTypeRefresh}
	claims.Subject = subject
	claims.ExpiresAt = expiresAt(now, i.refreshTTL)
	claims.ID = jti

	token, err = i.signer.Sign(claims)
	if err != nil {
		return "", "", err
	}
	return token, jti, nil
}

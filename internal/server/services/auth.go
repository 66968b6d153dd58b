// Package services contains server-side business logic. This file implements
// AuthService, which handles registration, login, refresh-token rotation,
// and logout on top of the revocation store.
package services

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"golang.org/x/crypto/bcrypt"

	"github.com/curexhq/curex/internal/common"
	"github.com/curexhq/curex/internal/dbx"
	"github.com/curexhq/curex/internal/server/auth"
	"github.com/curexhq/curex/internal/server/models"
	"github.com/curexhq/curex/internal/server/repositories/repomanager"
)

// TokenPair bundles a short-lived access token and a long-lived refresh token.
type TokenPair struct {
	AccessToken  string
	RefreshToken string
}

// AuthService provides authentication-related operations:
//   - Register: create users
//   - Login: verify credentials and mint tokens
//   - Refresh: rotate refresh tokens and mint new pairs
//   - Logout: revoke a refresh token without minting
//   - Authenticate: resolve an access token to its user
type AuthService struct {
	db          *sql.DB
	repomanager repomanager.RepositoryManager
	signer      *auth.Signer
	issuer      *auth.TokenIssuer
}

// NewAuthService constructs an AuthService using repositories and the token
// signing stack.
func NewAuthService(db *sql.DB, m repomanager.RepositoryManager, signer *auth.Signer, issuer *auth.TokenIssuer) *AuthService {
	return &AuthService{
		db:          db,
		repomanager: m,
		signer:      signer,
		issuer:      issuer,
	}
}

// Register creates a new user with a bcrypt-hashed password. The existence
// check and the insert run in one transaction so racing registrations of
// the same username cannot both succeed.
func (s *AuthService) Register(ctx context.Context, username, password string) (*models.User, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, common.ErrorInternal
	}

	var user *models.User
	err = dbx.WithTx(ctx, s.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		repo := s.repomanager.Users(tx)

		if _, err := repo.GetByUsername(ctx, username); err == nil {
			return common.ErrUserAlreadyExists
		} else if !errors.Is(err, common.ErrorNotFound) {
			return fmt.Errorf("error checking user: %w", err)
		}

		created, err := repo.Create(ctx, &models.User{Username: username, HashedPassword: string(hash)})
		if err != nil {
			return fmt.Errorf("error creating user: %w", err)
		}
		user = created
		return nil
	})
	if err != nil {
		return nil, err
	}
	return user, nil
}

// Login verifies the username/password pair and, on success, returns a new
// TokenPair. An unknown username yields ErrUserNotFound; a wrong password
// yields ErrInvalidCredentials.
func (s *AuthService) Login(ctx context.Context, username, password string) (*TokenPair, error) {
	repo := s.repomanager.Users(s.db)

	user, err := repo.GetByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return nil, common.ErrUserNotFound
		}
		return nil, common.ErrorInternal
	}

	if bcrypt.CompareHashAndPassword([]byte(user.HashedPassword), []byte(password)) != nil {
		return nil, common.ErrInvalidCredentials
	}

	return s.mintPair(user.Username)
}

// Refresh exchanges a live refresh token for a fresh TokenPair and retires
// the presented token. The presented jti is revoked before the new pair is
// minted; a crash in between denies the client rather than leaving two live
// tokens. Concurrent refreshes of the same token race on the revocation
// insert and only one wins, the rest get ErrTokenRevoked.
func (s *AuthService) Refresh(ctx context.Context, refreshToken string) (*TokenPair, error) {
	claims, err := s.checkRefreshToken(refreshToken)
	if err != nil {
		return nil, err
	}

	repo := s.repomanager.RevokedTokens(s.db)

	revoked, err := repo.IsRevoked(ctx, claims.ID)
	if err != nil {
		return nil, common.ErrorInternal
	}
	if revoked {
		return nil, common.ErrTokenRevoked
	}

	if err := repo.Revoke(ctx, claims.ID, claims.ExpiresAt.Time); err != nil {
		if errors.Is(err, common.ErrAlreadyRevoked) {
			return nil, common.ErrTokenRevoked
		}
		return nil, common.ErrorInternal
	}

	return s.mintPair(claims.Subject)
}

// Logout revokes the presented refresh token so it can never be exchanged.
// Logging out with a token that is malformed, expired, tampered with, or of
// the wrong type is itself an error: all of those collapse to
// ErrInvalidToken, the token was already unusable.
func (s *AuthService) Logout(ctx context.Context, refreshToken string) error {
	claims, err := s.checkRefreshToken(refreshToken)
	if err != nil {
		return common.ErrInvalidToken
	}

	repo := s.repomanager.RevokedTokens(s.db)

	if err := repo.Revoke(ctx, claims.ID, claims.ExpiresAt.Time); err != nil {
		if errors.Is(err, common.ErrAlreadyRevoked) {
			return common.ErrTokenRevoked
		}
		return common.ErrorInternal
	}
	return nil
}

// Authenticate resolves a bearer access token to its user. Refresh tokens
// are rejected with ErrWrongTokenType; tokens whose subject no longer
// exists yield ErrUserNotFound.
func (s *AuthService) Authenticate(ctx context.Context, accessToken string) (*models.User, error) {
	claims, err := s.signer.Verify(accessToken)
	if err != nil {
		return nil, err
	}
	if claims.TokenType != common.TokenTypeAccess {
		return nil, common.ErrWrongTokenType
	}

	repo := s.repomanager.Users(s.db)
	user, err := repo.GetByUsername(ctx, claims.Subject)
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return nil, common.ErrUserNotFound
		}
		return nil, common.ErrorInternal
	}
	return user, nil
}

// checkRefreshToken verifies the signature and expiry, then the token type.
// Expiry is checked first: an expired refresh token fails with
// ErrTokenExpired even if it was also revoked.
func (s *AuthService) checkRefreshToken(refreshToken string) (*auth.Claims, error) {
	claims, err := s.signer.Verify(refreshToken)
	if err != nil {
		return nil, err
	}
	if claims.TokenType != common.TokenTypeRefresh {
		return nil, common.ErrWrongTokenType
	}
	if claims.ID == "" {
		return nil, common.ErrInvalidToken
	}
	return claims, nil
}

func (s *AuthService) mintPair(subject string) (*TokenPair, error) {
	access, err := s.issuer.AccessToken(subject)
	if err != nil {
		return nil, common.ErrorInternal
	}
	refresh, _, err := s.issuer.RefreshToken(subject)
	if err != nil {
		return nil, common.ErrorInternal
	}
	return &TokenPair{AccessToken: access, RefreshToken: refresh}, nil
}

package services

import (
	"context"
	"database/sql"
	"errors"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/curexhq/curex/internal/common"
	"github.com/curexhq/curex/internal/dbx"
	"github.com/curexhq/curex/internal/server/auth"
	"github.com/curexhq/curex/internal/server/models"
	revokedrepo "github.com/curexhq/curex/internal/server/repositories/revokedtokens"
	usersrepo "github.com/curexhq/curex/internal/server/repositories/users"
)

// --- helpers ---

func newSQLMockDB(t *testing.T) (*sql.DB, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New error: %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })
	return db, mock
}

const testSecret = "test-secret"

func newTestAuthService(db *sql.DB, rm *fakeRepoManager) *AuthService {
	signer := auth.NewSigner([]byte(testSecret))
	issuer := auth.NewTokenIssuer(signer, time.Hour, 2*time.Hour)
	return NewAuthService(db, rm, signer, issuer)
}

type fakeUsersRepo struct {
	createOut *models.User
	createErr error

	getOut *models.User
	getErr error

	listOut []*models.User
	listErr error

	delErr error
	delID  int64
}

func (f *fakeUsersRepo) Create(ctx context.Context, u *models.User) (*models.User, error) {
	if f.createErr != nil {
		return nil, f.createErr
	}
	return f.createOut, nil
}

func (f *fakeUsersRepo) GetByUsername(ctx context.Context, username string) (*models.User, error) {
	if f.getErr != nil {
		return nil, f.getErr
	}
	return f.getOut, nil
}

func (f *fakeUsersRepo) List(ctx context.Context) ([]*models.User, error) {
	if f.listErr != nil {
		return nil, f.listErr
	}
	return f.listOut, nil
}

func (f *fakeUsersRepo) Delete(ctx context.Context, id int64) error {
	f.delID = id
	return f.delErr
}

// fakeRevokedRepo is a stateful in-memory revocation store: repeated Revoke
// of the same jti fails with ErrAlreadyRevoked, like the unique index does.
type fakeRevokedRepo struct {
	isRevoked    bool
	isRevokedErr error

	revokeErr  error
	revokedJTI string
	revoked    map[string]bool

	purgeOut int64
	purgeErr error
}

func (f *fakeRevokedRepo) IsRevoked(ctx context.Context, jti string) (bool, error) {
	if f.isRevokedErr != nil {
		return false, f.isRevokedErr
	}
	if f.isRevoked {
		return true, nil
	}
	return f.revoked[jti], nil
}

func (f *fakeRevokedRepo) Revoke(ctx context.Context, jti string, expiresAt time.Time) error {
	if f.revokeErr != nil {
		return f.revokeErr
	}
	if f.revoked[jti] {
		return common.ErrAlreadyRevoked
	}
	if f.revoked == nil {
		f.revoked = map[string]bool{}
	}
	f.revoked[jti] = true
	f.revokedJTI = jti
	return nil
}

func (f *fakeRevokedRepo) PurgeExpired(ctx context.Context, asOf time.Time) (int64, error) {
	if f.purgeErr != nil {
		return 0, f.purgeErr
	}
	return f.purgeOut, nil
}

type fakeRepoManager struct {
	u *fakeUsersRepo
	r *fakeRevokedRepo
}

func (m *fakeRepoManager) RunMigrations(context.Context, *sql.DB) error     { return nil }
func (m *fakeRepoManager) Users(db dbx.DBTX) usersrepo.Repository           { return m.u }
func (m *fakeRepoManager) RevokedTokens(db dbx.DBTX) revokedrepo.Repository { return m.r }

func mustHash(t *testing.T, password string) string {
	t.Helper()
	h, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.MinCost)
	require.NoError(t, err)
	return string(h)
}

// signRefreshToken builds a refresh token directly so tests can control
// expiry and jti.
func signRefreshToken(t *testing.T, subject, jti string, expiresAt time.Time) string {
	t.Helper()
	claims := &auth.Claims{TokenType: common.TokenTypeRefresh}
	claims.Subject = subject
	claims.ID = jti
	claims.ExpiresAt = jwt.NewNumericDate(expiresAt)
	token, err := auth.NewSigner([]byte(testSecret)).Sign(claims)
	require.NoError(t, err)
	return token
}

// --- Register ---

func TestAuthService_Register_OK(t *testing.T) {
	db, mock := newSQLMockDB(t)
	mock.ExpectBegin()
	mock.ExpectCommit()

	rm := &fakeRepoManager{
		u: &fakeUsersRepo{
			getErr:    common.ErrorNotFound,
			createOut: &models.User{ID: 1, Username: "alice"},
		},
		r: &fakeRevokedRepo{},
	}
	s := newTestAuthService(db, rm)

	user, err := s.Register(context.Background(), "alice", "password123")
	require.NoError(t, err)
	assert.Equal(t, int64(1), user.ID)
	assert.Equal(t, "alice", user.Username)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestAuthService_Register_Duplicate(t *testing.T) {
	db, mock := newSQLMockDB(t)
	mock.ExpectBegin()
	mock.ExpectRollback()

	rm := &fakeRepoManager{
		u: &fakeUsersRepo{getOut: &models.User{ID: 1, Username: "alice"}},
		r: &fakeRevokedRepo{},
	}
	s := newTestAuthService(db, rm)

	_, err := s.Register(context.Background(), "alice", "password123")
	assert.ErrorIs(t, err, common.ErrUserAlreadyExists)
	assert.NoError(t, mock.ExpectationsWereMet())
}

// --- Login ---

func TestAuthService_Login_OK(t *testing.T) {
	rm := &fakeRepoManager{
		u: &fakeUsersRepo{getOut: &models.User{
			ID:             1,
			Username:       "alice",
			HashedPassword: mustHash(t, "password123"),
		}},
		r: &fakeRevokedRepo{},
	}
	s := newTestAuthService(nil, rm)

	pair, err := s.Login(context.Background(), "alice", "password123")
	require.NoError(t, err)
	assert.NotEmpty(t, pair.AccessToken)
	assert.NotEmpty(t, pair.RefreshToken)
	assert.NotEqual(t, pair.AccessToken, pair.RefreshToken)
}

func TestAuthService_Login_WrongPassword(t *testing.T) {
	rm := &fakeRepoManager{
		u: &fakeUsersRepo{getOut: &models.User{
			ID:             1,
			Username:       "alice",
			HashedPassword: mustHash(t, "password123"),
		}},
		r: &fakeRevokedRepo{},
	}
	s := newTestAuthService(nil, rm)

	_, err := s.Login(context.Background(), "alice", "wrong")
	assert.ErrorIs(t, err, common.ErrInvalidCredentials)
}

func TestAuthService_Login_UnknownUser(t *testing.T) {
	rm := &fakeRepoManager{
		u: &fakeUsersRepo{getErr: common.ErrorNotFound},
		r: &fakeRevokedRepo{},
	}
	s := newTestAuthService(nil, rm)

	_, err := s.Login(context.Background(), "nobody", "password123")
	assert.ErrorIs(t, err, common.ErrUserNotFound)
}

// --- Refresh ---

func TestAuthService_Refresh_OK(t *testing.T) {
	rm := &fakeRepoManager{u: &fakeUsersRepo{}, r: &fakeRevokedRepo{}}
	s := newTestAuthService(nil, rm)

	token := signRefreshToken(t, "alice", "jti-1", time.Now().Add(time.Hour))

	pair, err := s.Refresh(context.Background(), token)
	require.NoError(t, err)
	assert.NotEmpty(t, pair.AccessToken)
	assert.NotEmpty(t, pair.RefreshToken)

	// the presented jti must be retired before the new pair goes out
	assert.Equal(t, "jti-1", rm.r.revokedJTI)

	// the new refresh token carries a fresh jti
	claims, err := auth.NewSigner([]byte(testSecret)).Verify(pair.RefreshToken)
	require.NoError(t, err)
	assert.NotEqual(t, "jti-1", claims.ID)
}

func TestAuthService_Refresh_SecondUseDenied(t *testing.T) {
	rm := &fakeRepoManager{u: &fakeUsersRepo{}, r: &fakeRevokedRepo{}}
	s := newTestAuthService(nil, rm)

	token := signRefreshToken(t, "alice", "jti-1", time.Now().Add(time.Hour))

	// first rotation wins
	_, err := s.Refresh(context.Background(), token)
	require.NoError(t, err)

	// every later attempt with the same token is denied
	_, err = s.Refresh(context.Background(), token)
	assert.ErrorIs(t, err, common.ErrTokenRevoked)
	_, err = s.Refresh(context.Background(), token)
	assert.ErrorIs(t, err, common.ErrTokenRevoked)
}

func TestAuthService_LogoutThenRefreshDenied(t *testing.T) {
	rm := &fakeRepoManager{u: &fakeUsersRepo{}, r: &fakeRevokedRepo{}}
	s := newTestAuthService(nil, rm)

	token := signRefreshToken(t, "alice", "jti-1", time.Now().Add(time.Hour))

	require.NoError(t, s.Logout(context.Background(), token))

	_, err := s.Refresh(context.Background(), token)
	assert.ErrorIs(t, err, common.ErrTokenRevoked)
}

func TestAuthService_Refresh_Expired(t *testing.T) {
	rm := &fakeRepoManager{u: &fakeUsersRepo{}, r: &fakeRevokedRepo{}}
	s := newTestAuthService(nil, rm)

	token := signRefreshToken(t, "alice", "jti-1", time.Now().Add(-time.Minute))

	_, err := s.Refresh(context.Background(), token)
	assert.ErrorIs(t, err, common.ErrTokenExpired)
	assert.Empty(t, rm.r.revokedJTI)
}

func TestAuthService_Refresh_Revoked(t *testing.T) {
	rm := &fakeRepoManager{u: &fakeUsersRepo{}, r: &fakeRevokedRepo{isRevoked: true}}
	s := newTestAuthService(nil, rm)

	token := signRefreshToken(t, "alice", "jti-1", time.Now().Add(time.Hour))

	_, err := s.Refresh(context.Background(), token)
	assert.ErrorIs(t, err, common.ErrTokenRevoked)
}

func TestAuthService_Refresh_LostInsertRace(t *testing.T) {
	// IsRevoked said no, but another rotation won the insert in between.
	rm := &fakeRepoManager{u: &fakeUsersRepo{}, r: &fakeRevokedRepo{revokeErr: common.ErrAlreadyRevoked}}
	s := newTestAuthService(nil, rm)

	token := signRefreshToken(t, "alice", "jti-1", time.Now().Add(time.Hour))

	_, err := s.Refresh(context.Background(), token)
	assert.ErrorIs(t, err, common.ErrTokenRevoked)
}

func TestAuthService_Refresh_AccessTokenRejected(t *testing.T) {
	rm := &fakeRepoManager{u: &fakeUsersRepo{}, r: &fakeRevokedRepo{}}
	s := newTestAuthService(nil, rm)

	signer := auth.NewSigner([]byte(testSecret))
	issuer := auth.NewTokenIssuer(signer, time.Hour, 2*time.Hour)
	access, err := issuer.AccessToken("alice")
	require.NoError(t, err)

	_, err = s.Refresh(context.Background(), access)
	assert.ErrorIs(t, err, common.ErrWrongTokenType)
}

func TestAuthService_Refresh_Garbage(t *testing.T) {
	rm := &fakeRepoManager{u: &fakeUsersRepo{}, r: &fakeRevokedRepo{}}
	s := newTestAuthService(nil, rm)

	_, err := s.Refresh(context.Background(), "not.a.token")
	assert.ErrorIs(t, err, common.ErrInvalidToken)
}

func TestAuthService_Refresh_RevokeStoreDown(t *testing.T) {
	rm := &fakeRepoManager{u: &fakeUsersRepo{}, r: &fakeRevokedRepo{revokeErr: errors.New("db down")}}
	s := newTestAuthService(nil, rm)

	token := signRefreshToken(t, "alice", "jti-1", time.Now().Add(time.Hour))

	// fail closed: no tokens minted when the revocation insert fails
	_, err := s.Refresh(context.Background(), token)
	assert.ErrorIs(t, err, common.ErrorInternal)
}

// --- Logout ---

func TestAuthService_Logout_OK(t *testing.T) {
	rm := &fakeRepoManager{u: &fakeUsersRepo{}, r: &fakeRevokedRepo{}}
	s := newTestAuthService(nil, rm)

	token := signRefreshToken(t, "alice", "jti-1", time.Now().Add(time.Hour))

	err := s.Logout(context.Background(), token)
	require.NoError(t, err)
	assert.Equal(t, "jti-1", rm.r.revokedJTI)
}

func TestAuthService_Logout_AlreadyRevoked(t *testing.T) {
	rm := &fakeRepoManager{u: &fakeUsersRepo{}, r: &fakeRevokedRepo{revokeErr: common.ErrAlreadyRevoked}}
	s := newTestAuthService(nil, rm)

	token := signRefreshToken(t, "alice", "jti-1", time.Now().Add(time.Hour))

	err := s.Logout(context.Background(), token)
	assert.ErrorIs(t, err, common.ErrTokenRevoked)
}

func TestAuthService_Logout_InvalidToken(t *testing.T) {
	rm := &fakeRepoManager{u: &fakeUsersRepo{}, r: &fakeRevokedRepo{}}
	s := newTestAuthService(nil, rm)

	err := s.Logout(context.Background(), "garbage")
	assert.ErrorIs(t, err, common.ErrInvalidToken)
}

func TestAuthService_Logout_ExpiredToken(t *testing.T) {
	rm := &fakeRepoManager{u: &fakeUsersRepo{}, r: &fakeRevokedRepo{}}
	s := newTestAuthService(nil, rm)

	token := signRefreshToken(t, "alice", "jti-1", time.Now().Add(-time.Minute))

	// an expired token is already unusable, logging out with it is an error
	err := s.Logout(context.Background(), token)
	assert.ErrorIs(t, err, common.ErrInvalidToken)
	assert.Empty(t, rm.r.revokedJTI)
}

func TestAuthService_Logout_AccessTokenRejected(t *testing.T) {
	rm := &fakeRepoManager{u: &fakeUsersRepo{}, r: &fakeRevokedRepo{}}
	s := newTestAuthService(nil, rm)

	signer := auth.NewSigner([]byte(testSecret))
	issuer := auth.NewTokenIssuer(signer, time.Hour, 2*time.Hour)
	access, err := issuer.AccessToken("alice")
	require.NoError(t, err)

	err = s.Logout(context.Background(), access)
	assert.ErrorIs(t, err, common.ErrInvalidToken)
}

// --- Authenticate ---

func TestAuthService_Authenticate_OK(t *testing.T) {
	rm := &fakeRepoManager{
		u: &fakeUsersRepo{getOut: &models.User{ID: 1, Username: "alice"}},
		r: &fakeRevokedRepo{},
	}
	s := newTestAuthService(nil, rm)

	signer := auth.NewSigner([]byte(testSecret))
	issuer := auth.NewTokenIssuer(signer, time.Hour, 2*time.Hour)
	access, err := issuer.AccessToken("alice")
	require.NoError(t, err)

	user, err := s.Authenticate(context.Background(), access)
	require.NoError(t, err)
	assert.Equal(t, "alice", user.Username)
}

func TestAuthService_Authenticate_RefreshTokenRejected(t *testing.T) {
	rm := &fakeRepoManager{u: &fakeUsersRepo{}, r: &fakeRevokedRepo{}}
	s := newTestAuthService(nil, rm)

	token := signRefreshToken(t, "alice", "jti-1", time.Now().Add(time.Hour))

	_, err := s.Authenticate(context.Background(), token)
	assert.ErrorIs(t, err, common.ErrWrongTokenType)
}

func TestAuthService_Authenticate_DeletedUser(t *testing.T) {
	rm := &fakeRepoManager{
		u: &fakeUsersRepo{getErr: common.ErrorNotFound},
		r: &fakeRevokedRepo{},
	}
	s := newTestAuthService(nil, rm)

	signer := auth.NewSigner([]byte(testSecret))
	issuer := auth.NewTokenIssuer(signer, time.Hour, 2*time.Hour)
	access, err := issuer.AccessToken("ghost")
	require.NoError(t, err)

	_, err = s.Authenticate(context.Background(), access)
	assert.ErrorIs(t, err, common.ErrUserNotFound)
}

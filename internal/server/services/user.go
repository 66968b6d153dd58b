package services

import (
	"context"
	"database/sql"
	"errors"

	"github.com/curexhq/curex/internal/common"
	"github.com/curexhq/curex/internal/server/models"
	"github.com/curexhq/curex/internal/server/repositories/repomanager"
)

// UserService handles user administration. Listing and deleting users are
// admin-only; the caller passes the already-authenticated requester and the
// service enforces the gate.
type UserService struct {
	db          *sql.DB
	repomanager repomanager.RepositoryManager
}

func NewUserService(db *sql.DB, m repomanager.RepositoryManager) *UserService {
	return &UserService{db: db, repomanager: m}
}

// List returns all registered users. Requires an admin requester.
func (s *UserService) List(ctx context.Context, requester *models.User) ([]*models.User, error) {
	if !requester.IsAdmin {
		return nil, common.ErrForbidden
	}

	repo := s.repomanager.Users(s.db)
	users, err := repo.List(ctx)
	if err != nil {
		return nil, common.ErrorInternal
	}
	return users, nil
}

// Delete removes the user with the given id. Requires an admin requester;
// deleting an unknown id yields ErrUserNotFound.
func (s *UserService) Delete(ctx context.Context, requester *models.User, id int64) error {
	if !requester.IsAdmin {
		return common.ErrForbidden
	}

	repo := s.repomanager.Users(s.db)
	if err := repo.Delete(ctx, id); err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return common.ErrUserNotFound
		}
		return common.ErrorInternal
	}
	return nil
}

// Package users declares the server-side repository contract for user
// accounts in persistent storage.
package users

import (
	"context"

	"github.com/curexhq/curex/internal/server/models"
)

// Repository defines operations for creating and looking up user accounts.
type Repository interface {
	// Create stores a new user and returns it with the assigned id.
	// Implementations should return common.ErrUserAlreadyExists when the
	// username is taken.
	Create(ctx context.Context, user *models.User) (*models.User, error)

	// GetByUsername looks up a user by username. Implementations should
	// return common.ErrorNotFound when the user is absent.
	GetByUsername(ctx context.Context, username string) (*models.User, error)

	// List returns all registered users ordered by id.
	List(ctx context.Context) ([]*models.User, error)

	// Delete removes a user by id. Implementations should return
	// common.ErrorNotFound when no row was deleted.
	Delete(ctx context.Context, id int64) error
}

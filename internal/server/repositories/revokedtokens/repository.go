// Package revokedtokens declares the repository contract for the durable
// set of revoked refresh-token identifiers.
package revokedtokens

import (
	"context"
	"time"
)

// Repository is the revocation store. It exclusively owns revocation
// records: they are inserted on rotation or logout, never updated, and
// deleted only by the expiry reaper.
type Repository interface {
	// IsRevoked reports whether a revocation record exists for jti.
	// Pure lookup, no side effect.
	IsRevoked(ctx context.Context, jti string) (bool, error)

	// Revoke inserts a revocation record for jti expiring at expiresAt.
	// When a record for jti already exists it returns
	// common.ErrAlreadyRevoked; the storage-level unique index makes the
	// first concurrent caller the only winner.
	Revoke(ctx context.Context, jti string, expiresAt time.Time) error

	// PurgeExpired deletes all records whose expiry is strictly before
	// asOf and returns the number deleted. Safe to call concurrently with
	// IsRevoked/Revoke.
	PurgeExpired(ctx context.Context, asOf time.Time) (int64, error)
}

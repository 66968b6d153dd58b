package models

import "time"

// RevokedToken is a blacklist entry for a refresh token that was rotated or
// logged out before its expiry. Records are never updated; the reaper
// deletes them once ExpiresAt has passed.
type RevokedToken struct {
	ID        int64
	JTI       string
	ExpiresAt time.Time
}

// Package models defines the persistent entities used by the server side.
package models

// User is a registered account. HashedPassword holds a bcrypt hash and is
// never serialized to API responses.
type User struct {
	ID             int64  `json:"id"`
	Username       string `json:"username"`
	HashedPassword string `json:"-"`
	IsAdmin        bool   `json:"is_admin"`
}

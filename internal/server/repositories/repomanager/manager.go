package repomanager

import (
	"context"
	"database/sql"

	"github.com/curexhq/curex/internal/dbx"
	"github.com/curexhq/curex/internal/server/repositories/revokedtokens"
	"github.com/curexhq/curex/internal/server/repositories/users"
)

// RepositoryManager vends repository implementations bound to a DBTX and
// exposes a schema migration hook.
type RepositoryManager interface {
	RunMigrations(context.Context, *sql.DB) error
	Users(db dbx.DBTX) users.Repository
	RevokedTokens(db dbx.DBTX) revokedtokens.Repository
}

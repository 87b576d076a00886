package repomanager

import (
	"context"
	"database/sql"

	"github.com/dmitrijs2005/mailgate/internal/dbx"
	"github.com/dmitrijs2005/mailgate/internal/server/repositories/accounts"
	"github.com/dmitrijs2005/mailgate/internal/server/repositories/messages"
)

// RepositoryManager vends repositories bound to a DBTX, so the same service
// code runs against *sql.DB or inside a transaction.
type RepositoryManager interface {
	RunMigrations(context.Context, *sql.DB) error
	Accounts(db dbx.DBTX) accounts.Repository
	Messages(db dbx.DBTX) messages.Repository
}

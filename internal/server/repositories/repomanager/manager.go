package repomanager

import (
	"context"
	"database/sql"

	"github.com/Francortiz-137/taskflow-backend/internal/dbx"
	"github.com/Francortiz-137/taskflow-backend/internal/server/repositories/attachments"
	"github.com/Francortiz-137/taskflow-backend/internal/server/repositories/refreshtokens"
	"github.com/Francortiz-137/taskflow-backend/internal/server/repositories/tasks"
	"github.com/Francortiz-137/taskflow-backend/internal/server/repositories/users"
)

type RepositoryManager interface {
	RunMigrations(context.Context, *sql.DB) error
	Users(db dbx.DBTX) users.Repository
	RefreshTokens(db dbx.DBTX) refreshtokens.Repository
	Tasks(db dbx.DBTX) tasks.Repository
	Attachments(db dbx.DBTX) attachments.Repository
}

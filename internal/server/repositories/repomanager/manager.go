// Package repomanager hands out repositories bound to a database handle.
// Passing the handle per call lets services run the same repository code on
// *sql.DB or inside a transaction via dbx.WithTx.
package repomanager

import (
	"github.com/dmitrijs2005/profilekeeper/internal/dbx"
	"github.com/dmitrijs2005/profilekeeper/internal/server/repositories/profiles"
	"github.com/dmitrijs2005/profilekeeper/internal/server/repositories/users"
)

type RepositoryManager interface {
	Users(db dbx.DBTX) users.Repository
	Profiles(db dbx.DBTX) profiles.Repository
}

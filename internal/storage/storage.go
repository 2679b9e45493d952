// Package storage defines the persistence interfaces the vault's record
// types are saved through. Implementations return the infrastructure/errors
// taxonomy: NotFound for missing rows, Duplicate for uniqueness violations,
// RecordNotSaved for any other failed insert, LibraryError for anything else
// the driver reports.
package storage

import (
	"context"

	"github.com/cardinal-network/identity-vault/internal/crypto"
	"github.com/cardinal-network/identity-vault/internal/model"
)

// AccountStore persists account rows.
type AccountStore interface {
	CreateAccount(ctx context.Context, account *model.Account) error
	GetAccountByName(ctx context.Context, name string) (*model.Account, error)
	ListAccounts(ctx context.Context) ([]*model.Account, error)
	UpdateAccount(ctx context.Context, account *model.Account) error
	DeleteAccount(ctx context.Context, id string) error
}

// ApplicationStore persists application rows.
type ApplicationStore interface {
	CreateApplication(ctx context.Context, application *model.Application) error
	GetApplicationByCode(ctx context.Context, accountID, code string) (*model.Application, error)
	ListApplications(ctx context.Context, accountID string) ([]*model.Application, error)
	DeleteApplication(ctx context.Context, id string) error
}

// ScopeStore persists write scopes, read scopes and read grant keys.
type ScopeStore interface {
	CreateWriteScope(ctx context.Context, scope *model.WriteScope) error
	GetWriteScopeByCode(ctx context.Context, applicationID, code string) (*model.WriteScope, error)
	ListWriteScopes(ctx context.Context, applicationID string) ([]*model.WriteScope, error)
	DeleteWriteScope(ctx context.Context, id string) error

	CreateReadScope(ctx context.Context, scope *model.ReadScope) error
	GetReadScopeByCode(ctx context.Context, applicationID, code string) (*model.ReadScope, error)
	ListReadScopes(ctx context.Context, applicationID string) ([]*model.ReadScope, error)
	DeleteReadScope(ctx context.Context, id string) error

	CreateReadGrantKey(ctx context.Context, key *model.ReadGrantKey) error
	ListReadGrantKeys(ctx context.Context, readScopeID string) ([]*model.ReadGrantKey, error)
	DeleteReadGrantKey(ctx context.Context, id string) error
}

// ClientStore persists client rows.
type ClientStore interface {
	CreateClient(ctx context.Context, client *model.Client) error
	GetClientByPublicKey(ctx context.Context, applicationID string, clientID [crypto.KeySize]byte) (*model.Client, error)
	ListClients(ctx context.Context, applicationID string) ([]*model.Client, error)
	DeleteClient(ctx context.Context, id string) error
}

// AuthorizationStore persists write and read authorizations.
type AuthorizationStore interface {
	CreateWriteAuthorization(ctx context.Context, authorization *model.WriteAuthorization) error
	ListWriteAuthorizationsForScope(ctx context.Context, writeScopeID string) ([]*model.WriteAuthorization, error)
	DeleteWriteAuthorization(ctx context.Context, writeScopeID string, clientID [crypto.KeySize]byte) error
	DeleteWriteAuthorizationsForScope(ctx context.Context, writeScopeID string) error
	DeleteWriteAuthorizationsForClient(ctx context.Context, clientID [crypto.KeySize]byte) error

	CreateReadAuthorization(ctx context.Context, authorization *model.ReadAuthorization) error
	ListReadAuthorizationsForGrantKey(ctx context.Context, readGrantKeyID string) ([]*model.ReadAuthorization, error)
	DeleteReadAuthorization(ctx context.Context, readGrantKeyID string, clientID [crypto.KeySize]byte) error
	DeleteReadAuthorizationsForGrantKey(ctx context.Context, readGrantKeyID string) error
	DeleteReadAuthorizationsForClient(ctx context.Context, clientID [crypto.KeySize]byte) error
}

// Store is the full persistence surface. WithTx runs fn against a store
// bound to a single transaction; every top-level delete cascade uses it so
// a crash mid-cascade cannot leave orphan rows.
type Store interface {
	AccountStore
	ApplicationStore
	ScopeStore
	ClientStore
	AuthorizationStore

	WithTx(ctx context.Context, fn func(Store) error) error
}

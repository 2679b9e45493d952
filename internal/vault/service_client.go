package vault

import (
	"context"

	cerr "github.com/cardinal-network/identity-vault/infrastructure/errors"
	"github.com/cardinal-network/identity-vault/internal/crypto"
	"github.com/cardinal-network/identity-vault/internal/model"
	"github.com/cardinal-network/identity-vault/internal/storage"
)

// CreateClient mints a client under an application and authorizes it for
// the named scopes in one transaction. The returned secret exists nowhere
// else; the caller must hand it to the client.
func (m *Manager) CreateClient(ctx context.Context, account *model.UnlockedAccount, application *model.Application, writeScopeCodes, readScopeCodes []string) ([crypto.KeySize]byte, *model.Client, error) {
	var zero [crypto.KeySize]byte

	secret, client, err := model.NewClient(account, application)
	if err != nil {
		return zero, nil, err
	}

	err = m.store.WithTx(ctx, func(tx storage.Store) error {
		if err := tx.CreateClient(ctx, client); err != nil {
			return err
		}

		for _, code := range writeScopeCodes {
			scope, err := m.GetWriteScope(ctx, account, application, code)
			if err != nil {
				return err
			}
			unlockedScope, err := scope.UnlockByAccount(account)
			if err != nil {
				return err
			}
			authorization, err := unlockedScope.Authorize(account, client)
			unlockedScope.Close()
			if err != nil {
				return err
			}
			if err := tx.CreateWriteAuthorization(ctx, authorization); err != nil {
				return err
			}
		}

		for _, code := range readScopeCodes {
			scope, err := m.GetReadScope(ctx, account, application, code)
			if err != nil {
				return err
			}
			unlockedScope, err := m.UnlockReadScope(ctx, account, scope)
			if err != nil {
				return err
			}
			authorizations, err := unlockedScope.Authorize(account, client)
			unlockedScope.Close()
			if err != nil {
				return err
			}
			for _, authorization := range authorizations {
				if err := tx.CreateReadAuthorization(ctx, authorization); err != nil {
					return err
				}
			}
		}

		return nil
	})
	if err != nil {
		return zero, nil, err
	}

	m.log.WithAccount(account.Name).WithField("application", application.Code).Info("client created")
	return secret, client, nil
}

// GetClient loads a client by its public key and revalidates its signature.
func (m *Manager) GetClient(ctx context.Context, account *model.UnlockedAccount, application *model.Application, clientID [crypto.KeySize]byte) (*model.Client, error) {
	client, err := m.store.GetClientByPublicKey(ctx, application.ID, clientID)
	if err != nil {
		return nil, err
	}
	if err := requireVerified(account, client, "client"); err != nil {
		return nil, err
	}
	return client, nil
}

// ListClients loads every client under an application, rejecting rows with
// a bad signature.
func (m *Manager) ListClients(ctx context.Context, account *model.UnlockedAccount, application *model.Application) ([]*model.Client, error) {
	clients, err := m.store.ListClients(ctx, application.ID)
	if err != nil {
		return nil, err
	}
	for _, client := range clients {
		if err := requireVerified(account, client, "client"); err != nil {
			return nil, err
		}
	}
	return clients, nil
}

// AuthorizeWriteScope grants an existing client access to one write scope.
func (m *Manager) AuthorizeWriteScope(ctx context.Context, account *model.UnlockedAccount, application *model.Application, client *model.Client, code string) (*model.WriteAuthorization, error) {
	scope, err := m.GetWriteScope(ctx, account, application, code)
	if err != nil {
		return nil, err
	}
	unlockedScope, err := scope.UnlockByAccount(account)
	if err != nil {
		return nil, err
	}
	defer unlockedScope.Close()

	authorization, err := unlockedScope.Authorize(account, client)
	if err != nil {
		return nil, err
	}
	if err := m.store.CreateWriteAuthorization(ctx, authorization); err != nil {
		return nil, err
	}
	return authorization, nil
}

// AuthorizeReadScope grants an existing client access to every current
// grant key of one read scope.
func (m *Manager) AuthorizeReadScope(ctx context.Context, account *model.UnlockedAccount, application *model.Application, client *model.Client, code string) ([]*model.ReadAuthorization, error) {
	scope, err := m.GetReadScope(ctx, account, application, code)
	if err != nil {
		return nil, err
	}
	unlockedScope, err := m.UnlockReadScope(ctx, account, scope)
	if err != nil {
		return nil, err
	}
	defer unlockedScope.Close()

	authorizations, err := unlockedScope.Authorize(account, client)
	if err != nil {
		return nil, err
	}
	for _, authorization := range authorizations {
		if err := m.store.CreateReadAuthorization(ctx, authorization); err != nil {
			return nil, err
		}
	}
	return authorizations, nil
}

// RevokeWriteScope removes one client's authorization for one write scope.
// The scope and the client survive.
func (m *Manager) RevokeWriteScope(ctx context.Context, account *model.UnlockedAccount, application *model.Application, client *model.Client, code string) error {
	scope, err := m.GetWriteScope(ctx, account, application, code)
	if err != nil {
		return err
	}
	return m.store.DeleteWriteAuthorization(ctx, scope.ID, client.ClientID)
}

// RevokeReadScope removes one client's authorizations for every grant key
// of one read scope.
func (m *Manager) RevokeReadScope(ctx context.Context, account *model.UnlockedAccount, application *model.Application, client *model.Client, code string) error {
	scope, err := m.GetReadScope(ctx, account, application, code)
	if err != nil {
		return err
	}

	keys, err := m.store.ListReadGrantKeys(ctx, scope.ID)
	if err != nil {
		return err
	}
	return m.store.WithTx(ctx, func(tx storage.Store) error {
		for _, key := range keys {
			err := tx.DeleteReadAuthorization(ctx, key.ID, client.ClientID)
			if err != nil && !cerr.IsKind(err, cerr.KindNotFound) {
				return err
			}
		}
		return nil
	})
}

// RevokeClient removes a client and every authorization issued to it.
func (m *Manager) RevokeClient(ctx context.Context, account *model.UnlockedAccount, application *model.Application, client *model.Client) error {
	err := m.store.WithTx(ctx, func(tx storage.Store) error {
		if err := tx.DeleteWriteAuthorizationsForClient(ctx, client.ClientID); err != nil {
			return err
		}
		if err := tx.DeleteReadAuthorizationsForClient(ctx, client.ClientID); err != nil {
			return err
		}
		return tx.DeleteClient(ctx, client.ID)
	})
	if err != nil {
		return err
	}

	m.log.WithAccount(account.Name).WithField("application", application.Code).Info("client revoked")
	return nil
}

package vault

import (
	"context"

	"github.com/cardinal-network/identity-vault/internal/model"
	"github.com/cardinal-network/identity-vault/internal/storage"
)

// CreateApplication signs and persists an application under the account.
func (m *Manager) CreateApplication(ctx context.Context, account *model.UnlockedAccount, code, description, serverURL string) (*model.Application, error) {
	application := model.NewApplication(code, description, serverURL, account)

	if err := m.store.CreateApplication(ctx, application); err != nil {
		return nil, err
	}

	m.log.WithAccount(account.Name).WithField("application", code).Info("application created")
	return application, nil
}

// GetApplication loads one of the account's applications by code and
// revalidates its signature.
func (m *Manager) GetApplication(ctx context.Context, account *model.UnlockedAccount, code string) (*model.Application, error) {
	application, err := m.store.GetApplicationByCode(ctx, account.ID, code)
	if err != nil {
		return nil, err
	}
	if err := requireVerified(account, application, "application"); err != nil {
		return nil, err
	}
	return application, nil
}

// ListApplications loads every application owned by the account, rejecting
// any row whose signature fails.
func (m *Manager) ListApplications(ctx context.Context, account *model.UnlockedAccount) ([]*model.Application, error) {
	applications, err := m.store.ListApplications(ctx, account.ID)
	if err != nil {
		return nil, err
	}
	for _, application := range applications {
		if err := requireVerified(account, application, "application"); err != nil {
			return nil, err
		}
	}
	return applications, nil
}

// DeleteApplication removes an application and every dependent scope, grant
// key, client and authorization in one transaction.
func (m *Manager) DeleteApplication(ctx context.Context, account *model.UnlockedAccount, code string) error {
	application, err := m.GetApplication(ctx, account, code)
	if err != nil {
		return err
	}

	err = m.store.WithTx(ctx, func(tx storage.Store) error {
		return deleteApplicationTx(ctx, tx, application)
	})
	if err != nil {
		return err
	}

	m.log.WithAccount(account.Name).WithField("application", code).Info("application deleted")
	return nil
}

// deleteApplicationTx is the shared bottom-up cascade: authorizations, then
// grant keys and scopes, then clients, then the application row.
func deleteApplicationTx(ctx context.Context, tx storage.Store, application *model.Application) error {
	writeScopes, err := tx.ListWriteScopes(ctx, application.ID)
	if err != nil {
		return err
	}
	for _, scope := range writeScopes {
		if err := deleteWriteScopeTx(ctx, tx, scope); err != nil {
			return err
		}
	}

	readScopes, err := tx.ListReadScopes(ctx, application.ID)
	if err != nil {
		return err
	}
	for _, scope := range readScopes {
		if err := deleteReadScopeTx(ctx, tx, scope); err != nil {
			return err
		}
	}

	clients, err := tx.ListClients(ctx, application.ID)
	if err != nil {
		return err
	}
	for _, client := range clients {
		if err := tx.DeleteClient(ctx, client.ID); err != nil {
			return err
		}
	}

	return tx.DeleteApplication(ctx, application.ID)
}

func deleteWriteScopeTx(ctx context.Context, tx storage.Store, scope *model.WriteScope) error {
	if err := tx.DeleteWriteAuthorizationsForScope(ctx, scope.ID); err != nil {
		return err
	}
	return tx.DeleteWriteScope(ctx, scope.ID)
}

func deleteReadScopeTx(ctx context.Context, tx storage.Store, scope *model.ReadScope) error {
	keys, err := tx.ListReadGrantKeys(ctx, scope.ID)
	if err != nil {
		return err
	}
	for _, key := range keys {
		if err := tx.DeleteReadAuthorizationsForGrantKey(ctx, key.ID); err != nil {
			return err
		}
		if err := tx.DeleteReadGrantKey(ctx, key.ID); err != nil {
			return err
		}
	}
	return tx.DeleteReadScope(ctx, scope.ID)
}

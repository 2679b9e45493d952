package vault

import (
	"context"

	cerr "github.com/cardinal-network/identity-vault/infrastructure/errors"
	"github.com/cardinal-network/identity-vault/internal/model"
	"github.com/cardinal-network/identity-vault/internal/storage"
)

// CreateWriteScope issues a certified write scope under an application.
func (m *Manager) CreateWriteScope(ctx context.Context, account *model.UnlockedAccount, application *model.Application, code string) (*model.WriteScope, error) {
	scope, err := model.NewWriteScope(code, application, account)
	if err != nil {
		return nil, err
	}

	if err := m.store.CreateWriteScope(ctx, scope); err != nil {
		return nil, err
	}

	m.log.WithAccount(account.Name).WithField("scope", code).Info("write scope created")
	return scope, nil
}

// GetWriteScope loads one write scope by code and revalidates its
// certificate.
func (m *Manager) GetWriteScope(ctx context.Context, account *model.UnlockedAccount, application *model.Application, code string) (*model.WriteScope, error) {
	scope, err := m.store.GetWriteScopeByCode(ctx, application.ID, code)
	if err != nil {
		return nil, err
	}
	if !scope.VerifyCertified(account) {
		return nil, cerr.FailedVerification("write scope")
	}
	return scope, nil
}

// ListWriteScopes loads every write scope under an application, rejecting
// rows with a bad certificate.
func (m *Manager) ListWriteScopes(ctx context.Context, account *model.UnlockedAccount, application *model.Application) ([]*model.WriteScope, error) {
	scopes, err := m.store.ListWriteScopes(ctx, application.ID)
	if err != nil {
		return nil, err
	}
	for _, scope := range scopes {
		if !scope.VerifyCertified(account) {
			return nil, cerr.FailedVerification("write scope")
		}
	}
	return scopes, nil
}

// DeleteWriteScope removes a write scope and its authorizations.
func (m *Manager) DeleteWriteScope(ctx context.Context, account *model.UnlockedAccount, application *model.Application, code string) error {
	scope, err := m.GetWriteScope(ctx, account, application, code)
	if err != nil {
		return err
	}

	err = m.store.WithTx(ctx, func(tx storage.Store) error {
		return deleteWriteScopeTx(ctx, tx, scope)
	})
	if err != nil {
		return err
	}

	m.log.WithAccount(account.Name).WithField("scope", code).Info("write scope deleted")
	return nil
}

// CreateReadScope signs and persists a read scope. Grant keys are issued
// separately so read capacity can grow without touching the scope record.
func (m *Manager) CreateReadScope(ctx context.Context, account *model.UnlockedAccount, application *model.Application, code string) (*model.ReadScope, error) {
	scope := model.NewReadScope(code, application, account)

	if err := m.store.CreateReadScope(ctx, scope); err != nil {
		return nil, err
	}

	m.log.WithAccount(account.Name).WithField("scope", code).Info("read scope created")
	return scope, nil
}

// GetReadScope loads one read scope by code and revalidates its signature.
func (m *Manager) GetReadScope(ctx context.Context, account *model.UnlockedAccount, application *model.Application, code string) (*model.ReadScope, error) {
	scope, err := m.store.GetReadScopeByCode(ctx, application.ID, code)
	if err != nil {
		return nil, err
	}
	if err := requireVerified(account, scope, "read scope"); err != nil {
		return nil, err
	}
	return scope, nil
}

// ListReadScopes loads every read scope under an application.
func (m *Manager) ListReadScopes(ctx context.Context, account *model.UnlockedAccount, application *model.Application) ([]*model.ReadScope, error) {
	scopes, err := m.store.ListReadScopes(ctx, application.ID)
	if err != nil {
		return nil, err
	}
	for _, scope := range scopes {
		if err := requireVerified(account, scope, "read scope"); err != nil {
			return nil, err
		}
	}
	return scopes, nil
}

// AddReadGrantKey issues another dated key under a read scope. Existing
// authorizations keep pointing at the older keys.
func (m *Manager) AddReadGrantKey(ctx context.Context, account *model.UnlockedAccount, scope *model.ReadScope) (*model.ReadGrantKey, error) {
	key, err := model.NewReadGrantKey(scope, account)
	if err != nil {
		return nil, err
	}

	if err := m.store.CreateReadGrantKey(ctx, key); err != nil {
		return nil, err
	}

	m.log.WithAccount(account.Name).WithField("scope", scope.Code).Info("read grant key issued")
	return key, nil
}

// UnlockReadScope loads and unlocks every grant key under the scope.
func (m *Manager) UnlockReadScope(ctx context.Context, account *model.UnlockedAccount, scope *model.ReadScope) (*model.UnlockedReadScope, error) {
	keys, err := m.store.ListReadGrantKeys(ctx, scope.ID)
	if err != nil {
		return nil, err
	}
	for _, key := range keys {
		if !key.VerifyCertified(account) {
			return nil, cerr.FailedVerification("read grant key")
		}
	}
	return scope.ToUnlocked(account, keys)
}

// DeleteReadScope removes a read scope, its grant keys and their
// authorizations.
func (m *Manager) DeleteReadScope(ctx context.Context, account *model.UnlockedAccount, application *model.Application, code string) error {
	scope, err := m.GetReadScope(ctx, account, application, code)
	if err != nil {
		return err
	}

	err = m.store.WithTx(ctx, func(tx storage.Store) error {
		return deleteReadScopeTx(ctx, tx, scope)
	})
	if err != nil {
		return err
	}

	m.log.WithAccount(account.Name).WithField("scope", code).Info("read scope deleted")
	return nil
}

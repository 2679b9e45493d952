// Package vault orchestrates the vault's record lifecycles over a storage
// backend: account management, application and scope issuance, client
// authorization and the transactional delete cascades.
package vault

import (
	"context"

	cerr "github.com/cardinal-network/identity-vault/infrastructure/errors"
	"github.com/cardinal-network/identity-vault/infrastructure/logging"
	"github.com/cardinal-network/identity-vault/internal/model"
	"github.com/cardinal-network/identity-vault/internal/storage"
)

// Manager exposes the vault's operations. It is safe to share across
// goroutines; the unlocked values it returns are not.
type Manager struct {
	store storage.Store
	log   *logging.Logger
}

// NewManager creates a Manager over the given store.
func NewManager(store storage.Store, log *logging.Logger) *Manager {
	return &Manager{store: store, log: log}
}

// CreateAccount builds and persists a new account.
func (m *Manager) CreateAccount(ctx context.Context, name, password, exportKey string, isAdmin bool) (*model.Account, error) {
	account, err := model.NewAccount(name, password, exportKey, isAdmin)
	if err != nil {
		return nil, err
	}

	if err := m.store.CreateAccount(ctx, account); err != nil {
		return nil, err
	}

	m.log.WithAccount(name).Info("account created")
	return account, nil
}

// UnlockAccount loads an account by name and walks the derivation chain.
func (m *Manager) UnlockAccount(ctx context.Context, name, password string) (*model.UnlockedAccount, error) {
	account, err := m.store.GetAccountByName(ctx, name)
	if err != nil {
		return nil, err
	}
	return account.Unlock(password)
}

// ListAccounts returns every account in its locked form.
func (m *Manager) ListAccounts(ctx context.Context) ([]*model.Account, error) {
	return m.store.ListAccounts(ctx)
}

// ChangePassword rewraps the account's master key under the new password.
func (m *Manager) ChangePassword(ctx context.Context, name, oldPassword, newPassword string) error {
	unlocked, err := m.UnlockAccount(ctx, name, oldPassword)
	if err != nil {
		return err
	}
	defer unlocked.Close()

	if err := unlocked.ChangePassword(newPassword); err != nil {
		return err
	}

	if err := m.store.UpdateAccount(ctx, &unlocked.Account); err != nil {
		return err
	}

	m.log.WithAccount(name).Info("password changed")
	return nil
}

// DeleteAccount removes an account and everything it transitively owns.
// The whole cascade runs in one transaction: applications bottom-up, then
// the account row.
func (m *Manager) DeleteAccount(ctx context.Context, name, password string) error {
	unlocked, err := m.UnlockAccount(ctx, name, password)
	if err != nil {
		return err
	}
	defer unlocked.Close()

	err = m.store.WithTx(ctx, func(tx storage.Store) error {
		applications, err := tx.ListApplications(ctx, unlocked.ID)
		if err != nil {
			return err
		}
		for _, application := range applications {
			if err := deleteApplicationTx(ctx, tx, application); err != nil {
				return err
			}
		}
		return tx.DeleteAccount(ctx, unlocked.ID)
	})
	if err != nil {
		return err
	}

	m.log.WithAccount(name).Info("account deleted")
	return nil
}

// ExportAccount releases the account's signing identity and applications in
// portable form. Fails with CouldNotAuthenticate on export-key mismatch.
func (m *Manager) ExportAccount(ctx context.Context, account *model.UnlockedAccount, exportKey, passphrase string) (*model.PortableAccount, error) {
	portable, err := account.ToPortable(exportKey, passphrase)
	if err != nil {
		return nil, err
	}

	applications, err := m.ListApplications(ctx, account)
	if err != nil {
		return nil, err
	}
	for _, application := range applications {
		portable.Applications = append(portable.Applications, application.ToPortable())
	}

	return portable, nil
}

// ImportAccount rebuilds an exported account under a fresh local password
// and re-signs its applications.
func (m *Manager) ImportAccount(ctx context.Context, name, password, exportKey, passphrase string, portable *model.PortableAccount) (*model.Account, error) {
	account, err := model.AccountFromPortable(name, password, exportKey, passphrase, portable)
	if err != nil {
		return nil, err
	}

	unlocked, err := account.Unlock(password)
	if err != nil {
		return nil, err
	}
	defer unlocked.Close()

	err = m.store.WithTx(ctx, func(tx storage.Store) error {
		if err := tx.CreateAccount(ctx, account); err != nil {
			return err
		}
		for _, portableApplication := range portable.Applications {
			application := model.ApplicationFromPortable(portableApplication, unlocked)
			if err := tx.CreateApplication(ctx, application); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	m.log.WithAccount(name).Info("account imported")
	return account, nil
}

// requireVerified rejects any loaded signed record whose signature does not
// check out under the owning account.
func requireVerified(account *model.UnlockedAccount, record model.Signed, resource string) error {
	if !account.VerifyRecord(record) {
		return cerr.FailedVerification(resource)
	}
	return nil
}

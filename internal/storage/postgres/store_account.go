package postgres

import (
	"context"

	cerr "github.com/cardinal-network/identity-vault/infrastructure/errors"
	"github.com/cardinal-network/identity-vault/internal/crypto"
	"github.com/cardinal-network/identity-vault/internal/model"
)

func (s *Store) CreateAccount(ctx context.Context, account *model.Account) error {
	_, err := s.q.ExecContext(ctx, `
		INSERT INTO account (id, name, password_hash, export_key_hash, public_key, encrypted_private_key, master_key_salt, encrypted_master_key, is_admin)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
	`, account.ID, account.Name, account.PasswordHash, account.ExportKeyHash,
		account.PublicKey[:], account.EncryptedPrivateKey[:], account.MasterKeySalt[:],
		account.EncryptedMasterKey[:], account.IsAdmin)
	return insertError(err, "account")
}

func (s *Store) GetAccountByName(ctx context.Context, name string) (*model.Account, error) {
	row := s.q.QueryRowContext(ctx, `
		SELECT id, name, password_hash, export_key_hash, public_key, encrypted_private_key, master_key_salt, encrypted_master_key, is_admin
		FROM account
		WHERE name = $1
	`, name)

	account, err := scanAccount(row)
	if err != nil {
		return nil, mapError(err, "account")
	}
	return account, nil
}

func (s *Store) ListAccounts(ctx context.Context) ([]*model.Account, error) {
	rows, err := s.q.QueryContext(ctx, `
		SELECT id, name, password_hash, export_key_hash, public_key, encrypted_private_key, master_key_salt, encrypted_master_key, is_admin
		FROM account
		ORDER BY name
	`)
	if err != nil {
		return nil, mapError(err, "account")
	}
	defer rows.Close()

	var result []*model.Account
	for rows.Next() {
		account, err := scanAccount(rows)
		if err != nil {
			return nil, mapError(err, "account")
		}
		result = append(result, account)
	}
	return result, mapError(rows.Err(), "account")
}

func (s *Store) UpdateAccount(ctx context.Context, account *model.Account) error {
	result, err := s.q.ExecContext(ctx, `
		UPDATE account
		SET password_hash = $2, export_key_hash = $3, encrypted_private_key = $4, master_key_salt = $5, encrypted_master_key = $6, is_admin = $7
		WHERE id = $1
	`, account.ID, account.PasswordHash, account.ExportKeyHash,
		account.EncryptedPrivateKey[:], account.MasterKeySalt[:], account.EncryptedMasterKey[:],
		account.IsAdmin)
	if err != nil {
		return mapError(err, "account")
	}
	if rows, _ := result.RowsAffected(); rows == 0 {
		return cerr.NotFound("account")
	}
	return nil
}

func (s *Store) DeleteAccount(ctx context.Context, id string) error {
	result, err := s.q.ExecContext(ctx, `
		DELETE FROM account WHERE id = $1
	`, id)
	if err != nil {
		return mapError(err, "account")
	}
	if rows, _ := result.RowsAffected(); rows == 0 {
		return cerr.NotFound("account")
	}
	return nil
}

func scanAccount(scanner rowScanner) (*model.Account, error) {
	var (
		account             model.Account
		publicKey           []byte
		encryptedPrivateKey []byte
		masterKeySalt       []byte
		encryptedMasterKey  []byte
	)

	if err := scanner.Scan(&account.ID, &account.Name, &account.PasswordHash, &account.ExportKeyHash,
		&publicKey, &encryptedPrivateKey, &masterKeySalt, &encryptedMasterKey, &account.IsAdmin); err != nil {
		return nil, err
	}

	account.PublicKey = crypto.To32(publicKey)
	account.EncryptedPrivateKey = crypto.To64(encryptedPrivateKey)
	account.MasterKeySalt = crypto.To32(masterKeySalt)
	account.EncryptedMasterKey = crypto.To64(encryptedMasterKey)
	return &account, nil
}

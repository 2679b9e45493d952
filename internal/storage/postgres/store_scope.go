package postgres

import (
	"context"
	"database/sql"
	"strings"

	cerr "github.com/cardinal-network/identity-vault/infrastructure/errors"
	"github.com/cardinal-network/identity-vault/internal/crypto"
	"github.com/cardinal-network/identity-vault/internal/model"
)

// --- Write scopes -----------------------------------------------------------

func (s *Store) CreateWriteScope(ctx context.Context, scope *model.WriteScope) error {
	_, err := s.q.ExecContext(ctx, `
		INSERT INTO write_grant_scope (id, application_id, application_code, code, display_name, description, public_key, encrypted_private_key, private_key_salt, expiration_date, signature, signing_key)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)
	`, scope.ID, scope.ApplicationID, scope.ApplicationCode, scope.Code,
		toNullString(scope.DisplayName), toNullString(scope.Description),
		scope.PublicKey[:], scope.EncryptedPrivateKey[:], scope.PrivateKeySalt[:],
		scope.ExpirationDate, scope.Sig, scope.SigningKey[:])
	return insertError(err, "write scope")
}

func (s *Store) GetWriteScopeByCode(ctx context.Context, applicationID, code string) (*model.WriteScope, error) {
	row := s.q.QueryRowContext(ctx, `
		SELECT id, application_id, application_code, code, display_name, description, public_key, encrypted_private_key, private_key_salt, expiration_date, signature, signing_key
		FROM write_grant_scope
		WHERE application_id = $1 AND code = $2
	`, applicationID, code)

	scope, err := scanWriteScope(row)
	if err != nil {
		return nil, mapError(err, "write scope")
	}
	return scope, nil
}

func (s *Store) ListWriteScopes(ctx context.Context, applicationID string) ([]*model.WriteScope, error) {
	rows, err := s.q.QueryContext(ctx, `
		SELECT id, application_id, application_code, code, display_name, description, public_key, encrypted_private_key, private_key_salt, expiration_date, signature, signing_key
		FROM write_grant_scope
		WHERE application_id = $1
		ORDER BY code
	`, applicationID)
	if err != nil {
		return nil, mapError(err, "write scope")
	}
	defer rows.Close()

	var result []*model.WriteScope
	for rows.Next() {
		scope, err := scanWriteScope(rows)
		if err != nil {
			return nil, mapError(err, "write scope")
		}
		result = append(result, scope)
	}
	return result, mapError(rows.Err(), "write scope")
}

func (s *Store) DeleteWriteScope(ctx context.Context, id string) error {
	result, err := s.q.ExecContext(ctx, `
		DELETE FROM write_grant_scope WHERE id = $1
	`, id)
	if err != nil {
		return mapError(err, "write scope")
	}
	if rows, _ := result.RowsAffected(); rows == 0 {
		return cerr.NotFound("write scope")
	}
	return nil
}

func scanWriteScope(scanner rowScanner) (*model.WriteScope, error) {
	var (
		scope               model.WriteScope
		displayName         sql.NullString
		description         sql.NullString
		publicKey           []byte
		encryptedPrivateKey []byte
		privateKeySalt      []byte
		signingKey          []byte
	)

	if err := scanner.Scan(&scope.ID, &scope.ApplicationID, &scope.ApplicationCode, &scope.Code,
		&displayName, &description, &publicKey, &encryptedPrivateKey, &privateKeySalt,
		&scope.ExpirationDate, &scope.Sig, &signingKey); err != nil {
		return nil, err
	}

	scope.DisplayName = displayName.String
	scope.Description = description.String
	scope.PublicKey = crypto.To32(publicKey)
	scope.EncryptedPrivateKey = crypto.To64(encryptedPrivateKey)
	scope.PrivateKeySalt = crypto.To32(privateKeySalt)
	scope.SigningKey = crypto.To32(signingKey)
	scope.ExpirationDate = scope.ExpirationDate.UTC()
	return &scope, nil
}

// --- Read scopes ------------------------------------------------------------

func (s *Store) CreateReadScope(ctx context.Context, scope *model.ReadScope) error {
	_, err := s.q.ExecContext(ctx, `
		INSERT INTO read_grant_scope (id, application_id, application_code, code, display_name, description, signature)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
	`, scope.ID, scope.ApplicationID, scope.ApplicationCode, scope.Code,
		toNullString(scope.DisplayName), toNullString(scope.Description), scope.Sig)
	return insertError(err, "read scope")
}

func (s *Store) GetReadScopeByCode(ctx context.Context, applicationID, code string) (*model.ReadScope, error) {
	row := s.q.QueryRowContext(ctx, `
		SELECT id, application_id, application_code, code, display_name, description, signature
		FROM read_grant_scope
		WHERE application_id = $1 AND code = $2
	`, applicationID, code)

	scope, err := scanReadScope(row)
	if err != nil {
		return nil, mapError(err, "read scope")
	}
	return scope, nil
}

func (s *Store) ListReadScopes(ctx context.Context, applicationID string) ([]*model.ReadScope, error) {
	rows, err := s.q.QueryContext(ctx, `
		SELECT id, application_id, application_code, code, display_name, description, signature
		FROM read_grant_scope
		WHERE application_id = $1
		ORDER BY code
	`, applicationID)
	if err != nil {
		return nil, mapError(err, "read scope")
	}
	defer rows.Close()

	var result []*model.ReadScope
	for rows.Next() {
		scope, err := scanReadScope(rows)
		if err != nil {
			return nil, mapError(err, "read scope")
		}
		result = append(result, scope)
	}
	return result, mapError(rows.Err(), "read scope")
}

func (s *Store) DeleteReadScope(ctx context.Context, id string) error {
	result, err := s.q.ExecContext(ctx, `
		DELETE FROM read_grant_scope WHERE id = $1
	`, id)
	if err != nil {
		return mapError(err, "read scope")
	}
	if rows, _ := result.RowsAffected(); rows == 0 {
		return cerr.NotFound("read scope")
	}
	return nil
}

func scanReadScope(scanner rowScanner) (*model.ReadScope, error) {
	var (
		scope       model.ReadScope
		displayName sql.NullString
		description sql.NullString
	)

	if err := scanner.Scan(&scope.ID, &scope.ApplicationID, &scope.ApplicationCode, &scope.Code,
		&displayName, &description, &scope.Sig); err != nil {
		return nil, err
	}

	scope.DisplayName = displayName.String
	scope.Description = description.String
	return &scope, nil
}

// --- Read grant keys --------------------------------------------------------

func (s *Store) CreateReadGrantKey(ctx context.Context, key *model.ReadGrantKey) error {
	_, err := s.q.ExecContext(ctx, `
		INSERT INTO read_grant_key (id, read_grant_scope_id, public_key, encrypted_private_key, private_key_salt, expiration_date, signature, signing_key)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
	`, key.ID, key.ReadScopeID, key.PublicKey[:], key.EncryptedPrivateKey[:],
		key.PrivateKeySalt[:], key.ExpirationDate, key.Sig, key.SigningKey[:])
	return insertError(err, "read grant key")
}

// ListReadGrantKeys joins the owning scope so each key carries the codes its
// certificate's scope tag is computed from.
func (s *Store) ListReadGrantKeys(ctx context.Context, readScopeID string) ([]*model.ReadGrantKey, error) {
	rows, err := s.q.QueryContext(ctx, `
		SELECT k.id, k.read_grant_scope_id, s.application_code, s.code, k.public_key, k.encrypted_private_key, k.private_key_salt, k.expiration_date, k.signature, k.signing_key
		FROM read_grant_key k
		JOIN read_grant_scope s ON s.id = k.read_grant_scope_id
		WHERE k.read_grant_scope_id = $1
		ORDER BY k.expiration_date
	`, readScopeID)
	if err != nil {
		return nil, mapError(err, "read grant key")
	}
	defer rows.Close()

	var result []*model.ReadGrantKey
	for rows.Next() {
		key, err := scanReadGrantKey(rows)
		if err != nil {
			return nil, mapError(err, "read grant key")
		}
		result = append(result, key)
	}
	return result, mapError(rows.Err(), "read grant key")
}

func (s *Store) DeleteReadGrantKey(ctx context.Context, id string) error {
	result, err := s.q.ExecContext(ctx, `
		DELETE FROM read_grant_key WHERE id = $1
	`, id)
	if err != nil {
		return mapError(err, "read grant key")
	}
	if rows, _ := result.RowsAffected(); rows == 0 {
		return cerr.NotFound("read grant key")
	}
	return nil
}

func scanReadGrantKey(scanner rowScanner) (*model.ReadGrantKey, error) {
	var (
		key                 model.ReadGrantKey
		publicKey           []byte
		encryptedPrivateKey []byte
		privateKeySalt      []byte
		signingKey          []byte
	)

	if err := scanner.Scan(&key.ID, &key.ReadScopeID, &key.ApplicationCode, &key.ScopeCode,
		&publicKey, &encryptedPrivateKey, &privateKeySalt, &key.ExpirationDate,
		&key.Sig, &signingKey); err != nil {
		return nil, err
	}

	key.PublicKey = crypto.To32(publicKey)
	key.EncryptedPrivateKey = crypto.To64(encryptedPrivateKey)
	key.PrivateKeySalt = crypto.To32(privateKeySalt)
	key.SigningKey = crypto.To32(signingKey)
	key.ExpirationDate = key.ExpirationDate.UTC()
	return &key, nil
}

func toNullString(value string) sql.NullString {
	if strings.TrimSpace(value) == "" {
		return sql.NullString{}
	}
	return sql.NullString{String: value, Valid: true}
}

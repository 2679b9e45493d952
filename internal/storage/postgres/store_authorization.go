package postgres

import (
	"context"

	cerr "github.com/cardinal-network/identity-vault/infrastructure/errors"
	"github.com/cardinal-network/identity-vault/internal/crypto"
	"github.com/cardinal-network/identity-vault/internal/model"
)

// --- Write authorizations ---------------------------------------------------

func (s *Store) CreateWriteAuthorization(ctx context.Context, authorization *model.WriteAuthorization) error {
	_, err := s.q.ExecContext(ctx, `
		INSERT INTO write_authorization (id, client_id, write_grant_scope_id, encrypted_access_key, public_key, signature)
		VALUES ($1, $2, $3, $4, $5, $6)
	`, authorization.ID, authorization.ClientID[:], authorization.WriteScopeID,
		authorization.EncryptedAccessKey[:], authorization.PublicKey[:], authorization.Sig)
	return insertError(err, "write authorization")
}

func (s *Store) ListWriteAuthorizationsForScope(ctx context.Context, writeScopeID string) ([]*model.WriteAuthorization, error) {
	rows, err := s.q.QueryContext(ctx, `
		SELECT id, client_id, write_grant_scope_id, encrypted_access_key, public_key, signature
		FROM write_authorization
		WHERE write_grant_scope_id = $1
		ORDER BY id
	`, writeScopeID)
	if err != nil {
		return nil, mapError(err, "write authorization")
	}
	defer rows.Close()

	var result []*model.WriteAuthorization
	for rows.Next() {
		authorization, err := scanWriteAuthorization(rows)
		if err != nil {
			return nil, mapError(err, "write authorization")
		}
		result = append(result, authorization)
	}
	return result, mapError(rows.Err(), "write authorization")
}

// DeleteWriteAuthorization revokes one client's access to one scope.
func (s *Store) DeleteWriteAuthorization(ctx context.Context, writeScopeID string, clientID [crypto.KeySize]byte) error {
	result, err := s.q.ExecContext(ctx, `
		DELETE FROM write_authorization WHERE write_grant_scope_id = $1 AND client_id = $2
	`, writeScopeID, clientID[:])
	if err != nil {
		return mapError(err, "write authorization")
	}
	if rows, _ := result.RowsAffected(); rows == 0 {
		return cerr.NotFound("write authorization")
	}
	return nil
}

func (s *Store) DeleteWriteAuthorizationsForScope(ctx context.Context, writeScopeID string) error {
	_, err := s.q.ExecContext(ctx, `
		DELETE FROM write_authorization WHERE write_grant_scope_id = $1
	`, writeScopeID)
	return mapError(err, "write authorization")
}

func (s *Store) DeleteWriteAuthorizationsForClient(ctx context.Context, clientID [crypto.KeySize]byte) error {
	_, err := s.q.ExecContext(ctx, `
		DELETE FROM write_authorization WHERE client_id = $1
	`, clientID[:])
	return mapError(err, "write authorization")
}

func scanWriteAuthorization(scanner rowScanner) (*model.WriteAuthorization, error) {
	var (
		authorization      model.WriteAuthorization
		clientID           []byte
		encryptedAccessKey []byte
		publicKey          []byte
	)

	if err := scanner.Scan(&authorization.ID, &clientID, &authorization.WriteScopeID,
		&encryptedAccessKey, &publicKey, &authorization.Sig); err != nil {
		return nil, err
	}

	authorization.ClientID = crypto.To32(clientID)
	authorization.EncryptedAccessKey = crypto.To64(encryptedAccessKey)
	authorization.PublicKey = crypto.To32(publicKey)
	return &authorization, nil
}

// --- Read authorizations ----------------------------------------------------

func (s *Store) CreateReadAuthorization(ctx context.Context, authorization *model.ReadAuthorization) error {
	_, err := s.q.ExecContext(ctx, `
		INSERT INTO read_authorization (id, client_id, read_grant_key_id, encrypted_access_key, public_key, signature)
		VALUES ($1, $2, $3, $4, $5, $6)
	`, authorization.ID, authorization.ClientID[:], authorization.ReadGrantKeyID,
		authorization.EncryptedAccessKey[:], authorization.PublicKey[:], authorization.Sig)
	return insertError(err, "read authorization")
}

func (s *Store) ListReadAuthorizationsForGrantKey(ctx context.Context, readGrantKeyID string) ([]*model.ReadAuthorization, error) {
	rows, err := s.q.QueryContext(ctx, `
		SELECT id, client_id, read_grant_key_id, encrypted_access_key, public_key, signature
		FROM read_authorization
		WHERE read_grant_key_id = $1
		ORDER BY id
	`, readGrantKeyID)
	if err != nil {
		return nil, mapError(err, "read authorization")
	}
	defer rows.Close()

	var result []*model.ReadAuthorization
	for rows.Next() {
		authorization, err := scanReadAuthorization(rows)
		if err != nil {
			return nil, mapError(err, "read authorization")
		}
		result = append(result, authorization)
	}
	return result, mapError(rows.Err(), "read authorization")
}

// DeleteReadAuthorization revokes one client's access to one grant key.
func (s *Store) DeleteReadAuthorization(ctx context.Context, readGrantKeyID string, clientID [crypto.KeySize]byte) error {
	result, err := s.q.ExecContext(ctx, `
		DELETE FROM read_authorization WHERE read_grant_key_id = $1 AND client_id = $2
	`, readGrantKeyID, clientID[:])
	if err != nil {
		return mapError(err, "read authorization")
	}
	if rows, _ := result.RowsAffected(); rows == 0 {
		return cerr.NotFound("read authorization")
	}
	return nil
}

func (s *Store) DeleteReadAuthorizationsForGrantKey(ctx context.Context, readGrantKeyID string) error {
	_, err := s.q.ExecContext(ctx, `
		DELETE FROM read_authorization WHERE read_grant_key_id = $1
	`, readGrantKeyID)
	return mapError(err, "read authorization")
}

func (s *Store) DeleteReadAuthorizationsForClient(ctx context.Context, clientID [crypto.KeySize]byte) error {
	_, err := s.q.ExecContext(ctx, `
		DELETE FROM read_authorization WHERE client_id = $1
	`, clientID[:])
	return mapError(err, "read authorization")
}

func scanReadAuthorization(scanner rowScanner) (*model.ReadAuthorization, error) {
	var (
		authorization      model.ReadAuthorization
		clientID           []byte
		encryptedAccessKey []byte
		publicKey          []byte
	)

	if err := scanner.Scan(&authorization.ID, &clientID, &authorization.ReadGrantKeyID,
		&encryptedAccessKey, &publicKey, &authorization.Sig); err != nil {
		return nil, err
	}

	authorization.ClientID = crypto.To32(clientID)
	authorization.EncryptedAccessKey = crypto.To64(encryptedAccessKey)
	authorization.PublicKey = crypto.To32(publicKey)
	return &authorization, nil
}

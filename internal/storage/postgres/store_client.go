package postgres

import (
	"context"

	cerr "github.com/cardinal-network/identity-vault/infrastructure/errors"
	"github.com/cardinal-network/identity-vault/internal/crypto"
	"github.com/cardinal-network/identity-vault/internal/model"
)

func (s *Store) CreateClient(ctx context.Context, client *model.Client) error {
	_, err := s.q.ExecContext(ctx, `
		INSERT INTO client (id, client_id, application_id, application_code, signature)
		VALUES ($1, $2, $3, $4, $5)
	`, client.ID, client.ClientID[:], client.ApplicationID, client.ApplicationCode, client.Sig)
	return insertError(err, "client")
}

func (s *Store) GetClientByPublicKey(ctx context.Context, applicationID string, clientID [crypto.KeySize]byte) (*model.Client, error) {
	row := s.q.QueryRowContext(ctx, `
		SELECT id, client_id, application_id, application_code, signature
		FROM client
		WHERE application_id = $1 AND client_id = $2
	`, applicationID, clientID[:])

	client, err := scanClient(row)
	if err != nil {
		return nil, mapError(err, "client")
	}
	return client, nil
}

func (s *Store) ListClients(ctx context.Context, applicationID string) ([]*model.Client, error) {
	rows, err := s.q.QueryContext(ctx, `
		SELECT id, client_id, application_id, application_code, signature
		FROM client
		WHERE application_id = $1
		ORDER BY id
	`, applicationID)
	if err != nil {
		return nil, mapError(err, "client")
	}
	defer rows.Close()

	var result []*model.Client
	for rows.Next() {
		client, err := scanClient(rows)
		if err != nil {
			return nil, mapError(err, "client")
		}
		result = append(result, client)
	}
	return result, mapError(rows.Err(), "client")
}

func (s *Store) DeleteClient(ctx context.Context, id string) error {
	result, err := s.q.ExecContext(ctx, `
		DELETE FROM client WHERE id = $1
	`, id)
	if err != nil {
		return mapError(err, "client")
	}
	if rows, _ := result.RowsAffected(); rows == 0 {
		return cerr.NotFound("client")
	}
	return nil
}

func scanClient(scanner rowScanner) (*model.Client, error) {
	var (
		client   model.Client
		clientID []byte
	)

	if err := scanner.Scan(&client.ID, &clientID, &client.ApplicationID,
		&client.ApplicationCode, &client.Sig); err != nil {
		return nil, err
	}

	client.ClientID = crypto.To32(clientID)
	return &client, nil
}

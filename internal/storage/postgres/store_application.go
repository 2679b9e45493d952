package postgres

import (
	"context"

	cerr "github.com/cardinal-network/identity-vault/infrastructure/errors"
	"github.com/cardinal-network/identity-vault/internal/model"
)

func (s *Store) CreateApplication(ctx context.Context, application *model.Application) error {
	_, err := s.q.ExecContext(ctx, `
		INSERT INTO application (id, account_id, code, description, server_url, signature)
		VALUES ($1, $2, $3, $4, $5, $6)
	`, application.ID, application.AccountID, application.Code, application.Description,
		application.ServerURL, application.Sig)
	return insertError(err, "application")
}

func (s *Store) GetApplicationByCode(ctx context.Context, accountID, code string) (*model.Application, error) {
	row := s.q.QueryRowContext(ctx, `
		SELECT id, account_id, code, description, server_url, signature
		FROM application
		WHERE account_id = $1 AND code = $2
	`, accountID, code)

	var application model.Application
	if err := row.Scan(&application.ID, &application.AccountID, &application.Code,
		&application.Description, &application.ServerURL, &application.Sig); err != nil {
		return nil, mapError(err, "application")
	}
	return &application, nil
}

func (s *Store) ListApplications(ctx context.Context, accountID string) ([]*model.Application, error) {
	rows, err := s.q.QueryContext(ctx, `
		SELECT id, account_id, code, description, server_url, signature
		FROM application
		WHERE $1 = '' OR account_id = $1
		ORDER BY code
	`, accountID)
	if err != nil {
		return nil, mapError(err, "application")
	}
	defer rows.Close()

	var result []*model.Application
	for rows.Next() {
		var application model.Application
		if err := rows.Scan(&application.ID, &application.AccountID, &application.Code,
			&application.Description, &application.ServerURL, &application.Sig); err != nil {
			return nil, mapError(err, "application")
		}
		result = append(result, &application)
	}
	return result, mapError(rows.Err(), "application")
}

func (s *Store) DeleteApplication(ctx context.Context, id string) error {
	result, err := s.q.ExecContext(ctx, `
		DELETE FROM application WHERE id = $1
	`, id)
	if err != nil {
		return mapError(err, "application")
	}
	if rows, _ := result.RowsAffected(); rows == 0 {
		return cerr.NotFound("application")
	}
	return nil
}

package postgres

import (
	"database/sql"
	"errors"

	"github.com/lib/pq"

	cerr "github.com/cardinal-network/identity-vault/infrastructure/errors"
)

// pq error code for unique_violation.
const uniqueViolation = "23505"

// mapError translates driver errors into the vault's error taxonomy.
func mapError(err error, resource string) error {
	if err == nil {
		return nil
	}

	if errors.Is(err, sql.ErrNoRows) {
		return cerr.NotFound(resource)
	}

	var pqErr *pq.Error
	if errors.As(err, &pqErr) && pqErr.Code == uniqueViolation {
		return cerr.Duplicate(resource)
	}

	return cerr.LibraryError("store "+resource, err)
}

// insertError is mapError plus the RecordNotSaved fallback for inserts that
// fail without a recognizable driver code.
func insertError(err error, resource string) error {
	if err == nil {
		return nil
	}

	mapped := mapError(err, resource)
	if cerr.IsKind(mapped, cerr.KindLibraryError) {
		return cerr.RecordNotSaved(resource, err)
	}
	return mapped
}

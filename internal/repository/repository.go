// internal/repository/repository.go
package repository

import (
	"errors"

	"github.com/dangerclosesec/clinicore/internal/domain"
	"github.com/jackc/pgx/v5/pgconn"
)

const (
	pgErrUniqueViolation     = "23505"
	pgErrForeignKeyViolation = "23503"
)

// storeError converts a driver error into a domain.StoreError, keeping the
// PostgreSQL code, detail and hint when the failure came from the server.
func storeError(op string, err error) error {
	if err == nil {
		return nil
	}

	var existing *domain.StoreError
	if errors.As(err, &existing) {
		return err
	}

	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return &domain.StoreError{
			Op:      op,
			Code:    pgErr.Code,
			Message: pgErr.Message,
			Details: pgErr.Detail,
			Hint:    pgErr.Hint,
			Err:     err,
		}
	}

	return &domain.StoreError{Op: op, Message: err.Error(), Err: err}
}

func isPgCode(err error, code string) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == code
}

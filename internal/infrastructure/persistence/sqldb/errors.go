package sqldb

import (
	stderrors "errors"

	"github.com/jackc/pgx/v5/pgconn"

	"github.com/turtacn/diabrisk/pkg/errors"
)

// mapDBError turns a driver error into a persistence error, keeping the
// PostgreSQL SQLSTATE when there is one.
func mapDBError(err error) error {
	if err == nil {
		return nil
	}
	if _, ok := errors.AsAppError(err); ok {
		return err
	}

	var pgErr *pgconn.PgError
	if stderrors.As(err, &pgErr) {
		msg := "database error"
		switch {
		case pgErr.Code == "40001" || pgErr.Code == "40P01":
			msg = "transaction conflict"
		case len(pgErr.Code) >= 2 && pgErr.Code[:2] == "08":
			msg = "database connection lost"
		case len(pgErr.Code) >= 2 && pgErr.Code[:2] == "53":
			msg = "database out of resources"
		case len(pgErr.Code) >= 2 && pgErr.Code[:2] == "42":
			msg = "database schema mismatch"
		}
		return errors.ErrPersistence(msg).WithCause(err).WithMetadata("sqlstate", pgErr.Code)
	}
	return errors.ErrPersistence("database error").WithCause(err)
}

package program

import (
	"errors"
	"strings"

	programerrors "staffdesk/internal/program/errors"

	"github.com/jackc/pgx/v5/pgconn"
)

func isDuplicateDateViolation(err error) bool {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code == "23505" && pgErr.ConstraintName == "uq_program_user_date"
	}

	errMsg := strings.ToLower(err.Error())
	return strings.Contains(errMsg, "duplicate key value") && strings.Contains(errMsg, "uq_program_user_date")
}

func mapRepositoryError(err error) error {
	if err == nil {
		return nil
	}
	if isDuplicateDateViolation(err) {
		return programerrors.ErrDuplicateEntry
	}
	return err
}

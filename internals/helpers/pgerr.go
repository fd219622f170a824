// file: internals/helpers/pgerr.go
package helper

import (
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/lib/pq"

	"kantorku_backend/internals/apperr"
)

// --- PG error mapping (pgx & lib/pq) ---

func pgSQLState(err error) string {
	var pgxErr *pgconn.PgError
	if errors.As(err, &pgxErr) {
		return pgxErr.Code
	}
	var pqErr *pq.Error
	if errors.As(err, &pqErr) {
		return string(pqErr.Code)
	}
	return ""
}

// IsUniqueViolation: SQLSTATE 23505.
func IsUniqueViolation(err error) bool {
	return pgSQLState(err) == "23505"
}

// IsForeignKeyViolation: SQLSTATE 23503.
func IsForeignKeyViolation(err error) bool {
	return pgSQLState(err) == "23503"
}

// TranslateDBError membungkus error driver ke sentinel apperr supaya layer
// atas tidak perlu tahu SQLSTATE.
func TranslateDBError(err error) error {
	if err == nil {
		return nil
	}
	switch pgSQLState(err) {
	case "23505":
		return fmt.Errorf("%w: %v", apperr.ErrDuplicate, err)
	case "23503":
		return fmt.Errorf("%w: %v", apperr.ErrConflict, err)
	}
	return err
}

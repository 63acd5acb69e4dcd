package postgres

import (
	"errors"

	"github.com/jackc/pgx/v5/pgconn"
)

func pgCode(err error) string {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code
	}
	return ""
}

// isUniqueViolation verifica si un error es una violación de constraint único (23505).
func isUniqueViolation(err error) bool { return pgCode(err) == "23505" }

// isForeignKeyViolation el registro está referenciado o referencia uno inexistente (23503).
func isForeignKeyViolation(err error) bool { return pgCode(err) == "23503" }

// isInvalidText un id que no es UUID válido (22P02).
func isInvalidText(err error) bool { return pgCode(err) == "22P02" }

package postgres

import (
	"errors"

	"github.com/jackc/pgx/v5/pgconn"
)

// uniqueViolation devuelve el nombre del constraint violado cuando err es una
// violación de unicidad (23505), o cadena vacía en caso contrario. El nombre
// permite a los repositorios distinguir qué campo chocó (username vs email).
func uniqueViolation(err error) string {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == "23505" {
		return pgErr.ConstraintName
	}
	return ""
}

package postgres

import (
	"errors"

	"github.com/jackc/pgx/v5/pgconn"
)

// uniqueViolation devuelve el nombre del constraint si el error es una
// violación de índice único (23505). El constraint identifica qué unicidad
// se violó (products_sku_key vs categories_name_key).
func uniqueViolation(err error) (string, bool) {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == "23505" {
		return pgErr.ConstraintName, true
	}
	return "", false
}

// isForeignKeyViolation verifica si un error es una violación de clave
// foránea (23503): categoría referenciada inexistente al escribir un producto,
// o categoría con productos al intentar borrarla (RESTRICT).
func isForeignKeyViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == "23503"
}

// isCheckViolation verifica si un error es una violación de CHECK (23514):
// el ajuste relativo de existencias intentó dejar quantity por debajo de cero.
func isCheckViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == "23514"
}

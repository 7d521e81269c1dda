package apperr

import (
	"database/sql"
	"errors"

	"github.com/golang-jwt/jwt/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

// Код PostgreSQL для нарушения уникального ограничения.
const pgUniqueViolation = "23505"

// FromStorage транслирует ошибку слоя хранилища в тегированную.
// sql.ErrNoRows превращается в NotFound с переданным сообщением,
// нарушение уникальности — в Conflict.
func FromStorage(err error, notFoundMsg string) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, sql.ErrNoRows) {
		return Wrap(NotFound, notFoundMsg, err)
	}
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == pgUniqueViolation {
		return Wrap(Conflict, "duplicate value for unique field", err)
	}
	return err
}

// FromToken транслирует ошибку разбора JWT в Unauthorized.
func FromToken(err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, jwt.ErrTokenExpired) {
		return Wrap(Unauthorized, "token expired", err)
	}
	return Wrap(Unauthorized, "invalid token", err)
}

package apperr

import (
	"errors"
	"strings"

	"github.com/jackc/pgx/v5/pgconn"
)

// Map well-known constraint names to fields (extend as you add constraints)
var constraintField = map[string]string{
	"users_email_key":      "email",
	"users_username_key":   "username",
	"books_cover_pair_chk": "cover_image",
	"books_pdf_pair_chk":   "pdf_file",
}

var uniqueMessage = map[string]string{
	"email":    "user with this email already exists.",
	"username": "A user with that username already exists.",
}

// Guess a field from a column name present in PG error detail
func fieldFromDetail(detail string) string {
	for _, k := range []string{"email", "username", "title", "author", "genre", "description"} {
		if strings.Contains(detail, "("+k+")") {
			return k
		}
	}
	return ""
}

// FromPG maps a *pgconn.PgError to a validation error. Returns (err, true) if mapped.
// Serialization failures and everything unknown stay internal.
func FromPG(err error) (error, bool) {
	var pg *pgconn.PgError
	if !errors.As(err, &pg) {
		return nil, false
	}

	field := constraintField[pg.ConstraintName]
	if field == "" && pg.Detail != "" {
		field = fieldFromDetail(pg.Detail)
	}

	switch pg.Code {
	case "23505": // unique_violation
		msg := uniqueMessage[field]
		if msg == "" {
			msg = "value already exists"
			if field != "" {
				msg = field + " already exists"
			}
		}
		return Wrap(ErrValidation, msg, err), true
	case "23502": // not_null_violation
		if field == "" {
			field = pg.ColumnName
		}
		if field == "" {
			field = "field"
		}
		return Wrap(ErrValidation, field+" is required", err), true
	case "23514": // check_violation
		if field == "" {
			field = "field"
		}
		return Wrap(ErrValidation, field+" failed a constraint", err), true
	case "22001": // string_data_right_truncation
		return Wrap(ErrValidation, "value is too long", err), true
	}
	return nil, false
}

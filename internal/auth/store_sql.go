package auth

import (
	"context"
	"database/sql"
	"errors"

	"github.com/5w1tchy/novelia-api/internal/apperr"
	"github.com/5w1tchy/novelia-api/internal/models"
	"github.com/5w1tchy/novelia-api/internal/store/dbx"
)

const userColumns = `id, email, username, first_name, last_name, phone_number, state, city,
	password_hash, is_staff, is_superuser, date_joined, created_at, updated_at`

type SQLStore struct {
	DB *sql.DB
}

func NewSQLStore(db *sql.DB) *SQLStore { return &SQLStore{DB: db} }

func scanUser(row interface{ Scan(...any) error }) (models.User, error) {
	var u models.User
	err := row.Scan(
		&u.ID, &u.Email, &u.Username, &u.FirstName, &u.LastName, &u.PhoneNumber, &u.State, &u.City,
		&u.PasswordHash, &u.IsStaff, &u.IsSuperuser, &u.DateJoined, &u.CreatedAt, &u.UpdatedAt,
	)
	return u, err
}

func mapErr(err error) error {
	if errors.Is(err, sql.ErrNoRows) {
		return ErrUserNotFound
	}
	if mapped, ok := apperr.FromPG(err); ok {
		return mapped
	}
	return err
}

func (s *SQLStore) CreateUser(ctx context.Context, nu NewUser) (models.User, error) {
	const q = `
		INSERT INTO users (email, username, first_name, last_name, phone_number, state, city,
		                   password_hash, is_staff, is_superuser)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
		RETURNING ` + userColumns
	u, err := scanUser(dbx.Get(ctx, s.DB, q,
		nu.Email, nu.Username, nu.FirstName, nu.LastName, nu.PhoneNumber, nu.State, nu.City,
		nu.PasswordHash, nu.IsStaff, nu.IsSuperuser,
	))
	if err != nil {
		return models.User{}, mapErr(err)
	}
	return u, nil
}

func (s *SQLStore) FindUserByEmail(ctx context.Context, email string) (models.User, error) {
	const q = `SELECT ` + userColumns + ` FROM users WHERE email = $1 LIMIT 1`
	u, err := scanUser(dbx.Get(ctx, s.DB, q, email))
	if err != nil {
		return models.User{}, mapErr(err)
	}
	return u, nil
}

func (s *SQLStore) FindUserByID(ctx context.Context, id int64) (models.User, error) {
	const q = `SELECT ` + userColumns + ` FROM users WHERE id = $1`
	u, err := scanUser(dbx.Get(ctx, s.DB, q, id))
	if err != nil {
		return models.User{}, mapErr(err)
	}
	return u, nil
}

func (s *SQLStore) UpdateUserPasswordHash(ctx context.Context, id int64, hash string) error {
	const q = `UPDATE users SET password_hash = $1, updated_at = now() WHERE id = $2`
	res, err := dbx.Exec(ctx, s.DB, q, hash, id)
	if err != nil {
		return mapErr(err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrUserNotFound
	}
	return nil
}

func (s *SQLStore) ListUsers(ctx context.Context) ([]models.User, error) {
	const q = `SELECT ` + userColumns + ` FROM users ORDER BY created_at DESC, id DESC`
	rows, err := dbx.Query(ctx, s.DB, q)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]models.User, 0, 16)
	for rows.Next() {
		u, err := scanUser(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, u)
	}
	return out, rows.Err()
}

// UpsertAdmin locks the row for email (if any) and either promotes it or inserts a new one.
func (s *SQLStore) UpsertAdmin(ctx context.Context, nu NewUser) (models.User, error) {
	var out models.User
	err := dbx.WithinTx(ctx, s.DB, func(tx *sql.Tx) error {
		var id int64
		err := dbx.Get(ctx, tx, `SELECT id FROM users WHERE email = $1 FOR UPDATE`, nu.Email).Scan(&id)
		switch {
		case errors.Is(err, sql.ErrNoRows):
			const q = `
				INSERT INTO users (email, username, first_name, last_name, password_hash, is_staff, is_superuser)
				VALUES ($1, $2, $3, $4, $5, TRUE, TRUE)
				RETURNING ` + userColumns
			out, err = scanUser(dbx.Get(ctx, tx, q, nu.Email, nu.Username, nu.FirstName, nu.LastName, nu.PasswordHash))
			return err
		case err != nil:
			return err
		}
		const q = `
			UPDATE users
			   SET password_hash = $1, is_staff = TRUE, is_superuser = TRUE, updated_at = now()
			 WHERE id = $2
			RETURNING ` + userColumns
		out, err = scanUser(dbx.Get(ctx, tx, q, nu.PasswordHash, id))
		return err
	})
	if err != nil {
		return models.User{}, mapErr(err)
	}
	return out, nil
}

package books

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/5w1tchy/novelia-api/internal/apperr"
	"github.com/5w1tchy/novelia-api/internal/models"
	"github.com/5w1tchy/novelia-api/internal/store/dbx"
)

// SQLStore keeps books in Postgres.
type SQLStore struct{ db *sql.DB }

func NewSQL(db *sql.DB) *SQLStore { return &SQLStore{db: db} }

const bookColumns = `id, title, author, genre, description,
	cover_image, cover_image_public_id, pdf_file, pdf_file_public_id,
	created_at, updated_at`

var errBookNotFound = apperr.NotFound("Book not found")

// ---------- helpers ----------

// likeEscaper makes user input match literally inside a LIKE pattern.
var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

func buildListQuery(f models.BookFilter) (where string, args []any) {
	clauses := make([]string, 0, 2)
	if s := f.Search; s != "" {
		args = append(args, "%"+likeEscaper.Replace(s)+"%")
		n := len(args)
		clauses = append(clauses, fmt.Sprintf("(title ILIKE $%d OR author ILIKE $%d OR genre ILIKE $%d)", n, n, n))
	}
	if g := f.Genre; g != "" {
		args = append(args, g)
		clauses = append(clauses, fmt.Sprintf("lower(genre) = lower($%d)", len(args)))
	}
	if len(clauses) == 0 {
		return "", args
	}
	return "WHERE " + strings.Join(clauses, " AND "), args
}

type scanner interface{ Scan(dest ...any) error }

func scanBook(row scanner) (models.Book, error) {
	var (
		b                 models.Book
		coverURL, coverID sql.NullString
		pdfURL, pdfID     sql.NullString
	)
	if err := row.Scan(&b.ID, &b.Title, &b.Author, &b.Genre, &b.Description,
		&coverURL, &coverID, &pdfURL, &pdfID, &b.CreatedAt, &b.UpdatedAt); err != nil {
		return models.Book{}, err
	}
	b.Cover = models.AssetFromColumns(nullable(coverURL), nullable(coverID))
	b.PDF = models.AssetFromColumns(nullable(pdfURL), nullable(pdfID))
	return b, nil
}

func nullable(ns sql.NullString) *string {
	if !ns.Valid {
		return nil
	}
	return &ns.String
}

func mapErr(err error) error {
	if errors.Is(err, sql.ErrNoRows) {
		return errBookNotFound
	}
	if mapped, ok := apperr.FromPG(err); ok {
		return mapped
	}
	return err
}

// ---------- queries ----------

func (s *SQLStore) List(ctx context.Context, f models.BookFilter) ([]models.Book, error) {
	where, args := buildListQuery(f)
	q := "SELECT " + bookColumns + " FROM books " + where + " ORDER BY title ASC, id ASC"

	rows, err := dbx.Query(ctx, s.db, q, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []models.Book{}
	for rows.Next() {
		b, err := scanBook(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, b)
	}
	return out, rows.Err()
}

func (s *SQLStore) Get(ctx context.Context, id int64) (models.Book, error) {
	b, err := scanBook(dbx.Get(ctx, s.db, "SELECT "+bookColumns+" FROM books WHERE id = $1", id))
	if err != nil {
		return models.Book{}, mapErr(err)
	}
	return b, nil
}

func (s *SQLStore) Insert(ctx context.Context, b *models.Book) error {
	coverURL, coverID := b.Cover.Columns()
	pdfURL, pdfID := b.PDF.Columns()
	row := dbx.Get(ctx, s.db, `
		INSERT INTO books (title, author, genre, description,
			cover_image, cover_image_public_id, pdf_file, pdf_file_public_id)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		RETURNING `+bookColumns,
		b.Title, b.Author, b.Genre, b.Description, coverURL, coverID, pdfURL, pdfID)
	saved, err := scanBook(row)
	if err != nil {
		return mapErr(err)
	}
	*b = saved
	return nil
}

func (s *SQLStore) Update(ctx context.Context, b *models.Book) error {
	coverURL, coverID := b.Cover.Columns()
	pdfURL, pdfID := b.PDF.Columns()
	row := dbx.Get(ctx, s.db, `
		UPDATE books SET
			title = $2, author = $3, genre = $4, description = $5,
			cover_image = $6, cover_image_public_id = $7, pdf_file = $8, pdf_file_public_id = $9,
			updated_at = now()
		WHERE id = $1
		RETURNING `+bookColumns,
		b.ID, b.Title, b.Author, b.Genre, b.Description, coverURL, coverID, pdfURL, pdfID)
	saved, err := scanBook(row)
	if err != nil {
		return mapErr(err)
	}
	*b = saved
	return nil
}

func (s *SQLStore) Delete(ctx context.Context, id int64) (models.Book, error) {
	b, err := scanBook(dbx.Get(ctx, s.db, "DELETE FROM books WHERE id = $1 RETURNING "+bookColumns, id))
	if err != nil {
		return models.Book{}, mapErr(err)
	}
	return b, nil
}

package books_test

import (
	"database/sql/driver"
	"errors"
	"regexp"
	"testing"
	"time"

	"github.com/5w1tchy/novelia-api/internal/apperr"
	"github.com/5w1tchy/novelia-api/internal/models"
	"github.com/5w1tchy/novelia-api/internal/store/books"
	"github.com/DATA-DOG/go-sqlmock"
	"github.com/jackc/pgx/v5/pgconn"
)

var columns = []string{
	"id", "title", "author", "genre", "description",
	"cover_image", "cover_image_public_id", "pdf_file", "pdf_file_public_id",
	"created_at", "updated_at",
}

func bookRow(rows *sqlmock.Rows, id int64, title string, cover, pdf bool) *sqlmock.Rows {
	ts := time.Date(2025, 1, 2, 3, 4, 5, 0, time.UTC)
	var cu, ci, pu, pi driver.Value
	if cover {
		cu, ci = "https://cdn.example.com/books/covers/c.jpg", "books/covers/c.jpg"
	}
	if pdf {
		pu, pi = "https://cdn.example.com/books/pdfs/p.pdf", "books/pdfs/p.pdf"
	}
	return rows.AddRow(id, title, "Chinua Achebe", "Fiction", "desc", cu, ci, pu, pi, ts, ts)
}

func TestList_SearchAndGenre(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatal(err)
	}
	defer db.Close()

	mock.ExpectQuery(regexp.QuoteMeta(
		`FROM books WHERE (title ILIKE $1 OR author ILIKE $1 OR genre ILIKE $1) AND lower(genre) = lower($2) ORDER BY title ASC, id ASC`,
	)).
		WithArgs(`%50\%\_off%`, "Fiction").
		WillReturnRows(bookRow(sqlmock.NewRows(columns), 1, "Arrow of God", true, false))

	got, err := books.NewSQL(db).List(t.Context(), models.BookFilter{Search: "50%_off", Genre: "Fiction"})
	if err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	if len(got) != 1 || got[0].Cover == nil || got[0].PDF != nil {
		t.Fatalf("unexpected books: %+v", got)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatal(err)
	}
}

func TestList_NoFilter(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatal(err)
	}
	defer db.Close()

	mock.ExpectQuery(regexp.QuoteMeta(`FROM books  ORDER BY title ASC`)).
		WithoutArgs().
		WillReturnRows(sqlmock.NewRows(columns))

	got, err := books.NewSQL(db).List(t.Context(), models.BookFilter{})
	if err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	if got == nil || len(got) != 0 {
		t.Fatalf("want empty non-nil slice, got %#v", got)
	}
}

func TestGet_NotFound(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatal(err)
	}
	defer db.Close()

	mock.ExpectQuery(regexp.QuoteMeta(`FROM books WHERE id = $1`)).
		WithArgs(int64(9)).
		WillReturnRows(sqlmock.NewRows(columns))

	_, err = books.NewSQL(db).Get(t.Context(), 9)
	if !errors.Is(err, apperr.ErrNotFound) {
		t.Fatalf("want not found, got %v", err)
	}
}

func TestInsert_ReturnsServerFields(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatal(err)
	}
	defer db.Close()

	b := models.Book{
		Title: "Arrow of God", Author: "Chinua Achebe", Genre: "Fiction", Description: "desc",
		PDF: &models.Asset{URL: "https://cdn.example.com/books/pdfs/p.pdf", PublicID: "books/pdfs/p.pdf"},
	}
	mock.ExpectQuery(regexp.QuoteMeta(`INSERT INTO books`)).
		WithArgs("Arrow of God", "Chinua Achebe", "Fiction", "desc", nil, nil,
			"https://cdn.example.com/books/pdfs/p.pdf", "books/pdfs/p.pdf").
		WillReturnRows(bookRow(sqlmock.NewRows(columns), 42, "Arrow of God", false, true))

	if err := books.NewSQL(db).Insert(t.Context(), &b); err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	if b.ID != 42 || b.CreatedAt.IsZero() || b.PDF == nil {
		t.Fatalf("server fields not applied: %+v", b)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatal(err)
	}
}

func TestInsert_CheckViolationIsValidation(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatal(err)
	}
	defer db.Close()

	mock.ExpectQuery(regexp.QuoteMeta(`INSERT INTO books`)).
		WillReturnError(&pgconn.PgError{Code: "23514", ConstraintName: "books_cover_pair_chk"})

	err = books.NewSQL(db).Insert(t.Context(), &models.Book{Title: "x"})
	if !errors.Is(err, apperr.ErrValidation) {
		t.Fatalf("want validation error, got %v", err)
	}
}

func TestUpdate_ClearsNothingItWasNotTold(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatal(err)
	}
	defer db.Close()

	b := models.Book{
		ID: 3, Title: "New", Author: "Chinua Achebe", Genre: "Fiction", Description: "desc",
		Cover: &models.Asset{URL: "https://cdn.example.com/books/covers/c.jpg", PublicID: "books/covers/c.jpg"},
	}
	mock.ExpectQuery(regexp.QuoteMeta(`UPDATE books SET`)).
		WithArgs(int64(3), "New", "Chinua Achebe", "Fiction", "desc",
			"https://cdn.example.com/books/covers/c.jpg", "books/covers/c.jpg", nil, nil).
		WillReturnRows(bookRow(sqlmock.NewRows(columns), 3, "New", true, false))

	if err := books.NewSQL(db).Update(t.Context(), &b); err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatal(err)
	}
}

func TestDelete_ReturnsRemovedRow(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatal(err)
	}
	defer db.Close()

	mock.ExpectQuery(regexp.QuoteMeta(`DELETE FROM books WHERE id = $1 RETURNING`)).
		WithArgs(int64(5)).
		WillReturnRows(bookRow(sqlmock.NewRows(columns), 5, "Gone", true, true))

	b, err := books.NewSQL(db).Delete(t.Context(), 5)
	if err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	if b.Cover == nil || b.PDF == nil {
		t.Fatalf("assets missing on deleted row: %+v", b)
	}

	mock.ExpectQuery(regexp.QuoteMeta(`DELETE FROM books`)).
		WithArgs(int64(6)).
		WillReturnRows(sqlmock.NewRows(columns))
	if _, err := books.NewSQL(db).Delete(t.Context(), 6); !errors.Is(err, apperr.ErrNotFound) {
		t.Fatalf("want not found, got %v", err)
	}
}

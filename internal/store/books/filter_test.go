package books_test

import (
	"regexp"
	"testing"

	"github.com/5w1tchy/novelia-api/internal/models"
	"github.com/5w1tchy/novelia-api/internal/store/books"
	"github.com/DATA-DOG/go-sqlmock"
)

// Both drivers take filter values verbatim; surrounding whitespace is part of the value.
func TestFilterWhitespace_SameOnBothStores(t *testing.T) {
	cases := []struct {
		name   string
		filter models.BookFilter
		query  string
		arg    string
		inMem  []string
	}{
		{
			name:   "padded genre is not trimmed",
			filter: models.BookFilter{Genre: " Fiction "},
			query:  `FROM books WHERE lower(genre) = lower($1)`,
			arg:    " Fiction ",
			inMem:  nil,
		},
		{
			name:   "blank search is a literal space",
			filter: models.BookFilter{Search: " "},
			query:  `FROM books WHERE (title ILIKE $1 OR author ILIKE $1 OR genre ILIKE $1)`,
			arg:    "% %",
			inMem:  []string{"Arrow of God"},
		},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			m := books.NewMemory()
			for _, b := range []models.Book{
				{Title: "Arrow of God", Author: "Achebe", Genre: "Fiction", Description: "d"},
				{Title: "Idanre", Author: "Soyinka", Genre: "Poetry", Description: "d"},
			} {
				if err := m.Insert(t.Context(), &b); err != nil {
					t.Fatal(err)
				}
			}
			got, err := m.List(t.Context(), c.filter)
			if err != nil {
				t.Fatal(err)
			}
			var titles []string
			for _, b := range got {
				titles = append(titles, b.Title)
			}
			if len(titles) != len(c.inMem) || (len(titles) > 0 && titles[0] != c.inMem[0]) {
				t.Fatalf("memory: got %v, want %v", titles, c.inMem)
			}

			db, mock, err := sqlmock.New()
			if err != nil {
				t.Fatal(err)
			}
			defer db.Close()
			mock.ExpectQuery(regexp.QuoteMeta(c.query)).
				WithArgs(c.arg).
				WillReturnRows(sqlmock.NewRows(columns))
			if _, err := books.NewSQL(db).List(t.Context(), c.filter); err != nil {
				t.Fatalf("sql: %v", err)
			}
			if err := mock.ExpectationsWereMet(); err != nil {
				t.Fatal(err)
			}
		})
	}
}

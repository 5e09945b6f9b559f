// Package books serves the book catalog over HTTP.
package books

import (
	"context"
	"fmt"
	"net/http"
	"strconv"

	"github.com/5w1tchy/novelia-api/internal/api/httpx"
	"github.com/5w1tchy/novelia-api/internal/apperr"
	"github.com/5w1tchy/novelia-api/internal/catalog"
	"github.com/5w1tchy/novelia-api/internal/media"
	"github.com/5w1tchy/novelia-api/internal/models"
)

// Service is implemented by *catalog.Service.
type Service interface {
	List(ctx context.Context, f models.BookFilter) (catalog.ListResult, error)
	Get(ctx context.Context, id int64) (models.Book, error)
	Create(ctx context.Context, f catalog.Fields, cover, pdf *media.Upload) (models.Book, error)
	Update(ctx context.Context, id int64, p catalog.Patch, cover, pdf *media.Upload) (models.Book, error)
	Delete(ctx context.Context, id int64) (models.Book, error)
	RequestDownload(ctx context.Context, id int64) (catalog.Download, error)
}

type Handler struct {
	svc Service
}

func New(svc Service) *Handler { return &Handler{svc: svc} }

type bookMessage struct {
	Message string      `json:"message"`
	Book    models.Book `json:"book"`
}

var errBookNotFound = apperr.NotFound("Book not found")

// bookID reads {id}. Anything that is not a positive integer cannot name a book.
func bookID(r *http.Request) (int64, error) {
	id, err := strconv.ParseInt(r.PathValue("id"), 10, 64)
	if err != nil || id <= 0 {
		return 0, errBookNotFound
	}
	return id, nil
}

func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	res, err := h.svc.List(r.Context(), models.BookFilter{Search: q.Get("search"), Genre: q.Get("genre")})
	if err != nil {
		httpx.WriteError(w, r, err)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, res)
}

func (h *Handler) Get(w http.ResponseWriter, r *http.Request) {
	id, err := bookID(r)
	if err != nil {
		httpx.WriteError(w, r, err)
		return
	}
	b, err := h.svc.Get(r.Context(), id)
	if err != nil {
		httpx.WriteError(w, r, err)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, b)
}

func (h *Handler) Create(w http.ResponseWriter, r *http.Request) {
	var f catalog.Fields
	form, err := readBookForm(r, func(v formValues) { f = v.fields() }, &f)
	if err != nil {
		httpx.WriteError(w, r, err)
		return
	}
	defer form.Close()

	b, err := h.svc.Create(r.Context(), f, form.cover, form.pdf)
	if err != nil {
		httpx.WriteError(w, r, err)
		return
	}
	httpx.WriteJSON(w, http.StatusCreated, bookMessage{Message: "Book created successfully", Book: b})
}

func (h *Handler) Update(w http.ResponseWriter, r *http.Request) {
	id, err := bookID(r)
	if err != nil {
		httpx.WriteError(w, r, err)
		return
	}
	var p catalog.Patch
	form, err := readBookForm(r, func(v formValues) { p = v.patch() }, &p)
	if err != nil {
		httpx.WriteError(w, r, err)
		return
	}
	defer form.Close()

	b, err := h.svc.Update(r.Context(), id, p, form.cover, form.pdf)
	if err != nil {
		httpx.WriteError(w, r, err)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, bookMessage{Message: "Book updated successfully", Book: b})
}

func (h *Handler) Delete(w http.ResponseWriter, r *http.Request) {
	id, err := bookID(r)
	if err != nil {
		httpx.WriteError(w, r, err)
		return
	}
	b, err := h.svc.Delete(r.Context(), id)
	if err != nil {
		httpx.WriteError(w, r, err)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, bookMessage{
		Message: fmt.Sprintf("Book %q deleted successfully", b.Title),
		Book:    b,
	})
}

func (h *Handler) Download(w http.ResponseWriter, r *http.Request) {
	id, err := bookID(r)
	if err != nil {
		httpx.WriteError(w, r, err)
		return
	}
	d, err := h.svc.RequestDownload(r.Context(), id)
	if err != nil {
		httpx.WriteError(w, r, err)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, d)
}

// Package catalog owns the book lifecycle: validation, asset upload and rollback,
// persistence and signed downloads.
package catalog

import (
	"context"
	"time"

	"github.com/5w1tchy/novelia-api/internal/media"
	"github.com/5w1tchy/novelia-api/internal/models"
)

// Repository persists books. Get, Update and Delete return an apperr.ErrNotFound error
// for unknown ids.
type Repository interface {
	List(ctx context.Context, f models.BookFilter) ([]models.Book, error)
	Get(ctx context.Context, id int64) (models.Book, error)
	Insert(ctx context.Context, b *models.Book) error
	Update(ctx context.Context, b *models.Book) error
	Delete(ctx context.Context, id int64) (models.Book, error)
}

// MediaStore is the subset of *media.Client the catalog needs.
type MediaStore interface {
	UploadImage(ctx context.Context, up media.Upload) (models.Asset, error)
	UploadDocument(ctx context.Context, up media.Upload) (models.Asset, error)
	DeleteAsset(ctx context.Context, publicID string, kind media.Kind) media.DeleteResult
	SignedDownloadURL(ctx context.Context, publicID string, kind media.Kind, ttl time.Duration, filename string) (string, error)
}

// Fields are the text fields of a new book.
type Fields struct {
	Title       string `json:"title"`
	Author      string `json:"author"`
	Genre       string `json:"genre"`
	Description string `json:"description"`
}

// Patch holds a partial update; nil fields are left alone.
type Patch struct {
	Title       *string `json:"title"`
	Author      *string `json:"author"`
	Genre       *string `json:"genre"`
	Description *string `json:"description"`
}

type ListResult struct {
	Count int           `json:"count"`
	Books []models.Book `json:"books"`
}

type Download struct {
	URL      string `json:"download_url"`
	Filename string `json:"filename"`
}

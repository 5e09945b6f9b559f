package catalog

import (
	"context"
	"log/slog"
	"time"

	"github.com/5w1tchy/novelia-api/internal/apperr"
	"github.com/5w1tchy/novelia-api/internal/media"
	"github.com/5w1tchy/novelia-api/internal/models"
)

const defaultDownloadTTL = time.Hour

type Service struct {
	repo        Repository
	media       MediaStore
	assets      *AssetManager
	downloadTTL time.Duration
	log         *slog.Logger
}

func NewService(repo Repository, ms MediaStore, downloadTTL time.Duration, log *slog.Logger) *Service {
	if log == nil {
		log = slog.Default()
	}
	if downloadTTL <= 0 {
		downloadTTL = defaultDownloadTTL
	}
	log = log.With("component", "catalog")
	return &Service{
		repo:        repo,
		media:       ms,
		assets:      NewAssetManager(repo, ms, log),
		downloadTTL: downloadTTL,
		log:         log,
	}
}

// List returns every book matching f, ordered by title.
func (s *Service) List(ctx context.Context, f models.BookFilter) (ListResult, error) {
	books, err := s.repo.List(ctx, f)
	if err != nil {
		return ListResult{}, err
	}
	if books == nil {
		books = []models.Book{}
	}
	return ListResult{Count: len(books), Books: books}, nil
}

func (s *Service) Get(ctx context.Context, id int64) (models.Book, error) {
	return s.repo.Get(ctx, id)
}

func (s *Service) Create(ctx context.Context, f Fields, cover, pdf *media.Upload) (models.Book, error) {
	b, err := s.assets.CreateWithAssets(ctx, f, cover, pdf)
	if err != nil {
		return models.Book{}, err
	}
	s.log.Info("book created", "book_id", b.ID, "cover", b.Cover != nil, "pdf", b.PDF != nil)
	return b, nil
}

func (s *Service) Update(ctx context.Context, id int64, p Patch, cover, pdf *media.Upload) (models.Book, error) {
	b, err := s.repo.Get(ctx, id)
	if err != nil {
		return models.Book{}, err
	}
	if err := s.assets.UpdateWithAssets(ctx, &b, p, cover, pdf); err != nil {
		return models.Book{}, err
	}
	s.log.Info("book updated", "book_id", b.ID, "new_cover", cover != nil, "new_pdf", pdf != nil)
	return b, nil
}

// Delete removes the book, then its remote assets. Asset failures are only logged.
func (s *Service) Delete(ctx context.Context, id int64) (models.Book, error) {
	b, err := s.repo.Delete(ctx, id)
	if err != nil {
		return models.Book{}, err
	}
	s.assets.discard(ctx, b.Cover, media.KindImage, "book deleted")
	s.assets.discard(ctx, b.PDF, media.KindDocument, "book deleted")
	s.log.Info("book deleted", "book_id", b.ID)
	return b, nil
}

// RequestDownload signs a short-lived link to the book's PDF.
func (s *Service) RequestDownload(ctx context.Context, id int64) (Download, error) {
	b, err := s.repo.Get(ctx, id)
	if err != nil {
		return Download{}, err
	}
	if b.PDF == nil {
		return Download{}, apperr.New(apperr.ErrNoAsset, "PDF file not available for this book")
	}
	filename := b.Title + ".pdf"
	url, err := s.media.SignedDownloadURL(ctx, b.PDF.PublicID, media.KindDocument, s.downloadTTL, filename)
	if err != nil {
		return Download{}, err
	}
	return Download{URL: url, Filename: filename}, nil
}

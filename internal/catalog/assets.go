package catalog

import (
	"context"
	"log/slog"

	"github.com/5w1tchy/novelia-api/internal/apperr"
	"github.com/5w1tchy/novelia-api/internal/media"
	"github.com/5w1tchy/novelia-api/internal/models"
)

// AssetManager runs the upload steps of create and update strictly in order:
// cover, then pdf, then persist. A failed step undoes the uploads made before it.
type AssetManager struct {
	repo  Repository
	media MediaStore
	log   *slog.Logger
}

func NewAssetManager(repo Repository, ms MediaStore, log *slog.Logger) *AssetManager {
	if log == nil {
		log = slog.Default()
	}
	return &AssetManager{repo: repo, media: ms, log: log}
}

// CreateWithAssets validates f, uploads the optional files and inserts the book.
// Nothing is persisted unless every requested upload succeeded.
func (m *AssetManager) CreateWithAssets(ctx context.Context, f Fields, cover, pdf *media.Upload) (models.Book, error) {
	f, err := f.validated()
	if err != nil {
		return models.Book{}, err
	}
	b := models.Book{Title: f.Title, Author: f.Author, Genre: f.Genre, Description: f.Description}

	if cover != nil {
		a, err := m.media.UploadImage(ctx, *cover)
		if err != nil {
			return models.Book{}, m.uploadFailed("Image upload failed", err)
		}
		b.Cover = &a
	}

	if pdf != nil {
		a, err := m.media.UploadDocument(ctx, *pdf)
		if err != nil {
			m.discard(ctx, b.Cover, media.KindImage, "pdf upload failed")
			return models.Book{}, m.uploadFailed("PDF upload failed", err)
		}
		b.PDF = &a
	}

	if err := m.repo.Insert(ctx, &b); err != nil {
		m.discard(ctx, b.Cover, media.KindImage, "book insert failed")
		m.discard(ctx, b.PDF, media.KindDocument, "book insert failed")
		return models.Book{}, err
	}
	return b, nil
}

// UpdateWithAssets patches b in place and replaces any asset given a new file.
// The previous asset is deleted before its replacement is uploaded; if the upload then
// fails the book keeps pointing at the deleted asset and the text patch is dropped.
func (m *AssetManager) UpdateWithAssets(ctx context.Context, b *models.Book, p Patch, cover, pdf *media.Upload) error {
	if err := p.applyTo(b); err != nil {
		return err
	}

	type upload struct {
		asset *models.Asset
		kind  media.Kind
	}
	var uploaded []upload
	undo := func(reason string) {
		for _, u := range uploaded {
			m.discard(ctx, u.asset, u.kind, reason)
		}
	}

	if cover != nil {
		m.discard(ctx, b.Cover, media.KindImage, "cover replaced")
		a, err := m.media.UploadImage(ctx, *cover)
		if err != nil {
			return m.uploadFailed("Image upload failed", err)
		}
		b.Cover = &a
		uploaded = append(uploaded, upload{b.Cover, media.KindImage})
	}

	if pdf != nil {
		m.discard(ctx, b.PDF, media.KindDocument, "pdf replaced")
		a, err := m.media.UploadDocument(ctx, *pdf)
		if err != nil {
			undo("pdf upload failed")
			return m.uploadFailed("PDF upload failed", err)
		}
		b.PDF = &a
		uploaded = append(uploaded, upload{b.PDF, media.KindDocument})
	}

	if err := m.repo.Update(ctx, b); err != nil {
		undo("book update failed")
		return err
	}
	return nil
}

func (m *AssetManager) uploadFailed(msg string, err error) error {
	m.log.Warn("asset upload failed", "err", err)
	return apperr.Wrap(apperr.ErrAssetUpload, msg, err)
}

// discard deletes a if present. Failures are logged, never returned.
func (m *AssetManager) discard(ctx context.Context, a *models.Asset, kind media.Kind, reason string) {
	if a == nil {
		return
	}
	m.media.DeleteAsset(ctx, a.PublicID, kind).Log(m.log, reason)
}

package media

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/5w1tchy/novelia-api/internal/models"
	"github.com/gabriel-vasile/mimetype"
)

const pdfContentType = "application/pdf"

// UploadImage validates, shrinks and stores a cover image.
func (c *Client) UploadImage(ctx context.Context, up Upload) (models.Asset, error) {
	data, err := readBounded(up.Body, c.maxImageBytes)
	if err != nil {
		return models.Asset{}, fmt.Errorf("%w: cover image: %w", ErrUpload, err)
	}

	mt := mimetype.Detect(data)
	if !allowedImage(mt.String()) {
		return models.Asset{}, fmt.Errorf("%w: cover image: unsupported type %s (allowed: jpg, jpeg, png, gif, webp)", ErrUpload, mt.String())
	}

	out, err := optimizeImage(data, mt.String())
	if err != nil {
		return models.Asset{}, fmt.Errorf("%w: cover image: %w", ErrUpload, err)
	}

	key := objectKey(coversFolder, up.Filename, out.ext)
	if err := c.store.Put(ctx, key, bytes.NewReader(out.data), int64(len(out.data)), out.contentType); err != nil {
		return models.Asset{}, fmt.Errorf("%w: cover image: %w", ErrUpload, err)
	}
	c.log.Info("cover uploaded", "public_id", key, "bytes", len(out.data), "resized", out.resized)
	return models.Asset{URL: c.publicURL(key), PublicID: key}, nil
}

// UploadDocument validates and stores a PDF.
func (c *Client) UploadDocument(ctx context.Context, up Upload) (models.Asset, error) {
	data, err := readBounded(up.Body, c.maxDocumentBytes)
	if err != nil {
		return models.Asset{}, fmt.Errorf("%w: pdf file: %w", ErrUpload, err)
	}
	if err := validatePDF(data); err != nil {
		return models.Asset{}, fmt.Errorf("%w: pdf file: %w", ErrUpload, err)
	}

	key := objectKey(pdfsFolder, up.Filename, ".pdf")
	if err := c.store.Put(ctx, key, bytes.NewReader(data), int64(len(data)), pdfContentType); err != nil {
		return models.Asset{}, fmt.Errorf("%w: pdf file: %w", ErrUpload, err)
	}
	c.log.Info("pdf uploaded", "public_id", key, "bytes", len(data))
	return models.Asset{URL: c.publicURL(key), PublicID: key}, nil
}

func readBounded(r io.Reader, max int64) ([]byte, error) {
	if r == nil {
		return nil, errors.New("no file")
	}
	data, err := io.ReadAll(io.LimitReader(r, max+1))
	if err != nil {
		return nil, fmt.Errorf("read: %w", err)
	}
	if int64(len(data)) > max {
		return nil, fmt.Errorf("file exceeds %d bytes", max)
	}
	if len(data) == 0 {
		return nil, errors.New("empty file")
	}
	return data, nil
}

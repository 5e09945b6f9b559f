package models

import (
	"encoding/json"
	"strings"
	"time"
)

// Asset is one stored binary in the media store. URL and PublicID always travel together.
type Asset struct {
	URL      string
	PublicID string
}

type Book struct {
	ID          int64
	Title       string
	Author      string
	Genre       string
	Description string
	Cover       *Asset
	PDF         *Asset
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

type bookJSON struct {
	ID                 int64     `json:"id"`
	Title              string    `json:"title"`
	Author             string    `json:"author"`
	Genre              string    `json:"genre"`
	Description        string    `json:"description"`
	CoverImage         *string   `json:"cover_image"`
	CoverImagePublicID *string   `json:"cover_image_public_id"`
	PDFFile            *string   `json:"pdf_file"`
	PDFFilePublicID    *string   `json:"pdf_file_public_id"`
	CreatedAt          time.Time `json:"created_at"`
	UpdatedAt          time.Time `json:"updated_at"`
}

// MarshalJSON flattens each asset into its nullable url/public-id pair.
func (b Book) MarshalJSON() ([]byte, error) {
	out := bookJSON{
		ID:          b.ID,
		Title:       b.Title,
		Author:      b.Author,
		Genre:       b.Genre,
		Description: b.Description,
		CreatedAt:   b.CreatedAt,
		UpdatedAt:   b.UpdatedAt,
	}
	out.CoverImage, out.CoverImagePublicID = b.Cover.pair()
	out.PDFFile, out.PDFFilePublicID = b.PDF.pair()
	return json.Marshal(out)
}

func (a *Asset) pair() (*string, *string) {
	if a == nil {
		return nil, nil
	}
	url, id := a.URL, a.PublicID
	return &url, &id
}

// AssetFromColumns rebuilds an asset from its two nullable columns.
// A half-filled pair is treated as absent.
func AssetFromColumns(url, publicID *string) *Asset {
	if url == nil || publicID == nil || *url == "" || *publicID == "" {
		return nil
	}
	return &Asset{URL: *url, PublicID: *publicID}
}

// Columns is the inverse of AssetFromColumns.
func (a *Asset) Columns() (url, publicID *string) {
	return a.pair()
}

// BookFilter selects books for listings. Empty fields do not filter; values are used as given,
// whitespace included.
type BookFilter struct {
	Search string // substring of title, author or genre; case-insensitive
	Genre  string // exact genre; case-insensitive
}

// Match reports whether b passes the filter.
func (f BookFilter) Match(b Book) bool {
	if s := strings.ToLower(f.Search); s != "" {
		if !strings.Contains(strings.ToLower(b.Title), s) &&
			!strings.Contains(strings.ToLower(b.Author), s) &&
			!strings.Contains(strings.ToLower(b.Genre), s) {
			return false
		}
	}
	if f.Genre != "" && !strings.EqualFold(b.Genre, f.Genre) {
		return false
	}
	return true
}

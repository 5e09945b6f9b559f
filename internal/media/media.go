package media

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"strings"
	"time"
)

// ErrUpload marks any failure to validate or store an uploaded file.
var ErrUpload = errors.New("media upload failed")

// ErrForeignAsset is returned for public ids outside the folder of the requested kind.
var ErrForeignAsset = errors.New("public id does not belong to this asset kind")

// Kind selects how an asset is stored and which folder it lives in.
type Kind int

const (
	KindImage Kind = iota + 1
	KindDocument
)

const (
	coversFolder = "books/covers"
	pdfsFolder   = "books/pdfs"
)

func (k Kind) String() string {
	switch k {
	case KindImage:
		return "image"
	case KindDocument:
		return "document"
	}
	return "unknown"
}

func (k Kind) folder() string {
	switch k {
	case KindImage:
		return coversFolder
	case KindDocument:
		return pdfsFolder
	}
	return ""
}

// ObjectStore is the bucket the client writes to. Implemented by storage/s3 and storage/minio.
type ObjectStore interface {
	Put(ctx context.Context, key string, r io.Reader, size int64, contentType string) error
	Delete(ctx context.Context, key string) error
	PresignGet(ctx context.Context, key string, expiry time.Duration, filename string) (string, error)
}

// Upload is a file received from a client.
type Upload struct {
	Filename    string
	ContentType string // as declared by the client; never trusted
	Body        io.Reader
	Size        int64
}

type Options struct {
	PublicBaseURL    string
	MaxImageBytes    int64
	MaxDocumentBytes int64
}

type Client struct {
	store            ObjectStore
	publicBaseURL    string
	maxImageBytes    int64
	maxDocumentBytes int64
	log              *slog.Logger
}

func NewClient(store ObjectStore, opts Options, log *slog.Logger) *Client {
	if log == nil {
		log = slog.Default()
	}
	if opts.MaxImageBytes <= 0 {
		opts.MaxImageBytes = 10 << 20
	}
	if opts.MaxDocumentBytes <= 0 {
		opts.MaxDocumentBytes = 50 << 20
	}
	return &Client{
		store:            store,
		publicBaseURL:    strings.TrimRight(opts.PublicBaseURL, "/"),
		maxImageBytes:    opts.MaxImageBytes,
		maxDocumentBytes: opts.MaxDocumentBytes,
		log:              log.With("component", "media"),
	}
}

func (c *Client) publicURL(key string) string {
	return c.publicBaseURL + "/" + key
}

func ownedBy(publicID string, kind Kind) bool {
	f := kind.folder()
	return f != "" && strings.HasPrefix(publicID, f+"/") && !strings.Contains(publicID, "..")
}

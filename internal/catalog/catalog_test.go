package catalog_test

import (
	"bytes"
	"context"
	"errors"
	"testing"
	"time"

	"github.com/5w1tchy/novelia-api/internal/apperr"
	"github.com/5w1tchy/novelia-api/internal/catalog"
	"github.com/5w1tchy/novelia-api/internal/logging"
	"github.com/5w1tchy/novelia-api/internal/media"
	"github.com/5w1tchy/novelia-api/internal/models"
	"github.com/5w1tchy/novelia-api/internal/store/books"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type MockMedia struct {
	mock.Mock
}

func (m *MockMedia) UploadImage(ctx context.Context, up media.Upload) (models.Asset, error) {
	args := m.Called(ctx, up)
	return args.Get(0).(models.Asset), args.Error(1)
}

func (m *MockMedia) UploadDocument(ctx context.Context, up media.Upload) (models.Asset, error) {
	args := m.Called(ctx, up)
	return args.Get(0).(models.Asset), args.Error(1)
}

func (m *MockMedia) DeleteAsset(ctx context.Context, publicID string, kind media.Kind) media.DeleteResult {
	args := m.Called(ctx, publicID, kind)
	return media.DeleteResult{PublicID: publicID, Kind: kind, Err: args.Error(0)}
}

func (m *MockMedia) SignedDownloadURL(ctx context.Context, publicID string, kind media.Kind, ttl time.Duration, filename string) (string, error) {
	args := m.Called(ctx, publicID, kind, ttl, filename)
	return args.String(0), args.Error(1)
}

// failingRepo wraps the memory store but refuses writes.
type failingRepo struct {
	*books.Memory
	err error
}

func (f failingRepo) Insert(context.Context, *models.Book) error { return f.err }
func (f failingRepo) Update(context.Context, *models.Book) error { return f.err }

var (
	coverAsset = models.Asset{URL: "https://cdn.example.com/books/covers/c.jpg", PublicID: "books/covers/c.jpg"}
	pdfAsset   = models.Asset{URL: "https://cdn.example.com/books/pdfs/p.pdf", PublicID: "books/pdfs/p.pdf"}
	fields     = catalog.Fields{Title: "Arrow of God", Author: "Chinua Achebe", Genre: "Fiction", Description: "A priest and a colony."}
)

func upload(name string) *media.Upload {
	return &media.Upload{Filename: name, Body: bytes.NewReader([]byte("x")), Size: 1}
}

func newService(repo catalog.Repository, mm *MockMedia) *catalog.Service {
	return catalog.NewService(repo, mm, time.Hour, logging.Discard())
}

func TestCreate_TextOnly(t *testing.T) {
	mm := new(MockMedia)
	repo := books.NewMemory()
	svc := newService(repo, mm)

	b, err := svc.Create(t.Context(), fields, nil, nil)
	require.NoError(t, err)
	assert.NotZero(t, b.ID)
	assert.Nil(t, b.Cover)
	assert.Nil(t, b.PDF)
	mm.AssertExpectations(t)
}

func TestCreate_BothAssets(t *testing.T) {
	mm := new(MockMedia)
	mm.On("UploadImage", mock.Anything, mock.Anything).Return(coverAsset, nil).Once()
	mm.On("UploadDocument", mock.Anything, mock.Anything).Return(pdfAsset, nil).Once()
	svc := newService(books.NewMemory(), mm)

	b, err := svc.Create(t.Context(), fields, upload("c.jpg"), upload("p.pdf"))
	require.NoError(t, err)
	assert.Equal(t, &coverAsset, b.Cover)
	assert.Equal(t, &pdfAsset, b.PDF)
	mm.AssertExpectations(t)
}

func TestCreate_ValidationBeforeUpload(t *testing.T) {
	mm := new(MockMedia)
	repo := books.NewMemory()
	svc := newService(repo, mm)

	bad := fields
	bad.Title = "   "
	_, err := svc.Create(t.Context(), bad, upload("c.jpg"), nil)
	assert.ErrorIs(t, err, apperr.ErrValidation)
	mm.AssertNotCalled(t, "UploadImage", mock.Anything, mock.Anything)

	list, _ := repo.List(t.Context(), models.BookFilter{})
	assert.Empty(t, list)
}

func TestCreate_CoverFailurePersistsNothing(t *testing.T) {
	mm := new(MockMedia)
	mm.On("UploadImage", mock.Anything, mock.Anything).Return(models.Asset{}, media.ErrUpload).Once()
	repo := books.NewMemory()
	svc := newService(repo, mm)

	_, err := svc.Create(t.Context(), fields, upload("c.jpg"), upload("p.pdf"))
	assert.ErrorIs(t, err, apperr.ErrAssetUpload)
	assert.Equal(t, 400, apperr.Status(err))
	mm.AssertNotCalled(t, "UploadDocument", mock.Anything, mock.Anything)

	list, _ := repo.List(t.Context(), models.BookFilter{})
	assert.Empty(t, list)
}

func TestCreate_PDFFailureRollsBackCover(t *testing.T) {
	mm := new(MockMedia)
	mm.On("UploadImage", mock.Anything, mock.Anything).Return(coverAsset, nil).Once()
	mm.On("UploadDocument", mock.Anything, mock.Anything).Return(models.Asset{}, media.ErrUpload).Once()
	mm.On("DeleteAsset", mock.Anything, coverAsset.PublicID, media.KindImage).Return(nil).Once()
	repo := books.NewMemory()
	svc := newService(repo, mm)

	_, err := svc.Create(t.Context(), fields, upload("c.jpg"), upload("p.pdf"))
	assert.ErrorIs(t, err, apperr.ErrAssetUpload)
	mm.AssertExpectations(t)

	list, _ := repo.List(t.Context(), models.BookFilter{})
	assert.Empty(t, list)
}

func TestCreate_RollbackDeleteFailureStillReportsUploadError(t *testing.T) {
	mm := new(MockMedia)
	mm.On("UploadImage", mock.Anything, mock.Anything).Return(coverAsset, nil).Once()
	mm.On("UploadDocument", mock.Anything, mock.Anything).Return(models.Asset{}, media.ErrUpload).Once()
	mm.On("DeleteAsset", mock.Anything, coverAsset.PublicID, media.KindImage).Return(errors.New("network")).Once()
	svc := newService(books.NewMemory(), mm)

	_, err := svc.Create(t.Context(), fields, upload("c.jpg"), upload("p.pdf"))
	assert.ErrorIs(t, err, apperr.ErrAssetUpload)
	mm.AssertExpectations(t)
}

func TestCreate_PersistFailureDiscardsUploads(t *testing.T) {
	mm := new(MockMedia)
	mm.On("UploadImage", mock.Anything, mock.Anything).Return(coverAsset, nil).Once()
	mm.On("UploadDocument", mock.Anything, mock.Anything).Return(pdfAsset, nil).Once()
	mm.On("DeleteAsset", mock.Anything, coverAsset.PublicID, media.KindImage).Return(nil).Once()
	mm.On("DeleteAsset", mock.Anything, pdfAsset.PublicID, media.KindDocument).Return(nil).Once()
	dbErr := errors.New("connection refused")
	svc := newService(failingRepo{Memory: books.NewMemory(), err: dbErr}, mm)

	_, err := svc.Create(t.Context(), fields, upload("c.jpg"), upload("p.pdf"))
	assert.ErrorIs(t, err, dbErr)
	mm.AssertExpectations(t)
}

func seed(t *testing.T, repo *books.Memory, b models.Book) models.Book {
	t.Helper()
	require.NoError(t, repo.Insert(t.Context(), &b))
	return b
}

func TestUpdate_ReplacesCover(t *testing.T) {
	repo := books.NewMemory()
	old := models.Asset{URL: "https://cdn.example.com/books/covers/old.jpg", PublicID: "books/covers/old.jpg"}
	b := seed(t, repo, models.Book{Title: "T", Author: "A", Genre: "G", Description: "D", Cover: &old})

	mm := new(MockMedia)
	mm.On("DeleteAsset", mock.Anything, old.PublicID, media.KindImage).Return(nil).Once()
	mm.On("UploadImage", mock.Anything, mock.Anything).Return(coverAsset, nil).Once()
	svc := newService(repo, mm)

	title := "  New Title "
	got, err := svc.Update(t.Context(), b.ID, catalog.Patch{Title: &title}, upload("c.jpg"), nil)
	require.NoError(t, err)
	assert.Equal(t, "New Title", got.Title)
	assert.Equal(t, &coverAsset, got.Cover)

	stored, _ := repo.Get(t.Context(), b.ID)
	assert.Equal(t, "New Title", stored.Title)
	assert.Equal(t, coverAsset.PublicID, stored.Cover.PublicID)
	mm.AssertExpectations(t)
}

// The old asset is gone before the replacement upload; a failed upload leaves the stored
// record pointing at it.
func TestUpdate_FailedReplacementKeepsStaleRecord(t *testing.T) {
	repo := books.NewMemory()
	old := models.Asset{URL: "https://cdn.example.com/books/covers/old.jpg", PublicID: "books/covers/old.jpg"}
	b := seed(t, repo, models.Book{Title: "T", Author: "A", Genre: "G", Description: "D", Cover: &old})

	mm := new(MockMedia)
	mm.On("DeleteAsset", mock.Anything, old.PublicID, media.KindImage).Return(nil).Once()
	mm.On("UploadImage", mock.Anything, mock.Anything).Return(models.Asset{}, media.ErrUpload).Once()
	svc := newService(repo, mm)

	title := "Changed"
	_, err := svc.Update(t.Context(), b.ID, catalog.Patch{Title: &title}, upload("c.jpg"), nil)
	assert.ErrorIs(t, err, apperr.ErrAssetUpload)

	stored, _ := repo.Get(t.Context(), b.ID)
	assert.Equal(t, "T", stored.Title)
	assert.Equal(t, old.PublicID, stored.Cover.PublicID)
	mm.AssertExpectations(t)
}

func TestUpdate_PDFFailureDiscardsNewCover(t *testing.T) {
	repo := books.NewMemory()
	b := seed(t, repo, models.Book{Title: "T", Author: "A", Genre: "G", Description: "D"})

	mm := new(MockMedia)
	mm.On("UploadImage", mock.Anything, mock.Anything).Return(coverAsset, nil).Once()
	mm.On("UploadDocument", mock.Anything, mock.Anything).Return(models.Asset{}, media.ErrUpload).Once()
	mm.On("DeleteAsset", mock.Anything, coverAsset.PublicID, media.KindImage).Return(nil).Once()
	svc := newService(repo, mm)

	_, err := svc.Update(t.Context(), b.ID, catalog.Patch{}, upload("c.jpg"), upload("p.pdf"))
	assert.ErrorIs(t, err, apperr.ErrAssetUpload)
	mm.AssertExpectations(t)
}

func TestUpdate_NotFoundAndInvalidPatch(t *testing.T) {
	repo := books.NewMemory()
	b := seed(t, repo, models.Book{Title: "T", Author: "A", Genre: "G", Description: "D"})
	svc := newService(repo, new(MockMedia))

	_, err := svc.Update(t.Context(), 404, catalog.Patch{}, nil, nil)
	assert.ErrorIs(t, err, apperr.ErrNotFound)

	blank := ""
	_, err = svc.Update(t.Context(), b.ID, catalog.Patch{Author: &blank}, nil, nil)
	assert.ErrorIs(t, err, apperr.ErrValidation)
}

func TestDelete_CascadesAssets(t *testing.T) {
	repo := books.NewMemory()
	c, p := coverAsset, pdfAsset
	b := seed(t, repo, models.Book{Title: "T", Author: "A", Genre: "G", Description: "D", Cover: &c, PDF: &p})

	mm := new(MockMedia)
	mm.On("DeleteAsset", mock.Anything, c.PublicID, media.KindImage).Return(nil).Once()
	mm.On("DeleteAsset", mock.Anything, p.PublicID, media.KindDocument).Return(errors.New("timeout")).Once()
	svc := newService(repo, mm)

	got, err := svc.Delete(t.Context(), b.ID)
	require.NoError(t, err)
	assert.Equal(t, "T", got.Title)
	mm.AssertExpectations(t)

	_, err = svc.Get(t.Context(), b.ID)
	assert.ErrorIs(t, err, apperr.ErrNotFound)

	_, err = svc.Delete(t.Context(), b.ID)
	assert.ErrorIs(t, err, apperr.ErrNotFound)
}

func TestList(t *testing.T) {
	repo := books.NewMemory()
	seed(t, repo, models.Book{Title: "The River Between", Author: "Ngugi", Genre: "Fiction", Description: "d"})
	seed(t, repo, models.Book{Title: "Idanre", Author: "Soyinka", Genre: "Poetry", Description: "d"})
	svc := newService(repo, new(MockMedia))

	all, err := svc.List(t.Context(), models.BookFilter{})
	require.NoError(t, err)
	assert.Equal(t, 2, all.Count)
	assert.Equal(t, "Idanre", all.Books[0].Title)

	res, err := svc.List(t.Context(), models.BookFilter{Search: "RIVER"})
	require.NoError(t, err)
	assert.Equal(t, 1, res.Count)

	none, err := svc.List(t.Context(), models.BookFilter{Genre: "Drama"})
	require.NoError(t, err)
	assert.Equal(t, 0, none.Count)
	assert.NotNil(t, none.Books)
}

func TestRequestDownload(t *testing.T) {
	repo := books.NewMemory()
	p := pdfAsset
	withPDF := seed(t, repo, models.Book{Title: "Arrow of God", Author: "A", Genre: "G", Description: "D", PDF: &p})
	noPDF := seed(t, repo, models.Book{Title: "Bare", Author: "A", Genre: "G", Description: "D"})

	mm := new(MockMedia)
	mm.On("SignedDownloadURL", mock.Anything, p.PublicID, media.KindDocument, time.Hour, "Arrow of God.pdf").
		Return("https://signed.example/p.pdf?sig=abc", nil).Once()
	svc := newService(repo, mm)

	dl, err := svc.RequestDownload(t.Context(), withPDF.ID)
	require.NoError(t, err)
	assert.Equal(t, "https://signed.example/p.pdf?sig=abc", dl.URL)
	assert.Equal(t, "Arrow of God.pdf", dl.Filename)

	_, err = svc.RequestDownload(t.Context(), noPDF.ID)
	assert.ErrorIs(t, err, apperr.ErrNoAsset)
	assert.Equal(t, 404, apperr.Status(err))

	_, err = svc.RequestDownload(t.Context(), 999)
	assert.ErrorIs(t, err, apperr.ErrNotFound)
	mm.AssertExpectations(t)
}

package books

import (
	"errors"
	"io"
	"mime"
	"mime/multipart"
	"net/http"
	"net/url"

	"github.com/5w1tchy/novelia-api/internal/api/httpx"
	"github.com/5w1tchy/novelia-api/internal/apperr"
	"github.com/5w1tchy/novelia-api/internal/catalog"
	"github.com/5w1tchy/novelia-api/internal/media"
)

const (
	coverField = "cover_image"
	pdfField   = "pdf_file"
	// parts beyond this spill to temp files
	multipartMemory = 8 << 20
)

// formValues are the text parts of a multipart or urlencoded body.
type formValues url.Values

func (v formValues) fields() catalog.Fields {
	u := url.Values(v)
	return catalog.Fields{
		Title:       u.Get("title"),
		Author:      u.Get("author"),
		Genre:       u.Get("genre"),
		Description: u.Get("description"),
	}
}

// patch keeps the difference between an absent field and an empty one.
func (v formValues) patch() catalog.Patch {
	get := func(k string) *string {
		vals, ok := v[k]
		if !ok || len(vals) == 0 {
			return nil
		}
		s := vals[0]
		return &s
	}
	return catalog.Patch{
		Title:       get("title"),
		Author:      get("author"),
		Genre:       get("genre"),
		Description: get("description"),
	}
}

// bookForm holds the optional files of a create or update request.
type bookForm struct {
	cover, pdf *media.Upload
	closers    []io.Closer
	mf         *multipart.Form
}

func (f *bookForm) Close() {
	for _, c := range f.closers {
		_ = c.Close()
	}
	if f.mf != nil {
		_ = f.mf.RemoveAll()
	}
}

// readBookForm accepts multipart/form-data, urlencoded forms or JSON. Form bodies go to
// fromForm; JSON bodies decode into jsonDst and carry no files.
func readBookForm(r *http.Request, fromForm func(formValues), jsonDst any) (*bookForm, error) {
	ct, _, _ := mime.ParseMediaType(r.Header.Get("Content-Type"))
	form := &bookForm{}

	switch ct {
	case "multipart/form-data":
		if err := r.ParseMultipartForm(multipartMemory); err != nil {
			return nil, formError(err)
		}
		form.mf = r.MultipartForm
		fromForm(formValues(r.MultipartForm.Value))
		var err error
		if form.cover, err = form.open(coverField); err != nil {
			form.Close()
			return nil, err
		}
		if form.pdf, err = form.open(pdfField); err != nil {
			form.Close()
			return nil, err
		}
	case "application/x-www-form-urlencoded":
		if err := r.ParseForm(); err != nil {
			return nil, formError(err)
		}
		fromForm(formValues(r.PostForm))
	default:
		if err := httpx.DecodeJSON(r, jsonDst); err != nil {
			return nil, err
		}
	}
	return form, nil
}

func (f *bookForm) open(field string) (*media.Upload, error) {
	hdrs := f.mf.File[field]
	if len(hdrs) == 0 {
		return nil, nil
	}
	fh := hdrs[0]
	// browsers send an empty part for an untouched file input
	if fh.Filename == "" && fh.Size == 0 {
		return nil, nil
	}
	file, err := fh.Open()
	if err != nil {
		return nil, apperr.Wrap(apperr.ErrValidation, "could not read "+field, err)
	}
	f.closers = append(f.closers, file)
	return &media.Upload{
		Filename:    fh.Filename,
		ContentType: fh.Header.Get("Content-Type"),
		Body:        file,
		Size:        fh.Size,
	}, nil
}

func formError(err error) error {
	var tooLarge *http.MaxBytesError
	if errors.As(err, &tooLarge) {
		return err
	}
	return apperr.Wrap(apperr.ErrValidation, "Invalid form data", err)
}

package media

import (
	"bytes"
	"errors"
	"fmt"

	"github.com/gabriel-vasile/mimetype"
	"github.com/ledongthuc/pdf"
)

// validatePDF checks the bytes really are a PDF with at least one page.
func validatePDF(data []byte) (err error) {
	if mt := mimetype.Detect(data); !mt.Is(pdfContentType) {
		return fmt.Errorf("unsupported type %s (expected pdf)", mt.String())
	}

	// the parser panics on some malformed inputs
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("malformed pdf: %v", r)
		}
	}()

	r, err := pdf.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return fmt.Errorf("malformed pdf: %w", err)
	}
	if r.NumPage() < 1 {
		return errors.New("pdf has no pages")
	}
	return nil
}

// Package ingest turns uploaded CSV and PDF files into tables.
package ingest

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"strings"

	"salary-backend/internal/dataset"
)

const (
	MimeCSV = "text/csv"
	MimePDF = "application/pdf"
)

// TableExtractor pulls tabular data out of a PDF. Tables on every page are
// concatenated under the first header.
type TableExtractor interface {
	Extract(ctx context.Context, data []byte) (*dataset.Table, error)
	Name() string
}

// Ingestor dispatches uploads by detected type.
type Ingestor struct {
	PDF TableExtractor
}

// New returns an Ingestor using pdf for PDF uploads. A nil pdf uses the
// built-in extractor.
func New(pdf TableExtractor) *Ingestor {
	if pdf == nil {
		pdf = NativeExtractor{}
	}
	return &Ingestor{PDF: pdf}
}

// Read parses data as a table according to its detected type.
func (i *Ingestor) Read(ctx context.Context, data []byte, mimeType, fileName string) (*dataset.Table, string, error) {
	if err := ctx.Err(); err != nil {
		return nil, "", err
	}
	kind := DetectType(mimeType, fileName, data)
	switch kind {
	case MimeCSV:
		t, err := dataset.ReadCSV(bytes.NewReader(data))
		if err != nil {
			if errors.Is(err, dataset.ErrEmpty) {
				return nil, kind, fmt.Errorf("%w: %v", ErrNoTables, err)
			}
			return nil, kind, fmt.Errorf("%w: %v", ErrMalformedDocument, err)
		}
		return t, kind, nil
	case MimePDF:
		t, err := i.PDF.Extract(ctx, data)
		if err != nil {
			return nil, kind, err
		}
		if err := dataset.CheckColumns(t.Columns); err != nil {
			return nil, kind, fmt.Errorf("%w: %v", ErrMalformedDocument, err)
		}
		return t, kind, nil
	default:
		return nil, kind, fmt.Errorf("%w: %s", ErrUnsupportedType, kind)
	}
}

// DetectType normalizes the declared MIME type, falling back to the file
// extension and the %PDF magic bytes for generic uploads.
func DetectType(mimeType, fileName string, data []byte) string {
	clean := strings.ToLower(strings.TrimSpace(strings.Split(mimeType, ";")[0]))
	switch clean {
	case MimeCSV, "application/csv", "text/comma-separated-values", "application/vnd.ms-excel":
		return MimeCSV
	case MimePDF, "application/x-pdf":
		return MimePDF
	}

	switch strings.ToLower(filepath.Ext(fileName)) {
	case ".csv":
		return MimeCSV
	case ".pdf":
		return MimePDF
	}
	if bytes.HasPrefix(data, []byte("%PDF-")) {
		return MimePDF
	}
	if clean == "" {
		return "application/octet-stream"
	}
	return clean
}

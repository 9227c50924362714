// Package pdf reads the text layer of registration form PDFs.
package pdf

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/gabriel-vasile/mimetype"
	"github.com/ledongthuc/pdf"
	"github.com/pdfcpu/pdfcpu/pkg/api"
	"github.com/pdfcpu/pdfcpu/pkg/pdfcpu/model"
	"go.uber.org/zap"
)

const (
	// DefaultMaxFileSize bounds the size of a single form.
	DefaultMaxFileSize = 100 * 1024 * 1024 // 100MB

	pdfExtension = ".pdf"
	pdfMIMEType  = "application/pdf"
)

// Document is the raw text layer of one PDF, one entry per page in page order.
type Document struct {
	Path     string
	Pages    []string
	Repaired bool
}

// Text concatenates the pages, each followed by a newline.
func (d *Document) Text() string {
	var b strings.Builder
	for _, page := range d.Pages {
		b.WriteString(page)
		b.WriteString("\n")
	}
	return b.String()
}

// PageCount returns the number of pages read.
func (d *Document) PageCount() int {
	return len(d.Pages)
}

// Reader extracts text layers from PDF files.
type Reader struct {
	maxFileSize int64
	repair      bool
	logger      *zap.Logger
}

// Option configures a Reader.
type Option func(*Reader)

// WithRepair enables the pdfcpu rewrite fallback for files the primary
// parser rejects.
func WithRepair(enabled bool) Option {
	return func(r *Reader) { r.repair = enabled }
}

// WithLogger sets the logger used for per-page diagnostics.
func WithLogger(logger *zap.Logger) Option {
	return func(r *Reader) {
		if logger != nil {
			r.logger = logger
		}
	}
}

// NewReader creates a reader that rejects files larger than maxFileSize.
func NewReader(maxFileSize int64, opts ...Option) *Reader {
	if maxFileSize <= 0 {
		maxFileSize = DefaultMaxFileSize
	}
	r := &Reader{
		maxFileSize: maxFileSize,
		repair:      true,
		logger:      zap.NewNop(),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Read validates path and returns the text of every page.
func (r *Reader) Read(ctx context.Context, path string) (*Document, error) {
	if err := r.ValidatePath(path); err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if err := sniff(path); err != nil {
		return nil, err
	}

	pages, err := r.readPages(path)
	if err == nil {
		return &Document{Path: path, Pages: pages}, nil
	}
	if !r.repair {
		return nil, invalidDocument(path, "parse", err)
	}

	r.logger.Debug("primary parse failed, rewriting with pdfcpu",
		zap.String("path", path), zap.Error(err))

	pages, repairErr := r.readRepaired(path)
	if repairErr != nil {
		return nil, invalidDocument(path, "repair", errors.Join(err, repairErr))
	}
	return &Document{Path: path, Pages: pages, Repaired: true}, nil
}

// ValidatePath checks the preconditions that need no parsing: the path names
// an existing regular *.pdf file within the size limit.
func (r *Reader) ValidatePath(path string) error {
	if path == "" {
		return invalidPath(path, "validate", errors.New("path cannot be empty"))
	}
	if !HasPDFExtension(path) {
		return invalidPath(path, "validate", errors.New("file is not a PDF"))
	}

	info, err := os.Stat(path)
	if os.IsNotExist(err) {
		return invalidPath(path, "validate", errors.New("file does not exist"))
	}
	if err != nil {
		return invalidPath(path, "validate", fmt.Errorf("cannot access file: %w", err))
	}
	if !info.Mode().IsRegular() {
		return invalidPath(path, "validate", errors.New("not a regular file"))
	}
	if info.Size() > r.maxFileSize {
		return invalidPath(path, "validate",
			fmt.Errorf("file too large: %d bytes (max: %d bytes)", info.Size(), r.maxFileSize))
	}
	return nil
}

// HasPDFExtension reports whether name ends in ".pdf", ignoring case.
func HasPDFExtension(name string) bool {
	return strings.HasSuffix(strings.ToLower(name), pdfExtension)
}

func sniff(path string) error {
	mtype, err := mimetype.DetectFile(path)
	if err != nil {
		return invalidDocument(path, "sniff", err)
	}
	if !mtype.Is(pdfMIMEType) {
		return invalidDocument(path, "sniff", fmt.Errorf("detected content type %s", mtype.String()))
	}
	return nil
}

func (r *Reader) readPages(path string) (pages []string, err error) {
	defer func() {
		if rec := recover(); rec != nil {
			pages = nil
			err = fmt.Errorf("malformed PDF structure: %v", rec)
		}
	}()

	f, pdfReader, err := pdf.Open(path)
	if f != nil {
		defer f.Close()
	}
	if err != nil {
		return nil, fmt.Errorf("failed to open PDF: %w", err)
	}
	return r.extractPages(path, pdfReader)
}

func (r *Reader) readRepaired(path string) (pages []string, err error) {
	defer func() {
		if rec := recover(); rec != nil {
			pages = nil
			err = fmt.Errorf("pdfcpu rewrite panicked: %v", rec)
		}
	}()

	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open file: %w", err)
	}
	defer f.Close()

	conf := model.NewDefaultConfiguration()
	conf.ValidationMode = model.ValidationRelaxed

	var buf bytes.Buffer
	if err := api.Optimize(f, &buf, conf); err != nil {
		return nil, fmt.Errorf("pdfcpu rewrite failed: %w", err)
	}

	pdfReader, err := pdf.NewReader(bytes.NewReader(buf.Bytes()), int64(buf.Len()))
	if err != nil {
		return nil, fmt.Errorf("failed to parse rewritten PDF: %w", err)
	}
	return r.extractPages(path, pdfReader)
}

// extractPages is best effort: a page whose text cannot be extracted
// contributes an empty string.
func (r *Reader) extractPages(path string, pdfReader *pdf.Reader) (pages []string, err error) {
	defer func() {
		if rec := recover(); rec != nil {
			pages = nil
			err = fmt.Errorf("malformed page tree: %v", rec)
		}
	}()

	count := pdfReader.NumPage()
	pages = make([]string, 0, count)
	for pageNum := 1; pageNum <= count; pageNum++ {
		page := pdfReader.Page(pageNum)
		if page.V.IsNull() {
			pages = append(pages, "")
			continue
		}

		content, err := page.GetPlainText(nil)
		if err != nil {
			r.logger.Debug("page text extraction failed",
				zap.String("path", path), zap.Int("page", pageNum), zap.Error(err))
			content = ""
		}
		pages = append(pages, content)
	}
	return pages, nil
}

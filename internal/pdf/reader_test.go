package pdf

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/a3tai/candidate-form-extractor/internal/pdf/pdftest"
)

func TestNewReader(t *testing.T) {
	tests := []struct {
		name        string
		maxFileSize int64
		want        int64
	}{
		{name: "explicit limit", maxFileSize: 1024, want: 1024},
		{name: "zero falls back to default", maxFileSize: 0, want: DefaultMaxFileSize},
		{name: "negative falls back to default", maxFileSize: -1, want: DefaultMaxFileSize},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := NewReader(tt.maxFileSize)
			assert.Equal(t, tt.want, r.maxFileSize)
			assert.True(t, r.repair)
			assert.NotNil(t, r.logger)
		})
	}

	assert.False(t, NewReader(0, WithRepair(false)).repair)
}

func TestReader_ReadInvalidPath(t *testing.T) {
	tempDir := t.TempDir()

	txtPath := filepath.Join(tempDir, "form.txt")
	require.NoError(t, os.WriteFile(txtPath, []byte("not a pdf"), 0o644))

	dirPath := filepath.Join(tempDir, "nested.pdf")
	require.NoError(t, os.Mkdir(dirPath, 0o755))

	largePath := filepath.Join(tempDir, "large.pdf")
	require.NoError(t, os.WriteFile(largePath, make([]byte, 2048), 0o644))

	reader := NewReader(1024)

	tests := []struct {
		name   string
		path   string
		errMsg string
	}{
		{name: "empty path", path: "", errMsg: "path cannot be empty"},
		{name: "wrong extension", path: txtPath, errMsg: "file is not a PDF"},
		{name: "missing file", path: filepath.Join(tempDir, "missing.pdf"), errMsg: "file does not exist"},
		{name: "directory", path: dirPath, errMsg: "not a regular file"},
		{name: "too large", path: largePath, errMsg: "file too large"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			doc, err := reader.Read(context.Background(), tt.path)
			require.Error(t, err)
			assert.Nil(t, doc)
			assert.True(t, errors.Is(err, ErrInvalidPath), "got %v", err)
			assert.False(t, errors.Is(err, ErrInvalidDocument))
			assert.Contains(t, err.Error(), tt.errMsg)

			var pdfErr *Error
			require.True(t, errors.As(err, &pdfErr))
			assert.Equal(t, tt.path, pdfErr.Path)
		})
	}
}

func TestReader_ReadInvalidDocument(t *testing.T) {
	tempDir := t.TempDir()

	notPDF := filepath.Join(tempDir, "notes.pdf")
	require.NoError(t, os.WriteFile(notPDF, []byte("plain text pretending to be a form"), 0o644))

	broken := filepath.Join(tempDir, "broken.pdf")
	require.NoError(t, os.WriteFile(broken, []byte("%PDF-1.4\ngarbage without objects or trailer\n"), 0o644))

	tests := []struct {
		name   string
		path   string
		repair bool
	}{
		{name: "content is not a PDF", path: notPDF, repair: true},
		{name: "unparseable container without repair", path: broken, repair: false},
		{name: "unparseable container with repair", path: broken, repair: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			reader := NewReader(1024*1024, WithRepair(tt.repair))
			doc, err := reader.Read(context.Background(), tt.path)
			require.Error(t, err)
			assert.Nil(t, doc)
			assert.True(t, errors.Is(err, ErrInvalidDocument), "got %v", err)
			assert.False(t, errors.Is(err, ErrInvalidPath))
		})
	}
}

func TestReader_Read(t *testing.T) {
	tempDir := t.TempDir()
	path := pdftest.WriteFile(t, tempDir, "Form.PDF",
		[]string{"(Candidate's Name) Asha Rao", "(State) Bihar"},
		[]string{"(Mobile Number) 9876543210"},
	)

	doc, err := NewReader(1024*1024).Read(context.Background(), path)
	require.NoError(t, err)
	require.NotNil(t, doc)

	assert.Equal(t, path, doc.Path)
	assert.Equal(t, 2, doc.PageCount())
	assert.False(t, doc.Repaired)
	assert.Contains(t, doc.Pages[0], "(Candidate's Name) Asha Rao")
	assert.Contains(t, doc.Pages[0], "Bihar")
	assert.Contains(t, doc.Pages[1], "9876543210")

	text := doc.Text()
	assert.True(t, strings.HasSuffix(text, "\n"))
	assert.Less(t, strings.Index(text, "Asha Rao"), strings.Index(text, "9876543210"))
}

func TestReader_ReadCancelled(t *testing.T) {
	tempDir := t.TempDir()
	path := pdftest.WriteFile(t, tempDir, "form.pdf", []string{"(State) Bihar"})

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := NewReader(0).Read(ctx, path)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestDocument_Text(t *testing.T) {
	doc := &Document{Pages: []string{"one", "", "three"}}
	assert.Equal(t, "one\n\nthree\n", doc.Text())
	assert.Equal(t, "", (&Document{}).Text())
}

func TestHasPDFExtension(t *testing.T) {
	assert.True(t, HasPDFExtension("a.pdf"))
	assert.True(t, HasPDFExtension("A.PDF"))
	assert.True(t, HasPDFExtension("dir/b.Pdf"))
	assert.False(t, HasPDFExtension("a.pdf.txt"))
	assert.False(t, HasPDFExtension("pdf"))
}

func TestReader_Inspect(t *testing.T) {
	tempDir := t.TempDir()
	path := pdftest.WriteFile(t, tempDir, "form.pdf", []string{"page one"}, []string{"page two"})

	info, err := NewReader(0).Inspect(path)
	require.NoError(t, err)
	assert.Equal(t, 2, info.Pages)
	assert.False(t, info.Encrypted)
	assert.Positive(t, info.Size)

	_, err = NewReader(0).Inspect(filepath.Join(tempDir, "missing.pdf"))
	assert.ErrorIs(t, err, ErrInvalidPath)
}

package extraction

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/gen2brain/go-fitz"
	"github.com/xuri/excelize/v2"
)

// ErrUnsupportedFormat is returned by loaders for file types they cannot read
var ErrUnsupportedFormat = errors.New("unsupported file format")

// TextLoader reads the text content of a document file
type TextLoader interface {
	LoadText(path string) (string, error)
}

// SheetLoader reads the rows of the first worksheet of a spreadsheet
type SheetLoader interface {
	LoadRows(path string) ([][]string, error)
}

// FileTextLoader reads PDFs with MuPDF and plain text files directly
type FileTextLoader struct{}

// NewFileTextLoader creates a loader for .pdf and plain text files
func NewFileTextLoader() *FileTextLoader {
	return &FileTextLoader{}
}

// LoadText returns the text of every page joined by newlines
func (l *FileTextLoader) LoadText(path string) (string, error) {
	if _, err := os.Stat(path); err != nil {
		return "", fmt.Errorf("document not found: %w", err)
	}

	switch strings.ToLower(filepath.Ext(path)) {
	case ".pdf":
		return loadPDFText(path)
	case ".txt", ".text", ".md", ".csv":
		data, err := os.ReadFile(path)
		if err != nil {
			return "", fmt.Errorf("failed to read file: %w", err)
		}
		return string(data), nil
	default:
		return "", fmt.Errorf("%w: %s", ErrUnsupportedFormat, filepath.Ext(path))
	}
}

func loadPDFText(path string) (string, error) {
	doc, err := fitz.New(path)
	if err != nil {
		return "", fmt.Errorf("failed to open PDF: %w", err)
	}
	defer doc.Close()

	var b strings.Builder
	for n := 0; n < doc.NumPage(); n++ {
		text, err := doc.Text(n)
		if err != nil {
			return "", fmt.Errorf("failed to read page %d: %w", n+1, err)
		}
		b.WriteString(text)
		if !strings.HasSuffix(text, "\n") {
			b.WriteString("\n")
		}
	}
	return b.String(), nil
}

// ExcelSheetLoader reads spreadsheets with excelize
type ExcelSheetLoader struct{}

// NewExcelSheetLoader creates a spreadsheet loader
func NewExcelSheetLoader() *ExcelSheetLoader {
	return &ExcelSheetLoader{}
}

// LoadRows returns the rows of the first sheet
func (l *ExcelSheetLoader) LoadRows(path string) ([][]string, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".xlsx", ".xlsm", ".xltx", ".xltm":
	default:
		return nil, fmt.Errorf("%w: %s", ErrUnsupportedFormat, filepath.Ext(path))
	}

	f, err := excelize.OpenFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open spreadsheet: %w", err)
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return nil, fmt.Errorf("spreadsheet has no sheets")
	}

	rows, err := f.GetRows(sheets[0])
	if err != nil {
		return nil, fmt.Errorf("failed to read rows from %s: %w", sheets[0], err)
	}
	return rows, nil
}

// Verify interface compliance
var (
	_ TextLoader  = (*FileTextLoader)(nil)
	_ SheetLoader = (*ExcelSheetLoader)(nil)
)

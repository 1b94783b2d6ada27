package extraction

import (
	"context"
	"errors"
	"fmt"
	"runtime/debug"

	"github.com/SarthakGarg19/social-support-ai/internal/application/port"
	"github.com/SarthakGarg19/social-support-ai/internal/domain/entity"
	"go.uber.org/zap"
)

var errNoClassifier = errors.New("resume classifier not configured")

// Extractor dispatches each document to the reader for its type
type Extractor struct {
	text       TextLoader
	sheets     SheetLoader
	classifier port.ResumeClassifier
	logger     *zap.Logger
}

// Option configures an Extractor
type Option func(*Extractor)

// WithTextLoader overrides the PDF/text loader
func WithTextLoader(l TextLoader) Option {
	return func(e *Extractor) { e.text = l }
}

// WithSheetLoader overrides the spreadsheet loader
func WithSheetLoader(l SheetLoader) Option {
	return func(e *Extractor) { e.sheets = l }
}

// WithResumeClassifier sets the classifier used for resumes
func WithResumeClassifier(c port.ResumeClassifier) Option {
	return func(e *Extractor) { e.classifier = c }
}

// NewExtractor creates an extractor backed by MuPDF and excelize
func NewExtractor(logger *zap.Logger, opts ...Option) *Extractor {
	e := &Extractor{
		text:   NewFileTextLoader(),
		sheets: NewExcelSheetLoader(),
		logger: logger,
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Extract reads one document. It makes a single attempt and never panics;
// every error is an *entity.ExtractionError.
func (e *Extractor) Extract(ctx context.Context, doc entity.DocumentRef) (fields *entity.ExtractedFields, err error) {
	defer func() {
		if r := recover(); r != nil {
			e.logger.Error("Extractor panicked",
				zap.String("doc_type", string(doc.Type)),
				zap.Any("panic", r),
				zap.String("stack", string(debug.Stack())))
			fields = nil
			err = &entity.ExtractionError{DocumentType: doc.Type, Location: doc.Location, Err: fmt.Errorf("panic: %v", r)}
		}
	}()

	if err := ctx.Err(); err != nil {
		return nil, e.fail(doc, err)
	}

	fields, err = e.extract(ctx, doc)
	if err != nil {
		return nil, e.fail(doc, err)
	}

	e.logger.Debug("Document extracted",
		zap.String("doc_type", string(doc.Type)),
		zap.String("location", doc.Location),
		zap.String("summary", fields.Summary))
	return fields, nil
}

func (e *Extractor) extract(ctx context.Context, doc entity.DocumentRef) (*entity.ExtractedFields, error) {
	switch doc.Type {
	case entity.DocumentBankStatement:
		text, err := e.text.LoadText(doc.Location)
		if err != nil {
			return nil, err
		}
		return parseBankStatement(text), nil

	case entity.DocumentCreditReport:
		text, err := e.text.LoadText(doc.Location)
		if err != nil {
			return nil, err
		}
		return parseCreditReport(text), nil

	case entity.DocumentResume:
		text, err := e.text.LoadText(doc.Location)
		if err != nil {
			return nil, err
		}
		return e.parseResume(ctx, text), nil

	case entity.DocumentEmiratesID:
		// ID cards are usually scans; without OCR the number falls back
		text, err := e.text.LoadText(doc.Location)
		if err != nil && !errors.Is(err, ErrUnsupportedFormat) {
			return nil, err
		}
		return parseEmiratesID(text), nil

	case entity.DocumentAssetsLiabilities:
		rows, err := e.sheets.LoadRows(doc.Location)
		if err != nil {
			return nil, err
		}
		return parseAssetsSheet(rows), nil

	default:
		text, err := e.text.LoadText(doc.Location)
		if err != nil && !errors.Is(err, ErrUnsupportedFormat) {
			return nil, err
		}
		return parseGeneric(text), nil
	}
}

func (e *Extractor) fail(doc entity.DocumentRef, err error) error {
	e.logger.Warn("Document extraction failed",
		zap.String("doc_type", string(doc.Type)),
		zap.String("location", doc.Location),
		zap.Error(err))
	return &entity.ExtractionError{DocumentType: doc.Type, Location: doc.Location, Err: err}
}

// Verify interface compliance
var _ port.Extractor = (*Extractor)(nil)

package pipeline

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"

	"cv-parser/internal/cv"
	"cv-parser/internal/llm"
	"cv-parser/internal/storage"
)

// MaxBatchSize is the per-upload file limit. Exceeding it fails the whole
// batch before any file is processed.
const MaxBatchSize = 10

var ErrBatchTooLarge = fmt.Errorf("maximum %d files allowed per upload", MaxBatchSize)

const (
	StatusSuccess = "success"
	StatusError   = "error"
)

// RawDocument is one uploaded file, owned by the request handler.
type RawDocument struct {
	Content  []byte
	Filename string
}

// FileResult is the per-file outcome of a batch. The pipeline emits exactly
// one per input file, in input order.
type FileResult struct {
	Filename string `json:"filename"`
	Status   string `json:"status"`
	Message  string `json:"message"`
	CVID     string `json:"cv_id,omitempty"`
}

// TextExtractor converts document bytes into cleaned plain text.
type TextExtractor interface {
	Supports(filename string) bool
	Extract(content []byte, filename string) (*cv.ExtractedText, error)
}

// Analyzer turns CV text into a structured extraction.
type Analyzer interface {
	Analyze(ctx context.Context, cvText string) (*llm.Extraction, error)
}

// ProfileStore is the slice of the store the pipeline needs.
type ProfileStore interface {
	InsertProfile(ctx context.Context, payload map[string]any) (string, error)
	UpdateProfile(ctx context.Context, id string, payload map[string]any) (*storage.CandidateProfile, error)
}

// Ingestor runs the per-file validation, extraction, normalization and
// persistence steps for a batch of uploads.
type Ingestor struct {
	extractor TextExtractor
	analyzer  Analyzer
	store     ProfileStore
	logger    *zap.Logger
}

func NewIngestor(extractor TextExtractor, analyzer Analyzer, store ProfileStore, logger *zap.Logger) *Ingestor {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Ingestor{
		extractor: extractor,
		analyzer:  analyzer,
		store:     store,
		logger:    logger,
	}
}

// Ingest processes each file independently: a failure in one file never
// aborts the rest. The only batch-level failures are the size precondition and
// context cancellation, which stops issuing new per-file work.
func (ing *Ingestor) Ingest(ctx context.Context, docs []RawDocument) ([]FileResult, error) {
	if len(docs) > MaxBatchSize {
		return nil, ErrBatchTooLarge
	}

	results := make([]FileResult, 0, len(docs))
	for _, doc := range docs {
		if err := ctx.Err(); err != nil {
			return results, err
		}
		results = append(results, ing.processFile(ctx, doc))
	}
	return results, nil
}

func (ing *Ingestor) processFile(ctx context.Context, doc RawDocument) FileResult {
	log := ing.logger.With(zap.String("filename", doc.Filename))
	log.Info("processing file")

	errResult := func(message string) FileResult {
		log.Warn("file processing failed", zap.String("reason", message))
		return FileResult{Filename: doc.Filename, Status: StatusError, Message: message}
	}

	if !ing.extractor.Supports(doc.Filename) {
		return errResult("Invalid file type")
	}

	extracted, err := ing.extractor.Extract(doc.Content, doc.Filename)
	if err != nil {
		return errResult(err.Error())
	}

	extraction, err := ing.analyzer.Analyze(ctx, extracted.Text)
	if err != nil {
		var malformed *llm.MalformedResponseError
		if errors.As(err, &malformed) {
			log.Warn("model response not parseable", zap.String("raw_response", malformed.Raw))
		}
		return errResult(err.Error())
	}

	payload := BuildInsertPayload(extraction, doc.Filename, log)

	id, err := ing.store.InsertProfile(ctx, payload)
	if err != nil {
		return errResult(fmt.Sprintf("Error storing CV: %v", err))
	}

	// The row stays in processing if only this second write fails; that is an
	// accepted inconsistency, surfaced by the stuckprofiles tool.
	if _, err := ing.store.UpdateProfile(ctx, id, map[string]any{"process_status": storage.StatusCompleted}); err != nil {
		return errResult(fmt.Sprintf("Error storing CV: %v", err))
	}

	log.Info("file processed", zap.String("cv_id", id))
	return FileResult{
		Filename: doc.Filename,
		Status:   StatusSuccess,
		Message:  "CV processed successfully",
		CVID:     id,
	}
}

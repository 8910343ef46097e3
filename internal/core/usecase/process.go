package usecase

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/url"
	"path"
	"path/filepath"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/mediscan/ai-service/internal/core/domain"
	"github.com/mediscan/ai-service/internal/core/medtext"
	"github.com/mediscan/ai-service/internal/core/ports"
)

// extractionConfidence is the fixed confidence reported for the rule-based
// extraction stage; individual findings carry their own per-rule scores.
const extractionConfidence = 0.8

// ocrExcerptRunes caps the raw text echoed back in results.
const ocrExcerptRunes = 1000

// Processing methods recorded on results.
const (
	methodOCRExtraction = "ocr_extraction"
	methodTextDirect    = "text_direct"
)

// ProcessUseCase runs the full document pipeline for one job: acquire
// text, extract findings, classify, score, summarize, then deliver the
// terminal callback. The synchronous acknowledgment never depends on
// callback delivery.
type ProcessUseCase struct {
	fetcher    ports.FileFetcher
	ocr        ports.OCREngine
	pdf        ports.PDFExtractor
	recognizer ports.EntityRecognizer
	callbacks  ports.CallbackSender
	scratch    ports.ScratchStore
	softBudget time.Duration
	now        func() time.Time
}

func NewProcessUseCase(
	fetcher ports.FileFetcher,
	ocr ports.OCREngine,
	pdf ports.PDFExtractor,
	recognizer ports.EntityRecognizer,
	callbacks ports.CallbackSender,
	scratch ports.ScratchStore,
	softBudget time.Duration,
) *ProcessUseCase {
	return &ProcessUseCase{
		fetcher:    fetcher,
		ocr:        ocr,
		pdf:        pdf,
		recognizer: recognizer,
		callbacks:  callbacks,
		scratch:    scratch,
		softBudget: softBudget,
		now:        time.Now,
	}
}

// ProcessFile downloads the referenced document and runs the pipeline on
// its extracted text. Validation failures return before any callback;
// acquisition and extraction failures deliver a failure callback and
// return the error.
func (uc *ProcessUseCase) ProcessFile(ctx context.Context, job domain.ProcessingJob) (domain.Acknowledgment, error) {
	started := uc.now()
	job = job.WithDefaults()

	if err := validateFileJob(job); err != nil {
		return domain.Acknowledgment{}, err
	}

	doc, cleanup, err := uc.acquire(ctx, job)
	if err != nil {
		uc.deliverFailure(ctx, job, started, domain.CodeDownloadError, "Failed to download file")
		return domain.Acknowledgment{}, err
	}
	defer cleanup()

	pages, err := uc.extractPages(ctx, doc)
	if err != nil {
		uc.deliverFailure(ctx, job, started, domain.CodeProcessingError, err.Error())
		return domain.Acknowledgment{}, err
	}

	merged := mergePages(pages)
	if strings.TrimSpace(merged.text) == "" {
		err := domain.WrapError(domain.ErrEmptyDocument, "extract text",
			errors.New("no text could be extracted from the document"))
		uc.deliverFailure(ctx, job, started, domain.CodeProcessingError,
			"No text could be extracted from the document")
		return domain.Acknowledgment{}, err
	}

	return uc.finish(ctx, job, started, merged, methodOCRExtraction), nil
}

// ProcessText runs the pipeline on text the caller already extracted.
// Direct text carries no OCR uncertainty, so the single page scores 1.0.
func (uc *ProcessUseCase) ProcessText(ctx context.Context, job domain.ProcessingJob) (domain.Acknowledgment, error) {
	started := uc.now()
	job = job.WithDefaults()

	if err := validateTextJob(job); err != nil {
		return domain.Acknowledgment{}, err
	}

	page := domain.PageText{
		Text:       job.ExtractedText,
		Confidence: 1.0,
		WordCount:  len(strings.Fields(job.ExtractedText)),
	}
	return uc.finish(ctx, job, started, mergePages([]domain.PageText{page}), methodTextDirect), nil
}

// acquire downloads the file and stages it in scratch storage for the
// lifetime of the job. The returned cleanup removes the staged copy;
// removal failure is logged, never fatal.
func (uc *ProcessUseCase) acquire(ctx context.Context, job domain.ProcessingJob) (domain.RawDocument, func(), error) {
	data, err := uc.fetcher.Fetch(ctx, job.FileURL)
	if err != nil {
		return domain.RawDocument{}, nil, fmt.Errorf("download file: %w", err)
	}

	name := documentName(job)
	key := fmt.Sprintf("%s_%s", job.JobID, sanitizeFilename(name))
	if _, err := uc.scratch.Save(ctx, key, data); err != nil {
		return domain.RawDocument{}, nil, domain.WrapError(domain.ErrAcquisition, "stage file", err)
	}
	cleanup := func() {
		if err := uc.scratch.Remove(ctx, key); err != nil {
			slog.Warn("scratch_cleanup_failed", "job_id", job.JobID, "key", key, "error", err)
		}
	}

	staged, err := uc.scratch.Load(ctx, key)
	if err != nil {
		cleanup()
		return domain.RawDocument{}, nil, domain.WrapError(domain.ErrAcquisition, "read staged file", err)
	}

	return domain.RawDocument{
		FileID:   job.FileID,
		FileName: name,
		MimeType: job.MimeType,
		Data:     staged,
	}, cleanup, nil
}

// extractPages routes the staged document to the PDF extractor or the
// OCR engine by extension.
func (uc *ProcessUseCase) extractPages(ctx context.Context, doc domain.RawDocument) ([]domain.PageText, error) {
	if doc.IsPDF() {
		pages, err := uc.pdf.ExtractPages(ctx, doc.Data)
		if err != nil {
			return nil, fmt.Errorf("extract pdf text: %w", err)
		}
		return pages, nil
	}

	page, err := uc.ocr.Recognize(ctx, doc.Data, doc.MimeType)
	if err != nil {
		return nil, fmt.Errorf("recognize image text: %w", err)
	}
	return []domain.PageText{page}, nil
}

// finish runs the fail-soft analysis stages over the extracted text,
// assembles the result, delivers the completion callback and returns the
// acknowledgment. Nothing past this point fails the job.
func (uc *ProcessUseCase) finish(ctx context.Context, job domain.ProcessingJob, started time.Time, merged extraction, method string) domain.Acknowledgment {
	bag := uc.aggregate(ctx, merged.text)
	docType := uc.classify(merged.text)
	confidence := uc.score(bag)
	summary := uc.summarize(bag)

	elapsed := uc.now().Sub(started)
	result := uc.assemble(merged, method, bag, docType, confidence, summary, elapsed)

	uc.deliver(ctx, job, domain.CallbackPayload{
		JobID:    job.JobID,
		FileID:   job.FileID,
		Status:   domain.JobCompleted,
		Results:  &result,
		Metadata: uc.metadata(started, method),
	})

	uc.observeBudget(job, elapsed)

	slog.Info("document_processed",
		"job_id", job.JobID,
		"file_id", job.FileID,
		"document_type", docType,
		"findings", bag.TotalFindings(),
		"ocr_confidence", merged.confidence,
		"method", method,
		"duration_ms", elapsed.Milliseconds(),
	)

	return domain.Acknowledgment{
		JobID:            job.JobID,
		ProcessingTimeMS: elapsed.Milliseconds(),
		Completed:        true,
		TextLength:       utf8.RuneCountInString(merged.text),
		DocumentType:     docType,
		OCRConfidence:    merged.confidence,
		Findings:         bag.CategoryCounts(),
	}
}

func (uc *ProcessUseCase) aggregate(ctx context.Context, text string) domain.EntityBag {
	return medtext.Aggregate(text, func(t string) ([]domain.GenericEntity, error) {
		return uc.recognizer.Recognize(ctx, t)
	})
}

// The analysis stages substitute their neutral value on panic so one bad
// stage never aborts the pipeline.

func (uc *ProcessUseCase) classify(text string) (docType string) {
	defer func() {
		if r := recover(); r != nil {
			docType = domain.DocGeneralMedical
		}
	}()
	return medtext.ClassifyDocument(text)
}

func (uc *ProcessUseCase) score(bag domain.EntityBag) (confidence float64) {
	defer func() {
		if r := recover(); r != nil {
			confidence = medtext.ScorerErrorConfidence
		}
	}()
	return medtext.ScoreConfidence(bag.TotalFindings())
}

func (uc *ProcessUseCase) summarize(bag domain.EntityBag) (summary domain.SummaryResult) {
	defer func() {
		if r := recover(); r != nil {
			summary = medtext.ErrorSummary(fmt.Errorf("%v", r))
		}
	}()
	return medtext.Summarize(bag)
}

func (uc *ProcessUseCase) assemble(merged extraction, method string, bag domain.EntityBag, docType string, confidence float64, summary domain.SummaryResult, elapsed time.Duration) domain.ProcessingResult {
	return domain.ProcessingResult{
		DocumentType: docType,
		Confidence:   confidence,
		OCRText:      domain.Excerpt(merged.text, ocrExcerptRunes),
		Entities:     bag,
		Summary:      summary,
		Statistics:   domain.StatisticsFor(bag),
		QualityMetrics: domain.QualityMetrics{
			OCRConfidence:        merged.confidence,
			ExtractionConfidence: extractionConfidence,
			DocumentQuality:      domain.QualityLabel(merged.confidence),
			ProcessingTimeMS:     elapsed.Milliseconds(),
			WordCount:            merged.wordCount,
			PageCount:            merged.pageCount,
		},
		Flags: domain.QualityFlags(merged.confidence, merged.wordCount),
		ProcessingInfo: domain.ProcessingInfo{
			TextLength:       utf8.RuneCountInString(merged.text),
			WordCount:        len(strings.Fields(merged.text)),
			ProcessingMethod: method,
			Timestamp:        uc.now().UTC(),
		},
	}
}

// deliver sends the terminal callback. Delivery gets exactly one attempt;
// failure is logged and swallowed so the acknowledgment stands.
func (uc *ProcessUseCase) deliver(ctx context.Context, job domain.ProcessingJob, payload domain.CallbackPayload) {
	if err := uc.callbacks.Send(ctx, job.CallbackURL, payload); err != nil {
		slog.Warn("callback_delivery_failed",
			"job_id", job.JobID,
			"file_id", job.FileID,
			"status", payload.Status,
			"error", err,
		)
	}
}

func (uc *ProcessUseCase) deliverFailure(ctx context.Context, job domain.ProcessingJob, started time.Time, code, message string) {
	uc.deliver(ctx, job, domain.CallbackPayload{
		JobID:    job.JobID,
		FileID:   job.FileID,
		Status:   domain.JobFailed,
		Error:    &domain.ErrorDetail{Code: code, Message: message},
		Metadata: uc.metadata(started, methodOCRExtraction),
	})
}

// metadata stamps the callback envelope. Direct-text jobs involve no OCR
// model, so they omit the model version.
func (uc *ProcessUseCase) metadata(started time.Time, method string) domain.CallbackMetadata {
	meta := domain.CallbackMetadata{
		ProcessingTimeMS: uc.now().Sub(started).Milliseconds(),
		ServiceVersion:   domain.ServiceVersion,
		Timestamp:        uc.now().UTC(),
	}
	if method == methodOCRExtraction {
		meta.ModelVersion = uc.ocr.ModelVersion()
	}
	return meta
}

// observeBudget logs jobs that blow the soft processing budget. The
// budget never aborts a job.
func (uc *ProcessUseCase) observeBudget(job domain.ProcessingJob, elapsed time.Duration) {
	if uc.softBudget <= 0 || elapsed <= uc.softBudget {
		return
	}
	slog.Warn("processing_over_budget",
		"job_id", job.JobID,
		"elapsed_ms", elapsed.Milliseconds(),
		"budget_ms", uc.softBudget.Milliseconds(),
	)
}

// extraction is the flattened view of all extracted pages.
type extraction struct {
	text       string
	confidence float64
	wordCount  int
	pageCount  int
}

// mergePages joins non-empty page texts with blank lines. Document
// confidence is the mean across every page, failed pages included, so a
// bad page drags the document score down.
func mergePages(pages []domain.PageText) extraction {
	merged := extraction{pageCount: len(pages)}
	if len(pages) == 0 {
		return merged
	}

	parts := make([]string, 0, len(pages))
	var confidenceSum float64
	for _, p := range pages {
		if p.Text != "" {
			parts = append(parts, p.Text)
		}
		confidenceSum += p.Confidence
		merged.wordCount += p.WordCount
	}
	merged.text = strings.Join(parts, "\n\n")
	merged.confidence = confidenceSum / float64(len(pages))
	return merged
}

func validateFileJob(job domain.ProcessingJob) error {
	if missing := job.Missing(domain.FileJobFields); len(missing) > 0 {
		return domain.WrapError(domain.ErrInvalidInput, "validate job",
			fmt.Errorf("missing required fields: %s", strings.Join(missing, ", ")))
	}
	if name := documentName(job); !domain.SupportedExtension(name) {
		return domain.WrapError(domain.ErrUnsupportedFormat, "validate job",
			fmt.Errorf("file %q has no supported extension", name))
	}
	return nil
}

func validateTextJob(job domain.ProcessingJob) error {
	if missing := job.Missing(domain.TextJobFields); len(missing) > 0 {
		return domain.WrapError(domain.ErrInvalidInput, "validate job",
			fmt.Errorf("missing required fields: %s", strings.Join(missing, ", ")))
	}
	return nil
}

// documentName derives the name used for format detection and scratch
// staging. The URL path decides the extension; the display fileName is
// only a fallback for URLs without a usable path.
func documentName(job domain.ProcessingJob) string {
	if u, err := url.Parse(job.FileURL); err == nil {
		if base := path.Base(u.Path); base != "" && base != "." && base != "/" {
			return base
		}
	}
	return job.FileName
}

func sanitizeFilename(name string) string {
	base := filepath.Base(name)
	base = strings.ReplaceAll(base, " ", "_")
	base = strings.Map(func(r rune) rune {
		switch {
		case r >= 'a' && r <= 'z':
			return r
		case r >= 'A' && r <= 'Z':
			return r
		case r >= '0' && r <= '9':
			return r
		case r == '.', r == '-', r == '_':
			return r
		default:
			return '_'
		}
	}, base)
	if base == "" {
		return "document.bin"
	}
	return base
}

package usecase

import (
	"context"
	"errors"
	"math"
	"strings"
	"testing"

	"github.com/mediscan/ai-service/internal/core/domain"
)

type fetcherFake struct {
	data []byte
	err  error
	urls []string
}

func (f *fetcherFake) Fetch(_ context.Context, url string) ([]byte, error) {
	f.urls = append(f.urls, url)
	if f.err != nil {
		return nil, f.err
	}
	return f.data, nil
}

type ocrFake struct {
	page  domain.PageText
	err   error
	calls int
}

func (f *ocrFake) Recognize(context.Context, []byte, string) (domain.PageText, error) {
	f.calls++
	if f.err != nil {
		return domain.PageText{}, f.err
	}
	return f.page, nil
}

func (f *ocrFake) Available() bool      { return true }
func (f *ocrFake) ModelVersion() string { return "tesseract-5.0" }

type pdfFake struct {
	pages []domain.PageText
	err   error
	calls int
}

func (f *pdfFake) ExtractPages(context.Context, []byte) ([]domain.PageText, error) {
	f.calls++
	if f.err != nil {
		return nil, f.err
	}
	return f.pages, nil
}

type recognizerFake struct {
	entities []domain.GenericEntity
	err      error
}

func (f *recognizerFake) Recognize(context.Context, string) ([]domain.GenericEntity, error) {
	if f.err != nil {
		return nil, f.err
	}
	return f.entities, nil
}

func (f *recognizerFake) Available() bool { return true }

type callbackFake struct {
	err      error
	urls     []string
	payloads []domain.CallbackPayload
}

func (f *callbackFake) Send(_ context.Context, url string, payload domain.CallbackPayload) error {
	f.urls = append(f.urls, url)
	f.payloads = append(f.payloads, payload)
	return f.err
}

type scratchFake struct {
	saveErr error
	loadErr error
	files   map[string][]byte
	saved   []string
	removed []string
}

func (f *scratchFake) Save(_ context.Context, key string, data []byte) (string, error) {
	if f.saveErr != nil {
		return "", f.saveErr
	}
	if f.files == nil {
		f.files = map[string][]byte{}
	}
	f.files[key] = data
	f.saved = append(f.saved, key)
	return "/tmp/" + key, nil
}

func (f *scratchFake) Load(_ context.Context, key string) ([]byte, error) {
	if f.loadErr != nil {
		return nil, f.loadErr
	}
	data, ok := f.files[key]
	if !ok {
		return nil, errors.New("not staged: " + key)
	}
	return data, nil
}

func (f *scratchFake) Remove(_ context.Context, key string) error {
	f.removed = append(f.removed, key)
	delete(f.files, key)
	return nil
}

func fileJob() domain.ProcessingJob {
	return domain.ProcessingJob{
		JobID:       "job-1",
		FileID:      "file-1",
		FileURL:     "https://files.example.com/scans/report.pdf",
		FileName:    "report.pdf",
		CallbackURL: "https://backend.example.com/callback",
	}
}

func TestProcessFilePDFSuccess(t *testing.T) {
	fetcher := &fetcherFake{data: []byte("%PDF")}
	ocr := &ocrFake{}
	pdf := &pdfFake{pages: []domain.PageText{
		{PageNumber: 1, Text: "Prescription RX: BP: 150/95", Confidence: 0.9, WordCount: 4},
		{PageNumber: 2, Text: "Prescribed Lisinopril 10 mg daily", Confidence: 0.7, WordCount: 5},
	}}
	callbacks := &callbackFake{}
	scratch := &scratchFake{}
	uc := NewProcessUseCase(fetcher, ocr, pdf, &recognizerFake{}, callbacks, scratch, 0)

	ack, err := uc.ProcessFile(context.Background(), fileJob())
	if err != nil {
		t.Fatalf("ProcessFile() error = %v", err)
	}
	if !ack.Completed || ack.JobID != "job-1" {
		t.Fatalf("unexpected ack: %+v", ack)
	}
	if pdf.calls != 1 || ocr.calls != 0 {
		t.Fatalf("expected pdf extraction only, pdf=%d ocr=%d", pdf.calls, ocr.calls)
	}

	if len(callbacks.payloads) != 1 {
		t.Fatalf("expected 1 callback, got %d", len(callbacks.payloads))
	}
	if callbacks.urls[0] != "https://backend.example.com/callback" {
		t.Fatalf("callback went to %s", callbacks.urls[0])
	}
	payload := callbacks.payloads[0]
	if payload.Status != domain.JobCompleted || payload.Results == nil || payload.Error != nil {
		t.Fatalf("unexpected payload: %+v", payload)
	}
	if payload.Metadata.ModelVersion != "tesseract-5.0" {
		t.Errorf("metadata model = %q", payload.Metadata.ModelVersion)
	}

	result := payload.Results
	if result.DocumentType != domain.DocPrescription {
		t.Errorf("document type = %q", result.DocumentType)
	}
	if result.QualityMetrics.PageCount != 2 {
		t.Errorf("page count = %d", result.QualityMetrics.PageCount)
	}
	if math.Abs(result.QualityMetrics.OCRConfidence-0.8) > 1e-9 {
		t.Errorf("ocr confidence = %v, want 0.8", result.QualityMetrics.OCRConfidence)
	}
	if result.QualityMetrics.WordCount != 9 {
		t.Errorf("word count = %d, want 9", result.QualityMetrics.WordCount)
	}
	if result.ProcessingInfo.ProcessingMethod != "ocr_extraction" {
		t.Errorf("method = %q", result.ProcessingInfo.ProcessingMethod)
	}
	if !strings.Contains(result.OCRText, "Lisinopril") {
		t.Errorf("ocr text missing page text: %q", result.OCRText)
	}

	if len(scratch.saved) != 1 || scratch.saved[0] != "job-1_report.pdf" {
		t.Fatalf("staged keys = %v", scratch.saved)
	}
	if len(scratch.removed) != 1 || scratch.removed[0] != "job-1_report.pdf" {
		t.Fatalf("cleanup keys = %v", scratch.removed)
	}
}

func TestProcessFileImageUsesOCR(t *testing.T) {
	job := fileJob()
	job.FileURL = "https://files.example.com/scans/visit.png"
	ocr := &ocrFake{page: domain.PageText{Text: "Patient visit note, heart rate 72 bpm", Confidence: 0.85, WordCount: 7}}
	pdf := &pdfFake{}
	callbacks := &callbackFake{}
	uc := NewProcessUseCase(&fetcherFake{data: []byte("png")}, ocr, pdf, &recognizerFake{}, callbacks, &scratchFake{}, 0)

	ack, err := uc.ProcessFile(context.Background(), job)
	if err != nil {
		t.Fatalf("ProcessFile() error = %v", err)
	}
	if ocr.calls != 1 || pdf.calls != 0 {
		t.Fatalf("expected ocr only, pdf=%d ocr=%d", pdf.calls, ocr.calls)
	}
	if math.Abs(ack.OCRConfidence-0.85) > 1e-9 {
		t.Errorf("ack confidence = %v", ack.OCRConfidence)
	}
	if callbacks.payloads[0].Results.QualityMetrics.PageCount != 1 {
		t.Errorf("page count = %d", callbacks.payloads[0].Results.QualityMetrics.PageCount)
	}
}

func TestProcessFileMissingFieldsRejected(t *testing.T) {
	job := fileJob()
	job.CallbackURL = ""
	fetcher := &fetcherFake{}
	callbacks := &callbackFake{}
	uc := NewProcessUseCase(fetcher, &ocrFake{}, &pdfFake{}, &recognizerFake{}, callbacks, &scratchFake{}, 0)

	_, err := uc.ProcessFile(context.Background(), job)
	if !domain.IsKind(err, domain.ErrInvalidInput) {
		t.Fatalf("expected invalid input, got %v", err)
	}
	if !strings.Contains(err.Error(), "callbackUrl") {
		t.Errorf("error should name the missing field: %v", err)
	}
	if len(fetcher.urls) != 0 || len(callbacks.payloads) != 0 {
		t.Fatalf("rejected job must not download or call back")
	}
}

func TestProcessFileUnsupportedExtensionRejected(t *testing.T) {
	job := fileJob()
	job.FileURL = "https://files.example.com/scans/notes.docx"
	fetcher := &fetcherFake{}
	callbacks := &callbackFake{}
	uc := NewProcessUseCase(fetcher, &ocrFake{}, &pdfFake{}, &recognizerFake{}, callbacks, &scratchFake{}, 0)

	_, err := uc.ProcessFile(context.Background(), job)
	if !domain.IsKind(err, domain.ErrUnsupportedFormat) {
		t.Fatalf("expected unsupported format, got %v", err)
	}
	if len(fetcher.urls) != 0 || len(callbacks.payloads) != 0 {
		t.Fatalf("rejected job must not download or call back")
	}
}

func TestProcessFileDownloadFailureSendsFailureCallback(t *testing.T) {
	fetcher := &fetcherFake{err: domain.WrapError(domain.ErrAcquisition, "fetch.download", errors.New("connection refused"))}
	callbacks := &callbackFake{}
	uc := NewProcessUseCase(fetcher, &ocrFake{}, &pdfFake{}, &recognizerFake{}, callbacks, &scratchFake{}, 0)

	_, err := uc.ProcessFile(context.Background(), fileJob())
	if !domain.IsKind(err, domain.ErrAcquisition) {
		t.Fatalf("expected acquisition error, got %v", err)
	}

	if len(callbacks.payloads) != 1 {
		t.Fatalf("expected failure callback, got %d", len(callbacks.payloads))
	}
	payload := callbacks.payloads[0]
	if payload.Status != domain.JobFailed || payload.Results != nil {
		t.Fatalf("unexpected payload: %+v", payload)
	}
	if payload.Error == nil || payload.Error.Code != domain.CodeDownloadError {
		t.Fatalf("unexpected error detail: %+v", payload.Error)
	}
	if payload.Error.Message != "Failed to download file" {
		t.Errorf("message = %q", payload.Error.Message)
	}
}

func TestProcessFileExtractionFailureSendsFailureCallback(t *testing.T) {
	pdf := &pdfFake{err: errors.New("pdf open: malformed xref")}
	callbacks := &callbackFake{}
	scratch := &scratchFake{}
	uc := NewProcessUseCase(&fetcherFake{data: []byte("%PDF")}, &ocrFake{}, pdf, &recognizerFake{}, callbacks, scratch, 0)

	_, err := uc.ProcessFile(context.Background(), fileJob())
	if err == nil {
		t.Fatalf("expected error")
	}

	if len(callbacks.payloads) != 1 {
		t.Fatalf("expected failure callback, got %d", len(callbacks.payloads))
	}
	payload := callbacks.payloads[0]
	if payload.Error == nil || payload.Error.Code != domain.CodeProcessingError {
		t.Fatalf("unexpected error detail: %+v", payload.Error)
	}
	if !strings.Contains(payload.Error.Message, "extract pdf text") {
		t.Errorf("message = %q", payload.Error.Message)
	}
	if len(scratch.removed) != 1 {
		t.Fatalf("staged file must be cleaned up after failure, removed=%v", scratch.removed)
	}
}

func TestProcessFileEmptyTextIsFatal(t *testing.T) {
	pdf := &pdfFake{pages: []domain.PageText{
		{PageNumber: 1, Confidence: 0, Error: "No text extracted"},
	}}
	callbacks := &callbackFake{}
	uc := NewProcessUseCase(&fetcherFake{data: []byte("%PDF")}, &ocrFake{}, pdf, &recognizerFake{}, callbacks, &scratchFake{}, 0)

	_, err := uc.ProcessFile(context.Background(), fileJob())
	if !domain.IsKind(err, domain.ErrEmptyDocument) {
		t.Fatalf("expected empty document error, got %v", err)
	}

	if len(callbacks.payloads) != 1 {
		t.Fatalf("expected failure callback, got %d", len(callbacks.payloads))
	}
	payload := callbacks.payloads[0]
	if payload.Error == nil || payload.Error.Code != domain.CodeProcessingError {
		t.Fatalf("unexpected error detail: %+v", payload.Error)
	}
	if payload.Error.Message != "No text could be extracted from the document" {
		t.Errorf("message = %q", payload.Error.Message)
	}
}

func TestProcessFileCallbackFailureKeepsAcknowledgment(t *testing.T) {
	pdf := &pdfFake{pages: []domain.PageText{{PageNumber: 1, Text: "routine checkup", Confidence: 0.95, WordCount: 2}}}
	callbacks := &callbackFake{err: errors.New("callback refused")}
	uc := NewProcessUseCase(&fetcherFake{data: []byte("%PDF")}, &ocrFake{}, pdf, &recognizerFake{}, callbacks, &scratchFake{}, 0)

	ack, err := uc.ProcessFile(context.Background(), fileJob())
	if err != nil {
		t.Fatalf("callback failure must not fail the job: %v", err)
	}
	if !ack.Completed {
		t.Fatalf("unexpected ack: %+v", ack)
	}
	if len(callbacks.payloads) != 1 {
		t.Fatalf("expected exactly one delivery attempt, got %d", len(callbacks.payloads))
	}
}

func TestProcessFileNameFallbackWhenURLHasNoPath(t *testing.T) {
	job := fileJob()
	job.FileURL = "https://cdn.example.com"
	job.FileName = "scan.png"
	ocr := &ocrFake{page: domain.PageText{Text: "consultation visit", Confidence: 0.9, WordCount: 2}}
	scratch := &scratchFake{}
	uc := NewProcessUseCase(&fetcherFake{data: []byte("png")}, ocr, &pdfFake{}, &recognizerFake{}, &callbackFake{}, scratch, 0)

	if _, err := uc.ProcessFile(context.Background(), job); err != nil {
		t.Fatalf("ProcessFile() error = %v", err)
	}
	if ocr.calls != 1 {
		t.Fatalf("expected ocr path, calls=%d", ocr.calls)
	}
	if len(scratch.saved) != 1 || scratch.saved[0] != "job-1_scan.png" {
		t.Fatalf("staged keys = %v", scratch.saved)
	}
}

func TestProcessTextDirect(t *testing.T) {
	job := domain.ProcessingJob{
		JobID:         "job-2",
		FileID:        "file-2",
		ExtractedText: "Patient taking Aspirin 100 mg daily. BP: 150/95",
		CallbackURL:   "https://backend.example.com/callback",
	}
	fetcher := &fetcherFake{}
	callbacks := &callbackFake{}
	uc := NewProcessUseCase(fetcher, &ocrFake{}, &pdfFake{}, &recognizerFake{}, callbacks, &scratchFake{}, 0)

	ack, err := uc.ProcessText(context.Background(), job)
	if err != nil {
		t.Fatalf("ProcessText() error = %v", err)
	}
	if !ack.Completed || ack.TextLength != len([]rune(job.ExtractedText)) {
		t.Fatalf("unexpected ack: %+v", ack)
	}
	if len(fetcher.urls) != 0 {
		t.Fatalf("direct text must not download")
	}

	if len(callbacks.payloads) != 1 {
		t.Fatalf("expected 1 callback, got %d", len(callbacks.payloads))
	}
	payload := callbacks.payloads[0]
	if payload.Status != domain.JobCompleted || payload.Results == nil {
		t.Fatalf("unexpected payload: %+v", payload)
	}
	if payload.Metadata.ModelVersion != "" {
		t.Errorf("direct text must not report a model version, got %q", payload.Metadata.ModelVersion)
	}

	result := payload.Results
	if result.ProcessingInfo.ProcessingMethod != "text_direct" {
		t.Errorf("method = %q", result.ProcessingInfo.ProcessingMethod)
	}
	if result.QualityMetrics.OCRConfidence != 1.0 {
		t.Errorf("direct text confidence = %v, want 1.0", result.QualityMetrics.OCRConfidence)
	}
	if got := len(result.Entities.Medications); got != 2 {
		t.Errorf("medications = %d, want 2 (both patterns match)", got)
	}
	if got := len(result.Entities.Vitals); got != 1 {
		t.Errorf("vitals = %d, want 1", got)
	}
}

func TestProcessTextMissingFieldsRejected(t *testing.T) {
	job := domain.ProcessingJob{JobID: "job-3", FileID: "file-3", CallbackURL: "https://backend.example.com/cb"}
	callbacks := &callbackFake{}
	uc := NewProcessUseCase(&fetcherFake{}, &ocrFake{}, &pdfFake{}, &recognizerFake{}, callbacks, &scratchFake{}, 0)

	_, err := uc.ProcessText(context.Background(), job)
	if !domain.IsKind(err, domain.ErrInvalidInput) {
		t.Fatalf("expected invalid input, got %v", err)
	}
	if len(callbacks.payloads) != 0 {
		t.Fatalf("rejected job must not call back")
	}
}

func TestDocumentName(t *testing.T) {
	cases := []struct {
		name string
		job  domain.ProcessingJob
		want string
	}{
		{"url path", domain.ProcessingJob{FileURL: "https://h.example.com/a/b/report.pdf", FileName: "x.png"}, "report.pdf"},
		{"query ignored", domain.ProcessingJob{FileURL: "https://h.example.com/scan.jpg?token=abc", FileName: "x"}, "scan.jpg"},
		{"no path", domain.ProcessingJob{FileURL: "https://h.example.com", FileName: "fallback.pdf"}, "fallback.pdf"},
		{"root path", domain.ProcessingJob{FileURL: "https://h.example.com/", FileName: "fallback.pdf"}, "fallback.pdf"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := documentName(tc.job); got != tc.want {
				t.Fatalf("documentName() = %q, want %q", got, tc.want)
			}
		})
	}
}

func TestMergePages(t *testing.T) {
	merged := mergePages([]domain.PageText{
		{Text: "page one", Confidence: 0.9, WordCount: 2},
		{Text: "", Confidence: 0, WordCount: 0, Error: "No text extracted"},
		{Text: "page three", Confidence: 0.6, WordCount: 2},
	})
	if merged.text != "page one\n\npage three" {
		t.Errorf("text = %q", merged.text)
	}
	if math.Abs(merged.confidence-0.5) > 1e-9 {
		t.Errorf("confidence = %v, want 0.5", merged.confidence)
	}
	if merged.wordCount != 4 || merged.pageCount != 3 {
		t.Errorf("wordCount=%d pageCount=%d", merged.wordCount, merged.pageCount)
	}

	empty := mergePages(nil)
	if empty.text != "" || empty.confidence != 0 || empty.pageCount != 0 {
		t.Errorf("empty merge = %+v", empty)
	}
}

package domain

import (
	"reflect"
	"testing"
)

func TestProcessingJobKind(t *testing.T) {
	cases := []struct {
		name string
		job  ProcessingJob
		want IntakeKind
	}{
		{"text supplied", ProcessingJob{ExtractedText: "Patient stable."}, IntakeText},
		{"whitespace text is not text intake", ProcessingJob{ExtractedText: "   \n"}, IntakeFile},
		{"file url", ProcessingJob{FileURL: "https://files.example.com/a.pdf"}, IntakeFile},
		{"empty job defaults to file", ProcessingJob{}, IntakeFile},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := tc.job.Kind(); got != tc.want {
				t.Errorf("Kind() = %s, want %s", got, tc.want)
			}
		})
	}
}

func TestProcessingJobRequiredFields(t *testing.T) {
	text := ProcessingJob{ExtractedText: "note"}
	if got := text.RequiredFields(); !reflect.DeepEqual(got, []string{"jobId", "fileId", "extractedText", "callbackUrl"}) {
		t.Errorf("text job fields = %v", got)
	}

	file := ProcessingJob{FileURL: "https://files.example.com/a.pdf"}
	if got := file.RequiredFields(); !reflect.DeepEqual(got, []string{"jobId", "fileId", "fileUrl", "callbackUrl"}) {
		t.Errorf("file job fields = %v", got)
	}
}

func TestProcessingJobMissing(t *testing.T) {
	job := ProcessingJob{JobID: "job-1", FileURL: "  ", CallbackURL: "https://cb.example.com/done"}
	got := job.Missing(FileJobFields)
	if want := []string{"fileId", "fileUrl"}; !reflect.DeepEqual(got, want) {
		t.Errorf("Missing() = %v, want %v", got, want)
	}

	complete := ProcessingJob{
		JobID:       "job-1",
		FileID:      "file-1",
		FileURL:     "https://files.example.com/a.pdf",
		CallbackURL: "https://cb.example.com/done",
	}
	if got := complete.Missing(FileJobFields); len(got) != 0 {
		t.Errorf("Missing() = %v for a complete job", got)
	}
}

func TestProcessingJobWithDefaults(t *testing.T) {
	job := ProcessingJob{JobID: "job-1"}.WithDefaults()
	if job.FileName != "unknown" {
		t.Errorf("FileName = %q, want unknown", job.FileName)
	}
	if job.MimeType != "application/octet-stream" {
		t.Errorf("MimeType = %q, want application/octet-stream", job.MimeType)
	}

	set := ProcessingJob{FileName: "visit.pdf", MimeType: "application/pdf"}.WithDefaults()
	if set.FileName != "visit.pdf" || set.MimeType != "application/pdf" {
		t.Errorf("WithDefaults overwrote provided values: %+v", set)
	}
}

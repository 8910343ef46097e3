package usecase

import (
	"context"
	"fmt"
	"log/slog"
	"time"
	"unicode/utf8"

	"github.com/mediscan/ai-service/internal/core/domain"
	"github.com/mediscan/ai-service/internal/core/ports"
)

// DispatchUseCase is the queue-intake processor: it validates the job the
// same way the inline pipeline would, then hands it to the work queue.
// The worker delivers the terminal callback, so the acknowledgment
// reports completed=false.
type DispatchUseCase struct {
	queue ports.JobQueue
	now   func() time.Time
}

func NewDispatchUseCase(queue ports.JobQueue) *DispatchUseCase {
	return &DispatchUseCase{
		queue: queue,
		now:   time.Now,
	}
}

func (uc *DispatchUseCase) ProcessFile(ctx context.Context, job domain.ProcessingJob) (domain.Acknowledgment, error) {
	job = job.WithDefaults()
	if err := validateFileJob(job); err != nil {
		return domain.Acknowledgment{}, err
	}
	return uc.enqueue(ctx, job)
}

func (uc *DispatchUseCase) ProcessText(ctx context.Context, job domain.ProcessingJob) (domain.Acknowledgment, error) {
	job = job.WithDefaults()
	if err := validateTextJob(job); err != nil {
		return domain.Acknowledgment{}, err
	}
	return uc.enqueue(ctx, job)
}

func (uc *DispatchUseCase) enqueue(ctx context.Context, job domain.ProcessingJob) (domain.Acknowledgment, error) {
	started := uc.now()

	if err := uc.queue.Publish(ctx, job); err != nil {
		return domain.Acknowledgment{}, fmt.Errorf("enqueue job: %w", err)
	}

	slog.Info("job_enqueued", "job_id", job.JobID, "file_id", job.FileID, "kind", string(job.Kind()))

	return domain.Acknowledgment{
		JobID:            job.JobID,
		ProcessingTimeMS: uc.now().Sub(started).Milliseconds(),
		Completed:        false,
		TextLength:       utf8.RuneCountInString(job.ExtractedText),
	}, nil
}

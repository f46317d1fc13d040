package verify

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strings"
	"time"

	"github.com/signal-verifier/internal/domain"
	"github.com/signal-verifier/internal/pkg/id"
)

// Detector is the external OCR capability: given image bytes it returns the
// detected text regions. Implementations may be CPU/model-bound; the worker
// invokes it from its own goroutine so callers are never stalled.
type Detector interface {
	Detect(ctx context.Context, image []byte) ([]domain.Region, error)
}

// IdentityStore is the minimal read surface the worker needs for the handle
// cross-check.
type IdentityStore interface {
	Get(ctx context.Context, userID string) (*domain.LinkedIdentity, error)
}

// HistoryLog receives one append-only audit entry per processed job.
type HistoryLog interface {
	Append(ctx context.Context, e *domain.HistoryEntry) error
}

// OutcomeSink receives the structured verification outcome. The sink owns all
// user-facing rendering and role side effects; the worker does not depend on
// its success.
type OutcomeSink interface {
	Emit(ctx context.Context, o *domain.Outcome) error
}

// ScreenshotArchive stores submitted images for audit. Optional.
type ScreenshotArchive interface {
	Upload(ctx context.Context, key string, r io.Reader, contentType string) (string, error)
}

// WorkerDeps bundles the worker's collaborators.
type WorkerDeps struct {
	Detector   Detector
	Identities IdentityStore
	History    HistoryLog
	Sink       OutcomeSink
	Archive    ScreenshotArchive // may be nil
	QueueSize  int
}

// Worker drains the job queue one job at a time: OCR, classification, score
// extraction, tier resolution, identity cross-check, then outcome emission
// and history logging. Any failure or panic is logged and the job dropped;
// the loop itself never dies to a single bad job.
type Worker struct {
	jobs       chan domain.VerificationJob
	detector   Detector
	identities IdentityStore
	history    HistoryLog
	sink       OutcomeSink
	archive    ScreenshotArchive
}

func NewWorker(deps WorkerDeps) *Worker {
	size := deps.QueueSize
	if size <= 0 {
		size = 256
	}
	return &Worker{
		jobs:       make(chan domain.VerificationJob, size),
		detector:   deps.Detector,
		identities: deps.Identities,
		history:    deps.History,
		sink:       deps.Sink,
		archive:    deps.Archive,
	}
}

// Enqueue hands a job to the worker without blocking the producer. When the
// buffer is full the job is rejected with an error; at expected submission
// rates this does not happen.
func (w *Worker) Enqueue(job domain.VerificationJob) error {
	if job.JobID == "" {
		job.JobID = id.New()
	}
	select {
	case w.jobs <- job:
		return nil
	default:
		return fmt.Errorf("verification queue full, dropping job for user %s", job.SubmitterID)
	}
}

// Run consumes jobs until ctx is cancelled. Meant to be started once, in its
// own goroutine, by the process bootstrap.
func (w *Worker) Run(ctx context.Context) {
	slog.Info("verification worker started")
	for {
		select {
		case <-ctx.Done():
			slog.Info("verification worker stopped")
			return
		case job := <-w.jobs:
			w.processSafely(ctx, job)
		}
	}
}

func (w *Worker) processSafely(ctx context.Context, job domain.VerificationJob) {
	defer func() {
		if r := recover(); r != nil {
			slog.Error("panic while processing job", "job_id", job.JobID, "user_id", job.SubmitterID, "panic", r)
		}
	}()
	if err := w.process(ctx, job); err != nil {
		slog.Error("job processing failed", "job_id", job.JobID, "user_id", job.SubmitterID, "err", err)
	}
}

func (w *Worker) process(ctx context.Context, job domain.VerificationJob) error {
	regions, err := w.detector.Detect(ctx, job.Image)
	if err != nil {
		return fmt.Errorf("detect text regions: %w", err)
	}

	project := Classify(regions)
	score := ExtractScore(project, regions)
	slog.Info("screenshot analyzed", "job_id", job.JobID, "project", project, "score", score)

	linked, err := w.identities.Get(ctx, job.SubmitterID)
	if err != nil && !errors.Is(err, domain.ErrNotFound) {
		return fmt.Errorf("load linked identity: %w", err)
	}

	mismatch := ""
	if linked != nil {
		if handle := ExtractHandle(regions); handle != "" && !strings.EqualFold(handle, linked.ExternalUsername) {
			mismatch = fmt.Sprintf("found @%s in image, but the linked account is @%s",
				handle, strings.ToLower(linked.ExternalUsername))
		}
	}

	tier := ""
	if score != "" && mismatch == "" {
		tier = ResolveTier(project, score)
	}

	if w.archive != nil {
		key := "screenshots/" + job.JobID + ".png"
		if _, err := w.archive.Upload(ctx, key, bytes.NewReader(job.Image), "image/png"); err != nil {
			slog.Warn("screenshot archive upload failed", "job_id", job.JobID, "err", err)
		}
	}

	// The history entry is written even when nothing was detected; the audit
	// trail records attempts, not just successes.
	entry := &domain.HistoryEntry{
		EntryID:     id.New(),
		UserID:      job.SubmitterID,
		DisplayName: job.DisplayName,
		GuildID:     job.GuildID,
		Project:     project,
		Score:       score,
		Tier:        tier,
		Timestamp:   time.Now().Unix(),
	}
	if err := w.history.Append(ctx, entry); err != nil {
		slog.Warn("history append failed", "job_id", job.JobID, "err", err)
	}

	outcome := &domain.Outcome{
		Success:        score != "" && mismatch == "",
		SubmitterID:    job.SubmitterID,
		GuildID:        job.GuildID,
		Project:        project,
		Score:          score,
		Tier:           tier,
		HandleMismatch: mismatch,
	}
	if linked != nil {
		outcome.LinkedUsername = linked.ExternalUsername
		outcome.LinkedVerified = linked.DisplayVerified()
	}
	if err := w.sink.Emit(ctx, outcome); err != nil {
		slog.Warn("outcome emission failed", "job_id", job.JobID, "err", err)
	}
	return nil
}

package usecase

import (
	"context"
	"fmt"
	"io"
	"time"

	"github.com/matterdesk/bundler/internal/core/domain"
	"github.com/matterdesk/bundler/internal/core/ports"
)

// PipelineMetrics is the observability hook for fingerprint resolution.
type PipelineMetrics interface {
	StartFingerprint()
	FinishFingerprint(duration time.Duration, failed bool)
	ObserveQueueLag(lag time.Duration)
}

// ResolveFingerprintUseCase is the worker side of the hashing pipeline: it
// reads the staged content, computes the digest and delivers the terminal
// outcome to the evidence store. An unreadable source is recorded as the
// Failed outcome rather than surfaced as an error; only store-level faults
// propagate.
type ResolveFingerprintUseCase struct {
	store   ports.EvidenceStore
	blobs   ports.BlobStore
	metrics PipelineMetrics
	now     func() time.Time
}

func NewResolveFingerprintUseCase(
	store ports.EvidenceStore,
	blobs ports.BlobStore,
	metrics PipelineMetrics,
) *ResolveFingerprintUseCase {
	return &ResolveFingerprintUseCase{
		store:   store,
		blobs:   blobs,
		metrics: metrics,
		now:     time.Now,
	}
}

func (uc *ResolveFingerprintUseCase) ResolveByID(ctx context.Context, itemID string) error {
	started := uc.now()
	if uc.metrics != nil {
		uc.metrics.StartFingerprint()
	}

	item, err := uc.store.GetByID(ctx, itemID)
	if err != nil {
		uc.finish(started, true)
		return fmt.Errorf("fetch item for fingerprint: %w", err)
	}
	if uc.metrics != nil {
		uc.metrics.ObserveQueueLag(started.Sub(item.UploadedAt))
	}

	outcome := uc.compute(ctx, item.StorageKey)
	if err := uc.store.ApplyFingerprintResult(ctx, itemID, outcome); err != nil {
		uc.finish(started, true)
		return fmt.Errorf("apply fingerprint result: %w", err)
	}

	uc.finish(started, outcome.Failed())
	return nil
}

// compute never returns an error: any read failure is the Failed outcome.
func (uc *ResolveFingerprintUseCase) compute(ctx context.Context, storageKey string) domain.FingerprintOutcome {
	reader, err := uc.blobs.Open(ctx, storageKey)
	if err != nil {
		return domain.FingerprintOutcome{}
	}
	defer reader.Close()

	raw, err := io.ReadAll(reader)
	if err != nil {
		return domain.FingerprintOutcome{}
	}
	return domain.FingerprintOutcome{Fingerprint: domain.ComputeFingerprint(raw)}
}

func (uc *ResolveFingerprintUseCase) finish(started time.Time, failed bool) {
	if uc.metrics != nil {
		uc.metrics.FinishFingerprint(uc.now().Sub(started), failed)
	}
}

package usecase

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"path/filepath"
	"strings"
	"time"

	"github.com/matterdesk/bundler/internal/core/domain"
	"github.com/matterdesk/bundler/internal/core/ports"
)

// IngestEvidenceUseCase creates evidence items from raw files and schedules
// fingerprint computation. Ingestion is synchronous up to the point the item
// exists in the store; it never waits on the hash.
type IngestEvidenceUseCase struct {
	store    ports.EvidenceStore
	blobs    ports.BlobStore
	queue    ports.FingerprintQueue
	operator string
	now      func() time.Time
}

func NewIngestEvidenceUseCase(
	store ports.EvidenceStore,
	blobs ports.BlobStore,
	queue ports.FingerprintQueue,
	operator string,
) *IngestEvidenceUseCase {
	return &IngestEvidenceUseCase{
		store:    store,
		blobs:    blobs,
		queue:    queue,
		operator: operator,
		now:      time.Now,
	}
}

func (uc *IngestEvidenceUseCase) Ingest(
	ctx context.Context,
	filename, mediaType string,
	body io.Reader,
) (*domain.EvidenceItem, error) {
	raw, err := io.ReadAll(body)
	if err != nil {
		return nil, fmt.Errorf("read source file: %w", err)
	}

	id := domain.NewID()
	storageKey := fmt.Sprintf("%s_%s", id, sanitizeStorageName(filename))
	now := uc.now().UTC()

	if err := uc.blobs.Save(ctx, storageKey, bytes.NewReader(raw)); err != nil {
		return nil, fmt.Errorf("stage source content: %w", err)
	}

	item := &domain.EvidenceItem{
		ID:               id,
		DisplayName:      filename,
		MediaType:        mediaType,
		FileType:         domain.ClassifyFileType(mediaType),
		ByteSize:         int64(len(raw)),
		FormattedSize:    domain.FormatByteSize(int64(len(raw))),
		StorageKey:       storageKey,
		UploadedAt:       now,
		FingerprintState: domain.FingerprintPending,
		AuditTrail: []domain.AuditEntry{
			{Action: domain.AuditActionUploaded, Timestamp: now, Actor: uc.operator},
		},
	}

	// Insert assigns the evidence number from the store's session counter.
	if err := uc.store.Insert(ctx, item); err != nil {
		return nil, fmt.Errorf("insert evidence item: %w", err)
	}

	if err := uc.queue.PublishFingerprintRequested(ctx, item.ID); err != nil {
		return nil, fmt.Errorf("schedule fingerprint: %w", err)
	}

	return item, nil
}

// IngestBatch processes the collaborator's ordered file list, preserving
// order so evidence numbers follow selection order.
func (uc *IngestEvidenceUseCase) IngestBatch(ctx context.Context, files []ports.IngestFile) ([]*domain.EvidenceItem, error) {
	items := make([]*domain.EvidenceItem, 0, len(files))
	for _, f := range files {
		item, err := uc.Ingest(ctx, f.Filename, f.MediaType, f.Body)
		if err != nil {
			return items, fmt.Errorf("ingest %s: %w", f.Filename, err)
		}
		items = append(items, item)
	}
	return items, nil
}

func sanitizeStorageName(name string) string {
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
		return "evidence.bin"
	}
	return base
}

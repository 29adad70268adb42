package usecase

import (
	"context"
	"errors"
	"fmt"
	"io"
	"sync"

	"github.com/matterdesk/bundler/internal/core/domain"
	"github.com/matterdesk/bundler/internal/core/ports"
)

// ErrPreviewRevoked is returned when a preview reference is used after the
// collaborator has released it.
var ErrPreviewRevoked = errors.New("preview reference revoked")

// TextExcerpter extracts a leading plain-text excerpt from stored content.
type TextExcerpter interface {
	Excerpt(ctx context.Context, storageKey string, maxRunes int) (string, error)
}

// PreviewRef is the in-process analog of a revocable object URL: it holds
// the preview bytes until the viewer collaborator revokes it.
type PreviewRef struct {
	ItemID    string
	MediaType string

	mu      sync.Mutex
	data    []byte
	revoked bool
}

// Bytes returns the preview content; it fails after Revoke.
func (r *PreviewRef) Bytes() ([]byte, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.revoked {
		return nil, ErrPreviewRevoked
	}
	return r.data, nil
}

// Revoke releases the reference. Revoking twice is harmless.
func (r *PreviewRef) Revoke() {
	r.mu.Lock()
	r.data = nil
	r.revoked = true
	r.mu.Unlock()
}

// PreviewUseCase serves the preview boundary: image items get a revocable
// byte reference, pdf items a text excerpt, and any item's raw content can
// be handed to an external viewer, which owns rendering it.
type PreviewUseCase struct {
	evidence  ports.EvidenceStore
	blobs     ports.BlobStore
	excerpter TextExcerpter
}

func NewPreviewUseCase(evidence ports.EvidenceStore, blobs ports.BlobStore, excerpter TextExcerpter) *PreviewUseCase {
	return &PreviewUseCase{evidence: evidence, blobs: blobs, excerpter: excerpter}
}

// ImagePreview returns a revocable preview reference for an image item.
func (uc *PreviewUseCase) ImagePreview(ctx context.Context, itemID string) (*PreviewRef, error) {
	item, err := uc.evidence.GetByID(ctx, itemID)
	if err != nil {
		return nil, fmt.Errorf("fetch item for preview: %w", err)
	}
	if item.FileType != domain.FileTypeImage {
		return nil, domain.WrapError(domain.ErrInvalidInput, "image preview",
			fmt.Errorf("item is %s, not image", item.FileType))
	}

	raw, err := uc.readAll(ctx, item.StorageKey)
	if err != nil {
		return nil, fmt.Errorf("load preview content: %w", err)
	}
	return &PreviewRef{ItemID: item.ID, MediaType: item.MediaType, data: raw}, nil
}

// Raw hands the collaborator the stored source bytes for any item.
func (uc *PreviewUseCase) Raw(ctx context.Context, itemID string) (io.ReadCloser, error) {
	item, err := uc.evidence.GetByID(ctx, itemID)
	if err != nil {
		return nil, fmt.Errorf("fetch item: %w", err)
	}
	reader, err := uc.blobs.Open(ctx, item.StorageKey)
	if err != nil {
		return nil, fmt.Errorf("open source content: %w", err)
	}
	return reader, nil
}

// Excerpt extracts up to maxRunes of leading text from a pdf item.
func (uc *PreviewUseCase) Excerpt(ctx context.Context, itemID string, maxRunes int) (string, error) {
	item, err := uc.evidence.GetByID(ctx, itemID)
	if err != nil {
		return "", fmt.Errorf("fetch item for excerpt: %w", err)
	}
	if item.FileType != domain.FileTypePDF {
		return "", domain.WrapError(domain.ErrInvalidInput, "text excerpt",
			fmt.Errorf("item is %s, not pdf", item.FileType))
	}
	text, err := uc.excerpter.Excerpt(ctx, item.StorageKey, maxRunes)
	if err != nil {
		return "", fmt.Errorf("extract excerpt: %w", err)
	}
	return text, nil
}

func (uc *PreviewUseCase) readAll(ctx context.Context, key string) ([]byte, error) {
	reader, err := uc.blobs.Open(ctx, key)
	if err != nil {
		return nil, err
	}
	defer reader.Close()
	return io.ReadAll(reader)
}

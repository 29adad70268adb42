package ports

import (
	"context"
	"io"

	"github.com/matterdesk/bundler/internal/core/compose"
	"github.com/matterdesk/bundler/internal/core/domain"
)

// EvidenceStore owns the canonical collection of evidence items. Insert
// assigns the item's evidence number from the store's session counter.
type EvidenceStore interface {
	Insert(ctx context.Context, item *domain.EvidenceItem) error
	GetByID(ctx context.Context, id string) (*domain.EvidenceItem, error)
	List(ctx context.Context) ([]domain.EvidenceItem, error)
	Search(ctx context.Context, query string) ([]domain.EvidenceItem, error)
	ApplyFingerprintResult(ctx context.Context, id string, outcome domain.FingerprintOutcome) error
	ToggleFavourite(ctx context.Context, id string) error
}

// BundleStore owns the canonical collection of bundles; it references
// evidence items by identity only.
type BundleStore interface {
	Create(ctx context.Context) (*domain.Bundle, error)
	CreateFromSelection(ctx context.Context, itemIDs []string, name string) (*domain.Bundle, error)
	GetByID(ctx context.Context, id string) (*domain.Bundle, error)
	List(ctx context.Context) ([]domain.Bundle, error)
	Active(ctx context.Context) (*domain.Bundle, error)
	SetActive(ctx context.Context, id string) error
	Rename(ctx context.Context, id, name string) error
	ToggleMembership(ctx context.Context, bundleID, itemID string) (*domain.Bundle, error)
	UpdateSettings(ctx context.Context, id string, patch domain.SettingsPatch) error
	SetAuthorisers(ctx context.Context, id string, names []string) error
	RemoveAuthoriser(ctx context.Context, id, name string) error
	Delete(ctx context.Context, id string) error
}

// BlobStore stages raw source file content for the session.
type BlobStore interface {
	Save(ctx context.Context, key string, data io.Reader) error
	Open(ctx context.Context, key string) (io.ReadCloser, error)
}

// FingerprintQueue carries fingerprint jobs from ingestion to the pool
// workers. Subscribe blocks until the context is cancelled.
type FingerprintQueue interface {
	PublishFingerprintRequested(ctx context.Context, itemID string) error
	SubscribeFingerprintRequested(ctx context.Context, handler func(context.Context, string) error) error
}

// ArtifactRenderer serializes a composed page sequence into artifact bytes.
type ArtifactRenderer interface {
	Render(ctx context.Context, pages []compose.Page) ([]byte, error)
}

// ManifestWriter serializes a bundle's resolved items into a manifest
// workbook.
type ManifestWriter interface {
	Write(ctx context.Context, bundleName string, items []domain.EvidenceItem) ([]byte, error)
}

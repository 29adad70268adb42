package ports

import (
	"context"
	"io"

	"github.com/matterdesk/bundler/internal/core/domain"
)

// EvidenceIngestor is the inbound contract for the ingestion boundary.
type EvidenceIngestor interface {
	Ingest(ctx context.Context, filename, mediaType string, body io.Reader) (*domain.EvidenceItem, error)
	IngestBatch(ctx context.Context, files []IngestFile) ([]*domain.EvidenceItem, error)
}

// IngestFile is one raw file handed over by the file-selection collaborator.
type IngestFile struct {
	Filename  string
	MediaType string
	Body      io.Reader
}

// FingerprintResolver is the inbound contract for asynchronous fingerprint
// resolution, invoked by the pipeline workers.
type FingerprintResolver interface {
	ResolveByID(ctx context.Context, itemID string) error
}

// BundleGenerator produces downloadable artifacts from a bundle.
type BundleGenerator interface {
	Generate(ctx context.Context, bundleID string) (*domain.Artifact, error)
	ExportManifest(ctx context.Context, bundleID string) (*domain.Artifact, error)
}

// EvidenceReader is the inbound read model for item metadata and state.
type EvidenceReader interface {
	GetByID(ctx context.Context, id string) (*domain.EvidenceItem, error)
	Search(ctx context.Context, query string) ([]domain.EvidenceItem, error)
}

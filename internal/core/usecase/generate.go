package usecase

import (
	"context"
	"fmt"
	"io"
	"sync"
	"time"

	"github.com/matterdesk/bundler/internal/core/compose"
	"github.com/matterdesk/bundler/internal/core/domain"
	"github.com/matterdesk/bundler/internal/core/ports"
)

// GenerationMetrics is the observability hook for artifact generation.
type GenerationMetrics interface {
	FinishGeneration(kind string, duration time.Duration, err error)
}

// GenerateBundleUseCase drives the compositor: snapshot the bundle, its
// resolved members and the matter, compose the page sequence, and serialize
// it through the renderer. Generation is serialized per bundle: a second
// request for the same bundle while one is in flight is rejected with
// ErrGenerationInFlight. Requests for different bundles may overlap.
type GenerateBundleUseCase struct {
	editor   *BundleEditorUseCase
	blobs    ports.BlobStore
	renderer ports.ArtifactRenderer
	manifest ports.ManifestWriter
	matter   domain.Matter
	metrics  GenerationMetrics
	now      func() time.Time

	mu       sync.Mutex
	inFlight map[string]struct{}
}

func NewGenerateBundleUseCase(
	editor *BundleEditorUseCase,
	blobs ports.BlobStore,
	renderer ports.ArtifactRenderer,
	manifest ports.ManifestWriter,
	matter domain.Matter,
	metrics GenerationMetrics,
) *GenerateBundleUseCase {
	return &GenerateBundleUseCase{
		editor:   editor,
		blobs:    blobs,
		renderer: renderer,
		manifest: manifest,
		matter:   matter,
		metrics:  metrics,
		now:      time.Now,
		inFlight: make(map[string]struct{}),
	}
}

// Generate produces the paginated bundle document. An empty resolved member
// list yields (nil, ErrEmptyBundle): the caller observes a no-op, not a
// failure.
func (uc *GenerateBundleUseCase) Generate(ctx context.Context, bundleID string) (*domain.Artifact, error) {
	release, err := uc.acquire(bundleID)
	if err != nil {
		return nil, err
	}
	defer release()

	started := uc.now()
	artifact, err := uc.generate(ctx, bundleID)
	uc.finish("pdf", started, err)
	return artifact, err
}

func (uc *GenerateBundleUseCase) generate(ctx context.Context, bundleID string) (*domain.Artifact, error) {
	bundle, items, err := uc.editor.ResolveMembers(ctx, bundleID)
	if err != nil {
		return nil, err
	}

	members := make([]compose.MemberItem, len(items))
	for i, item := range items {
		members[i] = compose.MemberItem{EvidenceItem: item}
		if item.FileType == domain.FileTypeImage {
			// A missing or unreadable source simply leaves Content nil and
			// the member degrades to a placeholder page downstream.
			members[i].Content = uc.readBlob(ctx, item.StorageKey)
		}
	}

	pages, err := compose.Compose(bundle, members, uc.matter, uc.now())
	if err != nil {
		return nil, err
	}

	data, err := uc.renderer.Render(ctx, pages)
	if err != nil {
		return nil, fmt.Errorf("render bundle document: %w", err)
	}

	return &domain.Artifact{
		Filename: compose.SuggestedFilename(bundle.Name) + ".pdf",
		MIME:     "application/pdf",
		Data:     data,
	}, nil
}

// ExportManifest writes the bundle's evidence register workbook under the
// same snapshot and serialization discipline as Generate.
func (uc *GenerateBundleUseCase) ExportManifest(ctx context.Context, bundleID string) (*domain.Artifact, error) {
	release, err := uc.acquire(bundleID)
	if err != nil {
		return nil, err
	}
	defer release()

	started := uc.now()
	artifact, err := uc.exportManifest(ctx, bundleID)
	uc.finish("manifest", started, err)
	return artifact, err
}

func (uc *GenerateBundleUseCase) exportManifest(ctx context.Context, bundleID string) (*domain.Artifact, error) {
	bundle, items, err := uc.editor.ResolveMembers(ctx, bundleID)
	if err != nil {
		return nil, err
	}
	if len(items) == 0 {
		return nil, domain.ErrEmptyBundle
	}

	data, err := uc.manifest.Write(ctx, bundle.Name, items)
	if err != nil {
		return nil, fmt.Errorf("write bundle manifest: %w", err)
	}

	return &domain.Artifact{
		Filename: compose.SuggestedFilename(bundle.Name) + ".xlsx",
		MIME:     "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet",
		Data:     data,
	}, nil
}

func (uc *GenerateBundleUseCase) acquire(bundleID string) (func(), error) {
	uc.mu.Lock()
	defer uc.mu.Unlock()
	if _, busy := uc.inFlight[bundleID]; busy {
		return nil, domain.ErrGenerationInFlight
	}
	uc.inFlight[bundleID] = struct{}{}
	return func() {
		uc.mu.Lock()
		delete(uc.inFlight, bundleID)
		uc.mu.Unlock()
	}, nil
}

func (uc *GenerateBundleUseCase) readBlob(ctx context.Context, key string) []byte {
	reader, err := uc.blobs.Open(ctx, key)
	if err != nil {
		return nil
	}
	defer reader.Close()
	raw, err := io.ReadAll(reader)
	if err != nil {
		return nil
	}
	return raw
}

func (uc *GenerateBundleUseCase) finish(kind string, started time.Time, err error) {
	if uc.metrics == nil {
		return
	}
	// The empty-bundle no-op is not a generation failure.
	if domain.IsKind(err, domain.ErrEmptyBundle) {
		err = nil
	}
	uc.metrics.FinishGeneration(kind, uc.now().Sub(started), err)
}

package usecase

import (
	"bytes"
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/matterdesk/bundler/internal/core/compose"
	"github.com/matterdesk/bundler/internal/core/domain"
	"github.com/matterdesk/bundler/internal/infrastructure/storage/memblob"
	"github.com/matterdesk/bundler/internal/infrastructure/store/memory"
)

var testMatter = domain.Matter{Name: "Smith & Smith", Number: "7729"}

type rendererFake struct {
	pages   []compose.Page
	err     error
	started chan struct{}
	release chan struct{}
}

func (f *rendererFake) Render(_ context.Context, pages []compose.Page) ([]byte, error) {
	if f.started != nil {
		close(f.started)
	}
	if f.release != nil {
		<-f.release
	}
	if f.err != nil {
		return nil, f.err
	}
	f.pages = pages
	return []byte("%PDF-fake"), nil
}

type manifestFake struct {
	bundleName string
	items      []domain.EvidenceItem
	err        error
}

func (f *manifestFake) Write(_ context.Context, bundleName string, items []domain.EvidenceItem) ([]byte, error) {
	if f.err != nil {
		return nil, f.err
	}
	f.bundleName = bundleName
	f.items = items
	return []byte("xlsx-fake"), nil
}

type generateFixture struct {
	evidence *memory.EvidenceStore
	bundles  *memory.BundleStore
	blobs    *memblob.Storage
	renderer *rendererFake
	manifest *manifestFake
	uc       *GenerateBundleUseCase
}

func newGenerateFixture(t *testing.T) *generateFixture {
	t.Helper()
	f := &generateFixture{
		evidence: memory.NewEvidenceStore("7729"),
		bundles:  memory.NewBundleStore(),
		blobs:    memblob.New(),
		renderer: &rendererFake{},
		manifest: &manifestFake{},
	}
	editor := NewBundleEditorUseCase(f.bundles, f.evidence)
	f.uc = NewGenerateBundleUseCase(editor, f.blobs, f.renderer, f.manifest, testMatter, nil)
	return f
}

func (f *generateFixture) ingest(t *testing.T, name, mediaType, content string) *domain.EvidenceItem {
	t.Helper()
	ingest := NewIngestEvidenceUseCase(f.evidence, f.blobs, &queueFake{}, "operator")
	item, err := ingest.Ingest(context.Background(), name, mediaType, bytes.NewBufferString(content))
	if err != nil {
		t.Fatalf("ingest %s: %v", name, err)
	}
	return item
}

func TestGenerateProducesArtifact(t *testing.T) {
	ctx := context.Background()
	f := newGenerateFixture(t)

	a := f.ingest(t, "statement.pdf", "application/pdf", "pdf")
	b := f.ingest(t, "letter.docx", "application/msword", "doc")
	bundle, err := f.bundles.CreateFromSelection(ctx, []string{a.ID, b.ID}, "Tax & Lifestyle / Q1!!")
	if err != nil {
		t.Fatalf("CreateFromSelection() error = %v", err)
	}

	artifact, err := f.uc.Generate(ctx, bundle.ID)
	if err != nil {
		t.Fatalf("Generate() error = %v", err)
	}
	if artifact.Filename != "Tax_Lifestyle_Q1.pdf" {
		t.Fatalf("filename = %q", artifact.Filename)
	}
	if artifact.MIME != "application/pdf" || string(artifact.Data) != "%PDF-fake" {
		t.Fatalf("artifact wrong: %q / %q", artifact.MIME, artifact.Data)
	}
	// cover + index + 2×(tab + placeholder)
	if len(f.renderer.pages) != 6 {
		t.Fatalf("expected 6 composed pages, got %d", len(f.renderer.pages))
	}
}

func TestGenerateDanglingMembersFiltered(t *testing.T) {
	ctx := context.Background()
	f := newGenerateFixture(t)

	a := f.ingest(t, "real.pdf", "application/pdf", "pdf")
	bundle, _ := f.bundles.CreateFromSelection(ctx, []string{"gone-1", a.ID, "gone-2"}, "Mixed")

	artifact, err := f.uc.Generate(ctx, bundle.ID)
	if err != nil {
		t.Fatalf("Generate() error = %v", err)
	}
	if artifact == nil {
		t.Fatalf("expected artifact")
	}
	// cover + index + 1×(tab + placeholder): dangling ids dropped silently.
	if len(f.renderer.pages) != 4 {
		t.Fatalf("expected 4 composed pages, got %d", len(f.renderer.pages))
	}
}

func TestGenerateEmptyBundleIsNoOp(t *testing.T) {
	ctx := context.Background()
	f := newGenerateFixture(t)

	bundle, _ := f.bundles.CreateFromSelection(ctx, []string{"gone-1", "gone-2"}, "Ghosts")
	artifact, err := f.uc.Generate(ctx, bundle.ID)
	if !errors.Is(err, domain.ErrEmptyBundle) {
		t.Fatalf("expected ErrEmptyBundle, got %v", err)
	}
	if artifact != nil {
		t.Fatalf("no-op must not produce an artifact")
	}
	if f.renderer.pages != nil {
		t.Fatalf("renderer must not run for an empty bundle")
	}
}

func TestGenerateUnknownBundle(t *testing.T) {
	f := newGenerateFixture(t)
	if _, err := f.uc.Generate(context.Background(), "nope"); !errors.Is(err, domain.ErrBundleNotFound) {
		t.Fatalf("expected ErrBundleNotFound, got %v", err)
	}
}

func TestGenerateRendererFaultPropagates(t *testing.T) {
	ctx := context.Background()
	f := newGenerateFixture(t)
	f.renderer.err = errors.New("serialization fault")

	a := f.ingest(t, "doc.pdf", "application/pdf", "pdf")
	bundle, _ := f.bundles.CreateFromSelection(ctx, []string{a.ID}, "Bundle")

	_, err := f.uc.Generate(ctx, bundle.ID)
	if err == nil || !strings.Contains(err.Error(), "render bundle document") {
		t.Fatalf("expected render fault to propagate, got %v", err)
	}
}

func TestGenerateSecondRequestRejectedWhileInFlight(t *testing.T) {
	ctx := context.Background()
	f := newGenerateFixture(t)
	f.renderer.started = make(chan struct{})
	f.renderer.release = make(chan struct{})

	a := f.ingest(t, "doc.pdf", "application/pdf", "pdf")
	bundle, _ := f.bundles.CreateFromSelection(ctx, []string{a.ID}, "Busy")

	firstDone := make(chan error, 1)
	go func() {
		_, err := f.uc.Generate(ctx, bundle.ID)
		firstDone <- err
	}()

	<-f.renderer.started
	if _, err := f.uc.Generate(ctx, bundle.ID); !errors.Is(err, domain.ErrGenerationInFlight) {
		t.Fatalf("expected ErrGenerationInFlight, got %v", err)
	}

	close(f.renderer.release)
	if err := <-firstDone; err != nil {
		t.Fatalf("first generation failed: %v", err)
	}

	// Once the first completes the bundle can be generated again.
	f.renderer.started = nil
	f.renderer.release = nil
	if _, err := f.uc.Generate(ctx, bundle.ID); err != nil {
		t.Fatalf("follow-up generation failed: %v", err)
	}
}

func TestExportManifest(t *testing.T) {
	ctx := context.Background()
	f := newGenerateFixture(t)

	a := f.ingest(t, "statement.pdf", "application/pdf", "pdf")
	bundle, _ := f.bundles.CreateFromSelection(ctx, []string{a.ID}, "Registry!")

	artifact, err := f.uc.ExportManifest(ctx, bundle.ID)
	if err != nil {
		t.Fatalf("ExportManifest() error = %v", err)
	}
	if artifact.Filename != "Registry.xlsx" {
		t.Fatalf("filename = %q", artifact.Filename)
	}
	if f.manifest.bundleName != "Registry!" || len(f.manifest.items) != 1 {
		t.Fatalf("manifest inputs wrong: %q / %d items", f.manifest.bundleName, len(f.manifest.items))
	}

	empty, _ := f.bundles.CreateFromSelection(ctx, []string{"gone"}, "Empty")
	if _, err := f.uc.ExportManifest(ctx, empty.ID); !errors.Is(err, domain.ErrEmptyBundle) {
		t.Fatalf("expected ErrEmptyBundle, got %v", err)
	}
}

func TestGenerateImageMemberGetsContent(t *testing.T) {
	ctx := context.Background()
	f := newGenerateFixture(t)

	img := f.ingest(t, "photo.png", "image/png", "raw-image-bytes")
	bundle, _ := f.bundles.CreateFromSelection(ctx, []string{img.ID}, "Photos")

	if _, err := f.uc.Generate(ctx, bundle.ID); err != nil {
		t.Fatalf("Generate() error = %v", err)
	}
	// Content is not a decodable image, so compose degrades it to a
	// placeholder rather than failing the document.
	var sawPlaceholder bool
	for _, page := range f.renderer.pages {
		if _, ok := page.(compose.PlaceholderPage); ok {
			sawPlaceholder = true
		}
		if _, ok := page.(compose.ImagePage); ok {
			t.Fatalf("undecodable image must not become an image page")
		}
	}
	if !sawPlaceholder {
		t.Fatalf("expected placeholder fallback page")
	}
}

func TestGenerateDifferentBundlesMayOverlap(t *testing.T) {
	ctx := context.Background()
	f := newGenerateFixture(t)
	f.renderer.started = make(chan struct{})
	f.renderer.release = make(chan struct{})

	a := f.ingest(t, "a.pdf", "application/pdf", "a")
	b := f.ingest(t, "b.pdf", "application/pdf", "b")
	first, _ := f.bundles.CreateFromSelection(ctx, []string{a.ID}, "First")
	second, _ := f.bundles.CreateFromSelection(ctx, []string{b.ID}, "Second")

	firstDone := make(chan error, 1)
	go func() {
		_, err := f.uc.Generate(ctx, first.ID)
		firstDone <- err
	}()
	<-f.renderer.started

	// Manifest export for another bundle is not blocked by the in-flight
	// generation of the first.
	if _, err := f.uc.ExportManifest(ctx, second.ID); err != nil {
		t.Fatalf("second bundle export blocked: %v", err)
	}

	close(f.renderer.release)
	if err := <-firstDone; err != nil {
		t.Fatalf("first generation failed: %v", err)
	}
}

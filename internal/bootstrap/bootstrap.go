package bootstrap

import (
	"github.com/matterdesk/bundler/internal/config"
	"github.com/matterdesk/bundler/internal/core/domain"
	"github.com/matterdesk/bundler/internal/core/ports"
	"github.com/matterdesk/bundler/internal/core/usecase"
	"github.com/matterdesk/bundler/internal/infrastructure/export/excel"
	"github.com/matterdesk/bundler/internal/infrastructure/preview/pdftext"
	"github.com/matterdesk/bundler/internal/infrastructure/queue/inproc"
	"github.com/matterdesk/bundler/internal/infrastructure/render/pdf"
	"github.com/matterdesk/bundler/internal/infrastructure/storage/memblob"
	"github.com/matterdesk/bundler/internal/infrastructure/store/memory"
	"github.com/matterdesk/bundler/internal/observability/metrics"
)

type App struct {
	Config  config.Config
	Metrics *metrics.Metrics

	Queue    ports.FingerprintQueue
	Evidence ports.EvidenceStore
	Bundles  ports.BundleStore

	IngestUC    ports.EvidenceIngestor
	ResolverUC  ports.FingerprintResolver
	EditorUC    *usecase.BundleEditorUseCase
	GeneratorUC ports.BundleGenerator
	PreviewUC   *usecase.PreviewUseCase

	closeFn func()
}

func New(cfg config.Config) *App {
	evidence := memory.NewEvidenceStore(cfg.MatterNumber)
	bundles := memory.NewBundleStore()
	blobs := memblob.New()
	queue := inproc.New(cfg.HashWorkers, cfg.HashQueueSize)
	m := metrics.New()

	matter := domain.Matter{Name: cfg.MatterName, Number: cfg.MatterNumber}

	ingestUC := usecase.NewIngestEvidenceUseCase(evidence, blobs, queue, cfg.OperatorName)
	resolverUC := usecase.NewResolveFingerprintUseCase(evidence, blobs, m)
	editorUC := usecase.NewBundleEditorUseCase(bundles, evidence)
	generatorUC := usecase.NewGenerateBundleUseCase(editorUC, blobs, pdf.New(), excel.New(), matter, m)
	previewUC := usecase.NewPreviewUseCase(evidence, blobs, pdftext.New(blobs))

	return &App{
		Config:  cfg,
		Metrics: m,

		Queue:    queue,
		Evidence: evidence,
		Bundles:  bundles,

		IngestUC:    ingestUC,
		ResolverUC:  resolverUC,
		EditorUC:    editorUC,
		GeneratorUC: generatorUC,
		PreviewUC:   previewUC,

		closeFn: queue.Close,
	}
}

func (a *App) Close() {
	if a.closeFn != nil {
		a.closeFn()
	}
}

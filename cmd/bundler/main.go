package main

import (
	"context"
	"fmt"
	"log"
	"log/slog"
	"mime"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/matterdesk/bundler/internal/bootstrap"
	"github.com/matterdesk/bundler/internal/config"
	"github.com/matterdesk/bundler/internal/core/domain"
	"github.com/matterdesk/bundler/internal/observability/logging"
)

func main() {
	cfg := config.Load()
	logger := logging.NewJSONLogger("bundler", cfg.LogLevel)

	if len(os.Args) < 2 {
		log.Fatalf("usage: bundler <file> [file ...]")
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	app := bootstrap.New(cfg)
	defer app.Close()

	mux := http.NewServeMux()
	mux.Handle("/metrics", app.Metrics.Handler())
	metricsServer := &http.Server{Addr: ":" + cfg.MetricsPort, Handler: mux}
	go func() {
		if err := metricsServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Printf("metrics server error: %v", err)
		}
	}()

	go func() {
		if err := app.Queue.SubscribeFingerprintRequested(ctx, app.ResolverUC.ResolveByID); err != nil {
			log.Printf("fingerprint subscriber error: %v", err)
		}
	}()

	if err := run(ctx, cfg, app, logger, os.Args[1:]); err != nil {
		log.Fatalf("bundler error: %v", err)
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	_ = metricsServer.Shutdown(shutdownCtx)
}

func run(ctx context.Context, cfg config.Config, app *bootstrap.App, logger *slog.Logger, paths []string) error {
	itemIDs := make([]string, 0, len(paths))
	for _, path := range paths {
		item, err := ingestPath(ctx, app, path)
		if err != nil {
			return err
		}
		itemIDs = append(itemIDs, item.ID)
		logger.Info("evidence ingested",
			"evidence_number", item.EvidenceNumber,
			"name", item.DisplayName,
			"type", string(item.FileType),
			"size", item.FormattedSize,
		)
	}

	bundle, err := app.Bundles.CreateFromSelection(ctx, itemIDs, "")
	if err != nil {
		return fmt.Errorf("create bundle: %w", err)
	}
	logger.Info("bundle created", "bundle", bundle.Name, "members", len(bundle.MemberIDs))

	if err := waitForFingerprints(ctx, app, 30*time.Second); err != nil {
		logger.Warn("fingerprints incomplete", "error", err)
	}

	if err := os.MkdirAll(cfg.OutputDir, 0o755); err != nil {
		return fmt.Errorf("prepare output dir: %w", err)
	}

	pdfArtifact, err := app.GeneratorUC.Generate(ctx, bundle.ID)
	if err != nil {
		return fmt.Errorf("generate bundle pdf: %w", err)
	}
	if err := writeArtifact(cfg.OutputDir, pdfArtifact); err != nil {
		return err
	}
	logger.Info("bundle pdf written", "file", pdfArtifact.Filename, "size", domain.FormatByteSize(int64(len(pdfArtifact.Data))))

	manifest, err := app.GeneratorUC.ExportManifest(ctx, bundle.ID)
	if err != nil {
		return fmt.Errorf("export manifest: %w", err)
	}
	if err := writeArtifact(cfg.OutputDir, manifest); err != nil {
		return err
	}
	logger.Info("manifest written", "file", manifest.Filename)

	return nil
}

func ingestPath(ctx context.Context, app *bootstrap.App, path string) (*domain.EvidenceItem, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", path, err)
	}
	defer f.Close()

	mediaType := mime.TypeByExtension(filepath.Ext(path))
	if mediaType == "" {
		mediaType = "application/octet-stream"
	}
	return app.IngestUC.Ingest(ctx, filepath.Base(path), mediaType, f)
}

// waitForFingerprints polls until every item has left the pending state.
// Generation does not require verified fingerprints, but the manifest is
// more useful once the pipeline has settled.
func waitForFingerprints(ctx context.Context, app *bootstrap.App, timeout time.Duration) error {
	deadline := time.Now().Add(timeout)
	ticker := time.NewTicker(100 * time.Millisecond)
	defer ticker.Stop()

	for {
		items, err := app.Evidence.List(ctx)
		if err != nil {
			return err
		}
		pending := 0
		for _, item := range items {
			if !item.FingerprintState.Terminal() {
				pending++
			}
		}
		if pending == 0 {
			return nil
		}
		if time.Now().After(deadline) {
			return fmt.Errorf("%d fingerprint(s) still pending after %s", pending, timeout)
		}

		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
		}
	}
}

func writeArtifact(dir string, artifact *domain.Artifact) error {
	path := filepath.Join(dir, artifact.Filename)
	if err := os.WriteFile(path, artifact.Data, 0o644); err != nil {
		return fmt.Errorf("write %s: %w", path, err)
	}
	return nil
}

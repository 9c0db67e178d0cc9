// Package bootstrap wires infrastructure to the use cases. Both binaries
// (api and worker) build the same App and pick the ports they need.
package bootstrap

import (
	"context"
	"fmt"
	"time"

	"github.com/taxdesk/taxdesk/internal/config"
	"github.com/taxdesk/taxdesk/internal/core/ports"
	"github.com/taxdesk/taxdesk/internal/core/usecase"
	"github.com/taxdesk/taxdesk/internal/infrastructure/export/xlsx"
	"github.com/taxdesk/taxdesk/internal/infrastructure/pdftext"
	"github.com/taxdesk/taxdesk/internal/infrastructure/queue/nats"
	"github.com/taxdesk/taxdesk/internal/infrastructure/repository/postgres"
	"github.com/taxdesk/taxdesk/internal/infrastructure/resilience"
	"github.com/taxdesk/taxdesk/internal/infrastructure/storage/localfs"
	"github.com/taxdesk/taxdesk/internal/infrastructure/vision"
)

type App struct {
	Config config.Config

	Queue ports.MessageQueue
	Repo  ports.DocumentRepository

	IngestUC      ports.DocumentIngestor
	ProcessUC     ports.DocumentProcessor
	ReaderUC      ports.DocumentReader
	CorrectionsUC ports.CorrectionApplier
	AggregateUC   ports.AggregateReader
	ItrUC         ports.ItrFormService
	ReportWriter  *xlsx.ReportWriter

	closeFn func()
}

func New(ctx context.Context, cfg config.Config) (*App, error) {
	db, err := postgres.OpenDB(cfg.PostgresDSN)
	if err != nil {
		return nil, fmt.Errorf("open postgres: %w", err)
	}
	repo := postgres.NewDocumentRepository(db)
	if err := repo.EnsureSchema(ctx); err != nil {
		return nil, fmt.Errorf("ensure schema: %w", err)
	}
	itrRepo := postgres.NewItrFormRepository(db)

	storage, err := localfs.New(cfg.StoragePath)
	if err != nil {
		return nil, fmt.Errorf("init object storage: %w", err)
	}

	executor := resilience.NewExecutor(resilience.DefaultConfig())
	queue, err := nats.NewWithOptions(cfg.NATSURL, cfg.NATSSubject, nats.Options{
		ResilienceExecutor: executor,
	})
	if err != nil {
		return nil, fmt.Errorf("init message queue: %w", err)
	}

	pdfExtractor := pdftext.NewExtractor()

	// nil when VISION_URL is unset; processing then relies on heuristics.
	var visionExtractor ports.VisionExtractor
	if client := vision.New(cfg.VisionURL, cfg.VisionModel, vision.WithResilienceExecutor(executor)); client != nil {
		visionExtractor = client
	}

	visionTimeout := time.Duration(cfg.VisionTimeoutSeconds) * time.Second

	reportUC := usecase.NewReportUseCase(repo, storage)

	return &App{
		Config: cfg,
		Queue:  queue,
		Repo:   repo,

		IngestUC:      usecase.NewIngestDocumentUseCase(repo, storage, queue),
		ProcessUC:     usecase.NewProcessDocumentUseCase(repo, storage, pdfExtractor, visionExtractor, visionTimeout),
		ReaderUC:      reportUC,
		CorrectionsUC: usecase.NewApplyCorrectionsUseCase(repo),
		AggregateUC:   reportUC,
		ItrUC:         usecase.NewItrFormUseCase(itrRepo),
		ReportWriter:  xlsx.NewReportWriter(),

		closeFn: func() {
			queue.Close()
			_ = db.Close()
		},
	}, nil
}

func (a *App) Close() {
	if a.closeFn != nil {
		a.closeFn()
	}
}

package app

import (
	"context"
	"log/slog"

	"github.com/joseph-ayodele/maritime-tracker/internal/acquire"
	"github.com/joseph-ayodele/maritime-tracker/internal/common"
	"github.com/joseph-ayodele/maritime-tracker/internal/export"
	"github.com/joseph-ayodele/maritime-tracker/internal/extract"
	"github.com/joseph-ayodele/maritime-tracker/internal/ingest"
	"github.com/joseph-ayodele/maritime-tracker/internal/maritime"
	processor "github.com/joseph-ayodele/maritime-tracker/internal/pipeline"
	repo "github.com/joseph-ayodele/maritime-tracker/internal/repository"
	"github.com/joseph-ayodele/maritime-tracker/internal/schema"
	"github.com/joseph-ayodele/maritime-tracker/internal/server"
)

// App holds the wired components shared by the binaries.
type App struct {
	DB        *repo.DB
	Files     repo.DocumentFileRepository
	Jobs      repo.ExtractJobRepository
	Engine    *maritime.Engine
	Extractor *acquire.Extractor
	Processor *processor.Processor
	Ingestor  *ingest.FSIngestor
	Export    *export.Service
	Logger    *slog.Logger
}

// AcquireConfig maps the acquire section of cfg onto acquire.Config.
func AcquireConfig(cfg common.AcquireConfig) acquire.Config {
	return acquire.Config{
		PDFEngine:   cfg.PDFEngine,
		Pdftotext:   cfg.PdftotextBin,
		MaxFileSize: cfg.MaxFileSize,
		MaxPages:    cfg.MaxPages,
	}
}

// New connects to the database and wires repositories, the text and parse stages,
// the ingestor and the exporter.
func New(ctx context.Context, cfg *common.Config, logger *slog.Logger) (*App, error) {
	if logger == nil {
		logger = slog.Default()
	}
	db, err := server.ConnectDB(ctx, cfg.Database, logger)
	if err != nil {
		return nil, err
	}
	validator, err := schema.NewValidator()
	if err != nil {
		repo.Close(db, logger)
		return nil, err
	}

	files := repo.NewDocumentFileRepository(db, logger)
	jobs := repo.NewExtractJobRepository(db, logger)
	extractor := acquire.NewExtractor(AcquireConfig(cfg.Acquire), logger)
	engine := maritime.NewEngine(logger)

	textStage := processor.NewTextStage(files, jobs, extract.NewTextAdapter(extractor, logger), logger)
	parseStage := processor.NewParseStage(files, jobs, engine, validator, logger)

	return &App{
		DB:        db,
		Files:     files,
		Jobs:      jobs,
		Engine:    engine,
		Extractor: extractor,
		Processor: processor.NewProcessor(logger, textStage, parseStage),
		Ingestor:  ingest.NewFSIngestor(files, logger),
		Export:    export.NewService(jobs, logger),
		Logger:    logger,
	}, nil
}

// ExtractionService builds the gRPC service over the app's components.
func (a *App) ExtractionService() *server.ExtractionService {
	return server.NewExtractionService(a.Engine, a.Ingestor, a.Processor, a.Jobs, a.Logger)
}

func (a *App) Close() {
	server.CloseDB(a.DB, a.Logger)
}

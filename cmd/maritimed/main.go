package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log/slog"
	"net"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/google/uuid"
	"google.golang.org/grpc"
	"google.golang.org/grpc/reflection"

	"github.com/joseph-ayodele/maritime-tracker/internal/app"
	"github.com/joseph-ayodele/maritime-tracker/internal/async"
	"github.com/joseph-ayodele/maritime-tracker/internal/common"
	"github.com/joseph-ayodele/maritime-tracker/internal/ingest"
	"github.com/joseph-ayodele/maritime-tracker/internal/server"
)

func main() {
	configPath := flag.String("config", "", "YAML config file (environment variables override it)")
	flag.Parse()

	cfg := common.LoadConfig()
	if *configPath != "" {
		var err error
		if cfg, err = common.LoadConfigFile(*configPath); err != nil {
			slog.Error("failed to load config", "path", *configPath, "error", err)
			os.Exit(2)
		}
	}

	logger := common.NewLogger(os.Stdout, cfg.Log.Level, cfg.Log.Format)
	slog.SetDefault(logger)

	if err := cfg.Validate(); err != nil {
		logger.Error("invalid configuration", "error", err)
		os.Exit(2)
	}
	if err := run(cfg, logger); err != nil {
		logger.Error("maritimed stopped", "error", err)
		os.Exit(1)
	}
}

// run serves until SIGINT or SIGTERM.
func run(cfg *common.Config, logger *slog.Logger) error {
	if logger == nil {
		logger = slog.Default()
	}
	addr := cfg.Server.GRPCAddr
	if !strings.Contains(addr, ":") {
		addr = ":" + addr
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	a, err := app.New(ctx, cfg, logger)
	if err != nil {
		return fmt.Errorf("open database: %w", err)
	}
	defer a.Close()

	if err := server.PingDB(ctx, a.DB, logger, 5*time.Second); err != nil {
		return fmt.Errorf("ping database: %w", err)
	}

	lis, err := net.Listen("tcp", addr)
	if err != nil {
		return fmt.Errorf("listen on %s: %w", addr, err)
	}

	queue := async.NewProcessorQueue(a.Processor, logger,
		async.WithWorkers(cfg.Queue.Workers),
		async.WithQueueSize(cfg.Queue.Size),
		async.WithProcessTimeout(cfg.Queue.ProcessTimeout),
	)
	defer func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Queue.ProcessTimeout)
		defer cancel()
		queue.Shutdown(shutdownCtx)
	}()

	if len(cfg.Watch.Dirs) > 0 {
		go watch(ctx, a.Ingestor, queue, cfg.Watch, logger)
	}

	grpcServer, hs := server.NewGRPCServer(a.ExtractionService(), logger)
	reflection.Register(grpcServer)

	logger.Info("maritime-tracker listening", "addr", addr)
	serveErr := make(chan error, 1)
	go func() {
		serveErr <- grpcServer.Serve(lis)
		stop()
	}()

	<-ctx.Done()
	logger.Info("shutting down")
	hs.Shutdown()
	grpcServer.GracefulStop()

	select {
	case err := <-serveErr:
		if err != nil && !errors.Is(err, grpc.ErrServerStopped) {
			return fmt.Errorf("grpc serve: %w", err)
		}
	default:
	}
	return nil
}

func watch(ctx context.Context, ing *ingest.FSIngestor, queue async.Queue, cfg common.WatchConfig, logger *slog.Logger) {
	wc := ingest.WatchConfig{
		Roots:       cfg.Dirs,
		InitialScan: cfg.InitialScan,
		Debounce:    cfg.Debounce,
		SkipHidden:  true,
		Logger:      logger,
	}
	err := ing.Watch(ctx, wc, func(ctx context.Context, r ingest.IngestionResult) {
		if r.Deduplicated {
			logger.Debug("skipping already ingested file", "path", r.SourcePath, "file_id", r.FileID)
			return
		}
		id, err := uuid.Parse(r.FileID)
		if err != nil {
			return
		}
		if err := queue.Enqueue(ctx, async.Job{FileID: id, Source: "watch"}); err != nil {
			logger.Warn("failed to enqueue watched file", "file_id", r.FileID, "error", err)
		}
	})
	if err != nil && !errors.Is(err, context.Canceled) {
		logger.Error("directory watch stopped", "error", err)
	}
}

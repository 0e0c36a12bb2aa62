package main

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	httpadapter "github.com/couchcryptid/plastic-waste-dashboard/internal/adapter/http"
	kafkaadapter "github.com/couchcryptid/plastic-waste-dashboard/internal/adapter/kafka"
	lambdaadapter "github.com/couchcryptid/plastic-waste-dashboard/internal/adapter/lambda"
	"github.com/couchcryptid/plastic-waste-dashboard/internal/adapter/localfs"
	s3adapter "github.com/couchcryptid/plastic-waste-dashboard/internal/adapter/s3"
	"github.com/couchcryptid/plastic-waste-dashboard/internal/adapter/topology"
	"github.com/couchcryptid/plastic-waste-dashboard/internal/config"
	"github.com/couchcryptid/plastic-waste-dashboard/internal/dashboard"
	"github.com/couchcryptid/plastic-waste-dashboard/internal/dataset"
	"github.com/couchcryptid/plastic-waste-dashboard/internal/domain"
	"github.com/couchcryptid/plastic-waste-dashboard/internal/observability"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	logger := observability.NewLogger(cfg)
	metrics := observability.NewMetrics()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// AWS configuration is only resolved when a backend needs it.
	var awsCfg aws.Config
	if cfg.DatasetSource == config.SourceS3 || cfg.NotifyBackend == config.NotifyLambda {
		awsCfg, err = awsconfig.LoadDefaultConfig(ctx, awsconfig.WithRegion(cfg.AWSRegion))
		if err != nil {
			logger.Error("failed to load aws config", "error", err)
			os.Exit(1)
		}
	}

	var store dataset.ObjectStore
	switch cfg.DatasetSource {
	case config.SourceFile:
		store = localfs.NewStore(cfg.DatasetDir)
		logger.Info("dataset source: local directory", "dir", cfg.DatasetDir, "path", cfg.DatasetPath)
	default:
		store = s3adapter.NewFromConfig(awsCfg, logger)
		logger.Info("dataset source: s3", "path", cfg.DatasetPath, "region", cfg.AWSRegion)
	}
	loader := dataset.NewLoader(store, cfg.DatasetCacheTTL, logger, metrics)

	var (
		notifier domain.Notifier
		closer   io.Closer
	)
	switch cfg.NotifyBackend {
	case config.NotifyKafka:
		w := kafkaadapter.NewWriter(cfg, logger)
		notifier, closer = w, w
		logger.Info("report backend: kafka", "brokers", cfg.KafkaBrokers, "topic", cfg.KafkaReportTopic)
	case config.NotifyNone:
		notifier = dashboard.NewLogNotifier(logger)
		logger.Info("report backend disabled")
	default:
		notifier = lambdaadapter.NewFromConfig(awsCfg, cfg.NotifyFunction, logger)
		logger.Info("report backend: lambda", "function", cfg.NotifyFunction)
	}

	features, err := topology.NewClient(cfg.TopologyTimeout, logger).Fetch(ctx, cfg.TopologyURL, cfg.TopologyObject)
	if err != nil {
		logger.Error("failed to load world topology", "url", cfg.TopologyURL, "error", err)
		os.Exit(1)
	}

	svc := dashboard.New(loader, features, notifier, dashboard.Options{
		DatasetPath:   cfg.DatasetPath,
		NotifyBackend: cfg.NotifyBackend,
	}, logger, metrics)

	// A failed warm-up is not fatal: views show the error and the next
	// request retries the load.
	if err := svc.Warm(ctx); err != nil {
		logger.Warn("initial dataset load failed", "path", cfg.DatasetPath, "error", err)
	}

	srv := httpadapter.NewServer(cfg.HTTPAddr, svc, logger)

	go func() {
		if err := srv.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("http server error", "error", err)
			stop()
		}
	}()

	<-ctx.Done()
	logger.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("http server shutdown error", "error", err)
	}
	if closer != nil {
		if err := closer.Close(); err != nil {
			logger.Error("kafka writer close error", "error", err)
		}
	}

	logger.Info("shutdown complete")
}

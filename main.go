package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"sheetsplit/adapters/excel"
	"sheetsplit/app"
	"sheetsplit/internal/config"
	"sheetsplit/internal/logging"
	"sheetsplit/internal/metrics"
	"sheetsplit/internal/session"
	"sheetsplit/ui"
)

func main() {
	// Load environment variables from .env file
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using system environment variables")
	}

	appConfig, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	logger, err := logging.NewLogger(&appConfig.Logging)
	if err != nil {
		log.Fatalf("Failed to create logger: %v", err)
	}
	defer logger.Sync()

	var (
		recorder       *metrics.Recorder
		metricsHandler http.Handler
	)
	if appConfig.Metrics.Enabled {
		registry := prometheus.NewRegistry()
		registry.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
		recorder = metrics.NewRecorder(registry)
		metricsHandler = promhttp.HandlerFor(registry, promhttp.HandlerOpts{})
	}

	reader := excel.NewReader(excel.ReaderConfig{SheetName: appConfig.Upload.SheetName, TrimHeader: true}, logger)
	writer := excel.NewWriter(excel.DefaultWriterConfig(), logger)
	service := app.NewSplitService(reader, writer, recorder, logger)
	store := session.NewMemoryStore(appConfig.Upload.DownloadTTL)

	uiApp, err := ui.NewApp(ui.Config{
		MaxUploadBytes: appConfig.Upload.MaxSizeBytes,
		MaxConcurrent:  appConfig.Upload.MaxConcurrent,
		MetricsPath:    appConfig.Metrics.Path,
		MetricsHandler: metricsHandler,
	}, service, store, logger)
	if err != nil {
		logger.Fatal("Failed to initialize UI", zap.Error(err))
	}

	server := &http.Server{
		Addr:              ":" + appConfig.Server.Port,
		Handler:           uiApp,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		logger.Info("Starting sheetsplit server", zap.String("addr", server.Addr))
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatal("Server failed", zap.Error(err))
		}
	}()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	<-sigCh

	logger.Info("Shutting down")
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := server.Shutdown(ctx); err != nil {
		logger.Error("Graceful shutdown failed", zap.Error(err))
	}
}

package main

import (
	"log"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"sheetsplit/adapters/api"
	"sheetsplit/adapters/excel"
	"sheetsplit/app"
	"sheetsplit/internal/config"
	"sheetsplit/internal/logging"
	"sheetsplit/internal/metrics"
)

func main() {
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

	gin.SetMode(appConfig.Server.GinMode)

	var recorder *metrics.Recorder
	if appConfig.Metrics.Enabled {
		recorder = metrics.NewRecorder(prometheus.DefaultRegisterer)
	}

	service := app.NewSplitService(
		excel.NewReader(excel.ReaderConfig{SheetName: appConfig.Upload.SheetName, TrimHeader: true}, logger),
		excel.NewWriter(excel.DefaultWriterConfig(), logger),
		recorder,
		logger,
	)

	server := api.NewServer(service, appConfig.Upload.MaxSizeBytes, logger)
	if appConfig.Metrics.Enabled {
		server.EnableMetrics(appConfig.Metrics.Path, promhttp.Handler())
	}
	logger.Info("Starting sheetsplit API", zap.String("port", appConfig.Server.APIPort))
	if err := server.Start(":" + appConfig.Server.APIPort); err != nil {
		logger.Fatal("API server failed", zap.Error(err))
	}
}

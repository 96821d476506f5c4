package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/Sima922/clouds-pos/internal/handler"
	"github.com/Sima922/clouds-pos/internal/repositories"
	"github.com/Sima922/clouds-pos/internal/router"
	"github.com/Sima922/clouds-pos/internal/service"
	"github.com/Sima922/clouds-pos/pkg/database"
	"github.com/Sima922/clouds-pos/pkg/envconfig"
	"github.com/Sima922/clouds-pos/pkg/flags"
	"github.com/Sima922/clouds-pos/pkg/logger"
)

func main() {
	flagConfig := flags.Parse()

	envErr := envconfig.LoadEnvFile(".env")

	loggerConfig := logger.Config{
		Level:        envconfig.GetLogLevel(),
		Format:       envconfig.GetEnv("LOG_FORMAT", "json"),
		Output:       envconfig.GetEnv("LOG_OUTPUT", "stdout"),
		EnableCaller: envconfig.GetEnv("LOG_ENABLE_CALLER", "true") == "true",
		Environment:  envconfig.GetEnv("ENVIRONMENT", "development"),
	}

	appLogger := logger.New(loggerConfig)
	defer appLogger.Close()

	if envErr != nil {
		appLogger.Warn("Failed to load .env file", "error", envErr)
	}

	appLogger.Info("Starting CloudPOS back office",
		"environment", loggerConfig.Environment,
		"log_level", loggerConfig.Level)

	db, err := database.NewConnection(envconfig.LoadDatabaseConfig(), appLogger)
	if err != nil {
		appLogger.Error("Failed to establish database connection", "error", err)
		os.Exit(1)
	}
	defer func() {
		if err := db.Close(); err != nil {
			appLogger.Error("Failed to close database connection", "error", err)
		}
	}()

	if err := db.Migrate(); err != nil {
		appLogger.Error("Failed to run database migrations", "error", err)
		os.Exit(1)
	}
	appLogger.Info("Database ready")

	subscriptionRepo := repositories.NewSubscriptionRepository(appLogger, db)
	productRepo := repositories.NewProductRepository(appLogger, db)
	customerRepo := repositories.NewCustomerRepository(appLogger, db)
	orderRepo := repositories.NewOrderRepository(appLogger, db)
	reportRepo := repositories.NewReportRepository(appLogger, db)

	orderService := service.NewOrderService(orderRepo, productRepo, subscriptionRepo, appLogger, envconfig.GetCompletionTimeout())
	receiptService := service.NewReceiptService(orderRepo, customerRepo, subscriptionRepo, envconfig.LoadDisplayConfig(), appLogger)
	productService := service.NewProductService(productRepo, subscriptionRepo, appLogger)
	customerService := service.NewCustomerService(customerRepo, subscriptionRepo, appLogger)
	reportService := service.NewReportService(reportRepo, subscriptionRepo, appLogger)

	handlers := router.Handlers{
		Order:    handler.NewOrderHandler(orderService, receiptService, appLogger),
		Product:  handler.NewProductHandler(productService, appLogger),
		Customer: handler.NewCustomerHandler(customerService, appLogger),
		Report:   handler.NewReportHandler(reportService, appLogger),
	}

	host := envconfig.GetEnv("HOST", "localhost")
	port := flagConfig.Port
	if port == "" {
		port = envconfig.GetEnv("PORT", "8080")
	}

	server := &http.Server{
		Addr:         host + ":" + port,
		Handler:      router.New(handlers, db, appLogger),
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	serverErrors := make(chan error, 1)
	go func() {
		appLogger.Info("Starting HTTP server", "address", server.Addr)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			serverErrors <- err
		}
	}()

	shutdown := make(chan os.Signal, 1)
	signal.Notify(shutdown, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-serverErrors:
		appLogger.Error("Server error", "error", err)
		os.Exit(1)
	case sig := <-shutdown:
		appLogger.Info("Shutdown signal received", "signal", sig.String())

		ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
		defer cancel()

		if err := server.Shutdown(ctx); err != nil {
			appLogger.Error("Graceful shutdown failed, forcing close", "error", err)
			if err := server.Close(); err != nil {
				appLogger.Error("Failed to close server", "error", err)
			}
		}
		appLogger.Info("Server stopped")
	}
}

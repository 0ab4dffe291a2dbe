package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"ctcconv/internal/amqp"
	"ctcconv/internal/cli"
	"ctcconv/internal/export/xlsx"
	apphttp "ctcconv/internal/http"
	applog "ctcconv/internal/log"
	"ctcconv/internal/services"
	"ctcconv/internal/storage"
)

func main() {
	cli.LoadEnvFile()
	logger := cli.SetupLogger(applog.ComponentApp)
	cfg := cli.LoadAndValidateConfig(logger)

	// Extraction history (advisory, optional)
	var repo *storage.SQLiteRepository
	if cfg.HistoryBackend == "sqlite" {
		repo = cli.InitSQLite(logger, cfg.SQLiteDBPath)
		logger.Info("Initialized SQLite extraction history", "path", cfg.SQLiteDBPath)
	} else {
		logger.Info("Extraction history disabled")
	}

	// AMQP is optional; without it extractions are only synced by the
	// worker's periodic sweep.
	var amqpClient *amqp.Client
	if cfg.AMQPURL != "" {
		var err error
		amqpClient, err = amqp.NewClient(cfg.AMQPURL, cfg.AMQPExchange, cfg.AMQPQueue)
		if err != nil {
			logger.Error("Failed to initialize AMQP client", "error", err)
			os.Exit(1)
		}
		logger.Info("Initialized AMQP client", "exchange", cfg.AMQPExchange, "queue", cfg.AMQPQueue)
	}

	svc := services.NewExtractionService(xlsx.New(), repo, amqpClient)
	defer svc.Close()

	var history apphttp.HistoryLister
	if repo != nil {
		history = repo
	}
	srv := apphttp.NewServer(":"+cfg.Port, svc, history)

	srv.ReadTimeout = 10 * time.Second
	srv.WriteTimeout = 10 * time.Second
	srv.IdleTimeout = 60 * time.Second
	srv.MaxHeaderBytes = 1 << 16 // 64KB

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	go func() {
		sigChan := make(chan os.Signal, 1)
		signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
		sig := <-sigChan
		logger.Info("Shutdown signal received", "signal", sig.String())

		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer shutdownCancel()

		if err := srv.Shutdown(shutdownCtx); err != nil {
			logger.Error("Server shutdown error", "error", err)
		}
		cancel()
	}()

	logger.Info("Starting ctcconv server", "port", cfg.Port, "history", cfg.HistoryBackend)
	if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		logger.Error("Server error", "error", err, "port", cfg.Port)
		os.Exit(1)
	}

	<-ctx.Done()
	logger.Info("Server stopped gracefully")
}

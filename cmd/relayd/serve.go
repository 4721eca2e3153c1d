package main

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/groblegark/relay/internal/broker"
	"github.com/groblegark/relay/internal/cache"
	"github.com/groblegark/relay/internal/config"
	"github.com/groblegark/relay/internal/export"
	"github.com/groblegark/relay/internal/gateway"
	"github.com/groblegark/relay/internal/server"
	"github.com/groblegark/relay/internal/store/postgres"
	"github.com/groblegark/relay/internal/ui"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the relay HTTP server",
	// Serving does not need an API client.
	PersistentPreRun: func(cmd *cobra.Command, args []string) {},
	RunE: func(cmd *cobra.Command, args []string) error {
		logger := slog.New(slog.NewTextHandler(os.Stderr, nil))

		cfg, err := config.Load()
		if err != nil {
			return err
		}

		store, err := postgres.New(cfg.DatabaseURL)
		if err != nil {
			return err
		}

		var brokerClient broker.Client
		switch cfg.Broker {
		case "nats":
			brokerClient, err = broker.NewNATSClient(cfg.NATSURL, cfg.KafkaGroup)
			if err == nil {
				logger.Info("broker: NATS", "url", cfg.NATSURL, "group", cfg.KafkaGroup)
			}
		default:
			brokerClient, err = broker.NewKafkaClient(cfg.KafkaBrokers, cfg.KafkaGroup)
			if err == nil {
				logger.Info("broker: Kafka", "brokers", cfg.KafkaBrokers, "group", cfg.KafkaGroup)
			}
		}
		if err != nil {
			store.Close()
			return err
		}

		cacheClient, err := cache.New(cfg.RedisURL)
		if err != nil {
			brokerClient.Close()
			store.Close()
			return err
		}

		g := gateway.New(brokerClient, store, cfg.KafkaGroup, cfg.ConsumeWait, logger)
		relayServer := server.New(g, store, cacheClient, brokerClient, logger)

		httpServer := &http.Server{
			Addr:    cfg.HTTPAddr,
			Handler: relayServer.NewHTTPHandler(),
		}

		go func() {
			logger.Info("HTTP server listening", "addr", cfg.HTTPAddr)
			if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
				logger.Error("HTTP server error", "err", err)
			}
		}()

		var scheduler *export.Scheduler
		if cfg.ExportS3Bucket != "" && cfg.ExportInterval > 0 {
			dest, err := export.NewS3Destination(
				context.Background(),
				cfg.ExportS3Bucket,
				cfg.ExportS3Key,
				cfg.ExportS3Region,
				cfg.ExportS3Endpoint,
			)
			if err != nil {
				logger.Error("failed to create S3 export destination", "err", err)
			} else {
				scheduler = export.NewScheduler(store, dest, cfg.ExportInterval, logger)
				scheduler.Start()
				logger.Info("export scheduler started",
					"bucket", cfg.ExportS3Bucket, "interval", cfg.ExportInterval)
			}
		}

		logger.Info("relay server started", "http_addr", cfg.HTTPAddr)

		sigCh := make(chan os.Signal, 1)
		signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
		sig := <-sigCh
		logger.Info("received signal, shutting down", "signal", sig)

		if scheduler != nil {
			scheduler.Stop()
			logger.Info("export scheduler stopped")
		}

		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := httpServer.Shutdown(shutdownCtx); err != nil {
			logger.Error("HTTP server shutdown error", "err", err)
		}
		logger.Info("HTTP server stopped")

		if err := brokerClient.Close(); err != nil {
			logger.Error("error closing broker client", "err", err)
		}
		if err := cacheClient.Close(); err != nil {
			logger.Error("error closing cache client", "err", err)
		}
		if err := store.Close(); err != nil {
			logger.Error("error closing store", "err", err)
		}

		logger.Info("shutdown complete")
		return nil
	},
}

var healthCmd = &cobra.Command{
	Use:   "health",
	Short: "Check server health",
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := api.Health(cmd.Context()); err != nil {
			fmt.Println(ui.Err("unhealthy"))
			return err
		}
		fmt.Println(ui.OK("ok"))
		return nil
	},
}

// Package main is the entry point for the facility assignment engine.
//
// It serves a single HTTP endpoint, POST /v1/solve-assignment, that accepts
// a set of clients and facilities and returns a capacitated assignment
// minimizing transportation cost, computed by either a min-cost-flow or a
// mixed-integer-programming formulation.
//
// Configuration is loaded with the following priority (highest to lowest):
//  1. Environment variables (prefix: FACILITYASSIGN_)
//  2. Config files (config.yaml, config/config.yaml)
//  3. Default values from pkg/config/loader.go
package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"facilityassign/internal/httpapi"
	"facilityassign/internal/routing"
	"facilityassign/pkg/config"
	"facilityassign/pkg/logger"
)

func main() {
	cfg := config.MustLoad()

	logger.InitWithConfig(logger.Config{
		Level:      cfg.Log.Level,
		Format:     cfg.Log.Format,
		Output:     cfg.Log.Output,
		FilePath:   cfg.Log.FilePath,
		MaxSize:    cfg.Log.MaxSize,
		MaxBackups: cfg.Log.MaxBackups,
		MaxAge:     cfg.Log.MaxAge,
		Compress:   cfg.Log.Compress,
	})

	routingClient := routing.NewClient(cfg.Routing.BaseURL,
		routing.WithBatchSize(cfg.Routing.BatchSize),
		routing.WithMaxRetries(cfg.Routing.MaxRetries),
	)

	mux := http.NewServeMux()
	mux.Handle("/v1/solve-assignment", httpapi.NewHandler(*cfg, routingClient))

	srv := &http.Server{
		Addr:         resolveAddr(),
		Handler:      mux,
		ReadTimeout:  30 * time.Second,
		WriteTimeout: time.Duration(cfg.Solver.TimeLimitSeconds+10) * time.Second,
	}

	go func() {
		logger.Info("starting facility assignment engine",
			"addr", srv.Addr,
			"environment", cfg.App.Environment,
			"version", cfg.App.Version,
			"default_algorithm", cfg.Solver.DefaultAlgorithm,
		)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal("server failed", "error", err)
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)
	<-stop

	logger.Info("shutting down")
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		logger.Error("graceful shutdown failed", "error", err)
	}
}

func resolveAddr() string {
	if addr := os.Getenv("FACILITYASSIGN_HTTP_ADDR"); addr != "" {
		return addr
	}
	return ":8080"
}

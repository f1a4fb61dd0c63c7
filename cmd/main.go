package main

import (
	"context"
	"errors"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/charmbracelet/log"
	_ "github.com/joho/godotenv/autoload"
	elog "github.com/labstack/gommon/log"

	"narrator/pkg/analysis"
	"narrator/pkg/catalog"
	"narrator/pkg/config"
	"narrator/pkg/generator"
	"narrator/pkg/history"
	"narrator/pkg/inference"
	"narrator/pkg/queue"
	"narrator/pkg/server"
)

func main() {
	ctx, done := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)

	cfg, err := config.Load()
	if err != nil {
		log.Fatal("failed to load config", "error", err)
	}
	level, err := log.ParseLevel(cfg.LogLevel)
	if err != nil {
		log.Warn("unknown log level, using info", "level", cfg.LogLevel)
		level = log.InfoLevel
	}
	log.SetLevel(level)

	cat, err := catalog.Load(cfg.CatalogFile)
	if err != nil {
		log.Fatal("failed to load catalog", "error", err)
	}
	hist, err := history.Open(cfg.DataDir)
	if err != nil {
		log.Fatal("failed to open history", "dir", cfg.DataDir, "error", err)
	}

	factory := inference.NewLimiters(cfg.ProviderRPM).Factory(inference.New)
	passDelay := cfg.PassDelay
	if passDelay == 0 {
		passDelay = -1
	}
	gen := generator.New(generator.Options{
		NewInferencer: factory,
		Catalog:       cat,
		PassDelay:     passDelay,
		TokenStats:    cfg.TokenStats,
	})
	q := queue.New(gen, cfg.QueueSize, cfg.QueueWorkers)
	q.Start()

	srv := server.NewServer(ctx, server.Options{
		Catalog:     cat,
		Analyzer:    analysis.New(factory, cat),
		Generator:   gen,
		History:     hist,
		Queue:       q,
		Keys:        cfg.Keys,
		Models:      cfg.Models,
		AnalysisTTL: cfg.AnalysisTTL,
		InFlightTTL: cfg.InFlightTTL,
	})
	if level <= log.DebugLevel {
		srv.Echo.Logger.SetLevel(elog.DEBUG)
	} else {
		srv.Echo.Logger.SetLevel(elog.INFO)
	}

	for _, p := range inference.Providers() {
		if cfg.Keys.For(p) != "" {
			log.Info("server key available", "provider", p.Label(), "model", cfg.Model(p))
		}
	}

	finishedShutDown := make(chan struct{})
	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			log.Error("shutdown", "error", err)
		}
		done()
		close(finishedShutDown)
	}()

	if err := srv.Start(":" + cfg.Port); err != nil && !errors.Is(err, http.ErrServerClosed) {
		log.Error("server stopped", "error", err)
		done()
	}
	<-finishedShutDown
}

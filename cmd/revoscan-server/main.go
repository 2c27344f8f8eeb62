package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"revoscan/internal/backtest"
	"revoscan/internal/config"
	"revoscan/internal/httpapi"
	"revoscan/internal/paper"
	"revoscan/internal/provider"
	"revoscan/internal/screener"
	"revoscan/internal/store"
	"revoscan/internal/strategy/builtins"
	"revoscan/internal/util"
)

func main() {
	cfgPath := "config/revoscan.yaml"
	if p := os.Getenv("REVOSCAN_CONFIG"); p != "" {
		cfgPath = p
	}

	cfg, err := config.Load(cfgPath)
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	logger := util.NewLogger(cfg.Logging.Level, cfg.Logging.Format)
	util.SetDefault(logger)

	ledger, err := store.NewSQLiteStore(cfg.Storage.SQLitePath)
	if err != nil {
		log.Fatalf("opening ledger: %v", err)
	}
	defer ledger.Close()

	alpaca := provider.NewAlpaca(cfg.Alpaca.APIKey, cfg.Alpaca.APISecret, cfg.Alpaca.DataURL, cfg.Alpaca.Feed)
	bars := provider.NewCachedBars(store.NewParquetStore(cfg.Storage.DataDir), alpaca, "us")

	var news provider.NewsProvider = alpaca
	if cfg.Alpaca.APIKey == "" {
		news = provider.NewGoogleNews()
	}

	// Insider, options, and earnings have no Alpaca feed; empty static
	// providers hold those factors at the neutral score.
	fixtures := provider.NewStatic()
	scr := screener.New(bars, news, fixtures, fixtures, fixtures, cfg.Screener.Weights)

	paperEngine := paper.NewEngine(ledger, bars)
	paperEngine.InitialCash = cfg.Paper.InitialCash

	engine := backtest.NewEngine(cfg.Backtest.InitialCapital)
	engine.RiskFreeRate = cfg.Backtest.RiskFreeRate

	srv := httpapi.NewServer(
		builtins.NewRegistry(),
		engine,
		scr,
		paperEngine,
		bars,
		cfg.Screener.Universe,
		cfg.Screener.TopN,
		logger,
	)

	addr := fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port)
	httpServer := &http.Server{
		Addr:    addr,
		Handler: srv.Handler(),
	}

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	go func() {
		<-ctx.Done()
		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer shutdownCancel()
		httpServer.Shutdown(shutdownCtx)
	}()

	logger.Info("revoscan-server listening", "addr", addr)
	if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		log.Fatalf("server error: %v", err)
	}
}

// Command-line backtest runner: applies one strategy to one symbol's daily
// history and prints the performance summary as JSON.
//
// Usage:
//
//	revoscan-backtest -symbol AAPL -strategy dual_ma -start 2023-01-01
package main

import (
	"context"
	"encoding/json"
	"flag"
	"log"
	"os"
	"strconv"
	"strings"
	"time"

	"revoscan/internal/backtest"
	"revoscan/internal/config"
	"revoscan/internal/provider"
	"revoscan/internal/store"
	"revoscan/internal/strategy"
	"revoscan/internal/strategy/builtins"
	"revoscan/internal/util"
)

func main() {
	var (
		symbol   = flag.String("symbol", "", "symbol to backtest (required)")
		stratKey = flag.String("strategy", builtins.KeyDualMA, "strategy key")
		paramStr = flag.String("params", "", "parameter overrides, e.g. short_period=20,long_period=100")
		startStr = flag.String("start", "", "start date YYYY-MM-DD (default: 2 years ago)")
		endStr   = flag.String("end", "", "end date YYYY-MM-DD (default: today)")
		listOnly = flag.Bool("list", false, "list available strategies and exit")
	)
	flag.Parse()

	registry := builtins.NewRegistry()

	if *listOnly {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		enc.Encode(registry.Infos())
		return
	}
	if *symbol == "" {
		flag.Usage()
		os.Exit(2)
	}

	cfgPath := "config/revoscan.yaml"
	if p := os.Getenv("REVOSCAN_CONFIG"); p != "" {
		cfgPath = p
	}
	cfg, err := config.Load(cfgPath)
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}
	util.SetDefault(util.NewLogger(cfg.Logging.Level, cfg.Logging.Format))

	params, err := parseParams(*paramStr)
	if err != nil {
		log.Fatalf("parsing params: %v", err)
	}
	strat, err := registry.NewStrict(*stratKey, params)
	if err != nil {
		log.Fatalf("building strategy: %v", err)
	}

	end := time.Now()
	if *endStr != "" {
		if end, err = time.Parse("2006-01-02", *endStr); err != nil {
			log.Fatalf("invalid end date: %v", err)
		}
	}
	start := end.AddDate(-2, 0, 0)
	if *startStr != "" {
		if start, err = time.Parse("2006-01-02", *startStr); err != nil {
			log.Fatalf("invalid start date: %v", err)
		}
	}

	alpaca := provider.NewAlpaca(cfg.Alpaca.APIKey, cfg.Alpaca.APISecret, cfg.Alpaca.DataURL, cfg.Alpaca.Feed)
	bars := provider.NewCachedBars(store.NewParquetStore(cfg.Storage.DataDir), alpaca, "us")

	history, err := bars.DailyBars(context.Background(), *symbol, start, end)
	if err != nil {
		log.Fatalf("loading bars: %v", err)
	}
	if len(history) == 0 {
		log.Fatalf("no bars for %s in %s..%s", *symbol, start.Format("2006-01-02"), end.Format("2006-01-02"))
	}

	engine := backtest.NewEngine(cfg.Backtest.InitialCapital)
	engine.RiskFreeRate = cfg.Backtest.RiskFreeRate
	result := engine.Run(history, strat.GenerateSignals(history))

	out := struct {
		Symbol   string           `json:"symbol"`
		Strategy string           `json:"strategy"`
		Params   strategy.Params  `json:"params"`
		Bars     int              `json:"bars"`
		Summary  backtest.Summary `json:"summary"`
	}{*symbol, strat.Name(), strat.Params(), len(history), result.Summary}

	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	enc.Encode(out)
}

// parseParams parses "key=value,key=value" into strategy params.
func parseParams(s string) (strategy.Params, error) {
	if s == "" {
		return nil, nil
	}
	params := make(strategy.Params)
	for _, pair := range strings.Split(s, ",") {
		k, v, found := strings.Cut(pair, "=")
		if !found {
			return nil, strconv.ErrSyntax
		}
		f, err := strconv.ParseFloat(strings.TrimSpace(v), 64)
		if err != nil {
			return nil, err
		}
		params[strings.TrimSpace(k)] = f
	}
	return params, nil
}

// Factor-scan runner: scores the configured universe and prints the ranked
// results as JSON.
//
// Usage:
//
//	revoscan-scan                 # full configured universe
//	revoscan-scan -symbols AAPL,MSFT -top 5
package main

import (
	"context"
	"encoding/json"
	"flag"
	"log"
	"os"
	"strings"

	"revoscan/internal/config"
	"revoscan/internal/provider"
	"revoscan/internal/screener"
	"revoscan/internal/scoring"
	"revoscan/internal/store"
	"revoscan/internal/util"
)

func main() {
	var (
		symbolsFlag = flag.String("symbols", "", "comma-separated universe override")
		topFlag     = flag.Int("top", 0, "limit output to the top N results (0 = config default)")
	)
	flag.Parse()

	cfgPath := "config/revoscan.yaml"
	if p := os.Getenv("REVOSCAN_CONFIG"); p != "" {
		cfgPath = p
	}
	cfg, err := config.Load(cfgPath)
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}
	util.SetDefault(util.NewLogger(cfg.Logging.Level, cfg.Logging.Format))

	universe := cfg.Screener.Universe
	if *symbolsFlag != "" {
		universe = nil
		for _, s := range strings.Split(*symbolsFlag, ",") {
			if s = strings.TrimSpace(s); s != "" {
				universe = append(universe, strings.ToUpper(s))
			}
		}
	}
	if len(universe) == 0 {
		log.Fatal("no symbols to scan: set screener.universe in the config or pass -symbols")
	}

	alpaca := provider.NewAlpaca(cfg.Alpaca.APIKey, cfg.Alpaca.APISecret, cfg.Alpaca.DataURL, cfg.Alpaca.Feed)
	bars := provider.NewCachedBars(store.NewParquetStore(cfg.Storage.DataDir), alpaca, "us")

	var news provider.NewsProvider = alpaca
	if cfg.Alpaca.APIKey == "" {
		news = provider.NewGoogleNews()
	}

	fixtures := provider.NewStatic()
	scr := screener.New(bars, news, fixtures, fixtures, fixtures, cfg.Screener.Weights)

	ranked, err := scr.Scan(context.Background(), universe)
	if err != nil {
		log.Fatalf("scan failed: %v", err)
	}

	top := cfg.Screener.TopN
	if *topFlag > 0 {
		top = *topFlag
	}
	ranked = scoring.TopN(ranked, top)

	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	enc.Encode(ranked)
}

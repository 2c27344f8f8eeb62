// Paper-trading ledger CLI: place simulated orders and inspect the account
// directly against the local SQLite ledger.
//
// Usage:
//
//	revoscan-paper -user demo portfolio
//	revoscan-paper -user demo buy AAPL 10
//	revoscan-paper -user demo sell AAPL 5
//	revoscan-paper -user demo orders
//	revoscan-paper -user demo reset
package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"log"
	"os"
	"strconv"
	"strings"

	"revoscan/internal/config"
	"revoscan/internal/domain"
	"revoscan/internal/paper"
	"revoscan/internal/provider"
	"revoscan/internal/store"
	"revoscan/internal/util"
)

func main() {
	user := flag.String("user", "demo", "paper account username")
	flag.Parse()

	args := flag.Args()
	if len(args) == 0 {
		usage()
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

	ledger, err := store.NewSQLiteStore(cfg.Storage.SQLitePath)
	if err != nil {
		log.Fatalf("opening ledger: %v", err)
	}
	defer ledger.Close()

	alpaca := provider.NewAlpaca(cfg.Alpaca.APIKey, cfg.Alpaca.APISecret, cfg.Alpaca.DataURL, cfg.Alpaca.Feed)
	bars := provider.NewCachedBars(store.NewParquetStore(cfg.Storage.DataDir), alpaca, "us")
	engine := paper.NewEngine(ledger, bars)
	engine.InitialCash = cfg.Paper.InitialCash

	ctx := context.Background()

	switch args[0] {
	case "buy", "sell":
		if len(args) != 3 {
			usage()
		}
		symbol := strings.ToUpper(args[1])
		qty, err := strconv.ParseInt(args[2], 10, 64)
		if err != nil {
			log.Fatalf("invalid quantity %q", args[2])
		}
		price, err := engine.MarkPrice(ctx, symbol)
		if err != nil {
			log.Fatalf("quoting %s: %v", symbol, err)
		}
		side := domain.OrderSideBuy
		if args[0] == "sell" {
			side = domain.OrderSideSell
		}
		order, err := engine.PlaceOrder(ctx, *user, symbol, side, qty, price, "")
		if err != nil {
			log.Fatalf("order: %v", err)
		}
		printJSON(order)

	case "portfolio":
		base, err := engine.Portfolio(ctx, *user, nil)
		if err != nil {
			log.Fatalf("portfolio: %v", err)
		}
		prices := make(map[string]float64, len(base.Holdings))
		for _, h := range base.Holdings {
			if p, err := engine.MarkPrice(ctx, h.Symbol); err == nil {
				prices[h.Symbol] = p
			}
		}
		p, err := engine.Portfolio(ctx, *user, prices)
		if err != nil {
			log.Fatalf("portfolio: %v", err)
		}
		printJSON(p)

	case "orders":
		orders, err := engine.Orders(ctx, *user, 50)
		if err != nil {
			log.Fatalf("orders: %v", err)
		}
		printJSON(orders)

	case "reset":
		if err := engine.Reset(ctx, *user); err != nil {
			log.Fatalf("reset: %v", err)
		}
		fmt.Println("account reset")

	default:
		usage()
	}
}

func printJSON(v any) {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	enc.Encode(v)
}

func usage() {
	fmt.Fprintln(os.Stderr, "usage: revoscan-paper [-user NAME] {portfolio | buy SYM QTY | sell SYM QTY | orders | reset}")
	os.Exit(2)
}

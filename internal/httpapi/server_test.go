package httpapi

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"revoscan/internal/backtest"
	"revoscan/internal/domain"
	"revoscan/internal/paper"
	"revoscan/internal/provider"
	"revoscan/internal/screener"
	"revoscan/internal/scoring"
	"revoscan/internal/store"
	"revoscan/internal/strategy/builtins"
)

func newTestServer(t *testing.T) (*httptest.Server, *provider.Static) {
	t.Helper()

	static := provider.NewStatic()
	day := time.Now().UTC().AddDate(0, 0, -250)
	for i := 0; i < 250; i++ {
		price := 100 + 0.2*float64(i)
		static.Bars["AAPL"] = append(static.Bars["AAPL"], domain.Bar{
			Symbol:    "AAPL",
			Timestamp: day.AddDate(0, 0, i),
			Open:      price,
			High:      price,
			Low:       price,
			Close:     price,
			Volume:    1000,
		})
	}

	ledger, err := store.NewSQLiteStore(filepath.Join(t.TempDir(), "ledger.db"))
	if err != nil {
		t.Fatalf("NewSQLiteStore: %v", err)
	}
	t.Cleanup(func() { ledger.Close() })

	scr := screener.New(static, static, static, static, static, scoring.DefaultWeights())
	srv := NewServer(
		builtins.NewRegistry(),
		backtest.NewEngine(10000),
		scr,
		paper.NewEngine(ledger, static),
		static,
		[]string{"AAPL"},
		10,
		slog.Default(),
	)

	ts := httptest.NewServer(srv.Handler())
	t.Cleanup(ts.Close)
	return ts, static
}

func getJSON(t *testing.T, url string, out any) int {
	t.Helper()
	resp, err := http.Get(url)
	if err != nil {
		t.Fatalf("GET %s: %v", url, err)
	}
	defer resp.Body.Close()
	if out != nil && resp.StatusCode == http.StatusOK {
		if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
			t.Fatalf("decoding %s: %v", url, err)
		}
	}
	return resp.StatusCode
}

func postJSON(t *testing.T, url, body string, out any) int {
	t.Helper()
	resp, err := http.Post(url, "application/json", strings.NewReader(body))
	if err != nil {
		t.Fatalf("POST %s: %v", url, err)
	}
	defer resp.Body.Close()
	if out != nil {
		json.NewDecoder(resp.Body).Decode(out)
	}
	return resp.StatusCode
}

func TestStrategiesEndpoint(t *testing.T) {
	ts, _ := newTestServer(t)

	var list StrategyListResponse
	if code := getJSON(t, ts.URL+"/api/strategies", &list); code != http.StatusOK {
		t.Fatalf("status = %d", code)
	}
	if len(list.Strategies) != 7 {
		t.Errorf("strategies listed = %d, want 7", len(list.Strategies))
	}

	var info map[string]any
	if code := getJSON(t, ts.URL+"/api/strategies/"+builtins.KeyDualMA, &info); code != http.StatusOK {
		t.Fatalf("info status = %d", code)
	}
	if info["key"] != builtins.KeyDualMA {
		t.Errorf("info key = %v", info["key"])
	}

	if code := getJSON(t, ts.URL+"/api/strategies/nope", nil); code != http.StatusNotFound {
		t.Errorf("unknown strategy status = %d, want 404", code)
	}
}

func TestBacktestEndpoint(t *testing.T) {
	ts, _ := newTestServer(t)

	var resp BacktestResponse
	code := postJSON(t, ts.URL+"/api/backtest",
		`{"symbol":"AAPL","strategy":"dual_ma","params":{"short_period":10,"long_period":100}}`,
		&resp)
	if code != http.StatusOK {
		t.Fatalf("status = %d", code)
	}
	if resp.Bars != 250 {
		t.Errorf("bars = %d, want 250", resp.Bars)
	}
	if resp.Summary.InitialCapital != 10000 {
		t.Errorf("initial capital = %v, want 10000", resp.Summary.InitialCapital)
	}

	// Strict construction rejects out-of-bounds params.
	code = postJSON(t, ts.URL+"/api/backtest",
		`{"symbol":"AAPL","strategy":"dual_ma","params":{"short_period":1}}`, nil)
	if code != http.StatusBadRequest {
		t.Errorf("out-of-bounds params status = %d, want 400", code)
	}

	code = postJSON(t, ts.URL+"/api/backtest", `{"strategy":"dual_ma"}`, nil)
	if code != http.StatusBadRequest {
		t.Errorf("missing symbol status = %d, want 400", code)
	}
}

func TestScanAndAnalyzeEndpoints(t *testing.T) {
	ts, _ := newTestServer(t)

	var scan ScanResponse
	if code := getJSON(t, ts.URL+"/api/scan", &scan); code != http.StatusOK {
		t.Fatalf("scan status = %d", code)
	}
	if len(scan.Results) != 1 || scan.Results[0].Symbol != "AAPL" {
		t.Fatalf("scan results = %+v", scan.Results)
	}
	if scan.Results[0].Rank != 1 {
		t.Errorf("rank = %d, want 1", scan.Results[0].Rank)
	}

	var analysis domain.Analysis
	if code := getJSON(t, ts.URL+"/api/analyze/AAPL", &analysis); code != http.StatusOK {
		t.Fatalf("analyze status = %d", code)
	}
	if analysis.Scores.Technical <= 5 {
		t.Errorf("uptrend technical = %v, want > 5", analysis.Scores.Technical)
	}

	if code := getJSON(t, ts.URL+"/api/scan?top=zero", nil); code != http.StatusBadRequest {
		t.Errorf("bad top param status = %d, want 400", code)
	}
}

func TestPaperEndpoints(t *testing.T) {
	ts, _ := newTestServer(t)

	// Buy at an explicit price.
	var order OrderResponse
	code := postJSON(t, ts.URL+"/api/paper/demo/orders",
		`{"symbol":"AAPL","side":"buy","qty":10,"price":100}`, &order)
	if code != http.StatusOK {
		t.Fatalf("buy status = %d", code)
	}
	if order.Status != "filled" {
		t.Errorf("buy status = %q, want filled", order.Status)
	}

	// Market order derives a price from the latest close.
	code = postJSON(t, ts.URL+"/api/paper/demo/orders",
		`{"symbol":"AAPL","side":"buy","qty":1}`, &order)
	if code != http.StatusOK {
		t.Fatalf("market buy status = %d", code)
	}
	if order.Price <= 0 {
		t.Errorf("market buy price = %v, want > 0", order.Price)
	}

	// Oversized buy is rejected with 422 and recorded.
	code = postJSON(t, ts.URL+"/api/paper/demo/orders",
		`{"symbol":"AAPL","side":"buy","qty":1000000,"price":100}`, &order)
	if code != http.StatusUnprocessableEntity {
		t.Fatalf("oversized buy status = %d, want 422", code)
	}
	if order.Status != "rejected" {
		t.Errorf("oversized buy status = %q, want rejected", order.Status)
	}

	var orders []OrderResponse
	if code := getJSON(t, ts.URL+"/api/paper/demo/orders", &orders); code != http.StatusOK {
		t.Fatalf("orders status = %d", code)
	}
	if len(orders) != 3 {
		t.Errorf("order history = %d entries, want 3", len(orders))
	}

	var portfolio paper.Portfolio
	if code := getJSON(t, ts.URL+"/api/paper/demo/portfolio", &portfolio); code != http.StatusOK {
		t.Fatalf("portfolio status = %d", code)
	}
	if len(portfolio.Holdings) != 1 || portfolio.Holdings[0].Qty != 11 {
		t.Errorf("holdings = %+v", portfolio.Holdings)
	}

	if code := postJSON(t, ts.URL+"/api/paper/demo/reset", `{}`, nil); code != http.StatusOK {
		t.Fatalf("reset status = %d", code)
	}
	getJSON(t, ts.URL+"/api/paper/demo/portfolio", &portfolio)
	if len(portfolio.Holdings) != 0 {
		t.Errorf("holdings after reset = %+v", portfolio.Holdings)
	}

	// Bad side.
	if code := postJSON(t, ts.URL+"/api/paper/demo/orders",
		`{"symbol":"AAPL","side":"hold","qty":1,"price":100}`, nil); code != http.StatusBadRequest {
		t.Errorf("bad side status = %d, want 400", code)
	}
}

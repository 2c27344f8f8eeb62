// Package httpapi serves the analysis platform over HTTP: strategy
// discovery, backtests, factor scans, and the paper-trading ledger.
package httpapi

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"revoscan/internal/backtest"
	"revoscan/internal/domain"
	"revoscan/internal/paper"
	"revoscan/internal/provider"
	"revoscan/internal/screener"
	"revoscan/internal/strategy"
)

const defaultBacktestYears = 2

// Server serves the revoscan HTTP API.
type Server struct {
	registry *strategy.Registry
	engine   *backtest.Engine
	screener *screener.Screener
	paper    *paper.Engine
	bars     provider.BarProvider
	universe []string
	topN     int
	log      *slog.Logger
}

// NewServer creates a Server over the given collaborators.
func NewServer(
	registry *strategy.Registry,
	engine *backtest.Engine,
	scr *screener.Screener,
	paperEngine *paper.Engine,
	bars provider.BarProvider,
	universe []string,
	topN int,
	log *slog.Logger,
) *Server {
	return &Server{
		registry: registry,
		engine:   engine,
		screener: scr,
		paper:    paperEngine,
		bars:     bars,
		universe: universe,
		topN:     topN,
		log:      log,
	}
}

// RegisterRoutes registers all API routes on the given mux.
func (s *Server) RegisterRoutes(mux *http.ServeMux) {
	mux.HandleFunc("GET /api/strategies", s.handleStrategies)
	mux.HandleFunc("GET /api/strategies/{key}", s.handleStrategyInfo)
	mux.HandleFunc("POST /api/backtest", s.handleBacktest)
	mux.HandleFunc("GET /api/scan", s.handleScan)
	mux.HandleFunc("GET /api/analyze/{symbol}", s.handleAnalyze)
	mux.HandleFunc("GET /api/paper/{username}/portfolio", s.handlePortfolio)
	mux.HandleFunc("GET /api/paper/{username}/orders", s.handleOrders)
	mux.HandleFunc("POST /api/paper/{username}/orders", s.handlePlaceOrder)
	mux.HandleFunc("POST /api/paper/{username}/reset", s.handleReset)
}

// Handler returns an http.Handler with CORS middleware.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	s.RegisterRoutes(mux)
	return corsMiddleware(mux)
}

func corsMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type")
		if r.Method == "OPTIONS" {
			w.WriteHeader(http.StatusNoContent)
			return
		}
		next.ServeHTTP(w, r)
	})
}

func writeJSON(w http.ResponseWriter, v any) {
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(v); err != nil {
		slog.Error("encoding JSON response", "error", err)
	}
}

func writeError(w http.ResponseWriter, status int, msg string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(map[string]string{"error": msg})
}

// ---------------------------------------------------------------------------
// Strategies
// ---------------------------------------------------------------------------

func (s *Server) handleStrategies(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, StrategyListResponse{Strategies: s.registry.Infos()})
}

func (s *Server) handleStrategyInfo(w http.ResponseWriter, r *http.Request) {
	key := r.PathValue("key")
	info, err := s.registry.Info(key)
	if err != nil {
		writeError(w, http.StatusNotFound, "unknown strategy: "+key)
		return
	}
	writeJSON(w, info)
}

// ---------------------------------------------------------------------------
// Backtest
// ---------------------------------------------------------------------------

func (s *Server) handleBacktest(w http.ResponseWriter, r *http.Request) {
	var req BacktestRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if req.Symbol == "" || req.Strategy == "" {
		writeError(w, http.StatusBadRequest, "symbol and strategy are required")
		return
	}

	strat, err := s.registry.NewStrict(req.Strategy, req.Params)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	end := time.Now()
	if req.End != "" {
		if end, err = time.Parse("2006-01-02", req.End); err != nil {
			writeError(w, http.StatusBadRequest, "invalid end date")
			return
		}
	}
	start := end.AddDate(-defaultBacktestYears, 0, 0)
	if req.Start != "" {
		if start, err = time.Parse("2006-01-02", req.Start); err != nil {
			writeError(w, http.StatusBadRequest, "invalid start date")
			return
		}
	}

	bars, err := s.bars.DailyBars(r.Context(), req.Symbol, start, end)
	if err != nil {
		s.log.Error("loading bars for backtest", "symbol", req.Symbol, "error", err)
		writeError(w, http.StatusBadGateway, "loading bars: "+err.Error())
		return
	}

	engine := s.engine
	if req.InitialCapital > 0 {
		e := *s.engine
		e.InitialCapital = req.InitialCapital
		engine = &e
	}

	result := engine.Run(bars, strat.GenerateSignals(bars))
	writeJSON(w, BacktestResponse{
		Symbol:   req.Symbol,
		Strategy: strat.Name(),
		Params:   strat.Params(),
		Bars:     len(bars),
		Summary:  result.Summary,
	})
}

// ---------------------------------------------------------------------------
// Screener
// ---------------------------------------------------------------------------

func (s *Server) handleScan(w http.ResponseWriter, r *http.Request) {
	topN := s.topN
	if v := r.URL.Query().Get("top"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n <= 0 {
			writeError(w, http.StatusBadRequest, "invalid top parameter")
			return
		}
		topN = n
	}

	ranked, err := s.screener.Scan(r.Context(), s.universe)
	if err != nil {
		s.log.Error("scan failed", "error", err)
		writeError(w, http.StatusInternalServerError, "scan failed")
		return
	}
	if topN > 0 && topN < len(ranked) {
		ranked = ranked[:topN]
	}
	writeJSON(w, ScanResponse{Results: ranked})
}

func (s *Server) handleAnalyze(w http.ResponseWriter, r *http.Request) {
	symbol := r.PathValue("symbol")
	analysis, err := s.screener.Analyze(r.Context(), symbol)
	if err != nil {
		s.log.Error("analyze failed", "symbol", symbol, "error", err)
		writeError(w, http.StatusInternalServerError, "analyze failed")
		return
	}
	writeJSON(w, analysis)
}

// ---------------------------------------------------------------------------
// Paper trading
// ---------------------------------------------------------------------------

func (s *Server) handlePortfolio(w http.ResponseWriter, r *http.Request) {
	username := r.PathValue("username")

	base, err := s.paper.Portfolio(r.Context(), username, nil)
	if err != nil {
		s.log.Error("portfolio failed", "username", username, "error", err)
		writeError(w, http.StatusInternalServerError, "portfolio failed")
		return
	}

	// Mark each held symbol at its latest close where available; symbols
	// without a quote stay at cost.
	prices := make(map[string]float64, len(base.Holdings))
	for _, h := range base.Holdings {
		if p, merr := s.paper.MarkPrice(r.Context(), h.Symbol); merr == nil {
			prices[h.Symbol] = p
		}
	}

	p, err := s.paper.Portfolio(r.Context(), username, prices)
	if err != nil {
		s.log.Error("portfolio failed", "username", username, "error", err)
		writeError(w, http.StatusInternalServerError, "portfolio failed")
		return
	}
	writeJSON(w, p)
}

func (s *Server) handleOrders(w http.ResponseWriter, r *http.Request) {
	username := r.PathValue("username")
	limit := 0
	if v := r.URL.Query().Get("limit"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 0 {
			writeError(w, http.StatusBadRequest, "invalid limit parameter")
			return
		}
		limit = n
	}

	orders, err := s.paper.Orders(r.Context(), username, limit)
	if err != nil {
		s.log.Error("listing orders", "username", username, "error", err)
		writeError(w, http.StatusInternalServerError, "listing orders failed")
		return
	}
	out := make([]OrderResponse, len(orders))
	for i, o := range orders {
		out[i] = orderResponse(o)
	}
	writeJSON(w, out)
}

func (s *Server) handlePlaceOrder(w http.ResponseWriter, r *http.Request) {
	username := r.PathValue("username")

	var req OrderRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	side := domain.OrderSide(req.Side)
	if side != domain.OrderSideBuy && side != domain.OrderSideSell {
		writeError(w, http.StatusBadRequest, "side must be buy or sell")
		return
	}

	price := req.Price
	if price == 0 {
		p, err := s.paper.MarkPrice(r.Context(), req.Symbol)
		if err != nil {
			writeError(w, http.StatusBadGateway, "quoting "+req.Symbol+": "+err.Error())
			return
		}
		price = p
	}

	order, err := s.paper.PlaceOrder(r.Context(), username, req.Symbol, side, req.Qty, price, req.Strategy)
	switch {
	case errors.Is(err, paper.ErrInvalidOrder):
		writeError(w, http.StatusBadRequest, err.Error())
		return
	case errors.Is(err, paper.ErrInsufficientCash), errors.Is(err, paper.ErrInsufficientShares):
		// The rejection is recorded; report it with the order.
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusUnprocessableEntity)
		json.NewEncoder(w).Encode(orderResponse(*order))
		return
	case err != nil:
		s.log.Error("placing order", "username", username, "error", err)
		writeError(w, http.StatusInternalServerError, "placing order failed")
		return
	}
	writeJSON(w, orderResponse(*order))
}

func (s *Server) handleReset(w http.ResponseWriter, r *http.Request) {
	username := r.PathValue("username")
	if err := s.paper.Reset(r.Context(), username); err != nil {
		s.log.Error("resetting account", "username", username, "error", err)
		writeError(w, http.StatusInternalServerError, "reset failed")
		return
	}
	writeJSON(w, map[string]string{"status": "ok"})
}

func orderResponse(o domain.Order) OrderResponse {
	return OrderResponse{
		ID:        o.ID,
		Symbol:    o.Symbol,
		Side:      string(o.Side),
		Qty:       o.Qty,
		Price:     o.Price,
		Status:    string(o.Status),
		Strategy:  o.Strategy,
		CreatedAt: o.CreatedAt.Format(time.RFC3339),
	}
}

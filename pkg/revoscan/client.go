// Package revoscan provides a Go SDK for the revoscan-server API.
package revoscan

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"revoscan/internal/backtest"
	"revoscan/internal/domain"
	"revoscan/internal/httpapi"
	"revoscan/internal/strategy"
)

// Client talks to a running revoscan-server.
type Client struct {
	baseURL    string
	httpClient *http.Client
}

// NewClient creates an API client for the server at baseURL.
func NewClient(baseURL string) *Client {
	return &Client{
		baseURL:    baseURL,
		httpClient: &http.Client{Timeout: 30 * time.Second},
	}
}

// Strategies lists the available signal strategies.
func (c *Client) Strategies(ctx context.Context) ([]strategy.Info, error) {
	var resp httpapi.StrategyListResponse
	if err := c.get(ctx, "/api/strategies", &resp); err != nil {
		return nil, err
	}
	return resp.Strategies, nil
}

// StrategyInfo returns metadata and the parameter schema for one strategy.
func (c *Client) StrategyInfo(ctx context.Context, key string) (strategy.Info, error) {
	var info strategy.Info
	err := c.get(ctx, "/api/strategies/"+url.PathEscape(key), &info)
	return info, err
}

// Backtest runs a strategy backtest on the server.
func (c *Client) Backtest(ctx context.Context, req httpapi.BacktestRequest) (*httpapi.BacktestResponse, error) {
	var resp httpapi.BacktestResponse
	if err := c.post(ctx, "/api/backtest", req, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// Scan runs the factor screener over the server's configured universe.
func (c *Client) Scan(ctx context.Context, top int) ([]domain.Analysis, error) {
	path := "/api/scan"
	if top > 0 {
		path += "?top=" + strconv.Itoa(top)
	}
	var resp httpapi.ScanResponse
	if err := c.get(ctx, path, &resp); err != nil {
		return nil, err
	}
	return resp.Results, nil
}

// Analyze produces the factor scores for one symbol.
func (c *Client) Analyze(ctx context.Context, symbol string) (domain.Analysis, error) {
	var a domain.Analysis
	err := c.get(ctx, "/api/analyze/"+url.PathEscape(symbol), &a)
	return a, err
}

// PlaceOrder submits a paper-trading order for the given account.
func (c *Client) PlaceOrder(ctx context.Context, username string, req httpapi.OrderRequest) (*httpapi.OrderResponse, error) {
	var resp httpapi.OrderResponse
	if err := c.post(ctx, "/api/paper/"+url.PathEscape(username)+"/orders", req, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// Orders returns the account's order history, most recent first.
func (c *Client) Orders(ctx context.Context, username string, limit int) ([]httpapi.OrderResponse, error) {
	path := "/api/paper/" + url.PathEscape(username) + "/orders"
	if limit > 0 {
		path += "?limit=" + strconv.Itoa(limit)
	}
	var orders []httpapi.OrderResponse
	err := c.get(ctx, path, &orders)
	return orders, err
}

// ResetAccount restores the paper account to its starting cash.
func (c *Client) ResetAccount(ctx context.Context, username string) error {
	return c.post(ctx, "/api/paper/"+url.PathEscape(username)+"/reset", struct{}{}, nil)
}

// Summary is re-exported for callers unpacking backtest responses.
type Summary = backtest.Summary

func (c *Client) get(ctx context.Context, path string, out any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+path, nil)
	if err != nil {
		return err
	}
	return c.do(req, out)
}

func (c *Client) post(ctx context.Context, path string, body, out any) error {
	data, err := json.Marshal(body)
	if err != nil {
		return err
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, bytes.NewReader(data))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")
	return c.do(req, out)
}

func (c *Client) do(req *http.Request, out any) error {
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 400 {
		var apiErr struct {
			Error string `json:"error"`
		}
		data, _ := io.ReadAll(resp.Body)
		if json.Unmarshal(data, &apiErr) == nil && apiErr.Error != "" {
			return fmt.Errorf("%s %s: %s (status %d)", req.Method, req.URL.Path, apiErr.Error, resp.StatusCode)
		}
		return fmt.Errorf("%s %s: status %d", req.Method, req.URL.Path, resp.StatusCode)
	}
	if out == nil {
		return nil
	}
	return json.NewDecoder(resp.Body).Decode(out)
}

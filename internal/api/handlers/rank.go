package handlers

import (
	"net/http"
	"strings"
	"sync"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"

	"zscore-backtest/internal/analysis"
	"zscore-backtest/internal/api/models"
	"zscore-backtest/internal/backtest"
	"zscore-backtest/internal/config"
	"zscore-backtest/internal/data"
)

const rankConcurrency = 4

// RankHandler handles ranking-related requests
type RankHandler struct {
	source   data.PriceSource
	engine   *backtest.Engine
	defaults *config.Config
	log      zerolog.Logger
}

// NewRankHandler creates a new rank handler
func NewRankHandler(source data.PriceSource, engine *backtest.Engine, defaults *config.Config, log zerolog.Logger) *RankHandler {
	return &RankHandler{
		source:   source,
		engine:   engine,
		defaults: defaults,
		log:      log.With().Str("handler", "rank").Logger(),
	}
}

// RankTickers handles GET /api/v1/rank. Every ticker is backtested with the
// same parameters and the results are ordered by Sharpe ratio.
func (h *RankHandler) RankTickers(c *gin.Context) {
	var req models.RankRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		badRequest(c, "INVALID_REQUEST", err.Error())
		return
	}
	start, end, err := parseRange(req.StartDate, req.EndDate)
	if err != nil {
		badRequest(c, "INVALID_DATE", err.Error())
		return
	}
	params, err := h.defaults.Merge(config.Overrides{Window: req.Window, Threshold: req.Threshold}).Params()
	if err != nil {
		abort(c, err)
		return
	}

	tickers := splitTickers(req.Tickers)
	if len(tickers) == 0 {
		badRequest(c, "INVALID_REQUEST", "tickers must list at least one symbol")
		return
	}

	var (
		mu     sync.Mutex
		ranked []analysis.Ranked
		failed []models.RankFailed
	)
	g, ctx := errgroup.WithContext(c.Request.Context())
	g.SetLimit(rankConcurrency)
	for _, ticker := range tickers {
		ticker := ticker
		g.Go(func() error {
			series, err := fetchSeries(ctx, h.source, ticker, start, end, params.Window)
			var res *backtest.Result
			if err == nil {
				res, err = h.engine.Run(ticker, series, params)
			}
			mu.Lock()
			defer mu.Unlock()
			if err != nil {
				h.log.Warn().Err(err).Str("ticker", ticker).Msg("ticker skipped")
				failed = append(failed, models.RankFailed{Ticker: ticker, Error: detail(err)})
				return nil
			}
			ranked = append(ranked, analysis.Ranked{Name: ticker, Summary: res.Summary})
			return nil
		})
	}
	_ = g.Wait()

	limit := req.Limit
	if limit <= 0 {
		limit = 10
	}
	rankings := make([]models.Ranking, 0, limit)
	for i, r := range analysis.RankBySharpe(ranked) {
		if i >= limit {
			break
		}
		rankings = append(rankings, models.Ranking{
			Rank:        i + 1,
			Ticker:      r.Name,
			SharpeRatio: r.SharpeRatio,
			YearlyYield: r.YearlyYield,
			TotalPnL:    r.TotalPnL,
			MaxDrawdown: r.MaxDrawdown,
			BuyCount:    r.BuyCount,
			SellCount:   r.SellCount,
		})
	}
	c.JSON(http.StatusOK, models.RankResponse{Rankings: rankings, Failed: failed})
}

// splitTickers normalizes a comma-separated list and drops duplicates.
func splitTickers(s string) []string {
	seen := make(map[string]bool)
	var out []string
	for _, part := range strings.Split(s, ",") {
		t := data.NormalizeTicker(part)
		if t == "" || seen[t] {
			continue
		}
		seen[t] = true
		out = append(out, t)
	}
	return out
}

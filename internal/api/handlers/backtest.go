package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"zscore-backtest/internal/analysis"
	"zscore-backtest/internal/api/models"
	"zscore-backtest/internal/backtest"
	"zscore-backtest/internal/config"
	"zscore-backtest/internal/data"
	"zscore-backtest/internal/model"
)

// BacktestHandler handles backtest-related requests
type BacktestHandler struct {
	source   data.PriceSource
	engine   *backtest.Engine
	defaults *config.Config
	results  *resultStore
	log      zerolog.Logger
}

// NewBacktestHandler creates a new backtest handler. defaults supplies the
// parameters a request does not set.
func NewBacktestHandler(source data.PriceSource, engine *backtest.Engine, defaults *config.Config, log zerolog.Logger) *BacktestHandler {
	return &BacktestHandler{
		source:   source,
		engine:   engine,
		defaults: defaults,
		results:  newResultStore(64),
		log:      log.With().Str("handler", "backtest").Logger(),
	}
}

// RunBacktest handles POST /api/v1/backtest
func (h *BacktestHandler) RunBacktest(c *gin.Context) {
	var req models.BacktestRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "INVALID_REQUEST", err.Error())
		return
	}

	params, err := h.defaults.Merge(overrides(req.Params)).Params()
	if err != nil {
		abort(c, err)
		return
	}
	start, end, err := parseRange(req.StartDate, req.EndDate)
	if err != nil {
		badRequest(c, "INVALID_DATE", err.Error())
		return
	}

	series, err := fetchSeries(c.Request.Context(), h.source, req.Ticker, start, end, params.Window)
	if err != nil {
		h.log.Warn().Err(err).Str("ticker", req.Ticker).Msg("price fetch failed")
		abort(c, err)
		return
	}

	res, err := h.engine.Run(data.NormalizeTicker(req.Ticker), series, params)
	if err != nil {
		abort(c, err)
		return
	}

	id := uuid.NewString()
	h.results.put(id, res)

	resp := models.BacktestResponse{
		ID:      id,
		Status:  "completed",
		Ticker:  res.Ticker,
		Params:  res.Params,
		Window:  coverage(series),
		Summary: res.Summary,
	}
	if req.Options.IncludeLedger {
		resp.Ledger = res.Ledger
	}
	c.JSON(http.StatusOK, resp)
}

// GetLedger handles GET /api/v1/backtest/:id/ledger. Results are kept in
// memory for the most recent runs only. ?format=csv returns the ledger in the
// same CSV layout as the CLI export.
func (h *BacktestHandler) GetLedger(c *gin.Context) {
	res, ok := h.results.get(c.Param("id"))
	if !ok {
		c.JSON(http.StatusNotFound, models.ErrorResponse{
			Error: models.ErrorDetail{
				Code:    "NOT_FOUND",
				Message: "unknown or expired backtest id",
			},
		})
		return
	}
	if c.Query("format") == "csv" {
		c.Header("Content-Type", "text/csv")
		c.Header("Content-Disposition", "attachment; filename="+res.Ticker+"_ledger.csv")
		c.Status(http.StatusOK)
		if err := backtest.EncodeLedgerCSV(c.Writer, res.Ledger); err != nil {
			h.log.Error().Err(err).Msg("write ledger csv")
		}
		return
	}
	c.JSON(http.StatusOK, gin.H{"id": c.Param("id"), "ticker": res.Ticker, "ledger": res.Ledger})
}

// CompareBacktests handles POST /api/v1/backtest/compare. The series is
// fetched once, with the warm-up of the largest window, and every variation
// runs against it concurrently.
func (h *BacktestHandler) CompareBacktests(c *gin.Context) {
	var req models.CompareBacktestRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "INVALID_REQUEST", err.Error())
		return
	}
	start, end, err := parseRange(req.StartDate, req.EndDate)
	if err != nil {
		badRequest(c, "INVALID_DATE", err.Error())
		return
	}

	base := h.defaults.Merge(overrides(req.BaseParams))
	variations := make([]backtest.Variation, 0, len(req.Variations))
	warmup := 0
	seen := make(map[string]bool, len(req.Variations))
	for _, v := range req.Variations {
		if seen[v.Name] {
			c.JSON(http.StatusBadRequest, models.ErrorResponse{Error: models.ErrorDetail{
				Code:    "DUPLICATE_VARIATION",
				Message: "variation names must be unique",
				Details: map[string]interface{}{"variation": v.Name},
			}})
			return
		}
		seen[v.Name] = true
		params, err := base.Merge(overrides(v.Params)).Params()
		if err != nil {
			c.JSON(http.StatusBadRequest, models.ErrorResponse{Error: models.ErrorDetail{
				Code:    detail(err).Code,
				Message: err.Error(),
				Details: map[string]interface{}{"variation": v.Name},
			}})
			return
		}
		warmup = max(warmup, params.Window)
		variations = append(variations, backtest.Variation{Name: v.Name, Params: params})
	}

	series, err := fetchSeries(c.Request.Context(), h.source, req.Ticker, start, end, warmup)
	if err != nil {
		abort(c, err)
		return
	}

	outcomes, err := h.engine.Sweep(c.Request.Context(), data.NormalizeTicker(req.Ticker), series, variations, 0)
	if err != nil {
		abort(c, err)
		return
	}

	c.JSON(http.StatusOK, models.CompareBacktestResponse{
		Ticker:     data.NormalizeTicker(req.Ticker),
		Comparison: compare(outcomes),
	})
}

// compare ranks successful outcomes by Sharpe and appends the failures.
func compare(outcomes []backtest.Outcome) []models.ComparisonResult {
	params := make(map[string]model.BacktestParams, len(outcomes))
	var ok []analysis.Ranked
	var failed []models.ComparisonResult
	for _, o := range outcomes {
		params[o.Variation.Name] = o.Variation.Params
		if o.Err != nil {
			d := detail(o.Err)
			failed = append(failed, models.ComparisonResult{
				Name:   o.Variation.Name,
				Params: o.Variation.Params,
				Error:  &d,
			})
			continue
		}
		ok = append(ok, analysis.Ranked{Name: o.Variation.Name, Summary: o.Result.Summary})
	}

	out := make([]models.ComparisonResult, 0, len(outcomes))
	for i, r := range analysis.RankBySharpe(ok) {
		summary := r.Summary
		out = append(out, models.ComparisonResult{
			Rank:    i + 1,
			Name:    r.Name,
			Params:  params[r.Name],
			Summary: &summary,
		})
	}
	return append(out, failed...)
}

func coverage(series model.PriceSeries) models.TimeWindow {
	if len(series) == 0 {
		return models.TimeWindow{}
	}
	return models.TimeWindow{
		Start: series[0].Time.Format(time.DateOnly),
		End:   series[len(series)-1].Time.Format(time.DateOnly),
	}
}

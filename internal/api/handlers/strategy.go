package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"zscore-backtest/internal/api/models"
	"zscore-backtest/internal/config"
)

// StrategyHandler handles strategy-related requests
type StrategyHandler struct {
	defaults *config.Config
}

// NewStrategyHandler creates a new strategy handler
func NewStrategyHandler(defaults *config.Config) *StrategyHandler {
	return &StrategyHandler{defaults: defaults}
}

// ListStrategies handles GET /api/v1/strategies
func (h *StrategyHandler) ListStrategies(c *gin.Context) {
	d := h.defaults
	strategies := []models.StrategyInfo{
		{
			Name:        "zscore",
			Description: "Mean reversion on the rolling Z-score of the close. Buys when the close is threshold deviations below its rolling mean and sells when it is threshold deviations above.",
			Parameters: []models.ParameterInfo{
				{
					Name:        "window",
					Type:        "int",
					Description: "Rolling window length in periods (>= 1)",
					Default:     d.Window,
				},
				{
					Name:        "threshold",
					Type:        "float",
					Description: "Z-score magnitude that triggers a signal (> 0)",
					Default:     d.Threshold,
				},
				{
					Name:        "periods_per_year",
					Type:        "int",
					Description: "Annualization factor for yield and Sharpe",
					Default:     d.PeriodsPerYear,
				},
				{
					Name:        "deviation",
					Type:        "string",
					Description: "Standard deviation convention",
					Default:     d.Deviation,
					Options:     []string{"population", "sample"},
				},
				{
					Name:        "starting_position",
					Type:        "string",
					Description: "Position held before the first signal",
					Default:     d.StartingPosition,
					Options:     []string{"flat", "long", "short"},
				},
				{
					Name:        "pnl_mode",
					Type:        "string",
					Description: "Per-step earnings of one unit: price difference or percentage return",
					Default:     d.PnLMode,
					Options:     []string{"price", "return"},
				},
			},
		},
	}

	c.JSON(http.StatusOK, gin.H{"strategies": strategies})
}

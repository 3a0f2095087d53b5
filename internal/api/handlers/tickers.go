package handlers

import (
	"errors"
	"fmt"
	"net/http"
	"os"

	"github.com/gin-gonic/gin"

	"zscore-backtest/internal/api/models"
	"zscore-backtest/internal/data"
)

// TickerHandler serves the watchlist file.
type TickerHandler struct {
	path string
}

// NewTickerHandler creates a handler reading the watchlist at path.
func NewTickerHandler(path string) *TickerHandler {
	return &TickerHandler{path: path}
}

// ListTickers handles GET /api/v1/tickers
func (h *TickerHandler) ListTickers(c *gin.Context) {
	list, err := data.LoadWatchlist(h.path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			c.JSON(http.StatusOK, gin.H{"tickers": []models.TickerInfo{}})
			return
		}
		c.JSON(http.StatusInternalServerError, models.ErrorResponse{
			Error: models.ErrorDetail{
				Code:    "TICKERS_LOAD_ERROR",
				Message: fmt.Sprintf("Failed to load tickers: %v", err),
			},
		})
		return
	}

	tickers := make([]models.TickerInfo, len(list.Tickers))
	for i, t := range list.Tickers {
		tickers[i] = models.TickerInfo{Symbol: t.Symbol, Name: t.Name, Exchange: t.Exchange}
	}
	c.JSON(http.StatusOK, gin.H{
		"tickers":    tickers,
		"updated_at": list.UpdatedAt,
	})
}

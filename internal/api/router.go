package api

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"zscore-backtest/internal/api/handlers"
	"zscore-backtest/internal/api/middleware"
	"zscore-backtest/internal/backtest"
	"zscore-backtest/internal/config"
	"zscore-backtest/internal/data"
	"zscore-backtest/internal/metrics"
)

// Deps are the collaborators shared by all handlers.
type Deps struct {
	Source        data.PriceSource
	Defaults      *config.Config
	WatchlistPath string
	Log           zerolog.Logger
}

// NewRouter builds the gin engine with middleware and all routes.
func NewRouter(d Deps) *gin.Engine {
	if d.Defaults == nil {
		d.Defaults = config.Default()
	}
	if d.WatchlistPath == "" {
		d.WatchlistPath = data.DefaultWatchlistPath()
	}
	engine := backtest.New(d.Log)

	router := gin.New()
	router.Use(middleware.CORS())
	router.Use(middleware.Logger(d.Log))
	router.Use(middleware.ErrorHandler(d.Log))

	backtestHandler := handlers.NewBacktestHandler(d.Source, engine, d.Defaults, d.Log)
	rankHandler := handlers.NewRankHandler(d.Source, engine, d.Defaults, d.Log)
	strategyHandler := handlers.NewStrategyHandler(d.Defaults)
	tickerHandler := handlers.NewTickerHandler(d.WatchlistPath)

	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok", "source": d.Source.Name()})
	})
	router.GET("/metrics", gin.WrapH(metrics.Handler()))

	v1 := router.Group("/api/v1")
	{
		v1.POST("/backtest", backtestHandler.RunBacktest)
		v1.GET("/backtest/:id/ledger", backtestHandler.GetLedger)
		v1.POST("/backtest/compare", backtestHandler.CompareBacktests)
		v1.GET("/rank", rankHandler.RankTickers)
		v1.GET("/strategies", strategyHandler.ListStrategies)
		v1.GET("/tickers", tickerHandler.ListTickers)
	}

	router.NoRoute(func(c *gin.Context) {
		c.JSON(http.StatusNotFound, gin.H{"error": gin.H{"code": "NOT_FOUND", "message": "Not found"}})
	})
	return router
}

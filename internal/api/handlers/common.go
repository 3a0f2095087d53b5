package handlers

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"zscore-backtest/internal/api/models"
	"zscore-backtest/internal/config"
	"zscore-backtest/internal/data"
	"zscore-backtest/internal/model"
)

// fetchError marks failures of the price source so they are not confused
// with engine validation errors.
type fetchError struct {
	err error
}

func (e *fetchError) Error() string { return e.err.Error() }
func (e *fetchError) Unwrap() error { return e.err }

func overrides(p models.ParamsConfig) config.Overrides {
	return config.Overrides{
		Window:           p.Window,
		Threshold:        p.Threshold,
		PeriodsPerYear:   p.PeriodsPerYear,
		Deviation:        p.Deviation,
		StartingPosition: p.StartingPosition,
		PnLMode:          p.PnLMode,
	}
}

// parseRange validates a YYYY-MM-DD date pair.
func parseRange(startDate, endDate string) (time.Time, time.Time, error) {
	start, err := time.Parse(time.DateOnly, startDate)
	if err != nil {
		return time.Time{}, time.Time{}, errors.New("start_date must be in YYYY-MM-DD format")
	}
	end, err := time.Parse(time.DateOnly, endDate)
	if err != nil {
		return time.Time{}, time.Time{}, errors.New("end_date must be in YYYY-MM-DD format")
	}
	if start.After(end) {
		return time.Time{}, time.Time{}, fmt.Errorf("start_date %s is after end_date %s", startDate, endDate)
	}
	return start, end, nil
}

// fetchSeries retrieves the history for [start, end] plus a warm-up of
// window calendar days.
func fetchSeries(ctx context.Context, src data.PriceSource, ticker string, start, end time.Time, window int) (model.PriceSeries, error) {
	series, err := data.FetchWithWarmup(ctx, src, ticker, start, end, window)
	if err != nil {
		if errors.Is(err, model.ErrEmptySeries) {
			return nil, err
		}
		return nil, &fetchError{err: err}
	}
	return series, nil
}

// classify maps an error to an HTTP status and error code.
func classify(err error) (int, string) {
	var fe *fetchError
	switch {
	case errors.Is(err, model.ErrInvalidWindow):
		return http.StatusBadRequest, "INVALID_WINDOW"
	case errors.Is(err, model.ErrInvalidThreshold):
		return http.StatusBadRequest, "INVALID_THRESHOLD"
	case errors.Is(err, model.ErrMisalignedInput):
		return http.StatusBadRequest, "MISALIGNED_INPUT"
	case errors.Is(err, model.ErrEmptySeries):
		return http.StatusBadRequest, "EMPTY_SERIES"
	case errors.Is(err, model.ErrInvalidPeriods):
		return http.StatusBadRequest, "INVALID_PARAMS"
	case errors.As(err, &fe):
		return http.StatusBadGateway, "DATA_FETCH_ERROR"
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		return http.StatusGatewayTimeout, "TIMEOUT"
	default:
		return http.StatusBadRequest, "INVALID_REQUEST"
	}
}

func detail(err error) models.ErrorDetail {
	_, code := classify(err)
	return models.ErrorDetail{Code: code, Message: err.Error()}
}

func abort(c *gin.Context, err error) {
	status, code := classify(err)
	c.JSON(status, models.ErrorResponse{
		Error: models.ErrorDetail{Code: code, Message: err.Error()},
	})
}

func badRequest(c *gin.Context, code, msg string) {
	c.JSON(http.StatusBadRequest, models.ErrorResponse{
		Error: models.ErrorDetail{Code: code, Message: msg},
	})
}

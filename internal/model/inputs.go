package model

import "fmt"

// PnLMode selects what one unit of exposure earns per step.
type PnLMode string

const (
	// PnLModePrice earns the close-to-close price difference.
	PnLModePrice PnLMode = "price"
	// PnLModeReturn earns the simple percentage return close[i]/close[i-1]-1.
	PnLModeReturn PnLMode = "return"
)

// BacktestParams is the canonical parameter set consumed by the engine.
type BacktestParams struct {
	Window           int       `json:"window"`
	Threshold        float64   `json:"threshold"`
	PeriodsPerYear   int       `json:"periods_per_year"`
	Deviation        Deviation `json:"deviation"`
	StartingPosition Position  `json:"starting_position"`
	PnLMode          PnLMode   `json:"pnl_mode"`
}

const DefaultPeriodsPerYear = 252

// DefaultParams returns a 10 day window, a 2.0 threshold and population
// deviation, starting flat.
func DefaultParams() BacktestParams {
	return BacktestParams{
		Window:           10,
		Threshold:        2.0,
		PeriodsPerYear:   DefaultPeriodsPerYear,
		Deviation:        DeviationPopulation,
		StartingPosition: PositionFlat,
		PnLMode:          PnLModePrice,
	}
}

// Validate checks the enumerated fields. Window and threshold are checked by
// the stages themselves, against the series they are applied to.
func (p BacktestParams) Validate() error {
	switch p.Deviation {
	case DeviationPopulation, DeviationSample:
	default:
		return fmt.Errorf("unknown deviation %q (want population or sample)", p.Deviation)
	}
	switch p.StartingPosition {
	case PositionFlat, PositionLong, PositionShort:
	default:
		return fmt.Errorf("unknown starting position %q", p.StartingPosition)
	}
	switch p.PnLMode {
	case PnLModePrice, PnLModeReturn:
	default:
		return fmt.Errorf("unknown pnl mode %q (want price or return)", p.PnLMode)
	}
	if p.PeriodsPerYear <= 0 {
		return fmt.Errorf("periods_per_year %d: %w", p.PeriodsPerYear, ErrInvalidPeriods)
	}
	return nil
}

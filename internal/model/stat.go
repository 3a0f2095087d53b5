package model

import (
	"encoding/json"
	"math"
	"strconv"
	"time"
)

// Stat is a rolling statistic that may be undefined, either because the
// window has not filled yet or because the deviation is zero. Undefined is
// carried as a tag; the Value of an undefined Stat is always 0, never NaN.
type Stat struct {
	Value   float64
	Defined bool
}

func Defined(v float64) Stat {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return Stat{}
	}
	return Stat{Value: v, Defined: true}
}

// Undefined is the zero Stat.
func Undefined() Stat { return Stat{} }

// Get returns the value and whether it is defined.
func (s Stat) Get() (float64, bool) { return s.Value, s.Defined }

// MarshalJSON writes null for undefined values.
func (s Stat) MarshalJSON() ([]byte, error) {
	if !s.Defined {
		return []byte("null"), nil
	}
	return json.Marshal(s.Value)
}

func (s *Stat) UnmarshalJSON(b []byte) error {
	if string(b) == "null" {
		*s = Stat{}
		return nil
	}
	var v float64
	if err := json.Unmarshal(b, &v); err != nil {
		return err
	}
	*s = Defined(v)
	return nil
}

// String formats defined values with 6 decimals and undefined as "".
func (s Stat) String() string {
	if !s.Defined {
		return ""
	}
	return strconv.FormatFloat(s.Value, 'f', 6, 64)
}

// StatRecord holds the rolling statistics for one timestep.
type StatRecord struct {
	Time   time.Time `json:"time"`
	Mean   Stat      `json:"rolling_mean"`
	Std    Stat      `json:"rolling_std"`
	ZScore Stat      `json:"z_score"`
}

// PnLRecord is the simulated result for one timestep. Position is the
// holding after the step's signal has been applied; it earns the next step's move.
type PnLRecord struct {
	Time     time.Time `json:"time"`
	DailyPnL float64   `json:"daily_pnl"`
	CumPnL   float64   `json:"cum_pnl"`
	Position Position  `json:"position"`
}

// Deviation selects the standard deviation convention.
type Deviation string

const (
	// DeviationPopulation divides by n (ddof 0). Defined for a window of 1.
	DeviationPopulation Deviation = "population"
	// DeviationSample divides by n-1 (ddof 1).
	DeviationSample Deviation = "sample"
)

// DDOF returns the delta degrees of freedom for the convention.
func (d Deviation) DDOF() int {
	if d == DeviationSample {
		return 1
	}
	return 0
}

package model

import "errors"

// Error kinds returned by the pipeline stages. Callers match with errors.Is;
// stages wrap them with the offending values.
var (
	ErrInvalidWindow    = errors.New("invalid window")
	ErrInvalidThreshold = errors.New("invalid threshold")
	ErrMisalignedInput  = errors.New("misaligned input")
	ErrEmptySeries      = errors.New("empty series")
	ErrInvalidPeriods   = errors.New("invalid periods per year")
	ErrUnsortedSeries   = errors.New("series not strictly increasing")
	ErrInvalidPrice     = errors.New("invalid close price")
)

package model

import (
	"fmt"
	"strings"
)

// Signal is the discrete trading decision for a timestep.
// Keep the string values stable; they are written to CSV and JSON.
type Signal string

const (
	SignalBuy  Signal = "BUY"
	SignalSell Signal = "SELL"
	SignalHold Signal = "HOLD"
)

func ParseSignal(s string) (Signal, error) {
	switch Signal(strings.ToUpper(strings.TrimSpace(s))) {
	case SignalBuy:
		return SignalBuy, nil
	case SignalSell:
		return SignalSell, nil
	case SignalHold:
		return SignalHold, nil
	default:
		return "", fmt.Errorf("unknown signal %q", s)
	}
}

// Position is the simulator's holding state.
type Position string

const (
	PositionFlat  Position = "FLAT"
	PositionLong  Position = "LONG"
	PositionShort Position = "SHORT"
)

// Units is the signed unit exposure: +1 long, -1 short, 0 flat.
func (p Position) Units() float64 {
	switch p {
	case PositionLong:
		return 1
	case PositionShort:
		return -1
	default:
		return 0
	}
}

// Next applies the transition rule for one signal.
// Buy goes long, Sell goes short, Hold keeps the current position.
func (p Position) Next(sig Signal) Position {
	switch sig {
	case SignalBuy:
		return PositionLong
	case SignalSell:
		return PositionShort
	default:
		return p
	}
}

// ParsePosition accepts flat|long|short in any case. Empty means flat.
func ParsePosition(s string) (Position, error) {
	switch strings.ToUpper(strings.TrimSpace(s)) {
	case "", string(PositionFlat):
		return PositionFlat, nil
	case string(PositionLong):
		return PositionLong, nil
	case string(PositionShort):
		return PositionShort, nil
	default:
		return "", fmt.Errorf("unknown starting position %q (want flat, long or short)", s)
	}
}

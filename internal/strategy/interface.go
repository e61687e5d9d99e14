// Package strategy derives trade signals from candle history.
package strategy

import (
	"github.com/Devnone21/xtb-slim/internal/domain"
)

// Signal is a trade recommendation derived from a candle series.
type Signal int

const (
	SignalNone Signal = iota
	SignalBuy
	SignalSell
)

func (s Signal) String() string {
	switch s {
	case SignalBuy:
		return "BUY"
	case SignalSell:
		return "SELL"
	default:
		return "NONE"
	}
}

// Strategy evaluates a candle series, oldest first, and returns at most one
// signal for the latest bar.
type Strategy interface {
	Evaluate(candles []domain.Candle) Signal
}

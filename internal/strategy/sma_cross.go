package strategy

import (
	"github.com/Devnone21/xtb-slim/internal/domain"
)

// SMACross signals on simple moving average crossovers of closing prices:
// short crossing above long is a buy (golden cross), below is a sell (dead
// cross). Stateless: each Evaluate call works from the series alone.
type SMACross struct {
	shortPeriod int
	longPeriod  int
}

func NewSMACross(shortPeriod, longPeriod int) *SMACross {
	if shortPeriod >= longPeriod {
		panic("SMACross: shortPeriod must be less than longPeriod")
	}
	return &SMACross{shortPeriod: shortPeriod, longPeriod: longPeriod}
}

// MinCandles is the shortest series Evaluate can decide on: a cross needs
// both SMAs at the latest bar and at the one before it.
func (s *SMACross) MinCandles() int {
	return s.longPeriod + 1
}

// Evaluate detects a cross between the previous and the latest bar.
func (s *SMACross) Evaluate(candles []domain.Candle) Signal {
	if len(candles) < s.MinCandles() {
		return SignalNone
	}

	currShort := smaClose(candles, s.shortPeriod)
	currLong := smaClose(candles, s.longPeriod)
	prev := candles[:len(candles)-1]
	prevShort := smaClose(prev, s.shortPeriod)
	prevLong := smaClose(prev, s.longPeriod)

	if prevShort <= prevLong && currShort > currLong {
		return SignalBuy
	}
	if prevShort >= prevLong && currShort < currLong {
		return SignalSell
	}
	return SignalNone
}

// smaClose averages the closing prices of the last n candles.
func smaClose(candles []domain.Candle, n int) float64 {
	var sum float64
	for _, c := range candles[len(candles)-n:] {
		sum += c.Close
	}
	return sum / float64(n)
}

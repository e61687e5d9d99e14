// Package backtest replays historical candles through a strategy and tallies
// the hypothetical trades it would have produced.
package backtest

import (
	"log/slog"

	"github.com/Devnone21/xtb-slim/internal/domain"
	"github.com/Devnone21/xtb-slim/internal/strategy"
)

// Trade is one completed hypothetical round trip: entered on a signal,
// exited on the opposite one.
type Trade struct {
	Signal strategy.Signal
	Entry  domain.Candle
	Exit   domain.Candle
	Profit float64 // per one unit of volume
}

// Report summarizes one replay run.
type Report struct {
	Signals int
	Trades  []Trade
	Profit  float64
}

// Replayer feeds a candle series bar by bar into a strategy, exactly as the
// live loop would see it, for deterministic evaluation.
type Replayer struct {
	strat strategy.Strategy
	log   *slog.Logger
}

func NewReplayer(strat strategy.Strategy, log *slog.Logger) *Replayer {
	if log == nil {
		log = slog.Default()
	}
	return &Replayer{strat: strat, log: log}
}

// Run replays candles oldest first. A signal opens a one-unit position at the
// bar's close; the opposite signal closes it and opens the reverse. A
// position still open at the end of the series is discarded, not marked to
// the last bar.
func (r *Replayer) Run(candles []domain.Candle) Report {
	var rep Report
	entry := -1
	var entrySig strategy.Signal

	for i := range candles {
		sig := r.strat.Evaluate(candles[:i+1])
		if sig == strategy.SignalNone {
			continue
		}
		rep.Signals++

		if entry < 0 {
			entry, entrySig = i, sig
			continue
		}
		if sig == entrySig {
			continue
		}

		profit := candles[i].Close - candles[entry].Close
		if entrySig == strategy.SignalSell {
			profit = -profit
		}
		rep.Trades = append(rep.Trades, Trade{
			Signal: entrySig,
			Entry:  candles[entry],
			Exit:   candles[i],
			Profit: profit,
		})
		rep.Profit += profit
		r.log.Debug("replay round trip",
			"signal", entrySig.String(), "entry", candles[entry].Close,
			"exit", candles[i].Close, "profit", profit)

		entry, entrySig = i, sig
	}
	return rep
}

// Package market evaluates broker trading-hours schedules against a clock.
package market

import (
	"context"
	"time"

	"github.com/Devnone21/xtb-slim/internal/xapi"
)

// hoursAPI is the single client operation the evaluator needs.
type hoursAPI interface {
	GetTradingHours(ctx context.Context, symbols []string) ([]xapi.TradingHoursRecord, error)
}

// Evaluator answers "is this symbol tradeable right now" from the broker's
// per-weekday trading windows. Schedules are fetched fresh on every call;
// the evaluator keeps no state.
type Evaluator struct {
	api hoursAPI
}

func NewEvaluator(api hoursAPI) *Evaluator {
	return &Evaluator{api: api}
}

// IsOpen reports per-symbol tradeability at the given instant. A symbol is
// open when any trading window for the instant's weekday contains it; a
// weekday with no window at all means closed. Symbols missing from the
// broker's answer report closed rather than erroring. The result holds
// exactly the requested symbols; unsolicited records are ignored.
func (e *Evaluator) IsOpen(ctx context.Context, symbols []string, at time.Time) (map[string]bool, error) {
	records, err := e.api.GetTradingHours(ctx, symbols)
	if err != nil {
		return nil, err
	}

	open := make(map[string]bool, len(symbols))
	for _, s := range symbols {
		open[s] = false
	}

	day := isoWeekday(at)
	sec := secondsFromMidnight(at)
	for _, rec := range records {
		if _, requested := open[rec.Symbol]; !requested {
			continue
		}
		open[rec.Symbol] = openAt(rec.Trading, day, sec)
	}
	return open, nil
}

// openAt matches the instant against [FromT, ToT) windows of one weekday.
// The exclusive upper bound keeps back-to-back windows from double-counting
// their shared boundary second.
func openAt(spans []xapi.HoursSpan, day int, sec int64) bool {
	for _, sp := range spans {
		if sp.Day != day {
			continue
		}
		if sec >= sp.FromT && sec < sp.ToT {
			return true
		}
	}
	return false
}

// isoWeekday maps time.Weekday to the schedule's ISO numbering
// (Monday=1 .. Sunday=7).
func isoWeekday(t time.Time) int {
	if wd := int(t.Weekday()); wd != 0 {
		return wd
	}
	return 7
}

func secondsFromMidnight(t time.Time) int64 {
	return int64(t.Hour())*3600 + int64(t.Minute())*60 + int64(t.Second())
}

package xapi

import (
	"context"
	"fmt"
	"time"

	"github.com/Devnone21/xtb-slim/internal/domain"
	"github.com/Devnone21/xtb-slim/pkg/quant"
	"github.com/Devnone21/xtb-slim/pkg/safe"
)

// lastNMaxAttempts caps the look-back widening loop. Eight triplings cover
// a window over 6500 times the requested span; an instrument that sparse
// simply lacks the history.
const lastNMaxAttempts = 8

// now is stubbed in tests.
var now = time.Now

// GetLastNCandles returns the most recent n closed candles for the timeframe
// (in seconds), oldest first, with prices fully decoded. The server bounds
// chart replies by time rather than count, so the look-back window starts at
// n*timeframe and triples until the reply holds at least n candles.
func (c *Client) GetLastNCandles(ctx context.Context, symbol string, timeframeSec int64, n int) ([]domain.Candle, error) {
	period, err := domain.PeriodFromSeconds(timeframeSec)
	if err != nil {
		return nil, err
	}
	if n <= 0 {
		return nil, &domain.InvalidArgumentError{Reason: fmt.Sprintf("candle count must be positive, got %d", n)}
	}

	span := safe.MulClamp(timeframeSec, int64(n))
	for attempt := 0; attempt < lastNMaxAttempts; attempt++ {
		start := safe.AddClamp(now().Unix(), -span)
		res, err := c.GetChartLastRequest(ctx, symbol, period, start)
		if err != nil {
			return nil, err
		}
		if len(res.RateInfos) >= n {
			return decodeCandles(res.RateInfos[len(res.RateInfos)-n:], res.Digits), nil
		}
		span = safe.MulClamp(span, 3)
	}
	return nil, fmt.Errorf("%w: %s holds fewer than %d candles of %ds", domain.ErrInsufficientHistory, symbol, n, timeframeSec)
}

// decodeCandles resolves the wire encoding: close/high/low are deltas against
// the raw open, everything scaled by 10^digits, ctm in milliseconds.
func decodeCandles(infos []RateInfo, digits int) []domain.Candle {
	candles := make([]domain.Candle, 0, len(infos))
	for _, ri := range infos {
		candles = append(candles, domain.Candle{
			Timestamp: quant.Millis(ri.Ctm).Unix(),
			Open:      quant.ShiftedPrice(ri.Open, 0, digits),
			Close:     quant.ShiftedPrice(ri.Open, ri.Close, digits),
			High:      quant.ShiftedPrice(ri.Open, ri.High, digits),
			Low:       quant.ShiftedPrice(ri.Open, ri.Low, digits),
			Volume:    ri.Vol,
		})
	}
	return candles
}

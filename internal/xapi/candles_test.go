package xapi

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/Devnone21/xtb-slim/internal/domain"
)

func chartJSON(t *testing.T, digits int, infos ...RateInfo) func(Command) (Response, error) {
	t.Helper()
	data, err := json.Marshal(ChartResponse{Digits: digits, RateInfos: infos})
	if err != nil {
		t.Fatal(err)
	}
	return okJSON(string(data))
}

func bars(n int, startSec int64) []RateInfo {
	out := make([]RateInfo, n)
	for i := range out {
		out[i] = RateInfo{
			Ctm:   (startSec + int64(i)*60) * 1000,
			Open:  11000 + float64(i),
			Close: 10,
			High:  20,
			Low:   -5,
			Vol:   100,
		}
	}
	return out
}

func chartStart(t *testing.T, cmd Command) int64 {
	t.Helper()
	info, ok := cmd.Args["info"].(map[string]any)
	if !ok {
		t.Fatalf("no info block: %+v", cmd.Args)
	}
	start, ok := info["start"].(int64)
	if !ok {
		t.Fatalf("start not int64: %+v", info)
	}
	return start
}

func TestGetLastNCandlesWidensUntilEnough(t *testing.T) {
	fixed := time.Unix(1700000000, 0)
	restore := now
	now = func() time.Time { return fixed }
	defer func() { now = restore }()

	f := &fakeSession{handlers: []func(Command) (Response, error){
		chartJSON(t, 1, bars(3, 1699999000)...),
		chartJSON(t, 1, bars(6, 1699998800)...),
	}}
	c := newTestClient(f)

	candles, err := c.GetLastNCandles(context.Background(), "GOLD", 60, 5)
	if err != nil {
		t.Fatalf("GetLastNCandles: %v", err)
	}
	if len(candles) != 5 {
		t.Fatalf("len = %d, want exactly 5", len(candles))
	}

	// The 6-bar reply starts at 1699998800; the oldest returned candle is
	// the second bar of that reply.
	first := candles[0]
	if first.Timestamp != 1699998860 {
		t.Errorf("oldest timestamp = %d", first.Timestamp)
	}
	if first.Open != 1100.1 || first.Close != 1101.1 || first.High != 1102.1 || first.Low != 1099.6 {
		t.Errorf("decoded candle = %+v", first)
	}
	for i := 1; i < len(candles); i++ {
		if candles[i].Timestamp <= candles[i-1].Timestamp {
			t.Fatalf("candles out of order at %d", i)
		}
	}

	// First window covers n*timeframe, the second is tripled.
	if len(f.calls) != 2 {
		t.Fatalf("calls = %d", len(f.calls))
	}
	if got := chartStart(t, f.calls[0]); got != (1700000000-300)*1000 {
		t.Errorf("first start = %d", got)
	}
	if got := chartStart(t, f.calls[1]); got != (1700000000-900)*1000 {
		t.Errorf("second start = %d, want tripled window", got)
	}
}

func TestGetLastNCandlesGivesUpAfterCap(t *testing.T) {
	f := &fakeSession{onExchange: chartJSON(t, 1, bars(1, 1699999940)...)}
	c := newTestClient(f)

	_, err := c.GetLastNCandles(context.Background(), "GOLD", 60, 5)
	if !errors.Is(err, domain.ErrInsufficientHistory) {
		t.Fatalf("err = %v, want ErrInsufficientHistory", err)
	}
	if len(f.calls) != lastNMaxAttempts {
		t.Errorf("calls = %d, want %d", len(f.calls), lastNMaxAttempts)
	}
}

func TestGetLastNCandlesValidation(t *testing.T) {
	f := &fakeSession{}
	c := newTestClient(f)
	ctx := context.Background()

	var ia *domain.InvalidArgumentError
	if _, err := c.GetLastNCandles(ctx, "GOLD", 61, 5); !errors.As(err, &ia) {
		t.Errorf("timeframe 61s: err = %v", err)
	}
	if _, err := c.GetLastNCandles(ctx, "GOLD", 60, 0); !errors.As(err, &ia) {
		t.Errorf("n=0: err = %v", err)
	}
	if len(f.calls) != 0 {
		t.Error("invalid arguments reached the wire")
	}
}

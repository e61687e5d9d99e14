package market

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/Devnone21/xtb-slim/internal/xapi"
)

type fakeHoursAPI struct {
	records []xapi.TradingHoursRecord
	err     error
	symbols []string
}

func (f *fakeHoursAPI) GetTradingHours(_ context.Context, symbols []string) ([]xapi.TradingHoursRecord, error) {
	f.symbols = symbols
	return f.records, f.err
}

// forexHours: Monday and Tuesday 07:00-21:00, nothing on other days.
func forexHours(symbol string) xapi.TradingHoursRecord {
	spans := []xapi.HoursSpan{
		{Day: 1, FromT: 7 * 3600, ToT: 21 * 3600},
		{Day: 2, FromT: 7 * 3600, ToT: 21 * 3600},
	}
	return xapi.TradingHoursRecord{Symbol: symbol, Trading: spans, Quotes: spans}
}

// 2026-08-31 is a Monday.
func monday(hour, min, sec int) time.Time {
	return time.Date(2026, 8, 31, hour, min, sec, 0, time.UTC)
}

func TestIsOpenInsideWindow(t *testing.T) {
	api := &fakeHoursAPI{records: []xapi.TradingHoursRecord{forexHours("EURUSD")}}
	ev := NewEvaluator(api)

	open, err := ev.IsOpen(context.Background(), []string{"EURUSD"}, monday(12, 0, 0))
	if err != nil {
		t.Fatalf("IsOpen: %v", err)
	}
	if !open["EURUSD"] {
		t.Error("EURUSD closed at Monday noon, want open")
	}
	if len(api.symbols) != 1 || api.symbols[0] != "EURUSD" {
		t.Errorf("queried symbols = %v", api.symbols)
	}
}

func TestIsOpenWindowBounds(t *testing.T) {
	api := &fakeHoursAPI{records: []xapi.TradingHoursRecord{forexHours("EURUSD")}}
	ev := NewEvaluator(api)
	ctx := context.Background()

	tests := []struct {
		name string
		at   time.Time
		want bool
	}{
		{"lower bound inclusive", monday(7, 0, 0), true},
		{"just before open", monday(6, 59, 59), false},
		{"upper bound exclusive", monday(21, 0, 0), false},
		{"last open second", monday(20, 59, 59), true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			open, err := ev.IsOpen(ctx, []string{"EURUSD"}, tt.at)
			if err != nil {
				t.Fatal(err)
			}
			if open["EURUSD"] != tt.want {
				t.Errorf("open = %v, want %v", open["EURUSD"], tt.want)
			}
		})
	}
}

func TestIsOpenAbsentWeekdayMeansClosed(t *testing.T) {
	api := &fakeHoursAPI{records: []xapi.TradingHoursRecord{forexHours("EURUSD")}}
	ev := NewEvaluator(api)

	// 2026-09-06 is a Sunday; the schedule has no day-7 window.
	sunday := time.Date(2026, 9, 6, 12, 0, 0, 0, time.UTC)
	open, err := ev.IsOpen(context.Background(), []string{"EURUSD"}, sunday)
	if err != nil {
		t.Fatal(err)
	}
	if open["EURUSD"] {
		t.Error("open on a weekday with no window, want closed")
	}
}

func TestIsOpenMissingSymbolReportsClosed(t *testing.T) {
	api := &fakeHoursAPI{records: []xapi.TradingHoursRecord{forexHours("EURUSD")}}
	ev := NewEvaluator(api)

	open, err := ev.IsOpen(context.Background(), []string{"EURUSD", "GHOST"}, monday(12, 0, 0))
	if err != nil {
		t.Fatal(err)
	}
	if got, ok := open["GHOST"]; !ok || got {
		t.Errorf("GHOST = %v, %v; want present and closed", got, ok)
	}
}

func TestIsOpenIgnoresUnsolicitedRecords(t *testing.T) {
	api := &fakeHoursAPI{records: []xapi.TradingHoursRecord{
		forexHours("EURUSD"),
		forexHours("SURPRISE"), // never requested
	}}
	ev := NewEvaluator(api)

	open, err := ev.IsOpen(context.Background(), []string{"EURUSD"}, monday(12, 0, 0))
	if err != nil {
		t.Fatal(err)
	}
	if len(open) != 1 {
		t.Errorf("result has %d entries, want only the requested symbol", len(open))
	}
	if _, ok := open["SURPRISE"]; ok {
		t.Error("unsolicited record leaked into the result")
	}
}

func TestIsOpenPropagatesError(t *testing.T) {
	wantErr := errors.New("boom")
	ev := NewEvaluator(&fakeHoursAPI{err: wantErr})

	if _, err := ev.IsOpen(context.Background(), []string{"EURUSD"}, monday(12, 0, 0)); !errors.Is(err, wantErr) {
		t.Errorf("err = %v, want %v", err, wantErr)
	}
}

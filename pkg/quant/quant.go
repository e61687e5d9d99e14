// Package quant holds the numeric boundary conversions between local time
// units / prices and the wire convention of the trading protocol.
package quant

import (
	"time"

	"github.com/shopspring/decimal"
)

// Millis is a timestamp in milliseconds since epoch, the protocol's wire
// convention. Local code works in seconds or time.Time; conversion happens
// only at the boundary.
type Millis int64

// MillisFromUnix converts seconds since epoch to wire milliseconds.
func MillisFromUnix(sec int64) Millis {
	return Millis(sec * 1000)
}

// MillisFromTime converts a time.Time to wire milliseconds.
func MillisFromTime(t time.Time) Millis {
	return Millis(t.UnixMilli())
}

// Unix converts wire milliseconds back to seconds since epoch.
// Sub-second precision is dropped, matching the protocol's second-level
// granularity for trading-hours and candle timestamps.
func (m Millis) Unix() int64 {
	return int64(m) / 1000
}

// Time converts wire milliseconds to a time.Time.
func (m Millis) Time() time.Time {
	return time.UnixMilli(int64(m))
}

// ShiftedPrice reconstructs an absolute price from the chart encoding: raw
// values are scaled by 10^digits and close/high/low arrive as deltas against
// the open. decimal keeps the digit shift exact; float division by powers of
// ten does not.
func ShiftedPrice(base, delta float64, digits int) float64 {
	d := decimal.NewFromFloat(base).Add(decimal.NewFromFloat(delta))
	return d.Shift(int32(-digits)).InexactFloat64()
}

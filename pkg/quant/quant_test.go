package quant

import (
	"testing"
	"time"
)

func TestMillisRoundTrip(t *testing.T) {
	if got := MillisFromUnix(1700000000); got != 1700000000000 {
		t.Errorf("MillisFromUnix = %d", got)
	}
	if got := Millis(1700000000123).Unix(); got != 1700000000 {
		t.Errorf("Unix dropped sub-second wrong: %d", got)
	}
	ts := time.Unix(1700000000, 500*int64(time.Millisecond))
	if got := MillisFromTime(ts); got != 1700000000500 {
		t.Errorf("MillisFromTime = %d", got)
	}
}

func TestShiftedPrice(t *testing.T) {
	tests := []struct {
		base, delta float64
		digits      int
		want        float64
	}{
		{11234, 0, 1, 1123.4},
		{11234, 10, 1, 1124.4},
		{11234, -14, 1, 1122.0},
		{108551, 23, 3, 108.574},
		{50000, 0, 0, 50000},
	}
	for _, tt := range tests {
		if got := ShiftedPrice(tt.base, tt.delta, tt.digits); got != tt.want {
			t.Errorf("ShiftedPrice(%v, %v, %d) = %v, want %v",
				tt.base, tt.delta, tt.digits, got, tt.want)
		}
	}
}

package domain

// Candle is one decoded OHLC bar. Prices are absolute (the wire's digit
// shifting and open-relative deltas already resolved), Timestamp is seconds
// since epoch, oldest candles sort first.
type Candle struct {
	Timestamp int64
	Open      float64
	Close     float64
	High      float64
	Low       float64
	Volume    float64
}

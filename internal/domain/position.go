package domain

import "time"

// Position is the locally tracked mirror of one open trade.
// Instances are owned exclusively by the position tracker and are rebuilt
// wholesale on every refresh; they are never updated in place.
type Position struct {
	Order    int // unique order id, the tracker's key
	Symbol   string
	Mode     Mode    // ModeBuy or ModeSell
	Volume   float64 // lots
	Price    float64 // close_price at refresh time, used for the close fast path
	Profit   float64 // accumulated profit at refresh time
	OpenedAt time.Time
}

// IsBuy reports whether the position is long.
func (p *Position) IsBuy() bool {
	return p.Mode == ModeBuy
}

// IsSell reports whether the position is short.
func (p *Position) IsSell() bool {
	return p.Mode == ModeSell
}

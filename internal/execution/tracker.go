package execution

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/Devnone21/xtb-slim/internal/domain"
	"github.com/Devnone21/xtb-slim/internal/xapi"
)

// Tracker mirrors the account's open positions. The mirror is rebuilt
// wholesale from the server on every Refresh; stale local entries never
// survive a refresh. Reads between refreshes are served from memory.
type Tracker struct {
	api TradeAPI

	mu        sync.RWMutex
	positions map[int]domain.Position
}

func NewTracker(api TradeAPI) *Tracker {
	return &Tracker{api: api, positions: make(map[int]domain.Position)}
}

// Refresh replaces the whole mirror with the server's current open trades.
func (t *Tracker) Refresh(ctx context.Context) error {
	trades, err := t.api.GetTrades(ctx, true)
	if err != nil {
		return fmt.Errorf("refresh positions: %w", err)
	}

	next := make(map[int]domain.Position, len(trades))
	for _, tr := range trades {
		next[tr.Order] = positionFromTrade(tr)
	}

	t.mu.Lock()
	t.positions = next
	t.mu.Unlock()
	return nil
}

// Get returns the mirrored position for an order id, if present.
func (t *Tracker) Get(order int) (domain.Position, bool) {
	t.mu.RLock()
	defer t.mu.RUnlock()
	p, ok := t.positions[order]
	return p, ok
}

// Positions returns a snapshot copy of the mirror.
func (t *Tracker) Positions() []domain.Position {
	t.mu.RLock()
	defer t.mu.RUnlock()
	out := make([]domain.Position, 0, len(t.positions))
	for _, p := range t.positions {
		out = append(out, p)
	}
	return out
}

// Len reports the number of mirrored positions.
func (t *Tracker) Len() int {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return len(t.positions)
}

// ProfitOf refreshes the mirror and returns the current profit of one
// position. An order id the server no longer reports is an UnknownPosition.
func (t *Tracker) ProfitOf(ctx context.Context, order int) (float64, error) {
	if err := t.Refresh(ctx); err != nil {
		return 0, err
	}
	p, ok := t.Get(order)
	if !ok {
		return 0, &domain.UnknownPositionError{Order: order}
	}
	return p.Profit, nil
}

func positionFromTrade(tr xapi.TradeRecord) domain.Position {
	return domain.Position{
		Order:    tr.Order,
		Symbol:   tr.Symbol,
		Mode:     domain.Mode(tr.Cmd),
		Volume:   tr.Volume,
		Price:    tr.ClosePrice,
		Profit:   tr.Profit,
		OpenedAt: time.Unix(tr.OpenTime, 0),
	}
}

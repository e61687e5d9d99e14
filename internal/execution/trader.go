package execution

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/google/uuid"
	"github.com/qmuntal/stateless"

	"github.com/Devnone21/xtb-slim/internal/domain"
	"github.com/Devnone21/xtb-slim/internal/xapi"
)

// Order lifecycle states for one open submission.
const (
	stateQuoting    = "Quoting"
	stateSubmitting = "Submitting"
	stateConfirming = "Confirming"
	stateAccepted   = "Accepted"
	stateRejected   = "Rejected"
)

const (
	triggerSubmit  = "Submit"
	triggerConfirm = "Confirm"
	triggerAccept  = "Accept"
	triggerReject  = "Reject"
)

// Trader drives market order flows end to end: quote, submit, mirror refresh,
// broker confirmation. One Trader serves one session; calls are safe to run
// concurrently because every shared step goes through the tracker or the
// paced client.
type Trader struct {
	api     TradeAPI
	tracker *Tracker
	log     *slog.Logger
}

// OpenResult reports a confirmed open submission.
type OpenResult struct {
	Order  int
	Price  float64
	Status xapi.TransactionStatus
}

// CloseResult reports the outcome of closing one position. Code carries the
// server's error code when the close resolved through the already-closed
// path; Err is set when the close genuinely failed.
type CloseResult struct {
	Order int
	Code  string
	Err   error
}

func NewTrader(api TradeAPI, tracker *Tracker, log *slog.Logger) *Trader {
	if log == nil {
		log = slog.Default()
	}
	return &Trader{api: api, tracker: tracker, log: log}
}

// newOrderMachine builds the lifecycle machine for one open submission.
// Firing an out-of-order trigger returns an error instead of corrupting the
// flow.
func (t *Trader) newOrderMachine(symbol string) *stateless.StateMachine {
	m := stateless.NewStateMachine(stateQuoting)
	m.Configure(stateQuoting).
		Permit(triggerSubmit, stateSubmitting)
	m.Configure(stateSubmitting).
		Permit(triggerConfirm, stateConfirming)
	m.Configure(stateConfirming).
		Permit(triggerAccept, stateAccepted).
		Permit(triggerReject, stateRejected)
	m.Configure(stateAccepted).
		OnEntry(func(_ context.Context, _ ...any) error {
			t.log.Info("✅ order accepted", "symbol", symbol)
			return nil
		})
	m.Configure(stateRejected).
		OnEntry(func(_ context.Context, _ ...any) error {
			t.log.Warn("❌ order rejected", "symbol", symbol)
			return nil
		})
	return m
}

// OpenOption tunes one open submission.
type OpenOption func(*domain.TradeTransInfo)

// WithStopLoss sets the stop-loss price on the submission.
func WithStopLoss(price float64) OpenOption {
	return func(info *domain.TradeTransInfo) { info.Sl = price }
}

// WithTakeProfit sets the take-profit price on the submission.
func WithTakeProfit(price float64) OpenOption {
	return func(info *domain.TradeTransInfo) { info.Tp = price }
}

// OpenTrade opens a market position: quote the symbol, submit at ask (buy) or
// bid (sell), refresh the position mirror, then confirm with the broker. A
// confirmation status other than accepted is a TransactionRejectedError.
func (t *Trader) OpenTrade(ctx context.Context, symbol string, direction any, volume any, opts ...OpenOption) (OpenResult, error) {
	mode, err := domain.ParseBuySell(direction)
	if err != nil {
		return OpenResult{}, err
	}
	vol, err := domain.ParseVolume(volume)
	if err != nil {
		return OpenResult{}, err
	}

	machine := t.newOrderMachine(symbol)

	sym, err := t.api.GetSymbol(ctx, symbol)
	if err != nil {
		return OpenResult{}, fmt.Errorf("quote %s: %w", symbol, err)
	}
	price := sym.Ask
	if mode == domain.ModeSell {
		price = sym.Bid
	}
	if err := machine.FireCtx(ctx, triggerSubmit); err != nil {
		return OpenResult{}, err
	}

	info := domain.TradeTransInfo{
		Cmd:           mode,
		Type:          domain.TransOpen,
		Symbol:        symbol,
		Volume:        vol,
		Price:         price,
		CustomComment: orderComment(),
	}
	for _, opt := range opts {
		opt(&info)
	}
	t.log.Info("📤 submitting order",
		"symbol", symbol, "mode", mode.String(), "volume", vol, "price", price,
		"sl", info.Sl, "tp", info.Tp)
	order, err := t.api.TradeTransaction(ctx, info, nil)
	if err != nil {
		return OpenResult{}, err
	}
	if err := machine.FireCtx(ctx, triggerConfirm); err != nil {
		return OpenResult{}, err
	}

	if err := t.tracker.Refresh(ctx); err != nil {
		return OpenResult{}, err
	}

	status, err := t.api.TradeTransactionStatus(ctx, order)
	if err != nil {
		return OpenResult{}, err
	}
	result := OpenResult{Order: order, Price: price, Status: status}
	if status.RequestStatus != domain.RequestStatusAccepted {
		if ferr := machine.FireCtx(ctx, triggerReject); ferr != nil {
			t.log.Warn("order state transition failed", slog.Any("error", ferr))
		}
		return result, &domain.TransactionRejectedError{Status: status.RequestStatus}
	}
	if err := machine.FireCtx(ctx, triggerAccept); err != nil {
		return result, err
	}
	return result, nil
}

// CloseTrade closes one open position by order id. The mirror is refreshed
// first so the submission carries current price and volume; an id the server
// no longer reports is an UnknownPosition. A server already-closed answer
// counts as success.
func (t *Trader) CloseTrade(ctx context.Context, order int) (CloseResult, error) {
	if err := t.tracker.Refresh(ctx); err != nil {
		return CloseResult{Order: order}, err
	}
	pos, ok := t.tracker.Get(order)
	if !ok {
		err := &domain.UnknownPositionError{Order: order}
		return CloseResult{Order: order, Err: err}, err
	}
	res := t.closePosition(ctx, pos)
	return res, res.Err
}

// CloseAll closes every mirrored position after one refresh. Submissions are
// independent: one failure does not stop the sweep, and each position gets
// its own result.
func (t *Trader) CloseAll(ctx context.Context) ([]CloseResult, error) {
	if err := t.tracker.Refresh(ctx); err != nil {
		return nil, err
	}
	positions := t.tracker.Positions()
	results := make([]CloseResult, 0, len(positions))
	for _, pos := range positions {
		results = append(results, t.closePosition(ctx, pos))
	}
	return results, nil
}

func (t *Trader) closePosition(ctx context.Context, pos domain.Position) CloseResult {
	info := domain.TradeTransInfo{
		Cmd:    pos.Mode,
		Type:   domain.TransClose,
		Symbol: pos.Symbol,
		Volume: pos.Volume,
		Price:  pos.Price,
		Order:  pos.Order,
	}
	order, err := t.api.TradeTransaction(ctx, info, nil)
	if err != nil {
		var cf *domain.CommandFailedError
		if errors.As(err, &cf) && cf.Code == domain.ErrCodeAlreadyClosed {
			t.log.Info("position already closed on server", "order", pos.Order)
			return CloseResult{Order: pos.Order, Code: cf.Code}
		}
		return CloseResult{Order: pos.Order, Err: err}
	}

	status, err := t.api.TradeTransactionStatus(ctx, order)
	if err != nil {
		return CloseResult{Order: pos.Order, Err: err}
	}
	if status.RequestStatus != domain.RequestStatusAccepted {
		return CloseResult{
			Order: pos.Order,
			Err:   &domain.TransactionRejectedError{Status: status.RequestStatus},
		}
	}
	t.log.Info("✅ position closed", "order", pos.Order, "symbol", pos.Symbol)
	return CloseResult{Order: pos.Order}
}

// orderComment tags a submission so it can be found again in trade history.
func orderComment() string {
	return "xs-" + uuid.NewString()[:8]
}

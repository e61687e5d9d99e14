package execution

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Devnone21/xtb-slim/internal/domain"
	"github.com/Devnone21/xtb-slim/internal/xapi"
)

type tradeCall struct {
	info   domain.TradeTransInfo
	extras map[string]any
}

// tradingFixture scripts a broker for full open/close flows.
type tradingFixture struct {
	symbol      xapi.SymbolRecord
	trades      []xapi.TradeRecord
	submissions []tradeCall
	submitOrder int
	submitErr   error
	status      xapi.TransactionStatus
	statusErr   error
}

func (f *tradingFixture) api() *MockTradeAPI {
	return &MockTradeAPI{
		GetSymbolFunc: func(context.Context, string) (xapi.SymbolRecord, error) {
			return f.symbol, nil
		},
		GetTradesFunc: func(context.Context, bool) ([]xapi.TradeRecord, error) {
			return f.trades, nil
		},
		TradeTransactionFunc: func(_ context.Context, info domain.TradeTransInfo, extras map[string]any) (int, error) {
			f.submissions = append(f.submissions, tradeCall{info: info, extras: extras})
			return f.submitOrder, f.submitErr
		},
		TradeTransactionStatusFunc: func(_ context.Context, order int) (xapi.TransactionStatus, error) {
			return f.status, f.statusErr
		},
	}
}

func newTestTrader(f *tradingFixture) *Trader {
	api := f.api()
	return NewTrader(api, NewTracker(api), nil)
}

func accepted(order int) xapi.TransactionStatus {
	return xapi.TransactionStatus{Order: order, RequestStatus: domain.RequestStatusAccepted}
}

func TestOpenTradeBuyUsesAsk(t *testing.T) {
	f := &tradingFixture{
		symbol:      xapi.SymbolRecord{Symbol: "EURUSD", Ask: 1.0855, Bid: 1.0853},
		submitOrder: 100,
		status:      accepted(100),
	}
	tr := newTestTrader(f)

	res, err := tr.OpenTrade(context.Background(), "EURUSD", "buy", 0.1)
	require.NoError(t, err)
	assert.Equal(t, 100, res.Order)
	assert.Equal(t, 1.0855, res.Price)

	require.Len(t, f.submissions, 1)
	sub := f.submissions[0].info
	assert.Equal(t, domain.ModeBuy, sub.Cmd)
	assert.Equal(t, domain.TransOpen, sub.Type)
	assert.Equal(t, 1.0855, sub.Price)
	assert.Equal(t, 0.1, sub.Volume)
	assert.NotEmpty(t, sub.CustomComment)
}

func TestOpenTradeSellUsesBid(t *testing.T) {
	f := &tradingFixture{
		symbol:      xapi.SymbolRecord{Symbol: "EURUSD", Ask: 1.0855, Bid: 1.0853},
		submitOrder: 101,
		status:      accepted(101),
	}
	tr := newTestTrader(f)

	res, err := tr.OpenTrade(context.Background(), "EURUSD", "SELL", "0.2")
	require.NoError(t, err)
	assert.Equal(t, 1.0853, res.Price)
	assert.Equal(t, domain.ModeSell, f.submissions[0].info.Cmd)
	assert.Equal(t, 0.2, f.submissions[0].info.Volume)
}

func TestOpenTradeStopLossTakeProfit(t *testing.T) {
	f := &tradingFixture{
		symbol:      xapi.SymbolRecord{Symbol: "GOLD", Ask: 2400.5, Bid: 2400.0},
		submitOrder: 103,
		status:      accepted(103),
	}
	tr := newTestTrader(f)

	_, err := tr.OpenTrade(context.Background(), "GOLD", "buy", 0.1,
		WithStopLoss(2390.0), WithTakeProfit(2420.0))
	require.NoError(t, err)

	require.Len(t, f.submissions, 1)
	sub := f.submissions[0].info
	assert.Equal(t, 2390.0, sub.Sl)
	assert.Equal(t, 2420.0, sub.Tp)
}

func TestOpenTradeDefaultsToNoStops(t *testing.T) {
	f := &tradingFixture{
		symbol:      xapi.SymbolRecord{Symbol: "GOLD", Ask: 2400.5, Bid: 2400.0},
		submitOrder: 104,
		status:      accepted(104),
	}
	tr := newTestTrader(f)

	_, err := tr.OpenTrade(context.Background(), "GOLD", "buy", 0.1)
	require.NoError(t, err)
	sub := f.submissions[0].info
	assert.Zero(t, sub.Sl)
	assert.Zero(t, sub.Tp)
}

func TestOpenTradeInvalidDirection(t *testing.T) {
	f := &tradingFixture{}
	tr := newTestTrader(f)

	_, err := tr.OpenTrade(context.Background(), "EURUSD", "hold", 0.1)
	var ia *domain.InvalidArgumentError
	require.ErrorAs(t, err, &ia)
	assert.Empty(t, f.submissions, "invalid direction must not reach the broker")
}

func TestOpenTradeRejectedStatus(t *testing.T) {
	f := &tradingFixture{
		symbol:      xapi.SymbolRecord{Symbol: "GOLD", Ask: 2400.5, Bid: 2400.0},
		submitOrder: 102,
		status:      xapi.TransactionStatus{Order: 102, RequestStatus: 4},
	}
	tr := newTestTrader(f)

	res, err := tr.OpenTrade(context.Background(), "GOLD", "buy", 0.1)
	var rej *domain.TransactionRejectedError
	require.ErrorAs(t, err, &rej)
	assert.Equal(t, 4, rej.Status)
	// The result still carries what the broker said for diagnostics.
	assert.Equal(t, 102, res.Order)
}

func TestCloseTrade(t *testing.T) {
	f := &tradingFixture{
		trades: []xapi.TradeRecord{{
			Order: 7, Symbol: "GOLD", Cmd: 0, Volume: 0.1, ClosePrice: 2401.2,
		}},
		submitOrder: 200,
		status:      accepted(200),
	}
	tr := newTestTrader(f)

	res, err := tr.CloseTrade(context.Background(), 7)
	require.NoError(t, err)
	assert.Equal(t, 7, res.Order)

	sub := f.submissions[0].info
	assert.Equal(t, domain.TransClose, sub.Type)
	assert.Equal(t, 7, sub.Order)
	assert.Equal(t, 2401.2, sub.Price, "close must use the refreshed price")
	assert.Equal(t, 0.1, sub.Volume)
}

func TestCloseTradeUnknownPosition(t *testing.T) {
	f := &tradingFixture{}
	tr := newTestTrader(f)

	_, err := tr.CloseTrade(context.Background(), 42)
	var up *domain.UnknownPositionError
	require.ErrorAs(t, err, &up)
	assert.Equal(t, 42, up.Order)
	assert.Empty(t, f.submissions)
}

func TestCloseTradeAlreadyClosedIsSuccess(t *testing.T) {
	f := &tradingFixture{
		trades: []xapi.TradeRecord{{Order: 7, Symbol: "GOLD", Volume: 0.1}},
		submitErr: &domain.CommandFailedError{
			Command: "tradeTransaction", Code: domain.ErrCodeAlreadyClosed,
		},
	}
	tr := newTestTrader(f)

	res, err := tr.CloseTrade(context.Background(), 7)
	require.NoError(t, err, "already-closed must resolve as success")
	assert.Equal(t, domain.ErrCodeAlreadyClosed, res.Code)
}

func TestCloseAllPartialFailure(t *testing.T) {
	f := &tradingFixture{
		trades: []xapi.TradeRecord{
			{Order: 1, Symbol: "EURUSD", Volume: 0.1},
			{Order: 2, Symbol: "GOLD", Volume: 0.2},
		},
		status: xapi.TransactionStatus{RequestStatus: 4},
	}
	tr := newTestTrader(f)

	results, err := tr.CloseAll(context.Background())
	require.NoError(t, err, "the sweep itself succeeds even when closes fail")
	require.Len(t, results, 2)
	for _, res := range results {
		var rej *domain.TransactionRejectedError
		assert.ErrorAs(t, res.Err, &rej)
	}
	assert.Len(t, f.submissions, 2, "one submission per position")
}

func TestCloseAllEmptyMirror(t *testing.T) {
	tr := newTestTrader(&tradingFixture{})
	results, err := tr.CloseAll(context.Background())
	require.NoError(t, err)
	assert.Empty(t, results)
}

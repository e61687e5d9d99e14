package execution

import (
	"context"

	"github.com/Devnone21/xtb-slim/internal/domain"
	"github.com/Devnone21/xtb-slim/internal/xapi"
)

// MockTradeAPI implements TradeAPI with pluggable function fields.
// Unset fields return zero values.
type MockTradeAPI struct {
	GetSymbolFunc              func(ctx context.Context, symbol string) (xapi.SymbolRecord, error)
	GetTradesFunc              func(ctx context.Context, openedOnly bool) ([]xapi.TradeRecord, error)
	TradeTransactionFunc       func(ctx context.Context, info domain.TradeTransInfo, extras map[string]any) (int, error)
	TradeTransactionStatusFunc func(ctx context.Context, order int) (xapi.TransactionStatus, error)
}

func (m *MockTradeAPI) GetSymbol(ctx context.Context, symbol string) (xapi.SymbolRecord, error) {
	if m.GetSymbolFunc == nil {
		return xapi.SymbolRecord{}, nil
	}
	return m.GetSymbolFunc(ctx, symbol)
}

func (m *MockTradeAPI) GetTrades(ctx context.Context, openedOnly bool) ([]xapi.TradeRecord, error) {
	if m.GetTradesFunc == nil {
		return nil, nil
	}
	return m.GetTradesFunc(ctx, openedOnly)
}

func (m *MockTradeAPI) TradeTransaction(ctx context.Context, info domain.TradeTransInfo, extras map[string]any) (int, error) {
	if m.TradeTransactionFunc == nil {
		return 0, nil
	}
	return m.TradeTransactionFunc(ctx, info, extras)
}

func (m *MockTradeAPI) TradeTransactionStatus(ctx context.Context, order int) (xapi.TransactionStatus, error) {
	if m.TradeTransactionStatusFunc == nil {
		return xapi.TransactionStatus{}, nil
	}
	return m.TradeTransactionStatusFunc(ctx, order)
}

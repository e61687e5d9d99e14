// Package execution layers stateful trade orchestration over the raw
// protocol client: the position tracker mirrors the account's open trades,
// and the trader drives open/close flows end to end.
package execution

import (
	"context"

	"github.com/Devnone21/xtb-slim/internal/domain"
	"github.com/Devnone21/xtb-slim/internal/xapi"
)

// TradeAPI is the slice of the protocol client this package depends on.
// *xapi.Client satisfies it; tests substitute a scripted mock.
type TradeAPI interface {
	GetSymbol(ctx context.Context, symbol string) (xapi.SymbolRecord, error)
	GetTrades(ctx context.Context, openedOnly bool) ([]xapi.TradeRecord, error)
	TradeTransaction(ctx context.Context, info domain.TradeTransInfo, extras map[string]any) (int, error)
	TradeTransactionStatus(ctx context.Context, order int) (xapi.TransactionStatus, error)
}

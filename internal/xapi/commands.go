package xapi

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"

	"github.com/Devnone21/xtb-slim/internal/domain"
	"github.com/Devnone21/xtb-slim/internal/infra"
	"github.com/Devnone21/xtb-slim/pkg/quant"
)

// Client exposes one typed operation per protocol command. All operations go
// through the dispatcher, so pacing and the single transport retry apply
// uniformly. Arguments are validated before any network traffic; timestamps
// cross the boundary in milliseconds and come back in seconds.
type Client struct {
	d *dispatcher
}

// LoginResult carries the extras of a successful login.
type LoginResult struct {
	StreamSessionID string
}

func NewClient(sess *Session, log *slog.Logger) *Client {
	if log == nil {
		log = slog.Default()
	}
	return &Client{d: newDispatcher(sess, infra.NewPacer(minCommandInterval), log)}
}

// newClientWith wires a client over any session implementation, for tests.
func newClientWith(sess session, pacer *infra.Pacer, log *slog.Logger) *Client {
	if log == nil {
		log = slog.Default()
	}
	return &Client{d: newDispatcher(sess, pacer, log)}
}

// Login authenticates, superseding any previous connection. Paced like every
// other command.
func (c *Client) Login(ctx context.Context, creds Credentials) (LoginResult, error) {
	if err := c.d.pacer.Wait(ctx); err != nil {
		return LoginResult{}, err
	}
	resp, err := c.d.sess.Login(ctx, creds)
	if err != nil {
		return LoginResult{}, err
	}
	if !resp.Status {
		return LoginResult{}, &domain.CommandFailedError{Command: cmdLogin, Code: resp.ErrorCode, Descr: resp.ErrorDescr}
	}
	return LoginResult{StreamSessionID: resp.StreamSessionID}, nil
}

// Logout ends the session with one best-effort command.
func (c *Client) Logout(ctx context.Context) error {
	if err := c.d.pacer.Wait(ctx); err != nil {
		return err
	}
	resp, err := c.d.sess.Logout(ctx)
	if err != nil {
		return err
	}
	_, err = classify(cmdLogout, resp)
	return err
}

// Status reports the session's authentication state.
func (c *Client) Status() Status {
	return c.d.sess.Status()
}

// call dispatches one command and decodes its returnData into out, when both
// are present.
func (c *Client) call(ctx context.Context, name string, args map[string]any, out any) error {
	raw, err := c.d.dispatch(ctx, Command{Name: name, Args: args})
	if err != nil {
		return err
	}
	if out == nil || len(raw) == 0 {
		return nil
	}
	if err := json.Unmarshal(raw, out); err != nil {
		return fmt.Errorf("decode %s returnData: %w", name, err)
	}
	return nil
}

// Ping keeps the session alive between commands.
func (c *Client) Ping(ctx context.Context) error {
	return c.call(ctx, cmdPing, nil, nil)
}

func (c *Client) GetVersion(ctx context.Context) (VersionRecord, error) {
	var out VersionRecord
	err := c.call(ctx, cmdGetVersion, nil, &out)
	return out, err
}

// GetServerTime returns the broker clock; Time is converted to seconds.
func (c *Client) GetServerTime(ctx context.Context) (ServerTimeRecord, error) {
	var out ServerTimeRecord
	if err := c.call(ctx, cmdGetServerTime, nil, &out); err != nil {
		return ServerTimeRecord{}, err
	}
	out.Time = quant.Millis(out.Time).Unix()
	return out, nil
}

func (c *Client) GetAllSymbols(ctx context.Context) ([]SymbolRecord, error) {
	var out []SymbolRecord
	err := c.call(ctx, cmdGetAllSymbols, nil, &out)
	return out, err
}

func (c *Client) GetSymbol(ctx context.Context, symbol string) (SymbolRecord, error) {
	var out SymbolRecord
	err := c.call(ctx, cmdGetSymbol, map[string]any{"symbol": symbol}, &out)
	return out, err
}

func (c *Client) GetCalendar(ctx context.Context) ([]CalendarRecord, error) {
	var out []CalendarRecord
	err := c.call(ctx, cmdGetCalendar, nil, &out)
	return out, err
}

func (c *Client) GetCurrentUserData(ctx context.Context) (UserDataRecord, error) {
	var out UserDataRecord
	err := c.call(ctx, cmdGetCurrentUserData, nil, &out)
	return out, err
}

func (c *Client) GetMarginLevel(ctx context.Context) (MarginLevelRecord, error) {
	var out MarginLevelRecord
	err := c.call(ctx, cmdGetMarginLevel, nil, &out)
	return out, err
}

func (c *Client) GetCommission(ctx context.Context, symbol string, volume any) (CommissionRecord, error) {
	vol, err := domain.ParseVolume(volume)
	if err != nil {
		return CommissionRecord{}, err
	}
	var out CommissionRecord
	err = c.call(ctx, cmdGetCommissionDef, map[string]any{"symbol": symbol, "volume": vol}, &out)
	return out, err
}

func (c *Client) GetMarginTrade(ctx context.Context, symbol string, volume any) (MarginTradeRecord, error) {
	vol, err := domain.ParseVolume(volume)
	if err != nil {
		return MarginTradeRecord{}, err
	}
	var out MarginTradeRecord
	err = c.call(ctx, cmdGetMarginTrade, map[string]any{"symbol": symbol, "volume": vol}, &out)
	return out, err
}

// GetProfitCalculation prices a hypothetical entry/exit pair. The direction
// accepts the same loose forms as order placement ("buy", "SELL", 0, 1).
func (c *Client) GetProfitCalculation(ctx context.Context, symbol string, direction any, volume any, openPrice, closePrice float64) (ProfitCalcRecord, error) {
	mode, err := domain.ParseBuySell(direction)
	if err != nil {
		return ProfitCalcRecord{}, err
	}
	vol, err := domain.ParseVolume(volume)
	if err != nil {
		return ProfitCalcRecord{}, err
	}
	var out ProfitCalcRecord
	err = c.call(ctx, cmdGetProfitCalculation, map[string]any{
		"cmd":        int(mode),
		"symbol":     symbol,
		"volume":     vol,
		"openPrice":  openPrice,
		"closePrice": closePrice,
	}, &out)
	return out, err
}

// GetChartLastRequest fetches candles from start (local seconds) to now.
// Chart arguments nest under an "info" object on the wire.
func (c *Client) GetChartLastRequest(ctx context.Context, symbol string, period domain.Period, start int64) (ChartResponse, error) {
	if !period.Valid() {
		return ChartResponse{}, invalidPeriod(period)
	}
	var out ChartResponse
	err := c.call(ctx, cmdGetChartLastRequest, map[string]any{
		"info": map[string]any{
			"period": int(period),
			"start":  int64(quant.MillisFromUnix(start)),
			"symbol": symbol,
		},
	}, &out)
	return out, err
}

// GetChartRangeRequest fetches candles inside [start, end] (local seconds).
// A non-zero ticks overrides end with a candle count, negative meaning
// backwards from start.
func (c *Client) GetChartRangeRequest(ctx context.Context, symbol string, period domain.Period, start, end int64, ticks int) (ChartResponse, error) {
	if !period.Valid() {
		return ChartResponse{}, invalidPeriod(period)
	}
	var out ChartResponse
	err := c.call(ctx, cmdGetChartRangeRequest, map[string]any{
		"info": map[string]any{
			"period": int(period),
			"start":  int64(quant.MillisFromUnix(start)),
			"end":    int64(quant.MillisFromUnix(end)),
			"ticks":  ticks,
			"symbol": symbol,
		},
	}, &out)
	return out, err
}

// GetTickPrices returns level-filtered quotations since start (local seconds).
func (c *Client) GetTickPrices(ctx context.Context, symbols []string, start int64, level int) (TickPricesResponse, error) {
	var out TickPricesResponse
	if err := c.call(ctx, cmdGetTickPrices, map[string]any{
		"symbols":   symbols,
		"timestamp": int64(quant.MillisFromUnix(start)),
		"level":     level,
	}, &out); err != nil {
		return TickPricesResponse{}, err
	}
	for i := range out.Quotations {
		out.Quotations[i].Timestamp = quant.Millis(out.Quotations[i].Timestamp).Unix()
	}
	return out, nil
}

// GetTrades lists the account's trades; openedOnly narrows to open positions.
// Trade timestamps are converted to seconds.
func (c *Client) GetTrades(ctx context.Context, openedOnly bool) ([]TradeRecord, error) {
	var out []TradeRecord
	if err := c.call(ctx, cmdGetTrades, map[string]any{"openedOnly": openedOnly}, &out); err != nil {
		return nil, err
	}
	return tradeTimesToSeconds(out), nil
}

func (c *Client) GetTradeRecords(ctx context.Context, orders []int) ([]TradeRecord, error) {
	var out []TradeRecord
	if err := c.call(ctx, cmdGetTradeRecords, map[string]any{"orders": orders}, &out); err != nil {
		return nil, err
	}
	return tradeTimesToSeconds(out), nil
}

// GetTradesHistory lists closed trades inside [start, end] (local seconds,
// zero end meaning now).
func (c *Client) GetTradesHistory(ctx context.Context, start, end int64) ([]TradeRecord, error) {
	var out []TradeRecord
	if err := c.call(ctx, cmdGetTradesHistory, map[string]any{
		"start": int64(quant.MillisFromUnix(start)),
		"end":   int64(quant.MillisFromUnix(end)),
	}, &out); err != nil {
		return nil, err
	}
	return tradeTimesToSeconds(out), nil
}

// GetTradingHours fetches per-weekday quote and trading windows for the given
// symbols, with window bounds converted from wire milliseconds to seconds
// from midnight.
func (c *Client) GetTradingHours(ctx context.Context, symbols []string) ([]TradingHoursRecord, error) {
	var out []TradingHoursRecord
	if err := c.call(ctx, cmdGetTradingHours, map[string]any{"symbols": symbols}, &out); err != nil {
		return nil, err
	}
	for i := range out {
		spansToSeconds(out[i].Quotes)
		spansToSeconds(out[i].Trading)
	}
	return out, nil
}

// TradeTransaction submits one trade order and returns the server-assigned
// order id. Extras beyond the base transaction info pass an allow-list first;
// an unknown key fails the whole call before any network traffic.
func (c *Client) TradeTransaction(ctx context.Context, info domain.TradeTransInfo, extras map[string]any) (int, error) {
	if err := domain.ValidateTransExtras(extras); err != nil {
		return 0, err
	}
	if err := info.Validate(); err != nil {
		return 0, err
	}

	tti := map[string]any{
		"cmd":    int(info.Cmd),
		"type":   int(info.Type),
		"symbol": info.Symbol,
		"volume": info.Volume,
		"sl":     info.Sl,
		"tp":     info.Tp,
	}
	if info.Price != 0 {
		tti["price"] = info.Price
	}
	if info.Order != 0 {
		tti["order"] = info.Order
	}
	if info.Expiration != 0 {
		tti["expiration"] = int64(quant.MillisFromUnix(info.Expiration))
	}
	if info.Offset != 0 {
		tti["offset"] = info.Offset
	}
	if info.CustomComment != "" {
		tti["customComment"] = info.CustomComment
	}
	for k, v := range extras {
		tti[k] = v
	}

	var out struct {
		Order int `json:"order"`
	}
	if err := c.call(ctx, cmdTradeTransaction, map[string]any{"tradeTransInfo": tti}, &out); err != nil {
		return 0, err
	}
	return out.Order, nil
}

// TradeTransactionStatus reports the current processing state of a submitted
// transaction.
func (c *Client) TradeTransactionStatus(ctx context.Context, order int) (TransactionStatus, error) {
	var out TransactionStatus
	err := c.call(ctx, cmdTradeTransactionStatus, map[string]any{"order": order}, &out)
	return out, err
}

func invalidPeriod(p domain.Period) error {
	return &domain.InvalidArgumentError{Reason: fmt.Sprintf("period %d not in protocol timeframe set", int(p))}
}

func tradeTimesToSeconds(trades []TradeRecord) []TradeRecord {
	for i := range trades {
		trades[i].OpenTime = quant.Millis(trades[i].OpenTime).Unix()
		if trades[i].CloseTime != 0 {
			trades[i].CloseTime = quant.Millis(trades[i].CloseTime).Unix()
		}
	}
	return trades
}

func spansToSeconds(spans []HoursSpan) {
	for i := range spans {
		spans[i].FromT = quant.Millis(spans[i].FromT).Unix()
		spans[i].ToT = quant.Millis(spans[i].ToT).Unix()
	}
}

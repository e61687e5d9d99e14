// Package xapi implements the JSON command/response protocol of the broker's
// order-execution service: the transport session owning the socket, the
// dispatcher enforcing protocol etiquette, and one typed operation per
// protocol command.
package xapi

import "encoding/json"

// Protocol command names.
const (
	cmdLogin                  = "login"
	cmdLogout                 = "logout"
	cmdGetAllSymbols          = "getAllSymbols"
	cmdGetCalendar            = "getCalendar"
	cmdGetChartLastRequest    = "getChartLastRequest"
	cmdGetChartRangeRequest   = "getChartRangeRequest"
	cmdGetCommissionDef       = "getCommissionDef"
	cmdGetMarginLevel         = "getMarginLevel"
	cmdGetMarginTrade         = "getMarginTrade"
	cmdGetProfitCalculation   = "getProfitCalculation"
	cmdGetServerTime          = "getServerTime"
	cmdGetSymbol              = "getSymbol"
	cmdGetTickPrices          = "getTickPrices"
	cmdGetTradeRecords        = "getTradeRecords"
	cmdGetTrades              = "getTrades"
	cmdGetTradesHistory       = "getTradesHistory"
	cmdGetTradingHours        = "getTradingHours"
	cmdGetVersion             = "getVersion"
	cmdPing                   = "ping"
	cmdTradeTransaction       = "tradeTransaction"
	cmdTradeTransactionStatus = "tradeTransactionStatus"
	cmdGetCurrentUserData     = "getCurrentUserData"
)

// Command is one protocol request unit. Immutable once built.
type Command struct {
	Name string
	Args map[string]any
}

// wireCommand is the serialized shape. The arguments key is omitted entirely
// when the command carries none; the server rejects an empty object.
type wireCommand struct {
	Command   string         `json:"command"`
	Arguments map[string]any `json:"arguments,omitempty"`
}

func (c Command) MarshalJSON() ([]byte, error) {
	return json.Marshal(wireCommand{Command: c.Name, Arguments: c.Args})
}

func (c *Command) UnmarshalJSON(data []byte) error {
	var w wireCommand
	if err := json.Unmarshal(data, &w); err != nil {
		return err
	}
	c.Name = w.Command
	c.Args = w.Arguments
	return nil
}

// Response is one protocol response unit. Terminal: never mutated after
// receipt. ReturnData stays raw until a typed operation decodes it.
type Response struct {
	Status          bool            `json:"status"`
	ReturnData      json.RawMessage `json:"returnData,omitempty"`
	ErrorCode       string          `json:"errorCode,omitempty"`
	ErrorDescr      string          `json:"errorDescr,omitempty"`
	StreamSessionID string          `json:"streamSessionId,omitempty"`
}

// SymbolRecord is the getSymbol / getAllSymbols payload.
type SymbolRecord struct {
	Symbol       string  `json:"symbol"`
	Ask          float64 `json:"ask"`
	Bid          float64 `json:"bid"`
	High         float64 `json:"high"`
	Low          float64 `json:"low"`
	Precision    int     `json:"precision"`
	CategoryName string  `json:"categoryName"`
	Currency     string  `json:"currency"`
	Description  string  `json:"description"`
	SpreadRaw    float64 `json:"spreadRaw"`
	Time         int64   `json:"time"` // wire milliseconds
}

// RateInfo is one wire candle: Open is the raw scaled open price,
// Close/High/Low are deltas relative to Open, all scaled by 10^digits.
type RateInfo struct {
	Ctm       int64   `json:"ctm"` // wire milliseconds
	CtmString string  `json:"ctmString,omitempty"`
	Open      float64 `json:"open"`
	Close     float64 `json:"close"`
	High      float64 `json:"high"`
	Low       float64 `json:"low"`
	Vol       float64 `json:"vol"`
}

// ChartResponse is the getChartLastRequest / getChartRangeRequest payload.
type ChartResponse struct {
	Digits    int        `json:"digits"`
	RateInfos []RateInfo `json:"rateInfos"`
}

// TradeRecord is one entry of getTrades / getTradeRecords / getTradesHistory.
type TradeRecord struct {
	Cmd           int     `json:"cmd"`
	Order         int     `json:"order"`
	Order2        int     `json:"order2"`
	Position      int     `json:"position"`
	Symbol        string  `json:"symbol"`
	Volume        float64 `json:"volume"`
	OpenPrice     float64 `json:"open_price"`
	OpenTime      int64   `json:"open_time"` // wire milliseconds
	ClosePrice    float64 `json:"close_price"`
	CloseTime     int64   `json:"close_time"`
	Closed        bool    `json:"closed"`
	Profit        float64 `json:"profit"`
	Sl            float64 `json:"sl"`
	Tp            float64 `json:"tp"`
	CustomComment string  `json:"customComment"`
}

// HoursSpan is one per-weekday window of getTradingHours. Day uses ISO
// weekday numbering (Monday=1 .. Sunday=7). FromT/ToT arrive as milliseconds
// from midnight and are converted to seconds before reaching callers.
type HoursSpan struct {
	Day   int   `json:"day"`
	FromT int64 `json:"fromT"`
	ToT   int64 `json:"toT"`
}

// TradingHoursRecord is the per-symbol getTradingHours payload.
type TradingHoursRecord struct {
	Symbol  string      `json:"symbol"`
	Quotes  []HoursSpan `json:"quotes"`
	Trading []HoursSpan `json:"trading"`
}

// TransactionStatus is the tradeTransactionStatus payload.
type TransactionStatus struct {
	Order         int     `json:"order"`
	RequestStatus int     `json:"requestStatus"`
	Message       string  `json:"message"`
	CustomComment string  `json:"customComment"`
	Ask           float64 `json:"ask"`
	Bid           float64 `json:"bid"`
}

// MarginLevelRecord is the getMarginLevel payload.
type MarginLevelRecord struct {
	Balance     float64 `json:"balance"`
	Credit      float64 `json:"credit"`
	Currency    string  `json:"currency"`
	Equity      float64 `json:"equity"`
	Margin      float64 `json:"margin"`
	MarginFree  float64 `json:"margin_free"`
	MarginLevel float64 `json:"margin_level"`
}

// CommissionRecord is the getCommissionDef payload.
type CommissionRecord struct {
	Commission     float64 `json:"commission"`
	RateOfExchange float64 `json:"rateOfExchange"`
}

// MarginTradeRecord is the getMarginTrade payload.
type MarginTradeRecord struct {
	Margin float64 `json:"margin"`
}

// ProfitCalcRecord is the getProfitCalculation payload.
type ProfitCalcRecord struct {
	Profit float64 `json:"profit"`
}

// ServerTimeRecord is the getServerTime payload.
type ServerTimeRecord struct {
	Time       int64  `json:"time"` // wire milliseconds
	TimeString string `json:"timeString"`
}

// VersionRecord is the getVersion payload.
type VersionRecord struct {
	Version string `json:"version"`
}

// TickRecord is one quotation of getTickPrices.
type TickRecord struct {
	Symbol    string  `json:"symbol"`
	Ask       float64 `json:"ask"`
	Bid       float64 `json:"bid"`
	AskVolume int     `json:"askVolume"`
	BidVolume int     `json:"bidVolume"`
	High      float64 `json:"high"`
	Low       float64 `json:"low"`
	Level     int     `json:"level"`
	SpreadRaw float64 `json:"spreadRaw"`
	Timestamp int64   `json:"timestamp"` // wire milliseconds
}

// TickPricesResponse is the getTickPrices payload.
type TickPricesResponse struct {
	Quotations []TickRecord `json:"quotations"`
}

// CalendarRecord is one entry of getCalendar.
type CalendarRecord struct {
	Country  string `json:"country"`
	Current  string `json:"current"`
	Forecast string `json:"forecast"`
	Impact   string `json:"impact"`
	Period   string `json:"period"`
	Previous string `json:"previous"`
	Title    string `json:"title"`
	Time     int64  `json:"time"` // wire milliseconds
}

// UserDataRecord is the getCurrentUserData payload.
type UserDataRecord struct {
	CompanyUnit        int     `json:"companyUnit"`
	Currency           string  `json:"currency"`
	Group              string  `json:"group"`
	IBAccount          bool    `json:"ibAccount"`
	Leverage           int     `json:"leverage"`
	LeverageMultiplier float64 `json:"leverageMultiplier"`
	SpreadType         string  `json:"spreadType"`
	TrailingStop       bool    `json:"trailingStop"`
}

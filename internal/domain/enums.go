package domain

import (
	"strings"

	"github.com/shopspring/decimal"
)

// Mode is the protocol trade direction (the wire "cmd" field).
// Values are protocol-fixed integers and must not be reordered.
type Mode int

const (
	ModeBuy       Mode = 0
	ModeSell      Mode = 1
	ModeBuyLimit  Mode = 2
	ModeSellLimit Mode = 3
	ModeBuyStop   Mode = 4
	ModeSellStop  Mode = 5
	ModeBalance   Mode = 6
	ModeCredit    Mode = 7
)

func (m Mode) String() string {
	switch m {
	case ModeBuy:
		return "BUY"
	case ModeSell:
		return "SELL"
	case ModeBuyLimit:
		return "BUY_LIMIT"
	case ModeSellLimit:
		return "SELL_LIMIT"
	case ModeBuyStop:
		return "BUY_STOP"
	case ModeSellStop:
		return "SELL_STOP"
	case ModeBalance:
		return "BALANCE"
	case ModeCredit:
		return "CREDIT"
	default:
		return "UNKNOWN"
	}
}

// Valid reports whether m is one of the protocol-fixed direction values.
func (m Mode) Valid() bool {
	return m >= ModeBuy && m <= ModeCredit
}

// ParseBuySell resolves a caller-supplied direction to exactly one of
// ModeBuy or ModeSell. It accepts the canonical enumeration values and the
// case-insensitive strings "buy"/"sell"; anything else is an InvalidArgument.
func ParseBuySell(v any) (Mode, error) {
	switch d := v.(type) {
	case Mode:
		if d == ModeBuy || d == ModeSell {
			return d, nil
		}
	case int:
		if Mode(d) == ModeBuy || Mode(d) == ModeSell {
			return Mode(d), nil
		}
	case string:
		switch strings.ToLower(strings.TrimSpace(d)) {
		case "buy":
			return ModeBuy, nil
		case "sell":
			return ModeSell, nil
		}
	}
	return 0, invalidArgf("direction must be buy or sell, got %v", v)
}

// TransType is the protocol transaction kind (the wire "type" field).
type TransType int

const (
	TransOpen    TransType = 0
	TransPending TransType = 1
	TransClose   TransType = 2
	TransModify  TransType = 3
	TransDelete  TransType = 4
)

func (t TransType) String() string {
	switch t {
	case TransOpen:
		return "OPEN"
	case TransPending:
		return "PENDING"
	case TransClose:
		return "CLOSE"
	case TransModify:
		return "MODIFY"
	case TransDelete:
		return "DELETE"
	default:
		return "UNKNOWN"
	}
}

// Valid reports whether t is one of the protocol-fixed transaction kinds.
func (t TransType) Valid() bool {
	return t >= TransOpen && t <= TransDelete
}

// Period is a chart period in minutes. The protocol accepts a closed set of
// values; anything else must be rejected before transmission.
type Period int

const (
	PeriodM1  Period = 1
	PeriodM5  Period = 5
	PeriodM15 Period = 15
	PeriodM30 Period = 30
	PeriodH1  Period = 60
	PeriodH4  Period = 240
	PeriodD1  Period = 1440
	PeriodW1  Period = 10080
	PeriodMN1 Period = 43200
)

var periods = []Period{
	PeriodM1, PeriodM5, PeriodM15, PeriodM30,
	PeriodH1, PeriodH4, PeriodD1, PeriodW1, PeriodMN1,
}

// Valid reports whether p is one of the protocol-fixed chart periods.
func (p Period) Valid() bool {
	for _, v := range periods {
		if p == v {
			return true
		}
	}
	return false
}

// Seconds returns the period length in seconds.
func (p Period) Seconds() int64 {
	return int64(p) * 60
}

// PeriodFromSeconds maps a timeframe in seconds to the matching chart period.
func PeriodFromSeconds(sec int64) (Period, error) {
	if sec%60 == 0 {
		p := Period(sec / 60)
		if p.Valid() {
			return p, nil
		}
	}
	return 0, invalidArgf("timeframe %ds is not a supported chart period", sec)
}

// ParseVolume coerces a caller-supplied volume to float64. Coercion failure
// is a fatal InvalidArgument, never a silent default.
func ParseVolume(v any) (float64, error) {
	switch vol := v.(type) {
	case float64:
		if d := decimal.NewFromFloat(vol); d.IsPositive() {
			return vol, nil
		}
	case float32:
		return ParseVolume(float64(vol))
	case int:
		return ParseVolume(float64(vol))
	case int64:
		return ParseVolume(float64(vol))
	case decimal.Decimal:
		if vol.IsPositive() {
			return vol.InexactFloat64(), nil
		}
	case string:
		d, err := decimal.NewFromString(strings.TrimSpace(vol))
		if err != nil {
			return 0, invalidArgf("volume %q is not a number", vol)
		}
		if d.IsPositive() {
			return d.InexactFloat64(), nil
		}
	default:
		return 0, invalidArgf("volume of type %T is not coercible to float", v)
	}
	return 0, invalidArgf("volume must be positive, got %v", v)
}

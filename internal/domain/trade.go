package domain

// TradeTransInfo carries the fields of a tradeTransaction submission.
// Cmd, Symbol, Type and Volume are always sent; the rest are optional and
// zero values are transmitted as the protocol's own defaults.
type TradeTransInfo struct {
	Cmd           Mode
	Type          TransType
	Symbol        string
	Volume        float64
	Price         float64
	Sl            float64
	Tp            float64
	Order         int
	Expiration    int64
	Offset        int
	CustomComment string
}

// transExtraKeys is the closed allow-list for extra keyword-style fields on
// a transaction submission. Any other key is a programming error.
var transExtraKeys = map[string]bool{
	"order":         true,
	"price":         true,
	"expiration":    true,
	"customComment": true,
	"offset":        true,
	"sl":            true,
	"tp":            true,
}

// ValidateTransExtras rejects extra submission fields outside the allow-list.
func ValidateTransExtras(extras map[string]any) error {
	for k := range extras {
		if !transExtraKeys[k] {
			return invalidArgf("transaction field %q is not allowed", k)
		}
	}
	return nil
}

// Validate checks the submission against the protocol's accepted domains.
// It must pass before any network call is made.
func (i *TradeTransInfo) Validate() error {
	if !i.Cmd.Valid() {
		return invalidArgf("mode %d is not a protocol direction", int(i.Cmd))
	}
	if !i.Type.Valid() {
		return invalidArgf("transaction type %d is not one of open/pending/close/modify/delete", int(i.Type))
	}
	if i.Symbol == "" {
		return invalidArgf("symbol must not be empty")
	}
	vol, err := ParseVolume(i.Volume)
	if err != nil {
		return err
	}
	i.Volume = vol
	return nil
}

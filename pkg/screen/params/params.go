// Package params holds the screening parameter model: the screener mode,
// the normalized ticker lists, and the numeric filter map with its
// set/unset sentinel semantics.
package params

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"

	"github.com/komsit37/optscreen/pkg/screen/types"
)

// Filter field names. The names are part of the analysis service contract.
const (
	// Shared across modes
	DTEMin          = "DTE_MIN"
	DTEMax          = "DTE_MAX"
	MinVolume       = "MIN_VOLUME"
	MinOpenInterest = "MIN_OPEN_INTEREST"

	// Income mode, primary tier (delta bounds, used during market hours)
	PutDeltaMin  = "PUT_DELTA_MIN"
	PutDeltaMax  = "PUT_DELTA_MAX"
	CallDeltaMin = "CALL_DELTA_MIN"
	CallDeltaMax = "CALL_DELTA_MAX"

	// Income mode, fallback tier (OTM% bounds, used when delta is missing)
	PutOTMPercentMin  = "PUT_OTM_PERCENT_MIN"
	PutOTMPercentMax  = "PUT_OTM_PERCENT_MAX"
	CallOTMPercentMin = "CALL_OTM_PERCENT_MIN"
	CallOTMPercentMax = "CALL_OTM_PERCENT_MAX"

	// Buy mode
	BuyCallDeltaMin = "BUY_CALL_DELTA_MIN"
	BuyCallDeltaMax = "BUY_CALL_DELTA_MAX"
	BuyPutDeltaMin  = "BUY_PUT_DELTA_MIN"
	BuyPutDeltaMax  = "BUY_PUT_DELTA_MAX"
)

// TickerField names the two ticker input groups.
type TickerField string

const (
	PutTickers  TickerField = "putTickers"
	CallTickers TickerField = "callTickers"
)

// FilterValue is either a finite number or the unset sentinel. On the wire
// it marshals as the number when set and as "" when unset, matching the
// analysis service contract.
type FilterValue struct {
	value float64
	set   bool
}

// Number returns a set FilterValue.
func Number(v float64) FilterValue { return FilterValue{value: v, set: true} }

// Unset returns the unset sentinel.
func Unset() FilterValue { return FilterValue{} }

// IsSet reports whether the value holds a number.
func (v FilterValue) IsSet() bool { return v.set }

// Float returns the numeric value, or zero when unset.
func (v FilterValue) Float() float64 { return v.value }

func (v FilterValue) String() string {
	if !v.set {
		return ""
	}
	return strconv.FormatFloat(v.value, 'f', -1, 64)
}

// MarshalJSON encodes set values as numbers and unset ones as "".
func (v FilterValue) MarshalJSON() ([]byte, error) {
	if !v.set {
		return []byte(`""`), nil
	}
	return json.Marshal(v.value)
}

// UnmarshalJSON accepts a number, a numeric string, "" or null.
func (v *FilterValue) UnmarshalJSON(data []byte) error {
	var raw any
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	switch t := raw.(type) {
	case nil:
		*v = Unset()
		return nil
	case float64:
		*v = Number(t)
		return nil
	case string:
		parsed, err := ParseFilterValue(t)
		if err != nil {
			return err
		}
		*v = parsed
		return nil
	default:
		return fmt.Errorf("filter value must be a number or empty string, got %T", raw)
	}
}

// ParseFilterValue parses raw user input. Empty input is the unset sentinel,
// not an error; anything else must parse as a finite float. The caller
// decides what to do with a parse failure.
func ParseFilterValue(raw string) (FilterValue, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return Unset(), nil
	}
	f, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return Unset(), fmt.Errorf("parse filter value %q: %w", raw, err)
	}
	return Number(f), nil
}

// Filters maps filter field names to values.
type Filters map[string]FilterValue

// Clone returns an independent copy.
func (f Filters) Clone() Filters {
	out := make(Filters, len(f))
	for k, v := range f {
		out[k] = v
	}
	return out
}

// SharedFields lists the filter fields honored in both modes.
func SharedFields() []string {
	return []string{DTEMin, DTEMax, MinVolume, MinOpenInterest}
}

// IncomePrimaryFields lists the delta-bound tier used during market hours.
func IncomePrimaryFields() []string {
	return []string{PutDeltaMin, PutDeltaMax, CallDeltaMin, CallDeltaMax}
}

// IncomeFallbackFields lists the OTM%-bound tier the service falls back to
// when delta data is unavailable.
func IncomeFallbackFields() []string {
	return []string{PutOTMPercentMin, PutOTMPercentMax, CallOTMPercentMin, CallOTMPercentMax}
}

// BuyFields lists the buy screener delta bounds.
func BuyFields() []string {
	return []string{BuyCallDeltaMin, BuyCallDeltaMax, BuyPutDeltaMin, BuyPutDeltaMax}
}

// ActiveFields returns the fields relevant to the given mode, shared fields
// first. The full map is sent regardless of mode; this only drives display
// and documentation.
func ActiveFields(mode types.Mode) []string {
	out := append([]string(nil), SharedFields()...)
	if mode == types.ModeBuy {
		return append(out, BuyFields()...)
	}
	out = append(out, IncomePrimaryFields()...)
	return append(out, IncomeFallbackFields()...)
}

// Parameters is the full screening configuration for one session. Ticker
// strings are kept in normalized comma-joined form.
type Parameters struct {
	ScreenerType types.Mode `json:"screenerType"`
	PutTickers   string     `json:"putTickers"`
	CallTickers  string     `json:"callTickers"`
	Filters      Filters    `json:"filters"`
}

// Clone returns a deep copy.
func (p Parameters) Clone() Parameters {
	out := p
	out.Filters = p.Filters.Clone()
	return out
}

// SetScreenerType switches the active mode. Filter values from the inactive
// tier are retained; they are still sent but not used by the service.
func (p *Parameters) SetScreenerType(mode types.Mode) {
	p.ScreenerType = mode
}

// SetTickerField stores raw ticker text after normalization.
func (p *Parameters) SetTickerField(field TickerField, raw string) {
	v := NormalizeTickers(raw)
	if field == CallTickers {
		p.CallTickers = v
		return
	}
	p.PutTickers = v
}

// SetFilterField parses raw input for the named field and stores the result.
// On a parse failure nothing is stored and the prior value is retained; the
// error is returned so the caller can choose its policy.
func (p *Parameters) SetFilterField(name, raw string) error {
	v, err := ParseFilterValue(raw)
	if err != nil {
		return err
	}
	if p.Filters == nil {
		p.Filters = Filters{}
	}
	p.Filters[name] = v
	return nil
}

// NormalizeTickers uppercases the input, splits on commas, trims each token
// and rejoins. Empty tokens are preserved (a trailing comma survives); only
// the buy-mode request builder filters them. Empty input stays empty.
func NormalizeTickers(raw string) string {
	if raw == "" {
		return ""
	}
	tokens := strings.Split(strings.ToUpper(raw), ",")
	for i, t := range tokens {
		tokens[i] = strings.TrimSpace(t)
	}
	return strings.Join(tokens, ",")
}

// Tokens splits a normalized ticker string into its tokens. The empty
// string yields no tokens rather than one empty token.
func Tokens(normalized string) []string {
	if normalized == "" {
		return nil
	}
	return strings.Split(normalized, ",")
}

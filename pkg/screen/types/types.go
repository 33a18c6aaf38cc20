package types

// Mode selects which screener is active. It decides the filter fields the
// analysis service honors, the ticker groups sent, and the result schema.
type Mode string

const (
	ModeIncome Mode = "income"
	ModeBuy    Mode = "buy"
)

// Valid reports whether m is one of the two known screener modes.
func (m Mode) Valid() bool {
	return m == ModeIncome || m == ModeBuy
}

// Record is one candidate contract as returned by the analysis service.
// The key set is schema-defined per mode but is not enforced per record;
// absent keys sort as zero.
type Record map[string]any

// ResultSet holds the named result lists of one analysis response. The
// service fills the pair matching the requested mode; the other pair stays
// null. A nil list ("no data yet") is distinct from an empty one ("zero
// rows found") and the distinction survives JSON decoding.
type ResultSet struct {
	Puts         []Record `json:"puts"`
	Calls        []Record `json:"calls"`
	BullishCalls []Record `json:"bullish_calls"`
	BearishPuts  []Record `json:"bearish_puts"`
}

// Tone hints how a result table should be colored when rendering.
type Tone int

const (
	ToneNeutral Tone = iota
	TonePositive
	ToneNegative
)

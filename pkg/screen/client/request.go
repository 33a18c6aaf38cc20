package client

import (
	"strings"

	"github.com/komsit37/optscreen/pkg/screen/params"
	"github.com/komsit37/optscreen/pkg/screen/types"
)

// Request is the analysis service request body. Field names are part of the
// service contract.
type Request struct {
	ScreenerType types.Mode     `json:"screenerType"`
	PutTickers   string         `json:"putTickers"`
	CallTickers  string         `json:"callTickers"`
	Filters      params.Filters `json:"filters"`
}

// BuildRequest shapes current parameters into the outgoing request.
//
// Income mode sends the parameters unchanged: both ticker lists stay
// distinct. Buy mode analyzes a single ticker universe, so the put and call
// tokens are concatenated in that order, empty tokens dropped, and the
// merged list travels in putTickers with callTickers cleared.
//
// The full filter map is always sent; the service honors only the fields
// relevant to the requested mode.
func BuildRequest(p params.Parameters) Request {
	req := Request{
		ScreenerType: p.ScreenerType,
		PutTickers:   p.PutTickers,
		CallTickers:  p.CallTickers,
		Filters:      p.Filters.Clone(),
	}
	if p.ScreenerType != types.ModeBuy {
		return req
	}

	merged := make([]string, 0)
	for _, t := range append(params.Tokens(p.PutTickers), params.Tokens(p.CallTickers)...) {
		if t == "" {
			continue
		}
		merged = append(merged, t)
	}
	req.PutTickers = strings.Join(merged, ",")
	req.CallTickers = ""
	return req
}

package currency

import (
	"maps"
	"strings"
)

// DefaultBase is the base the exchange API uses when none is requested.
const DefaultBase = "USD"

// Query holds the parameters of one rate request.
// An empty Base or nil Symbols is left out of the request.
type Query struct {
	Base    string
	Symbols []string
}

// EffectiveBase is the base the returned table will be relative to.
func (q Query) EffectiveBase() string {
	if q.Base == "" {
		return DefaultBase
	}
	return q.Base
}

func (q Query) String() string {
	if len(q.Symbols) == 0 {
		return q.EffectiveBase()
	}
	return q.EffectiveBase() + ":" + strings.Join(q.Symbols, ",")
}

// RateTable maps currency codes to rates relative to Base.
// Tables are never modified after construction.
type RateTable struct {
	Base  string
	Rates map[string]float64
}

// Rate returns the rate for code and whether it is present.
func (t RateTable) Rate(code string) (float64, bool) {
	r, ok := t.Rates[code]
	return r, ok
}

func (t RateTable) clone() RateTable {
	return RateTable{Base: t.Base, Rates: maps.Clone(t.Rates)}
}

// LatestResponse represents the exchange API response body
type LatestResponse struct {
	Data map[string]float64 `json:"data"`
}

package currency

import (
	"fmt"
	"math"
	"regexp"
	"strconv"
	"strings"

	"github.com/shopspring/decimal"
)

// DefaultAmount is the amount shown after the base currency changes.
const DefaultAmount = "1.00"

var amountInput = regexp.MustCompile(`^\d*\.?\d*$`)

// UndefinedRebaseError reports that a table cannot be expressed in Base
// because Base is missing from it or has a zero rate. The table has to be
// fetched again with Base as the requested base currency.
type UndefinedRebaseError struct {
	Base string
	From string
}

func (e *UndefinedRebaseError) Error() string {
	return fmt.Sprintf("cannot rebase %s rates to %s: rate missing or zero", e.From, e.Base)
}

// Rebase expresses every rate of t relative to newBase.
// The old base, implicitly 1.0 in t, is included in the result even when
// t does not list it.
func Rebase(t RateTable, newBase string) (RateTable, error) {
	if newBase == t.Base {
		return t.clone(), nil
	}

	pivot, ok := t.Rates[newBase]
	if !ok || pivot == 0 {
		return RateTable{}, &UndefinedRebaseError{Base: newBase, From: t.Base}
	}

	rates := make(map[string]float64, len(t.Rates)+1)
	for code, r := range t.Rates {
		rates[code] = r / pivot
	}
	if _, listed := t.Rates[t.Base]; !listed && t.Base != "" {
		rates[t.Base] = 1 / pivot
	}

	return RateTable{Base: newBase, Rates: rates}, nil
}

// ExcludeBase returns a copy of rates without base.
func ExcludeBase(rates map[string]float64, base string) map[string]float64 {
	out := make(map[string]float64, len(rates))
	for code, r := range rates {
		if code != base {
			out[code] = r
		}
	}
	return out
}

// ValidAmountInput reports whether s is an acceptable partial amount:
// digits with at most one decimal point, or empty.
func ValidAmountInput(s string) bool {
	return amountInput.MatchString(s)
}

// ParseAmount reads a user-entered amount. Empty or non-numeric input is 0.
func ParseAmount(s string) float64 {
	d, err := decimal.NewFromString(strings.TrimSpace(s))
	if err != nil {
		return 0
	}
	return d.InexactFloat64()
}

// AmountFor converts baseAmount units of the base currency using rate.
func AmountFor(rate float64, baseAmount string) float64 {
	return rate * ParseAmount(baseAmount)
}

// Format renders a converted value for display.
// Zero prints with two decimals, values below 0.01 in magnitude print
// with six so they never collapse to "0.00", everything else is rounded
// half-even to at most two decimals with trailing zeros trimmed.
func Format(v float64) string {
	switch {
	case math.IsNaN(v) || math.IsInf(v, 0):
		return strconv.FormatFloat(v, 'g', -1, 64)
	case v == 0:
		return "0.00"
	case math.Abs(v) < 0.01:
		return decimal.NewFromFloat(v).StringFixed(6)
	default:
		return decimal.NewFromFloat(v).RoundBank(2).String()
	}
}

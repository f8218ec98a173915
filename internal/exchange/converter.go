// Package exchange holds the state behind the currency converter: the
// selected base currency, the amount being converted and the rate
// controller that feeds them.
package exchange

import (
	"context"
	"errors"
	"slices"
	"strings"
	"sync"

	"travelfetcher/internal/controller"
	"travelfetcher/internal/currency"
	"travelfetcher/internal/fetcher"
)

// ErrNoRates is returned by Rows while no rate table is held.
var ErrNoRates = errors.New("no exchange rates loaded")

// Row is one converted line of the rate list.
type Row struct {
	Code    string
	Value   float64
	Display string
}

// Option configures a Converter.
type Option func(*Converter)

// WithLocalRebase keeps the held table on screen, rebased locally, while
// the rates for a newly selected base are fetched without a loading
// indicator. Selections the held table cannot be rebased to still show
// Loading.
func WithLocalRebase() Option {
	return func(c *Converter) { c.localRebase = true }
}

// Converter tracks the selected base and amount over a currency controller.
type Converter struct {
	rates       *controller.Controller[currency.Query, currency.RateTable]
	symbols     []string
	localRebase bool

	mu     sync.RWMutex
	base   string
	amount string
}

// NewConverter creates a converter starting at base with the default amount.
func NewConverter(rates *controller.Controller[currency.Query, currency.RateTable], base string, symbols []string, opts ...Option) *Converter {
	c := &Converter{
		rates:   rates,
		symbols: slices.Clone(symbols),
		base:    base,
		amount:  currency.DefaultAmount,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Base returns the selected base currency.
func (c *Converter) Base() string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.base
}

// Amount returns the amount input as typed.
func (c *Converter) Amount() string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.amount
}

func (c *Converter) query(base string) currency.Query {
	return currency.Query{Base: base, Symbols: c.symbols}
}

// Load fetches rates for the selected base. It is also the reload action
// after a failure.
func (c *Converter) Load(ctx context.Context) {
	c.rates.Request(ctx, c.query(c.Base()), true)
}

// Select promotes code to the base currency, resets the amount to
// currency.DefaultAmount and fetches rates for the new base.
func (c *Converter) Select(ctx context.Context, code string) {
	c.mu.Lock()
	c.base = code
	c.amount = currency.DefaultAmount
	c.mu.Unlock()

	showLoading := true
	if c.localRebase {
		if table, ok := c.heldTable(); ok {
			if _, err := currency.Rebase(table, code); err == nil {
				showLoading = false
			}
		}
	}

	c.rates.Request(ctx, c.query(code), showLoading)
}

// SetAmount replaces the amount input. Input that is not a plain
// decimal number is rejected and the previous amount kept.
func (c *Converter) SetAmount(s string) bool {
	if !currency.ValidAmountInput(s) {
		return false
	}
	c.mu.Lock()
	c.amount = s
	c.mu.Unlock()
	return true
}

func (c *Converter) heldTable() (currency.RateTable, bool) {
	cur, ok := c.rates.Current()
	if !ok {
		return currency.RateTable{}, false
	}
	return cur.Data()
}

// Rows converts the amount into every currency of the held table except
// the base, sorted by code. The table is rebased locally when it was
// fetched for another base; a *currency.UndefinedRebaseError means it has
// to be fetched again for the selected base.
func (c *Converter) Rows() ([]Row, error) {
	table, ok := c.heldTable()
	if !ok {
		return nil, ErrNoRates
	}

	base, amount := c.Base(), c.Amount()

	if table.Base != base {
		rebased, err := currency.Rebase(table, base)
		if err != nil {
			return nil, err
		}
		table = rebased
	}

	rates := currency.ExcludeBase(table.Rates, base)
	rows := make([]Row, 0, len(rates))
	for code, rate := range rates {
		v := currency.AmountFor(rate, amount)
		rows = append(rows, Row{Code: code, Value: v, Display: currency.Format(v)})
	}
	slices.SortFunc(rows, func(a, b Row) int { return strings.Compare(a.Code, b.Code) })
	return rows, nil
}

// State returns the held rate result, for callers rendering Loading and
// error states.
func (c *Converter) State() (fetcher.Result[currency.RateTable], bool) {
	return c.rates.Current()
}

// Package repository sits between controllers and gateways. Both
// repositories forward unchanged today; caching or composition of
// sources belongs here so controllers never have to change.
package repository

import (
	"context"

	"travelfetcher/internal/currency"
	"travelfetcher/internal/fetcher"
	"travelfetcher/internal/flight"
)

// FlightRepository serves flight schedule boards.
type FlightRepository struct {
	gateway fetcher.Fetcher[flight.Query, flight.Schedules]
}

// NewFlightRepository wraps a schedule gateway
func NewFlightRepository(gateway fetcher.Fetcher[flight.Query, flight.Schedules]) *FlightRepository {
	return &FlightRepository{gateway: gateway}
}

// Get returns the board for q
func (r *FlightRepository) Get(ctx context.Context, q flight.Query) fetcher.Result[flight.Schedules] {
	return r.gateway.Fetch(ctx, q)
}

// CurrencyRepository serves exchange rate tables.
type CurrencyRepository struct {
	gateway fetcher.Fetcher[currency.Query, currency.RateTable]
}

// NewCurrencyRepository wraps an exchange rate gateway
func NewCurrencyRepository(gateway fetcher.Fetcher[currency.Query, currency.RateTable]) *CurrencyRepository {
	return &CurrencyRepository{gateway: gateway}
}

// Get returns the latest rates for q
func (r *CurrencyRepository) Get(ctx context.Context, q currency.Query) fetcher.Result[currency.RateTable] {
	return r.gateway.Fetch(ctx, q)
}

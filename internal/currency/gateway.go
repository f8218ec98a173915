package currency

import (
	"context"
	"strings"
	"time"

	"github.com/goccy/go-json"
	"resty.dev/v3"

	"travelfetcher/internal/fetcher"
	"travelfetcher/internal/ratelimit"
)

const latestPath = "v1/latest"

// Gateway fetches the latest exchange rates.
// It holds no mutable state and is safe for concurrent use.
type Gateway struct {
	apiKey  string
	client  *resty.Client
	limiter *ratelimit.Limiter
}

// NewGateway creates a new exchange rate gateway
func NewGateway(apiKey, baseURL string, timeout time.Duration) *Gateway {
	return &Gateway{
		apiKey:  apiKey,
		client:  fetcher.NewHTTPClient(strings.TrimRight(baseURL, "/"), timeout),
		limiter: ratelimit.GetLimiter(),
	}
}

// Fetch retrieves the latest rates for q
func (g *Gateway) Fetch(ctx context.Context, q Query) (res fetcher.Result[RateTable]) {
	defer fetcher.Recover(&res)

	if err := g.limiter.Wait(ctx, ratelimit.APICurrency); err != nil {
		return fetcher.Failure[RateTable](fetcher.ClassifyTransportError(err))
	}

	params := map[string]string{"apikey": g.apiKey}
	if q.Base != "" {
		params["base_currency"] = q.Base
	}
	if len(q.Symbols) > 0 {
		params["currencies"] = strings.Join(q.Symbols, ",")
	}

	body, ferr := fetcher.Get(ctx, g.client, latestPath, params)
	if ferr != nil {
		return fetcher.Failure[RateTable](ferr)
	}

	var payload LatestResponse
	if err := json.Unmarshal(body, &payload); err != nil {
		return fetcher.Failure[RateTable](fetcher.NewEmptyBodyError(err))
	}
	if payload.Data == nil {
		return fetcher.Failure[RateTable](fetcher.NewEmptyBodyError(nil))
	}

	return fetcher.Success(RateTable{Base: q.EffectiveBase(), Rates: payload.Data})
}

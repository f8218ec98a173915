package flight

import (
	"context"
	"strings"
	"time"

	"github.com/goccy/go-json"
	"resty.dev/v3"

	"travelfetcher/internal/fetcher"
	"travelfetcher/internal/ratelimit"
)

const schedulePath = "InstantSchedule.ashx"

// Gateway fetches instant schedules from the airport API.
// It holds no mutable state and is safe for concurrent use.
type Gateway struct {
	client  *resty.Client
	limiter *ratelimit.Limiter
}

// NewGateway creates a new schedule gateway
func NewGateway(baseURL string, timeout time.Duration) *Gateway {
	return &Gateway{
		client:  fetcher.NewHTTPClient(strings.TrimRight(baseURL, "/"), timeout),
		limiter: ratelimit.GetLimiter(),
	}
}

// Fetch retrieves the schedule board identified by q
func (g *Gateway) Fetch(ctx context.Context, q Query) (res fetcher.Result[Schedules]) {
	defer fetcher.Recover(&res)

	if err := g.limiter.Wait(ctx, ratelimit.APIFlight); err != nil {
		return fetcher.Failure[Schedules](fetcher.ClassifyTransportError(err))
	}

	body, ferr := fetcher.Get(ctx, g.client, schedulePath, q.params())
	if ferr != nil {
		return fetcher.Failure[Schedules](ferr)
	}

	var payload InstantScheduleResponse
	if err := json.Unmarshal(body, &payload); err != nil {
		return fetcher.Failure[Schedules](fetcher.NewEmptyBodyError(err))
	}
	if payload.InstantSchedule == nil {
		return fetcher.Failure[Schedules](fetcher.NewEmptyBodyError(nil))
	}

	return fetcher.Success(*payload.InstantSchedule)
}

package ratelimit

import (
	"context"
	"os"
	"strings"
	"sync"
	"time"

	"golang.org/x/time/rate"
)

// API names an upstream service with its own request budget
type API string

const (
	// APIFlight is the airport instant-schedule feed
	APIFlight API = "flight"
	// APICurrency is the exchange-rate API
	APICurrency API = "currency"
)

// Policy is the request budget of one API: one request per Every, with
// up to Burst requests allowed back to back.
type Policy struct {
	Every time.Duration
	Burst int
}

// Policies used outside of tests. The schedule feed is polled every few
// seconds per board; free exchange-rate plans allow 10 requests a minute.
var Policies = map[API]Policy{
	APIFlight:   {Every: 500 * time.Millisecond, Burst: 2},
	APICurrency: {Every: 6 * time.Second, Burst: 3},
}

// Limiter holds one token bucket per API. APIs without a bucket are
// never limited.
type Limiter struct {
	mu      sync.RWMutex
	buckets map[API]*rate.Limiter
}

var (
	shared     *Limiter
	sharedOnce sync.Once
)

// GetLimiter returns the process-wide limiter shared by all gateways.
// Test binaries get an unlimited one.
func GetLimiter() *Limiter {
	sharedOnce.Do(func() {
		shared = New()
		if runningTests() {
			return
		}
		for api, p := range Policies {
			shared.Set(api, rate.Every(p.Every), p.Burst)
		}
	})
	return shared
}

// New returns a limiter with no buckets
func New() *Limiter {
	return &Limiter{buckets: make(map[API]*rate.Limiter)}
}

// Set installs or replaces the bucket for api
func (l *Limiter) Set(api API, limit rate.Limit, burst int) {
	l.mu.Lock()
	l.buckets[api] = rate.NewLimiter(limit, burst)
	l.mu.Unlock()
}

func (l *Limiter) bucket(api API) *rate.Limiter {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return l.buckets[api]
}

// Wait blocks until a request to api may proceed or ctx is done
func (l *Limiter) Wait(ctx context.Context, api API) error {
	if b := l.bucket(api); b != nil {
		return b.Wait(ctx)
	}
	return nil
}

// Allow reports whether a request to api may proceed now, consuming a
// token if so
func (l *Limiter) Allow(api API) bool {
	if b := l.bucket(api); b != nil {
		return b.Allow()
	}
	return true
}

func runningTests() bool {
	if os.Getenv("GO_TESTING") == "1" {
		return true
	}
	for _, arg := range os.Args {
		if strings.HasPrefix(arg, "-test.") {
			return true
		}
	}
	return false
}

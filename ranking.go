/*
Copyright 2025 MilhasPix Authors.

Licensed under the Apache License, Version 2.0 (the "License");
you may not use this file except in compliance with the License.
You may obtain a copy of the License at

	http://www.apache.org/licenses/LICENSE-2.0

Unless required by applicable law or agreed to in writing, software
distributed under the License is distributed on an "AS IS" BASIS,
WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
See the License for the specific language governing permissions and
limitations under the License.
*/

package milhas

import (
	"context"
	"fmt"
	"net/http"
	"sync"
	"time"

	"github.com/cenkalti/backoff/v4"
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
	"go.opentelemetry.io/otel"

	"github.com/milhaspix/milhas/config"
	"github.com/milhaspix/milhas/internal/cache"
	"github.com/milhaspix/milhas/internal/request"
	"github.com/milhaspix/milhas/model"
)

var upstreamTracer = otel.Tracer("milhas.upstream")

// UpstreamClient talks to the MilhasPix simulation API for competitive
// ranking and the public offers listing. Responses are cached; idempotent
// GETs are retried with exponential backoff before the failure is surfaced.
type UpstreamClient struct {
	baseURL  string
	timeout  time.Duration
	cacheTTL time.Duration
	cache    cache.Cache
}

// NewUpstreamClient builds a client from the loaded configuration. The cache
// may be nil, which disables caching (used in tests).
func NewUpstreamClient(ca cache.Cache) (*UpstreamClient, error) {
	cfg, err := config.Fetch()
	if err != nil {
		return nil, err
	}
	return &UpstreamClient{
		baseURL:  cfg.Upstream.BaseURL,
		timeout:  time.Duration(cfg.Upstream.TimeoutSec) * time.Second,
		cacheTTL: time.Duration(cfg.Ranking.CacheTTLSec) * time.Second,
		cache:    ca,
	}, nil
}

// FetchRanking returns the competitor ranking around a price point.
func (c *UpstreamClient) FetchRanking(ctx context.Context, mileValue float64) ([]model.RankingItem, error) {
	ctx, span := upstreamTracer.Start(ctx, "Fetching ranking")
	defer span.End()

	cacheKey := fmt.Sprintf("ranking:%.2f", mileValue)
	if c.cache != nil {
		var cached []model.RankingItem
		if err := c.cache.Get(ctx, cacheKey, &cached); err == nil && len(cached) > 0 {
			return cached, nil
		}
	}

	url := fmt.Sprintf("%s/simulate-ranking?mile_value=%v", c.baseURL, mileValue)
	var items []model.RankingItem
	if err := c.get(ctx, url, &items); err != nil {
		return nil, err
	}

	if c.cache != nil {
		if err := c.cache.Set(ctx, cacheKey, items, c.cacheTTL); err != nil {
			logrus.WithError(err).Warn("failed to cache ranking response")
		}
	}
	return items, nil
}

// FetchOffers returns the public offers listing.
func (c *UpstreamClient) FetchOffers(ctx context.Context) (*model.OffersResponse, error) {
	ctx, span := upstreamTracer.Start(ctx, "Fetching offers list")
	defer span.End()

	const cacheKey = "offers:list"
	if c.cache != nil {
		var cached model.OffersResponse
		if err := c.cache.Get(ctx, cacheKey, &cached); err == nil && len(cached.Offers) > 0 {
			return &cached, nil
		}
	}

	var out model.OffersResponse
	if err := c.get(ctx, c.baseURL+"/simulate-offers-list", &out); err != nil {
		return nil, err
	}

	if c.cache != nil {
		if err := c.cache.Set(ctx, cacheKey, out, c.cacheTTL); err != nil {
			logrus.WithError(err).Warn("failed to cache offers response")
		}
	}
	return &out, nil
}

// get performs one GET with up to three attempts. Client-side errors from
// the upstream (4xx) are not retried; everything else is.
func (c *UpstreamClient) get(ctx context.Context, url string, response interface{}) error {
	operation := func() error {
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
		if err != nil {
			return backoff.Permanent(err)
		}
		resp, err := request.CallWithTimeout(req, response, c.timeout)
		if err != nil {
			return err
		}
		if resp.StatusCode >= 400 && resp.StatusCode < 500 {
			return backoff.Permanent(errors.Errorf("upstream responded with status %d", resp.StatusCode))
		}
		if resp.StatusCode != http.StatusOK {
			return errors.Errorf("upstream responded with status %d", resp.StatusCode)
		}
		return nil
	}

	bo := backoff.WithMaxRetries(backoff.NewExponentialBackOff(), 2)
	return backoff.Retry(operation, backoff.WithContext(bo, ctx))
}

// RankingWatcher debounces the reactive ranking lookup: each observed price
// change restarts a delay timer, and only the fetch belonging to the newest
// observation may publish its result. A stale fetch that completes after the
// input changed again is discarded on arrival.
type RankingWatcher struct {
	fetch    func(ctx context.Context, mileValue float64) ([]model.RankingItem, error)
	debounce time.Duration

	mu         sync.Mutex
	timer      *time.Timer
	generation uint64
	latest     []model.RankingItem
	lastErr    error
}

// NewRankingWatcher wires the watcher to a fetch function, normally
// UpstreamClient.FetchRanking.
func NewRankingWatcher(fetch func(ctx context.Context, mileValue float64) ([]model.RankingItem, error), debounce time.Duration) *RankingWatcher {
	if debounce <= 0 {
		debounce = 300 * time.Millisecond
	}
	return &RankingWatcher{fetch: fetch, debounce: debounce}
}

// Observe registers a new price point. The pending timer, if any, restarts;
// any in-flight fetch becomes stale.
func (w *RankingWatcher) Observe(mileValue float64) {
	w.mu.Lock()
	defer w.mu.Unlock()

	w.generation++
	gen := w.generation
	if w.timer != nil {
		w.timer.Stop()
	}
	w.timer = time.AfterFunc(w.debounce, func() {
		w.run(gen, mileValue)
	})
}

func (w *RankingWatcher) run(gen uint64, mileValue float64) {
	w.mu.Lock()
	if gen != w.generation {
		w.mu.Unlock()
		return
	}
	w.mu.Unlock()

	items, err := w.fetch(context.Background(), mileValue)

	w.mu.Lock()
	defer w.mu.Unlock()
	if gen != w.generation {
		return // input changed while the fetch was in flight
	}
	w.latest = items
	w.lastErr = err
}

// Latest returns the most recent non-stale ranking and the error of the last
// completed fetch.
func (w *RankingWatcher) Latest() ([]model.RankingItem, error) {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.latest, w.lastErr
}

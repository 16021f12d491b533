package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"sync"
	"sync/atomic"
	"time"
)

// Options configures a Resource.
type Options[T any] struct {
	// Kind labels the resource in logs and metrics ("pronouns", "user").
	Kind string

	// RefreshMin is the cooldown a forced refresh must respect.
	RefreshMin time.Duration

	// RefreshMax is the staleness threshold beyond which any fetch attempt,
	// forced or not, is allowed.
	RefreshMax time.Duration

	// NotFound is the payload cached when the upstream answers 404.
	// A confirmed-absent result is a success and expires like any other.
	NotFound T
}

// Resource is one cached upstream entity: a URL, the last decoded payload,
// and the time it was fetched. The payload and its timestamp are only ever
// updated together; readers never observe one without the other.
//
// The zero lastRefreshed means "never fetched", so the very first access is
// always eligible for refresh.
type Resource[T any] struct {
	url    string
	client *http.Client

	kind       string
	refreshMin time.Duration
	refreshMax time.Duration
	notFound   T

	now func() time.Time // injectable for deterministic tests

	mu            sync.Mutex
	data          T
	lastRefreshed time.Time

	// lastStamp mirrors lastRefreshed as unix nanoseconds. Fetch holds mu for
	// the whole upstream round trip, so age checks (the sweeper, mainly) read
	// the mirror instead of waiting behind an in-flight fetch.
	lastStamp atomic.Int64
}

// NewResource creates a Resource bound to url. The client is shared across
// resources and must already carry its own timeout/retry policy.
func NewResource[T any](url string, client *http.Client, opts Options[T]) *Resource[T] {
	return &Resource[T]{
		url:        url,
		client:     client,
		kind:       opts.Kind,
		refreshMin: opts.RefreshMin,
		refreshMax: opts.RefreshMax,
		notFound:   opts.NotFound,
		now:        time.Now,
	}
}

// URL returns the upstream URL this resource is bound to.
func (r *Resource[T]) URL() string { return r.url }

// ShouldRefresh reports whether a fetch attempt is currently allowed.
// It returns nil when eligible and a *NotDueError otherwise.
func (r *Resource[T]) ShouldRefresh(force bool) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.shouldRefreshLocked(force)
}

func (r *Resource[T]) shouldRefreshLocked(force bool) error {
	age := r.now().Sub(r.lastRefreshed)
	if age > r.refreshMax {
		return nil
	}
	if force && age > r.refreshMin {
		slog.Info("force refreshing", "url", r.url)
		return nil
	}
	notDueTotal.WithLabelValues(r.kind).Inc()
	return &NotDueError{Age: age}
}

// Fetch refreshes the payload from upstream. The refresh policy is checked
// first; a *NotDueError means no network call was made. The resource mutex
// is held across the whole check–fetch–store sequence, so concurrent callers
// of the same resource serialize behind one in-flight fetch and two forced
// refreshes cannot both pass the cooldown check.
func (r *Resource[T]) Fetch(ctx context.Context, force bool) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if err := r.shouldRefreshLocked(force); err != nil {
		return err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, r.url, nil)
	if err != nil {
		return &UpstreamError{URL: r.url, Err: err}
	}
	req.Header.Set("Accept", "application/json")

	resp, err := r.client.Do(req)
	if err != nil {
		fetchesTotal.WithLabelValues(r.kind, outcomeError).Inc()
		return &UpstreamError{URL: r.url, Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNotFound {
		// Confirmed absent: cache the sentinel so repeated lookups don't
		// hammer the upstream with 404s.
		r.data = r.notFound
		r.stampLocked(r.now())
		fetchesTotal.WithLabelValues(r.kind, outcomeNotFound).Inc()
		return nil
	}
	if resp.StatusCode < http.StatusOK || resp.StatusCode >= http.StatusMultipleChoices {
		fetchesTotal.WithLabelValues(r.kind, outcomeError).Inc()
		return &UpstreamError{URL: r.url, Status: resp.StatusCode}
	}

	var fresh T
	if err := json.NewDecoder(resp.Body).Decode(&fresh); err != nil {
		fetchesTotal.WithLabelValues(r.kind, outcomeError).Inc()
		return &UpstreamError{URL: r.url, Status: resp.StatusCode, Err: fmt.Errorf("decode body: %w", err)}
	}

	r.data = fresh
	r.stampLocked(r.now())
	fetchesTotal.WithLabelValues(r.kind, outcomeOK).Inc()
	return nil
}

// stampLocked records the refresh time. Callers hold mu.
func (r *Resource[T]) stampLocked(t time.Time) {
	r.lastRefreshed = t
	r.lastStamp.Store(t.UnixNano())
}

// Snapshot returns the current payload and the time it was fetched.
// Both come from the same update; a caller can never pair a payload with a
// timestamp from a different fetch.
func (r *Resource[T]) Snapshot() (T, time.Time) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.data, r.lastRefreshed
}

// LastRefreshed returns when the payload was last fetched. Zero means never.
// It reads the timestamp mirror and never blocks behind an in-flight fetch.
func (r *Resource[T]) LastRefreshed() time.Time {
	ns := r.lastStamp.Load()
	if ns == 0 {
		return time.Time{}
	}
	return time.Unix(0, ns)
}

// Age returns how old the cached payload is.
func (r *Resource[T]) Age() time.Duration {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.now().Sub(r.lastRefreshed)
}

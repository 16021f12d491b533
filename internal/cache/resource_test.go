package cache

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"
)

// fixedClock returns a func() time.Time that always returns t.
func fixedClock(t time.Time) func() time.Time { return func() time.Time { return t } }

// upstreamStub serves a fixed status and body, counting requests.
type upstreamStub struct {
	status int
	body   string
	hits   atomic.Int32
}

func (s *upstreamStub) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.hits.Add(1)
	w.WriteHeader(s.status)
	w.Write([]byte(s.body)) //nolint:errcheck
}

func newResource(t *testing.T, stub *upstreamStub) *Resource[map[string]string] {
	t.Helper()
	srv := httptest.NewServer(stub)
	t.Cleanup(srv.Close)
	return NewResource[map[string]string](srv.URL, srv.Client(), Options[map[string]string]{
		Kind:       "test",
		RefreshMin: time.Minute,
		RefreshMax: time.Hour,
		NotFound:   map[string]string{"error": "404"},
	})
}

// backdate rewinds the resource's recorded fetch time by d.
func backdate[T any](r *Resource[T], d time.Duration) {
	r.mu.Lock()
	r.stampLocked(r.lastRefreshed.Add(-d))
	r.mu.Unlock()
}

func TestFetch_FirstAccess_StoresDataWithTimestamp(t *testing.T) {
	stub := &upstreamStub{status: http.StatusOK, body: `{"k":"v"}`}
	r := newResource(t, stub)

	if err := r.Fetch(context.Background(), false); err != nil {
		t.Fatalf("Fetch: %v", err)
	}

	data, refreshed := r.Snapshot()
	if data["k"] != "v" {
		t.Errorf("data: got %v, want map with k=v", data)
	}
	if refreshed.IsZero() {
		t.Error("lastRefreshed: still zero after successful fetch")
	}
}

func TestShouldRefresh_StalenessAlwaysWins(t *testing.T) {
	r := newResource(t, &upstreamStub{status: http.StatusOK, body: `{}`})
	base := time.Now()
	r.now = fixedClock(base)
	r.lastRefreshed = base.Add(-2 * time.Hour) // past RefreshMax

	for _, force := range []bool{false, true} {
		if err := r.ShouldRefresh(force); err != nil {
			t.Errorf("ShouldRefresh(force=%v) on stale data: got %v, want nil", force, err)
		}
	}
}

func TestShouldRefresh_FreshData_NotDue(t *testing.T) {
	r := newResource(t, &upstreamStub{status: http.StatusOK, body: `{}`})
	base := time.Now()
	r.now = fixedClock(base)
	r.lastRefreshed = base.Add(-30 * time.Second) // below RefreshMin

	for _, force := range []bool{false, true} {
		err := r.ShouldRefresh(force)
		var notDue *NotDueError
		if !errors.As(err, &notDue) {
			t.Errorf("ShouldRefresh(force=%v) on fresh data: got %v, want NotDueError", force, err)
			continue
		}
		if notDue.Age != 30*time.Second {
			t.Errorf("Age: got %v, want 30s", notDue.Age)
		}
	}
}

func TestShouldRefresh_ForceAfterCooldown(t *testing.T) {
	r := newResource(t, &upstreamStub{status: http.StatusOK, body: `{}`})
	base := time.Now()
	r.now = fixedClock(base)
	r.lastRefreshed = base.Add(-5 * time.Minute) // between RefreshMin and RefreshMax

	if err := r.ShouldRefresh(false); err == nil {
		t.Error("ShouldRefresh(false) between min and max: got nil, want NotDueError")
	}
	if err := r.ShouldRefresh(true); err != nil {
		t.Errorf("ShouldRefresh(true) past cooldown: got %v, want nil", err)
	}
}

func TestFetch_NotDue_NoNetworkCall(t *testing.T) {
	stub := &upstreamStub{status: http.StatusOK, body: `{"k":"v"}`}
	r := newResource(t, stub)

	if err := r.Fetch(context.Background(), false); err != nil {
		t.Fatalf("first Fetch: %v", err)
	}
	err := r.Fetch(context.Background(), false)
	var notDue *NotDueError
	if !errors.As(err, &notDue) {
		t.Fatalf("second Fetch: got %v, want NotDueError", err)
	}
	if n := stub.hits.Load(); n != 1 {
		t.Errorf("upstream hits: got %d, want 1 (NotDue must not reach the network)", n)
	}
}

func TestFetch_NotFound_CachesSentinel(t *testing.T) {
	stub := &upstreamStub{status: http.StatusNotFound, body: `{"error":"not_found"}`}
	r := newResource(t, stub)

	if err := r.Fetch(context.Background(), false); err != nil {
		t.Fatalf("Fetch on 404: got %v, want nil (confirmed absence is a cacheable success)", err)
	}

	data, refreshed := r.Snapshot()
	if data["error"] != "404" {
		t.Errorf("data: got %v, want not-found sentinel", data)
	}
	if refreshed.IsZero() {
		t.Error("lastRefreshed: not stamped on 404")
	}

	// The sentinel is fresh now; no further fetch goes out.
	if err := r.Fetch(context.Background(), false); err == nil {
		t.Error("refetch of fresh sentinel: got nil, want NotDueError")
	}
	if n := stub.hits.Load(); n != 1 {
		t.Errorf("upstream hits: got %d, want 1", n)
	}
}

func TestFetch_ServerError_LeavesCacheUntouched(t *testing.T) {
	stub := &upstreamStub{status: http.StatusOK, body: `{"k":"v"}`}
	r := newResource(t, stub)

	if err := r.Fetch(context.Background(), false); err != nil {
		t.Fatalf("prime fetch: %v", err)
	}
	_, primed := r.Snapshot()

	stub.status = http.StatusInternalServerError
	stub.body = `boom`
	backdate(r, 2*time.Hour) // stale, so the fetch is attempted

	err := r.Fetch(context.Background(), false)
	var upstream *UpstreamError
	if !errors.As(err, &upstream) {
		t.Fatalf("Fetch on 500: got %v, want UpstreamError", err)
	}
	if upstream.Status != http.StatusInternalServerError {
		t.Errorf("Status: got %d, want 500", upstream.Status)
	}

	data, refreshed := r.Snapshot()
	if data["k"] != "v" {
		t.Errorf("data clobbered by failed fetch: got %v", data)
	}
	if !refreshed.Equal(primed.Add(-2 * time.Hour)) {
		t.Errorf("lastRefreshed moved on failed fetch: got %v", refreshed)
	}
}

func TestFetch_MalformedBody_LeavesCacheUntouched(t *testing.T) {
	stub := &upstreamStub{status: http.StatusOK, body: `{"k":"v"}`}
	r := newResource(t, stub)

	if err := r.Fetch(context.Background(), false); err != nil {
		t.Fatalf("prime fetch: %v", err)
	}

	stub.body = `{not json`
	backdate(r, 2*time.Hour)

	err := r.Fetch(context.Background(), false)
	var upstream *UpstreamError
	if !errors.As(err, &upstream) {
		t.Fatalf("Fetch on malformed body: got %v, want UpstreamError", err)
	}

	data, _ := r.Snapshot()
	if data["k"] != "v" {
		t.Errorf("data clobbered by malformed body: got %v", data)
	}
}

func TestFetch_WrongShape_LeavesCacheUntouched(t *testing.T) {
	// Valid JSON of an unexpected shape must fail decoding, not corrupt the
	// cache: the payload type is map[string]string, the body an array.
	stub := &upstreamStub{status: http.StatusOK, body: `[1,2,3]`}
	r := newResource(t, stub)

	err := r.Fetch(context.Background(), false)
	var upstream *UpstreamError
	if !errors.As(err, &upstream) {
		t.Fatalf("Fetch on wrong shape: got %v, want UpstreamError", err)
	}
	if _, refreshed := r.Snapshot(); !refreshed.IsZero() {
		t.Error("lastRefreshed stamped despite decode failure")
	}
}

func TestFetch_ForcedTwiceWithinCooldown(t *testing.T) {
	stub := &upstreamStub{status: http.StatusOK, body: `{"k":"v"}`}
	r := newResource(t, stub)

	if err := r.Fetch(context.Background(), true); err != nil {
		t.Fatalf("first forced Fetch: %v", err)
	}

	err := r.Fetch(context.Background(), true)
	var notDue *NotDueError
	if !errors.As(err, &notDue) {
		t.Fatalf("second forced Fetch within cooldown: got %v, want NotDueError", err)
	}
	if notDue.Age < 0 || notDue.Age >= time.Minute {
		t.Errorf("Age: got %v, want within [0, RefreshMin)", notDue.Age)
	}
	if n := stub.hits.Load(); n != 1 {
		t.Errorf("upstream hits: got %d, want 1", n)
	}
}

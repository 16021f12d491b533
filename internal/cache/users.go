package cache

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"sync"
	"time"

	"github.com/pronounproxy/pronounproxy/internal/pronouns"
)

// UsersOptions configures the per-user cache.
type UsersOptions struct {
	// RefreshMin is the forced-refresh cooldown applied to every user.
	RefreshMin time.Duration

	// RefreshMax is the staleness threshold; it doubles as the eviction
	// horizon — entries not refreshed for longer than this are swept.
	RefreshMax time.Duration

	// SweepInterval is how often the eviction sweeper wakes up.
	SweepInterval time.Duration
}

// Users caches one Resource per user, keyed by lowercased Twitch login.
// Entries are created lazily on first lookup and removed by the sweeper once
// their payload has aged past RefreshMax.
type Users struct {
	baseURL string
	client  *http.Client
	opts    UsersOptions

	mu    sync.RWMutex
	users map[string]*Resource[pronouns.UserRecord]
}

// NewUsers creates an empty user cache over {baseURL}/users/{login}.
func NewUsers(baseURL string, client *http.Client, opts UsersOptions) *Users {
	return &Users{
		baseURL: baseURL,
		client:  client,
		opts:    opts,
		users:   make(map[string]*Resource[pronouns.UserRecord]),
	}
}

// resource returns the cache entry for the (already lowercased) login,
// creating and registering it if needed. Double-checked under the write lock
// so concurrent lookups of the same login share one resource; lookups of
// distinct logins only contend on the map lock, never on each other's fetch.
func (u *Users) resource(login string) *Resource[pronouns.UserRecord] {
	u.mu.RLock()
	res, ok := u.users[login]
	u.mu.RUnlock()
	if ok {
		return res
	}

	u.mu.Lock()
	defer u.mu.Unlock()
	if res, ok := u.users[login]; ok {
		return res
	}
	res = NewResource[pronouns.UserRecord](u.baseURL+"/users/"+url.PathEscape(login), u.client, Options[pronouns.UserRecord]{
		Kind:       "user",
		RefreshMin: u.opts.RefreshMin,
		RefreshMax: u.opts.RefreshMax,
		NotFound:   pronouns.UserRecord{Error: http.StatusNotFound},
	})
	u.users[login] = res
	return res
}

// URL returns the upstream per-user URL template.
func (u *Users) URL() string { return u.baseURL + "/users/{login}" }

// Fetch looks up or creates the resource for login and fetches it.
// NotDue and upstream failures propagate unchanged; the resource handle is
// returned on success.
func (u *Users) Fetch(ctx context.Context, login string, force bool) (*Resource[pronouns.UserRecord], error) {
	res := u.resource(strings.ToLower(login))
	if err := res.Fetch(ctx, force); err != nil {
		return nil, err
	}
	return res, nil
}

// Get returns the current record for login, fetching it first when stale.
// On NotDue the cached record is served. A user that has never been fetched
// either comes back fresh from upstream or the fetch failure propagates —
// there is no empty-record fallback.
func (u *Users) Get(ctx context.Context, login string) (pronouns.UserRecord, error) {
	res := u.resource(strings.ToLower(login))
	if err := res.Fetch(ctx, false); err != nil {
		var notDue *NotDueError
		if !errors.As(err, &notDue) {
			return pronouns.UserRecord{}, err
		}
		// NotDue implies a previous fetch stamped this resource, so the
		// snapshot below is real data (or the cached 404 sentinel).
	}
	data, _ := res.Snapshot()
	return data, nil
}

// Sweep removes every entry whose payload is older than RefreshMax relative
// to now, returning the removed logins. An entry whose first fetch never
// succeeded still has the zero timestamp and is removed too.
func (u *Users) Sweep(now time.Time) []string {
	threshold := now.Add(-u.opts.RefreshMax)
	u.mu.Lock()
	defer u.mu.Unlock()

	var removed []string
	for login, res := range u.users {
		if res.LastRefreshed().Before(threshold) {
			delete(u.users, login)
			removed = append(removed, login)
		}
	}
	return removed
}

// Len returns the number of cached users, including stale ones not yet swept.
func (u *Users) Len() int {
	u.mu.RLock()
	defer u.mu.RUnlock()
	return len(u.users)
}

// Run is the eviction sweeper loop. It wakes every SweepInterval, removes
// aged entries, and blocks until ctx is cancelled. Callers own the goroutine
// and must wait for Run to return before tearing the cache down.
func (u *Users) Run(ctx context.Context) {
	slog.Info("user cache: sweeper started", "interval", u.opts.SweepInterval)
	t := time.NewTicker(u.opts.SweepInterval)
	defer t.Stop()

	for {
		select {
		case <-ctx.Done():
			slog.Info("user cache: sweeper stopped")
			return
		case now := <-t.C:
			if removed := u.Sweep(now); len(removed) > 0 {
				sweptTotal.Add(float64(len(removed)))
				slog.Debug("user cache: swept stale entries",
					"count", len(removed), "logins", removed)
			}
		}
	}
}

package cache

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/pronounproxy/pronounproxy/internal/pronouns"
)

// Dictionary is the single cached copy of the global pronoun-definitions
// endpoint. It changes rarely upstream, so it carries a long staleness
// threshold (6h by default via config).
type Dictionary struct {
	res *Resource[pronouns.Map]
}

// NewDictionary creates the dictionary resource over {baseURL}/pronouns.
func NewDictionary(baseURL string, client *http.Client, refreshMin, refreshMax time.Duration) *Dictionary {
	return &Dictionary{
		res: NewResource[pronouns.Map](baseURL+"/pronouns", client, Options[pronouns.Map]{
			Kind:       "pronouns",
			RefreshMin: refreshMin,
			RefreshMax: refreshMax,
		}),
	}
}

// Get returns the current dictionary, refreshing it first when stale.
// A NotDue outcome is not an error here — the cached copy is served.
// Before the first successful fetch the returned map is empty; callers must
// tolerate that.
func (d *Dictionary) Get(ctx context.Context) (pronouns.Map, error) {
	if err := d.res.Fetch(ctx, false); err != nil {
		var notDue *NotDueError
		if !errors.As(err, &notDue) {
			return nil, err
		}
	}
	data, _ := d.res.Snapshot()
	return data, nil
}

// Refresh forces a fetch, still subject to the cooldown.
func (d *Dictionary) Refresh(ctx context.Context) error {
	return d.res.Fetch(ctx, true)
}

// Warm performs the initial unforced fetch at startup.
func (d *Dictionary) Warm(ctx context.Context) error {
	return d.res.Fetch(ctx, false)
}

// Len returns the number of pronoun definitions currently cached.
func (d *Dictionary) Len() int {
	data, _ := d.res.Snapshot()
	return len(data)
}

// Age returns how old the cached dictionary is.
func (d *Dictionary) Age() time.Duration { return d.res.Age() }

// URL returns the upstream dictionary endpoint.
func (d *Dictionary) URL() string { return d.res.URL() }

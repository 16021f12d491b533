package cache

import (
	"fmt"
	"time"
)

// NotDueError reports that a refresh was skipped because the cached data is
// still fresh enough (or, for forced refreshes, because the cooldown has not
// elapsed). It is expected control flow: most callers keep serving the
// cached payload, only the explicit refresh endpoints surface it.
type NotDueError struct {
	// Age is how old the cached data was at the time of the attempt.
	Age time.Duration
}

func (e *NotDueError) Error() string {
	return fmt.Sprintf("not refreshing, data is %s old", e.Age)
}

// UpstreamError reports that the upstream API returned an unexpected status
// or an unparseable body. The cached payload is left untouched when this is
// returned — stale-but-valid data always beats a failed refresh.
type UpstreamError struct {
	URL    string
	Status int   // zero when the request never produced a response
	Err    error // transport or decode error, if any
}

func (e *UpstreamError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("upstream %s: %v", e.URL, e.Err)
	}
	return fmt.Sprintf("upstream %s: unexpected status %d", e.URL, e.Status)
}

func (e *UpstreamError) Unwrap() error { return e.Err }

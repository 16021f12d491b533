package api

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/pronounproxy/pronounproxy/internal/cache"
	"github.com/pronounproxy/pronounproxy/internal/pronouns"
)

// Handler is the HTTP handler for all /api/v1/* endpoints. It is a thin
// routing layer: all caching and freshness policy lives in internal/cache,
// all formatting in internal/pronouns.
type Handler struct {
	dict  *cache.Dictionary
	users *cache.Users
	mux   *http.ServeMux
}

// New creates a Handler wired to the given caches and registers all routes.
func New(dict *cache.Dictionary, users *cache.Users) http.Handler {
	h := &Handler{dict: dict, users: users, mux: http.NewServeMux()}

	h.mux.HandleFunc("/api/v1/users/", h.getUser) // subtree — extracts {login}
	h.mux.HandleFunc("/api/v1/refresh/pronouns", h.refreshPronouns)
	h.mux.HandleFunc("/api/v1/refresh/users/", h.refreshUser)
	h.mux.HandleFunc("/api/v1/health", h.health)
	h.mux.HandleFunc("/api/v1/about", h.about)

	return h
}

func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	h.mux.ServeHTTP(w, r)
}

// --- route handlers ---------------------------------------------------------

// getUser serves GET /api/v1/users/{login} — the display document.
// The dictionary and the user record are fetched concurrently; the first
// failure cancels the other fetch and is surfaced as-is.
func (h *Handler) getUser(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		jsonErr(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}
	login := strings.TrimPrefix(r.URL.Path, "/api/v1/users/")
	if login == "" || strings.Contains(login, "/") {
		jsonErr(w, http.StatusNotFound, "not found")
		return
	}

	var (
		dict pronouns.Map
		user pronouns.UserRecord
	)
	g, ctx := errgroup.WithContext(r.Context())
	g.Go(func() error {
		var err error
		dict, err = h.dict.Get(ctx)
		return err
	})
	g.Go(func() error {
		var err error
		user, err = h.users.Get(ctx, login)
		return err
	})
	if err := g.Wait(); err != nil {
		upstreamErr(w, err)
		return
	}

	doc, err := pronouns.Convert(dict, user)
	if err != nil {
		if errors.Is(err, pronouns.ErrNotFound) {
			jsonErr(w, http.StatusNotFound, "not_found")
			return
		}
		upstreamErr(w, err)
		return
	}
	jsonResp(w, http.StatusOK, doc)
}

// refreshPronouns serves POST /api/v1/refresh/pronouns — forces a dictionary
// refresh, bounded by the cooldown.
func (h *Handler) refreshPronouns(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		jsonErr(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}
	if err := h.dict.Refresh(r.Context()); err != nil {
		refreshErr(w, err)
		return
	}
	textResp(w, "Successfully refreshed pronouns list")
}

// refreshUser serves POST /api/v1/refresh/users/{login} — forces a refresh
// of one user's cache entry.
func (h *Handler) refreshUser(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		jsonErr(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}
	login := strings.TrimPrefix(r.URL.Path, "/api/v1/refresh/users/")
	if login == "" || strings.Contains(login, "/") {
		jsonErr(w, http.StatusNotFound, "not found")
		return
	}

	if _, err := h.users.Fetch(r.Context(), login, true); err != nil {
		refreshErr(w, err)
		return
	}
	textResp(w, fmt.Sprintf("Successfully refreshed user %s", strings.ToLower(login)))
}

// health serves GET /api/v1/health — cache occupancy and dictionary age.
func (h *Handler) health(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		jsonErr(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}
	jsonResp(w, http.StatusOK, HealthResponse{
		Status:            "ok",
		UsersCached:       h.users.Len(),
		DictionaryEntries: h.dict.Len(),
		DictionaryAge:     h.dict.Age().Round(time.Second).String(),
	})
}

// about serves GET /api/v1/about — what this service is and what it wraps.
func (h *Handler) about(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		jsonErr(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}
	jsonResp(w, http.StatusOK, AboutResponse{
		Description: "Load, cache, and format 3rd party twitch user pronoun data",
		Webpage:     "https://pr.alejo.io/",
		APIsUsed:    []string{h.dict.URL(), h.users.URL()},
	})
}

// --- helpers ----------------------------------------------------------------

// jsonResp writes v as indented UTF-8 JSON. encoding/json preserves struct
// field order and rejects non-finite numbers, which is exactly the contract
// downstream overlay tools rely on.
func jsonResp(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(code)
	enc := json.NewEncoder(w)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "    ")
	enc.Encode(v) //nolint:errcheck
}

func jsonErr(w http.ResponseWriter, code int, msg string) {
	jsonResp(w, code, errorResponse{Error: msg})
}

func textResp(w http.ResponseWriter, msg string) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	fmt.Fprintln(w, msg) //nolint:errcheck
}

// upstreamErr maps a lookup failure to its response. Anything that is not an
// explicit not-found is an upstream-side failure: the cache refused to serve
// bad data rather than the client asking for something invalid.
func upstreamErr(w http.ResponseWriter, err error) {
	jsonErr(w, http.StatusBadGateway, err.Error())
}

// refreshErr maps a forced-refresh failure: a NotDue outcome becomes
// 425 Too Early carrying the current age, everything else is upstream-side.
func refreshErr(w http.ResponseWriter, err error) {
	var notDue *cache.NotDueError
	if errors.As(err, &notDue) {
		jsonErr(w, http.StatusTooEarly, notDue.Error())
		return
	}
	upstreamErr(w, err)
}

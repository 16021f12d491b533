// Package config loads the server configuration from the `server:` section
// of config.yaml.
//
// Config fields:
//   - HTTPPort                      — REST/metrics/stream port (default 55555)
//   - Upstream.BaseURL              — pronoun API root (default api.pronouns.alejo.io/v1)
//   - Upstream.RefreshMin           — forced-refresh cooldown (default 1m)
//   - Upstream.RefreshMax           — user staleness threshold (default 1h)
//   - Upstream.PronounsRefreshMax   — dictionary staleness threshold (default 6h)
//   - SweepInterval                 — eviction sweeper period (default 10m)
//   - StatsInterval                 — websocket stats broadcast period (default 5s)
//
// Load(path) applies defaults before unmarshalling, then validates. A
// missing file yields the defaults. Watch(ctx, path, onChange) hot-reloads
// on file writes.
package config

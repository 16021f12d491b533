// Package api implements the HTTP REST API for pronounproxy.
//
// New(dict, users) returns an http.Handler that serves:
//
//	GET  /api/v1/users/{login}          — display document; 404 if the user
//	                                      has no pronouns set upstream
//	POST /api/v1/refresh/pronouns       — force a dictionary refresh;
//	                                      425 while the cooldown holds
//	POST /api/v1/refresh/users/{login}  — force a single user refresh
//	GET  /api/v1/health                 — cache occupancy, dictionary age
//	GET  /api/v1/about                  — upstream endpoints wrapped
//
// JSON bodies are indented four spaces with struct field order preserved.
// Upstream failures map to 502, refresh cooldowns to 425. No external HTTP
// framework is used.
package api

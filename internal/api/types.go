package api

// HealthResponse is the payload for GET /api/v1/health.
type HealthResponse struct {
	Status            string `json:"status"`
	UsersCached       int    `json:"users_cached"`
	DictionaryEntries int    `json:"dictionary_entries"`
	DictionaryAge     string `json:"dictionary_age"`
}

// AboutResponse is the payload for GET /api/v1/about.
type AboutResponse struct {
	Description string   `json:"description"`
	Webpage     string   `json:"webpage"`
	APIsUsed    []string `json:"apis_used"`
}

// errorResponse is a generic JSON error body.
type errorResponse struct {
	Error string `json:"error"`
}

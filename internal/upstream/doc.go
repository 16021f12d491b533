// Package upstream builds the shared HTTP client for the third-party
// pronoun API. Retries and timeouts live here so the cache layer only ever
// sees a final response or a final error.
package upstream

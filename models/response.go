package models

// QuoteResponse is the response for GET /api/v1/quote.
type QuoteResponse struct {
	// Success indicates whether both quotes were extracted and parsed.
	Success bool `json:"success"`

	// SourceURL is the page the quotes were read from.
	SourceURL string `json:"source_url"`

	// Quotes holds today's and yesterday's rows.
	Quotes *QuotePair `json:"quotes,omitempty"`

	// Change is the day-over-day comparison.
	Change *Change `json:"change,omitempty"`

	// Message is the formatted notification text.
	Message string `json:"message,omitempty"`

	// EngineUsed names the engine that produced the quotes.
	EngineUsed string `json:"engine_used,omitempty"`

	// CacheStatus is "hit", "miss", or empty when caching was not requested.
	CacheStatus string `json:"cache_status,omitempty"`

	// FetchMs is the time spent obtaining the quotes.
	FetchMs int64 `json:"fetch_ms"`

	// Error is populated only when Success is false.
	Error *ErrorDetail `json:"error,omitempty"`
}

// RunResponse is the response for POST /api/v1/run.
type RunResponse struct {
	Success bool         `json:"success"`
	Report  *RunReport   `json:"report,omitempty"`
	Error   *ErrorDetail `json:"error,omitempty"`
}

// HealthResponse is the response for GET /api/v1/health.
type HealthResponse struct {
	Status  string     `json:"status"`
	Uptime  string     `json:"uptime"`
	Version string     `json:"version"`
	LastRun *RunReport `json:"last_run,omitempty"`
}

// ErrorResponse is the envelope for requests rejected by middleware.
type ErrorResponse struct {
	Success bool         `json:"success"`
	Error   *ErrorDetail `json:"error"`
}

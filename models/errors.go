package models

import "fmt"

// Error codes used in API responses and internal error handling.
const (
	ErrCodeTimeout       = "SCRAPE_TIMEOUT"
	ErrCodeNavigation    = "NAVIGATION_FAILED"
	ErrCodeBrowserLaunch = "BROWSER_LAUNCH"
	ErrCodeEvaluation    = "EVALUATION_FAILED"
	ErrCodeHTTPFetch     = "HTTP_FETCH_FAILED"
	ErrCodeExtraction    = "EXTRACTION_FAILED"
	ErrCodeInvalidInput  = "INVALID_INPUT"
	ErrCodeRunInProgress = "RUN_IN_PROGRESS"
	ErrCodeRateLimited   = "RATE_LIMITED"
	ErrCodeUnauthorized  = "UNAUTHORIZED"
	ErrCodeInternal      = "INTERNAL_ERROR"
)

// ErrorDetail is the structured error in API responses.
type ErrorDetail struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// ScrapeError is a transport or runtime fault: the browser could not be
// launched, navigation failed, or page evaluation threw.
type ScrapeError struct {
	Code    string
	Message string
	Err     error // wrapped original error
}

func (e *ScrapeError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Code, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

func (e *ScrapeError) Unwrap() error {
	return e.Err
}

// NewScrapeError creates a new ScrapeError.
func NewScrapeError(code, message string, err error) *ScrapeError {
	return &ScrapeError{Code: code, Message: message, Err: err}
}

// ToDetail converts an internal error to an API-facing ErrorDetail.
func (e *ScrapeError) ToDetail() *ErrorDetail {
	return &ErrorDetail{Code: e.Code, Message: e.Message}
}

// ExtractError is a structural failure: the page loaded but the quote table
// was missing or malformed. Reason is the human-readable cause that is sent
// in the error notification.
type ExtractError struct {
	Reason string
}

func (e *ExtractError) Error() string {
	return e.Reason
}

// NewExtractError creates a new ExtractError.
func NewExtractError(format string, args ...any) *ExtractError {
	return &ExtractError{Reason: fmt.Sprintf(format, args...)}
}

// ToDetail converts the structural failure to an API-facing ErrorDetail.
func (e *ExtractError) ToDetail() *ErrorDetail {
	return &ErrorDetail{Code: ErrCodeExtraction, Message: e.Reason}
}

// Structural failure reasons.
const (
	ReasonSectionNotFound  = "Section not found"
	ReasonTbodyNotFound    = "Tbody not found"
	ReasonTodayRowMissing  = "Today row not found"
	ReasonTodayCells       = "Not enough cells in today row"
	ReasonYesterdayMissing = "Yesterday row not found"
	ReasonYesterdayCells   = "Not enough cells in yesterday row"
	ReasonNoData           = "Could not find data"
)

package runner

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/use-agent/goldrate/engine"
	"github.com/use-agent/goldrate/models"
	"github.com/use-agent/goldrate/quote"
)

// Quote performs a single fetch-and-compare without retrying or notifying.
// It backs the read-only surfaces (the quote endpoint and the MCP tool).
func Quote(ctx context.Context, eng engine.Engine, city, sourceURL string) *models.QuoteResponse {
	start := time.Now()
	resp := &models.QuoteResponse{SourceURL: sourceURL, EngineUsed: eng.Name()}

	res, err := eng.Fetch(ctx)
	resp.FetchMs = time.Since(start).Milliseconds()
	if err == nil && (res == nil || res.Pair == nil) {
		err = &models.ExtractError{Reason: models.ReasonNoData}
	}
	if err != nil {
		slog.Warn("quote fetch failed", "url", sourceURL, "error", err)
		resp.Error = ErrorDetail(err)
		return resp
	}
	resp.EngineUsed = res.EngineName
	resp.Quotes = res.Pair

	change, err := quote.Compare(res.Pair)
	if err != nil {
		resp.Error = ErrorDetail(err)
		return resp
	}
	resp.Success = true
	resp.Change = change
	resp.Message = quote.FormatUpdate(city, *res.Pair, *change)
	return resp
}

// ErrorDetail maps an attempt error to its API-facing form.
func ErrorDetail(err error) *models.ErrorDetail {
	var xe *models.ExtractError
	if errors.As(err, &xe) {
		return xe.ToDetail()
	}
	var se *models.ScrapeError
	if errors.As(err, &se) {
		return se.ToDetail()
	}
	if errors.Is(err, context.DeadlineExceeded) || errors.Is(err, context.Canceled) {
		return &models.ErrorDetail{Code: models.ErrCodeTimeout, Message: err.Error()}
	}
	return &models.ErrorDetail{Code: models.ErrCodeInternal, Message: err.Error()}
}

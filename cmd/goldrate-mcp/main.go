package main

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
	"github.com/use-agent/goldrate/config"
	"github.com/use-agent/goldrate/logging"
	"github.com/use-agent/goldrate/models"
	"github.com/use-agent/goldrate/quote"
	"github.com/use-agent/goldrate/runner"
)

func main() {
	cfg := config.Load()

	// stdout carries the MCP protocol; logs go to stderr.
	logging.Init(cfg.Log, os.Stderr)

	if _, err := cfg.Validate(); err != nil {
		fmt.Fprintf(os.Stderr, "invalid configuration: %v\n", err)
		os.Exit(1)
	}

	r, chain, err := runner.FromConfig(cfg)
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to initialise runner: %v\n", err)
		os.Exit(1)
	}

	s := server.NewMCPServer(
		"goldrate",
		"0.1.0",
		server.WithToolCapabilities(false),
	)

	getPriceTool := mcp.NewTool("get_gold_price",
		mcp.WithDescription(fmt.Sprintf("Read today's and yesterday's 24K gold price per gram in %s from goodreturns.in and report the day-over-day change. Does not send any notification.", cfg.Scraper.City)),
	)
	gate := runner.NewGate(r.Run, func(ctx context.Context) *models.QuoteResponse {
		return runner.Quote(ctx, chain, cfg.Scraper.City, cfg.Scraper.TargetURL)
	})
	s.AddTool(getPriceTool, handleGetGoldPrice(gate))

	runTool := mcp.NewTool("run_gold_price_update",
		mcp.WithDescription("Run the full gold price update: fetch with retries and deliver the result to the configured Telegram chat and webhook."),
	)
	s.AddTool(runTool, handleRunUpdate(gate))

	if err := server.ServeStdio(s); err != nil {
		fmt.Fprintf(os.Stderr, "server error: %v\n", err)
		os.Exit(1)
	}
}

func handleGetGoldPrice(gate *runner.Gate) server.ToolHandlerFunc {
	return func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		resp := gate.Quote(ctx)
		if !resp.Success {
			errMsg := "gold price lookup failed"
			if resp.Error != nil {
				errMsg = fmt.Sprintf("[%s] %s", resp.Error.Code, resp.Error.Message)
			}
			return mcp.NewToolResultError(errMsg), nil
		}

		var sb strings.Builder
		sb.WriteString(resp.Message)
		sb.WriteString("\n\n---\n")
		for _, line := range quote.SummaryLines(*resp.Quotes, *resp.Change) {
			sb.WriteString(line + "\n")
		}
		fmt.Fprintf(&sb, "Source: %s (engine %s, %d ms)", resp.SourceURL, resp.EngineUsed, resp.FetchMs)
		return mcp.NewToolResultText(sb.String()), nil
	}
}

func handleRunUpdate(gate *runner.Gate) server.ToolHandlerFunc {
	return func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		report, ok := gate.Trigger(ctx)
		if !ok {
			return mcp.NewToolResultError("the browser is busy with another gold price lookup"), nil
		}
		if report.State != models.StateSuccess {
			return mcp.NewToolResultError(fmt.Sprintf("update failed after %d attempts: %s", report.Attempts, report.LastError)), nil
		}
		return mcp.NewToolResultText(fmt.Sprintf("Update delivered after %d attempt(s).\n\n%s", report.Attempts, report.Message)), nil
	}
}

package mcp

import (
	"context"
	"encoding/json"

	"github.com/bobmcallan/agripulse/internal/common"
	"github.com/bobmcallan/agripulse/internal/config"
	"github.com/bobmcallan/agripulse/internal/interfaces"
	"github.com/bobmcallan/agripulse/internal/models"
	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
)

// errorResult creates an MCP error result.
func errorResult(message string) *mcp.CallToolResult {
	return &mcp.CallToolResult{
		Content: []mcp.Content{
			mcp.NewTextContent(message),
		},
		IsError: true,
	}
}

// jsonResult marshals v into a text result.
func jsonResult(v interface{}) *mcp.CallToolResult {
	out, err := json.Marshal(v)
	if err != nil {
		return errorResult("failed to marshal result: " + err.Error())
	}
	return &mcp.CallToolResult{
		Content: []mcp.Content{mcp.NewTextContent(string(out))},
	}
}

// RegisterTools adds the dashboard tools to s and returns how many were added.
func RegisterTools(s *server.MCPServer, svc interfaces.DashboardService, logger *common.Logger) int {
	tools := []server.ServerTool{
		{Tool: FeedStatusTool(), Handler: FeedStatusHandler(svc)},
		{Tool: ListRegionsTool(), Handler: ListRegionsHandler(svc)},
		{Tool: MarketTool(), Handler: MarketHandler(svc)},
		{Tool: PriceTrendsTool(), Handler: PriceTrendsHandler(svc)},
		{Tool: PredictionTool(), Handler: PredictionHandler(svc)},
		{Tool: RefreshFeedsTool(), Handler: RefreshFeedsHandler(svc, logger)},
	}
	s.AddTools(tools...)
	return len(tools)
}

func feedNames() []string {
	names := make([]string, len(models.FeedTypes))
	for i, ft := range models.FeedTypes {
		names[i] = string(ft)
	}
	return names
}

// FeedStatusTool returns the get_feed_status definition.
func FeedStatusTool() mcp.Tool {
	return mcp.NewTool("get_feed_status",
		mcp.WithDescription("Get the status of the six orbiting data feeds, or of one feed when 'feed' is given."),
		mcp.WithString("feed",
			mcp.Description("Feed type to return; omit for all feeds"),
			mcp.Enum(feedNames()...),
		),
	)
}

// FeedStatusHandler returns every feed record, or one when a feed is named.
func FeedStatusHandler(svc interfaces.DashboardService) server.ToolHandlerFunc {
	return func(ctx context.Context, r mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		name := r.GetString("feed", "")
		if name == "" {
			return jsonResult(svc.Satellites()), nil
		}
		feed, err := models.ParseFeedType(name)
		if err != nil {
			return errorResult(err.Error()), nil
		}
		rec, err := svc.Satellite(feed)
		if err != nil {
			return errorResult(err.Error()), nil
		}
		return jsonResult(rec), nil
	}
}

// ListRegionsTool returns the list_regions definition.
func ListRegionsTool() mcp.Tool {
	return mcp.NewTool("list_regions",
		mcp.WithDescription("List the monitored coffee-growing provinces with farmer counts, elevation, status and farm-gate price."),
	)
}

// ListRegionsHandler returns the regions.
func ListRegionsHandler(svc interfaces.DashboardService) server.ToolHandlerFunc {
	return func(ctx context.Context, r mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		return jsonResult(svc.Regions()), nil
	}
}

// MarketTool returns the get_market definition.
func MarketTool() mcp.Tool {
	return mcp.NewTool("get_market",
		mcp.WithDescription("Get the simulated coffee market: base price, trend, recent events and the latest quote."),
	)
}

// MarketHandler returns the market snapshot.
func MarketHandler(svc interfaces.DashboardService) server.ToolHandlerFunc {
	return func(ctx context.Context, r mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		return jsonResult(svc.Market()), nil
	}
}

// PriceTrendsTool returns the get_price_trends definition.
func PriceTrendsTool() mcp.Tool {
	return mcp.NewTool("get_price_trends",
		mcp.WithDescription("Get the recent coffee price history with average, max, min, volatility and trend."),
	)
}

// PriceTrendsHandler returns the price history report.
func PriceTrendsHandler(svc interfaces.DashboardService) server.ToolHandlerFunc {
	return func(ctx context.Context, r mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		return jsonResult(svc.Trends()), nil
	}
}

// PredictionTool returns the get_prediction definition.
func PredictionTool() mcp.Tool {
	return mcp.NewTool("get_prediction",
		mcp.WithDescription("Get the short-term coffee price outlook with a sell, hold or wait recommendation for farmers."),
	)
}

// PredictionHandler returns the price outlook.
func PredictionHandler(svc interfaces.DashboardService) server.ToolHandlerFunc {
	return func(ctx context.Context, r mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		return jsonResult(svc.Prediction(ctx)), nil
	}
}

// RefreshFeedsTool returns the refresh_feeds definition.
func RefreshFeedsTool() mcp.Tool {
	return mcp.NewTool("refresh_feeds",
		mcp.WithDescription("Fetch weather, coffee price, currency and news data now, bypassing the cache."),
	)
}

// RefreshFeedsHandler forces a refresh. Per-feed failures are reported in the
// result rather than as a tool error, since the other feeds still update.
func RefreshFeedsHandler(svc interfaces.DashboardService, logger *common.Logger) server.ToolHandlerFunc {
	return func(ctx context.Context, r mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		result := map[string]interface{}{"status": "ok"}
		if err := svc.ForceRefresh(ctx); err != nil {
			logger.Warn().Err(err).Msg("refresh_feeds completed with errors")
			result["status"] = "partial"
			result["error"] = err.Error()
		}
		result["feeds"] = svc.Satellites()
		return jsonResult(result), nil
	}
}

// VersionTool returns the get_version definition. Clients call it to check
// connectivity before asking for feed data.
func VersionTool() mcp.Tool {
	return mcp.NewTool("get_version",
		mcp.WithDescription("Get the AgriPulse build version, build time and commit."),
	)
}

// VersionToolHandler reports the build identity.
func VersionToolHandler() server.ToolHandlerFunc {
	return func(context.Context, mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		return jsonResult(config.GetVersionInfo()), nil
	}
}

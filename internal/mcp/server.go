// Package mcp exposes the pipeline and campaign memory as MCP tools so
// agent clients can trigger runs and mine history alongside the REST API.
package mcp

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"trendops/backend/internal/pipeline"
	"trendops/backend/internal/services"
	"trendops/backend/pkg/models"
)

type Server struct {
	mcpServer    *server.MCPServer
	orchestrator *pipeline.Orchestrator
	campaigns    *services.CampaignService
}

func NewServer(orchestrator *pipeline.Orchestrator, campaigns *services.CampaignService) *Server {
	s := &Server{
		mcpServer: server.NewMCPServer(
			"TrendOps Pipeline",
			"1.0.0",
			server.WithToolCapabilities(true),
		),
		orchestrator: orchestrator,
		campaigns:    campaigns,
	}

	s.registerTools()
	return s
}

func (s *Server) GetMCPServer() *server.MCPServer {
	return s.mcpServer
}

func (s *Server) registerTools() {
	s.mcpServer.AddTool(
		mcp.NewTool(
			"run_pipeline",
			mcp.WithDescription("Run the trend-to-content pipeline once"),
			mcp.WithString("strategy", mcp.Description("Merge strategy: viral-first, evergreen-first, conversion-first or balanced")),
			mcp.WithNumber("limit", mcp.Description("Maximum opportunities to pursue")),
		),
		s.handleRunPipeline,
	)

	s.mcpServer.AddTool(
		mcp.NewTool(
			"pipeline_status",
			mcp.WithDescription("Latest pipeline run and running totals"),
		),
		s.handlePipelineStatus,
	)

	s.mcpServer.AddTool(
		mcp.NewTool(
			"campaign_patterns",
			mcp.WithDescription("Mined patterns from past campaigns matching an objective"),
			mcp.WithString("objective", mcp.Required(), mcp.Description("The campaign objective to match")),
		),
		s.handleCampaignPatterns,
	)

	s.mcpServer.AddTool(
		mcp.NewTool(
			"campaign_recommendations",
			mcp.WithDescription("Recommendations mined from profitable campaigns of a type"),
			mcp.WithString("type", mcp.Required(), mcp.Description("Campaign type: awareness, conversion, engagement, retention or other")),
		),
		s.handleCampaignRecommendations,
	)

	s.mcpServer.AddTool(
		mcp.NewTool(
			"benchmark_campaign",
			mcp.WithDescription("Benchmark a campaign against others of its type"),
			mcp.WithString("id", mcp.Required(), mcp.Description("The campaign memory ID")),
		),
		s.handleBenchmarkCampaign,
	)
}

func (s *Server) handleRunPipeline(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args, ok := request.Params.Arguments.(map[string]interface{})
	if !ok {
		return mcp.NewToolResultError("Invalid arguments type"), nil
	}

	strategy := models.StrategyBalanced
	if raw, ok := args["strategy"].(string); ok && raw != "" {
		strategy = models.Strategy(raw)
	}
	switch strategy {
	case models.StrategyViralFirst, models.StrategyEvergreenFirst,
		models.StrategyConversionFirst, models.StrategyBalanced:
	default:
		return mcp.NewToolResultError(fmt.Sprintf("Unknown strategy: %s", strategy)), nil
	}
	limit := 10
	if raw, ok := args["limit"].(float64); ok && raw > 0 {
		limit = int(raw)
	}

	exec, err := s.orchestrator.Run(ctx, strategy, limit)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("Pipeline run failed: %v", err)), nil
	}

	jsonBytes, _ := json.Marshal(exec)
	return mcp.NewToolResultText(string(jsonBytes)), nil
}

func (s *Server) handlePipelineStatus(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	view, err := s.orchestrator.Status(ctx)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("Failed to read status: %v", err)), nil
	}

	jsonBytes, _ := json.Marshal(view)
	return mcp.NewToolResultText(string(jsonBytes)), nil
}

func (s *Server) handleCampaignPatterns(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args, ok := request.Params.Arguments.(map[string]interface{})
	if !ok {
		return mcp.NewToolResultError("Invalid arguments type"), nil
	}

	objective, ok := args["objective"].(string)
	if !ok || objective == "" {
		return mcp.NewToolResultError("Missing required parameter: objective"), nil
	}

	patterns, err := s.campaigns.GetPatterns(ctx, objective)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("Failed to mine patterns: %v", err)), nil
	}

	jsonBytes, _ := json.Marshal(patterns)
	return mcp.NewToolResultText(string(jsonBytes)), nil
}

func (s *Server) handleCampaignRecommendations(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args, ok := request.Params.Arguments.(map[string]interface{})
	if !ok {
		return mcp.NewToolResultError("Invalid arguments type"), nil
	}

	ctype, ok := args["type"].(string)
	if !ok || ctype == "" {
		return mcp.NewToolResultError("Missing required parameter: type"), nil
	}

	recs, err := s.campaigns.GetRecommendations(ctx, models.CampaignType(ctype))
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("Failed to mine recommendations: %v", err)), nil
	}

	jsonBytes, _ := json.Marshal(recs)
	return mcp.NewToolResultText(string(jsonBytes)), nil
}

func (s *Server) handleBenchmarkCampaign(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args, ok := request.Params.Arguments.(map[string]interface{})
	if !ok {
		return mcp.NewToolResultError("Invalid arguments type"), nil
	}

	id, ok := args["id"].(string)
	if !ok || id == "" {
		return mcp.NewToolResultError("Missing required parameter: id"), nil
	}

	bench, err := s.campaigns.BenchmarkCampaign(ctx, id)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("Failed to benchmark: %v", err)), nil
	}

	jsonBytes, _ := json.Marshal(bench)
	return mcp.NewToolResultText(string(jsonBytes)), nil
}

func MountHTTPHandlers(mux *http.ServeMux, mcpServer *server.MCPServer) {
	// Use SSE server for /mcp/sse and /mcp/message endpoints
	sseServer := server.NewSSEServer(mcpServer, server.WithStaticBasePath("/mcp"))

	mux.HandleFunc("/mcp", func(w http.ResponseWriter, r *http.Request) {
		// Direct POST for tool calls
		if r.Method == http.MethodPost {
			sseServer.ServeHTTP(w, r)
			return
		}
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
	})

	// SSE endpoints
	mux.HandleFunc("/mcp/sse", sseServer.ServeHTTP)
	mux.HandleFunc("/mcp/message", sseServer.ServeHTTP)
}

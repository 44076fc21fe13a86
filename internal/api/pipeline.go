package api

import (
	"context"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"trendops/backend/internal/logging"
	"trendops/backend/internal/pipeline"
	"trendops/backend/internal/services"
	"trendops/backend/pkg/models"
)

// Server holds the dependencies for the API server.
type Server struct {
	Orchestrator *pipeline.Orchestrator
	Campaigns    *services.CampaignService
	Logger       *logging.Logger
	RunTimeout   time.Duration
	DefaultLimit int
}

// NewServer creates a new Server.
func NewServer(orch *pipeline.Orchestrator, campaigns *services.CampaignService, logger *logging.Logger, runTimeout time.Duration, defaultLimit int) *Server {
	return &Server{
		Orchestrator: orch,
		Campaigns:    campaigns,
		Logger:       logger,
		RunTimeout:   runTimeout,
		DefaultLimit: defaultLimit,
	}
}

// Register mounts every handler on the group.
func (s *Server) Register(g *echo.Group) {
	g.POST("/pipeline/runs", s.StartRun)
	g.GET("/pipeline/status", s.PipelineStatus)
	g.GET("/campaigns/patterns", s.CampaignPatterns)
	g.GET("/campaigns/recommendations", s.CampaignRecommendations)
	g.GET("/campaigns/:id/benchmark", s.BenchmarkCampaign)
	g.POST("/campaigns", s.RecordCampaign)
}

// StartRunRequest is the manual trigger payload.
type StartRunRequest struct {
	Strategy models.Strategy `json:"strategy"`
	Limit    int             `json:"limit"`
}

// StartRun triggers one synchronous pipeline run.
// (POST /api/v1/pipeline/runs)
func (s *Server) StartRun(c echo.Context) error {
	var req StartRunRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request body: "+err.Error())
	}
	if req.Strategy == "" {
		req.Strategy = models.StrategyBalanced
	}
	switch req.Strategy {
	case models.StrategyViralFirst, models.StrategyEvergreenFirst,
		models.StrategyConversionFirst, models.StrategyBalanced:
	default:
		return echo.NewHTTPError(http.StatusBadRequest, "Unknown strategy: "+string(req.Strategy))
	}
	if req.Limit <= 0 {
		req.Limit = s.DefaultLimit
	}

	// The whole run shares one caller-level timeout; on expiry the run is
	// persisted as FAILED with the timeout error.
	ctx, cancel := context.WithTimeout(c.Request().Context(), s.RunTimeout)
	defer cancel()

	exec, err := s.Orchestrator.Run(ctx, req.Strategy, req.Limit)
	if err != nil {
		if exec != nil {
			// The failed execution record is the caller's breadcrumb.
			return c.JSON(http.StatusInternalServerError, exec)
		}
		return httpError(err)
	}
	return c.JSON(http.StatusOK, exec)
}

// PipelineStatus reports the latest execution and running totals.
// (GET /api/v1/pipeline/status)
func (s *Server) PipelineStatus(c echo.Context) error {
	view, err := s.Orchestrator.Status(c.Request().Context())
	if err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusOK, view)
}

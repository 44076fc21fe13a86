package api

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"trendops/backend/internal/services"
	"trendops/backend/pkg/models"
)

// CampaignPatterns returns the mined patterns for an objective.
// (GET /api/v1/campaigns/patterns?objective=...)
func (s *Server) CampaignPatterns(c echo.Context) error {
	objective := c.QueryParam("objective")
	if objective == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "Missing required query parameter: objective")
	}
	patterns, err := s.Campaigns.GetPatterns(c.Request().Context(), objective)
	if err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusOK, map[string]interface{}{
		"objective": objective,
		"patterns":  patterns,
	})
}

// CampaignRecommendations returns mined recommendations for a campaign type.
// (GET /api/v1/campaigns/recommendations?type=...)
func (s *Server) CampaignRecommendations(c echo.Context) error {
	ctype := models.CampaignType(c.QueryParam("type"))
	if ctype == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "Missing required query parameter: type")
	}
	recs, err := s.Campaigns.GetRecommendations(c.Request().Context(), ctype)
	if err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusOK, map[string]interface{}{
		"campaign_type":   ctype,
		"recommendations": recs,
	})
}

// BenchmarkCampaign compares a campaign against its type's history.
// (GET /api/v1/campaigns/:id/benchmark)
func (s *Server) BenchmarkCampaign(c echo.Context) error {
	bench, err := s.Campaigns.BenchmarkCampaign(c.Request().Context(), c.Param("id"))
	if err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusOK, bench)
}

// RecordCampaign appends a finished campaign's outcome to the memory.
// (POST /api/v1/campaigns)
func (s *Server) RecordCampaign(c echo.Context) error {
	var in services.CampaignOutcomeInput
	if err := c.Bind(&in); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request body: "+err.Error())
	}
	if in.Name == "" || in.Objective == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "name and objective are required")
	}
	mem, err := s.Campaigns.RecordOutcome(c.Request().Context(), in)
	if err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusCreated, mem)
}

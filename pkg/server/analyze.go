package server

import (
	"context"
	"net/http"

	"github.com/charmbracelet/log"
	"github.com/labstack/echo/v4"

	"narrator/pkg/schema"
)

// POST /api/analyze
func (s *Server) handlePostAnalyze(c echo.Context) error {
	var body scriptReq
	if err := c.Bind(&body); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid json")
	}
	req, err := s.resolve(body)
	if err != nil {
		return err
	}

	// joined callers must not lose the result when the first one disconnects
	ctx := context.WithoutCancel(c.Request().Context())
	work := func() (schema.Plan, error) { return s.Analyzer.Analyze(ctx, req) }

	key := digest(req)
	var plan schema.Plan
	if body.Force {
		plan, err = s.plans.Force(key, work)
	} else {
		plan, err = s.plans.Get(key, work)
	}
	if err != nil {
		return s.fail(c, req.Provider, err)
	}
	if plan.UsedDefaultPlan {
		// let the next attempt ask the model again
		s.plans.Forget(key)
		log.Warn("analysis fell back to the default plan", "provider", req.Provider, "user", req.UserID)
	}
	return c.JSON(http.StatusOK, plan.Clone())
}

package server

import (
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	"narrator/pkg/history"
	"narrator/pkg/length"
)

func (s *Server) handleGetRoot(c echo.Context) error {
	return c.JSON(http.StatusOK, map[string]string{
		"service": "Narrator Script API",
		"status":  "ok",
	})
}

// GET /api/catalog
func (s *Server) handleGetCatalog(c echo.Context) error {
	return c.JSON(http.StatusOK, s.Catalog.Public())
}

// GET /api/length?language=vi&duration=custom&minutes=12&tolerance=strict
func (s *Server) handleGetLength(c echo.Context) error {
	minutes := 0
	if m := c.QueryParam("minutes"); m != "" {
		var err error
		if minutes, err = strconv.Atoi(m); err != nil {
			return echo.NewHTTPError(http.StatusBadRequest, "invalid minutes")
		}
	}
	tol := length.DefaultTolerance
	if c.QueryParam("tolerance") == "strict" {
		tol = length.StrictTolerance
	}
	language := c.QueryParam("language")
	if language == "" {
		language = "vi"
	}

	target := length.Calculate(language, c.QueryParam("duration"), minutes, tol)
	return c.JSON(http.StatusOK, map[string]any{
		"length":  target,
		"chained": s.Generator.Chained(target),
		"parts":   len(s.Generator.Chunks(target)),
	})
}

// GET /api/history?user=u1&limit=10
func (s *Server) handleGetHistory(c echo.Context) error {
	user := c.QueryParam("user")
	if user == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "missing user")
	}
	limit, _ := strconv.Atoi(c.QueryParam("limit"))
	entries := []history.Entry{}
	if s.History != nil {
		if list := s.History.List(user, limit); len(list) > 0 {
			entries = list
		}
	}
	return c.JSON(http.StatusOK, entries)
}

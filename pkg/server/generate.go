package server

import (
	"cmp"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/charmbracelet/log"
	"github.com/labstack/echo/v4"
	"github.com/segmentio/ksuid"

	"narrator/pkg/diff"
	"narrator/pkg/generator"
	"narrator/pkg/history"
	"narrator/pkg/length"
	"narrator/pkg/queue"
	"narrator/pkg/schema"
	"narrator/pkg/utils"
)

type generateResp struct {
	ID     string        `json:"id"`
	Script string        `json:"script"`
	Length length.Target `json:"length"`
}

// POST /api/generate
// With Accept: text/event-stream every finished pass is sent as a "part"
// event, followed by "done" or "error".
func (s *Server) handlePostGenerate(c echo.Context) error {
	var body scriptReq
	if err := c.Bind(&body); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid json")
	}
	req, err := s.resolve(body)
	if err != nil {
		return err
	}

	user := cmp.Or(req.UserID, c.RealIP())
	if err := s.inFlight.Add(user, struct{}{}, s.inFlightTTL); err != nil {
		return echo.NewHTTPError(http.StatusConflict, "a script is already being generated for this user")
	}
	defer s.inFlight.Delete(user)

	s.logPlanEdits(req)

	ctx := c.Request().Context()
	if !strings.Contains(c.Request().Header.Get(echo.HeaderAccept), "text/event-stream") {
		results, err := s.Queue.Add(ctx, req, nil)
		if err != nil {
			return queueError(err)
		}
		res := <-results
		if res.Err != nil {
			return s.fail(c, req.Provider, res.Err)
		}
		return c.JSON(http.StatusOK, s.record(req, res.Script))
	}

	w, err := utils.NewSSEWriter(c)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	defer w.Close()

	results, err := s.Queue.Add(ctx, req, func(p generator.Part) {
		if err := w.Event("part", p); err != nil {
			log.Debug("failed sending part", "generation", p.ID, "error", err)
		}
	})
	if err != nil {
		return w.Event("error", utils.ErrJSON(fmt.Sprint(queueError(err).Message)))
	}
	res := <-results
	if res.Err != nil {
		return w.Event("error", errorBody(req.Provider, res.Err))
	}
	return w.Event("done", s.record(req, res.Script))
}

func queueError(err error) *echo.HTTPError {
	if errors.Is(err, queue.ErrStopped) {
		return echo.NewHTTPError(http.StatusServiceUnavailable, "server is shutting down")
	}
	return echo.NewHTTPError(http.StatusServiceUnavailable, "too many scripts in progress, try again shortly")
}

// logPlanEdits reports how the approved plan differs from the analysis it came from.
func (s *Server) logPlanEdits(req *schema.Request) {
	if req.Plan == nil {
		return
	}
	analyzed, ok := s.plans.Peek(digest(req))
	if !ok {
		return
	}
	d := diff.Plans(analyzed, *req.Plan)
	if !d.Changed() {
		return
	}
	log.Info("plan edited before generation", "user", req.UserID,
		"added", len(d.Outline.Added), "removed", len(d.Outline.Removed), "edited", len(d.Outline.Edited), "reordered", d.Reordered)
	if log.GetLevel() <= log.DebugLevel {
		var b strings.Builder
		d.Print(&b)
		log.Debug("plan diff\n" + b.String())
	}
}

// record stores a finished script in the history and builds the response.
func (s *Server) record(req *schema.Request, script string) generateResp {
	target := req.Length(length.DefaultTolerance)
	resp := generateResp{ID: ksuid.New().String(), Script: script, Length: target}
	if s.History == nil || req.UserID == "" {
		return resp
	}

	entry, err := s.History.Add(history.Entry{
		UserID:   req.UserID,
		Provider: string(req.Provider),
		Model:    req.Model,
		Template: req.Template.ID,
		Language: req.Language.ID,
		Minutes:  target.Minutes,
		Input:    req.Input,
		Script:   script,
	})
	if err != nil {
		log.Warn("script not saved to history", "user", req.UserID, "error", err)
		return resp
	}
	resp.ID = entry.ID
	return resp
}

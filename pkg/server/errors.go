package server

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"github.com/charmbracelet/log"
	"github.com/labstack/echo/v4"

	"narrator/pkg/generator"
	"narrator/pkg/inference"
	"narrator/pkg/utils"
)

// statusOf maps a failed analysis or generation to an HTTP status.
func statusOf(err error) int {
	var gerr *generator.Error
	if errors.As(err, &gerr) && gerr.Canceled || errors.Is(err, context.Canceled) {
		return http.StatusRequestTimeout
	}
	switch inference.KindOf(err) {
	case inference.KindMissingKey:
		return http.StatusBadRequest
	case inference.KindUnauthorized:
		return http.StatusUnauthorized
	case inference.KindQuotaExceeded:
		return http.StatusTooManyRequests
	case inference.KindOverloaded:
		return http.StatusServiceUnavailable
	}
	return http.StatusBadGateway
}

func errorBody(p inference.Provider, err error) map[string]any {
	body := utils.ErrJSON(generator.Describe(p, err))
	body["kind"] = inference.KindOf(err)
	return body
}

func (s *Server) fail(c echo.Context, p inference.Provider, err error) error {
	return c.JSON(statusOf(err), errorBody(p, err))
}

// handleError renders every echo error in the same shape as provider failures.
func handleError(err error, c echo.Context) {
	if c.Response().Committed {
		return
	}
	code := http.StatusInternalServerError
	msg := http.StatusText(code)
	var he *echo.HTTPError
	if errors.As(err, &he) {
		code = he.Code
		msg = fmt.Sprint(he.Message)
	} else {
		log.Error("unhandled error", "path", c.Path(), "error", err)
	}

	if c.Request().Method == http.MethodHead {
		err = c.NoContent(code)
	} else {
		err = c.JSON(code, utils.ErrJSON(msg))
	}
	if err != nil {
		log.Error("failed writing error response", "error", err)
	}
}

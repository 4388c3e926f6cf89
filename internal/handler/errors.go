package handler

import (
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/school-workshop/movie-review-challenge/internal/logging"
)

// ErrorHandler writes errors as JSON under /api and as the error page
// everywhere else.  Details of 5xx errors are logged, never shown.
func ErrorHandler(err error, c echo.Context) {
	if c.Response().Committed {
		return
	}

	status := http.StatusInternalServerError
	message := http.StatusText(status)
	var he *echo.HTTPError
	if errors.As(err, &he) {
		status = he.Code
		message = fmt.Sprint(he.Message)
	}
	if status >= http.StatusInternalServerError {
		logging.Error().Err(err).Str("path", c.Request().URL.Path).Msg("request failed")
		message = http.StatusText(status)
	}

	var werr error
	switch {
	case c.Request().Method == http.MethodHead:
		werr = c.NoContent(status)
	case strings.HasPrefix(c.Request().URL.Path, "/api/"):
		werr = c.JSON(status, echo.Map{"error": message})
	default:
		werr = c.Render(status, PageError, errorPage{Status: status, Message: message})
		if werr != nil && !c.Response().Committed {
			werr = c.String(status, message)
		}
	}
	if werr != nil {
		logging.Warn().Err(werr).Msg("write error response")
	}
}

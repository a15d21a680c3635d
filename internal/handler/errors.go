package handler

import (
	"errors"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/labstack/echo/v4"

	"clipbridge/internal/model"
)

// HTTPErrorHandler renders every error that reaches Echo in the same
// {"status":"error","message":...} shape as the clip handler. 405 is
// reported as 404: the bridge exposes a single method on a single path.
func HTTPErrorHandler(logger *slog.Logger) echo.HTTPErrorHandler {
	logger = logger.With("component", "http_error")

	return func(err error, c echo.Context) {
		if c.Response().Committed {
			return
		}

		code := http.StatusInternalServerError
		message := "Internal server error"

		var he *echo.HTTPError
		if errors.As(err, &he) {
			code = he.Code
			message = fmt.Sprint(he.Message)
		}
		if code == http.StatusMethodNotAllowed {
			code = http.StatusNotFound
			message = http.StatusText(http.StatusNotFound)
		}
		if code >= http.StatusInternalServerError {
			logger.Error("unhandled error", "err", err, "path", c.Request().URL.Path)
		}

		var werr error
		if c.Request().Method == http.MethodHead {
			werr = c.NoContent(code)
		} else {
			werr = c.JSON(code, model.Response{Status: model.StatusError, Message: message})
		}
		if werr != nil {
			logger.Debug("write error response", "err", werr)
		}
	}
}

package handler

import (
	"errors"
	"io"
	"log/slog"
	"net/http"

	"github.com/labstack/echo/v4"

	"clipbridge/internal/model"
	"clipbridge/internal/service"
)

// ClipHandler serves POST /clip.
type ClipHandler struct {
	service *service.ClipService
	logger  *slog.Logger
}

// NewClipHandler creates a ClipHandler.
func NewClipHandler(svc *service.ClipService, logger *slog.Logger) *ClipHandler {
	return &ClipHandler{
		service: svc,
		logger:  logger.With("component", "clip_handler"),
	}
}

// Handle buffers the body, hands it to the service and renders the outcome.
// The route is registered for every method so that anything but POST gets
// the same 404 as an unknown path.
func (h *ClipHandler) Handle(c echo.Context) error {
	req := c.Request()
	if req.Method != http.MethodPost {
		return echo.ErrNotFound
	}

	body, err := io.ReadAll(req.Body)
	if err != nil {
		var he *echo.HTTPError
		if errors.As(err, &he) {
			return he
		}
		return h.mapError(c, model.BadRequest("Could not read request body", err))
	}
	if len(body) == 0 {
		return h.mapError(c, model.BadRequest("Empty request body", nil))
	}

	out, err := h.service.Process(&model.ClipRequest{
		Ctx:    req.Context(),
		Method: req.Method,
		Path:   req.URL.Path,
		Header: req.Header,
		Body:   body,
	})
	if err != nil {
		return h.mapError(c, err)
	}

	return c.JSON(http.StatusOK, model.Response{
		Status:  model.StatusSuccess,
		Message: out.Message,
	})
}

// mapError is the only place a failure kind becomes an HTTP status.
func (h *ClipHandler) mapError(c echo.Context, err error) error {
	kind := model.KindOf(err)
	status := statusFor(kind)

	message := "Internal server error"
	var me *model.Error
	if errors.As(err, &me) && kind != model.KindInternal {
		message = me.Message
	}

	if status >= http.StatusInternalServerError {
		h.logger.Error("clip failed", "kind", kind, "err", err)
	} else {
		h.logger.Warn("clip rejected", "kind", kind, "err", err)
	}

	return c.JSON(status, model.Response{
		Status:  model.StatusError,
		Message: message,
	})
}

func statusFor(kind model.ErrorKind) int {
	switch kind {
	case model.KindBadRequest, model.KindUnsupportedMediaType, model.KindConversion:
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}

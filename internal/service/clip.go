// Package service turns decoded clip requests into clipboard writes.
package service

import (
	"log/slog"
	"time"
	"unicode/utf8"

	"clipbridge/internal/clipboard"
	"clipbridge/internal/decode"
	"clipbridge/internal/metrics"
	"clipbridge/internal/model"
	"clipbridge/internal/normalize"
	"clipbridge/internal/notify"
)

// Messages returned to the client and shown in notifications.
const (
	MsgTextCopied  = "Text copied to clipboard"
	MsgImageCopied = "Image copied to clipboard"
)

// previewRunes bounds how much copied text reaches the logs.
const previewRunes = 50

// ClipService runs one request through decode, normalize, clipboard write
// and notification.
type ClipService struct {
	sink     clipboard.Sink
	notifier notify.Notifier
	metrics  *metrics.Metrics
	logger   *slog.Logger
}

// NewClipService creates a ClipService.
func NewClipService(sink clipboard.Sink, n notify.Notifier, m *metrics.Metrics, logger *slog.Logger) *ClipService {
	return &ClipService{
		sink:     sink,
		notifier: n,
		metrics:  m,
		logger:   logger.With("component", "clip_service"),
	}
}

// Process decodes req and writes the result to the clipboard exactly once.
// Returned errors are *model.Error; a notification failure is never one.
func (s *ClipService) Process(req *model.ClipRequest) (*model.Outcome, error) {
	payload, err := decode.Decode(req.Header, req.Body)
	if err != nil {
		s.record(metrics.KindUnknown, err)
		return nil, err
	}

	var out *model.Outcome
	switch payload.Kind {
	case model.PayloadImage:
		out, err = s.copyImage(req, payload)
	default:
		out, err = s.copyText(req, payload.Text)
	}
	s.record(payload.Kind.String(), err)
	if err != nil {
		return nil, err
	}

	s.notify(req, notificationFor(payload))
	return out, nil
}

func (s *ClipService) copyText(req *model.ClipRequest, text string) (*model.Outcome, error) {
	if err := s.sink.WriteText(text); err != nil {
		return nil, model.Clipboard("Failed to copy text to clipboard", err)
	}

	s.logger.InfoContext(req.Ctx, "text copied", "chars", utf8.RuneCountInString(text))
	s.logger.DebugContext(req.Ctx, "text preview", "text", preview(text))

	return &model.Outcome{Kind: model.PayloadText, Message: MsgTextCopied}, nil
}

func (s *ClipService) copyImage(req *model.ClipRequest, p *model.Payload) (*model.Outcome, error) {
	start := time.Now()
	res, err := normalize.Normalize(p.Image)
	s.metrics.NormalizeDuration.Observe(time.Since(start).Seconds())
	if err != nil {
		s.logger.WarnContext(req.Ctx, "image conversion failed",
			"err", err,
			"bytes", len(p.Image),
			"declared", p.FormatHint,
		)
		return nil, err
	}

	if err := s.sink.WriteImage(res.PNG); err != nil {
		return nil, model.Clipboard("Failed to copy image to clipboard", err)
	}

	s.logger.InfoContext(req.Ctx, "image copied",
		"format", res.SourceFormat,
		"width", res.Width,
		"height", res.Height,
		"mode", res.Mode,
		"bytes_in", len(p.Image),
		"bytes_out", len(res.PNG),
	)

	return &model.Outcome{
		Kind:    model.PayloadImage,
		Message: MsgImageCopied,
		Width:   res.Width,
		Height:  res.Height,
	}, nil
}

// notify is best effort: a failure is logged and counted, nothing more.
func (s *ClipService) notify(req *model.ClipRequest, message string) {
	if err := s.notifier.Notify(message); err != nil {
		s.metrics.NotificationsTotal.WithLabelValues(metrics.ResultError).Inc()
		s.logger.WarnContext(req.Ctx, "notification failed", "err", err, "message", message)
		return
	}
	s.metrics.NotificationsTotal.WithLabelValues(metrics.ResultOK).Inc()
}

func (s *ClipService) record(kind string, err error) {
	result := metrics.ResultOK
	if err != nil {
		result = metrics.ResultError
	}
	s.metrics.ClipsTotal.WithLabelValues(kind, result).Inc()
}

func notificationFor(p *model.Payload) string {
	if p.Kind == model.PayloadImage {
		return MsgImageCopied
	}
	return "Text copied: " + p.Text
}

func preview(s string) string {
	r := []rune(s)
	if len(r) <= previewRunes {
		return s
	}
	return string(r[:previewRunes]) + "..."
}

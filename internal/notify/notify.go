// Package notify shows a short desktop notification after each clip.
package notify

import (
	"fmt"
	"log/slog"

	"github.com/gen2brain/beeep"
)

// MaxDisplayRunes is the longest message shown in a notification.
const MaxDisplayRunes = 50

// Notifier delivers a one-line message to the user. Failures are reported
// but never change the outcome of a clip.
type Notifier interface {
	Notify(message string) error
}

// Desktop sends native notifications through beeep (D-Bus, the macOS
// notification center or Windows toasts).
type Desktop struct {
	title string
	send  func(title, message string) error
}

// NewDesktop returns a Desktop notifier that titles every message with title.
func NewDesktop(title string) *Desktop {
	return &Desktop{
		title: title,
		send: func(title, message string) error {
			return beeep.Notify(title, message, "")
		},
	}
}

// Notify shows message, truncated to MaxDisplayRunes.
func (d *Desktop) Notify(message string) error {
	if err := d.send(d.title, Truncate(message, MaxDisplayRunes)); err != nil {
		return fmt.Errorf("desktop notification: %w", err)
	}
	return nil
}

// Log writes notifications to a logger instead of the desktop.
type Log struct {
	logger *slog.Logger
}

// NewLog returns a notifier that logs each message at INFO.
func NewLog(logger *slog.Logger) *Log {
	return &Log{logger: logger}
}

// Notify logs message.
func (l *Log) Notify(message string) error {
	l.logger.Info("notification", "message", message)
	return nil
}

// New returns the log notifier when disabled is set and the desktop notifier
// otherwise.
func New(disabled bool, title string, logger *slog.Logger) Notifier {
	if disabled {
		return NewLog(logger)
	}
	return NewDesktop(title)
}

// Truncate shortens s to at most n runes, marking the cut with "...".
func Truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	if n <= 3 {
		return string(r[:n])
	}
	return string(r[:n-3]) + "..."
}

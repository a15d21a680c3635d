// Package clipboard writes text and images to the desktop clipboard.
//
// Backends:
//
//	native: golang.design/x/clipboard (text + PNG; needs cgo and a display on Linux)
//	command: github.com/atotto/clipboard (xclip/xsel/wl-copy/pbcopy/clip.exe; text only)
//	memory: in-process, records the last write
//	headless: every write fails with ErrUnavailable
//
// The system clipboard serialises writes itself, so sinks do no queueing.
package clipboard

import (
	"bytes"
	"errors"
	"fmt"
	"log/slog"
)

var (
	// ErrUnavailable means no usable clipboard API exists in this environment.
	ErrUnavailable = errors.New("clipboard unavailable")
	// ErrRejected means the platform refused the write.
	ErrRejected = errors.New("clipboard write rejected")
	// ErrMalformedImage means the image handed to the sink is not a PNG.
	ErrMalformedImage = errors.New("malformed image data")
	// ErrUnsupported means the backend cannot hold this kind of content.
	ErrUnsupported = errors.New("content kind not supported by clipboard backend")
)

// Backend names accepted by New.
const (
	BackendAuto    = "auto"
	BackendNative  = "native"
	BackendCommand = "command"
	BackendMemory  = "memory"
)

// Sink is the interface every clipboard backend satisfies.
type Sink interface {
	// Name returns a human-readable name for the backend.
	Name() string

	// WriteText replaces the clipboard with text.
	WriteText(text string) error

	// WriteImage replaces the clipboard with a PNG-encoded image.
	WriteImage(png []byte) error

	// Close releases any resources held by the backend.
	Close()
}

// New returns the sink for backend. With BackendAuto it falls back from the
// native clipboard to the command-line helpers and finally to a headless sink.
func New(backend string, logger *slog.Logger) (Sink, error) {
	switch backend {
	case BackendNative:
		s, err := NewNative()
		if err != nil {
			return nil, err
		}
		return s, nil
	case BackendCommand:
		s, err := NewCommand()
		if err != nil {
			return nil, err
		}
		return s, nil
	case BackendMemory:
		return NewMemory(), nil
	case BackendAuto, "":
		s, err := NewNative()
		if err == nil {
			return s, nil
		}
		logger.Warn("native clipboard unavailable", "err", err)
		if s, err := NewCommand(); err == nil {
			logger.Warn("falling back to command clipboard; images will be rejected")
			return s, nil
		}
		logger.Warn("no clipboard available, running headless")
		return headless{}, nil
	default:
		return nil, fmt.Errorf("unknown clipboard backend %q", backend)
	}
}

// pngMagic is the 8-byte PNG file signature.
var pngMagic = []byte("\x89PNG\r\n\x1a\n")

func isPNG(b []byte) bool {
	return len(b) > len(pngMagic) && bytes.HasPrefix(b, pngMagic)
}

// headless is a no-op sink for environments without a clipboard.
type headless struct{}

func (headless) Name() string              { return "headless (no clipboard)" }
func (headless) WriteText(_ string) error  { return ErrUnavailable }
func (headless) WriteImage(_ []byte) error { return ErrUnavailable }
func (headless) Close()                    {}

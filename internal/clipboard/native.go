package clipboard

import (
	"fmt"
	"sync"

	"golang.design/x/clipboard"
)

var (
	initOnce sync.Once
	initErr  error
)

// Native writes through golang.design/x/clipboard.
type Native struct{}

// NewNative initialises the platform clipboard. clipboard.Init is process
// wide, so it runs at most once; later calls return the first result.
func NewNative() (*Native, error) {
	initOnce.Do(func() { initErr = clipboard.Init() })
	if initErr != nil {
		return nil, fmt.Errorf("%w: %w", ErrUnavailable, initErr)
	}
	return &Native{}, nil
}

func (n *Native) Name() string { return "native (golang.design/x/clipboard)" }

// WriteText implements Sink.
func (n *Native) WriteText(text string) error {
	if clipboard.Write(clipboard.FmtText, []byte(text)) == nil {
		return fmt.Errorf("%w: text", ErrRejected)
	}
	return nil
}

// WriteImage implements Sink. data must be PNG-encoded.
func (n *Native) WriteImage(data []byte) error {
	if !isPNG(data) {
		return ErrMalformedImage
	}
	// Write returns a nil channel when the platform rejects the data.
	if clipboard.Write(clipboard.FmtImage, data) == nil {
		return fmt.Errorf("%w: image", ErrRejected)
	}
	return nil
}

func (n *Native) Close() {}

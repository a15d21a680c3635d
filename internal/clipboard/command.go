package clipboard

import (
	"fmt"

	"github.com/atotto/clipboard"
)

// Command writes text through the platform's clipboard helper programs
// (xclip, xsel, wl-copy, pbcopy, clip.exe). It has no image support.
type Command struct{}

// NewCommand returns ErrUnavailable when no helper program is installed.
func NewCommand() (*Command, error) {
	if clipboard.Unsupported {
		return nil, fmt.Errorf("%w: no clipboard helper program found", ErrUnavailable)
	}
	return &Command{}, nil
}

func (c *Command) Name() string { return "command (xclip/xsel/wl-copy/pbcopy)" }

// WriteText implements Sink.
func (c *Command) WriteText(text string) error {
	if err := clipboard.WriteAll(text); err != nil {
		return fmt.Errorf("%w: %w", ErrRejected, err)
	}
	return nil
}

// WriteImage implements Sink; images are always refused.
func (c *Command) WriteImage(_ []byte) error {
	return fmt.Errorf("%w: image", ErrUnsupported)
}

func (c *Command) Close() {}

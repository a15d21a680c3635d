package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"time"

	"clipbridge/internal/client"
	"clipbridge/internal/logging"
	"clipbridge/internal/model"
)

// SendCmd pushes one clip to a bridge, which may run on another machine.
type SendCmd struct {
	URL     string        `default:"${default_url}" env:"CLIPBRIDGE_URL" help:"Clip endpoint of the bridge."`
	Text    string        `short:"t" help:"Text to copy. Without --text or --file, stdin is sent as text."`
	File    string        `short:"f" type:"existingfile" help:"Image file to copy."`
	Raw     bool          `help:"Send --file as a raw image body instead of a multipart upload."`
	Timeout time.Duration `default:"30s" help:"Overall request timeout."`
	Verbose bool          `short:"v" help:"Log request details."`
}

// Run sends the clip and prints the bridge's reply.
func (s *SendCmd) Run() error {
	level := slog.LevelWarn
	if s.Verbose {
		level = slog.LevelDebug
	}
	logger := logging.New(os.Stderr, logging.FormatAuto, level)
	bc := client.NewBridgeClient(s.URL, s.Timeout, logger)

	ctx, cancel := context.WithTimeout(context.Background(), s.Timeout)
	defer cancel()

	var (
		resp *model.Response
		err  error
	)
	switch {
	case s.File != "" && s.Text != "":
		return errors.New("--text and --file are mutually exclusive")
	case s.File != "":
		data, rerr := os.ReadFile(s.File)
		if rerr != nil {
			return fmt.Errorf("read %s: %w", s.File, rerr)
		}
		if s.Raw {
			resp, err = bc.SendImage(ctx, data, "")
		} else {
			resp, err = bc.SendFile(ctx, s.File, data)
		}
	default:
		text := s.Text
		if text == "" {
			b, rerr := io.ReadAll(os.Stdin)
			if rerr != nil {
				return fmt.Errorf("read stdin: %w", rerr)
			}
			text = string(b)
		}
		resp, err = bc.SendText(ctx, text)
	}
	if err != nil {
		return err
	}

	fmt.Println(resp.Message)
	return nil
}

// Package client pushes clips to a running bridge over HTTP.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"mime"
	"mime/multipart"
	"net"
	"net/http"
	"net/textproto"
	"path/filepath"
	"strings"
	"time"

	"clipbridge/internal/model"
)

// DefaultURL is the clip endpoint of a bridge on this machine.
const DefaultURL = "http://localhost:5019/clip"

// maxResponseBytes bounds how much of a reply is read; replies are tiny.
const maxResponseBytes = 64 << 10

// StatusError is returned when the bridge answers with anything but 200.
type StatusError struct {
	Code    int
	Message string
}

func (e *StatusError) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("bridge returned %d %s", e.Code, http.StatusText(e.Code))
	}
	return fmt.Sprintf("bridge returned %d: %s", e.Code, e.Message)
}

// BridgeClient sends text and images to a bridge's /clip endpoint.
type BridgeClient struct {
	url        string
	httpClient *http.Client
	logger     *slog.Logger
}

// NewBridgeClient creates a BridgeClient for url with an overall request
// timeout.
func NewBridgeClient(url string, timeout time.Duration, logger *slog.Logger) *BridgeClient {
	transport := &http.Transport{
		IdleConnTimeout: 30 * time.Second,
		DialContext: (&net.Dialer{
			Timeout:   5 * time.Second,
			KeepAlive: 30 * time.Second,
		}).DialContext,
	}

	return &BridgeClient{
		url: url,
		httpClient: &http.Client{
			Transport: transport,
			Timeout:   timeout,
		},
		logger: logger.With("component", "bridge_client"),
	}
}

// SendText copies text on the remote clipboard.
func (c *BridgeClient) SendText(ctx context.Context, text string) (*model.Response, error) {
	body, err := json.Marshal(map[string]string{"text": text})
	if err != nil {
		return nil, fmt.Errorf("encode text: %w", err)
	}
	return c.post(ctx, "application/json", bytes.NewReader(body))
}

// SendImage posts data as a raw image body. An empty contentType is sniffed
// from the data.
func (c *BridgeClient) SendImage(ctx context.Context, data []byte, contentType string) (*model.Response, error) {
	if contentType == "" {
		contentType = http.DetectContentType(data)
	}
	if !strings.HasPrefix(contentType, "image/") {
		return nil, fmt.Errorf("content type %q is not an image", contentType)
	}
	return c.post(ctx, contentType, bytes.NewReader(data))
}

// SendFile uploads data as a multipart file part named "file", the way a
// browser form or phone shortcut would.
func (c *BridgeClient) SendFile(ctx context.Context, filename string, data []byte) (*model.Response, error) {
	partType := mime.TypeByExtension(strings.ToLower(filepath.Ext(filename)))
	if partType == "" {
		partType = http.DetectContentType(data)
	}

	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)

	h := make(textproto.MIMEHeader)
	h.Set("Content-Disposition", fmt.Sprintf(`form-data; name="file"; filename=%q`, filepath.Base(filename)))
	h.Set("Content-Type", partType)
	part, err := mw.CreatePart(h)
	if err != nil {
		return nil, fmt.Errorf("create part: %w", err)
	}
	if _, err := part.Write(data); err != nil {
		return nil, fmt.Errorf("write part: %w", err)
	}
	if err := mw.Close(); err != nil {
		return nil, fmt.Errorf("close multipart: %w", err)
	}

	return c.post(ctx, mw.FormDataContentType(), &buf)
}

func (c *BridgeClient) post(ctx context.Context, contentType string, body io.Reader) (*model.Response, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.url, body)
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Content-Type", contentType)

	c.logger.Debug("sending clip", "url", c.url, "content_type", contentType, "bytes", req.ContentLength)

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("send clip: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	raw, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes))
	if err != nil {
		return nil, fmt.Errorf("read response: %w", err)
	}

	c.logger.Debug("bridge replied", "status", resp.StatusCode, "duration_ms", time.Since(start).Milliseconds())

	var out model.Response
	decodeErr := json.Unmarshal(raw, &out)

	if resp.StatusCode != http.StatusOK {
		return nil, &StatusError{Code: resp.StatusCode, Message: out.Message}
	}
	if decodeErr != nil {
		return nil, fmt.Errorf("decode response: %w", decodeErr)
	}
	return &out, nil
}

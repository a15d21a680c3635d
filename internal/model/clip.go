// Package model defines shared types for the clipboard bridge.
package model

import (
	"context"
	"net/http"
)

// ClipRequest is a single inbound clipboard push, fully buffered.
type ClipRequest struct {
	Ctx    context.Context
	Method string
	Path   string
	Header http.Header
	Body   []byte
}

// ContentKind tags a Classification.
type ContentKind int

const (
	ContentUnsupported ContentKind = iota
	ContentJSON
	ContentMultipart
	ContentDirectImage
)

func (k ContentKind) String() string {
	switch k {
	case ContentJSON:
		return "json"
	case ContentMultipart:
		return "multipart"
	case ContentDirectImage:
		return "image"
	default:
		return "unsupported"
	}
}

// Classification is the result of inspecting a request's Content-Type once.
// Boundary is set for ContentMultipart (possibly empty when the header lacks
// one), Subtype for ContentDirectImage. Raw always holds the declared type.
type Classification struct {
	Kind     ContentKind
	Boundary string
	Subtype  string
	Raw      string
}

// PayloadKind tags a Payload.
type PayloadKind int

const (
	PayloadText PayloadKind = iota
	PayloadImage
)

func (k PayloadKind) String() string {
	if k == PayloadImage {
		return "image"
	}
	return "text"
}

// Payload is decoded clipboard content ready for dispatch.
type Payload struct {
	Kind  PayloadKind
	Text  string
	Image []byte
	// FormatHint is the declared image subtype ("png", "jpeg", ...), if any.
	FormatHint string
}

// TextPayload returns a text Payload.
func TextPayload(s string) *Payload {
	return &Payload{Kind: PayloadText, Text: s}
}

// ImagePayload returns an image Payload.
func ImagePayload(data []byte, hint string) *Payload {
	return &Payload{Kind: PayloadImage, Image: data, FormatHint: hint}
}

// Outcome describes a successful clipboard write.
type Outcome struct {
	Kind    PayloadKind
	Message string
	// Width and Height are set for images after normalization.
	Width  int
	Height int
}

// Response status values.
const (
	StatusSuccess = "success"
	StatusError   = "error"
)

// Response is the JSON body returned for every request.
type Response struct {
	Status  string `json:"status"`
	Message string `json:"message"`
}

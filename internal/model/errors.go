package model

import "errors"

// ErrorKind classifies a failure; the HTTP layer maps it to a status code.
type ErrorKind int

const (
	KindInternal ErrorKind = iota
	KindBadRequest
	KindUnsupportedMediaType
	KindConversion
	KindClipboard
)

func (k ErrorKind) String() string {
	switch k {
	case KindBadRequest:
		return "bad_request"
	case KindUnsupportedMediaType:
		return "unsupported_media_type"
	case KindConversion:
		return "conversion"
	case KindClipboard:
		return "clipboard"
	default:
		return "internal"
	}
}

// Error is a classified failure. Message is safe to show to the client;
// Err carries the underlying cause for logs.
type Error struct {
	Kind    ErrorKind
	Message string
	Err     error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return e.Message + ": " + e.Err.Error()
	}
	return e.Message
}

func (e *Error) Unwrap() error { return e.Err }

// BadRequest returns a KindBadRequest error.
func BadRequest(msg string, err error) *Error {
	return &Error{Kind: KindBadRequest, Message: msg, Err: err}
}

// UnsupportedMediaType returns a KindUnsupportedMediaType error.
func UnsupportedMediaType(msg string) *Error {
	return &Error{Kind: KindUnsupportedMediaType, Message: msg}
}

// Conversion returns a KindConversion error.
func Conversion(msg string, err error) *Error {
	return &Error{Kind: KindConversion, Message: msg, Err: err}
}

// Clipboard returns a KindClipboard error.
func Clipboard(msg string, err error) *Error {
	return &Error{Kind: KindClipboard, Message: msg, Err: err}
}

// KindOf reports the kind of the first *Error in err's chain, or
// KindInternal if there is none.
func KindOf(err error) ErrorKind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return KindInternal
}

package decode

import (
	"bytes"
	"encoding/base64"
	"errors"
	"fmt"
	"io"
	"mime"
	"mime/multipart"
	"path/filepath"
	"strings"
	"unicode/utf8"

	"clipbridge/internal/model"
)

// imageExtensions are filename extensions treated as images regardless of
// the part's declared type.
var imageExtensions = map[string]bool{
	"jpg":  true,
	"jpeg": true,
	"png":  true,
	"gif":  true,
	"bmp":  true,
	"heic": true,
}

// decodeMultipart walks the form parts. The first image part wins outright,
// even when a text part came earlier; otherwise the first text part is used.
func decodeMultipart(boundary string, body []byte) (*model.Payload, error) {
	if boundary == "" {
		return nil, model.BadRequest("Invalid multipart data - no boundary", nil)
	}

	r := multipart.NewReader(bytes.NewReader(body), boundary)
	var text *model.Payload

	for {
		part, err := r.NextPart()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, model.BadRequest("Malformed multipart body", err)
		}

		p, err := decodePart(part, text == nil)
		_ = part.Close()
		if err != nil {
			return nil, err
		}
		if p == nil {
			continue
		}
		if p.Kind == model.PayloadImage {
			return p, nil
		}
		text = p
	}

	if text != nil {
		return text, nil
	}
	return nil, model.BadRequest("No valid file or text found in upload", nil)
}

// decodePart returns an image payload, a text payload (only when wantText),
// or nil for a part that does not qualify.
func decodePart(part *multipart.Part, wantText bool) (*model.Payload, error) {
	if !isFormData(part) {
		return nil, nil
	}

	contentType := strings.ToLower(part.Header.Get("Content-Type"))
	if contentType == "" {
		contentType = "text/plain"
	}
	ext := strings.ToLower(strings.TrimPrefix(filepath.Ext(part.FileName()), "."))

	isImage := strings.HasPrefix(contentType, "image/") || imageExtensions[ext]
	isText := strings.HasPrefix(contentType, "text/") || part.FormName() == "text"
	if !isImage && !(wantText && isText) {
		return nil, nil
	}

	data, err := readPart(part)
	if err != nil {
		return nil, model.BadRequest("Malformed multipart body", err)
	}

	if isImage {
		hint := ext
		if strings.HasPrefix(contentType, "image/") {
			hint = imageSubtype(contentType)
		}
		return model.ImagePayload(data, hint), nil
	}
	if !utf8.Valid(data) {
		return nil, model.BadRequest(fmt.Sprintf("Text field %q is not valid UTF-8", part.FormName()), nil)
	}
	return model.TextPayload(string(data)), nil
}

func isFormData(part *multipart.Part) bool {
	disposition, _, err := mime.ParseMediaType(part.Header.Get("Content-Disposition"))
	return err == nil && disposition == "form-data"
}

// readPart reads a part's content, undoing a base64 transfer encoding.
// Quoted-printable is already handled by multipart.Reader.
func readPart(part *multipart.Part) ([]byte, error) {
	var r io.Reader = part
	if strings.EqualFold(strings.TrimSpace(part.Header.Get("Content-Transfer-Encoding")), "base64") {
		r = base64.NewDecoder(base64.StdEncoding, part)
	}
	return io.ReadAll(r)
}

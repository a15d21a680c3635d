package decode

import (
	"encoding/base64"
	"fmt"
	"net/http"
	"strings"

	"clipbridge/internal/model"
)

// Decode classifies the request by its Content-Type header and extracts the
// clipboard payload. Errors are *model.Error with KindBadRequest or
// KindUnsupportedMediaType.
func Decode(header http.Header, body []byte) (*model.Payload, error) {
	c := Classify(header.Get("Content-Type"))

	switch c.Kind {
	case model.ContentJSON:
		return decodeJSON(body)
	case model.ContentMultipart:
		return decodeMultipart(c.Boundary, body)
	case model.ContentDirectImage:
		return decodeDirectImage(c.Subtype, body)
	default:
		return nil, model.UnsupportedMediaType(fmt.Sprintf("Unsupported content type: %q", c.Raw))
	}
}

func decodeDirectImage(subtype string, body []byte) (*model.Payload, error) {
	if len(body) == 0 {
		return nil, model.BadRequest("Empty image body", nil)
	}
	return model.ImagePayload(body, subtype), nil
}

// decodeBase64Image accepts either a bare base64 string or a data URL
// ("data:image/png;base64,...") and returns the bytes and format hint.
func decodeBase64Image(s string) ([]byte, string, error) {
	hint := ""
	if strings.HasPrefix(s, "data:image") {
		comma := strings.IndexByte(s, ',')
		if comma < 0 {
			return nil, "", fmt.Errorf("data URL has no payload")
		}
		hint = dataURLSubtype(s[:comma])
		s = s[comma+1:]
	}

	s = strings.Map(func(r rune) rune {
		switch r {
		case ' ', '\t', '\r', '\n':
			return -1
		}
		return r
	}, s)

	data, err := base64.StdEncoding.DecodeString(s)
	if err != nil {
		raw, rawErr := base64.RawStdEncoding.DecodeString(strings.TrimRight(s, "="))
		if rawErr != nil {
			return nil, "", fmt.Errorf("invalid base64: %w", err)
		}
		data = raw
	}
	if len(data) == 0 {
		return nil, "", fmt.Errorf("empty image data")
	}
	return data, hint, nil
}

// dataURLSubtype returns "png" for a header like "data:image/png;base64".
func dataURLSubtype(header string) string {
	v := strings.TrimPrefix(header, "data:image/")
	if v == header {
		return ""
	}
	if i := strings.IndexByte(v, ';'); i >= 0 {
		v = v[:i]
	}
	return strings.ToLower(v)
}

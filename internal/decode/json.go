package decode

import (
	"encoding/json"
	"errors"
	"unicode/utf8"

	"clipbridge/internal/model"
)

// decodeJSON expects an object with exactly one of "text" or "image", both
// strings. "image" is base64 or a data:image URL.
func decodeJSON(body []byte) (*model.Payload, error) {
	if !utf8.Valid(body) {
		return nil, model.BadRequest("Invalid JSON: body is not valid UTF-8", nil)
	}

	var fields map[string]json.RawMessage
	if err := json.Unmarshal(body, &fields); err != nil {
		return nil, model.BadRequest("Invalid JSON", err)
	}
	if fields == nil {
		return nil, model.BadRequest("Invalid JSON: expected an object", nil)
	}

	textRaw, hasText := fields["text"]
	imageRaw, hasImage := fields["image"]

	switch {
	case hasText && hasImage:
		return nil, model.BadRequest("Ambiguous request: send either 'text' or 'image', not both", nil)
	case hasText:
		text, err := stringField(textRaw)
		if err != nil {
			return nil, model.BadRequest("'text' must be a string", err)
		}
		return model.TextPayload(text), nil
	case hasImage:
		encoded, err := stringField(imageRaw)
		if err != nil {
			return nil, model.BadRequest("'image' must be a string", err)
		}
		data, hint, err := decodeBase64Image(encoded)
		if err != nil {
			return nil, model.BadRequest("Invalid image data", err)
		}
		return model.ImagePayload(data, hint), nil
	default:
		return nil, model.BadRequest("Missing 'text' or 'image' field", nil)
	}
}

// stringField decodes a JSON string. null is rejected: encoding/json would
// otherwise leave the target at its zero value.
func stringField(raw json.RawMessage) (string, error) {
	var s *string
	if err := json.Unmarshal(raw, &s); err != nil {
		return "", err
	}
	if s == nil {
		return "", errors.New("got null")
	}
	return *s, nil
}

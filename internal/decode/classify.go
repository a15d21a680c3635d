// Package decode turns a raw clip request into a clipboard payload.
//
// Classification happens once per request; each classification variant has
// a dedicated decode function. Nothing in this package has side effects.
package decode

import (
	"strings"

	"clipbridge/internal/model"
)

// Classify inspects a Content-Type header value. Matching is a
// case-insensitive substring test, in the order JSON, multipart, image.
func Classify(contentType string) model.Classification {
	lower := strings.ToLower(contentType)
	c := model.Classification{Raw: contentType}

	switch {
	case strings.Contains(lower, "application/json"):
		c.Kind = model.ContentJSON
	case strings.Contains(lower, "multipart/form-data"):
		c.Kind = model.ContentMultipart
		c.Boundary = boundaryParam(contentType)
	case strings.Contains(lower, "image/"):
		c.Kind = model.ContentDirectImage
		c.Subtype = imageSubtype(lower)
	default:
		c.Kind = model.ContentUnsupported
	}
	return c
}

// boundaryParam extracts the boundary parameter with its original case.
func boundaryParam(contentType string) string {
	const key = "boundary="
	idx := indexFold(contentType, key)
	if idx < 0 {
		return ""
	}
	v := contentType[idx+len(key):]
	if i := strings.IndexByte(v, ';'); i >= 0 {
		v = v[:i]
	}
	v = strings.TrimSpace(v)
	if len(v) >= 2 && v[0] == '"' && v[len(v)-1] == '"' {
		v = v[1 : len(v)-1]
	}
	return v
}

// imageSubtype returns the token after "image/" in an already-lowered type.
func imageSubtype(lower string) string {
	idx := strings.Index(lower, "image/")
	v := lower[idx+len("image/"):]
	if i := strings.IndexAny(v, "; \t,"); i >= 0 {
		v = v[:i]
	}
	return v
}

// indexFold is strings.Index with ASCII case folding.
func indexFold(s, substr string) int {
	for i := 0; i+len(substr) <= len(s); i++ {
		if strings.EqualFold(s[i:i+len(substr)], substr) {
			return i
		}
	}
	return -1
}

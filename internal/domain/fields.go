package domain

import (
	"fmt"

	"github.com/google/uuid"
)

// Fields is a flat record of incoming entity data, produced by the payload
// normalization step from either a JSON body or a multipart form. Repositories
// whitelist the keys they understand; unknown keys are ignored.
type Fields map[string]any

// String returns the value under key coerced to a string.
// The second result is false when the key is absent or not a string.
func (f Fields) String(key string) (string, bool) {
	v, ok := f[key]
	if !ok {
		return "", false
	}
	s, ok := v.(string)
	return s, ok
}

// Strings returns the value under key as a string slice. JSON decoding
// produces []any, multipart normalization produces []string; both are
// accepted.
func (f Fields) Strings(key string) ([]string, bool) {
	v, ok := f[key]
	if !ok {
		return nil, false
	}
	switch vv := v.(type) {
	case []string:
		return vv, true
	case []any:
		out := make([]string, 0, len(vv))
		for _, e := range vv {
			s, ok := e.(string)
			if !ok {
				return nil, false
			}
			out = append(out, s)
		}
		return out, true
	}
	return nil, false
}

// UUID parses the value under key as a UUID.
func (f Fields) UUID(key string) (uuid.UUID, error) {
	s, ok := f.String(key)
	if !ok {
		return uuid.Nil, fmt.Errorf("%w: field %q is required", ErrValidation, key)
	}
	id, err := uuid.Parse(s)
	if err != nil {
		return uuid.Nil, fmt.Errorf("%w: field %q: %v", ErrValidation, key, err)
	}
	return id, nil
}

// Float returns the value under key coerced to float64. String values are
// accepted because multipart form fields arrive as text.
func (f Fields) Float(key string) (float64, bool) {
	v, ok := f[key]
	if !ok {
		return 0, false
	}
	switch vv := v.(type) {
	case float64:
		return vv, true
	case int:
		return float64(vv), true
	case string:
		var out float64
		if _, err := fmt.Sscanf(vv, "%g", &out); err != nil {
			return 0, false
		}
		return out, true
	}
	return 0, false
}

// Has reports whether key is present.
func (f Fields) Has(key string) bool {
	_, ok := f[key]
	return ok
}

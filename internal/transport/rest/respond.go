package rest

import (
	"encoding/json"
	"net/http"
)

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v) //nolint:errcheck
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, map[string]string{"error": message})
}

func writeMessage(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, map[string]string{"message": message})
}

// writeProjected serializes v with a Mongo-style projection applied. Values
// of 1 switch to include mode (named fields plus "id"), values of 0 drop the
// named fields. An empty projection is a plain writeJSON.
func writeProjected(w http.ResponseWriter, status int, v any, projection map[string]int) {
	if len(projection) == 0 {
		writeJSON(w, status, v)
		return
	}

	raw, err := json.Marshal(v)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "internal server error")
		return
	}

	var decoded any
	if err := json.Unmarshal(raw, &decoded); err != nil {
		writeError(w, http.StatusInternalServerError, "internal server error")
		return
	}

	switch d := decoded.(type) {
	case []any:
		out := make([]any, 0, len(d))
		for _, e := range d {
			if doc, ok := e.(map[string]any); ok {
				out = append(out, projectDoc(doc, projection))
			} else {
				out = append(out, e)
			}
		}
		writeJSON(w, status, out)
	case map[string]any:
		writeJSON(w, status, projectDoc(d, projection))
	default:
		writeJSON(w, status, decoded)
	}
}

func projectDoc(doc map[string]any, projection map[string]int) map[string]any {
	include := false
	for _, v := range projection {
		if v == 1 {
			include = true
			break
		}
	}

	out := make(map[string]any)
	if include {
		for field, v := range projection {
			if v != 1 {
				continue
			}
			if val, ok := doc[field]; ok {
				out[field] = val
			}
		}
		// The identifier rides along unless explicitly excluded.
		if v, ok := projection["id"]; !ok || v != 0 {
			if id, ok := doc["id"]; ok {
				out["id"] = id
			}
		}
		return out
	}

	for field, val := range doc {
		if _, excluded := projection[field]; excluded {
			continue
		}
		out[field] = val
	}
	return out
}

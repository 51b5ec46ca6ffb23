package httpapi

import (
	"encoding/json"
	"net/http"

	"github.com/awsaruna451/onetoolsbox-be/internal/extractor"
)

func writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(data)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]any{
		"error": msg,
	})
}

// writeExtractionError maps failure kinds onto HTTP statuses and keeps
// the kind visible in the body so clients can branch on it.
func writeExtractionError(w http.ResponseWriter, err error) {
	kind := extractor.KindOf(err)

	status := http.StatusInternalServerError
	switch kind {
	case extractor.KindDurationExceeded:
		status = http.StatusBadRequest
	case extractor.KindNoCaptions:
		status = http.StatusNotFound
	case extractor.KindUnsupportedFormat:
		status = http.StatusUnsupportedMediaType
	case extractor.KindMetadata, extractor.KindNetwork, extractor.KindParse:
		status = http.StatusBadGateway
	}

	writeJSON(w, status, map[string]any{
		"error": err.Error(),
		"kind":  kind.String(),
	})
}

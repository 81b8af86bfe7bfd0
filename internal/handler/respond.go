package handler

import (
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/dukerupert/shoplist/internal/apperr"
)

const maxBodyBytes = 1 << 20

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

// writeError maps err onto its HTTP status. Errors without a kind are
// logged and reported as a bare 500.
func writeError(w http.ResponseWriter, logger *slog.Logger, err error) {
	kind := apperr.KindOf(err)
	if kind == "" {
		logger.Error("unhandled error", "error", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "internal error", "code": "internal"})
		return
	}
	if kind == apperr.KindUnavailable {
		logger.Error("dependency unavailable", "error", err)
	}
	writeJSON(w, kind.Status(), map[string]string{"error": apperr.Message(err), "code": string(kind)})
}

// decodeJSON reads a JSON body into v. An empty body leaves v untouched.
func decodeJSON(w http.ResponseWriter, r *http.Request, v any) error {
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	if err := dec.Decode(v); err != nil {
		if errors.Is(err, io.EOF) {
			return nil
		}
		return apperr.Validation("invalid JSON: %v", err)
	}
	return nil
}

func parseIDParam(r *http.Request, name string) (int64, error) {
	id, err := strconv.ParseInt(r.PathValue(name), 10, 64)
	if err != nil || id <= 0 {
		return 0, apperr.Validation("invalid %s", name)
	}
	return id, nil
}

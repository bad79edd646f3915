package rest

import (
	"encoding/json"
	"errors"
	"log"
	"net/http"

	apperrors "github.com/candlewick-games/candlewick/internal/platform/errors"
)

type errorBody struct {
	Code     string            `json:"code"`
	Message  string            `json:"message"`
	Metadata map[string]string `json:"metadata,omitempty"`
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if payload == nil {
		return
	}
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		log.Printf("[API] encode response: %v", err)
	}
}

// writeError maps a domain error to its HTTP status via the error code. Plain
// errors become opaque 500s so internals never leak to clients.
func writeError(w http.ResponseWriter, err error) {
	var appErr *apperrors.Error
	if errors.As(err, &appErr) {
		writeJSON(w, appErr.Code.HTTPStatus(), errorBody{
			Code:     string(appErr.Code),
			Message:  appErr.Message,
			Metadata: appErr.Metadata,
		})
		return
	}
	log.Printf("[API] internal error: %v", err)
	writeJSON(w, http.StatusInternalServerError, errorBody{
		Code:    string(apperrors.CodeUnknown),
		Message: "internal error",
	})
}

func decodeBody(w http.ResponseWriter, r *http.Request, dst any) bool {
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		writeJSON(w, http.StatusBadRequest, errorBody{
			Code:    "INVALID_BODY",
			Message: "request body is not valid JSON",
		})
		return false
	}
	return true
}

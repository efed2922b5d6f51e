package httpx

import (
	"encoding/json"
	"net/http"

	"github.com/google/uuid"

	"github.com/Ramjayanth123/contracts-4-sub001/pkg/domain"
)

func NewRequestID() string { return "req_" + uuid.NewString() }

func WriteJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("content-type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func ReadJSON(r *http.Request, dst any) error {
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	return dec.Decode(dst)
}

func WriteError(w http.ResponseWriter, status int, code, message string, details any) {
	resp := map[string]any{
		"request_id": NewRequestID(),
		"error": map[string]any{
			"code": code, "message": message, "details": details,
		},
	}
	WriteJSON(w, status, resp)
}

// WriteFailure renders a tagged workflow failure with its HTTP status.
// Errors without a failure kind are reported as PERSISTENCE_UNAVAILABLE.
func WriteFailure(w http.ResponseWriter, err error) {
	f, ok := domain.AsFailure(err)
	if !ok {
		f = domain.Failf(domain.FailurePersistenceUnavailable, "%v", err)
	}
	WriteError(w, StatusOf(f.Kind), string(f.Kind), f.Reason, nil)
}

func StatusOf(kind domain.FailureKind) int {
	switch kind {
	case domain.FailureNotFound:
		return http.StatusNotFound
	case domain.FailureUnauthorized:
		return http.StatusForbidden
	case domain.FailureInvalidArgument:
		return http.StatusBadRequest
	case domain.FailureInvalidTransition, domain.FailureConflict:
		return http.StatusConflict
	case domain.FailurePersistenceUnavailable:
		return http.StatusServiceUnavailable
	}
	return http.StatusInternalServerError
}

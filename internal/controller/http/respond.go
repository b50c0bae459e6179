package http

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/bethmed/clinic-api/internal/service"
	"go.uber.org/zap"
)

type errorBody struct {
	Error     string `json:"error"`
	MessageEN string `json:"message_en,omitempty"`
	MessageAR string `json:"message_ar,omitempty"`
}

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if body != nil {
		json.NewEncoder(w).Encode(body)
	}
}

// writeError maps service errors to HTTP statuses. Duplicate bookings get
// the localized patient-facing messages; everything unexpected is a 500
// with a generic body.
func writeError(w http.ResponseWriter, logger *zap.Logger, err error) {
	var duplicate *service.DuplicateBookingError
	if errors.As(err, &duplicate) {
		writeJSON(w, http.StatusConflict, errorBody{
			Error:     "duplicate_booking",
			MessageEN: duplicate.MessageEN(),
			MessageAR: duplicate.MessageAR(),
		})
		return
	}

	var conflict *service.SlotConflictError
	if errors.As(err, &conflict) {
		writeJSON(w, http.StatusConflict, errorBody{
			Error:     "slot_conflict",
			MessageEN: "This time slot is already booked. Please choose a different time.",
		})
		return
	}

	switch {
	case errors.Is(err, service.ErrUnauthenticated):
		writeJSON(w, http.StatusUnauthorized, errorBody{Error: "authentication_required"})
	case errors.Is(err, service.ErrBookingNotFound):
		writeJSON(w, http.StatusNotFound, errorBody{Error: "not_found"})
	case errors.Is(err, service.ErrValidation):
		writeJSON(w, http.StatusBadRequest, errorBody{Error: "invalid_request", MessageEN: err.Error()})
	default:
		logger.Error("Request failed", zap.Error(err))
		writeJSON(w, http.StatusInternalServerError, errorBody{Error: "internal_error"})
	}
}

func decodeJSON(r *http.Request, dst any) error {
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	return dec.Decode(dst)
}

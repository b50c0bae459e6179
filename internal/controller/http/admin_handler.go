package http

import (
	"net/http"
	"time"

	"github.com/bethmed/clinic-api/internal/model"
	"github.com/bethmed/clinic-api/internal/render"
	"github.com/bethmed/clinic-api/internal/service"
	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"
)

type AdminHandler struct {
	appointments *service.AppointmentService
	validate     *validator.Validate
	logger       *zap.Logger
}

func NewAdminHandler(appointments *service.AppointmentService, logger *zap.Logger) *AdminHandler {
	return &AdminHandler{
		appointments: appointments,
		validate:     validator.New(),
		logger:       logger,
	}
}

type createAppointmentRequest struct {
	ClinicID  string `json:"clinic_id" validate:"required"`
	DoctorID  string `json:"doctor_id" validate:"required"`
	PatientID string `json:"patient_id" validate:"required"`
	Weekday   string `json:"weekday" validate:"required"`
	TimeRange string `json:"time_range" validate:"required"`
	Notes     string `json:"notes"`
}

type updateAppointmentRequest struct {
	Status        *string  `json:"status" validate:"omitempty,oneof=scheduled completed cancelled"`
	PaymentStatus *string  `json:"payment_status" validate:"omitempty,oneof=pending paid refunded"`
	Price         *float64 `json:"price" validate:"omitempty,gte=0"`
	Notes         *string  `json:"notes"`
}

// CreateAppointment books a slot from the admin console.
func (h *AdminHandler) CreateAppointment(w http.ResponseWriter, r *http.Request) {
	var req createAppointmentRequest
	if err := decodeJSON(r, &req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorBody{Error: "invalid_request", MessageEN: "malformed JSON body"})
		return
	}
	if err := h.validate.Struct(req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorBody{Error: "invalid_request", MessageEN: err.Error()})
		return
	}

	apt, err := h.appointments.Create(r.Context(), IdentityFromContext(r.Context()), service.AppointmentInput{
		ClinicID:  req.ClinicID,
		DoctorID:  req.DoctorID,
		PatientID: req.PatientID,
		Weekday:   req.Weekday,
		TimeRange: req.TimeRange,
		Notes:     req.Notes,
	})
	if err != nil {
		writeError(w, h.logger, err)
		return
	}
	writeJSON(w, http.StatusCreated, apt)
}

// ListAppointments returns all appointments, or one clinic's day when the
// clinic_id and date query parameters are both present.
func (h *AdminHandler) ListAppointments(w http.ResponseWriter, r *http.Request) {
	clinicID := r.URL.Query().Get("clinic_id")
	date := r.URL.Query().Get("date")

	var (
		appointments []*model.Appointment
		err          error
	)
	if clinicID != "" && date != "" {
		appointments, err = h.appointments.ListByClinicDate(r.Context(), clinicID, date)
	} else {
		appointments, err = h.appointments.List(r.Context())
	}
	if err != nil {
		writeError(w, h.logger, err)
		return
	}
	if appointments == nil {
		appointments = []*model.Appointment{}
	}
	writeJSON(w, http.StatusOK, appointments)
}

// UpdateAppointment applies a partial update.
func (h *AdminHandler) UpdateAppointment(w http.ResponseWriter, r *http.Request) {
	var req updateAppointmentRequest
	if err := decodeJSON(r, &req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorBody{Error: "invalid_request", MessageEN: "malformed JSON body"})
		return
	}
	if err := h.validate.Struct(req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorBody{Error: "invalid_request", MessageEN: err.Error()})
		return
	}

	patch := service.AppointmentPatch{Price: req.Price, Notes: req.Notes}
	if req.Status != nil {
		status := model.AppointmentStatus(*req.Status)
		patch.Status = &status
	}
	if req.PaymentStatus != nil {
		paymentStatus := model.PaymentStatus(*req.PaymentStatus)
		patch.PaymentStatus = &paymentStatus
	}

	apt, err := h.appointments.Update(r.Context(), IdentityFromContext(r.Context()), chi.URLParam(r, "id"), patch)
	if err != nil {
		writeError(w, h.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, apt)
}

// DeleteAppointment removes an appointment.
func (h *AdminHandler) DeleteAppointment(w http.ResponseWriter, r *http.Request) {
	err := h.appointments.Delete(r.Context(), IdentityFromContext(r.Context()), chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, h.logger, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// WeekSchedulePNG renders a clinic week as an image. The week defaults to
// the current one; a date query parameter selects the week containing it.
func (h *AdminHandler) WeekSchedulePNG(w http.ResponseWriter, r *http.Request) {
	clinicID := chi.URLParam(r, "id")

	ref := time.Now()
	if raw := r.URL.Query().Get("date"); raw != "" {
		parsed, err := time.Parse("2006-01-02", raw)
		if err != nil {
			writeJSON(w, http.StatusBadRequest, errorBody{Error: "invalid_request", MessageEN: "date must be yyyy-MM-dd"})
			return
		}
		ref = parsed
	}

	appointments, slots, err := h.appointments.WeekSchedule(r.Context(), clinicID, ref)
	if err != nil {
		writeError(w, h.logger, err)
		return
	}

	png, err := render.WeekImage(ref, appointments, slots)
	if err != nil {
		writeError(w, h.logger, err)
		return
	}

	w.Header().Set("Content-Type", "image/png")
	w.WriteHeader(http.StatusOK)
	w.Write(png)
}

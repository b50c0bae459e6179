package http

import (
	"net/http"

	"github.com/bethmed/clinic-api/internal/service"
	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"
)

type BookingHandler struct {
	bookings *service.BookingService
	payments *service.PaymentService
	validate *validator.Validate
	logger   *zap.Logger
}

func NewBookingHandler(bookings *service.BookingService, payments *service.PaymentService, logger *zap.Logger) *BookingHandler {
	return &BookingHandler{
		bookings: bookings,
		payments: payments,
		validate: validator.New(),
		logger:   logger,
	}
}

type createBookingRequest struct {
	ClinicName    string  `json:"clinic_name" validate:"required"`
	DoctorName    string  `json:"doctor_name" validate:"required"`
	Specialty     string  `json:"specialty"`
	DayDescriptor string  `json:"day" validate:"required"`
	TimeSlot      string  `json:"time" validate:"required"`
	Price         float64 `json:"price" validate:"gte=0"`
	Currency      string  `json:"currency"`
}

type bookingResponse struct {
	ID                 string  `json:"id"`
	ConfirmationNumber string  `json:"confirmation_number"`
	ClinicName         string  `json:"clinic_name"`
	DoctorName         string  `json:"doctor_name"`
	Date               string  `json:"date"`
	Time               string  `json:"time"`
	Price              float64 `json:"price"`
	Currency           string  `json:"currency"`
	PaymentStatus      string  `json:"payment_status"`
	BookingStatus      string  `json:"booking_status"`
}

// Create starts the booking workflow for the authenticated patient.
func (h *BookingHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req createBookingRequest
	if err := decodeJSON(r, &req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorBody{Error: "invalid_request", MessageEN: "malformed JSON body"})
		return
	}
	if err := h.validate.Struct(req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorBody{Error: "invalid_request", MessageEN: err.Error()})
		return
	}

	result, err := h.bookings.Initialize(r.Context(), IdentityFromContext(r.Context()), service.BookingInput{
		ClinicName:    req.ClinicName,
		DoctorName:    req.DoctorName,
		Specialty:     req.Specialty,
		DayDescriptor: req.DayDescriptor,
		TimeSlot:      req.TimeSlot,
		Price:         req.Price,
		Currency:      req.Currency,
	})
	if err != nil {
		writeError(w, h.logger, err)
		return
	}

	writeJSON(w, http.StatusCreated, toBookingResponse(result))
}

// List returns the caller's active bookings.
func (h *BookingHandler) List(w http.ResponseWriter, r *http.Request) {
	bookings, err := h.bookings.ListForPatient(r.Context(), IdentityFromContext(r.Context()))
	if err != nil {
		writeError(w, h.logger, err)
		return
	}

	out := make([]bookingResponse, 0, len(bookings))
	for _, b := range bookings {
		out = append(out, bookingResponse{
			ID:                 b.ID,
			ConfirmationNumber: b.ConfirmationNumber(),
			ClinicName:         b.ClinicName,
			DoctorName:         b.DoctorName,
			Date:               b.AppointmentDay,
			Time:               b.AppointmentTime,
			Price:              b.Price,
			Currency:           b.Currency,
			PaymentStatus:      string(b.PaymentStatus),
			BookingStatus:      string(b.BookingStatus),
		})
	}
	writeJSON(w, http.StatusOK, out)
}

// Cancel soft-deletes the caller's own booking.
func (h *BookingHandler) Cancel(w http.ResponseWriter, r *http.Request) {
	err := h.bookings.Cancel(r.Context(), IdentityFromContext(r.Context()), chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, h.logger, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// RegisterCashPayment records a cash payment for a booking.
func (h *BookingHandler) RegisterCashPayment(w http.ResponseWriter, r *http.Request) {
	receipt, err := h.payments.RegisterCash(r.Context(), IdentityFromContext(r.Context()), chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, h.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, receipt)
}

func toBookingResponse(result *service.BookingResult) bookingResponse {
	b := result.Booking
	return bookingResponse{
		ID:                 b.ID,
		ConfirmationNumber: result.ConfirmationNumber,
		ClinicName:         b.ClinicName,
		DoctorName:         b.DoctorName,
		Date:               result.ResolvedDate,
		Time:               b.AppointmentTime,
		Price:              b.Price,
		Currency:           b.Currency,
		PaymentStatus:      string(b.PaymentStatus),
		BookingStatus:      string(b.BookingStatus),
	}
}

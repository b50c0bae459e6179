package service

import (
	"context"
	"errors"
	"testing"

	"github.com/bethmed/clinic-api/internal/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func seedBooking(store *fakeBookingStore) *model.Booking {
	b := &model.Booking{
		ID:              "11111111-2222-3333-4444-555566667777",
		PatientID:       patient.UserID,
		PatientEmail:    patient.Email,
		ClinicName:      "Main Clinic",
		DoctorName:      "Dr. Smith",
		AppointmentDay:  "2026-08-31",
		AppointmentTime: "10:00",
		Price:           150,
		Currency:        "ILS",
		PaymentStatus:   model.PaymentStatusPending,
		BookingStatus:   model.BookingStatusScheduled,
	}
	store.rows[b.ID] = b
	return b
}

func newPaymentService(bookings *fakeBookingStore, payments *fakePaymentStore, activity *fakeActivityStore) *PaymentService {
	logger := zap.NewNop()
	return NewPaymentService(bookings, payments, NewActivityService(activity, logger), logger)
}

func TestRegisterCash_HappyPath(t *testing.T) {
	bookings := newFakeBookingStore()
	payments := &fakePaymentStore{}
	activity := &fakeActivityStore{}
	booking := seedBooking(bookings)
	svc := newPaymentService(bookings, payments, activity)

	receipt, err := svc.RegisterCash(context.Background(), patient, booking.ID)
	require.NoError(t, err)

	assert.Equal(t, "#66667777", receipt.ConfirmationNumber)
	assert.Equal(t, model.PaymentStatusPending, receipt.PaymentStatus)
	require.Len(t, payments.transactions, 1)
	assert.Equal(t, booking.ID, payments.transactions[0].PaymentBookingID)
	assert.Equal(t, model.PaymentMethodCash, payments.transactions[0].PaymentMethod)
	assert.Len(t, payments.logs, 1)
	assert.Equal(t, []model.PaymentStatus{model.PaymentStatusPending}, bookings.statusUpdates)

	require.Len(t, activity.notifications, 1)
	assert.Equal(t, patient.Email, activity.notifications[0].UserEmail)
}

func TestRegisterCash_IsIdempotent(t *testing.T) {
	bookings := newFakeBookingStore()
	payments := &fakePaymentStore{}
	booking := seedBooking(bookings)
	svc := newPaymentService(bookings, payments, &fakeActivityStore{})

	_, err := svc.RegisterCash(context.Background(), patient, booking.ID)
	require.NoError(t, err)
	receipt, err := svc.RegisterCash(context.Background(), patient, booking.ID)
	require.NoError(t, err)

	// Status converges, it does not accumulate; each call logs exactly once.
	assert.Equal(t, model.PaymentStatusPending, receipt.PaymentStatus)
	assert.Equal(t, model.PaymentStatusPending, bookings.rows[booking.ID].PaymentStatus)
	assert.Len(t, payments.logs, 2)
	assert.Len(t, payments.transactions, 2)
}

func TestRegisterCash_MissingBooking(t *testing.T) {
	svc := newPaymentService(newFakeBookingStore(), &fakePaymentStore{}, &fakeActivityStore{})

	_, err := svc.RegisterCash(context.Background(), patient, "no-such-id")
	assert.ErrorIs(t, err, ErrBookingNotFound)

	_, err = svc.RegisterCash(context.Background(), patient, "")
	assert.ErrorIs(t, err, ErrValidation)
}

func TestRegisterCash_TransactionFailurePropagates(t *testing.T) {
	bookings := newFakeBookingStore()
	payments := &fakePaymentStore{txErr: errors.New("connection reset")}
	booking := seedBooking(bookings)
	svc := newPaymentService(bookings, payments, &fakeActivityStore{})

	_, err := svc.RegisterCash(context.Background(), patient, booking.ID)
	require.Error(t, err)
	assert.Empty(t, bookings.statusUpdates, "booking must stay in its prior state")
}

func TestRegisterCash_StatusUpdateFailurePropagates(t *testing.T) {
	bookings := newFakeBookingStore()
	bookings.updateErr = errors.New("connection reset")
	booking := seedBooking(bookings)
	svc := newPaymentService(bookings, &fakePaymentStore{}, &fakeActivityStore{})

	_, err := svc.RegisterCash(context.Background(), patient, booking.ID)
	require.Error(t, err)
}

func TestRegisterCash_LogFailureDoesNotAbort(t *testing.T) {
	bookings := newFakeBookingStore()
	payments := &fakePaymentStore{logErr: errors.New("log table gone")}
	booking := seedBooking(bookings)
	svc := newPaymentService(bookings, payments, &fakeActivityStore{})

	receipt, err := svc.RegisterCash(context.Background(), patient, booking.ID)
	require.NoError(t, err, "payment log is best-effort")
	assert.Equal(t, model.PaymentStatusPending, receipt.PaymentStatus)
}

func TestRegisterCash_AuditFailureDoesNotAbort(t *testing.T) {
	bookings := newFakeBookingStore()
	activity := &fakeActivityStore{appendErr: errors.New("activity log down")}
	booking := seedBooking(bookings)
	svc := newPaymentService(bookings, &fakePaymentStore{}, activity)

	_, err := svc.RegisterCash(context.Background(), patient, booking.ID)
	assert.NoError(t, err)
}

func TestMarkPaid(t *testing.T) {
	bookings := newFakeBookingStore()
	booking := seedBooking(bookings)
	svc := newPaymentService(bookings, &fakePaymentStore{}, &fakeActivityStore{})

	secretary := Identity{UserID: "sec-1", Email: "desk@clinic.example"}
	err := svc.MarkPaid(context.Background(), secretary, booking.ID)
	require.NoError(t, err)
	assert.Equal(t, model.PaymentStatusPaid, bookings.rows[booking.ID].PaymentStatus)
}

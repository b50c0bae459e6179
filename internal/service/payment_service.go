package service

import (
	"context"
	"fmt"

	"github.com/bethmed/clinic-api/internal/model"
	"go.uber.org/zap"
)

// CashReceipt is returned after a cash payment is registered. Cash is
// collected at the clinic, so the booking stays in pending payment status;
// registration only locks the appointment in.
type CashReceipt struct {
	BookingID          string              `json:"booking_id"`
	ConfirmationNumber string              `json:"confirmation_number"`
	PaymentStatus      model.PaymentStatus `json:"payment_status"`
}

type PaymentService struct {
	bookings BookingStore
	payments PaymentStore
	activity *ActivityService
	logger   *zap.Logger
}

func NewPaymentService(bookings BookingStore, payments PaymentStore, activity *ActivityService, logger *zap.Logger) *PaymentService {
	return &PaymentService{
		bookings: bookings,
		payments: payments,
		activity: activity,
		logger:   logger,
	}
}

// RegisterCash records a cash payment attempt for an existing booking and
// sets its payment status to pending. Idempotent per booking id: the status
// update is an overwrite, and each call appends exactly one log entry.
func (s *PaymentService) RegisterCash(ctx context.Context, identity Identity, bookingID string) (*CashReceipt, error) {
	if identity.UserID == "" {
		return nil, ErrUnauthenticated
	}
	if bookingID == "" {
		return nil, fmt.Errorf("%w: missing booking id", ErrValidation)
	}

	booking, err := s.bookings.GetByID(ctx, bookingID)
	if err != nil {
		return nil, fmt.Errorf("get booking: %w", err)
	}
	if booking == nil {
		return nil, ErrBookingNotFound
	}

	tx := &model.PaymentTransaction{
		PaymentBookingID: booking.ID,
		PaymentMethod:    model.PaymentMethodCash,
		Amount:           booking.Price,
		Currency:         booking.Currency,
		Status:           model.TransactionStatusPending,
	}
	err = s.payments.CreateTransaction(ctx, tx)
	if err != nil {
		s.appendLog(ctx, booking, "failed", err.Error())
		return nil, fmt.Errorf("record cash payment: %w", err)
	}

	s.appendLog(ctx, booking, "pending", "")

	err = s.bookings.UpdatePaymentStatus(ctx, booking.ID, model.PaymentStatusPending)
	if err != nil {
		return nil, fmt.Errorf("update payment status: %w", err)
	}

	s.logger.Info("Cash payment registered",
		zap.String("booking_id", booking.ID),
		zap.Float64("amount", booking.Price),
		zap.String("currency", booking.Currency),
	)

	s.activity.Notify(ctx, &model.Notification{
		UserEmail: booking.PatientEmail,
		Title:     "Cash Payment Registered",
		Message: fmt.Sprintf(
			"Your appointment with %s at %s on %s at %s has been scheduled. Please pay at the clinic.",
			booking.DoctorName, booking.ClinicName, booking.AppointmentDay, booking.AppointmentTime),
		Kind:        "success",
		RelatedType: "payment_bookings",
		RelatedID:   booking.ID,
	})
	s.activity.Log(ctx, "Cash Payment Registered", booking.PatientEmail,
		fmt.Sprintf("Booking %s (%s at %s)", booking.ConfirmationNumber(), booking.DoctorName, booking.ClinicName),
		model.ActivityStatusSuccess)

	return &CashReceipt{
		BookingID:          booking.ID,
		ConfirmationNumber: booking.ConfirmationNumber(),
		PaymentStatus:      model.PaymentStatusPending,
	}, nil
}

// MarkPaid is the secretary-side confirmation that cash was received.
func (s *PaymentService) MarkPaid(ctx context.Context, identity Identity, bookingID string) error {
	if identity.UserID == "" {
		return ErrUnauthenticated
	}

	booking, err := s.bookings.GetByID(ctx, bookingID)
	if err != nil {
		return fmt.Errorf("get booking: %w", err)
	}
	if booking == nil {
		return ErrBookingNotFound
	}

	err = s.bookings.UpdatePaymentStatus(ctx, bookingID, model.PaymentStatusPaid)
	if err != nil {
		return fmt.Errorf("mark booking paid: %w", err)
	}

	s.activity.Log(ctx, "Payment Confirmed", identity.Email,
		fmt.Sprintf("Booking %s marked paid", booking.ConfirmationNumber()),
		model.ActivityStatusSuccess)
	return nil
}

// appendLog writes the payment attempt trail. Failures here never abort the
// payment itself.
func (s *PaymentService) appendLog(ctx context.Context, booking *model.Booking, status, errMsg string) {
	err := s.payments.AppendLog(ctx, &model.PaymentLog{
		PaymentBookingID: booking.ID,
		PaymentMethod:    model.PaymentMethodCash,
		Amount:           booking.Price,
		LogStatus:        status,
		ErrorMessage:     errMsg,
	})
	if err != nil {
		s.logger.Warn("Failed to append payment log",
			zap.String("booking_id", booking.ID),
			zap.Error(err),
		)
	}
}

package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/bethmed/clinic-api/internal/model"
	"github.com/bethmed/clinic-api/internal/repository/base"
	"github.com/bethmed/clinic-api/internal/schedule"
	"go.uber.org/zap"
)

const defaultCurrency = "ILS"

// Identity is the authenticated caller, resolved by the auth middleware.
type Identity struct {
	UserID string
	Email  string
	Role   string
}

// BookingInput carries the slot chosen on the clinic page. DayDescriptor may
// be a weekday name (English or Arabic), an ISO date, or leftover placeholder
// text from the picker.
type BookingInput struct {
	ClinicName    string
	DoctorName    string
	Specialty     string
	DayDescriptor string
	TimeSlot      string
	Price         float64
	Currency      string
}

// BookingResult is what the payment page needs to proceed.
type BookingResult struct {
	Booking            *model.Booking
	ConfirmationNumber string
	ResolvedDate       string
	Recovered          bool // true when the collision resolver had to step in
}

type BookingService struct {
	bookings BookingStore
	users    UserStore
	now      func() time.Time
	logger   *zap.Logger
}

func NewBookingService(bookings BookingStore, users UserStore, logger *zap.Logger) *BookingService {
	return &BookingService{
		bookings: bookings,
		users:    users,
		now:      time.Now,
		logger:   logger,
	}
}

// Initialize runs once per payment-page load: it resolves the day descriptor
// to a date, rejects duplicates of the identifying tuple, and creates the
// pending booking the payment step will reference.
//
// Soft-deleted bookings never block rebooking: the pre-check reads only
// non-deleted rows and the unique index is partial over NOT deleted.
func (s *BookingService) Initialize(ctx context.Context, identity Identity, in BookingInput) (*BookingResult, error) {
	if identity.UserID == "" {
		return nil, ErrUnauthenticated
	}
	if in.ClinicName == "" || in.DoctorName == "" || in.TimeSlot == "" {
		return nil, fmt.Errorf("%w: clinic, doctor and time are required", ErrValidation)
	}

	today := s.now()
	resolvedDate, recognized := schedule.ResolveDayDescriptor(in.DayDescriptor, today)
	if !recognized {
		s.logger.Warn("Unrecognized day descriptor, falling back to today",
			zap.String("descriptor", in.DayDescriptor),
			zap.String("resolved", resolvedDate),
		)
	}

	// Profile lookup is best-effort: a missing row falls back to the token
	// identity rather than blocking the booking.
	userInfo, err := s.users.GetByID(ctx, identity.UserID)
	if err != nil {
		s.logger.Warn("Could not fetch user info", zap.String("user_id", identity.UserID), zap.Error(err))
	}

	key := model.BookingKey{
		PatientID:       identity.UserID,
		ClinicName:      in.ClinicName,
		DoctorName:      in.DoctorName,
		AppointmentDay:  resolvedDate,
		AppointmentTime: in.TimeSlot,
	}

	existing, err := s.bookings.ListActiveByIdentity(ctx, identity.UserID, identity.Email)
	if err != nil {
		return nil, fmt.Errorf("check existing bookings: %w", err)
	}

	for _, b := range existing {
		if b.ClinicName == key.ClinicName &&
			b.DoctorName == key.DoctorName &&
			b.AppointmentDay == key.AppointmentDay &&
			b.AppointmentTime == key.AppointmentTime {
			s.logger.Info("Duplicate booking rejected by pre-check",
				zap.String("booking_id", b.ID),
				zap.String("patient_id", identity.UserID),
				zap.Bool("deleted", b.Deleted),
				zap.String("payment_status", string(b.PaymentStatus)),
			)
			return nil, s.duplicateError(key)
		}
	}

	booking := s.buildBooking(identity, userInfo, in, resolvedDate)

	err = s.bookings.Create(ctx, booking)
	if err == nil {
		s.logger.Info("Booking created",
			zap.String("booking_id", booking.ID),
			zap.String("patient_id", booking.PatientID),
			zap.String("clinic", booking.ClinicName),
			zap.String("doctor", booking.DoctorName),
			zap.String("date", booking.AppointmentDay),
			zap.String("time", booking.AppointmentTime),
		)
		return &BookingResult{
			Booking:            booking,
			ConfirmationNumber: booking.ConfirmationNumber(),
			ResolvedDate:       resolvedDate,
		}, nil
	}

	if !base.IsUniqueViolation(err) {
		return nil, fmt.Errorf("insert booking: %w", err)
	}

	// The pre-check missed a row: another tab or session inserted the same
	// tuple between check and insert. Hand over to the collision resolver.
	return s.resolveCollision(ctx, identity, userInfo, in, key, resolvedDate)
}

// resolveCollision handles a uniqueness violation raised at insert time. The
// conflicting row is deleted and the insert retried exactly once, but only
// when the row is verifiably a stale pending attempt by the same patient;
// a paid booking is never destroyed.
func (s *BookingService) resolveCollision(
	ctx context.Context,
	identity Identity,
	userInfo *model.UserInfo,
	in BookingInput,
	key model.BookingKey,
	resolvedDate string,
) (*BookingResult, error) {
	conflicting, err := s.bookings.GetByKey(ctx, key)
	if err != nil {
		s.logger.Error("Collision lookup failed", zap.Error(err))
		return nil, s.duplicateError(key)
	}

	if conflicting != nil && conflicting.PaymentStatus != model.PaymentStatusPending {
		s.logger.Info("Conflicting booking is not a stale pending attempt, keeping it",
			zap.String("booking_id", conflicting.ID),
			zap.String("payment_status", string(conflicting.PaymentStatus)),
		)
		return nil, s.duplicateError(key)
	}

	deleted, err := s.bookings.DeleteStaleByKey(ctx, key)
	if err != nil {
		s.logger.Error("Collision cleanup failed", zap.Error(err))
		return nil, s.duplicateError(key)
	}

	booking := s.buildBooking(identity, userInfo, in, resolvedDate)
	err = s.bookings.Create(ctx, booking)
	if err != nil {
		// A second violation means a live competitor; stop, never loop.
		s.logger.Error("Retry insert after collision cleanup failed",
			zap.Int64("rows_deleted", deleted),
			zap.Error(err),
		)
		return nil, s.duplicateError(key)
	}

	s.logger.Info("Booking created after collision cleanup",
		zap.String("booking_id", booking.ID),
		zap.Int64("stale_rows_deleted", deleted),
	)

	return &BookingResult{
		Booking:            booking,
		ConfirmationNumber: booking.ConfirmationNumber(),
		ResolvedDate:       resolvedDate,
		Recovered:          true,
	}, nil
}

func (s *BookingService) buildBooking(identity Identity, userInfo *model.UserInfo, in BookingInput, resolvedDate string) *model.Booking {
	name := identity.Email
	email := identity.Email
	phone := ""
	uniqueID := ""
	if userInfo != nil {
		name = userInfo.DisplayName()
		if userInfo.Email != "" {
			email = userInfo.Email
		}
		phone = userInfo.PhoneNumber
		uniqueID = userInfo.UniquePatientID
	}
	if name == "" {
		name = "Unknown Patient"
	}

	currency := in.Currency
	if currency == "" {
		currency = defaultCurrency
	}

	return &model.Booking{
		PatientID:       identity.UserID,
		PatientName:     name,
		PatientEmail:    email,
		PatientPhone:    phone,
		UniquePatientID: uniqueID,
		ClinicName:      in.ClinicName,
		DoctorName:      in.DoctorName,
		Specialty:       in.Specialty,
		AppointmentDay:  resolvedDate,
		AppointmentTime: in.TimeSlot,
		Price:           in.Price,
		Currency:        currency,
		PaymentStatus:   model.PaymentStatusPending,
		BookingStatus:   model.BookingStatusScheduled,
	}
}

func (s *BookingService) duplicateError(key model.BookingKey) error {
	return &DuplicateBookingError{
		DoctorName: key.DoctorName,
		ClinicName: key.ClinicName,
		Date:       key.AppointmentDay,
		Time:       key.AppointmentTime,
	}
}

// ListForPatient returns the patient's non-deleted bookings.
func (s *BookingService) ListForPatient(ctx context.Context, identity Identity) ([]*model.Booking, error) {
	if identity.UserID == "" {
		return nil, ErrUnauthenticated
	}
	return s.bookings.ListActiveByIdentity(ctx, identity.UserID, identity.Email)
}

// Cancel hard-deletes the patient's own booking.
func (s *BookingService) Cancel(ctx context.Context, identity Identity, bookingID string) error {
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
	if booking.PatientID != identity.UserID && booking.PatientEmail != identity.Email {
		return fmt.Errorf("%w: booking belongs to another patient", ErrValidation)
	}

	err = s.bookings.Delete(ctx, bookingID)
	if err != nil {
		return fmt.Errorf("cancel booking: %w", err)
	}

	s.logger.Info("Booking cancelled",
		zap.String("booking_id", bookingID),
		zap.String("patient_id", identity.UserID),
	)
	return nil
}

// IsDuplicate reports whether err is a duplicate-tuple rejection.
func IsDuplicate(err error) bool {
	var dup *DuplicateBookingError
	return errors.As(err, &dup)
}

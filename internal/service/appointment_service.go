package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/bethmed/clinic-api/internal/model"
	"github.com/bethmed/clinic-api/internal/schedule"
	"go.uber.org/zap"
)

// AppointmentInput is the admin console's create request. TimeRange is the
// availability slot label "HH:MM-HH:MM".
type AppointmentInput struct {
	ClinicID  string
	DoctorID  string
	PatientID string
	Weekday   string
	TimeRange string
	Notes     string
}

// AppointmentPatch carries the individually mutable admin fields; nil means
// leave unchanged.
type AppointmentPatch struct {
	Status        *model.AppointmentStatus
	PaymentStatus *model.PaymentStatus
	Price         *float64
	Notes         *string
}

type AppointmentService struct {
	appointments AppointmentStore
	availability AvailabilityStore
	activity     *ActivityService
	notifier     AdminNotifier
	now          func() time.Time
	logger       *zap.Logger
}

func NewAppointmentService(
	appointments AppointmentStore,
	availability AvailabilityStore,
	activity *ActivityService,
	notifier AdminNotifier,
	logger *zap.Logger,
) *AppointmentService {
	return &AppointmentService{
		appointments: appointments,
		availability: availability,
		activity:     activity,
		notifier:     notifier,
		now:          time.Now,
		logger:       logger,
	}
}

// Create books an admin appointment after an interval-overlap check against
// the clinic's existing appointments on the computed date. Unlike the
// patient flow, "today" is a valid target when the requested weekday is
// today.
func (s *AppointmentService) Create(ctx context.Context, identity Identity, in AppointmentInput) (*model.Appointment, error) {
	if in.ClinicID == "" || in.DoctorID == "" || in.PatientID == "" {
		return nil, fmt.Errorf("%w: clinic, doctor and patient are required", ErrValidation)
	}

	day, ok := schedule.ParseWeekday(in.Weekday)
	if !ok {
		return nil, fmt.Errorf("%w: unknown weekday %q", ErrValidation, in.Weekday)
	}

	requested, err := schedule.ParseTimeRange(in.TimeRange)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrValidation, err)
	}

	doctor, err := s.availability.GetDoctor(ctx, in.DoctorID)
	if err != nil {
		return nil, fmt.Errorf("get doctor: %w", err)
	}
	if doctor == nil {
		return nil, fmt.Errorf("%w: doctor %s not found", ErrValidation, in.DoctorID)
	}

	date := schedule.NextOccurrence(day, s.now(), true).Format("2006-01-02")

	existing, err := s.appointments.ListByClinicDate(ctx, in.ClinicID, date)
	if err != nil {
		return nil, fmt.Errorf("list existing appointments: %w", err)
	}

	slots, err := s.availability.ListByDoctor(ctx, in.DoctorID)
	if err != nil {
		return nil, fmt.Errorf("list availability slots: %w", err)
	}

	for _, apt := range existing {
		iv, ok := s.intervalFor(apt, in.Weekday, slots)
		if !ok {
			continue
		}
		if requested.Overlaps(iv) {
			s.logger.Info("Appointment rejected: time slot conflict",
				zap.String("clinic_id", in.ClinicID),
				zap.String("date", date),
				zap.String("requested", in.TimeRange),
				zap.String("existing_id", apt.ID),
				zap.String("existing_time", apt.Time),
			)
			return nil, &SlotConflictError{ClinicID: in.ClinicID, Date: date, Range: in.TimeRange}
		}
	}

	startLabel, _, _ := strings.Cut(in.TimeRange, "-")
	startLabel = strings.TrimSpace(startLabel)

	apt := &model.Appointment{
		PatientID:     in.PatientID,
		DoctorID:      in.DoctorID,
		ClinicID:      in.ClinicID,
		Date:          date,
		Time:          startLabel,
		Status:        model.AppointmentStatusScheduled,
		PaymentStatus: model.PaymentStatusPending,
		Price:         doctor.Price,
		Notes:         in.Notes,
	}

	err = s.appointments.Create(ctx, apt)
	if err != nil {
		return nil, fmt.Errorf("insert appointment: %w", err)
	}

	s.logger.Info("Appointment created",
		zap.String("appointment_id", apt.ID),
		zap.String("clinic_id", apt.ClinicID),
		zap.String("doctor_id", apt.DoctorID),
		zap.String("date", apt.Date),
		zap.String("time", apt.Time),
	)

	s.activity.Log(ctx, "Appointment Created", identity.Email,
		fmt.Sprintf("New appointment for patient %s with Dr. %s on %s at %s",
			apt.PatientID, doctor.Name, apt.Date, apt.Time),
		model.ActivityStatusSuccess)

	if s.notifier != nil {
		s.notifier.NotifyAdmin(ctx, fmt.Sprintf(
			"New appointment: Dr. %s, %s %s (clinic %s)", doctor.Name, apt.Date, apt.Time, apt.ClinicID))
	}

	return apt, nil
}

// intervalFor approximates an existing appointment's time window. Only the
// start time is stored on the row, so the end comes from the availability
// slot matching (day, start); with no matching slot the appointment is a
// zero-width interval at its start.
func (s *AppointmentService) intervalFor(apt *model.Appointment, weekday string, slots []*model.AvailabilitySlot) (schedule.Interval, bool) {
	day, _ := schedule.ParseWeekday(weekday)
	for _, slot := range slots {
		slotDay, ok := schedule.ParseWeekday(slot.Day)
		if !ok || slotDay != day {
			continue
		}
		if slot.StartTime != apt.Time {
			continue
		}
		iv, err := schedule.ParseTimeRange(slot.StartTime + "-" + slot.EndTime)
		if err != nil {
			s.logger.Warn("Malformed availability slot", zap.String("slot_id", slot.ID), zap.Error(err))
			continue
		}
		return iv, true
	}

	start, err := schedule.ParseClock(apt.Time)
	if err != nil {
		s.logger.Warn("Unparseable appointment time, skipping in overlap check",
			zap.String("appointment_id", apt.ID),
			zap.String("time", apt.Time),
		)
		return schedule.Interval{}, false
	}
	return schedule.At(start), true
}

// List returns all appointments for the admin console.
func (s *AppointmentService) List(ctx context.Context) ([]*model.Appointment, error) {
	return s.appointments.List(ctx)
}

// ListByClinicDate returns a clinic's appointments on a date.
func (s *AppointmentService) ListByClinicDate(ctx context.Context, clinicID, date string) ([]*model.Appointment, error) {
	return s.appointments.ListByClinicDate(ctx, clinicID, date)
}

// WeekSchedule collects a clinic's appointments for the Monday-Sunday week
// containing ref, plus the availability slots of every doctor appearing in
// it, for the schedule image.
func (s *AppointmentService) WeekSchedule(ctx context.Context, clinicID string, ref time.Time) ([]*model.Appointment, []*model.AvailabilitySlot, error) {
	monday := ref.AddDate(0, 0, -((int(ref.Weekday()) + 6) % 7))

	var appointments []*model.Appointment
	seen := make(map[string]bool)
	for i := 0; i < 7; i++ {
		date := monday.AddDate(0, 0, i).Format("2006-01-02")
		day, err := s.appointments.ListByClinicDate(ctx, clinicID, date)
		if err != nil {
			return nil, nil, fmt.Errorf("list appointments for %s: %w", date, err)
		}
		appointments = append(appointments, day...)
		for _, apt := range day {
			seen[apt.DoctorID] = true
		}
	}

	var slots []*model.AvailabilitySlot
	for doctorID := range seen {
		doctorSlots, err := s.availability.ListByDoctor(ctx, doctorID)
		if err != nil {
			return nil, nil, fmt.Errorf("list slots for doctor %s: %w", doctorID, err)
		}
		slots = append(slots, doctorSlots...)
	}

	return appointments, slots, nil
}

// Update applies an admin patch to a single appointment.
func (s *AppointmentService) Update(ctx context.Context, identity Identity, id string, patch AppointmentPatch) (*model.Appointment, error) {
	apt, err := s.appointments.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("get appointment: %w", err)
	}
	if apt == nil {
		return nil, ErrBookingNotFound
	}

	if patch.Status != nil {
		apt.Status = *patch.Status
	}
	if patch.PaymentStatus != nil {
		apt.PaymentStatus = *patch.PaymentStatus
	}
	if patch.Price != nil {
		apt.Price = *patch.Price
	}
	if patch.Notes != nil {
		apt.Notes = *patch.Notes
	}

	err = s.appointments.Update(ctx, apt)
	if err != nil {
		return nil, fmt.Errorf("update appointment: %w", err)
	}

	s.activity.Log(ctx, "Appointment Updated", identity.Email,
		fmt.Sprintf("Appointment %s updated", id), model.ActivityStatusSuccess)
	return apt, nil
}

// Delete hard-deletes an appointment.
func (s *AppointmentService) Delete(ctx context.Context, identity Identity, id string) error {
	err := s.appointments.Delete(ctx, id)
	if err != nil {
		return fmt.Errorf("delete appointment: %w", err)
	}

	s.activity.Log(ctx, "Appointment Deleted", identity.Email,
		fmt.Sprintf("Appointment %s was deleted", id), model.ActivityStatusSuccess)
	return nil
}

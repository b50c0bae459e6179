package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/bethmed/clinic-api/internal/model"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"
)

// fakeBookingStore mimics the payment_bookings table including its partial
// unique index over non-deleted identifying tuples. Rows in hiddenFromList
// exist for the constraint but are invisible to the identity query,
// simulating another session racing the pre-check.
type fakeBookingStore struct {
	rows           map[string]*model.Booking
	hiddenFromList map[string]bool
	createCalls    int
	alwaysConflict bool
	listErr        error
	deleteKeyErr   error
	updateErr      error
	statusUpdates  []model.PaymentStatus
}

func newFakeBookingStore() *fakeBookingStore {
	return &fakeBookingStore{
		rows:           make(map[string]*model.Booking),
		hiddenFromList: make(map[string]bool),
	}
}

func uniqueViolation() error {
	return &pgconn.PgError{Code: "23505", ConstraintName: "unique_appointment_booking"}
}

func (f *fakeBookingStore) Create(_ context.Context, b *model.Booking) error {
	f.createCalls++
	if f.alwaysConflict {
		return fmt.Errorf("create booking: %w", uniqueViolation())
	}
	for _, existing := range f.rows {
		if !existing.Deleted && existing.Key() == b.Key() {
			return fmt.Errorf("create booking: %w", uniqueViolation())
		}
	}
	if b.ID == "" {
		b.ID = uuid.NewString()
	}
	cp := *b
	f.rows[b.ID] = &cp
	return nil
}

func (f *fakeBookingStore) GetByID(_ context.Context, id string) (*model.Booking, error) {
	b, ok := f.rows[id]
	if !ok {
		return nil, nil
	}
	cp := *b
	return &cp, nil
}

func (f *fakeBookingStore) ListActiveByIdentity(_ context.Context, patientID, email string) ([]*model.Booking, error) {
	if f.listErr != nil {
		return nil, f.listErr
	}
	var out []*model.Booking
	for id, b := range f.rows {
		if b.Deleted || f.hiddenFromList[id] {
			continue
		}
		if b.PatientID == patientID || (email != "" && b.PatientEmail == email) {
			cp := *b
			out = append(out, &cp)
		}
	}
	return out, nil
}

func (f *fakeBookingStore) GetByKey(_ context.Context, key model.BookingKey) (*model.Booking, error) {
	for _, b := range f.rows {
		if !b.Deleted && b.Key() == key {
			cp := *b
			return &cp, nil
		}
	}
	return nil, nil
}

func (f *fakeBookingStore) DeleteStaleByKey(_ context.Context, key model.BookingKey) (int64, error) {
	if f.deleteKeyErr != nil {
		return 0, f.deleteKeyErr
	}
	var n int64
	for id, b := range f.rows {
		if b.Key() == key && b.PaymentStatus == model.PaymentStatusPending {
			delete(f.rows, id)
			n++
		}
	}
	return n, nil
}

func (f *fakeBookingStore) UpdatePaymentStatus(_ context.Context, id string, status model.PaymentStatus) error {
	if f.updateErr != nil {
		return f.updateErr
	}
	b, ok := f.rows[id]
	if !ok {
		return errors.New("booking not found")
	}
	b.PaymentStatus = status
	f.statusUpdates = append(f.statusUpdates, status)
	return nil
}

func (f *fakeBookingStore) Delete(_ context.Context, id string) error {
	if _, ok := f.rows[id]; !ok {
		return errors.New("booking not found")
	}
	delete(f.rows, id)
	return nil
}

type fakeUserStore struct {
	users map[string]*model.UserInfo
	err   error
}

func (f *fakeUserStore) GetByID(_ context.Context, id string) (*model.UserInfo, error) {
	if f.err != nil {
		return nil, f.err
	}
	if f.users == nil {
		return nil, nil
	}
	return f.users[id], nil
}

type fakePaymentStore struct {
	transactions []*model.PaymentTransaction
	logs         []*model.PaymentLog
	txErr        error
	logErr       error
}

func (f *fakePaymentStore) CreateTransaction(_ context.Context, t *model.PaymentTransaction) error {
	if f.txErr != nil {
		return f.txErr
	}
	cp := *t
	f.transactions = append(f.transactions, &cp)
	return nil
}

func (f *fakePaymentStore) AppendLog(_ context.Context, l *model.PaymentLog) error {
	if f.logErr != nil {
		return f.logErr
	}
	cp := *l
	f.logs = append(f.logs, &cp)
	return nil
}

type fakeActivityStore struct {
	entries       []*model.ActivityEntry
	notifications []*model.Notification
	appendErr     error
}

func (f *fakeActivityStore) Append(_ context.Context, e *model.ActivityEntry) error {
	if f.appendErr != nil {
		return f.appendErr
	}
	cp := *e
	f.entries = append(f.entries, &cp)
	return nil
}

func (f *fakeActivityStore) CreateNotification(_ context.Context, n *model.Notification) error {
	cp := *n
	f.notifications = append(f.notifications, &cp)
	return nil
}

type fakeAppointmentStore struct {
	rows      []*model.Appointment
	createErr error
}

func (f *fakeAppointmentStore) Create(_ context.Context, a *model.Appointment) error {
	if f.createErr != nil {
		return f.createErr
	}
	if a.ID == "" {
		a.ID = uuid.NewString()
	}
	cp := *a
	f.rows = append(f.rows, &cp)
	return nil
}

func (f *fakeAppointmentStore) GetByID(_ context.Context, id string) (*model.Appointment, error) {
	for _, a := range f.rows {
		if a.ID == id {
			cp := *a
			return &cp, nil
		}
	}
	return nil, nil
}

func (f *fakeAppointmentStore) List(_ context.Context) ([]*model.Appointment, error) {
	return f.rows, nil
}

func (f *fakeAppointmentStore) ListByClinicDate(_ context.Context, clinicID, date string) ([]*model.Appointment, error) {
	var out []*model.Appointment
	for _, a := range f.rows {
		if a.ClinicID == clinicID && a.Date == date {
			cp := *a
			out = append(out, &cp)
		}
	}
	return out, nil
}

func (f *fakeAppointmentStore) Update(_ context.Context, a *model.Appointment) error {
	for i, existing := range f.rows {
		if existing.ID == a.ID {
			cp := *a
			f.rows[i] = &cp
			return nil
		}
	}
	return errors.New("appointment not found")
}

func (f *fakeAppointmentStore) Delete(_ context.Context, id string) error {
	for i, a := range f.rows {
		if a.ID == id {
			f.rows = append(f.rows[:i], f.rows[i+1:]...)
			return nil
		}
	}
	return errors.New("appointment not found")
}

type fakeAvailabilityStore struct {
	slots   []*model.AvailabilitySlot
	doctors map[string]*model.Doctor
}

func (f *fakeAvailabilityStore) ListByDoctor(_ context.Context, doctorID string) ([]*model.AvailabilitySlot, error) {
	var out []*model.AvailabilitySlot
	for _, s := range f.slots {
		if s.DoctorID == doctorID {
			out = append(out, s)
		}
	}
	return out, nil
}

func (f *fakeAvailabilityStore) GetDoctor(_ context.Context, doctorID string) (*model.Doctor, error) {
	if f.doctors == nil {
		return nil, nil
	}
	return f.doctors[doctorID], nil
}

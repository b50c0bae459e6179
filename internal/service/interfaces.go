package service

import (
	"context"

	"github.com/bethmed/clinic-api/internal/model"
)

// Store interfaces are satisfied by the pgx repositories. Services depend on
// these so the workflow logic can be exercised without a database.

type BookingStore interface {
	Create(ctx context.Context, b *model.Booking) error
	GetByID(ctx context.Context, id string) (*model.Booking, error)
	ListActiveByIdentity(ctx context.Context, patientID, email string) ([]*model.Booking, error)
	GetByKey(ctx context.Context, key model.BookingKey) (*model.Booking, error)
	DeleteStaleByKey(ctx context.Context, key model.BookingKey) (int64, error)
	UpdatePaymentStatus(ctx context.Context, id string, status model.PaymentStatus) error
	Delete(ctx context.Context, id string) error
}

type UserStore interface {
	GetByID(ctx context.Context, id string) (*model.UserInfo, error)
}

type PaymentStore interface {
	CreateTransaction(ctx context.Context, t *model.PaymentTransaction) error
	AppendLog(ctx context.Context, l *model.PaymentLog) error
}

type AppointmentStore interface {
	Create(ctx context.Context, a *model.Appointment) error
	GetByID(ctx context.Context, id string) (*model.Appointment, error)
	List(ctx context.Context) ([]*model.Appointment, error)
	ListByClinicDate(ctx context.Context, clinicID, date string) ([]*model.Appointment, error)
	Update(ctx context.Context, a *model.Appointment) error
	Delete(ctx context.Context, id string) error
}

type AvailabilityStore interface {
	ListByDoctor(ctx context.Context, doctorID string) ([]*model.AvailabilitySlot, error)
	GetDoctor(ctx context.Context, doctorID string) (*model.Doctor, error)
}

type ActivityStore interface {
	Append(ctx context.Context, e *model.ActivityEntry) error
	CreateNotification(ctx context.Context, n *model.Notification) error
}

// AdminNotifier pushes out-of-band alerts to clinic staff. Implementations
// must be safe to call with a nil receiver disabled state; failures are the
// caller's to ignore.
type AdminNotifier interface {
	NotifyAdmin(ctx context.Context, text string)
}

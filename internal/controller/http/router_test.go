package http

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/bethmed/clinic-api/internal/model"
	"github.com/bethmed/clinic-api/internal/service"
	"github.com/golang-jwt/jwt/v4"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

const testSecret = "test-secret"

type memBookingStore struct {
	rows map[string]*model.Booking
}

func newMemBookingStore() *memBookingStore {
	return &memBookingStore{rows: make(map[string]*model.Booking)}
}

func (s *memBookingStore) Create(_ context.Context, b *model.Booking) error {
	for _, existing := range s.rows {
		if !existing.Deleted && existing.Key() == b.Key() {
			return fmt.Errorf("create booking: %w", &pgconn.PgError{Code: "23505"})
		}
	}
	if b.ID == "" {
		b.ID = uuid.NewString()
	}
	cp := *b
	s.rows[b.ID] = &cp
	return nil
}

func (s *memBookingStore) GetByID(_ context.Context, id string) (*model.Booking, error) {
	b, ok := s.rows[id]
	if !ok {
		return nil, nil
	}
	cp := *b
	return &cp, nil
}

func (s *memBookingStore) ListActiveByIdentity(_ context.Context, patientID, email string) ([]*model.Booking, error) {
	var out []*model.Booking
	for _, b := range s.rows {
		if b.Deleted {
			continue
		}
		if b.PatientID == patientID || (email != "" && b.PatientEmail == email) {
			cp := *b
			out = append(out, &cp)
		}
	}
	return out, nil
}

func (s *memBookingStore) GetByKey(_ context.Context, key model.BookingKey) (*model.Booking, error) {
	for _, b := range s.rows {
		if !b.Deleted && b.Key() == key {
			cp := *b
			return &cp, nil
		}
	}
	return nil, nil
}

func (s *memBookingStore) DeleteStaleByKey(_ context.Context, key model.BookingKey) (int64, error) {
	var n int64
	for id, b := range s.rows {
		if b.Key() == key && b.PaymentStatus == model.PaymentStatusPending {
			delete(s.rows, id)
			n++
		}
	}
	return n, nil
}

func (s *memBookingStore) UpdatePaymentStatus(_ context.Context, id string, status model.PaymentStatus) error {
	b, ok := s.rows[id]
	if !ok {
		return fmt.Errorf("booking not found")
	}
	b.PaymentStatus = status
	return nil
}

func (s *memBookingStore) Delete(_ context.Context, id string) error {
	delete(s.rows, id)
	return nil
}

type memUserStore struct{}

func (memUserStore) GetByID(context.Context, string) (*model.UserInfo, error) { return nil, nil }

type memPaymentStore struct{}

func (memPaymentStore) CreateTransaction(context.Context, *model.PaymentTransaction) error {
	return nil
}
func (memPaymentStore) AppendLog(context.Context, *model.PaymentLog) error { return nil }

type memActivityStore struct{}

func (memActivityStore) Append(context.Context, *model.ActivityEntry) error { return nil }
func (memActivityStore) CreateNotification(context.Context, *model.Notification) error {
	return nil
}

func testRouter(t *testing.T) (*memBookingStore, http.Handler) {
	t.Helper()
	logger := zap.NewNop()
	store := newMemBookingStore()
	activity := service.NewActivityService(memActivityStore{}, logger)
	bookingSvc := service.NewBookingService(store, memUserStore{}, logger)
	paymentSvc := service.NewPaymentService(store, memPaymentStore{}, activity, logger)

	router := NewRouter(
		RouterConfig{RequestTimeout: 10 * time.Second},
		NewAuthenticator(testSecret),
		NewBookingHandler(bookingSvc, paymentSvc, logger),
		NewAdminHandler(nil, logger),
	)
	return store, router
}

func signToken(t *testing.T, userID, email, role string) string {
	t.Helper()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims{
		Email: email,
		Role:  role,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   userID,
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
		},
	})
	signed, err := token.SignedString([]byte(testSecret))
	require.NoError(t, err)
	return signed
}

func doRequest(router http.Handler, method, path, token string, body any) *httptest.ResponseRecorder {
	var buf bytes.Buffer
	if body != nil {
		json.NewEncoder(&buf).Encode(body)
	}
	req := httptest.NewRequest(method, path, &buf)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	return rec
}

func TestHealthz(t *testing.T) {
	_, router := testRouter(t)
	rec := doRequest(router, http.MethodGet, "/healthz", "", nil)
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestBookings_RequireAuth(t *testing.T) {
	_, router := testRouter(t)

	rec := doRequest(router, http.MethodPost, "/api/v1/bookings", "", map[string]string{})
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	rec = doRequest(router, http.MethodPost, "/api/v1/bookings", "not-a-jwt", map[string]string{})
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestBookings_CreateAndDuplicate(t *testing.T) {
	_, router := testRouter(t)
	token := signToken(t, "patient-1", "patient@example.com", "patient")

	body := map[string]any{
		"clinic_name": "Main Clinic",
		"doctor_name": "Dr. Smith",
		"specialty":   "Dermatology",
		"day":         "Monday",
		"time":        "10:00",
		"price":       150,
	}

	rec := doRequest(router, http.MethodPost, "/api/v1/bookings", token, body)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	var created bookingResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &created))
	assert.NotEmpty(t, created.ID)
	assert.NotEmpty(t, created.ConfirmationNumber)
	assert.Equal(t, "pending", created.PaymentStatus)

	// Same tuple again is a conflict with both localized messages.
	rec = doRequest(router, http.MethodPost, "/api/v1/bookings", token, body)
	require.Equal(t, http.StatusConflict, rec.Code)

	var conflictBody errorBody
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &conflictBody))
	assert.Equal(t, "duplicate_booking", conflictBody.Error)
	assert.Contains(t, conflictBody.MessageEN, "Dr. Smith")
	assert.NotEmpty(t, conflictBody.MessageAR)
}

func TestBookings_CashPayment(t *testing.T) {
	store, router := testRouter(t)
	token := signToken(t, "patient-1", "patient@example.com", "patient")

	rec := doRequest(router, http.MethodPost, "/api/v1/bookings", token, map[string]any{
		"clinic_name": "Main Clinic",
		"doctor_name": "Dr. Smith",
		"day":         "Tuesday",
		"time":        "11:00",
		"price":       120,
	})
	require.Equal(t, http.StatusCreated, rec.Code)

	var created bookingResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &created))

	rec = doRequest(router, http.MethodPost, "/api/v1/bookings/"+created.ID+"/payments/cash", token, nil)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.Equal(t, model.PaymentStatusPending, store.rows[created.ID].PaymentStatus)

	rec = doRequest(router, http.MethodPost, "/api/v1/bookings/unknown-id/payments/cash", token, nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestAdmin_RequiresStaffRole(t *testing.T) {
	_, router := testRouter(t)

	patientToken := signToken(t, "patient-1", "patient@example.com", "patient")
	rec := doRequest(router, http.MethodGet, "/api/v1/admin/appointments", patientToken, nil)
	assert.Equal(t, http.StatusForbidden, rec.Code)
}

func TestBookings_ValidationErrors(t *testing.T) {
	_, router := testRouter(t)
	token := signToken(t, "patient-1", "patient@example.com", "patient")

	rec := doRequest(router, http.MethodPost, "/api/v1/bookings", token, map[string]any{
		"clinic_name": "Main Clinic",
	})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

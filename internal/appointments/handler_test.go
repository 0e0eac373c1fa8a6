package appointments

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type recordingNotifier struct {
	got []*Appointment
}

func (n *recordingNotifier) AppointmentConfirmed(_ context.Context, appt *Appointment) {
	n.got = append(n.got, appt)
}

type brokenRepository struct{}

func (brokenRepository) Create(context.Context, *CreateRequest) (*Appointment, error) {
	return nil, errors.New("appointments: insert failed: disk full")
}

func (brokenRepository) List(context.Context) ([]Appointment, error) {
	return nil, errors.New("appointments: list failed: disk full")
}

func TestHandlerCreateThenList(t *testing.T) {
	repo := NewInMemoryRepository()
	repo.now = fixedClock
	notifier := &recordingNotifier{}
	h := NewHandler(repo, notifier, nil)

	body := `{"username":"Alex","city":"Paris","description":"small geometric design","appointment_date":"2030-01-02","tattoo_type":"geometric"}`
	rec := httptest.NewRecorder()
	h.CreateAppointment(rec, httptest.NewRequest(http.MethodPost, "/appointments", strings.NewReader(body)))
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"status":"success","message":"Appointment created successfully"}`, rec.Body.String())
	require.Len(t, notifier.got, 1)
	assert.Equal(t, "geometric", notifier.got[0].TattooType)

	rec = httptest.NewRecorder()
	h.ListAppointments(rec, httptest.NewRequest(http.MethodGet, "/appointments", nil))
	require.Equal(t, http.StatusOK, rec.Code)

	var listed struct {
		Appointments []map[string]any `json:"appointments"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &listed))
	require.Len(t, listed.Appointments, 1)
	assert.Equal(t, map[string]any{
		"id":               float64(1),
		"username":         "Alex",
		"city":             "Paris",
		"description":      "small geometric design",
		"appointment_date": "2030-01-02",
		"created_at":       "2026-03-14 09:30:05",
	}, listed.Appointments[0])
}

func TestHandlerCreateInvalidDate(t *testing.T) {
	notifier := &recordingNotifier{}
	h := NewHandler(NewInMemoryRepository(), notifier, nil)

	rec := httptest.NewRecorder()
	h.CreateAppointment(rec, httptest.NewRequest(http.MethodPost, "/appointments",
		strings.NewReader(`{"username":"Alex","city":"Paris","description":"rose","appointment_date":"15/05/2030"}`)))

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.JSONEq(t, `{"detail":"Invalid date format. Use YYYY-MM-DD"}`, rec.Body.String())
	assert.Empty(t, notifier.got)
}

func TestHandlerCreateMalformedBody(t *testing.T) {
	rec := httptest.NewRecorder()
	NewHandler(NewInMemoryRepository(), nil, nil).CreateAppointment(rec,
		httptest.NewRequest(http.MethodPost, "/appointments", strings.NewReader(`{"username":`)))
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestHandlerStorageFailures(t *testing.T) {
	h := NewHandler(brokenRepository{}, nil, nil)

	rec := httptest.NewRecorder()
	h.CreateAppointment(rec, httptest.NewRequest(http.MethodPost, "/appointments",
		strings.NewReader(`{"appointment_date":"2030-01-02"}`)))
	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.Contains(t, rec.Body.String(), "disk full")

	rec = httptest.NewRecorder()
	h.ListAppointments(rec, httptest.NewRequest(http.MethodGet, "/appointments", nil))
	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.JSONEq(t, `{"message":"An error occurred: appointments: list failed: disk full"}`, rec.Body.String())
}

func TestHandlerCreateMissingFields(t *testing.T) {
	repo := NewInMemoryRepository()
	h := NewHandler(repo, nil, nil)

	rec := httptest.NewRecorder()
	h.CreateAppointment(rec, httptest.NewRequest(http.MethodPost, "/appointments",
		strings.NewReader(`{"appointment_date":"2030-01-02","tattoo_type":"tribal"}`)))

	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
	assert.JSONEq(t, `{"detail":"appointments: missing required field: username, city, description"}`, rec.Body.String())

	items, err := repo.List(context.Background())
	require.NoError(t, err)
	assert.Empty(t, items)
}

package appointments

import (
	"context"
	"sort"
	"sync"
	"time"
)

// InMemoryRepository keeps appointments in process memory.
type InMemoryRepository struct {
	mu     sync.RWMutex
	nextID int64
	items  []Appointment
	now    func() time.Time
}

// NewInMemoryRepository creates an empty in-memory repository.
func NewInMemoryRepository() *InMemoryRepository {
	return &InMemoryRepository{now: time.Now}
}

// Create appends an appointment.
func (r *InMemoryRepository) Create(_ context.Context, req *CreateRequest) (*Appointment, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	r.nextID++
	appt := req.toAppointment(r.nextID, formatCreatedAt(r.now()))
	stored := *appt
	stored.TattooType = ""
	r.items = append(r.items, stored)
	return appt, nil
}

// List returns appointments newest appointment_date first.
func (r *InMemoryRepository) List(_ context.Context) ([]Appointment, error) {
	r.mu.RLock()
	out := append([]Appointment(nil), r.items...)
	r.mu.RUnlock()

	sort.SliceStable(out, func(i, j int) bool {
		if out[i].AppointmentDate != out[j].AppointmentDate {
			return out[i].AppointmentDate > out[j].AppointmentDate
		}
		return out[i].ID > out[j].ID
	})
	return out, nil
}

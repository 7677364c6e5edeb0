package appointment

import (
	"context"
	"errors"
	"sort"
	"sync"
	"time"

	"github.com/slotwise/booking-backend/internal/availability"
	"github.com/slotwise/booking-backend/internal/organization"
	"github.com/slotwise/booking-backend/internal/schedule"
)

const (
	testOrg = "org-1"
	// 2026-03-02 is a Monday.
	testDate = "2026-03-02"
)

var testNow = time.Date(2026, 3, 2, 8, 0, 0, 0, time.UTC)

var weekdayTemplate = schedule.Weekly{
	"monday":    {IsAvailable: true, StartTime: "09:00", EndTime: "17:00", Breaks: []schedule.BreakPeriod{{StartTime: "12:00", EndTime: "13:00"}}},
	"tuesday":   {IsAvailable: true, StartTime: "09:00", EndTime: "17:00"},
	"wednesday": {IsAvailable: true, StartTime: "09:00", EndTime: "17:00"},
}

func defaultConfig() *organization.BusinessConfiguration {
	return &organization.BusinessConfiguration{
		OrgID:                 testOrg,
		AppointmentModel:      organization.ModelProfessional,
		MaxAdvanceBookingDays: 30,
		CancellationPolicy: organization.CancellationPolicy{
			HoursBeforeAppointment: 24,
			PenaltyPercentage:      50,
		},
	}
}

// fakeOrgService serves a single canned configuration; the rest of the
// interface is unused by the lifecycle manager.
type fakeOrgService struct {
	cfg *organization.BusinessConfiguration
}

func (f *fakeOrgService) Create(context.Context, organization.CreateRequest) (*organization.Organization, error) {
	return nil, errors.New("not implemented")
}

func (f *fakeOrgService) GetByID(context.Context, string) (*organization.Organization, error) {
	return nil, errors.New("not implemented")
}

func (f *fakeOrgService) List(context.Context, organization.Filter) ([]*organization.Organization, int, error) {
	return nil, 0, errors.New("not implemented")
}

func (f *fakeOrgService) Update(context.Context, string, organization.UpdateRequest) (*organization.Organization, error) {
	return nil, errors.New("not implemented")
}

func (f *fakeOrgService) GetConfiguration(context.Context, string) (*organization.BusinessConfiguration, error) {
	if f.cfg == nil {
		return nil, organization.ErrConfigMissing
	}
	return f.cfg, nil
}

func (f *fakeOrgService) SetConfiguration(context.Context, string, organization.ConfigurationRequest) (*organization.BusinessConfiguration, error) {
	return nil, errors.New("not implemented")
}

// fakeDirectory provides a fixed roster of entities to the availability
// service.
type fakeDirectory struct {
	staff     []*availability.Entity
	resources []*availability.Entity
}

func (d *fakeDirectory) Get(_ context.Context, _ string, entityType availability.EntityType, entityID string) (*availability.Entity, error) {
	for _, e := range d.list(entityType) {
		if e.ID == entityID {
			return e, nil
		}
	}
	return nil, availability.ErrEntityNotFound
}

func (d *fakeDirectory) ListActive(_ context.Context, _ string, entityType availability.EntityType) ([]*availability.Entity, error) {
	return d.list(entityType), nil
}

func (d *fakeDirectory) list(entityType availability.EntityType) []*availability.Entity {
	if entityType == availability.EntityStaff {
		return d.staff
	}
	return d.resources
}

// memoryApptRepository is an in-memory appointment store. failNextCreate
// forces one persistence failure to exercise compensation paths.
type memoryApptRepository struct {
	mu             sync.Mutex
	appointments   map[string]*Appointment
	failNextCreate bool
}

func newMemoryApptRepository() *memoryApptRepository {
	return &memoryApptRepository{appointments: make(map[string]*Appointment)}
}

func (r *memoryApptRepository) Create(_ context.Context, appt *Appointment) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.failNextCreate {
		r.failNextCreate = false
		return errors.New("storage unavailable")
	}
	appt.CreatedAt = time.Now().UTC()
	appt.UpdatedAt = appt.CreatedAt
	stored := *appt
	r.appointments[appt.OrgID+"|"+appt.ID] = &stored
	return nil
}

func (r *memoryApptRepository) GetByID(_ context.Context, orgID, id string) (*Appointment, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	appt, ok := r.appointments[orgID+"|"+id]
	if !ok {
		return nil, ErrNotFound
	}
	copied := *appt
	return &copied, nil
}

func (r *memoryApptRepository) List(_ context.Context, filter Filter) ([]*Appointment, int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []*Appointment
	for _, appt := range r.appointments {
		if appt.OrgID != filter.OrgID {
			continue
		}
		if filter.Status != "" && string(appt.Status) != filter.Status {
			continue
		}
		if filter.StaffID != "" && appt.StaffID != filter.StaffID {
			continue
		}
		copied := *appt
		out = append(out, &copied)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Datetime.Before(out[j].Datetime) })
	return out, len(out), nil
}

func (r *memoryApptRepository) Update(_ context.Context, appt *Appointment) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.appointments[appt.OrgID+"|"+appt.ID]; !ok {
		return ErrNotFound
	}
	appt.UpdatedAt = time.Now().UTC()
	stored := *appt
	r.appointments[appt.OrgID+"|"+appt.ID] = &stored
	return nil
}

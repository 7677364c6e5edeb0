package appointment

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/slotwise/booking-backend/internal/availability"
	"github.com/slotwise/booking-backend/internal/organization"
	redisclient "github.com/slotwise/booking-backend/internal/redis"
)

type lifecycleEnv struct {
	svc      *service
	repo     *memoryApptRepository
	avail    availability.Service
	orgs     *fakeOrgService
	availMem availability.Repository
}

func newLifecycleEnv(cfg *organization.BusinessConfiguration, dir *fakeDirectory) *lifecycleEnv {
	if dir == nil {
		dir = &fakeDirectory{
			staff: []*availability.Entity{
				{ID: "alice", Name: "Alice", Schedule: weekdayTemplate, Specialties: []string{"massage"}},
				{ID: "bob", Name: "Bob", Schedule: weekdayTemplate, Specialties: []string{"haircut"}},
			},
			resources: []*availability.Entity{
				{ID: "room-1", Name: "Room 1", Schedule: weekdayTemplate},
			},
		}
	}

	availRepo := availability.NewMemoryRepository()
	avail := availability.NewService(availRepo, dir, 30)
	repo := newMemoryApptRepository()
	orgs := &fakeOrgService{cfg: cfg}

	svc := NewService(repo, avail, orgs, NewAssigner(avail), redisclient.NewNoopLocker()).(*service)
	svc.now = func() time.Time { return testNow }

	return &lifecycleEnv{svc: svc, repo: repo, avail: avail, orgs: orgs, availMem: availRepo}
}

func createReq(datetime time.Time) CreateRequest {
	return CreateRequest{
		OrgID:       testOrg,
		Datetime:    datetime,
		Duration:    60,
		ClientInfo:  ClientInfo{Name: "Carol", Email: "carol@example.com"},
		ServiceInfo: ServiceInfo{Name: "Deep Tissue", Price: 80},
	}
}

// bookedBy returns the slots on the entity's record held by the appointment.
func bookedBy(t *testing.T, env *lifecycleEnv, entityType availability.EntityType, entityID, date, apptID string) []availability.TimeSlot {
	t.Helper()
	record, err := env.availMem.Get(context.Background(), testOrg, entityType, entityID, date)
	require.NoError(t, err)
	if record == nil {
		return nil
	}
	var held []availability.TimeSlot
	for _, slot := range record.TimeSlots {
		if slot.BookedAppointmentID == apptID {
			held = append(held, slot)
		}
	}
	return held
}

func TestCreateAppointment(t *testing.T) {
	ctx := context.Background()
	at10 := time.Date(2026, 3, 2, 10, 0, 0, 0, time.UTC)

	t.Run("books the window and persists a confirmed appointment", func(t *testing.T) {
		env := newLifecycleEnv(defaultConfig(), nil)

		appt, err := env.svc.Create(ctx, createReq(at10))
		require.NoError(t, err)

		assert.NotEmpty(t, appt.ID)
		assert.Equal(t, StatusConfirmed, appt.Status)
		assert.Equal(t, "alice", appt.StaffID)
		assert.Equal(t, AssignStaffOnly, appt.AssignmentType)

		held := bookedBy(t, env, availability.EntityStaff, "alice", testDate, appt.ID)
		require.Len(t, held, 2, "a 60-minute booking holds two 30-minute slots")
		assert.Equal(t, "10:00", held[0].StartTime)
		assert.Equal(t, "10:30", held[1].StartTime)

		stored, err := env.repo.GetByID(ctx, testOrg, appt.ID)
		require.NoError(t, err)
		assert.Equal(t, appt.ID, stored.ID)
	})

	t.Run("confirmation requirement yields pending status", func(t *testing.T) {
		cfg := defaultConfig()
		cfg.RequireConfirmation = true
		env := newLifecycleEnv(cfg, nil)

		appt, err := env.svc.Create(ctx, createReq(at10))
		require.NoError(t, err)
		assert.Equal(t, StatusPending, appt.Status)
	})

	t.Run("hybrid with required pairing holds staff and resource", func(t *testing.T) {
		cfg := defaultConfig()
		cfg.AppointmentModel = organization.ModelHybrid
		cfg.RequireResourceAssignment = true
		env := newLifecycleEnv(cfg, nil)

		appt, err := env.svc.Create(ctx, createReq(at10))
		require.NoError(t, err)
		assert.Equal(t, AssignStaffAndResource, appt.AssignmentType)
		assert.Len(t, bookedBy(t, env, availability.EntityStaff, appt.StaffID, testDate, appt.ID), 2)
		assert.Len(t, bookedBy(t, env, availability.EntityResource, appt.ResourceID, testDate, appt.ID), 2)
	})

	t.Run("a buffered grid never yields a partially held booking", func(t *testing.T) {
		cfg := defaultConfig()
		cfg.BufferBetweenAppointments = 10
		dir := &fakeDirectory{
			staff: []*availability.Entity{{ID: "alice", Name: "Alice", Schedule: weekdayTemplate}},
		}
		env := newLifecycleEnv(cfg, dir)

		// 60 minutes cannot fit a grid of 30-minute slots with 10-minute
		// gaps, so the request must fail outright instead of holding a
		// fraction of the window.
		at9 := time.Date(2026, 3, 2, 9, 0, 0, 0, time.UTC)
		_, err := env.svc.Create(ctx, createReq(at9))
		assert.ErrorIs(t, err, ErrNoStaffAvailable)

		record, err := env.availMem.Get(ctx, testOrg, availability.EntityStaff, "alice", testDate)
		require.NoError(t, err)
		assert.Nil(t, record, "a failed assignment must not leave reservations behind")

		// A slot-sized booking on a grid boundary holds its whole window.
		req := createReq(time.Date(2026, 3, 2, 9, 40, 0, 0, time.UTC))
		req.Duration = 30
		appt, err := env.svc.Create(ctx, req)
		require.NoError(t, err)

		held := bookedBy(t, env, availability.EntityStaff, "alice", testDate, appt.ID)
		require.Len(t, held, 1)
		assert.Equal(t, "09:40", held[0].StartTime)
		assert.Equal(t, "10:10", held[0].EndTime)

		// An overlapping attempt is rejected.
		_, err = env.svc.Create(ctx, req)
		assert.ErrorIs(t, err, ErrNoStaffAvailable)
	})

	t.Run("rejects bookings in the past", func(t *testing.T) {
		env := newLifecycleEnv(defaultConfig(), nil)
		_, err := env.svc.Create(ctx, createReq(testNow.Add(-time.Hour)))
		assert.ErrorIs(t, err, ErrPastBooking)
	})

	t.Run("enforces the advance booking window by calendar day", func(t *testing.T) {
		env := newLifecycleEnv(defaultConfig(), nil)

		// 30 days out lands on the last allowed day.
		onLimit := time.Date(2026, 4, 1, 10, 0, 0, 0, time.UTC)
		_, err := env.svc.Create(ctx, createReq(onLimit))
		assert.NoError(t, err)

		pastLimit := time.Date(2026, 4, 2, 10, 0, 0, 0, time.UTC)
		_, err = env.svc.Create(ctx, createReq(pastLimit))
		assert.ErrorIs(t, err, ErrAdvanceLimit)
	})

	t.Run("advance window ignores the server's local zone", func(t *testing.T) {
		env := newLifecycleEnv(defaultConfig(), nil)
		// Same instant as testNow, but the clock reads March 1st locally.
		west := time.FixedZone("UTC-12", -12*60*60)
		env.svc.now = func() time.Time { return testNow.In(west) }

		onLimit := time.Date(2026, 4, 1, 10, 0, 0, 0, time.UTC)
		_, err := env.svc.Create(ctx, createReq(onLimit))
		assert.NoError(t, err)
	})

	t.Run("rejects windows that would cross midnight", func(t *testing.T) {
		env := newLifecycleEnv(defaultConfig(), nil)
		lateNight := time.Date(2026, 3, 2, 23, 30, 0, 0, time.UTC)
		_, err := env.svc.Create(ctx, createReq(lateNight))
		assert.ErrorIs(t, err, ErrCrossesMidnight)
	})

	t.Run("rejects non positive duration", func(t *testing.T) {
		env := newLifecycleEnv(defaultConfig(), nil)
		req := createReq(at10)
		req.Duration = 0
		_, err := env.svc.Create(ctx, req)
		assert.ErrorIs(t, err, ErrInvalidDuration)
	})

	t.Run("fails when no configuration exists", func(t *testing.T) {
		env := newLifecycleEnv(nil, nil)
		_, err := env.svc.Create(ctx, createReq(at10))
		assert.ErrorIs(t, err, organization.ErrConfigMissing)
	})

	t.Run("single staff cannot take two overlapping bookings", func(t *testing.T) {
		dir := &fakeDirectory{
			staff: []*availability.Entity{{ID: "alice", Name: "Alice", Schedule: weekdayTemplate}},
		}
		env := newLifecycleEnv(defaultConfig(), dir)

		first, err := env.svc.Create(ctx, createReq(at10))
		require.NoError(t, err)

		_, err = env.svc.Create(ctx, createReq(at10.Add(30*time.Minute)))
		assert.ErrorIs(t, err, ErrNoStaffAvailable)

		// The winner keeps its slots.
		assert.Len(t, bookedBy(t, env, availability.EntityStaff, "alice", testDate, first.ID), 2)
	})

	t.Run("releases held slots when persistence fails", func(t *testing.T) {
		env := newLifecycleEnv(defaultConfig(), nil)
		env.repo.failNextCreate = true

		_, err := env.svc.Create(ctx, createReq(at10))
		require.Error(t, err)

		record, err := env.availMem.Get(ctx, testOrg, availability.EntityStaff, "alice", testDate)
		require.NoError(t, err)
		require.NotNil(t, record)
		for _, slot := range record.TimeSlots {
			assert.Empty(t, slot.BookedAppointmentID, "slot %s must be released", slot.StartTime)
		}
	})

	t.Run("gives up with a conflict after losing every retry", func(t *testing.T) {
		env := newLifecycleEnv(defaultConfig(), nil)
		raced := &alwaysTakenAvail{Service: env.avail}
		svc := NewService(env.repo, raced, env.orgs, NewAssigner(raced), redisclient.NewNoopLocker()).(*service)
		svc.now = func() time.Time { return testNow }

		_, err := svc.Create(ctx, createReq(at10))
		assert.ErrorIs(t, err, ErrBookingConflict)
	})
}

// alwaysTakenAvail simulates a slot stolen between assignment and reservation
// on every attempt.
type alwaysTakenAvail struct {
	availability.Service
}

func (a *alwaysTakenAvail) BookSlot(context.Context, string, availability.EntityType, string, string, string, string, string) error {
	return availability.ErrSlotTaken
}

func TestCancelAppointment(t *testing.T) {
	ctx := context.Background()
	at10 := time.Date(2026, 3, 2, 10, 0, 0, 0, time.UTC)

	t.Run("late client cancellation applies the penalty", func(t *testing.T) {
		env := newLifecycleEnv(defaultConfig(), nil)
		appt, err := env.svc.Create(ctx, createReq(at10))
		require.NoError(t, err)

		// Two hours before the appointment, inside the 24 hour window.
		cancelled, err := env.svc.Cancel(ctx, testOrg, appt.ID, "client", "changed plans")
		require.NoError(t, err)

		assert.Equal(t, StatusCancelled, cancelled.Status)
		require.NotNil(t, cancelled.Cancellation)
		assert.Equal(t, "client", cancelled.Cancellation.CancelledBy)
		assert.Equal(t, 50.0, cancelled.Cancellation.PenaltyApplied)
		assert.Empty(t, bookedBy(t, env, availability.EntityStaff, "alice", testDate, appt.ID))
	})

	t.Run("early client cancellation is penalty free", func(t *testing.T) {
		env := newLifecycleEnv(defaultConfig(), nil)
		twoDaysOut := time.Date(2026, 3, 4, 10, 0, 0, 0, time.UTC)
		appt, err := env.svc.Create(ctx, createReq(twoDaysOut))
		require.NoError(t, err)

		cancelled, err := env.svc.Cancel(ctx, testOrg, appt.ID, "client", "")
		require.NoError(t, err)
		assert.Zero(t, cancelled.Cancellation.PenaltyApplied)
	})

	t.Run("staff cancellation never incurs a penalty", func(t *testing.T) {
		env := newLifecycleEnv(defaultConfig(), nil)
		appt, err := env.svc.Create(ctx, createReq(at10))
		require.NoError(t, err)

		cancelled, err := env.svc.Cancel(ctx, testOrg, appt.ID, "staff", "sick")
		require.NoError(t, err)
		assert.Zero(t, cancelled.Cancellation.PenaltyApplied)
	})

	t.Run("cancelling twice is rejected", func(t *testing.T) {
		env := newLifecycleEnv(defaultConfig(), nil)
		appt, err := env.svc.Create(ctx, createReq(at10))
		require.NoError(t, err)

		_, err = env.svc.Cancel(ctx, testOrg, appt.ID, "client", "")
		require.NoError(t, err)
		_, err = env.svc.Cancel(ctx, testOrg, appt.ID, "client", "")
		assert.ErrorIs(t, err, ErrInvalidTransition)
	})
}

func TestRescheduleAppointment(t *testing.T) {
	ctx := context.Background()
	at10 := time.Date(2026, 3, 2, 10, 0, 0, 0, time.UTC)
	at14 := time.Date(2026, 3, 2, 14, 0, 0, 0, time.UTC)

	t.Run("moves the reservation and records history", func(t *testing.T) {
		env := newLifecycleEnv(defaultConfig(), nil)
		appt, err := env.svc.Create(ctx, createReq(at10))
		require.NoError(t, err)

		moved, err := env.svc.Reschedule(ctx, testOrg, appt.ID, at14, "client", "running late")
		require.NoError(t, err)

		assert.Equal(t, StatusRescheduled, moved.Status)
		assert.True(t, moved.Datetime.Equal(at14))

		require.Len(t, moved.Rescheduling, 1)
		entry := moved.Rescheduling[0]
		assert.True(t, entry.PreviousDatetime.Equal(at10))
		assert.True(t, entry.NewDatetime.Equal(at14))
		assert.Equal(t, "client", entry.RescheduledBy)

		held := bookedBy(t, env, availability.EntityStaff, "alice", testDate, appt.ID)
		require.Len(t, held, 2)
		assert.Equal(t, "14:00", held[0].StartTime)
	})

	t.Run("restores the old window when the new one is taken", func(t *testing.T) {
		dir := &fakeDirectory{
			staff: []*availability.Entity{{ID: "alice", Name: "Alice", Schedule: weekdayTemplate}},
		}
		env := newLifecycleEnv(defaultConfig(), dir)

		blocker, err := env.svc.Create(ctx, createReq(at14))
		require.NoError(t, err)
		appt, err := env.svc.Create(ctx, createReq(at10))
		require.NoError(t, err)

		_, err = env.svc.Reschedule(ctx, testOrg, appt.ID, at14, "client", "")
		assert.ErrorIs(t, err, ErrBookingConflict)

		// Both appointments keep their original reservations.
		held := bookedBy(t, env, availability.EntityStaff, "alice", testDate, appt.ID)
		require.Len(t, held, 2)
		assert.Equal(t, "10:00", held[0].StartTime)
		assert.Len(t, bookedBy(t, env, availability.EntityStaff, "alice", testDate, blocker.ID), 2)
	})

	t.Run("validates the new time against booking policies", func(t *testing.T) {
		env := newLifecycleEnv(defaultConfig(), nil)
		appt, err := env.svc.Create(ctx, createReq(at10))
		require.NoError(t, err)

		_, err = env.svc.Reschedule(ctx, testOrg, appt.ID, testNow.Add(-time.Hour), "client", "")
		assert.ErrorIs(t, err, ErrPastBooking)

		lateNight := time.Date(2026, 3, 2, 23, 30, 0, 0, time.UTC)
		_, err = env.svc.Reschedule(ctx, testOrg, appt.ID, lateNight, "client", "")
		assert.ErrorIs(t, err, ErrCrossesMidnight)
	})

	t.Run("cancelled appointments cannot be rescheduled", func(t *testing.T) {
		env := newLifecycleEnv(defaultConfig(), nil)
		appt, err := env.svc.Create(ctx, createReq(at10))
		require.NoError(t, err)
		_, err = env.svc.Cancel(ctx, testOrg, appt.ID, "client", "")
		require.NoError(t, err)

		_, err = env.svc.Reschedule(ctx, testOrg, appt.ID, at14, "client", "")
		assert.ErrorIs(t, err, ErrInvalidTransition)
	})
}

func TestUpdateAppointment(t *testing.T) {
	ctx := context.Background()
	at10 := time.Date(2026, 3, 2, 10, 0, 0, 0, time.UTC)
	at14 := time.Date(2026, 3, 2, 14, 0, 0, 0, time.UTC)

	t.Run("field only changes leave the reservation alone", func(t *testing.T) {
		env := newLifecycleEnv(defaultConfig(), nil)
		appt, err := env.svc.Create(ctx, createReq(at10))
		require.NoError(t, err)

		notes := "bring towels"
		updated, err := env.svc.Update(ctx, testOrg, appt.ID, UpdateRequest{Notes: &notes})
		require.NoError(t, err)

		assert.Equal(t, "bring towels", updated.Notes)
		held := bookedBy(t, env, availability.EntityStaff, "alice", testDate, appt.ID)
		require.Len(t, held, 2)
		assert.Equal(t, "10:00", held[0].StartTime)
	})

	t.Run("datetime change moves the reservation", func(t *testing.T) {
		env := newLifecycleEnv(defaultConfig(), nil)
		appt, err := env.svc.Create(ctx, createReq(at10))
		require.NoError(t, err)

		updated, err := env.svc.Update(ctx, testOrg, appt.ID, UpdateRequest{Datetime: &at14})
		require.NoError(t, err)

		assert.True(t, updated.Datetime.Equal(at14))
		held := bookedBy(t, env, availability.EntityStaff, "alice", testDate, appt.ID)
		require.Len(t, held, 2)
		assert.Equal(t, "14:00", held[0].StartTime)
	})

	t.Run("staff change rebooks onto the new entity", func(t *testing.T) {
		env := newLifecycleEnv(defaultConfig(), nil)
		appt, err := env.svc.Create(ctx, createReq(at10))
		require.NoError(t, err)
		require.Equal(t, "alice", appt.StaffID)

		newStaff := "bob"
		updated, err := env.svc.Update(ctx, testOrg, appt.ID, UpdateRequest{StaffID: &newStaff})
		require.NoError(t, err)

		assert.Equal(t, "bob", updated.StaffID)
		assert.Empty(t, bookedBy(t, env, availability.EntityStaff, "alice", testDate, appt.ID))
		assert.Len(t, bookedBy(t, env, availability.EntityStaff, "bob", testDate, appt.ID), 2)
	})

	t.Run("unknown appointment", func(t *testing.T) {
		env := newLifecycleEnv(defaultConfig(), nil)
		_, err := env.svc.Update(ctx, testOrg, "missing", UpdateRequest{})
		assert.ErrorIs(t, err, ErrNotFound)
	})
}

func TestUpdateStatus(t *testing.T) {
	ctx := context.Background()
	at10 := time.Date(2026, 3, 2, 10, 0, 0, 0, time.UTC)

	env := newLifecycleEnv(defaultConfig(), nil)
	appt, err := env.svc.Create(ctx, createReq(at10))
	require.NoError(t, err)
	require.Equal(t, StatusConfirmed, appt.Status)

	t.Run("legal transition", func(t *testing.T) {
		updated, err := env.svc.UpdateStatus(ctx, testOrg, appt.ID, StatusCompleted)
		require.NoError(t, err)
		assert.Equal(t, StatusCompleted, updated.Status)
	})

	t.Run("terminal state refuses further transitions", func(t *testing.T) {
		_, err := env.svc.UpdateStatus(ctx, testOrg, appt.ID, StatusConfirmed)
		assert.ErrorIs(t, err, ErrInvalidTransition)
	})

	t.Run("unknown status", func(t *testing.T) {
		_, err := env.svc.UpdateStatus(ctx, testOrg, appt.ID, Status("archived"))
		assert.ErrorIs(t, err, ErrInvalidTransition)
	})
}

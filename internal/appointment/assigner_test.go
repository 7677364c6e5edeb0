package appointment

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/slotwise/booking-backend/internal/availability"
	"github.com/slotwise/booking-backend/internal/organization"
)

func newAssignerEnv() (*Assigner, availability.Service) {
	dir := &fakeDirectory{
		staff: []*availability.Entity{
			{ID: "alice", Name: "Alice", Schedule: weekdayTemplate, Specialties: []string{"massage"}},
			{ID: "bob", Name: "Bob", Schedule: weekdayTemplate, Specialties: []string{"haircut"}},
		},
		resources: []*availability.Entity{
			{ID: "room-1", Name: "Room 1", Schedule: weekdayTemplate},
			{ID: "room-2", Name: "Room 2", Schedule: weekdayTemplate},
		},
	}
	avail := availability.NewService(availability.NewMemoryRepository(), dir, 30)
	return NewAssigner(avail), avail
}

func assignReq() AssignRequest {
	return AssignRequest{
		OrgID:     testOrg,
		Date:      testDate,
		StartTime: "10:00",
		Duration:  60,
	}
}

func TestAssignProfessionalModel(t *testing.T) {
	ctx := context.Background()
	cfg := defaultConfig()

	t.Run("picks the first available staff member", func(t *testing.T) {
		assigner, _ := newAssignerEnv()
		got, err := assigner.Assign(ctx, cfg, assignReq())
		require.NoError(t, err)
		assert.Equal(t, "alice", got.StaffID)
		assert.Empty(t, got.ResourceID)
		assert.Equal(t, AssignStaffOnly, got.AssignmentType)
	})

	t.Run("honors the preferred staff member", func(t *testing.T) {
		assigner, _ := newAssignerEnv()
		req := assignReq()
		req.PreferredStaffID = "bob"
		got, err := assigner.Assign(ctx, cfg, req)
		require.NoError(t, err)
		assert.Equal(t, "bob", got.StaffID)
	})

	t.Run("filters by specialty", func(t *testing.T) {
		assigner, _ := newAssignerEnv()
		req := assignReq()
		req.Specialties = []string{"haircut"}
		got, err := assigner.Assign(ctx, cfg, req)
		require.NoError(t, err)
		assert.Equal(t, "bob", got.StaffID)
	})

	t.Run("busy preferred staff fails rather than substituting", func(t *testing.T) {
		assigner, avail := newAssignerEnv()
		_, err := avail.Generate(context.Background(), availability.GenerateRequest{
			OrgID: testOrg, EntityType: availability.EntityStaff, EntityID: "bob",
			StartDate: testDate, EndDate: testDate,
		})
		require.NoError(t, err)
		require.NoError(t, avail.BookSlot(ctx, testOrg, availability.EntityStaff, "bob", testDate, "10:00", "11:00", "other"))

		req := assignReq()
		req.PreferredStaffID = "bob"
		_, err = assigner.Assign(ctx, cfg, req)
		assert.ErrorIs(t, err, ErrStaffUnavailable)
	})

	t.Run("skips busy staff when auto picking", func(t *testing.T) {
		assigner, avail := newAssignerEnv()
		_, err := avail.Generate(context.Background(), availability.GenerateRequest{
			OrgID: testOrg, EntityType: availability.EntityStaff, EntityID: "alice",
			StartDate: testDate, EndDate: testDate,
		})
		require.NoError(t, err)
		require.NoError(t, avail.BookSlot(ctx, testOrg, availability.EntityStaff, "alice", testDate, "10:00", "11:00", "other"))

		got, err := assigner.Assign(ctx, cfg, assignReq())
		require.NoError(t, err)
		assert.Equal(t, "bob", got.StaffID, "alice is busy at 10:00 so bob takes it")
	})

	t.Run("no staff free at the requested time", func(t *testing.T) {
		assigner, avail := newAssignerEnv()
		for _, id := range []string{"alice", "bob"} {
			_, err := avail.Generate(context.Background(), availability.GenerateRequest{
				OrgID: testOrg, EntityType: availability.EntityStaff, EntityID: id,
				StartDate: testDate, EndDate: testDate,
			})
			require.NoError(t, err)
			require.NoError(t, avail.BookSlot(ctx, testOrg, availability.EntityStaff, id, testDate, "10:00", "11:00", "other"))
		}

		_, err := assigner.Assign(ctx, cfg, assignReq())
		assert.ErrorIs(t, err, ErrNoStaffAvailable)
	})
}

func TestAssignResourceModel(t *testing.T) {
	ctx := context.Background()
	cfg := defaultConfig()
	cfg.AppointmentModel = organization.ModelResource

	t.Run("picks the first available resource", func(t *testing.T) {
		assigner, _ := newAssignerEnv()
		got, err := assigner.Assign(ctx, cfg, assignReq())
		require.NoError(t, err)
		assert.Equal(t, "room-1", got.ResourceID)
		assert.Empty(t, got.StaffID)
		assert.Equal(t, AssignResourceOnly, got.AssignmentType)
	})

	t.Run("busy preferred resource fails", func(t *testing.T) {
		assigner, avail := newAssignerEnv()
		_, err := avail.Generate(context.Background(), availability.GenerateRequest{
			OrgID: testOrg, EntityType: availability.EntityResource, EntityID: "room-1",
			StartDate: testDate, EndDate: testDate,
		})
		require.NoError(t, err)
		require.NoError(t, avail.BookSlot(ctx, testOrg, availability.EntityResource, "room-1", testDate, "10:00", "11:00", "other"))

		req := assignReq()
		req.PreferredResourceID = "room-1"
		_, err = assigner.Assign(ctx, cfg, req)
		assert.ErrorIs(t, err, ErrResourceUnavailable)
	})
}

func TestAssignHybridModel(t *testing.T) {
	ctx := context.Background()

	t.Run("required pairing books both", func(t *testing.T) {
		cfg := defaultConfig()
		cfg.AppointmentModel = organization.ModelHybrid
		cfg.RequireResourceAssignment = true

		assigner, _ := newAssignerEnv()
		got, err := assigner.Assign(ctx, cfg, assignReq())
		require.NoError(t, err)
		assert.Equal(t, "alice", got.StaffID)
		assert.Equal(t, "room-1", got.ResourceID)
		assert.Equal(t, AssignStaffAndResource, got.AssignmentType)
	})

	t.Run("without pairing a staff preference wins", func(t *testing.T) {
		cfg := defaultConfig()
		cfg.AppointmentModel = organization.ModelHybrid

		assigner, _ := newAssignerEnv()
		req := assignReq()
		req.PreferredStaffID = "bob"
		got, err := assigner.Assign(ctx, cfg, req)
		require.NoError(t, err)
		assert.Equal(t, "bob", got.StaffID)
		assert.Empty(t, got.ResourceID)
	})

	t.Run("without pairing a resource preference wins", func(t *testing.T) {
		cfg := defaultConfig()
		cfg.AppointmentModel = organization.ModelHybrid

		assigner, _ := newAssignerEnv()
		req := assignReq()
		req.PreferredResourceID = "room-2"
		got, err := assigner.Assign(ctx, cfg, req)
		require.NoError(t, err)
		assert.Equal(t, "room-2", got.ResourceID)
		assert.Empty(t, got.StaffID)
	})

	t.Run("both preferences conflict", func(t *testing.T) {
		cfg := defaultConfig()
		cfg.AppointmentModel = organization.ModelHybrid

		assigner, _ := newAssignerEnv()
		req := assignReq()
		req.PreferredStaffID = "alice"
		req.PreferredResourceID = "room-1"
		_, err := assigner.Assign(ctx, cfg, req)
		assert.ErrorIs(t, err, ErrConflictingPreference)
	})

	t.Run("no preference falls back to staff then resources", func(t *testing.T) {
		cfg := defaultConfig()
		cfg.AppointmentModel = organization.ModelHybrid

		assigner, avail := newAssignerEnv()
		for _, id := range []string{"alice", "bob"} {
			_, err := avail.Generate(context.Background(), availability.GenerateRequest{
				OrgID: testOrg, EntityType: availability.EntityStaff, EntityID: id,
				StartDate: testDate, EndDate: testDate,
			})
			require.NoError(t, err)
			require.NoError(t, avail.BookSlot(ctx, testOrg, availability.EntityStaff, id, testDate, "10:00", "11:00", "other"))
		}

		got, err := assigner.Assign(ctx, cfg, assignReq())
		require.NoError(t, err)
		assert.Equal(t, "room-1", got.ResourceID, "all staff busy, first resource takes it")
	})
}

func TestAssignInvalidModel(t *testing.T) {
	cfg := defaultConfig()
	cfg.AppointmentModel = "walk_in"

	assigner, _ := newAssignerEnv()
	_, err := assigner.Assign(context.Background(), cfg, assignReq())
	assert.ErrorIs(t, err, organization.ErrInvalidModel)
}

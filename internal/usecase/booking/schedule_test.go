package booking

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/BruksfildServices01/clinic-scheduler/internal/audit"
	"github.com/BruksfildServices01/clinic-scheduler/internal/blob"
	"github.com/BruksfildServices01/clinic-scheduler/internal/config"
	"github.com/BruksfildServices01/clinic-scheduler/internal/domain/schedule"
	"github.com/BruksfildServices01/clinic-scheduler/internal/httperr"
	"github.com/BruksfildServices01/clinic-scheduler/internal/models"
	"github.com/BruksfildServices01/clinic-scheduler/internal/store"
)

func newManageSchedule() (*ManageSchedule, *store.ScheduleStore) {
	cfg := &config.Config{
		SlotTimes:      []string{"09:00", "10:00"},
		HorizonDays:    3,
		ClinicTimezone: "UTC",
	}
	schedules := store.NewScheduleStore(blob.NewMemoryStore())
	uc := NewManageSchedule(cfg, schedules, NewDoctorLocks(), audit.NewDispatcher(audit.New(nil)))
	return uc, schedules
}

func TestInitializePublishesCalendar(t *testing.T) {
	uc, schedules := newManageSchedule()
	ctx := context.Background()

	cal, err := uc.Initialize(ctx, "doc-1")
	require.NoError(t, err)
	assert.Len(t, cal.Slots, 6)

	stored, err := schedules.Load(ctx, "doc-1")
	require.NoError(t, err)
	assert.Equal(t, cal.Slots, stored.Slots)
}

func TestInitializeIsIdempotent(t *testing.T) {
	uc, _ := newManageSchedule()
	ctx := context.Background()

	cal, err := uc.Initialize(ctx, "doc-1")
	require.NoError(t, err)

	ts := cal.Slots[0].Time
	_, err = uc.BlockSlot(ctx, "doc-1", ts)
	require.NoError(t, err)

	again, err := uc.Initialize(ctx, "doc-1")
	require.NoError(t, err)

	slot, ok := again.SlotAt(ts)
	require.True(t, ok)
	assert.Equal(t, schedule.LabelUnavailable, slot.Label)
}

func TestExtendGrowsHorizon(t *testing.T) {
	uc, _ := newManageSchedule()
	ctx := context.Background()

	cal, err := uc.Initialize(ctx, "doc-1")
	require.NoError(t, err)
	before := len(cal.Slots)

	cal, err = uc.Extend(ctx, "doc-1", 2)
	require.NoError(t, err)
	assert.Len(t, cal.Slots, before+4)
}

func TestBlockAndUnblockSlot(t *testing.T) {
	uc, _ := newManageSchedule()
	ctx := context.Background()

	cal, err := uc.Initialize(ctx, "doc-1")
	require.NoError(t, err)
	ts := cal.Slots[0].Time

	cal, err = uc.BlockSlot(ctx, "doc-1", ts)
	require.NoError(t, err)
	slot, _ := cal.SlotAt(ts)
	assert.Equal(t, schedule.LabelUnavailable, slot.Label)

	// blocking twice fails, the slot is no longer available
	_, err = uc.BlockSlot(ctx, "doc-1", ts)
	require.EqualError(t, err, "slot_unavailable")

	cal, err = uc.UnblockSlot(ctx, "doc-1", ts)
	require.NoError(t, err)
	slot, _ = cal.SlotAt(ts)
	assert.Equal(t, schedule.LabelAvailable, slot.Label)
}

// ------------------------------
// Availability
// ------------------------------

type fakeDirectory struct {
	doctors []models.User
}

func (d *fakeDirectory) UserByID(_ context.Context, id string) (*models.User, error) {
	for i := range d.doctors {
		if d.doctors[i].ID == id {
			return &d.doctors[i], nil
		}
	}
	return nil, httperr.ErrBusiness("user_not_found")
}

func (d *fakeDirectory) UsersByRole(_ context.Context, role string) ([]models.User, error) {
	var out []models.User
	for _, u := range d.doctors {
		if u.Role == role {
			out = append(out, u)
		}
	}
	return out, nil
}

func TestGetAvailabilitySkipsDoctorsWithoutSchedule(t *testing.T) {
	manage, schedules := newManageSchedule()
	ctx := context.Background()

	_, err := manage.Initialize(ctx, "doc-1")
	require.NoError(t, err)

	dir := &fakeDirectory{doctors: []models.User{
		{ID: "doc-1", Name: "Dr. Alice", Role: models.RoleDoctor},
		{ID: "doc-2", Name: "Dr. Bob", Role: models.RoleDoctor},
	}}

	uc := NewGetAvailability(schedules, dir)

	out, err := uc.Execute(ctx)
	require.NoError(t, err)
	require.Len(t, out, 1)
	assert.Equal(t, "doc-1", out[0].DoctorID)
	assert.Equal(t, "Dr. Alice", out[0].DoctorName)
	assert.Len(t, out[0].Slots, 6)
}

func TestGetAvailabilityForDoctorHidesTakenSlots(t *testing.T) {
	manage, schedules := newManageSchedule()
	ctx := context.Background()

	cal, err := manage.Initialize(ctx, "doc-1")
	require.NoError(t, err)
	_, err = manage.BlockSlot(ctx, "doc-1", cal.Slots[0].Time)
	require.NoError(t, err)

	dir := &fakeDirectory{doctors: []models.User{
		{ID: "doc-1", Name: "Dr. Alice", Role: models.RoleDoctor},
	}}

	uc := NewGetAvailability(schedules, dir)

	out, err := uc.ExecuteForDoctor(ctx, "doc-1")
	require.NoError(t, err)
	assert.Len(t, out.Slots, 5)
	assert.NotContains(t, out.Slots, cal.Slots[0].Time)
}

func TestGetAvailabilityUnknownDoctor(t *testing.T) {
	_, schedules := newManageSchedule()

	uc := NewGetAvailability(schedules, &fakeDirectory{})
	_, err := uc.ExecuteForDoctor(context.Background(), "doc-9")
	require.EqualError(t, err, "doctor_not_found")
}

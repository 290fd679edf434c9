package booking

import (
	"context"

	"github.com/BruksfildServices01/clinic-scheduler/internal/audit"
	"github.com/BruksfildServices01/clinic-scheduler/internal/config"
	"github.com/BruksfildServices01/clinic-scheduler/internal/domain/schedule"
	"github.com/BruksfildServices01/clinic-scheduler/internal/store"
	"github.com/BruksfildServices01/clinic-scheduler/internal/timezone"
)

// ManageSchedule groups the doctor-facing calendar operations: publishing
// the initial horizon, extending it, and blocking or reopening individual
// slots.
type ManageSchedule struct {
	cfg       *config.Config
	schedules *store.ScheduleStore
	locks     *DoctorLocks
	audit     *audit.Dispatcher
}

func NewManageSchedule(
	cfg *config.Config,
	schedules *store.ScheduleStore,
	locks *DoctorLocks,
	audit *audit.Dispatcher,
) *ManageSchedule {
	return &ManageSchedule{
		cfg:       cfg,
		schedules: schedules,
		locks:     locks,
		audit:     audit,
	}
}

// Initialize publishes the doctor's calendar from the clinic's daily slot
// template. Calling it again returns the existing calendar untouched.
func (uc *ManageSchedule) Initialize(
	ctx context.Context,
	doctorID string,
) (*schedule.Calendar, error) {

	unlock := uc.locks.Lock(doctorID)
	defer unlock()

	now := timezone.NowIn(uc.cfg.ClinicTimezone)
	cal, err := uc.schedules.LoadOrInit(ctx, doctorID, uc.cfg.SlotTimes, uc.cfg.HorizonDays, now)
	if err != nil {
		return nil, err
	}

	uc.audit.Dispatch(audit.Event{
		UserID: &doctorID,
		Action: "schedule_initialized",
		Entity: "schedule",
	})

	return cal, nil
}

// Extend appends additionalDays of template slots after the current
// horizon. Existing slots keep their labels.
func (uc *ManageSchedule) Extend(
	ctx context.Context,
	doctorID string,
	additionalDays int,
) (*schedule.Calendar, error) {

	unlock := uc.locks.Lock(doctorID)
	defer unlock()

	cal, err := uc.schedules.Load(ctx, doctorID)
	if err != nil {
		return nil, err
	}

	now := timezone.NowIn(uc.cfg.ClinicTimezone)
	cal.Extend(uc.cfg.SlotTimes, additionalDays, now)

	if err := uc.schedules.Save(ctx, cal); err != nil {
		return nil, err
	}
	return cal, nil
}

// View returns the doctor's full calendar, every label included.
func (uc *ManageSchedule) View(
	ctx context.Context,
	doctorID string,
) (*schedule.Calendar, error) {
	return uc.schedules.Load(ctx, doctorID)
}

// BlockSlot marks an available slot unavailable so patients cannot request
// it. Confirmed slots cannot be blocked.
func (uc *ManageSchedule) BlockSlot(
	ctx context.Context,
	doctorID, timestamp string,
) (*schedule.Calendar, error) {

	unlock := uc.locks.Lock(doctorID)
	defer unlock()

	cal, err := uc.schedules.Load(ctx, doctorID)
	if err != nil {
		return nil, err
	}
	if err := cal.MarkUnavailable(timestamp); err != nil {
		return nil, err
	}
	if err := uc.schedules.Save(ctx, cal); err != nil {
		return nil, err
	}

	uc.audit.Dispatch(audit.Event{
		UserID:   &doctorID,
		Action:   "slot_blocked",
		Entity:   "schedule",
		EntityID: &timestamp,
	})

	return cal, nil
}

// UnblockSlot reopens a slot the doctor blocked earlier.
func (uc *ManageSchedule) UnblockSlot(
	ctx context.Context,
	doctorID, timestamp string,
) (*schedule.Calendar, error) {

	unlock := uc.locks.Lock(doctorID)
	defer unlock()

	cal, err := uc.schedules.Load(ctx, doctorID)
	if err != nil {
		return nil, err
	}

	slot, ok := cal.SlotAt(timestamp)
	if ok && slot.Label == schedule.LabelUnavailable {
		cal.Release(timestamp)
		if err := uc.schedules.Save(ctx, cal); err != nil {
			return nil, err
		}
	}
	return cal, nil
}

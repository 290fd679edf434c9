package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/BruksfildServices01/clinic-scheduler/internal/blob"
	"github.com/BruksfildServices01/clinic-scheduler/internal/domain/schedule"
	"github.com/BruksfildServices01/clinic-scheduler/internal/httperr"
)

// ScheduleStore persists one calendar blob per doctor. A save always rewrites
// the doctor's whole calendar; callers serialize access per doctor (the
// booking usecases hold a per-doctor lock around load/mutate/save).
type ScheduleStore struct {
	blobs blob.Store
}

func NewScheduleStore(blobs blob.Store) *ScheduleStore {
	return &ScheduleStore{blobs: blobs}
}

func scheduleKey(doctorID string) string {
	return "schedule:" + doctorID
}

func (s *ScheduleStore) Load(ctx context.Context, doctorID string) (*schedule.Calendar, error) {
	raw, err := s.blobs.Load(ctx, scheduleKey(doctorID))
	if err != nil {
		if errors.Is(err, blob.ErrNotFound) {
			return nil, httperr.ErrBusiness("schedule_not_found")
		}
		return nil, fmt.Errorf("load schedule %s: %w", doctorID, err)
	}

	var cal schedule.Calendar
	if err := json.Unmarshal(raw, &cal); err != nil {
		return nil, fmt.Errorf("decode schedule %s: %w", doctorID, err)
	}
	return &cal, nil
}

func (s *ScheduleStore) Save(ctx context.Context, cal *schedule.Calendar) error {
	raw, err := json.Marshal(cal)
	if err != nil {
		return fmt.Errorf("encode schedule %s: %w", cal.DoctorID, err)
	}
	if err := s.blobs.Save(ctx, scheduleKey(cal.DoctorID), raw); err != nil {
		return fmt.Errorf("save schedule %s: %w", cal.DoctorID, err)
	}
	return nil
}

// LoadOrInit returns the doctor's calendar, generating and saving a fresh one
// from the template when the doctor has none yet.
func (s *ScheduleStore) LoadOrInit(
	ctx context.Context,
	doctorID string,
	templateTimes []string,
	horizonDays int,
	now time.Time,
) (*schedule.Calendar, error) {

	cal, err := s.Load(ctx, doctorID)
	if err == nil {
		return cal, nil
	}
	if !httperr.IsBusiness(err, "schedule_not_found") {
		return nil, err
	}

	cal = schedule.New(doctorID, templateTimes, horizonDays, now)
	if err := s.Save(ctx, cal); err != nil {
		return nil, err
	}
	return cal, nil
}

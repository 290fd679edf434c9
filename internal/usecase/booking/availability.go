package booking

import (
	"context"

	"github.com/BruksfildServices01/clinic-scheduler/internal/httperr"
	"github.com/BruksfildServices01/clinic-scheduler/internal/models"
	"github.com/BruksfildServices01/clinic-scheduler/internal/store"
)

// Directory resolves user records for the scheduling flows. Backed by the
// relational user table, not the blob collections.
type Directory interface {
	UserByID(ctx context.Context, id string) (*models.User, error)
	UsersByRole(ctx context.Context, role string) ([]models.User, error)
}

type DoctorAvailability struct {
	DoctorID   string   `json:"doctor_id"`
	DoctorName string   `json:"doctor_name"`
	Slots      []string `json:"slots"`
}

type GetAvailability struct {
	schedules *store.ScheduleStore
	directory Directory
}

func NewGetAvailability(
	schedules *store.ScheduleStore,
	directory Directory,
) *GetAvailability {
	return &GetAvailability{
		schedules: schedules,
		directory: directory,
	}
}

// Execute lists the open slots of every active doctor. Doctors who have not
// published a schedule yet are skipped rather than surfaced as errors.
func (uc *GetAvailability) Execute(ctx context.Context) ([]DoctorAvailability, error) {
	doctors, err := uc.directory.UsersByRole(ctx, models.RoleDoctor)
	if err != nil {
		return nil, err
	}

	out := make([]DoctorAvailability, 0, len(doctors))
	for _, doc := range doctors {
		cal, err := uc.schedules.Load(ctx, doc.ID)
		if err != nil {
			if httperr.IsBusiness(err, "schedule_not_found") {
				continue
			}
			return nil, err
		}

		av := DoctorAvailability{DoctorID: doc.ID, DoctorName: doc.Name}
		for _, s := range cal.Available() {
			av.Slots = append(av.Slots, s.Time)
		}
		out = append(out, av)
	}
	return out, nil
}

// ExecuteForDoctor lists the open slots of a single doctor.
func (uc *GetAvailability) ExecuteForDoctor(
	ctx context.Context,
	doctorID string,
) (*DoctorAvailability, error) {

	doc, err := uc.directory.UserByID(ctx, doctorID)
	if err != nil || doc.Role != models.RoleDoctor {
		return nil, httperr.ErrBusiness("doctor_not_found")
	}

	cal, err := uc.schedules.Load(ctx, doctorID)
	if err != nil {
		return nil, err
	}

	av := &DoctorAvailability{DoctorID: doc.ID, DoctorName: doc.Name}
	for _, s := range cal.Available() {
		av.Slots = append(av.Slots, s.Time)
	}
	return av, nil
}

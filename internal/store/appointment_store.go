package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/BruksfildServices01/clinic-scheduler/internal/blob"
	"github.com/BruksfildServices01/clinic-scheduler/internal/domain/appointment"
	"github.com/BruksfildServices01/clinic-scheduler/internal/httperr"
)

const appointmentsKey = "appointments"

// AppointmentStore is the canonical appointment collection. The whole list
// lives under a single blob key and is rewritten after every mutation; a
// store-level mutex makes each mutation a single atomic load/mutate/save
// step.
type AppointmentStore struct {
	mu    sync.Mutex
	blobs blob.Store
}

func NewAppointmentStore(blobs blob.Store) *AppointmentStore {
	return &AppointmentStore{blobs: blobs}
}

func (s *AppointmentStore) load(ctx context.Context) ([]appointment.Appointment, error) {
	raw, err := s.blobs.Load(ctx, appointmentsKey)
	if err != nil {
		if errors.Is(err, blob.ErrNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("load appointments: %w", err)
	}

	var list []appointment.Appointment
	if err := json.Unmarshal(raw, &list); err != nil {
		return nil, fmt.Errorf("decode appointments: %w", err)
	}
	return list, nil
}

func (s *AppointmentStore) save(ctx context.Context, list []appointment.Appointment) error {
	raw, err := json.Marshal(list)
	if err != nil {
		return fmt.Errorf("encode appointments: %w", err)
	}
	if err := s.blobs.Save(ctx, appointmentsKey, raw); err != nil {
		return fmt.Errorf("save appointments: %w", err)
	}
	return nil
}

// Create allocates a fresh pending appointment. A patient may hold at most
// one non-canceled appointment per timestamp, with any doctor.
func (s *AppointmentStore) Create(
	ctx context.Context,
	patientID, doctorID, timestamp string,
) (*appointment.Appointment, error) {

	s.mu.Lock()
	defer s.mu.Unlock()

	list, err := s.load(ctx)
	if err != nil {
		return nil, err
	}

	for i := range list {
		if list[i].PatientID == patientID &&
			list[i].Time == timestamp &&
			appointment.IsActive(list[i].Status) {
			return nil, httperr.ErrBusiness("duplicate_booking")
		}
	}

	now := time.Now()
	ap := appointment.Appointment{
		ID:        appointment.NewID(),
		PatientID: patientID,
		DoctorID:  doctorID,
		Time:      timestamp,
		Status:    appointment.StatusPending,
		CreatedAt: now,
		UpdatedAt: now,
	}

	list = append(list, ap)
	if err := s.save(ctx, list); err != nil {
		return nil, err
	}
	return &ap, nil
}

func (s *AppointmentStore) Find(ctx context.Context, id string) (*appointment.Appointment, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	list, err := s.load(ctx)
	if err != nil {
		return nil, err
	}

	for i := range list {
		if list[i].ID == id {
			ap := list[i]
			return &ap, nil
		}
	}
	return nil, httperr.ErrBusiness("appointment_not_found")
}

// ByDoctor lists a doctor's appointments, optionally filtered by status
// (empty status means all).
func (s *AppointmentStore) ByDoctor(
	ctx context.Context,
	doctorID string,
	status appointment.Status,
) ([]appointment.Appointment, error) {

	s.mu.Lock()
	defer s.mu.Unlock()

	list, err := s.load(ctx)
	if err != nil {
		return nil, err
	}

	var out []appointment.Appointment
	for _, ap := range list {
		if ap.DoctorID == doctorID && (status == "" || ap.Status == status) {
			out = append(out, ap)
		}
	}
	return out, nil
}

func (s *AppointmentStore) ByPatient(
	ctx context.Context,
	patientID string,
	status appointment.Status,
) ([]appointment.Appointment, error) {

	s.mu.Lock()
	defer s.mu.Unlock()

	list, err := s.load(ctx)
	if err != nil {
		return nil, err
	}

	var out []appointment.Appointment
	for _, ap := range list {
		if ap.PatientID == patientID && (status == "" || ap.Status == status) {
			out = append(out, ap)
		}
	}
	return out, nil
}

// ByStatus lists every appointment currently in the given status.
func (s *AppointmentStore) ByStatus(
	ctx context.Context,
	status appointment.Status,
) ([]appointment.Appointment, error) {

	s.mu.Lock()
	defer s.mu.Unlock()

	list, err := s.load(ctx)
	if err != nil {
		return nil, err
	}

	var out []appointment.Appointment
	for _, ap := range list {
		if ap.Status == status {
			out = append(out, ap)
		}
	}
	return out, nil
}

// SetStatus applies a state-machine transition and persists the collection.
func (s *AppointmentStore) SetStatus(
	ctx context.Context,
	id string,
	newStatus appointment.Status,
) (*appointment.Appointment, error) {

	return s.update(ctx, id, func(ap *appointment.Appointment) error {
		return appointment.Transition(ap, newStatus)
	})
}

// SetOutcome attaches the outcome of a visit. Allowed only while the
// appointment is confirmed; completing it is a side effect.
func (s *AppointmentStore) SetOutcome(
	ctx context.Context,
	id string,
	outcome appointment.Outcome,
) (*appointment.Appointment, error) {

	return s.update(ctx, id, func(ap *appointment.Appointment) error {
		if ap.Status != appointment.StatusConfirmed {
			return httperr.ErrBusiness("invalid_state")
		}
		ap.Outcome = &outcome
		ap.Status = appointment.StatusCompleted
		return nil
	})
}

// SetTimestamp moves an appointment to a new slot (and possibly doctor).
// Only pending or confirmed appointments can move; the caller is responsible
// for releasing the old slot and re-validating the new one.
func (s *AppointmentStore) SetTimestamp(
	ctx context.Context,
	id, newDoctorID, newTimestamp string,
) (*appointment.Appointment, error) {

	s.mu.Lock()
	defer s.mu.Unlock()

	list, err := s.load(ctx)
	if err != nil {
		return nil, err
	}

	idx := -1
	for i := range list {
		if list[i].ID == id {
			idx = i
			break
		}
	}
	if idx < 0 {
		return nil, httperr.ErrBusiness("appointment_not_found")
	}

	ap := &list[idx]
	if ap.Status != appointment.StatusPending && ap.Status != appointment.StatusConfirmed {
		return nil, httperr.ErrBusiness("invalid_state")
	}

	for i := range list {
		if i != idx &&
			list[i].PatientID == ap.PatientID &&
			list[i].Time == newTimestamp &&
			appointment.IsActive(list[i].Status) {
			return nil, httperr.ErrBusiness("duplicate_booking")
		}
	}

	ap.Time = newTimestamp
	if newDoctorID != "" {
		ap.DoctorID = newDoctorID
	}
	ap.UpdatedAt = time.Now()

	if err := s.save(ctx, list); err != nil {
		return nil, err
	}

	cp := *ap
	return &cp, nil
}

// SetPrescriptionStatus marks one prescription line of a completed
// appointment as dispensed. The (medication, quantity) pair must match a
// still-pending line; a line is dispensed at most once.
func (s *AppointmentStore) SetPrescriptionStatus(
	ctx context.Context,
	id, medicationName string,
	quantity int,
	status string,
) (*appointment.Appointment, error) {

	return s.update(ctx, id, func(ap *appointment.Appointment) error {
		if ap.Status != appointment.StatusCompleted || ap.Outcome == nil {
			return httperr.ErrBusiness("invalid_state")
		}

		for i := range ap.Outcome.Prescriptions {
			p := &ap.Outcome.Prescriptions[i]
			if p.MedicationName == medicationName && p.Quantity == quantity {
				if p.Status == appointment.PrescriptionDispensed {
					return httperr.ErrBusiness("already_dispensed")
				}
				p.Status = status
				return nil
			}
		}
		return httperr.ErrBusiness("prescription_not_found")
	})
}

func (s *AppointmentStore) update(
	ctx context.Context,
	id string,
	mutate func(*appointment.Appointment) error,
) (*appointment.Appointment, error) {

	s.mu.Lock()
	defer s.mu.Unlock()

	list, err := s.load(ctx)
	if err != nil {
		return nil, err
	}

	for i := range list {
		if list[i].ID != id {
			continue
		}

		if err := mutate(&list[i]); err != nil {
			return nil, err
		}
		list[i].UpdatedAt = time.Now()

		if err := s.save(ctx, list); err != nil {
			return nil, err
		}

		ap := list[i]
		return &ap, nil
	}
	return nil, httperr.ErrBusiness("appointment_not_found")
}

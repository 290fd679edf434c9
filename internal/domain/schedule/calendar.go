package schedule

import (
	"time"

	"github.com/BruksfildServices01/clinic-scheduler/internal/httperr"
)

// TimeLayout is the normalized form every slot timestamp is stored and
// compared in. Lookups are exact string matches on this form; there is no
// window or overlap reasoning, a slot is a discrete unit.
const TimeLayout = "2006-01-02 15:04"

type Label string

const (
	LabelAvailable   Label = "available"
	LabelUnavailable Label = "unavailable"
	LabelConfirmed   Label = "confirmed"
)

type Slot struct {
	Time  string `json:"time"`
	Label Label  `json:"label"`

	// Set only while Label == LabelConfirmed.
	PatientID string `json:"patient_id,omitempty"`
}

// Calendar is one doctor's bookable horizon: the daily time template
// projected over consecutive days, in chronological order, unique by
// timestamp. Slots are never deleted, only relabeled.
type Calendar struct {
	DoctorID string `json:"doctor_id"`
	Slots    []Slot `json:"slots"`
}

func Normalize(t time.Time) string {
	return t.Format(TimeLayout)
}

func Parse(value string, loc *time.Location) (time.Time, error) {
	return time.ParseInLocation(TimeLayout, value, loc)
}

// New builds a calendar covering horizonDays consecutive days starting at
// `from`'s date, crossed with the daily template, all slots available.
func New(doctorID string, templateTimes []string, horizonDays int, from time.Time) *Calendar {
	cal := &Calendar{DoctorID: doctorID}
	cal.appendDays(templateTimes, horizonDays, from)
	return cal
}

// Extend appends additionalDays more days starting the day after the last
// slot. On an empty calendar it behaves like New.
func (c *Calendar) Extend(templateTimes []string, additionalDays int, now time.Time) {
	from := now
	if n := len(c.Slots); n > 0 {
		if last, err := Parse(c.Slots[n-1].Time, now.Location()); err == nil {
			from = last.AddDate(0, 0, 1)
		}
	}
	c.appendDays(templateTimes, additionalDays, from)
}

func (c *Calendar) appendDays(templateTimes []string, days int, from time.Time) {
	day := time.Date(from.Year(), from.Month(), from.Day(), 0, 0, 0, 0, from.Location())

	for i := 0; i < days; i++ {
		current := day.AddDate(0, 0, i)
		for _, hm := range templateTimes {
			t, err := time.Parse("15:04", hm)
			if err != nil {
				continue
			}
			slotTime := time.Date(
				current.Year(), current.Month(), current.Day(),
				t.Hour(), t.Minute(), 0, 0,
				current.Location(),
			)
			c.Slots = append(c.Slots, Slot{
				Time:  Normalize(slotTime),
				Label: LabelAvailable,
			})
		}
	}
}

func (c *Calendar) find(timestamp string) *Slot {
	for i := range c.Slots {
		if c.Slots[i].Time == timestamp {
			return &c.Slots[i]
		}
	}
	return nil
}

// SlotAt returns a copy of the slot with the exact timestamp, if present.
func (c *Calendar) SlotAt(timestamp string) (Slot, bool) {
	if s := c.find(timestamp); s != nil {
		return *s, true
	}
	return Slot{}, false
}

// MarkUnavailable blocks a slot the doctor does not want booked. Only slots
// that exist in the generated template can be blocked, and only while they
// are still available.
func (c *Calendar) MarkUnavailable(timestamp string) error {
	s := c.find(timestamp)
	if s == nil {
		return httperr.ErrBusiness("slot_not_found")
	}
	if s.Label != LabelAvailable {
		return httperr.ErrBusiness("slot_unavailable")
	}

	s.Label = LabelUnavailable
	s.PatientID = ""
	return nil
}

// MarkConfirmed binds an available slot to a patient. The caller is the
// arbitration point for racing bookings: a slot that is no longer available
// fails here, whichever request confirmed first keeps it.
func (c *Calendar) MarkConfirmed(timestamp, patientID string) error {
	s := c.find(timestamp)
	if s == nil {
		return httperr.ErrBusiness("slot_not_found")
	}
	if s.Label != LabelAvailable {
		return httperr.ErrBusiness("slot_unavailable")
	}

	s.Label = LabelConfirmed
	s.PatientID = patientID
	return nil
}

// Release resets a slot back to available after a cancellation or a
// reschedule-away. A missing timestamp is a no-op: the slot may have rolled
// off a regenerated horizon.
func (c *Calendar) Release(timestamp string) {
	if s := c.find(timestamp); s != nil {
		s.Label = LabelAvailable
		s.PatientID = ""
	}
}

// Available returns the bookable slots in chronological order. This is what
// patients see when choosing a time.
func (c *Calendar) Available() []Slot {
	var out []Slot
	for _, s := range c.Slots {
		if s.Label == LabelAvailable {
			out = append(out, s)
		}
	}
	return out
}

// ConfirmedFor returns the slots confirmed with the given patient.
func (c *Calendar) ConfirmedFor(patientID string) []Slot {
	var out []Slot
	for _, s := range c.Slots {
		if s.Label == LabelConfirmed && s.PatientID == patientID {
			out = append(out, s)
		}
	}
	return out
}

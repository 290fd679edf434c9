package booking

import "sync"

// DoctorLocks serializes mutations on a single doctor's calendar. Slot
// validation and the matching save must happen under the same lock or two
// requests could both see a slot as available.
type DoctorLocks struct {
	mu    sync.Mutex
	locks map[string]*sync.Mutex
}

func NewDoctorLocks() *DoctorLocks {
	return &DoctorLocks{locks: make(map[string]*sync.Mutex)}
}

func (l *DoctorLocks) get(doctorID string) *sync.Mutex {
	l.mu.Lock()
	defer l.mu.Unlock()

	m, ok := l.locks[doctorID]
	if !ok {
		m = &sync.Mutex{}
		l.locks[doctorID] = m
	}
	return m
}

// Lock takes the doctor's lock and returns the matching unlock.
func (l *DoctorLocks) Lock(doctorID string) func() {
	m := l.get(doctorID)
	m.Lock()
	return m.Unlock
}

// LockBoth takes two doctor locks in a fixed order so that concurrent
// cross-doctor reschedules cannot deadlock. The two IDs may be equal.
func (l *DoctorLocks) LockBoth(a, b string) func() {
	if a == b {
		return l.Lock(a)
	}
	if a > b {
		a, b = b, a
	}

	first := l.get(a)
	second := l.get(b)
	first.Lock()
	second.Lock()
	return func() {
		second.Unlock()
		first.Unlock()
	}
}

// Package blob is the persistence collaborator of the scheduling core: an
// opaque key/value store where each value is a whole serialized collection
// (one doctor's schedule, the global appointment list). Every mutation in the
// core re-saves the entire owning collection; there are no partial writes and
// no transactions spanning keys, so a crash between two saves can leave two
// collections inconsistent with each other. That window is a documented
// property of the system, not something the backends try to close.
package blob

import (
	"context"
	"errors"
)

var ErrNotFound = errors.New("blob: key not found")

type Store interface {
	Save(ctx context.Context, key string, value []byte) error
	Load(ctx context.Context, key string) ([]byte, error)
}

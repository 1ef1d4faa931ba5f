package binding

import (
	"context"
	"time"
)

// Binding is the current device-to-recipient assignment. At most one binding
// exists per device at any time; re-registration replaces the recipient.
type Binding struct {
	DeviceID    string
	RecipientID string
	UpdatedAt   time.Time
}

// Store is the device-to-recipient binding store. Put and Get on the same
// device must be linearizable: a reader observes either the old or the new
// recipient, never a partial write. Operations on different devices are
// independent.
//
// Implementations return sentinel.ErrNotFound from Get when the device is
// unbound and wrap sentinel.ErrUnavailable on storage I/O failure. No
// implementation retries internally; the caller decides.
type Store interface {
	// Put upserts the binding, unconditionally overwriting any existing
	// recipient for the device. Last writer wins.
	Put(ctx context.Context, deviceID, recipientID string) error

	// Get returns the recipient currently bound to the device.
	Get(ctx context.Context, deviceID string) (string, error)
}

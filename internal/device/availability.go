package device

import (
	"context"
	"errors"
	"sync"
	"time"

	"roomdesk/pkg/client"
)

// ErrSuperseded is returned to a lookup replaced by a newer one for the
// same key before its delay elapsed.
var ErrSuperseded = errors.New("availability lookup superseded")

type AvailabilityBackend interface {
	AvailableDevices(ctx context.Context, start, end time.Time) ([]client.Device, error)
}

type pendingLookup struct {
	cancel context.CancelFunc
}

// Availability debounces device availability lookups per key (one key per
// session): each new lookup cancels the pending one and restarts the delay,
// so only the last slot a user settles on reaches the backend.
type Availability struct {
	delay   time.Duration
	mu      sync.Mutex
	pending map[string]*pendingLookup
}

func NewAvailability(delay time.Duration) *Availability {
	return &Availability{
		delay:   delay,
		pending: make(map[string]*pendingLookup),
	}
}

func (a *Availability) Lookup(ctx context.Context, key string, api AvailabilityBackend, start, end time.Time) ([]client.Device, error) {
	lookupCtx, cancel := context.WithCancel(ctx)
	defer cancel()

	p := &pendingLookup{cancel: cancel}
	a.mu.Lock()
	if prev := a.pending[key]; prev != nil {
		prev.cancel()
	}
	a.pending[key] = p
	a.mu.Unlock()

	defer func() {
		a.mu.Lock()
		if a.pending[key] == p {
			delete(a.pending, key)
		}
		a.mu.Unlock()
	}()

	timer := time.NewTimer(a.delay)
	select {
	case <-timer.C:
	case <-lookupCtx.Done():
		timer.Stop()
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		return nil, ErrSuperseded
	}

	devices, err := api.AvailableDevices(lookupCtx, start, end)
	if err != nil {
		if ctx.Err() == nil && lookupCtx.Err() != nil {
			return nil, ErrSuperseded
		}
		return nil, err
	}
	return InService(devices), nil
}

// Pending reports how many lookups are waiting; for tests and metrics.
func (a *Availability) Pending() int {
	a.mu.Lock()
	defer a.mu.Unlock()
	return len(a.pending)
}

// InService drops devices under maintenance.
func InService(all []client.Device) []client.Device {
	kept := make([]client.Device, 0, len(all))
	for _, d := range all {
		if d.Status != client.StatusUnderMaintenance {
			kept = append(kept, d)
		}
	}
	return kept
}

// SelectableDevices keeps devices that are in service and reported free by
// the backend. An empty or nil available list leaves nothing selectable.
func SelectableDevices(all, available []client.Device) []client.Device {
	free := make(map[int64]bool, len(available))
	for _, d := range available {
		free[d.ID] = true
	}

	selectable := make([]client.Device, 0, len(all))
	for _, d := range InService(all) {
		if free[d.ID] {
			selectable = append(selectable, d)
		}
	}
	return selectable
}

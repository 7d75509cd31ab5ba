package device

import (
	"context"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"roomdesk/pkg/client"
)

type countingBackend struct {
	calls   atomic.Int32
	devices []client.Device
}

func (b *countingBackend) AvailableDevices(ctx context.Context, start, end time.Time) ([]client.Device, error) {
	b.calls.Add(1)
	return b.devices, nil
}

func TestLookupReturnsSelectableDevices(t *testing.T) {
	backend := &countingBackend{devices: []client.Device{
		{ID: 1, Name: "Projector", Status: client.StatusAvailable},
		{ID: 2, Name: "Speaker", Status: client.StatusUnderMaintenance},
	}}
	a := NewAvailability(10 * time.Millisecond)

	devices, err := a.Lookup(context.Background(), "s1", backend, time.Now(), time.Now().Add(time.Hour))

	require.NoError(t, err)
	require.Len(t, devices, 1)
	assert.Equal(t, int64(1), devices[0].ID)
	assert.Equal(t, 0, a.Pending())
}

func TestLookupSupersedesPendingCall(t *testing.T) {
	backend := &countingBackend{devices: []client.Device{{ID: 1, Status: client.StatusAvailable}}}
	a := NewAvailability(100 * time.Millisecond)
	start := time.Now()

	var wg sync.WaitGroup
	var firstErr error
	wg.Add(1)
	go func() {
		defer wg.Done()
		_, firstErr = a.Lookup(context.Background(), "s1", backend, start, start.Add(time.Hour))
	}()

	require.Eventually(t, func() bool { return a.Pending() == 1 }, time.Second, time.Millisecond)
	devices, err := a.Lookup(context.Background(), "s1", backend, start, start.Add(2*time.Hour))
	wg.Wait()

	require.NoError(t, err)
	assert.Len(t, devices, 1)
	assert.ErrorIs(t, firstErr, ErrSuperseded)
	assert.Equal(t, int32(1), backend.calls.Load())
}

func TestLookupKeysAreIndependent(t *testing.T) {
	backend := &countingBackend{}
	a := NewAvailability(20 * time.Millisecond)
	start := time.Now()

	var wg sync.WaitGroup
	for _, key := range []string{"a", "b", "c"} {
		wg.Add(1)
		go func(key string) {
			defer wg.Done()
			_, err := a.Lookup(context.Background(), key, backend, start, start.Add(time.Hour))
			assert.NoError(t, err)
		}(key)
	}
	wg.Wait()

	assert.Equal(t, int32(3), backend.calls.Load())
}

func TestLookupHonoursCallerCancel(t *testing.T) {
	backend := &countingBackend{}
	a := NewAvailability(time.Second)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := a.Lookup(ctx, "s1", backend, time.Now(), time.Now())

	assert.ErrorIs(t, err, context.Canceled)
	assert.Zero(t, backend.calls.Load())
}

func TestSelectableDevices(t *testing.T) {
	all := []client.Device{
		{ID: 1, Status: client.StatusAvailable},
		{ID: 2, Status: client.StatusAvailable},
		{ID: 3, Status: client.StatusUnderMaintenance},
	}
	available := []client.Device{{ID: 2}, {ID: 3}}

	got := SelectableDevices(all, available)

	require.Len(t, got, 1)
	assert.Equal(t, int64(2), got[0].ID)
	assert.Empty(t, SelectableDevices(all, nil))
	assert.Empty(t, SelectableDevices(all, []client.Device{}))
	assert.Len(t, InService(all), 2)
	assert.Equal(t, []int64{1, 3}, Unavailable([]int64{1, 2, 3}, got))
}

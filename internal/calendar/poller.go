// Package calendar keeps browser calendars in step with the backend: a
// poller per subscribed session, a websocket hub fanning out snapshots and
// an iCalendar export.
package calendar

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"net/http"
	"sort"
	"sync"
	"time"

	"roomdesk/pkg/client"
	"roomdesk/pkg/logger"
)

// Fetcher loads the meetings shown on a user's calendar.
type Fetcher interface {
	MyMeetings(ctx context.Context, from, to time.Time) ([]client.Meeting, error)
}

type Snapshot struct {
	Meetings    []client.Meeting `json:"meetings"`
	Fingerprint string           `json:"fingerprint"`
	FetchedAt   time.Time        `json:"fetched_at"`
}

// Poller re-fetches a calendar every interval and reports snapshots whose
// fingerprint differs from the previous one. A failed fetch keeps the last
// snapshot.
type Poller struct {
	api      Fetcher
	interval time.Duration
	log      *logger.Logger
	now      func() time.Time

	mu   sync.RWMutex
	last Snapshot
}

func NewPoller(api Fetcher, interval time.Duration, log *logger.Logger) *Poller {
	return &Poller{
		api:      api,
		interval: interval,
		log:      log,
		now:      time.Now,
	}
}

// Poll fetches once. changed is true when the result differs from the
// current snapshot.
func (p *Poller) Poll(ctx context.Context) (snap Snapshot, changed bool, err error) {
	meetings, err := p.api.MyMeetings(ctx, time.Time{}, time.Time{})
	if err != nil {
		return p.Snapshot(), false, err
	}

	next := Snapshot{
		Meetings:    meetings,
		Fingerprint: Fingerprint(meetings),
		FetchedAt:   p.now(),
	}

	p.mu.Lock()
	changed = next.Fingerprint != p.last.Fingerprint
	p.last = next
	p.mu.Unlock()

	return next, changed, nil
}

// Snapshot returns the last successful fetch.
func (p *Poller) Snapshot() Snapshot {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.last
}

// Run polls immediately and then every interval until ctx is done or the
// backend rejects the session. publish receives changed snapshots only.
func (p *Poller) Run(ctx context.Context, publish func(Snapshot)) error {
	ticker := time.NewTicker(p.interval)
	defer ticker.Stop()

	for {
		snap, changed, err := p.Poll(ctx)
		switch {
		case err == nil && changed:
			publish(snap)
		case client.IsStatus(err, http.StatusUnauthorized):
			return err
		case err != nil && ctx.Err() == nil:
			p.log.Warn("calendar poll failed", "error", err)
		}

		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
		}
	}
}

// Fingerprint identifies a meeting list independent of its order.
func Fingerprint(meetings []client.Meeting) string {
	sorted := make([]client.Meeting, len(meetings))
	copy(sorted, meetings)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i].ID < sorted[j].ID })

	data, err := json.Marshal(sorted)
	if err != nil {
		return ""
	}
	sum := sha256.Sum256(data)
	return hex.EncodeToString(sum[:])
}

package report

import (
	"context"
	"math"
	"sort"
	"time"

	"roomdesk/pkg/client"
	apperrors "roomdesk/pkg/errors"
	"roomdesk/pkg/logger"
)

// Backend is the part of the booking API this package calls.
type Backend interface {
	RoomUsage(ctx context.Context, from, to time.Time) ([]client.RoomUsage, error)
	DeviceUsage(ctx context.Context, from, to time.Time) ([]client.DeviceUsage, error)
	CancellationStats(ctx context.Context, from, to time.Time) (*client.CancellationStats, error)
	VisitorStats(ctx context.Context, from, to time.Time) ([]client.VisitorStat, error)
}

// DefaultRange is the report window used when the admin picks none.
const DefaultRange = 30 * 24 * time.Hour

type Range struct {
	From time.Time `json:"from"`
	To   time.Time `json:"to"`
}

type RoomRow struct {
	client.RoomUsage
	Share float64 `json:"share"`
}

type DeviceRow struct {
	client.DeviceUsage
	Share float64 `json:"share"`
}

type Cancellations struct {
	client.CancellationStats
	Rate float64 `json:"rate"`
}

type Visitors struct {
	Days  []client.VisitorStat `json:"days"`
	Total int                  `json:"total"`
	Peak  *client.VisitorStat  `json:"peak,omitempty"`
}

type Dashboard struct {
	Range         Range         `json:"range"`
	Rooms         []RoomRow     `json:"rooms"`
	Devices       []DeviceRow   `json:"devices"`
	Cancellations Cancellations `json:"cancellations"`
	Visitors      Visitors      `json:"visitors"`
}

type Service struct {
	log *logger.Logger
	now func() time.Time
}

func NewService(log *logger.Logger) *Service {
	return &Service{log: log, now: time.Now}
}

// Resolve fills a missing bound from DefaultRange and rejects inverted
// windows.
func (s *Service) Resolve(from, to time.Time) (Range, error) {
	if to.IsZero() {
		to = s.now()
	}
	if from.IsZero() {
		from = to.Add(-DefaultRange)
	}
	if to.Before(from) {
		return Range{}, apperrors.New(apperrors.CodeValidation, "report range ends before it starts")
	}
	return Range{From: from, To: to}, nil
}

func (s *Service) Rooms(ctx context.Context, api Backend, r Range) ([]RoomRow, error) {
	usage, err := api.RoomUsage(ctx, r.From, r.To)
	if err != nil {
		return nil, err
	}
	return RoomRows(usage), nil
}

func (s *Service) Devices(ctx context.Context, api Backend, r Range) ([]DeviceRow, error) {
	usage, err := api.DeviceUsage(ctx, r.From, r.To)
	if err != nil {
		return nil, err
	}
	return DeviceRows(usage), nil
}

func (s *Service) Cancellations(ctx context.Context, api Backend, r Range) (Cancellations, error) {
	stats, err := api.CancellationStats(ctx, r.From, r.To)
	if err != nil {
		return Cancellations{}, err
	}
	return CancellationSummary(*stats), nil
}

func (s *Service) Visitors(ctx context.Context, api Backend, r Range) (Visitors, error) {
	days, err := api.VisitorStats(ctx, r.From, r.To)
	if err != nil {
		return Visitors{}, err
	}
	return VisitorSummary(days), nil
}

// Dashboard gathers the four reports for one window.
func (s *Service) Dashboard(ctx context.Context, api Backend, r Range) (*Dashboard, error) {
	d := &Dashboard{Range: r}
	var err error
	if d.Rooms, err = s.Rooms(ctx, api, r); err != nil {
		return nil, err
	}
	if d.Devices, err = s.Devices(ctx, api, r); err != nil {
		return nil, err
	}
	if d.Cancellations, err = s.Cancellations(ctx, api, r); err != nil {
		return nil, err
	}
	if d.Visitors, err = s.Visitors(ctx, api, r); err != nil {
		return nil, err
	}
	s.log.Debug("report dashboard built", "from", r.From, "to", r.To, "rooms", len(d.Rooms))
	return d, nil
}

// RoomRows orders rooms by booked hours, busiest first, and adds each
// room's share of all booked hours.
func RoomRows(usage []client.RoomUsage) []RoomRow {
	var total float64
	for _, u := range usage {
		total += u.TotalHours
	}
	rows := make([]RoomRow, len(usage))
	for i, u := range usage {
		rows[i] = RoomRow{RoomUsage: u, Share: ratio(u.TotalHours, total)}
	}
	sort.SliceStable(rows, func(i, j int) bool {
		return rows[i].TotalHours > rows[j].TotalHours
	})
	return rows
}

func DeviceRows(usage []client.DeviceUsage) []DeviceRow {
	var total float64
	for _, u := range usage {
		total += u.TotalHours
	}
	rows := make([]DeviceRow, len(usage))
	for i, u := range usage {
		rows[i] = DeviceRow{DeviceUsage: u, Share: ratio(u.TotalHours, total)}
	}
	sort.SliceStable(rows, func(i, j int) bool {
		return rows[i].TotalHours > rows[j].TotalHours
	})
	return rows
}

func CancellationSummary(stats client.CancellationStats) Cancellations {
	return Cancellations{
		CancellationStats: stats,
		Rate:              ratio(float64(stats.CancelledMeetings), float64(stats.TotalMeetings)),
	}
}

func VisitorSummary(days []client.VisitorStat) Visitors {
	v := Visitors{Days: days}
	if v.Days == nil {
		v.Days = []client.VisitorStat{}
	}
	for i := range days {
		v.Total += days[i].Count
		if v.Peak == nil || days[i].Count > v.Peak.Count {
			v.Peak = &days[i]
		}
	}
	return v
}

// ratio returns part/total rounded to four decimals, or 0 for an empty
// total.
func ratio(part, total float64) float64 {
	if total <= 0 {
		return 0
	}
	return math.Round(part/total*10000) / 10000
}

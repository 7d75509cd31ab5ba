package room

import (
	"context"
	"sort"

	"roomdesk/pkg/client"
	"roomdesk/pkg/logger"
)

type Backend interface {
	ListRooms(ctx context.Context) ([]client.Room, error)
	GetRoom(ctx context.Context, id int64) (*client.Room, error)
	CreateRoom(ctx context.Context, req client.RoomRequest) (*client.Room, error)
	UpdateRoom(ctx context.Context, id int64, req client.RoomRequest) (*client.Room, error)
	DeleteRoom(ctx context.Context, id int64) error
}

type Service struct {
	log *logger.Logger
}

func NewService(log *logger.Logger) *Service {
	return &Service{log: log}
}

// Filter narrows the room list shown in the booking form.
type Filter struct {
	MinCapacity   int
	AvailableOnly bool
	VIP           *bool
}

func (s *Service) List(ctx context.Context, api Backend, filter Filter) ([]client.Room, error) {
	rooms, err := api.ListRooms(ctx)
	if err != nil {
		return nil, err
	}
	return FilterRooms(rooms, filter), nil
}

func (s *Service) Get(ctx context.Context, api Backend, id int64) (*client.Room, error) {
	return api.GetRoom(ctx, id)
}

func (s *Service) Create(ctx context.Context, api Backend, form *RoomForm) (*client.Room, error) {
	room, err := api.CreateRoom(ctx, form.toRequest())
	if err != nil {
		return nil, err
	}
	s.log.Info("room created", "id", room.ID, "name", room.Name, "vip", room.RequiresApproval)
	return room, nil
}

// Update replaces the room. An omitted status keeps the current one.
func (s *Service) Update(ctx context.Context, api Backend, id int64, form *RoomForm) (*client.Room, error) {
	req := form.toRequest()
	if form.Status == "" {
		current, err := api.GetRoom(ctx, id)
		if err != nil {
			return nil, err
		}
		req.Status = current.Status
	}

	room, err := api.UpdateRoom(ctx, id, req)
	if err != nil {
		return nil, err
	}
	s.log.Info("room updated", "id", id, "status", room.Status)
	return room, nil
}

func (s *Service) Delete(ctx context.Context, api Backend, id int64) error {
	if err := api.DeleteRoom(ctx, id); err != nil {
		return err
	}
	s.log.Info("room deleted", "id", id)
	return nil
}

// FilterRooms applies filter and orders rooms by capacity, then name.
func FilterRooms(rooms []client.Room, filter Filter) []client.Room {
	out := make([]client.Room, 0, len(rooms))
	for _, r := range rooms {
		if filter.AvailableOnly && r.Status == client.StatusUnderMaintenance {
			continue
		}
		if r.Capacity < filter.MinCapacity {
			continue
		}
		if filter.VIP != nil && r.RequiresApproval != *filter.VIP {
			continue
		}
		out = append(out, r)
	}
	sort.SliceStable(out, func(i, j int) bool {
		if out[i].Capacity != out[j].Capacity {
			return out[i].Capacity < out[j].Capacity
		}
		return out[i].Name < out[j].Name
	})
	return out
}

type RoomForm struct {
	Name             string   `json:"name" validate:"required,min=2,max=100"`
	Location         string   `json:"location" validate:"max=200"`
	Capacity         int      `json:"capacity" validate:"required,min=1,max=1000"`
	Status           string   `json:"status" validate:"omitempty,oneof=AVAILABLE UNDER_MAINTENANCE"`
	RequiresApproval bool     `json:"requires_approval"`
	FixedDevices     []string `json:"fixed_devices" validate:"dive,required,max=100"`
}

func (f *RoomForm) toRequest() client.RoomRequest {
	status := client.ResourceStatus(f.Status)
	if status == "" {
		status = client.StatusAvailable
	}
	return client.RoomRequest{
		Name:             f.Name,
		Location:         f.Location,
		Capacity:         f.Capacity,
		Status:           status,
		RequiresApproval: f.RequiresApproval,
		FixedDevices:     f.FixedDevices,
	}
}
